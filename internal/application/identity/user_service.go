package identity

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/patrickdauer/Sistema-Prosperar-sub000/internal/domain/identity"
	"github.com/patrickdauer/Sistema-Prosperar-sub000/internal/domain/shared"
	"github.com/patrickdauer/Sistema-Prosperar-sub000/internal/infrastructure/auth"
	"go.uber.org/zap"
)

// AdminUsername is the account created by EnsureAdmin
const AdminUsername = "admin"

// UserService manages backoffice accounts
type UserService struct {
	userRepo    identity.UserRepository
	revocations auth.RevocationList
	tokenTTL    time.Duration
	logger      *zap.Logger
}

// NewUserService creates a new user service. tokenTTL bounds how long a
// user-wide revocation has to be remembered.
func NewUserService(
	userRepo identity.UserRepository,
	revocations auth.RevocationList,
	tokenTTL time.Duration,
	logger *zap.Logger,
) *UserService {
	return &UserService{
		userRepo:    userRepo,
		revocations: revocations,
		tokenTTL:    tokenTTL,
		logger:      logger,
	}
}

// ListUsers returns every account (admin only)
func (s *UserService) ListUsers(ctx context.Context, actor Actor) ([]UserInfo, error) {
	if !actor.IsAdmin() {
		return nil, shared.ErrForbidden
	}
	users, err := s.userRepo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	result := make([]UserInfo, len(users))
	for i, u := range users {
		result[i] = ToUserInfo(u)
	}
	return result, nil
}

// GetUser returns one account (self or admin)
func (s *UserService) GetUser(ctx context.Context, actor Actor, id uuid.UUID) (*UserInfo, error) {
	if !actor.IsAdmin() && actor.ID != id {
		return nil, shared.ErrForbidden
	}
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	info := ToUserInfo(user)
	return &info, nil
}

// CreateUser creates an account (admin only)
func (s *UserService) CreateUser(ctx context.Context, actor Actor, input CreateUserInput) (*UserInfo, error) {
	if !actor.IsAdmin() {
		return nil, shared.ErrForbidden
	}

	exists, err := s.userRepo.ExistsByUsername(ctx, input.Username)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "Username already exists")
	}

	user, err := identity.NewUser(input.Username, input.Password, input.Name)
	if err != nil {
		return nil, err
	}
	if err := user.SetEmail(input.Email); err != nil {
		return nil, err
	}
	user.SetDepartment(input.Department)
	if input.Role != "" {
		if err := user.SetRole(identity.Role(input.Role)); err != nil {
			return nil, err
		}
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		s.logger.Error("Failed to create user", zap.String("username", user.Username), zap.Error(err))
		return nil, err
	}

	s.logger.Info("User created",
		zap.String("user_id", user.ID.String()),
		zap.String("username", user.Username),
		zap.String("role", string(user.Role)))

	info := ToUserInfo(user)
	return &info, nil
}

// UpdateUser applies a partial update. Users may edit themselves; only
// admins may change role or active flag, or edit other accounts.
func (s *UserService) UpdateUser(ctx context.Context, actor Actor, id uuid.UUID, input UpdateUserInput) (*UserInfo, error) {
	if !actor.IsAdmin() {
		if actor.ID != id {
			return nil, shared.ErrForbidden
		}
		if input.Role != nil || input.IsActive != nil {
			return nil, shared.NewDomainError("FORBIDDEN", "Only administrators can change role or status")
		}
	}

	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		if err := user.SetName(*input.Name); err != nil {
			return nil, err
		}
	}
	if input.Email != nil {
		if err := user.SetEmail(*input.Email); err != nil {
			return nil, err
		}
	}
	if input.Department != nil {
		user.SetDepartment(*input.Department)
	}
	if input.Role != nil {
		if err := user.SetRole(identity.Role(*input.Role)); err != nil {
			return nil, err
		}
	}
	deactivated := false
	if input.IsActive != nil {
		deactivated = user.IsActive && !*input.IsActive
		user.SetActive(*input.IsActive)
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}

	if deactivated {
		s.revokeUserTokens(ctx, user.ID)
	}

	info := ToUserInfo(user)
	return &info, nil
}

// DeleteUser removes an account (admin only, never the actor's own)
func (s *UserService) DeleteUser(ctx context.Context, actor Actor, id uuid.UUID) error {
	if !actor.IsAdmin() {
		return shared.ErrForbidden
	}
	if actor.ID == id {
		return shared.NewDomainError("INVALID_STATE", "You cannot delete your own account")
	}

	if err := s.userRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.revokeUserTokens(ctx, id)

	s.logger.Info("User deleted", zap.String("user_id", id.String()), zap.String("by", actor.ID.String()))
	return nil
}

// ChangePassword changes a password. Users changing their own password must
// supply the current one; admins may reset any other account.
func (s *UserService) ChangePassword(ctx context.Context, actor Actor, id uuid.UUID, input ChangePasswordInput) error {
	self := actor.ID == id
	if !self && !actor.IsAdmin() {
		return shared.ErrForbidden
	}

	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}

	if self {
		err = user.ChangePassword(input.CurrentPassword, input.NewPassword)
	} else {
		err = user.SetPassword(input.NewPassword)
	}
	if err != nil {
		return err
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		s.logger.Error("Failed to update user after password change", zap.Error(err))
		return shared.NewDomainError("INTERNAL_ERROR", "Failed to update password")
	}

	if !self {
		s.revokeUserTokens(ctx, id)
	}

	s.logger.Info("User password changed", zap.String("user_id", id.String()))
	return nil
}

// EnsureAdmin creates the default administrator when no admin account
// exists. It reports whether an account was created.
func (s *UserService) EnsureAdmin(ctx context.Context, password string) (bool, error) {
	count, err := s.userRepo.CountByRole(ctx, identity.RoleAdmin)
	if err != nil {
		return false, err
	}
	if count > 0 {
		return false, nil
	}
	if password == "" {
		s.logger.Warn("No administrator exists and no seed password is configured")
		return false, nil
	}

	user, err := identity.NewUser(AdminUsername, password, "Administrador")
	if err != nil {
		return false, err
	}
	if err := user.SetRole(identity.RoleAdmin); err != nil {
		return false, err
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return false, err
	}

	s.logger.Info("Default administrator created", zap.String("username", AdminUsername))
	return true, nil
}

func (s *UserService) revokeUserTokens(ctx context.Context, id uuid.UUID) {
	if s.revocations == nil {
		return
	}
	if err := s.revocations.RevokeUser(ctx, id.String(), s.tokenTTL); err != nil {
		s.logger.Warn("Failed to revoke user tokens", zap.String("user_id", id.String()), zap.Error(err))
	}
}
