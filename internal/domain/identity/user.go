package identity

import (
	"regexp"
	"strings"
	"time"

	"github.com/patrickdauer/Sistema-Prosperar-sub000/internal/domain/shared"
	"golang.org/x/crypto/bcrypt"
)

// Role is the authorization level of a backoffice user
type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
)

// IsValid reports whether r is a known role
func (r Role) IsValid() bool {
	return r == RoleAdmin || r == RoleUser
}

// Password cost for bcrypt
const bcryptCost = 10

// MinPasswordLength is the shortest accepted password
const MinPasswordLength = 6

var usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9._-]+$`)

// User is a backoffice account. Users log in with username and password and
// are either admins or regular staff of a department.
type User struct {
	shared.BaseEntity
	Username     string
	PasswordHash string
	Name         string
	Email        string
	Role         Role
	Department   string
	IsActive     bool
}

// NewUser creates an active user with the default role
func NewUser(username, password, name string) (*User, error) {
	if err := validateUsername(username); err != nil {
		return nil, err
	}
	if strings.TrimSpace(name) == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Name cannot be empty")
	}

	user := &User{
		BaseEntity: shared.NewBaseEntity(),
		Username:   strings.ToLower(strings.TrimSpace(username)),
		Name:       strings.TrimSpace(name),
		Role:       RoleUser,
		IsActive:   true,
	}
	if err := user.SetPassword(password); err != nil {
		return nil, err
	}
	return user, nil
}

// SetEmail sets the user's email
func (u *User) SetEmail(email string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	if email != "" && !strings.Contains(email, "@") {
		return shared.NewDomainError("INVALID_EMAIL", "Invalid email format")
	}
	u.Email = email
	u.touch()
	return nil
}

// SetName sets the display name
func (u *User) SetName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Name cannot be empty")
	}
	u.Name = name
	u.touch()
	return nil
}

// SetDepartment sets the department the user works in
func (u *User) SetDepartment(department string) {
	u.Department = strings.TrimSpace(department)
	u.touch()
}

// SetRole changes the user's role
func (u *User) SetRole(role Role) error {
	if !role.IsValid() {
		return shared.NewDomainError("INVALID_ROLE", "Role must be admin or user")
	}
	u.Role = role
	u.touch()
	return nil
}

// SetActive enables or disables the account
func (u *User) SetActive(active bool) {
	u.IsActive = active
	u.touch()
}

// ChangePassword changes the password after checking the current one
func (u *User) ChangePassword(currentPassword, newPassword string) error {
	if !u.VerifyPassword(currentPassword) {
		return shared.NewDomainError("INVALID_PASSWORD", "Current password is incorrect")
	}
	return u.SetPassword(newPassword)
}

// SetPassword sets a new password (admin reset, no current password check)
func (u *User) SetPassword(newPassword string) error {
	if len(newPassword) < MinPasswordLength {
		return shared.NewDomainError("INVALID_PASSWORD", "Password must be at least 6 characters")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcryptCost)
	if err != nil {
		return shared.NewDomainError("PASSWORD_HASH_ERROR", "Failed to hash password")
	}
	u.PasswordHash = string(hash)
	u.touch()
	return nil
}

// VerifyPassword verifies if the provided password matches
func (u *User) VerifyPassword(password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) == nil
}

// IsAdmin returns true for admin accounts
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// CanManage reports whether u may edit the account identified by target
func (u *User) CanManage(target *User) bool {
	return u.IsAdmin() || u.ID == target.ID
}

func (u *User) touch() {
	u.UpdatedAt = time.Now()
}

func validateUsername(username string) error {
	username = strings.TrimSpace(username)
	if username == "" {
		return shared.NewDomainError("INVALID_USERNAME", "Username cannot be empty")
	}
	if len(username) < 3 {
		return shared.NewDomainError("INVALID_USERNAME", "Username must be at least 3 characters")
	}
	if len(username) > 100 {
		return shared.NewDomainError("INVALID_USERNAME", "Username cannot exceed 100 characters")
	}
	if !usernamePattern.MatchString(username) {
		return shared.NewDomainError("INVALID_USERNAME", "Username can only contain letters, numbers, dots, underscores and hyphens")
	}
	return nil
}
