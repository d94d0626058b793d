package registration

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/patrickdauer/Sistema-Prosperar-sub000/internal/domain/registration"
	"github.com/patrickdauer/Sistema-Prosperar-sub000/internal/domain/shared"
	"go.uber.org/zap"
)

// TemplateService manages the task templates instantiated for new
// registrations and clients.
type TemplateService struct {
	repo   registration.TaskTemplateRepository
	logger *zap.Logger
}

// NewTemplateService creates a new TemplateService
func NewTemplateService(repo registration.TaskTemplateRepository, logger *zap.Logger) *TemplateService {
	return &TemplateService{repo: repo, logger: logger}
}

// List returns templates ordered by department and order
func (s *TemplateService) List(ctx context.Context, activeOnly bool) ([]TaskTemplateResponse, error) {
	templates, err := s.repo.FindAll(ctx, activeOnly)
	if err != nil {
		return nil, err
	}
	out := make([]TaskTemplateResponse, len(templates))
	for i, t := range templates {
		out[i] = ToTaskTemplateResponse(t)
	}
	return out, nil
}

// Create adds a template
func (s *TemplateService) Create(ctx context.Context, req TaskTemplateRequest) (*TaskTemplateResponse, error) {
	tpl, err := registration.NewTaskTemplate(req.Name, req.Description, registration.Department(req.Department),
		req.Order, req.EstimatedDays, req.IsRequired)
	if err != nil {
		return nil, err
	}
	if req.IsActive != nil && !*req.IsActive {
		tpl.Deactivate()
	}
	if err := s.repo.Create(ctx, tpl); err != nil {
		return nil, err
	}
	resp := ToTaskTemplateResponse(tpl)
	return &resp, nil
}

// Update replaces a template's fields
func (s *TemplateService) Update(ctx context.Context, id uuid.UUID, req TaskTemplateRequest) (*TaskTemplateResponse, error) {
	tpl, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	updated, err := registration.NewTaskTemplate(req.Name, req.Description, registration.Department(req.Department),
		req.Order, req.EstimatedDays, req.IsRequired)
	if err != nil {
		return nil, err
	}
	tpl.Name = updated.Name
	tpl.Description = updated.Description
	tpl.Department = updated.Department
	tpl.Order = updated.Order
	tpl.EstimatedDays = updated.EstimatedDays
	tpl.IsRequired = updated.IsRequired
	if req.IsActive != nil {
		tpl.IsActive = *req.IsActive
	}
	tpl.UpdatedAt = time.Now()

	if err := s.repo.Update(ctx, tpl); err != nil {
		return nil, err
	}
	resp := ToTaskTemplateResponse(tpl)
	return &resp, nil
}

// Deactivate stops a template from being instantiated. Existing tasks keep
// their reference.
func (s *TemplateService) Deactivate(ctx context.Context, id uuid.UUID) error {
	tpl, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if !tpl.IsActive {
		return shared.NewDomainError("INVALID_STATE", "Modelo já está inativo")
	}
	tpl.Deactivate()
	return s.repo.Update(ctx, tpl)
}

// SeedDefaults stores the given templates when none exist yet and returns
// how many were created.
func (s *TemplateService) SeedDefaults(ctx context.Context, defaults []TaskTemplateRequest) (int, error) {
	count, err := s.repo.Count(ctx)
	if err != nil {
		return 0, err
	}
	if count > 0 {
		return 0, nil
	}

	for _, d := range defaults {
		if _, err := s.Create(ctx, d); err != nil {
			return 0, err
		}
	}
	s.logger.Info("Default task templates created", zap.Int("count", len(defaults)))
	return len(defaults), nil
}
