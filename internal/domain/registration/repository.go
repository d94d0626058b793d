package registration

import (
	"context"

	"github.com/google/uuid"
)

// RegistrationRepository persists business registrations
type RegistrationRepository interface {
	Create(ctx context.Context, r *BusinessRegistration) error
	Update(ctx context.Context, r *BusinessRegistration) error
	FindByID(ctx context.Context, id uuid.UUID) (*BusinessRegistration, error)
	// FindAll returns registrations newest first
	FindAll(ctx context.Context) ([]*BusinessRegistration, error)
	// Delete removes the registration together with its tasks, their
	// activities and file records
	Delete(ctx context.Context, id uuid.UUID) error
}

// TaskRepository persists tasks
type TaskRepository interface {
	Create(ctx context.Context, t *Task) error
	CreateBatch(ctx context.Context, tasks []*Task) error
	Update(ctx context.Context, t *Task) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*Task, error)
	// FindByRegistration returns tasks ordered by Order
	FindByRegistration(ctx context.Context, registrationID uuid.UUID) ([]*Task, error)
	// FindByCliente returns tasks ordered by Order
	FindByCliente(ctx context.Context, clienteID uuid.UUID) ([]*Task, error)
	// FindByAssignee returns tasks ordered by due date
	FindByAssignee(ctx context.Context, userID uuid.UUID) ([]*Task, error)
	// FindClienteOnly returns tasks linked to a client and no registration
	FindClienteOnly(ctx context.Context) ([]*Task, error)
}

// TaskTemplateRepository persists task templates
type TaskTemplateRepository interface {
	Create(ctx context.Context, t *TaskTemplate) error
	Update(ctx context.Context, t *TaskTemplate) error
	FindByID(ctx context.Context, id uuid.UUID) (*TaskTemplate, error)
	// FindAll returns templates ordered by department and Order
	FindAll(ctx context.Context, activeOnly bool) ([]*TaskTemplate, error)
	Count(ctx context.Context) (int64, error)
}

// TaskActivityRepository stores task audit entries
type TaskActivityRepository interface {
	Create(ctx context.Context, a *TaskActivity) error
	// FindByTask returns activities newest first
	FindByTask(ctx context.Context, taskID uuid.UUID) ([]*TaskActivity, error)
}

// TaskFileRepository stores task attachments metadata
type TaskFileRepository interface {
	Create(ctx context.Context, f *TaskFile) error
	FindByID(ctx context.Context, id uuid.UUID) (*TaskFile, error)
	FindByTask(ctx context.Context, taskID uuid.UUID) ([]*TaskFile, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
