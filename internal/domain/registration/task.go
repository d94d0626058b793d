package registration

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/patrickdauer/Sistema-Prosperar-sub000/internal/domain/shared"
)

// Department is the firm department responsible for a task
type Department string

const (
	DepartmentSocietario Department = "societario"
	DepartmentFiscal     Department = "fiscal"
	DepartmentPessoal    Department = "pessoal"
)

// IsValid reports whether d is a known department
func (d Department) IsValid() bool {
	return d == DepartmentSocietario || d == DepartmentFiscal || d == DepartmentPessoal
}

// TaskStatus is the progress of a task
type TaskStatus string

const (
	TaskStatusPending    TaskStatus = "pending"
	TaskStatusInProgress TaskStatus = "in_progress"
	TaskStatusCompleted  TaskStatus = "completed"
)

// IsValid reports whether s is a known task status
func (s TaskStatus) IsValid() bool {
	return s == TaskStatusPending || s == TaskStatusInProgress || s == TaskStatusCompleted
}

// DefaultEstimatedDays is used when a template has no estimate
const DefaultEstimatedDays = 3

// Task is a unit of work for a registration or a client
type Task struct {
	shared.BaseEntity
	RegistrationID *uuid.UUID
	ClienteID      *uuid.UUID
	TemplateID     *uuid.UUID
	Title          string
	Description    string
	Department     Department
	Status         TaskStatus
	Order          int
	AssignedTo     *uuid.UUID
	DueDate        *time.Time
	CompletedAt    *time.Time
	Observacao     string
	DataLembrete   *time.Time
	CNPJ           string
}

// NewTask creates a pending ad-hoc task
func NewTask(title, description string, department Department) (*Task, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, shared.NewDomainError("INVALID_TITLE", "Título da tarefa é obrigatório")
	}
	if !department.IsValid() {
		return nil, shared.NewDomainError("INVALID_DEPARTMENT", "Departamento inválido: "+string(department))
	}
	return &Task{
		BaseEntity:  shared.NewBaseEntity(),
		Title:       title,
		Description: description,
		Department:  department,
		Status:      TaskStatusPending,
	}, nil
}

// NewTaskFromTemplate instantiates a template, due EstimatedDays after now
func NewTaskFromTemplate(tpl *TaskTemplate, now time.Time) *Task {
	days := tpl.EstimatedDays
	if days <= 0 {
		days = DefaultEstimatedDays
	}
	due := now.Add(time.Duration(days) * 24 * time.Hour)
	tplID := tpl.ID
	task := &Task{
		BaseEntity:  shared.NewBaseEntity(),
		TemplateID:  &tplID,
		Title:       tpl.Name,
		Description: tpl.Description,
		Department:  tpl.Department,
		Status:      TaskStatusPending,
		Order:       tpl.Order,
		DueDate:     &due,
	}
	task.CreatedAt = now
	task.UpdatedAt = now
	return task
}

// ChangeStatus sets the status; completing a task stamps CompletedAt
func (t *Task) ChangeStatus(status TaskStatus, now time.Time) error {
	if !status.IsValid() {
		return shared.NewDomainError("INVALID_STATUS", "Status inválido: "+string(status))
	}
	t.Status = status
	if status == TaskStatusCompleted {
		t.CompletedAt = &now
	} else {
		t.CompletedAt = nil
	}
	t.UpdatedAt = now
	return nil
}

// Assign gives the task to a user and starts it
func (t *Task) Assign(userID uuid.UUID) {
	t.AssignedTo = &userID
	t.Status = TaskStatusInProgress
	t.UpdatedAt = time.Now()
}

// Editable task fields accepted by ApplyField
const (
	FieldStatus       = "status"
	FieldObservacao   = "observacao"
	FieldDataLembrete = "data_lembrete"
	FieldCNPJ         = "cnpj"
	FieldTitle        = "title"
	FieldDescription  = "description"
	FieldMultiple     = "multiple"
)

// ApplyField updates a single whitelisted field. The "multiple" field takes
// a map of whitelisted field names to values.
func (t *Task) ApplyField(field string, value any, now time.Time) error {
	if field == FieldMultiple {
		values, ok := value.(map[string]any)
		if !ok {
			return shared.NewDomainError("INVALID_FIELD_VALUE", "multiple requer um objeto de campos")
		}
		for k, v := range values {
			if k == FieldMultiple {
				return shared.NewDomainError("INVALID_FIELD", "Campo inválido: "+k)
			}
			if err := t.ApplyField(k, v, now); err != nil {
				return err
			}
		}
		return nil
	}

	str := func() (string, error) {
		if value == nil {
			return "", nil
		}
		s, ok := value.(string)
		if !ok {
			return "", shared.NewDomainError("INVALID_FIELD_VALUE", fmt.Sprintf("Valor inválido para %s", field))
		}
		return s, nil
	}

	s, err := str()
	if err != nil {
		return err
	}

	switch field {
	case FieldStatus:
		return t.ChangeStatus(TaskStatus(s), now)
	case FieldObservacao:
		t.Observacao = s
	case FieldCNPJ:
		t.CNPJ = s
	case FieldTitle:
		if strings.TrimSpace(s) == "" {
			return shared.NewDomainError("INVALID_TITLE", "Título da tarefa é obrigatório")
		}
		t.Title = strings.TrimSpace(s)
	case FieldDescription:
		t.Description = s
	case FieldDataLembrete:
		if s == "" {
			t.DataLembrete = nil
			break
		}
		d, err := parseDate(s)
		if err != nil {
			return shared.NewDomainError("INVALID_FIELD_VALUE", "Data de lembrete inválida: "+s)
		}
		t.DataLembrete = &d
	default:
		return shared.NewDomainError("INVALID_FIELD", "Campo inválido: "+field)
	}
	t.UpdatedAt = now
	return nil
}

func parseDate(s string) (time.Time, error) {
	if d, err := time.Parse("2006-01-02", s); err == nil {
		return d, nil
	}
	return time.Parse(time.RFC3339, s)
}

// Activity actions recorded for tasks
const (
	ActionTaskCompleted = "task_completed"
	ActionTaskUpdated   = "task_updated"
	ActionTaskAssigned  = "task_assigned"
	ActionTaskCreated   = "task_created"
	ActionFileAttached  = "file_attached"
)

// TaskActivity is an audit entry for a task
type TaskActivity struct {
	ID          uuid.UUID
	TaskID      uuid.UUID
	UserID      *uuid.UUID
	Action      string
	Description string
	CreatedAt   time.Time
}

// NewTaskActivity creates an activity entry
func NewTaskActivity(taskID uuid.UUID, userID *uuid.UUID, action, description string) *TaskActivity {
	return &TaskActivity{
		ID:          uuid.New(),
		TaskID:      taskID,
		UserID:      userID,
		Action:      action,
		Description: description,
		CreatedAt:   time.Now(),
	}
}

// StatusActivity describes a status change the way the dashboard shows it
func StatusActivity(t *Task, userID *uuid.UUID) *TaskActivity {
	if t.Status == TaskStatusCompleted {
		return NewTaskActivity(t.ID, userID, ActionTaskCompleted, fmt.Sprintf("Tarefa \"%s\" foi concluída", t.Title))
	}
	return NewTaskActivity(t.ID, userID, ActionTaskUpdated, fmt.Sprintf("Tarefa \"%s\" foi atualizada", t.Title))
}

// TaskFile is a document attached to a task
type TaskFile struct {
	ID           uuid.UUID
	TaskID       uuid.UUID
	FileName     string
	OriginalName string
	StorageKey   string
	MimeType     string
	Size         int64
	UploadedBy   *uuid.UUID
	CreatedAt    time.Time
}
