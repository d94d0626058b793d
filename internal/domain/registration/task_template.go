package registration

import (
	"strings"
	"time"

	"github.com/patrickdauer/Sistema-Prosperar-sub000/internal/domain/shared"
)

// TaskTemplate describes a task created for every new registration or client
type TaskTemplate struct {
	shared.BaseEntity
	Name          string
	Description   string
	Department    Department
	Order         int
	EstimatedDays int
	IsRequired    bool
	IsActive      bool
}

// NewTaskTemplate creates an active template
func NewTaskTemplate(name, description string, department Department, order, estimatedDays int, required bool) (*TaskTemplate, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Nome do modelo é obrigatório")
	}
	if !department.IsValid() {
		return nil, shared.NewDomainError("INVALID_DEPARTMENT", "Departamento inválido: "+string(department))
	}
	if estimatedDays < 0 {
		return nil, shared.NewDomainError("INVALID_ESTIMATED_DAYS", "Prazo estimado não pode ser negativo")
	}
	return &TaskTemplate{
		BaseEntity:    shared.NewBaseEntity(),
		Name:          name,
		Description:   description,
		Department:    department,
		Order:         order,
		EstimatedDays: estimatedDays,
		IsRequired:    required,
		IsActive:      true,
	}, nil
}

// Deactivate stops the template from being instantiated
func (t *TaskTemplate) Deactivate() {
	t.IsActive = false
	t.UpdatedAt = time.Now()
}
