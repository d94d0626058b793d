package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/patrickdauer/Sistema-Prosperar-sub000/internal/domain/registration"
	"github.com/shopspring/decimal"
)

// BusinessRegistrationModel is the persistence model for the BusinessRegistration aggregate root.
type BusinessRegistrationModel struct {
	BaseModel
	RazaoSocial           string                     `gorm:"type:varchar(255);not null"`
	NomeFantasia          string                     `gorm:"type:varchar(255)"`
	Endereco              string                     `gorm:"type:text;not null"`
	InscricaoImobiliaria  string                     `gorm:"type:varchar(100)"`
	Metragem              int                        `gorm:"not null;default:0"`
	TelefoneEmpresa       string                     `gorm:"type:varchar(30)"`
	EmailEmpresa          string                     `gorm:"type:varchar(200)"`
	CapitalSocial         decimal.Decimal            `gorm:"type:decimal(18,2);not null;default:0"`
	AtividadePrincipal    string                     `gorm:"type:text"`
	AtividadesSecundarias string                     `gorm:"type:text"`
	AtividadesSugeridas   StringList                 `gorm:"type:jsonb;default:'[]'"`
	Socios                JSON[[]registration.Socio] `gorm:"type:jsonb;default:'[]'"`
	DriveFolder           string                     `gorm:"type:varchar(500)"`
	PDFKey                string                     `gorm:"type:varchar(500)"`
	Status                registration.Status        `gorm:"type:varchar(20);not null;default:'pending';index"`
}

// TableName returns the table name for GORM
func (BusinessRegistrationModel) TableName() string {
	return "business_registrations"
}

// ToDomain converts the persistence model to a domain BusinessRegistration.
func (m *BusinessRegistrationModel) ToDomain() *registration.BusinessRegistration {
	return &registration.BusinessRegistration{
		BaseAggregateRoot:     m.BaseModel.ToAggregateRoot(),
		RazaoSocial:           m.RazaoSocial,
		NomeFantasia:          m.NomeFantasia,
		Endereco:              m.Endereco,
		InscricaoImobiliaria:  m.InscricaoImobiliaria,
		Metragem:              m.Metragem,
		TelefoneEmpresa:       m.TelefoneEmpresa,
		EmailEmpresa:          m.EmailEmpresa,
		CapitalSocial:         m.CapitalSocial,
		AtividadePrincipal:    m.AtividadePrincipal,
		AtividadesSecundarias: m.AtividadesSecundarias,
		AtividadesSugeridas:   stringsOrEmpty(m.AtividadesSugeridas.Data),
		Socios:                m.Socios.Data,
		DriveFolder:           m.DriveFolder,
		PDFKey:                m.PDFKey,
		Status:                m.Status,
	}
}

// FromDomain populates the persistence model from a domain BusinessRegistration.
func (m *BusinessRegistrationModel) FromDomain(r *registration.BusinessRegistration) {
	m.FromDomainBaseEntity(r.BaseEntity)
	m.RazaoSocial = r.RazaoSocial
	m.NomeFantasia = r.NomeFantasia
	m.Endereco = r.Endereco
	m.InscricaoImobiliaria = r.InscricaoImobiliaria
	m.Metragem = r.Metragem
	m.TelefoneEmpresa = r.TelefoneEmpresa
	m.EmailEmpresa = r.EmailEmpresa
	m.CapitalSocial = r.CapitalSocial
	m.AtividadePrincipal = r.AtividadePrincipal
	m.AtividadesSecundarias = r.AtividadesSecundarias
	m.AtividadesSugeridas = NewJSON(stringsOrEmpty(r.AtividadesSugeridas))
	socios := r.Socios
	if socios == nil {
		socios = []registration.Socio{}
	}
	m.Socios = NewJSON(socios)
	m.DriveFolder = r.DriveFolder
	m.PDFKey = r.PDFKey
	m.Status = r.Status
}

// BusinessRegistrationModelFromDomain creates a new persistence model from a domain BusinessRegistration.
func BusinessRegistrationModelFromDomain(r *registration.BusinessRegistration) *BusinessRegistrationModel {
	m := &BusinessRegistrationModel{}
	m.FromDomain(r)
	return m
}

// TaskModel is the persistence model for the Task entity.
type TaskModel struct {
	BaseModel
	RegistrationID *uuid.UUID              `gorm:"type:uuid;index"`
	ClienteID      *uuid.UUID              `gorm:"type:uuid;index"`
	TemplateID     *uuid.UUID              `gorm:"type:uuid"`
	Title          string                  `gorm:"type:varchar(255);not null"`
	Description    string                  `gorm:"type:text"`
	Department     registration.Department `gorm:"type:varchar(30);not null;index"`
	Status         registration.TaskStatus `gorm:"type:varchar(20);not null;default:'pending';index"`
	Order          int                     `gorm:"column:task_order;not null;default:0"`
	AssignedTo     *uuid.UUID              `gorm:"type:uuid;index"`
	DueDate        *time.Time              `gorm:"index"`
	CompletedAt    *time.Time
	Observacao     string     `gorm:"type:text"`
	DataLembrete   *time.Time
	CNPJ           string `gorm:"type:varchar(20)"`
}

// TableName returns the table name for GORM
func (TaskModel) TableName() string {
	return "tasks"
}

// ToDomain converts the persistence model to a domain Task.
func (m *TaskModel) ToDomain() *registration.Task {
	return &registration.Task{
		BaseEntity:     m.BaseModel.ToDomain(),
		RegistrationID: m.RegistrationID,
		ClienteID:      m.ClienteID,
		TemplateID:     m.TemplateID,
		Title:          m.Title,
		Description:    m.Description,
		Department:     m.Department,
		Status:         m.Status,
		Order:          m.Order,
		AssignedTo:     m.AssignedTo,
		DueDate:        m.DueDate,
		CompletedAt:    m.CompletedAt,
		Observacao:     m.Observacao,
		DataLembrete:   m.DataLembrete,
		CNPJ:           m.CNPJ,
	}
}

// FromDomain populates the persistence model from a domain Task.
func (m *TaskModel) FromDomain(t *registration.Task) {
	m.FromDomainBaseEntity(t.BaseEntity)
	m.RegistrationID = t.RegistrationID
	m.ClienteID = t.ClienteID
	m.TemplateID = t.TemplateID
	m.Title = t.Title
	m.Description = t.Description
	m.Department = t.Department
	m.Status = t.Status
	m.Order = t.Order
	m.AssignedTo = t.AssignedTo
	m.DueDate = t.DueDate
	m.CompletedAt = t.CompletedAt
	m.Observacao = t.Observacao
	m.DataLembrete = t.DataLembrete
	m.CNPJ = t.CNPJ
}

// TaskModelFromDomain creates a new persistence model from a domain Task.
func TaskModelFromDomain(t *registration.Task) *TaskModel {
	m := &TaskModel{}
	m.FromDomain(t)
	return m
}

// TaskTemplateModel is the persistence model for TaskTemplate.
type TaskTemplateModel struct {
	BaseModel
	Name          string                  `gorm:"type:varchar(255);not null"`
	Description   string                  `gorm:"type:text"`
	Department    registration.Department `gorm:"type:varchar(30);not null;index"`
	Order         int                     `gorm:"column:template_order;not null;default:0"`
	EstimatedDays int                     `gorm:"not null;default:1"`
	IsRequired    bool                    `gorm:"not null;default:true"`
	IsActive      bool                    `gorm:"not null;default:true"`
}

// TableName returns the table name for GORM
func (TaskTemplateModel) TableName() string {
	return "task_templates"
}

// ToDomain converts the persistence model to a domain TaskTemplate.
func (m *TaskTemplateModel) ToDomain() *registration.TaskTemplate {
	return &registration.TaskTemplate{
		BaseEntity:    m.BaseModel.ToDomain(),
		Name:          m.Name,
		Description:   m.Description,
		Department:    m.Department,
		Order:         m.Order,
		EstimatedDays: m.EstimatedDays,
		IsRequired:    m.IsRequired,
		IsActive:      m.IsActive,
	}
}

// FromDomain populates the persistence model from a domain TaskTemplate.
func (m *TaskTemplateModel) FromDomain(t *registration.TaskTemplate) {
	m.FromDomainBaseEntity(t.BaseEntity)
	m.Name = t.Name
	m.Description = t.Description
	m.Department = t.Department
	m.Order = t.Order
	m.EstimatedDays = t.EstimatedDays
	m.IsRequired = t.IsRequired
	m.IsActive = t.IsActive
}

// TaskTemplateModelFromDomain creates a new persistence model from a domain TaskTemplate.
func TaskTemplateModelFromDomain(t *registration.TaskTemplate) *TaskTemplateModel {
	m := &TaskTemplateModel{}
	m.FromDomain(t)
	return m
}

// TaskActivityModel is an append-only task audit row.
type TaskActivityModel struct {
	ID          uuid.UUID  `gorm:"type:uuid;primary_key"`
	TaskID      uuid.UUID  `gorm:"type:uuid;not null;index"`
	UserID      *uuid.UUID `gorm:"type:uuid"`
	Action      string     `gorm:"type:varchar(50);not null"`
	Description string     `gorm:"type:text"`
	CreatedAt   time.Time  `gorm:"not null;index"`
}

// TableName returns the table name for GORM
func (TaskActivityModel) TableName() string {
	return "task_activities"
}

// ToDomain converts the persistence model to a domain TaskActivity.
func (m *TaskActivityModel) ToDomain() *registration.TaskActivity {
	return &registration.TaskActivity{
		ID:          m.ID,
		TaskID:      m.TaskID,
		UserID:      m.UserID,
		Action:      m.Action,
		Description: m.Description,
		CreatedAt:   m.CreatedAt,
	}
}

// TaskActivityModelFromDomain creates a new persistence model from a domain TaskActivity.
func TaskActivityModelFromDomain(a *registration.TaskActivity) *TaskActivityModel {
	return &TaskActivityModel{
		ID:          a.ID,
		TaskID:      a.TaskID,
		UserID:      a.UserID,
		Action:      a.Action,
		Description: a.Description,
		CreatedAt:   a.CreatedAt,
	}
}

// TaskFileModel stores the metadata of a task attachment.
type TaskFileModel struct {
	ID           uuid.UUID  `gorm:"type:uuid;primary_key"`
	TaskID       uuid.UUID  `gorm:"type:uuid;not null;index"`
	FileName     string     `gorm:"type:varchar(255);not null"`
	OriginalName string     `gorm:"type:varchar(255);not null"`
	StorageKey   string     `gorm:"type:varchar(500);not null"`
	MimeType     string     `gorm:"type:varchar(100)"`
	Size         int64      `gorm:"not null;default:0"`
	UploadedBy   *uuid.UUID `gorm:"type:uuid"`
	CreatedAt    time.Time  `gorm:"not null"`
}

// TableName returns the table name for GORM
func (TaskFileModel) TableName() string {
	return "task_files"
}

// ToDomain converts the persistence model to a domain TaskFile.
func (m *TaskFileModel) ToDomain() *registration.TaskFile {
	return &registration.TaskFile{
		ID:           m.ID,
		TaskID:       m.TaskID,
		FileName:     m.FileName,
		OriginalName: m.OriginalName,
		StorageKey:   m.StorageKey,
		MimeType:     m.MimeType,
		Size:         m.Size,
		UploadedBy:   m.UploadedBy,
		CreatedAt:    m.CreatedAt,
	}
}

// TaskFileModelFromDomain creates a new persistence model from a domain TaskFile.
func TaskFileModelFromDomain(f *registration.TaskFile) *TaskFileModel {
	return &TaskFileModel{
		ID:           f.ID,
		TaskID:       f.TaskID,
		FileName:     f.FileName,
		OriginalName: f.OriginalName,
		StorageKey:   f.StorageKey,
		MimeType:     f.MimeType,
		Size:         f.Size,
		UploadedBy:   f.UploadedBy,
		CreatedAt:    f.CreatedAt,
	}
}
