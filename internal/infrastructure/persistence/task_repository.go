package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/patrickdauer/Sistema-Prosperar-sub000/internal/domain/registration"
	"github.com/patrickdauer/Sistema-Prosperar-sub000/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormTaskRepository implements TaskRepository using GORM
type GormTaskRepository struct {
	db *gorm.DB
}

// NewGormTaskRepository creates a new GormTaskRepository
func NewGormTaskRepository(db *gorm.DB) *GormTaskRepository {
	return &GormTaskRepository{db: db}
}

// Create inserts a task
func (r *GormTaskRepository) Create(ctx context.Context, t *registration.Task) error {
	return r.db.WithContext(ctx).Create(models.TaskModelFromDomain(t)).Error
}

// CreateBatch inserts all tasks in one statement
func (r *GormTaskRepository) CreateBatch(ctx context.Context, tasks []*registration.Task) error {
	if len(tasks) == 0 {
		return nil
	}
	rows := make([]*models.TaskModel, len(tasks))
	for i, t := range tasks {
		rows[i] = models.TaskModelFromDomain(t)
	}
	return r.db.WithContext(ctx).CreateInBatches(rows, 100).Error
}

// Update writes every field of the task
func (r *GormTaskRepository) Update(ctx context.Context, t *registration.Task) error {
	return updateModel(ctx, r.db, models.TaskModelFromDomain(t))
}

// Delete removes a task with its activities and file records
func (r *GormTaskRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("task_id = ?", id).Delete(&models.TaskActivityModel{}).Error; err != nil {
			return err
		}
		if err := tx.Where("task_id = ?", id).Delete(&models.TaskFileModel{}).Error; err != nil {
			return err
		}
		return deleteByID(ctx, tx, &models.TaskModel{}, id)
	})
}

// FindByID finds a task by ID
func (r *GormTaskRepository) FindByID(ctx context.Context, id uuid.UUID) (*registration.Task, error) {
	var model models.TaskModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		return nil, notFound(err)
	}
	return model.ToDomain(), nil
}

// FindByRegistration returns the tasks of a registration ordered by Order
func (r *GormTaskRepository) FindByRegistration(ctx context.Context, registrationID uuid.UUID) ([]*registration.Task, error) {
	return r.find(ctx, r.db.Where("registration_id = ?", registrationID).Order("task_order ASC, created_at ASC"))
}

// FindByCliente returns the tasks of a client ordered by Order
func (r *GormTaskRepository) FindByCliente(ctx context.Context, clienteID uuid.UUID) ([]*registration.Task, error) {
	return r.find(ctx, r.db.Where("cliente_id = ?", clienteID).Order("task_order ASC, created_at ASC"))
}

// FindByAssignee returns the tasks assigned to a user, earliest due date
// first and undated tasks last
func (r *GormTaskRepository) FindByAssignee(ctx context.Context, userID uuid.UUID) ([]*registration.Task, error) {
	return r.find(ctx, r.db.Where("assigned_to = ?", userID).Order("due_date IS NULL, due_date ASC, task_order ASC"))
}

// FindClienteOnly returns tasks linked to a client and no registration
func (r *GormTaskRepository) FindClienteOnly(ctx context.Context) ([]*registration.Task, error) {
	return r.find(ctx, r.db.Where("cliente_id IS NOT NULL AND registration_id IS NULL").Order("task_order ASC, created_at ASC"))
}

func (r *GormTaskRepository) find(ctx context.Context, query *gorm.DB) ([]*registration.Task, error) {
	var rows []*models.TaskModel
	if err := query.WithContext(ctx).Find(&rows).Error; err != nil {
		return nil, err
	}
	tasks := make([]*registration.Task, len(rows))
	for i, m := range rows {
		tasks[i] = m.ToDomain()
	}
	return tasks, nil
}

// GormTaskTemplateRepository implements TaskTemplateRepository using GORM
type GormTaskTemplateRepository struct {
	db *gorm.DB
}

// NewGormTaskTemplateRepository creates a new GormTaskTemplateRepository
func NewGormTaskTemplateRepository(db *gorm.DB) *GormTaskTemplateRepository {
	return &GormTaskTemplateRepository{db: db}
}

// Create inserts a template
func (r *GormTaskTemplateRepository) Create(ctx context.Context, t *registration.TaskTemplate) error {
	return r.db.WithContext(ctx).Create(models.TaskTemplateModelFromDomain(t)).Error
}

// Update writes every field of the template
func (r *GormTaskTemplateRepository) Update(ctx context.Context, t *registration.TaskTemplate) error {
	return updateModel(ctx, r.db, models.TaskTemplateModelFromDomain(t))
}

// FindByID finds a template by ID
func (r *GormTaskTemplateRepository) FindByID(ctx context.Context, id uuid.UUID) (*registration.TaskTemplate, error) {
	var model models.TaskTemplateModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		return nil, notFound(err)
	}
	return model.ToDomain(), nil
}

// FindAll returns templates ordered by department and Order
func (r *GormTaskTemplateRepository) FindAll(ctx context.Context, activeOnly bool) ([]*registration.TaskTemplate, error) {
	query := r.db.WithContext(ctx)
	if activeOnly {
		query = query.Where("is_active = ?", true)
	}
	var rows []*models.TaskTemplateModel
	if err := query.Order("department ASC, template_order ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]*registration.TaskTemplate, len(rows))
	for i, m := range rows {
		out[i] = m.ToDomain()
	}
	return out, nil
}

// Count returns the number of templates
func (r *GormTaskTemplateRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.TaskTemplateModel{}).Count(&count).Error
	return count, err
}

// GormTaskActivityRepository implements TaskActivityRepository using GORM
type GormTaskActivityRepository struct {
	db *gorm.DB
}

// NewGormTaskActivityRepository creates a new GormTaskActivityRepository
func NewGormTaskActivityRepository(db *gorm.DB) *GormTaskActivityRepository {
	return &GormTaskActivityRepository{db: db}
}

// Create appends an activity
func (r *GormTaskActivityRepository) Create(ctx context.Context, a *registration.TaskActivity) error {
	return r.db.WithContext(ctx).Create(models.TaskActivityModelFromDomain(a)).Error
}

// FindByTask returns the activities of a task newest first
func (r *GormTaskActivityRepository) FindByTask(ctx context.Context, taskID uuid.UUID) ([]*registration.TaskActivity, error) {
	var rows []*models.TaskActivityModel
	if err := r.db.WithContext(ctx).
		Where("task_id = ?", taskID).
		Order("created_at DESC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]*registration.TaskActivity, len(rows))
	for i, m := range rows {
		out[i] = m.ToDomain()
	}
	return out, nil
}

// GormTaskFileRepository implements TaskFileRepository using GORM
type GormTaskFileRepository struct {
	db *gorm.DB
}

// NewGormTaskFileRepository creates a new GormTaskFileRepository
func NewGormTaskFileRepository(db *gorm.DB) *GormTaskFileRepository {
	return &GormTaskFileRepository{db: db}
}

// Create stores file metadata
func (r *GormTaskFileRepository) Create(ctx context.Context, f *registration.TaskFile) error {
	return r.db.WithContext(ctx).Create(models.TaskFileModelFromDomain(f)).Error
}

// FindByID finds a file record by ID
func (r *GormTaskFileRepository) FindByID(ctx context.Context, id uuid.UUID) (*registration.TaskFile, error) {
	var model models.TaskFileModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		return nil, notFound(err)
	}
	return model.ToDomain(), nil
}

// FindByTask returns the files of a task in upload order
func (r *GormTaskFileRepository) FindByTask(ctx context.Context, taskID uuid.UUID) ([]*registration.TaskFile, error) {
	var rows []*models.TaskFileModel
	if err := r.db.WithContext(ctx).
		Where("task_id = ?", taskID).
		Order("created_at ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]*registration.TaskFile, len(rows))
	for i, m := range rows {
		out[i] = m.ToDomain()
	}
	return out, nil
}

// Delete removes a file record
func (r *GormTaskFileRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return deleteByID(ctx, r.db, &models.TaskFileModel{}, id)
}

var (
	_ registration.TaskRepository         = (*GormTaskRepository)(nil)
	_ registration.TaskTemplateRepository = (*GormTaskTemplateRepository)(nil)
	_ registration.TaskActivityRepository = (*GormTaskActivityRepository)(nil)
	_ registration.TaskFileRepository     = (*GormTaskFileRepository)(nil)
)
