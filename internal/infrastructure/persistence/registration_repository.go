package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/patrickdauer/Sistema-Prosperar-sub000/internal/domain/registration"
	"github.com/patrickdauer/Sistema-Prosperar-sub000/internal/domain/shared"
	"github.com/patrickdauer/Sistema-Prosperar-sub000/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormRegistrationRepository implements RegistrationRepository using GORM
type GormRegistrationRepository struct {
	db *gorm.DB
}

// NewGormRegistrationRepository creates a new GormRegistrationRepository
func NewGormRegistrationRepository(db *gorm.DB) *GormRegistrationRepository {
	return &GormRegistrationRepository{db: db}
}

// Create inserts a new registration
func (r *GormRegistrationRepository) Create(ctx context.Context, reg *registration.BusinessRegistration) error {
	return r.db.WithContext(ctx).Create(models.BusinessRegistrationModelFromDomain(reg)).Error
}

// Update writes every field of the registration
func (r *GormRegistrationRepository) Update(ctx context.Context, reg *registration.BusinessRegistration) error {
	return updateModel(ctx, r.db, models.BusinessRegistrationModelFromDomain(reg))
}

// FindByID finds a registration by ID
func (r *GormRegistrationRepository) FindByID(ctx context.Context, id uuid.UUID) (*registration.BusinessRegistration, error) {
	var model models.BusinessRegistrationModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		return nil, notFound(err)
	}
	return model.ToDomain(), nil
}

// FindAll returns registrations newest first
func (r *GormRegistrationRepository) FindAll(ctx context.Context) ([]*registration.BusinessRegistration, error) {
	var rows []*models.BusinessRegistrationModel
	if err := r.db.WithContext(ctx).Order("created_at DESC").Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]*registration.BusinessRegistration, len(rows))
	for i, m := range rows {
		out[i] = m.ToDomain()
	}
	return out, nil
}

// Delete removes the registration with its tasks, their activities and files
func (r *GormRegistrationRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		taskIDs := tx.Model(&models.TaskModel{}).Select("id").Where("registration_id = ?", id)
		if err := tx.Where("task_id IN (?)", taskIDs).Delete(&models.TaskActivityModel{}).Error; err != nil {
			return err
		}
		if err := tx.Where("task_id IN (?)", taskIDs).Delete(&models.TaskFileModel{}).Error; err != nil {
			return err
		}
		if err := tx.Where("registration_id = ?", id).Delete(&models.TaskModel{}).Error; err != nil {
			return err
		}
		result := tx.Delete(&models.BusinessRegistrationModel{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}
		return nil
	})
}

// Ensure GormRegistrationRepository implements RegistrationRepository
var _ registration.RegistrationRepository = (*GormRegistrationRepository)(nil)
