package persistence

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/patrickdauer/Sistema-Prosperar-sub000/internal/domain/dasmei"
	"github.com/patrickdauer/Sistema-Prosperar-sub000/internal/domain/shared"
	"github.com/patrickdauer/Sistema-Prosperar-sub000/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormRetryRepository implements RetryRepository using GORM
type GormRetryRepository struct {
	db *gorm.DB
}

// NewGormRetryRepository creates a new GormRetryRepository
func NewGormRetryRepository(db *gorm.DB) *GormRetryRepository {
	return &GormRetryRepository{db: db}
}

// Create enqueues an item
func (r *GormRetryRepository) Create(ctx context.Context, item *dasmei.RetryItem) error {
	return r.db.WithContext(ctx).Create(models.RetryItemModelFromDomain(item)).Error
}

// Update writes every field of the item
func (r *GormRetryRepository) Update(ctx context.Context, item *dasmei.RetryItem) error {
	return updateModel(ctx, r.db, models.RetryItemModelFromDomain(item))
}

// FindByID finds an item by ID
func (r *GormRetryRepository) FindByID(ctx context.Context, id uuid.UUID) (*dasmei.RetryItem, error) {
	var model models.RetryItemModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		return nil, notFound(err)
	}
	return model.ToDomain(), nil
}

// FindDue returns pending items whose next attempt is at or before now,
// earliest first
func (r *GormRetryRepository) FindDue(ctx context.Context, now time.Time) ([]*dasmei.RetryItem, error) {
	return r.find(ctx, r.db.
		Where("status = ? AND proxima_tentativa <= ?", dasmei.RetryPending, now).
		Order("proxima_tentativa ASC"))
}

// FindOpen returns pending or processing items of an operation for a client
func (r *GormRetryRepository) FindOpen(ctx context.Context, operacao string, clienteID uuid.UUID) ([]*dasmei.RetryItem, error) {
	return r.find(ctx, r.db.
		Where("tipo_operacao = ? AND cliente_id = ?", operacao, clienteID).
		Where("status IN ?", []dasmei.RetryStatus{dasmei.RetryPending, dasmei.RetryProcessing}).
		Order("created_at ASC"))
}

// FindAll returns items newest first, optionally of one status
func (r *GormRetryRepository) FindAll(ctx context.Context, status dasmei.RetryStatus) ([]*dasmei.RetryItem, error) {
	query := r.db.Order("created_at DESC")
	if status != "" {
		query = query.Where("status = ?", status)
	}
	return r.find(ctx, query)
}

// CountByStatus counts items in a status
func (r *GormRetryRepository) CountByStatus(ctx context.Context, status dasmei.RetryStatus) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.RetryItemModel{}).
		Where("status = ?", status).
		Count(&count).Error
	return count, err
}

func (r *GormRetryRepository) find(ctx context.Context, query *gorm.DB) ([]*dasmei.RetryItem, error) {
	var rows []*models.RetryItemModel
	if err := query.WithContext(ctx).Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]*dasmei.RetryItem, len(rows))
	for i, m := range rows {
		out[i] = m.ToDomain()
	}
	return out, nil
}

// GormApiConfigRepository implements ApiConfigRepository using GORM
type GormApiConfigRepository struct {
	db  *gorm.DB
	now func() time.Time
}

// NewGormApiConfigRepository creates a new GormApiConfigRepository
func NewGormApiConfigRepository(db *gorm.DB) *GormApiConfigRepository {
	return &GormApiConfigRepository{db: db, now: time.Now}
}

// Create inserts a configuration
func (r *GormApiConfigRepository) Create(ctx context.Context, c *dasmei.ApiConfiguration) error {
	return r.db.WithContext(ctx).Create(models.ApiConfigurationModelFromDomain(c)).Error
}

// Update writes every field of the configuration
func (r *GormApiConfigRepository) Update(ctx context.Context, c *dasmei.ApiConfiguration) error {
	return updateModel(ctx, r.db, models.ApiConfigurationModelFromDomain(c))
}

// FindByID finds a configuration by ID
func (r *GormApiConfigRepository) FindByID(ctx context.Context, id uuid.UUID) (*dasmei.ApiConfiguration, error) {
	var model models.ApiConfigurationModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		return nil, notFound(err)
	}
	return model.ToDomain(), nil
}

// FindByProvider finds the configuration of a provider for an API type
func (r *GormApiConfigRepository) FindByProvider(ctx context.Context, apiType dasmei.ApiType, provider string) (*dasmei.ApiConfiguration, error) {
	var model models.ApiConfigurationModel
	if err := r.db.WithContext(ctx).
		Where("type = ? AND provider = ?", apiType, provider).
		First(&model).Error; err != nil {
		return nil, notFound(err)
	}
	return model.ToDomain(), nil
}

// FindActive returns the active configuration of an API type
func (r *GormApiConfigRepository) FindActive(ctx context.Context, apiType dasmei.ApiType) (*dasmei.ApiConfiguration, error) {
	var model models.ApiConfigurationModel
	if err := r.db.WithContext(ctx).
		Where("type = ? AND is_active = ?", apiType, true).
		Order("updated_at DESC").
		First(&model).Error; err != nil {
		return nil, notFound(err)
	}
	return model.ToDomain(), nil
}

// FindAll returns every configuration grouped by type
func (r *GormApiConfigRepository) FindAll(ctx context.Context) ([]*dasmei.ApiConfiguration, error) {
	var rows []*models.ApiConfigurationModel
	if err := r.db.WithContext(ctx).Order("type ASC, name ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]*dasmei.ApiConfiguration, len(rows))
	for i, m := range rows {
		out[i] = m.ToDomain()
	}
	return out, nil
}

// Activate marks id active and every other configuration of its type
// inactive in one transaction, logging each change
func (r *GormApiConfigRepository) Activate(ctx context.Context, id uuid.UUID, userID *uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var target models.ApiConfigurationModel
		if err := tx.First(&target, "id = ?", id).Error; err != nil {
			return notFound(err)
		}
		now := r.now()

		var others []*models.ApiConfigurationModel
		if err := tx.Where("type = ? AND is_active = ? AND id <> ?", target.Type, true, id).
			Find(&others).Error; err != nil {
			return err
		}
		for _, o := range others {
			if err := tx.Model(&models.ApiConfigurationModel{}).Where("id = ?", o.ID).
				Updates(map[string]any{"is_active": false, "updated_at": now}).Error; err != nil {
				return err
			}
			l := dasmei.NewApiChangeLog(o.ID, dasmei.ChangeDeactivated,
				map[string]any{"replaced_by": id.String()}, userID)
			if err := tx.Create(models.ApiChangeLogModelFromDomain(l)).Error; err != nil {
				return err
			}
		}

		result := tx.Model(&models.ApiConfigurationModel{}).Where("id = ?", id).
			Updates(map[string]any{"is_active": true, "updated_at": now})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}
		l := dasmei.NewApiChangeLog(id, dasmei.ChangeActivated,
			map[string]any{"provider": target.Provider}, userID)
		return tx.Create(models.ApiChangeLogModelFromDomain(l)).Error
	})
}

// CreateChangeLog appends a change log entry
func (r *GormApiConfigRepository) CreateChangeLog(ctx context.Context, l *dasmei.ApiChangeLog) error {
	return r.db.WithContext(ctx).Create(models.ApiChangeLogModelFromDomain(l)).Error
}

// FindChangeLogs returns the change log of a configuration newest first
func (r *GormApiConfigRepository) FindChangeLogs(ctx context.Context, apiID uuid.UUID) ([]*dasmei.ApiChangeLog, error) {
	var rows []*models.ApiChangeLogModel
	if err := r.db.WithContext(ctx).
		Where("api_id = ?", apiID).
		Order(clause.OrderByColumn{Column: clause.Column{Name: "timestamp"}, Desc: true}).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]*dasmei.ApiChangeLog, len(rows))
	for i, m := range rows {
		out[i] = m.ToDomain()
	}
	return out, nil
}

var (
	_ dasmei.RetryRepository     = (*GormRetryRepository)(nil)
	_ dasmei.ApiConfigRepository = (*GormApiConfigRepository)(nil)
)
