package persistence

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/patrickdauer/Sistema-Prosperar-sub000/internal/domain/dasmei"
	"github.com/patrickdauer/Sistema-Prosperar-sub000/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormMessageTemplateRepository implements MessageTemplateRepository using GORM
type GormMessageTemplateRepository struct {
	db *gorm.DB
}

// NewGormMessageTemplateRepository creates a new GormMessageTemplateRepository
func NewGormMessageTemplateRepository(db *gorm.DB) *GormMessageTemplateRepository {
	return &GormMessageTemplateRepository{db: db}
}

// Create inserts a template
func (r *GormMessageTemplateRepository) Create(ctx context.Context, t *dasmei.MessageTemplate) error {
	return r.db.WithContext(ctx).Create(models.MessageTemplateModelFromDomain(t)).Error
}

// Update writes every field of the template
func (r *GormMessageTemplateRepository) Update(ctx context.Context, t *dasmei.MessageTemplate) error {
	return updateModel(ctx, r.db, models.MessageTemplateModelFromDomain(t))
}

// Delete removes a template
func (r *GormMessageTemplateRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return deleteByID(ctx, r.db, &models.MessageTemplateModel{}, id)
}

// FindByID finds a template by ID
func (r *GormMessageTemplateRepository) FindByID(ctx context.Context, id uuid.UUID) (*dasmei.MessageTemplate, error) {
	var model models.MessageTemplateModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		return nil, notFound(err)
	}
	return model.ToDomain(), nil
}

// FindActiveByTipo returns the most recently updated active template of the type
func (r *GormMessageTemplateRepository) FindActiveByTipo(ctx context.Context, tipo dasmei.TemplateType) (*dasmei.MessageTemplate, error) {
	var model models.MessageTemplateModel
	if err := r.db.WithContext(ctx).
		Where("tipo = ? AND ativo = ?", tipo, true).
		Order("updated_at DESC").
		First(&model).Error; err != nil {
		return nil, notFound(err)
	}
	return model.ToDomain(), nil
}

// FindAll returns every template grouped by type
func (r *GormMessageTemplateRepository) FindAll(ctx context.Context) ([]*dasmei.MessageTemplate, error) {
	var rows []*models.MessageTemplateModel
	if err := r.db.WithContext(ctx).Order("tipo ASC, updated_at DESC").Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]*dasmei.MessageTemplate, len(rows))
	for i, m := range rows {
		out[i] = m.ToDomain()
	}
	return out, nil
}

// GormEvolutionInstanceRepository implements EvolutionInstanceRepository using GORM
type GormEvolutionInstanceRepository struct {
	db *gorm.DB
}

// NewGormEvolutionInstanceRepository creates a new GormEvolutionInstanceRepository
func NewGormEvolutionInstanceRepository(db *gorm.DB) *GormEvolutionInstanceRepository {
	return &GormEvolutionInstanceRepository{db: db}
}

// Create inserts an instance
func (r *GormEvolutionInstanceRepository) Create(ctx context.Context, e *dasmei.EvolutionInstance) error {
	return r.db.WithContext(ctx).Create(models.EvolutionInstanceModelFromDomain(e)).Error
}

// Update writes every field of the instance
func (r *GormEvolutionInstanceRepository) Update(ctx context.Context, e *dasmei.EvolutionInstance) error {
	return updateModel(ctx, r.db, models.EvolutionInstanceModelFromDomain(e))
}

// Delete removes an instance
func (r *GormEvolutionInstanceRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return deleteByID(ctx, r.db, &models.EvolutionInstanceModel{}, id)
}

// FindByID finds an instance by ID
func (r *GormEvolutionInstanceRepository) FindByID(ctx context.Context, id uuid.UUID) (*dasmei.EvolutionInstance, error) {
	var model models.EvolutionInstanceModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		return nil, notFound(err)
	}
	return model.ToDomain(), nil
}

// FindActive returns the most recently updated active instance
func (r *GormEvolutionInstanceRepository) FindActive(ctx context.Context) (*dasmei.EvolutionInstance, error) {
	var model models.EvolutionInstanceModel
	if err := r.db.WithContext(ctx).
		Where("ativo = ?", true).
		Order("updated_at DESC").
		First(&model).Error; err != nil {
		return nil, notFound(err)
	}
	return model.ToDomain(), nil
}

// FindAll returns every instance by name
func (r *GormEvolutionInstanceRepository) FindAll(ctx context.Context) ([]*dasmei.EvolutionInstance, error) {
	var rows []*models.EvolutionInstanceModel
	if err := r.db.WithContext(ctx).Order("nome ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]*dasmei.EvolutionInstance, len(rows))
	for i, m := range rows {
		out[i] = m.ToDomain()
	}
	return out, nil
}

// GormSystemLogRepository implements SystemLogRepository using GORM
type GormSystemLogRepository struct {
	db *gorm.DB
}

// NewGormSystemLogRepository creates a new GormSystemLogRepository
func NewGormSystemLogRepository(db *gorm.DB) *GormSystemLogRepository {
	return &GormSystemLogRepository{db: db}
}

// Create appends an audit entry
func (r *GormSystemLogRepository) Create(ctx context.Context, l *dasmei.SystemLog) error {
	return r.db.WithContext(ctx).Create(models.SystemLogModelFromDomain(l)).Error
}

// FindAll returns entries newest first
func (r *GormSystemLogRepository) FindAll(ctx context.Context, filter dasmei.SystemLogFilter) ([]*dasmei.SystemLog, error) {
	query := r.db.WithContext(ctx).Model(&models.SystemLogModel{})
	if filter.TipoOperacao != "" {
		query = query.Where("tipo_operacao = ?", filter.TipoOperacao)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.Periodo != "" {
		query = query.Where("periodo = ?", filter.Periodo)
	}
	if filter.ClienteID != nil {
		query = query.Where("cliente_id = ?", *filter.ClienteID)
	}
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}
	var rows []*models.SystemLogModel
	if err := query.Order(clause.OrderByColumn{Column: clause.Column{Name: "timestamp"}, Desc: true}).Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]*dasmei.SystemLog, len(rows))
	for i, m := range rows {
		out[i] = m.ToDomain()
	}
	return out, nil
}

// GormSettingRepository implements SettingRepository using GORM
type GormSettingRepository struct {
	db *gorm.DB
}

// NewGormSettingRepository creates a new GormSettingRepository
func NewGormSettingRepository(db *gorm.DB) *GormSettingRepository {
	return &GormSettingRepository{db: db}
}

// FindAll returns every setting by key
func (r *GormSettingRepository) FindAll(ctx context.Context) ([]*dasmei.AutomationSetting, error) {
	var rows []*models.AutomationSettingModel
	if err := r.db.WithContext(ctx).Order("chave ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]*dasmei.AutomationSetting, len(rows))
	for i, m := range rows {
		out[i] = m.ToDomain()
	}
	return out, nil
}

// FindByChave finds a setting by key
func (r *GormSettingRepository) FindByChave(ctx context.Context, chave string) (*dasmei.AutomationSetting, error) {
	var model models.AutomationSettingModel
	if err := r.db.WithContext(ctx).Where("chave = ?", chave).First(&model).Error; err != nil {
		return nil, notFound(err)
	}
	return model.ToDomain(), nil
}

// Upsert inserts the setting or updates the row with the same key
func (r *GormSettingRepository) Upsert(ctx context.Context, s *dasmei.AutomationSetting) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	if s.UpdatedAt.IsZero() {
		s.UpdatedAt = time.Now()
	}
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "chave"}},
		DoUpdates: clause.AssignmentColumns([]string{"valor", "descricao", "tipo", "updated_at", "updated_by"}),
	}).Create(models.AutomationSettingModelFromDomain(s)).Error
	if err != nil {
		return err
	}
	stored, err := r.FindByChave(ctx, s.Chave)
	if err != nil {
		return err
	}
	s.ID = stored.ID
	return nil
}

// GormFeriadoRepository implements FeriadoRepository using GORM
type GormFeriadoRepository struct {
	db *gorm.DB
}

// NewGormFeriadoRepository creates a new GormFeriadoRepository
func NewGormFeriadoRepository(db *gorm.DB) *GormFeriadoRepository {
	return &GormFeriadoRepository{db: db}
}

// Create inserts a holiday
func (r *GormFeriadoRepository) Create(ctx context.Context, f *dasmei.Feriado) error {
	return r.db.WithContext(ctx).Create(models.FeriadoModelFromDomain(f)).Error
}

// Update writes every field of the holiday
func (r *GormFeriadoRepository) Update(ctx context.Context, f *dasmei.Feriado) error {
	return updateModel(ctx, r.db, models.FeriadoModelFromDomain(f))
}

// FindByID finds a holiday by ID
func (r *GormFeriadoRepository) FindByID(ctx context.Context, id uuid.UUID) (*dasmei.Feriado, error) {
	var model models.FeriadoModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		return nil, notFound(err)
	}
	return model.ToDomain(), nil
}

// Delete removes a holiday
func (r *GormFeriadoRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return deleteByID(ctx, r.db, &models.FeriadoModel{}, id)
}

// FindBetween returns holidays in [from, to)
func (r *GormFeriadoRepository) FindBetween(ctx context.Context, from, to time.Time) ([]*dasmei.Feriado, error) {
	return r.find(ctx, r.db.Where("data >= ? AND data < ?", from, to))
}

// FindAll returns every holiday by date
func (r *GormFeriadoRepository) FindAll(ctx context.Context) ([]*dasmei.Feriado, error) {
	return r.find(ctx, r.db)
}

func (r *GormFeriadoRepository) find(ctx context.Context, query *gorm.DB) ([]*dasmei.Feriado, error) {
	var rows []*models.FeriadoModel
	if err := query.WithContext(ctx).Order("data ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]*dasmei.Feriado, len(rows))
	for i, m := range rows {
		out[i] = m.ToDomain()
	}
	return out, nil
}

var (
	_ dasmei.MessageTemplateRepository   = (*GormMessageTemplateRepository)(nil)
	_ dasmei.EvolutionInstanceRepository = (*GormEvolutionInstanceRepository)(nil)
	_ dasmei.SystemLogRepository         = (*GormSystemLogRepository)(nil)
	_ dasmei.SettingRepository           = (*GormSettingRepository)(nil)
	_ dasmei.FeriadoRepository           = (*GormFeriadoRepository)(nil)
)
