package persistence

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/patrickdauer/Sistema-Prosperar-sub000/internal/domain/dasmei"
	"github.com/patrickdauer/Sistema-Prosperar-sub000/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormEnvioLogRepository implements EnvioLogRepository using GORM
type GormEnvioLogRepository struct {
	db *gorm.DB
}

// NewGormEnvioLogRepository creates a new GormEnvioLogRepository
func NewGormEnvioLogRepository(db *gorm.DB) *GormEnvioLogRepository {
	return &GormEnvioLogRepository{db: db}
}

// Create appends a delivery log
func (r *GormEnvioLogRepository) Create(ctx context.Context, l *dasmei.EnvioLog) error {
	return r.db.WithContext(ctx).Create(models.EnvioLogModelFromDomain(l)).Error
}

// FindByGuia returns the logs of a guide newest first
func (r *GormEnvioLogRepository) FindByGuia(ctx context.Context, guiaID uuid.UUID) ([]*dasmei.EnvioLog, error) {
	var rows []*models.EnvioLogModel
	if err := r.db.WithContext(ctx).
		Where("guia_id = ?", guiaID).
		Order("created_at DESC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]*dasmei.EnvioLog, len(rows))
	for i, m := range rows {
		out[i] = m.ToDomain()
	}
	return out, nil
}

// ExistsSent reports whether the guide has a sent log of the channel
func (r *GormEnvioLogRepository) ExistsSent(ctx context.Context, guiaID uuid.UUID, tipo dasmei.EnvioTipo) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.EnvioLogModel{}).
		Where("guia_id = ? AND tipo = ? AND status = ?", guiaID, tipo, dasmei.EnvioSent).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// CountByPeriodo counts the logs of a channel and status for the guides of a period
func (r *GormEnvioLogRepository) CountByPeriodo(ctx context.Context, periodo string, tipo dasmei.EnvioTipo, status dasmei.EnvioStatus) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.EnvioLogModel{}).
		Joins("JOIN das_guias ON das_guias.id = envio_logs.guia_id").
		Where("das_guias.periodo = ? AND envio_logs.tipo = ? AND envio_logs.status = ?", periodo, tipo, status).
		Count(&count).Error
	return count, err
}

// GormProgramacaoRepository implements ProgramacaoRepository using GORM
type GormProgramacaoRepository struct {
	db *gorm.DB
}

// NewGormProgramacaoRepository creates a new GormProgramacaoRepository
func NewGormProgramacaoRepository(db *gorm.DB) *GormProgramacaoRepository {
	return &GormProgramacaoRepository{db: db}
}

// Create schedules a delivery
func (r *GormProgramacaoRepository) Create(ctx context.Context, p *dasmei.ProgramacaoEnvio) error {
	return r.db.WithContext(ctx).Create(models.ProgramacaoEnvioModelFromDomain(p)).Error
}

// Update writes every field of the entry
func (r *GormProgramacaoRepository) Update(ctx context.Context, p *dasmei.ProgramacaoEnvio) error {
	return updateModel(ctx, r.db, models.ProgramacaoEnvioModelFromDomain(p))
}

// FindDue returns scheduled entries due on or before date, oldest first
func (r *GormProgramacaoRepository) FindDue(ctx context.Context, date time.Time) ([]*dasmei.ProgramacaoEnvio, error) {
	var rows []*models.ProgramacaoEnvioModel
	if err := r.db.WithContext(ctx).
		Where("status = ? AND data_agendada <= ?", dasmei.ProgramacaoAgendado, date).
		Order("data_agendada ASC, created_at ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]*dasmei.ProgramacaoEnvio, len(rows))
	for i, m := range rows {
		out[i] = m.ToDomain()
	}
	return out, nil
}

// CancelByGuia cancels every still scheduled entry of a guide
func (r *GormProgramacaoRepository) CancelByGuia(ctx context.Context, guiaID uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&models.ProgramacaoEnvioModel{}).
		Where("guia_id = ? AND status = ?", guiaID, dasmei.ProgramacaoAgendado).
		Update("status", dasmei.ProgramacaoCancelado).Error
}

var (
	_ dasmei.EnvioLogRepository    = (*GormEnvioLogRepository)(nil)
	_ dasmei.ProgramacaoRepository = (*GormProgramacaoRepository)(nil)
)
