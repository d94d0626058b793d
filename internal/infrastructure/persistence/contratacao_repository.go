package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/patrickdauer/Sistema-Prosperar-sub000/internal/domain/contratacao"
	"github.com/patrickdauer/Sistema-Prosperar-sub000/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormContratacaoRepository implements contratacao.Repository using GORM
type GormContratacaoRepository struct {
	db *gorm.DB
}

// NewGormContratacaoRepository creates a new GormContratacaoRepository
func NewGormContratacaoRepository(db *gorm.DB) *GormContratacaoRepository {
	return &GormContratacaoRepository{db: db}
}

// Create inserts a hiring request
func (r *GormContratacaoRepository) Create(ctx context.Context, c *contratacao.ContratacaoFuncionario) error {
	return r.db.WithContext(ctx).Create(models.ContratacaoModelFromDomain(c)).Error
}

// Update writes every field of the request
func (r *GormContratacaoRepository) Update(ctx context.Context, c *contratacao.ContratacaoFuncionario) error {
	return updateModel(ctx, r.db, models.ContratacaoModelFromDomain(c))
}

// FindByID finds a request by ID
func (r *GormContratacaoRepository) FindByID(ctx context.Context, id uuid.UUID) (*contratacao.ContratacaoFuncionario, error) {
	var model models.ContratacaoModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		return nil, notFound(err)
	}
	return model.ToDomain(), nil
}

// FindAll returns requests newest first
func (r *GormContratacaoRepository) FindAll(ctx context.Context) ([]*contratacao.ContratacaoFuncionario, error) {
	var rows []*models.ContratacaoModel
	if err := r.db.WithContext(ctx).Order("created_at DESC").Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]*contratacao.ContratacaoFuncionario, len(rows))
	for i, m := range rows {
		out[i] = m.ToDomain()
	}
	return out, nil
}

// Delete removes a request
func (r *GormContratacaoRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return deleteByID(ctx, r.db, &models.ContratacaoModel{}, id)
}

// Ensure GormContratacaoRepository implements contratacao.Repository
var _ contratacao.Repository = (*GormContratacaoRepository)(nil)
