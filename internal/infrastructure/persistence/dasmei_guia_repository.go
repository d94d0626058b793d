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

// GormClienteMeiRepository implements ClienteMeiRepository using GORM
type GormClienteMeiRepository struct {
	db *gorm.DB
}

// NewGormClienteMeiRepository creates a new GormClienteMeiRepository
func NewGormClienteMeiRepository(db *gorm.DB) *GormClienteMeiRepository {
	return &GormClienteMeiRepository{db: db}
}

// Create inserts a MEI client
func (r *GormClienteMeiRepository) Create(ctx context.Context, c *dasmei.ClienteMei) error {
	return r.db.WithContext(ctx).Create(models.ClienteMeiModelFromDomain(c)).Error
}

// Update writes every field of the client
func (r *GormClienteMeiRepository) Update(ctx context.Context, c *dasmei.ClienteMei) error {
	return updateModel(ctx, r.db, models.ClienteMeiModelFromDomain(c))
}

// Delete removes a MEI client
func (r *GormClienteMeiRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return deleteByID(ctx, r.db, &models.ClienteMeiModel{}, id)
}

// FindByID finds a MEI client by ID
func (r *GormClienteMeiRepository) FindByID(ctx context.Context, id uuid.UUID) (*dasmei.ClienteMei, error) {
	var model models.ClienteMeiModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		return nil, notFound(err)
	}
	return model.ToDomain(), nil
}

// FindByCNPJ finds a MEI client by normalized CNPJ
func (r *GormClienteMeiRepository) FindByCNPJ(ctx context.Context, cnpj string) (*dasmei.ClienteMei, error) {
	var model models.ClienteMeiModel
	if err := r.db.WithContext(ctx).Where("cnpj = ?", cnpj).First(&model).Error; err != nil {
		return nil, notFound(err)
	}
	return model.ToDomain(), nil
}

// FindByCNPJs returns the clients with any of the CNPJs
func (r *GormClienteMeiRepository) FindByCNPJs(ctx context.Context, cnpjs []string) ([]*dasmei.ClienteMei, error) {
	if len(cnpjs) == 0 {
		return []*dasmei.ClienteMei{}, nil
	}
	return r.find(ctx, r.db.Where("cnpj IN ?", cnpjs).Order("nome ASC"))
}

// FindAll lists clients by name, optionally filtered by a search term on
// name, CNPJ or e-mail
func (r *GormClienteMeiRepository) FindAll(ctx context.Context, search string, activeOnly bool) ([]*dasmei.ClienteMei, error) {
	query := r.db.Model(&models.ClienteMeiModel{})
	if search != "" {
		pattern := likePattern(search)
		query = query.Where(r.db.Where("LOWER(nome) LIKE ?", pattern).
			Or("cnpj LIKE ?", pattern).
			Or("LOWER(email) LIKE ?", pattern))
	}
	if activeOnly {
		query = query.Where("is_active = ?", true)
	}
	return r.find(ctx, query.Order("nome ASC"))
}

// CountActive returns how many clients are active
func (r *GormClienteMeiRepository) CountActive(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.ClienteMeiModel{}).
		Where("is_active = ?", true).
		Count(&count).Error
	return count, err
}

func (r *GormClienteMeiRepository) find(ctx context.Context, query *gorm.DB) ([]*dasmei.ClienteMei, error) {
	var rows []*models.ClienteMeiModel
	if err := query.WithContext(ctx).Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]*dasmei.ClienteMei, len(rows))
	for i, m := range rows {
		out[i] = m.ToDomain()
	}
	return out, nil
}

// GormGuiaRepository implements GuiaRepository using GORM
type GormGuiaRepository struct {
	db *gorm.DB
}

// NewGormGuiaRepository creates a new GormGuiaRepository
func NewGormGuiaRepository(db *gorm.DB) *GormGuiaRepository {
	return &GormGuiaRepository{db: db}
}

// Save inserts the guide or overwrites the row of the same (client, period).
// g.ID is replaced with the stored row's ID.
func (r *GormGuiaRepository) Save(ctx context.Context, g *dasmei.DasGuia) error {
	model := models.DasGuiaModelFromDomain(g)
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "cliente_mei_id"}, {Name: "periodo"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"data_vencimento", "valor", "principal", "multas", "juros", "url",
			"storage_key", "file_name", "situacao", "status", "erro", "provider", "updated_at",
		}),
	}).Create(model).Error
	if err != nil {
		return err
	}
	stored, err := r.FindByClientePeriodo(ctx, g.ClienteMeiID, g.Periodo)
	if err != nil {
		return err
	}
	g.ID = stored.ID
	g.CreatedAt = stored.CreatedAt
	return nil
}

// Update writes every field of the guide
func (r *GormGuiaRepository) Update(ctx context.Context, g *dasmei.DasGuia) error {
	return updateModel(ctx, r.db, models.DasGuiaModelFromDomain(g))
}

// FindByID finds a guide by ID
func (r *GormGuiaRepository) FindByID(ctx context.Context, id uuid.UUID) (*dasmei.DasGuia, error) {
	var model models.DasGuiaModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		return nil, notFound(err)
	}
	return model.ToDomain(), nil
}

// FindByClientePeriodo finds the guide of a client for a period
func (r *GormGuiaRepository) FindByClientePeriodo(ctx context.Context, clienteID uuid.UUID, periodo string) (*dasmei.DasGuia, error) {
	var model models.DasGuiaModel
	if err := r.db.WithContext(ctx).
		Where("cliente_mei_id = ? AND periodo = ?", clienteID, periodo).
		First(&model).Error; err != nil {
		return nil, notFound(err)
	}
	return model.ToDomain(), nil
}

// FindAll returns guides newest period first
func (r *GormGuiaRepository) FindAll(ctx context.Context, filter dasmei.GuiaFilter) ([]*dasmei.DasGuia, error) {
	query := r.db.Model(&models.DasGuiaModel{})
	if filter.Periodo != "" {
		query = query.Where("periodo = ?", filter.Periodo)
	}
	if filter.ClienteMeiID != nil {
		query = query.Where("cliente_mei_id = ?", *filter.ClienteMeiID)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	return r.find(ctx, query.Order("periodo DESC, created_at DESC"))
}

// FindWithoutDelivery returns successful guides of a period with no sent
// log of the channel
func (r *GormGuiaRepository) FindWithoutDelivery(ctx context.Context, periodo string, tipo dasmei.EnvioTipo) ([]*dasmei.DasGuia, error) {
	sent := r.db.Model(&models.EnvioLogModel{}).
		Select("1").
		Where("envio_logs.guia_id = das_guias.id AND envio_logs.tipo = ? AND envio_logs.status = ?", tipo, dasmei.EnvioSent)
	query := r.db.Model(&models.DasGuiaModel{}).
		Where("periodo = ? AND status = ?", periodo, dasmei.GuiaSuccess).
		Where("NOT EXISTS (?)", sent).
		Order("created_at ASC")
	return r.find(ctx, query)
}

// FindDueBetween returns successful guides due in [from, to)
func (r *GormGuiaRepository) FindDueBetween(ctx context.Context, from, to time.Time) ([]*dasmei.DasGuia, error) {
	query := r.db.Model(&models.DasGuiaModel{}).
		Where("status = ?", dasmei.GuiaSuccess).
		Where("data_vencimento >= ? AND data_vencimento < ?", from, to).
		Order("data_vencimento ASC")
	return r.find(ctx, query)
}

// CountByStatus counts the guides of a period in a status
func (r *GormGuiaRepository) CountByStatus(ctx context.Context, periodo string, status dasmei.GuiaStatus) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.DasGuiaModel{}).
		Where("periodo = ? AND status = ?", periodo, status).
		Count(&count).Error
	return count, err
}

func (r *GormGuiaRepository) find(ctx context.Context, query *gorm.DB) ([]*dasmei.DasGuia, error) {
	var rows []*models.DasGuiaModel
	if err := query.WithContext(ctx).Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]*dasmei.DasGuia, len(rows))
	for i, m := range rows {
		out[i] = m.ToDomain()
	}
	return out, nil
}

var (
	_ dasmei.ClienteMeiRepository = (*GormClienteMeiRepository)(nil)
	_ dasmei.GuiaRepository       = (*GormGuiaRepository)(nil)
)
