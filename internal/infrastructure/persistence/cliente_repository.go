package persistence

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/patrickdauer/Sistema-Prosperar-sub000/internal/domain/cliente"
	"github.com/patrickdauer/Sistema-Prosperar-sub000/internal/domain/shared/valueobject"
	"github.com/patrickdauer/Sistema-Prosperar-sub000/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormClienteRepository implements ClienteRepository using GORM
type GormClienteRepository struct {
	db *gorm.DB
}

// NewGormClienteRepository creates a new GormClienteRepository
func NewGormClienteRepository(db *gorm.DB) *GormClienteRepository {
	return &GormClienteRepository{db: db}
}

// Create inserts a client
func (r *GormClienteRepository) Create(ctx context.Context, c *cliente.Cliente) error {
	return r.db.WithContext(ctx).Create(models.ClienteModelFromDomain(c)).Error
}

// Update writes every field of the client
func (r *GormClienteRepository) Update(ctx context.Context, c *cliente.Cliente) error {
	return updateModel(ctx, r.db, models.ClienteModelFromDomain(c))
}

// Delete removes a client and its income tax history
func (r *GormClienteRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("cliente_id = ?", id).Delete(&models.IrHistoricoModel{}).Error; err != nil {
			return err
		}
		return deleteByID(ctx, tx, &models.ClienteModel{}, id)
	})
}

// FindByID finds a client by ID
func (r *GormClienteRepository) FindByID(ctx context.Context, id uuid.UUID) (*cliente.Cliente, error) {
	var model models.ClienteModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		return nil, notFound(err)
	}
	return model.ToDomain(), nil
}

// FindByIDs returns the clients with the given IDs; unknown IDs are skipped
func (r *GormClienteRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*cliente.Cliente, error) {
	if len(ids) == 0 {
		return []*cliente.Cliente{}, nil
	}
	var rows []*models.ClienteModel
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&rows).Error; err != nil {
		return nil, err
	}
	return clientesToDomain(rows), nil
}

// FindByCNPJ finds a client by its normalized CNPJ
func (r *GormClienteRepository) FindByCNPJ(ctx context.Context, cnpj string) (*cliente.Cliente, error) {
	var model models.ClienteModel
	if err := r.db.WithContext(ctx).Where("cnpj = ?", cnpj).First(&model).Error; err != nil {
		return nil, notFound(err)
	}
	return model.ToDomain(), nil
}

// ExistsByCNPJ reports whether a client with the CNPJ exists
func (r *GormClienteRepository) ExistsByCNPJ(ctx context.Context, cnpj string) (bool, error) {
	if cnpj == "" {
		return false, nil
	}
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.ClienteModel{}).
		Where("cnpj = ?", cnpj).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// FindAll returns a page of clients together with the unpaged total.
// Clients are newest first unless the filter names a sort column.
func (r *GormClienteRepository) FindAll(ctx context.Context, filter cliente.Filter) ([]*cliente.Cliente, int64, error) {
	query := r.applyFilter(r.db.WithContext(ctx).Model(&models.ClienteModel{}), filter)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = query.Order(orderClause(filter.SortBy, filter.SortOrder, ClienteSortFields, "created_at"))
	if filter.PageSize > 0 {
		page := filter.Page
		if page < 1 {
			page = 1
		}
		query = query.Offset((page - 1) * filter.PageSize).Limit(filter.PageSize)
	}

	var rows []*models.ClienteModel
	if err := query.Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	return clientesToDomain(rows), total, nil
}

func (r *GormClienteRepository) applyFilter(query *gorm.DB, filter cliente.Filter) *gorm.DB {
	if search := strings.TrimSpace(filter.Search); search != "" {
		pattern := likePattern(search)
		conds := r.db.Where("LOWER(razao_social) LIKE ?", pattern).
			Or("LOWER(nome_fantasia) LIKE ?", pattern).
			Or("cnpj LIKE ?", pattern)
		if digits := valueobject.OnlyDigits(search); digits != "" {
			conds = conds.Or("cnpj LIKE ?", "%"+digits+"%")
		}
		query = query.Where(conds)
	}
	if filter.Cidade != "" {
		query = query.Where("LOWER(cidade) = ?", strings.ToLower(filter.Cidade))
	}
	if filter.RegimeTributario != "" {
		query = query.Where("regime_tributario = ?", filter.RegimeTributario)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.DataAberturaInicio != nil {
		query = query.Where("data_abertura >= ?", *filter.DataAberturaInicio)
	}
	if filter.DataAberturaFim != nil {
		query = query.Where("data_abertura <= ?", *filter.DataAberturaFim)
	}
	if filter.ClienteDesdeInicio != nil {
		query = query.Where("cliente_desde >= ?", *filter.ClienteDesdeInicio)
	}
	if filter.ClienteDesdeFim != nil {
		query = query.Where("cliente_desde <= ?", *filter.ClienteDesdeFim)
	}
	if filter.PossuiFuncionarios != nil {
		query = query.Where("possui_funcionarios = ?", *filter.PossuiFuncionarios)
	}
	if filter.PossuiProLabore != nil {
		query = query.Where("possui_pro_labore = ?", *filter.PossuiProLabore)
	}
	return query
}

func clientesToDomain(rows []*models.ClienteModel) []*cliente.Cliente {
	out := make([]*cliente.Cliente, len(rows))
	for i, m := range rows {
		out[i] = m.ToDomain()
	}
	return out
}

// GormIrHistoricoRepository implements IrHistoricoRepository using GORM
type GormIrHistoricoRepository struct {
	db *gorm.DB
}

// NewGormIrHistoricoRepository creates a new GormIrHistoricoRepository
func NewGormIrHistoricoRepository(db *gorm.DB) *GormIrHistoricoRepository {
	return &GormIrHistoricoRepository{db: db}
}

// Upsert inserts the row or updates the one with the same (cliente, ano).
// h.ID is replaced with the stored row's ID.
func (r *GormIrHistoricoRepository) Upsert(ctx context.Context, h *cliente.IrHistorico) error {
	model := models.IrHistoricoModelFromDomain(h)
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "cliente_id"}, {Name: "ano"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"status", "data_entrega", "valor_pagar", "valor_restituir", "observacoes", "updated_at",
		}),
	}).Create(model).Error
	if err != nil {
		return err
	}
	stored, err := r.FindByClienteAno(ctx, h.ClienteID, h.Ano)
	if err != nil {
		return err
	}
	h.ID = stored.ID
	h.CreatedAt = stored.CreatedAt
	return nil
}

// Update writes every field of the row
func (r *GormIrHistoricoRepository) Update(ctx context.Context, h *cliente.IrHistorico) error {
	return updateModel(ctx, r.db, models.IrHistoricoModelFromDomain(h))
}

// FindByClienteAno finds the row of a client for a year
func (r *GormIrHistoricoRepository) FindByClienteAno(ctx context.Context, clienteID uuid.UUID, ano int) (*cliente.IrHistorico, error) {
	var model models.IrHistoricoModel
	if err := r.db.WithContext(ctx).
		Where("cliente_id = ? AND ano = ?", clienteID, ano).
		First(&model).Error; err != nil {
		return nil, notFound(err)
	}
	return model.ToDomain(), nil
}

// FindByCliente returns the rows of a client, newest year first
func (r *GormIrHistoricoRepository) FindByCliente(ctx context.Context, clienteID uuid.UUID) ([]*cliente.IrHistorico, error) {
	var rows []*models.IrHistoricoModel
	if err := r.db.WithContext(ctx).
		Where("cliente_id = ?", clienteID).
		Order("ano DESC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]*cliente.IrHistorico, len(rows))
	for i, m := range rows {
		out[i] = m.ToDomain()
	}
	return out, nil
}

var (
	_ cliente.ClienteRepository     = (*GormClienteRepository)(nil)
	_ cliente.IrHistoricoRepository = (*GormIrHistoricoRepository)(nil)
)
