package cliente

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Filter narrows client listings
type Filter struct {
	Search             string
	Cidade             string
	RegimeTributario   string
	Status             Status
	DataAberturaInicio *time.Time
	DataAberturaFim    *time.Time
	ClienteDesdeInicio *time.Time
	ClienteDesdeFim    *time.Time
	PossuiFuncionarios *bool
	PossuiProLabore    *bool
	// SortBy is a column name; unknown columns fall back to created_at
	SortBy             string
	SortOrder          string
	Page               int
	PageSize           int
}

// ClienteRepository persists clients
type ClienteRepository interface {
	Create(ctx context.Context, c *Cliente) error
	Update(ctx context.Context, c *Cliente) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*Cliente, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*Cliente, error)
	FindByCNPJ(ctx context.Context, cnpj string) (*Cliente, error)
	ExistsByCNPJ(ctx context.Context, cnpj string) (bool, error)
	// FindAll returns clients newest first together with the unpaged total
	FindAll(ctx context.Context, filter Filter) ([]*Cliente, int64, error)
}

// IrHistoricoRepository persists yearly income tax records
type IrHistoricoRepository interface {
	// Upsert inserts the row or updates the one with the same (cliente, ano)
	Upsert(ctx context.Context, h *IrHistorico) error
	Update(ctx context.Context, h *IrHistorico) error
	FindByClienteAno(ctx context.Context, clienteID uuid.UUID, ano int) (*IrHistorico, error)
	// FindByCliente returns rows ordered by year, newest first
	FindByCliente(ctx context.Context, clienteID uuid.UUID) ([]*IrHistorico, error)
}
