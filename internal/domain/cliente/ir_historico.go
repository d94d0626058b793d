package cliente

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// IrHistorico is the income tax declaration record of a client for one year
type IrHistorico struct {
	ID             uuid.UUID
	ClienteID      uuid.UUID
	Ano            int
	Status         string
	DataEntrega    *time.Time
	ValorPagar     decimal.Decimal
	ValorRestituir decimal.Decimal
	Observacoes    string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// IrHistoricoPatch holds the editable fields of a history row
type IrHistoricoPatch struct {
	Status         *string
	DataEntrega    *time.Time
	ValorPagar     *decimal.Decimal
	ValorRestituir *decimal.Decimal
	Observacoes    *string
}

// Apply copies the non-nil patch fields
func (h *IrHistorico) Apply(p IrHistoricoPatch) {
	if p.Status != nil {
		h.Status = *p.Status
	}
	if p.DataEntrega != nil {
		h.DataEntrega = p.DataEntrega
	}
	if p.ValorPagar != nil {
		h.ValorPagar = *p.ValorPagar
	}
	if p.ValorRestituir != nil {
		h.ValorRestituir = *p.ValorRestituir
	}
	if p.Observacoes != nil {
		h.Observacoes = *p.Observacoes
	}
	h.UpdatedAt = time.Now()
}
