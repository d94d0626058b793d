package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/patrickdauer/Sistema-Prosperar-sub000/internal/domain/cliente"
	"github.com/patrickdauer/Sistema-Prosperar-sub000/internal/domain/registration"
	"github.com/patrickdauer/Sistema-Prosperar-sub000/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCliente(t *testing.T, razao, cnpj, cidade string, createdAt time.Time) *cliente.Cliente {
	t.Helper()
	c, err := cliente.NewCliente(cliente.Cliente{
		RazaoSocial:      razao,
		CNPJ:             cnpj,
		Cidade:           cidade,
		RegimeTributario: "Simples Nacional",
		ValorMensalidade: decimal.RequireFromString("450.00"),
		Socios:           []registration.Socio{{Nome: "João", CPF: "52998224725"}},
		Documentos:       []string{"clientes/contrato.pdf"},
	})
	require.NoError(t, err)
	c.CreatedAt = createdAt
	c.UpdatedAt = createdAt
	return c
}

func TestGormClienteRepository(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormClienteRepository(db)
	ctx := context.Background()
	base := time.Date(2025, 1, 10, 8, 0, 0, 0, time.UTC)

	padaria := newTestCliente(t, "Padaria Pão Quente Ltda", "11.222.333/0001-81", "Campinas", base)
	oficina := newTestCliente(t, "Oficina do Zé ME", "45.723.174/0001-10", "São Paulo", base.Add(time.Hour))
	semCNPJ := newTestCliente(t, "Consultoria Souza", "", "Campinas", base.Add(2*time.Hour))
	semCNPJ.PossuiFuncionarios = true
	for _, c := range []*cliente.Cliente{padaria, oficina, semCNPJ} {
		require.NoError(t, repo.Create(ctx, c))
	}

	t.Run("round trip", func(t *testing.T) {
		found, err := repo.FindByCNPJ(ctx, "11222333000181")
		require.NoError(t, err)
		assert.Equal(t, padaria.ID, found.ID)
		assert.True(t, decimal.RequireFromString("450").Equal(found.ValorMensalidade))
		require.Len(t, found.Socios, 1)
		assert.Equal(t, "João", found.Socios[0].Nome)
		assert.Equal(t, []string{"clientes/contrato.pdf"}, found.Documentos)
		assert.Equal(t, cliente.StatusAtivo, found.Status)
	})

	t.Run("exists by cnpj", func(t *testing.T) {
		exists, err := repo.ExistsByCNPJ(ctx, "45723174000110")
		require.NoError(t, err)
		assert.True(t, exists)

		exists, err = repo.ExistsByCNPJ(ctx, "")
		require.NoError(t, err)
		assert.False(t, exists)
	})

	t.Run("find by ids skips unknown", func(t *testing.T) {
		found, err := repo.FindByIDs(ctx, []uuid.UUID{padaria.ID, uuid.New()})
		require.NoError(t, err)
		require.Len(t, found, 1)
		assert.Equal(t, padaria.ID, found[0].ID)
	})

	t.Run("filters", func(t *testing.T) {
		items, total, err := repo.FindAll(ctx, cliente.Filter{Search: "padaria"})
		require.NoError(t, err)
		assert.Equal(t, int64(1), total)
		assert.Equal(t, padaria.ID, items[0].ID)

		items, _, err = repo.FindAll(ctx, cliente.Filter{Search: "45.723.174"})
		require.NoError(t, err)
		require.Len(t, items, 1)
		assert.Equal(t, oficina.ID, items[0].ID)

		yes := true
		items, _, err = repo.FindAll(ctx, cliente.Filter{Cidade: "campinas", PossuiFuncionarios: &yes})
		require.NoError(t, err)
		require.Len(t, items, 1)
		assert.Equal(t, semCNPJ.ID, items[0].ID)
	})

	t.Run("pages newest first with the full total", func(t *testing.T) {
		items, total, err := repo.FindAll(ctx, cliente.Filter{Page: 2, PageSize: 2})
		require.NoError(t, err)
		assert.Equal(t, int64(3), total)
		require.Len(t, items, 1)
		assert.Equal(t, padaria.ID, items[0].ID)
	})

	t.Run("sorts by whitelisted column", func(t *testing.T) {
		items, _, err := repo.FindAll(ctx, cliente.Filter{SortBy: "razao_social", SortOrder: "asc"})
		require.NoError(t, err)
		require.Len(t, items, 3)
		assert.Equal(t, []uuid.UUID{semCNPJ.ID, oficina.ID, padaria.ID}, []uuid.UUID{items[0].ID, items[1].ID, items[2].ID})

		items, _, err = repo.FindAll(ctx, cliente.Filter{SortBy: "senha; DROP TABLE clientes"})
		require.NoError(t, err)
		require.Len(t, items, 3)
		assert.Equal(t, semCNPJ.ID, items[0].ID)
	})

	t.Run("delete removes ir history", func(t *testing.T) {
		ir := NewGormIrHistoricoRepository(db)
		require.NoError(t, ir.Upsert(ctx, &cliente.IrHistorico{
			ID: uuid.New(), ClienteID: oficina.ID, Ano: 2024, Status: "entregue",
			CreatedAt: time.Now(), UpdatedAt: time.Now(),
		}))
		require.NoError(t, repo.Delete(ctx, oficina.ID))

		rows, err := ir.FindByCliente(ctx, oficina.ID)
		require.NoError(t, err)
		assert.Empty(t, rows)
		_, err = repo.FindByID(ctx, oficina.ID)
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestGormIrHistoricoRepository_Upsert(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormIrHistoricoRepository(db)
	ctx := context.Background()
	clienteID := uuid.New()
	now := time.Date(2025, 5, 2, 0, 0, 0, 0, time.UTC)

	first := &cliente.IrHistorico{
		ID: uuid.New(), ClienteID: clienteID, Ano: 2024, Status: "pendente",
		ValorPagar: decimal.RequireFromString("100.50"), CreatedAt: now, UpdatedAt: now,
	}
	require.NoError(t, repo.Upsert(ctx, first))

	again := &cliente.IrHistorico{
		ID: uuid.New(), ClienteID: clienteID, Ano: 2024, Status: "entregue",
		ValorPagar: decimal.RequireFromString("80"), CreatedAt: now, UpdatedAt: now.Add(time.Hour),
	}
	require.NoError(t, repo.Upsert(ctx, again))
	assert.Equal(t, first.ID, again.ID)

	require.NoError(t, repo.Upsert(ctx, &cliente.IrHistorico{
		ID: uuid.New(), ClienteID: clienteID, Ano: 2023, Status: "entregue", CreatedAt: now, UpdatedAt: now,
	}))

	rows, err := repo.FindByCliente(ctx, clienteID)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, 2024, rows[0].Ano)
	assert.Equal(t, "entregue", rows[0].Status)
	assert.True(t, decimal.RequireFromString("80").Equal(rows[0].ValorPagar))

	_, err = repo.FindByClienteAno(ctx, clienteID, 2020)
	assert.ErrorIs(t, err, shared.ErrNotFound)
}
