package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/patrickdauer/Sistema-Prosperar-sub000/internal/domain/registration"
	"github.com/patrickdauer/Sistema-Prosperar-sub000/internal/domain/shared"
	"github.com/patrickdauer/Sistema-Prosperar-sub000/internal/infrastructure/persistence/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRegistration(t *testing.T, razao string, createdAt time.Time) *registration.BusinessRegistration {
	t.Helper()
	r, err := registration.NewBusinessRegistration(registration.BusinessRegistration{
		RazaoSocial:         razao,
		EmailEmpresa:        "contato@empresa.com.br",
		Endereco:            "Rua das Flores, 100",
		CapitalSocial:       decimal.RequireFromString("15000.00"),
		AtividadesSugeridas: []string{"6201-5/01", "6204-0/00"},
		Socios: []registration.Socio{
			{Nome: "Maria Souza", CPF: "123.456.789-09", Email: "maria@empresa.com.br", DocumentosAdicionaisURLs: []string{"cadastros/x/rg.pdf"}},
		},
	})
	require.NoError(t, err)
	r.CreatedAt = createdAt
	r.UpdatedAt = createdAt
	return r
}

func TestGormRegistrationRepository(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormRegistrationRepository(db)
	ctx := context.Background()
	base := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)

	older := newTestRegistration(t, "Alfa Ltda", base)
	newer := newTestRegistration(t, "Beta Ltda", base.Add(time.Hour))
	require.NoError(t, repo.Create(ctx, older))
	require.NoError(t, repo.Create(ctx, newer))

	t.Run("round trips json columns", func(t *testing.T) {
		found, err := repo.FindByID(ctx, older.ID)
		require.NoError(t, err)
		assert.Equal(t, "Alfa Ltda", found.RazaoSocial)
		assert.True(t, decimal.RequireFromString("15000").Equal(found.CapitalSocial))
		assert.Equal(t, []string{"6201-5/01", "6204-0/00"}, found.AtividadesSugeridas)
		require.Len(t, found.Socios, 1)
		assert.Equal(t, "12345678909", found.Socios[0].CPF)
		assert.Equal(t, []string{"cadastros/x/rg.pdf"}, found.Socios[0].DocumentosAdicionaisURLs)
		assert.Equal(t, registration.StatusPending, found.Status)
		assert.Empty(t, found.GetDomainEvents())
	})

	t.Run("find all newest first", func(t *testing.T) {
		all, err := repo.FindAll(ctx)
		require.NoError(t, err)
		require.Len(t, all, 2)
		assert.Equal(t, newer.ID, all[0].ID)
	})

	t.Run("update", func(t *testing.T) {
		require.NoError(t, older.UpdateStatus(registration.StatusProcessing))
		older.PDFKey = "cadastros/alfa/cadastro.pdf"
		require.NoError(t, repo.Update(ctx, older))

		found, err := repo.FindByID(ctx, older.ID)
		require.NoError(t, err)
		assert.Equal(t, registration.StatusProcessing, found.Status)
		assert.Equal(t, "cadastros/alfa/cadastro.pdf", found.PDFKey)
	})

	t.Run("delete cascades to tasks", func(t *testing.T) {
		tasks := NewGormTaskRepository(db)
		activities := NewGormTaskActivityRepository(db)
		files := NewGormTaskFileRepository(db)

		task, err := registration.NewTask("Viabilidade", "", registration.DepartmentSocietario)
		require.NoError(t, err)
		task.RegistrationID = &older.ID
		require.NoError(t, tasks.Create(ctx, task))
		require.NoError(t, activities.Create(ctx, registration.NewTaskActivity(task.ID, nil, registration.ActionTaskCreated, "criada")))
		require.NoError(t, files.Create(ctx, &registration.TaskFile{
			ID: uuid.New(), TaskID: task.ID, FileName: "a.pdf", OriginalName: "a.pdf", StorageKey: "tarefas/a.pdf", CreatedAt: time.Now(),
		}))

		require.NoError(t, repo.Delete(ctx, older.ID))

		_, err = repo.FindByID(ctx, older.ID)
		assert.ErrorIs(t, err, shared.ErrNotFound)
		var count int64
		require.NoError(t, db.Model(&models.TaskModel{}).Count(&count).Error)
		assert.Zero(t, count)
		require.NoError(t, db.Model(&models.TaskActivityModel{}).Count(&count).Error)
		assert.Zero(t, count)
		require.NoError(t, db.Model(&models.TaskFileModel{}).Count(&count).Error)
		assert.Zero(t, count)

		assert.ErrorIs(t, repo.Delete(ctx, older.ID), shared.ErrNotFound)
	})
}

func TestGormTaskRepository_Queries(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormTaskRepository(db)
	ctx := context.Background()

	regID := uuid.New()
	clienteID := uuid.New()
	userID := uuid.New()
	due := func(day int) *time.Time {
		d := time.Date(2025, 4, day, 0, 0, 0, 0, time.UTC)
		return &d
	}
	newTask := func(title string, order int) *registration.Task {
		task, err := registration.NewTask(title, "", registration.DepartmentFiscal)
		require.NoError(t, err)
		task.Order = order
		return task
	}

	second := newTask("Inscrição estadual", 2)
	second.RegistrationID = &regID
	second.AssignedTo = &userID
	second.DueDate = due(10)
	first := newTask("Contrato social", 1)
	first.RegistrationID = &regID
	first.AssignedTo = &userID
	first.DueDate = due(5)
	undated := newTask("Alvará", 3)
	undated.ClienteID = &clienteID
	undated.AssignedTo = &userID
	promoted := newTask("Cadastro no simples", 4)
	promoted.RegistrationID = &regID
	promoted.ClienteID = &clienteID

	require.NoError(t, repo.CreateBatch(ctx, []*registration.Task{second, first, undated, promoted}))
	require.NoError(t, repo.CreateBatch(ctx, nil))

	titles := func(tasks []*registration.Task) []string {
		out := make([]string, len(tasks))
		for i, task := range tasks {
			out[i] = task.Title
		}
		return out
	}

	byReg, err := repo.FindByRegistration(ctx, regID)
	require.NoError(t, err)
	assert.Equal(t, []string{"Contrato social", "Inscrição estadual", "Cadastro no simples"}, titles(byReg))

	byCliente, err := repo.FindByCliente(ctx, clienteID)
	require.NoError(t, err)
	assert.Equal(t, []string{"Alvará", "Cadastro no simples"}, titles(byCliente))

	byUser, err := repo.FindByAssignee(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, []string{"Contrato social", "Inscrição estadual", "Alvará"}, titles(byUser))

	clienteOnly, err := repo.FindClienteOnly(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Alvará"}, titles(clienteOnly))

	t.Run("delete removes activities", func(t *testing.T) {
		activities := NewGormTaskActivityRepository(db)
		require.NoError(t, activities.Create(ctx, registration.NewTaskActivity(first.ID, &userID, registration.ActionTaskUpdated, "x")))
		require.NoError(t, repo.Delete(ctx, first.ID))

		found, err := activities.FindByTask(ctx, first.ID)
		require.NoError(t, err)
		assert.Empty(t, found)
		assert.ErrorIs(t, repo.Delete(ctx, first.ID), shared.ErrNotFound)
	})
}

func TestGormTaskTemplateRepository(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormTaskTemplateRepository(db)
	ctx := context.Background()

	mk := func(name string, dept registration.Department, order int, active bool) {
		tpl, err := registration.NewTaskTemplate(name, "", dept, order, 2, true)
		require.NoError(t, err)
		tpl.IsActive = active
		require.NoError(t, repo.Create(ctx, tpl))
	}
	mk("Folha", registration.DepartmentPessoal, 1, true)
	mk("Apuração", registration.DepartmentFiscal, 2, true)
	mk("Parcelamento", registration.DepartmentFiscal, 1, true)
	mk("Antigo", registration.DepartmentFiscal, 0, false)

	active, err := repo.FindAll(ctx, true)
	require.NoError(t, err)
	require.Len(t, active, 3)
	assert.Equal(t, "Parcelamento", active[0].Name)
	assert.Equal(t, "Apuração", active[1].Name)
	assert.Equal(t, "Folha", active[2].Name)

	all, err := repo.FindAll(ctx, false)
	require.NoError(t, err)
	assert.Len(t, all, 4)

	count, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(4), count)
}

func TestGormTaskActivityRepository_NewestFirst(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormTaskActivityRepository(db)
	ctx := context.Background()
	taskID := uuid.New()

	older := registration.NewTaskActivity(taskID, nil, registration.ActionTaskCreated, "criada")
	older.CreatedAt = time.Date(2025, 4, 1, 9, 0, 0, 0, time.UTC)
	newer := registration.NewTaskActivity(taskID, nil, registration.ActionTaskCompleted, "concluída")
	newer.CreatedAt = older.CreatedAt.Add(time.Minute)
	require.NoError(t, repo.Create(ctx, older))
	require.NoError(t, repo.Create(ctx, newer))

	found, err := repo.FindByTask(ctx, taskID)
	require.NoError(t, err)
	require.Len(t, found, 2)
	assert.Equal(t, registration.ActionTaskCompleted, found[0].Action)
}
