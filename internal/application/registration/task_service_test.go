package registration

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/patrickdauer/Sistema-Prosperar-sub000/internal/domain/registration"
	"github.com/patrickdauer/Sistema-Prosperar-sub000/internal/domain/shared"
	"github.com/patrickdauer/Sistema-Prosperar-sub000/tests/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type taskFixture struct {
	taskRepo     *MockTaskRepository
	templateRepo *MockTemplateRepository
	activityRepo *MockActivityRepository
	fileRepo     *MockFileRepository
	storage      *testutil.MemoryStorage
	service      *TaskService
	now          time.Time
}

func newTaskFixture() *taskFixture {
	f := &taskFixture{
		taskRepo:     new(MockTaskRepository),
		templateRepo: new(MockTemplateRepository),
		activityRepo: new(MockActivityRepository),
		fileRepo:     new(MockFileRepository),
		storage:      testutil.NewMemoryStorage(),
		now:          time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC),
	}
	f.service = NewTaskService(f.taskRepo, f.templateRepo, f.activityRepo, f.fileRepo, f.storage, zap.NewNop())
	f.service.now = func() time.Time { return f.now }
	return f
}

func newPendingTask(t *testing.T, title string) *registration.Task {
	t.Helper()
	task, err := registration.NewTask(title, "", registration.DepartmentSocietario)
	require.NoError(t, err)
	return task
}

func activityWith(action string) interface{} {
	return mock.MatchedBy(func(a *registration.TaskActivity) bool { return a.Action == action })
}

func TestTaskService_CreateTasksForCliente(t *testing.T) {
	ctx := context.Background()
	f := newTaskFixture()
	clienteID := uuid.New()

	f.templateRepo.On("FindAll", ctx, true).Return(activeTemplates(t), nil)
	f.taskRepo.On("CreateBatch", ctx, mock.Anything).Return(nil)

	tasks, err := f.service.CreateTasksForCliente(ctx, clienteID, "12345678000195")
	require.NoError(t, err)
	require.Len(t, tasks, 2)

	first := tasks[0]
	assert.Equal(t, "Consulta de viabilidade", first.Title)
	assert.Equal(t, clienteID, *first.ClienteID)
	assert.Nil(t, first.RegistrationID)
	assert.Equal(t, "12345678000195", first.CNPJ)
	assert.Equal(t, "pending", first.Status)
	require.NotNil(t, first.DueDate)
	assert.Equal(t, f.now.Add(48*time.Hour), *first.DueDate)

	// templates without an estimate fall back to the default
	assert.Equal(t, f.now.Add(registration.DefaultEstimatedDays*24*time.Hour), *tasks[1].DueDate)
}

func TestTaskService_CreateTasksForRegistration_NoTemplates(t *testing.T) {
	ctx := context.Background()
	f := newTaskFixture()
	f.templateRepo.On("FindAll", ctx, true).Return([]*registration.TaskTemplate{}, nil)

	tasks, err := f.service.CreateTasksForRegistration(ctx, uuid.New())
	require.NoError(t, err)
	assert.Empty(t, tasks)
	f.taskRepo.AssertNotCalled(t, "CreateBatch", mock.Anything, mock.Anything)
}

func TestTaskService_Create(t *testing.T) {
	ctx := context.Background()
	f := newTaskFixture()
	userID := uuid.New()
	regID := uuid.New()

	f.taskRepo.On("Create", ctx, mock.AnythingOfType("*registration.Task")).Return(nil)
	f.activityRepo.On("Create", ctx, activityWith(registration.ActionTaskCreated)).Return(nil)

	resp, err := f.service.Create(ctx, &userID, CreateTaskRequest{
		RegistrationID: &regID,
		Title:          "Registrar na junta",
		Department:     "societario",
		Order:          4,
	})
	require.NoError(t, err)
	assert.Equal(t, "Registrar na junta", resp.Title)
	assert.Equal(t, regID, *resp.RegistrationID)
	assert.Equal(t, 4, resp.Order)
	f.activityRepo.AssertExpectations(t)

	_, err = f.service.Create(ctx, &userID, CreateTaskRequest{Title: "x", Department: "juridico"})
	var de *shared.DomainError
	require.True(t, errors.As(err, &de))
	assert.Equal(t, "INVALID_DEPARTMENT", de.Code)
}

func TestTaskService_UpdateStatus(t *testing.T) {
	ctx := context.Background()

	t.Run("completing records a completion activity", func(t *testing.T) {
		f := newTaskFixture()
		task := newPendingTask(t, "Alvará")
		userID := uuid.New()
		f.taskRepo.On("FindByID", ctx, task.ID).Return(task, nil)
		f.taskRepo.On("Update", ctx, task).Return(nil)
		f.activityRepo.On("Create", ctx, mock.MatchedBy(func(a *registration.TaskActivity) bool {
			return a.Action == registration.ActionTaskCompleted &&
				a.Description == `Tarefa "Alvará" foi concluída` &&
				*a.UserID == userID
		})).Return(nil)

		resp, err := f.service.UpdateStatus(ctx, task.ID, "completed", &userID)
		require.NoError(t, err)
		assert.Equal(t, "completed", resp.Status)
		require.NotNil(t, resp.CompletedAt)
		assert.Equal(t, f.now, *resp.CompletedAt)
		f.activityRepo.AssertExpectations(t)
	})

	t.Run("reopening clears completion", func(t *testing.T) {
		f := newTaskFixture()
		task := newPendingTask(t, "Alvará")
		require.NoError(t, task.ChangeStatus(registration.TaskStatusCompleted, f.now))
		f.taskRepo.On("FindByID", ctx, task.ID).Return(task, nil)
		f.taskRepo.On("Update", ctx, task).Return(nil)
		f.activityRepo.On("Create", ctx, activityWith(registration.ActionTaskUpdated)).Return(nil)

		resp, err := f.service.UpdateStatus(ctx, task.ID, "in_progress", nil)
		require.NoError(t, err)
		assert.Nil(t, resp.CompletedAt)
	})

	t.Run("activity failures are not fatal", func(t *testing.T) {
		f := newTaskFixture()
		task := newPendingTask(t, "Alvará")
		f.taskRepo.On("FindByID", ctx, task.ID).Return(task, nil)
		f.taskRepo.On("Update", ctx, task).Return(nil)
		f.activityRepo.On("Create", ctx, mock.Anything).Return(errors.New("insert failed"))

		_, err := f.service.UpdateStatus(ctx, task.ID, "in_progress", nil)
		assert.NoError(t, err)
	})

	t.Run("unknown task", func(t *testing.T) {
		f := newTaskFixture()
		id := uuid.New()
		f.taskRepo.On("FindByID", ctx, id).Return(nil, shared.ErrNotFound)

		_, err := f.service.UpdateStatus(ctx, id, "completed", nil)
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestTaskService_Assign(t *testing.T) {
	ctx := context.Background()
	f := newTaskFixture()
	task := newPendingTask(t, "Inscrição municipal")
	assignee := uuid.New()
	f.taskRepo.On("FindByID", ctx, task.ID).Return(task, nil)
	f.taskRepo.On("Update", ctx, task).Return(nil)
	f.activityRepo.On("Create", ctx, activityWith(registration.ActionTaskAssigned)).Return(nil)

	resp, err := f.service.Assign(ctx, task.ID, assignee, nil)
	require.NoError(t, err)
	assert.Equal(t, assignee, *resp.AssignedTo)
	assert.Equal(t, "in_progress", resp.Status)
	f.activityRepo.AssertExpectations(t)
}

func TestTaskService_UpdateField(t *testing.T) {
	ctx := context.Background()

	t.Run("plain field does not record activity", func(t *testing.T) {
		f := newTaskFixture()
		task := newPendingTask(t, "DAS")
		f.taskRepo.On("FindByID", ctx, task.ID).Return(task, nil)
		f.taskRepo.On("Update", ctx, task).Return(nil)

		resp, err := f.service.UpdateField(ctx, task.ID, UpdateTaskFieldRequest{Field: "observacao", Value: "aguardando cliente"}, nil)
		require.NoError(t, err)
		assert.Equal(t, "aguardando cliente", resp.Observacao)
		f.activityRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("multiple with a status change records activity", func(t *testing.T) {
		f := newTaskFixture()
		task := newPendingTask(t, "DAS")
		f.taskRepo.On("FindByID", ctx, task.ID).Return(task, nil)
		f.taskRepo.On("Update", ctx, task).Return(nil)
		f.activityRepo.On("Create", ctx, activityWith(registration.ActionTaskCompleted)).Return(nil)

		resp, err := f.service.UpdateField(ctx, task.ID, UpdateTaskFieldRequest{
			Field: "multiple",
			Value: map[string]any{"status": "completed", "data_lembrete": "2025-04-01", "cnpj": "12345678000195"},
		}, nil)
		require.NoError(t, err)
		assert.Equal(t, "completed", resp.Status)
		assert.Equal(t, "12345678000195", resp.CNPJ)
		require.NotNil(t, resp.DataLembrete)
		assert.Equal(t, "2025-04-01", resp.DataLembrete.Format("2006-01-02"))
		f.activityRepo.AssertExpectations(t)
	})

	t.Run("rejects fields outside the whitelist", func(t *testing.T) {
		f := newTaskFixture()
		task := newPendingTask(t, "DAS")
		f.taskRepo.On("FindByID", ctx, task.ID).Return(task, nil)

		_, err := f.service.UpdateField(ctx, task.ID, UpdateTaskFieldRequest{Field: "registration_id", Value: "x"}, nil)
		var de *shared.DomainError
		require.True(t, errors.As(err, &de))
		assert.Equal(t, "INVALID_FIELD", de.Code)
		f.taskRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})
}

func TestTaskService_Activities(t *testing.T) {
	ctx := context.Background()
	f := newTaskFixture()
	task := newPendingTask(t, "DAS")
	activity := registration.NewTaskActivity(task.ID, nil, registration.ActionTaskCreated, "criada")
	f.taskRepo.On("FindByID", ctx, task.ID).Return(task, nil)
	f.activityRepo.On("FindByTask", ctx, task.ID).Return([]*registration.TaskActivity{activity}, nil)

	out, err := f.service.Activities(ctx, task.ID)
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, activity.ID, out[0].ID)
	assert.Equal(t, "task_created", out[0].Action)
}

func TestTaskService_AttachFile(t *testing.T) {
	ctx := context.Background()

	t.Run("stores file under the task", func(t *testing.T) {
		f := newTaskFixture()
		task := newPendingTask(t, "Contrato")
		userID := uuid.New()
		f.taskRepo.On("FindByID", ctx, task.ID).Return(task, nil)
		var record *registration.TaskFile
		f.fileRepo.On("Create", ctx, mock.AnythingOfType("*registration.TaskFile")).
			Run(func(args mock.Arguments) { record = args.Get(1).(*registration.TaskFile) }).
			Return(nil)
		f.activityRepo.On("Create", ctx, activityWith(registration.ActionFileAttached)).Return(nil)

		resp, err := f.service.AttachFile(ctx, task.ID, UploadedFile{
			FileName:    "Contrato Social Assinado.PDF",
			ContentType: "application/pdf",
			Content:     []byte("%PDF"),
		}, &userID)
		require.NoError(t, err)

		assert.Equal(t, "Contrato_Social_Assinado.pdf", resp.FileName)
		assert.Equal(t, "Contrato Social Assinado.PDF", resp.OriginalName)
		assert.Equal(t, int64(4), resp.Size)
		assert.True(t, strings.HasPrefix(record.StorageKey, "tasks/"+task.ID.String()+"/"))
		assert.True(t, strings.HasSuffix(record.StorageKey, "_Contrato_Social_Assinado.pdf"))
		assert.Equal(t, []string{record.StorageKey}, f.storage.Keys())
		assert.Contains(t, resp.DownloadURL, record.StorageKey)
		assert.Contains(t, resp.DownloadURL, "ttl=1h0m0s")
	})

	t.Run("removes the object when the record cannot be saved", func(t *testing.T) {
		f := newTaskFixture()
		task := newPendingTask(t, "Contrato")
		f.taskRepo.On("FindByID", ctx, task.ID).Return(task, nil)
		f.fileRepo.On("Create", ctx, mock.Anything).Return(errors.New("insert failed"))

		_, err := f.service.AttachFile(ctx, task.ID, UploadedFile{FileName: "a.txt", ContentType: "text/plain", Content: []byte("a")}, nil)
		require.Error(t, err)
		assert.Empty(t, f.storage.Keys())
	})

	t.Run("rejects unsupported types", func(t *testing.T) {
		f := newTaskFixture()

		_, err := f.service.AttachFile(ctx, uuid.New(), UploadedFile{FileName: "run.sh", ContentType: "application/x-sh"}, nil)
		var de *shared.DomainError
		require.True(t, errors.As(err, &de))
		assert.Equal(t, "INVALID_FILE_TYPE", de.Code)
	})

	t.Run("requires storage", func(t *testing.T) {
		f := newTaskFixture()
		f.service.storage = nil

		_, err := f.service.AttachFile(ctx, uuid.New(), UploadedFile{FileName: "a.pdf", ContentType: "application/pdf"}, nil)
		assert.ErrorIs(t, err, shared.ErrNotConfigured)
	})
}

func TestTaskService_DeleteFile(t *testing.T) {
	ctx := context.Background()
	f := newTaskFixture()
	file := &registration.TaskFile{ID: uuid.New(), TaskID: uuid.New(), StorageKey: "tasks/x/abc_a.pdf"}
	f.storage.Put(file.StorageKey, []byte("a"))
	f.fileRepo.On("FindByID", ctx, file.ID).Return(file, nil)
	f.fileRepo.On("Delete", ctx, file.ID).Return(nil)

	require.NoError(t, f.service.DeleteFile(ctx, file.ID))
	assert.Empty(t, f.storage.Keys())
	f.fileRepo.AssertExpectations(t)
}

func TestIsAllowedAttachment(t *testing.T) {
	assert.True(t, IsAllowedAttachment("application/pdf"))
	assert.True(t, IsAllowedAttachment("Application/Vnd.Openxmlformats-Officedocument.Spreadsheetml.Sheet"))
	assert.False(t, IsAllowedAttachment("application/x-sh"))
	assert.False(t, IsAllowedAttachment(""))
}
