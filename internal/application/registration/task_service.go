package registration

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/patrickdauer/Sistema-Prosperar-sub000/internal/application/ports"
	"github.com/patrickdauer/Sistema-Prosperar-sub000/internal/domain/registration"
	"github.com/patrickdauer/Sistema-Prosperar-sub000/internal/domain/shared"
	"github.com/patrickdauer/Sistema-Prosperar-sub000/internal/infrastructure/storage"
	"go.uber.org/zap"
)

// IsAllowedAttachment reports whether a MIME type is accepted as a task
// attachment
func IsAllowedAttachment(contentType string) bool {
	switch strings.ToLower(contentType) {
	case "image/jpeg", "image/png", "application/pdf", "text/plain", "text/csv",
		"application/msword",
		"application/vnd.openxmlformats-officedocument.wordprocessingml.document",
		"application/vnd.ms-excel",
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		"application/zip":
		return true
	}
	return false
}

// attachmentURLTTL is how long task attachment download links stay valid
const attachmentURLTTL = time.Hour

// TaskService manages department tasks, their activity trail and files
type TaskService struct {
	taskRepo     registration.TaskRepository
	templateRepo registration.TaskTemplateRepository
	activityRepo registration.TaskActivityRepository
	fileRepo     registration.TaskFileRepository
	storage      ports.ObjectStorage
	logger       *zap.Logger
	now          func() time.Time
}

// NewTaskService creates a new TaskService
func NewTaskService(
	taskRepo registration.TaskRepository,
	templateRepo registration.TaskTemplateRepository,
	activityRepo registration.TaskActivityRepository,
	fileRepo registration.TaskFileRepository,
	storage ports.ObjectStorage,
	logger *zap.Logger,
) *TaskService {
	return &TaskService{
		taskRepo:     taskRepo,
		templateRepo: templateRepo,
		activityRepo: activityRepo,
		fileRepo:     fileRepo,
		storage:      storage,
		logger:       logger,
		now:          time.Now,
	}
}

// CreateTasksForRegistration instantiates every active template for a
// registration.
func (s *TaskService) CreateTasksForRegistration(ctx context.Context, registrationID uuid.UUID) ([]TaskResponse, error) {
	return s.createFromTemplates(ctx, func(t *registration.Task) {
		t.RegistrationID = &registrationID
	})
}

// CreateTasksForCliente instantiates every active template for a client
func (s *TaskService) CreateTasksForCliente(ctx context.Context, clienteID uuid.UUID, cnpj string) ([]TaskResponse, error) {
	return s.createFromTemplates(ctx, func(t *registration.Task) {
		t.ClienteID = &clienteID
		t.CNPJ = cnpj
	})
}

func (s *TaskService) createFromTemplates(ctx context.Context, owner func(*registration.Task)) ([]TaskResponse, error) {
	templates, err := s.templateRepo.FindAll(ctx, true)
	if err != nil {
		return nil, err
	}
	if len(templates) == 0 {
		return []TaskResponse{}, nil
	}

	now := s.now()
	tasks := make([]*registration.Task, len(templates))
	for i, tpl := range templates {
		tasks[i] = registration.NewTaskFromTemplate(tpl, now)
		owner(tasks[i])
	}

	if err := s.taskRepo.CreateBatch(ctx, tasks); err != nil {
		return nil, err
	}
	return ToTaskResponses(tasks), nil
}

// TasksByRegistration returns a registration's tasks by order
func (s *TaskService) TasksByRegistration(ctx context.Context, registrationID uuid.UUID) ([]TaskResponse, error) {
	tasks, err := s.taskRepo.FindByRegistration(ctx, registrationID)
	if err != nil {
		return nil, err
	}
	return ToTaskResponses(tasks), nil
}

// TasksByCliente returns a client's tasks by order
func (s *TaskService) TasksByCliente(ctx context.Context, clienteID uuid.UUID) ([]TaskResponse, error) {
	tasks, err := s.taskRepo.FindByCliente(ctx, clienteID)
	if err != nil {
		return nil, err
	}
	return ToTaskResponses(tasks), nil
}

// TasksByUser returns the tasks assigned to a user by due date
func (s *TaskService) TasksByUser(ctx context.Context, userID uuid.UUID) ([]TaskResponse, error) {
	tasks, err := s.taskRepo.FindByAssignee(ctx, userID)
	if err != nil {
		return nil, err
	}
	return ToTaskResponses(tasks), nil
}

// Create adds an ad-hoc task
func (s *TaskService) Create(ctx context.Context, userID *uuid.UUID, req CreateTaskRequest) (*TaskResponse, error) {
	task, err := registration.NewTask(req.Title, req.Description, registration.Department(req.Department))
	if err != nil {
		return nil, err
	}
	task.RegistrationID = req.RegistrationID
	task.ClienteID = req.ClienteID
	task.Order = req.Order
	task.AssignedTo = req.AssignedTo
	task.DueDate = req.DueDate
	task.CNPJ = req.CNPJ

	if err := s.taskRepo.Create(ctx, task); err != nil {
		return nil, err
	}
	s.recordActivity(ctx, registration.NewTaskActivity(task.ID, userID, registration.ActionTaskCreated,
		fmt.Sprintf("Tarefa \"%s\" foi criada", task.Title)))

	resp := ToTaskResponse(task)
	return &resp, nil
}

// UpdateStatus changes a task status and records the activity
func (s *TaskService) UpdateStatus(ctx context.Context, id uuid.UUID, status string, userID *uuid.UUID) (*TaskResponse, error) {
	task, err := s.taskRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := task.ChangeStatus(registration.TaskStatus(status), s.now()); err != nil {
		return nil, err
	}
	if err := s.taskRepo.Update(ctx, task); err != nil {
		return nil, err
	}
	s.recordActivity(ctx, registration.StatusActivity(task, userID))

	resp := ToTaskResponse(task)
	return &resp, nil
}

// Assign gives a task to a user and starts it
func (s *TaskService) Assign(ctx context.Context, id, assignee uuid.UUID, actor *uuid.UUID) (*TaskResponse, error) {
	task, err := s.taskRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	task.Assign(assignee)
	if err := s.taskRepo.Update(ctx, task); err != nil {
		return nil, err
	}
	s.recordActivity(ctx, registration.NewTaskActivity(task.ID, actor, registration.ActionTaskAssigned,
		fmt.Sprintf("Tarefa \"%s\" foi atribuída", task.Title)))

	resp := ToTaskResponse(task)
	return &resp, nil
}

// UpdateField updates a whitelisted field. Only status changes are recorded
// in the activity trail.
func (s *TaskService) UpdateField(ctx context.Context, id uuid.UUID, req UpdateTaskFieldRequest, userID *uuid.UUID) (*TaskResponse, error) {
	task, err := s.taskRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	previous := task.Status
	if err := task.ApplyField(req.Field, req.Value, s.now()); err != nil {
		return nil, err
	}
	if err := s.taskRepo.Update(ctx, task); err != nil {
		return nil, err
	}
	if task.Status != previous {
		s.recordActivity(ctx, registration.StatusActivity(task, userID))
	}

	resp := ToTaskResponse(task)
	return &resp, nil
}

// Delete removes a task
func (s *TaskService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.taskRepo.Delete(ctx, id)
}

// Activities returns a task's activity trail, newest first
func (s *TaskService) Activities(ctx context.Context, taskID uuid.UUID) ([]TaskActivityResponse, error) {
	if _, err := s.taskRepo.FindByID(ctx, taskID); err != nil {
		return nil, err
	}
	activities, err := s.activityRepo.FindByTask(ctx, taskID)
	if err != nil {
		return nil, err
	}
	out := make([]TaskActivityResponse, len(activities))
	for i, a := range activities {
		out[i] = TaskActivityResponse{
			ID:          a.ID,
			TaskID:      a.TaskID,
			UserID:      a.UserID,
			Action:      a.Action,
			Description: a.Description,
			CreatedAt:   a.CreatedAt,
		}
	}
	return out, nil
}

// AttachFile stores a file under the task
func (s *TaskService) AttachFile(ctx context.Context, taskID uuid.UUID, file UploadedFile, userID *uuid.UUID) (*TaskFileResponse, error) {
	if s.storage == nil {
		return nil, shared.ErrNotConfigured
	}
	if !IsAllowedAttachment(file.ContentType) {
		return nil, shared.NewDomainError("INVALID_FILE_TYPE", "Tipo de arquivo não permitido: "+file.FileName)
	}
	if file.Size() > MaxFileSize {
		return nil, shared.NewDomainError("FILE_TOO_LARGE", fmt.Sprintf("Arquivo %s excede o limite de 10MB", file.FileName))
	}

	task, err := s.taskRepo.FindByID(ctx, taskID)
	if err != nil {
		return nil, err
	}

	fileID := uuid.New()
	base := strings.TrimSuffix(file.FileName, storageExt(file.FileName))
	fileName := storage.ObjectName(base) + storage.Extension(file.ContentType, file.FileName)
	key := storage.JoinKey("tasks", task.ID.String(), fileID.String()[:8]+"_"+fileName)

	if err := s.storage.Upload(ctx, key, bytes.NewReader(file.Content), file.Size(), file.ContentType); err != nil {
		return nil, fmt.Errorf("upload task file: %w", err)
	}

	record := &registration.TaskFile{
		ID:           fileID,
		TaskID:       task.ID,
		FileName:     fileName,
		OriginalName: file.FileName,
		StorageKey:   key,
		MimeType:     file.ContentType,
		Size:         file.Size(),
		UploadedBy:   userID,
		CreatedAt:    s.now(),
	}
	if err := s.fileRepo.Create(ctx, record); err != nil {
		if delErr := s.storage.Delete(ctx, key); delErr != nil {
			s.logger.Warn("Failed to remove orphaned task file", zap.String("key", key), zap.Error(delErr))
		}
		return nil, err
	}

	s.recordActivity(ctx, registration.NewTaskActivity(task.ID, userID, registration.ActionFileAttached,
		fmt.Sprintf("Arquivo \"%s\" anexado", file.FileName)))

	resp := s.toFileResponse(ctx, record)
	return &resp, nil
}

// Files lists a task's attachments with short-lived download links
func (s *TaskService) Files(ctx context.Context, taskID uuid.UUID) ([]TaskFileResponse, error) {
	files, err := s.fileRepo.FindByTask(ctx, taskID)
	if err != nil {
		return nil, err
	}
	out := make([]TaskFileResponse, len(files))
	for i, f := range files {
		out[i] = s.toFileResponse(ctx, f)
	}
	return out, nil
}

// DeleteFile removes an attachment from storage and the database
func (s *TaskService) DeleteFile(ctx context.Context, fileID uuid.UUID) error {
	file, err := s.fileRepo.FindByID(ctx, fileID)
	if err != nil {
		return err
	}
	if s.storage != nil {
		if err := s.storage.Delete(ctx, file.StorageKey); err != nil {
			s.logger.Warn("Failed to delete task file from storage", zap.String("key", file.StorageKey), zap.Error(err))
		}
	}
	return s.fileRepo.Delete(ctx, fileID)
}

func (s *TaskService) toFileResponse(ctx context.Context, f *registration.TaskFile) TaskFileResponse {
	resp := TaskFileResponse{
		ID:           f.ID,
		TaskID:       f.TaskID,
		FileName:     f.FileName,
		OriginalName: f.OriginalName,
		MimeType:     f.MimeType,
		Size:         f.Size,
		UploadedBy:   f.UploadedBy,
		CreatedAt:    f.CreatedAt,
	}
	if s.storage != nil {
		if url, err := s.storage.DownloadURL(ctx, f.StorageKey, attachmentURLTTL); err == nil {
			resp.DownloadURL = url
		}
	}
	return resp
}

func (s *TaskService) recordActivity(ctx context.Context, a *registration.TaskActivity) {
	if err := s.activityRepo.Create(ctx, a); err != nil {
		s.logger.Warn("Failed to record task activity",
			zap.String("task_id", a.TaskID.String()),
			zap.String("action", a.Action),
			zap.Error(err))
	}
}

func storageExt(name string) string {
	if i := strings.LastIndex(name, "."); i > 0 {
		return name[i:]
	}
	return ""
}
