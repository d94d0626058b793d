package handler

import (
	"github.com/gin-gonic/gin"

	appregistration "github.com/patrickdauer/Sistema-Prosperar-sub000/internal/application/registration"
)

// taskFileField is the multipart field of task attachments
const taskFileField = "file"

// TaskHandler handles task-related HTTP requests
type TaskHandler struct {
	BaseHandler
	service *appregistration.TaskService
}

// NewTaskHandler creates a new task handler
func NewTaskHandler(service *appregistration.TaskService) *TaskHandler {
	return &TaskHandler{service: service}
}

// Mine godoc
// @ID           listMyTasks
// @Summary      Tasks assigned to the current user
// @Tags         tasks
// @Produce      json
// @Success      200 {object} APIResponse[[]appregistration.TaskResponse]
// @Security     BearerAuth
// @Router       /tasks/my [get]
func (h *TaskHandler) Mine(c *gin.Context) {
	userID, ok := h.RequireUser(c)
	if !ok {
		return
	}
	tasks, err := h.service.TasksByUser(c.Request.Context(), userID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, tasks)
}

// ByRegistration godoc
// @ID           listRegistrationTasks
// @Summary      Tasks of a registration
// @Tags         tasks
// @Produce      json
// @Param        id path string true "Registration ID" format(uuid)
// @Success      200 {object} APIResponse[[]appregistration.TaskResponse]
// @Security     BearerAuth
// @Router       /tasks/registration/{id} [get]
func (h *TaskHandler) ByRegistration(c *gin.Context) {
	id, ok := h.ParamUUID(c, "id")
	if !ok {
		return
	}
	tasks, err := h.service.TasksByRegistration(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, tasks)
}

// Create godoc
// @ID           createTask
// @Summary      Create an ad-hoc task
// @Tags         tasks
// @Accept       json
// @Produce      json
// @Param        request body appregistration.CreateTaskRequest true "Task"
// @Success      201 {object} APIResponse[appregistration.TaskResponse]
// @Failure      400 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /tasks [post]
func (h *TaskHandler) Create(c *gin.Context) {
	var req appregistration.CreateTaskRequest
	if !h.BindJSON(c, &req) {
		return
	}
	task, err := h.service.Create(c.Request.Context(), userIDPtr(c), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, task)
}

// UpdateStatus godoc
// @ID           updateTaskStatus
// @Summary      Change task status
// @Tags         tasks
// @Accept       json
// @Produce      json
// @Param        id path string true "Task ID" format(uuid)
// @Param        request body appregistration.UpdateTaskStatusRequest true "New status"
// @Success      200 {object} APIResponse[appregistration.TaskResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /tasks/{id}/status [patch]
func (h *TaskHandler) UpdateStatus(c *gin.Context) {
	id, ok := h.ParamUUID(c, "id")
	if !ok {
		return
	}
	var req appregistration.UpdateTaskStatusRequest
	if !h.BindJSON(c, &req) {
		return
	}
	task, err := h.service.UpdateStatus(c.Request.Context(), id, req.Status, userIDPtr(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, task)
}

// Assign godoc
// @ID           assignTask
// @Summary      Assign a task
// @Tags         tasks
// @Accept       json
// @Produce      json
// @Param        id path string true "Task ID" format(uuid)
// @Param        request body appregistration.AssignTaskRequest true "Assignee"
// @Success      200 {object} APIResponse[appregistration.TaskResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /tasks/{id}/assign [patch]
func (h *TaskHandler) Assign(c *gin.Context) {
	id, ok := h.ParamUUID(c, "id")
	if !ok {
		return
	}
	var req appregistration.AssignTaskRequest
	if !h.BindJSON(c, &req) {
		return
	}
	task, err := h.service.Assign(c.Request.Context(), id, req.UserID, userIDPtr(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, task)
}

// UpdateField godoc
// @ID           updateTaskField
// @Summary      Update one task field
// @Description  Accepted fields: status, observacao, data_lembrete, cnpj, title, description
// @Description  and multiple (an object of those fields)
// @Tags         tasks
// @Accept       json
// @Produce      json
// @Param        id path string true "Task ID" format(uuid)
// @Param        request body appregistration.UpdateTaskFieldRequest true "Field and value"
// @Success      200 {object} APIResponse[appregistration.TaskResponse]
// @Failure      400 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /tasks/{id}/field [patch]
func (h *TaskHandler) UpdateField(c *gin.Context) {
	id, ok := h.ParamUUID(c, "id")
	if !ok {
		return
	}
	var req appregistration.UpdateTaskFieldRequest
	if !h.BindJSON(c, &req) {
		return
	}
	task, err := h.service.UpdateField(c.Request.Context(), id, req, userIDPtr(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, task)
}

// Delete godoc
// @ID           deleteTask
// @Summary      Delete a task
// @Tags         tasks
// @Param        id path string true "Task ID" format(uuid)
// @Success      204
// @Security     BearerAuth
// @Router       /tasks/{id} [delete]
func (h *TaskHandler) Delete(c *gin.Context) {
	id, ok := h.ParamUUID(c, "id")
	if !ok {
		return
	}
	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// Activities godoc
// @ID           listTaskActivities
// @Summary      Task activity log
// @Tags         tasks
// @Produce      json
// @Param        id path string true "Task ID" format(uuid)
// @Success      200 {object} APIResponse[[]appregistration.TaskActivityResponse]
// @Security     BearerAuth
// @Router       /tasks/{id}/activities [get]
func (h *TaskHandler) Activities(c *gin.Context) {
	id, ok := h.ParamUUID(c, "id")
	if !ok {
		return
	}
	items, err := h.service.Activities(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, items)
}

// Files godoc
// @ID           listTaskFiles
// @Summary      Task attachments
// @Tags         tasks
// @Produce      json
// @Param        id path string true "Task ID" format(uuid)
// @Success      200 {object} APIResponse[[]appregistration.TaskFileResponse]
// @Security     BearerAuth
// @Router       /tasks/{id}/files [get]
func (h *TaskHandler) Files(c *gin.Context) {
	id, ok := h.ParamUUID(c, "id")
	if !ok {
		return
	}
	files, err := h.service.Files(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, files)
}

// AttachFile godoc
// @ID           attachTaskFile
// @Summary      Attach a file to a task
// @Tags         tasks
// @Accept       multipart/form-data
// @Produce      json
// @Param        id path string true "Task ID" format(uuid)
// @Param        file formData file true "Attachment"
// @Success      201 {object} APIResponse[appregistration.TaskFileResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      413 {object} ErrorResponse
// @Failure      503 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /tasks/{id}/files [post]
func (h *TaskHandler) AttachFile(c *gin.Context) {
	id, ok := h.ParamUUID(c, "id")
	if !ok {
		return
	}
	fh, err := c.FormFile(taskFileField)
	if err != nil {
		h.bindMultipartError(c, err)
		return
	}
	content, err := readFileHeader(fh)
	if err != nil {
		h.BadRequest(c, "Failed to read uploaded file")
		return
	}

	file, err := h.service.AttachFile(c.Request.Context(), id, appregistration.UploadedFile{
		FileName:    fh.Filename,
		ContentType: fileContentType(fh),
		Content:     content,
	}, userIDPtr(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, file)
}

// DeleteFile godoc
// @ID           deleteTaskFile
// @Summary      Remove a task attachment
// @Tags         tasks
// @Param        fileId path string true "File ID" format(uuid)
// @Success      204
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /tasks/files/{fileId} [delete]
func (h *TaskHandler) DeleteFile(c *gin.Context) {
	id, ok := h.ParamUUID(c, "fileId")
	if !ok {
		return
	}
	if err := h.service.DeleteFile(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
