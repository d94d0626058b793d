package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	appregistration "github.com/patrickdauer/Sistema-Prosperar-sub000/internal/application/registration"
)

// TaskTemplateHandler manages the templates tasks are created from
type TaskTemplateHandler struct {
	BaseHandler
	service *appregistration.TemplateService
}

// NewTaskTemplateHandler creates a new task template handler
func NewTaskTemplateHandler(service *appregistration.TemplateService) *TaskTemplateHandler {
	return &TaskTemplateHandler{service: service}
}

// List godoc
// @ID           listTaskTemplates
// @Summary      List task templates
// @Tags         task-templates
// @Produce      json
// @Param        active query bool false "Only active templates"
// @Success      200 {object} APIResponse[[]appregistration.TaskTemplateResponse]
// @Security     BearerAuth
// @Router       /task-templates [get]
func (h *TaskTemplateHandler) List(c *gin.Context) {
	activeOnly, _ := strconv.ParseBool(c.Query("active"))
	items, err := h.service.List(c.Request.Context(), activeOnly)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, items)
}

// Create godoc
// @ID           createTaskTemplate
// @Summary      Create a task template
// @Tags         task-templates
// @Accept       json
// @Produce      json
// @Param        request body appregistration.TaskTemplateRequest true "Template"
// @Success      201 {object} APIResponse[appregistration.TaskTemplateResponse]
// @Failure      400 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /task-templates [post]
func (h *TaskTemplateHandler) Create(c *gin.Context) {
	var req appregistration.TaskTemplateRequest
	if !h.BindJSON(c, &req) {
		return
	}
	tpl, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, tpl)
}

// Update godoc
// @ID           updateTaskTemplate
// @Summary      Replace a task template
// @Tags         task-templates
// @Accept       json
// @Produce      json
// @Param        id path string true "Template ID" format(uuid)
// @Param        request body appregistration.TaskTemplateRequest true "Template"
// @Success      200 {object} APIResponse[appregistration.TaskTemplateResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /task-templates/{id} [put]
func (h *TaskTemplateHandler) Update(c *gin.Context) {
	id, ok := h.ParamUUID(c, "id")
	if !ok {
		return
	}
	var req appregistration.TaskTemplateRequest
	if !h.BindJSON(c, &req) {
		return
	}
	tpl, err := h.service.Update(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, tpl)
}

// Deactivate godoc
// @ID           deactivateTaskTemplate
// @Summary      Deactivate a task template
// @Tags         task-templates
// @Param        id path string true "Template ID" format(uuid)
// @Success      204
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /task-templates/{id} [delete]
func (h *TaskTemplateHandler) Deactivate(c *gin.Context) {
	id, ok := h.ParamUUID(c, "id")
	if !ok {
		return
	}
	if err := h.service.Deactivate(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
