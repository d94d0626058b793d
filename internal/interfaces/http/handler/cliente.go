package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	appcliente "github.com/patrickdauer/Sistema-Prosperar-sub000/internal/application/cliente"
)

// clienteImportField is the multipart field of the spreadsheet upload
const clienteImportField = "file"

// maxImportFileSize caps the spreadsheet accepted by the import
const maxImportFileSize = 10 << 20

// ClienteHandler handles client-related HTTP requests
type ClienteHandler struct {
	BaseHandler
	service *appcliente.ClienteService
}

// NewClienteHandler creates a new client handler
func NewClienteHandler(service *appcliente.ClienteService) *ClienteHandler {
	return &ClienteHandler{service: service}
}

// List godoc
// @ID           listClientes
// @Summary      List clients
// @Description  Filtered and paginated; search matches name, trade name and CNPJ
// @Tags         clientes
// @Produce      json
// @Param        search query string false "Free text"
// @Param        cidade query string false "City"
// @Param        regime_tributario query string false "Tax regime"
// @Param        status query string false "ativo, inativo or suspenso"
// @Param        sort_by query string false "Sort column, e.g. razao_social or cliente_desde"
// @Param        sort_order query string false "asc or desc"
// @Param        page query int false "Page" minimum(1)
// @Param        page_size query int false "Page size" minimum(1) maximum(500)
// @Success      200 {object} APIResponse[[]appcliente.ClienteResponse]
// @Failure      400 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /clientes [get]
func (h *ClienteHandler) List(c *gin.Context) {
	var filter appcliente.ListFilter
	if !h.BindQuery(c, &filter) {
		return
	}
	result, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, result.Items, result.Total, result.Page, result.PageSize)
}

// Get godoc
// @ID           getCliente
// @Summary      Get a client
// @Tags         clientes
// @Produce      json
// @Param        id path string true "Client ID" format(uuid)
// @Success      200 {object} APIResponse[appcliente.ClienteResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /clientes/{id} [get]
func (h *ClienteHandler) Get(c *gin.Context) {
	id, ok := h.ParamUUID(c, "id")
	if !ok {
		return
	}
	resp, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Create godoc
// @ID           createCliente
// @Summary      Create a client
// @Tags         clientes
// @Accept       json
// @Produce      json
// @Param        request body appcliente.ClienteRequest true "Client"
// @Success      201 {object} APIResponse[appcliente.ClienteResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /clientes [post]
func (h *ClienteHandler) Create(c *gin.Context) {
	var req appcliente.ClienteRequest
	if !h.BindJSON(c, &req) {
		return
	}
	resp, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// Update godoc
// @ID           updateCliente
// @Summary      Update a client
// @Description  Changing the income tax year archives the previous year in the history
// @Tags         clientes
// @Accept       json
// @Produce      json
// @Param        id path string true "Client ID" format(uuid)
// @Param        request body appcliente.ClienteRequest true "Client"
// @Success      200 {object} APIResponse[appcliente.ClienteResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /clientes/{id} [put]
func (h *ClienteHandler) Update(c *gin.Context) {
	id, ok := h.ParamUUID(c, "id")
	if !ok {
		return
	}
	var req appcliente.ClienteRequest
	if !h.BindJSON(c, &req) {
		return
	}
	resp, err := h.service.Update(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Delete godoc
// @ID           deleteCliente
// @Summary      Delete a client
// @Tags         clientes
// @Param        id path string true "Client ID" format(uuid)
// @Success      204
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /clientes/{id} [delete]
func (h *ClienteHandler) Delete(c *gin.Context) {
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

// IrHistory godoc
// @ID           listClienteIrHistory
// @Summary      Income tax history
// @Tags         clientes
// @Produce      json
// @Param        id path string true "Client ID" format(uuid)
// @Success      200 {object} APIResponse[[]appcliente.IrHistoricoResponse]
// @Security     BearerAuth
// @Router       /clientes/{id}/ir-historico [get]
func (h *ClienteHandler) IrHistory(c *gin.Context) {
	id, ok := h.ParamUUID(c, "id")
	if !ok {
		return
	}
	items, err := h.service.IrHistory(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, items)
}

// UpdateIrHistoryYear godoc
// @ID           updateClienteIrHistoryYear
// @Summary      Edit one year of the income tax history
// @Tags         clientes
// @Accept       json
// @Produce      json
// @Param        id path string true "Client ID" format(uuid)
// @Param        ano path int true "Year"
// @Param        request body appcliente.IrHistoricoRequest true "Fields to change"
// @Success      200 {object} APIResponse[appcliente.IrHistoricoResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /clientes/{id}/ir-historico/{ano} [put]
func (h *ClienteHandler) UpdateIrHistoryYear(c *gin.Context) {
	id, ok := h.ParamUUID(c, "id")
	if !ok {
		return
	}
	ano, err := strconv.Atoi(c.Param("ano"))
	if err != nil || ano < 2000 || ano > 2100 {
		h.BadRequest(c, "Invalid ano")
		return
	}
	var req appcliente.IrHistoricoRequest
	if !h.BindJSON(c, &req) {
		return
	}
	resp, err := h.service.UpdateIrHistoryYear(c.Request.Context(), id, ano, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Promote godoc
// @ID           promoteRegistrationToCliente
// @Summary      Turn a registration into a client
// @Tags         clientes
// @Accept       json
// @Produce      json
// @Param        id path string true "Registration ID" format(uuid)
// @Param        request body appcliente.PromoteRequest false "Extra client fields"
// @Success      201 {object} APIResponse[appcliente.ClienteResponse]
// @Failure      404 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /business-registrations/{id}/promover-cliente [post]
func (h *ClienteHandler) Promote(c *gin.Context) {
	id, ok := h.ParamUUID(c, "id")
	if !ok {
		return
	}
	var req appcliente.PromoteRequest
	if c.Request.ContentLength != 0 && !h.BindJSON(c, &req) {
		return
	}
	resp, err := h.service.PromoteFromRegistration(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// Import godoc
// @ID           importClientes
// @Summary      Import clients from CSV
// @Description  Rows whose CNPJ already exists are skipped
// @Tags         clientes
// @Accept       multipart/form-data
// @Produce      json
// @Param        file formData file true "CSV export"
// @Success      200 {object} APIResponse[appcliente.ImportResult]
// @Failure      400 {object} ErrorResponse
// @Failure      413 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /clientes/import [post]
func (h *ClienteHandler) Import(c *gin.Context) {
	fh, err := c.FormFile(clienteImportField)
	if err != nil {
		h.bindMultipartError(c, err)
		return
	}
	if fh.Size > maxImportFileSize {
		h.ErrorWithCode(c, "FILE_TOO_LARGE", "file exceeds maximum size of 10MB")
		return
	}
	file, err := fh.Open()
	if err != nil {
		h.BadRequest(c, "Failed to read uploaded file")
		return
	}
	defer file.Close()

	result, err := h.service.ImportCSV(c.Request.Context(), file)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// Tasks godoc
// @ID           listClienteTasks
// @Summary      Tasks of a client
// @Tags         clientes
// @Produce      json
// @Param        id path string true "Client ID" format(uuid)
// @Success      200 {object} APIResponse[[]appregistration.TaskResponse]
// @Security     BearerAuth
// @Router       /clientes/{id}/tasks [get]
func (h *ClienteHandler) Tasks(c *gin.Context) {
	id, ok := h.ParamUUID(c, "id")
	if !ok {
		return
	}
	tasks, err := h.service.Tasks(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, tasks)
}

// CreateTasks godoc
// @ID           createClienteTasks
// @Summary      Create a client's tasks from the active templates
// @Tags         clientes
// @Produce      json
// @Param        id path string true "Client ID" format(uuid)
// @Success      201 {object} APIResponse[[]appregistration.TaskResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /clientes/{id}/tasks [post]
func (h *ClienteHandler) CreateTasks(c *gin.Context) {
	id, ok := h.ParamUUID(c, "id")
	if !ok {
		return
	}
	tasks, err := h.service.CreateTasks(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, tasks)
}
