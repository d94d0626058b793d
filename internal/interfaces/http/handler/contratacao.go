package handler

import (
	"github.com/gin-gonic/gin"

	appcontratacao "github.com/patrickdauer/Sistema-Prosperar-sub000/internal/application/contratacao"
)

// Multipart field names of the public hiring form
const (
	contratacaoDataField     = "data"
	contratacaoDocumentField = "documento"
)

// ContratacaoHandler serves the employee hiring form
type ContratacaoHandler struct {
	BaseHandler
	service *appcontratacao.ContratacaoService
}

// NewContratacaoHandler creates a new hiring handler
func NewContratacaoHandler(service *appcontratacao.ContratacaoService) *ContratacaoHandler {
	return &ContratacaoHandler{service: service}
}

// Submit godoc
// @ID           submitContratacao
// @Summary      Submit a hiring request
// @Description  Public form. data carries the JSON document; up to 10 files in documento.
// @Tags         contratacao
// @Accept       multipart/form-data
// @Produce      json
// @Param        data formData string true "Hiring request JSON"
// @Param        documento formData file false "Documents"
// @Success      201 {object} APIResponse[appcontratacao.ContratacaoResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      413 {object} ErrorResponse
// @Router       /contratacao-funcionarios [post]
func (h *ContratacaoHandler) Submit(c *gin.Context) {
	form, ok := h.ParseMultipart(c)
	if !ok {
		return
	}
	var req appcontratacao.SubmitRequest
	if !h.BindFormJSON(c, form, contratacaoDataField, &req) {
		return
	}

	if len(form.File[contratacaoDocumentField]) > appcontratacao.MaxDocuments {
		h.ErrorWithCode(c, "TOO_MANY_FILES", "Envie no máximo 10 documentos")
		return
	}
	parts, err := readFormFiles(form, func(field string) bool {
		return field == contratacaoDocumentField
	})
	if err != nil {
		h.BadRequest(c, "Failed to read uploaded files")
		return
	}
	docs := make([]appcontratacao.Document, len(parts))
	for i, p := range parts {
		docs[i] = appcontratacao.Document{FileName: p.FileName, ContentType: p.ContentType, Content: p.Content}
	}

	resp, err := h.service.Submit(c.Request.Context(), req, docs)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// List godoc
// @ID           listContratacoes
// @Summary      List hiring requests
// @Tags         contratacao
// @Produce      json
// @Success      200 {object} APIResponse[[]appcontratacao.ContratacaoResponse]
// @Security     BearerAuth
// @Router       /contratacao-funcionarios [get]
func (h *ContratacaoHandler) List(c *gin.Context) {
	items, err := h.service.List(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, items)
}

// Get godoc
// @ID           getContratacao
// @Summary      Get a hiring request
// @Tags         contratacao
// @Produce      json
// @Param        id path string true "Hiring request ID" format(uuid)
// @Success      200 {object} APIResponse[appcontratacao.ContratacaoResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /contratacao-funcionarios/{id} [get]
func (h *ContratacaoHandler) Get(c *gin.Context) {
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

// UpdateStatus godoc
// @ID           updateContratacaoStatus
// @Summary      Change hiring request status
// @Tags         contratacao
// @Accept       json
// @Produce      json
// @Param        id path string true "Hiring request ID" format(uuid)
// @Param        request body appcontratacao.UpdateStatusRequest true "New status"
// @Success      200 {object} APIResponse[appcontratacao.ContratacaoResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /contratacao-funcionarios/{id}/status [patch]
func (h *ContratacaoHandler) UpdateStatus(c *gin.Context) {
	id, ok := h.ParamUUID(c, "id")
	if !ok {
		return
	}
	var req appcontratacao.UpdateStatusRequest
	if !h.BindJSON(c, &req) {
		return
	}
	resp, err := h.service.UpdateStatus(c.Request.Context(), id, req.Status)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Delete godoc
// @ID           deleteContratacao
// @Summary      Delete a hiring request
// @Tags         contratacao
// @Param        id path string true "Hiring request ID" format(uuid)
// @Success      204
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /contratacao-funcionarios/{id} [delete]
func (h *ContratacaoHandler) Delete(c *gin.Context) {
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

// PDF godoc
// @ID           getContratacaoPDF
// @Summary      Download the hiring request PDF
// @Tags         contratacao
// @Produce      application/pdf
// @Param        id path string true "Hiring request ID" format(uuid)
// @Success      200 {file} binary
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /contratacao-funcionarios/{id}/pdf [get]
func (h *ContratacaoHandler) PDF(c *gin.Context) {
	id, ok := h.ParamUUID(c, "id")
	if !ok {
		return
	}
	content, name, err := h.service.PDF(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Attachment(c, content, name, "application/pdf")
}
