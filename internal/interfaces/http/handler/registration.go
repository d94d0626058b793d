package handler

import (
	"github.com/gin-gonic/gin"

	appregistration "github.com/patrickdauer/Sistema-Prosperar-sub000/internal/application/registration"
)

// Multipart field names of the public registration form
const (
	businessDataField       = "businessData"
	documentoComFotoPrefix  = "documentoComFoto"
	certidaoCasamentoPrefix = "certidaoCasamento"
	documentosAdicPrefix    = "documentosAdicionais"
)

var documentKindByPrefix = map[string]appregistration.DocumentKind{
	documentoComFotoPrefix:  appregistration.DocumentComFoto,
	certidaoCasamentoPrefix: appregistration.DocumentCertidao,
	documentosAdicPrefix:    appregistration.DocumentAdicional,
}

// RegistrationHandler serves the business registration form and its
// backoffice views
type RegistrationHandler struct {
	BaseHandler
	service *appregistration.RegistrationService
}

// NewRegistrationHandler creates a new registration handler
func NewRegistrationHandler(service *appregistration.RegistrationService) *RegistrationHandler {
	return &RegistrationHandler{service: service}
}

// Submit godoc
// @ID           submitBusinessRegistration
// @Summary      Submit a business registration
// @Description  Public form. businessData carries the JSON document; partner files use
// @Description  documentoComFoto_{i}, certidaoCasamento_{i} and documentosAdicionais_{i}.
// @Tags         registrations
// @Accept       multipart/form-data
// @Produce      json
// @Param        businessData formData string true "Registration JSON"
// @Success      201 {object} APIResponse[appregistration.RegistrationResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      413 {object} ErrorResponse
// @Router       /business-registration [post]
func (h *RegistrationHandler) Submit(c *gin.Context) {
	form, ok := h.ParseMultipart(c)
	if !ok {
		return
	}
	var req appregistration.SubmitRequest
	if !h.BindFormJSON(c, form, businessDataField, &req) {
		return
	}

	parts, err := readFormFiles(form, func(field string) bool {
		prefix, _, ok := splitIndexedField(field)
		_, known := documentKindByPrefix[prefix]
		return ok && known
	})
	if err != nil {
		h.BadRequest(c, "Failed to read uploaded files")
		return
	}

	files := make([]appregistration.UploadedFile, 0, len(parts))
	for _, p := range parts {
		prefix, index, _ := splitIndexedField(p.Field)
		files = append(files, appregistration.UploadedFile{
			SocioIndex:  index,
			Kind:        documentKindByPrefix[prefix],
			FileName:    p.FileName,
			ContentType: p.ContentType,
			Content:     p.Content,
		})
	}

	resp, err := h.service.Submit(c.Request.Context(), req, files)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// List godoc
// @ID           listBusinessRegistrations
// @Summary      List business registrations
// @Tags         registrations
// @Produce      json
// @Success      200 {object} APIResponse[[]appregistration.RegistrationResponse]
// @Security     BearerAuth
// @Router       /business-registrations [get]
func (h *RegistrationHandler) List(c *gin.Context) {
	items, err := h.service.List(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, items)
}

// ListWithTasks godoc
// @ID           listRegistrationsWithTasks
// @Summary      Registrations with their tasks
// @Description  Also returns one group per client whose tasks have no registration
// @Tags         registrations
// @Produce      json
// @Success      200 {object} APIResponse[[]appregistration.RegistrationWithTasks]
// @Security     BearerAuth
// @Router       /internal/registrations [get]
func (h *RegistrationHandler) ListWithTasks(c *gin.Context) {
	groups, err := h.service.ListWithTasks(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, groups)
}

// Get godoc
// @ID           getBusinessRegistration
// @Summary      Get a business registration
// @Tags         registrations
// @Produce      json
// @Param        id path string true "Registration ID" format(uuid)
// @Success      200 {object} APIResponse[appregistration.RegistrationResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /business-registration/{id} [get]
func (h *RegistrationHandler) Get(c *gin.Context) {
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

// Update godoc
// @ID           updateBusinessRegistration
// @Summary      Edit a business registration
// @Tags         registrations
// @Accept       json
// @Produce      json
// @Param        id path string true "Registration ID" format(uuid)
// @Param        request body appregistration.UpdateRequest true "Fields to change"
// @Success      200 {object} APIResponse[appregistration.RegistrationResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /business-registration/{id} [put]
func (h *RegistrationHandler) Update(c *gin.Context) {
	id, ok := h.ParamUUID(c, "id")
	if !ok {
		return
	}
	var req appregistration.UpdateRequest
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

// UpdateStatus godoc
// @ID           updateBusinessRegistrationStatus
// @Summary      Change registration status
// @Tags         registrations
// @Accept       json
// @Produce      json
// @Param        id path string true "Registration ID" format(uuid)
// @Param        request body appregistration.UpdateStatusRequest true "New status"
// @Success      200 {object} APIResponse[appregistration.RegistrationResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /business-registration/{id}/status [patch]
func (h *RegistrationHandler) UpdateStatus(c *gin.Context) {
	id, ok := h.ParamUUID(c, "id")
	if !ok {
		return
	}
	var req appregistration.UpdateStatusRequest
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
// @ID           deleteBusinessRegistration
// @Summary      Delete a business registration
// @Tags         registrations
// @Param        id path string true "Registration ID" format(uuid)
// @Success      204
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /business-registration/{id} [delete]
func (h *RegistrationHandler) Delete(c *gin.Context) {
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
// @ID           getBusinessRegistrationPDF
// @Summary      Download the registration PDF
// @Tags         registrations
// @Produce      application/pdf
// @Param        id path string true "Registration ID" format(uuid)
// @Success      200 {file} binary
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /business-registration/{id}/pdf [get]
func (h *RegistrationHandler) PDF(c *gin.Context) {
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
