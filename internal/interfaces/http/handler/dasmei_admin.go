package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	appdasmei "github.com/patrickdauer/Sistema-Prosperar-sub000/internal/application/dasmei"
	"github.com/patrickdauer/Sistema-Prosperar-sub000/internal/domain/shared"
)

// DasmeiAdminHandler serves the DAS-MEI configuration: message templates,
// WhatsApp instances, settings, holidays, logs and guide providers
type DasmeiAdminHandler struct {
	BaseHandler
	admin     *appdasmei.AdminService
	providers *appdasmei.ProviderManager
}

// NewDasmeiAdminHandler creates a new DAS-MEI configuration handler
func NewDasmeiAdminHandler(admin *appdasmei.AdminService, providers *appdasmei.ProviderManager) *DasmeiAdminHandler {
	return &DasmeiAdminHandler{admin: admin, providers: providers}
}

// ListTemplates godoc
// @ID           listMessageTemplates
// @Summary      List message templates
// @Tags         dasmei-config
// @Produce      json
// @Success      200 {object} APIResponse[[]appdasmei.TemplateResponse]
// @Security     BearerAuth
// @Router       /dasmei/templates [get]
func (h *DasmeiAdminHandler) ListTemplates(c *gin.Context) {
	items, err := h.admin.ListTemplates(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, items)
}

// CreateTemplate godoc
// @ID           createMessageTemplate
// @Summary      Create a message template
// @Description  Placeholders: {{nome}}, {{cnpj}}, {{valor}}, {{vencimento}}, {{periodo}}
// @Tags         dasmei-config
// @Accept       json
// @Produce      json
// @Param        request body appdasmei.TemplateRequest true "Template"
// @Success      201 {object} APIResponse[appdasmei.TemplateResponse]
// @Failure      400 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /dasmei/templates [post]
func (h *DasmeiAdminHandler) CreateTemplate(c *gin.Context) {
	var req appdasmei.TemplateRequest
	if !h.BindJSON(c, &req) {
		return
	}
	resp, err := h.admin.CreateTemplate(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// UpdateTemplate godoc
// @ID           updateMessageTemplate
// @Summary      Update a message template
// @Tags         dasmei-config
// @Accept       json
// @Produce      json
// @Param        id path string true "Template ID" format(uuid)
// @Param        request body appdasmei.TemplateRequest true "Template"
// @Success      200 {object} APIResponse[appdasmei.TemplateResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /dasmei/templates/{id} [put]
func (h *DasmeiAdminHandler) UpdateTemplate(c *gin.Context) {
	id, ok := h.ParamUUID(c, "id")
	if !ok {
		return
	}
	var req appdasmei.TemplateRequest
	if !h.BindJSON(c, &req) {
		return
	}
	resp, err := h.admin.UpdateTemplate(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// DeleteTemplate godoc
// @ID           deleteMessageTemplate
// @Summary      Delete a message template
// @Tags         dasmei-config
// @Param        id path string true "Template ID" format(uuid)
// @Success      204
// @Security     BearerAuth
// @Router       /dasmei/templates/{id} [delete]
func (h *DasmeiAdminHandler) DeleteTemplate(c *gin.Context) {
	id, ok := h.ParamUUID(c, "id")
	if !ok {
		return
	}
	if err := h.admin.DeleteTemplate(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// ListInstances godoc
// @ID           listWhatsAppInstances
// @Summary      List WhatsApp instances
// @Tags         dasmei-config
// @Produce      json
// @Success      200 {object} APIResponse[[]appdasmei.InstanceResponse]
// @Security     BearerAuth
// @Router       /dasmei/instances [get]
func (h *DasmeiAdminHandler) ListInstances(c *gin.Context) {
	items, err := h.admin.ListInstances(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, items)
}

// CreateInstance godoc
// @ID           createWhatsAppInstance
// @Summary      Register a WhatsApp instance
// @Tags         dasmei-config
// @Accept       json
// @Produce      json
// @Param        request body appdasmei.InstanceRequest true "Instance"
// @Success      201 {object} APIResponse[appdasmei.InstanceResponse]
// @Failure      400 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /dasmei/instances [post]
func (h *DasmeiAdminHandler) CreateInstance(c *gin.Context) {
	var req appdasmei.InstanceRequest
	if !h.BindJSON(c, &req) {
		return
	}
	resp, err := h.admin.CreateInstance(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// UpdateInstance godoc
// @ID           updateWhatsAppInstance
// @Summary      Update a WhatsApp instance
// @Description  An empty token keeps the stored one
// @Tags         dasmei-config
// @Accept       json
// @Produce      json
// @Param        id path string true "Instance ID" format(uuid)
// @Param        request body appdasmei.InstanceRequest true "Instance"
// @Success      200 {object} APIResponse[appdasmei.InstanceResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /dasmei/instances/{id} [put]
func (h *DasmeiAdminHandler) UpdateInstance(c *gin.Context) {
	id, ok := h.ParamUUID(c, "id")
	if !ok {
		return
	}
	var req appdasmei.InstanceRequest
	if !h.BindJSON(c, &req) {
		return
	}
	resp, err := h.admin.UpdateInstance(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// DeleteInstance godoc
// @ID           deleteWhatsAppInstance
// @Summary      Remove a WhatsApp instance
// @Tags         dasmei-config
// @Param        id path string true "Instance ID" format(uuid)
// @Success      204
// @Security     BearerAuth
// @Router       /dasmei/instances/{id} [delete]
func (h *DasmeiAdminHandler) DeleteInstance(c *gin.Context) {
	id, ok := h.ParamUUID(c, "id")
	if !ok {
		return
	}
	if err := h.admin.DeleteInstance(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// TestInstance godoc
// @ID           testWhatsAppInstance
// @Summary      Check a WhatsApp instance connection
// @Description  The outcome is stored on the instance
// @Tags         dasmei-config
// @Produce      json
// @Param        id path string true "Instance ID" format(uuid)
// @Success      200 {object} APIResponse[appdasmei.InstanceResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /dasmei/instances/{id}/test [post]
func (h *DasmeiAdminHandler) TestInstance(c *gin.Context) {
	id, ok := h.ParamUUID(c, "id")
	if !ok {
		return
	}
	resp, err := h.admin.TestInstance(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// ListSettings godoc
// @ID           listAutomationSettings
// @Summary      List automation settings
// @Tags         dasmei-config
// @Produce      json
// @Success      200 {object} APIResponse[[]appdasmei.SettingResponse]
// @Security     BearerAuth
// @Router       /dasmei/settings [get]
func (h *DasmeiAdminHandler) ListSettings(c *gin.Context) {
	items, err := h.admin.ListSettings(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, items)
}

// UpdateSetting godoc
// @ID           updateAutomationSetting
// @Summary      Change an automation setting
// @Tags         dasmei-config
// @Accept       json
// @Produce      json
// @Param        chave path string true "Setting key"
// @Param        request body appdasmei.SettingRequest true "New value"
// @Success      200 {object} APIResponse[appdasmei.SettingResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /dasmei/settings/{chave} [put]
func (h *DasmeiAdminHandler) UpdateSetting(c *gin.Context) {
	var req appdasmei.SettingRequest
	if !h.BindJSON(c, &req) {
		return
	}
	resp, err := h.admin.UpdateSetting(c.Request.Context(), c.Param("chave"), req.Valor, userIDPtr(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// ListFeriados godoc
// @ID           listFeriados
// @Summary      List holidays
// @Tags         dasmei-config
// @Produce      json
// @Success      200 {object} APIResponse[[]appdasmei.FeriadoResponse]
// @Security     BearerAuth
// @Router       /dasmei/feriados [get]
func (h *DasmeiAdminHandler) ListFeriados(c *gin.Context) {
	items, err := h.admin.ListFeriados(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, items)
}

// CreateFeriado godoc
// @ID           createFeriado
// @Summary      Register a holiday
// @Tags         dasmei-config
// @Accept       json
// @Produce      json
// @Param        request body appdasmei.FeriadoRequest true "Holiday"
// @Success      201 {object} APIResponse[appdasmei.FeriadoResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /dasmei/feriados [post]
func (h *DasmeiAdminHandler) CreateFeriado(c *gin.Context) {
	var req appdasmei.FeriadoRequest
	if !h.BindJSON(c, &req) {
		return
	}
	resp, err := h.admin.CreateFeriado(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// UpdateFeriado godoc
// @ID           updateFeriado
// @Summary      Update a holiday
// @Tags         dasmei-config
// @Accept       json
// @Produce      json
// @Param        id path string true "Holiday ID" format(uuid)
// @Param        request body appdasmei.FeriadoRequest true "Holiday"
// @Success      200 {object} APIResponse[appdasmei.FeriadoResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /dasmei/feriados/{id} [put]
func (h *DasmeiAdminHandler) UpdateFeriado(c *gin.Context) {
	id, ok := h.ParamUUID(c, "id")
	if !ok {
		return
	}
	var req appdasmei.FeriadoRequest
	if !h.BindJSON(c, &req) {
		return
	}
	resp, err := h.admin.UpdateFeriado(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// DeleteFeriado godoc
// @ID           deleteFeriado
// @Summary      Remove a holiday
// @Tags         dasmei-config
// @Param        id path string true "Holiday ID" format(uuid)
// @Success      204
// @Security     BearerAuth
// @Router       /dasmei/feriados/{id} [delete]
func (h *DasmeiAdminHandler) DeleteFeriado(c *gin.Context) {
	id, ok := h.ParamUUID(c, "id")
	if !ok {
		return
	}
	if err := h.admin.DeleteFeriado(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// ListLogs godoc
// @ID           listSystemLogs
// @Summary      Automation audit log
// @Tags         dasmei-config
// @Produce      json
// @Param        tipo_operacao query string false "Operation"
// @Param        status query string false "success, failed or pending"
// @Param        periodo query string false "AAAAMM"
// @Param        cliente_id query string false "Client ID" format(uuid)
// @Param        limit query int false "Max rows" maximum(1000)
// @Success      200 {object} APIResponse[[]appdasmei.SystemLogResponse]
// @Failure      400 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /dasmei/logs [get]
func (h *DasmeiAdminHandler) ListLogs(c *gin.Context) {
	var filter appdasmei.LogFilter
	if !h.BindQuery(c, &filter) {
		return
	}
	items, err := h.admin.ListLogs(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, items)
}

// ListProviders godoc
// @ID           listDasProviders
// @Summary      Guide providers and their configurations
// @Tags         dasmei-config
// @Produce      json
// @Success      200 {object} APIResponse[appdasmei.ProvidersResponse]
// @Security     BearerAuth
// @Router       /dasmei/providers [get]
func (h *DasmeiAdminHandler) ListProviders(c *gin.Context) {
	resp, err := h.providers.List(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// CreateProvider godoc
// @ID           createProviderConfig
// @Summary      Store a provider configuration
// @Tags         dasmei-config
// @Accept       json
// @Produce      json
// @Param        request body appdasmei.ApiConfigRequest true "Configuration"
// @Success      201 {object} APIResponse[appdasmei.ApiConfigResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /dasmei/providers [post]
func (h *DasmeiAdminHandler) CreateProvider(c *gin.Context) {
	var req appdasmei.ApiConfigRequest
	if !h.BindJSON(c, &req) {
		return
	}
	resp, err := h.providers.CreateConfig(c.Request.Context(), req, userIDPtr(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// UpdateProvider godoc
// @ID           updateProviderConfig
// @Summary      Update a provider configuration
// @Description  Credentials omitted from the request are kept
// @Tags         dasmei-config
// @Accept       json
// @Produce      json
// @Param        id path string true "Configuration ID" format(uuid)
// @Param        request body appdasmei.ApiConfigRequest true "Configuration"
// @Success      200 {object} APIResponse[appdasmei.ApiConfigResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /dasmei/providers/{id} [put]
func (h *DasmeiAdminHandler) UpdateProvider(c *gin.Context) {
	id, ok := h.ParamUUID(c, "id")
	if !ok {
		return
	}
	var req appdasmei.ApiConfigRequest
	if !h.BindJSON(c, &req) {
		return
	}
	resp, err := h.providers.UpdateConfig(c.Request.Context(), id, req, userIDPtr(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// ActivateProvider godoc
// @ID           activateProviderConfig
// @Summary      Make a configuration the active one of its type
// @Tags         dasmei-config
// @Produce      json
// @Param        id path string true "Configuration ID" format(uuid)
// @Success      200 {object} APIResponse[MessageData]
// @Failure      404 {object} ErrorResponse
// @Failure      501 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /dasmei/providers/{id}/activate [post]
func (h *DasmeiAdminHandler) ActivateProvider(c *gin.Context) {
	id, ok := h.ParamUUID(c, "id")
	if !ok {
		return
	}
	if err := h.providers.Activate(c.Request.Context(), id, userIDPtr(c)); err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, MessageData{Message: "Provedor ativado"})
}

// ProviderChangeLogs godoc
// @ID           listProviderChangeLogs
// @Summary      Change history of a provider configuration
// @Tags         dasmei-config
// @Produce      json
// @Param        id path string true "Configuration ID" format(uuid)
// @Success      200 {object} APIResponse[[]appdasmei.ApiChangeLogResponse]
// @Security     BearerAuth
// @Router       /dasmei/providers/{id}/logs [get]
func (h *DasmeiAdminHandler) ProviderChangeLogs(c *gin.Context) {
	id, ok := h.ParamUUID(c, "id")
	if !ok {
		return
	}
	items, err := h.providers.ChangeLogs(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, items)
}

// TestProvider godoc
// @ID           testDasProvider
// @Summary      Check a registered provider
// @Tags         dasmei-config
// @Produce      json
// @Param        name path string true "Provider name"
// @Success      200 {object} APIResponse[MessageData]
// @Failure      404 {object} ErrorResponse
// @Failure      501 {object} ErrorResponse
// @Failure      503 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /dasmei/providers/test/{name} [post]
func (h *DasmeiAdminHandler) TestProvider(c *gin.Context) {
	if err := h.providers.TestConnection(c.Request.Context(), c.Param("name")); err != nil {
		var domainErr *shared.DomainError
		if errors.As(err, &domainErr) {
			h.HandleError(c, err)
			return
		}
		h.ServiceUnavailable(c, "Falha na conexão com o provedor: "+err.Error())
		return
	}
	h.Success(c, MessageData{Message: "Conexão estabelecida"})
}
