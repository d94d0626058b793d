package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	appdasmei "github.com/patrickdauer/Sistema-Prosperar-sub000/internal/application/dasmei"
	"github.com/patrickdauer/Sistema-Prosperar-sub000/internal/domain/dasmei"
	"github.com/patrickdauer/Sistema-Prosperar-sub000/internal/infrastructure/scheduler"
	"github.com/patrickdauer/Sistema-Prosperar-sub000/internal/interfaces/http/dto"
)

// Automation is the part of the DAS-MEI automation the handler drives
type Automation interface {
	ResolvePeriodo(periodo string) (string, error)
	GenerateGuides(ctx context.Context, periodo, operador string) (*appdasmei.GenerationSummary, error)
	SendScheduled(ctx context.Context, date time.Time) (*appdasmei.DeliverySummary, error)
	SendPending(ctx context.Context, periodo string) (*appdasmei.DeliverySummary, error)
	SendReminders(ctx context.Context, date time.Time) (*appdasmei.DeliverySummary, error)
	SendGuide(ctx context.Context, guiaID uuid.UUID, operador string) ([]appdasmei.EnvioLogResponse, error)
	ProcessRetryQueue(ctx context.Context) (*appdasmei.RetrySummary, error)
	Statistics(ctx context.Context, periodo string) (*dasmei.Statistics, error)
	StatusByCNPJs(ctx context.Context, cnpjs []string, periodo string) (map[string]appdasmei.CNPJStatus, error)
}

// JobTrigger queues automation runs in the background
type JobTrigger interface {
	Trigger(jobType scheduler.JobType, periodo string, date time.Time, operador string) (*scheduler.Job, error)
}

// DasmeiHandler serves the DAS-MEI clients, guides and automation runs
type DasmeiHandler struct {
	BaseHandler
	admin      *appdasmei.AdminService
	automation Automation
	jobs       JobTrigger
	location   *time.Location
}

// NewDasmeiHandler creates a new DAS-MEI handler. jobs may be nil, in
// which case runs are always executed within the request.
func NewDasmeiHandler(admin *appdasmei.AdminService, automation Automation, jobs JobTrigger, location *time.Location) *DasmeiHandler {
	if location == nil {
		location = time.UTC
	}
	return &DasmeiHandler{admin: admin, automation: automation, jobs: jobs, location: location}
}

// ListClientes godoc
// @ID           listClientesMei
// @Summary      List MEI clients
// @Tags         dasmei
// @Produce      json
// @Param        search query string false "Name or CNPJ"
// @Param        ativo query bool false "Only active clients"
// @Success      200 {object} APIResponse[[]appdasmei.ClienteMeiResponse]
// @Security     BearerAuth
// @Router       /dasmei/clientes [get]
func (h *DasmeiHandler) ListClientes(c *gin.Context) {
	activeOnly, _ := strconv.ParseBool(c.Query("ativo"))
	items, err := h.admin.ListClientes(c.Request.Context(), c.Query("search"), activeOnly)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, items)
}

// GetCliente godoc
// @ID           getClienteMei
// @Summary      Get a MEI client
// @Tags         dasmei
// @Produce      json
// @Param        id path string true "Client ID" format(uuid)
// @Success      200 {object} APIResponse[appdasmei.ClienteMeiResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /dasmei/clientes/{id} [get]
func (h *DasmeiHandler) GetCliente(c *gin.Context) {
	id, ok := h.ParamUUID(c, "id")
	if !ok {
		return
	}
	resp, err := h.admin.GetCliente(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// CreateCliente godoc
// @ID           createClienteMei
// @Summary      Create a MEI client
// @Tags         dasmei
// @Accept       json
// @Produce      json
// @Param        request body appdasmei.ClienteMeiRequest true "Client"
// @Success      201 {object} APIResponse[appdasmei.ClienteMeiResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /dasmei/clientes [post]
func (h *DasmeiHandler) CreateCliente(c *gin.Context) {
	var req appdasmei.ClienteMeiRequest
	if !h.BindJSON(c, &req) {
		return
	}
	resp, err := h.admin.CreateCliente(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// UpdateCliente godoc
// @ID           updateClienteMei
// @Summary      Update a MEI client
// @Tags         dasmei
// @Accept       json
// @Produce      json
// @Param        id path string true "Client ID" format(uuid)
// @Param        request body appdasmei.ClienteMeiRequest true "Client"
// @Success      200 {object} APIResponse[appdasmei.ClienteMeiResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /dasmei/clientes/{id} [put]
func (h *DasmeiHandler) UpdateCliente(c *gin.Context) {
	id, ok := h.ParamUUID(c, "id")
	if !ok {
		return
	}
	var req appdasmei.ClienteMeiRequest
	if !h.BindJSON(c, &req) {
		return
	}
	resp, err := h.admin.UpdateCliente(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// DeleteCliente godoc
// @ID           deleteClienteMei
// @Summary      Delete a MEI client
// @Tags         dasmei
// @Param        id path string true "Client ID" format(uuid)
// @Success      204
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /dasmei/clientes/{id} [delete]
func (h *DasmeiHandler) DeleteCliente(c *gin.Context) {
	id, ok := h.ParamUUID(c, "id")
	if !ok {
		return
	}
	if err := h.admin.DeleteCliente(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// ListGuias godoc
// @ID           listGuias
// @Summary      List DAS guides
// @Tags         dasmei
// @Produce      json
// @Param        periodo query string false "AAAAMM"
// @Param        cliente_mei_id query string false "Client ID" format(uuid)
// @Param        status query string false "pending, success or failed"
// @Success      200 {object} APIResponse[[]appdasmei.GuiaResponse]
// @Failure      400 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /dasmei/guias [get]
func (h *DasmeiHandler) ListGuias(c *gin.Context) {
	var filter appdasmei.GuiaListFilter
	if !h.BindQuery(c, &filter) {
		return
	}
	items, err := h.admin.ListGuias(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, items)
}

// GetGuia godoc
// @ID           getGuia
// @Summary      Get a DAS guide
// @Tags         dasmei
// @Produce      json
// @Param        id path string true "Guide ID" format(uuid)
// @Success      200 {object} APIResponse[appdasmei.GuiaResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /dasmei/guias/{id} [get]
func (h *DasmeiHandler) GetGuia(c *gin.Context) {
	id, ok := h.ParamUUID(c, "id")
	if !ok {
		return
	}
	resp, err := h.admin.GetGuia(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// EnvioLogs godoc
// @ID           listGuiaEnvios
// @Summary      Delivery attempts of a guide
// @Tags         dasmei
// @Produce      json
// @Param        id path string true "Guide ID" format(uuid)
// @Success      200 {object} APIResponse[[]appdasmei.EnvioLogResponse]
// @Security     BearerAuth
// @Router       /dasmei/guias/{id}/envios [get]
func (h *DasmeiHandler) EnvioLogs(c *gin.Context) {
	id, ok := h.ParamUUID(c, "id")
	if !ok {
		return
	}
	items, err := h.admin.EnvioLogs(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, items)
}

// Generate godoc
// @ID           generateGuias
// @Summary      Generate DAS guides for every active client
// @Description  An empty periodo means the previous month. With async=true the run is
// @Description  queued and 202 is returned.
// @Tags         dasmei
// @Accept       json
// @Produce      json
// @Param        async query bool false "Queue the run"
// @Param        request body appdasmei.GenerateRequest false "Period"
// @Success      200 {object} APIResponse[appdasmei.GenerationSummary]
// @Success      202 {object} APIResponse[JobData]
// @Failure      400 {object} ErrorResponse
// @Failure      503 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /dasmei/guias/generate [post]
func (h *DasmeiHandler) Generate(c *gin.Context) {
	var req appdasmei.GenerateRequest
	if !h.bindOptionalJSON(c, &req) {
		return
	}
	periodo, err := h.automation.ResolvePeriodo(req.Periodo)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	if h.async(c) {
		h.trigger(c, scheduler.JobGenerateGuides, periodo, time.Now().In(h.location))
		return
	}

	summary, err := h.automation.GenerateGuides(c.Request.Context(), periodo, operador(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, summary)
}

// SendGuide godoc
// @ID           sendGuia
// @Summary      Deliver one guide now
// @Tags         dasmei
// @Produce      json
// @Param        id path string true "Guide ID" format(uuid)
// @Success      200 {object} APIResponse[[]appdasmei.EnvioLogResponse]
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /dasmei/guias/{id}/send [post]
func (h *DasmeiHandler) SendGuide(c *gin.Context) {
	id, ok := h.ParamUUID(c, "id")
	if !ok {
		return
	}
	logs, err := h.automation.SendGuide(c.Request.Context(), id, operador(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, logs)
}

// RunDeliveries godoc
// @ID           runEnvios
// @Summary      Run guide deliveries
// @Description  With periodo, every pending guide of that period is sent. Otherwise the
// @Description  clients scheduled for date (default today) are served.
// @Tags         dasmei
// @Accept       json
// @Produce      json
// @Param        async query bool false "Queue the run"
// @Param        request body appdasmei.RunRequest false "Date or period"
// @Success      200 {object} APIResponse[appdasmei.DeliverySummary]
// @Success      202 {object} APIResponse[JobData]
// @Failure      400 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /dasmei/envios/run [post]
func (h *DasmeiHandler) RunDeliveries(c *gin.Context) {
	var req appdasmei.RunRequest
	if !h.bindOptionalJSON(c, &req) {
		return
	}

	if req.Periodo != "" {
		periodo, err := h.automation.ResolvePeriodo(req.Periodo)
		if err != nil {
			h.HandleError(c, err)
			return
		}
		summary, err := h.automation.SendPending(c.Request.Context(), periodo)
		if err != nil {
			h.HandleError(c, err)
			return
		}
		h.Success(c, summary)
		return
	}

	date, ok := h.runDate(c, req.Date)
	if !ok {
		return
	}
	if h.async(c) {
		h.trigger(c, scheduler.JobSendScheduled, "", date)
		return
	}
	summary, err := h.automation.SendScheduled(c.Request.Context(), date)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, summary)
}

// RunReminders godoc
// @ID           runLembretes
// @Summary      Send due date reminders
// @Tags         dasmei
// @Accept       json
// @Produce      json
// @Param        async query bool false "Queue the run"
// @Param        request body appdasmei.RunRequest false "Reference date"
// @Success      200 {object} APIResponse[appdasmei.DeliverySummary]
// @Success      202 {object} APIResponse[JobData]
// @Failure      400 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /dasmei/lembretes/run [post]
func (h *DasmeiHandler) RunReminders(c *gin.Context) {
	var req appdasmei.RunRequest
	if !h.bindOptionalJSON(c, &req) {
		return
	}
	date, ok := h.runDate(c, req.Date)
	if !ok {
		return
	}
	if h.async(c) {
		h.trigger(c, scheduler.JobSendReminders, "", date)
		return
	}
	summary, err := h.automation.SendReminders(c.Request.Context(), date)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, summary)
}

// RunRetries godoc
// @ID           runRetryQueue
// @Summary      Process the delivery retry queue
// @Tags         dasmei
// @Produce      json
// @Param        async query bool false "Queue the run"
// @Success      200 {object} APIResponse[appdasmei.RetrySummary]
// @Success      202 {object} APIResponse[JobData]
// @Security     BearerAuth
// @Router       /dasmei/retry/run [post]
func (h *DasmeiHandler) RunRetries(c *gin.Context) {
	if h.async(c) {
		h.trigger(c, scheduler.JobProcessRetries, "", time.Now().In(h.location))
		return
	}
	summary, err := h.automation.ProcessRetryQueue(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, summary)
}

// ListRetries godoc
// @ID           listRetryQueue
// @Summary      List the delivery retry queue
// @Tags         dasmei
// @Produce      json
// @Param        status query string false "pending, processing, completed or failed"
// @Success      200 {object} APIResponse[[]appdasmei.RetryResponse]
// @Security     BearerAuth
// @Router       /dasmei/retry [get]
func (h *DasmeiHandler) ListRetries(c *gin.Context) {
	items, err := h.admin.ListRetries(c.Request.Context(), c.Query("status"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, items)
}

// Requeue godoc
// @ID           requeueRetry
// @Summary      Put a failed retry back in the queue
// @Tags         dasmei
// @Produce      json
// @Param        id path string true "Retry ID" format(uuid)
// @Success      200 {object} APIResponse[appdasmei.RetryResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /dasmei/retry/{id}/requeue [post]
func (h *DasmeiHandler) Requeue(c *gin.Context) {
	id, ok := h.ParamUUID(c, "id")
	if !ok {
		return
	}
	resp, err := h.admin.Requeue(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Statistics godoc
// @ID           dasmeiStatistics
// @Summary      Automation statistics for a period
// @Tags         dasmei
// @Produce      json
// @Param        periodo query string false "AAAAMM, default previous month"
// @Success      200 {object} APIResponse[dasmei.Statistics]
// @Failure      400 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /dasmei/statistics [get]
func (h *DasmeiHandler) Statistics(c *gin.Context) {
	stats, err := h.automation.Statistics(c.Request.Context(), c.Query("periodo"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, stats)
}

// Status godoc
// @ID           dasmeiStatusByCNPJ
// @Summary      Guide availability for several CNPJs
// @Tags         dasmei
// @Accept       json
// @Produce      json
// @Param        request body appdasmei.StatusRequest true "CNPJs"
// @Success      200 {object} APIResponse[map[string]appdasmei.CNPJStatus]
// @Failure      400 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /dasmei/status [post]
func (h *DasmeiHandler) Status(c *gin.Context) {
	var req appdasmei.StatusRequest
	if !h.BindJSON(c, &req) {
		return
	}
	statuses, err := h.automation.StatusByCNPJs(c.Request.Context(), req.CNPJs, req.Periodo)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, statuses)
}

// bindOptionalJSON accepts an empty body
func (h *DasmeiHandler) bindOptionalJSON(c *gin.Context, req any) bool {
	if c.Request.ContentLength == 0 {
		return true
	}
	return h.BindJSON(c, req)
}

func (h *DasmeiHandler) async(c *gin.Context) bool {
	async, _ := strconv.ParseBool(c.Query("async"))
	return async
}

// runDate parses YYYY-MM-DD in the automation time zone; empty means today
func (h *DasmeiHandler) runDate(c *gin.Context, raw string) (time.Time, bool) {
	if raw == "" {
		return time.Now().In(h.location), true
	}
	date, err := time.ParseInLocation(time.DateOnly, raw, h.location)
	if err != nil {
		h.Error(c, http.StatusBadRequest, dto.ErrCodeValidation, "date must be YYYY-MM-DD")
		return time.Time{}, false
	}
	return date, true
}

func (h *DasmeiHandler) trigger(c *gin.Context, jobType scheduler.JobType, periodo string, date time.Time) {
	if h.jobs == nil {
		h.ServiceUnavailable(c, "Background jobs are not enabled")
		return
	}
	job, err := h.jobs.Trigger(jobType, periodo, date, operador(c))
	if err != nil {
		if errors.Is(err, scheduler.ErrJobQueueFull) || errors.Is(err, scheduler.ErrSchedulerNotRunning) {
			h.ServiceUnavailable(c, err.Error())
			return
		}
		h.HandleError(c, err)
		return
	}
	h.Accepted(c, JobData{
		ID:      job.ID.String(),
		Type:    string(job.Type),
		Periodo: job.Periodo,
		Status:  string(job.Status),
	})
}
