package router

import (
	"github.com/gin-gonic/gin"

	"github.com/patrickdauer/Sistema-Prosperar-sub000/internal/interfaces/http/handler"
)

// Handlers holds the handlers mounted under the API base path
type Handlers struct {
	Auth         *handler.AuthHandler
	User         *handler.UserHandler
	Registration *handler.RegistrationHandler
	Task         *handler.TaskHandler
	TaskTemplate *handler.TaskTemplateHandler
	Contratacao  *handler.ContratacaoHandler
	Cliente      *handler.ClienteHandler
	Dasmei       *handler.DasmeiHandler
	DasmeiAdmin  *handler.DasmeiAdminHandler
	PublicFiles  *handler.PublicFilesHandler
}

// APIGroups returns the route groups of the API. adminOnly guards user
// administration and the DAS-MEI provider and setting changes; the user
// service still checks ownership on the routes open to every user.
func APIGroups(h Handlers, adminOnly gin.HandlerFunc) []RouteRegistrar {
	auth := NewDomainGroup("auth", "")
	auth.POST("/login", h.Auth.Login)
	auth.POST("/logout", h.Auth.Logout)
	auth.GET("/user", h.Auth.CurrentUser)

	users := NewDomainGroup("users", "/users")
	users.GET("", adminOnly, h.User.List)
	users.POST("", adminOnly, h.User.Create)
	users.GET("/:id", h.User.Get)
	users.PATCH("/:id", h.User.Update)
	users.DELETE("/:id", adminOnly, h.User.Delete)
	users.PATCH("/:id/password", h.User.ChangePassword)

	registrations := NewDomainGroup("registrations", "")
	registrations.POST("/business-registration", h.Registration.Submit)
	registrations.GET("/business-registrations", h.Registration.List)
	registrations.GET("/business-registration/:id", h.Registration.Get)
	registrations.PUT("/business-registration/:id", h.Registration.Update)
	registrations.DELETE("/business-registration/:id", h.Registration.Delete)
	registrations.PATCH("/business-registration/:id/status", h.Registration.UpdateStatus)
	registrations.GET("/business-registration/:id/pdf", h.Registration.PDF)
	registrations.GET("/internal/registrations", h.Registration.ListWithTasks)
	registrations.POST("/business-registrations/:id/promover-cliente", h.Cliente.Promote)

	tasks := NewDomainGroup("tasks", "/tasks")
	tasks.GET("/my", h.Task.Mine)
	tasks.GET("/registration/:id", h.Task.ByRegistration)
	tasks.POST("", h.Task.Create)
	tasks.PATCH("/:id/status", h.Task.UpdateStatus)
	tasks.PATCH("/:id/assign", h.Task.Assign)
	tasks.PATCH("/:id/field", h.Task.UpdateField)
	tasks.DELETE("/:id", h.Task.Delete)
	tasks.GET("/:id/activities", h.Task.Activities)
	tasks.GET("/:id/files", h.Task.Files)
	tasks.POST("/:id/files", h.Task.AttachFile)
	tasks.DELETE("/files/:fileId", h.Task.DeleteFile)

	templates := NewDomainGroup("task-templates", "/task-templates")
	templates.GET("", h.TaskTemplate.List)
	templates.POST("", h.TaskTemplate.Create)
	templates.PUT("/:id", h.TaskTemplate.Update)
	templates.DELETE("/:id", h.TaskTemplate.Deactivate)

	contratacao := NewDomainGroup("contratacao", "/contratacao-funcionarios")
	contratacao.POST("", h.Contratacao.Submit)
	contratacao.GET("", h.Contratacao.List)
	contratacao.GET("/:id", h.Contratacao.Get)
	contratacao.PATCH("/:id/status", h.Contratacao.UpdateStatus)
	contratacao.DELETE("/:id", h.Contratacao.Delete)
	contratacao.GET("/:id/pdf", h.Contratacao.PDF)

	clientes := NewDomainGroup("clientes", "/clientes")
	clientes.GET("", h.Cliente.List)
	clientes.POST("", h.Cliente.Create)
	clientes.POST("/import", h.Cliente.Import)
	clientes.GET("/:id", h.Cliente.Get)
	clientes.PUT("/:id", h.Cliente.Update)
	clientes.DELETE("/:id", h.Cliente.Delete)
	clientes.GET("/:id/ir-historico", h.Cliente.IrHistory)
	clientes.PUT("/:id/ir-historico/:ano", h.Cliente.UpdateIrHistoryYear)
	clientes.GET("/:id/tasks", h.Cliente.Tasks)
	clientes.POST("/:id/tasks", h.Cliente.CreateTasks)

	dasmei := NewDomainGroup("dasmei", "/dasmei")
	dasmei.GET("/clientes", h.Dasmei.ListClientes)
	dasmei.POST("/clientes", h.Dasmei.CreateCliente)
	dasmei.GET("/clientes/:id", h.Dasmei.GetCliente)
	dasmei.PUT("/clientes/:id", h.Dasmei.UpdateCliente)
	dasmei.DELETE("/clientes/:id", h.Dasmei.DeleteCliente)
	dasmei.GET("/guias", h.Dasmei.ListGuias)
	dasmei.POST("/guias/generate", h.Dasmei.Generate)
	dasmei.GET("/guias/:id", h.Dasmei.GetGuia)
	dasmei.GET("/guias/:id/envios", h.Dasmei.EnvioLogs)
	dasmei.POST("/guias/:id/send", h.Dasmei.SendGuide)
	dasmei.POST("/envios/run", h.Dasmei.RunDeliveries)
	dasmei.POST("/lembretes/run", h.Dasmei.RunReminders)
	dasmei.POST("/retry/run", h.Dasmei.RunRetries)
	dasmei.GET("/retry", h.Dasmei.ListRetries)
	dasmei.POST("/retry/:id/requeue", h.Dasmei.Requeue)
	dasmei.GET("/statistics", h.Dasmei.Statistics)
	dasmei.POST("/status", h.Dasmei.Status)

	config := dasmei.Group("dasmei-config", "")
	config.GET("/templates", h.DasmeiAdmin.ListTemplates)
	config.POST("/templates", h.DasmeiAdmin.CreateTemplate)
	config.PUT("/templates/:id", h.DasmeiAdmin.UpdateTemplate)
	config.DELETE("/templates/:id", h.DasmeiAdmin.DeleteTemplate)
	config.GET("/instances", h.DasmeiAdmin.ListInstances)
	config.POST("/instances", h.DasmeiAdmin.CreateInstance)
	config.PUT("/instances/:id", h.DasmeiAdmin.UpdateInstance)
	config.DELETE("/instances/:id", h.DasmeiAdmin.DeleteInstance)
	config.POST("/instances/:id/test", h.DasmeiAdmin.TestInstance)
	config.GET("/settings", h.DasmeiAdmin.ListSettings)
	config.PUT("/settings/:chave", adminOnly, h.DasmeiAdmin.UpdateSetting)
	config.GET("/feriados", h.DasmeiAdmin.ListFeriados)
	config.POST("/feriados", h.DasmeiAdmin.CreateFeriado)
	config.PUT("/feriados/:id", h.DasmeiAdmin.UpdateFeriado)
	config.DELETE("/feriados/:id", h.DasmeiAdmin.DeleteFeriado)
	config.GET("/logs", h.DasmeiAdmin.ListLogs)
	config.GET("/providers", h.DasmeiAdmin.ListProviders)
	config.POST("/providers", adminOnly, h.DasmeiAdmin.CreateProvider)
	config.PUT("/providers/:id", adminOnly, h.DasmeiAdmin.UpdateProvider)
	config.POST("/providers/:id/activate", adminOnly, h.DasmeiAdmin.ActivateProvider)
	config.GET("/providers/:id/logs", h.DasmeiAdmin.ProviderChangeLogs)
	config.POST("/providers/test/:name", h.DasmeiAdmin.TestProvider)

	publicFiles := NewDomainGroup("public-files", "/public-files")
	publicFiles.GET("/browse", h.PublicFiles.Browse)
	publicFiles.GET("/search", h.PublicFiles.Search)

	return []RouteRegistrar{auth, users, registrations, tasks, templates, contratacao, clientes, dasmei, publicFiles}
}
