package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/lkn-labs/supportbot/internal/api/http/handlers"
	"github.com/lkn-labs/supportbot/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health            *handlers.HealthHandler
	Events            *handlers.EventsHandler
	Admin             *handlers.AdminHandler
	ManagerMiddleware *auth.ManagerMiddleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	v1 := app.Group("/v1")
	v1.Post("/events", cfg.Events.HandleEvent)

	admin := v1.Group("/admin")
	admin.Post("/login", cfg.Admin.Login)

	protected := admin.Group("", cfg.ManagerMiddleware.Handle)
	protected.Get("/tickets", cfg.Admin.ListTickets)
	protected.Post("/tickets/:code/answer", cfg.Admin.AnswerTicket)
	protected.Get("/stats", cfg.Admin.Stats)
	protected.Get("/ideas", cfg.Admin.ListIdeas)
}
