package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/campusfix/complaint-service/internal/api/http/handlers"
	"github.com/campusfix/complaint-service/internal/auth"
)

// RouteConfig bundles dependencies for route registration. Everything except Health
// and Classify may be nil when the service runs without a database.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Classify       *handlers.ClassifyHandler
	Users          *handlers.UsersHandler
	Tickets        *handlers.TicketsHandler
	Admin          *handlers.AdminTicketsHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	app.Get("/metrics", cfg.Health.Metrics)

	api := app.Group("/api")
	api.Post("/classify", cfg.Classify.Classify)

	if cfg.AuthMiddleware == nil {
		return
	}

	authGroup := api.Group("/auth")
	authGroup.Post("/register", cfg.Users.Register)
	authGroup.Post("/login", cfg.Users.Login)

	me := api.Group("/me", cfg.AuthMiddleware.Handle, auth.RequireAnyRole())
	me.Get("", cfg.Users.Me)
	me.Post("/password", cfg.Users.ChangePassword)

	tickets := api.Group("/tickets", cfg.AuthMiddleware.Handle, auth.RequireStudent())
	tickets.Post("", cfg.Tickets.CreateTicket)
	tickets.Get("/mine", cfg.Tickets.ListMine)
	tickets.Get("/mine/stream", cfg.Tickets.StreamMine)

	admin := api.Group("/admin", cfg.AuthMiddleware.Handle, auth.RequireAdmin())
	admin.Get("/tickets", cfg.Admin.ListTickets)
	admin.Get("/tickets/stream", cfg.Admin.StreamTickets)
	admin.Patch("/tickets/:id/status", cfg.Admin.UpdateStatus)
	admin.Patch("/tickets/:id/assignment", cfg.Admin.AssignTicket)
	admin.Get("/map", cfg.Admin.Map)
	admin.Get("/analytics", cfg.Admin.Analytics)
}
