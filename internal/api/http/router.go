package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/AbhignaKuchukulla/Issueflow/internal/api/http/handlers"
	"github.com/AbhignaKuchukulla/Issueflow/internal/auth"
	"github.com/AbhignaKuchukulla/Issueflow/internal/observability"
	apperrors "github.com/AbhignaKuchukulla/Issueflow/pkg/util/errorutil"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Tickets        *handlers.TicketsHandler
	Links          *handlers.LinksHandler
	Comments       *handlers.CommentsHandler
	Filters        *handlers.FiltersHandler
	Insights       *handlers.InsightsHandler
	Auth           *handlers.AuthHandler
	AuthMiddleware *auth.AuthMiddleware
	Metrics        *observability.Metrics
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	if reg := cfg.Metrics.Registry(); reg != nil {
		app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})))
	}

	api := app.Group("/api", cfg.AuthMiddleware.Handle)

	authGroup := api.Group("/auth")
	authGroup.Post("/signup", cfg.Auth.Signup)
	authGroup.Post("/login", cfg.Auth.Login)
	authGroup.Get("/me", auth.RequireUser(), cfg.Auth.Me)

	tickets := api.Group("/tickets")
	tickets.Get("/", cfg.Tickets.ListTickets)
	tickets.Post("/", cfg.Tickets.CreateTicket)
	tickets.Post("/bulk", cfg.Tickets.Bulk)
	tickets.Get("/:id", cfg.Tickets.GetTicket)
	tickets.Put("/:id", cfg.Tickets.ReplaceTicket)
	tickets.Patch("/:id", cfg.Tickets.PatchTicket)
	tickets.Delete("/:id", cfg.Tickets.DeleteTicket)
	tickets.Get("/:id/history", cfg.Tickets.History)
	tickets.Get("/:id/comments", cfg.Comments.List)
	tickets.Post("/:id/comments", cfg.Comments.Add)
	tickets.Post("/:id/link", cfg.Links.Link)
	tickets.Delete("/:id/link/:relatedId", cfg.Links.Unlink)

	api.Delete("/comments/:id", cfg.Comments.Delete)

	api.Get("/filters", cfg.Filters.List)
	api.Post("/filters", cfg.Filters.Create)
	api.Delete("/filters/:id", cfg.Filters.Delete)

	api.Get("/analytics", cfg.Insights.Analytics)
	api.Get("/activity", cfg.Insights.Activity)
	api.Get("/presence", cfg.Insights.Presence)

	app.Use(func(c *fiber.Ctx) error {
		return apperrors.NewNotFound("route", map[string]any{"path": c.Path()})
	})
}
