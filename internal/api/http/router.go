package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/deskops/servicedesk/internal/api/http/handlers"
	"github.com/deskops/servicedesk/internal/auth"
	"github.com/deskops/servicedesk/internal/domain"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Tickets        *handlers.TicketsHandler
	Comments       *handlers.CommentsHandler
	Users          *handlers.UsersHandler
	AuthMiddleware *auth.Middleware
	UploadDir      string
	UploadPrefix   string
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/", cfg.Health.Live)
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	// Stored attachment bodies are served statically by their generated names.
	app.Static(cfg.UploadPrefix, cfg.UploadDir)

	api := app.Group("/api")

	authGroup := api.Group("/auth")
	authGroup.Post("/register", cfg.Auth.Register)
	authGroup.Post("/login", cfg.Auth.Login)
	authGroup.Post("/logout", cfg.AuthMiddleware.Handle, cfg.Auth.Logout)
	authGroup.Get("/me", cfg.AuthMiddleware.Handle, cfg.Auth.Me)

	tickets := api.Group("/tickets", cfg.AuthMiddleware.Handle)
	tickets.Get("/archive", auth.RequireRoles(domain.RoleAdmin), cfg.Tickets.ListArchived)
	tickets.Get("/", cfg.Tickets.List)
	tickets.Post("/", cfg.Tickets.Create)
	tickets.Get("/:id", cfg.Tickets.Get)
	tickets.Put("/:id/status", auth.RequireRoles(domain.RoleAdmin, domain.RoleSupport), cfg.Tickets.UpdateStatus)
	tickets.Put("/:id/assign", auth.RequireRoles(domain.RoleAdmin, domain.RoleSupport), cfg.Tickets.Assign)
	tickets.Post("/:id/rating", cfg.Tickets.Rate)
	tickets.Get("/:id/history", auth.RequireRoles(domain.RoleAdmin, domain.RoleSupport), cfg.Tickets.History)
	tickets.Post("/:id/attachments", cfg.Tickets.Upload)
	tickets.Get("/:id/attachments", cfg.Tickets.Attachments)

	comments := api.Group("/comments", cfg.AuthMiddleware.Handle)
	comments.Post("/", cfg.Comments.Create)
	comments.Get("/ticket/:ticketId", cfg.Comments.ListByTicket)
	comments.Delete("/:id", cfg.Comments.Delete)
	comments.Post("/:id/attachments", cfg.Comments.Upload)
	comments.Get("/:id/attachments", cfg.Comments.Attachments)

	users := api.Group("/users", cfg.AuthMiddleware.Handle)
	users.Get("/", auth.RequireRoles(domain.RoleAdmin, domain.RoleSupport), cfg.Users.List)
	users.Post("/support", auth.RequireRoles(domain.RoleAdmin), cfg.Users.CreateSupport)
	users.Get("/:id", cfg.Users.Get)
	users.Put("/:id", cfg.Users.Update)
	users.Put("/:id/block", auth.RequireRoles(domain.RoleAdmin), cfg.Users.SetBlocked)
	users.Delete("/:id", auth.RequireRoles(domain.RoleAdmin), cfg.Users.Delete)
}
