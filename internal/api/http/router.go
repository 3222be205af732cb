package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/smartpersona/backend/internal/api/http/handlers"
	"github.com/smartpersona/backend/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Users          *handlers.UsersHandler
	Admin          *handlers.AdminHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health-check", cfg.Health.Check)
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	authGroup := app.Group("/authentication")
	authGroup.Post("/login", cfg.Auth.Login)
	authGroup.Post("/refresh-token", cfg.Auth.Refresh)
	authGroup.Post("/logout", cfg.Auth.Logout)
	authGroup.Post("/admin/login", cfg.Auth.AdminLogin)
	authGroup.Post("/admin/refresh-token", cfg.Auth.AdminRefresh)
	authGroup.Post("/admin/logout", cfg.Auth.AdminLogout)

	userGroup := app.Group("/api/user")
	userGroup.Post("/register", cfg.Users.Register)
	userGroup.Get("/info", cfg.AuthMiddleware.Handle, cfg.Users.Info)

	adminGroup := app.Group("/admin", cfg.AuthMiddleware.HandleAdmin)
	adminGroup.Post("/users/:id/ban", cfg.Admin.BanUser)
	adminGroup.Post("/users/:id/unban", cfg.Admin.UnbanUser)
}
