package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/phishsim/internal/api/http/handlers"
	"github.com/spec-kit/phishsim/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Staff          *handlers.StaffHandler
	Departments    *handlers.DepartmentHandler
	Reports        *handlers.ReportHandler
	Tracking       *handlers.TrackingHandler
	Simulation     *handlers.SimulationHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	app.Post("/auth/login", cfg.Auth.Login)

	// Tracking routes are the phishing landing path; they must stay open.
	tracking := app.Group("/t")
	tracking.Get("/:id/click", cfg.Tracking.Click)
	tracking.Post("/:id/submit", cfg.Tracking.Submit)

	api := app.Group("/api", cfg.AuthMiddleware.Handle)

	api.Post("/staff", cfg.Staff.Create)
	api.Get("/staff", cfg.Staff.List)
	api.Get("/staff/:id", cfg.Staff.Get)
	api.Patch("/staff/:id", cfg.Staff.Update)
	api.Delete("/staff/:id", cfg.Staff.Delete)
	api.Post("/staff/:id/reset", cfg.Staff.ResetRisk)

	api.Post("/departments", cfg.Departments.Create)
	api.Get("/departments", cfg.Departments.List)
	api.Delete("/departments/:id", cfg.Departments.Delete)

	api.Get("/reports/staff", cfg.Reports.StaffReport)
	api.Get("/reports/departments", cfg.Reports.DepartmentReport)

	api.Post("/simulation/schedule", cfg.Simulation.Schedule)
}
