package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/eventhorizon/marketplace/internal/api/http/handlers"
	"github.com/eventhorizon/marketplace/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Metrics        *handlers.MetricsHandler
	Events         *handlers.EventsHandler
	Users          *handlers.UsersHandler
	Account        *handlers.AccountHandler
	Cart           *handlers.CartHandler
	Checkout       *handlers.CheckoutHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	app.Get("/metrics", cfg.Metrics.Snapshot)

	eventsGroup := app.Group("/events")
	eventsGroup.Get("/", cfg.Events.List)
	eventsGroup.Get("/categories", cfg.Events.Categories)
	eventsGroup.Get("/:id", cfg.Events.Detail)

	authGroup := app.Group("/auth")
	authGroup.Post("/signup", cfg.Users.Signup)
	authGroup.Post("/login", cfg.Users.Login)
	authGroup.Post("/password/reset/request", cfg.Users.RequestPasswordReset)
	authGroup.Post("/password/reset/confirm", cfg.Users.ConfirmPasswordReset)

	userGroup := app.Group("/user", cfg.AuthMiddleware.Handle, auth.RequireSession())
	userGroup.Get("/balance", cfg.Account.Balance)

	cartGroup := app.Group("/cart", cfg.AuthMiddleware.Handle, auth.RequireSession())
	cartGroup.Get("/", cfg.Cart.Get)
	cartGroup.Post("/items", cfg.Cart.AddItem)
	cartGroup.Patch("/items/:key", cfg.Cart.UpdateQuantity)
	cartGroup.Delete("/items/:key", cfg.Cart.RemoveItem)

	checkoutGroup := app.Group("/checkout", cfg.AuthMiddleware.Handle, auth.RequireSession())
	checkoutGroup.Get("/methods", cfg.Checkout.Methods)
	checkoutGroup.Get("/methods/:id/qr", cfg.Checkout.MethodQR)
	checkoutGroup.Post("/method", cfg.Checkout.SelectMethod)
	checkoutGroup.Post("/reference", cfg.Checkout.SubmitReference)
	checkoutGroup.Post("/cancel", cfg.Checkout.Cancel)
	checkoutGroup.Get("/status", cfg.Checkout.Status)
}
