package routes

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/pushsport/pos/api-gateway/config"
	"github.com/pushsport/pos/api-gateway/health"
	"github.com/pushsport/pos/api-gateway/middleware"
	"github.com/pushsport/pos/api-gateway/proxy"
)

// RouteDefinition defines a route mapping.
type RouteDefinition struct {
	Prefix       string
	ServiceName  string
	Description  string
	RequireAuth  bool
	RequireAdmin bool
}

// Routes holds all route definitions.
var Routes = []RouteDefinition{
	{
		Prefix:      "/auth",
		ServiceName: "retail",
		Description: "Operator authentication (login, token refresh)",
	},
	{
		Prefix:      "/api/pos",
		ServiceName: "pos",
		Description: "Terminal sessions, cart and checkout",
		RequireAuth: true,
	},
	{
		Prefix:      "/api/products",
		ServiceName: "retail",
		Description: "Product catalog",
		RequireAuth: true,
	},
	{
		Prefix:      "/api/branches",
		ServiceName: "retail",
		Description: "Branches and per-branch inventory",
		RequireAuth: true,
	},
	{
		Prefix:       "/api/sales",
		ServiceName:  "retail",
		Description:  "Sale records (reporting)",
		RequireAuth:  true,
		RequireAdmin: true,
	},
}

// SetupRoutes configures all routes in the gateway.
func SetupRoutes(app *fiber.App, cfg *config.GatewayConfig, cbManager *middleware.CircuitBreakerManager) {
	reverseProxy := proxy.NewReverseProxy(cfg)
	healthChecker := health.NewHealthChecker(cfg)

	// Gateway quick health check (no downstream probes)
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(healthChecker.QuickCheck())
	})

	// Liveness probe
	app.Get("/health/live", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "alive"})
	})

	// Readiness probe (checks downstream services)
	app.Get("/health/ready", func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.UserContext(), 3*time.Second)
		defer cancel()

		healthStatus := healthChecker.CheckAllServices(ctx)

		statusCode := fiber.StatusOK
		if healthStatus.Status == "unhealthy" {
			statusCode = fiber.StatusServiceUnavailable
		}
		return c.Status(statusCode).JSON(healthStatus)
	})

	// Detailed service health
	app.Get("/health/services", func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.UserContext(), 5*time.Second)
		defer cancel()

		return c.JSON(healthChecker.CheckAllServices(ctx))
	})

	// Circuit breaker stats
	app.Get("/gateway/circuits", func(c *fiber.Ctx) error {
		return c.JSON(cbManager.GetAllStats())
	})

	// Routes overview
	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"message": "PushSport Gateway",
			"version": "1.0.0",
			"routes":  Routes,
		})
	})

	for _, route := range Routes {
		registerServiceRoutes(app, route, reverseProxy)
	}
}

// registerServiceRoutes registers all HTTP methods for a service prefix.
func registerServiceRoutes(app *fiber.App, route RouteDefinition, proxyHandler *proxy.ReverseProxy) {
	handler := func(c *fiber.Ctx) error {
		return proxyHandler.ProxyRequest(c, route.ServiceName)
	}

	var middlewares []fiber.Handler
	if route.RequireAdmin {
		middlewares = append(middlewares, middleware.AuthMiddleware(), middleware.AdminMiddleware())
	} else if route.RequireAuth {
		middlewares = append(middlewares, middleware.AuthMiddleware())
	}

	group := app.Group(route.Prefix, middlewares...)
	group.All("/*", handler)

	if len(middlewares) > 0 {
		app.All(route.Prefix, append(middlewares, handler)...)
	} else {
		app.All(route.Prefix, handler)
	}
}
