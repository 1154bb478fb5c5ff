package routes

import (
	"time"

	"github.com/bartlabs/bart-backend/internal/config"
	"github.com/bartlabs/bart-backend/internal/handlers"
	"github.com/bartlabs/bart-backend/internal/middleware"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"gorm.io/gorm"
)

func Setup(
	app *fiber.App,
	cfg *config.Config,
	db *gorm.DB,
	authHandler *handlers.AuthHandler,
	healthHandler *handlers.HealthHandler,
	reviewHandler *handlers.ReviewHandler,
	integrationHandler *handlers.IntegrationHandler,
	settingsHandler *handlers.SettingsHandler,
	dashboardHandler *handlers.DashboardHandler,
) {
	api := app.Group("/api")

	// General API rate limiter: 60 req/min per IP
	api.Use(limiter.New(limiter.Config{
		Max:               60,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	}))

	api.Get("/health", healthHandler.Check)

	// Auth is public, with a stricter rate limit: 10 req/min per IP
	auth := api.Group("/auth")
	auth.Use(limiter.New(limiter.Config{
		Max:               10,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	}))
	auth.Post("/register", authHandler.Register)
	auth.Post("/login", authHandler.Login)
	auth.Post("/refresh", authHandler.Refresh)

	// Protected routes (JWT required) - apply middleware to individual routes
	// This prevents JWT middleware from affecting public routes
	api.Post("/auth/logout", middleware.JWTProtected(cfg), authHandler.Logout)
	api.Get("/auth/me", middleware.JWTProtected(cfg), authHandler.Me)

	// Reviews
	reviews := api.Group("/reviews", middleware.JWTProtected(cfg))
	reviews.Post("/", reviewHandler.Create)
	reviews.Post("/upload", reviewHandler.Upload)
	reviews.Get("/", reviewHandler.List)
	reviews.Get("/:id", reviewHandler.Get)
	reviews.Delete("/:id", reviewHandler.Delete)

	// Slash commands are authenticated by signature, not JWT
	integrations := api.Group("/integrations")
	integrations.Post("/slack/command", integrationHandler.HandleSlackCommand)
	integrations.Post("/slack/config", middleware.JWTProtected(cfg), middleware.AdminRequired(db, cfg), integrationHandler.SaveSlackConfig)
	integrations.Get("/slack/channels", middleware.JWTProtected(cfg), integrationHandler.ListSlackChannels)
	integrations.Post("/slack/fetch", middleware.JWTProtected(cfg), integrationHandler.FetchSlackHistory)
	integrations.Post("/notion/config", middleware.JWTProtected(cfg), middleware.AdminRequired(db, cfg), integrationHandler.SaveNotionConfig)
	integrations.Get("/notion/databases", middleware.JWTProtected(cfg), integrationHandler.ListNotionDatabases)
	integrations.Post("/notion/fetch", middleware.JWTProtected(cfg), integrationHandler.FetchNotionPages)
	integrations.Get("/status", middleware.JWTProtected(cfg), integrationHandler.Status)

	// Brand guidelines
	api.Get("/settings/guidelines", middleware.JWTProtected(cfg), settingsHandler.GetGuidelines)
	api.Put("/settings/guidelines", middleware.JWTProtected(cfg), middleware.AdminRequired(db, cfg), settingsHandler.UpdateGuidelines)

	// Dashboard
	api.Get("/dashboard/stats", middleware.JWTProtected(cfg), dashboardHandler.Stats)
	api.Post("/dashboard/analyze-patterns", middleware.JWTProtected(cfg), dashboardHandler.AnalyzePatterns)
}
