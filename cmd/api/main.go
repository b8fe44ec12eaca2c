package main

import (
	"context"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"

	"freight-cost-approval/internal/config"
	"freight-cost-approval/internal/domain"
	"freight-cost-approval/internal/handler"
	"freight-cost-approval/internal/middleware"
	"freight-cost-approval/internal/pkg/i18n"
	"freight-cost-approval/internal/repository"
	"freight-cost-approval/internal/service"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := config.Load()

	if cfg.LocalesPath != "" {
		if err := i18n.LoadTranslations(cfg.LocalesPath); err != nil {
			log.Printf("Warning: Failed to load translations from %s: %v (using bundled labels)", cfg.LocalesPath, err)
		}
	}

	db, err := config.NewPostgresDB(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	redis, err := config.NewRedisClient(ctx, cfg)
	if err != nil {
		log.Printf("Warning: Failed to connect to Redis: %v (dashboard will not be cached)", err)
	} else {
		defer redis.Close()
	}

	minioClient, err := config.NewMinIOClient(ctx, cfg)
	if err != nil {
		log.Printf("Warning: Failed to connect to MinIO: %v (attachment upload will not work)", err)
	}

	repos := repository.NewRepositories(db)
	services := service.NewServices(repos, redis, minioClient, cfg)
	handlers := handler.NewHandlers(services, cfg.MaxAttachmentSize)

	app := fiber.New(fiber.Config{
		ErrorHandler: middleware.ErrorHandler,
		BodyLimit:    cfg.BodyLimit(),
	})

	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		Next: func(c *fiber.Ctx) bool {
			return c.Path() == "/health"
		},
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.CORSOrigins,
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET, POST, PATCH, OPTIONS",
	}))

	setupRoutes(app, handlers, services)

	log.Printf("Server starting on port %s", cfg.Port)
	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

func setupRoutes(app *fiber.App, h *handler.Handlers, services *service.Services) {
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	v1 := app.Group("/api/v1")

	auth := v1.Group("/auth")
	auth.Post("/login", h.Auth.Login)
	auth.Post("/refresh", h.Auth.RefreshToken)
	auth.Post("/logout", h.Auth.Logout)

	protected := v1.Group("", middleware.AuthRequired(services.Auth))

	users := protected.Group("/users")
	users.Get("/me", h.User.GetProfile)
	users.Get("/", middleware.RequireRole(domain.RoleAdmin), h.User.List)
	users.Post("/", middleware.RequireRole(domain.RoleAdmin), h.User.Create)

	invoices := protected.Group("/invoices")
	invoices.Get("/search", h.Invoice.Search)

	protected.Get("/cost-types", h.CostRequest.CostTypes)

	costRequests := protected.Group("/cost-requests")
	costRequests.Post("/autofill", h.CostRequest.Autofill)
	costRequests.Post("/validate", h.CostRequest.Validate)
	costRequests.Post("/", h.CostRequest.Create)
	costRequests.Get("/", h.CostRequest.List)
	costRequests.Get("/pending-count", h.CostRequest.PendingCount)
	costRequests.Get("/:requestId", h.CostRequest.Get)
	costRequests.Post("/:requestId/approve", middleware.RequireRole(domain.RoleApprover), h.CostRequest.Approve)
	costRequests.Post("/:requestId/reject", middleware.RequireRole(domain.RoleApprover), h.CostRequest.Reject)

	notifications := protected.Group("/notifications")
	notifications.Get("/", h.Notification.List)
	notifications.Get("/unread-count", h.Notification.GetUnreadCount)
	notifications.Patch("/:id/read", h.Notification.MarkAsRead)
	notifications.Post("/mark-all-read", h.Notification.MarkAllAsRead)

	protected.Get("/dashboard", h.Dashboard.GetMetrics)

	audit := protected.Group("/audit")
	audit.Get("/recent", h.Audit.GetRecentActivities)
}
