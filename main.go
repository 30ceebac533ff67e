package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"etl-service/internal/config"
	"etl-service/internal/middleware"
	"etl-service/internal/storage"
	"etl-service/internal/sync"
	"etl-service/internal/transport/http"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

var startTime time.Time

func main() {
	startTime = time.Now()
	cfg := config.Load()
	if cfg.ServiceExpectedToken == "" {
		log.Println("⚠️ SERVICE_TOKEN not set: sync trigger and admin routes will reject all requests")
	}

	manager := storage.NewManager(cfg)

	// One destination handle stays open for migration and operator reads;
	// sync cycles open their own pairs.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	destDB, err := manager.OpenDest(ctx)
	if err != nil {
		log.Fatalf("❌ [STARTUP] Destination database unavailable: %v", err)
	}
	if err := storage.Migrate(destDB); err != nil {
		log.Fatalf("❌ [STARTUP] Failed to migrate destination schema: %v", err)
	}
	log.Println("✅ Destination DB connected & migrated")

	orch := sync.NewOrchestrator(manager, cfg.SyncInterval)
	go orch.Start(ctx)

	handler := http.NewHandler(manager, orch, destDB)

	app := fiber.New(fiber.Config{
		AppName:      "league-etl-service",
		ErrorHandler: customErrorHandler,
	})

	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		Format: "${time} | ${status} | ${latency} | ${ip} | ${method} | ${path}\n",
	}))

	// 1. On-demand sync trigger (reporting service, service-to-service)
	syncRoutes := app.Group("/svc/v1/sync", middleware.ServiceAuth(cfg.ServiceExpectedToken))
	syncRoutes.Post("/trigger", handler.TriggerSync)
	log.Println("✅ [ROUTES] Registered sync route: /svc/v1/sync/trigger")

	// 2. Operator routes
	adminRoutes := app.Group("/admin", middleware.ServiceAuth(cfg.ServiceExpectedToken))
	adminRoutes.Get("/runs", handler.RecentRuns)
	adminRoutes.Get("/validations", handler.RecentValidations)
	adminRoutes.Get("/status", handler.Status)
	log.Println("✅ [ROUTES] Registered admin routes: /admin/*")

	// Health check
	app.Get("/health", func(c *fiber.Ctx) error {
		uptime := time.Since(startTime).Round(time.Second)
		return c.JSON(fiber.Map{
			"status":        "ok",
			"service":       "league-etl-service",
			"uptime":        uptime.String(),
			"timestamp":     time.Now().UTC().Format(time.RFC3339),
			"sync_interval": cfg.SyncInterval.String(),
		})
	})
	log.Println("✅ [ROUTES] Registered /health")

	c := make(chan os.Signal, 1)
	signal.Notify(c, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-c
		log.Println("🛑 [SHUTDOWN] Graceful shutdown initiated...")
		cancel() // stops the scheduler between cycles
		if err := app.Shutdown(); err != nil {
			log.Printf("❌ [SHUTDOWN] Error: %v", err)
		}
	}()

	log.Printf("🚀 league-etl-service starting...")
	log.Printf("   🔗 Listening on port: %s", cfg.ServerPort)
	log.Printf("   🔁 Sync interval: %s | max retries: %d | retry delay: %s",
		cfg.SyncInterval, cfg.MaxRetries, cfg.RetryDelay)
	log.Println("✅ Server ready.")

	if err := app.Listen(":" + cfg.ServerPort); err != nil {
		log.Fatalf("❌ [STARTUP] Server failed to start: %v", err)
	}
}

func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	var errMsg string
	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
		errMsg = e.Message
	} else {
		errMsg = err.Error()
	}
	log.Printf("🔥 [ERROR] [%d] %s %s → %v | IP=%s", code, c.Method(), c.Path(), errMsg, c.IP())
	return c.Status(code).JSON(fiber.Map{
		"error": "something went wrong",
	})
}
