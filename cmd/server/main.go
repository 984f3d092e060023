// cmd/server/main.go
// This is the entry point for the Golf Wagers API server.
// The cmd/ folder holds executable binaries; internal/ holds the packages they are built from.
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	// fiber is a fast HTTP web framework inspired by Express.js
	"github.com/gofiber/fiber/v2"
	// cors allows the mobile app to call the API from a different origin
	"github.com/gofiber/fiber/v2/middleware/cors"
	// logger prints request details (method, path, status, duration) to stdout
	"github.com/gofiber/fiber/v2/middleware/logger"

	"github.com/trentd187/golf-wagers/internal/config"
	"github.com/trentd187/golf-wagers/internal/database"
	"github.com/trentd187/golf-wagers/internal/handlers"
	"github.com/trentd187/golf-wagers/internal/middleware"
	"github.com/trentd187/golf-wagers/internal/notify"
	"github.com/trentd187/golf-wagers/internal/settlement"
)

func main() {
	cfg := config.Load()

	// The rule table is read once at startup. A bad override file is fatal rather
	// than silently falling back to defaults mid-season.
	rules, err := cfg.Rules()
	if err != nil {
		log.Fatal("Failed to load wager rules:", err)
	}

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	if err := database.RunMigrations(cfg.DatabaseURL, cfg.MigrationsPath); err != nil {
		log.Fatal("Failed to run migrations:", err)
	}

	// ctx is cancelled on SIGINT/SIGTERM (ECS sends SIGTERM on deploy).
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// The hub fans notifications out to every open stream of a user.
	hub := notify.NewHub()
	go hub.Run(ctx)
	notifier := notify.NewSettlementNotifier(hub)

	rounds := database.NewRoundStore(db)
	settlements := settlement.NewService(database.NewSettlementStore(db), notifier, nil, nil)

	app := fiber.New(fiber.Config{
		AppName: "Golf Wagers API",
	})
	app.Use(logger.New())
	// Allows any origin for the mobile app in development; lock down in production.
	app.Use(cors.New())

	// GET /health is the liveness check for the load balancer.
	app.Get("/health", handlers.HealthCheck)

	// Every /api/v1 route needs a Clerk JWT; Auth also syncs the user to our database.
	api := app.Group("/api/v1", middleware.Auth(database.NewUserStore(db)))

	api.Get("/games/formats", handlers.ListFormats)
	api.Post("/games/compute", handlers.ComputeGames(rules))

	api.Get("/rounds/:id/results", handlers.GetRoundResults(rounds, rules))
	api.Post("/rounds/:id/complete", middleware.RequireRole("admin", "manager"),
		handlers.CompleteRound(rounds, settlements, notifier, rules))

	// Settlement routes. The acting user always comes from the token, never the body.
	api.Get("/settlements", handlers.ListSettlements(settlements))
	api.Get("/settlements/:id", handlers.GetSettlement(settlements))
	api.Post("/settlements/:id/paid", handlers.MarkSettlementPaid(settlements))
	api.Post("/settlements/:id/confirm", handlers.ConfirmSettlement(settlements))
	api.Post("/settlements/:id/dispute", handlers.DisputeSettlement(settlements))

	api.Get("/notifications/stream", handlers.NotificationStream(hub))

	go func() {
		<-ctx.Done()
		log.Println("Shutting down")
		if err := app.Shutdown(); err != nil {
			log.Printf("shutdown: %v", err)
		}
	}()

	log.Printf("Starting server on port %s", cfg.Port)
	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Fatal(err)
	}
}
