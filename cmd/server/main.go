package main

import (
	"github.com/gofiber/adaptor/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/websocket/v2"
	"github.com/sirupsen/logrus"

	"github.com/ssps-place/place-backend/internal/config"
	"github.com/ssps-place/place-backend/internal/controller"
	"github.com/ssps-place/place-backend/internal/metrics"
	"github.com/ssps-place/place-backend/internal/middleware"
	"github.com/ssps-place/place-backend/internal/model"
	"github.com/ssps-place/place-backend/internal/service"
)

func main() {
	cfg := config.Load()

	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	app := fiber.New()

	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.AllowOrigins,
		AllowHeaders: "Origin, Content-Type, Accept",
		AllowMethods: "GET, POST, OPTIONS",
	}))
	app.Use(middleware.ResolveClientKey())

	// Initialize services
	store := service.NewStore(cfg.DataDir)
	cooldowns := model.NewCooldownTracker(cfg.Cooldown, cfg.LocalCooldown)
	manager := service.NewCanvasManager(store, service.NewHostnameResolver(), cooldowns)
	manager.Restore()
	manager.StartBackground(cfg.AutosaveInterval, cfg.CooldownSweepInterval)
	placeService := service.NewPlaceService(manager, store)

	// Initialize controllers
	canvasController := controller.NewCanvasController(placeService)
	wsController := controller.NewWebSocketController(placeService)

	// Set up WebSocket route
	app.Get("/ws", middleware.WebSocketUpgrade(), websocket.New(func(c *websocket.Conn) {
		wsController.HandleConnection(c)
	}, websocket.Config{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
	}))

	// Set up REST routes
	api := app.Group("/api")
	api.Get("/canvas/view", canvasController.ViewCanvas)
	api.Get("/canvas", canvasController.DownloadCanvas)
	api.Get("/timelapse/view", canvasController.ViewTimelapse)
	api.Get("/timelapse", canvasController.DownloadTimelapse)

	app.Get("/metrics", adaptor.HTTPHandler(metrics.Handler()))

	if cfg.StaticDir != "" {
		app.Static("/", cfg.StaticDir)
	}

	logrus.WithFields(logrus.Fields{
		"port":     cfg.Port,
		"data_dir": cfg.DataDir,
	}).Info("server starting, IP-based rate limiting is active")
	logrus.Info("API endpoints: GET /api/canvas/view, /api/canvas, /api/timelapse/view, /api/timelapse, /metrics")

	logrus.Fatal(app.Listen(":" + cfg.Port))
}
