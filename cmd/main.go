package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/nats-io/nats.go"
	"github.com/sirupsen/logrus"

	"loottracker/internal/catalog"
	"loottracker/internal/config"
	"loottracker/internal/database"
	"loottracker/internal/handlers"
	"loottracker/internal/middleware"
	"loottracker/internal/monitoring"
	"loottracker/internal/parser"
	"loottracker/internal/repository"
	"loottracker/internal/session"
	"loottracker/internal/sinks"
	"loottracker/internal/tracker"
)

const serviceVersion = "1.0.0"

func main() {
	initLogger()

	cfg, err := config.Load()
	if err != nil {
		logrus.Fatal("Failed to load configuration: ", err)
	}

	if cfg.Tracker.DebugLogging {
		logrus.SetLevel(logrus.DebugLevel)
	}

	// Reference tables
	cat := catalog.New()
	if cfg.Catalog.Path != "" {
		cat, err = catalog.Load(cfg.Catalog.Path)
		if err != nil {
			logrus.Fatal("Failed to load catalog: ", err)
		}
	}

	// Database connection (optional)
	var db *database.DB
	var lootRepo repository.LootEventRepository
	if cfg.Database.Enabled {
		db, err = database.NewConnection(&cfg.Database)
		if err != nil {
			logrus.Fatal("Failed to connect to database: ", err)
		}
		defer db.Close()

		if err := database.RunMigrations(db); err != nil {
			logrus.Fatal("Failed to run migrations: ", err)
		}

		lootRepo = repository.NewLootEventRepository(db.DB)
	}

	// Core pipeline
	sess := session.New()
	state := tracker.NewState()
	monitor := tracker.NewRollMonitor(state, cfg.RollMonitor.Frequency)
	lootParser := parser.ForLanguage(cfg.Tracker.Language, &cfg.Events, sess)
	processor := tracker.NewProcessor(cfg, sess, cat, lootParser, state, monitor)

	// Sinks
	manager := sinks.NewManager()
	if cfg.Sinks.Log.Enabled {
		sink := sinks.NewLogSink(cfg.Sinks.Log.Path, cfg.Sinks.Log.Frequency)
		manager.Register(sink)
		processor.AttachSink(sink)
	}
	if cfg.Sinks.HTTP.Enabled {
		sink := sinks.NewHTTPSink(cfg.Sinks.HTTP.Endpoint, cfg.Sinks.HTTP.Frequency)
		manager.Register(sink)
		processor.AttachSink(sink)
	}
	if cfg.Sinks.Discord.Enabled {
		sink := sinks.NewDiscordSink(cfg.Sinks.Discord.WebhookURL, cfg.Sinks.Discord.Frequency)
		manager.Register(sink)
		processor.AttachSink(sink)
	}
	if cfg.Sinks.Database.Enabled && lootRepo != nil {
		sink := sinks.NewDatabaseSink(lootRepo, cfg.Sinks.Database.Frequency)
		manager.Register(sink)
		processor.AttachSink(sink)
	}
	if cfg.Sinks.NATS.Enabled {
		natsConn, err := nats.Connect(cfg.Sinks.NATS.URL,
			nats.RetryOnFailedConnect(true),
			nats.MaxReconnects(-1),
		)
		if err != nil {
			logrus.Warn("Failed to connect to NATS, continuing without messaging: ", err)
		} else {
			defer natsConn.Close()
			sink := sinks.NewNATSSink(natsConn, cfg.Sinks.NATS.Subject, cfg.Sinks.NATS.Frequency)
			manager.Register(sink)
			processor.AttachSink(sink)
		}
	}

	// Live stream
	wsHandler := handlers.NewWSHandler()
	processor.AttachSink(wsHandler)

	// Consumer loops
	ctx, cancel := context.WithCancel(context.Background())
	monitor.Start(ctx)
	manager.Start(ctx)

	// Monitoring
	metrics := monitoring.NewMetrics()

	// Router
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger())
	router.Use(middleware.CORS())
	router.Use(metrics.Middleware())

	lootHandler := handlers.NewLootHandler(processor, monitor, state, sess, cat, lootRepo)
	healthHandler := handlers.NewHealthHandler(serviceVersion, db)

	router.GET("/health", healthHandler.Health)
	router.GET("/health/ready", healthHandler.Readiness)
	router.GET("/health/live", healthHandler.Liveness)
	router.GET("/metrics", gin.WrapH(metrics.Handler()))
	router.GET("/ws", wsHandler.Handle)

	apiV1 := router.Group("/api/v1")
	if cfg.Auth.Enabled {
		apiV1.Use(middleware.AuthMiddleware(cfg))
	}
	{
		apiV1.POST("/events", lootHandler.IngestEvent)
		apiV1.POST("/territory", lootHandler.TerritoryChanged)
		apiV1.POST("/session", lootHandler.UpdateSession)
		apiV1.GET("/loot", lootHandler.GetLoot)
		apiV1.GET("/loot/history", lootHandler.GetLootHistory)
		apiV1.DELETE("/loot", lootHandler.ClearLoot)
		apiV1.GET("/rolls", lootHandler.GetRolls)
		apiV1.GET("/overlays", lootHandler.GetOverlays)
		apiV1.POST("/overlays/:name/toggle", lootHandler.ToggleOverlay)
	}

	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: router,
	}

	go func() {
		logrus.WithFields(logrus.Fields{
			"port":        cfg.Server.Port,
			"environment": cfg.Server.Environment,
			"language":    cfg.Tracker.Language,
		}).Info("Starting loot tracker service")

		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logrus.Fatal("Failed to start server: ", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logrus.Info("Shutting down server...")

	// Stop the consumer loops first; queued events are abandoned.
	cancel()
	manager.Wait()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), config.DefaultShutdownTimeout*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logrus.Fatal("Server forced to shutdown: ", err)
	}

	logrus.Info("Server exiting")
}

func initLogger() {
	logrus.SetLevel(logrus.InfoLevel)
	logrus.SetFormatter(&logrus.JSONFormatter{
		TimestampFormat: time.RFC3339,
	})
}
