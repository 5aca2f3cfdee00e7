package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/websocket/v2"
	"go.uber.org/zap"

	"github.com/soyrussmadrigal/seo-ai/internal/api/handlers"
	redisCache "github.com/soyrussmadrigal/seo-ai/internal/cache/redis"
	"github.com/soyrussmadrigal/seo-ai/internal/classify"
	"github.com/soyrussmadrigal/seo-ai/internal/gsc"
	"github.com/soyrussmadrigal/seo-ai/internal/history"
	"github.com/soyrussmadrigal/seo-ai/internal/ingest"
	"github.com/soyrussmadrigal/seo-ai/internal/llm"
	"github.com/soyrussmadrigal/seo-ai/internal/metrics"
	"github.com/soyrussmadrigal/seo-ai/internal/middleware/ratelimit"
	"github.com/soyrussmadrigal/seo-ai/internal/middleware/security"
	"github.com/soyrussmadrigal/seo-ai/internal/progress"
	"github.com/soyrussmadrigal/seo-ai/internal/storage/sqlite"
	"github.com/soyrussmadrigal/seo-ai/internal/worker"
	"github.com/soyrussmadrigal/seo-ai/pkg/config"
	appLogger "github.com/soyrussmadrigal/seo-ai/pkg/logger"
	"github.com/soyrussmadrigal/seo-ai/pkg/pacing"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	err = appLogger.Init(cfg.Logging.Level, cfg.Logging.Format, cfg.Logging.OutputPath)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer appLogger.Sync()

	appLogger.Info("Starting SEO AI classifier API server")

	metrics.Init()

	db, err := sqlite.NewClient(cfg.SQLite.Path)
	if err != nil {
		appLogger.Fatal("Failed to create SQLite client", zap.Error(err))
	}
	defer db.Close()

	if err := db.InitSchema(); err != nil {
		appLogger.Fatal("Failed to initialize schema", zap.Error(err))
	}

	var (
		historyCache history.Cache
		ingestCache  ingest.Invalidator
		workerCache  worker.Invalidator
	)
	if cfg.Redis.Enabled {
		cache, err := redisCache.NewCache(cfg.Redis.Host, cfg.Redis.Port, cfg.Redis.Password, cfg.Redis.DB, cfg.Redis.TTLSec)
		if err != nil {
			appLogger.Warn("Redis unavailable, history reads are uncached", zap.Error(err))
		} else {
			defer cache.Close()
			historyCache = cache
			ingestCache = cache
			workerCache = cache
		}
	}

	if cfg.LLM.APIKey == "" {
		appLogger.Warn("LLM API key is empty, classification calls will fall back to unknown/other")
	}
	llmClient := llm.NewClient(cfg.LLM.APIKey, cfg.LLM.Model, cfg.LLM.Temperature, cfg.LLM.MaxTokens, cfg.LLM.TimeoutSec)
	adapter := classify.NewAdapter(llmClient)

	var fetcher *gsc.Fetcher
	fetcher, err = gsc.NewFetcher(context.Background(), cfg.GSC)
	if err != nil {
		appLogger.Warn("Search Console fetcher disabled", zap.Error(err))
		fetcher = nil
	}

	hub := progress.NewHub()
	pacer := pacing.NewIntervalPacer(time.Duration(cfg.Worker.PaceIntervalMS) * time.Millisecond)

	deduplicator := ingest.NewDeduplicator(db, ingestCache)
	resolver := worker.NewResolver(db, adapter, pacer, hub, workerCache)
	historyService := history.NewService(db, historyCache)

	app := fiber.New(fiber.Config{
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		BodyLimit:    cfg.Server.BodyLimit,
	})

	limiter := ratelimit.New(ratelimit.Config{
		MaxRequestsPerMinute: cfg.Server.MaxRequestsPerMinute,
		Logger:               appLogger.GetLogger(),
	})
	defer limiter.Stop()

	app.Use(recover.New())
	app.Use(fiberlogger.New())
	app.Use(security.Headers())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization, X-User-ID",
		AllowMethods: "GET, POST, OPTIONS",
	}))
	app.Use(limiter.Middleware())

	classifyHandler := handlers.NewClassifyHandler(adapter)
	gscHandler := handlers.NewGSCHandler(fetcher, deduplicator)
	historyHandler := handlers.NewHistoryHandler(historyService, deduplicator)
	workerHandler := handlers.NewWorkerHandler(resolver, cfg.Worker.BatchLimit)
	wsHandler := handlers.NewWebSocketHandler(hub)

	api := app.Group("/api/v1")

	api.Post("/classify", classifyHandler.ClassifyKeywords)
	api.Post("/predict", classifyHandler.Predict)

	api.Get("/gsc/extract", gscHandler.Extract)
	api.Post("/gsc/sync", gscHandler.Sync)

	api.Get("/history", historyHandler.List)
	api.Get("/history/keyword", historyHandler.Timeseries)
	api.Post("/history/import", historyHandler.Import)

	api.Post("/classify-pending", workerHandler.ClassifyPending)

	api.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "healthy",
			"time":   time.Now().Unix(),
		})
	})

	api.Get("/ready", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "ready",
		})
	})

	app.Get("/metrics", metrics.Handler())

	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	app.Get("/ws/progress", websocket.New(wsHandler.StreamProgress))

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	appLogger.Info("Server starting", zap.String("address", addr))

	go func() {
		if err := app.Listen(addr); err != nil {
			appLogger.Fatal("Server failed to start", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	appLogger.Info("Server shutting down gracefully...")
	app.Shutdown()
	appLogger.Info("Server stopped")
}
