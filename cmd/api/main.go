package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/internhub/backend/internal/api"
	"github.com/internhub/backend/internal/api/middleware"
	"github.com/internhub/backend/internal/config"
	"github.com/internhub/backend/internal/notify"
	"github.com/internhub/backend/internal/scheduler"
	"github.com/internhub/backend/internal/scraper"
	"github.com/internhub/backend/internal/store"
	"github.com/internhub/backend/pkg/logger"
)

func main() {
	configPath := flag.String("config", "", "Path to config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger.Init(cfg.Server.Debug)
	defer logger.Sync()
	log := logger.Get()

	logger.Info("Starting InternHub Scraping API",
		zap.Bool("debug", cfg.Server.Debug),
	)

	ctx := context.Background()

	// Postgres
	pool, err := store.Connect(ctx, cfg.Database.Postgres.DSN(), cfg.Database.Postgres.PoolSize)
	if err != nil {
		logger.Fatal("Failed to connect to Postgres", zap.Error(err))
	}
	defer pool.Close()

	// Redis is only needed for notification fan-out; without it the
	// scraper still runs, just silently.
	rdb, err := store.ConnectRedis(ctx, cfg.Database.Redis.URL)
	if err != nil {
		logger.Warn("Redis unavailable, notifications disabled", zap.Error(err))
		rdb = nil
	} else {
		defer rdb.Close()
	}

	// Persistence gate
	internships := store.NewInternshipStore(pool)
	gate := store.NewGate(internships, log)

	// Shared browser session
	session := scraper.NewSession(&scraper.BrowserConfig{
		Headless:      cfg.Scraper.Headless,
		UserAgent:     cfg.Scraper.UserAgent,
		DisableImages: cfg.Scraper.DisableImages,
		WindowWidth:   cfg.Scraper.WindowWidth,
		WindowHeight:  cfg.Scraper.WindowHeight,
	}, log)

	var contacts scraper.ContactSource
	if cfg.Scraper.EnrichContacts {
		contacts = scraper.NewContactExtractor(session, cfg.Scraper.ContactTimeout, cfg.Scraper.SettleDelay, log)
	}

	pipeline := scraper.NewPipeline(gate, contacts, log)

	// Source adapters
	opts := scraper.AdapterOptions{
		NavTimeout:  cfg.Scraper.NavTimeout,
		WaitTimeout: cfg.Scraper.WaitTimeout,
		TermDelay:   cfg.Scraper.TermDelay,
	}

	registry := scraper.NewRegistry()
	registry.Register(scraper.NewLinkedInAdapter(session, pipeline, opts, log))
	registry.Register(scraper.NewIndeedAdapter(session, pipeline, opts, log))
	registry.Register(scraper.NewWellfoundAdapter(session, pipeline, opts, log))
	registry.Register(scraper.NewGlassdoorAdapter(nil, cfg.Scraper.UserAgent, cfg.Scraper.TermDelay, pipeline, log))
	registry.Register(scraper.NewInternshipsAdapter(nil, cfg.Scraper.InternshipsAPI, cfg.Scraper.UserAgent, cfg.Scraper.TermDelay, pipeline, log))

	var notifier scraper.Notifier
	if cfg.Notify.Enabled && rdb != nil {
		notifier = notify.NewRedisNotifier(rdb, cfg.Notify.SubscribersKey, cfg.Notify.ChannelPrefix, log)
	}

	engine := scraper.NewEngine(session, sourceConfigs(registry), notifier, log)

	// Scheduled runs
	var sched *scheduler.Scheduler
	if cfg.Scheduler.Enabled {
		sched = scheduler.New(engine, cfg.Scheduler.Spec, log)
		if err := sched.Start(ctx); err != nil {
			logger.Fatal("Failed to start scheduler", zap.Error(err))
		}
	}

	// HTTP API
	app := fiber.New(fiber.Config{
		AppName:               "InternHub Scraping API",
		ReadTimeout:           cfg.Server.ReadTimeout,
		WriteTimeout:          cfg.Server.WriteTimeout,
		DisableStartupMessage: !cfg.Server.Debug,
		ErrorHandler:          errorHandler,
	})

	middleware.Setup(app, cfg)

	api.SetupRoutes(app, &api.Dependencies{
		DB:          pool,
		Redis:       rdb,
		Engine:      engine,
		Internships: internships,
		Logger:      log,
	})

	// Graceful shutdown
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-c
		logger.Info("Shutting down gracefully...")
		_ = app.Shutdown()
	}()

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	logger.Info("Server starting", zap.String("address", addr))

	if err := app.Listen(addr); err != nil {
		logger.Fatal("Server failed to start", zap.Error(err))
	}

	if sched != nil {
		sched.Stop()
	}
	session.Release()
}

// sourceConfigs pairs each registered adapter with its fixed term list.
func sourceConfigs(registry *scraper.Registry) []scraper.SourceConfig {
	terms := map[string][]string{
		"LinkedIn":        scraper.LinkedInSearchTerms,
		"Indeed":          scraper.IndeedSearchTerms,
		"Wellfound":       scraper.WellfoundSearchTerms,
		"Glassdoor":       scraper.GlassdoorSearchTerms,
		"Internships.com": scraper.InternshipsSearchTerms,
	}

	var sources []scraper.SourceConfig
	for _, a := range registry.All() {
		sources = append(sources, scraper.SourceConfig{
			Adapter: a,
			Terms:   terms[a.Name()],
		})
	}
	return sources
}

// errorHandler handles errors globally
func errorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal server error"

	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
		message = e.Message
	}

	logger.Error("Request error",
		zap.Int("status", code),
		zap.String("path", c.Path()),
		zap.Error(err),
	)

	return c.Status(code).JSON(fiber.Map{
		"error":   "request_failed",
		"message": message,
		"path":    c.Path(),
	})
}
