package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/fareleap/traveldeals/internal/api/router"
	"github.com/fareleap/traveldeals/internal/cache"
	"github.com/fareleap/traveldeals/internal/channels/telegram"
	appconfig "github.com/fareleap/traveldeals/internal/config"
	"github.com/fareleap/traveldeals/internal/engine"
	"github.com/fareleap/traveldeals/internal/observability/metrics"
	"github.com/fareleap/traveldeals/internal/offers"
	"github.com/fareleap/traveldeals/internal/places"
	"github.com/fareleap/traveldeals/pkg/logging"
)

func main() {
	// Load .env file if present; real environment variables win either way.
	_ = godotenv.Load()

	// Load configuration
	cfg := appconfig.Load()

	// Initialize logger
	logger := logging.New(cfg.LogLevel)
	logger.Info("starting traveldeals bot",
		"env", cfg.Env,
		"port", cfg.Port,
	)

	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	// Metrics registry
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())
	registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	botMetrics := metrics.NewBotMetrics(registry)

	// Offer caches: in-process by default, Redis when an address is set so
	// several bot replicas can share lookups.
	var flightCache, busCache cache.Store
	if cfg.RedisAddr != "" {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
		})
		flightCache = cache.NewRedisCache(client, "offers:flights", logger)
		busCache = cache.NewRedisCache(client, "offers:buses", logger)
		logger.Info("using redis offer cache", "addr", cfg.RedisAddr)
	} else {
		flightCache = cache.NewTTLCache(cfg.FlightCacheSize)
		busCache = cache.NewTTLCache(cfg.BusCacheSize)
	}

	// Offer sources
	flightSource := offers.NewTravelPayoutsSource(offers.TravelPayoutsConfig{
		BaseURL: cfg.TravelPayoutsBaseURL,
		Token:   cfg.TravelPayoutsToken,
		Marker:  cfg.AffiliateMarker,
		Timeout: cfg.OfferTimeout,
		Logger:  logger,
	})
	busSource := offers.NewBusLinesSource(cfg.AffiliateMarker)

	// Conversation engine
	eng := engine.New(engine.Config{
		Resolver:     places.NewDirectory(),
		FlightSource: flightSource,
		BusSource:    busSource,
		FlightCache:  flightCache,
		BusCache:     busCache,
		FlightTTL:    cfg.FlightCacheTTL,
		BusTTL:       cfg.BusCacheTTL,
		Currency:     cfg.Currency,
		OfferLimit:   cfg.OfferLimit,
		PageSize:     cfg.PageSize,
		Logger:       logger,
		Metrics:      botMetrics,
	})

	// Telegram channel
	tgClient, err := telegram.NewClient(telegram.ClientConfig{
		Token:       cfg.TelegramBotToken,
		PollTimeout: cfg.PollTimeout,
		Logger:      logger,
	})
	if err != nil {
		logger.Error("failed to create telegram client", "error", err)
		os.Exit(1)
	}
	adapter := telegram.NewAdapter(tgClient, eng, logger, botMetrics)

	// Operational HTTP surface (health, metrics)
	r := router.New(&router.Config{
		Logger:         logger,
		MetricsHandler: promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		Env:            cfg.Env,
	})
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	// Run the Telegram poll loop until we get a shutdown signal.
	ctx, cancel := context.WithCancel(context.Background())
	pollDone := make(chan struct{})
	go func() {
		defer close(pollDone)
		if err := adapter.Run(ctx); err != nil {
			logger.Error("telegram adapter stopped", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down...")
	cancel()

	select {
	case <-pollDone:
	case <-time.After(10 * time.Second):
		logger.Warn("telegram adapter did not drain in time")
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	logger.Info("bot stopped")
}
