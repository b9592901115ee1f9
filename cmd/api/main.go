package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/redis/go-redis/v9"

	"civicdesk/api/internal/app"
	"civicdesk/api/internal/artifact"
	"civicdesk/api/internal/blob"
	"civicdesk/api/internal/config"
	"civicdesk/api/internal/indicator"
	"civicdesk/api/internal/observability"
	"civicdesk/api/internal/portal"
	"civicdesk/api/internal/search"
	"civicdesk/api/internal/store"
)

func main() {
	cfg := config.Load()
	ctx := context.Background()

	db, err := store.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("database connection failed: %v", err)
	}
	defer db.Close()

	if err := store.ApplyMigrations(ctx, db, cfg.MigrationsDir); err != nil {
		log.Fatalf("migrations failed: %v", err)
	}

	dataStore := store.NewPostgresStore(db)

	var blobStore blob.Store
	if strings.TrimSpace(cfg.MinioEndpoint) != "" {
		log.Printf("Using MinIO for attachment storage")
		blobStore, err = blob.NewMinio(ctx, cfg.MinioEndpoint, cfg.MinioAccessKey, cfg.MinioSecretKey, cfg.MinioBucket, cfg.MinioUseSSL)
		if err != nil {
			log.Fatalf("minio connection failed: %v", err)
		}
	} else {
		log.Printf("Using local disk for attachment storage")
		blobStore, err = blob.NewLocal(cfg.UploadsDir)
		if err != nil {
			log.Fatalf("failed to create uploads dir: %v", err)
		}
	}

	var meiliClient *search.Meili
	if strings.TrimSpace(cfg.MeiliURL) != "" {
		meiliClient = search.NewMeili(cfg.MeiliURL, cfg.MeiliMasterKey)
		defer meiliClient.Close()
	}
	searchService := search.NewService(meiliClient, dataStore)

	// The indicator cache is advisory: run without it when Redis is not
	// configured or unreachable.
	var redisClient *redis.Client
	if strings.TrimSpace(cfg.RedisURL) != "" {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			log.Fatalf("invalid redis url: %v", err)
		}
		redisClient = redis.NewClient(opts)
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		if err := redisClient.Ping(pingCtx).Err(); err != nil {
			log.Printf("WARNING: redis unreachable, indicator caching disabled: %v", err)
			redisClient = nil
		}
		cancel()
		if redisClient != nil {
			defer redisClient.Close()
		}
	}

	metrics := observability.NewMetrics()
	indicatorService := indicator.NewService(
		indicator.NewAQIClient(cfg.AQIBaseURL, cfg.AQIToken, 10*time.Second),
		indicator.NewGDPClient(cfg.GDPBaseURL, cfg.GDPCountryCode, 10*time.Second),
		cfg.IndicatorCities,
		redisClient,
		cfg.IndicatorTTL,
		clockwork.NewRealClock(),
		metrics,
	)

	renderer := artifact.NewService(dataStore, blobStore)
	service := app.New(cfg, dataStore, blobStore, portal.New(), renderer, searchService, indicatorService, metrics)

	httpServer := app.NewHTTPServer(service, cfg.CORSOrigin)
	server := &http.Server{
		Addr:              cfg.Addr,
		Handler:           httpServer.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Printf("Civicdesk API listening on %s", cfg.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server failed: %v", err)
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("shutdown error: %v", err)
	}
}
