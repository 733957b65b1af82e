package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/zatekoja/hospitalops/internal/adapters/cache"
	"github.com/zatekoja/hospitalops/internal/adapters/database"
	"github.com/zatekoja/hospitalops/internal/adapters/events"
	"github.com/zatekoja/hospitalops/internal/adapters/reports"
	"github.com/zatekoja/hospitalops/internal/adapters/search"
	"github.com/zatekoja/hospitalops/internal/api/handlers"
	"github.com/zatekoja/hospitalops/internal/api/middleware"
	"github.com/zatekoja/hospitalops/internal/api/routes"
	"github.com/zatekoja/hospitalops/internal/application/services"
	"github.com/zatekoja/hospitalops/internal/domain/providers"
	"github.com/zatekoja/hospitalops/internal/domain/repositories"
	"github.com/zatekoja/hospitalops/internal/infrastructure/clients/capacityapi"
	"github.com/zatekoja/hospitalops/internal/infrastructure/clients/postgres"
	"github.com/zatekoja/hospitalops/internal/infrastructure/clients/redis"
	"github.com/zatekoja/hospitalops/internal/infrastructure/clients/typesense"
	"github.com/zatekoja/hospitalops/internal/infrastructure/observability"
	"github.com/zatekoja/hospitalops/internal/store"
	"github.com/zatekoja/hospitalops/pkg/config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	observability.InitLogger(cfg.OTEL.ServiceName, cfg.Server.Environment, cfg.Hospital.ID)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if cfg.OTEL.Enabled {
		shutdown, err := observability.Setup(ctx, cfg.OTEL.ServiceName, cfg.OTEL.ServiceVersion, cfg.OTEL.Endpoint)
		if err != nil {
			log.Warn().Err(err).Msg("Failed to setup OpenTelemetry")
		} else {
			defer func() {
				if err := shutdown(context.Background()); err != nil {
					log.Warn().Err(err).Msg("Error shutting down OpenTelemetry")
				}
			}()
			log.Info().Str("endpoint", cfg.OTEL.Endpoint).Msg("OpenTelemetry initialized")
		}
	}

	metrics, err := observability.InitMetrics()
	if err != nil {
		log.Warn().Err(err).Msg("Failed to initialize metrics")
	}

	hospitalStore := store.New(store.Options{Seed: uint64(cfg.Hospital.Seed)})
	hospitalStore.Seed(cfg.Hospital.SeedOccupancy)
	log.Info().
		Int64("seed", cfg.Hospital.Seed).
		Float64("occupancy", cfg.Hospital.SeedOccupancy).
		Msg("Hospital state seeded")

	var redisClient *redis.Client
	if cfg.Redis.Enabled {
		redisClient, err = redis.NewClient(ctx, &cfg.Redis)
		if err != nil {
			// Continue on the in-process cache and event bus
			log.Warn().Err(err).Msg("Failed to initialize Redis client")
			redisClient = nil
		} else {
			defer redisClient.Close()
			log.Info().Str("addr", cfg.Redis.RedisAddr()).Msg("Redis client initialized")
		}
	}

	var cacheProvider providers.CacheProvider
	var eventBus providers.EventBus
	if redisClient != nil {
		cacheProvider = cache.NewRedisAdapter(redisClient)
		eventBus = events.NewRedisEventBus(redisClient)
	} else {
		lru, err := cache.NewLRUAdapter(cfg.Cache.LocalSize)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to create local cache")
		}
		cacheProvider = lru
		eventBus = events.NewLocalEventBus()
		log.Info().Int("size", cfg.Cache.LocalSize).Msg("Using in-process cache and event bus")
	}

	var pgClient *postgres.Client
	var snapshotRepo repositories.CapacitySnapshotRepository
	if cfg.Database.Enabled {
		pgClient, err = postgres.NewClient(ctx, &cfg.Database)
		if err != nil {
			log.Warn().Err(err).Msg("Failed to initialize PostgreSQL client")
			pgClient = nil
		} else {
			defer pgClient.Close()
			adapter := database.NewCapacitySnapshotAdapter(pgClient)
			if schema, ok := adapter.(interface{ EnsureSchema(context.Context) error }); ok {
				if err := schema.EnsureSchema(ctx); err != nil {
					log.Warn().Err(err).Msg("Failed to ensure capacity snapshot schema")
				}
			}
			snapshotRepo = adapter
			log.Info().Msg("PostgreSQL snapshot archive initialized")
		}
	}
	if snapshotRepo == nil {
		snapshotRepo = database.NewMemorySnapshotAdapter(0)
	}

	var inventoryIndex repositories.InventorySearchRepository = search.NewMemoryInventoryIndex()
	if cfg.Typesense.Enabled {
		tsClient, err := typesense.NewClient(ctx, &cfg.Typesense)
		if err != nil {
			log.Warn().Err(err).Msg("Failed to initialize Typesense client")
		} else if err := tsClient.InitSchema(ctx); err != nil {
			log.Warn().Err(err).Msg("Failed to init Typesense schema")
		} else {
			inventoryIndex = search.NewTypesenseInventoryIndex(tsClient)
			log.Info().Msg("Typesense inventory index initialized")
		}
	}

	var forwarder *events.KafkaForwarder
	if len(cfg.Kafka.Brokers) > 0 {
		forwarder = events.NewKafkaForwarder(eventBus, events.NewKafkaWriter(cfg.Kafka.Brokers, cfg.Kafka.Topic))
		if err := forwarder.Start(ctx); err != nil {
			log.Warn().Err(err).Msg("Failed to start Kafka forwarder")
			forwarder = nil
		}
	}

	var peers providers.PeerCapacityProvider
	if len(cfg.Hospital.Peers) > 0 {
		peers = capacityapi.NewClient(cfg.Hospital.Peers, capacityapi.DefaultOptions())
		log.Info().Int("peers", len(cfg.Hospital.Peers)).Msg("Peer capacity client initialized")
	}

	publisher := services.NewEventPublisher(eventBus, cfg.Hospital.ID, metrics)
	queueService := services.NewQueueService(hospitalStore, publisher)
	admissionService := services.NewAdmissionService(hospitalStore, publisher, cfg.Hospital.ID)
	inventoryService := services.NewInventoryService(hospitalStore, publisher, inventoryIndex, reports.ExcelInventoryReport{})
	if err := inventoryService.SyncIndex(ctx); err != nil {
		log.Warn().Err(err).Msg("Failed to index inventory")
	}

	capacityService := services.NewCapacityService(hospitalStore, services.CapacityConfig{
		HospitalID:   cfg.Hospital.ID,
		HospitalName: cfg.Hospital.Name,
		Maintenance:  cfg.Hospital.Maintenance,
	}, peers, metrics)
	dashboardService := services.NewDashboardService(hospitalStore)

	archiver := services.NewSnapshotArchiver(capacityService, snapshotRepo, cfg.Archive.Interval)
	go archiver.Run(ctx)

	cacheInvalidation := services.NewCacheInvalidationService(cacheProvider, eventBus)
	if err := cacheInvalidation.Start(); err != nil {
		log.Warn().Err(err).Msg("Failed to start cache invalidation service")
	}

	sseHandler := handlers.NewSSEHandler(eventBus)
	healthHandler := handlers.NewHealthHandler(cfg.Hospital.ID, sseHandler)
	if redisClient != nil {
		healthHandler.Register("redis", redisClient)
	}
	if pgClient != nil {
		healthHandler.Register("postgres", pgClient)
	}

	router := routes.NewRouter(routes.Handlers{
		Health:     healthHandler,
		Queue:      handlers.NewQueueHandler(queueService),
		Beds:       handlers.NewBedHandler(admissionService),
		Admissions: handlers.NewAdmissionHandler(admissionService),
		Inventory:  handlers.NewInventoryHandler(inventoryService),
		Capacity:   handlers.NewCapacityHandler(capacityService, archiver),
		Dashboard:  handlers.NewDashboardHandler(dashboardService),
		Stream:     sseHandler,
	}, middleware.NewCacheMiddleware(cacheProvider, cfg.Cache.TTLSeconds, metrics), cfg.Server.AllowedOrigins, metrics)

	serverAddr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	server := &http.Server{
		Addr:        serverAddr,
		Handler:     router.SetupRoutes(),
		ReadTimeout: 15 * time.Second,
		// Event streams stay open, so no WriteTimeout
		IdleTimeout: 60 * time.Second,
	}

	go func() {
		log.Info().Str("addr", serverAddr).Str("hospital_id", cfg.Hospital.ID).Msg("Server starting")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Server failed to start")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Server shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Error during server shutdown")
	}

	cacheInvalidation.Stop()
	if forwarder != nil {
		if err := forwarder.Stop(); err != nil {
			log.Warn().Err(err).Msg("Error stopping Kafka forwarder")
		}
	}
	cancel()

	if err := eventBus.Close(); err != nil {
		log.Warn().Err(err).Msg("Error closing event bus")
	}

	log.Info().Msg("Server stopped")
}
