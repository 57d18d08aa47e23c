package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"storefront/config"
	"storefront/internal/api"
	"storefront/internal/bootstrap"
	"storefront/internal/broker"
	"storefront/internal/query"
	"storefront/internal/redisclient"
	"storefront/internal/service"
	"storefront/internal/util"
	"storefront/internal/worker"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {

	cfg := config.Load()

	if err := util.InitLogger(cfg.Server.Env); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer util.SyncLogger()

	logger := util.GetLogger()
	logger.Info("Starting storefront service")

	endpoint := ""
	if cfg.Observ.TracingEnabled {
		endpoint = cfg.Observ.JaegerEndpoint
	}
	tp, err := util.InitTracer("storefront", endpoint)
	if err != nil {
		logger.Fatal("Failed to initialize tracer", zap.Error(err))
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tp.Shutdown(ctx); err != nil {
			logger.Warn("Error shutting down tracer", zap.Error(err))
		}
	}()

	loadCtx, loadCancel := context.WithTimeout(context.Background(), 30*time.Second)
	cat, closeSource, err := bootstrap.LoadCatalog(loadCtx, cfg.Catalog, cfg.Database.URL)
	loadCancel()
	if err != nil {
		logger.Fatal("Failed to load catalog",
			zap.String("source", cfg.Catalog.Source),
			zap.Error(err))
	}
	// The catalog is read once; the source is not needed afterwards.
	closeSource()

	var (
		sessions service.SessionStore
		checks   []api.Pinger
	)
	if cfg.Redis.Enabled {
		redisClient, err := redisclient.NewClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, cfg.Redis.SessionTTL)
		if err != nil {
			logger.Fatal("Failed to connect to Redis", zap.Error(err))
		}
		defer redisClient.Close()
		logger.Info("Redis connected", zap.String("addr", cfg.Redis.Addr))

		sessions = redisClient
		checks = append(checks, redisClient)
	} else {
		sessions = service.NewMemorySessionStore(cfg.Redis.SessionTTL)
		logger.Info("Using in-memory card sessions")
	}

	var publisher service.EventPublisher

	workerCtx, workerCancel := context.WithCancel(context.Background())
	defer workerCancel()

	var contactWorker *worker.ContactWorker
	if cfg.Kafka.Enabled {
		producer := broker.NewProducer(cfg.Kafka.Brokers, cfg.Kafka.TopicContact)
		defer producer.Close()
		publisher = broker.NewEventPublisher(producer)
		logger.Info("Kafka producer initialized", zap.String("topic", cfg.Kafka.TopicContact))

		consumer := broker.NewConsumer(cfg.Kafka.Brokers, cfg.Kafka.TopicContact, cfg.Kafka.ConsumerGroup)
		contactWorker = worker.NewContactWorker(consumer)
		go func() {
			if err := contactWorker.Start(workerCtx); err != nil && err != context.Canceled {
				logger.Error("Contact worker error", zap.Error(err))
			}
		}()
	}

	storefront := service.NewStorefrontService(
		cat,
		query.NewEngine(cfg.Query.Locale),
		sessions,
		publisher,
		bootstrap.DispatchConfig(cfg.Dispatch),
	)

	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	handler := api.NewHandler(storefront, checks...)
	handler.SetupRoutes(router)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("Starting HTTP server", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Warn("Server forced to shutdown", zap.Error(err))
	}

	workerCancel()
	if contactWorker != nil {
		contactWorker.Stop()
	}

	logger.Info("Server exited")
}
