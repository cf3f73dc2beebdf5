package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/innovatech/employee-portal/pkg/apiserver"
	"github.com/innovatech/employee-portal/pkg/config"
	"github.com/innovatech/employee-portal/pkg/eventbus"
	"github.com/innovatech/employee-portal/pkg/store"
	"github.com/innovatech/employee-portal/pkg/store/memory"
	"github.com/innovatech/employee-portal/pkg/store/postgres"
	redisclient "github.com/innovatech/employee-portal/pkg/store/redis"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger := buildLogger(cfg.Logging)
	defer logger.Sync()

	policy := store.ConflictPolicy(cfg.Store.EmailConflict)

	var employees store.EmployeeStore
	var credentials store.CredentialStore

	switch cfg.Store.Driver {
	case "postgres":
		db, err := postgres.NewStore(&cfg.Database)
		if err != nil {
			logger.Fatal("Failed to connect to database", zap.Error(err))
		}
		defer db.Close()
		if err := db.AutoMigrate(); err != nil {
			logger.Fatal("Failed to migrate database", zap.Error(err))
		}
		employees = postgres.NewEmployeeRepository(db.DB(), policy)
		credentials = postgres.NewCredentialRepository(db.DB())
	case "memory":
		mem := memory.NewStore(policy)
		employees, credentials = mem, mem
	default:
		client, err := redisclient.NewClient(&cfg.Redis)
		if err != nil {
			logger.Fatal("Failed to connect to Redis", zap.Error(err))
		}
		defer client.Close()
		employees = redisclient.NewEmployeeStore(client.Client(), policy)
		credentials = redisclient.NewCredentialStore(client.Client())
	}

	producer := eventbus.NewKafkaProducer(eventbus.KafkaProducerConfig{
		Brokers:  cfg.Kafka.Brokers,
		ClientID: cfg.Kafka.ClientID,
		Topic:    cfg.Kafka.EmployeeTopic,
		Region:   cfg.Region,
	})
	defer producer.Close()

	server := apiserver.NewServer(employees, credentials, producer, cfg, logger)

	httpServer := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.HTTPPort),
		Handler:      server.Router(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.ReadTimeout * 2,
	}

	metricsServer := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.MetricsPort),
		Handler: promhttp.Handler(),
	}

	go func() {
		if err := metricsServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("Metrics server error", zap.Error(err))
		}
	}()

	go func() {
		logger.Info("Starting API server",
			zap.Int("port", cfg.Server.HTTPPort),
			zap.String("store_driver", cfg.Store.Driver),
			zap.String("region", cfg.Region),
		)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Server error", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
	}
	if err := metricsServer.Shutdown(ctx); err != nil {
		logger.Error("Metrics server forced to shutdown", zap.Error(err))
	}
}

func buildLogger(cfg config.LoggingConfig) *zap.Logger {
	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		level = zapcore.InfoLevel
	}

	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}
	zapCfg.Level = zap.NewAtomicLevelAt(level)

	logger, err := zapCfg.Build()
	if err != nil {
		panic(err)
	}
	return logger
}
