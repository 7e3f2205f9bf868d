package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/mediaforge/cms-platform/pkg/auth"
	"github.com/mediaforge/cms-platform/pkg/common/config"
	"github.com/mediaforge/cms-platform/pkg/common/database"
	"github.com/mediaforge/cms-platform/pkg/common/kafka"
	"github.com/mediaforge/cms-platform/pkg/common/logger"
	"github.com/mediaforge/cms-platform/pkg/discovery"
	"github.com/mediaforge/cms-platform/pkg/observability/metrics"
)

func main() {
	logger.Init("discovery-service")
	cfg := config.Load()

	redisClient := database.GetRedis()
	defer database.CloseRedis()

	index := discovery.NewIndex(redisClient)
	indexer := discovery.NewIndexer(index)
	searcher := discovery.NewSearcher(redisClient)

	consumer := kafka.NewConsumer(cfg.ShowEventsTopic, cfg.KafkaGroupID+"-discovery")
	defer consumer.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		logger.Log.WithField("topic", cfg.ShowEventsTopic).Info("Show event consumer started")
		if err := consumer.Consume(ctx, indexer.HandleMessage); err != nil && ctx.Err() == nil {
			logger.Log.WithError(err).Error("Show event consumer stopped")
		}
	}()

	router := mux.NewRouter()
	router.Use(auth.Logging, auth.Recovery)

	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"healthy"}`))
	}).Methods(http.MethodGet)

	router.HandleFunc("/metrics", func(w http.ResponseWriter, r *http.Request) {
		metrics.WritePrometheus(w)
	}).Methods(http.MethodGet)

	api := router.PathPrefix("/api/v1").Subrouter()
	discovery.NewHandler(searcher).Register(api)

	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%s", cfg.ServerHost, "8082"),
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		logger.Log.WithFields(map[string]interface{}{
			"host": cfg.ServerHost,
			"port": "8082",
		}).Info("Discovery Service started")

		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.WithError(err).Fatal("failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Log.Info("Shutting down Discovery Service...")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Log.WithError(err).Error("server forced to shutdown")
	}

	logger.Log.Info("Discovery Service stopped")
}
