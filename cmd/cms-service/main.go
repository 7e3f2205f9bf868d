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
	"github.com/mediaforge/cms-platform/pkg/importer"
	"github.com/mediaforge/cms-platform/pkg/observability/metrics"
	"github.com/mediaforge/cms-platform/pkg/provider"
	"github.com/mediaforge/cms-platform/pkg/shows"
	"github.com/mediaforge/cms-platform/pkg/users"
)

func main() {
	logger.Init("cms-service")
	cfg := config.Load()
	if err := cfg.ApplyProvidersFile(); err != nil {
		logger.Log.WithError(err).Fatal("failed to load providers config file")
	}

	db, err := database.GetPostgres()
	if err != nil {
		logger.Log.WithError(err).Fatal("failed to connect to postgres")
	}

	showRepo := shows.NewRepository(db)
	if err := showRepo.AutoMigrate(); err != nil {
		logger.Log.WithError(err).Fatal("failed to migrate show tables")
	}
	userRepo := users.NewRepository(db)
	if err := userRepo.AutoMigrate(); err != nil {
		logger.Log.WithError(err).Fatal("failed to migrate user tables")
	}

	jwtManager, err := auth.NewJWTManager(cfg.JWTSecret, cfg.JWTIssuer, cfg.JWTAudience, cfg.JWTTTL)
	if err != nil {
		logger.Log.WithError(err).Fatal("failed to initialize token manager")
	}

	eventsProducer := kafka.NewProducer(cfg.ShowEventsTopic)
	defer eventsProducer.Close()
	jobsProducer := kafka.NewProducer(cfg.ImportJobsTopic)
	defer jobsProducer.Close()
	retryProducer := kafka.NewProducer(cfg.ImportRetryTopic)
	defer retryProducer.Close()
	dlqProducer := kafka.NewProducer(cfg.ImportDLQTopic)
	defer dlqProducer.Close()

	showService := shows.NewService(showRepo, eventsProducer)
	userService := users.NewService(userRepo, jwtManager)

	registry := provider.NewRegistry(
		provider.NewMock(cfg.MockProviderEnabled, 0),
		provider.NewYouTube(provider.YouTubeConfig{
			APIKey:     cfg.YouTubeAPIKey,
			BaseURL:    cfg.YouTubeBaseURL,
			MaxResults: cfg.YouTubeMaxResults,
			Timeout:    cfg.ProviderRequestTimeout,
		}),
		provider.NewVimeo(provider.VimeoConfig{
			ClientID:     cfg.VimeoClientID,
			ClientSecret: cfg.VimeoClientSecret,
			BaseURL:      cfg.VimeoBaseURL,
			TokenURL:     cfg.VimeoTokenURL,
			Timeout:      cfg.ProviderRequestTimeout,
		}),
	)

	jobStore := importer.NewMemoryJobStore()
	importService := importer.NewService(registry, jobStore, jobsProducer, showService,
		cfg.ImportMaxRetries, cfg.ImportFetchTimeout)
	worker := importer.NewWorker(registry, jobStore, showService,
		jobsProducer, retryProducer, dlqProducer,
		cfg.ImportFetchTimeout, cfg.ImportRetryBackoff)

	router := mux.NewRouter()
	router.Use(auth.Logging, auth.Recovery)

	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"healthy"}`))
	}).Methods(http.MethodGet)

	router.HandleFunc("/metrics", func(w http.ResponseWriter, r *http.Request) {
		metrics.WritePrometheus(w)
	}).Methods(http.MethodGet)

	userHandler := users.NewHandler(userService)
	userHandler.RegisterAuth(router.PathPrefix("/api/v1").Subrouter())

	api := router.PathPrefix("/api/v1").Subrouter()
	api.Use(auth.Authenticate(jwtManager))
	shows.NewHandler(showService).Register(api)
	importer.NewHandler(importService).Register(api)

	admin := router.PathPrefix("/api/v1").Subrouter()
	admin.Use(auth.Authenticate(jwtManager), auth.RequireRole(auth.RoleAdmin))
	userHandler.Register(admin)

	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%s", cfg.ServerHost, cfg.ServerPort),
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  120 * time.Second,
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go worker.Run(ctx, cfg.ImportJobsTopic, cfg.ImportRetryTopic, cfg.KafkaGroupID+"-import", cfg.ImportWorkerSlots)

	go func() {
		ticker := time.NewTicker(cfg.JobCleanupInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				removed := jobStore.Cleanup(cfg.JobRetention)
				if removed > 0 {
					logger.Log.WithField("removed", removed).Info("Purged expired import jobs")
				}
			case <-ctx.Done():
				return
			}
		}
	}()

	go func() {
		logger.Log.WithFields(map[string]interface{}{
			"host": cfg.ServerHost,
			"port": cfg.ServerPort,
		}).Info("CMS Service started")

		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.WithError(err).Fatal("failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Log.Info("Shutting down CMS Service...")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Log.WithError(err).Error("server forced to shutdown")
	}

	logger.Log.Info("CMS Service stopped")
}
