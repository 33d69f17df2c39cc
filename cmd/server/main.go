package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"go.uber.org/zap"

	"podcastgen/cache"
	"podcastgen/config"
	"podcastgen/database"
	"podcastgen/handlers"
	"podcastgen/kafka"
	"podcastgen/metrics"
	"podcastgen/migrations"
	"podcastgen/repository"
	"podcastgen/service"
)

func main() {
	logger, _ := zap.NewProduction()
	defer logger.Sync()

	cfg := config.Load()
	logger.Info("Podcast generation service starting",
		zap.String("port", cfg.Port),
		zap.String("env", cfg.Env),
		zap.String("queue_topic", cfg.QueueTopic),
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	metrics.MustRegister()

	if err := migrations.Up(cfg.DatabaseURL); err != nil {
		logger.Fatal("Migrations failed", zap.Error(err))
	}

	db, err := database.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Fatal("Postgres connection failed", zap.Error(err))
	}
	defer db.Close()

	redisCache, err := database.ConnectCache(cfg.RedisAddr)
	if err != nil {
		logger.Fatal("Redis connection failed", zap.Error(err))
	}
	defer redisCache.Close()

	producer, err := kafka.NewProducer(strings.Split(cfg.KafkaBrokers, ","))
	if err != nil {
		logger.Fatal("Kafka producer failed", zap.Error(err))
	}
	defer producer.Close()

	repo := repository.NewPostgresRepo(db)
	statusCache := cache.NewStatusCache(redisCache)
	taskSvc := service.NewTaskService(repo, statusCache, producer, cfg.QueueTopic, cfg.Prompts)
	querySvc := service.NewQueryService(repo, statusCache, cfg.WaitMinutesMin, cfg.WaitMinutesMax)

	handler := handlers.NewTaskHandler(taskSvc, querySvc, logger)
	router := handlers.NewRouter(handler, logger)

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	go func() {
		logger.Info("Server started", zap.String("address", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Server failed", zap.Error(err))
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	logger.Info("Shutting down")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Shutdown error", zap.Error(err))
	}
}
