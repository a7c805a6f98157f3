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

	_ "github.com/Eusa190/FIXITY-CRI/docs"
	"github.com/Eusa190/FIXITY-CRI/internal/config"
	v1 "github.com/Eusa190/FIXITY-CRI/internal/handler/http/v1"
	"github.com/Eusa190/FIXITY-CRI/internal/locations"
	"github.com/Eusa190/FIXITY-CRI/internal/repository"
	"github.com/Eusa190/FIXITY-CRI/internal/service"
	"github.com/Eusa190/FIXITY-CRI/internal/webhook"
	"github.com/Eusa190/FIXITY-CRI/pkg/postgres"
	redisclient "github.com/Eusa190/FIXITY-CRI/pkg/redis"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

var serveMigrate bool

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API and the webhook worker",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, log, err := bootstrap()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		return serve(cfg, log)
	},
}

func init() {
	serveCmd.Flags().BoolVar(&serveMigrate, "migrate", true, "apply migrations before start")
}

// openStores подключается к PostgreSQL и Redis
func openStores(ctx context.Context, cfg *config.Config, log *logrus.Logger) (*pgxpool.Pool, *redis.Client, error) {
	dbpool, err := postgres.NewPostgresDB(ctx, cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to PostgreSQL: %w", err)
	}
	log.Info("Successfully connected to PostgreSQL")

	redisClient, err := redisclient.NewRedisClient(ctx, cfg)
	if err != nil {
		dbpool.Close()
		return nil, nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	log.Info("Successfully connected to Redis")

	return dbpool, redisClient, nil
}

// newIssueService собирает сервис обращений поверх хранилищ
func newIssueService(cfg *config.Config, log *logrus.Logger, dbpool *pgxpool.Pool, redisClient *redis.Client) (service.IssueService, error) {
	hierarchy, err := locations.Load(cfg.LocationsFile)
	if err != nil {
		return nil, err
	}
	log.WithFields(logrus.Fields{
		"file":      cfg.LocationsFile,
		"districts": hierarchy.DistrictCount(),
	}).Info("Location hierarchy loaded")

	issueRepo := repository.NewIssueRepository(dbpool, redisClient)
	webhookPublisher := webhook.NewRedisWebhookPublisher(redisClient)
	return service.NewIssueService(issueRepo, log, cfg, webhookPublisher, hierarchy), nil
}

func serve(cfg *config.Config, log *logrus.Logger) error {
	// Контекст для graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if serveMigrate {
		if err := runMigrations(cfg, log); err != nil {
			return err
		}
	}

	dbpool, redisClient, err := openStores(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer dbpool.Close()
	defer redisClient.Close()

	issueService, err := newIssueService(cfg, log, dbpool, redisClient)
	if err != nil {
		return err
	}

	// Инициализация и запуск воркера вебхуков
	webhookWorker := webhook.NewWebhookWorker(redisClient, log, cfg)
	webhookWorker.Start(ctx)

	limiter := repository.NewReportLimiter(redisClient, cfg.ReportRateLimit, cfg.ReportRateWindow)
	handler := v1.NewHandler(issueService, limiter, log, cfg)

	// Настройка Gin роутера
	router := gin.Default()
	api := router.Group("/api/v1")
	handler.RegisterRoutes(api)

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.HTTPPort),
		Handler: router,
	}

	serverErr := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()
	log.Infof("HTTP server started on port %s", cfg.HTTPPort)

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-quit:
		log.Info("Received shutdown signal, shutting down server...")
	case err := <-serverErr:
		return fmt.Errorf("error starting HTTP server: %w", err)
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	log.Info("Server gracefully stopped")
	return nil
}
