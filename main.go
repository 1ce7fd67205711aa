package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/hibiken/asynq"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"coachdash/config"
	_ "coachdash/docs"
	"coachdash/internal/backend"
	"coachdash/internal/content"
	"coachdash/internal/jobs"
	"coachdash/internal/repository"
	"coachdash/internal/service"
	"coachdash/internal/storage"
	"coachdash/internal/transport/rest"
	"coachdash/internal/transport/websocket"
	"coachdash/pkg/database"
	"coachdash/pkg/logger"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// @title Coach Dashboard API
// @version 1.0
// @description Coach registration wizard and dashboard backend-for-frontend

// @BasePath /api/v1

// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name Authorization
func main() {
	cfg, err := config.NewConfig()
	if err != nil {
		panic(err)
	}

	log, err := logger.NewLogger(logger.Options{
		Environment: cfg.Environment,
		Level:       cfg.LogLevel,
		Service:     cfg.Name,
		Version:     cfg.Version,
	})
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := database.NewPostgresDB(ctx, cfg.Postgres)
	if err != nil {
		log.Fatal("failed to connect to postgres", zap.Error(err))
	}
	defer db.Close()

	log.Info("running database migrations")
	if err := database.RunMigrations(ctx, db, cfg.Postgres.MigrationsDir, log); err != nil {
		log.Fatal("failed to run migrations", zap.Error(err))
	}

	rdb, err := database.NewRedisClient(ctx, cfg.Redis)
	if err != nil {
		log.Fatal("failed to connect to redis", zap.Error(err))
	}
	defer rdb.Close()

	var fileStorage storage.FileStorage
	if cfg.S3.Endpoint != "" {
		s3Storage, err := storage.NewS3Storage(ctx, cfg.S3, log)
		if err != nil {
			log.Fatal("failed to initialise S3 storage", zap.Error(err))
		}
		fileStorage = s3Storage
		log.Info("S3 storage ready", zap.String("endpoint", cfg.S3.Endpoint), zap.String("bucket", cfg.S3.Bucket))
	} else {
		log.Warn("S3 storage not configured, staging attachments in memory")
		fileStorage = storage.NewMemoryStorage()
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	metrics := service.NewMetrics(registry)

	backendClient := backend.NewClient(cfg.Backend, log, backend.WithObserver(metrics))

	repos := repository.NewRepositories(db, rdb, cfg.Registration.DraftTTL, cfg.Registration.CatalogCacheTTL)

	hub := websocket.NewNotificationHub(cfg.CORS.AllowedOrigins, log)
	go hub.Run(ctx)

	redisOpt := jobs.RedisOpt(cfg.Redis)
	queue := asynq.NewClient(redisOpt)
	defer queue.Close()
	purgeScheduler := jobs.NewPurgeScheduler(queue)

	services := service.NewServices(service.Deps{
		Repos:       repos,
		Backend:     backendClient,
		FileStorage: fileStorage,
		Notifier:    hub,
		Purger:      purgeScheduler,
		Metrics:     metrics,
		Logger:      log,
		Config:      cfg,
	})

	worker := jobs.NewWorker(redisOpt, jobs.NewHandlers(
		services.Registration,
		services.Auth,
		purgeScheduler,
		cfg.Registration.PurgeGracePeriod,
		log,
	), log)
	if err := worker.Start(); err != nil {
		log.Fatal("failed to start background jobs", zap.Error(err))
	}
	defer worker.Shutdown()

	terms, err := content.NewTerms()
	if err != nil {
		log.Fatal("failed to render terms", zap.Error(err))
	}

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.MaxMultipartMemory = int64(cfg.HTTP.MaxUploadMB) << 20

	handler := rest.NewHandler(services, hub, terms, log, cfg)
	handler.InitRoutes(router)
	handler.StartLimiterSweeper(ctx.Done())

	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	router.GET("/swagger", func(c *gin.Context) {
		c.Redirect(http.StatusMovedPermanently, "/swagger/index.html")
	})

	srv := &http.Server{
		Addr:           ":" + cfg.HTTP.Port,
		Handler:        router,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderMB << 20,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("server failed", zap.Error(err))
		}
	}()

	log.Info("server started", zap.String("addr", srv.Addr), zap.String("env", cfg.Environment))

	<-ctx.Done()
	log.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("server shutdown failed", zap.Error(err))
		return
	}

	log.Info("server stopped")
}
