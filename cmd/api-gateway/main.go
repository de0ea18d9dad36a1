package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/noah-isme/club-hub-api/api/swagger"
	"github.com/noah-isme/club-hub-api/internal/handler"
	internalmiddleware "github.com/noah-isme/club-hub-api/internal/middleware"
	"github.com/noah-isme/club-hub-api/internal/repository"
	"github.com/noah-isme/club-hub-api/internal/service"
	"github.com/noah-isme/club-hub-api/pkg/cache"
	"github.com/noah-isme/club-hub-api/pkg/config"
	"github.com/noah-isme/club-hub-api/pkg/database"
	"github.com/noah-isme/club-hub-api/pkg/jobs"
	"github.com/noah-isme/club-hub-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/club-hub-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/club-hub-api/pkg/middleware/requestid"
)

// @title Club Hub API
// @version 1.0.0
// @description Clubs, memberships, points, badges and leaderboards
// @BasePath /api
// @schemes http

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg, "api-gateway")
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.NewPostgres(ctx, cfg.Database)
	if err != nil {
		logr.Fatal("failed to connect database", zap.Error(err))
	}
	defer db.Close()

	metricsSvc := service.NewMetricsService()

	var redisClient *redis.Client
	cacheEnabled := cfg.Leaderboard.CacheEnabled
	if cacheEnabled {
		redisClient, err = cache.NewRedis(ctx, cfg.Redis)
		if err != nil {
			logr.Warn("redis unavailable, leaderboard cache disabled", zap.Error(err))
			cacheEnabled = false
		}
	}
	cacheRepo := repository.NewCacheRepository(redisClient, "")
	defer cacheRepo.Close() //nolint:errcheck
	cacheSvc := service.NewCacheService(cacheRepo, metricsSvc, cfg.Leaderboard.CacheTTL, logr, cacheEnabled)

	clubRepo := repository.NewClubRepository(db)
	userRepo := repository.NewUserRepository(db)
	badgeRepo := repository.NewBadgeRepository(db)
	membershipRepo := repository.NewMembershipRepository(db)

	seedSvc := service.NewSeedService(service.SeedServiceParams{
		Clubs:       clubRepo,
		Memberships: membershipRepo,
		Aggregator:  service.NewPointsAggregator(clubRepo, logr),
		Badges:      service.NewBadgeAssigner(clubRepo, userRepo, badgeRepo, logr),
		Random:      service.NewRandomSource(cfg.Seed.RandomSeed),
		Logger:      logr,
		Config: service.SeedServiceConfig{
			MinStudentID:  cfg.Seed.MinStudentID,
			MaxStudentID:  cfg.Seed.MaxStudentID,
			NumClubs:      cfg.Seed.NumClubs,
			ClubCapacity:  cfg.Seed.ClubCapacity,
			PointsPerClub: cfg.Seed.PointsPerClub,
		},
	})

	jobStore := service.NewMaintenanceJobStore()
	worker := service.NewRecomputeWorker(jobStore, seedSvc, cacheSvc, metricsSvc, cfg.Jobs.MaxRetries, logr)
	queue := jobs.NewQueue("maintenance", worker.Handle, jobs.QueueConfig{
		Workers:    cfg.Jobs.Workers,
		MaxRetries: cfg.Jobs.MaxRetries,
		RetryDelay: cfg.Jobs.RetryDelay,
		Logger:     logr,
		OnDrop:     worker.Drop,
	})
	queue.Start(ctx)
	defer queue.Stop()

	clubSvc := service.NewClubService(clubRepo, membershipRepo, cacheSvc, validator.New(), logr)
	userSvc := service.NewUserService(userRepo, membershipRepo, badgeRepo, logr)
	directorySvc := service.NewDirectoryService(membershipRepo, badgeRepo)
	leaderboardSvc := service.NewLeaderboardService(service.LeaderboardServiceParams{
		Clubs:    clubRepo,
		Students: userRepo,
		Cache:    cacheSvc,
		Metrics:  metricsSvc,
		CacheTTL: cfg.Leaderboard.CacheTTL,
		Logger:   logr,
	})
	maintenanceSvc := service.NewMaintenanceService(jobStore, queue, logr)

	clubHandler := handler.NewClubHandler(clubSvc)
	userHandler := handler.NewUserHandler(userSvc)
	directoryHandler := handler.NewDirectoryHandler(directorySvc)
	leaderboardHandler := handler.NewLeaderboardHandler(leaderboardSvc)
	maintenanceHandler := handler.NewMaintenanceHandler(maintenanceSvc)
	metricsHandler := handler.NewMetricsHandler(metricsSvc, db)

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(internalmiddleware.Metrics(metricsSvc))
	r.Use(internalmiddleware.WithResponseMeta())

	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", metricsHandler.Ready)
	r.GET("/metrics", metricsHandler.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)
	{
		clubs := api.Group("/clubs")
		clubs.GET("", clubHandler.List)
		clubs.POST("", internalmiddleware.Audit(logr, "club.create", "club"), clubHandler.Create)
		clubs.GET("/:id", clubHandler.Get)
		clubs.PUT("/:id", internalmiddleware.Audit(logr, "club.update", "club"), clubHandler.Update)
		clubs.DELETE("/:id", internalmiddleware.Audit(logr, "club.delete", "club"), clubHandler.Delete)

		users := api.Group("/users")
		users.GET("", userHandler.List)
		users.GET("/:id", userHandler.Get)

		api.GET("/club-members", directoryHandler.Memberships)
		api.GET("/badges", directoryHandler.Badges)
		api.GET("/user-badges", directoryHandler.UserBadges)

		leaderboards := api.Group("/leaderboards")
		leaderboards.GET("/clubs", leaderboardHandler.Clubs)
		leaderboards.GET("/clubs/export", leaderboardHandler.ExportClubs)
		leaderboards.GET("/students", leaderboardHandler.Students)

		maintenance := api.Group("/maintenance")
		maintenance.POST("/recompute", internalmiddleware.Audit(logr, "maintenance.recompute", "maintenance_job"), maintenanceHandler.Recompute)
		maintenance.GET("/jobs/:id", maintenanceHandler.Job)

		api.GET("/metrics/summary", metricsHandler.Summary)
	}

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		logr.Sugar().Infow("server starting", "addr", srv.Addr, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	select {
	case err := <-serverErr:
		logr.Error("server failed", zap.Error(err))
	case <-ctx.Done():
		logr.Info("shutdown requested")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Error("could not stop server gracefully", zap.Error(err))
		_ = srv.Close()
	}
}
