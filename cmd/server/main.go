package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mgriffin/studypath/internal/api"
	"github.com/mgriffin/studypath/internal/cache"
	"github.com/mgriffin/studypath/internal/config"
	"github.com/mgriffin/studypath/internal/db"
	"github.com/mgriffin/studypath/internal/export"
	"github.com/mgriffin/studypath/internal/learningpath"
	"github.com/mgriffin/studypath/internal/logger"
	"github.com/mgriffin/studypath/internal/recommend"
	"github.com/mgriffin/studypath/internal/repository/sqlite"
	"github.com/mgriffin/studypath/internal/scheduler"
	"github.com/mgriffin/studypath/internal/services"
	"github.com/mgriffin/studypath/internal/worker"
)

func main() {
	cfg := config.Load()

	log := logger.New(
		logger.WithLevel(logger.ParseLevel(cfg.LogLevel)),
		logger.WithColors(true),
	)
	logger.SetDefault(log)

	log.Info("===========================================")
	log.Info("StudyPath Server Starting")
	log.Info("===========================================")
	if err := cfg.Validate(); err != nil {
		log.Error("%v", err)
		os.Exit(1)
	}
	log.Info("configuration loaded")
	log.Debug("addr=%s", cfg.Addr)
	log.Debug("db_path=%s", cfg.DBPath)
	log.Debug("redis_addr=%s", cfg.RedisAddr)
	log.Debug("log_level=%s", cfg.LogLevel)
	log.Debug("cache_ttl_seconds=%d", cfg.CacheTTLSeconds)
	log.Debug("warm_worker_count=%d", cfg.WarmWorkerCount)
	log.Debug("warm_queue_size=%d", cfg.WarmQueueSize)
	log.Debug("scheduler_enabled=%t", cfg.SchedulerEnabled)

	database, err := db.Open(cfg.DBPath)
	if err != nil {
		log.Error("failed to open database: %v", err)
		os.Exit(1)
	}
	defer func() {
		log.Debug("closing database connection")
		database.Close()
	}()

	// Repositories
	studentRepo := sqlite.NewStudentRepository(database.DB)
	topicRepo := sqlite.NewTopicRepository(database.DB)
	progressRepo := sqlite.NewProgressRepository(database.DB)
	activityRepo := sqlite.NewActivityRepository(database.DB)
	reviewRepo := sqlite.NewReviewRepository(database.DB)
	sessionRepo := sqlite.NewSessionRepository(database.DB)

	// Cache is optional: the service degrades to direct computation
	// when Redis is unreachable at startup.
	var recCache cache.RecommendationCache
	var sessionCache cache.SessionCache
	redisClient, err := cache.NewClient(context.Background(), cache.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	if err != nil {
		log.Warn("redis unavailable, caching disabled: %v", err)
	} else {
		defer redisClient.Close()
		ttl := time.Duration(cfg.CacheTTLSeconds) * time.Second
		recCache = cache.NewRecommendationCache(redisClient, ttl)
		sessionCache = cache.NewSessionCache(redisClient, ttl)
	}

	// Engine and services
	engine := recommend.NewEngine(studentRepo, topicRepo, progressRepo)
	warmPool := worker.NewPool(cfg.WarmWorkerCount, cfg.WarmQueueSize)

	recService := services.NewRecommendationService(engine, recCache, nil)
	recService.SetWarmQueue(&worker.RecommendationWarmer{Pool: warmPool, Refresher: recService})

	progressService := services.NewProgressService(
		studentRepo, topicRepo, progressRepo, activityRepo, reviewRepo, sessionRepo, recService)
	if sessionCache != nil {
		progressService.SetSessionCache(sessionCache)
	}
	reviewService := services.NewReviewService(studentRepo, reviewRepo)
	studentService := services.NewStudentService(studentRepo)
	catalogService := services.NewCatalogService(topicRepo)
	pathService := learningpath.NewService(studentRepo, topicRepo, progressRepo, engine)
	reporter := export.NewReporter(studentRepo, topicRepo, progressRepo, activityRepo, reviewRepo)

	srv := &api.Server{
		DB:              database.DB,
		Students:        studentService,
		Catalog:         catalogService,
		Progress:        progressService,
		Reviews:         reviewService,
		Recommendations: recService,
		Paths:           pathService,
		Reporter:        reporter,
	}

	ctx, cancel := context.WithCancel(context.Background())
	warmPool.Start(ctx)

	var sched *scheduler.Scheduler
	if cfg.SchedulerEnabled {
		sched = scheduler.New(studentRepo, reviewRepo, warmPool, recService, scheduler.Options{
			DigestInterval:     time.Duration(cfg.DigestIntervalMinutes) * time.Minute,
			RecentActivityDays: cfg.RecentActivityDays,
		})
		if err := sched.Start(); err != nil {
			log.Error("failed to start scheduler: %v", err)
			os.Exit(1)
		}
	}

	httpServer := &http.Server{
		Addr:         cfg.Addr,
		Handler:      srv.Routes(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info("HTTP server listening on %s", cfg.Addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("HTTP server error: %v", err)
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	sig := <-stop

	log.Info("received signal %v, initiating graceful shutdown", sig)

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	log.Debug("shutting down HTTP server")
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server shutdown error: %v", err)
	}

	if sched != nil {
		log.Debug("stopping scheduler")
		sched.Stop()
	}

	log.Debug("stopping worker pool")
	cancel()
	warmPool.Stop()

	log.Info("===========================================")
	log.Info("StudyPath Server Stopped")
	log.Info("===========================================")
}
