package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/Yusufislamyetkin/yetkin-kariyer-sub009/config"
	"github.com/Yusufislamyetkin/yetkin-kariyer-sub009/internal/api/handler"
	"github.com/Yusufislamyetkin/yetkin-kariyer-sub009/internal/api/router"
	"github.com/Yusufislamyetkin/yetkin-kariyer-sub009/internal/repository"
	"github.com/Yusufislamyetkin/yetkin-kariyer-sub009/internal/scheduler"
	"github.com/Yusufislamyetkin/yetkin-kariyer-sub009/internal/service"
	"github.com/Yusufislamyetkin/yetkin-kariyer-sub009/pkg/database"
	"github.com/Yusufislamyetkin/yetkin-kariyer-sub009/pkg/jwt"
	applogger "github.com/Yusufislamyetkin/yetkin-kariyer-sub009/pkg/logger"
	"github.com/Yusufislamyetkin/yetkin-kariyer-sub009/pkg/redis"
)

func main() {
	configPath := flag.String("config", "", "path to config file")
	flag.Parse()

	// 1. config
	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}

	// 2. logger
	logger, err := applogger.NewLogger(&cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "init logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("starting",
		zap.Int("port", cfg.Server.Port),
		zap.String("log_level", cfg.Log.Level),
	)

	// 3. database
	db, err := database.NewDB(&cfg.Database, cfg.Log.Level, logger)
	if err != nil {
		logger.Fatal("connect database failed", zap.Error(err))
	}

	sqlDB, err := db.DB()
	if err != nil {
		logger.Fatal("get sql.DB failed", zap.Error(err))
	}
	if err := database.RunMigrations(sqlDB, logger); err != nil {
		logger.Fatal("run migrations failed", zap.Error(err))
	}

	// 4. redis, optional; the service degrades without it
	var rdb *redis.Client
	if cfg.Redis.Enabled {
		rdb, err = redis.NewClient(&cfg.Redis, logger)
		if err != nil {
			logger.Warn("redis unavailable, token revocation and rate limiting disabled", zap.Error(err))
			rdb = nil
		}
	}

	// 5. wiring: repository -> service -> handler
	jwtMgr := jwt.NewManager(&cfg.Auth)
	repo := repository.NewRepository(db)
	svc := service.NewService(cfg, repo, jwtMgr, rdb, logger)
	h := handler.NewHandler(svc)

	if cfg.Auth.BootstrapAdminEmail != "" {
		bctx, bcancel := context.WithTimeout(context.Background(), 10*time.Second)
		if _, err := svc.Auth.EnsureAdmin(bctx, cfg.Auth.BootstrapAdminEmail, cfg.Auth.BootstrapAdminPassword); err != nil {
			logger.Fatal("bootstrap admin failed", zap.Error(err))
		}
		bcancel()
	}

	engine := router.Setup(cfg, h, jwtMgr, rdb, logger)

	// 6. background phase sweeper
	var sweeper *scheduler.Scheduler
	if cfg.Lifecycle.SweepInterval > 0 {
		sweeper = scheduler.NewScheduler(svc.Sync, cfg.Lifecycle.SweepInterval, cfg.Lifecycle.SweepInterval/2, logger)
		sweeper.Start()
	}

	// 7. http server with graceful shutdown
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      engine,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("http server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("http server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	logger.Info("shutting down", zap.String("signal", sig.String()))

	if sweeper != nil {
		sweeper.Stop()
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server shutdown failed", zap.Error(err))
	}

	if err := sqlDB.Close(); err != nil {
		logger.Warn("close database failed", zap.Error(err))
	}
	if rdb != nil {
		_ = rdb.Close()
	}

	logger.Info("server stopped")
}
