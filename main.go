package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/steakz-restaurant/config"
	"github.com/yeremiapane/steakz-restaurant/database"
	"github.com/yeremiapane/steakz-restaurant/kds"
	"github.com/yeremiapane/steakz-restaurant/middlewares"
	"github.com/yeremiapane/steakz-restaurant/router"
	"github.com/yeremiapane/steakz-restaurant/services"
	"github.com/yeremiapane/steakz-restaurant/utils"
	"golang.org/x/time/rate"
	"gorm.io/gorm/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		utils.ErrorLogger.Fatalf("Failed to load config: %v", err)
	}
	utils.InitLogger(cfg.App.LogLevel, cfg.App.LogFormat)
	gin.SetMode(cfg.App.GinMode)

	dbLog := logger.Warn
	if cfg.App.IsDev() {
		dbLog = logger.Info
	}
	db, err := config.InitDB(cfg.DB, dbLog)
	if err != nil {
		utils.ErrorLogger.Fatalf("Failed to connect to database: %v", err)
	}
	if err := database.AutoMigrate(db); err != nil {
		utils.ErrorLogger.Fatalf("Failed to migrate: %v", err)
	}
	if cfg.Seed.Enabled {
		if err := database.Seed(db, database.SeedOptions{
			AdminPassword: cfg.Seed.AdminPassword,
			StaffPassword: cfg.Seed.StaffPassword,
		}); err != nil {
			utils.ErrorLogger.Fatalf("Failed to seed: %v", err)
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	blacklist := utils.NewTokenBlacklist()
	go blacklist.Cleanup(ctx, time.Hour)
	tokens := utils.NewTokenIssuer(cfg.JWT.Secret, cfg.JWT.Issuer, cfg.JWT.TTL, blacklist)

	hub := kds.NewHub()
	monitor := services.NewChangeMonitor(db, hub)
	monitor.Interval = cfg.Events.PollInterval
	monitor.BatchSize = cfg.Events.BatchSize
	monitor.Start()
	defer monitor.Stop()

	apiLimiter := middlewares.NewRateLimiter(rate.Limit(cfg.RateLimit.RPS), cfg.RateLimit.Burst)
	authLimiter := middlewares.NewStrictRateLimiter(cfg.RateLimit.AuthPerMinute)
	go apiLimiter.Cleanup(ctx, 10*time.Minute)
	go authLimiter.Cleanup(ctx, 10*time.Minute)

	r := router.SetupRouter(router.Options{
		DB:          db,
		Config:      cfg,
		Hub:         hub,
		Tokens:      tokens,
		APILimiter:  apiLimiter,
		AuthLimiter: authLimiter,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.App.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		utils.InfoLogger.Infof("Listening on port %s", cfg.App.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			utils.ErrorLogger.Errorf("server stopped: %v", err)
			stop()
		}
	}()

	<-ctx.Done()
	utils.InfoLogger.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		utils.ErrorLogger.Errorf("shutdown: %v", err)
	}
}
