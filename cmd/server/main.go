package main

import (
	"context"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"github.com/slotify/parking-api/internal/config"
	"github.com/slotify/parking-api/internal/database"
	"github.com/slotify/parking-api/internal/handler"
	"github.com/slotify/parking-api/internal/logger"
	appmw "github.com/slotify/parking-api/internal/middleware"
	"github.com/slotify/parking-api/internal/queue"
	"github.com/slotify/parking-api/internal/repository"
	"github.com/slotify/parking-api/internal/router"
)

func main() {
	// .env is optional; real deployments inject variables directly.
	_ = godotenv.Load()

	cfg := config.Load()
	log := logger.New(cfg.Env)
	defer func() { _ = log.Sync() }()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatal("database connect failed", zap.Error(err))
	}
	defer db.Close()

	if err := database.Migrate("migrations", cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName); err != nil {
		log.Fatal("migrations failed", zap.Error(err))
	}

	if cfg.Seed {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		if err := database.Seed(ctx, db, cfg.BcryptCost, log); err != nil {
			cancel()
			log.Fatal("seed failed", zap.Error(err))
		}
		cancel()
	}

	// Redis is optional: a nil client turns the cache and the rate
	// limiter into pass-throughs.
	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Warn("redis unavailable; response cache and rate limiting disabled")
	}
	cacheMW := appmw.NewRedisCache(config.LoadCacheConfig(), rdb)
	limiterMW := appmw.NewTokenBucket(config.LoadRateLimitConfig(), rdb)

	users := repository.NewUserRepo(db)
	tokens := repository.NewTokenRepo(db)
	slots := repository.NewSlotRepo(db)
	checkIns := repository.NewCheckInRepo(db)
	flags := repository.NewFlagRepo(db)
	reports := repository.NewReportRepo(db)

	authH := handler.NewAuthHandler(cfg, users, tokens)
	slotH := handler.NewSlotHandler(slots)
	checkInH := handler.NewCheckInHandler(checkIns, users, log)
	flagH := handler.NewFlagHandler(flags, log)
	reportH := handler.NewReportHandler(reports)
	userH := handler.NewUserHandler(users, log)

	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Recover())
	e.Use(echomw.RequestID())

	router.RegisterRoutes(e)
	router.RegisterAuth(e, authH, cfg.JWTSecret, limiterMW)
	router.RegisterAdmin(e, slotH, checkInH, userH, cfg.JWTSecret)
	router.RegisterEmployee(e, checkInH, cfg.JWTSecret)
	router.RegisterSecurity(e, flagH, cfg.JWTSecret)
	router.RegisterStaff(e, slotH, reportH, cfg.JWTSecret, cacheMW)

	// Background consumer feeding logs/activity.log from the broker.
	// It reconnects on its own; a dead broker never takes the API down.
	go func() {
		if err := queue.StartActivityConsumer(log); err != nil {
			log.Warn("activity consumer stopped", zap.Error(err))
		}
	}()

	log.Info("server starting", zap.String("port", cfg.Port), zap.String("env", cfg.Env))
	if err := e.Start(":" + cfg.Port); err != nil {
		log.Fatal("server stopped", zap.Error(err))
	}
}
