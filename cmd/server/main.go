package main // entry point of the stay booking API

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"github.com/iliyamo/stay-booking/internal/config"
	"github.com/iliyamo/stay-booking/internal/database"
	"github.com/iliyamo/stay-booking/internal/handler"
	"github.com/iliyamo/stay-booking/internal/logger"
	"github.com/iliyamo/stay-booking/internal/middleware"
	"github.com/iliyamo/stay-booking/internal/queue"
	"github.com/iliyamo/stay-booking/internal/repository"
	"github.com/iliyamo/stay-booking/internal/router"
	"github.com/iliyamo/stay-booking/internal/service"
)

func main() {
	_ = godotenv.Load() // .env is optional; real env wins

	cfg := config.Load()
	zl, err := logger.New(cfg.LogLevel, cfg.LogFormat, "stay-booking")
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer func() { _ = zl.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		zl.Fatal("database open failed", zap.Error(err))
	}
	defer db.Close()
	if err := database.Migrate(ctx, db); err != nil {
		zl.Fatal("database migrate failed", zap.Error(err))
	}

	rdb := config.NewRedisClient()
	if rdb == nil {
		zl.Warn("redis unavailable: search, cache and rate limiting are degraded")
	} else {
		defer rdb.Close()
	}

	searchCfg := config.LoadSearchConfig()
	queueCfg := config.LoadQueueConfig()
	storageCfg := config.LoadStorageConfig()

	// repositories
	stays := repository.NewStayRepo(db)
	reservations := repository.NewReservationRepo(db)
	occupancy := repository.NewOccupancyRepo(db)
	users := repository.NewUserRepo(db)
	geoIndex := repository.NewGeoIndex(rdb, searchCfg.GeoIndexKey, searchCfg.DistanceUnit)
	txm := repository.NewBookingTxManager(db)
	publisher := queue.NewPublisher(queueCfg.URL, queueCfg.Queue, queueCfg.PublishTimeout)

	// services
	authSvc := service.NewAuthService(users, cfg.JWTSecret, cfg.AccessTTLMin, cfg.BcryptCost)
	resSvc := service.NewReservationService(txm, reservations, publisher, zl)
	searchSvc := service.NewSearchService(geoIndex, occupancy, stays, searchCfg, zl)
	staySvc := service.NewStayService(txm, stays,
		service.NewDiskImageStore(storageCfg),
		service.NewGoogleGeocoder(config.LoadGeocodingConfig()),
		geoIndex, zl)

	health := &handler.Health{DB: db}
	if rdb != nil {
		health.Redis = func(ctx context.Context) error { return rdb.Ping(ctx).Err() }
	}

	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewRequestValidator()
	e.Use(echomw.Recover())
	e.Use(middleware.RequestLogger(zl))

	router.RegisterRoutes(e, router.Handlers{
		Auth:         handler.NewAuthHandler(authSvc, zl),
		Stays:        handler.NewStayHandler(staySvc, zl),
		Reservations: handler.NewReservationHandler(resSvc, staySvc, zl),
		Search:       handler.NewSearchHandler(searchSvc, zl),
		Health:       health,
	}, router.Options{
		JWTSecret:    cfg.JWTSecret,
		Cache:        config.LoadCacheConfig(),
		RateLimit:    config.LoadRateLimitConfig(),
		Redis:        rdb,
		Log:          zl,
		ImageDir:     storageCfg.ImageDir,
		ImageURLBase: storageCfg.ImageURLBase,
	})

	if queueCfg.ConsumerEnabled && queueCfg.URL != "" {
		go func() {
			err := queue.StartReservationConsumer(ctx, queue.ConsumerConfig{
				URL:      queueCfg.URL,
				Queue:    queueCfg.Queue,
				LogDir:   queueCfg.LogDir,
				Prefetch: queueCfg.Prefetch,
			}, zl)
			if err != nil && !errors.Is(err, context.Canceled) {
				zl.Error("reservation consumer stopped", zap.Error(err))
			}
		}()
	}

	addr := ":" + cfg.Port
	go func() {
		zl.Info("listening", zap.String("addr", addr), zap.String("env", cfg.Env))
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zl.Fatal("server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		zl.Error("shutdown", zap.Error(err))
	}
}
