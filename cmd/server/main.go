package main // Entry point package

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"

	"github.com/iliyamo/hotel-booking/internal/booking"
	"github.com/iliyamo/hotel-booking/internal/config"
	"github.com/iliyamo/hotel-booking/internal/database"
	"github.com/iliyamo/hotel-booking/internal/handler"
	"github.com/iliyamo/hotel-booking/internal/middleware"
	"github.com/iliyamo/hotel-booking/internal/queue"
	"github.com/iliyamo/hotel-booking/internal/repository"
	"github.com/iliyamo/hotel-booking/internal/router"
	"github.com/iliyamo/hotel-booking/internal/service"
	"github.com/iliyamo/hotel-booking/internal/utils"
)

func main() {
	cfg := config.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	e := echo.New()
	e.HideBanner = true
	e.Logger.SetLevel(log.INFO)
	if cfg.Env == "dev" {
		e.Logger.SetLevel(log.DEBUG)
	}
	e.Validator = utils.NewRequestValidator()
	e.Use(middleware.AccessLog())
	e.Use(echomw.Recover())

	// ---- Storage ----
	db, err := database.Open(ctx, cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		e.Logger.Fatalf("database: %v", err)
	}
	defer db.Close()
	if cfg.DBMigrate {
		if err := database.Migrate(ctx, db); err != nil {
			e.Logger.Fatalf("migrate: %v", err)
		}
	}
	users := repository.NewUserRepo(db)
	tokens := repository.NewTokenRepo(db)
	hotels := repository.NewHotelRepo(db)
	rooms := repository.NewRoomRepo(db)
	reviews := repository.NewReviewRepo(db)
	receipts := repository.NewReceiptRepo(db)
	bookings := repository.NewBookingRepo(db)

	// ---- Redis: response cache and rate limiter ----
	cacheCfg := config.LoadCacheConfig()
	rlCfg := config.LoadRateLimitConfig()
	rdb := config.NewRedisClient(ctx)
	if rdb == nil {
		e.Logger.Warn("redis unavailable; response cache and rate limiting disabled")
	} else {
		defer rdb.Close()
	}
	cache := middleware.NewResponseCache(cacheCfg, rdb)

	// ---- Booking engine ----
	var notifiers service.Fanout
	if cfg.Queue.URL != "" {
		notifiers = append(notifiers, service.NewBookingPublisher(cfg.Queue.URL, cfg.Queue.Queue, e.Logger))
	}
	if rdb != nil && cacheCfg.PurgeOnWrite {
		notifiers = append(notifiers, service.CachePurger{Cache: cache, Log: e.Logger})
	}
	svc := booking.NewService(bookings,
		booking.WithWindow(cfg.Booking.EditWindow),
		booking.WithLogger(e.Logger),
		booking.WithNotifier(notifiers),
	)

	if cfg.Booking.SweepEnabled {
		go svc.RunSweeper(ctx, cfg.Booking.SweepInterval)
	}
	if cfg.Queue.URL != "" {
		consumer := &queue.Consumer{URL: cfg.Queue.URL, Queue: cfg.Queue.Queue, LogPath: cfg.Queue.LogPath, Log: e.Logger}
		go func() {
			if err := consumer.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				e.Logger.Errorf("booking consumer stopped: %v", err)
			}
		}()
	}

	// ---- Routes ----
	catalog := handler.NewCatalogHandler(hotels, rooms, reviews)
	router.RegisterRoutes(e, db)
	router.RegisterAuth(e, handler.NewAuthHandler(cfg, users, tokens), cfg.JWTSecret)
	router.RegisterPublic(e, catalog, cache)
	router.RegisterBookings(e, handler.NewBookingHandler(svc, bookings, receipts), catalog,
		cfg.JWTSecret, middleware.NewTokenBucket(rlCfg, rdb))
	router.RegisterAdmin(e, &handler.AdminHandler{
		Hotels:     hotels,
		Rooms:      rooms,
		Reviews:    reviews,
		Users:      users,
		Sweeper:    svc,
		Cache:      cache,
		BcryptCost: cfg.BcryptCost,
	}, cfg.JWTSecret)

	addr := ":" + cfg.Port
	e.Logger.Infof("listening on %s (env=%s, edit window=%s)", addr, cfg.Env, svc.Window())
	go func() {
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			e.Logger.Fatalf("server: %v", err)
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		e.Logger.Errorf("shutdown: %v", err)
	}
}
