package main // Entry point package

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/student-threshold-api/internal/config"
	"github.com/iliyamo/student-threshold-api/internal/database"
	"github.com/iliyamo/student-threshold-api/internal/handler"
	"github.com/iliyamo/student-threshold-api/internal/middleware"
	"github.com/iliyamo/student-threshold-api/internal/queue"
	"github.com/iliyamo/student-threshold-api/internal/repository"
	"github.com/iliyamo/student-threshold-api/internal/roster"
	"github.com/iliyamo/student-threshold-api/internal/router"
	"github.com/iliyamo/student-threshold-api/internal/service"
)

func main() {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatal(err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// The roster is materialized once, before anything is served.
	var lister roster.Lister
	if cfg.RosterSource == config.SourceMySQL {
		db, err := database.Open(ctx, cfg)
		if err != nil {
			log.Fatalf("mysql: %v", err)
		}
		defer db.Close()
		lister = repository.NewStudentRepo(db)
	}
	students, err := roster.Load(ctx, cfg, lister)
	if err != nil {
		log.Fatal(err)
	}

	var rdb *redis.Client
	if c, err := config.NewRedisClient(config.LoadRedisConfig()); err != nil {
		log.Printf("redis unavailable, cache and rate limit disabled: %v", err)
	} else {
		rdb = c
		defer rdb.Close()
	}

	var pub service.EventPublisher = service.NopPublisher{}
	if cfg.QueueEnabled {
		pub = &service.AMQPPublisher{URL: cfg.RabbitURL}
		consumer := &queue.Consumer{URL: cfg.RabbitURL, LogDir: cfg.QueryLogDir}
		go func() {
			if err := consumer.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				log.Printf("query-consumer stopped: %v", err)
			}
		}()
	}

	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Recover())
	e.Use(echomw.RequestIDWithConfig(echomw.RequestIDConfig{Generator: uuid.NewString}))
	e.Use(echomw.RequestLoggerWithConfig(echomw.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogValuesFunc: func(c echo.Context, v echomw.RequestLoggerValues) error {
			log.Printf("%s %s %d %s id=%s", v.Method, v.URI, v.Status, v.Latency, v.RequestID)
			return nil
		},
	}))
	e.Use(echomw.ContextTimeoutWithConfig(echomw.ContextTimeoutConfig{Timeout: cfg.RequestTimeout}))

	h := handler.NewStudentHandler(students, pub)
	router.RegisterRoutes(e, h, cfg.IndexPage, cfg.StaticDir)
	router.RegisterPublic(e, h,
		middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb),
		middleware.NewRedisCache(config.LoadCacheConfig(), rdb, h.CachedHit),
	)
	if !router.RegisterTeacher(e, h, cfg.JWTSecret) {
		log.Printf("JWT_SECRET not set, teacher routes disabled")
	}

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s, students=%d)", addr, cfg.Env, students.Len())
	go func() {
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal(err)
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Printf("shutdown: %v", err)
	}
}
