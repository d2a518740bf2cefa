package main

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
	"go.uber.org/zap"

	"github.com/combosss/combo-api/internal/config"
	"github.com/combosss/combo-api/internal/database"
	"github.com/combosss/combo-api/internal/queue"
	"github.com/combosss/combo-api/internal/repository"
	"github.com/combosss/combo-api/internal/router"
)

func main() {
	_ = godotenv.Load() // .env is optional

	cfg := config.Load()
	l, err := config.NewLogger(cfg)
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer func() { _ = l.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.Open(cfg.DB)
	if err != nil {
		l.Fatal("open database", zap.Error(err))
	}
	defer db.Close()

	if cfg.MigrateOnStart {
		if err := database.Migrate(ctx, db); err != nil {
			l.Fatal("migrate database", zap.Error(err))
		}
		l.Info("migrations applied")
	}

	if cfg.AdminEmail != "" && cfg.AdminPassword != "" {
		created, err := repository.NewUserRepo(db).EnsureAdmin(ctx, cfg.AdminEmail, cfg.AdminPseudo, cfg.AdminPassword)
		if err != nil {
			l.Fatal("bootstrap admin", zap.Error(err))
		}
		if created {
			l.Info("admin account created", zap.String("email", cfg.AdminEmail))
		}
	}

	rdb := config.NewRedisClient()
	if rdb == nil {
		l.Warn("redis unavailable; rate limiting is per-process and caching is off")
	} else {
		defer rdb.Close()
	}

	deps := router.Deps{
		DB:           db,
		Log:          l,
		Redis:        rdb,
		RateLimit:    config.LoadRateLimitConfig(),
		Cache:        config.LoadCacheConfig(),
		CookieSecure: cfg.CookieSecure,
	}
	if cfg.QueueEnabled {
		deps.Publisher = queue.NewPublisher(cfg.AMQPURL, l)
		consumer := queue.NewConsumer(cfg.AMQPURL, cfg.QueueLogDir, l)
		go func() {
			if err := consumer.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				l.Error("combo consumer stopped", zap.Error(err))
			}
		}()
	}

	go runSessionJanitor(ctx, repository.NewSessionRepo(db), cfg.SessionJanitorInterval, l)

	e := router.New(deps)
	addr := ":" + cfg.Port
	go func() {
		l.Info("listening", zap.String("addr", addr), zap.String("env", cfg.Env))
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			l.Fatal("server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	l.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		l.Error("graceful shutdown", zap.Error(err))
	}
}

// runSessionJanitor purges expired sessions now and then every interval
// until ctx is done.
func runSessionJanitor(ctx context.Context, sessions *repository.SessionRepo, interval time.Duration, l *zap.Logger) {
	purge := func() {
		n, err := sessions.DeleteExpired(ctx)
		if err != nil {
			if ctx.Err() == nil {
				l.Warn("purge expired sessions", zap.Error(err))
			}
			return
		}
		if n > 0 {
			l.Info("expired sessions purged", zap.Int64("count", n))
		}
	}
	purge()
	if interval <= 0 {
		return
	}
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			purge()
		}
	}
}
