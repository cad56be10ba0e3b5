package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/sudo-init-do/contactbook/internal/alerts"
	"github.com/sudo-init-do/contactbook/internal/auth"
	"github.com/sudo-init-do/contactbook/internal/avatar"
	"github.com/sudo-init-do/contactbook/internal/config"
	"github.com/sudo-init-do/contactbook/internal/contact"
	"github.com/sudo-init-do/contactbook/internal/httpapi"
	"github.com/sudo-init-do/contactbook/internal/logger"
	appmw "github.com/sudo-init-do/contactbook/internal/middleware"
	"github.com/sudo-init-do/contactbook/internal/storage"
	"github.com/sudo-init-do/contactbook/internal/validation"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		boot := zerolog.New(os.Stderr).With().Timestamp().Logger()
		boot.Fatal().Err(err).Msg("config load")
	}
	log := logger.New("contactbook-api", cfg.LogLevel, cfg.LogFormat)

	if err := run(ctx, cfg, log); err != nil {
		log.Fatal().Err(err).Msg("api stopped")
	}
	log.Info().Msg("api stopped")
}

func run(ctx context.Context, cfg *config.Config, log zerolog.Logger) error {
	stores, err := storage.Open(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer stores.Close()

	mailer, err := alerts.NewMailer(cfg, log)
	if err != nil {
		return err
	}

	avatarStore, err := newAvatarStore(ctx, cfg)
	if err != nil {
		return err
	}
	avatars, err := avatar.NewProcessor(cfg.Avatar.TmpDir, avatarStore)
	if err != nil {
		return err
	}

	g, gctx := errgroup.WithContext(ctx)

	// Queue and rate limiter need redis; without it mail goes out directly
	// and the credential endpoints are not limited.
	var (
		notifier  auth.Notifier
		rateStore echomw.RateLimiterStore
	)
	if cfg.Redis.Addr != "" {
		redisOpt := asynq.RedisClientOpt{Addr: cfg.Redis.Addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB}
		clientOpt := redisOpt
		clientOpt.DialTimeout = 2 * time.Second
		clientOpt.WriteTimeout = 2 * time.Second
		queue := asynq.NewClient(clientOpt)
		defer queue.Close()
		notifier = alerts.NewQueueNotifier(queue, cfg.AppURL, log)

		rdb := redis.NewClient(&redis.Options{Addr: cfg.Redis.Addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
		defer rdb.Close()
		rateStore = appRateStore(rdb, cfg, log)

		worker := alerts.NewWorker(redisOpt, mailer, log)
		g.Go(func() error { return worker.Run(gctx) })
	} else {
		notifier = alerts.NewDirectNotifier(mailer, cfg.AppURL, log)
		log.Warn().Msg("REDIS_ADDR not set: emails are sent inline and auth rate limiting is off")
	}

	validate := validation.New()
	authSvc := auth.NewService(auth.Deps{
		Users:           stores.Users,
		Hasher:          auth.NewPasswordHasher(cfg.Auth.BcryptCost),
		Tokens:          auth.NewTokenIssuer(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL),
		Notifier:        notifier,
		Avatars:         avatars,
		Validate:        validate,
		Logger:          log,
		RequireVerified: cfg.Auth.RequireVerified,
	})

	e := httpapi.NewRouter(httpapi.Deps{
		Config:         cfg,
		Logger:         log,
		Auth:           authSvc,
		Contacts:       contact.NewService(stores.Contacts, validate),
		Ping:           stores.Ping,
		RateLimitStore: rateStore,
	})

	g.Go(func() error {
		log.Info().Str("port", cfg.Port).Msg("http server listening")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		log.Info().Msg("shutting down http server")
		return e.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

func newAvatarStore(ctx context.Context, cfg *config.Config) (avatar.Store, error) {
	if cfg.Avatar.Driver == "s3" {
		return avatar.NewS3Store(ctx, avatar.S3Options{
			Bucket:    cfg.Avatar.S3Bucket,
			Region:    cfg.Avatar.S3Region,
			Endpoint:  cfg.Avatar.S3Endpoint,
			AccessKey: cfg.Avatar.S3AccessKey,
			SecretKey: cfg.Avatar.S3SecretKey,
			PublicURL: cfg.Avatar.S3PublicURL,
		})
	}
	return avatar.NewLocalStore(cfg.Avatar.PublicDir, cfg.Avatar.PublicPath)
}

func appRateStore(rdb *redis.Client, cfg *config.Config, log zerolog.Logger) echomw.RateLimiterStore {
	pingCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		log.Warn().Err(err).Msg("redis ping failed, rate limiter fails open until it recovers")
	}
	return appmw.NewRedisRateLimiterStore(rdb, cfg.Auth.RateLimit, cfg.Auth.RateWindow, log)
}
