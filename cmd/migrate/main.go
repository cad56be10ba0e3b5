package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/sudo-init-do/contactbook/internal/config"
	"github.com/sudo-init-do/contactbook/internal/db"
	"github.com/sudo-init-do/contactbook/internal/logger"
)

func main() {
	cmd := flag.String("cmd", "up", "up | status | down")
	version := flag.Int64("version", 0, "target version for down (0 rolls back everything)")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	log := logger.New("contactbook-migrate", cfg.LogLevel, cfg.LogFormat)

	if cfg.DB.Driver != config.DriverPostgres {
		log.Fatal().Str("driver", cfg.DB.Driver).Msg("migrations only apply to DB_DRIVER=postgres")
	}

	pool, err := db.New(ctx, cfg.PostgresDSN())
	if err != nil {
		log.Fatal().Err(err).Msg("connect")
	}
	defer pool.Close()

	switch *cmd {
	case "up":
		err = db.Migrate(ctx, pool)
	case "status":
		err = db.Status(ctx, pool)
	case "down":
		err = db.DownTo(ctx, pool, *version)
	default:
		err = fmt.Errorf("unknown command %q", *cmd)
	}
	if err != nil {
		pool.Close()
		log.Fatal().Err(err).Str("cmd", *cmd).Msg("migrate")
	}
	log.Info().Str("cmd", *cmd).Msg("migrate done")
}
