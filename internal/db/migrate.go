package db

import (
	"context"
	"database/sql"
	"embed"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

//go:embed migrations/*.sql
var Migrations embed.FS

const migrationsDir = "migrations"

func prepare(pool *pgxpool.Pool) (*sql.DB, error) {
	goose.SetBaseFS(Migrations)
	if err := goose.SetDialect("pgx"); err != nil {
		return nil, err
	}
	return stdlib.OpenDBFromPool(pool), nil
}

// Migrate applies every pending migration.
func Migrate(ctx context.Context, pool *pgxpool.Pool) error {
	sqlDB, err := prepare(pool)
	if err != nil {
		return err
	}
	defer sqlDB.Close()
	if err := goose.UpContext(ctx, sqlDB, migrationsDir); err != nil {
		return fmt.Errorf("migrate up: %w", err)
	}
	return nil
}

// Status logs the state of each migration through goose's logger.
func Status(ctx context.Context, pool *pgxpool.Pool) error {
	sqlDB, err := prepare(pool)
	if err != nil {
		return err
	}
	defer sqlDB.Close()
	return goose.StatusContext(ctx, sqlDB, migrationsDir)
}

// DownTo rolls back to the given version; 0 drops everything.
func DownTo(ctx context.Context, pool *pgxpool.Pool, version int64) error {
	sqlDB, err := prepare(pool)
	if err != nil {
		return err
	}
	defer sqlDB.Close()
	if err := goose.DownToContext(ctx, sqlDB, migrationsDir, version); err != nil {
		return fmt.Errorf("migrate down: %w", err)
	}
	return nil
}
