package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/gymcore/gym-api/internal/core/domain"
)

const defaultTimeout = 10 * time.Second

// Config captures the settings required to open the relational store.
type Config struct {
	DSN             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	Timeout         time.Duration
}

// Connect opens a gorm handle over PostgreSQL, applies pool limits and
// verifies connectivity with a ping.
func Connect(ctx context.Context, cfg Config, log zerolog.Logger) (*gorm.DB, error) {
	db, err := Open(postgres.Open(cfg.DSN), log)
	if err != nil {
		return nil, fmt.Errorf("postgres open: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("postgres handle: %w", err)
	}
	if cfg.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	if cfg.ConnMaxLifetime > 0 {
		sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	pingCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if err := sqlDB.PingContext(pingCtx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("postgres ping: %w", err)
	}
	return db, nil
}

// Open wraps a dialector with the settings every repository relies on:
// driver errors are translated to gorm sentinels and single statements run
// without an implicit transaction.
func Open(dialector gorm.Dialector, log zerolog.Logger) (*gorm.DB, error) {
	return gorm.Open(dialector, &gorm.Config{
		SkipDefaultTransaction: true,
		TranslateError:         true,
		Logger:                 NewGormLogger(log),
		NowFunc:                func() time.Time { return time.Now().UTC() },
	})
}

// Migrate creates or updates every table. Centers go first so user foreign
// keys resolve.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&domain.Center{},
		&domain.User{},
		&domain.Class{},
		&domain.Machine{},
		&domain.Ticket{},
		&domain.Membership{},
		&domain.Workout{},
		&domain.Exercise{},
		&domain.Diet{},
		&domain.Meal{},
	)
}

// Ping reports whether the database answers.
func Ping(ctx context.Context, db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// translate maps gorm sentinels onto domain errors. notFound and exists are
// the resource-specific errors for missing and duplicate rows.
func translate(err error, notFound, exists error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return notFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return exists
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return domain.ErrInvalidReference
	default:
		return err
	}
}
