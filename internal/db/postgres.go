/**
 * @description
 * PostgreSQL connection manager using GORM.
 * Alternative store backend selected by a postgres:// DATABASE_URL.
 *
 * @dependencies
 * - gorm.io/gorm: ORM library
 * - gorm.io/driver/postgres: Postgres driver (pgx underneath)
 */

package db

import (
	"context"
	"time"

	"github.com/dealwise-project/backend/internal/config"
	"github.com/dealwise-project/backend/internal/logger"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"
)

// ConnectPostgres opens the pool and verifies it with a ping bounded by ctx
func ConnectPostgres(ctx context.Context, cfg *config.Config) (*gorm.DB, error) {
	gdb, err := gorm.Open(postgres.New(postgres.Config{
		DSN:                  cfg.DB.URL,
		PreferSimpleProtocol: true, // pgbouncer in transaction mode rejects prepared statements
	}), &gorm.Config{
		Logger: gormLogger.Default.LogMode(gormLogLevel(cfg.Server.Env)),
		// Every write is a single append; no need to wrap each in a transaction
		SkipDefaultTransaction: true,
		// The ping below honours ctx; gorm's own does not
		DisableAutomaticPing: true,
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := gdb.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxIdleConns(2)
	sqlDB.SetMaxOpenConns(10)
	sqlDB.SetConnMaxIdleTime(5 * time.Minute)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)

	if err := sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, err
	}

	logger.Info("✅ Connected to PostgreSQL")
	return gdb, nil
}

func gormLogLevel(env string) gormLogger.LogLevel {
	switch env {
	case "development":
		return gormLogger.Info
	case "staging":
		return gormLogger.Warn
	case "test":
		return gormLogger.Silent
	default:
		return gormLogger.Error
	}
}
