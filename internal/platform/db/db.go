package db

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/tristarfitness/backend/internal/models"
	cfgpkg "github.com/tristarfitness/backend/pkg/config"
	gormzap "github.com/tristarfitness/backend/pkg/gormlog"
)

// NewDB opens the durable store selected by database.driver. SQLite is the
// default and runs on a single connection, so code inside a transaction must
// issue every statement through the tx handle.
func NewDB(l *zap.SugaredLogger, cfg *cfgpkg.Config) (*gorm.DB, error) {
	dialector, err := dialectorFor(cfg.Database)
	if err != nil {
		l.Errorw("database config invalid", "err", err)
		return nil, err
	}
	db, err := Open(dialector, l)
	if err != nil {
		l.Errorf("failed to connect database: %v", err)
		return nil, err
	}
	if cfg.Database.Driver == cfgpkg.DBDriverSQLite {
		if err := limitConns(db, 1); err != nil {
			return nil, err
		}
	} else if cfg.Database.MaxOpenConns > 0 {
		if err := limitConns(db, cfg.Database.MaxOpenConns); err != nil {
			return nil, err
		}
	}
	l.Infow("connected to database", "driver", cfg.Database.Driver)
	return db, nil
}

// Open wraps gorm.Open with the settings every store handle shares. Tests use
// it directly with an in-memory sqlite or a sqlmock-backed dialector.
func Open(dialector gorm.Dialector, l *zap.SugaredLogger) (*gorm.DB, error) {
	return gorm.Open(dialector, &gorm.Config{
		Logger:         gormzap.New(l),
		TranslateError: true,
	})
}

func dialectorFor(c cfgpkg.DBConfig) (gorm.Dialector, error) {
	switch c.Driver {
	case cfgpkg.DBDriverPostgres:
		if c.DSN == "" {
			return nil, fmt.Errorf("database.dsn is required for postgres: %w", gorm.ErrInvalidDB)
		}
		return postgres.Open(c.DSN), nil
	case cfgpkg.DBDriverSQLite, "":
		if c.Path != ":memory:" && c.Path != "" {
			if err := os.MkdirAll(filepath.Dir(c.Path), 0o755); err != nil {
				return nil, fmt.Errorf("create database dir: %w", err)
			}
		}
		dsn := c.Path
		if dsn == "" {
			dsn = ":memory:"
		}
		return sqlite.Open(dsn + "?_foreign_keys=on&_busy_timeout=5000"), nil
	default:
		return nil, fmt.Errorf("unsupported database driver %q", c.Driver)
	}
}

func limitConns(db *gorm.DB, n int) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	sqlDB.SetMaxOpenConns(n)
	return nil
}

var Module = fx.Options(
	fx.Provide(NewDB),
	fx.Invoke(AutoMigrate),
	fx.Invoke(registerDBClose),
)

// AutoMigrate runs GORM migrations on startup
func AutoMigrate(l *zap.SugaredLogger, db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.Member{},
		&models.ActivityLog{},
		&models.Invoice{},
		&models.StaffUser{},
	); err != nil {
		l.Errorf("automigrate failed: %v", err)
		return err
	}
	l.Infow("automigrate completed")
	return nil
}

// registerDBClose ensures the underlying *sql.DB is closed on shutdown
func registerDBClose(lc fx.Lifecycle, l *zap.SugaredLogger, gdb *gorm.DB) {
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			sqlDB, err := gdb.DB()
			if err != nil {
				l.Warnw("gorm: get sql.DB failed", "err", err)
				return nil
			}
			l.Infow("closing database connection pool")
			return sqlDB.Close()
		},
	})
}
