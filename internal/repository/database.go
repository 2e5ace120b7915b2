package repository

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"go.uber.org/zap"

	"github.com/barani-1502/Management-reports/internal/pkg/config"
)

var (
	db   *sql.DB
	once sync.Once
)

// InitDB opens the connection pool against the report schema. The pool is
// the only shared resource across requests; connection_limit bounds it and
// saturated requests queue inside database/sql rather than failing.
func InitDB(cfg config.DatabaseConfig) error {
	var err error
	once.Do(func() {
		db, err = sql.Open("mysql", cfg.DSN())
		if err != nil {
			return
		}

		limit := cfg.ConnectionLimit
		if limit <= 0 {
			limit = 10
		}
		db.SetMaxOpenConns(limit)
		db.SetMaxIdleConns(limit / 2)
		db.SetConnMaxLifetime(time.Duration(cfg.MaxLifetimeMin) * time.Minute)
	})
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		return fmt.Errorf("ping database: %w", err)
	}

	zap.L().Info("Database connected",
		zap.String("host", cfg.Host),
		zap.Int("port", cfg.Port),
		zap.String("database", cfg.Database),
		zap.Int("connection_limit", cfg.ConnectionLimit))

	return nil
}

// GetDB returns the database instance
func GetDB() *sql.DB {
	return db
}

// Close closes the database connection
func Close() error {
	if db != nil {
		return db.Close()
	}
	return nil
}
