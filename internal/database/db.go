package database

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/nikhil/taskflow/internal/config"
	"github.com/nikhil/taskflow/internal/logger"
)

//go:embed schema.sql
var schema string

// Open connects to MySQL and verifies the connection is alive.
func Open(ctx context.Context, cfg config.DBConfig, log *logger.Logger) (*sql.DB, error) {
	db, err := sql.Open("mysql", cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)
	db.SetConnMaxLifetime(5 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("database connection is not active: %w", err)
	}

	log.Info("Database connected successfully", "host", cfg.Host, "name", cfg.Name)
	return db, nil
}

// EnsureSchema creates any missing tables. Existing tables are left as they are.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}
