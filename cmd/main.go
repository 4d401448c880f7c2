package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/multierr"

	"github.com/nikhil/taskflow/internal/config"
	"github.com/nikhil/taskflow/internal/database"
	"github.com/nikhil/taskflow/internal/logger"
	"github.com/nikhil/taskflow/internal/mailer"
	"github.com/nikhil/taskflow/internal/realtime"
	"github.com/nikhil/taskflow/internal/routes"
	"github.com/nikhil/taskflow/internal/store"
	"github.com/nikhil/taskflow/internal/store/memstore"
	"github.com/nikhil/taskflow/internal/store/mysqlstore"
)

const shutdownTimeout = 15 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	log := logger.New("taskflow", cfg.IsProduction())
	defer log.Sync()

	if err := run(cfg, log); err != nil {
		log.Fatal("Server stopped with error", "error", err)
	}
}

func run(cfg *config.Config, log *logger.Logger) (err error) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	st, err := openStore(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer func() {
		err = multierr.Append(err, st.Close())
	}()

	hub := realtime.NewHub(log)
	go hub.Run(ctx)

	deps := routes.NewDependencies(cfg, st, mailer.New(cfg.SMTP, log), hub, log)
	server := routes.NewServer(cfg.HTTPAddr, routes.RegisterAllRoutes(deps))

	serverErr := make(chan error, 1)
	go func() {
		log.Info("Server is running", "addr", cfg.HTTPAddr, "store", cfg.Store, "env", cfg.Env)
		serverErr <- server.ListenAndServe()
	}()

	select {
	case err := <-serverErr:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

func openStore(ctx context.Context, cfg *config.Config, log *logger.Logger) (store.Store, error) {
	if cfg.Store == "memory" {
		log.Warn("Using the in-memory store; data is lost on restart")
		return memstore.New(), nil
	}

	db, err := database.Open(ctx, cfg.DB, log)
	if err != nil {
		return nil, err
	}
	if cfg.DB.AutoSchema {
		if err := database.EnsureSchema(ctx, db); err != nil {
			return nil, multierr.Append(err, db.Close())
		}
		log.Info("Database schema ensured")
	}
	return mysqlstore.New(db, log), nil
}
