package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alexedwards/scs/sqlite3store"
	"github.com/alexedwards/scs/v2"
	"github.com/spf13/cobra"

	"github.com/siteoptz/siteoptz/internal/config"
	"github.com/siteoptz/siteoptz/internal/db"
	"github.com/siteoptz/siteoptz/internal/telemetry"
)

const shutdownTimeout = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the web server",
	Long: `Start the calculator and lead capture web server.

The database is migrated and seeded on startup. Configuration comes from the
environment and an optional .env file.

Examples:
  server serve
  server serve --port 3000`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

var servePort string

func init() {
	serveCmd.Flags().StringVarP(&servePort, "port", "p", "", "Port to listen on (overrides PORT)")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg := config.Load()
	if servePort != "" {
		cfg.Port = servePort
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	database, err := db.Open(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer database.Close()

	stats, err := prepareDatabase(ctx, database, cfg)
	if err != nil {
		return err
	}
	if stats.Inserts > 0 {
		log.Printf("seeded %d rows", stats.Inserts)
	}

	c, err := loadCatalog(cfg.CatalogPath)
	if err != nil {
		return fmt.Errorf("failed to load catalog: %w", err)
	}
	log.Printf("catalog loaded: %d tools", c.Len())

	metrics := telemetry.New(ctx, telemetry.Config{
		Endpoint: cfg.OTELEndpoint,
		Enabled:  cfg.OTELEnabled,
		Insecure: cfg.OTELInsecure,
	})
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := metrics.Close(closeCtx); err != nil {
			log.Printf("close metrics: %v", err)
		}
	}()

	srv, err := newServer(cfg, database, c, newSessionManager(database, cfg), metrics)
	if err != nil {
		return err
	}
	go srv.limiter.Run(ctx)

	httpServer := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           srv.routes(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("listening on %s", httpServer.Addr)
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server stopped: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Print("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

func newSessionManager(database *sql.DB, cfg config.Config) *scs.SessionManager {
	sessions := scs.New()
	sessions.Store = sqlite3store.New(database)
	sessions.Lifetime = cfg.SessionLifetime
	sessions.Cookie.Name = "siteoptz_session"
	sessions.Cookie.HttpOnly = true
	sessions.Cookie.Secure = !cfg.IsDev()
	sessions.Cookie.SameSite = http.SameSiteLaxMode
	return sessions
}
