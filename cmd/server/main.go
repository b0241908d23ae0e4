/*
main.go - Application entry point

PURPOSE:
  Initializes and starts the NetDebt server: configuration, logging,
  persistence, reminder scheduler, optional spreadsheet export, the debt
  store, and the HTTP API - then runs until interrupted.

STARTUP SEQUENCE:
  1. Parse command-line flags and environment config
  2. Open the SQLite persistence
  3. Build the reminder scheduler and (optional) sheets exporter
  4. Construct the store (loads the collection, reschedules reminders)
  5. Start the HTTP server with graceful shutdown

COMMAND-LINE FLAGS:
  -port    HTTP server port (overrides PORT env)
  -db      SQLite database path (overrides DB_PATH env)
           Use ":memory:" for an in-memory database

GRACEFUL SHUTDOWN:
  On SIGINT/SIGTERM:
  1. Stop accepting new connections (30s drain timeout)
  2. Stop pending reminder timers
  3. Close the database

SEE ALSO:
  - api/server.go: Router configuration
  - config/config.go: Environment configuration
*/
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/norwaiw/NetDebt/api"
	"github.com/norwaiw/NetDebt/config"
	"github.com/norwaiw/NetDebt/export"
	"github.com/norwaiw/NetDebt/logging"
	"github.com/norwaiw/NetDebt/notify"
	"github.com/norwaiw/NetDebt/store"
	"github.com/norwaiw/NetDebt/store/sqlite"
)

func main() {
	logging.Setup()
	cfg := config.Load()

	port := flag.Int("port", cfg.Port, "HTTP server port")
	dbPath := flag.String("db", cfg.DBPath, "SQLite database path")
	flag.Parse()

	persist, err := sqlite.New(*dbPath)
	if err != nil {
		slog.Error("failed to open database", "path", *dbPath, "err", err)
		os.Exit(1)
	}
	defer persist.Close()

	scheduler := notify.NewScheduler(nil, slog.Default())
	defer scheduler.Stop()

	exporter := export.NewSheets(export.Config{
		SpreadsheetID: cfg.SheetsSpreadsheetID,
		APIKey:        cfg.SheetsAPIKey,
		Range:         cfg.SheetsRange,
	}, slog.Default())

	debts := store.New(context.Background(), store.Options{
		Persistence: persist,
		Notifier:    scheduler,
		Exporter:    exporter,
		Logger:      slog.Default(),
		LeadDays:    cfg.ReminderLead,
	})

	handler := api.NewHandler(debts, cfg.DefaultCurrency)
	router := api.NewRouter(handler)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", *port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		slog.Info("server starting", "addr", server.Addr, "db", *dbPath)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server failed", "err", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		slog.Error("forced shutdown", "err", err)
	}
	slog.Info("server stopped")
}
