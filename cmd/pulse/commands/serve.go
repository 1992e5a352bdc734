package commands

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/kkusima/commitpulse/internal/api"
	"github.com/kkusima/commitpulse/internal/api/handlers"
	"github.com/kkusima/commitpulse/internal/observability"
	"github.com/kkusima/commitpulse/pkg/logger"
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the badge API server",
	Long: `Starts the HTTP API server.

Endpoints:
  GET  /health       - Health check
  GET  /badge        - Latest badge SVG
  GET  /api/summary  - Latest activity summary (JSON)
  GET  /api/history  - Recent generation runs (requires DATABASE_URL)
  POST /api/refresh  - Trigger a generation run
  GET  /ws           - Live summary updates (websocket)

Example:
  go run ./cmd/pulse serve
  go run ./cmd/pulse serve --port 8080`,
	RunE: runServe,
}

var servePort string

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVar(&servePort, "port", "", "API server port (default from PORT)")
}

func runServe(cmd *cobra.Command, args []string) error {
	fmt.Println("=== commitpulse API Server ===")

	// 1. Load config
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if servePort != "" {
		cfg.Port = servePort
	}

	// 2. Initialize logger
	log := logger.New(cfg)

	log.WithFields(map[string]interface{}{
		"port": cfg.Port,
		"env":  cfg.Env,
	}).Info("Initializing API server")

	// 3. Wire the pipeline
	app, err := buildApp(cfg, log, true)
	if err != nil {
		return err
	}
	defer app.Close()

	// 4. Ensure snapshot schema when a database is configured
	if app.repo != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		err := app.repo.EnsureSchema(ctx)
		cancel()
		if err != nil {
			return fmt.Errorf("ensure snapshot schema: %w", err)
		}
	}

	// 5. Create handler, websocket hub and router
	badgeHandler := handlers.NewBadgeHandler(app.service, app.repo, cfg.GitHub.Username, cfg.Badge.Year, log)
	hub := api.NewHub(app.service, log)
	router := api.NewRouter(badgeHandler, hub, log)

	// 6. Create server
	server := api.New(cfg, log, router)

	// 7. Optional metrics server
	if app.metricsReg != nil {
		go func() {
			addr := ":" + cfg.MetricsPort
			log.WithField("addr", addr).Info("Starting metrics server")
			if err := http.ListenAndServe(addr, observability.Handler(app.metricsReg)); err != nil {
				log.WithError(err).Error("Metrics server stopped")
			}
		}()
	}

	// 8. Start server with graceful shutdown
	go func() {
		if err := server.Start(); err != nil {
			log.WithError(err).Fatal("Failed to start server")
		}
	}()

	fmt.Printf("\nServer running on http://localhost:%s\n", cfg.Port)
	fmt.Println("\nAvailable endpoints:")
	fmt.Println("  GET  /health")
	fmt.Println("  GET  /badge")
	fmt.Println("  GET  /api/summary")
	fmt.Println("  GET  /api/history")
	fmt.Println("  POST /api/refresh")
	fmt.Println("  GET  /ws")
	fmt.Println("\nPress Ctrl+C to stop")

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	log.Info("Server stopped")
	return nil
}
