// Package server implements the server command running the HTTP trigger and the optional watcher.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/pushr-cd/pushr/app"
	"github.com/pushr-cd/pushr/cmd/utils"
	"github.com/pushr-cd/pushr/watcher"
	"github.com/pushr-cd/pushr/web/handlers"
	"github.com/pushr-cd/pushr/web/routes"
	"github.com/spf13/cobra"
)

// shutdownTimeout bounds how long in-flight requests may run after a shutdown signal
const shutdownTimeout = 30 * time.Second

// NewCmdServer creates a command to run the HTTP trigger and watcher
func NewCmdServer(s *utils.Session) *cobra.Command {
	var (
		host string
		port int
	)

	cmd := &cobra.Command{
		Use:   "server",
		Short: "Run Pushr server (HTTP trigger + optional watcher)",
		Long: `Starts the HTTP trigger that deploys on POST requests carrying the configured token.
When watcher.poll_interval is set, deployments also run on that schedule.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("host") {
				s.Config.HTTPHost = host
			}
			if cmd.Flags().Changed("port") {
				s.Config.HTTPPort = port
			}

			a, err := s.App()
			if err != nil {
				return err
			}

			ctx, cancel := context.WithCancel(cmd.Context())
			defer cancel()

			go handleShutdown(cancel)

			return runServer(ctx, a)
		},
	}

	cmd.Flags().StringVar(&host, "host", "", "Address to listen on (overrides http.host)")
	cmd.Flags().IntVarP(&port, "port", "p", 0, "Port to listen on (overrides http.port)")
	return cmd
}

// runServer serves HTTP until ctx is done, running the watcher alongside when enabled
func runServer(ctx context.Context, a *app.App) error {
	cfg := a.Config
	logger := a.Logger

	if cfg.Token == "" {
		logger.Warn("No token configured, every trigger request will be answered with 404")
	}

	if cfg.WatcherPollInterval > 0 {
		w := watcher.NewWatcherService(a.Orchestrator, cfg.WatcherPollInterval, logger)
		go func() {
			if err := w.Start(ctx); err != nil {
				logger.Error("Watcher service failed", "error", err)
			}
		}()
	}

	var history handlers.HistoryLister
	if a.History != nil {
		history = a.History
	}
	h := handlers.New(a.Orchestrator, history, cfg.Name, app.Version, logger)

	address := net.JoinHostPort(cfg.HTTPHost, strconv.Itoa(cfg.HTTPPort))
	listener, err := net.Listen("tcp", address)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", address, err)
	}

	return serve(ctx, listener, routes.NewRouter(h, cfg.Token), logger)
}

// serve runs an HTTP server on listener and shuts it down gracefully when ctx is done
func serve(ctx context.Context, listener net.Listener, handler http.Handler, logger *slog.Logger) error {
	server := &http.Server{
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Web server starting", "address", "http://"+listener.Addr().String())
		if err := server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("web server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("Shutting down web server")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("web server shutdown failed: %w", err)
	}

	logger.Info("Web server stopped")
	return nil
}

// handleShutdown handles OS signals for graceful shutdown
func handleShutdown(cancel context.CancelFunc) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan
	slog.Info("Shutdown signal received")
	cancel()
}
