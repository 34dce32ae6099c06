package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"sales-comparison/internal/config"
	"sales-comparison/internal/httpapi"
)

func (app *CLIApp) newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the comparison API over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, services, err := app.setup(cmd)
			if err != nil {
				return err
			}
			if addr, _ := cmd.Flags().GetString("addr"); addr != "" {
				cfg.Server.Addr = addr
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			ln, err := net.Listen("tcp", cfg.Server.Addr)
			if err != nil {
				return fmt.Errorf("failed to listen on %s: %w", cfg.Server.Addr, err)
			}
			return serve(ctx, ln, cfg.Server, services)
		},
	}
	cmd.Flags().String("addr", "", "Listen address (default from config)")
	return cmd
}

// serve runs the API on ln until ctx is cancelled, then shuts the server
// down within the configured timeout.
func serve(ctx context.Context, ln net.Listener, cfg config.ServerConfig, services *Services) error {
	logger := services.Logger
	handler := httpapi.NewHandler(services.Comparer, logger, cfg.MaxUploadBytes(),
		httpapi.WithRateLimit(cfg.RateLimitRPS, cfg.RateLimitBurst))
	server := &http.Server{
		Handler:      handler.Routes(),
		ReadTimeout:  cfg.ReadTimeout(),
		WriteTimeout: cfg.WriteTimeout(),
	}

	errCh := make(chan error, 1)
	go func() {
		logger.InfoContext(ctx, "Starting server", slog.String("addr", ln.Addr().String()))
		errCh <- server.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
	}

	logger.Info("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout())
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown error: %w", err)
	}
	return nil
}
