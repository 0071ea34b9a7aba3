package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/darmiel/ctoken/internal/api"
)

const shutdownTimeout = 10 * time.Second

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the ctoken server",
	Long: `Starts the HTTP server exposing the token endpoints.

Configuration is read from --config (optional) and overridden by the environment,
e.g. ADMIN_API_KEYS="key1,key2" PORT=3000 ctoken serve`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := f.LoadConfig(viper.GetViper())
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}

		rt, err := BuildRuntime(cmd.Context(), cfg)
		if err != nil {
			return fmt.Errorf("initializing: %w", err)
		}
		defer func() {
			if err := rt.Close(); err != nil {
				log.Warn().Err(err).Msg("failed to release resources")
			}
		}()

		srv := api.NewServer(rt.Service, rt.Metrics)

		server := &http.Server{
			Addr:              cfg.Server.Addr(),
			Handler:           srv.Routes(cfg.Server.AllowedOrigins),
			ReadHeaderTimeout: 10 * time.Second,
			ReadTimeout:       30 * time.Second,
			WriteTimeout:      30 * time.Second,
		}

		errCh := make(chan error, 1)
		go func() {
			log.Info().Msgf("Starting server on %s...", server.Addr)
			if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errCh <- err
			}
			close(errCh)
		}()

		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		defer signal.Stop(quit)

		select {
		case err, ok := <-errCh:
			if ok {
				return fmt.Errorf("server crashed: %w", err)
			}
			return nil
		case <-quit:
		}
		log.Info().Msg("Shutting down server...")

		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := server.Shutdown(ctx); err != nil {
			return fmt.Errorf("server forced to shutdown: %w", err)
		}

		log.Info().Msg("Server exited")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().Int("port", 0, "Port to listen on (env PORT, default 3000)")
	_ = viper.BindPFlag(PortKey, serveCmd.Flags().Lookup("port"))

	serveCmd.Flags().String("host", "", "Host to bind to (env HOST)")
	_ = viper.BindPFlag(HostKey, serveCmd.Flags().Lookup("host"))
}
