package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/aretw0/routinely"
	httpAdapter "github.com/aretw0/routinely/internal/adapters/http"
	"github.com/aretw0/routinely/pkg/observability"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	Long: `Starts the engine with its driving clock and exposes the JSON API over
HTTP, plus Prometheus metrics on /metrics. A persisted session is resumed
on startup.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		port, _ := cmd.Flags().GetString("port")

		metrics := observability.NewMetrics(prometheus.DefaultRegisterer)
		eng, history, err := buildEngine(cmd, routinely.WithNotifier(metrics))
		if err != nil {
			return err
		}

		ctx, cancel := context.WithCancel(cmd.Context())
		defer cancel()
		if err := eng.Run(ctx); err != nil {
			return fmt.Errorf("failed to restore session: %w", err)
		}
		defer eng.Stop()

		router := chi.NewRouter()
		router.Mount("/", httpAdapter.NewHandler(eng.Runtime(), eng.Catalog(),
			httpAdapter.WithHistory(history)))
		router.Handle("/metrics", promhttp.Handler())

		srv := &http.Server{
			Addr:    ":" + port,
			Handler: router,
		}

		serverErrors := make(chan error, 1)
		go func() {
			fmt.Printf("Starting routinely server on %s\n", srv.Addr)
			serverErrors <- srv.ListenAndServe()
		}()

		shutdown := make(chan os.Signal, 1)
		signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

		select {
		case err := <-serverErrors:
			return fmt.Errorf("server error: %w", err)

		case sig := <-shutdown:
			fmt.Printf("\nShutting down (signal: %v)\n", sig)

			shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer shutdownCancel()

			if err := srv.Shutdown(shutdownCtx); err != nil {
				fmt.Printf("Graceful shutdown did not complete in %v: %v\n", 5*time.Second, err)
				if err := srv.Close(); err != nil {
					return fmt.Errorf("failed to stop server: %w", err)
				}
			}
			fmt.Println("Server stopped")
			return nil
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringP("port", "p", "8080", "Port to listen on")
}
