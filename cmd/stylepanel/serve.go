package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aretw0/stylepanel/internal/cli"
	httpAdapter "github.com/aretw0/stylepanel/pkg/adapters/http"
	"github.com/aretw0/stylepanel/pkg/observability"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP panel server",
	Long: `Serves panels as a JSON API. Clients send the style with every request;
the server only keeps each panel's group visibility, in the configured store.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("listen") {
			cfg.Server.Listen, _ = cmd.Flags().GetString("listen")
		}

		logger := cli.NewLogger(cfg)
		provider, err := cli.LoadSchema(cfg.Schema)
		if err != nil {
			return err
		}
		sessions, closer, err := cli.OpenSessions(cmd.Context(), cfg.Store, logger)
		if err != nil {
			return err
		}
		defer closer.Close()

		handler := httpAdapter.NewHandler(provider, sessions,
			httpAdapter.WithLogger(logger),
			httpAdapter.WithMetrics(observability.NewMetrics()),
		)

		srv := &http.Server{
			Addr:              cfg.Server.Listen,
			Handler:           handler,
			ReadHeaderTimeout: 10 * time.Second,
		}

		// Channel to listen for errors coming from the listener.
		serverErrors := make(chan error, 1)

		go func() {
			fmt.Printf("Starting Stylepanel Server on %s\n", srv.Addr)
			fmt.Printf("Panel store: %s\n", cfg.Store.Backend)
			serverErrors <- srv.ListenAndServe()
		}()

		shutdown := make(chan os.Signal, 1)
		signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)
		defer signal.Stop(shutdown)

		select {
		case err := <-serverErrors:
			return fmt.Errorf("server error: %w", err)

		case sig := <-shutdown:
			fmt.Printf("\nStart shutdown... Signal: %v\n", sig)

			// Give outstanding requests a deadline for completion.
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()

			if err := srv.Shutdown(ctx); err != nil {
				fmt.Printf("Graceful shutdown did not complete in %v: %v\n", 5*time.Second, err)
				if err := srv.Close(); err != nil {
					fmt.Printf("Error killing server: %v\n", err)
				}
			}
			fmt.Println("Stylepanel Server stopped gracefully")
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().String("listen", ":8080", "Address to listen on")
}
