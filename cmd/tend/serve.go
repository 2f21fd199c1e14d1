package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/tendhq/tend/pkg/adapters/httpapi"
	"github.com/tendhq/tend/pkg/adapters/memapi"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start a local mock backend server",
	Long:  `Starts an in-memory implementation of the remote API over HTTP, for development and testing against a real wire surface.`,
	Run: func(cmd *cobra.Command, args []string) {
		port, _ := cmd.Flags().GetString("port")
		key, _ := cmd.Flags().GetString("key")

		handler := httpapi.NewMockHandler(memapi.New(), key)

		srv := &http.Server{
			Addr:    ":" + port,
			Handler: handler,
		}

		serverErrors := make(chan error, 1)
		go func() {
			fmt.Printf("Starting mock backend on %s (anon key: %q)\n", srv.Addr, key)
			serverErrors <- srv.ListenAndServe()
		}()

		shutdown := make(chan os.Signal, 1)
		signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

		// Block until the listener dies or we are told to stop.
		select {
		case err := <-serverErrors:
			fmt.Printf("Server error: %v\n", err)
			os.Exit(1)

		case sig := <-shutdown:
			fmt.Printf("\nReceived %v, shutting down\n", sig)

			// In-flight requests get a grace period, then the
			// listener is torn down hard.
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()

			if err := srv.Shutdown(ctx); err != nil {
				fmt.Printf("Shutdown incomplete after %v: %v\n", 5*time.Second, err)
				if err := srv.Close(); err != nil {
					fmt.Printf("Error closing server: %v\n", err)
				}
			}
			fmt.Println("Mock backend stopped")
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringP("port", "p", "8080", "Port to listen on")
	serveCmd.Flags().String("key", "local-dev", "Anon key clients must send")
}
