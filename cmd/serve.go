package cmd

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/philjestin/buildsass/internal/provider"
	"github.com/philjestin/buildsass/internal/server"
)

var serveAddr string

// serveCmd exposes the provider to an editor over HTTP and a refresh websocket.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the provider over HTTP with a websocket refresh feed",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		p := newProvider(provider.WithRefreshOnAnyChange())
		defer p.Close()

		if source.File() != "" {
			source.Watch()
		}

		srv := server.New(p)
		defer srv.Close()
		return srv.ListenAndServe(ctx, serveAddr)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(&serveAddr, "addr", "localhost:8377", "address to listen on")
}
