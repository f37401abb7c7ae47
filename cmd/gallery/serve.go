package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"

	"lightbox/internal/site"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Preview a built gallery over HTTP",
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().String("dir", ".", "built gallery directory")
	serveCmd.Flags().Int("port", 8080, "port to listen on")
	serveCmd.Flags().Bool("allow-all", false, "allow all CORS origins")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	dir, _ := cmd.Flags().GetString("dir")
	port, _ := cmd.Flags().GetInt("port")
	allowAll, _ := cmd.Flags().GetBool("allow-all")

	srv := site.NewServer(site.ServerConfig{Port: port, Dir: dir, AllowAll: allowAll})

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}
