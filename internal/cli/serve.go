package cli

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/cogmodel/declmem/internal/config"
	"github.com/cogmodel/declmem/internal/server"
)

var serveFlags struct {
	bind   string
	port   int
	dbPath string
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the results HTTP API server",
	RunE:  runServe,
}

func init() {
	cfg := config.Default()
	serveCmd.Flags().StringVar(&serveFlags.bind, "bind", cfg.Server.Bind, "bind address")
	serveCmd.Flags().IntVar(&serveFlags.port, "port", cfg.Server.Port, "listen port")
	serveCmd.Flags().StringVar(&serveFlags.dbPath, "db", cfg.Database.Path, "results database path")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg := config.Default()
	cfg.Server.Bind = serveFlags.bind
	cfg.Server.Port = serveFlags.port
	cfg.Database.Path = serveFlags.dbPath

	db, err := openResults(cfg.Database.Path)
	if err != nil {
		return err
	}
	defer db.Close()

	srv := &http.Server{
		Addr:    cfg.ListenAddr(),
		Handler: server.Handler(db, versionString()),
	}

	errCh := make(chan error, 1)
	go func() {
		fmt.Fprintf(os.Stderr, "declmem results server on http://%s (db: %s)\n", cfg.ListenAddr(), db.Path)
		errCh <- srv.ListenAndServe()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return fmt.Errorf("serve: %w", err)
	case <-sigCh:
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(ctx)
	}
}
