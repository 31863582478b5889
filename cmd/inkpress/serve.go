package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/eringen/inkpress"
	"github.com/eringen/inkpress/views"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the site with the built-in templates",
	Long: `Loads the site config, parses the content directory, and serves the
blog. Content changes on disk are picked up automatically.

ADMIN_PASSWORD and ADMIN_SESSION_SECRET must be set in the environment
(or in a .env file loaded by your process manager) before the admin
dashboard will start.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := inkpress.LoadConfig(configPath)
		if err != nil {
			return err
		}

		app := inkpress.New(cfg, views.Default(cfg))

		errCh := make(chan error, 1)
		go func() {
			errCh <- app.Start()
		}()

		stop := make(chan os.Signal, 1)
		signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

		select {
		case err := <-errCh:
			return err
		case <-stop:
		}

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := app.Echo.Shutdown(ctx); err != nil {
			return err
		}
		return app.Close()
	},
}
