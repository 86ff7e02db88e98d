package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/warp/timeclock/api"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the reconciliation operations over HTTP",
	Long: `Starts a JSON API exposing badge listings, day summaries, reports and
the correction operations. Requests are processed one at a time.

This is an optional extra on top of the interactive menu: plain
"timeclock" never opens a port, and serve binds to loopback unless
http_addr says otherwise.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := setup()
		if err != nil {
			return err
		}
		defer app.Close()

		handler := api.NewHandler(app.service, app.logger)
		server := &http.Server{
			Addr:         app.cfg.HTTPAddr,
			Handler:      api.NewRouter(handler),
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
			IdleTimeout:  60 * time.Second,
		}

		errCh := make(chan error, 1)
		go func() {
			app.logger.Info("server starting", zap.String("addr", server.Addr), zap.String("file", app.dataFile))
			if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errCh <- err
			}
			close(errCh)
		}()

		// Wait for interrupt signal
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		select {
		case err := <-errCh:
			if err != nil {
				return err
			}
		case <-quit:
		}

		app.logger.Info("shutting down server")
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			return err
		}
		app.logger.Info("server stopped")
		return nil
	},
}
