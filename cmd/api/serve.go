package main

import (
	"context"
	"errors"
	"net/http"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/weather-insights/internal/api"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		port, err := cmd.Flags().GetString("port")
		if err != nil {
			return err
		}
		return serve(cmd.Context(), port)
	},
}

func init() {
	serveCmd.Flags().StringP("port", "p", "", "Port to listen on (defaults to PORT)")
}

func serve(ctx context.Context, port string) error {
	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	server := api.NewServer(a.cfg, a.youtube, a.prefs)
	defer server.Close()
	go server.Sessions().Run(ctx)

	if port == "" {
		port = a.cfg.Port
	}

	httpServer := &http.Server{Addr: ":" + port, Handler: server.Handler()}
	go func() {
		<-ctx.Done()
		_ = httpServer.Shutdown(context.Background())
	}()

	log.WithField("port", port).Info("Server starting")
	if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	log.Info("Server stopped")
	return nil
}
