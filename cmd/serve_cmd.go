package cmd

import (
	"context"
	"net/http"
	"os"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"ad-dashboard/pkg/api"
	"ad-dashboard/pkg/config"
	"ad-dashboard/pkg/handlers"
	"ad-dashboard/pkg/metrics"
	"ad-dashboard/pkg/services"
	"ad-dashboard/pkg/session"
)

// newServeCmd creates a new command for serving the web application
func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the web server",
		Long:  `Start the web server to serve the dashboard via HTTP.`,
		Run: func(cmd *cobra.Command, args []string) {
			cfg, err := LoadConfig()
			if err != nil {
				log.Fatalf("Failed to load configuration: %v", err)
			}
			serveWebsite(cfg)
		},
	}
}

// serveWebsite runs the web server to serve the dashboard
func serveWebsite(cfg *config.Config) {
	visits, closeStore, err := openStore(context.Background(), cfg)
	if err != nil {
		log.Fatalf("Failed to open store: %v", err)
	}
	defer closeStore()

	client := api.NewClient(cfg.APIBaseURL)
	server := handlers.NewServer(cfg, handlers.Deps{
		Source:   func(token string) services.AdSource { return client.ForToken(token) },
		Sessions: session.NewCodec(cfg.SecretKey, cfg.SessionTTL),
		Visits:   visits,
		Metrics:  metrics.NewMetrics(),
	})

	mux := http.NewServeMux()
	mux.Handle("/static/", http.StripPrefix("/static/", http.FileServer(http.Dir("./public"))))
	mux.Handle("/", server.Routes())

	httpServer := &http.Server{
		Addr:         cfg.ServerAddress(),
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
	}

	// Start server
	cfg.PrintServerStartMessage()
	if err := httpServer.ListenAndServe(); err != nil {
		log.Errorf("Server error: %v", err)
		os.Exit(1)
	}
}
