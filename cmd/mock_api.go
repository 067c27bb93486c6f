package cmd

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"ad-dashboard/pkg/api"
	"ad-dashboard/pkg/models"
	"ad-dashboard/pkg/session"
)

var (
	mockPort string
	seedFile string
)

// newMockAPICmd creates a new command serving an in-memory ads API
func newMockAPICmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mock-api",
		Short: "Serve an in-memory ads API for development",
		Long: `Serve the ads API from memory so the dashboard can run without the real backend.
Requests are authenticated with session tokens signed by SECRET_KEY (see the token command).`,
		Run: func(cmd *cobra.Command, args []string) {
			cfg, err := LoadConfig()
			if err != nil {
				log.Fatalf("Failed to load configuration: %v", err)
			}

			seed := sampleAds()
			if seedFile != "" {
				seed, err = loadSeed(seedFile)
				if err != nil {
					log.Fatalf("Failed to load seed file: %v", err)
				}
			}

			codec := session.NewCodec(cfg.SecretKey, cfg.SessionTTL)
			backend := api.NewBackend(sessionCaller(codec), seed...)

			server := &http.Server{
				Addr:         fmt.Sprintf(":%s", mockPort),
				Handler:      backend.Handler(),
				ReadTimeout:  15 * time.Second,
				WriteTimeout: 15 * time.Second,
			}
			log.Infof("Mock ads API serving %d ads at port %s", len(seed), mockPort)
			if err := server.ListenAndServe(); err != nil {
				log.Errorf("Server error: %v", err)
				os.Exit(1)
			}
		},
	}

	cmd.Flags().StringVar(&mockPort, "listen", "5000", "Port to serve the mock API on")
	cmd.Flags().StringVar(&seedFile, "seed", "", "JSON file with the ads to start with")
	return cmd
}

// sessionCaller identifies API callers by their session token
func sessionCaller(codec *session.Codec) api.IdentifyFunc {
	return func(r *http.Request) (api.Caller, bool) {
		s, _, err := codec.FromRequest(r)
		if err != nil {
			return api.Caller{}, false
		}
		return api.Caller{PerformerName: s.PerformerName, Developer: s.IsDeveloper()}, true
	}
}

func loadSeed(path string) ([]models.Ad, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("os.ReadFile: %w", err)
	}
	var ads []models.Ad
	if err := json.Unmarshal(data, &ads); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return ads, nil
}

func sampleAds() []models.Ad {
	return []models.Ad{
		{
			PerformerName: "Alice",
			AdName:        "Summer Tour",
			AdDetails:     models.AdDetails{VideoURL: "https://videos.example.com/summer.mp4", TargetURL: "https://alice.example.com/tour", Budget: 250},
		},
		{
			PerformerName: "Bob",
			AdName:        "New Single",
			AdDetails:     models.AdDetails{VideoURL: "https://videos.example.com/single.mp4", TargetURL: "https://bob.example.com", Budget: 100},
		},
		{
			PerformerName: "Alice",
			AdName:        "Merch Drop",
			AdDetails:     models.AdDetails{VideoURL: "https://videos.example.com/merch.mp4", TargetURL: "https://alice.example.com/shop", Budget: 75.5},
		},
	}
}
