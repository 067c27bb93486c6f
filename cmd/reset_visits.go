package cmd

import (
	"context"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// newResetVisitsCmd creates a new command that forgets every visitor
func newResetVisitsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reset-visits",
		Short: "Forget which visitors have seen the dashboard",
		Long:  `Delete every stored visit flag so all visitors are greeted as new. Only meaningful with the gcs store.`,
		Run: func(cmd *cobra.Command, args []string) {
			cfg, err := LoadConfig()
			if err != nil {
				log.Fatalf("Failed to load configuration: %v", err)
			}

			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
			defer cancel()

			visits, closeStore, err := openStore(ctx, cfg)
			if err != nil {
				log.Fatalf("Failed to open store: %v", err)
			}
			defer closeStore()

			deleted, err := visits.Clear(ctx)
			if err != nil {
				log.Fatalf("Failed to reset visits: %v", err)
			}
			fmt.Printf("Deleted %d visit flags\n", deleted)
		},
	}
}
