package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"ad-dashboard/pkg/services"
)

var exportAll bool

// newExportCmd creates a new command for exporting ad data
func newExportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export [format]",
		Short: "Export ad data",
		Long:  `Export the listed ads in the specified format. Currently supported formats: json. With --all the ads are grouped by performer.`,
		Args:  cobra.MaximumNArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			cfg, err := LoadConfig()
			if err != nil {
				log.Fatalf("Failed to load configuration: %v", err)
			}
			client, err := newCLIClient(cfg)
			if err != nil {
				log.Fatal(err)
			}

			format := "json"
			if len(args) > 0 {
				format = args[0]
			}
			exportData(client, format)
		},
	}

	cmd.Flags().BoolVar(&exportAll, "all", false, "Export every performer's ads grouped by performer")
	return cmd
}

// exportData exports ad data in the specified format
func exportData(source services.AdSource, format string) {
	if format != "json" {
		fmt.Printf("Unsupported export format: %s\n", format)
		fmt.Println("Supported formats: json")
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	ads, err := source.ListAds(ctx, exportAll)
	if err != nil {
		log.Fatalf("Failed to load ads: %v", err)
	}

	var payload any = ads
	if exportAll {
		payload = services.GroupByPerformer(ads)
	}

	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		fmt.Printf("Error marshaling data: %v\n", err)
		os.Exit(1)
	}

	fmt.Println(string(data))
}
