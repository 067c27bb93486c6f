package cmd

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"ad-dashboard/pkg/services"
)

var (
	assumeYes bool
	deleteAll bool
)

// newDeleteAdCmd creates a new command for deleting an ad
func newDeleteAdCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete-ad [id]",
		Short: "Delete an ad after confirmation",
		Long:  `Delete the ad with the given id. You are asked to confirm unless --yes is given. The refreshed list is printed afterwards.`,
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			cfg, err := LoadConfig()
			if err != nil {
				log.Fatalf("Failed to load configuration: %v", err)
			}
			client, err := newCLIClient(cfg)
			if err != nil {
				log.Fatal(err)
			}

			ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
			defer cancel()

			dashboard := services.NewDashboard(services.Options{
				Source:  client,
				IsAdmin: deleteAll,
			})
			dashboard.FetchAds(ctx)

			confirmed := false
			dashboard.HandleDelete(ctx, args[0], services.ConfirmFunc(func(_ context.Context, message string) bool {
				confirmed = assumeYes || promptYes(os.Stdin, os.Stdout, message)
				return confirmed
			}))
			if !confirmed {
				fmt.Println("Cancelled")
				return
			}

			view := dashboard.View()
			printView(os.Stdout, view)
			if view.Error != "" {
				os.Exit(1)
			}
		},
	}

	cmd.Flags().BoolVarP(&assumeYes, "yes", "y", false, "Do not ask for confirmation")
	cmd.Flags().BoolVar(&deleteAll, "all", false, "Show every performer's ads after deleting")
	return cmd
}

// promptYes asks a yes/no question and reports whether the answer was yes
func promptYes(in io.Reader, out io.Writer, message string) bool {
	fmt.Fprintf(out, "%s [y/N] ", message)
	answer, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && answer == "" {
		return false
	}
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		return true
	default:
		return false
	}
}
