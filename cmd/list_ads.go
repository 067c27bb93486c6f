package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"ad-dashboard/pkg/models"
	"ad-dashboard/pkg/services"
	"ad-dashboard/pkg/store"
)

// cliVisitor is the visitor id used for the command line dashboard
const cliVisitor = "cli"

var listAll bool

// newListAdsCmd creates a new command for listing ads
func newListAdsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list-ads",
		Short: "List your ads, or every performer's ads",
		Long:  `List the ads of the token's performer. With --all, list every ad grouped by performer (developers only).`,
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

			visits, closeStore, err := openStore(ctx, cfg)
			if err != nil {
				log.Fatalf("Failed to open store: %v", err)
			}
			defer closeStore()

			dashboard := services.NewDashboard(services.Options{
				Source:  client,
				Store:   store.NewScoped(visits, cliVisitor),
				IsAdmin: listAll,
			})
			dashboard.Mount(ctx)
			printView(os.Stdout, dashboard.View())
		},
	}

	cmd.Flags().BoolVar(&listAll, "all", false, "List the ads of every performer")
	return cmd
}

// printView writes the dashboard render tree as text
func printView(w io.Writer, view models.DashboardView) {
	if view.Loading {
		fmt.Fprintln(w, services.LoadingText)
		return
	}

	if view.ReturningVisitor {
		fmt.Fprintln(w, services.WelcomeBackText)
		fmt.Fprintln(w)
	}

	fmt.Fprintln(w, view.Title)
	fmt.Fprintln(w, "================")

	if view.Error != "" {
		fmt.Fprintf(w, "Error: %s\n", view.Error)
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, view.ListHeading)
	fmt.Fprintln(w)

	if view.Admin {
		total := 0
		for _, group := range view.Groups {
			fmt.Fprintln(w, group.Heading)
			printCards(w, group.Cards, "  ")
			total += len(group.Cards)
		}
		fmt.Fprintf(w, "Total: %d ads across %d performers\n", total, len(view.Groups))
		return
	}

	if view.EmptyMessage != "" {
		fmt.Fprintln(w, view.EmptyMessage)
		return
	}
	printCards(w, view.Cards, "")
	fmt.Fprintf(w, "Total: %d ads\n", len(view.Cards))
}

func printCards(w io.Writer, cards []models.AdCard, indent string) {
	for i, card := range cards {
		fmt.Fprintf(w, "%s%d. %s (id: %s)\n", indent, i+1, card.Title, card.ID)
		fmt.Fprintf(w, "%s   Video URL: %s\n", indent, card.VideoURL)
		fmt.Fprintf(w, "%s   Target URL: %s\n", indent, card.TargetURL)
		fmt.Fprintf(w, "%s   Budget: %s\n", indent, card.Budget)
		fmt.Fprintln(w)
	}
}
