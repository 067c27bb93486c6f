package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"ad-dashboard/pkg/api"
	"ad-dashboard/pkg/config"
	"ad-dashboard/pkg/store"
)

// Configuration flags
var (
	secretKey    string
	apiBaseURL   string
	apiToken     string
	portNumber   string
	storeBackend string
	bucketName   string
)

// NewRootCmd creates and returns the root command
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "ad-dashboard",
		Short: "Ad Dashboard lists and manages advertisements",
		Long: `Ad Dashboard is a command line application that shows the ads of a performer, or of every
performer for developers, from the ads API. It can also serve the dashboard via a web interface.`,
	}

	// Define persistent flags that will be available for all commands
	rootCmd.PersistentFlags().StringVarP(&secretKey, "secret-key", "s", "", "Set the SECRET_KEY (overrides environment variable)")
	rootCmd.PersistentFlags().StringVarP(&apiBaseURL, "api", "a", "", "Set the API_BASE_URL (overrides environment variable)")
	rootCmd.PersistentFlags().StringVarP(&apiToken, "token", "t", "", "Set the API_TOKEN used by command line tools (overrides environment variable)")
	rootCmd.PersistentFlags().StringVarP(&portNumber, "port", "p", "", "Set the PORT (overrides environment variable)")
	rootCmd.PersistentFlags().StringVar(&storeBackend, "store", "", "Set the STORE_BACKEND, memory or gcs (overrides environment variable)")
	rootCmd.PersistentFlags().StringVarP(&bucketName, "bucket", "b", "", "Set the BUCKET_NAME (overrides environment variable)")

	// Add commands to root
	rootCmd.AddCommand(newListAdsCmd())
	rootCmd.AddCommand(newDeleteAdCmd())
	rootCmd.AddCommand(newExportCmd())
	rootCmd.AddCommand(newServeCmd())
	rootCmd.AddCommand(newMockAPICmd())
	rootCmd.AddCommand(newTokenCmd())
	rootCmd.AddCommand(newResetVisitsCmd())

	return rootCmd
}

// LoadConfig loads configuration with respect to command line flags
func LoadConfig() (*config.Config, error) {
	// Set environment variables from flags if provided
	overrides := map[string]string{
		"SECRET_KEY":    secretKey,
		"API_BASE_URL":  apiBaseURL,
		"API_TOKEN":     apiToken,
		"PORT":          portNumber,
		"STORE_BACKEND": storeBackend,
		"BUCKET_NAME":   bucketName,
	}
	for name, value := range overrides {
		if value != "" {
			os.Setenv(name, value)
		}
	}

	// Load configuration from environment variables (potentially set above)
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	cfg.ConfigureLogging()
	return cfg, nil
}

// clearableStore is a visitor store that can also be emptied
type clearableStore interface {
	store.KeyValue
	Clear(ctx context.Context) (int, error)
}

// openStore opens the configured visitor store. The returned function releases it.
func openStore(ctx context.Context, cfg *config.Config) (clearableStore, func(), error) {
	switch cfg.StoreBackend {
	case "gcs":
		gcs, err := store.NewGCS(ctx, cfg.BucketName, store.DefaultPrefix)
		if err != nil {
			return nil, nil, err
		}
		return gcs, func() { gcs.Close() }, nil
	case "memory":
		return store.NewMemory(cfg.VisitTTL), func() {}, nil
	default:
		return nil, nil, fmt.Errorf("%w: %s", config.ErrUnknownStoreBackend, cfg.StoreBackend)
	}
}

// newCLIClient creates an ads API client authenticated with the configured token
func newCLIClient(cfg *config.Config) (*api.Client, error) {
	if cfg.APIToken == "" {
		return nil, fmt.Errorf("API_TOKEN environment variable not set (use --token or the token command)")
	}
	return api.NewClient(cfg.APIBaseURL, api.WithToken(cfg.APIToken)), nil
}
