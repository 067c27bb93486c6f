package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	log "github.com/sirupsen/logrus"
)

// Config holds all configuration for the application
type Config struct {
	SecretKey  string `env:"SECRET_KEY"`
	APIBaseURL string `env:"API_BASE_URL" envDefault:"http://localhost:5000"`
	APIToken   string `env:"API_TOKEN"`
	Port       string `env:"PORT" envDefault:"8080"`
	ViewsDir   string `env:"VIEWS_DIR" envDefault:"./views"`
	LogLevel   string `env:"LOG_LEVEL" envDefault:"info"`

	// StoreBackend selects where visitor flags live: "memory" or "gcs"
	StoreBackend string        `env:"STORE_BACKEND" envDefault:"memory"`
	BucketName   string        `env:"BUCKET_NAME"`
	VisitTTL     time.Duration `env:"VISIT_TTL" envDefault:"720h"`
	SessionTTL   time.Duration `env:"SESSION_TTL" envDefault:"24h"`

	// CORSOrigins may read the JSON feed with the visitor's cookies. Empty disables cross-origin access.
	CORSOrigins []string `env:"CORS_ORIGINS" envSeparator:","`

	// Navigation targets for the dashboard actions
	EditURL     string `env:"EDIT_AD_URL" envDefault:"/ads/{id}/edit"`
	StatsURL    string `env:"AD_STATS_URL" envDefault:"/ads/{id}/stats"`
	NewAdURL    string `env:"NEW_AD_URL" envDefault:"/ads/new"`
	AllStatsURL string `env:"ALL_STATS_URL" envDefault:"/stats"`
	LogoutURL   string `env:"LOGOUT_URL" envDefault:"/logout"`
	LoginURL    string `env:"LOGIN_URL" envDefault:"/login"`
}

// ErrSecretKeyNotSet is returned when the SECRET_KEY environment variable is not set
var ErrSecretKeyNotSet = errors.New("SECRET_KEY environment variable not set")

// ErrBucketNameNotSet is returned when the gcs store is selected without BUCKET_NAME
var ErrBucketNameNotSet = errors.New("BUCKET_NAME environment variable not set")

// ErrUnknownStoreBackend is returned for a STORE_BACKEND other than memory or gcs
var ErrUnknownStoreBackend = errors.New("STORE_BACKEND must be memory or gcs")

// Load loads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	if cfg.SecretKey == "" {
		return nil, ErrSecretKeyNotSet
	}

	switch cfg.StoreBackend {
	case "memory":
	case "gcs":
		if cfg.BucketName == "" {
			return nil, ErrBucketNameNotSet
		}
	default:
		return nil, ErrUnknownStoreBackend
	}

	cfg.APIBaseURL = strings.TrimRight(cfg.APIBaseURL, "/")
	return cfg, nil
}

// ServerAddress returns the server address with port
func (c *Config) ServerAddress() string {
	return fmt.Sprintf(":%s", c.Port)
}

// ConfigureLogging applies LOG_LEVEL to the standard logger
func (c *Config) ConfigureLogging() {
	level, err := log.ParseLevel(c.LogLevel)
	if err != nil {
		log.Warnf("Unknown log level %q, using info", c.LogLevel)
		level = log.InfoLevel
	}
	log.SetLevel(level)
}

// PrintServerStartMessage prints a message when the server starts
func (c *Config) PrintServerStartMessage() {
	log.Infof("Starting server at port %s", c.Port)
	log.Infof("Dashboard URL: http://localhost:%s/dashboard", c.Port)
	log.Infof("Ads API: %s", c.APIBaseURL)
}

// AdURL fills the {id} placeholder of an ad-scoped navigation target
func AdURL(pattern, id string) string {
	return strings.ReplaceAll(pattern, "{id}", url.PathEscape(id))
}
