package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadRequiresSecretKey(t *testing.T) {
	t.Setenv("SECRET_KEY", "")

	_, err := Load()
	assert.ErrorIs(t, err, ErrSecretKeyNotSet)
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("SECRET_KEY", "s3cret")
	t.Setenv("API_BASE_URL", "http://api.example.com/")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "http://api.example.com", cfg.APIBaseURL)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, ":8080", cfg.ServerAddress())
	assert.Equal(t, "memory", cfg.StoreBackend)
	assert.Equal(t, 720*time.Hour, cfg.VisitTTL)
	assert.Equal(t, "/ads/{id}/edit", cfg.EditURL)
	assert.Empty(t, cfg.CORSOrigins)
}

func TestLoadCORSOrigins(t *testing.T) {
	t.Setenv("SECRET_KEY", "s3cret")
	t.Setenv("CORS_ORIGINS", "https://a.example.com,https://b.example.com")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, []string{"https://a.example.com", "https://b.example.com"}, cfg.CORSOrigins)
}

func TestLoadGCSNeedsBucket(t *testing.T) {
	t.Setenv("SECRET_KEY", "s3cret")
	t.Setenv("STORE_BACKEND", "gcs")
	t.Setenv("BUCKET_NAME", "")

	_, err := Load()
	assert.ErrorIs(t, err, ErrBucketNameNotSet)

	t.Setenv("BUCKET_NAME", "visits")
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "visits", cfg.BucketName)
}

func TestLoadUnknownStore(t *testing.T) {
	t.Setenv("SECRET_KEY", "s3cret")
	t.Setenv("STORE_BACKEND", "redis")

	_, err := Load()
	assert.ErrorIs(t, err, ErrUnknownStoreBackend)
}

func TestLoadBadDuration(t *testing.T) {
	t.Setenv("SECRET_KEY", "s3cret")
	t.Setenv("VISIT_TTL", "forever")

	_, err := Load()
	assert.Error(t, err)
}

func TestAdURL(t *testing.T) {
	assert.Equal(t, "/ads/42/edit", AdURL("/ads/{id}/edit", "42"))
	assert.Equal(t, "/ads/a%2Fb/stats", AdURL("/ads/{id}/stats", "a/b"))
	assert.Equal(t, "/stats", AdURL("/stats", "42"))
}
