package api

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"

	"ad-dashboard/pkg/models"
)

const maxErrorBody = 512

// Client talks to the ads API
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// Option customizes a Client
type Option func(*Client)

// WithToken sends token as a bearer credential on every request
func WithToken(token string) Option {
	return func(c *Client) {
		c.token = token
	}
}

// WithHTTPClient replaces the default HTTP client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// NewClient creates a client for the API at baseURL
func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ForToken returns a copy of the client that authenticates as token
func (c *Client) ForToken(token string) *Client {
	clone := *c
	clone.token = token
	return &clone
}

// ListAds returns all ads when all is true, otherwise the caller's own
func (c *Client) ListAds(ctx context.Context, all bool) ([]models.Ad, error) {
	const op = "list ads"
	endpoint := fmt.Sprintf("%s/api/ads?all=%s", c.baseURL, strconv.FormatBool(all))

	resp, err := c.do(ctx, op, http.MethodGet, endpoint)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var ads []models.Ad
	if err := json.NewDecoder(resp.Body).Decode(&ads); err != nil {
		return nil, fmt.Errorf("%s: failed to decode response: %w", op, err)
	}
	if ads == nil {
		ads = []models.Ad{}
	}

	log.WithField("count", len(ads)).Debug("Fetched ads")
	return ads, nil
}

// DeleteAd deletes the ad with the given id
func (c *Client) DeleteAd(ctx context.Context, id string) error {
	const op = "delete ad"
	endpoint := fmt.Sprintf("%s/api/ads/%s", c.baseURL, url.PathEscape(id))

	resp, err := c.do(ctx, op, http.MethodDelete, endpoint)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	log.WithField("ad", id).Debug("Deleted ad")
	return nil
}

func (c *Client) do(ctx context.Context, op, method, endpoint string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("%s: build request: %w", op, err)
	}
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &NetworkError{Op: op, Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		defer resp.Body.Close()
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, &ServerError{
			Op:         op,
			StatusCode: resp.StatusCode,
			Body:       strings.TrimSpace(string(body)),
		}
	}
	return resp, nil
}
