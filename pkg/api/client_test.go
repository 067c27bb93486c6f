package api

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ad-dashboard/pkg/models"
)

// tokenCallers maps bearer tokens to callers
func tokenCallers(callers map[string]Caller) IdentifyFunc {
	return func(r *http.Request) (Caller, bool) {
		auth := r.Header.Get("Authorization")
		if len(auth) < len("Bearer ") {
			return Caller{}, false
		}
		c, ok := callers[auth[len("Bearer "):]]
		return c, ok
	}
}

func newTestBackend(t *testing.T) (*Backend, *httptest.Server) {
	t.Helper()
	backend := NewBackend(tokenCallers(map[string]Caller{
		"alice": {PerformerName: "Alice"},
		"dev":   {PerformerName: "Dev", Developer: true},
	}),
		models.Ad{ID: "1", PerformerName: "Alice", AdName: "A1", AdDetails: models.AdDetails{VideoURL: "v1", TargetURL: "t1", Budget: 10}},
		models.Ad{ID: "2", AdName: "A2", AdDetails: models.AdDetails{VideoURL: "v2", TargetURL: "t2", Budget: 20}},
		models.Ad{ID: "3", PerformerName: "Alice", AdName: "A3"},
	)
	server := httptest.NewServer(backend.Handler())
	t.Cleanup(server.Close)
	return backend, server
}

func TestListAdsOwnOnly(t *testing.T) {
	_, server := newTestBackend(t)
	client := NewClient(server.URL, WithToken("alice"))

	ads, err := client.ListAds(context.Background(), false)
	require.NoError(t, err)
	require.Len(t, ads, 2)
	assert.Equal(t, "1", ads[0].ID)
	assert.Equal(t, "3", ads[1].ID)
	assert.Equal(t, 10.0, ads[0].AdDetails.Budget)
}

func TestListAdsAllPreservesOrder(t *testing.T) {
	_, server := newTestBackend(t)
	client := NewClient(server.URL+"/", WithToken("dev"))

	ads, err := client.ListAds(context.Background(), true)
	require.NoError(t, err)
	ids := []string{}
	for _, ad := range ads {
		ids = append(ids, ad.ID)
	}
	assert.Equal(t, []string{"1", "2", "3"}, ids)
}

func TestListAdsServerError(t *testing.T) {
	_, server := newTestBackend(t)
	client := NewClient(server.URL, WithToken("alice"))

	_, err := client.ListAds(context.Background(), true)
	var serverErr *ServerError
	require.True(t, errors.As(err, &serverErr))
	assert.Equal(t, http.StatusForbidden, serverErr.StatusCode)
	assert.Equal(t, "forbidden", serverErr.Body)
}

func TestListAdsNetworkError(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	_, err := NewClient(url).ListAds(context.Background(), false)
	var netErr *NetworkError
	assert.True(t, errors.As(err, &netErr))
}

func TestListAdsBadPayload(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte("{not json"))
	}))
	defer server.Close()

	_, err := NewClient(server.URL).ListAds(context.Background(), false)
	assert.Error(t, err)
}

func TestDeleteAd(t *testing.T) {
	backend, server := newTestBackend(t)
	client := NewClient(server.URL, WithToken("alice"))

	require.NoError(t, client.DeleteAd(context.Background(), "1"))
	assert.Len(t, backend.Ads(), 2)

	err := client.DeleteAd(context.Background(), "1")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDeleteAdOtherPerformer(t *testing.T) {
	backend, server := newTestBackend(t)

	err := NewClient(server.URL, WithToken("alice")).DeleteAd(context.Background(), "2")
	var serverErr *ServerError
	require.True(t, errors.As(err, &serverErr))
	assert.Equal(t, http.StatusForbidden, serverErr.StatusCode)
	assert.Len(t, backend.Ads(), 3)

	require.NoError(t, NewClient(server.URL).ForToken("dev").DeleteAd(context.Background(), "2"))
	assert.Len(t, backend.Ads(), 2)
}

func TestUnauthenticated(t *testing.T) {
	_, server := newTestBackend(t)

	_, err := NewClient(server.URL).ListAds(context.Background(), false)
	var serverErr *ServerError
	require.True(t, errors.As(err, &serverErr))
	assert.Equal(t, http.StatusUnauthorized, serverErr.StatusCode)
}

func TestBackendAssignsIDs(t *testing.T) {
	backend := NewBackend(nil)
	ad := backend.Add(models.Ad{AdName: "x"})
	assert.NotEmpty(t, ad.ID)
}
