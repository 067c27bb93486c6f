package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ad-dashboard/pkg/metrics"
	"ad-dashboard/pkg/models"
	"ad-dashboard/pkg/store"
)

type fakeSource struct {
	mu        sync.Mutex
	ads       []models.Ad
	listErr   error
	deleteErr error
	listCalls []bool
	deleted   []string
}

func (f *fakeSource) ListAds(_ context.Context, all bool) ([]models.Ad, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listCalls = append(f.listCalls, all)
	if f.listErr != nil {
		return nil, f.listErr
	}
	return append([]models.Ad{}, f.ads...), nil
}

func (f *fakeSource) DeleteAd(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, id)
	if f.deleteErr != nil {
		return f.deleteErr
	}
	for i, ad := range f.ads {
		if ad.ID == id {
			f.ads = append(f.ads[:i], f.ads[i+1:]...)
			break
		}
	}
	return nil
}

func (f *fakeSource) listCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.listCalls)
}

func answer(yes bool) Confirmer {
	return ConfirmFunc(func(context.Context, string) bool { return yes })
}

func TestNewDashboardStartsLoading(t *testing.T) {
	d := NewDashboard(Options{Source: &fakeSource{}})
	assert.True(t, d.State().Loading)
	assert.True(t, d.View().Loading)
}

func TestFetchAdsPassesAdminFlag(t *testing.T) {
	src := &fakeSource{ads: sampleAds()}

	NewDashboard(Options{Source: src, IsAdmin: true}).FetchAds(context.Background())
	NewDashboard(Options{Source: src}).FetchAds(context.Background())

	assert.Equal(t, []bool{true, false}, src.listCalls)
}

func TestFetchAdsLoadingTransitions(t *testing.T) {
	for name, listErr := range map[string]error{"success": nil, "failure": errors.New("boom")} {
		t.Run(name, func(t *testing.T) {
			var loading []bool
			d := NewDashboard(Options{
				Source:   &fakeSource{ads: sampleAds(), listErr: listErr},
				Observer: func(s models.State) { loading = append(loading, s.Loading) },
			})

			d.FetchAds(context.Background())

			assert.Equal(t, []bool{true, false}, loading)
			assert.False(t, d.State().Loading)
		})
	}
}

func TestFetchAdsReplacesList(t *testing.T) {
	src := &fakeSource{ads: sampleAds()}
	d := NewDashboard(Options{Source: src})

	d.FetchAds(context.Background())
	assert.Equal(t, sampleAds(), d.State().Ads)

	src.ads = src.ads[:1]
	d.FetchAds(context.Background())
	assert.Equal(t, sampleAds()[:1], d.State().Ads)
}

func TestFetchAdsFailureKeepsPreviousAds(t *testing.T) {
	src := &fakeSource{ads: sampleAds()}
	d := NewDashboard(Options{Source: src})
	d.FetchAds(context.Background())

	src.listErr = errors.New("network down")
	d.FetchAds(context.Background())

	state := d.State()
	assert.Equal(t, "Failed to load ads", state.Error)
	assert.Equal(t, sampleAds(), state.Ads)
}

func TestFetchAdsEmptyResult(t *testing.T) {
	d := NewDashboard(Options{Source: &fakeSource{}})
	d.FetchAds(context.Background())

	view := d.View()
	assert.Equal(t, EmptyAdsText, view.EmptyMessage)
	assert.Empty(t, view.Cards)
}

func TestFetchAdsClearsLoadingOnPanic(t *testing.T) {
	d := NewDashboard(Options{Source: panicSource{}})

	assert.Panics(t, func() { d.FetchAds(context.Background()) })

	state := d.State()
	assert.False(t, state.Loading)
	assert.Equal(t, FetchFailedText, state.Error)
}

type panicSource struct{}

func (panicSource) ListAds(context.Context, bool) ([]models.Ad, error) { panic("boom") }
func (panicSource) DeleteAd(context.Context, string) error { return nil }

// blockingSource returns the ads of each call once its release channel is closed
type blockingSource struct {
	started chan int
	release []chan struct{}
	results [][]models.Ad
	mu      sync.Mutex
	calls   int
}

func (b *blockingSource) ListAds(context.Context, bool) ([]models.Ad, error) {
	b.mu.Lock()
	n := b.calls
	b.calls++
	b.mu.Unlock()

	b.started <- n
	<-b.release[n]
	return b.results[n], nil
}

func (b *blockingSource) DeleteAd(context.Context, string) error { return nil }

func TestFetchAdsDiscardsStaleResponse(t *testing.T) {
	first := []models.Ad{{ID: "old"}}
	second := []models.Ad{{ID: "new"}}
	src := &blockingSource{
		started: make(chan int, 2),
		release: []chan struct{}{make(chan struct{}), make(chan struct{})},
		results: [][]models.Ad{first, second},
	}
	d := NewDashboard(Options{Source: src})

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		d.FetchAds(context.Background())
	}()
	require.Equal(t, 0, <-src.started)

	wg.Add(1)
	go func() {
		defer wg.Done()
		d.FetchAds(context.Background())
	}()
	require.Equal(t, 1, <-src.started)

	// Newer request resolves first, then the older one
	close(src.release[1])
	require.Eventually(t, func() bool { return !d.State().Loading }, time.Second, time.Millisecond)
	close(src.release[0])
	wg.Wait()

	assert.Equal(t, second, d.State().Ads)
	assert.False(t, d.State().Loading)
}

func TestMountMarksVisitorAndFetches(t *testing.T) {
	ctx := context.Background()
	kv := store.NewMemory(time.Hour)
	src := &fakeSource{ads: sampleAds()}

	first := NewDashboard(Options{Source: src, Store: kv})
	first.Mount(ctx)
	assert.False(t, first.State().ReturningVisitor)
	assert.Equal(t, 1, src.listCount())

	value, found, err := kv.Get(ctx, VisitedKey)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "true", value)

	second := NewDashboard(Options{Source: src, Store: kv})
	second.Mount(ctx)
	assert.True(t, second.State().ReturningVisitor)
	assert.True(t, second.View().ReturningVisitor)
}

type failingStore struct{}

func (failingStore) Get(context.Context, string) (string, bool, error) {
	return "", false, errors.New("unavailable")
}
func (failingStore) Set(context.Context, string, string) error { return errors.New("unavailable") }

func TestMountIgnoresStoreFailures(t *testing.T) {
	src := &fakeSource{ads: sampleAds()}
	d := NewDashboard(Options{Source: src, Store: failingStore{}})

	d.Mount(context.Background())

	state := d.State()
	assert.False(t, state.ReturningVisitor)
	assert.Empty(t, state.Error)
	assert.Equal(t, sampleAds(), state.Ads)
}

func TestMountWithoutStore(t *testing.T) {
	d := NewDashboard(Options{Source: &fakeSource{}})
	d.Mount(context.Background())
	assert.False(t, d.State().Loading)
}

func TestHandleDeleteDeclined(t *testing.T) {
	src := &fakeSource{ads: sampleAds()}
	d := NewDashboard(Options{Source: src})
	d.FetchAds(context.Background())
	before := d.State()

	var message string
	d.HandleDelete(context.Background(), "1", ConfirmFunc(func(_ context.Context, m string) bool {
		message = m
		return false
	}))

	assert.Equal(t, "Are you sure you want to delete this ad?", message)
	assert.Empty(t, src.deleted)
	assert.Equal(t, 1, src.listCount())
	assert.Equal(t, before, d.State())
}

func TestHandleDeleteNilConfirmerDeclines(t *testing.T) {
	src := &fakeSource{ads: sampleAds()}
	d := NewDashboard(Options{Source: src})

	d.HandleDelete(context.Background(), "1", nil)

	assert.Empty(t, src.deleted)
}

func TestHandleDeleteConfirmedRefetches(t *testing.T) {
	src := &fakeSource{ads: sampleAds()}
	m := metrics.NewMetrics()
	d := NewDashboard(Options{Source: src, Metrics: m})
	d.FetchAds(context.Background())

	d.HandleDelete(context.Background(), "1", answer(true))

	assert.Equal(t, []string{"1"}, src.deleted)
	assert.Equal(t, 2, src.listCount())
	assert.Equal(t, sampleAds()[1:], d.State().Ads)
	assert.Empty(t, d.State().Error)
}

func TestHandleDeleteFailureSetsErrorWithoutRefetch(t *testing.T) {
	src := &fakeSource{ads: sampleAds(), deleteErr: errors.New("500")}
	d := NewDashboard(Options{Source: src})
	d.FetchAds(context.Background())

	d.HandleDelete(context.Background(), "1", answer(true))

	assert.Equal(t, 1, src.listCount())
	assert.Equal(t, "Failed to delete ad", d.State().Error)
	assert.Equal(t, sampleAds(), d.State().Ads)
}

func TestMutateAndRefreshReturnsMutationError(t *testing.T) {
	src := &fakeSource{}
	d := NewDashboard(Options{Source: src})
	cause := errors.New("rejected")

	err := d.MutateAndRefresh(context.Background(), func(context.Context) error { return cause }, "nope")

	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "nope", d.State().Error)
	assert.Equal(t, 0, src.listCount())
}

func TestCallbacksDelegate(t *testing.T) {
	var calls []string
	var edited models.Ad
	d := NewDashboard(Options{
		Source: &fakeSource{ads: sampleAds()},
		Callbacks: Callbacks{
			OnLogout:       func() { calls = append(calls, "logout") },
			OnEditAd:       func(ad models.Ad) { edited = ad; calls = append(calls, "edit") },
			OnViewStats:    func(id string) { calls = append(calls, "stats:"+id) },
			OnNewAd:        func() { calls = append(calls, "new") },
			OnViewAllStats: func() { calls = append(calls, "all-stats") },
		},
	})
	d.FetchAds(context.Background())

	require.NoError(t, d.EditAd("2"))
	d.ViewStats("1")
	d.NewAd()
	d.ViewAllStats()
	d.Logout()

	assert.Equal(t, []string{"edit", "stats:1", "new", "all-stats", "logout"}, calls)
	assert.Equal(t, sampleAds()[1], edited)
}

func TestEditUnknownAd(t *testing.T) {
	d := NewDashboard(Options{Source: &fakeSource{ads: sampleAds()}})
	d.FetchAds(context.Background())

	assert.ErrorIs(t, d.EditAd("missing"), ErrAdNotFound)
}

func TestNilCallbacksAreIgnored(t *testing.T) {
	d := NewDashboard(Options{Source: &fakeSource{ads: sampleAds()}})
	d.FetchAds(context.Background())

	assert.NotPanics(t, func() {
		d.Logout()
		d.NewAd()
		d.ViewAllStats()
		d.ViewStats("1")
		_ = d.EditAd("1")
	})
}
