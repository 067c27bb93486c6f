package services

import (
	"context"
	"errors"
	"fmt"
	"sync"

	log "github.com/sirupsen/logrus"

	"ad-dashboard/pkg/metrics"
	"ad-dashboard/pkg/models"
	"ad-dashboard/pkg/store"
)

// VisitedKey is the store key marking a visitor as having seen the dashboard
const VisitedKey = "hasVisitedBefore"

// ErrAdNotFound is returned when an action names an ad that is not in the current list
var ErrAdNotFound = errors.New("ad not found")

var errFetchAborted = errors.New("fetch aborted")

// AdSource is the ads API the dashboard reads from and mutates
type AdSource interface {
	// ListAds returns every ad when all is true, otherwise only the caller's ads
	ListAds(ctx context.Context, all bool) ([]models.Ad, error)
	DeleteAd(ctx context.Context, id string) error
}

// Confirmer asks the user to confirm a destructive action
type Confirmer interface {
	Confirm(ctx context.Context, message string) bool
}

// ConfirmFunc adapts a function to the Confirmer interface
type ConfirmFunc func(ctx context.Context, message string) bool

// Confirm calls f
func (f ConfirmFunc) Confirm(ctx context.Context, message string) bool {
	return f(ctx, message)
}

// Callbacks are supplied by whatever hosts the dashboard. Nil callbacks are ignored.
type Callbacks struct {
	OnLogout       func()
	OnEditAd       func(ad models.Ad)
	OnViewStats    func(adID string)
	OnNewAd        func()
	OnViewAllStats func()
}

// Options configures a Dashboard
type Options struct {
	Source    AdSource
	Store     store.KeyValue
	IsAdmin   bool
	Callbacks Callbacks
	// Observer receives a copy of the state after every change
	Observer func(models.State)
	Metrics  *metrics.Metrics
}

// Dashboard lists ads for one viewer and handles their actions
type Dashboard struct {
	source    AdSource
	store     store.KeyValue
	isAdmin   bool
	callbacks Callbacks
	observer  func(models.State)
	metrics   *metrics.Metrics

	mu         sync.Mutex
	state      models.State
	generation uint64
}

type fetchResult struct {
	ads []models.Ad
	err error
}

// NewDashboard creates a dashboard that has not fetched yet
func NewDashboard(opts Options) *Dashboard {
	return &Dashboard{
		source:    opts.Source,
		store:     opts.Store,
		isAdmin:   opts.IsAdmin,
		callbacks: opts.Callbacks,
		observer:  opts.Observer,
		metrics:   opts.Metrics,
		state:     models.State{Loading: true},
	}
}

// IsAdmin reports whether the dashboard shows every performer's ads
func (d *Dashboard) IsAdmin() bool {
	return d.isAdmin
}

// State returns a snapshot of the current state
func (d *Dashboard) State() models.State {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.snapshot()
}

// View returns the render tree for the current state
func (d *Dashboard) View() models.DashboardView {
	return BuildView(d.State(), d.isAdmin)
}

// Mount reads the returning-visitor flag, marks the visitor as seen and fetches ads
func (d *Dashboard) Mount(ctx context.Context) {
	returning := false
	if d.store != nil {
		value, found, err := d.store.Get(ctx, VisitedKey)
		if err != nil {
			log.WithError(err).Debug("Reading visit flag failed")
		}
		returning = found && value == "true"

		if err := d.store.Set(ctx, VisitedKey, "true"); err != nil {
			log.WithError(err).Debug("Marking visitor failed")
		}
	}

	d.update(func(s *models.State) {
		s.ReturningVisitor = returning
	})

	d.FetchAds(ctx)
}

// FetchAds replaces the ad list with the latest from the source.
// Loading is cleared when the call finishes whatever the outcome. A failure keeps the previous ads.
// When fetches overlap only the most recently started one is applied.
func (d *Dashboard) FetchAds(ctx context.Context) {
	gen := d.startLoading()
	result := fetchResult{err: errFetchAborted}
	defer func() {
		d.finishFetch(gen, result)
	}()

	ads, err := d.source.ListAds(ctx, d.isAdmin)
	result = fetchResult{ads: ads, err: err}
}

// HandleDelete deletes an ad once the user confirms, then reloads the list
func (d *Dashboard) HandleDelete(ctx context.Context, id string, confirmer Confirmer) {
	if confirmer == nil || !confirmer.Confirm(ctx, ConfirmDeleteText) {
		d.metrics.RecordDelete(metrics.ResultDeclined)
		return
	}

	err := d.MutateAndRefresh(ctx, func(ctx context.Context) error {
		return d.source.DeleteAd(ctx, id)
	}, DeleteFailedText)

	if err != nil {
		d.metrics.RecordDelete(metrics.ResultError)
		return
	}
	d.metrics.RecordDelete(metrics.ResultSuccess)
}

// MutateAndRefresh runs a mutation against the source and refetches the list only if it succeeded.
// On failure failureText becomes the visible error and the mutation error is returned.
func (d *Dashboard) MutateAndRefresh(ctx context.Context, mutate func(context.Context) error, failureText string) error {
	if err := mutate(ctx); err != nil {
		d.update(func(s *models.State) {
			s.Error = failureText
		})
		return fmt.Errorf("mutate: %w", err)
	}

	d.FetchAds(ctx)
	return nil
}

// EditAd hands the ad with the given id to the edit callback
func (d *Dashboard) EditAd(id string) error {
	ad, ok := d.findAd(id)
	if !ok {
		return fmt.Errorf("%w: %s", ErrAdNotFound, id)
	}
	if d.callbacks.OnEditAd != nil {
		d.callbacks.OnEditAd(ad)
	}
	return nil
}

// ViewStats hands the ad id to the stats callback
func (d *Dashboard) ViewStats(id string) {
	if d.callbacks.OnViewStats != nil {
		d.callbacks.OnViewStats(id)
	}
}

// NewAd invokes the new-ad callback
func (d *Dashboard) NewAd() {
	if d.callbacks.OnNewAd != nil {
		d.callbacks.OnNewAd()
	}
}

// ViewAllStats invokes the all-stats callback
func (d *Dashboard) ViewAllStats() {
	if d.callbacks.OnViewAllStats != nil {
		d.callbacks.OnViewAllStats()
	}
}

// Logout invokes the logout callback
func (d *Dashboard) Logout() {
	if d.callbacks.OnLogout != nil {
		d.callbacks.OnLogout()
	}
}

func (d *Dashboard) findAd(id string) (models.Ad, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	for _, ad := range d.state.Ads {
		if ad.ID == id {
			return ad, true
		}
	}
	return models.Ad{}, false
}

func (d *Dashboard) startLoading() uint64 {
	d.mu.Lock()
	d.generation++
	gen := d.generation
	d.state.Loading = true
	snapshot := d.snapshot()
	d.mu.Unlock()

	d.publish(snapshot)
	return gen
}

func (d *Dashboard) finishFetch(gen uint64, result fetchResult) {
	d.mu.Lock()
	if gen != d.generation {
		// A newer fetch owns the state now
		d.mu.Unlock()
		d.metrics.RecordFetch(metrics.ResultStale)
		return
	}

	if result.err != nil {
		d.state.Error = FetchFailedText
	} else {
		d.state.Ads = result.ads
		if d.state.Ads == nil {
			d.state.Ads = []models.Ad{}
		}
	}
	d.state.Loading = false
	snapshot := d.snapshot()
	d.mu.Unlock()

	if result.err != nil {
		d.metrics.RecordFetch(metrics.ResultError)
	} else {
		d.metrics.RecordFetch(metrics.ResultSuccess)
	}
	d.publish(snapshot)
}

func (d *Dashboard) update(fn func(*models.State)) {
	d.mu.Lock()
	fn(&d.state)
	snapshot := d.snapshot()
	d.mu.Unlock()

	d.publish(snapshot)
}

// snapshot must be called with mu held
func (d *Dashboard) snapshot() models.State {
	s := d.state
	if d.state.Ads != nil {
		s.Ads = append([]models.Ad(nil), d.state.Ads...)
	}
	return s
}

func (d *Dashboard) publish(s models.State) {
	if d.observer != nil {
		d.observer(s)
	}
}
