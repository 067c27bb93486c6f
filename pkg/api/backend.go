package api

import (
	"encoding/json"
	"net/http"
	"sync"

	"github.com/google/uuid"
	"github.com/julienschmidt/httprouter"
	log "github.com/sirupsen/logrus"

	"ad-dashboard/pkg/models"
)

// Caller identifies who is calling the backend
type Caller struct {
	PerformerName string
	Developer     bool
}

// IdentifyFunc resolves the caller of a request, returning false when unauthenticated
type IdentifyFunc func(r *http.Request) (Caller, bool)

// Backend is an in-memory ads API for development and tests
type Backend struct {
	identify IdentifyFunc

	mu  sync.RWMutex
	ads []models.Ad
}

// NewBackend creates a backend seeded with ads
func NewBackend(identify IdentifyFunc, seed ...models.Ad) *Backend {
	b := &Backend{identify: identify}
	for _, ad := range seed {
		b.Add(ad)
	}
	return b
}

// Add stores an ad, assigning an id when it has none, and returns the stored ad
func (b *Backend) Add(ad models.Ad) models.Ad {
	if ad.ID == "" {
		ad.ID = uuid.NewString()
	}
	b.mu.Lock()
	b.ads = append(b.ads, ad)
	b.mu.Unlock()
	return ad
}

// Ads returns every stored ad in insertion order
func (b *Backend) Ads() []models.Ad {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return append([]models.Ad{}, b.ads...)
}

// Handler returns the HTTP handler serving the ads API
func (b *Backend) Handler() http.Handler {
	router := httprouter.New()
	router.GET("/api/ads", b.listHandler)
	router.POST("/api/ads", b.createHandler)
	router.DELETE("/api/ads/:id", b.deleteHandler)
	return router
}

func (b *Backend) listHandler(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	caller, ok := b.identify(r)
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	all := r.URL.Query().Get("all") == "true"
	if all && !caller.Developer {
		http.Error(w, "forbidden", http.StatusForbidden)
		return
	}

	result := make([]models.Ad, 0)
	for _, ad := range b.Ads() {
		if all || ad.PerformerName == caller.PerformerName {
			result = append(result, ad)
		}
	}

	writeJSON(w, http.StatusOK, result)
}

func (b *Backend) createHandler(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	caller, ok := b.identify(r)
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	var ad models.Ad
	if err := json.NewDecoder(r.Body).Decode(&ad); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if !caller.Developer || ad.PerformerName == "" {
		ad.PerformerName = caller.PerformerName
	}
	ad.ID = ""

	writeJSON(w, http.StatusCreated, b.Add(ad))
}

func (b *Backend) deleteHandler(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	caller, ok := b.identify(r)
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}
	id := ps.ByName("id")

	b.mu.Lock()
	defer b.mu.Unlock()
	for i, ad := range b.ads {
		if ad.ID != id {
			continue
		}
		if !caller.Developer && ad.PerformerName != caller.PerformerName {
			http.Error(w, "forbidden", http.StatusForbidden)
			return
		}
		b.ads = append(b.ads[:i], b.ads[i+1:]...)
		log.WithField("ad", id).Info("Deleted ad")
		w.WriteHeader(http.StatusNoContent)
		return
	}
	http.NotFound(w, r)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.WithError(err).Warn("Writing response failed")
	}
}
