package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/julienschmidt/httprouter"
	log "github.com/sirupsen/logrus"

	"ad-dashboard/pkg/config"
	"ad-dashboard/pkg/models"
	"ad-dashboard/pkg/services"
	"ad-dashboard/pkg/session"
	"ad-dashboard/pkg/store"
)

// navigation collects the redirect chosen by a dashboard callback
type navigation struct {
	target string
	logout bool
}

func (s *Server) callbacks(nav *navigation) services.Callbacks {
	return services.Callbacks{
		OnLogout: func() {
			nav.target = s.cfg.LogoutURL
			nav.logout = true
		},
		OnEditAd: func(ad models.Ad) {
			nav.target = config.AdURL(s.cfg.EditURL, ad.ID)
		},
		OnViewStats: func(adID string) {
			nav.target = config.AdURL(s.cfg.StatsURL, adID)
		},
		OnNewAd: func() {
			nav.target = s.cfg.NewAdURL
		},
		OnViewAllStats: func() {
			nav.target = s.cfg.AllStatsURL
		},
	}
}

// signedIn returns the session of the request, or redirects to the login page and reports false
func (s *Server) signedIn(w http.ResponseWriter, r *http.Request) (session.Session, string, bool) {
	sess, token, err := s.sessions.FromRequest(r)
	if err != nil {
		if !errors.Is(err, session.ErrNoSession) {
			log.WithError(err).Info("Rejected session")
		}
		http.Redirect(w, r, s.cfg.LoginURL, http.StatusSeeOther)
		return session.Session{}, "", false
	}
	return sess, token, true
}

// dashboardFor builds the dashboard of the signed-in user, or answers the request itself and returns nil
func (s *Server) dashboardFor(w http.ResponseWriter, r *http.Request, nav *navigation) *services.Dashboard {
	sess, token, ok := s.signedIn(w, r)
	if !ok {
		return nil
	}

	opts := services.Options{
		Source:  s.source(token),
		IsAdmin: sess.IsDeveloper(),
		Metrics: s.metrics,
	}
	if s.visits != nil {
		opts.Store = store.NewScoped(s.visits, visitorID(w, r))
	}
	if nav != nil {
		opts.Callbacks = s.callbacks(nav)
	}

	log.WithFields(log.Fields{
		"user":      sess.CurrentUser(),
		"performer": sess.GetPerformerID(),
		"admin":     sess.IsDeveloper(),
	}).Debug("Opening dashboard")
	return services.NewDashboard(opts)
}

// DashboardHandler handles requests for the dashboard page
func (s *Server) DashboardHandler(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	dashboard := s.dashboardFor(w, r, nil)
	if dashboard == nil {
		return
	}

	dashboard.Mount(r.Context())
	s.render(w, "dashboard", dashboard.View())
}

// ConfirmDeleteHandler asks the user to confirm deleting the ad named by the id query parameter
func (s *Server) ConfirmDeleteHandler(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	if _, _, ok := s.signedIn(w, r); !ok {
		return
	}
	id := r.URL.Query().Get("id")
	if id == "" {
		http.Error(w, "Missing ad id", http.StatusBadRequest)
		return
	}

	s.render(w, "confirm_delete", models.ConfirmDelete{
		AdID:    id,
		Message: services.ConfirmDeleteText,
	})
}

// DeleteHandler deletes an ad when the form carries confirm=yes and shows the reloaded dashboard.
// A declined confirmation goes back to the dashboard without touching the ad.
func (s *Server) DeleteHandler(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form", http.StatusBadRequest)
		return
	}
	id := r.PostForm.Get("id")
	if id == "" {
		http.Error(w, "Missing ad id", http.StatusBadRequest)
		return
	}

	dashboard := s.dashboardFor(w, r, nil)
	if dashboard == nil {
		return
	}

	confirmed := r.PostForm.Get("confirm") == "yes"
	confirmer := services.ConfirmFunc(func(context.Context, string) bool {
		return confirmed
	})

	if !confirmed {
		dashboard.HandleDelete(r.Context(), id, confirmer)
		http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
		return
	}

	dashboard.Mount(r.Context())
	dashboard.HandleDelete(r.Context(), id, confirmer)

	log.WithField("ad", id).Info("Delete requested")
	s.render(w, "dashboard", dashboard.View())
}

// ActionHandler forwards a dashboard button to its navigation target
func (s *Server) ActionHandler(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form", http.StatusBadRequest)
		return
	}

	nav := &navigation{}
	dashboard := s.dashboardFor(w, r, nav)
	if dashboard == nil {
		return
	}

	id := r.PostForm.Get("id")
	switch ps.ByName("action") {
	case "edit":
		// The edit target receives the ad as currently listed
		dashboard.FetchAds(r.Context())
		if err := dashboard.EditAd(id); err != nil {
			http.NotFound(w, r)
			return
		}
	case "stats":
		if id == "" {
			http.Error(w, "Missing ad id", http.StatusBadRequest)
			return
		}
		dashboard.ViewStats(id)
	case "new":
		dashboard.NewAd()
	case "all-stats":
		dashboard.ViewAllStats()
	case "logout":
		dashboard.Logout()
	default:
		http.NotFound(w, r)
		return
	}

	if nav.logout {
		http.SetCookie(w, &http.Cookie{Name: session.CookieName, Value: "", Path: "/", MaxAge: -1})
	}
	http.Redirect(w, r, nav.target, http.StatusSeeOther)
}

// FeedHandler returns the dashboard render tree as JSON
func (s *Server) FeedHandler(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	sess, token, err := s.sessions.FromRequest(r)
	if err != nil {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	dashboard := services.NewDashboard(services.Options{
		Source:  s.source(token),
		IsAdmin: sess.IsDeveloper(),
		Metrics: s.metrics,
	})
	dashboard.FetchAds(r.Context())

	jsonString, err := json.Marshal(dashboard.View())
	if err != nil {
		log.WithError(err).Error("Encoding feed failed")
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	if _, err := w.Write(jsonString); err != nil {
		log.WithError(err).Debug("Writing feed failed")
	}
}
