package handlers

import (
	"bytes"
	"net/http"
	"time"

	"github.com/NYTimes/gziphandler"
	"github.com/google/uuid"
	"github.com/julienschmidt/httprouter"
	"github.com/rs/cors"
	log "github.com/sirupsen/logrus"

	"ad-dashboard/pkg/config"
	"ad-dashboard/pkg/metrics"
	"ad-dashboard/pkg/services"
	"ad-dashboard/pkg/session"
	"ad-dashboard/pkg/store"
)

// VisitorCookie identifies a browser across visits
const VisitorCookie = "visitor"

// SourceFunc returns the ads API as seen by the holder of token
type SourceFunc func(token string) services.AdSource

// Server serves the dashboard pages
type Server struct {
	cfg      *config.Config
	source   SourceFunc
	sessions *session.Codec
	visits   store.KeyValue
	metrics  *metrics.Metrics
	renderer Renderer
}

// Deps are the collaborators of a Server
type Deps struct {
	Source   SourceFunc
	Sessions *session.Codec
	Visits   store.KeyValue
	Metrics  *metrics.Metrics
	Renderer Renderer
}

// NewServer creates a Server. A nil renderer renders pug views from cfg.ViewsDir.
func NewServer(cfg *config.Config, deps Deps) *Server {
	renderer := deps.Renderer
	if renderer == nil {
		renderer = PugRenderer{Dir: cfg.ViewsDir}
	}
	return &Server{
		cfg:      cfg,
		source:   deps.Source,
		sessions: deps.Sessions,
		visits:   deps.Visits,
		metrics:  deps.Metrics,
		renderer: renderer,
	}
}

// Routes returns the HTTP handler for every endpoint
func (s *Server) Routes() http.Handler {
	router := httprouter.New()
	router.GET("/", func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		http.Redirect(w, r, "/dashboard", http.StatusFound)
	})
	router.GET("/dashboard", s.instrument("dashboard", s.DashboardHandler))
	router.GET("/dashboard/delete", s.instrument("confirm_delete", s.ConfirmDeleteHandler))
	router.POST("/dashboard/delete", s.instrument("delete", s.DeleteHandler))
	router.POST("/dashboard/actions/:action", s.instrument("action", s.ActionHandler))
	if len(s.cfg.CORSOrigins) > 0 {
		feed := SupportCORS(asHandler(s.instrument("feed", s.FeedHandler)), s.cfg.CORSOrigins)
		router.Handler(http.MethodGet, "/dashboard.json", feed)
		router.Handler(http.MethodOptions, "/dashboard.json", feed)
	} else {
		router.GET("/dashboard.json", s.instrument("feed", s.FeedHandler))
	}
	if s.metrics != nil {
		router.Handler(http.MethodGet, "/metrics", s.metrics.Handler())
	}
	return gziphandler.GzipHandler(router)
}

// SupportCORS lets browsers on the allowed origins read the feed with the visitor's credentials
func SupportCORS(handler http.Handler, allowedOrigins []string) http.Handler {
	c := cors.New(cors.Options{
		AllowCredentials: true,
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{http.MethodGet},
		AllowedHeaders:   []string{"Origin", "X-Requested-With", "Content-Type", "Accept", "Authorization"},
	})
	return c.Handler(handler)
}

func asHandler(handle httprouter.Handle) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		handle(w, r, httprouter.ParamsFromContext(r.Context()))
	})
}

// statusRecorder remembers the status code written by a handler
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// instrument logs and measures every request to a route
func (s *Server) instrument(route string, handle httprouter.Handle) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		handle(rec, r, ps)

		elapsed := time.Since(start)
		s.metrics.RecordRequest(route, rec.status, elapsed)
		log.WithFields(log.Fields{
			"route":   route,
			"method":  r.Method,
			"status":  rec.status,
			"elapsed": elapsed,
		}).Info("Handled request")
	}
}

// visitorID returns the id in the visitor cookie, issuing a new one when absent
func visitorID(w http.ResponseWriter, r *http.Request) string {
	if cookie, err := r.Cookie(VisitorCookie); err == nil && cookie.Value != "" {
		return cookie.Value
	}
	id := uuid.NewString()
	http.SetCookie(w, &http.Cookie{
		Name:     VisitorCookie,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Expires:  time.Now().AddDate(1, 0, 0),
	})
	return id
}

func (s *Server) render(w http.ResponseWriter, name string, data any) {
	var buf bytes.Buffer
	if err := s.renderer.Render(&buf, name, data); err != nil {
		log.WithError(err).Errorf("Rendering %s failed", name)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if _, err := buf.WriteTo(w); err != nil {
		log.WithError(err).Debug("Writing page failed")
	}
}
