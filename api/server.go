/*
server.go - HTTP router and middleware configuration

PURPOSE:
  Configures the HTTP router (chi), middleware stack, and route definitions.
  This is the wiring layer that connects URLs to handlers.

ROUTER: chi
  Chi was chosen for:
  - Lightweight and fast
  - Context-based
  - Middleware support
  - RESTful route patterns

MIDDLEWARE STACK:
  1. RequestID:  Unique ID per request for tracing
  2. RealIP:     Client address behind proxies (rate limiting keys on it)
  3. Logger:     zap request logging
  4. Recoverer:  Panic recovery (500 instead of crash)
  5. Secure:     Security headers (unrolled/secure)
  6. CORS:       Cross-origin requests for frontend
  7. RateLimit:  Per-IP request budget (httprate)

ROUTE GROUPS:
  /api/roster/*          Roster period calendar
  /api/pilots/*          Pilots and their certifications
  /api/certifications/*  Expiry dashboard, summary, classification
  /api/categories        Check-type categories and grace periods
  /api/alerts/*          Expiry scan history
  /api/scenarios/*       Demo fleets

SECURITY NOTE:
  No authentication middleware. The API is meant to sit behind the
  admin portal's own session layer.

SEE ALSO:
  - handlers.go: Handler implementations
  - cmd/server/main.go: Server startup
*/
package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/unrolled/secure"
	"go.uber.org/zap"
)

// RouterConfig holds the middleware settings.
type RouterConfig struct {
	AllowedOrigins []string
	RateLimit      int // requests per minute per IP; 0 disables
	Production     bool
}

// DefaultRouterConfig is used by tests and local runs.
func DefaultRouterConfig() RouterConfig {
	return RouterConfig{
		AllowedOrigins: []string{"http://localhost:5173", "http://localhost:8080"},
		RateLimit:      120,
	}
}

// NewRouter creates a new router with all routes configured.
func NewRouter(h *Handler, rc RouterConfig) *chi.Mux {
	r := chi.NewRouter()

	secureMiddleware := secure.New(secure.Options{
		FrameDeny:             true,
		ContentTypeNosniff:    true,
		BrowserXssFilter:      true,
		ReferrerPolicy:        "strict-origin-when-cross-origin",
		ContentSecurityPolicy: "default-src 'none'",
		SSLRedirect:           rc.Production,
		SSLProxyHeaders:       map[string]string{"X-Forwarded-Proto": "https"},
	})

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(h.Logger))
	r.Use(middleware.Recoverer)
	r.Use(secureMiddleware.Handler)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   rc.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}))
	if rc.RateLimit > 0 {
		r.Use(httprate.Limit(rc.RateLimit, time.Minute,
			httprate.WithKeyFuncs(httprate.KeyByIP),
			httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
				writeError(w, http.StatusTooManyRequests, "Rate limit exceeded", nil)
			}),
		))
	}

	// API routes
	r.Route("/api", func(r chi.Router) {
		r.Get("/", listEndpoints)

		// Roster calendar
		r.Route("/roster", func(r chi.Router) {
			r.Get("/current", h.GetCurrentPeriod)
			r.Get("/options", h.ListPeriodOptions)
			r.Get("/spanning", h.ListSpanningPeriods)
			r.Get("/years/{year}", h.ListPeriodsInYear)
			r.Get("/periods/{code}", h.GetPeriod)
			r.Get("/periods/{code}/next", h.GetNextPeriod)
			r.Get("/periods/{code}/previous", h.GetPreviousPeriod)
		})

		// Pilot routes
		r.Route("/pilots", func(r chi.Router) {
			r.Get("/", h.ListPilots)
			r.Post("/", h.CreatePilot)
			r.Get("/{id}", h.GetPilot)
			r.Get("/{id}/certifications", h.GetPilotCertifications)
		})

		// Certification routes
		r.Route("/certifications", func(r chi.Router) {
			r.Post("/", h.SaveCertification)
			r.Get("/expiring", h.ListExpiring)
			r.Get("/summary", h.GetSummary)
			r.Post("/classify", h.ClassifyExpiry)
		})

		// Category routes
		r.Route("/categories", func(r chi.Router) {
			r.Get("/", h.ListCategories)
			r.Post("/", h.CreateCategory)
		})

		// Alert routes
		r.Route("/alerts", func(r chi.Router) {
			r.Get("/runs", h.ListAlertRuns)
			r.Post("/run", h.TriggerAlertScan)
		})

		// Scenario routes
		r.Route("/scenarios", func(r chi.Router) {
			r.Get("/", h.ListScenarios)
			r.Get("/current", h.GetCurrentScenario)
			r.Post("/load", h.LoadScenario)
			r.Post("/reset", h.ResetDatabase)
		})
	})

	return r
}

// listEndpoints is a small index for people poking at the API with curl.
func listEndpoints(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string][]string{
		"roster": {
			"GET /api/roster/current",
			"GET /api/roster/periods/{code}",
			"GET /api/roster/periods/{code}/next",
			"GET /api/roster/periods/{code}/previous",
			"GET /api/roster/options?center=&before=&after=",
			"GET /api/roster/years/{year}",
			"GET /api/roster/spanning?from=&to=",
		},
		"certifications": {
			"GET /api/pilots",
			"GET /api/pilots/{id}/certifications",
			"POST /api/certifications",
			"GET /api/certifications/expiring",
			"GET /api/certifications/summary",
			"POST /api/certifications/classify",
			"GET /api/categories",
		},
		"alerts": {
			"GET /api/alerts/runs",
			"POST /api/alerts/run",
		},
	})
}

// requestLogger logs one line per request with zap.
func requestLogger(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()

			defer func() {
				logger.Info("request",
					zap.String("request_id", middleware.GetReqID(r.Context())),
					zap.String("method", r.Method),
					zap.String("path", r.URL.Path),
					zap.Int("status", ww.Status()),
					zap.Int("bytes", ww.BytesWritten()),
					zap.Duration("duration", time.Since(start)),
					zap.String("remote", r.RemoteAddr),
				)
			}()

			next.ServeHTTP(ww, r)
		})
	}
}
