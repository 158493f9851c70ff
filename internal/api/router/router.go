package router

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	httpmiddleware "github.com/wolfman30/medreminder/internal/http/middleware"
	"github.com/wolfman30/medreminder/pkg/logging"
)

// RouteRegistrar mounts a domain handler's routes.
type RouteRegistrar interface {
	RegisterRoutes(r chi.Router)
}

// Config holds router configuration
type Config struct {
	Logger             *logging.Logger
	Prescriptions      RouteRegistrar
	Reminders          RouteRegistrar
	DrugInfo           RouteRegistrar
	Alerts             RouteRegistrar
	MetricsHandler     http.Handler
	CORSAllowedOrigins []string
}

// New creates a new Chi router with all routes configured
func New(cfg *Config) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	if len(cfg.CORSAllowedOrigins) > 0 {
		r.Use(httpmiddleware.CORS(cfg.CORSAllowedOrigins))
	}
	r.Use(httpmiddleware.RequestLogger(cfg.Logger))

	r.Get("/health", health)
	if cfg.MetricsHandler != nil {
		r.Handle("/metrics", cfg.MetricsHandler)
	}

	r.Route("/api/v1", func(api chi.Router) {
		// The alert stream hijacks the connection, so it stays outside
		// the compressed group.
		if cfg.Alerts != nil {
			cfg.Alerts.RegisterRoutes(api)
		}
		api.Group(func(g chi.Router) {
			g.Use(middleware.Compress(5))
			for _, h := range []RouteRegistrar{cfg.Prescriptions, cfg.Reminders, cfg.DrugInfo} {
				if h != nil {
					h.RegisterRoutes(g)
				}
			}
		})
	})

	return r
}

func health(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}
