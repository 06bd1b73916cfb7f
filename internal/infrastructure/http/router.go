package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimid "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/kaveeshanethruwan/taskhive/internal/domain"
	"github.com/kaveeshanethruwan/taskhive/internal/infrastructure/http/handlers"
	"github.com/kaveeshanethruwan/taskhive/internal/infrastructure/http/middleware"
)

type RouterConfig struct {
	AuthHandler    *handlers.AuthHandler
	UsersHandler   *handlers.UsersHandler
	TasksHandler   *handlers.TasksHandler
	HealthHandler  *handlers.HealthHandler
	RequireAccess  func(http.Handler) http.Handler
	RequireRefresh func(http.Handler) http.Handler
	Log            zerolog.Logger
	Secure         func(http.Handler) http.Handler
	IPRateLimit    func(http.Handler) http.Handler
	Metrics        bool // expose /metrics
}

// NewRouter wires the route policy table. Authorization is declared here,
// at registration: groups without RequireAccess/RequireRefresh are
// public, and role requirements are extra middleware on the route.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()
	r.Use(chimid.RequestID)
	r.Use(chimid.RealIP)
	r.Use(loggerMiddleware(cfg.Log))
	r.Use(chimid.Recoverer)
	if cfg.Metrics {
		r.Use(middleware.PrometheusMiddleware)
	}
	if cfg.Secure != nil {
		r.Use(cfg.Secure)
	}
	r.Use(chimid.AllowContentType("application/json", "multipart/form-data"))
	if cfg.IPRateLimit != nil {
		r.Use(cfg.IPRateLimit)
	}

	if cfg.HealthHandler != nil {
		r.Get("/health", cfg.HealthHandler.ServeHTTP)
	} else {
		r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte(`{"status":"ok"}`))
		})
	}
	if cfg.Metrics {
		r.Handle("/metrics", promhttp.Handler())
	}

	r.Route("/auth", func(r chi.Router) {
		r.Post("/login", cfg.AuthHandler.Login)
		r.With(cfg.RequireRefresh).Post("/refresh", cfg.AuthHandler.Refresh)
		r.With(cfg.RequireAccess).Post("/signout", cfg.AuthHandler.SignOut)
	})

	r.Route("/users", func(r chi.Router) {
		// Registration is the one public user route.
		r.Post("/", cfg.UsersHandler.Create)
		r.Group(func(r chi.Router) {
			r.Use(cfg.RequireAccess)
			r.Get("/", cfg.UsersHandler.List)
			r.Get("/profile", cfg.UsersHandler.Profile)
			r.Get("/{id}", cfg.UsersHandler.Get)
			r.Patch("/{id}", cfg.UsersHandler.Update)
			r.With(middleware.RequireRoles(domain.RoleAdmin, domain.RoleEditor)).
				Delete("/{id}", cfg.UsersHandler.Delete)
		})
	})

	r.Route("/tasks", func(r chi.Router) {
		r.Use(cfg.RequireAccess)
		r.Post("/", cfg.TasksHandler.Create)
		r.Post("/upload-csv", cfg.TasksHandler.UploadCSV)
		r.Get("/", cfg.TasksHandler.List)
		r.Get("/{id}", cfg.TasksHandler.Get)
		r.Patch("/{id}", cfg.TasksHandler.Update)
		r.Delete("/{id}", cfg.TasksHandler.Delete)
	})

	return r
}

func loggerMiddleware(log zerolog.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			reqID := chimid.GetReqID(r.Context())
			w.Header().Set("X-Request-Id", reqID)
			log.Info().
				Str("request_id", reqID).
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Msg("request")
			next.ServeHTTP(w, r)
		})
	}
}
