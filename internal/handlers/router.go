package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/soulart2024-ship-it/Tem/internal/platform/httpx"
)

// RouteRegistrar registers a set of routes against the provided router.
type RouteRegistrar func(r chi.Router)

type routerConfig struct {
	basePath    string
	middlewares []func(http.Handler) http.Handler
	health      *HealthHandlers

	authRoutes         RouteRegistrar
	decoderRoutes      RouteRegistrar
	journalRoutes      RouteRegistrar
	subscriptionRoutes RouteRegistrar
	usageRoutes        RouteRegistrar

	datasets http.Handler
}

// Option customises the router configuration before construction.
type Option func(*routerConfig)

const (
	defaultAPIPrefix = "/api"
	defaultTimeout   = 60 * time.Second
)

// NewRouter constructs the chi router with shared middleware and the API route groups.
func NewRouter(opts ...Option) chi.Router {
	cfg := routerConfig{
		basePath: defaultAPIPrefix,
		middlewares: []func(http.Handler) http.Handler{
			middleware.RequestID,
			middleware.RealIP,
			middleware.Timeout(defaultTimeout),
		},
	}

	for _, opt := range opts {
		opt(&cfg)
	}

	r := chi.NewRouter()

	if cfg.health == nil {
		cfg.health = NewHealthHandlers()
	}

	for _, mw := range cfg.middlewares {
		if mw != nil {
			r.Use(mw)
		}
	}

	r.NotFound(func(w http.ResponseWriter, req *http.Request) {
		httpx.WriteError(req.Context(), w, httpx.NewError("route_not_found", fmt.Sprintf("no route for %s", req.URL.Path), http.StatusNotFound))
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, req *http.Request) {
		httpx.WriteError(req.Context(), w, httpx.NewError("method_not_allowed", fmt.Sprintf("method %s not allowed on %s", req.Method, req.URL.Path), http.StatusMethodNotAllowed))
	})

	r.Get("/healthz", cfg.health.Healthz)
	r.Get("/readyz", cfg.health.Readyz)

	if cfg.datasets != nil {
		r.Mount("/data", http.StripPrefix("/data", cfg.datasets))
	}

	r.Route(cfg.basePath, func(api chi.Router) {
		for _, registrar := range []RouteRegistrar{
			cfg.authRoutes,
			cfg.decoderRoutes,
			cfg.journalRoutes,
			cfg.subscriptionRoutes,
			cfg.usageRoutes,
		} {
			if registrar != nil {
				registrar(api)
			}
		}
	})

	return r
}

// WithBasePath overrides the API prefix routes are mounted under.
func WithBasePath(basePath string) Option {
	return func(cfg *routerConfig) {
		if basePath != "" {
			cfg.basePath = basePath
		}
	}
}

// WithMiddlewares appends additional global middleware to the router.
func WithMiddlewares(mw ...func(http.Handler) http.Handler) Option {
	return func(cfg *routerConfig) {
		cfg.middlewares = append(cfg.middlewares, mw...)
	}
}

// WithHealthHandlers overrides the handlers used for /healthz and /readyz.
func WithHealthHandlers(h *HealthHandlers) Option {
	return func(cfg *routerConfig) {
		cfg.health = h
	}
}

// WithAuthRoutes configures the registrar responsible for auth endpoints.
func WithAuthRoutes(reg RouteRegistrar) Option {
	return func(cfg *routerConfig) {
		cfg.authRoutes = reg
	}
}

// WithDecoderRoutes configures the registrar responsible for decoder gate endpoints.
func WithDecoderRoutes(reg RouteRegistrar) Option {
	return func(cfg *routerConfig) {
		cfg.decoderRoutes = reg
	}
}

// WithJournalRoutes configures the registrar responsible for journal endpoints.
func WithJournalRoutes(reg RouteRegistrar) Option {
	return func(cfg *routerConfig) {
		cfg.journalRoutes = reg
	}
}

// WithSubscriptionRoutes configures the registrar responsible for billing endpoints.
func WithSubscriptionRoutes(reg RouteRegistrar) Option {
	return func(cfg *routerConfig) {
		cfg.subscriptionRoutes = reg
	}
}

// WithUsageRoutes configures the registrar responsible for stats endpoints.
func WithUsageRoutes(reg RouteRegistrar) Option {
	return func(cfg *routerConfig) {
		cfg.usageRoutes = reg
	}
}

// WithDatasetHandler mounts the delimited dataset files under /data.
func WithDatasetHandler(h http.Handler) Option {
	return func(cfg *routerConfig) {
		cfg.datasets = h
	}
}
