// Package admin assembles the admin API: product, blog, career and contact
// resources under /api, static uploads, the login endpoint, and the ambient
// middleware stack.
package admin

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"MiniAdmin/internal/auth"
	"MiniAdmin/internal/blog"
	"MiniAdmin/internal/career"
	"MiniAdmin/internal/contact"
	"MiniAdmin/internal/product"
	"MiniAdmin/pkg/kit"
)

type Deps struct {
	Log      *zap.Logger
	Service  string
	Registry *prometheus.Registry

	MetricsEnabled bool
	MetricsToken   string

	Products *product.Server
	Blogs    *blog.Server
	Careers  *career.Server
	Contacts *contact.Server
	Auth     *auth.Server

	// UploadDir is served read-only under /uploads, matching the relative
	// imagePath values the stores hand out.
	UploadDir string

	// AuthRequired gates writes behind the admin token. Off by default:
	// the mock contract keeps every endpoint open.
	AuthRequired bool
	JWT          *auth.TokenMaker
}

func NewHandler(deps Deps) http.Handler {
	r := chi.NewRouter()

	setupMiddleware(r, deps)
	setupMetrics(r, deps)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) })
	r.Get("/readyz", readyHandler(deps))

	r.Route("/api", func(api chi.Router) {
		if deps.AuthRequired {
			api.Use(writeGuard(deps.JWT))
		}

		api.Mount("/auth", deps.Auth.Routes())
		api.Mount("/products", deps.Products.Routes())
		api.Mount("/blogs", deps.Blogs.Routes())
		api.Mount("/careers", deps.Careers.Routes())
		api.Mount("/contact", deps.Contacts.Routes())
	})

	if deps.UploadDir != "" {
		fs := http.FileServer(http.Dir(deps.UploadDir))
		r.Handle("/uploads/*", http.StripPrefix("/uploads/", fs))
	}

	return r
}

func setupMiddleware(r *chi.Mux, deps Deps) {
	r.Use(chimw.RequestID)
	r.Use(kit.Recoverer(deps.Log))
	r.Use(kit.Logging(deps.Log))
}

func setupMetrics(r *chi.Mux, deps Deps) {
	if deps.Registry == nil {
		return
	}

	metrics := kit.NewMetrics(deps.Registry)
	r.Use(metrics.Middleware(deps.Service, kit.ChiRoutePatternOrPath))

	if !deps.MetricsEnabled {
		return
	}

	r.With(kit.MetricsAuth(deps.MetricsToken)).
		Handle("/metrics", promhttp.HandlerFor(deps.Registry, promhttp.HandlerOpts{}))
}

func readyHandler(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 1*time.Second)
		defer cancel()

		if err := deps.Products.Store.Ping(ctx); err != nil {
			if deps.Log != nil {
				deps.Log.Warn("readyz failed", zap.Error(err))
			}
			kit.WriteFail(w, http.StatusServiceUnavailable, "not ready")
			return
		}
		w.WriteHeader(http.StatusOK)
	}
}

// writeGuard requires the admin token on mutating requests only. Reads stay
// public, as do login and the public contact form.
func writeGuard(jwt *auth.TokenMaker) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		gated := auth.RequireAdmin(jwt)(next)

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			switch {
			case r.Method == http.MethodGet,
				r.Method == http.MethodHead,
				r.Method == http.MethodOptions:
				next.ServeHTTP(w, r)
			case strings.HasPrefix(r.URL.Path, "/api/auth/"):
				next.ServeHTTP(w, r)
			case r.Method == http.MethodPost && strings.TrimRight(r.URL.Path, "/") == "/api/contact":
				next.ServeHTTP(w, r)
			default:
				gated.ServeHTTP(w, r)
			}
		})
	}
}
