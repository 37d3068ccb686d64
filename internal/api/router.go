package api

import (
	"delivery-cost-service/internal/api/dto"
	"delivery-cost-service/internal/api/handlers"
	"delivery-cost-service/internal/domain"
	"delivery-cost-service/internal/platform/obs"
	"log/slog"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/time/rate"
)

// Deps carries what the HTTP layer needs from the composition root.
type Deps struct {
	Quotes  handlers.QuoteCalculator
	Catalog *domain.Catalog
	Version string
	Metrics *obs.Metrics
	Logger  *slog.Logger

	// RateLimit applies to cost calculations only. Zero disables it.
	RateLimit rate.Limit
	RateBurst int

	Started time.Time
}

type route struct {
	method  string
	pattern string
	handler http.HandlerFunc
}

// NewRouter wires HTTP handlers with their dependencies and returns an http.Handler.
// This is the API composition root (handlers stay unaware of concrete adapters).
func NewRouter(d Deps) http.Handler {
	logger := d.Logger
	if logger == nil {
		logger = slog.Default()
	}

	info := &handlers.InfoHandler{
		Catalog: d.Catalog,
		Version: d.Version,
		Started: d.Started,
	}
	quotes := &handlers.QuoteHandler{
		Service: d.Quotes,
		Catalog: d.Catalog,
	}

	calculate := http.HandlerFunc(quotes.Calculate)
	if d.RateLimit > 0 {
		calculate = rateLimitMiddleware(rate.NewLimiter(d.RateLimit, max(d.RateBurst, 1)), calculate)
	}

	routes := []route{
		{http.MethodGet, "/", info.Root},
		{http.MethodGet, "/test", info.Test},
		{http.MethodGet, "/health", info.Health},
		{http.MethodGet, "/catalog", info.CatalogView},
		{http.MethodPost, "/calculate-delivery-cost", calculate},
		{http.MethodGet, "/metrics", d.Metrics.Handler().ServeHTTP},
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(loggingMiddleware(logger, d.Metrics))
	r.Use(recoverMiddleware(logger))

	for _, rt := range routes {
		r.Method(rt.method, rt.pattern, rt.handler)
	}

	available := make([]string, 0, len(routes))
	allowed := make(map[string][]string)
	for _, rt := range routes {
		available = append(available, rt.method+" "+rt.pattern)
		allowed[rt.pattern] = append(allowed[rt.pattern], rt.method)
	}
	for _, methods := range allowed {
		sort.Strings(methods)
	}

	r.NotFound(func(w http.ResponseWriter, req *http.Request) {
		handlers.WriteJSON(w, req, http.StatusNotFound, dto.NotFoundResponse{
			Error:           "Route not found",
			AvailableRoutes: available,
		})
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, req *http.Request) {
		if methods, ok := allowed[req.URL.Path]; ok {
			w.Header().Set("Allow", strings.Join(methods, ", "))
		}
		handlers.WriteJSON(w, req, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
	})

	return r
}
