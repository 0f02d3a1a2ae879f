package api

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/gorilla/handlers"
	"github.com/inovspin/inovspin/internal/decision"
	"github.com/inovspin/inovspin/internal/metrics"
	"github.com/inovspin/inovspin/internal/risk"
	"github.com/inovspin/inovspin/internal/store"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// RequestIDHeader carries the request correlation id.
const RequestIDHeader = "X-Request-ID"

// Predictor is the decision service as seen by the HTTP layer.
type Predictor interface {
	Predict(ctx context.Context, rd risk.Reading) (*risk.Decision, error)
	History(ctx context.Context, limit int) ([]store.Entry, error)
	ModelLoaded() bool
}

var _ Predictor = (*decision.Service)(nil)

// NewRouter returns the HTTP handler for the service.
func NewRouter(svc Predictor, logger *slog.Logger) http.Handler {
	h := &Handler{svc: svc, logger: logger}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(requestID)
	r.Use(accessLog(logger))

	r.Post("/predict", h.Predict)
	r.Get("/history", h.History)
	r.Get("/healthz", h.Health)
	r.Handle("/metrics", promhttp.Handler())

	cors := handlers.CORS(
		handlers.AllowedOrigins([]string{"*"}),
		handlers.AllowedMethods([]string{http.MethodGet, http.MethodPost, http.MethodOptions}),
		handlers.AllowedHeaders([]string{"Content-Type", RequestIDHeader}),
	)
	return cors(r)
}

// requestID propagates the caller's X-Request-ID or assigns a new one.
func requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(RequestIDHeader, id)
		next.ServeHTTP(w, r)
	})
}

func accessLog(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)

			route := r.URL.Path
			if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
				route = rctx.RoutePattern()
			}
			elapsed := time.Since(start)
			metrics.RequestDuration.
				WithLabelValues(r.Method, route, strconv.Itoa(ww.Status())).
				Observe(elapsed.Seconds())
			logger.Info("http request",
				"method", r.Method,
				"route", route,
				"status", ww.Status(),
				"duration", elapsed,
				"request_id", ww.Header().Get(RequestIDHeader),
			)
		})
	}
}
