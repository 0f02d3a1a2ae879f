package decision

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/inovspin/inovspin/internal/logging"
	"github.com/inovspin/inovspin/internal/metrics"
	"github.com/inovspin/inovspin/internal/model"
	"github.com/inovspin/inovspin/internal/risk"
	"github.com/inovspin/inovspin/internal/store"
)

// DefaultHistoryLimit is the history page size when the caller gives none.
const DefaultHistoryLimit = 10

// Ledger is the durable history the service records into.
type Ledger interface {
	Append(ctx context.Context, rec store.Record) (store.Entry, error)
	Recent(ctx context.Context, limit int) ([]store.Entry, error)
}

// Service runs one inference cycle per call: classifier, overlay, ledger.
// It keeps no per-request state and is safe for concurrent use.
type Service struct {
	adapter *model.Adapter
	ledger  Ledger
	rules   []risk.Rule
	logger  *slog.Logger
}

// Option configures a Service.
type Option func(*Service)

// WithRules replaces the overlay rule list.
func WithRules(rules []risk.Rule) Option {
	return func(s *Service) { s.rules = rules }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Service) { s.logger = l }
}

// NewService creates a decision service. adapter may wrap a nil classifier,
// in which case every Predict fails with *model.ErrModelUnavailable while
// History keeps working.
func NewService(adapter *model.Adapter, ledger Ledger, opts ...Option) *Service {
	s := &Service{
		adapter: adapter,
		ledger:  ledger,
		rules:   risk.DefaultRules(),
		logger:  logging.Discard(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ModelLoaded reports whether predictions can be served.
func (s *Service) ModelLoaded() bool {
	return s.adapter.Loaded()
}

// Predict scores rd and records the decision. A decision is returned only
// after it has been appended to the ledger.
func (s *Service) Predict(ctx context.Context, rd risk.Reading) (*risk.Decision, error) {
	start := time.Now()
	defer func() {
		metrics.InferenceLatency.Observe(time.Since(start).Seconds())
	}()

	if !s.adapter.Loaded() {
		metrics.PredictFailures.WithLabelValues("model_unavailable").Inc()
		return nil, &model.ErrModelUnavailable{}
	}

	est, err := s.adapter.Estimate(rd.Features())
	if err != nil {
		metrics.PredictFailures.WithLabelValues(failureKind(err)).Inc()
		return nil, fmt.Errorf("estimate failure probability: %w", err)
	}

	dec, rule := risk.Apply(s.rules, &risk.Input{
		Reading:     rd,
		Probability: est.Probability,
		Label:       est.Label,
	})

	entry, err := s.ledger.Append(ctx, store.Record{
		TemperatureC: rd.TemperatureC,
		VibrationMMS: rd.VibrationMMS,
		RiskPct:      dec.RiskPct,
		Severity:     dec.Severity,
	})
	metrics.LedgerOperations.WithLabelValues("append", metrics.Status(err)).Inc()
	if err != nil {
		metrics.PredictFailures.WithLabelValues("storage").Inc()
		s.logger.Error("ledger append failed", "error", err)
		return nil, fmt.Errorf("record decision: %w", err)
	}

	metrics.DecisionsTotal.WithLabelValues(dec.Severity.String()).Inc()
	s.logger.Info("decision recorded",
		"id", entry.ID,
		"severity", dec.Severity,
		"risk_pct", risk.Round1(dec.RiskPct),
		"probability", est.Probability,
		"rule", rule,
	)
	return &dec, nil
}

// History returns up to limit recorded decisions, most recent first.
func (s *Service) History(ctx context.Context, limit int) ([]store.Entry, error) {
	entries, err := s.ledger.Recent(ctx, limit)
	metrics.LedgerOperations.WithLabelValues("recent", metrics.Status(err)).Inc()
	if err != nil {
		return nil, fmt.Errorf("read history: %w", err)
	}
	return entries, nil
}

func failureKind(err error) string {
	var unavailable *model.ErrModelUnavailable
	if errors.As(err, &unavailable) {
		return "model_unavailable"
	}
	return "computation"
}
