package cmd

import (
	"errors"
	"fmt"

	"github.com/inovspin/inovspin/internal/cache"
	"github.com/inovspin/inovspin/internal/decision"
	"github.com/inovspin/inovspin/internal/metrics"
	"github.com/inovspin/inovspin/internal/model"
	"github.com/inovspin/inovspin/internal/risk"
	"github.com/inovspin/inovspin/internal/store"
	"github.com/spf13/cobra"
)

// openLedger opens the store and wraps its ledger in the history cache when
// one is configured. The returned func releases everything it opened.
func openLedger(cmd *cobra.Command) (decision.Ledger, func(), error) {
	dbPath, err := resolveDBPath(cmd)
	if err != nil {
		return nil, nil, fmt.Errorf("resolve DB path: %w", err)
	}
	st, err := store.Open(dbPath)
	if err != nil {
		return nil, nil, fmt.Errorf("open store: %w", err)
	}
	closers := []func(){func() { st.Close() }}
	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	var ledger decision.Ledger = st.Ledger()
	if cfg.Cache.RedisAddr != "" {
		client, err := cache.NewRedisClient(cmd.Context(), cfg.Cache.RedisAddr, cfg.Cache.RedisPassword, cfg.Cache.RedisDB)
		if err != nil {
			logger.Warn("history cache disabled", "error", err)
		} else {
			closers = append(closers, func() { client.Close() })
			ledger = cache.NewHistoryCache(ledger, client, cfg.Cache.TTL, logger)
			logger.Info("history cache enabled", "addr", cfg.Cache.RedisAddr, "ttl", cfg.Cache.TTL)
		}
	}
	logger.Debug("ledger ready", "db", dbPath)
	return ledger, cleanup, nil
}

// buildService opens the ledger, loads the classifier once and wires the
// decision service.
func buildService(cmd *cobra.Command) (*decision.Service, func(), error) {
	ledger, cleanup, err := openLedger(cmd)
	if err != nil {
		return nil, nil, err
	}

	adapter, err := loadAdapter(cfg.Model.Path)
	if err != nil {
		cleanup()
		return nil, nil, err
	}

	svc := decision.NewService(adapter, ledger,
		decision.WithRules(risk.RulesFor(risk.Options{LabelForcesCritical: cfg.Rules.LabelForcesCritical})),
		decision.WithLogger(logger),
	)
	logger.Debug("decision service ready", "model_loaded", adapter.Loaded())
	return svc, cleanup, nil
}

// historyService wires a service for ledger reads only. The classifier
// artifact is never opened.
func historyService(cmd *cobra.Command) (*decision.Service, func(), error) {
	ledger, cleanup, err := openLedger(cmd)
	if err != nil {
		return nil, nil, err
	}
	return decision.NewService(model.NewAdapter(nil), ledger, decision.WithLogger(logger)), cleanup, nil
}

// loadAdapter loads the artifact at path. A missing artifact is not fatal:
// history stays available and predictions fail as model unavailable.
func loadAdapter(path string) (*model.Adapter, error) {
	forest, art, err := model.Load(path)
	var unavailable *model.ErrModelUnavailable
	switch {
	case errors.As(err, &unavailable):
		logger.Warn("classifier not loaded; predictions will be unavailable", "path", path)
		metrics.ModelLoaded.Set(0)
		return model.NewAdapter(nil), nil
	case err != nil:
		return nil, fmt.Errorf("load model: %w", err)
	}

	sum := forest.Summary()
	logger.Info("classifier loaded",
		"path", path,
		"format_version", art.FormatVersion,
		"trees", sum.Trees,
		"max_depth", sum.MaxDepth,
	)
	metrics.ModelLoaded.Set(1)
	return model.NewAdapter(forest), nil
}
