// Package stats accumulates per-type turnover totals and file counts.
// Recording is safe under concurrent callers even though the current walk is
// sequential, so a parallel walk would not need changes here.
package stats

import (
	"log/slog"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/docflow-tools/finstat/constants"
	"github.com/docflow-tools/finstat/internal/entity"
)

// TypeStats is a read-only view of one document type's accumulation.
type TypeStats struct {
	Total decimal.Decimal
	Count int
}

// Aggregator holds the running totals. Created once per run, mutated during
// processing, read-only afterwards.
type Aggregator struct {
	mu     sync.Mutex
	totals map[constants.DocType]decimal.Decimal
	counts map[constants.DocType]int
	logger *slog.Logger
}

func NewAggregator(logger *slog.Logger) *Aggregator {
	if logger == nil {
		logger = slog.Default()
	}
	a := &Aggregator{
		totals: make(map[constants.DocType]decimal.Decimal, len(constants.DocTypes)),
		counts: make(map[constants.DocType]int, len(constants.DocTypes)),
		logger: logger,
	}
	for _, t := range constants.DocTypes {
		a.totals[t] = decimal.Zero
		a.counts[t] = 0
	}
	return a
}

// Record adds one extracted amount under its document type. Unknown types
// are logged and ignored rather than invented on the fly.
func (a *Aggregator) Record(doc entity.Document) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if _, ok := a.totals[doc.Type]; !ok {
		a.logger.Warn("stats.record.unsupported_type", "type", string(doc.Type))
		return
	}
	a.totals[doc.Type] = a.totals[doc.Type].Add(doc.Amount)
	a.counts[doc.Type]++
}

// Snapshot copies the current totals and counts.
func (a *Aggregator) Snapshot() map[constants.DocType]TypeStats {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make(map[constants.DocType]TypeStats, len(a.totals))
	for t, total := range a.totals {
		out[t] = TypeStats{Total: total, Count: a.counts[t]}
	}
	return out
}
