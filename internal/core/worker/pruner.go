package worker

import (
	"context"
	"log/slog"
	"time"

	"github.com/marcusziade/compiledthoughts/internal/infra/storage"
)

// Pruner deletes old presence history based on retention policy.
type Pruner struct {
	retention time.Duration
	history   storage.HistoryRepository
	log       *slog.Logger
}

// NewPruner creates a new Pruner worker.
func NewPruner(retention time.Duration, history storage.HistoryRepository, log *slog.Logger) *Pruner {
	if log == nil {
		log = slog.Default()
	}
	return &Pruner{
		retention: retention,
		history:   history,
		log:       log,
	}
}

// Start runs the pruner loop.
func (p *Pruner) Start(ctx context.Context) {
	if p.retention <= 0 {
		return // Retention disabled
	}

	// Check interval: 10% of retention, clamped to [1m, 1h]
	interval := min(p.retention/10, 1*time.Hour)
	interval = max(interval, 1*time.Minute)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	// Initial prune
	p.prune(ctx)

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.prune(ctx)
		}
	}
}

func (p *Pruner) prune(ctx context.Context) {
	cutoff := time.Now().Add(-p.retention)

	deleted, err := p.history.DeleteOlderThan(ctx, cutoff)
	if err != nil {
		p.log.Error("failed to prune presence history", "error", err)
		return
	}
	if deleted > 0 {
		p.log.Debug("pruned presence history", "deleted", deleted)
	}
}
