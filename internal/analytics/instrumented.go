package analytics

import (
	"context"
	"time"

	"storefront/internal/logger"
	"storefront/internal/metrics"
	"storefront/internal/models"
)

// Instrumented envuelve un Engine con logs y métricas por consulta
type Instrumented struct {
	next Engine
	log  logger.Logger
}

func NewInstrumented(next Engine, log logger.Logger) *Instrumented {
	return &Instrumented{next: next, log: log}
}

func (i *Instrumented) BestSellers(ctx context.Context, limit int) ([]models.BestSeller, error) {
	start := time.Now()
	rows, err := i.next.BestSellers(ctx, limit)
	i.observe(ctx, "best_sellers", start, len(rows), err, "limit", limit)
	return rows, err
}

func (i *Instrumented) CategoryRatings(ctx context.Context) ([]models.CategoryRating, error) {
	start := time.Now()
	rows, err := i.next.CategoryRatings(ctx)
	i.observe(ctx, "category_ratings", start, len(rows), err)
	return rows, err
}

func (i *Instrumented) OrderHistory(ctx context.Context, userID string) ([]models.OrderHistoryEntry, error) {
	start := time.Now()
	rows, err := i.next.OrderHistory(ctx, userID)
	i.observe(ctx, "order_history", start, len(rows), err, "user_id", userID)
	return rows, err
}

func (i *Instrumented) observe(ctx context.Context, query string, start time.Time, rows int, err error, kv ...any) {
	elapsed := time.Since(start)
	metrics.ObserveQuery(query, elapsed, err)

	log := i.log.WithContext(ctx).With(append([]any{"query", query, "duration", elapsed}, kv...)...)
	if err != nil {
		log.Warn("analytics query failed", "error", err)
		return
	}
	log.Debug("analytics query completed", "rows", rows)
}
