package jobs

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"
)

// OverdueRefresher flips sent invoices past due into overdue state.
type OverdueRefresher interface {
	RefreshOverdue(ctx context.Context, asOf time.Time) (int64, error)
}

// ReportInvalidator drops cached report figures after data changes.
type ReportInvalidator interface {
	Invalidate(ctx context.Context) error
}

// NewOverdueRefreshHandler builds the handler for TaskOverdueRefresh.
// The report cache is bumped only when the sweep changed rows.
func NewOverdueRefreshHandler(svc OverdueRefresher, reports ReportInvalidator, logger *slog.Logger) asynq.HandlerFunc {
	return func(ctx context.Context, t *asynq.Task) error {
		var payload OverdueRefreshPayload
		if err := json.Unmarshal(t.Payload(), &payload); err != nil {
			return asynq.SkipRetry
		}
		asOf := payload.AsOf
		if asOf.IsZero() {
			asOf = time.Now()
		}

		updated, err := svc.RefreshOverdue(ctx, asOf)
		if err != nil {
			logger.Error("overdue refresh", slog.Any("error", err))
			return err
		}
		logger.Info("overdue refresh complete",
			slog.Int64("updated", updated),
			slog.Time("as_of", asOf),
		)

		if updated > 0 && reports != nil {
			if err := reports.Invalidate(ctx); err != nil {
				logger.Warn("invalidate report cache", slog.Any("error", err))
			}
		}
		return nil
	}
}
