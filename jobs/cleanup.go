package jobs

import (
	"context"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"

	jobmetrics "github.com/adts-project/adts/internal/jobs"
	"github.com/adts-project/adts/internal/shared"
)

// OTPStore is the slice of the auth repository the purge job needs.
type OTPStore interface {
	PurgeExpiredOTPs(ctx context.Context) (int64, error)
}

// OTPPurgeJob deletes expired recovery codes.
type OTPPurgeJob struct {
	store   OTPStore
	logger  *slog.Logger
	metrics *jobmetrics.Metrics
}

// NewOTPPurgeJob constructs OTPPurgeJob.
func NewOTPPurgeJob(store OTPStore, logger *slog.Logger, metrics *jobmetrics.Metrics) *OTPPurgeJob {
	return &OTPPurgeJob{store: store, logger: logger, metrics: metrics}
}

// Handle processes TaskTypeOTPPurge tasks.
func (j *OTPPurgeJob) Handle(ctx context.Context, _ *asynq.Task) error {
	tracker := j.metrics.Track("otp_purge")
	removed, err := j.store.PurgeExpiredOTPs(ctx)
	if err != nil {
		j.logger.Error("purge expired otps", slog.Any("error", err))
		return tracker.End(err)
	}
	if removed > 0 {
		j.logger.Info("expired otps purged", slog.Int64("removed", removed))
	}
	return tracker.End(nil)
}

// IdempotencyCleanupJob prunes idempotency keys older than the retention
// window.
type IdempotencyCleanupJob struct {
	store     *shared.IdempotencyStore
	retention time.Duration
	logger    *slog.Logger
	metrics   *jobmetrics.Metrics
}

// NewIdempotencyCleanupJob constructs IdempotencyCleanupJob.
func NewIdempotencyCleanupJob(store *shared.IdempotencyStore, retention time.Duration, logger *slog.Logger, metrics *jobmetrics.Metrics) *IdempotencyCleanupJob {
	if retention == 0 {
		retention = 24 * time.Hour
	}
	return &IdempotencyCleanupJob{store: store, retention: retention, logger: logger, metrics: metrics}
}

// Handle processes TaskTypeIdempotencyCleanup tasks.
func (j *IdempotencyCleanupJob) Handle(ctx context.Context, _ *asynq.Task) error {
	tracker := j.metrics.Track("idempotency_cleanup")
	if err := j.store.Cleanup(ctx, j.retention); err != nil {
		j.logger.Error("cleanup idempotency keys", slog.Any("error", err))
		return tracker.End(err)
	}
	return tracker.End(nil)
}
