package cron

import (
	"context"
	"fmt"
	"time"

	"github.com/preserveapp/preserve-backend/pkg/logger"
	"github.com/preserveapp/preserve-backend/pkg/metrics"
)

const defaultReviewHold = 5 * time.Minute

type pendingPublisher interface {
	PublishPendingBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

// PublishJobParams configure the scheduled assignment publisher.
type PublishJobParams struct {
	Logger *logger.Logger
	Repo   pendingPublisher
	// ReviewHold is how long a new assignment stays Pending before the
	// job opens it to preservers.
	ReviewHold time.Duration
	Metrics    *metrics.CronJobMetrics
}

// NewPublishJob builds the cron job that promotes held Pending assignments
// to Open once their review hold elapses.
func NewPublishJob(params PublishJobParams) (Job, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.Repo == nil {
		return nil, fmt.Errorf("assignments repository required")
	}
	hold := params.ReviewHold
	if hold <= 0 {
		hold = defaultReviewHold
	}
	return &publishJob{
		logg:    params.Logger,
		repo:    params.Repo,
		hold:    hold,
		metrics: params.Metrics,
		now:     time.Now,
	}, nil
}

type publishJob struct {
	logg    *logger.Logger
	repo    pendingPublisher
	hold    time.Duration
	metrics *metrics.CronJobMetrics
	now     func() time.Time
}

func (j *publishJob) Name() string { return "assignment-publish" }

func (j *publishJob) Run(ctx context.Context) error {
	cutoff := j.now().UTC().Add(-j.hold)
	published, err := j.repo.PublishPendingBefore(ctx, cutoff)
	if err != nil {
		return fmt.Errorf("publish pending assignments: %w", err)
	}
	j.metrics.AddRowsProcessed(j.Name(), published)
	logCtx := j.logg.WithFields(ctx, map[string]any{"count": published})
	j.logg.Info(logCtx, "assignment publish loop complete")
	return nil
}
