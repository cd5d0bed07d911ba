package cron

import (
	"context"
	"fmt"

	"github.com/preserveapp/preserve-backend/pkg/logger"
	"github.com/preserveapp/preserve-backend/pkg/metrics"
)

const approvalSyncBatchSize = 100

type approvalSyncer interface {
	SyncApprovals(ctx context.Context, limit int) (int64, error)
}

// ApprovalSyncJobParams configure the clearance reconciliation job.
type ApprovalSyncJobParams struct {
	Logger    *logger.Logger
	Service   approvalSyncer
	BatchSize int
	Metrics   *metrics.CronJobMetrics
}

// NewApprovalSyncJob builds the cron job that flips clearance for preservers
// whose application was approved but whose profile missed the update.
func NewApprovalSyncJob(params ApprovalSyncJobParams) (Job, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.Service == nil {
		return nil, fmt.Errorf("applications service required")
	}
	batch := params.BatchSize
	if batch <= 0 {
		batch = approvalSyncBatchSize
	}
	return &approvalSyncJob{
		logg:    params.Logger,
		service: params.Service,
		batch:   batch,
		metrics: params.Metrics,
	}, nil
}

type approvalSyncJob struct {
	logg    *logger.Logger
	service approvalSyncer
	batch   int
	metrics *metrics.CronJobMetrics
}

func (j *approvalSyncJob) Name() string { return "approval-sync" }

func (j *approvalSyncJob) Run(ctx context.Context) error {
	healed, err := j.service.SyncApprovals(ctx, j.batch)
	if err != nil {
		return fmt.Errorf("sync approvals: %w", err)
	}
	j.metrics.AddRowsProcessed(j.Name(), healed)
	logCtx := j.logg.WithFields(ctx, map[string]any{"count": healed})
	j.logg.Info(logCtx, "approval sync loop complete")
	return nil
}
