package earnings

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/preserveapp/preserve-backend/internal/assignments"
	"github.com/preserveapp/preserve-backend/pkg/db/models"
	pkgerrors "github.com/preserveapp/preserve-backend/pkg/errors"
	"github.com/shopspring/decimal"
)

// Service aggregates completed assignments into earnings views.
type Service struct {
	repo Repository
}

// ServiceParams groups dependencies for the earnings service.
type ServiceParams struct {
	Repo Repository
}

// NewService builds an earnings service.
func NewService(params ServiceParams) (*Service, error) {
	if params.Repo == nil {
		return nil, errors.New("repo is required")
	}
	return &Service{repo: params.Repo}, nil
}

// Summarize totals the preserver's completed work over the half-open window
// [from, to). A row with a missing start or end timestamp contributes zero
// duration but its money still counts.
func (s *Service) Summarize(ctx context.Context, preserverID uuid.UUID, from, to time.Time) (*Summary, error) {
	if !to.After(from) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "period end must be after period start")
	}

	rows, err := s.repo.ListCompletedInPeriod(ctx, preserverID, from, to)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list completed assignments")
	}

	summary := &Summary{
		From:      from,
		To:        to,
		TotalBase: decimal.Zero,
		TotalTips: decimal.Zero,
		Total:     decimal.Zero,
	}
	for _, row := range rows {
		summary.TotalBase = summary.TotalBase.Add(row.BasePrice)
		summary.TotalTips = summary.TotalTips.Add(row.Tips)
		summary.Total = summary.Total.Add(row.Total())
		summary.TotalDuration += row.Duration()
		summary.Count++
	}
	summary.TotalMinutes = summary.TotalDuration.Minutes()
	return summary, nil
}

// GroupByDay buckets completed assignments by the calendar day their window
// starts on, evaluated in the given zone. Pure post-processing, no I/O.
func GroupByDay(rows []models.Assignment, zone *time.Location) []DayGroup {
	if zone == nil {
		zone = time.UTC
	}

	byDay := make(map[string]*DayGroup)
	for _, row := range rows {
		day := row.StartTime.In(zone).Format("2006-01-02")
		group, ok := byDay[day]
		if !ok {
			group = &DayGroup{
				Day:       day,
				TotalBase: decimal.Zero,
				TotalTips: decimal.Zero,
				Total:     decimal.Zero,
			}
			byDay[day] = group
		}
		group.TotalBase = group.TotalBase.Add(row.BasePrice)
		group.TotalTips = group.TotalTips.Add(row.Tips)
		group.Total = group.Total.Add(row.Total())
		group.Count++
	}

	groups := make([]DayGroup, 0, len(byDay))
	for _, group := range byDay {
		groups = append(groups, *group)
	}
	sort.Slice(groups, func(i, j int) bool { return groups[i].Day > groups[j].Day })
	return groups
}

// History lists the preserver's completed assignments, newest first, each
// with the amount earned.
func (s *Service) History(ctx context.Context, preserverID uuid.UUID) ([]HistoryEntry, error) {
	rows, err := s.repo.ListCompleted(ctx, preserverID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list completed assignments")
	}

	entries := make([]HistoryEntry, 0, len(rows))
	for i := range rows {
		entries = append(entries, HistoryEntry{
			Assignment: assignments.FromModel(&rows[i]),
			Earned:     rows[i].Total(),
		})
	}
	return entries, nil
}
