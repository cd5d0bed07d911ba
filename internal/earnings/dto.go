package earnings

import (
	"time"

	"github.com/preserveapp/preserve-backend/internal/assignments"
	"github.com/shopspring/decimal"
)

// Summary aggregates a preserver's completed work over a period.
type Summary struct {
	From          time.Time       `json:"from"`
	To            time.Time       `json:"to"`
	TotalBase     decimal.Decimal `json:"total_base"`
	TotalTips     decimal.Decimal `json:"total_tips"`
	Total         decimal.Decimal `json:"total"`
	Count         int             `json:"count"`
	TotalDuration time.Duration   `json:"-"`
	TotalMinutes  float64         `json:"total_minutes"`
}

// DayGroup is one calendar day's slice of a summary, for display.
type DayGroup struct {
	Day       string          `json:"day"`
	TotalBase decimal.Decimal `json:"total_base"`
	TotalTips decimal.Decimal `json:"total_tips"`
	Total     decimal.Decimal `json:"total"`
	Count     int             `json:"count"`
}

// HistoryEntry is one completed assignment in the earnings history.
type HistoryEntry struct {
	Assignment assignments.Response `json:"assignment"`
	Earned     decimal.Decimal      `json:"earned"`
}
