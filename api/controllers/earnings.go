package controllers

import (
	"net/http"
	"strings"
	"time"

	"github.com/preserveapp/preserve-backend/api/responses"
	"github.com/preserveapp/preserve-backend/internal/earnings"
	pkgerrors "github.com/preserveapp/preserve-backend/pkg/errors"
	"github.com/preserveapp/preserve-backend/pkg/logger"
)

const defaultEarningsPeriodDays = 7

// EarningsSummary totals the caller's completed work over [from, to),
// defaulting to the trailing week.
func EarningsSummary(svc *earnings.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "earnings service unavailable"))
			return
		}

		preserverID, err := authenticatedUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		to, err := parseTimeParam(r.URL.Query().Get("to"), "to", time.Now().UTC())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		from, err := parseTimeParam(r.URL.Query().Get("from"), "from", to.Add(-defaultEarningsPeriodDays*24*time.Hour))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.Summarize(r.Context(), preserverID, from, to)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

// EarningsHistory lists the caller's completed assignments, newest first.
func EarningsHistory(svc *earnings.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "earnings service unavailable"))
			return
		}

		preserverID, err := authenticatedUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.History(r.Context(), preserverID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

func parseTimeParam(raw, field string, fallback time.Time) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return fallback, nil
	}
	t, err := time.Parse(time.RFC3339Nano, raw)
	if err != nil {
		t, err = time.Parse(time.RFC3339, raw)
		if err != nil {
			return time.Time{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid "+field)
		}
	}
	return t, nil
}
