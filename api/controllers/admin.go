package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/preserveapp/preserve-backend/api/responses"
	"github.com/preserveapp/preserve-backend/api/validators"
	"github.com/preserveapp/preserve-backend/internal/applications"
	"github.com/preserveapp/preserve-backend/internal/assignments"
	pkgerrors "github.com/preserveapp/preserve-backend/pkg/errors"
	"github.com/preserveapp/preserve-backend/pkg/logger"
)

// AdminApplicationDecision approves or rejects a pending application.
// Approval flips the preserver's clearance in the same transaction.
func AdminApplicationDecision(svc *applications.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "applications service unavailable"))
			return
		}

		raw := strings.TrimSpace(chi.URLParam(r, "applicationId"))
		applicationID, err := uuid.Parse(raw)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid application id"))
			return
		}

		var payload applications.DecisionRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.Decide(r.Context(), applicationID, payload.Approve)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

// AdminAssignmentComplete closes a Submitted assignment.
func AdminAssignmentComplete(svc *assignments.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "assignments service unavailable"))
			return
		}

		assignmentID, err := parseAssignmentID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.Complete(r.Context(), assignmentID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}
