package controllers

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/preserveapp/preserve-backend/api/middleware"
	"github.com/preserveapp/preserve-backend/api/responses"
	"github.com/preserveapp/preserve-backend/internal/users"
	"github.com/preserveapp/preserve-backend/pkg/enums"
	pkgerrors "github.com/preserveapp/preserve-backend/pkg/errors"
	"github.com/preserveapp/preserve-backend/pkg/logger"
	"gorm.io/gorm"
)

// UserProfile returns the authenticated user, with the clearance flag
// attached for preservers.
func UserProfile(repo *users.Repository, preserverRepo *users.PreserverRepository, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if repo == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "users repository unavailable"))
			return
		}

		userID, err := authenticatedUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		user, err := repo.FindByID(r.Context(), userID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeNotFound, "user not found"))
				return
			}
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load user"))
			return
		}

		if user.UserType == enums.UserTypePreserver && preserverRepo != nil {
			preserver, err := preserverRepo.FindByID(r.Context(), userID)
			if err == nil {
				responses.WriteSuccess(w, users.FromModelWithClearance(user, preserver.Clearance))
				return
			}
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load preserver profile"))
				return
			}
		}

		responses.WriteSuccess(w, users.FromModel(user))
	}
}

func authenticatedUserID(r *http.Request) (uuid.UUID, error) {
	raw := middleware.UserIDFromContext(r.Context())
	if raw == "" {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user context missing")
	}
	userID, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid user id")
	}
	return userID, nil
}
