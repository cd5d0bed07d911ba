package middleware

import (
	"context"
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/preserveapp/preserve-backend/api/responses"
	"github.com/preserveapp/preserve-backend/pkg/db/models"
	"github.com/preserveapp/preserve-backend/pkg/enums"
	pkgerrors "github.com/preserveapp/preserve-backend/pkg/errors"
	"github.com/preserveapp/preserve-backend/pkg/logger"
	"gorm.io/gorm"
)

type preserverFinder interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Preserver, error)
}

// RequireClearance gates preserver-facing operations. The caller must be a
// preserver whose application was approved; clients and admins never pass.
func RequireClearance(repo preserverFinder, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			if UserTypeFromContext(ctx) != string(enums.UserTypePreserver) {
				responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeForbidden, "preserver access required"))
				return
			}

			userID, err := uuid.Parse(UserIDFromContext(ctx))
			if err != nil {
				responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "user context missing"))
				return
			}

			preserver, err := repo.FindByID(ctx, userID)
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeForbidden, "preserver profile not found"))
					return
				}
				responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load preserver profile"))
				return
			}
			if !preserver.Clearance {
				responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeForbidden, "clearance required"))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
