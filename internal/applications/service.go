package applications

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/preserveapp/preserve-backend/internal/users"
	"github.com/preserveapp/preserve-backend/pkg/db"
	"github.com/preserveapp/preserve-backend/pkg/db/models"
	"github.com/preserveapp/preserve-backend/pkg/enums"
	pkgerrors "github.com/preserveapp/preserve-backend/pkg/errors"
	"gorm.io/gorm"
)

// Service orchestrates preserver application review. Approval is what flips
// the clearance flag that gates matching and lifecycle routes.
type Service struct {
	db   *db.Client
	repo Repository
}

// ServiceParams groups dependencies for the applications service.
type ServiceParams struct {
	DB   *db.Client
	Repo Repository
}

// NewService builds an applications service.
func NewService(params ServiceParams) (*Service, error) {
	if params.DB == nil {
		return nil, errors.New("database client is required")
	}
	if params.Repo == nil {
		return nil, errors.New("repo is required")
	}
	return &Service{db: params.DB, repo: params.Repo}, nil
}

// Submit files the one-per-preserver application. A second submission
// conflicts regardless of the first one's status.
func (s *Service) Submit(ctx context.Context, preserverID uuid.UUID, req SubmitRequest) (*ApplicationResponse, error) {
	experience := strings.TrimSpace(req.Experience)
	reason := strings.TrimSpace(req.Reason)
	if experience == "" || reason == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "experience and reason are required")
	}

	if _, err := s.repo.FindByPreserver(ctx, preserverID); err == nil {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "application already submitted")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check existing application")
	}

	application := &models.Application{
		PreserverID: preserverID,
		Experience:  experience,
		Reason:      reason,
		Status:      enums.ApplicationStatusPending,
	}
	if err := s.repo.Create(ctx, application); err != nil {
		if db.IsUniqueViolation(err, "") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "application already submitted")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create application")
	}

	resp := FromModel(application)
	return &resp, nil
}

// StatusFor returns the preserver's own application, the poll target for the
// pending-approval screen.
func (s *Service) StatusFor(ctx context.Context, preserverID uuid.UUID) (*ApplicationResponse, error) {
	application, err := s.repo.FindByPreserver(ctx, preserverID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "application not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load application")
	}
	resp := FromModel(application)
	return &resp, nil
}

// Decide approves or rejects a pending application. Approval flips the
// preserver's clearance in the same transaction.
func (s *Service) Decide(ctx context.Context, applicationID uuid.UUID, approve bool) (*ApplicationResponse, error) {
	status := enums.ApplicationStatusRejected
	if approve {
		status = enums.ApplicationStatusApproved
	}
	now := time.Now().UTC()

	var decided *models.Application
	txErr := s.db.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		application, err := repo.FindByID(ctx, applicationID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "application not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load application")
		}

		affected, err := repo.UpdateDecision(ctx, applicationID, status, now)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update application")
		}
		if affected == 0 {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "application already decided").WithDetails(map[string]string{
				"status": application.Status.String(),
			})
		}

		if approve {
			preserverRepo := users.NewPreserverRepository(tx)
			if err := preserverRepo.SetClearance(ctx, application.PreserverID, true); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "grant clearance")
			}
		}

		application.Status = status
		application.DecidedAt = &now
		decided = application
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}

	resp := FromModel(decided)
	return &resp, nil
}

// SyncApprovals grants clearance to preservers whose approved application
// predates the flag flip, healing any partial decision. Returns how many
// rows were fixed.
func (s *Service) SyncApprovals(ctx context.Context, limit int) (int64, error) {
	rows, err := s.repo.ListApprovedWithoutClearance(ctx, limit)
	if err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list approved applications")
	}

	var fixed int64
	for _, application := range rows {
		err := s.db.WithTx(ctx, func(tx *gorm.DB) error {
			preserverRepo := users.NewPreserverRepository(tx)
			return preserverRepo.SetClearance(ctx, application.PreserverID, true)
		})
		if err != nil {
			return fixed, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "grant clearance")
		}
		fixed++
	}
	return fixed, nil
}
