package assignments

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/preserveapp/preserve-backend/pkg/db/models"
	"github.com/preserveapp/preserve-backend/pkg/db/types"
	"github.com/preserveapp/preserve-backend/pkg/enums"
	pkgerrors "github.com/preserveapp/preserve-backend/pkg/errors"
	"github.com/preserveapp/preserve-backend/pkg/pagination"
	"gorm.io/gorm"
)

const assignmentUnavailableMessage = "assignment no longer available"

// Service owns the assignment lifecycle. Every transition is a guarded
// conditional update; the service never writes a status the table of allowed
// transitions does not permit.
type Service struct {
	repo Repository
	now  func() time.Time
}

// ServiceParams groups dependencies for the assignments service.
type ServiceParams struct {
	Repo Repository
	Now  func() time.Time
}

// NewService builds an assignments service.
func NewService(params ServiceParams) (*Service, error) {
	if params.Repo == nil {
		return nil, errors.New("repo is required")
	}
	now := params.Now
	if now == nil {
		now = func() time.Time { return time.Now().UTC() }
	}
	return &Service{repo: params.Repo, now: now}, nil
}

// Create validates and inserts a new assignment. New rows always start
// Pending with no preserver attached.
func (s *Service) Create(ctx context.Context, clientID uuid.UUID, req CreateRequest) (*Response, error) {
	if req.LocationID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "location_id is required")
	}
	if strings.TrimSpace(req.Description) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "description is required")
	}
	if req.BasePrice.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "base_price must not be negative")
	}
	if req.Tips.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "tips must not be negative")
	}
	if req.StartTime.IsZero() || req.EndTime.IsZero() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "start_time and end_time are required")
	}
	if !req.EndTime.After(req.StartTime) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "end_time must be after start_time")
	}

	assignment := &models.Assignment{
		ClientID:    clientID,
		LocationID:  req.LocationID,
		Description: strings.TrimSpace(req.Description),
		BasePrice:   req.BasePrice,
		Tips:        req.Tips,
		StartTime:   req.StartTime,
		EndTime:     req.EndTime,
		Status:      enums.AssignmentStatusPending,
	}
	if err := s.repo.Insert(ctx, assignment); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create assignment")
	}

	resp := FromModel(assignment)
	return &resp, nil
}

// Get loads a single assignment with its location and poster.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Response, error) {
	assignment, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := FromModel(assignment)
	return &resp, nil
}

// ListOpen pages through claimable assignments, newest first.
func (s *Service) ListOpen(ctx context.Context, params pagination.Params) ([]Response, *pagination.Cursor, error) {
	rows, cursor, err := s.repo.ListOpen(ctx, params)
	if err != nil {
		return nil, nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list open assignments")
	}
	return FromModels(rows), cursor, nil
}

// GetActiveForPreserver returns the preserver's current Assigned or Started
// assignment, or nil when there is none.
func (s *Service) GetActiveForPreserver(ctx context.Context, preserverID uuid.UUID) (*Response, error) {
	assignment, err := s.repo.GetAssignedForPreserver(ctx, preserverID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load active assignment")
	}
	if assignment == nil {
		return nil, nil
	}
	resp := FromModel(assignment)
	return &resp, nil
}

// Publish promotes a Pending assignment to Open so preservers can see it.
func (s *Service) Publish(ctx context.Context, id uuid.UUID) (*Response, error) {
	affected, err := s.repo.UpdateStatus(ctx, id, enums.AssignmentStatusPending, enums.AssignmentStatusOpen)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "publish assignment")
	}
	if affected == 0 {
		return nil, s.transitionFailure(ctx, id, enums.AssignmentStatusPending)
	}
	return s.Get(ctx, id)
}

// Claim races to take ownership of an Open assignment. Exactly one caller
// can win; everyone else gets a conflict.
func (s *Service) Claim(ctx context.Context, id, preserverID uuid.UUID) (*Response, error) {
	affected, err := s.repo.Claim(ctx, id, preserverID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "claim assignment")
	}
	if affected == 0 {
		if _, loadErr := s.load(ctx, id); loadErr != nil {
			return nil, loadErr
		}
		return nil, pkgerrors.New(pkgerrors.CodeConflict, assignmentUnavailableMessage)
	}
	return s.Get(ctx, id)
}

// Start moves the caller's Assigned assignment to Started.
func (s *Service) Start(ctx context.Context, id, preserverID uuid.UUID) (*Response, error) {
	if err := s.checkOwner(ctx, id, preserverID); err != nil {
		return nil, err
	}

	affected, err := s.repo.UpdateStatusOwned(ctx, id, preserverID, enums.AssignmentStatusAssigned, enums.AssignmentStatusStarted, nil)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "start assignment")
	}
	if affected == 0 {
		return nil, s.transitionFailure(ctx, id, enums.AssignmentStatusAssigned)
	}
	return s.Get(ctx, id)
}

// SubmitForReview moves the caller's Started assignment to Submitted,
// recording the scan references and the submission timestamp. The references
// are opaque to the backend.
func (s *Service) SubmitForReview(ctx context.Context, id, preserverID uuid.UUID, req SubmitRequest) (*Response, error) {
	if err := s.checkOwner(ctx, id, preserverID); err != nil {
		return nil, err
	}

	submittedAt := s.now()
	extra := map[string]any{
		"scan_refs":    types.StringArray(req.ScanRefs),
		"submitted_at": submittedAt,
	}
	affected, err := s.repo.UpdateStatusOwned(ctx, id, preserverID, enums.AssignmentStatusStarted, enums.AssignmentStatusSubmitted, extra)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "submit assignment")
	}
	if affected == 0 {
		return nil, s.transitionFailure(ctx, id, enums.AssignmentStatusStarted)
	}
	return s.Get(ctx, id)
}

// Complete closes a Submitted assignment. Back-office only; Completed is
// terminal.
func (s *Service) Complete(ctx context.Context, id uuid.UUID) (*Response, error) {
	affected, err := s.repo.UpdateStatus(ctx, id, enums.AssignmentStatusSubmitted, enums.AssignmentStatusCompleted)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "complete assignment")
	}
	if affected == 0 {
		return nil, s.transitionFailure(ctx, id, enums.AssignmentStatusSubmitted)
	}
	return s.Get(ctx, id)
}

func (s *Service) load(ctx context.Context, id uuid.UUID) (*models.Assignment, error) {
	assignment, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "assignment not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load assignment")
	}
	return assignment, nil
}

// checkOwner rejects callers when the row is owned by someone else, before
// any transition is attempted, leaving the status untouched. An unowned row
// falls through so the guarded update reports the state mismatch instead.
func (s *Service) checkOwner(ctx context.Context, id, preserverID uuid.UUID) error {
	assignment, err := s.load(ctx, id)
	if err != nil {
		return err
	}
	if assignment.PreserverID != nil && *assignment.PreserverID != preserverID {
		return pkgerrors.New(pkgerrors.CodeForbidden, "assignment belongs to another preserver")
	}
	return nil
}

// transitionFailure reloads the row to report what state blocked the guarded
// update.
func (s *Service) transitionFailure(ctx context.Context, id uuid.UUID, expected enums.AssignmentStatus) error {
	assignment, err := s.load(ctx, id)
	if err != nil {
		return err
	}
	return pkgerrors.New(pkgerrors.CodeStateConflict, "invalid assignment transition").WithDetails(map[string]string{
		"expected": expected.String(),
		"actual":   assignment.Status.String(),
	})
}
