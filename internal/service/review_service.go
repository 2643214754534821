package service

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/artsfest/admin-panel/internal/models"
	appErrors "github.com/artsfest/admin-panel/pkg/errors"
)

type reviewBackend interface {
	ListProgrammes(ctx context.Context) ([]models.Programme, error)
	ListResults(ctx context.Context) ([]models.Result, error)
	ApproveResults(ctx context.Context, programmeID string) error
	DeletePendingResults(ctx context.Context, programmeID string) error
}

// ReviewService drives the pending results page: listing programmes that
// have results awaiting approval, and the approve/deny actions.
type ReviewService struct {
	backend reviewBackend
	logger  *zap.Logger
}

// NewReviewService constructs a review service.
func NewReviewService(b reviewBackend, logger *zap.Logger) *ReviewService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReviewService{backend: b, logger: logger}
}

// PendingProgrammes fetches all programmes and all results in parallel and
// returns the programmes referenced by at least one pending result,
// preserving the backend's programme order.
func (s *ReviewService) PendingProgrammes(ctx context.Context) ([]models.Programme, error) {
	var (
		wg            sync.WaitGroup
		programmes    []models.Programme
		results       []models.Result
		programmesErr error
		resultsErr    error
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		programmes, programmesErr = s.backend.ListProgrammes(ctx)
	}()
	go func() {
		defer wg.Done()
		results, resultsErr = s.backend.ListResults(ctx)
	}()
	wg.Wait()

	if programmesErr != nil {
		return nil, programmesErr
	}
	if resultsErr != nil {
		return nil, resultsErr
	}

	return FilterPending(programmes, results), nil
}

// FilterPending computes the set of programme ids referenced by any pending
// result and narrows the programme list to that set.
func FilterPending(programmes []models.Programme, results []models.Result) []models.Programme {
	pendingIDs := make(map[string]struct{})
	for _, result := range results {
		if result.Status == models.ResultPending {
			pendingIDs[result.Programme.ID] = struct{}{}
		}
	}

	filtered := make([]models.Programme, 0)
	for _, programme := range programmes {
		if _, ok := pendingIDs[programme.ID]; ok {
			filtered = append(filtered, programme)
		}
	}
	return filtered
}

// Approve publishes a programme's pending results. The backend recalculates
// team points; the action is irreversible and the caller refetches after.
func (s *ReviewService) Approve(ctx context.Context, programmeID string) error {
	if programmeID == "" {
		return appErrors.Clone(appErrors.ErrValidation, "programme id is required")
	}
	return s.backend.ApproveResults(ctx, programmeID)
}

// Deny deletes all pending results for a programme outright. Irreversible.
func (s *ReviewService) Deny(ctx context.Context, programmeID string) error {
	if programmeID == "" {
		return appErrors.Clone(appErrors.ErrValidation, "programme id is required")
	}
	return s.backend.DeletePendingResults(ctx, programmeID)
}
