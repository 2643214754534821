package service

import (
	"context"
	"io"
	"sync"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/artsfest/admin-panel/internal/backend"
	"github.com/artsfest/admin-panel/internal/models"
	appErrors "github.com/artsfest/admin-panel/pkg/errors"
)

type rosterBackend interface {
	ListTeams(ctx context.Context) ([]models.Team, error)
	ListCandidates(ctx context.Context) ([]models.Candidate, error)
	CreateCandidate(ctx context.Context, in backend.CreateCandidateInput) error
	DeleteCandidate(ctx context.Context, id string) error
}

// RosterOverview bundles the two collections the candidates page needs.
type RosterOverview struct {
	Teams      []models.Team
	Candidates []models.Candidate
}

// AddCandidateInput is the candidate creation form. The image is mandatory;
// team and category come from the page's current selection, not the form.
type AddCandidateInput struct {
	TeamID      string `validate:"required"`
	Category    string `validate:"required"`
	AdmissionNo string `validate:"required"`
	Name        string `validate:"required"`
	ImageName   string `validate:"required"`
	Image       io.Reader
}

// RosterService drives the teams-and-candidates pages.
type RosterService struct {
	backend   rosterBackend
	validator *validator.Validate
	logger    *zap.Logger
}

// NewRosterService constructs a roster service.
func NewRosterService(b rosterBackend, validate *validator.Validate, logger *zap.Logger) *RosterService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RosterService{backend: b, validator: validate, logger: logger}
}

// Overview fetches teams and candidates in parallel. Neither fetch depends
// on the other; the first error wins.
func (s *RosterService) Overview(ctx context.Context) (*RosterOverview, error) {
	var (
		wg            sync.WaitGroup
		teams         []models.Team
		candidates    []models.Candidate
		teamsErr      error
		candidatesErr error
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		teams, teamsErr = s.backend.ListTeams(ctx)
	}()
	go func() {
		defer wg.Done()
		candidates, candidatesErr = s.backend.ListCandidates(ctx)
	}()
	wg.Wait()

	if teamsErr != nil {
		return nil, teamsErr
	}
	if candidatesErr != nil {
		return nil, candidatesErr
	}
	return &RosterOverview{Teams: teams, Candidates: candidates}, nil
}

// Candidates refetches the candidate collection after a mutation.
func (s *RosterService) Candidates(ctx context.Context) ([]models.Candidate, error) {
	return s.backend.ListCandidates(ctx)
}

// FilterCandidates narrows the full candidate collection to one team and
// category, preserving backend order.
func FilterCandidates(all []models.Candidate, teamID string, category models.Category) []models.Candidate {
	filtered := make([]models.Candidate, 0)
	for _, c := range all {
		if c.Team.ID == teamID && c.Category == category {
			filtered = append(filtered, c)
		}
	}
	return filtered
}

// AddCandidate validates the form and creates the candidate via the
// backend's multipart endpoint. Validation failures never reach the network.
func (s *RosterService) AddCandidate(ctx context.Context, in AddCandidateInput) error {
	if err := s.validator.Struct(in); err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "please fill all fields and select an image")
	}
	if in.Image == nil {
		return appErrors.Clone(appErrors.ErrValidation, "please fill all fields and select an image")
	}
	category, err := models.ParseCategory(in.Category)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "unknown category")
	}

	return s.backend.CreateCandidate(ctx, backend.CreateCandidateInput{
		TeamID:      in.TeamID,
		Category:    category,
		AdmissionNo: in.AdmissionNo,
		Name:        in.Name,
		ImageName:   in.ImageName,
		Image:       in.Image,
	})
}

// RemoveCandidate deletes a candidate. The caller refetches the collection
// afterwards.
func (s *RosterService) RemoveCandidate(ctx context.Context, id string) error {
	if id == "" {
		return appErrors.Clone(appErrors.ErrValidation, "candidate id is required")
	}
	return s.backend.DeleteCandidate(ctx, id)
}
