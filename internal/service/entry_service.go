package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/artsfest/admin-panel/internal/backend"
	"github.com/artsfest/admin-panel/internal/models"
	"github.com/artsfest/admin-panel/internal/navigator"
	appErrors "github.com/artsfest/admin-panel/pkg/errors"
)

type entryBackend interface {
	ListProgrammes(ctx context.Context) ([]models.Programme, error)
	ListTeams(ctx context.Context) ([]models.Team, error)
	ListCandidates(ctx context.Context) ([]models.Candidate, error)
	ProgrammeResults(ctx context.Context, programmeID string) ([]models.Result, error)
	SubmitResults(ctx context.Context, programmeID string, entries []backend.ResultEntry) error
}

type navigatorStore interface {
	SaveNavigator(ctx context.Context, sessionID string, state *navigator.State, ttl time.Duration) error
	FindNavigator(ctx context.Context, sessionID string) (*navigator.State, error)
}

// EntryView is everything the results entry page needs to render the
// current step.
type EntryView struct {
	State      *navigator.State
	Categories []models.Category
	Programmes []models.Programme
	Teams      []models.Team
	Candidates []models.Candidate
}

// EditInput is one row of the edit form, in display order.
type EditInput struct {
	CandidateID string
	Rank        string
	Grade       string
}

// EntryService orchestrates the results entry navigator: it keeps one
// navigator state per operator session and runs the fetch/seed/submit
// round trips against the backend.
type EntryService struct {
	backend entryBackend
	store   navigatorStore
	ttl     time.Duration
	logger  *zap.Logger
}

// NewEntryService constructs an entry service.
func NewEntryService(b entryBackend, store navigatorStore, ttl time.Duration, logger *zap.Logger) *EntryService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if ttl <= 0 {
		ttl = 12 * time.Hour
	}
	return &EntryService{backend: b, store: store, ttl: ttl, logger: logger}
}

func (s *EntryService) load(ctx context.Context, sessionID string) (*navigator.State, error) {
	state, err := s.store.FindNavigator(ctx, sessionID)
	if err != nil {
		if errors.Is(err, appErrors.ErrNotFound) {
			return navigator.New(), nil
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load entry state")
	}
	return state, nil
}

func (s *EntryService) save(ctx context.Context, sessionID string, state *navigator.State) error {
	if err := s.store.SaveNavigator(ctx, sessionID, state, s.ttl); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to save entry state")
	}
	return nil
}

// View loads the session's navigator and the collection its current step
// displays.
func (s *EntryService) View(ctx context.Context, sessionID string) (*EntryView, error) {
	state, err := s.load(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	view := &EntryView{State: state}
	switch state.Step {
	case navigator.StepCategory:
		view.Categories = models.Categories()
	case navigator.StepProgramme:
		programmes, err := s.backend.ListProgrammes(ctx)
		if err != nil {
			return nil, err
		}
		view.Programmes = state.FilterProgrammes(programmes)
	case navigator.StepTeam:
		teams, err := s.backend.ListTeams(ctx)
		if err != nil {
			return nil, err
		}
		view.Teams = teams
	case navigator.StepEditing:
		candidates, err := s.backend.ListCandidates(ctx)
		if err != nil {
			return nil, err
		}
		view.Candidates = state.FilterCandidates(candidates)
	}
	return view, nil
}

// SelectCategory applies the first funnel step.
func (s *EntryService) SelectCategory(ctx context.Context, sessionID, category string) error {
	state, err := s.load(ctx, sessionID)
	if err != nil {
		return err
	}
	if err := state.SelectCategory(category); err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, err.Error())
	}
	return s.save(ctx, sessionID, state)
}

// SelectProgramme applies the second funnel step and seeds the edit set
// from the programme's pending results. When the seed fetch fails the
// selection is rolled back so the programme list renders again with an
// error.
func (s *EntryService) SelectProgramme(ctx context.Context, sessionID, programmeID string) error {
	state, err := s.load(ctx, sessionID)
	if err != nil {
		return err
	}

	programmes, err := s.backend.ListProgrammes(ctx)
	if err != nil {
		return err
	}
	var selected *models.Programme
	for i := range programmes {
		if programmes[i].ID == programmeID {
			selected = &programmes[i]
			break
		}
	}
	if selected == nil {
		return appErrors.Clone(appErrors.ErrNotFound, "programme not found")
	}

	if err := state.SelectProgramme(*selected); err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, err.Error())
	}
	generation := state.Generation

	results, err := s.backend.ProgrammeResults(ctx, programmeID)
	if err != nil {
		state.Back()
		if saveErr := s.save(ctx, sessionID, state); saveErr != nil {
			s.logger.Warn("failed to roll back entry state", zap.Error(saveErr))
		}
		return err
	}
	if !state.SeedPending(results, generation) {
		s.logger.Warn("discarded stale results fetch",
			zap.String("programme", programmeID),
			zap.Uint64("generation", generation),
		)
	}
	return s.save(ctx, sessionID, state)
}

// SelectTeam applies the third funnel step.
func (s *EntryService) SelectTeam(ctx context.Context, sessionID, teamID string) error {
	state, err := s.load(ctx, sessionID)
	if err != nil {
		return err
	}

	teams, err := s.backend.ListTeams(ctx)
	if err != nil {
		return err
	}
	var selected *models.Team
	for i := range teams {
		if teams[i].ID == teamID {
			selected = &teams[i]
			break
		}
	}
	if selected == nil {
		return appErrors.Clone(appErrors.ErrNotFound, "team not found")
	}

	if err := state.SelectTeam(*selected); err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, err.Error())
	}
	return s.save(ctx, sessionID, state)
}

// Back steps the navigator one stage toward category selection.
func (s *EntryService) Back(ctx context.Context, sessionID string) error {
	state, err := s.load(ctx, sessionID)
	if err != nil {
		return err
	}
	state.Back()
	return s.save(ctx, sessionID, state)
}

// ApplyEdits folds the posted form rows into the edit set. A row is
// recorded when it carries a value, or when the candidate already has an
// entry (so a seeded value can be cleared back to N/A).
func (s *EntryService) ApplyEdits(ctx context.Context, sessionID string, edits []EditInput) error {
	state, err := s.load(ctx, sessionID)
	if err != nil {
		return err
	}
	for _, edit := range edits {
		_, tracked := state.TrackedEdit(edit.CandidateID)
		if edit.Rank == "" && edit.Grade == "" && !tracked {
			continue
		}
		if err := state.SetRank(edit.CandidateID, edit.Rank); err != nil {
			return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, err.Error())
		}
		if err := state.SetGrade(edit.CandidateID, edit.Grade); err != nil {
			return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, err.Error())
		}
	}
	return s.save(ctx, sessionID, state)
}

// Submit converts the edit set into the batch payload and sends it. On
// success the navigator resets to category selection; on failure every
// selection and edit is left intact for re-submission.
func (s *EntryService) Submit(ctx context.Context, sessionID string) (string, error) {
	state, err := s.load(ctx, sessionID)
	if err != nil {
		return "", err
	}

	entries, err := state.Payload()
	if err != nil {
		return "", appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, err.Error())
	}

	payload := make([]backend.ResultEntry, 0, len(entries))
	for _, entry := range entries {
		payload = append(payload, backend.ResultEntry{
			CandidateID: entry.CandidateID,
			Rank:        entry.Rank,
			Grade:       entry.Grade,
		})
	}

	programmeID := state.ProgrammeID
	if err := s.backend.SubmitResults(ctx, programmeID, payload); err != nil {
		return programmeID, err
	}

	state.Reset()
	if err := s.save(ctx, sessionID, state); err != nil {
		return programmeID, err
	}
	s.logger.Info("results submitted",
		zap.String("programme", programmeID),
		zap.Int("entries", len(payload)),
	)
	return programmeID, nil
}
