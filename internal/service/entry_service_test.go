package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/artsfest/admin-panel/internal/backend"
	"github.com/artsfest/admin-panel/internal/models"
	"github.com/artsfest/admin-panel/internal/navigator"
	"github.com/artsfest/admin-panel/internal/repository"
	appErrors "github.com/artsfest/admin-panel/pkg/errors"
)

type fakeEntryBackend struct {
	programmes []models.Programme
	teams      []models.Team
	candidates []models.Candidate
	results    []models.Result

	resultsErr error
	submitErr  error

	submittedProgramme string
	submittedEntries   []backend.ResultEntry
}

func (f *fakeEntryBackend) ListProgrammes(context.Context) ([]models.Programme, error) {
	return f.programmes, nil
}

func (f *fakeEntryBackend) ListTeams(context.Context) ([]models.Team, error) {
	return f.teams, nil
}

func (f *fakeEntryBackend) ListCandidates(context.Context) ([]models.Candidate, error) {
	return f.candidates, nil
}

func (f *fakeEntryBackend) ProgrammeResults(context.Context, string) ([]models.Result, error) {
	if f.resultsErr != nil {
		return nil, f.resultsErr
	}
	return f.results, nil
}

func (f *fakeEntryBackend) SubmitResults(_ context.Context, programmeID string, entries []backend.ResultEntry) error {
	if f.submitErr != nil {
		return f.submitErr
	}
	f.submittedProgramme = programmeID
	f.submittedEntries = entries
	return nil
}

func intPtr(v int) *int { return &v }

func testFixture() *fakeEntryBackend {
	return &fakeEntryBackend{
		programmes: []models.Programme{
			{ID: "p1", Name: "Qiraat", Category: models.CategoryBidaya},
			{ID: "p2", Name: "Essay", Category: models.CategoryUla},
		},
		teams: []models.Team{
			{ID: "t1", Name: "Red"},
			{ID: "t2", Name: "Blue"},
		},
		candidates: []models.Candidate{
			{ID: "c1", Name: "Amina", Team: models.Ref{ID: "t1"}, Category: models.CategoryBidaya},
			{ID: "c2", Name: "Bilal", Team: models.Ref{ID: "t2"}, Category: models.CategoryBidaya},
			{ID: "c3", Name: "Zahra", Team: models.Ref{ID: "t1"}, Category: models.CategoryUla},
		},
	}
}

func newEntryFixture(fake *fakeEntryBackend) *EntryService {
	return NewEntryService(fake, repository.NewMemorySessionRepository(), time.Hour, zap.NewNop())
}

func TestViewStartsAtCategorySelection(t *testing.T) {
	svc := newEntryFixture(testFixture())

	view, err := svc.View(context.Background(), "s1")
	require.NoError(t, err)
	require.Equal(t, navigator.StepCategory, view.State.Step)
	require.Equal(t, models.Categories(), view.Categories)
}

func TestViewFiltersProgrammesToCategory(t *testing.T) {
	svc := newEntryFixture(testFixture())
	ctx := context.Background()

	require.NoError(t, svc.SelectCategory(ctx, "s1", "BIDAYA"))

	view, err := svc.View(ctx, "s1")
	require.NoError(t, err)
	require.Equal(t, navigator.StepProgramme, view.State.Step)
	require.Len(t, view.Programmes, 1)
	require.Equal(t, "p1", view.Programmes[0].ID)
}

func TestSelectProgrammeSeedsPendingResults(t *testing.T) {
	fake := testFixture()
	fake.results = []models.Result{
		{Candidate: models.Ref{ID: "c1"}, Rank: intPtr(1), Grade: "A", Status: models.ResultPending},
		{Candidate: models.Ref{ID: "c2"}, Rank: intPtr(2), Grade: "B", Status: models.ResultPublished},
	}
	svc := newEntryFixture(fake)
	ctx := context.Background()

	require.NoError(t, svc.SelectCategory(ctx, "s1", "BIDAYA"))
	require.NoError(t, svc.SelectProgramme(ctx, "s1", "p1"))
	require.NoError(t, svc.SelectTeam(ctx, "s1", "t1"))

	view, err := svc.View(ctx, "s1")
	require.NoError(t, err)
	require.Equal(t, navigator.StepEditing, view.State.Step)
	require.Len(t, view.Candidates, 1)
	require.Equal(t, "c1", view.Candidates[0].ID)

	edit, ok := view.State.TrackedEdit("c1")
	require.True(t, ok)
	require.Equal(t, "1", edit.Rank)
	require.Equal(t, "A", edit.Grade)

	_, ok = view.State.TrackedEdit("c2")
	require.False(t, ok)
}

func TestSelectProgrammeRollsBackWhenSeedFetchFails(t *testing.T) {
	fake := testFixture()
	fake.resultsErr = appErrors.Clone(appErrors.ErrBackend, "results unavailable")
	svc := newEntryFixture(fake)
	ctx := context.Background()

	require.NoError(t, svc.SelectCategory(ctx, "s1", "BIDAYA"))
	err := svc.SelectProgramme(ctx, "s1", "p1")
	require.Error(t, err)

	view, viewErr := svc.View(ctx, "s1")
	require.NoError(t, viewErr)
	require.Equal(t, navigator.StepProgramme, view.State.Step)
	require.Empty(t, view.State.ProgrammeID)
}

func TestSelectProgrammeRejectsWrongCategory(t *testing.T) {
	svc := newEntryFixture(testFixture())
	ctx := context.Background()

	require.NoError(t, svc.SelectCategory(ctx, "s1", "BIDAYA"))
	err := svc.SelectProgramme(ctx, "s1", "p2")
	require.Error(t, err)
	require.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestSelectProgrammeUnknownID(t *testing.T) {
	svc := newEntryFixture(testFixture())
	ctx := context.Background()

	require.NoError(t, svc.SelectCategory(ctx, "s1", "BIDAYA"))
	err := svc.SelectProgramme(ctx, "s1", "nope")
	require.Error(t, err)
	require.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestApplyEditsSkipsUntouchedEmptyRows(t *testing.T) {
	svc := newEntryFixture(testFixture())
	ctx := context.Background()

	require.NoError(t, svc.SelectCategory(ctx, "s1", "BIDAYA"))
	require.NoError(t, svc.SelectProgramme(ctx, "s1", "p1"))
	require.NoError(t, svc.SelectTeam(ctx, "s1", "t1"))

	require.NoError(t, svc.ApplyEdits(ctx, "s1", []EditInput{
		{CandidateID: "c1", Rank: "1", Grade: "A"},
		{CandidateID: "c2"},
	}))

	view, err := svc.View(ctx, "s1")
	require.NoError(t, err)
	_, ok := view.State.TrackedEdit("c1")
	require.True(t, ok)
	_, ok = view.State.TrackedEdit("c2")
	require.False(t, ok)
}

func TestApplyEditsClearsSeededValues(t *testing.T) {
	fake := testFixture()
	fake.results = []models.Result{
		{Candidate: models.Ref{ID: "c1"}, Rank: intPtr(1), Grade: "A", Status: models.ResultPending},
	}
	svc := newEntryFixture(fake)
	ctx := context.Background()

	require.NoError(t, svc.SelectCategory(ctx, "s1", "BIDAYA"))
	require.NoError(t, svc.SelectProgramme(ctx, "s1", "p1"))
	require.NoError(t, svc.SelectTeam(ctx, "s1", "t1"))

	// The row comes back empty; the tracked candidate is cleared, not skipped.
	require.NoError(t, svc.ApplyEdits(ctx, "s1", []EditInput{{CandidateID: "c1"}}))

	view, err := svc.View(ctx, "s1")
	require.NoError(t, err)
	edit, ok := view.State.TrackedEdit("c1")
	require.True(t, ok)
	require.Empty(t, edit.Rank)
	require.Empty(t, edit.Grade)
}

func TestSubmitSendsBatchAndResets(t *testing.T) {
	fake := testFixture()
	svc := newEntryFixture(fake)
	ctx := context.Background()

	require.NoError(t, svc.SelectCategory(ctx, "s1", "BIDAYA"))
	require.NoError(t, svc.SelectProgramme(ctx, "s1", "p1"))
	require.NoError(t, svc.SelectTeam(ctx, "s1", "t1"))
	require.NoError(t, svc.ApplyEdits(ctx, "s1", []EditInput{
		{CandidateID: "c1", Rank: "1", Grade: "A"},
		{CandidateID: "c2", Grade: "C"},
	}))

	programmeID, err := svc.Submit(ctx, "s1")
	require.NoError(t, err)
	require.Equal(t, "p1", programmeID)
	require.Equal(t, "p1", fake.submittedProgramme)
	require.Len(t, fake.submittedEntries, 2)

	require.Equal(t, "c1", fake.submittedEntries[0].CandidateID)
	require.Equal(t, 1, *fake.submittedEntries[0].Rank)
	require.Equal(t, "A", *fake.submittedEntries[0].Grade)

	require.Equal(t, "c2", fake.submittedEntries[1].CandidateID)
	require.Nil(t, fake.submittedEntries[1].Rank)
	require.Equal(t, "C", *fake.submittedEntries[1].Grade)

	view, err := svc.View(ctx, "s1")
	require.NoError(t, err)
	require.Equal(t, navigator.StepCategory, view.State.Step)
}

func TestSubmitKeepsEditsOnBackendFailure(t *testing.T) {
	fake := testFixture()
	fake.submitErr = appErrors.Clone(appErrors.ErrBackend, "backend down")
	svc := newEntryFixture(fake)
	ctx := context.Background()

	require.NoError(t, svc.SelectCategory(ctx, "s1", "BIDAYA"))
	require.NoError(t, svc.SelectProgramme(ctx, "s1", "p1"))
	require.NoError(t, svc.SelectTeam(ctx, "s1", "t1"))
	require.NoError(t, svc.ApplyEdits(ctx, "s1", []EditInput{{CandidateID: "c1", Rank: "1"}}))

	_, err := svc.Submit(ctx, "s1")
	require.Error(t, err)

	view, viewErr := svc.View(ctx, "s1")
	require.NoError(t, viewErr)
	require.Equal(t, navigator.StepEditing, view.State.Step)
	_, ok := view.State.TrackedEdit("c1")
	require.True(t, ok)
}

func TestSubmitWithNoEditsFails(t *testing.T) {
	svc := newEntryFixture(testFixture())
	ctx := context.Background()

	require.NoError(t, svc.SelectCategory(ctx, "s1", "BIDAYA"))
	require.NoError(t, svc.SelectProgramme(ctx, "s1", "p1"))
	require.NoError(t, svc.SelectTeam(ctx, "s1", "t1"))

	_, err := svc.Submit(ctx, "s1")
	require.Error(t, err)
	require.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestBackFromEditingClearsTeam(t *testing.T) {
	svc := newEntryFixture(testFixture())
	ctx := context.Background()

	require.NoError(t, svc.SelectCategory(ctx, "s1", "BIDAYA"))
	require.NoError(t, svc.SelectProgramme(ctx, "s1", "p1"))
	require.NoError(t, svc.SelectTeam(ctx, "s1", "t1"))
	require.NoError(t, svc.Back(ctx, "s1"))

	view, err := svc.View(ctx, "s1")
	require.NoError(t, err)
	require.Equal(t, navigator.StepTeam, view.State.Step)
	require.Empty(t, view.State.TeamID)
	require.Equal(t, "p1", view.State.ProgrammeID)
}

func TestSessionsKeepIndependentNavigators(t *testing.T) {
	svc := newEntryFixture(testFixture())
	ctx := context.Background()

	require.NoError(t, svc.SelectCategory(ctx, "s1", "BIDAYA"))

	view, err := svc.View(ctx, "s2")
	require.NoError(t, err)
	require.Equal(t, navigator.StepCategory, view.State.Step)
}
