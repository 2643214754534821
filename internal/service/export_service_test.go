package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/artsfest/admin-panel/internal/models"
)

type fakeExportBackend struct {
	teams      []models.Team
	candidates []models.Candidate
	programmes []models.Programme
	results    []models.Result
}

func (f *fakeExportBackend) ListTeams(context.Context) ([]models.Team, error) {
	return f.teams, nil
}

func (f *fakeExportBackend) ListCandidates(context.Context) ([]models.Candidate, error) {
	return f.candidates, nil
}

func (f *fakeExportBackend) ListProgrammes(context.Context) ([]models.Programme, error) {
	return f.programmes, nil
}

func (f *fakeExportBackend) ProgrammeResults(context.Context, string) ([]models.Result, error) {
	return f.results, nil
}

func TestTeamStandingsOrderedByPoints(t *testing.T) {
	fake := &fakeExportBackend{
		teams: []models.Team{
			{ID: "t1", Name: "Red", TotalPoints: 40},
			{ID: "t2", Name: "Blue", TotalPoints: 90},
			{ID: "t3", Name: "Green", TotalPoints: 40},
		},
	}
	svc := NewExportService(fake, zap.NewNop())

	dataset, err := svc.TeamStandings(context.Background())
	require.NoError(t, err)
	require.Equal(t, []string{"Rank", "Team", "Points"}, dataset.Headers)
	require.Len(t, dataset.Rows, 3)

	require.Equal(t, "Blue", dataset.Rows[0]["Team"])
	require.Equal(t, "1", dataset.Rows[0]["Rank"])
	// Ties keep the backend's order.
	require.Equal(t, "Red", dataset.Rows[1]["Team"])
	require.Equal(t, "Green", dataset.Rows[2]["Team"])
}

func TestProgrammeResultsJoinsCandidateAndTeam(t *testing.T) {
	rank := 1
	fake := &fakeExportBackend{
		programmes: []models.Programme{{ID: "p1", Name: "Qiraat"}},
		candidates: []models.Candidate{
			{ID: "c1", Name: "Amina", Team: models.Ref{ID: "t1", Name: "Red"}},
		},
		results: []models.Result{
			{Candidate: models.Ref{ID: "c1"}, Rank: &rank, Grade: "A", Status: models.ResultPending},
			{Candidate: models.Ref{ID: "c9", Name: "Unknown"}, Status: models.ResultPublished},
		},
	}
	svc := NewExportService(fake, zap.NewNop())

	dataset, title, err := svc.ProgrammeResults(context.Background(), "p1")
	require.NoError(t, err)
	require.Equal(t, "Qiraat", title)
	require.Len(t, dataset.Rows, 2)

	require.Equal(t, "Amina", dataset.Rows[0]["Candidate"])
	require.Equal(t, "Red", dataset.Rows[0]["Team"])
	require.Equal(t, "1", dataset.Rows[0]["Rank"])
	require.Equal(t, "A", dataset.Rows[0]["Grade"])
	require.Equal(t, "pending", dataset.Rows[0]["Status"])

	// Candidates missing from the roster keep the name on the result ref.
	require.Equal(t, "Unknown", dataset.Rows[1]["Candidate"])
	require.Empty(t, dataset.Rows[1]["Rank"])
}

func TestProgrammeResultsUnknownProgramme(t *testing.T) {
	svc := NewExportService(&fakeExportBackend{}, zap.NewNop())

	_, _, err := svc.ProgrammeResults(context.Background(), "missing")
	require.Error(t, err)
}
