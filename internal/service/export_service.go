package service

import (
	"context"
	"sort"
	"strconv"
	"sync"

	"go.uber.org/zap"

	"github.com/artsfest/admin-panel/internal/models"
	appErrors "github.com/artsfest/admin-panel/pkg/errors"
	"github.com/artsfest/admin-panel/pkg/export"
)

type exportBackend interface {
	ListTeams(ctx context.Context) ([]models.Team, error)
	ListCandidates(ctx context.Context) ([]models.Candidate, error)
	ListProgrammes(ctx context.Context) ([]models.Programme, error)
	ProgrammeResults(ctx context.Context, programmeID string) ([]models.Result, error)
}

// ExportService builds tabular datasets for CSV/PDF download.
type ExportService struct {
	backend exportBackend
	logger  *zap.Logger
}

// NewExportService constructs an export service.
func NewExportService(b exportBackend, logger *zap.Logger) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExportService{backend: b, logger: logger}
}

// TeamStandings returns teams ordered by total points, highest first. Ties
// keep the backend's order.
func (s *ExportService) TeamStandings(ctx context.Context) (export.Dataset, error) {
	teams, err := s.backend.ListTeams(ctx)
	if err != nil {
		return export.Dataset{}, err
	}

	sorted := make([]models.Team, len(teams))
	copy(sorted, teams)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].TotalPoints > sorted[j].TotalPoints
	})

	dataset := export.Dataset{Headers: []string{"Rank", "Team", "Points"}}
	for i, team := range sorted {
		dataset.Rows = append(dataset.Rows, map[string]string{
			"Rank":   strconv.Itoa(i + 1),
			"Team":   team.Name,
			"Points": strconv.Itoa(team.TotalPoints),
		})
	}
	return dataset, nil
}

// ProgrammeResults returns one programme's results joined with candidate
// and team names, plus the programme name for the document title.
func (s *ExportService) ProgrammeResults(ctx context.Context, programmeID string) (export.Dataset, string, error) {
	var (
		wg            sync.WaitGroup
		programmes    []models.Programme
		candidates    []models.Candidate
		results       []models.Result
		programmesErr error
		candidatesErr error
		resultsErr    error
	)

	wg.Add(3)
	go func() {
		defer wg.Done()
		programmes, programmesErr = s.backend.ListProgrammes(ctx)
	}()
	go func() {
		defer wg.Done()
		candidates, candidatesErr = s.backend.ListCandidates(ctx)
	}()
	go func() {
		defer wg.Done()
		results, resultsErr = s.backend.ProgrammeResults(ctx, programmeID)
	}()
	wg.Wait()

	for _, err := range []error{programmesErr, candidatesErr, resultsErr} {
		if err != nil {
			return export.Dataset{}, "", err
		}
	}

	title := ""
	for _, programme := range programmes {
		if programme.ID == programmeID {
			title = programme.Name
			break
		}
	}
	if title == "" {
		return export.Dataset{}, "", appErrors.Clone(appErrors.ErrNotFound, "programme not found")
	}

	byID := make(map[string]models.Candidate, len(candidates))
	for _, candidate := range candidates {
		byID[candidate.ID] = candidate
	}

	dataset := export.Dataset{Headers: []string{"Candidate", "Team", "Rank", "Grade", "Status"}}
	for _, result := range results {
		candidateName := result.Candidate.Name
		teamName := ""
		if candidate, ok := byID[result.Candidate.ID]; ok {
			candidateName = candidate.Name
			teamName = candidate.Team.Name
		}
		rank := ""
		if result.Rank != nil {
			rank = strconv.Itoa(*result.Rank)
		}
		dataset.Rows = append(dataset.Rows, map[string]string{
			"Candidate": candidateName,
			"Team":      teamName,
			"Rank":      rank,
			"Grade":     result.Grade,
			"Status":    string(result.Status),
		})
	}
	return dataset, title, nil
}
