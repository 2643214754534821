// Package navigator implements the results entry flow: a strict four-step
// funnel from category to candidate-level result editing. The state is a
// single tagged value with explicit transitions, so combinations like "team
// chosen without a programme" cannot be constructed.
package navigator

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/artsfest/admin-panel/internal/models"
)

// Step identifies the current stage of the funnel.
type Step int

const (
	// StepCategory shows the fixed five-category list.
	StepCategory Step = iota
	// StepProgramme shows programmes filtered to the chosen category.
	StepProgramme
	// StepTeam shows the full team list.
	StepTeam
	// StepEditing shows the per-candidate rank/grade editors.
	StepEditing
)

// Rank and grade select values as submitted by the edit form. Empty means
// "N/A".
var (
	rankValues  = map[string]int{"1": 1, "2": 2, "3": 3}
	gradeValues = map[string]struct{}{"A": {}, "B": {}, "C": {}}
)

// Edit holds one candidate's in-progress rank/grade selection, as raw select
// values.
type Edit struct {
	Rank  string `json:"rank"`
	Grade string `json:"grade"`
}

// Edits is an insertion-ordered mapping from candidate id to Edit. Order is
// the order candidates were first touched (or seeded) and is preserved in
// the submission payload.
type Edits struct {
	order []string
	byID  map[string]Edit
}

// NewEdits returns an empty edit set.
func NewEdits() *Edits {
	return &Edits{byID: map[string]Edit{}}
}

// Len reports the number of candidates with an edit entry.
func (e *Edits) Len() int {
	return len(e.order)
}

// Get returns the edit for a candidate, if present.
func (e *Edits) Get(candidateID string) (Edit, bool) {
	edit, ok := e.byID[candidateID]
	return edit, ok
}

// set upserts while preserving first-touch order.
func (e *Edits) set(candidateID string, update func(*Edit)) {
	edit, ok := e.byID[candidateID]
	if !ok {
		e.order = append(e.order, candidateID)
	}
	update(&edit)
	e.byID[candidateID] = edit
}

type orderedEdit struct {
	CandidateID string `json:"candidateId"`
	Rank        string `json:"rank"`
	Grade       string `json:"grade"`
}

// MarshalJSON serialises edits as an array so insertion order survives the
// session store round trip.
func (e *Edits) MarshalJSON() ([]byte, error) {
	out := make([]orderedEdit, 0, len(e.order))
	for _, id := range e.order {
		edit := e.byID[id]
		out = append(out, orderedEdit{CandidateID: id, Rank: edit.Rank, Grade: edit.Grade})
	}
	return json.Marshal(out)
}

// UnmarshalJSON restores the ordered edit set.
func (e *Edits) UnmarshalJSON(data []byte) error {
	var in []orderedEdit
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	e.order = e.order[:0]
	e.byID = make(map[string]Edit, len(in))
	for _, item := range in {
		e.order = append(e.order, item.CandidateID)
		e.byID[item.CandidateID] = Edit{Rank: item.Rank, Grade: item.Grade}
	}
	return nil
}

// Entry is one tuple of the submission payload. Absent rank/grade are
// explicit nulls, not omitted fields.
type Entry struct {
	CandidateID string  `json:"candidateId"`
	Rank        *int    `json:"rank"`
	Grade       *string `json:"grade"`
}

// State is the navigator's full position in the funnel. Fields beyond the
// current step are zero; transition methods keep it that way.
type State struct {
	Step          Step            `json:"step"`
	Category      models.Category `json:"category,omitempty"`
	ProgrammeID   string          `json:"programmeId,omitempty"`
	ProgrammeName string          `json:"programmeName,omitempty"`
	TeamID        string          `json:"teamId,omitempty"`
	TeamName      string          `json:"teamName,omitempty"`
	Edits         *Edits          `json:"edits,omitempty"`
	Generation    uint64          `json:"generation"`
}

// New returns a navigator at the initial category selection step.
func New() *State {
	return &State{Step: StepCategory}
}

func (s *State) bump() {
	s.Generation++
}

// SelectCategory moves from category selection to programme selection.
func (s *State) SelectCategory(raw string) error {
	if s.Step != StepCategory {
		return fmt.Errorf("category can only be selected at the start of the flow")
	}
	category, err := models.ParseCategory(raw)
	if err != nil {
		return err
	}
	s.Category = category
	s.Step = StepProgramme
	s.bump()
	return nil
}

// SelectProgramme moves from programme selection to team selection. The
// programme must belong to the selected category.
func (s *State) SelectProgramme(p models.Programme) error {
	if s.Step != StepProgramme {
		return fmt.Errorf("programme can only be selected after a category")
	}
	if p.Category != s.Category {
		return fmt.Errorf("programme %s is not in category %s", p.Name, s.Category)
	}
	s.ProgrammeID = p.ID
	s.ProgrammeName = p.Name
	s.Edits = NewEdits()
	s.Step = StepTeam
	s.bump()
	return nil
}

// SeedPending loads existing pending results into the edit set. Published
// results are immutable history and never seeded. The seed is dropped when
// the navigator has moved on since the fetch was issued.
func (s *State) SeedPending(results []models.Result, generation uint64) bool {
	if s.Generation != generation || s.Edits == nil {
		return false
	}
	for _, result := range results {
		if result.Status != models.ResultPending {
			continue
		}
		rank := ""
		if result.Rank != nil {
			rank = strconv.Itoa(*result.Rank)
		}
		grade := result.Grade
		s.Edits.set(result.Candidate.ID, func(e *Edit) {
			e.Rank = rank
			e.Grade = grade
		})
	}
	return true
}

// SelectTeam moves from team selection to result editing.
func (s *State) SelectTeam(t models.Team) error {
	if s.Step != StepTeam {
		return fmt.Errorf("team can only be selected after a programme")
	}
	s.TeamID = t.ID
	s.TeamName = t.Name
	s.Step = StepEditing
	s.bump()
	return nil
}

// Back steps one stage toward category selection, clearing exactly the
// selections the stage owns:
//
//	editing -> team:      clears team and edits
//	team -> programme:    clears programme (team is already clear)
//	programme -> category: clears category
func (s *State) Back() {
	switch s.Step {
	case StepEditing:
		s.TeamID = ""
		s.TeamName = ""
		s.Edits = NewEdits()
		s.Step = StepTeam
	case StepTeam:
		s.ProgrammeID = ""
		s.ProgrammeName = ""
		s.TeamID = ""
		s.TeamName = ""
		s.Edits = nil
		s.Step = StepProgramme
	case StepProgramme:
		s.Category = ""
		s.Step = StepCategory
	}
	s.bump()
}

// Reset returns the navigator to the start of the funnel, discarding every
// selection and edit.
func (s *State) Reset() {
	generation := s.Generation
	*s = State{Step: StepCategory, Generation: generation}
	s.bump()
}

// SetRank records a rank selection for a candidate.
func (s *State) SetRank(candidateID, value string) error {
	if err := s.editable(); err != nil {
		return err
	}
	if value != "" {
		if _, ok := rankValues[value]; !ok {
			return fmt.Errorf("invalid rank %q", value)
		}
	}
	s.Edits.set(candidateID, func(e *Edit) { e.Rank = value })
	return nil
}

// SetGrade records a grade selection for a candidate.
func (s *State) SetGrade(candidateID, value string) error {
	if err := s.editable(); err != nil {
		return err
	}
	if value != "" {
		if _, ok := gradeValues[value]; !ok {
			return fmt.Errorf("invalid grade %q", value)
		}
	}
	s.Edits.set(candidateID, func(e *Edit) { e.Grade = value })
	return nil
}

// TrackedEdit returns the current edit for a candidate, if one exists.
func (s *State) TrackedEdit(candidateID string) (Edit, bool) {
	if s.Edits == nil {
		return Edit{}, false
	}
	return s.Edits.Get(candidateID)
}

func (s *State) editable() error {
	if s.Step != StepEditing {
		return fmt.Errorf("results can only be edited once a team is selected")
	}
	if s.Edits == nil {
		s.Edits = NewEdits()
	}
	return nil
}

// FilterProgrammes narrows a programme collection to the selected category.
func (s *State) FilterProgrammes(all []models.Programme) []models.Programme {
	filtered := make([]models.Programme, 0, len(all))
	for _, p := range all {
		if p.Category == s.Category {
			filtered = append(filtered, p)
		}
	}
	return filtered
}

// FilterCandidates narrows the full candidate collection to the selected
// team and category.
func (s *State) FilterCandidates(all []models.Candidate) []models.Candidate {
	filtered := make([]models.Candidate, 0)
	for _, c := range all {
		if c.Team.ID == s.TeamID && c.Category == s.Category {
			filtered = append(filtered, c)
		}
	}
	return filtered
}

// Payload converts the edit set into the ordered submission batch. String
// ranks become numbers; absent rank or grade become explicit nulls. Entries
// with neither value are still emitted.
func (s *State) Payload() ([]Entry, error) {
	if s.Step != StepEditing || s.Edits == nil {
		return nil, fmt.Errorf("no results to submit at this step")
	}
	if s.Edits.Len() == 0 {
		return nil, fmt.Errorf("no results have been entered")
	}

	entries := make([]Entry, 0, s.Edits.Len())
	for _, id := range s.Edits.order {
		edit := s.Edits.byID[id]
		entry := Entry{CandidateID: id}
		if rank, ok := rankValues[edit.Rank]; ok {
			r := rank
			entry.Rank = &r
		}
		if edit.Grade != "" {
			g := edit.Grade
			entry.Grade = &g
		}
		entries = append(entries, entry)
	}
	return entries, nil
}
