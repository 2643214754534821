package models

import (
	"encoding/json"
	"fmt"
	"time"
)

// Category is the fixed competition age bracket. The set is closed; the
// backend rejects anything else.
type Category string

const (
	CategoryBidaya      Category = "BIDAYA"
	CategoryUla         Category = "ULA"
	CategoryThaniyyah   Category = "THANIYYAH"
	CategoryThanawiyyah Category = "THANAWIYYAH"
	CategoryAliya       Category = "ALIYA"
)

// Categories returns the five brackets in display order.
func Categories() []Category {
	return []Category{
		CategoryBidaya,
		CategoryUla,
		CategoryThaniyyah,
		CategoryThanawiyyah,
		CategoryAliya,
	}
}

// ParseCategory validates a raw category value against the closed set.
func ParseCategory(raw string) (Category, error) {
	for _, c := range Categories() {
		if string(c) == raw {
			return c, nil
		}
	}
	return "", fmt.Errorf("unknown category %q", raw)
}

// ProgrammeType enumerates the judged event kinds.
type ProgrammeType string

const (
	ProgrammeStage    ProgrammeType = "Stage"
	ProgrammeNonStage ProgrammeType = "Non-Stage"
	ProgrammeStarred  ProgrammeType = "Starred"
	ProgrammeGroup    ProgrammeType = "Group"
	ProgrammeGeneral  ProgrammeType = "General"
	ProgrammeSpecial  ProgrammeType = "Special"
)

// ProgrammeTypes returns the selectable programme types in display order.
func ProgrammeTypes() []ProgrammeType {
	return []ProgrammeType{
		ProgrammeStage,
		ProgrammeNonStage,
		ProgrammeStarred,
		ProgrammeGroup,
		ProgrammeGeneral,
		ProgrammeSpecial,
	}
}

// ResultStatus tracks a result through the approval flow.
type ResultStatus string

const (
	ResultPending   ResultStatus = "pending"
	ResultPublished ResultStatus = "published"
)

// Ref is a reference to another backend entity. The backend serialises
// references either as a bare id string or as a populated object, depending
// on the endpoint.
type Ref struct {
	ID   string
	Name string
}

// UnmarshalJSON accepts both the bare-id and populated forms.
func (r *Ref) UnmarshalJSON(data []byte) error {
	var id string
	if err := json.Unmarshal(data, &id); err == nil {
		r.ID = id
		return nil
	}

	var populated struct {
		ID   string `json:"_id"`
		Name string `json:"name"`
	}
	if err := json.Unmarshal(data, &populated); err != nil {
		return fmt.Errorf("decode entity reference: %w", err)
	}
	r.ID = populated.ID
	r.Name = populated.Name
	return nil
}

// MarshalJSON always emits the bare id form.
func (r Ref) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.ID)
}

// Team is a competing group; the backend owns its aggregate point total.
type Team struct {
	ID          string `json:"_id"`
	Name        string `json:"name"`
	TotalPoints int    `json:"totalPoints"`
}

// ImageRef points at a candidate photo hosted by the backend.
type ImageRef struct {
	URL      string `json:"url"`
	PublicID string `json:"publicId,omitempty"`
}

// Candidate is an individual competitor, scoped to one team and one category.
type Candidate struct {
	ID          string   `json:"_id"`
	AdmissionNo string   `json:"admissionNo"`
	Name        string   `json:"name"`
	Team        Ref      `json:"team"`
	Category    Category `json:"category"`
	Image       ImageRef `json:"image"`
	TotalPoints int      `json:"totalPoints"`
}

// Programme is a judged event within a category.
type Programme struct {
	ID                string        `json:"_id"`
	Name              string        `json:"name"`
	Type              ProgrammeType `json:"type"`
	Date              time.Time     `json:"date"`
	Category          Category      `json:"category"`
	Description       string        `json:"description,omitempty"`
	IsResultPublished bool          `json:"isResultPublished"`
}

// Result is a candidate's outcome for a programme. Rank is nil when no
// placement was awarded; Grade is empty when no grade was awarded.
type Result struct {
	ID        string       `json:"_id"`
	Programme Ref          `json:"programme"`
	Candidate Ref          `json:"candidate"`
	Rank      *int         `json:"rank"`
	Grade     string       `json:"grade,omitempty"`
	Status    ResultStatus `json:"status"`
}
