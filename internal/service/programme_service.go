package service

import (
	"context"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/artsfest/admin-panel/internal/backend"
	"github.com/artsfest/admin-panel/internal/models"
	appErrors "github.com/artsfest/admin-panel/pkg/errors"
)

type programmeBackend interface {
	ListProgrammes(ctx context.Context) ([]models.Programme, error)
	CreateProgramme(ctx context.Context, in backend.CreateProgrammeInput) error
	DeleteProgramme(ctx context.Context, id string) error
}

// AddProgrammeInput is the programme creation form.
type AddProgrammeInput struct {
	Name        string `form:"name" validate:"required"`
	Type        string `form:"type" validate:"required"`
	Date        string `form:"date" validate:"required"`
	Category    string `form:"category" validate:"required"`
	Description string `form:"description"`
}

// ProgrammeService drives the programmes list page.
type ProgrammeService struct {
	backend   programmeBackend
	validator *validator.Validate
	logger    *zap.Logger
}

// NewProgrammeService constructs a programme service.
func NewProgrammeService(b programmeBackend, validate *validator.Validate, logger *zap.Logger) *ProgrammeService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ProgrammeService{backend: b, validator: validate, logger: logger}
}

// List fetches every programme.
func (s *ProgrammeService) List(ctx context.Context) ([]models.Programme, error) {
	return s.backend.ListProgrammes(ctx)
}

// Add validates the form and creates the programme. Validation failures
// never reach the network.
func (s *ProgrammeService) Add(ctx context.Context, in AddProgrammeInput) error {
	if err := s.validator.Struct(in); err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "please fill all required fields")
	}
	category, err := models.ParseCategory(in.Category)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "unknown category")
	}
	programmeType, ok := parseProgrammeType(in.Type)
	if !ok {
		return appErrors.Clone(appErrors.ErrValidation, "unknown programme type")
	}

	return s.backend.CreateProgramme(ctx, backend.CreateProgrammeInput{
		Name:        in.Name,
		Type:        programmeType,
		Date:        in.Date,
		Category:    category,
		Description: in.Description,
	})
}

// Remove deletes a programme. The caller refetches afterwards.
func (s *ProgrammeService) Remove(ctx context.Context, id string) error {
	if id == "" {
		return appErrors.Clone(appErrors.ErrValidation, "programme id is required")
	}
	return s.backend.DeleteProgramme(ctx, id)
}

func parseProgrammeType(raw string) (models.ProgrammeType, bool) {
	for _, t := range models.ProgrammeTypes() {
		if string(t) == raw {
			return t, true
		}
	}
	return "", false
}
