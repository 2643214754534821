package handler

import (
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"

	"github.com/artsfest/admin-panel/internal/middleware"
	"github.com/artsfest/admin-panel/internal/models"
	"github.com/artsfest/admin-panel/internal/service"
	"github.com/artsfest/admin-panel/internal/web"
	appErrors "github.com/artsfest/admin-panel/pkg/errors"
)

// RosterHandler serves the teams-and-candidates pages.
type RosterHandler struct {
	roster   *service.RosterService
	audit    *service.AuditService
	renderer *web.Renderer
}

// NewRosterHandler creates a new handler.
func NewRosterHandler(roster *service.RosterService, audit *service.AuditService, renderer *web.Renderer) *RosterHandler {
	return &RosterHandler{roster: roster, audit: audit, renderer: renderer}
}

type candidatesPage struct {
	page
	Teams      []models.Team
	Team       *models.Team
	Category   models.Category
	Categories []models.Category
	Candidates []models.Candidate
	ShowModal  bool
}

func candidatesPath(teamID string, category models.Category) string {
	values := url.Values{}
	if teamID != "" {
		values.Set("team", teamID)
	}
	if category != "" {
		values.Set("category", string(category))
	}
	if len(values) == 0 {
		return "/candidates"
	}
	return "/candidates?" + values.Encode()
}

// List renders the drill-down: team grid, then category grid, then the
// candidate table scoped to both.
func (h *RosterHandler) List(c *gin.Context) {
	overview, err := h.roster.Overview(backendContext(c))
	if err != nil {
		data := candidatesPage{page: newPage(c, "Candidates", "candidates", false)}
		data.Error = appErrors.FromError(err).Message
		h.renderer.HTML(c, appErrors.FromError(err).Status, "candidates", data)
		return
	}

	data := candidatesPage{
		page:       newPage(c, "Candidates", "candidates", false),
		Teams:      overview.Teams,
		Categories: models.Categories(),
	}

	if teamID := c.Query("team"); teamID != "" {
		for i := range overview.Teams {
			if overview.Teams[i].ID == teamID {
				data.Team = &overview.Teams[i]
				break
			}
		}
		if data.Team == nil {
			redirectWith(c, "/candidates", "error", "team not found")
			return
		}
	}

	if raw := c.Query("category"); raw != "" && data.Team != nil {
		category, err := models.ParseCategory(raw)
		if err != nil {
			redirectWith(c, candidatesPath(data.Team.ID, ""), "error", "unknown category")
			return
		}
		data.Category = category
		data.Candidates = service.FilterCandidates(overview.Candidates, data.Team.ID, category)
		data.ShowModal = c.Query("modal") == "1"
	}

	h.renderer.HTML(c, http.StatusOK, "candidates", data)
}

// Create handles the multipart add-candidate form.
func (h *RosterHandler) Create(c *gin.Context) {
	teamID := c.PostForm("team")
	rawCategory := c.PostForm("category")
	returnPath := candidatesPath(teamID, models.Category(rawCategory))

	in := service.AddCandidateInput{
		TeamID:      teamID,
		Category:    rawCategory,
		AdmissionNo: c.PostForm("admissionNo"),
		Name:        c.PostForm("name"),
	}

	fileHeader, err := c.FormFile("image")
	if err == nil {
		file, openErr := fileHeader.Open()
		if openErr != nil {
			redirectError(c, returnPath, appErrors.Wrap(openErr, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "could not read the selected image"))
			return
		}
		defer file.Close()
		in.ImageName = fileHeader.Filename
		in.Image = file
	}

	if err := h.roster.AddCandidate(backendContext(c), in); err != nil {
		redirectError(c, returnPath, err)
		return
	}

	h.audit.Record(c.Request.Context(), middleware.SessionFrom(c), c.ClientIP(),
		models.AuditActionCreateCandidate, "candidate", "",
		map[string]string{"name": in.Name, "admissionNo": in.AdmissionNo, "team": teamID, "category": rawCategory})
	redirectWith(c, returnPath, "notice", "Candidate added")
}

// Delete removes one candidate and returns to the same table view.
func (h *RosterHandler) Delete(c *gin.Context) {
	id := c.Param("id")
	returnPath := candidatesPath(c.PostForm("team"), models.Category(c.PostForm("category")))

	if err := h.roster.RemoveCandidate(backendContext(c), id); err != nil {
		redirectError(c, returnPath, err)
		return
	}

	h.audit.Record(c.Request.Context(), middleware.SessionFrom(c), c.ClientIP(),
		models.AuditActionDeleteCandidate, "candidate", id, nil)
	redirectWith(c, returnPath, "notice", "Candidate deleted")
}
