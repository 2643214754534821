package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/artsfest/admin-panel/internal/middleware"
	"github.com/artsfest/admin-panel/internal/models"
	"github.com/artsfest/admin-panel/internal/navigator"
	"github.com/artsfest/admin-panel/internal/service"
	"github.com/artsfest/admin-panel/internal/web"
	appErrors "github.com/artsfest/admin-panel/pkg/errors"
)

// EntryHandler serves the four-step results entry flow.
type EntryHandler struct {
	entries  *service.EntryService
	audit    *service.AuditService
	renderer *web.Renderer
}

// NewEntryHandler creates a new handler.
func NewEntryHandler(entries *service.EntryService, audit *service.AuditService, renderer *web.Renderer) *EntryHandler {
	return &EntryHandler{entries: entries, audit: audit, renderer: renderer}
}

type resultRow struct {
	Candidate models.Candidate
	Rank      string
	Grade     string
}

type resultsPage struct {
	page
	Step       string
	State      *navigator.State
	Categories []models.Category
	Programmes []models.Programme
	Teams      []models.Team
	Rows       []resultRow
}

func stepName(step navigator.Step) string {
	switch step {
	case navigator.StepProgramme:
		return "programme"
	case navigator.StepTeam:
		return "team"
	case navigator.StepEditing:
		return "editing"
	default:
		return "category"
	}
}

// View renders whatever step the session's navigator is on.
func (h *EntryHandler) View(c *gin.Context) {
	session := middleware.SessionFrom(c)

	view, err := h.entries.View(backendContext(c), session.ID)
	if err != nil {
		data := resultsPage{page: newPage(c, "Enter Results", "results", false), Step: "category", State: navigator.New()}
		data.Error = appErrors.FromError(err).Message
		h.renderer.HTML(c, appErrors.FromError(err).Status, "results", data)
		return
	}

	data := resultsPage{
		page:       newPage(c, "Enter Results", "results", false),
		Step:       stepName(view.State.Step),
		State:      view.State,
		Categories: view.Categories,
		Programmes: view.Programmes,
		Teams:      view.Teams,
	}
	for _, candidate := range view.Candidates {
		row := resultRow{Candidate: candidate}
		if edit, ok := view.State.TrackedEdit(candidate.ID); ok {
			row.Rank = edit.Rank
			row.Grade = edit.Grade
		}
		data.Rows = append(data.Rows, row)
	}

	h.renderer.HTML(c, http.StatusOK, "results", data)
}

// SelectCategory applies step one.
func (h *EntryHandler) SelectCategory(c *gin.Context) {
	session := middleware.SessionFrom(c)
	if err := h.entries.SelectCategory(backendContext(c), session.ID, c.PostForm("category")); err != nil {
		redirectError(c, "/results", err)
		return
	}
	c.Redirect(http.StatusSeeOther, "/results")
}

// SelectProgramme applies step two, seeding pending results into the form.
func (h *EntryHandler) SelectProgramme(c *gin.Context) {
	session := middleware.SessionFrom(c)
	if err := h.entries.SelectProgramme(backendContext(c), session.ID, c.PostForm("programme")); err != nil {
		redirectError(c, "/results", err)
		return
	}
	c.Redirect(http.StatusSeeOther, "/results")
}

// SelectTeam applies step three.
func (h *EntryHandler) SelectTeam(c *gin.Context) {
	session := middleware.SessionFrom(c)
	if err := h.entries.SelectTeam(backendContext(c), session.ID, c.PostForm("team")); err != nil {
		redirectError(c, "/results", err)
		return
	}
	c.Redirect(http.StatusSeeOther, "/results")
}

// Back steps the navigator one stage toward category selection.
func (h *EntryHandler) Back(c *gin.Context) {
	session := middleware.SessionFrom(c)
	if err := h.entries.Back(backendContext(c), session.ID); err != nil {
		redirectError(c, "/results", err)
		return
	}
	c.Redirect(http.StatusSeeOther, "/results")
}

// Save folds the posted rank/grade rows into the edit set and submits the
// batch. The form row order is the candidateId field order, so the payload
// keeps the on-screen order. A failed submit keeps the edits for retry.
func (h *EntryHandler) Save(c *gin.Context) {
	session := middleware.SessionFrom(c)
	ctx := backendContext(c)

	edits := make([]service.EditInput, 0)
	for _, id := range c.PostFormArray("candidateId") {
		edits = append(edits, service.EditInput{
			CandidateID: id,
			Rank:        c.PostForm("rank-" + id),
			Grade:       c.PostForm("grade-" + id),
		})
	}

	if err := h.entries.ApplyEdits(ctx, session.ID, edits); err != nil {
		redirectError(c, "/results", err)
		return
	}

	programmeID, err := h.entries.Submit(ctx, session.ID)
	if err != nil {
		redirectError(c, "/results", err)
		return
	}

	h.audit.Record(c.Request.Context(), session, c.ClientIP(),
		models.AuditActionSubmitResults, "result", programmeID,
		map[string]int{"entries": len(edits)})
	redirectWith(c, "/results", "notice", "Results submitted for approval")
}
