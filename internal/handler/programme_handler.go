package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/artsfest/admin-panel/internal/middleware"
	"github.com/artsfest/admin-panel/internal/models"
	"github.com/artsfest/admin-panel/internal/service"
	"github.com/artsfest/admin-panel/internal/web"
	appErrors "github.com/artsfest/admin-panel/pkg/errors"
)

// ProgrammeHandler serves the programmes list page.
type ProgrammeHandler struct {
	programmes     *service.ProgrammeService
	audit          *service.AuditService
	renderer       *web.Renderer
	exportsEnabled bool
}

// NewProgrammeHandler creates a new handler.
func NewProgrammeHandler(programmes *service.ProgrammeService, audit *service.AuditService, renderer *web.Renderer, exportsEnabled bool) *ProgrammeHandler {
	return &ProgrammeHandler{programmes: programmes, audit: audit, renderer: renderer, exportsEnabled: exportsEnabled}
}

type programmesPage struct {
	page
	Programmes     []models.Programme
	Categories     []models.Category
	ProgrammeTypes []models.ProgrammeType
	ShowModal      bool
}

// List renders the programme table, with the add-programme modal on demand.
func (h *ProgrammeHandler) List(c *gin.Context) {
	data := programmesPage{
		page:           newPage(c, "Programmes", "programmes", h.exportsEnabled),
		Categories:     models.Categories(),
		ProgrammeTypes: models.ProgrammeTypes(),
		ShowModal:      c.Query("modal") == "1",
	}

	programmes, err := h.programmes.List(backendContext(c))
	if err != nil {
		data.Error = appErrors.FromError(err).Message
		h.renderer.HTML(c, appErrors.FromError(err).Status, "programmes", data)
		return
	}
	data.Programmes = programmes

	h.renderer.HTML(c, http.StatusOK, "programmes", data)
}

// Create handles the add-programme form.
func (h *ProgrammeHandler) Create(c *gin.Context) {
	in := service.AddProgrammeInput{
		Name:        c.PostForm("name"),
		Type:        c.PostForm("type"),
		Date:        c.PostForm("date"),
		Category:    c.PostForm("category"),
		Description: c.PostForm("description"),
	}

	if err := h.programmes.Add(backendContext(c), in); err != nil {
		redirectError(c, "/programmes", err)
		return
	}

	h.audit.Record(c.Request.Context(), middleware.SessionFrom(c), c.ClientIP(),
		models.AuditActionCreateProgramme, "programme", "",
		map[string]string{"name": in.Name, "type": in.Type, "category": in.Category})
	redirectWith(c, "/programmes", "notice", "Programme added")
}

// Delete removes one programme.
func (h *ProgrammeHandler) Delete(c *gin.Context) {
	id := c.Param("id")

	if err := h.programmes.Remove(backendContext(c), id); err != nil {
		redirectError(c, "/programmes", err)
		return
	}

	h.audit.Record(c.Request.Context(), middleware.SessionFrom(c), c.ClientIP(),
		models.AuditActionDeleteProgramme, "programme", id, nil)
	redirectWith(c, "/programmes", "notice", "Programme deleted")
}
