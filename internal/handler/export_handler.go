package handler

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/artsfest/admin-panel/internal/service"
	appErrors "github.com/artsfest/admin-panel/pkg/errors"
	"github.com/artsfest/admin-panel/pkg/export"
	"github.com/artsfest/admin-panel/pkg/response"
)

// ExportHandler serves CSV and PDF downloads of standings and results.
type ExportHandler struct {
	exports *service.ExportService
	csv     *export.CSVExporter
	pdf     *export.PDFExporter
}

// NewExportHandler creates a new handler.
func NewExportHandler(exports *service.ExportService, csv *export.CSVExporter, pdf *export.PDFExporter) *ExportHandler {
	return &ExportHandler{exports: exports, csv: csv, pdf: pdf}
}

// StandingsCSV downloads the team standings as CSV.
func (h *ExportHandler) StandingsCSV(c *gin.Context) {
	dataset, err := h.exports.TeamStandings(backendContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	h.sendCSV(c, "team-standings.csv", dataset)
}

// StandingsPDF downloads the team standings as PDF.
func (h *ExportHandler) StandingsPDF(c *gin.Context) {
	dataset, err := h.exports.TeamStandings(backendContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	h.sendPDF(c, "team-standings.pdf", dataset, "Team Standings")
}

// ProgrammeResultsCSV downloads one programme's results as CSV.
func (h *ExportHandler) ProgrammeResultsCSV(c *gin.Context) {
	dataset, _, err := h.exports.ProgrammeResults(backendContext(c), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	h.sendCSV(c, fmt.Sprintf("programme-%s-results.csv", c.Param("id")), dataset)
}

// ProgrammeResultsPDF downloads one programme's results as PDF.
func (h *ExportHandler) ProgrammeResultsPDF(c *gin.Context) {
	dataset, title, err := h.exports.ProgrammeResults(backendContext(c), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	h.sendPDF(c, fmt.Sprintf("programme-%s-results.pdf", c.Param("id")), dataset, title)
}

func (h *ExportHandler) sendCSV(c *gin.Context, filename string, dataset export.Dataset) {
	payload, err := h.csv.Render(dataset)
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render csv"))
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "text/csv", payload)
}

func (h *ExportHandler) sendPDF(c *gin.Context, filename string, dataset export.Dataset, title string) {
	payload, err := h.pdf.Render(dataset, title)
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render pdf"))
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "application/pdf", payload)
}
