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

// ReviewHandler serves the pending results page and its approve/deny
// actions.
type ReviewHandler struct {
	reviews  *service.ReviewService
	audit    *service.AuditService
	renderer *web.Renderer
}

// NewReviewHandler creates a new handler.
func NewReviewHandler(reviews *service.ReviewService, audit *service.AuditService, renderer *web.Renderer) *ReviewHandler {
	return &ReviewHandler{reviews: reviews, audit: audit, renderer: renderer}
}

type pendingPage struct {
	page
	Programmes []models.Programme
}

// List renders the programmes with results awaiting review.
func (h *ReviewHandler) List(c *gin.Context) {
	data := pendingPage{page: newPage(c, "Pending Results", "pending", false)}

	programmes, err := h.reviews.PendingProgrammes(backendContext(c))
	if err != nil {
		data.Error = appErrors.FromError(err).Message
		h.renderer.HTML(c, appErrors.FromError(err).Status, "pending", data)
		return
	}
	data.Programmes = programmes

	h.renderer.HTML(c, http.StatusOK, "pending", data)
}

// Approve publishes a programme's pending results.
func (h *ReviewHandler) Approve(c *gin.Context) {
	id := c.Param("id")

	if err := h.reviews.Approve(backendContext(c), id); err != nil {
		redirectError(c, "/pending", err)
		return
	}

	h.audit.Record(c.Request.Context(), middleware.SessionFrom(c), c.ClientIP(),
		models.AuditActionApproveResults, "result", id, nil)
	redirectWith(c, "/pending", "notice", "Results published")
}

// Deny deletes a programme's pending results.
func (h *ReviewHandler) Deny(c *gin.Context) {
	id := c.Param("id")

	if err := h.reviews.Deny(backendContext(c), id); err != nil {
		redirectError(c, "/pending", err)
		return
	}

	h.audit.Record(c.Request.Context(), middleware.SessionFrom(c), c.ClientIP(),
		models.AuditActionDenyResults, "result", id, nil)
	redirectWith(c, "/pending", "notice", "Pending results deleted")
}
