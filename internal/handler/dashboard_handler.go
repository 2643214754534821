package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/artsfest/admin-panel/internal/web"
)

// DashboardHandler serves the landing page.
type DashboardHandler struct {
	renderer       *web.Renderer
	exportsEnabled bool
}

// NewDashboardHandler creates a new handler.
func NewDashboardHandler(renderer *web.Renderer, exportsEnabled bool) *DashboardHandler {
	return &DashboardHandler{renderer: renderer, exportsEnabled: exportsEnabled}
}

// Home renders the dashboard.
func (h *DashboardHandler) Home(c *gin.Context) {
	h.renderer.HTML(c, http.StatusOK, "dashboard", struct {
		page
	}{newPage(c, "Dashboard", "dashboard", h.exportsEnabled)})
}
