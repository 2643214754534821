package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/artsfest/admin-panel/internal/middleware"
	"github.com/artsfest/admin-panel/internal/service"
)

// Handlers bundles every page handler for route registration.
type Handlers struct {
	Auth       *AuthHandler
	Dashboard  *DashboardHandler
	Roster     *RosterHandler
	Programmes *ProgrammeHandler
	Entries    *EntryHandler
	Reviews    *ReviewHandler
	Exports    *ExportHandler
}

// RegisterRoutes mounts the panel's routes. Everything but the login page
// sits behind the session middleware.
func RegisterRoutes(r *gin.Engine, h Handlers, sessions *service.SessionService, cookieName string) {
	r.GET("/login", h.Auth.ShowLogin)
	r.POST("/login", h.Auth.Login)

	pages := r.Group("/", middleware.RequireSession(sessions, cookieName, true))
	{
		pages.GET("/", h.Dashboard.Home)
		pages.POST("/logout", h.Auth.Logout)

		pages.GET("/candidates", h.Roster.List)
		pages.POST("/candidates", h.Roster.Create)
		pages.POST("/candidates/:id/delete", h.Roster.Delete)

		pages.GET("/programmes", h.Programmes.List)
		pages.POST("/programmes", h.Programmes.Create)
		pages.POST("/programmes/:id/delete", h.Programmes.Delete)

		pages.GET("/results", h.Entries.View)
		pages.POST("/results/category", h.Entries.SelectCategory)
		pages.POST("/results/programme", h.Entries.SelectProgramme)
		pages.POST("/results/team", h.Entries.SelectTeam)
		pages.POST("/results/back", h.Entries.Back)
		pages.POST("/results/save", h.Entries.Save)

		pages.GET("/pending", h.Reviews.List)
		pages.POST("/pending/:id/approve", h.Reviews.Approve)
		pages.POST("/pending/:id/deny", h.Reviews.Deny)

		if h.Exports != nil {
			pages.GET("/export/standings.csv", h.Exports.StandingsCSV)
			pages.GET("/export/standings.pdf", h.Exports.StandingsPDF)
			pages.GET("/export/programmes/:id/results.csv", h.Exports.ProgrammeResultsCSV)
			pages.GET("/export/programmes/:id/results.pdf", h.Exports.ProgrammeResultsPDF)
		}
	}
}
