package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/artsfest/admin-panel/internal/middleware"
	"github.com/artsfest/admin-panel/internal/models"
	"github.com/artsfest/admin-panel/internal/service"
	"github.com/artsfest/admin-panel/internal/web"
	"github.com/artsfest/admin-panel/pkg/config"
	appErrors "github.com/artsfest/admin-panel/pkg/errors"
)

// AuthHandler serves the login page and the login/logout actions.
type AuthHandler struct {
	sessions *service.SessionService
	audit    *service.AuditService
	renderer *web.Renderer
	cfg      config.SessionConfig
}

// NewAuthHandler creates a new handler.
func NewAuthHandler(sessions *service.SessionService, audit *service.AuditService, renderer *web.Renderer, cfg config.SessionConfig) *AuthHandler {
	return &AuthHandler{sessions: sessions, audit: audit, renderer: renderer, cfg: cfg}
}

type loginPage struct {
	page
}

// ShowLogin renders the login form. Operators with a live session skip
// straight to the dashboard.
func (h *AuthHandler) ShowLogin(c *gin.Context) {
	if cookie, err := c.Cookie(h.cfg.CookieName); err == nil {
		if _, err := h.sessions.Current(c.Request.Context(), cookie); err == nil {
			c.Redirect(http.StatusSeeOther, "/")
			return
		}
	}
	h.renderer.HTML(c, http.StatusOK, "login", loginPage{page: newPage(c, "Login", "", false)})
}

// Login exchanges the posted credentials for a panel session and sets the
// session cookie. Failures re-render the form with the error inline.
func (h *AuthHandler) Login(c *gin.Context) {
	in := service.LoginInput{
		UserName: c.PostForm("userName"),
		Password: c.PostForm("password"),
	}

	session, err := h.sessions.Login(c.Request.Context(), in)
	if err != nil {
		data := loginPage{page: newPage(c, "Login", "", false)}
		data.UserName = in.UserName
		data.Error = appErrors.FromError(err).Message
		h.renderer.HTML(c, appErrors.FromError(err).Status, "login", data)
		return
	}

	maxAge := int(time.Until(session.ExpiresAt) / time.Second)
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(h.cfg.CookieName, session.ID, maxAge, "/", "", h.cfg.SecureCookie, true)

	h.audit.Record(c.Request.Context(), session, c.ClientIP(), models.AuditActionLogin, "session", session.ID, nil)
	c.Redirect(http.StatusSeeOther, "/")
}

// Logout discards the session and clears the cookie.
func (h *AuthHandler) Logout(c *gin.Context) {
	session := middleware.SessionFrom(c)
	if cookie, err := c.Cookie(h.cfg.CookieName); err == nil {
		_ = h.sessions.Logout(c.Request.Context(), cookie)
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(h.cfg.CookieName, "", -1, "/", "", h.cfg.SecureCookie, true)

	h.audit.Record(c.Request.Context(), session, c.ClientIP(), models.AuditActionLogout, "session", "", nil)
	c.Redirect(http.StatusSeeOther, "/login")
}
