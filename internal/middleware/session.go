package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/artsfest/admin-panel/internal/models"
	"github.com/artsfest/admin-panel/internal/service"
	appErrors "github.com/artsfest/admin-panel/pkg/errors"
	"github.com/artsfest/admin-panel/pkg/response"
)

// ContextSessionKey is the gin context key storing the operator session.
const ContextSessionKey = "currentSession"

// RequireSession protects routes behind a valid operator session. HTML
// routes redirect to the login page; JSON routes get a 401 envelope.
func RequireSession(sessions *service.SessionService, cookieName string, redirectToLogin bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		cookie, err := c.Cookie(cookieName)
		if err != nil {
			deny(c, redirectToLogin, appErrors.ErrUnauthorized)
			return
		}

		session, err := sessions.Current(c.Request.Context(), cookie)
		if err != nil {
			deny(c, redirectToLogin, err)
			return
		}

		c.Set(ContextSessionKey, session)
		c.Next()
	}
}

func deny(c *gin.Context, redirectToLogin bool, err error) {
	if redirectToLogin {
		c.Redirect(http.StatusSeeOther, "/login")
		c.Abort()
		return
	}
	response.Error(c, err)
	c.Abort()
}

// SessionFrom returns the session attached by RequireSession.
func SessionFrom(c *gin.Context) *models.Session {
	if v, ok := c.Get(ContextSessionKey); ok {
		if session, ok := v.(*models.Session); ok {
			return session
		}
	}
	return nil
}
