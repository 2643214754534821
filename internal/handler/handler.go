// Package handler wires the panel's HTTP surface: server-rendered pages
// for the admin flows plus a handful of JSON and download endpoints.
package handler

import (
	"context"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"

	"github.com/artsfest/admin-panel/internal/backend"
	"github.com/artsfest/admin-panel/internal/middleware"
	appErrors "github.com/artsfest/admin-panel/pkg/errors"
)

// page carries the fields every rendered page shares: the chrome and the
// one-shot flash messages passed through the redirect query string.
type page struct {
	Title          string
	Active         string
	UserName       string
	Error          string
	Notice         string
	ExportsEnabled bool
}

func newPage(c *gin.Context, title, active string, exportsEnabled bool) page {
	p := page{
		Title:          title,
		Active:         active,
		Error:          c.Query("error"),
		Notice:         c.Query("notice"),
		ExportsEnabled: exportsEnabled,
	}
	if session := middleware.SessionFrom(c); session != nil {
		p.UserName = session.UserName
	}
	return p
}

// backendContext attaches the session's bearer token so the client
// authenticates outgoing calls.
func backendContext(c *gin.Context) context.Context {
	ctx := c.Request.Context()
	if session := middleware.SessionFrom(c); session != nil {
		ctx = backend.WithToken(ctx, session.Token)
	}
	return ctx
}

// redirectWith sends the browser to path with one flash message attached.
func redirectWith(c *gin.Context, path, key, message string) {
	target := path
	if message != "" {
		values := url.Values{key: {message}}
		separator := "?"
		if u, err := url.Parse(path); err == nil && u.RawQuery != "" {
			separator = "&"
		}
		target = path + separator + values.Encode()
	}
	c.Redirect(http.StatusSeeOther, target)
}

// redirectError redirects with the user-facing message of err as the flash.
func redirectError(c *gin.Context, path string, err error) {
	redirectWith(c, path, "error", appErrors.FromError(err).Message)
}
