package web

import (
	"fmt"
	"html/template"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/mossy-p/room-admin/internal/session"
)

const (
	workspaceKey = "workspace"
	loggedInKey  = "logged_in"
)

// loadSession resolves the session cookie, issuing a new id when it is
// missing or malformed, and attaches the matching workspace.
func (s *Server) loadSession(c *gin.Context) {
	id, err := c.Cookie(s.opts.CookieName)
	if err != nil || uuid.Validate(id) != nil {
		id = uuid.NewString()
	}

	s.setSessionCookie(c, id)
	c.Set(workspaceKey, s.workspace(id))
	c.Next()
}

func (s *Server) setSessionCookie(c *gin.Context, id string) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(s.opts.CookieName, id, int(s.opts.SessionTTL/time.Second), "/", "", s.opts.SecureCookie, true)
}

func currentWorkspace(c *gin.Context) *workspace {
	return c.MustGet(workspaceKey).(*workspace)
}

// requireLogin shows a redirect notice to browsers without a token. The
// page navigates to the login view after the guard's delay.
func (s *Server) requireLogin(c *gin.Context) {
	ws := currentWorkspace(c)
	decision := s.guard.Check(c.Request.Context(), ws.sess)
	if decision.State == session.Authenticated {
		c.Set(loggedInKey, true)
		c.Next()
		return
	}

	seconds := int(decision.After.Round(time.Second) / time.Second)
	c.Header("Refresh", fmt.Sprintf("%d; url=%s", seconds, decision.RedirectTo))
	s.render(c, http.StatusUnauthorized, "redirect.html", "Redirecting", gin.H{
		"Refresh":    template.HTMLAttr(fmt.Sprintf(`content="%d;url=%s"`, seconds, template.HTMLEscapeString(decision.RedirectTo))),
		"RedirectTo": decision.RedirectTo,
	})
	c.Abort()
}
