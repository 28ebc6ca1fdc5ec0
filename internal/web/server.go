// Package web serves the room administration pages. Each browser gets a
// session cookie; the session id selects a workspace holding that
// operator's room directory, editor and creation form.
package web

import (
	"embed"
	"fmt"
	"html/template"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/mossy-p/room-admin/internal/middleware"
	"github.com/mossy-p/room-admin/internal/models"
	"github.com/mossy-p/room-admin/internal/roomapi"
	"github.com/mossy-p/room-admin/internal/rooms"
	"github.com/mossy-p/room-admin/internal/session"
)

//go:embed templates/*.html
var templateFS embed.FS

const loginPath = "/login"

// Options configures a Server.
type Options struct {
	Client        roomapi.Client
	Storage       session.Storage
	Logger        *logrus.Logger
	CookieName    string
	SessionTTL    time.Duration
	RedirectDelay time.Duration
	SuccessWindow time.Duration
	SecureCookie  bool
	// Schedule runs the success banner timer. Nil means rooms.AfterFunc.
	Schedule rooms.Scheduler
}

// Server is the admin UI.
type Server struct {
	opts   Options
	guard  *session.Guard
	logger *logrus.Logger
	tmpl   *template.Template

	mu         sync.Mutex
	workspaces map[string]*workspace
}

// workspace is one browser session's room state.
type workspace struct {
	sess   *session.Context
	dir    *rooms.Directory
	editor *rooms.Editor
	create *rooms.CreateForm

	mu       sync.Mutex
	stale    bool
	lastSeen time.Time
}

func NewServer(opts Options) (*Server, error) {
	tmpl, err := template.New("").Funcs(template.FuncMap{
		"occupancy": func(r models.Room) string { return string(rooms.OccupancyLevel(r)) },
		"percent":   func(r models.Room) string { return fmt.Sprintf("%.0f%%", rooms.OccupancyRatio(r)*100) },
	}).ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}

	return &Server{
		opts:       opts,
		guard:      session.NewGuard(loginPath, opts.RedirectDelay),
		logger:     opts.Logger,
		tmpl:       tmpl,
		workspaces: make(map[string]*workspace),
	}, nil
}

// Router builds the gin engine serving every page.
func (s *Server) Router() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), middleware.Logger(s.logger))
	router.SetHTMLTemplate(s.tmpl)

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	pages := router.Group("", s.loadSession)
	{
		pages.GET(loginPath, s.loginPage)
		pages.POST(loginPath, s.login)
		pages.POST("/logout", s.logout)

		guarded := pages.Group("", s.requireLogin)
		guarded.GET("/", s.listRooms)
		guarded.GET("/rooms/:id/edit", s.editPage)
		guarded.POST("/rooms/:id/edit", s.submitEdit)
		guarded.POST("/rooms/:id/edit/cancel", s.cancelEdit)
		guarded.GET("/rooms/:id/delete", s.deletePage)
		guarded.POST("/rooms/:id/delete", s.deleteRoom)
		guarded.GET("/create-room", s.createPage)
		guarded.POST("/create-room", s.createRoom)
		guarded.POST("/create-room/reset", s.resetCreate)
		guarded.GET("/dashboard", s.dashboardPage)
		guarded.GET("/profile", s.profilePage)
	}

	return router
}

// workspace returns the workspace for id, creating it on first use.
// Workspaces idle for longer than the session TTL are dropped.
func (s *Server) workspace(id string) *workspace {
	now := time.Now()
	s.mu.Lock()
	defer s.mu.Unlock()

	if ws, ok := s.workspaces[id]; ok {
		ws.touch(now)
		return ws
	}

	if s.opts.SessionTTL > 0 {
		for key, ws := range s.workspaces {
			if now.Sub(ws.seen()) > s.opts.SessionTTL {
				delete(s.workspaces, key)
			}
		}
	}

	sess := session.New(s.opts.Storage, id)
	dir := rooms.NewDirectory(s.opts.Client)
	ws := &workspace{
		sess:     sess,
		dir:      dir,
		editor:   rooms.NewEditor(s.opts.Client, sess, dir),
		create:   rooms.NewCreateForm(s.opts.Client, sess, s.opts.SuccessWindow, s.opts.Schedule),
		lastSeen: now,
	}
	s.workspaces[id] = ws
	return ws
}

// dropWorkspace forgets the room state of session id.
func (s *Server) dropWorkspace(id string) {
	s.mu.Lock()
	ws, ok := s.workspaces[id]
	delete(s.workspaces, id)
	s.mu.Unlock()
	if ok {
		ws.create.Reset()
	}
}

func (ws *workspace) touch(now time.Time) {
	ws.mu.Lock()
	ws.lastSeen = now
	ws.mu.Unlock()
}

func (ws *workspace) seen() time.Time {
	ws.mu.Lock()
	defer ws.mu.Unlock()
	return ws.lastSeen
}

// markStale makes the next list visit refetch.
func (ws *workspace) markStale() {
	ws.mu.Lock()
	ws.stale = true
	ws.mu.Unlock()
}

func (ws *workspace) takeStale() bool {
	ws.mu.Lock()
	defer ws.mu.Unlock()
	stale := ws.stale
	ws.stale = false
	return stale
}
