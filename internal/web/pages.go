package web

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/mossy-p/room-admin/internal/dashboard"
	"github.com/mossy-p/room-admin/internal/models"
	"github.com/mossy-p/room-admin/internal/roomapi"
	"github.com/mossy-p/room-admin/internal/rooms"
	"github.com/mossy-p/room-admin/internal/session"
)

// render executes a page template with the fields every page shares.
func (s *Server) render(c *gin.Context, status int, name, title string, data gin.H) {
	if data == nil {
		data = gin.H{}
	}
	data["Title"] = title
	data["LoggedIn"] = c.GetBool(loggedInKey)
	c.HTML(status, name, data)
}

func (s *Server) notFound(c *gin.Context) {
	s.render(c, http.StatusNotFound, "error.html", "Not found", gin.H{"Message": "Room not found"})
}

// statusFor picks the response code for a failed form submission.
func statusFor(err error) int {
	var apiErr *roomapi.APIError
	switch {
	case errors.Is(err, rooms.ErrValidation), errors.Is(err, session.ErrInvalidLogin):
		return http.StatusUnprocessableEntity
	case errors.Is(err, rooms.ErrSubmitInFlight):
		return http.StatusConflict
	case errors.As(err, &apiErr) && apiErr.Status >= 400:
		return apiErr.Status
	default:
		return http.StatusBadGateway
	}
}

// formInt reads a numeric form field. Anything unparsable reads as 0 and
// fails the range checks downstream.
func formInt(c *gin.Context, field string) int {
	n, err := strconv.Atoi(strings.TrimSpace(c.PostForm(field)))
	if err != nil {
		return 0
	}
	return n
}

// ensureLoaded fetches the directory the first time a session needs it.
func (s *Server) ensureLoaded(c *gin.Context, ws *workspace, force bool) {
	if ws.dir.Loaded() && !force {
		return
	}
	if err := ws.dir.LoadAll(c.Request.Context()); err != nil {
		s.logger.WithError(err).Warn("Failed to load rooms")
	}
}

func (s *Server) loginPage(c *gin.Context) {
	ws := currentWorkspace(c)
	if s.guard.Check(c.Request.Context(), ws.sess).State == session.Authenticated {
		c.Redirect(http.StatusSeeOther, "/")
		return
	}
	s.render(c, http.StatusOK, "login.html", "Login", gin.H{"Errors": map[string]string{}})
}

func (s *Server) login(c *gin.Context) {
	ws := currentWorkspace(c)
	draft := session.LoginDraft{
		Email:    strings.TrimSpace(c.PostForm("email")),
		Password: c.PostForm("password"),
	}

	// A successful login moves the browser to a fresh session id.
	fresh := session.New(s.opts.Storage, uuid.NewString())
	res, err := session.Login(c.Request.Context(), s.opts.Client, fresh, draft)
	if err != nil {
		if !errors.Is(err, session.ErrInvalidLogin) {
			s.logger.WithError(err).WithField("email", draft.Email).Warn("Login failed")
		}
		s.render(c, statusFor(err), "login.html", "Login", gin.H{
			"Email":  draft.Email,
			"Errors": res.FieldErrors,
			"APIErr": res.APIErr,
		})
		return
	}

	if err := ws.sess.Clear(c.Request.Context()); err != nil {
		s.logger.WithError(err).Error("Failed to clear previous session")
	}
	s.dropWorkspace(ws.sess.ID())
	s.setSessionCookie(c, fresh.ID())
	c.Redirect(http.StatusSeeOther, "/")
}

func (s *Server) logout(c *gin.Context) {
	ws := currentWorkspace(c)
	if err := ws.sess.Clear(c.Request.Context()); err != nil {
		s.logger.WithError(err).Error("Failed to clear session")
	}
	s.dropWorkspace(ws.sess.ID())
	c.Redirect(http.StatusSeeOther, loginPath)
}

func (s *Server) listRooms(c *gin.Context) {
	ws := currentWorkspace(c)
	s.ensureLoaded(c, ws, c.Query("refresh") == "1" || ws.takeStale())

	status := rooms.ParseStatus(c.Query("status"))
	query := c.Query("q")
	edit := ws.editor.View()

	s.render(c, http.StatusOK, "list.html", "Rooms", gin.H{
		"Rooms":   ws.dir.Filter(status, query),
		"Stats":   ws.dir.Stats(),
		"Status":  string(status),
		"Query":   query,
		"Loaded":  ws.dir.Loaded(),
		"LoadErr": ws.dir.Err(),
		"APIErr":  edit.APIErr,
	})
	if edit.State == rooms.EditIdle {
		ws.editor.ClearError()
	}
}

func (s *Server) editData(ws *workspace) gin.H {
	view := ws.editor.View()
	return gin.H{
		"Edit":       view,
		"Submitting": view.State == rooms.EditSubmitting,
	}
}

func (s *Server) editPage(c *gin.Context) {
	ws := currentWorkspace(c)
	s.ensureLoaded(c, ws, false)

	room, ok := ws.dir.Get(c.Param("id"))
	if !ok {
		s.notFound(c)
		return
	}
	if err := ws.editor.OpenEdit(room); err != nil {
		s.render(c, statusFor(err), "edit.html", "Edit room", s.editData(ws))
		return
	}
	s.render(c, http.StatusOK, "edit.html", "Edit room", s.editData(ws))
}

func (s *Server) submitEdit(c *gin.Context) {
	ws := currentWorkspace(c)
	id := c.Param("id")

	if view := ws.editor.View(); view.State == rooms.EditIdle || view.RoomID != id {
		s.ensureLoaded(c, ws, false)
		room, ok := ws.dir.Get(id)
		if !ok {
			s.notFound(c)
			return
		}
		if err := ws.editor.OpenEdit(room); err != nil {
			s.render(c, statusFor(err), "edit.html", "Edit room", s.editData(ws))
			return
		}
	}

	ws.editor.SetDraft(rooms.EditDraft{
		Name:            c.PostForm(rooms.FieldName),
		Capacity:        formInt(c, rooms.FieldCapacity),
		Slots:           formInt(c, rooms.FieldSlots),
		NewPassword:     c.PostForm(rooms.FieldNewPassword),
		ConfirmPassword: c.PostForm(rooms.FieldConfirmPassword),
	})

	room, err := ws.editor.SubmitEdit(c.Request.Context())
	if err != nil {
		if !errors.Is(err, rooms.ErrValidation) {
			s.logger.WithError(err).WithField("room_id", id).Warn("Failed to update room")
		}
		s.render(c, statusFor(err), "edit.html", "Edit room", s.editData(ws))
		return
	}

	s.logger.WithField("room_id", room.ID).Info("Room updated")
	c.Redirect(http.StatusSeeOther, "/")
}

func (s *Server) cancelEdit(c *gin.Context) {
	currentWorkspace(c).editor.Cancel()
	c.Redirect(http.StatusSeeOther, "/")
}

func (s *Server) deletePage(c *gin.Context) {
	ws := currentWorkspace(c)
	s.ensureLoaded(c, ws, false)

	room, ok := ws.dir.Get(c.Param("id"))
	if !ok {
		s.notFound(c)
		return
	}
	s.render(c, http.StatusOK, "delete.html", "Delete room", gin.H{
		"Room":   room,
		"Prompt": rooms.DeletePrompt(room.Name),
	})
}

func (s *Server) deleteRoom(c *gin.Context) {
	ws := currentWorkspace(c)
	room, ok := ws.dir.Get(c.Param("id"))
	if !ok {
		s.notFound(c)
		return
	}

	confirmed := func(string) bool { return c.PostForm("confirm") == "yes" }
	deleted, err := ws.editor.Remove(c.Request.Context(), room.ID, room.Name, confirmed)
	if err != nil {
		s.logger.WithError(err).WithField("room_id", room.ID).Warn("Failed to delete room")
		s.render(c, statusFor(err), "delete.html", "Delete room", gin.H{
			"Room":   room,
			"Prompt": rooms.DeletePrompt(room.Name),
			"APIErr": ws.editor.View().APIErr,
		})
		ws.editor.ClearError()
		return
	}
	if deleted {
		s.logger.WithField("room_id", room.ID).Info("Room deleted")
	}
	c.Redirect(http.StatusSeeOther, "/")
}

func (s *Server) createPage(c *gin.Context) {
	ws := currentWorkspace(c)
	s.render(c, http.StatusOK, "create.html", "Create room", gin.H{"Create": ws.create.View()})
}

func (s *Server) createRoom(c *gin.Context) {
	ws := currentWorkspace(c)
	ws.create.SetDraft(rooms.CreateDraft{
		Name:     c.PostForm(rooms.FieldName),
		Password: c.PostForm(rooms.FieldPassword),
		Capacity: formInt(c, rooms.FieldCapacity),
		Slots:    formInt(c, rooms.FieldSlots),
	})

	room, err := ws.create.Submit(c.Request.Context())
	if err != nil {
		if !errors.Is(err, rooms.ErrValidation) {
			s.logger.WithError(err).Warn("Failed to create room")
		}
		s.render(c, statusFor(err), "create.html", "Create room", gin.H{"Create": ws.create.View()})
		return
	}

	ws.markStale()
	s.logger.WithField("room_id", room.ID).Info("Room created")
	c.Redirect(http.StatusSeeOther, "/create-room")
}

func (s *Server) resetCreate(c *gin.Context) {
	currentWorkspace(c).create.Reset()
	c.Redirect(http.StatusSeeOther, "/create-room")
}

func (s *Server) dashboardPage(c *gin.Context) {
	ws := currentWorkspace(c)
	s.ensureLoaded(c, ws, ws.takeStale())
	s.render(c, http.StatusOK, "dashboard.html", "Dashboard", gin.H{
		"Summary": dashboard.Summarize(ws.dir.Rooms()),
		"LoadErr": ws.dir.Err(),
	})
}

func (s *Server) profilePage(c *gin.Context) {
	ws := currentWorkspace(c)
	var user *models.User
	u, ok, err := ws.sess.User(c.Request.Context())
	if err != nil {
		s.logger.WithError(err).Warn("Failed to read stored user")
	}
	if ok {
		user = &u
	}
	s.render(c, http.StatusOK, "profile.html", "Profile", gin.H{"User": user})
}
