package rooms

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/mossy-p/room-admin/internal/models"
	"github.com/mossy-p/room-admin/internal/roomapi"
)

const (
	updateFailedMessage = "Failed to update room"
	deleteFailedMessage = "Failed to delete room"
	minPasswordLength   = 4
)

// EditState is where the Editor is in its edit cycle.
type EditState int

const (
	EditIdle EditState = iota
	EditEditing
	EditSubmitting
)

func (s EditState) String() string {
	switch s {
	case EditEditing:
		return "editing"
	case EditSubmitting:
		return "submitting"
	default:
		return "idle"
	}
}

// EditDraft is the edit form. Empty password fields keep the current password.
type EditDraft struct {
	Name            string
	Capacity        int
	Slots           int
	NewPassword     string
	ConfirmPassword string
}

// ValidatePasswordChange checks the optional password change in d.
func ValidatePasswordChange(d EditDraft) FieldErrors {
	errs := FieldErrors{}
	if d.NewPassword == "" && d.ConfirmPassword == "" {
		return errs
	}
	if d.NewPassword != d.ConfirmPassword {
		errs[FieldConfirmPassword] = "Passwords do not match"
		return errs
	}
	if utf8.RuneCountInString(d.NewPassword) < minPasswordLength {
		errs[FieldNewPassword] = fmt.Sprintf("Password must be at least %d characters", minPasswordLength)
	}
	return errs
}

// UpdateRequest builds the partial update payload for d.
func (d EditDraft) UpdateRequest() models.UpdateRoomRequest {
	req := models.UpdateRoomRequest{
		Name:     strings.TrimSpace(d.Name),
		Capacity: d.Capacity,
		Slots:    d.Slots,
	}
	if d.NewPassword != "" {
		pw := d.NewPassword
		req.Password = &pw
	}
	return req
}

// TokenSource yields the bearer token for authenticated calls.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

// Confirmer is asked before a destructive action; prompt names the target.
type Confirmer func(prompt string) bool

// Editor runs the edit and delete flows for one operator. Only one room can
// be open for editing at a time.
type Editor struct {
	client roomapi.Client
	tokens TokenSource
	dir    *Directory

	mu       sync.Mutex
	state    EditState
	roomID   string
	draft    EditDraft
	errs     FieldErrors
	apiErr   string
	deleting map[string]bool
}

func NewEditor(client roomapi.Client, tokens TokenSource, dir *Directory) *Editor {
	return &Editor{
		client:   client,
		tokens:   tokens,
		dir:      dir,
		errs:     FieldErrors{},
		deleting: make(map[string]bool),
	}
}

// OpenEdit starts editing room, replacing any draft that was open.
func (e *Editor) OpenEdit(room models.Room) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state == EditSubmitting {
		return ErrSubmitInFlight
	}
	e.state = EditEditing
	e.roomID = room.ID
	e.draft = EditDraft{
		Name:     room.Name,
		Capacity: room.Capacity,
		Slots:    room.Slots,
	}
	e.errs = FieldErrors{}
	e.apiErr = ""
	return nil
}

// SetDraft replaces the open draft with the operator's input.
func (e *Editor) SetDraft(d EditDraft) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state == EditEditing {
		e.draft = d
	}
}

// Cancel closes the editor and discards the draft.
func (e *Editor) Cancel() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state == EditSubmitting {
		return
	}
	e.reset()
}

func (e *Editor) reset() {
	e.state = EditIdle
	e.roomID = ""
	e.draft = EditDraft{}
	e.errs = FieldErrors{}
	e.apiErr = ""
}

// SubmitEdit validates the open draft and sends it. On success the directory
// entry is replaced with the server's copy and the editor closes; on a
// failed request the draft stays open with the error set.
func (e *Editor) SubmitEdit(ctx context.Context) (models.Room, error) {
	e.mu.Lock()
	switch e.state {
	case EditSubmitting:
		e.mu.Unlock()
		return models.Room{}, ErrSubmitInFlight
	case EditIdle:
		e.mu.Unlock()
		return models.Room{}, ErrNotEditing
	}
	e.errs = ValidatePasswordChange(e.draft)
	if !e.errs.OK() {
		e.mu.Unlock()
		return models.Room{}, ErrValidation
	}
	e.state = EditSubmitting
	e.apiErr = ""
	id, req := e.roomID, e.draft.UpdateRequest()
	e.mu.Unlock()

	room, err := e.update(ctx, id, req)

	e.mu.Lock()
	defer e.mu.Unlock()
	if err != nil {
		e.state = EditEditing
		e.apiErr = roomapi.Message(err, updateFailedMessage)
		return models.Room{}, err
	}
	e.dir.Replace(room)
	e.reset()
	return room, nil
}

func (e *Editor) update(ctx context.Context, id string, req models.UpdateRoomRequest) (models.Room, error) {
	token, err := e.tokens.Token(ctx)
	if err != nil {
		return models.Room{}, fmt.Errorf("read token: %w", err)
	}
	return e.client.UpdateRoom(ctx, token, id, req)
}

// DeletePrompt is the confirmation question shown before deleting name.
func DeletePrompt(name string) string {
	return fmt.Sprintf("Are you sure you want to delete room %q?", name)
}

// Remove deletes room id after confirm accepts a prompt naming it. It
// reports whether the room was deleted; the directory entry is dropped only
// once the backend confirms.
func (e *Editor) Remove(ctx context.Context, id, name string, confirm Confirmer) (bool, error) {
	if confirm == nil || !confirm(DeletePrompt(name)) {
		return false, nil
	}

	e.mu.Lock()
	if e.deleting[id] || (e.state == EditSubmitting && e.roomID == id) {
		e.mu.Unlock()
		return false, ErrSubmitInFlight
	}
	e.deleting[id] = true
	e.apiErr = ""
	e.mu.Unlock()

	err := e.delete(ctx, id)

	e.mu.Lock()
	defer e.mu.Unlock()
	delete(e.deleting, id)
	if err != nil {
		e.apiErr = roomapi.Message(err, deleteFailedMessage)
		return false, err
	}
	e.dir.Remove(id)
	if e.roomID == id && e.state == EditEditing {
		e.reset()
	}
	return true, nil
}

func (e *Editor) delete(ctx context.Context, id string) error {
	token, err := e.tokens.Token(ctx)
	if err != nil {
		return fmt.Errorf("read token: %w", err)
	}
	return e.client.DeleteRoom(ctx, token, id)
}

// EditView is a snapshot of the editor for rendering.
type EditView struct {
	State  EditState
	RoomID string
	Draft  EditDraft
	Errors FieldErrors
	APIErr string
}

func (e *Editor) View() EditView {
	e.mu.Lock()
	defer e.mu.Unlock()
	errs := make(FieldErrors, len(e.errs))
	for k, v := range e.errs {
		errs[k] = v
	}
	return EditView{
		State:  e.state,
		RoomID: e.roomID,
		Draft:  e.draft,
		Errors: errs,
		APIErr: e.apiErr,
	}
}

// ClearError drops the last surfaced request error.
func (e *Editor) ClearError() {
	e.mu.Lock()
	e.apiErr = ""
	e.mu.Unlock()
}
