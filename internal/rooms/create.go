package rooms

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/mossy-p/room-admin/internal/models"
	"github.com/mossy-p/room-admin/internal/roomapi"
)

const (
	createFailedMessage = "Failed to create room"

	defaultCapacity = 100
	defaultSlots    = 25

	minNameLength = 3
	maxNameLength = 50
	maxCapacity   = 1000
	maxSlots      = 100
)

// CreateDraft is the room creation form.
type CreateDraft struct {
	Name     string
	Password string
	Capacity int
	Slots    int
}

// DefaultCreateDraft is the form's initial state.
func DefaultCreateDraft() CreateDraft {
	return CreateDraft{Capacity: defaultCapacity, Slots: defaultSlots}
}

// Validate checks every field of d.
func (d CreateDraft) Validate() FieldErrors {
	errs := FieldErrors{}

	name := strings.TrimSpace(d.Name)
	switch {
	case name == "":
		errs[FieldName] = "Room name is required"
	case utf8.RuneCountInString(name) < minNameLength:
		errs[FieldName] = fmt.Sprintf("Room name must be at least %d characters", minNameLength)
	case utf8.RuneCountInString(name) > maxNameLength:
		errs[FieldName] = fmt.Sprintf("Room name cannot exceed %d characters", maxNameLength)
	}

	switch {
	case d.Password == "":
		errs[FieldPassword] = "Password is required"
	case utf8.RuneCountInString(d.Password) < minPasswordLength:
		errs[FieldPassword] = fmt.Sprintf("Password must be at least %d characters", minPasswordLength)
	}

	switch {
	case d.Capacity < 1:
		errs[FieldCapacity] = "Capacity must be at least 1"
	case d.Capacity > maxCapacity:
		errs[FieldCapacity] = fmt.Sprintf("Capacity cannot exceed %d", maxCapacity)
	}

	switch {
	case d.Slots < 1:
		errs[FieldSlots] = "Room slots must be at least 1"
	case d.Slots > maxSlots:
		errs[FieldSlots] = fmt.Sprintf("Room slots cannot exceed %d", maxSlots)
	}

	return errs
}

// CreateRequest adds the counters of an empty room to d. The name is sent
// trimmed, as validated.
func (d CreateDraft) CreateRequest() models.CreateRoomRequest {
	return models.CreateRoomRequest{
		Name:          strings.TrimSpace(d.Name),
		Password:      d.Password,
		Capacity:      d.Capacity,
		Slots:         d.Slots,
		Occupied:      0,
		FreeSlots:     d.Slots,
		OccupiedSlots: 0,
		IsEmpty:       true,
	}
}

// CreateForm runs the room creation flow.
type CreateForm struct {
	client   roomapi.Client
	tokens   TokenSource
	window   time.Duration
	schedule Scheduler

	mu          sync.Mutex
	draft       CreateDraft
	errs        FieldErrors
	apiErr      string
	submitting  bool
	success     bool
	stopBanner  func() bool
	lastCreated models.Room
}

// NewCreateForm returns a form whose success banner stays up for window
// before the draft is reset. A nil schedule uses AfterFunc.
func NewCreateForm(client roomapi.Client, tokens TokenSource, window time.Duration, schedule Scheduler) *CreateForm {
	if schedule == nil {
		schedule = AfterFunc
	}
	return &CreateForm{
		client:   client,
		tokens:   tokens,
		window:   window,
		schedule: schedule,
		draft:    DefaultCreateDraft(),
		errs:     FieldErrors{},
	}
}

// SetDraft replaces the form input.
func (f *CreateForm) SetDraft(d CreateDraft) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.draft = d
}

// Submit validates the draft and, when valid, creates the room.
func (f *CreateForm) Submit(ctx context.Context) (models.Room, error) {
	f.mu.Lock()
	if f.submitting {
		f.mu.Unlock()
		return models.Room{}, ErrSubmitInFlight
	}
	f.errs = f.draft.Validate()
	if !f.errs.OK() {
		f.mu.Unlock()
		return models.Room{}, ErrValidation
	}
	f.submitting = true
	f.apiErr = ""
	f.clearBanner()
	req := f.draft.CreateRequest()
	f.mu.Unlock()

	room, err := f.create(ctx, req)

	f.mu.Lock()
	defer f.mu.Unlock()
	f.submitting = false
	if err != nil {
		f.apiErr = roomapi.Message(err, createFailedMessage)
		return models.Room{}, err
	}
	f.success = true
	f.lastCreated = room
	f.stopBanner = f.schedule(f.window, f.dismiss)
	return room, nil
}

func (f *CreateForm) create(ctx context.Context, req models.CreateRoomRequest) (models.Room, error) {
	token, err := f.tokens.Token(ctx)
	if err != nil {
		return models.Room{}, fmt.Errorf("read token: %w", err)
	}
	return f.client.CreateRoom(ctx, token, req)
}

// dismiss ends the success window and resets the draft.
func (f *CreateForm) dismiss() {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.success {
		return
	}
	f.success = false
	f.stopBanner = nil
	f.draft = DefaultCreateDraft()
}

// Reset clears the draft, errors and banners.
func (f *CreateForm) Reset() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.clearBanner()
	f.draft = DefaultCreateDraft()
	f.errs = FieldErrors{}
	f.apiErr = ""
}

func (f *CreateForm) clearBanner() {
	if f.stopBanner != nil {
		f.stopBanner()
		f.stopBanner = nil
	}
	f.success = false
}

// CreateView is a snapshot of the form for rendering.
type CreateView struct {
	Draft       CreateDraft
	Errors      FieldErrors
	APIErr      string
	Submitting  bool
	Success     bool
	LastCreated models.Room
}

func (f *CreateForm) View() CreateView {
	f.mu.Lock()
	defer f.mu.Unlock()
	errs := make(FieldErrors, len(f.errs))
	for k, v := range f.errs {
		errs[k] = v
	}
	return CreateView{
		Draft:       f.draft,
		Errors:      errs,
		APIErr:      f.apiErr,
		Submitting:  f.submitting,
		Success:     f.success,
		LastCreated: f.lastCreated,
	}
}
