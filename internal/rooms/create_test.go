package rooms

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mossy-p/room-admin/internal/models"
	"github.com/mossy-p/room-admin/internal/roomapi"
	"github.com/mossy-p/room-admin/internal/roomapi/roomapitest"
)

// manualScheduler holds scheduled functions until fire is called.
type manualScheduler struct {
	delays  []time.Duration
	pending []func()
	stopped int
}

func (m *manualScheduler) schedule(d time.Duration, f func()) func() bool {
	m.delays = append(m.delays, d)
	idx := len(m.pending)
	m.pending = append(m.pending, f)
	return func() bool {
		if m.pending[idx] == nil {
			return false
		}
		m.pending[idx] = nil
		m.stopped++
		return true
	}
}

func (m *manualScheduler) fire() {
	for i, f := range m.pending {
		if f != nil {
			m.pending[i] = nil
			f()
		}
	}
}

func TestCreateDraftValidate(t *testing.T) {
	valid := CreateDraft{Name: "abc", Password: "abcd", Capacity: 100, Slots: 25}

	tests := []struct {
		name  string
		edit  func(d *CreateDraft)
		field string
		msg   string
	}{
		{name: "name required", edit: func(d *CreateDraft) { d.Name = "   " }, field: FieldName, msg: "Room name is required"},
		{name: "name too short", edit: func(d *CreateDraft) { d.Name = "ab" }, field: FieldName, msg: "Room name must be at least 3 characters"},
		{name: "name trimmed before length", edit: func(d *CreateDraft) { d.Name = "  ab  " }, field: FieldName, msg: "Room name must be at least 3 characters"},
		{name: "name too long", edit: func(d *CreateDraft) { d.Name = strings.Repeat("x", 51) }, field: FieldName, msg: "Room name cannot exceed 50 characters"},
		{name: "multibyte name too short", edit: func(d *CreateDraft) { d.Name = "éé" }, field: FieldName, msg: "Room name must be at least 3 characters"},
		{name: "multibyte name too long", edit: func(d *CreateDraft) { d.Name = strings.Repeat("é", 51) }, field: FieldName, msg: "Room name cannot exceed 50 characters"},
		{name: "password required", edit: func(d *CreateDraft) { d.Password = "" }, field: FieldPassword, msg: "Password is required"},
		{name: "password too short", edit: func(d *CreateDraft) { d.Password = "abc" }, field: FieldPassword, msg: "Password must be at least 4 characters"},
		{name: "multibyte password too short", edit: func(d *CreateDraft) { d.Password = "ééé" }, field: FieldPassword, msg: "Password must be at least 4 characters"},
		{name: "capacity low", edit: func(d *CreateDraft) { d.Capacity = 0 }, field: FieldCapacity, msg: "Capacity must be at least 1"},
		{name: "capacity high", edit: func(d *CreateDraft) { d.Capacity = 1001 }, field: FieldCapacity, msg: "Capacity cannot exceed 1000"},
		{name: "slots low", edit: func(d *CreateDraft) { d.Slots = -1 }, field: FieldSlots, msg: "Room slots must be at least 1"},
		{name: "slots high", edit: func(d *CreateDraft) { d.Slots = 101 }, field: FieldSlots, msg: "Room slots cannot exceed 100"},
	}

	assert.True(t, valid.Validate().OK())
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			d := valid
			tc.edit(&d)
			errs := d.Validate()
			assert.Len(t, errs, 1)
			assert.Equal(t, tc.msg, errs.Get(tc.field))
		})
	}

	edge := CreateDraft{Name: strings.Repeat("x", 50), Password: "abcd", Capacity: 1000, Slots: 100}
	assert.True(t, edge.Validate().OK())

	multibyte := CreateDraft{Name: strings.Repeat("é", 50), Password: "éééé", Capacity: 1, Slots: 1}
	assert.True(t, multibyte.Validate().OK(), "lengths count characters")
}

func TestCreateRequestTrimsName(t *testing.T) {
	padded := CreateDraft{Name: " " + strings.Repeat("x", 50) + " ", Password: "abcd", Capacity: 100, Slots: 25}
	require.True(t, padded.Validate().OK())
	assert.Equal(t, strings.Repeat("x", 50), padded.CreateRequest().Name)
}

func newCreateForm(fake *roomapitest.Fake) (*CreateForm, *manualScheduler) {
	sched := &manualScheduler{}
	return NewCreateForm(fake, staticToken("tok"), 3*time.Second, sched.schedule), sched
}

func TestCreateFormShortNameBlocksRequest(t *testing.T) {
	fake := &roomapitest.Fake{}
	form, _ := newCreateForm(fake)
	form.SetDraft(CreateDraft{Name: "ab", Password: "abcd", Capacity: 100, Slots: 25})

	_, err := form.Submit(context.Background())
	require.ErrorIs(t, err, ErrValidation)

	assert.Empty(t, fake.Calls())
	assert.Equal(t, "Room name must be at least 3 characters", form.View().Errors.Get(FieldName))
}

func TestCreateFormSubmitsDefaults(t *testing.T) {
	created := models.Room{ID: "new", Name: "abc"}
	fake := &roomapitest.Fake{Created: created}
	form, sched := newCreateForm(fake)
	form.SetDraft(CreateDraft{Name: "abc", Password: "abcd", Capacity: 100, Slots: 25})

	got, err := form.Submit(context.Background())
	require.NoError(t, err)
	assert.Equal(t, created, got)

	calls := fake.Calls()
	require.Len(t, calls, 1)
	assert.Equal(t, "tok", calls[0].Token)
	assert.Equal(t, models.CreateRoomRequest{
		Name:          "abc",
		Password:      "abcd",
		Capacity:      100,
		Slots:         25,
		Occupied:      0,
		FreeSlots:     25,
		OccupiedSlots: 0,
		IsEmpty:       true,
	}, calls[0].Body)

	v := form.View()
	assert.True(t, v.Success)
	assert.False(t, v.Submitting)
	assert.Equal(t, []time.Duration{3 * time.Second}, sched.delays)

	sched.fire()
	v = form.View()
	assert.False(t, v.Success)
	assert.Equal(t, DefaultCreateDraft(), v.Draft)
}

func TestCreateFormFailureMessages(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{name: "server message", err: &roomapi.APIError{Status: 409, Message: "Room name already exists"}, want: "Room name already exists"},
		{name: "no message", err: &roomapi.APIError{Status: 500}, want: "Failed to create room"},
		{name: "transport", err: errors.New("connection reset"), want: "Failed to create room"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			form, sched := newCreateForm(&roomapitest.Fake{CreateErr: tc.err})
			draft := CreateDraft{Name: "abc", Password: "abcd", Capacity: 10, Slots: 5}
			form.SetDraft(draft)

			_, err := form.Submit(context.Background())
			require.Error(t, err)

			v := form.View()
			assert.Equal(t, tc.want, v.APIErr)
			assert.False(t, v.Success)
			assert.False(t, v.Submitting)
			assert.Equal(t, draft, v.Draft)
			assert.Empty(t, sched.delays)
		})
	}
}

func TestCreateFormReset(t *testing.T) {
	form, sched := newCreateForm(&roomapitest.Fake{})
	form.SetDraft(CreateDraft{Name: "abc", Password: "abcd", Capacity: 10, Slots: 5})
	_, err := form.Submit(context.Background())
	require.NoError(t, err)

	form.SetDraft(CreateDraft{Name: "x"})
	_, err = form.Submit(context.Background())
	require.ErrorIs(t, err, ErrValidation)

	form.Reset()
	v := form.View()
	assert.Equal(t, DefaultCreateDraft(), v.Draft)
	assert.Empty(t, v.Errors)
	assert.Empty(t, v.APIErr)
	assert.False(t, v.Success)
	assert.Equal(t, 1, sched.stopped)
}

func TestCreateFormRejectsDuplicateSubmission(t *testing.T) {
	fake := &roomapitest.Fake{Block: make(chan struct{})}
	form := NewCreateForm(fake, staticToken("tok"), time.Hour, nil)
	form.SetDraft(CreateDraft{Name: "abc", Password: "abcd", Capacity: 10, Slots: 5})

	done := make(chan error, 1)
	go func() {
		_, err := form.Submit(context.Background())
		done <- err
	}()
	require.Eventually(t, func() bool { return form.View().Submitting }, time.Second, time.Millisecond)

	_, err := form.Submit(context.Background())
	assert.ErrorIs(t, err, ErrSubmitInFlight)

	close(fake.Block)
	require.NoError(t, <-done)
	assert.Equal(t, 1, fake.CallsTo("create"))
	form.Reset()
}
