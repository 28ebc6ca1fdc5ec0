// Package rooms holds the dashboard's room state: the fetched directory with
// its filters and statistics, the edit/delete flow and the creation form.
// Nothing here renders; the web package drives these types from requests.
package rooms

import (
	"errors"
	"time"
)

// Form field names used as FieldErrors keys.
const (
	FieldName            = "roomName"
	FieldPassword        = "password"
	FieldCapacity        = "capacity"
	FieldSlots           = "roomSlots"
	FieldNewPassword     = "newPassword"
	FieldConfirmPassword = "confirmPassword"
)

var (
	// ErrValidation is returned by a submit that was blocked by field errors.
	ErrValidation = errors.New("form has validation errors")
	// ErrSubmitInFlight is returned when a request for the same form is
	// already running.
	ErrSubmitInFlight = errors.New("a submission is already in progress")
	// ErrNotEditing is returned by SubmitEdit when no room is open.
	ErrNotEditing = errors.New("no room is being edited")
)

// FieldErrors maps a form field to its validation message.
type FieldErrors map[string]string

// OK reports whether there are no errors.
func (fe FieldErrors) OK() bool { return len(fe) == 0 }

// Get returns the message for field, or "".
func (fe FieldErrors) Get(field string) string { return fe[field] }

// Scheduler runs f once after d and returns a function that cancels it.
type Scheduler func(d time.Duration, f func()) (stop func() bool)

// AfterFunc is the Scheduler backed by time.AfterFunc.
func AfterFunc(d time.Duration, f func()) func() bool {
	return time.AfterFunc(d, f).Stop
}
