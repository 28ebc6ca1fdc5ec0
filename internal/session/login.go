package session

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/mossy-p/room-admin/internal/models"
	"github.com/mossy-p/room-admin/internal/roomapi"
)

const (
	FieldEmail    = "email"
	FieldPassword = "password"

	loginFailedMessage = "Login failed"
	minPasswordLength  = 6
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// ErrInvalidLogin is returned by Login when the draft fails validation.
var ErrInvalidLogin = errors.New("login form has validation errors")

// LoginDraft is the login form.
type LoginDraft struct {
	Email    string
	Password string
}

// Validate returns field → message for every invalid field.
func (d LoginDraft) Validate() map[string]string {
	errs := map[string]string{}
	switch {
	case strings.TrimSpace(d.Email) == "":
		errs[FieldEmail] = "Email is required"
	case !emailPattern.MatchString(d.Email):
		errs[FieldEmail] = "Please enter a valid email address"
	}
	switch {
	case d.Password == "":
		errs[FieldPassword] = "Password is required"
	case utf8.RuneCountInString(d.Password) < minPasswordLength:
		errs[FieldPassword] = fmt.Sprintf("Password must be at least %d characters", minPasswordLength)
	}
	return errs
}

// LoginResult carries what the login page needs to re-render on failure.
type LoginResult struct {
	FieldErrors map[string]string
	APIErr      string
}

// Login validates d, authenticates against the backend and stores the
// token and profile in sess.
func Login(ctx context.Context, client roomapi.Client, sess *Context, d LoginDraft) (LoginResult, error) {
	if errs := d.Validate(); len(errs) > 0 {
		return LoginResult{FieldErrors: errs}, ErrInvalidLogin
	}

	resp, err := client.Login(ctx, models.LoginRequest{Email: d.Email, Password: d.Password})
	if err != nil {
		return LoginResult{APIErr: roomapi.Message(err, loginFailedMessage)}, err
	}
	if err := sess.Save(ctx, resp); err != nil {
		return LoginResult{APIErr: loginFailedMessage}, fmt.Errorf("save session: %w", err)
	}
	return LoginResult{}, nil
}
