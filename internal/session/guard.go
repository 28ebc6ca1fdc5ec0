package session

import (
	"context"
	"time"
)

// GuardState is the outcome of a session check.
type GuardState int

const (
	// Pending is the state before the check has run.
	Pending GuardState = iota
	Authenticated
	Redirecting
)

func (s GuardState) String() string {
	switch s {
	case Authenticated:
		return "authenticated"
	case Redirecting:
		return "redirecting"
	default:
		return "pending"
	}
}

// Decision tells the view what to render. When State is Redirecting the
// view shows a notice and navigates to RedirectTo after After.
type Decision struct {
	State      GuardState
	RedirectTo string
	After      time.Duration
}

// Guard gates views on the presence of a stored token. The token is not
// validated; the backend rejects stale ones.
type Guard struct {
	LoginPath string
	Delay     time.Duration
}

func NewGuard(loginPath string, delay time.Duration) *Guard {
	return &Guard{LoginPath: loginPath, Delay: delay}
}

// Check reads the token from sess. Storage errors count as logged out.
func (g *Guard) Check(ctx context.Context, sess *Context) Decision {
	if sess != nil {
		if _, err := sess.Token(ctx); err == nil {
			return Decision{State: Authenticated}
		}
	}
	return Decision{State: Redirecting, RedirectTo: g.LoginPath, After: g.Delay}
}
