// Package roomapitest provides an in-memory roomapi.Client for tests.
package roomapitest

import (
	"context"
	"sync"

	"github.com/mossy-p/room-admin/internal/models"
	"github.com/mossy-p/room-admin/internal/roomapi"
)

// Call records one invocation of the fake.
type Call struct {
	Op    string
	Token string
	ID    string
	Body  any
}

// Fake answers from canned values and records every call. Set the *Err
// fields to make the matching operation fail.
type Fake struct {
	mu    sync.Mutex
	calls []Call

	Rooms     []models.Room
	Created   models.Room
	Updated   models.Room
	LoginResp models.LoginResponse

	ListErr   error
	CreateErr error
	UpdateErr error
	DeleteErr error
	LoginErr  error

	// Block, when set, is received from before an update or create returns,
	// letting tests hold a request in flight.
	Block chan struct{}
}

var _ roomapi.Client = (*Fake)(nil)

func (f *Fake) record(c Call) {
	f.mu.Lock()
	f.calls = append(f.calls, c)
	f.mu.Unlock()
}

// Calls returns a copy of the recorded calls.
func (f *Fake) Calls() []Call {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]Call(nil), f.calls...)
}

// CallsTo counts recorded calls of op.
func (f *Fake) CallsTo(op string) int {
	n := 0
	for _, c := range f.Calls() {
		if c.Op == op {
			n++
		}
	}
	return n
}

func (f *Fake) wait() {
	if f.Block != nil {
		<-f.Block
	}
}

func (f *Fake) ListRooms(ctx context.Context) ([]models.Room, error) {
	f.record(Call{Op: "list"})
	if f.ListErr != nil {
		return nil, f.ListErr
	}
	return append([]models.Room(nil), f.Rooms...), nil
}

func (f *Fake) CreateRoom(ctx context.Context, token string, req models.CreateRoomRequest) (models.Room, error) {
	f.record(Call{Op: "create", Token: token, Body: req})
	f.wait()
	if f.CreateErr != nil {
		return models.Room{}, f.CreateErr
	}
	return f.Created, nil
}

func (f *Fake) UpdateRoom(ctx context.Context, token, id string, req models.UpdateRoomRequest) (models.Room, error) {
	f.record(Call{Op: "update", Token: token, ID: id, Body: req})
	f.wait()
	if f.UpdateErr != nil {
		return models.Room{}, f.UpdateErr
	}
	return f.Updated, nil
}

func (f *Fake) DeleteRoom(ctx context.Context, token, id string) error {
	f.record(Call{Op: "delete", Token: token, ID: id})
	return f.DeleteErr
}

func (f *Fake) Login(ctx context.Context, req models.LoginRequest) (models.LoginResponse, error) {
	f.record(Call{Op: "login", Body: req})
	if f.LoginErr != nil {
		return models.LoginResponse{}, f.LoginErr
	}
	return f.LoginResp, nil
}
