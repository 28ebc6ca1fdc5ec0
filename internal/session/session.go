package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/mossy-p/room-admin/internal/models"
)

// ErrNoToken is returned by Token when nobody is logged in.
var ErrNoToken = errors.New("no session token")

// Context is one browser's login state inside a Storage.
type Context struct {
	store Storage
	id    string
}

func New(store Storage, id string) *Context {
	return &Context{store: store, id: id}
}

func (c *Context) ID() string { return c.id }

func (c *Context) tokenKey() string { return "session:" + c.id + ":token" }
func (c *Context) userKey() string  { return "session:" + c.id + ":user" }

// Token returns the stored bearer token or ErrNoToken.
func (c *Context) Token(ctx context.Context) (string, error) {
	tok, ok, err := c.store.Get(ctx, c.tokenKey())
	if err != nil {
		return "", err
	}
	if !ok || tok == "" {
		return "", ErrNoToken
	}
	return tok, nil
}

// User returns the stored profile, if any.
func (c *Context) User(ctx context.Context) (models.User, bool, error) {
	raw, ok, err := c.store.Get(ctx, c.userKey())
	if err != nil || !ok {
		return models.User{}, false, err
	}
	var u models.User
	if err := json.Unmarshal([]byte(raw), &u); err != nil {
		return models.User{}, false, fmt.Errorf("decode stored user: %w", err)
	}
	return u, true, nil
}

// Save stores the token and profile returned by a login.
func (c *Context) Save(ctx context.Context, resp models.LoginResponse) error {
	blob, err := json.Marshal(resp.User)
	if err != nil {
		return fmt.Errorf("encode user: %w", err)
	}
	if err := c.store.Set(ctx, c.tokenKey(), resp.Token); err != nil {
		return err
	}
	return c.store.Set(ctx, c.userKey(), string(blob))
}

// Clear logs the browser out.
func (c *Context) Clear(ctx context.Context) error {
	return c.store.Delete(ctx, c.tokenKey(), c.userKey())
}
