package session

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mossy-p/room-admin/internal/models"
	"github.com/mossy-p/room-admin/internal/roomapi"
	"github.com/mossy-p/room-admin/internal/roomapi/roomapitest"
)

func storages(t *testing.T) map[string]Storage {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return map[string]Storage{
		"memory": NewMemoryStorage(),
		"redis":  NewRedisStorage(client, time.Hour),
	}
}

func TestStorageRoundTrip(t *testing.T) {
	ctx := context.Background()
	for name, store := range storages(t) {
		t.Run(name, func(t *testing.T) {
			_, ok, err := store.Get(ctx, "k")
			require.NoError(t, err)
			assert.False(t, ok)

			require.NoError(t, store.Set(ctx, "k", "v"))
			v, ok, err := store.Get(ctx, "k")
			require.NoError(t, err)
			assert.True(t, ok)
			assert.Equal(t, "v", v)

			require.NoError(t, store.Delete(ctx, "k", "missing"))
			_, ok, err = store.Get(ctx, "k")
			require.NoError(t, err)
			assert.False(t, ok)
		})
	}
}

func TestRedisStorageAppliesTTL(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()
	store := NewRedisStorage(client, time.Minute)

	require.NoError(t, store.Set(context.Background(), "session:a:token", "tok"))
	assert.Equal(t, time.Minute, mr.TTL("session:a:token"))

	mr.FastForward(2 * time.Minute)
	_, ok, err := store.Get(context.Background(), "session:a:token")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestContextSaveAndClear(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStorage()
	sess := New(store, "browser-1")

	_, err := sess.Token(ctx)
	assert.ErrorIs(t, err, ErrNoToken)

	user := models.User{ID: "u1", Email: "admin@bgmi.com", Username: "admin"}
	require.NoError(t, sess.Save(ctx, models.LoginResponse{Token: "jwt", User: user}))

	tok, err := sess.Token(ctx)
	require.NoError(t, err)
	assert.Equal(t, "jwt", tok)
	got, ok, err := sess.User(ctx)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, user, got)

	other := New(store, "browser-2")
	_, err = other.Token(ctx)
	assert.ErrorIs(t, err, ErrNoToken, "sessions are isolated")

	require.NoError(t, sess.Clear(ctx))
	_, err = sess.Token(ctx)
	assert.ErrorIs(t, err, ErrNoToken)
	_, ok, err = sess.User(ctx)
	require.NoError(t, err)
	assert.False(t, ok)
}

type failingStorage struct{ MemoryStorage }

func (*failingStorage) Get(context.Context, string) (string, bool, error) {
	return "", false, errors.New("storage down")
}

func TestGuardCheck(t *testing.T) {
	ctx := context.Background()
	guard := NewGuard("/login", time.Second)
	store := NewMemoryStorage()
	sess := New(store, "b")

	d := guard.Check(ctx, sess)
	assert.Equal(t, Redirecting, d.State)
	assert.Equal(t, "/login", d.RedirectTo)
	assert.Equal(t, time.Second, d.After)

	require.NoError(t, store.Set(ctx, "session:b:token", ""))
	assert.Equal(t, Redirecting, guard.Check(ctx, sess).State, "empty token is absent")

	require.NoError(t, sess.Save(ctx, models.LoginResponse{Token: "anything"}))
	assert.Equal(t, Decision{State: Authenticated}, guard.Check(ctx, sess))

	assert.Equal(t, Redirecting, guard.Check(ctx, New(&failingStorage{}, "b")).State)
	assert.Equal(t, Redirecting, guard.Check(ctx, nil).State)
	assert.Equal(t, "pending", Decision{}.State.String())
}

func TestLoginDraftValidate(t *testing.T) {
	tests := []struct {
		name  string
		draft LoginDraft
		want  map[string]string
	}{
		{name: "valid", draft: LoginDraft{Email: "admin@bgmi.com", Password: "secret1"}, want: map[string]string{}},
		{name: "empty", draft: LoginDraft{}, want: map[string]string{FieldEmail: "Email is required", FieldPassword: "Password is required"}},
		{name: "bad email", draft: LoginDraft{Email: "admin@bgmi", Password: "secret1"}, want: map[string]string{FieldEmail: "Please enter a valid email address"}},
		{name: "short password", draft: LoginDraft{Email: "a@b.co", Password: "12345"}, want: map[string]string{FieldPassword: "Password must be at least 6 characters"}},
		{name: "short multibyte password", draft: LoginDraft{Email: "a@b.co", Password: "ééé"}, want: map[string]string{FieldPassword: "Password must be at least 6 characters"}},
		{name: "multibyte password", draft: LoginDraft{Email: "a@b.co", Password: "éééééé"}, want: map[string]string{}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.draft.Validate())
		})
	}
}

func TestLogin(t *testing.T) {
	ctx := context.Background()
	fake := &roomapitest.Fake{LoginResp: models.LoginResponse{Token: "jwt", User: models.User{Username: "admin"}}}
	sess := New(NewMemoryStorage(), "b")

	res, err := Login(ctx, fake, sess, LoginDraft{Email: "admin@bgmi.com", Password: "secret1"})
	require.NoError(t, err)
	assert.Empty(t, res.APIErr)

	tok, err := sess.Token(ctx)
	require.NoError(t, err)
	assert.Equal(t, "jwt", tok)
}

func TestLoginInvalidDraftSkipsBackend(t *testing.T) {
	fake := &roomapitest.Fake{}
	res, err := Login(context.Background(), fake, New(NewMemoryStorage(), "b"), LoginDraft{Email: "nope"})

	assert.ErrorIs(t, err, ErrInvalidLogin)
	assert.Len(t, res.FieldErrors, 2)
	assert.Empty(t, fake.Calls())
}

func TestLoginBackendFailure(t *testing.T) {
	ctx := context.Background()
	sess := New(NewMemoryStorage(), "b")
	draft := LoginDraft{Email: "admin@bgmi.com", Password: "secret1"}

	fake := &roomapitest.Fake{LoginErr: &roomapi.APIError{Status: 401, Message: "Invalid credentials"}}
	res, err := Login(ctx, fake, sess, draft)
	require.Error(t, err)
	assert.Equal(t, "Invalid credentials", res.APIErr)

	fake.LoginErr = errors.New("timeout")
	res, err = Login(ctx, fake, sess, draft)
	require.Error(t, err)
	assert.Equal(t, "Login failed", res.APIErr)

	_, err = sess.Token(ctx)
	assert.ErrorIs(t, err, ErrNoToken)
}
