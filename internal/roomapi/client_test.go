package roomapi

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mossy-p/room-admin/internal/models"
)

type recorded struct {
	method string
	path   string
	auth   string
	body   map[string]any
}

func newServer(t *testing.T, status int, respBody string) (*HTTPClient, *recorded) {
	t.Helper()
	rec := &recorded{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec.method = r.Method
		rec.path = r.URL.Path
		rec.auth = r.Header.Get("Authorization")
		data, _ := io.ReadAll(r.Body)
		if len(data) > 0 {
			assert.NoError(t, json.Unmarshal(data, &rec.body))
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		io.WriteString(w, respBody)
	}))
	t.Cleanup(srv.Close)
	return New(srv.URL+"/", 5*time.Second), rec
}

func TestListRooms(t *testing.T) {
	c, rec := newServer(t, http.StatusOK, `[{"_id":"r1","roomName":"Squad Arena","capacity":100,"occupied":87,"roomSlots":25,"freeSlots":4}]`)

	rooms, err := c.ListRooms(context.Background())
	require.NoError(t, err)
	require.Len(t, rooms, 1)

	assert.Equal(t, http.MethodGet, rec.method)
	assert.Equal(t, "/api/room/all-rooms", rec.path)
	assert.Empty(t, rec.auth)
	assert.Equal(t, "r1", rooms[0].ID)
	assert.Equal(t, 4, rooms[0].FreeSlots)
}

func TestListRoomsNullBody(t *testing.T) {
	c, _ := newServer(t, http.StatusOK, `null`)

	rooms, err := c.ListRooms(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, rooms)
	assert.Empty(t, rooms)
}

func TestCreateRoomSendsBearerAndDefaults(t *testing.T) {
	c, rec := newServer(t, http.StatusCreated, `{"_id":"new","roomName":"abc"}`)

	room, err := c.CreateRoom(context.Background(), "tok", models.CreateRoomRequest{
		Name: "abc", Password: "abcd", Capacity: 100, Slots: 25, FreeSlots: 25, IsEmpty: true,
	})
	require.NoError(t, err)

	assert.Equal(t, "new", room.ID)
	assert.Equal(t, http.MethodPost, rec.method)
	assert.Equal(t, "/api/room/create", rec.path)
	assert.Equal(t, "Bearer tok", rec.auth)
	assert.Equal(t, "abc", rec.body["roomName"])
	assert.EqualValues(t, 25, rec.body["freeSlots"])
	assert.EqualValues(t, 0, rec.body["occupied"])
	assert.Equal(t, true, rec.body["isEmpty"])
}

func TestUpdateRoomOmitsPasswordWhenNil(t *testing.T) {
	c, rec := newServer(t, http.StatusOK, `{"_id":"r 1","roomName":"renamed"}`)

	_, err := c.UpdateRoom(context.Background(), "tok", "r 1", models.UpdateRoomRequest{Name: "renamed", Capacity: 10, Slots: 5})
	require.NoError(t, err)

	assert.Equal(t, http.MethodPut, rec.method)
	assert.Equal(t, "/api/room/update-slot/r 1", rec.path)
	assert.NotContains(t, rec.body, "password")
	assert.Equal(t, "renamed", rec.body["roomName"])
}

func TestUpdateRoomIncludesPassword(t *testing.T) {
	c, rec := newServer(t, http.StatusOK, `{"_id":"r1"}`)
	pw := "secret"

	_, err := c.UpdateRoom(context.Background(), "tok", "r1", models.UpdateRoomRequest{Name: "abc", Capacity: 10, Slots: 5, Password: &pw})
	require.NoError(t, err)
	assert.Equal(t, "secret", rec.body["password"])
}

func TestDeleteRoom(t *testing.T) {
	c, rec := newServer(t, http.StatusNoContent, ``)

	require.NoError(t, c.DeleteRoom(context.Background(), "tok", "r1"))
	assert.Equal(t, http.MethodDelete, rec.method)
	assert.Equal(t, "/api/room/delete-slot/r1", rec.path)
	assert.Equal(t, "Bearer tok", rec.auth)
}

func TestErrorBodies(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantMsg string
	}{
		{name: "error field", status: http.StatusConflict, body: `{"error":"Room name already exists"}`, wantMsg: "Room name already exists"},
		{name: "message field", status: http.StatusUnauthorized, body: `{"message":"Invalid credentials"}`, wantMsg: "Invalid credentials"},
		{name: "no body", status: http.StatusInternalServerError, body: ``, wantMsg: "fallback"},
		{name: "not json", status: http.StatusBadGateway, body: `<html>bad gateway</html>`, wantMsg: "fallback"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			c, _ := newServer(t, tc.status, tc.body)

			err := c.DeleteRoom(context.Background(), "tok", "r1")
			require.Error(t, err)

			var apiErr *APIError
			require.True(t, errors.As(err, &apiErr))
			assert.Equal(t, tc.status, apiErr.Status)
			assert.Equal(t, tc.wantMsg, Message(err, "fallback"))
		})
	}
}

func TestTransportErrorUsesFallback(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close()
	c := New(srv.URL, time.Second)

	_, err := c.ListRooms(context.Background())
	require.Error(t, err)
	assert.Equal(t, "Failed to load rooms", Message(err, "Failed to load rooms"))
}

func TestLogin(t *testing.T) {
	c, rec := newServer(t, http.StatusOK, `{"token":"jwt","user":{"id":"u1","email":"admin@bgmi.com","username":"admin"}}`)

	resp, err := c.Login(context.Background(), models.LoginRequest{Email: "admin@bgmi.com", Password: "secret1"})
	require.NoError(t, err)

	assert.Equal(t, "/api/auth/login", rec.path)
	assert.Equal(t, "admin@bgmi.com", rec.body["email"])
	assert.Equal(t, "jwt", resp.Token)
	assert.Equal(t, "admin", resp.User.Username)
}
