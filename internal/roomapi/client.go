// Package roomapi is the dashboard's view of the room backend.
package roomapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/mossy-p/room-admin/internal/models"
)

// Client is the set of backend calls the dashboard makes. Calls that need
// authentication take the bearer token explicitly.
type Client interface {
	ListRooms(ctx context.Context) ([]models.Room, error)
	CreateRoom(ctx context.Context, token string, req models.CreateRoomRequest) (models.Room, error)
	UpdateRoom(ctx context.Context, token, id string, req models.UpdateRoomRequest) (models.Room, error)
	DeleteRoom(ctx context.Context, token, id string) error
	Login(ctx context.Context, req models.LoginRequest) (models.LoginResponse, error)
}

// APIError is returned when the backend answers with a non-2xx status.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("backend returned %d", e.Status)
	}
	return fmt.Sprintf("backend returned %d: %s", e.Status, e.Message)
}

// Message returns the server-provided text carried by err, or fallback when
// err is a transport failure or the server gave no message.
func Message(err error, fallback string) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return fallback
}

// HTTPClient talks to the backend over REST/JSON.
type HTTPClient struct {
	baseURL string
	http    *http.Client
}

var _ Client = (*HTTPClient)(nil)

func New(baseURL string, timeout time.Duration) *HTTPClient {
	return &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

func (c *HTTPClient) ListRooms(ctx context.Context) ([]models.Room, error) {
	var rooms []models.Room
	if err := c.do(ctx, http.MethodGet, "/api/room/all-rooms", "", nil, &rooms); err != nil {
		return nil, fmt.Errorf("list rooms: %w", err)
	}
	if rooms == nil {
		rooms = []models.Room{}
	}
	return rooms, nil
}

func (c *HTTPClient) CreateRoom(ctx context.Context, token string, req models.CreateRoomRequest) (models.Room, error) {
	var room models.Room
	if err := c.do(ctx, http.MethodPost, "/api/room/create", token, req, &room); err != nil {
		return models.Room{}, fmt.Errorf("create room: %w", err)
	}
	return room, nil
}

func (c *HTTPClient) UpdateRoom(ctx context.Context, token, id string, req models.UpdateRoomRequest) (models.Room, error) {
	var room models.Room
	path := "/api/room/update-slot/" + url.PathEscape(id)
	if err := c.do(ctx, http.MethodPut, path, token, req, &room); err != nil {
		return models.Room{}, fmt.Errorf("update room %s: %w", id, err)
	}
	return room, nil
}

func (c *HTTPClient) DeleteRoom(ctx context.Context, token, id string) error {
	path := "/api/room/delete-slot/" + url.PathEscape(id)
	if err := c.do(ctx, http.MethodDelete, path, token, nil, nil); err != nil {
		return fmt.Errorf("delete room %s: %w", id, err)
	}
	return nil
}

func (c *HTTPClient) Login(ctx context.Context, req models.LoginRequest) (models.LoginResponse, error) {
	var resp models.LoginResponse
	if err := c.do(ctx, http.MethodPost, "/api/auth/login", "", req, &resp); err != nil {
		return models.LoginResponse{}, fmt.Errorf("login: %w", err)
	}
	return resp, nil
}

// do sends one request. A nil out discards the response body.
func (c *HTTPClient) do(ctx context.Context, method, path, token string, in, out any) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeError(resp)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func decodeError(resp *http.Response) error {
	apiErr := &APIError{Status: resp.StatusCode}
	var body models.ErrorResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, 64<<10)).Decode(&body); err == nil {
		apiErr.Message = body.Error
		if apiErr.Message == "" {
			apiErr.Message = body.Message
		}
	}
	return apiErr
}
