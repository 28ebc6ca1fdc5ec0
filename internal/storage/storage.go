// Package storage persists rooms for the development backend. Three
// implementations share the RoomStore contract: in-process memory, Redis
// and PostgreSQL.
package storage

import (
	"context"
	"errors"
	"sort"
	"strings"

	"github.com/mossy-p/room-admin/internal/models"
)

var (
	ErrNotFound  = errors.New("room not found")
	ErrNameTaken = errors.New("room name already exists")
)

// Record is a room as persisted, with its password hash. Room.Password is
// always empty.
type Record struct {
	Room         models.Room `json:"room"`
	PasswordHash string      `json:"passwordHash"`
}

// RoomStore persists rooms. Names are unique case-insensitively.
type RoomStore interface {
	// List returns every room, oldest first.
	List(ctx context.Context) ([]models.Room, error)
	Get(ctx context.Context, id string) (Record, error)
	// Create stores rec. The caller assigns the id and timestamps.
	Create(ctx context.Context, rec Record) error
	// Update replaces the stored record with the same id.
	Update(ctx context.Context, rec Record) error
	Delete(ctx context.Context, id string) error
}

func nameKey(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

func sortByCreated(rooms []models.Room) {
	sort.SliceStable(rooms, func(i, j int) bool {
		return rooms[i].CreatedAt.Before(rooms[j].CreatedAt)
	})
}
