package rooms

import (
	"context"
	"sync"

	"github.com/mossy-p/room-admin/internal/models"
	"github.com/mossy-p/room-admin/internal/roomapi"
)

const loadFailedMessage = "Failed to load rooms"

// Directory holds the room collection fetched from the backend.
type Directory struct {
	client roomapi.Client

	mu      sync.RWMutex
	rooms   []models.Room
	err     string
	loading bool
	loaded  bool
}

func NewDirectory(client roomapi.Client) *Directory {
	return &Directory{client: client}
}

// LoadAll fetches the full collection and replaces local state with it. On
// failure the previous collection is kept and Err reports the reason.
func (d *Directory) LoadAll(ctx context.Context) error {
	d.mu.Lock()
	d.loading = true
	d.mu.Unlock()

	defer func() {
		d.mu.Lock()
		d.loading = false
		d.mu.Unlock()
	}()

	rooms, err := d.client.ListRooms(ctx)

	d.mu.Lock()
	defer d.mu.Unlock()
	if err != nil {
		d.err = roomapi.Message(err, loadFailedMessage)
		return err
	}
	d.rooms = rooms
	d.err = ""
	d.loaded = true
	return nil
}

// Rooms returns a copy of the collection.
func (d *Directory) Rooms() []models.Room {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return append([]models.Room(nil), d.rooms...)
}

// Get looks a room up by id.
func (d *Directory) Get(id string) (models.Room, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	for _, room := range d.rooms {
		if room.ID == id {
			return room, true
		}
	}
	return models.Room{}, false
}

func (d *Directory) Filter(status Status, query string) []models.Room {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return FilterRooms(d.rooms, status, query)
}

func (d *Directory) Stats() Stats {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return ComputeStats(d.rooms)
}

// Err is the message of the last failed load, "" after a successful one.
func (d *Directory) Err() string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.err
}

func (d *Directory) Loading() bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.loading
}

// Loaded reports whether a load has ever succeeded.
func (d *Directory) Loaded() bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.loaded
}

// Replace swaps the entry with room.ID for room. Unknown ids are ignored.
func (d *Directory) Replace(room models.Room) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	for i := range d.rooms {
		if d.rooms[i].ID == room.ID {
			d.rooms[i] = room
			return true
		}
	}
	return false
}

// Remove drops the entry with id.
func (d *Directory) Remove(id string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	for i := range d.rooms {
		if d.rooms[i].ID == id {
			d.rooms = append(d.rooms[:i:i], d.rooms[i+1:]...)
			return true
		}
	}
	return false
}
