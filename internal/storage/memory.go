package storage

import (
	"context"
	"sync"

	"github.com/mossy-p/room-admin/internal/models"
)

// MemoryStore keeps rooms in process memory.
type MemoryStore struct {
	mu    sync.RWMutex
	rooms map[string]Record
	names map[string]string // lowercased name -> id
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		rooms: make(map[string]Record),
		names: make(map[string]string),
	}
}

func (s *MemoryStore) List(_ context.Context) ([]models.Room, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rooms := make([]models.Room, 0, len(s.rooms))
	for _, rec := range s.rooms {
		rooms = append(rooms, rec.Room)
	}
	sortByCreated(rooms)
	return rooms, nil
}

func (s *MemoryStore) Get(_ context.Context, id string) (Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.rooms[id]
	if !ok {
		return Record{}, ErrNotFound
	}
	return rec, nil
}

func (s *MemoryStore) Create(_ context.Context, rec Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := nameKey(rec.Room.Name)
	if _, taken := s.names[key]; taken {
		return ErrNameTaken
	}
	s.rooms[rec.Room.ID] = rec
	s.names[key] = rec.Room.ID
	return nil
}

func (s *MemoryStore) Update(_ context.Context, rec Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	old, ok := s.rooms[rec.Room.ID]
	if !ok {
		return ErrNotFound
	}
	key := nameKey(rec.Room.Name)
	if owner, taken := s.names[key]; taken && owner != rec.Room.ID {
		return ErrNameTaken
	}
	delete(s.names, nameKey(old.Room.Name))
	s.names[key] = rec.Room.ID
	s.rooms[rec.Room.ID] = rec
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.rooms[id]
	if !ok {
		return ErrNotFound
	}
	delete(s.rooms, id)
	delete(s.names, nameKey(rec.Room.Name))
	return nil
}
