package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/mossy-p/room-admin/internal/models"
)

const (
	roomKeyPrefix  = "room:"
	roomNamePrefix = "roomname:"
	roomIndexKey   = "rooms"
)

// RedisStore keeps each room as a JSON blob under room:<id>, the set of ids
// under rooms and a roomname:<lowercased name> -> id claim per name.
type RedisStore struct {
	client *redis.Client
}

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func (s *RedisStore) List(ctx context.Context) ([]models.Room, error) {
	ids, err := s.client.SMembers(ctx, roomIndexKey).Result()
	if err != nil {
		return nil, fmt.Errorf("list room ids: %w", err)
	}
	if len(ids) == 0 {
		return []models.Room{}, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = roomKeyPrefix + id
	}
	blobs, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("load rooms: %w", err)
	}

	rooms := make([]models.Room, 0, len(blobs))
	for _, blob := range blobs {
		raw, ok := blob.(string)
		if !ok {
			continue // removed between SMEMBERS and MGET
		}
		var rec Record
		if err := json.Unmarshal([]byte(raw), &rec); err != nil {
			return nil, fmt.Errorf("decode room: %w", err)
		}
		rooms = append(rooms, rec.Room)
	}
	sortByCreated(rooms)
	return rooms, nil
}

func (s *RedisStore) Get(ctx context.Context, id string) (Record, error) {
	raw, err := s.client.Get(ctx, roomKeyPrefix+id).Result()
	if errors.Is(err, redis.Nil) {
		return Record{}, ErrNotFound
	}
	if err != nil {
		return Record{}, fmt.Errorf("get room %s: %w", id, err)
	}
	var rec Record
	if err := json.Unmarshal([]byte(raw), &rec); err != nil {
		return Record{}, fmt.Errorf("decode room %s: %w", id, err)
	}
	return rec, nil
}

// claimName reserves name for id. Claiming a name id already owns succeeds.
func (s *RedisStore) claimName(ctx context.Context, name, id string) error {
	key := roomNamePrefix + nameKey(name)
	ok, err := s.client.SetNX(ctx, key, id, 0).Result()
	if err != nil {
		return fmt.Errorf("claim room name: %w", err)
	}
	if ok {
		return nil
	}
	owner, err := s.client.Get(ctx, key).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		return fmt.Errorf("read room name owner: %w", err)
	}
	if owner != id {
		return ErrNameTaken
	}
	return nil
}

func (s *RedisStore) save(ctx context.Context, rec Record) error {
	blob, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("encode room: %w", err)
	}
	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, roomKeyPrefix+rec.Room.ID, blob, 0)
		pipe.SAdd(ctx, roomIndexKey, rec.Room.ID)
		return nil
	})
	if err != nil {
		return fmt.Errorf("store room %s: %w", rec.Room.ID, err)
	}
	return nil
}

func (s *RedisStore) Create(ctx context.Context, rec Record) error {
	if err := s.claimName(ctx, rec.Room.Name, rec.Room.ID); err != nil {
		return err
	}
	if err := s.save(ctx, rec); err != nil {
		s.client.Del(ctx, roomNamePrefix+nameKey(rec.Room.Name))
		return err
	}
	return nil
}

func (s *RedisStore) Update(ctx context.Context, rec Record) error {
	old, err := s.Get(ctx, rec.Room.ID)
	if err != nil {
		return err
	}
	if err := s.claimName(ctx, rec.Room.Name, rec.Room.ID); err != nil {
		return err
	}
	renamed := nameKey(old.Room.Name) != nameKey(rec.Room.Name)
	if err := s.save(ctx, rec); err != nil {
		if renamed {
			s.client.Del(ctx, roomNamePrefix+nameKey(rec.Room.Name))
		}
		return err
	}
	if renamed {
		if err := s.client.Del(ctx, roomNamePrefix+nameKey(old.Room.Name)).Err(); err != nil {
			return fmt.Errorf("release old room name: %w", err)
		}
	}
	return nil
}

func (s *RedisStore) Delete(ctx context.Context, id string) error {
	rec, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, roomKeyPrefix+id, roomNamePrefix+nameKey(rec.Room.Name))
		pipe.SRem(ctx, roomIndexKey, id)
		return nil
	})
	if err != nil {
		return fmt.Errorf("delete room %s: %w", id, err)
	}
	return nil
}
