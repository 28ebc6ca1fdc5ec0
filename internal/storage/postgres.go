package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mossy-p/room-admin/internal/models"
)

const schema = `
CREATE TABLE IF NOT EXISTS rooms (
	id             TEXT PRIMARY KEY,
	room_name      TEXT NOT NULL,
	password_hash  TEXT NOT NULL,
	capacity       INTEGER NOT NULL,
	occupied       INTEGER NOT NULL DEFAULT 0,
	room_slots     INTEGER NOT NULL,
	free_slots     INTEGER NOT NULL,
	occupied_slots INTEGER NOT NULL DEFAULT 0,
	is_empty       BOOLEAN NOT NULL DEFAULT TRUE,
	created_at     TIMESTAMPTZ NOT NULL,
	updated_at     TIMESTAMPTZ NOT NULL
);
CREATE UNIQUE INDEX IF NOT EXISTS rooms_room_name_key ON rooms (lower(room_name));
`

const roomColumns = `id, room_name, password_hash, capacity, occupied, room_slots,
	free_slots, occupied_slots, is_empty, created_at, updated_at`

const uniqueViolation = "23505"

// PostgresStore keeps rooms in the rooms table.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// OpenPostgres connects to databaseURL, pings it and applies the schema.
func OpenPostgres(ctx context.Context, databaseURL string) (*PostgresStore, error) {
	cfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("unable to parse pgx config: %w", err)
	}
	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("unable to create pgx pool: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("db ping error: %w", err)
	}

	if _, err := pool.Exec(ctx, schema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	return &PostgresStore{pool: pool}, nil
}

func (s *PostgresStore) Close() {
	s.pool.Close()
}

func scanRecord(row pgx.Row) (Record, error) {
	var rec Record
	r := &rec.Room
	err := row.Scan(&r.ID, &r.Name, &rec.PasswordHash, &r.Capacity, &r.Occupied, &r.Slots,
		&r.FreeSlots, &r.OccupiedSlots, &r.IsEmpty, &r.CreatedAt, &r.UpdatedAt)
	return rec, err
}

// mapError turns driver errors into the store's sentinels.
func mapError(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return ErrNameTaken
	}
	return err
}

func (s *PostgresStore) List(ctx context.Context) ([]models.Room, error) {
	rows, err := s.pool.Query(ctx, `SELECT `+roomColumns+` FROM rooms ORDER BY created_at`)
	if err != nil {
		return nil, fmt.Errorf("list rooms: %w", err)
	}
	defer rows.Close()

	rooms := []models.Room{}
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("scan room: %w", err)
		}
		rooms = append(rooms, rec.Room)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list rooms: %w", err)
	}
	return rooms, nil
}

func (s *PostgresStore) Get(ctx context.Context, id string) (Record, error) {
	rec, err := scanRecord(s.pool.QueryRow(ctx, `SELECT `+roomColumns+` FROM rooms WHERE id = $1`, id))
	if err != nil {
		if err = mapError(err); errors.Is(err, ErrNotFound) {
			return Record{}, err
		}
		return Record{}, fmt.Errorf("get room %s: %w", id, err)
	}
	return rec, nil
}

func (s *PostgresStore) Create(ctx context.Context, rec Record) error {
	r := rec.Room
	_, err := s.pool.Exec(ctx, `INSERT INTO rooms (`+roomColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		r.ID, r.Name, rec.PasswordHash, r.Capacity, r.Occupied, r.Slots,
		r.FreeSlots, r.OccupiedSlots, r.IsEmpty, r.CreatedAt, r.UpdatedAt)
	if err != nil {
		if err = mapError(err); errors.Is(err, ErrNameTaken) {
			return err
		}
		return fmt.Errorf("insert room: %w", err)
	}
	return nil
}

func (s *PostgresStore) Update(ctx context.Context, rec Record) error {
	r := rec.Room
	tag, err := s.pool.Exec(ctx, `UPDATE rooms SET room_name = $2, password_hash = $3,
		capacity = $4, occupied = $5, room_slots = $6, free_slots = $7,
		occupied_slots = $8, is_empty = $9, updated_at = $10
		WHERE id = $1`,
		r.ID, r.Name, rec.PasswordHash, r.Capacity, r.Occupied, r.Slots,
		r.FreeSlots, r.OccupiedSlots, r.IsEmpty, r.UpdatedAt)
	if err != nil {
		if err = mapError(err); errors.Is(err, ErrNameTaken) {
			return err
		}
		return fmt.Errorf("update room %s: %w", r.ID, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *PostgresStore) Delete(ctx context.Context, id string) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM rooms WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete room %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
