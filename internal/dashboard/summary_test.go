package dashboard

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/mossy-p/room-admin/internal/models"
)

func TestSummarize(t *testing.T) {
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	rooms := []models.Room{
		{ID: "a", Capacity: 100, Occupied: 50, CreatedAt: base},
		{ID: "b", Capacity: 100, Occupied: 0, IsEmpty: true, CreatedAt: base.Add(time.Hour)},
		{ID: "c", Capacity: 50, Occupied: 3, CreatedAt: base.Add(3 * time.Hour)},
		{ID: "d", Capacity: 50, Occupied: 0, IsEmpty: true, CreatedAt: base.Add(2 * time.Hour)},
	}

	s := Summarize(rooms)
	assert.Equal(t, 4, s.TotalRooms)
	assert.Equal(t, 2, s.ActiveRooms)
	assert.Equal(t, 53, s.TotalPlayers)
	assert.Equal(t, 17.7, s.AverageOccupancy)

	var ids []string
	for _, r := range s.RecentRooms {
		ids = append(ids, r.ID)
	}
	assert.Equal(t, []string{"c", "d", "b"}, ids)
	assert.Equal(t, "a", rooms[0].ID, "input order untouched")
}

func TestSummarizeEmpty(t *testing.T) {
	s := Summarize(nil)
	assert.Zero(t, s.TotalRooms)
	assert.Zero(t, s.AverageOccupancy)
	assert.Empty(t, s.RecentRooms)
}
