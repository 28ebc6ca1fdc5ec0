package rooms

import (
	"strings"

	"github.com/mossy-p/room-admin/internal/models"
)

// Status selects rooms by slot availability.
type Status string

const (
	StatusAll       Status = "all"
	StatusAvailable Status = "available"
	StatusFull      Status = "full"
)

// ParseStatus maps a query value to a Status; unknown values mean all.
func ParseStatus(s string) Status {
	switch Status(strings.ToLower(strings.TrimSpace(s))) {
	case StatusAvailable:
		return StatusAvailable
	case StatusFull:
		return StatusFull
	default:
		return StatusAll
	}
}

func (s Status) matches(room models.Room) bool {
	switch s {
	case StatusAvailable:
		return room.FreeSlots > 0
	case StatusFull:
		return room.FreeSlots == 0
	default:
		return true
	}
}

// FilterRooms returns, in order, the rooms whose name contains query
// (case-insensitive) and that satisfy status. The input is not modified.
func FilterRooms(rooms []models.Room, status Status, query string) []models.Room {
	q := strings.ToLower(query)
	out := make([]models.Room, 0, len(rooms))
	for _, room := range rooms {
		if !strings.Contains(strings.ToLower(room.Name), q) {
			continue
		}
		if !status.matches(room) {
			continue
		}
		out = append(out, room)
	}
	return out
}

// Stats summarises a room collection.
type Stats struct {
	TotalRooms     int
	AvailableRooms int
	FullRooms      int
	TotalPlayers   int
	TotalCapacity  int
}

// ComputeStats aggregates over the whole collection, regardless of filters.
func ComputeStats(rooms []models.Room) Stats {
	st := Stats{TotalRooms: len(rooms)}
	for _, room := range rooms {
		if room.FreeSlots > 0 {
			st.AvailableRooms++
		}
		if room.FreeSlots == 0 {
			st.FullRooms++
		}
		st.TotalPlayers += room.Occupied
		st.TotalCapacity += room.Capacity
	}
	return st
}

// Occupancy is the coarse fill level shown next to each room.
type Occupancy string

const (
	OccupancyLow    Occupancy = "low"
	OccupancyMedium Occupancy = "medium"
	OccupancyHigh   Occupancy = "high"
)

// OccupancyLevel buckets occupied/capacity at 50% and 80%.
func OccupancyLevel(room models.Room) Occupancy {
	ratio := OccupancyRatio(room)
	switch {
	case ratio >= 0.8:
		return OccupancyHigh
	case ratio >= 0.5:
		return OccupancyMedium
	default:
		return OccupancyLow
	}
}

// OccupancyRatio is occupied/capacity, 0 for a room without capacity.
func OccupancyRatio(room models.Room) float64 {
	if room.Capacity <= 0 {
		return 0
	}
	return float64(room.Occupied) / float64(room.Capacity)
}
