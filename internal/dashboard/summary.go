// Package dashboard derives the overview figures shown on the dashboard page.
package dashboard

import (
	"math"
	"sort"

	"github.com/mossy-p/room-admin/internal/models"
)

const recentLimit = 3

// Summary is the dashboard overview.
type Summary struct {
	TotalRooms       int
	ActiveRooms      int
	TotalPlayers     int
	AverageOccupancy float64 // percent, one decimal
	RecentRooms      []models.Room
}

// Summarize computes a Summary from the loaded rooms.
func Summarize(rooms []models.Room) Summary {
	s := Summary{TotalRooms: len(rooms)}
	capacity := 0
	for _, room := range rooms {
		if !room.IsEmpty {
			s.ActiveRooms++
		}
		s.TotalPlayers += room.Occupied
		capacity += room.Capacity
	}
	if capacity > 0 {
		s.AverageOccupancy = math.Round(float64(s.TotalPlayers)/float64(capacity)*1000) / 10
	}

	recent := append([]models.Room(nil), rooms...)
	sort.SliceStable(recent, func(i, j int) bool {
		return recent[i].CreatedAt.After(recent[j].CreatedAt)
	})
	if len(recent) > recentLimit {
		recent = recent[:recentLimit]
	}
	s.RecentRooms = recent
	return s
}
