package models

import "time"

// Room is a game room as exchanged with the backend.
type Room struct {
	ID            string    `json:"_id"`
	Name          string    `json:"roomName"`
	Password      string    `json:"password,omitempty"` // write-only, never returned by the backend
	Capacity      int       `json:"capacity"`
	Occupied      int       `json:"occupied"`
	Slots         int       `json:"roomSlots"`
	FreeSlots     int       `json:"freeSlots"`
	OccupiedSlots int       `json:"occupiedSlots"`
	IsEmpty       bool      `json:"isEmpty"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// CreateRoomRequest is the body of POST /api/room/create. The counters are
// filled in by the client so a new room starts empty.
type CreateRoomRequest struct {
	Name          string `json:"roomName" binding:"required,min=3,max=50"`
	Password      string `json:"password" binding:"required,min=4"`
	Capacity      int    `json:"capacity" binding:"required,min=1,max=1000"`
	Slots         int    `json:"roomSlots" binding:"required,min=1,max=100"`
	Occupied      int    `json:"occupied" binding:"min=0"`
	FreeSlots     int    `json:"freeSlots" binding:"min=0"`
	OccupiedSlots int    `json:"occupiedSlots" binding:"min=0"`
	IsEmpty       bool   `json:"isEmpty"`
}

// UpdateRoomRequest is the body of PUT /api/room/update-slot/{id}.
// Password is nil when the existing password is kept.
type UpdateRoomRequest struct {
	Name     string  `json:"roomName" binding:"required,min=3,max=50"`
	Capacity int     `json:"capacity" binding:"required,min=1,max=1000"`
	Slots    int     `json:"roomSlots" binding:"required,min=1,max=100"`
	Password *string `json:"password,omitempty" binding:"omitempty,min=4"`
}

// ErrorResponse is the error body returned by the backend. Room endpoints
// fill Error, the login endpoint fills Message.
type ErrorResponse struct {
	Error   string `json:"error,omitempty"`
	Message string `json:"message,omitempty"`
}
