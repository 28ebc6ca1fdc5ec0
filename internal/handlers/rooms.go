package handlers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/mossy-p/room-admin/internal/auth"
	"github.com/mossy-p/room-admin/internal/middleware"
	"github.com/mossy-p/room-admin/internal/models"
	"github.com/mossy-p/room-admin/internal/storage"
)

// RoomHandler serves /api/room. Errors use the error field.
type RoomHandler struct {
	store  storage.RoomStore
	logger *logrus.Logger
	params auth.HashParams
	now    func() time.Time
}

func NewRoomHandler(store storage.RoomStore, params auth.HashParams, logger *logrus.Logger) *RoomHandler {
	return &RoomHandler{store: store, params: params, logger: logger, now: time.Now}
}

// recount derives the slot counters from the room's totals.
func recount(r *models.Room) {
	r.FreeSlots = max(r.Slots-r.OccupiedSlots, 0)
	r.IsEmpty = r.Occupied == 0
}

func (h *RoomHandler) fail(c *gin.Context, err error, action string) {
	switch {
	case errors.Is(err, storage.ErrNotFound):
		c.JSON(http.StatusNotFound, models.ErrorResponse{Error: "Room not found"})
	case errors.Is(err, storage.ErrNameTaken):
		c.JSON(http.StatusConflict, models.ErrorResponse{Error: "Room name already exists"})
	default:
		h.logger.WithError(err).WithField("room_id", c.Param("id")).Errorf("Failed to %s room", action)
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to " + action + " room"})
	}
}

// List returns every room.
func (h *RoomHandler) List(c *gin.Context) {
	rooms, err := h.store.List(c.Request.Context())
	if err != nil {
		h.fail(c, err, "load")
		return
	}
	c.JSON(http.StatusOK, rooms)
}

// Create adds a room. The server assigns the id and timestamps.
func (h *RoomHandler) Create(c *gin.Context) {
	var req models.CreateRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: bindingMessage(err)})
		return
	}

	hash, err := auth.HashPassword(req.Password, h.params)
	if err != nil {
		h.fail(c, err, "create")
		return
	}

	now := h.now().UTC()
	room := models.Room{
		ID:            uuid.NewString(),
		Name:          strings.TrimSpace(req.Name),
		Capacity:      req.Capacity,
		Occupied:      req.Occupied,
		Slots:         req.Slots,
		OccupiedSlots: req.OccupiedSlots,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	recount(&room)

	if err := h.store.Create(c.Request.Context(), storage.Record{Room: room, PasswordHash: hash}); err != nil {
		h.fail(c, err, "create")
		return
	}

	h.logger.WithFields(logrus.Fields{
		"room_id": room.ID,
		"user_id": c.GetString(middleware.UserIDKey),
	}).Info("Room created")
	c.JSON(http.StatusCreated, room)
}

// Update changes name, capacity and slots, and the password when one is sent.
func (h *RoomHandler) Update(c *gin.Context) {
	var req models.UpdateRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: bindingMessage(err)})
		return
	}

	ctx := c.Request.Context()
	rec, err := h.store.Get(ctx, c.Param("id"))
	if err != nil {
		h.fail(c, err, "update")
		return
	}

	rec.Room.Name = strings.TrimSpace(req.Name)
	rec.Room.Capacity = req.Capacity
	rec.Room.Slots = req.Slots
	rec.Room.UpdatedAt = h.now().UTC()
	recount(&rec.Room)
	if req.Password != nil {
		if rec.PasswordHash, err = auth.HashPassword(*req.Password, h.params); err != nil {
			h.fail(c, err, "update")
			return
		}
	}

	if err := h.store.Update(ctx, rec); err != nil {
		h.fail(c, err, "update")
		return
	}

	h.logger.WithFields(logrus.Fields{
		"room_id":          rec.Room.ID,
		"password_changed": req.Password != nil,
	}).Info("Room updated")
	c.JSON(http.StatusOK, rec.Room)
}

// Delete removes a room.
func (h *RoomHandler) Delete(c *gin.Context) {
	id := c.Param("id")
	if err := h.store.Delete(c.Request.Context(), id); err != nil {
		h.fail(c, err, "delete")
		return
	}

	h.logger.WithField("room_id", id).Info("Room deleted")
	c.JSON(http.StatusOK, gin.H{"message": "Room deleted successfully"})
}
