package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/Anirudh7090/collaborative-drawing-app-new/internal/middleware"
	"github.com/Anirudh7090/collaborative-drawing-app-new/internal/store"
)

// RoomsHandler serves the room metadata API. It is plain CRUD over Redis;
// the live websocket directories never read from it.
type RoomsHandler struct {
	store *store.Store
}

func NewRoomsHandler(st *store.Store) *RoomsHandler {
	return &RoomsHandler{store: st}
}

// CreateRoomRequest is the body for POST /api/rooms.
type CreateRoomRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	MaxUsers    int    `json:"maxUsers" binding:"omitempty,min=2,max=32"`
}

// CreateRoom creates a new room owned by the authenticated user.
func (h *RoomsHandler) CreateRoom(c *gin.Context) {
	ident, ok := middleware.IdentityFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var req CreateRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.MaxUsers == 0 {
		req.MaxUsers = 10
	}

	room := store.RoomMetadata{
		ID:          "room-" + uuid.New().String()[:8],
		Name:        req.Name,
		Description: req.Description,
		OwnerID:     ident.UserID,
		CreatedAt:   time.Now(),
		MaxUsers:    req.MaxUsers,
	}

	if err := h.store.SaveRoom(c.Request.Context(), room); err != nil {
		log.Error().Err(err).Msg("failed to create room")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create room"})
		return
	}

	log.Info().Str("room", room.ID).Int64("owner", room.OwnerID).Msg("room created")
	c.JSON(http.StatusCreated, gin.H{
		"room_id":     room.ID,
		"name":        room.Name,
		"description": room.Description,
		"owner_id":    room.OwnerID,
	})
}

// GetRoom returns room metadata plus the live member count (public).
func (h *RoomsHandler) GetRoom(c *gin.Context) {
	roomID := c.Param("roomID")

	room, err := h.store.GetRoom(c.Request.Context(), roomID)
	if errors.Is(err, store.ErrRoomNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Room not found"})
		return
	}
	if err != nil {
		log.Error().Err(err).Str("room", roomID).Msg("failed to load room")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load room"})
		return
	}

	activeUsers, _ := h.store.CountPeers(c.Request.Context(), roomID)
	c.JSON(http.StatusOK, gin.H{
		"room":         room,
		"active_users": activeUsers,
	})
}

// DeleteRoom removes a room; only its owner may do so.
func (h *RoomsHandler) DeleteRoom(c *gin.Context) {
	ident, ok := middleware.IdentityFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	roomID := c.Param("roomID")
	room, err := h.store.GetRoom(c.Request.Context(), roomID)
	if errors.Is(err, store.ErrRoomNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Room not found"})
		return
	}
	if err != nil {
		log.Error().Err(err).Str("room", roomID).Msg("failed to load room")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load room"})
		return
	}

	if room.OwnerID != ident.UserID {
		c.JSON(http.StatusForbidden, gin.H{"error": "Only the room owner can delete the room"})
		return
	}

	if err := h.store.DeleteRoom(c.Request.Context(), roomID); err != nil {
		log.Error().Err(err).Str("room", roomID).Msg("failed to delete room")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete room"})
		return
	}

	log.Info().Str("room", roomID).Int64("owner", ident.UserID).Msg("room deleted")
	c.JSON(http.StatusOK, gin.H{"message": "Room deleted"})
}
