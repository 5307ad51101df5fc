package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/Anirudh7090/collaborative-drawing-app-new/internal/socket"
)

// HandleDrawing serves the collaboration channel at /ws/:roomID. The
// credential travels in the token query parameter; a failed verification
// closes the socket with 4001 before any registration happens.
func (h *Handler) HandleDrawing(c *gin.Context) {
	roomID := c.Param("roomID")
	if roomID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "roomId is required"})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Error().Err(err).Msg("failed to upgrade connection")
		return
	}

	ident, err := h.verifier.Verify(c.Query("token"))
	if err != nil {
		log.Warn().Err(err).Str("room", roomID).Msg("rejected drawing connection")
		socket.RejectConn(conn, 4001, "Authentication failed")
		return
	}

	client := socket.NewClient(uuid.New().String(), roomID, ident, conn)
	go client.WritePump(h.pingPeriod)
	client.Prepare(h.readLimit)

	h.rooms.Join(roomID, client)
	h.trackPeer(roomID, client.ID, true)

	defer func() {
		h.rooms.Leave(roomID, client)
		h.trackPeer(roomID, client.ID, false)
		client.CloseSend()
	}()

	for {
		raw, err := client.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure, websocket.CloseAbnormalClosure) {
				log.Debug().Err(err).Str("room", roomID).Str("user", ident.Email).Msg("read error")
			}
			return
		}
		h.rooms.Dispatch(roomID, client, raw)
	}
}

// trackPeer mirrors join/leave into the presence store when one is wired.
// Failures never affect the live session.
func (h *Handler) trackPeer(roomID, peerID string, joined bool) {
	if h.presence == nil {
		return
	}
	ctx := context.Background()
	var err error
	if joined {
		err = h.presence.AddPeer(ctx, roomID, peerID)
	} else {
		err = h.presence.RemovePeer(ctx, roomID, peerID)
	}
	if err != nil {
		log.Warn().Err(err).Str("room", roomID).Msg("presence update failed")
	}
}
