package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/Anirudh7090/collaborative-drawing-app-new/internal/signaling"
	"github.com/Anirudh7090/collaborative-drawing-app-new/internal/socket"
)

// HandleSignaling serves the audio/video signaling channel at
// /webrtc/:roomID. Peers are keyed by email; offers, answers and ICE
// candidates are relayed point-to-point to the addressed peer only.
func (h *Handler) HandleSignaling(c *gin.Context) {
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
		log.Warn().Err(err).Str("room", roomID).Msg("rejected signaling connection")
		socket.RejectConn(conn, websocket.ClosePolicyViolation, "")
		return
	}

	peerKey := ident.Email
	client := socket.NewClient(uuid.New().String(), roomID, ident, conn)
	go client.WritePump(h.pingPeriod)
	client.Prepare(h.readLimit)

	h.signals.Register(roomID, peerKey, client, ident.DisplayName())

	defer func() {
		if userName, ok := h.signals.Unregister(roomID, peerKey); ok {
			h.signals.NotifyLeft(roomID, peerKey, userName, "")
		}
		client.CloseSend()
	}()

	for {
		raw, err := client.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure, websocket.CloseAbnormalClosure) {
				log.Debug().Err(err).Str("room", roomID).Str("peer", peerKey).Msg("read error")
			}
			return
		}

		var msg signaling.InboundSignal
		if err := json.Unmarshal(raw, &msg); err != nil {
			log.Debug().Err(err).Str("peer", peerKey).Msg("dropping malformed signal")
			continue
		}

		switch msg.Type {
		case signaling.TypeJoin:
			// Late join message carrying the peer's display name.
			if msg.UserName != "" {
				h.signals.UpdateUserName(roomID, peerKey, msg.UserName)
			}

		case signaling.TypeLeave:
			// Deregistration and the user-left notice happen in the
			// deferred cleanup, same as an abrupt disconnect.
			return

		case signaling.TypeOffer, signaling.TypeAnswer, signaling.TypeICECandidate:
			if msg.TargetUserID == "" {
				continue
			}
			if err := h.signals.Relay(roomID, peerKey, msg); err != nil {
				// Sender is not informed; the message is dropped.
				log.Debug().Str("room", roomID).Str("target", msg.TargetUserID).Msg("relay target not found")
			}

		default:
			log.Debug().Str("type", msg.Type).Str("peer", peerKey).Msg("unknown signal type")
		}
	}
}
