package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/Anirudh7090/collaborative-drawing-app-new/internal/auth"
	"github.com/Anirudh7090/collaborative-drawing-app-new/internal/hub"
	"github.com/Anirudh7090/collaborative-drawing-app-new/internal/signaling"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// Origin checking is handled by middleware.
		return true
	},
}

// Presence mirrors live connections into an external store so the room
// API can report member counts. Implemented by store.Store.
type Presence interface {
	AddPeer(ctx context.Context, roomID, peerID string) error
	RemovePeer(ctx context.Context, roomID, peerID string) error
}

// Handler serves both websocket endpoints. All state is injected; two
// handlers never share directories unless given the same instances.
type Handler struct {
	verifier   *auth.Verifier
	rooms      *hub.Directory
	signals    *signaling.Directory
	presence   Presence
	readLimit  int64
	pingPeriod time.Duration
}

// New assembles a websocket handler. presence may be nil when no external
// presence tracking is wanted (tests do this).
func New(verifier *auth.Verifier, rooms *hub.Directory, signals *signaling.Directory, presence Presence, readLimit int64, pingPeriod time.Duration) *Handler {
	if pingPeriod <= 0 {
		pingPeriod = 54 * time.Second
	}
	return &Handler{
		verifier:   verifier,
		rooms:      rooms,
		signals:    signals,
		presence:   presence,
		readLimit:  readLimit,
		pingPeriod: pingPeriod,
	}
}
