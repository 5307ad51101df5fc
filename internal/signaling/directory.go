package signaling

import (
	"errors"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/Anirudh7090/collaborative-drawing-app-new/internal/socket"
)

// ErrTargetNotFound reports a relay whose target peer is not registered in
// the room. Non-fatal: the sender is not informed.
var ErrTargetNotFound = errors.New("target peer not found")

type peer struct {
	client   *socket.Client
	userName string
}

// Directory is the process-wide registry of peers available for signaling,
// keyed by room and then by peer key (the user's email). It is independent
// of the drawing-room directory: signaling routes point-to-point, not by
// broadcast.
type Directory struct {
	mu    sync.RWMutex
	rooms map[string]map[string]*peer
}

func NewDirectory() *Directory {
	return &Directory{rooms: make(map[string]map[string]*peer)}
}

// Register adds the peer to the room, replacing any earlier registration
// under the same key (last writer wins), and notifies the peers already
// present that a new user joined.
func (d *Directory) Register(roomID, peerKey string, c *socket.Client, userName string) {
	d.mu.Lock()
	r, ok := d.rooms[roomID]
	if !ok {
		r = make(map[string]*peer)
		d.rooms[roomID] = r
	}
	r[peerKey] = &peer{client: c, userName: userName}
	others := d.othersLocked(roomID, peerKey)
	d.mu.Unlock()

	log.Info().Str("room", roomID).Str("peer", peerKey).Msg("registered for signaling")
	event := OutboundSignal{Type: TypeUserJoined, UserID: peerKey, UserName: userName}
	for _, p := range others {
		p.EnqueueJSON(event)
	}
}

// Unregister removes the peer and returns its last known display name so a
// departure notice can reference it. Removing an absent peer is a no-op.
// The room's signaling entry is deleted when it empties.
func (d *Directory) Unregister(roomID, peerKey string) (string, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()

	r, ok := d.rooms[roomID]
	if !ok {
		return "", false
	}
	p, ok := r[peerKey]
	if !ok {
		return "", false
	}
	delete(r, peerKey)
	if len(r) == 0 {
		delete(d.rooms, roomID)
		log.Info().Str("room", roomID).Msg("removed empty signaling room")
	}
	return p.userName, true
}

// UpdateUserName records the display name a peer announced in a late join
// message.
func (d *Directory) UpdateUserName(roomID, peerKey, userName string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if r, ok := d.rooms[roomID]; ok {
		if p, ok := r[peerKey]; ok {
			p.userName = userName
		}
	}
}

// Relay forwards an offer, answer or ICE candidate to the addressed peer,
// stamping the sender's key and display name onto the envelope. The SDP
// and candidate bodies pass through untouched.
func (d *Directory) Relay(roomID, fromKey string, msg InboundSignal) error {
	d.mu.RLock()
	r, ok := d.rooms[roomID]
	if !ok {
		d.mu.RUnlock()
		return ErrTargetNotFound
	}
	target, ok := r[msg.TargetUserID]
	if !ok {
		d.mu.RUnlock()
		return ErrTargetNotFound
	}
	fromName := fromKey
	if sender, ok := r[fromKey]; ok {
		fromName = sender.userName
	}
	client := target.client
	d.mu.RUnlock()

	client.EnqueueJSON(OutboundSignal{
		Type:       msg.Type,
		FromUserID: fromKey,
		UserName:   fromName,
		SDP:        msg.SDP,
		Candidate:  msg.Candidate,
	})
	return nil
}

// NotifyLeft announces a departure to the peers remaining in the room.
// When exclude is non-empty that peer is skipped.
func (d *Directory) NotifyLeft(roomID, peerKey, userName, exclude string) {
	d.mu.RLock()
	others := d.othersLocked(roomID, exclude)
	d.mu.RUnlock()

	event := OutboundSignal{Type: TypeUserLeft, UserID: peerKey, UserName: userName}
	for _, p := range others {
		p.EnqueueJSON(event)
	}
}

// Peers returns the keys currently registered in the room.
func (d *Directory) Peers(roomID string) []string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	keys := make([]string, 0, len(d.rooms[roomID]))
	for k := range d.rooms[roomID] {
		keys = append(keys, k)
	}
	return keys
}

// othersLocked snapshots every client in the room except the one keyed by
// exclude. Callers must hold d.mu.
func (d *Directory) othersLocked(roomID, exclude string) []*socket.Client {
	var clients []*socket.Client
	for key, p := range d.rooms[roomID] {
		if key != exclude {
			clients = append(clients, p.client)
		}
	}
	return clients
}
