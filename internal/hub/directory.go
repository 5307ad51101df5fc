package hub

import (
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/Anirudh7090/collaborative-drawing-app-new/internal/auth"
	"github.com/Anirudh7090/collaborative-drawing-app-new/internal/socket"
)

// room holds the connections registered in one drawing room. Membership is
// kept in join order for roster display.
type room struct {
	mu      sync.RWMutex
	members []*socket.Client
}

// Directory is the process-wide map from room id to its live connections.
// It is the shared state every collaboration session mutates; construct one
// per server and inject it, never share through package globals.
//
// Lock order is always Directory.mu before room.mu.
type Directory struct {
	mu    sync.RWMutex
	rooms map[string]*room
}

func NewDirectory() *Directory {
	return &Directory{rooms: make(map[string]*room)}
}

// Join registers the connection in the room, creating the room entry on
// first join, and pushes the updated roster to every member.
func (d *Directory) Join(roomID string, c *socket.Client) {
	d.mu.Lock()
	r, ok := d.rooms[roomID]
	if !ok {
		r = &room{}
		d.rooms[roomID] = r
		log.Info().Str("room", roomID).Msg("created room entry")
	}
	r.mu.Lock()
	r.members = append(r.members, c)
	r.mu.Unlock()
	d.mu.Unlock()

	log.Info().Str("room", roomID).Str("user", c.Identity.Email).Msg("joined room")
	d.NotifyMembers(roomID)
}

// Leave removes the connection if present and deletes the room entry when
// it empties. Calling Leave twice for the same connection is a no-op the
// second time. Remaining members receive the updated roster.
func (d *Directory) Leave(roomID string, c *socket.Client) {
	d.mu.Lock()
	r, ok := d.rooms[roomID]
	if !ok {
		d.mu.Unlock()
		return
	}

	r.mu.Lock()
	removed := false
	for i, m := range r.members {
		if m == c {
			r.members = append(r.members[:i], r.members[i+1:]...)
			removed = true
			break
		}
	}
	empty := len(r.members) == 0
	r.mu.Unlock()

	if empty {
		delete(d.rooms, roomID)
		log.Info().Str("room", roomID).Msg("removed empty room entry")
	}
	d.mu.Unlock()

	if removed {
		log.Info().Str("room", roomID).Str("user", c.Identity.Email).Msg("left room")
		if !empty {
			d.NotifyMembers(roomID)
		}
	}
}

// Broadcast delivers payload to every connection in the room except
// exclude (pass nil to include everyone). Targets are snapshotted under
// the lock and sent to outside it; a failed or dropped send to one peer
// does not affect the others and does not remove the peer.
func (d *Directory) Broadcast(roomID string, payload []byte, exclude *socket.Client) {
	for _, m := range d.snapshot(roomID) {
		if m != exclude {
			m.Enqueue(payload)
		}
	}
}

// Roster returns the identities currently registered in the room, in join
// order.
func (d *Directory) Roster(roomID string) []auth.Identity {
	members := d.snapshot(roomID)
	roster := make([]auth.Identity, 0, len(members))
	for _, m := range members {
		roster = append(roster, m.Identity)
	}
	return roster
}

// Count reports the number of connections registered in the room.
func (d *Directory) Count(roomID string) int {
	return len(d.snapshot(roomID))
}

func (d *Directory) snapshot(roomID string) []*socket.Client {
	d.mu.RLock()
	r, ok := d.rooms[roomID]
	d.mu.RUnlock()
	if !ok {
		return nil
	}

	r.mu.RLock()
	members := make([]*socket.Client, len(r.members))
	copy(members, r.members)
	r.mu.RUnlock()
	return members
}

// NotifyMembers recomputes the room roster and broadcasts it to every
// current member, including whoever triggered the change.
func (d *Directory) NotifyMembers(roomID string) {
	roster := d.Roster(roomID)
	members := make([]Member, 0, len(roster))
	for _, ident := range roster {
		members = append(members, Member{
			UserID:   ident.UserID,
			Email:    ident.Email,
			FullName: ident.FullName,
		})
	}

	update := MembersUpdate{Type: TypeRoomMembersUpdate, Members: members}
	for _, m := range d.snapshot(roomID) {
		m.EnqueueJSON(update)
	}
}
