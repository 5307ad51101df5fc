package hub

// Message types understood on the collaboration channel. Anything else
// (drawing strokes included) is forwarded opaquely.
const (
	TypeChat              = "chat"
	TypeCaption           = "caption"
	TypeRoomMembersUpdate = "room_members_update"
)

// Envelope is the outbound frame for typed messages.
type Envelope struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

// ChatPayload carries one chat line enriched with the sender and a server
// timestamp.
type ChatPayload struct {
	User      string `json:"user"`
	UserID    int64  `json:"user_id"`
	Message   string `json:"message"`
	Timestamp string `json:"timestamp"`
}

// CaptionPayload carries one live-caption fragment.
type CaptionPayload struct {
	User      string `json:"user"`
	UserID    int64  `json:"user_id"`
	Text      string `json:"text"`
	Timestamp string `json:"timestamp"`
}

// Member is one roster entry in a room_members_update frame.
type Member struct {
	UserID   int64  `json:"user_id"`
	Email    string `json:"email"`
	FullName string `json:"full_name"`
}

// MembersUpdate is the full-roster notification sent on every membership
// change.
type MembersUpdate struct {
	Type    string   `json:"type"`
	Members []Member `json:"members"`
}
