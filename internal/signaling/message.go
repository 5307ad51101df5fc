package signaling

import "encoding/json"

// Message types exchanged on the signaling channel.
const (
	TypeOffer        = "offer"
	TypeAnswer       = "answer"
	TypeICECandidate = "ice-candidate"
	TypeJoin         = "join"
	TypeLeave        = "leave"
	TypeUserJoined   = "user-joined"
	TypeUserLeft     = "user-left"
)

// InboundSignal is a frame received from a peer. SDP and candidate bodies
// are opaque to the relay and are forwarded unchanged.
type InboundSignal struct {
	Type         string          `json:"type"`
	TargetUserID string          `json:"targetUserId,omitempty"`
	UserName     string          `json:"userName,omitempty"`
	SDP          json.RawMessage `json:"sdp,omitempty"`
	Candidate    json.RawMessage `json:"candidate,omitempty"`
}

// OutboundSignal is a frame sent to a peer: either a relayed offer/answer/
// candidate stamped with the sender, or a user-joined/user-left event.
type OutboundSignal struct {
	Type       string          `json:"type"`
	FromUserID string          `json:"fromUserId,omitempty"`
	UserID     string          `json:"userId,omitempty"`
	UserName   string          `json:"userName,omitempty"`
	SDP        json.RawMessage `json:"sdp,omitempty"`
	Candidate  json.RawMessage `json:"candidate,omitempty"`
}
