package hub

import (
	"encoding/json"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/Anirudh7090/collaborative-drawing-app-new/internal/socket"
)

// Dispatch classifies one inbound frame from sender and fans it out.
//
// Fan-out policy by type:
//   - chat, caption: broadcast to everyone, sender included, enriched with
//     the sender and a server timestamp
//   - anything else (drawing data, unrecognized types): broadcast to
//     everyone except the sender, with sender/sender_name stamped into the
//     payload
//   - frames that fail JSON decoding are forwarded verbatim to everyone
//     except the sender; unstructured senders stay compatible
func (d *Directory) Dispatch(roomID string, sender *socket.Client, raw []byte) {
	var payload map[string]interface{}
	if err := json.Unmarshal(raw, &payload); err != nil {
		// Opaque pass-through, not an error path.
		d.Broadcast(roomID, raw, sender)
		return
	}

	msgType, _ := payload["type"].(string)
	ident := sender.Identity
	now := time.Now().Format(time.RFC3339)

	switch msgType {
	case TypeChat:
		text, _ := payload["message"].(string)
		d.broadcastJSON(roomID, Envelope{Type: TypeChat, Data: ChatPayload{
			User:      ident.DisplayName(),
			UserID:    ident.UserID,
			Message:   text,
			Timestamp: now,
		}})

	case TypeCaption:
		text, _ := payload["text"].(string)
		d.broadcastJSON(roomID, Envelope{Type: TypeCaption, Data: CaptionPayload{
			User:      ident.DisplayName(),
			UserID:    ident.UserID,
			Text:      text,
			Timestamp: now,
		}})

	default:
		payload["sender"] = ident.Email
		payload["sender_name"] = ident.FullName
		enriched, err := json.Marshal(payload)
		if err != nil {
			log.Error().Err(err).Str("room", roomID).Msg("failed to re-encode message")
			return
		}
		d.Broadcast(roomID, enriched, sender)
	}
}

func (d *Directory) broadcastJSON(roomID string, v interface{}) {
	data, err := json.Marshal(v)
	if err != nil {
		log.Error().Err(err).Str("room", roomID).Msg("failed to marshal message")
		return
	}
	d.Broadcast(roomID, data, nil)
}
