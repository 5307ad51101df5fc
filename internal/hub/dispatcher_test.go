package hub

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDispatchChatBroadcastsToEveryone(t *testing.T) {
	d := NewDirectory()
	a := newTestClient("a", 1, "a@test.com", "Alice")
	b := newTestClient("b", 2, "b@test.com", "Bob")
	d.Join("room-abc", a)
	d.Join("room-abc", b)
	drain(a)
	drain(b)

	d.Dispatch("room-abc", b, []byte(`{"type":"chat","message":"hi"}`))

	for _, c := range []string{"sender", "receiver"} {
		var got [][]byte
		if c == "sender" {
			got = drain(b)
		} else {
			got = drain(a)
		}
		require.Len(t, got, 1, "%s must receive the chat message", c)

		var env struct {
			Type string      `json:"type"`
			Data ChatPayload `json:"data"`
		}
		require.NoError(t, json.Unmarshal(got[0], &env))
		assert.Equal(t, TypeChat, env.Type)
		assert.Equal(t, "Bob", env.Data.User)
		assert.Equal(t, int64(2), env.Data.UserID)
		assert.Equal(t, "hi", env.Data.Message)

		_, err := time.Parse(time.RFC3339, env.Data.Timestamp)
		assert.NoError(t, err, "timestamp must be RFC3339")
	}
}

func TestDispatchCaption(t *testing.T) {
	d := NewDirectory()
	a := newTestClient("a", 1, "a@test.com", "")
	d.Join("room-abc", a)
	drain(a)

	d.Dispatch("room-abc", a, []byte(`{"type":"caption","text":"hello world"}`))

	got := drain(a)
	require.Len(t, got, 1)

	var env struct {
		Type string         `json:"type"`
		Data CaptionPayload `json:"data"`
	}
	require.NoError(t, json.Unmarshal(got[0], &env))
	assert.Equal(t, TypeCaption, env.Type)
	assert.Equal(t, "hello world", env.Data.Text)
	// No full name on the account: falls back to the email.
	assert.Equal(t, "a@test.com", env.Data.User)
}

func TestDispatchDrawingExcludesSender(t *testing.T) {
	d := NewDirectory()
	a := newTestClient("a", 1, "a@test.com", "Alice")
	b := newTestClient("b", 2, "b@test.com", "Bob")
	d.Join("room-abc", a)
	d.Join("room-abc", b)
	drain(a)
	drain(b)

	d.Dispatch("room-abc", a, []byte(`{"type":"draw","x1":1,"y1":2}`))

	assert.Empty(t, drain(a), "sender must not get its drawing echoed")
	got := drain(b)
	require.Len(t, got, 1)

	var payload map[string]interface{}
	require.NoError(t, json.Unmarshal(got[0], &payload))
	assert.Equal(t, "draw", payload["type"])
	assert.Equal(t, "a@test.com", payload["sender"])
	assert.Equal(t, "Alice", payload["sender_name"])
	assert.Equal(t, float64(1), payload["x1"])
}

func TestDispatchUntaggedTreatedAsDrawing(t *testing.T) {
	d := NewDirectory()
	a := newTestClient("a", 1, "a@test.com", "Alice")
	b := newTestClient("b", 2, "b@test.com", "Bob")
	d.Join("room-abc", a)
	d.Join("room-abc", b)
	drain(a)
	drain(b)

	d.Dispatch("room-abc", a, []byte(`{"points":[1,2,3]}`))

	assert.Empty(t, drain(a))
	got := drain(b)
	require.Len(t, got, 1)

	var payload map[string]interface{}
	require.NoError(t, json.Unmarshal(got[0], &payload))
	assert.Equal(t, "a@test.com", payload["sender"])
}

func TestDispatchMalformedForwardedVerbatim(t *testing.T) {
	d := NewDirectory()
	a := newTestClient("a", 1, "a@test.com", "Alice")
	b := newTestClient("b", 2, "b@test.com", "Bob")
	d.Join("room-abc", a)
	d.Join("room-abc", b)
	drain(a)
	drain(b)

	raw := []byte("not json at all")
	d.Dispatch("room-abc", a, raw)

	assert.Empty(t, drain(a))
	got := drain(b)
	require.Len(t, got, 1)
	assert.Equal(t, raw, got[0], "malformed payloads pass through untouched")
}
