package handlers

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignalingAuthFailure(t *testing.T) {
	s, _, signalDir := newTestServer(t)

	url := "ws" + strings.TrimPrefix(s.URL, "http") + "/webrtc/call-1?token=bogus"
	ws, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer ws.Close()

	ws.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, _, err = ws.ReadMessage()
	var closeErr *websocket.CloseError
	require.True(t, errors.As(err, &closeErr))
	assert.Equal(t, websocket.ClosePolicyViolation, closeErr.Code)

	assert.Empty(t, signalDir.Peers("call-1"))
}

func TestSignalingFlow(t *testing.T) {
	s, _, signalDir := newTestServer(t)

	wsX := dial(t, s, "/webrtc/call-1", signTestToken(t, 10, "x@test.com", "Xavier"))
	require.Eventually(t, func() bool {
		return len(signalDir.Peers("call-1")) == 1
	}, 2*time.Second, 10*time.Millisecond)

	wsY := dial(t, s, "/webrtc/call-1", signTestToken(t, 11, "y@test.com", "Yara"))

	// X was already present, so X hears about Y.
	msg := readJSON(t, wsX)
	assert.Equal(t, "user-joined", msg["type"])
	assert.Equal(t, "y@test.com", msg["userId"])
	assert.Equal(t, "Yara", msg["userName"])

	// Offer is relayed point-to-point with the sender stamped on.
	writeJSON(t, wsX, map[string]interface{}{
		"type":         "offer",
		"targetUserId": "y@test.com",
		"sdp":          "v=0 ...",
	})
	msg = readJSON(t, wsY)
	assert.Equal(t, "offer", msg["type"])
	assert.Equal(t, "x@test.com", msg["fromUserId"])
	assert.Equal(t, "Xavier", msg["userName"])
	assert.Equal(t, "v=0 ...", msg["sdp"])

	writeJSON(t, wsY, map[string]interface{}{
		"type":         "answer",
		"targetUserId": "x@test.com",
		"sdp":          "v=0 answer",
	})
	msg = readJSON(t, wsX)
	assert.Equal(t, "answer", msg["type"])
	assert.Equal(t, "y@test.com", msg["fromUserId"])

	// A relay to an unknown target is dropped silently; the next
	// well-addressed message still goes through.
	writeJSON(t, wsX, map[string]interface{}{
		"type":         "offer",
		"targetUserId": "nobody@test.com",
		"sdp":          "lost",
	})
	writeJSON(t, wsX, map[string]interface{}{
		"type":         "ice-candidate",
		"targetUserId": "y@test.com",
		"candidate":    map[string]interface{}{"candidate": "candidate:1"},
	})
	msg = readJSON(t, wsY)
	assert.Equal(t, "ice-candidate", msg["type"])
	assert.Equal(t, "x@test.com", msg["fromUserId"])

	// Y leaves: X is notified and the registration is gone.
	writeJSON(t, wsY, map[string]interface{}{"type": "leave"})
	msg = readJSON(t, wsX)
	assert.Equal(t, "user-left", msg["type"])
	assert.Equal(t, "y@test.com", msg["userId"])
	assert.Equal(t, "Yara", msg["userName"])

	require.Eventually(t, func() bool {
		peers := signalDir.Peers("call-1")
		return len(peers) == 1 && peers[0] == "x@test.com"
	}, 2*time.Second, 10*time.Millisecond)
}

func TestSignalingJoinUpdatesDisplayName(t *testing.T) {
	s, _, _ := newTestServer(t)

	wsX := dial(t, s, "/webrtc/call-2", signTestToken(t, 10, "x@test.com", "x@test.com"))
	wsY := dial(t, s, "/webrtc/call-2", signTestToken(t, 11, "y@test.com", "Yara"))
	readJSON(t, wsX) // user-joined for Y

	// X announces its display name after connecting; subsequent relays
	// carry the announced name.
	writeJSON(t, wsX, map[string]interface{}{"type": "join", "userName": "Xavier"})
	writeJSON(t, wsX, map[string]interface{}{
		"type":         "offer",
		"targetUserId": "y@test.com",
		"sdp":          "v=0",
	})

	msg := readJSON(t, wsY)
	assert.Equal(t, "offer", msg["type"])
	assert.Equal(t, "Xavier", msg["userName"])
}

func TestSignalingAbruptDisconnect(t *testing.T) {
	s, _, signalDir := newTestServer(t)

	wsX := dial(t, s, "/webrtc/call-3", signTestToken(t, 10, "x@test.com", "Xavier"))
	wsY := dial(t, s, "/webrtc/call-3", signTestToken(t, 11, "y@test.com", "Yara"))
	readJSON(t, wsX) // user-joined for Y

	wsY.Close()

	msg := readJSON(t, wsX)
	assert.Equal(t, "user-left", msg["type"])
	assert.Equal(t, "y@test.com", msg["userId"])

	require.Eventually(t, func() bool {
		return len(signalDir.Peers("call-3")) == 1
	}, 2*time.Second, 10*time.Millisecond)
}
