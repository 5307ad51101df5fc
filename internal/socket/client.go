package socket

import (
	"encoding/json"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/Anirudh7090/collaborative-drawing-app-new/internal/auth"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Outbound buffer size per connection.
	sendBufferSize = 256
)

// Client wraps a single websocket connection together with the identity it
// authenticated as. The connection is owned exclusively by its session: the
// read loop runs in the handler goroutine and WritePump is the only writer.
type Client struct {
	ID       string
	RoomID   string
	Identity auth.Identity

	conn *websocket.Conn
	Send chan []byte
}

func NewClient(id, roomID string, ident auth.Identity, conn *websocket.Conn) *Client {
	return &Client{
		ID:       id,
		RoomID:   roomID,
		Identity: ident,
		conn:     conn,
		Send:     make(chan []byte, sendBufferSize),
	}
}

// Enqueue queues raw bytes for delivery. It never blocks: when the buffer
// is full the message is dropped and the drop logged. A peer whose transport
// is already dead keeps its directory entry until its own session notices
// closure.
func (c *Client) Enqueue(data []byte) {
	select {
	case c.Send <- data:
	default:
		log.Warn().Str("peer", c.ID).Str("room", c.RoomID).Msg("send buffer full, dropping message")
	}
}

// EnqueueJSON marshals v and queues it for delivery.
func (c *Client) EnqueueJSON(v interface{}) {
	data, err := json.Marshal(v)
	if err != nil {
		log.Error().Err(err).Str("peer", c.ID).Msg("failed to marshal message")
		return
	}
	c.Enqueue(data)
}

// ReadMessage blocks until the next inbound frame arrives.
func (c *Client) ReadMessage() ([]byte, error) {
	_, data, err := c.conn.ReadMessage()
	return data, err
}

// WritePump drains the send buffer onto the wire and keeps the connection
// alive with periodic pings. It exits when the send channel is closed or a
// write fails, closing the underlying connection either way.
func (c *Client) WritePump(pingPeriod time.Duration) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.Send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				log.Debug().Err(err).Str("peer", c.ID).Msg("write failed")
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// Prepare arms the read deadline and pong handler; call once before the
// read loop starts.
func (c *Client) Prepare(readLimit int64) {
	if readLimit > 0 {
		c.conn.SetReadLimit(readLimit)
	}
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})
}

// CloseSend closes the outbound buffer, letting WritePump send a close
// frame and release the connection.
func (c *Client) CloseSend() {
	close(c.Send)
}

// RejectConn closes a fresh connection with a distinguished status code
// before any message exchange, used when authentication fails.
func RejectConn(conn *websocket.Conn, code int, reason string) {
	msg := websocket.FormatCloseMessage(code, reason)
	conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(writeWait))
	conn.Close()
}
