package services

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/coder/websocket"

	"github.com/Abhishek8211/Rajamantri/internal/config"
	"github.com/Abhishek8211/Rajamantri/internal/models"
)

// Client represents a single WebSocket connection with its own send goroutine
type Client struct {
	conn     *websocket.Conn
	send     chan []byte
	hub      *Hub
	roomCode string
	seatID   string

	// Rate limiting
	messageCount int
	rateLimitMu  sync.Mutex
	lastReset    time.Time

	// Lifecycle
	ctx     context.Context
	cancel  context.CancelFunc
	closed  bool
	closeMu sync.Mutex
}

// NewClient creates a new client instance
func NewClient(conn *websocket.Conn, hub *Hub, roomCode, seatID string) *Client {
	ctx, cancel := context.WithCancel(context.Background())

	return &Client{
		conn:      conn,
		send:      make(chan []byte, config.ClientSendBufferSize),
		hub:       hub,
		roomCode:  roomCode,
		seatID:    seatID,
		lastReset: time.Now(),
		ctx:       ctx,
		cancel:    cancel,
	}
}

func (c *Client) SeatID() string { return c.seatID }

// SetRoomCode records which room this connection is bound to, for logging.
// Fan-out routing uses the code captured in hub registrations instead.
func (c *Client) SetRoomCode(code string) {
	c.closeMu.Lock()
	defer c.closeMu.Unlock()
	c.roomCode = code
}

func (c *Client) RoomCode() string {
	c.closeMu.Lock()
	defer c.closeMu.Unlock()
	return c.roomCode
}

// StartWritePump launches the write side. The read side stays on the handler
// goroutine so intents dispatch in arrival order.
func (c *Client) StartWritePump() {
	go c.writePump()
}

// writePump handles outgoing messages to the WebSocket connection
func (c *Client) writePump() {
	ticker := time.NewTicker(config.PingInterval)
	defer func() {
		ticker.Stop()
		c.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			if !ok {
				_ = c.conn.Close(websocket.StatusNormalClosure, "")
				return
			}

			writeCtx, cancel := context.WithTimeout(c.ctx, config.WriteTimeout)
			err := c.conn.Write(writeCtx, websocket.MessageText, message)
			cancel()

			if err != nil {
				log.Printf("❌ Write error (room=%s, seat=%s): %v", c.RoomCode(), c.seatID, err)
				c.hub.metrics.IncrementBroadcastErrors()
				return
			}
			c.hub.metrics.IncrementMessagesSent()

		case <-ticker.C:
			pingCtx, cancel := context.WithTimeout(c.ctx, config.WriteTimeout)
			err := c.conn.Ping(pingCtx)
			cancel()

			if err != nil {
				log.Printf("❌ Ping error (room=%s): %v", c.RoomCode(), err)
				return
			}

		case <-c.ctx.Done():
			return
		}
	}
}

// Read blocks for the next inbound frame.
func (c *Client) Read() ([]byte, error) {
	readCtx, cancel := context.WithTimeout(c.ctx, config.PongTimeout)
	defer cancel()

	_, message, err := c.conn.Read(readCtx)
	return message, err
}

// CheckRateLimit verifies the client hasn't exceeded message rate limits
func (c *Client) CheckRateLimit() bool {
	c.rateLimitMu.Lock()
	defer c.rateLimitMu.Unlock()

	now := time.Now()
	if now.Sub(c.lastReset) > config.RateLimitWindow {
		c.messageCount = 0
		c.lastReset = now
	}

	c.messageCount++
	return c.messageCount <= config.MaxMessagesPerSecond
}

// Send queues a message for sending to the client
func (c *Client) Send(message []byte) bool {
	c.closeMu.Lock()
	defer c.closeMu.Unlock()

	if c.closed {
		return false
	}

	select {
	case c.send <- message:
		return true
	default:
		// Channel full, client is too slow
		log.Printf("⚠️  Send buffer full, closing slow client (room=%s, seat=%s)", c.roomCode, c.seatID)
		c.hub.metrics.IncrementBroadcastErrors()
		go c.Close()
		return false
	}
}

// SendMessage marshals and queues a typed frame for this client only.
func (c *Client) SendMessage(msg *models.WSMessage) bool {
	data, err := marshalMessage(msg)
	if err != nil {
		log.Printf("❌ Error marshaling message: %v", err)
		return false
	}
	return c.Send(data)
}

// Close cleanly shuts down the client connection
func (c *Client) Close() {
	c.closeMu.Lock()
	defer c.closeMu.Unlock()

	if c.closed {
		return
	}

	c.closed = true
	c.cancel()
	close(c.send)
	_ = c.conn.Close(websocket.StatusNormalClosure, "")
}
