package services

import (
	"encoding/json"
	"log"
	"sync"

	"github.com/Abhishek8211/Rajamantri/internal/config"
	"github.com/Abhishek8211/Rajamantri/internal/models"
)

// Hub fans outbound frames out to the connections of each room. Rooms
// enqueue onto the broadcast channel; the run loop serializes fan-out so
// every connection in a room observes frames in the order the room produced
// them. Actual socket writes happen on each client's write pump.
type Hub struct {
	// Room connections: room code -> set of clients
	rooms map[string]map[*Client]bool

	// Seat routing: room code -> seat id -> client
	seats map[string]map[string]*Client

	broadcast  chan *BroadcastMessage
	register   chan *Registration
	unregister chan *Registration

	metrics *Metrics
	mu      sync.RWMutex
}

// Registration carries the room code captured at call time, so a client
// re-binding to another room cannot race the run loop.
type Registration struct {
	RoomCode string
	Client   *Client
}

// BroadcastMessage targets a whole room, or a single seat when SeatID is set.
type BroadcastMessage struct {
	RoomCode string
	SeatID   string
	Message  *models.WSMessage
}

func NewHub(metrics *Metrics) *Hub {
	return &Hub{
		rooms:      make(map[string]map[*Client]bool),
		seats:      make(map[string]map[string]*Client),
		broadcast:  make(chan *BroadcastMessage, config.HubBroadcastBufferSize),
		register:   make(chan *Registration),
		unregister: make(chan *Registration),
		metrics:    metrics,
	}
}

func (h *Hub) Run() {
	for {
		select {
		case reg := <-h.register:
			h.registerClient(reg)

		case reg := <-h.unregister:
			h.unregisterClient(reg)

		case msg := <-h.broadcast:
			h.deliver(msg)
		}
	}
}

// Register attaches a client to a room's fan-out. The run loop handles it
// before any broadcast enqueued afterwards, so a registered client never
// misses a later frame.
func (h *Hub) Register(roomCode string, client *Client) {
	h.register <- &Registration{RoomCode: roomCode, Client: client}
}

func (h *Hub) Unregister(roomCode string, client *Client) {
	h.unregister <- &Registration{RoomCode: roomCode, Client: client}
}

// BroadcastToRoom enqueues a frame for every connection in the room.
func (h *Hub) BroadcastToRoom(code string, msg *models.WSMessage) {
	h.broadcast <- &BroadcastMessage{RoomCode: code, Message: msg}
}

// SendToSeat enqueues a frame for one seat's connection. A seat with no
// connection (bots, or a player who dropped) is silently skipped.
func (h *Hub) SendToSeat(code, seatID string, msg *models.WSMessage) {
	h.broadcast <- &BroadcastMessage{RoomCode: code, SeatID: seatID, Message: msg}
}

func (h *Hub) registerClient(reg *Registration) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.rooms[reg.RoomCode] == nil {
		h.rooms[reg.RoomCode] = make(map[*Client]bool)
		h.seats[reg.RoomCode] = make(map[string]*Client)
	}
	h.rooms[reg.RoomCode][reg.Client] = true
	h.seats[reg.RoomCode][reg.Client.seatID] = reg.Client

	log.Printf("✓ WebSocket registered: room=%s seat=%s (connections in room: %d)",
		reg.RoomCode, reg.Client.seatID, len(h.rooms[reg.RoomCode]))
}

func (h *Hub) unregisterClient(reg *Registration) {
	h.mu.Lock()
	defer h.mu.Unlock()

	clients, ok := h.rooms[reg.RoomCode]
	if !ok || !clients[reg.Client] {
		return
	}
	// The handler owns the connection's lifecycle; unregistering only
	// detaches the client from fan-out.
	delete(clients, reg.Client)
	if h.seats[reg.RoomCode][reg.Client.seatID] == reg.Client {
		delete(h.seats[reg.RoomCode], reg.Client.seatID)
	}

	// Clean up empty rooms
	if len(clients) == 0 {
		delete(h.rooms, reg.RoomCode)
		delete(h.seats, reg.RoomCode)
	}
}

func (h *Hub) deliver(msg *BroadcastMessage) {
	data, err := marshalMessage(msg.Message)
	if err != nil {
		log.Printf("❌ Error marshaling message: %v", err)
		h.metrics.IncrementBroadcastErrors()
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	if msg.SeatID != "" {
		if client, ok := h.seats[msg.RoomCode][msg.SeatID]; ok {
			client.Send(data)
		}
		return
	}
	for client := range h.rooms[msg.RoomCode] {
		client.Send(data)
	}
}

func marshalMessage(msg *models.WSMessage) ([]byte, error) {
	return json.Marshal(msg)
}
