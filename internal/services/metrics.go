package services

import (
	"sync/atomic"
	"time"
)

// Metrics tracks WebSocket server performance and game activity
type Metrics struct {
	// Connection metrics
	activeConnections int64
	totalConnections  int64

	// Message metrics
	messagesReceived int64
	messagesSent     int64
	lastMessageTime  int64 // Unix timestamp

	// Game metrics
	gamesStarted   int64
	roundsResolved int64
	botDecisions   int64
	timeoutActions int64

	// Error metrics
	connectionErrors    int64
	broadcastErrors     int64
	rateLimitViolations int64

	startTime time.Time
}

// NewMetrics creates a new metrics tracker
func NewMetrics() *Metrics {
	return &Metrics{
		startTime: time.Now(),
	}
}

// Connection tracking
func (m *Metrics) IncrementConnections() {
	atomic.AddInt64(&m.activeConnections, 1)
	atomic.AddInt64(&m.totalConnections, 1)
}

func (m *Metrics) DecrementConnections() {
	atomic.AddInt64(&m.activeConnections, -1)
}

// Message tracking
func (m *Metrics) IncrementMessagesReceived() {
	atomic.AddInt64(&m.messagesReceived, 1)
	atomic.StoreInt64(&m.lastMessageTime, time.Now().Unix())
}

func (m *Metrics) IncrementMessagesSent() {
	atomic.AddInt64(&m.messagesSent, 1)
}

// Game tracking
func (m *Metrics) IncrementGamesStarted() {
	atomic.AddInt64(&m.gamesStarted, 1)
}

func (m *Metrics) IncrementRoundsResolved() {
	atomic.AddInt64(&m.roundsResolved, 1)
}

func (m *Metrics) IncrementBotDecisions() {
	atomic.AddInt64(&m.botDecisions, 1)
}

// IncrementTimeoutActions counts a deadline acting on a slow seat's behalf.
func (m *Metrics) IncrementTimeoutActions() {
	atomic.AddInt64(&m.timeoutActions, 1)
}

// Error tracking
func (m *Metrics) IncrementConnectionErrors() {
	atomic.AddInt64(&m.connectionErrors, 1)
}

func (m *Metrics) IncrementBroadcastErrors() {
	atomic.AddInt64(&m.broadcastErrors, 1)
}

func (m *Metrics) IncrementRateLimitViolations() {
	atomic.AddInt64(&m.rateLimitViolations, 1)
}

// MetricsSnapshot represents a point-in-time view of metrics
type MetricsSnapshot struct {
	ActiveConnections int64 `json:"active_connections"`
	TotalConnections  int64 `json:"total_connections"`
	ActiveRooms       int   `json:"active_rooms"`

	MessagesReceived  int64   `json:"messages_received"`
	MessagesSent      int64   `json:"messages_sent"`
	MessagesPerSecond float64 `json:"messages_per_second"`
	LastMessageTime   string  `json:"last_message_time"`

	GamesStarted   int64 `json:"games_started"`
	RoundsResolved int64 `json:"rounds_resolved"`
	BotDecisions   int64 `json:"bot_decisions"`
	TimeoutActions int64 `json:"timeout_actions"`

	ConnectionErrors    int64 `json:"connection_errors"`
	BroadcastErrors     int64 `json:"broadcast_errors"`
	RateLimitViolations int64 `json:"rate_limit_violations"`

	UptimeSeconds float64 `json:"uptime_seconds"`
}

// Snapshot captures the current metric values. activeRooms comes from the
// registry; the caller passes it in so this package stays transport-only.
func (m *Metrics) Snapshot(activeRooms int) MetricsSnapshot {
	uptime := time.Since(m.startTime).Seconds()

	received := atomic.LoadInt64(&m.messagesReceived)
	perSecond := 0.0
	if uptime > 0 {
		perSecond = float64(received) / uptime
	}

	lastMessage := ""
	if ts := atomic.LoadInt64(&m.lastMessageTime); ts > 0 {
		lastMessage = time.Unix(ts, 0).Format(time.RFC3339)
	}

	return MetricsSnapshot{
		ActiveConnections:   atomic.LoadInt64(&m.activeConnections),
		TotalConnections:    atomic.LoadInt64(&m.totalConnections),
		ActiveRooms:         activeRooms,
		MessagesReceived:    received,
		MessagesSent:        atomic.LoadInt64(&m.messagesSent),
		MessagesPerSecond:   perSecond,
		LastMessageTime:     lastMessage,
		GamesStarted:        atomic.LoadInt64(&m.gamesStarted),
		RoundsResolved:      atomic.LoadInt64(&m.roundsResolved),
		BotDecisions:        atomic.LoadInt64(&m.botDecisions),
		TimeoutActions:      atomic.LoadInt64(&m.timeoutActions),
		ConnectionErrors:    atomic.LoadInt64(&m.connectionErrors),
		BroadcastErrors:     atomic.LoadInt64(&m.broadcastErrors),
		RateLimitViolations: atomic.LoadInt64(&m.rateLimitViolations),
		UptimeSeconds:       uptime,
	}
}
