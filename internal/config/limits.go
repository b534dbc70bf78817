package config

import "time"

// WebSocket connection limits and constraints
const (
	// Connection limits
	MaxConnectionsPerRoom = 10
	MaxRoomsPerInstance   = 1000

	// Rate limiting
	MaxMessagesPerSecond = 10
	RateLimitWindow      = time.Second

	// Timeouts
	WriteTimeout = 10 * time.Second
	PingInterval = 30 * time.Second
	PongTimeout  = 90 * time.Second // 3x ping interval for network delay tolerance

	// Channel buffers
	ClientSendBufferSize   = 256
	HubBroadcastBufferSize = 256
)

// Game pacing. Deadlines are liveness guarantees: when one elapses the room
// acts on the slow seat's behalf with a random legal choice.
const (
	RevealDeadline     = 20 * time.Second
	AccusationDeadline = 10 * time.Second
	SipahiDeadline     = 15 * time.Second
	InterRoundDelay    = 5 * time.Second

	// Bot "thinking" windows. Sipahi gets the longest window since the
	// final guess decides the round.
	BotRevealDelayMin = 1 * time.Second
	BotRevealDelayMax = 3 * time.Second
	BotMantriDelayMin = 2 * time.Second
	BotMantriDelayMax = 5 * time.Second
	BotSipahiDelayMin = 3 * time.Second
	BotSipahiDelayMax = 7 * time.Second
)

// Room shape
const (
	MaxSeats           = 4
	MinHumansToStart   = 2
	DefaultRoundTarget = 5
	RoomCodeLength     = 6
)
