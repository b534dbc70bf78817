package models

import "time"

// SkillTier is a bot's accuracy band.
type SkillTier string

const (
	SkillHigh   SkillTier = "high"
	SkillMedium SkillTier = "medium"
	SkillLow    SkillTier = "low"
)

// ValidSkillTier reports whether tier names a configured accuracy band.
func ValidSkillTier(tier SkillTier) bool {
	switch tier {
	case SkillHigh, SkillMedium, SkillLow:
		return true
	}
	return false
}

// Seat is one participant slot in a room, human or bot. Role is re-dealt
// every round and must never leave the server unredacted; snapshots go
// through Room.Snapshot which applies the visibility rule.
type Seat struct {
	ID        string
	Username  string
	IsHost    bool
	IsBot     bool
	SkillTier SkillTier // only meaningful when IsBot
	Role      Role      // empty until the first deal
	Revealed  bool
	Score     int
	Connected bool
	JoinedAt  time.Time
}

func NewSeat(id, username string, isHost bool) *Seat {
	return &Seat{
		ID:        id,
		Username:  username,
		IsHost:    isHost,
		Connected: true,
		JoinedAt:  time.Now(),
	}
}

func NewBotSeat(id, username string, tier SkillTier) *Seat {
	return &Seat{
		ID:        id,
		Username:  username,
		IsBot:     true,
		SkillTier: tier,
		Connected: true,
		JoinedAt:  time.Now(),
	}
}

// BotConfig controls bot augmentation at game start.
type BotConfig struct {
	AddBots   bool      `json:"addBots"`
	BotCount  int       `json:"botCount"`
	SkillTier SkillTier `json:"skillTier"`
}

// DefaultBotConfig asks for a full table; the count is capped by the open
// seats remaining when the game starts.
func DefaultBotConfig() BotConfig {
	return BotConfig{
		AddBots:   true,
		BotCount:  3,
		SkillTier: SkillMedium,
	}
}
