package models

// SeatSnapshot is the wire view of one seat, built for a specific requester.
// Role is populated only when the seat has revealed or the requester owns the
// seat; everyone else sees the Revealed flag and nothing more.
type SeatSnapshot struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	IsHost    bool      `json:"isHost"`
	IsBot     bool      `json:"isBot"`
	SkillTier SkillTier `json:"skillTier,omitempty"`
	Connected bool      `json:"connected"`
	Revealed  bool      `json:"revealed"`
	Role      Role      `json:"role,omitempty"`
	Score     int       `json:"score"`
}

// RoundLedger records the outcome of the most recently resolved round.
type RoundLedger struct {
	GuessedPlayerID string         `json:"guessedPlayerId"`
	ActualChorID    string         `json:"actualChorId"`
	IsCorrect       bool           `json:"isCorrect"`
	ScoreDeltas     map[string]int `json:"scoreDeltas"`
}

// RoomSnapshot is the full session state pushed to one requester. Clients
// must render scores from the Scores map verbatim, never recompute them.
type RoomSnapshot struct {
	Code         string         `json:"code"`
	Players      []SeatSnapshot `json:"players"`
	Phase        Phase          `json:"phase"`
	CurrentRound int            `json:"currentRound"`
	Rounds       int            `json:"rounds"`
	Scores       map[string]int `json:"scores"`
	RoundResult  *RoundLedger   `json:"roundResult,omitempty"`
	BotConfig    BotConfig      `json:"botConfig"`
}

// SnapshotSeat builds the requester-specific view of a seat.
func SnapshotSeat(seat *Seat, requesterID string) SeatSnapshot {
	view := SeatSnapshot{
		ID:        seat.ID,
		Username:  seat.Username,
		IsHost:    seat.IsHost,
		IsBot:     seat.IsBot,
		Connected: seat.Connected,
		Revealed:  seat.Revealed,
		Score:     seat.Score,
	}
	if seat.IsBot {
		view.SkillTier = seat.SkillTier
	}
	if seat.Revealed || seat.ID == requesterID {
		view.Role = seat.Role
	}
	return view
}
