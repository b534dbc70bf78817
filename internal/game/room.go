package game

import (
	"fmt"
	"log"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Abhishek8211/Rajamantri/internal/config"
	"github.com/Abhishek8211/Rajamantri/internal/models"
)

// Broadcaster delivers outbound frames to connections in a room. Both
// methods only enqueue onto buffered channels; socket writes happen on
// per-client write pumps, so rooms never hold their lock across network I/O.
type Broadcaster interface {
	BroadcastToRoom(code string, msg *models.WSMessage)
	SendToSeat(code, seatID string, msg *models.WSMessage)
}

// Metrics receives game activity counters. Satisfied by services.Metrics; a
// nil Metrics disables counting.
type Metrics interface {
	IncrementGamesStarted()
	IncrementRoundsResolved()
	IncrementBotDecisions()
	IncrementTimeoutActions()
}

var botNames = []string{"Birbal (Bot)", "Tenali (Bot)", "Chanakya (Bot)"}

// normalizeBotConfig fills an unset skill tier and bounds the bot count.
// Every path that accepts a config from a client goes through this, so a
// room can never hold a count outside [0, MaxSeats-1].
func normalizeBotConfig(cfg models.BotConfig) (models.BotConfig, error) {
	if cfg.SkillTier == "" {
		cfg.SkillTier = models.SkillMedium
	}
	if cfg.BotCount < 0 || cfg.BotCount > config.MaxSeats-1 || !models.ValidSkillTier(cfg.SkillTier) {
		return cfg, fmt.Errorf("bad bot config (count=%d tier=%q): %w", cfg.BotCount, cfg.SkillTier, ErrInvalidConfig)
	}
	return cfg, nil
}

// Room is the authoritative state for one game session. Every mutation goes
// through its mutex, one intent at a time; timer callbacks re-enter through
// the same lock and are discarded when the generation they were armed under
// has passed.
type Room struct {
	mu sync.Mutex

	code         string
	seats        []*models.Seat // join order; positional key for the deal
	phase        models.Phase
	currentRound int
	roundTarget  int
	botConfig    models.BotConfig

	pendingAccusation string
	lastLedger        *models.RoundLedger

	// gen increments on every phase transition. A timer armed under an
	// older gen is stale and must be a no-op when it fires.
	gen     uint64
	cancels []CancelFunc
	closed  bool

	rng     *rand.Rand
	sched   Scheduler
	out     Broadcaster
	metrics Metrics
	onEmpty func(code string)
}

// NewRoom creates a room in the lobby phase, seeded with the host's seat.
func NewRoom(code string, host *models.Seat, roundTarget int, botCfg models.BotConfig,
	out Broadcaster, sched Scheduler, rng *rand.Rand, metrics Metrics, onEmpty func(string)) (*Room, error) {

	if roundTarget <= 0 {
		return nil, fmt.Errorf("round target must be positive: %w", ErrInvalidConfig)
	}
	botCfg, err := normalizeBotConfig(botCfg)
	if err != nil {
		return nil, err
	}
	host.IsHost = true

	return &Room{
		code:        code,
		seats:       []*models.Seat{host},
		phase:       models.PhaseLobby,
		roundTarget: roundTarget,
		botConfig:   botCfg,
		rng:         rng,
		sched:       sched,
		out:         out,
		metrics:     metrics,
		onEmpty:     onEmpty,
	}, nil
}

func (r *Room) Code() string { return r.code }

// Phase returns the current phase. For tests and diagnostics; intents are
// validated against the phase inside each operation, not by callers.
func (r *Room) Phase() models.Phase {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.phase
}

// Seated reports whether id still holds a seat in a live room. Kicked seats
// and closed rooms both read as not seated.
func (r *Room) Seated(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return !r.closed && r.seatByIDLocked(id) != nil
}

// Snapshot builds the full room state as visible to requesterID. Roles of
// unrevealed seats other than the requester's own are withheld.
func (r *Room) Snapshot(requesterID string) models.RoomSnapshot {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.snapshotLocked(requesterID)
}

func (r *Room) snapshotLocked(requesterID string) models.RoomSnapshot {
	players := make([]models.SeatSnapshot, 0, len(r.seats))
	scores := make(map[string]int, len(r.seats))
	for _, seat := range r.seats {
		players = append(players, models.SnapshotSeat(seat, requesterID))
		scores[seat.ID] = seat.Score
	}
	return models.RoomSnapshot{
		Code:         r.code,
		Players:      players,
		Phase:        r.phase,
		CurrentRound: r.currentRound,
		Rounds:       r.roundTarget,
		Scores:       scores,
		RoundResult:  r.lastLedger,
		BotConfig:    r.botConfig,
	}
}

// Join appends a human seat while the room is in the lobby.
func (r *Room) Join(id, username string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return ErrRoomNotFound
	}
	if r.phase != models.PhaseLobby {
		return ErrRoomInProgress
	}
	if len(r.seats) >= config.MaxSeats {
		return ErrRoomFull
	}
	for _, seat := range r.seats {
		if seat.Username == username {
			return ErrNameTaken
		}
	}

	seat := models.NewSeat(id, username, false)
	r.seats = append(r.seats, seat)

	r.out.BroadcastToRoom(r.code, models.NewMessage(models.MsgTypePlayerJoined, models.SnapshotSeat(seat, "")))
	r.out.SendToSeat(r.code, id, models.NewMessage(models.MsgTypeRoomJoined, r.snapshotLocked(id)))
	r.systemChatLocked(fmt.Sprintf("%s joined the room", username))
	r.broadcastSnapshotLocked(models.MsgTypeRoomUpdated)
	return nil
}

// Start begins the game: host-gated, fills bot seats per the room's bot
// config, zeroes scores and deals the first round.
func (r *Room) Start(requesterID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return ErrRoomNotFound
	}
	if r.phase != models.PhaseLobby {
		return ErrRoomInProgress
	}
	host := r.seatByIDLocked(requesterID)
	if host == nil || !host.IsHost {
		return ErrNotHost
	}
	if r.humanCountLocked() < config.MinHumansToStart {
		return ErrNotEnoughPlayers
	}

	botCount := 0
	if r.botConfig.AddBots {
		botCount = r.botConfig.BotCount
		if open := config.MaxSeats - len(r.seats); botCount > open {
			botCount = open
		}
	}

	// A table without a chor has nothing to accuse; the game needs at
	// least raja, mantri and chor seated. Checked before any mutation so
	// a rejected start leaves the lobby untouched.
	if len(r.seats)+botCount < 3 {
		return ErrNotEnoughPlayers
	}

	for i := 0; i < botCount; i++ {
		name := botNames[i%len(botNames)]
		r.seats = append(r.seats, models.NewBotSeat(uuid.NewString(), name, r.botConfig.SkillTier))
	}

	for _, seat := range r.seats {
		seat.Score = 0
	}
	r.currentRound = 0

	log.Printf("🎮 Game started: room=%s seats=%d rounds=%d", r.code, len(r.seats), r.roundTarget)
	if r.metrics != nil {
		r.metrics.IncrementGamesStarted()
	}
	r.beginRoundLocked()
	return nil
}

// beginRoundLocked advances to the next round, or finishes the game when the
// round target has been played.
func (r *Room) beginRoundLocked() {
	if r.currentRound >= r.roundTarget {
		r.finishLocked()
		return
	}
	r.currentRound++

	roles, err := AssignRoles(len(r.seats), r.rng)
	if err != nil {
		// Unreachable once Start has validated the table; abort the
		// session rather than play a corrupt round.
		log.Printf("❌ Role assignment failed: room=%s: %v", r.code, err)
		r.finishLocked()
		return
	}
	for i, seat := range r.seats {
		seat.Role = roles[i]
		seat.Revealed = false
	}
	r.pendingAccusation = ""
	r.lastLedger = nil

	r.transitionLocked(models.PhaseRoleAssignment)
	r.broadcastSnapshotLocked(models.MsgTypeNextRoundStarted)

	for _, seat := range r.seats {
		if seat.IsBot {
			id := seat.ID
			delay := ThinkDelay(config.BotRevealDelayMin, config.BotRevealDelayMax, r.rng)
			r.armLocked(delay, func() { r.revealLocked(id) })
		}
	}
	r.armLocked(config.RevealDeadline, r.revealDeadlineLocked)
}

// Reveal flips the seat's card face up. Revealing twice in the same round is
// a no-op, not an error.
func (r *Room) Reveal(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return ErrRoomNotFound
	}
	if r.phase != models.PhaseRoleAssignment {
		return ErrWrongPhase
	}
	if r.seatByIDLocked(id) == nil {
		return ErrNotInRoom
	}
	r.revealLocked(id)
	return nil
}

func (r *Room) revealLocked(id string) {
	seat := r.seatByIDLocked(id)
	if seat == nil || seat.Revealed || r.phase != models.PhaseRoleAssignment {
		return
	}
	seat.Revealed = true

	all := r.allRevealedLocked()
	r.out.BroadcastToRoom(r.code, models.NewMessage(models.MsgTypePlayerRevealed, models.PlayerRevealedPayload{
		PlayerID:    id,
		AllRevealed: all,
	}))
	if all {
		r.enterAccusationLocked()
	}
}

// revealDeadlineLocked flips every remaining card so a slow or vanished seat
// cannot stall the round.
func (r *Room) revealDeadlineLocked() {
	acted := false
	for _, seat := range r.seats {
		if !seat.Revealed {
			acted = true
			r.revealLocked(seat.ID)
		}
	}
	if acted && r.metrics != nil {
		r.metrics.IncrementTimeoutActions()
	}
}

func (r *Room) enterAccusationLocked() {
	r.transitionLocked(models.PhaseAccusation)
	r.broadcastSnapshotLocked(models.MsgTypeAllRolesRevealed)

	mantri := r.seatByRoleLocked(models.RoleMantri)
	if mantri == nil {
		// Unreachable: every deal of 2+ seats contains a mantri.
		log.Printf("❌ No mantri seated: room=%s round=%d", r.code, r.currentRound)
		r.finishLocked()
		return
	}

	if mantri.IsBot {
		tier, mantriID := mantri.SkillTier, mantri.ID
		delay := ThinkDelay(config.BotMantriDelayMin, config.BotMantriDelayMax, r.rng)
		r.armLocked(delay, func() {
			target := Decide(tier, r.chorIDLocked(), r.accusationPoolLocked(mantriID), r.rng)
			if r.metrics != nil {
				r.metrics.IncrementBotDecisions()
			}
			r.accuseLocked(mantriID, target)
		})
		return
	}
	r.armLocked(config.AccusationDeadline, func() {
		// Human mantri ran out the clock: act on their behalf with a
		// uniformly random legal target.
		pool := r.accusationPoolLocked(mantri.ID)
		if len(pool) == 0 {
			return
		}
		if r.metrics != nil {
			r.metrics.IncrementTimeoutActions()
		}
		r.accuseLocked(mantri.ID, pool[r.rng.Intn(len(pool))])
	})
}

// CallSipahi is the mantri's accusation: nominate the seat suspected of
// being the chor and hand the round to the sipahi for the final guess.
func (r *Room) CallSipahi(id, targetID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return ErrRoomNotFound
	}
	if r.phase != models.PhaseAccusation {
		return ErrWrongPhase
	}
	seat := r.seatByIDLocked(id)
	if seat == nil {
		return ErrNotInRoom
	}
	if seat.Role != models.RoleMantri {
		return ErrNotMantri
	}
	target := r.seatByIDLocked(targetID)
	if target == nil || targetID == id || target.Role == models.RoleRaja {
		return ErrInvalidTarget
	}

	r.accuseLocked(id, targetID)
	return nil
}

func (r *Room) accuseLocked(mantriID, targetID string) {
	if r.phase != models.PhaseAccusation || targetID == "" {
		return
	}
	r.pendingAccusation = targetID
	r.transitionLocked(models.PhaseSipahiResolution)

	sipahi := r.seatByRoleLocked(models.RoleSipahi)
	if sipahi == nil {
		// Three-seat table: no sipahi is dealt, so the mantri's call is
		// itself the final judgment.
		r.resolveLocked(mantriID, targetID)
		return
	}

	r.out.BroadcastToRoom(r.code, models.NewMessage(models.MsgTypeMantriCalledSipahi, models.MantriCalledSipahiPayload{
		MantriID: mantriID,
		SipahiID: sipahi.ID,
	}))

	if sipahi.IsBot {
		tier, sipahiID := sipahi.SkillTier, sipahi.ID
		delay := ThinkDelay(config.BotSipahiDelayMin, config.BotSipahiDelayMax, r.rng)
		r.armLocked(delay, func() {
			target := Decide(tier, r.chorIDLocked(), r.guessPoolLocked(sipahiID), r.rng)
			if r.metrics != nil {
				r.metrics.IncrementBotDecisions()
			}
			r.resolveLocked(sipahiID, target)
		})
		return
	}
	sipahiID := sipahi.ID
	r.armLocked(config.SipahiDeadline, func() {
		pool := r.guessPoolLocked(sipahiID)
		if len(pool) == 0 {
			return
		}
		if r.metrics != nil {
			r.metrics.IncrementTimeoutActions()
		}
		r.resolveLocked(sipahiID, pool[r.rng.Intn(len(pool))])
	})
}

// SipahiGuess is the sipahi's final judgment, which scores the round.
func (r *Room) SipahiGuess(id, targetID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return ErrRoomNotFound
	}
	if r.phase != models.PhaseSipahiResolution {
		return ErrWrongPhase
	}
	seat := r.seatByIDLocked(id)
	if seat == nil {
		return ErrNotInRoom
	}
	if seat.Role != models.RoleSipahi {
		return ErrNotSipahi
	}
	target := r.seatByIDLocked(targetID)
	if target == nil || targetID == id || target.Role == models.RoleRaja {
		return ErrInvalidTarget
	}

	r.resolveLocked(id, targetID)
	return nil
}

func (r *Room) resolveLocked(guesserID, targetID string) {
	if r.phase != models.PhaseSipahiResolution || targetID == "" {
		return
	}

	chorID := r.chorIDLocked()
	correct := targetID == chorID
	deltas := ScoreDeltas(correct)

	ledger := &models.RoundLedger{
		GuessedPlayerID: targetID,
		ActualChorID:    chorID,
		IsCorrect:       correct,
		ScoreDeltas:     make(map[string]int, len(r.seats)),
	}
	for _, seat := range r.seats {
		delta := deltas[seat.Role]
		seat.Score += delta
		ledger.ScoreDeltas[seat.ID] = delta
	}
	r.lastLedger = ledger
	r.transitionLocked(models.PhaseRoundResult)
	if r.metrics != nil {
		r.metrics.IncrementRoundsResolved()
	}

	log.Printf("🎯 Round resolved: room=%s round=%d correct=%t", r.code, r.currentRound, correct)

	r.out.BroadcastToRoom(r.code, models.NewMessage(models.MsgTypeSipahiGuessed, models.SipahiGuessedPayload{
		SipahiID: guesserID,
		TargetID: targetID,
	}))
	r.broadcastSnapshotLocked(models.MsgTypeGuessProcessed)

	r.armLocked(config.InterRoundDelay, r.beginRoundLocked)
}

func (r *Room) finishLocked() {
	r.transitionLocked(models.PhaseFinished)
	r.broadcastSnapshotLocked(models.MsgTypeGameFinished)
	r.systemChatLocked("Game over! Thanks for playing.")
	log.Printf("🏁 Game finished: room=%s rounds=%d", r.code, r.currentRound)
}

// RequestUpdate pushes a fresh snapshot to the requester only. This is the
// resync path for clients that missed broadcasts.
func (r *Room) RequestUpdate(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return ErrRoomNotFound
	}
	if r.seatByIDLocked(id) == nil {
		return ErrNotInRoom
	}
	r.out.SendToSeat(r.code, id, models.NewMessage(models.MsgTypeRoomUpdated, r.snapshotLocked(id)))
	return nil
}

// Chat relays a player's message to the whole room.
func (r *Room) Chat(id, text string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return ErrRoomNotFound
	}
	seat := r.seatByIDLocked(id)
	if seat == nil {
		return ErrNotInRoom
	}
	r.out.BroadcastToRoom(r.code, models.NewMessage(models.MsgTypeNewChatMessage, models.ChatMessagePayload{
		ID:        uuid.NewString(),
		Username:  seat.Username,
		Message:   text,
		Timestamp: time.Now().UnixMilli(),
	}))
	return nil
}

// RemovePlayer kicks a seat from the lobby. Host-only moderation; the game
// roster is frozen once a round is in flight.
func (r *Room) RemovePlayer(requesterID, targetID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return ErrRoomNotFound
	}
	host := r.seatByIDLocked(requesterID)
	if host == nil || !host.IsHost {
		return ErrNotHost
	}
	if r.phase != models.PhaseLobby {
		return ErrRoomInProgress
	}
	target := r.seatByIDLocked(targetID)
	if target == nil || targetID == requesterID {
		return ErrInvalidTarget
	}

	r.out.SendToSeat(r.code, targetID, models.NewMessage(models.MsgTypeKickedFromRoom, models.ErrorPayload{
		Message: "You were removed from the room by the host",
	}))
	r.removeSeatLocked(targetID)
	r.systemChatLocked(fmt.Sprintf("%s was removed from the room", target.Username))
	r.broadcastSnapshotLocked(models.MsgTypeRoomUpdated)
	return nil
}

// UpdateBotSettings changes bot augmentation before the game starts.
func (r *Room) UpdateBotSettings(requesterID string, cfg models.BotConfig) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return ErrRoomNotFound
	}
	host := r.seatByIDLocked(requesterID)
	if host == nil || !host.IsHost {
		return ErrNotHost
	}
	if r.phase != models.PhaseLobby {
		return ErrRoomInProgress
	}
	cfg, err := normalizeBotConfig(cfg)
	if err != nil {
		return err
	}

	r.botConfig = cfg
	r.broadcastSnapshotLocked(models.MsgTypeRoomUpdated)
	return nil
}

// HandleDisconnect reacts to a closed connection. In the lobby the seat is
// removed outright; mid-game it stays seated (marked disconnected) so the
// round in flight keeps its shape, with deadlines covering its turns. Host
// status transfers to the longest-connected human. A room with no connected
// humans left is torn down, bots notwithstanding.
func (r *Room) HandleDisconnect(id string) {
	r.mu.Lock()

	if r.closed {
		r.mu.Unlock()
		return
	}
	seat := r.seatByIDLocked(id)
	if seat == nil {
		r.mu.Unlock()
		return
	}
	seat.Connected = false
	wasHost := seat.IsHost

	if r.phase == models.PhaseLobby || r.phase == models.PhaseFinished {
		r.removeSeatLocked(id)
	} else if r.phase == models.PhaseRoleAssignment && !seat.Revealed {
		r.revealLocked(id)
	}

	if r.humanCountLocked() == 0 {
		r.closeLocked()
		r.mu.Unlock()
		if r.onEmpty != nil {
			r.onEmpty(r.code)
		}
		return
	}

	if wasHost {
		r.promoteHostLocked()
	}
	r.systemChatLocked(fmt.Sprintf("%s left the room", seat.Username))
	r.broadcastSnapshotLocked(models.MsgTypeRoomUpdated)
	r.mu.Unlock()
}

// promoteHostLocked hands host status to the longest-connected human seat.
// Seats are in join order, so the first connected human is the promotion.
func (r *Room) promoteHostLocked() {
	for _, seat := range r.seats {
		seat.IsHost = false
	}
	for _, seat := range r.seats {
		if !seat.IsBot && seat.Connected {
			seat.IsHost = true
			r.systemChatLocked(fmt.Sprintf("%s is now the host", seat.Username))
			return
		}
	}
}

// Close tears the room down: stale timers are cancelled and every further
// intent fails with ErrRoomNotFound.
func (r *Room) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.closeLocked()
}

func (r *Room) closeLocked() {
	if r.closed {
		return
	}
	r.closed = true
	r.cancelTimersLocked()
	log.Printf("🧹 Room closed: room=%s", r.code)
}

// --- internals ---

// transitionLocked moves to the next phase, invalidating every timer armed
// under the previous one.
func (r *Room) transitionLocked(next models.Phase) {
	if !r.phase.CanTransitionTo(next) {
		// Unreachable when operations validate phases; abandon rather
		// than corrupt the machine.
		log.Printf("❌ Illegal transition %s → %s: room=%s", r.phase, next, r.code)
		return
	}
	r.phase = next
	r.gen++
	r.cancelTimersLocked()
}

// armLocked schedules fn, stamped with the current generation. When it fires
// it re-acquires the lock and runs only if the room is still in the same
// generation; losing the race to a human action is expected and silent.
func (r *Room) armLocked(d time.Duration, fn func()) {
	gen := r.gen
	cancel := r.sched.AfterFunc(d, func() {
		r.mu.Lock()
		defer r.mu.Unlock()
		if r.closed || r.gen != gen {
			return
		}
		fn()
	})
	r.cancels = append(r.cancels, cancel)
}

func (r *Room) cancelTimersLocked() {
	for _, cancel := range r.cancels {
		cancel()
	}
	r.cancels = nil
}

func (r *Room) broadcastSnapshotLocked(msgType string) {
	for _, seat := range r.seats {
		if seat.IsBot {
			continue
		}
		r.out.SendToSeat(r.code, seat.ID, models.NewMessage(msgType, r.snapshotLocked(seat.ID)))
	}
}

func (r *Room) systemChatLocked(text string) {
	r.out.BroadcastToRoom(r.code, models.NewMessage(models.MsgTypeNewChatMessage, models.ChatMessagePayload{
		ID:        uuid.NewString(),
		Username:  "System",
		Message:   text,
		Timestamp: time.Now().UnixMilli(),
		System:    true,
	}))
}

func (r *Room) seatByIDLocked(id string) *models.Seat {
	for _, seat := range r.seats {
		if seat.ID == id {
			return seat
		}
	}
	return nil
}

func (r *Room) seatByRoleLocked(role models.Role) *models.Seat {
	for _, seat := range r.seats {
		if seat.Role == role {
			return seat
		}
	}
	return nil
}

func (r *Room) chorIDLocked() string {
	if chor := r.seatByRoleLocked(models.RoleChor); chor != nil {
		return chor.ID
	}
	return ""
}

// accusationPoolLocked is every seat the mantri may nominate: anyone but the
// mantri themselves and the raja.
func (r *Room) accusationPoolLocked(mantriID string) []string {
	pool := make([]string, 0, len(r.seats))
	for _, seat := range r.seats {
		if seat.ID == mantriID || seat.Role == models.RoleRaja {
			continue
		}
		pool = append(pool, seat.ID)
	}
	return pool
}

// guessPoolLocked is every seat the sipahi may call chor, under the same
// exclusions as the accusation.
func (r *Room) guessPoolLocked(sipahiID string) []string {
	pool := make([]string, 0, len(r.seats))
	for _, seat := range r.seats {
		if seat.ID == sipahiID || seat.Role == models.RoleRaja {
			continue
		}
		pool = append(pool, seat.ID)
	}
	return pool
}

func (r *Room) removeSeatLocked(id string) {
	for i, seat := range r.seats {
		if seat.ID == id {
			r.seats = append(r.seats[:i], r.seats[i+1:]...)
			return
		}
	}
}

func (r *Room) humanCountLocked() int {
	count := 0
	for _, seat := range r.seats {
		if !seat.IsBot && seat.Connected {
			count++
		}
	}
	return count
}

func (r *Room) allRevealedLocked() bool {
	for _, seat := range r.seats {
		if !seat.Revealed {
			return false
		}
	}
	return true
}
