package game_test

import (
	"math/rand"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/Abhishek8211/Rajamantri/internal/game"
	"github.com/Abhishek8211/Rajamantri/internal/models"
)

// frame is one recorded outbound message. SeatID is empty for room-wide
// broadcasts.
type frame struct {
	seatID string
	msg    *models.WSMessage
}

// fakeHub records everything a room emits.
type fakeHub struct {
	mu     sync.Mutex
	frames []frame
}

func (f *fakeHub) BroadcastToRoom(code string, msg *models.WSMessage) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.frames = append(f.frames, frame{msg: msg})
}

func (f *fakeHub) SendToSeat(code, seatID string, msg *models.WSMessage) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.frames = append(f.frames, frame{seatID: seatID, msg: msg})
}

func (f *fakeHub) count(msgType string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, fr := range f.frames {
		if fr.msg.Type == msgType {
			n++
		}
	}
	return n
}

func (f *fakeHub) countFor(seatID, msgType string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, fr := range f.frames {
		if fr.seatID == seatID && fr.msg.Type == msgType {
			n++
		}
	}
	return n
}

func (f *fakeHub) reset() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.frames = nil
}

type fakeTimer struct {
	delay     time.Duration
	fn        func()
	fired     bool
	cancelled bool
}

// fakeScheduler collects timers and fires them on demand. It deliberately
// fires cancelled timers too: rooms guard every callback with a generation
// stamp, so firing stale timers must always be a no-op and every test
// exercises that property for free.
type fakeScheduler struct {
	mu     sync.Mutex
	timers []*fakeTimer
}

func (s *fakeScheduler) AfterFunc(d time.Duration, f func()) game.CancelFunc {
	s.mu.Lock()
	defer s.mu.Unlock()
	t := &fakeTimer{delay: d, fn: f}
	s.timers = append(s.timers, t)
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		t.cancelled = true
	}
}

// FireAll runs every pending callback, including ones armed while firing.
func (s *fakeScheduler) FireAll() {
	for {
		s.mu.Lock()
		var next *fakeTimer
		for _, t := range s.timers {
			if !t.fired {
				next = t
				break
			}
		}
		if next != nil {
			next.fired = true
		}
		s.mu.Unlock()

		if next == nil {
			return
		}
		next.fn()
	}
}

// FireSnapshot runs one batch: every callback armed so far, cancelled or
// not, but nothing armed while the batch runs. Cancelled callbacks must be
// rejected by the room's generation stamps.
func (s *fakeScheduler) FireSnapshot() {
	s.mu.Lock()
	var batch []*fakeTimer
	for _, t := range s.timers {
		if !t.fired {
			t.fired = true
			batch = append(batch, t)
		}
	}
	s.mu.Unlock()

	for _, t := range batch {
		t.fn()
	}
}

func (s *fakeScheduler) pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, t := range s.timers {
		if !t.fired && !t.cancelled {
			n++
		}
	}
	return n
}

// fakeMetrics counts the callbacks a room makes into its metrics sink.
type fakeMetrics struct {
	mu             sync.Mutex
	gamesStarted   int
	roundsResolved int
	botDecisions   int
	timeoutActions int
}

func (m *fakeMetrics) IncrementGamesStarted() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.gamesStarted++
}

func (m *fakeMetrics) IncrementRoundsResolved() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.roundsResolved++
}

func (m *fakeMetrics) IncrementBotDecisions() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.botDecisions++
}

func (m *fakeMetrics) IncrementTimeoutActions() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.timeoutActions++
}

func newTestRoom(t *testing.T, roundTarget int, botCfg models.BotConfig) (*game.Room, *fakeHub, *fakeScheduler) {
	t.Helper()
	hub := &fakeHub{}
	sched := &fakeScheduler{}
	rng := rand.New(rand.NewSource(42))

	room, err := game.NewRoom("ABC123", models.NewSeat("host", "Alice", true), roundTarget, botCfg,
		hub, sched, rng, nil, nil)
	require.NoError(t, err)
	return room, hub, sched
}

var noBots = models.BotConfig{AddBots: false, SkillTier: models.SkillMedium}

// seatFull seats four humans: host plus Bob, Carol and Dave.
func seatFull(t *testing.T, room *game.Room) []string {
	t.Helper()
	require.NoError(t, room.Join("p2", "Bob"))
	require.NoError(t, room.Join("p3", "Carol"))
	require.NoError(t, room.Join("p4", "Dave"))
	return []string{"host", "p2", "p3", "p4"}
}

// rolesByID maps each dealt role to its seat id, read through each seat's
// own snapshot so no confidentiality rule is bypassed.
func rolesByID(t *testing.T, room *game.Room, ids []string) map[models.Role]string {
	t.Helper()
	roles := make(map[models.Role]string)
	for _, id := range ids {
		snap := room.Snapshot(id)
		for _, p := range snap.Players {
			if p.ID == id {
				require.NotEmpty(t, p.Role, "seat %s should see its own role", id)
				roles[p.Role] = id
			}
		}
	}
	return roles
}

func revealAll(t *testing.T, room *game.Room, ids []string) {
	t.Helper()
	for _, id := range ids {
		require.NoError(t, room.Reveal(id))
	}
}
