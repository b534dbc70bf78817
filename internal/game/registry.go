package game

import (
	"fmt"
	"log"
	"math/rand"
	"sync"

	"github.com/Abhishek8211/Rajamantri/internal/config"
	"github.com/Abhishek8211/Rajamantri/internal/models"
)

const codeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// Registry is the process-wide store of live rooms, keyed by code. Lookups
// are concurrent; mutation of an individual room is serialized by the room's
// own lock.
type Registry struct {
	mu    sync.RWMutex
	rooms map[string]*Room

	out     Broadcaster
	sched   Scheduler
	metrics Metrics
	rng     *rand.Rand // code generation; guarded by mu
	seed    func() *rand.Rand
}

// NewRegistry creates an empty registry. seed produces the random source for
// each new room; tests inject deterministic sources through it.
func NewRegistry(out Broadcaster, sched Scheduler, metrics Metrics, rng *rand.Rand, seed func() *rand.Rand) *Registry {
	return &Registry{
		rooms:   make(map[string]*Room),
		out:     out,
		sched:   sched,
		metrics: metrics,
		rng:     rng,
		seed:    seed,
	}
}

// CreateRoom generates a collision-free code and seeds a new lobby with the
// creator as host.
func (reg *Registry) CreateRoom(hostID, username string, roundTarget int, botCfg models.BotConfig) (*Room, error) {
	if roundTarget <= 0 {
		return nil, fmt.Errorf("round target must be positive: %w", ErrInvalidConfig)
	}

	reg.mu.Lock()
	defer reg.mu.Unlock()

	if len(reg.rooms) >= config.MaxRoomsPerInstance {
		return nil, ErrServerFull
	}

	code := reg.generateCodeLocked()
	room, err := NewRoom(code, models.NewSeat(hostID, username, true), roundTarget, botCfg,
		reg.out, reg.sched, reg.seed(), reg.metrics, reg.Remove)
	if err != nil {
		return nil, err
	}

	reg.rooms[code] = room
	log.Printf("🎮 Room created: room=%s host=%s (total rooms: %d)", code, username, len(reg.rooms))
	return room, nil
}

// Get looks up a live room by code.
func (reg *Registry) Get(code string) (*Room, error) {
	reg.mu.RLock()
	defer reg.mu.RUnlock()

	room, ok := reg.rooms[code]
	if !ok {
		return nil, ErrRoomNotFound
	}
	return room, nil
}

// Remove drops a room from the registry and closes it. Safe to call twice;
// rooms call this themselves when their last human disconnects.
func (reg *Registry) Remove(code string) {
	reg.mu.Lock()
	room, ok := reg.rooms[code]
	delete(reg.rooms, code)
	reg.mu.Unlock()

	if ok {
		room.Close()
		log.Printf("🧹 Room removed: room=%s", code)
	}
}

// Count returns the number of live rooms.
func (reg *Registry) Count() int {
	reg.mu.RLock()
	defer reg.mu.RUnlock()
	return len(reg.rooms)
}

// generateCodeLocked draws 6-char codes until one is free. Collisions are
// vanishingly rare but retried anyway.
func (reg *Registry) generateCodeLocked() string {
	buf := make([]byte, config.RoomCodeLength)
	for {
		for i := range buf {
			buf[i] = codeAlphabet[reg.rng.Intn(len(codeAlphabet))]
		}
		code := string(buf)
		if _, taken := reg.rooms[code]; !taken {
			return code
		}
	}
}
