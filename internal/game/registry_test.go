package game_test

import (
	"math/rand"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Abhishek8211/Rajamantri/internal/game"
	"github.com/Abhishek8211/Rajamantri/internal/models"
)

func newTestRegistry() (*game.Registry, *fakeHub, *fakeScheduler) {
	hub := &fakeHub{}
	sched := &fakeScheduler{}
	var next int64
	seed := func() *rand.Rand {
		next++
		return rand.New(rand.NewSource(next))
	}
	return game.NewRegistry(hub, sched, nil, rand.New(rand.NewSource(1)), seed), hub, sched
}

func TestRegistryCreateRoom(t *testing.T) {
	t.Run("creates a lobby addressable by code", func(t *testing.T) {
		reg, _, _ := newTestRegistry()

		room, err := reg.CreateRoom("host", "Alice", 5, models.DefaultBotConfig())
		require.NoError(t, err)

		assert.Regexp(t, regexp.MustCompile(`^[A-Z0-9]{6}$`), room.Code())
		assert.Equal(t, models.PhaseLobby, room.Phase())
		assert.Equal(t, 1, reg.Count())

		got, err := reg.Get(room.Code())
		require.NoError(t, err)
		assert.Same(t, room, got)
	})

	t.Run("codes are unique", func(t *testing.T) {
		reg, _, _ := newTestRegistry()
		codes := make(map[string]bool)
		for i := 0; i < 50; i++ {
			room, err := reg.CreateRoom("host", "Alice", 5, models.DefaultBotConfig())
			require.NoError(t, err)
			assert.False(t, codes[room.Code()], "duplicate code %s", room.Code())
			codes[room.Code()] = true
		}
	})

	t.Run("rejects a non-positive round target", func(t *testing.T) {
		reg, _, _ := newTestRegistry()
		_, err := reg.CreateRoom("host", "Alice", 0, models.DefaultBotConfig())
		assert.ErrorIs(t, err, game.ErrInvalidConfig)
		assert.Zero(t, reg.Count())
	})

	t.Run("rejects a malformed bot config", func(t *testing.T) {
		reg, _, _ := newTestRegistry()
		for _, cfg := range []models.BotConfig{
			{AddBots: true, BotCount: -5, SkillTier: models.SkillMedium},
			{AddBots: true, BotCount: 4, SkillTier: models.SkillMedium},
			{AddBots: true, BotCount: 2, SkillTier: "impossible"},
		} {
			_, err := reg.CreateRoom("host", "Alice", 5, cfg)
			assert.ErrorIs(t, err, game.ErrInvalidConfig, "count=%d tier=%q", cfg.BotCount, cfg.SkillTier)
		}
		assert.Zero(t, reg.Count())
	})
}

func TestRegistryGet(t *testing.T) {
	reg, _, _ := newTestRegistry()
	_, err := reg.Get("NOSUCH")
	assert.ErrorIs(t, err, game.ErrRoomNotFound)
}

func TestRegistryRemove(t *testing.T) {
	reg, _, _ := newTestRegistry()
	room, err := reg.CreateRoom("host", "Alice", 5, models.DefaultBotConfig())
	require.NoError(t, err)

	reg.Remove(room.Code())
	reg.Remove(room.Code()) // idempotent

	assert.Zero(t, reg.Count())
	_, err = reg.Get(room.Code())
	assert.ErrorIs(t, err, game.ErrRoomNotFound)

	// The room itself was closed, not just forgotten.
	assert.ErrorIs(t, room.Join("p2", "Bob"), game.ErrRoomNotFound)
}

func TestRegistryEmptyRoomTeardown(t *testing.T) {
	reg, _, _ := newTestRegistry()
	room, err := reg.CreateRoom("host", "Alice", 5, models.DefaultBotConfig())
	require.NoError(t, err)

	// The last human leaving dissolves the room registry-wide.
	room.HandleDisconnect("host")

	assert.Zero(t, reg.Count())
	_, err = reg.Get(room.Code())
	assert.ErrorIs(t, err, game.ErrRoomNotFound)
}
