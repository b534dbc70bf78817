package game_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Abhishek8211/Rajamantri/internal/game"
	"github.com/Abhishek8211/Rajamantri/internal/models"
)

func TestScoreDeltas(t *testing.T) {
	t.Run("correct guess", func(t *testing.T) {
		deltas := game.ScoreDeltas(true)
		assert.Equal(t, map[models.Role]int{
			models.RoleRaja:   1000,
			models.RoleMantri: 800,
			models.RoleSipahi: 500,
			models.RoleChor:   0,
		}, deltas)
	})

	t.Run("wrong guess swaps sipahi and chor", func(t *testing.T) {
		deltas := game.ScoreDeltas(false)
		assert.Equal(t, map[models.Role]int{
			models.RoleRaja:   1000,
			models.RoleMantri: 800,
			models.RoleSipahi: 0,
			models.RoleChor:   500,
		}, deltas)
	})

	t.Run("a full table always settles the same total", func(t *testing.T) {
		for _, correct := range []bool{true, false} {
			total := 0
			for _, d := range game.ScoreDeltas(correct) {
				total += d
			}
			assert.Equal(t, 2300, total, "correct=%t", correct)
		}
	})
}
