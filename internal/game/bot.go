package game

import (
	"math/rand"
	"time"

	"github.com/Abhishek8211/Rajamantri/internal/models"
)

// Per-tier probability that a bot picks the true target. These are tuning
// constants, not game rules; tests pin them as literals.
const (
	HighAccuracy   = 0.70
	MediumAccuracy = 0.25
	LowAccuracy    = 0.10
)

// Accuracy returns the correct-pick probability for a skill tier. Unknown
// tiers fall back to medium.
func Accuracy(tier models.SkillTier) float64 {
	switch tier {
	case models.SkillHigh:
		return HighAccuracy
	case models.SkillLow:
		return LowAccuracy
	default:
		return MediumAccuracy
	}
}

// Decide picks a bot's target from the candidate pool. With probability
// Accuracy(tier) it picks trueTarget; otherwise the miss is a genuine miss,
// drawn uniformly from the pool excluding trueTarget. Deciding is separated
// from pacing: callers schedule the result after ThinkDelay.
func Decide(tier models.SkillTier, trueTarget string, pool []string, rng *rand.Rand) string {
	if len(pool) == 0 {
		return ""
	}

	inPool := false
	for _, id := range pool {
		if id == trueTarget {
			inPool = true
			break
		}
	}

	if inPool && rng.Float64() < Accuracy(tier) {
		return trueTarget
	}

	misses := make([]string, 0, len(pool))
	for _, id := range pool {
		if id != trueTarget {
			misses = append(misses, id)
		}
	}
	if len(misses) == 0 {
		// Pool is only the true target; nothing else to miss onto.
		return trueTarget
	}
	return misses[rng.Intn(len(misses))]
}

// ThinkDelay returns a humanized delay drawn uniformly from [min, max].
func ThinkDelay(min, max time.Duration, rng *rand.Rand) time.Duration {
	if max <= min {
		return min
	}
	return min + time.Duration(rng.Int63n(int64(max-min)+1))
}
