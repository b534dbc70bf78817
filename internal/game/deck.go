package game

import (
	"fmt"
	"math/rand"

	"github.com/Abhishek8211/Rajamantri/internal/models"
)

// AssignRoles deals one role per seat position: a uniform permutation of the
// first seatCount roles from the canonical order (raja, mantri, chor,
// sipahi). rng.Perm is a Fisher–Yates shuffle, so every permutation of the
// dealt subset is equally likely.
func AssignRoles(seatCount int, rng *rand.Rand) ([]models.Role, error) {
	if seatCount < 2 || seatCount > len(models.CanonicalRoles) {
		return nil, fmt.Errorf("cannot deal roles for %d seats: %w", seatCount, ErrInvalidConfig)
	}

	deal := make([]models.Role, seatCount)
	for pos, roleIx := range rng.Perm(seatCount) {
		deal[pos] = models.CanonicalRoles[roleIx]
	}
	return deal, nil
}
