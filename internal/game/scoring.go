package game

import "github.com/Abhishek8211/Rajamantri/internal/models"

// Per-round payouts. Raja and mantri collect regardless of the outcome; the
// sipahi's and chor's payouts swap on whether the sipahi caught the chor.
const (
	RajaPoints   = 1000
	MantriPoints = 800
	CatchPoints  = 500
)

// ScoreDeltas returns the per-role score deltas for a resolved round. Pure
// lookup: the same input always yields the same table, and cumulative scores
// are strictly the sum of these deltas.
func ScoreDeltas(correct bool) map[models.Role]int {
	deltas := map[models.Role]int{
		models.RoleRaja:   RajaPoints,
		models.RoleMantri: MantriPoints,
		models.RoleSipahi: 0,
		models.RoleChor:   CatchPoints,
	}
	if correct {
		deltas[models.RoleSipahi] = CatchPoints
		deltas[models.RoleChor] = 0
	}
	return deltas
}
