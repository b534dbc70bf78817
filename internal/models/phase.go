package models

// Phase represents the current phase of a room.
type Phase string

const (
	PhaseLobby            Phase = "lobby"             // Waiting for players to join
	PhaseRoleAssignment   Phase = "role-assignment"   // Cards dealt, players revealing
	PhaseAccusation       Phase = "accusation"        // Mantri nominating a suspected chor
	PhaseSipahiResolution Phase = "sipahi-resolution" // Sipahi making the final guess
	PhaseRoundResult      Phase = "round-result"      // Scores applied, waiting for next round
	PhaseFinished         Phase = "finished"          // Round target reached
)

func (p Phase) String() string {
	return string(p)
}

// CanTransitionTo checks if a transition from the current phase to the target
// phase is legal. Rounds loop RoundResult -> RoleAssignment until the round
// target is reached.
func (p Phase) CanTransitionTo(target Phase) bool {
	validTransitions := map[Phase][]Phase{
		PhaseLobby:            {PhaseRoleAssignment},
		PhaseRoleAssignment:   {PhaseAccusation},
		PhaseAccusation:       {PhaseSipahiResolution},
		PhaseSipahiResolution: {PhaseRoundResult},
		PhaseRoundResult:      {PhaseRoleAssignment, PhaseFinished},
		PhaseFinished:         {},
	}

	allowed, ok := validTransitions[p]
	if !ok {
		return false
	}

	for _, phase := range allowed {
		if phase == target {
			return true
		}
	}
	return false
}
