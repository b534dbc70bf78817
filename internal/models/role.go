package models

// Role is one of the four cards dealt each round.
type Role string

const (
	RoleRaja   Role = "raja"
	RoleMantri Role = "mantri"
	RoleChor   Role = "chor"
	RoleSipahi Role = "sipahi"
)

// CanonicalRoles is the deal order: with fewer than four seats the deck is
// the first N roles of this list, so a 2-player game is raja vs mantri and a
// 3-player game adds the chor.
var CanonicalRoles = []Role{RoleRaja, RoleMantri, RoleChor, RoleSipahi}

func (r Role) String() string {
	return string(r)
}

// DisplayName returns the English label used in system chat lines.
func (r Role) DisplayName() string {
	switch r {
	case RoleRaja:
		return "Raja"
	case RoleMantri:
		return "Mantri"
	case RoleChor:
		return "Chor"
	case RoleSipahi:
		return "Sipahi"
	}
	return string(r)
}
