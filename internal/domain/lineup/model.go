package lineup

import "fmt"

// Role classifies one lineup sighting of a player.
type Role string

const (
	RoleStarter     Role = "STARTER"
	RoleSubstitute  Role = "SUBSTITUTE"
	RoleUnavailable Role = "UNAVAILABLE"
)

func (r Role) Valid() bool {
	switch r {
	case RoleStarter, RoleSubstitute, RoleUnavailable:
		return true
	default:
		return false
	}
}

// Entry is one observation of a player in a specific fixture. PosX/PosY are
// populated only for starters; Reason only for unavailable players.
type Entry struct {
	FixtureID int64
	TeamID    int64
	PlayerID  int64
	Role      Role
	PosX      *float64
	PosY      *float64
	Reason    string
}

func (e Entry) Validate() error {
	if e.FixtureID <= 0 {
		return fmt.Errorf("lineup fixture id must be greater than zero")
	}
	if e.TeamID <= 0 {
		return fmt.Errorf("lineup team id must be greater than zero")
	}
	if e.PlayerID <= 0 {
		return fmt.Errorf("lineup player id must be greater than zero")
	}
	if !e.Role.Valid() {
		return fmt.Errorf("lineup role %q is not valid", e.Role)
	}

	return nil
}
