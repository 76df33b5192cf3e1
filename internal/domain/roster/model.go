package roster

import (
	"fmt"
	"strings"
)

// Position is the coarse field position of a player.
type Position string

const (
	PositionUnknown    Position = "UNKNOWN"
	PositionGoalkeeper Position = "GK"
	PositionDefender   Position = "DF"
	PositionMidfielder Position = "MF"
	PositionForward    Position = "FW"
)

// ParsePosition maps the free-form position text the sources emit onto the
// internal enum. Unrecognized text degrades to UNKNOWN, never an error.
func ParsePosition(raw string) Position {
	switch strings.ToUpper(strings.TrimSpace(raw)) {
	case "GK", "G", "GOLEIRO", "GOALKEEPER":
		return PositionGoalkeeper
	case "DF", "D", "ZAGUEIRO", "LATERAL", "DEFENDER":
		return PositionDefender
	case "MF", "M", "MEIA", "VOLANTE", "MIDFIELDER":
		return PositionMidfielder
	case "FW", "F", "ATACANTE", "CENTROAVANTE", "FORWARD", "STRIKER":
		return PositionForward
	default:
		return PositionUnknown
	}
}

// Entry is the master roster record for one player on one team, unique per
// (team id, normalized display name). PlayerID is a locally generated
// surrogate; the persisted value is canonical and re-runs must converge on it
// through the insert-or-ignore path.
type Entry struct {
	PlayerID       int64
	TeamID         int64
	DisplayName    string
	NormalizedName string
	ShirtNumber    string
	Position       Position
	PhotoURL       string
}

func (e Entry) Validate() error {
	if e.TeamID <= 0 {
		return fmt.Errorf("roster team id must be greater than zero")
	}
	if strings.TrimSpace(e.DisplayName) == "" {
		return fmt.Errorf("roster display name is required")
	}
	if strings.TrimSpace(e.NormalizedName) == "" {
		return fmt.Errorf("roster normalized name is required")
	}

	return nil
}
