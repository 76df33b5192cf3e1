package playercard

import (
	"fmt"
	"strings"
)

// Ledger accumulates a player's card history over the season, keyed by
// (team id, normalized name). YellowSuspensionRound records the round in
// which the third yellow of a cycle was taken; LastRedRound the most recent
// straight red.
type Ledger struct {
	TeamID                int64
	PlayerName            string
	NormalizedName        string
	YellowCards           int
	RedCards              int
	YellowSuspensionRound int
	LastRedRound          int
}

func (l Ledger) Validate() error {
	if l.TeamID <= 0 {
		return fmt.Errorf("player card team id must be greater than zero")
	}
	if strings.TrimSpace(l.NormalizedName) == "" {
		return fmt.Errorf("player card normalized name is required")
	}

	return nil
}
