package fixture

import "fmt"

// Fixture is a single scheduled match, created or overwritten each run from
// the official source. Formations stay empty until lineup data for the
// fixture is available.
type Fixture struct {
	ID            int64
	Round         int
	KickoffDate   string
	KickoffTime   string
	Venue         string
	HomeTeamID    int64
	AwayTeamID    int64
	HomeGoals     *int
	AwayGoals     *int
	HomeFormation string
	AwayFormation string
}

func (f Fixture) Validate() error {
	if f.ID <= 0 {
		return fmt.Errorf("fixture id must be greater than zero")
	}
	if f.Round <= 0 {
		return fmt.Errorf("fixture round must be greater than zero")
	}
	if f.HomeTeamID <= 0 || f.AwayTeamID <= 0 {
		return fmt.Errorf("fixture team ids are required")
	}

	return nil
}

// Finished marks a fixture as having an official post-match report. The set
// is append-only and drives round completeness.
type Finished struct {
	FixtureID int64
	Round     int
}
