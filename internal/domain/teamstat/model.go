package teamstat

import "fmt"

// RoundStat is the point-in-time statistics snapshot for one team, overwritten
// each run. The card/corner aggregates come from the third-party source and
// stay zero when that source has no row for the team.
type RoundStat struct {
	TeamID           int64
	StandingPosition int
	Points           int
	RecentForm       string
	AvgYellowCards   float64
	TotalRedCards    int
	AvgCorners       float64
}

func (s RoundStat) Validate() error {
	if s.TeamID <= 0 {
		return fmt.Errorf("team stat team id must be greater than zero")
	}
	if s.StandingPosition <= 0 {
		return fmt.Errorf("team stat standing position must be greater than zero")
	}

	return nil
}
