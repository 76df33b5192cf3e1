package usecase

import (
	"context"

	"github.com/brasilscore/brasileirao-sync/internal/domain/identity"
	"github.com/brasilscore/brasileirao-sync/internal/domain/lineup"
)

// OfficialFixture is one fixture row as the official competition API reports
// it. Team names are raw source spellings, resolved by the orchestrator.
type OfficialFixture struct {
	ID        int64
	Round     int
	Date      string
	Time      string
	Venue     string
	HomeID    int64
	HomeName  string
	AwayID    int64
	AwayName  string
	HomeGoals *int
	AwayGoals *int
	Finished  bool
}

// CardEvent is one card record from the official API's per-round match data.
type CardEvent struct {
	Round      int
	TeamName   string
	PlayerName string
	Yellow     int
	Red        int
}

// OfficialRound bundles everything the official API yields for one round.
type OfficialRound struct {
	Round    int
	Fixtures []OfficialFixture
	Cards    []CardEvent
}

// StandingRow is one row of the official statistics page's league table.
type StandingRow struct {
	Position      int
	TeamName      string
	Points        int
	RecentForm    string
	MatchesPlayed int
}

// TeamAggregate carries the third-party per-team season aggregates, plus the
// identity fields (short name, crest) the official sources lack.
type TeamAggregate struct {
	TeamName    string
	ShortName   string
	CrestURL    string
	AvgCorners  float64
	TotalYellow int
	TotalRed    int
}

// LineupSighting is one observation of a player in a fixture's pre-match
// lineup widgets. The same player can appear in several widgets with
// conflicting roles.
type LineupSighting struct {
	TeamName    string
	Role        lineup.Role
	PlayerName  string
	ShirtNumber string
	Position    string
	PosX        *float64
	PosY        *float64
	Reason      string
}

// FixtureLineup is the third-party lineup payload for one fixture.
type FixtureLineup struct {
	FixtureID     int64
	HomeFormation string
	AwayFormation string
	Sightings     []LineupSighting
}

// OfficialSource is the official competition API plus its statistics page.
type OfficialSource interface {
	FetchRound(ctx context.Context, round int) (OfficialRound, error)
	FetchStandings(ctx context.Context) ([]StandingRow, error)
}

// ThirdPartySource is the scores site supplying aggregates, lineups and the
// player photo index.
type ThirdPartySource interface {
	FetchTeamAggregates(ctx context.Context) ([]TeamAggregate, error)
	FetchFixtureLineup(ctx context.Context, fixtureID int64) (FixtureLineup, error)
	FetchPhotoIndex(ctx context.Context) ([]identity.PhotoEntry, error)
}
