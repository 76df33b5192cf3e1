package postgres

import "database/sql"

type teamInsertModel struct {
	ID            int64  `db:"id"`
	CanonicalName string `db:"canonical_name"`
	ShortName     string `db:"short_name"`
	CrestURL      string `db:"crest_url"`
}

type fixtureInsertModel struct {
	ID            int64          `db:"id"`
	Round         int            `db:"round"`
	KickoffDate   string         `db:"kickoff_date"`
	KickoffTime   string         `db:"kickoff_time"`
	Venue         string         `db:"venue"`
	HomeTeamID    int64          `db:"home_team_id"`
	AwayTeamID    int64          `db:"away_team_id"`
	HomeGoals     sql.NullInt64  `db:"home_goals"`
	AwayGoals     sql.NullInt64  `db:"away_goals"`
	HomeFormation sql.NullString `db:"home_formation"`
	AwayFormation sql.NullString `db:"away_formation"`
}

type finishedFixtureInsertModel struct {
	FixtureID int64 `db:"fixture_id"`
	Round     int   `db:"round"`
}

type teamStatInsertModel struct {
	TeamID           int64   `db:"team_id"`
	StandingPosition int     `db:"standing_position"`
	Points           int     `db:"points"`
	RecentForm       string  `db:"recent_form"`
	AvgYellowCards   float64 `db:"avg_yellow_cards"`
	TotalRedCards    int     `db:"total_red_cards"`
	AvgCorners       float64 `db:"avg_corners"`
}

type rosterInsertModel struct {
	TeamID         int64          `db:"team_id"`
	DisplayName    string         `db:"display_name"`
	NormalizedName string         `db:"normalized_name"`
	ShirtNumber    sql.NullString `db:"shirt_number"`
	Position       string         `db:"position"`
	PhotoURL       sql.NullString `db:"photo_url"`
}

type rosterRowModel struct {
	ID             int64  `db:"id"`
	TeamID         int64  `db:"team_id"`
	NormalizedName string `db:"normalized_name"`
}

type lineupInsertModel struct {
	FixtureID int64           `db:"fixture_id"`
	TeamID    int64           `db:"team_id"`
	PlayerID  int64           `db:"player_id"`
	Role      string          `db:"role"`
	PosX      sql.NullFloat64 `db:"pos_x"`
	PosY      sql.NullFloat64 `db:"pos_y"`
	Reason    sql.NullString  `db:"reason"`
}

type playerCardInsertModel struct {
	TeamID                int64         `db:"team_id"`
	PlayerName            string        `db:"player_name"`
	NormalizedName        string        `db:"normalized_name"`
	YellowCards           int           `db:"yellow_cards"`
	RedCards              int           `db:"red_cards"`
	YellowSuspensionRound sql.NullInt64 `db:"yellow_suspension_round"`
	LastRedRound          sql.NullInt64 `db:"last_red_round"`
}

func intPtrToNullInt64(v *int) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*v), Valid: true}
}

func intToNullInt64(v int) sql.NullInt64 {
	if v == 0 {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(v), Valid: true}
}

func floatPtrToNullFloat64(v *float64) sql.NullFloat64 {
	if v == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *v, Valid: true}
}

func stringToNullString(v string) sql.NullString {
	if v == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: v, Valid: true}
}
