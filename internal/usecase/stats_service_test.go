package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/brasilscore/brasileirao-sync/internal/domain/identity"
)

// fullStandings builds one standings row per canonical club, positions 1..20.
func fullStandings() ([]StandingRow, map[identity.TeamKey]int64) {
	keys := identity.AllKeys()
	rows := make([]StandingRow, 0, len(keys))
	idByKey := make(map[identity.TeamKey]int64, len(keys))
	for i, key := range keys {
		rows = append(rows, StandingRow{
			Position:      i + 1,
			TeamName:      string(key),
			Points:        60 - i,
			RecentForm:    "WWDLW",
			MatchesPlayed: 19,
		})
		idByKey[key] = int64(i + 1)
	}
	return rows, idByKey
}

func TestStatsService_Merge(t *testing.T) {
	service := NewStatsService(identity.NewResolver(identity.DefaultAliases()), nil)
	standings, idByKey := fullStandings()

	aggregates := []TeamAggregate{
		{TeamName: "Flamengo", TotalYellow: 37, TotalRed: 3, AvgCorners: 5.2},
	}

	stats, err := service.Merge(context.Background(), standings, aggregates, idByKey, 20)
	if err != nil {
		t.Fatalf("merge: %v", err)
	}
	if len(stats) != 20 {
		t.Fatalf("expected 20 stats, got %d", len(stats))
	}
	for i, stat := range stats {
		if stat.StandingPosition != i+1 {
			t.Fatalf("stats not sorted by position at %d: %+v", i, stat)
		}
	}

	flamengoID := idByKey[identity.KeyFlamengo]
	var found bool
	for _, stat := range stats {
		if stat.TeamID != flamengoID {
			// Clubs without a third-party row keep zero aggregates.
			if stat.AvgYellowCards != 0 || stat.TotalRedCards != 0 || stat.AvgCorners != 0 {
				t.Fatalf("team %d has aggregates without a third-party row: %+v", stat.TeamID, stat)
			}
			continue
		}
		found = true
		// 37 yellows over 19 matches, rounded to two decimals.
		if stat.AvgYellowCards != 1.95 {
			t.Fatalf("avg yellow = %v, want 1.95", stat.AvgYellowCards)
		}
		if stat.TotalRedCards != 3 || stat.AvgCorners != 5.2 {
			t.Fatalf("flamengo aggregates: %+v", stat)
		}
	}
	if !found {
		t.Fatalf("flamengo row missing from merged stats")
	}
}

func TestStatsService_Merge_ZeroMatchesYieldsZeroAverage(t *testing.T) {
	service := NewStatsService(identity.NewResolver(identity.DefaultAliases()), nil)
	standings, idByKey := fullStandings()
	// Season opener: standings exist but nobody has played yet.
	for i := range standings {
		standings[i].MatchesPlayed = 0
	}

	aggregates := []TeamAggregate{{TeamName: "Flamengo", TotalYellow: 5}}

	stats, err := service.Merge(context.Background(), standings, aggregates, idByKey, 20)
	if err != nil {
		t.Fatalf("merge: %v", err)
	}
	for _, stat := range stats {
		if stat.AvgYellowCards != 0 {
			t.Fatalf("zero matches must yield zero average, got %v for team %d", stat.AvgYellowCards, stat.TeamID)
		}
	}
}

func TestStatsService_Merge_ShortStandingsTableAborts(t *testing.T) {
	service := NewStatsService(identity.NewResolver(identity.DefaultAliases()), nil)
	standings, idByKey := fullStandings()

	_, err := service.Merge(context.Background(), standings[:19], nil, idByKey, 20)
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("err = %v, want ErrValidation", err)
	}
}

func TestStatsService_Merge_SkipsUnresolvableRows(t *testing.T) {
	service := NewStatsService(identity.NewResolver(identity.DefaultAliases()), nil)
	standings, idByKey := fullStandings()
	standings = append(standings, StandingRow{Position: 21, TeamName: "Deportivo Saprissa", Points: 1})

	// An unresolvable aggregate row is skipped too, never fatal.
	aggregates := []TeamAggregate{{TeamName: "Unknown FC", TotalYellow: 99}}

	stats, err := service.Merge(context.Background(), standings, aggregates, idByKey, 20)
	if err != nil {
		t.Fatalf("merge: %v", err)
	}
	if len(stats) != 20 {
		t.Fatalf("expected the unresolved row to be skipped, got %d stats", len(stats))
	}
}

func TestStatsService_Merge_SkipsRowsWithoutOfficialID(t *testing.T) {
	service := NewStatsService(identity.NewResolver(identity.DefaultAliases()), nil)
	standings, idByKey := fullStandings()
	delete(idByKey, identity.KeyMirassol)

	stats, err := service.Merge(context.Background(), standings, nil, idByKey, 20)
	if err != nil {
		t.Fatalf("merge: %v", err)
	}
	if len(stats) != 19 {
		t.Fatalf("expected 19 stats after dropping the id-less club, got %d", len(stats))
	}
}

func TestAverageYellow(t *testing.T) {
	cases := []struct {
		total   int
		matches int
		want    float64
	}{
		{37, 19, 1.95},
		{10, 4, 2.5},
		{1, 3, 0.33},
		{0, 10, 0},
		{5, 0, 0},
		{5, -1, 0},
	}
	for _, tc := range cases {
		if got := averageYellow(tc.total, tc.matches); got != tc.want {
			t.Fatalf("averageYellow(%d, %d) = %v, want %v", tc.total, tc.matches, got, tc.want)
		}
	}
}
