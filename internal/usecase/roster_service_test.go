package usecase

import (
	"errors"
	"testing"

	"github.com/brasilscore/brasileirao-sync/internal/domain/identity"
	"github.com/brasilscore/brasileirao-sync/internal/domain/lineup"
	"github.com/brasilscore/brasileirao-sync/internal/domain/roster"
)

func floatPtr(v float64) *float64 { return &v }

func TestRosterConsolidator_StarterIsSticky(t *testing.T) {
	c := NewRosterConsolidator(nil)

	if err := c.AddSighting(500, 10, LineupSighting{PlayerName: "Pedro", Role: lineup.RoleSubstitute}); err != nil {
		t.Fatalf("add substitute: %v", err)
	}
	if err := c.AddSighting(500, 10, LineupSighting{
		PlayerName: "Pedro",
		Role:       lineup.RoleStarter,
		PosX:       floatPtr(0.5),
		PosY:       floatPtr(0.9),
	}); err != nil {
		t.Fatalf("add starter: %v", err)
	}
	if err := c.AddSighting(500, 10, LineupSighting{
		PlayerName: "Pedro",
		Role:       lineup.RoleUnavailable,
		Reason:     "suspended",
	}); err != nil {
		t.Fatalf("add unavailable: %v", err)
	}

	rows := c.Lineups()
	if len(rows) != 1 {
		t.Fatalf("expected one lineup row, got %d", len(rows))
	}
	row := rows[0]
	if row.Role != lineup.RoleStarter {
		t.Fatalf("role = %s, want STARTER", row.Role)
	}
	if row.PosX == nil || *row.PosX != 0.5 || row.PosY == nil || *row.PosY != 0.9 {
		t.Fatalf("starter coordinates lost: %+v", row)
	}
	if row.Reason != "" {
		t.Fatalf("starter must carry no unavailability reason, got %q", row.Reason)
	}
}

func TestRosterConsolidator_SubstituteCarriesNoCoordinates(t *testing.T) {
	c := NewRosterConsolidator(nil)

	err := c.AddSighting(500, 10, LineupSighting{
		PlayerName: "Gerson",
		Role:       lineup.RoleSubstitute,
		PosX:       floatPtr(0.1),
		PosY:       floatPtr(0.2),
	})
	if err != nil {
		t.Fatalf("add sighting: %v", err)
	}

	row := c.Lineups()[0]
	if row.Role != lineup.RoleSubstitute {
		t.Fatalf("role = %s, want SUBSTITUTE", row.Role)
	}
	if row.PosX != nil || row.PosY != nil {
		t.Fatalf("bench players must carry no pitch coordinates: %+v", row)
	}
}

func TestRosterConsolidator_UnavailableKeepsReason(t *testing.T) {
	c := NewRosterConsolidator(nil)

	err := c.AddSighting(500, 10, LineupSighting{
		PlayerName: "Bruno Henrique",
		Role:       lineup.RoleUnavailable,
		Reason:     "  knee injury ",
	})
	if err != nil {
		t.Fatalf("add sighting: %v", err)
	}

	row := c.Lineups()[0]
	if row.Role != lineup.RoleUnavailable {
		t.Fatalf("role = %s, want UNAVAILABLE", row.Role)
	}
	if row.Reason != "knee injury" {
		t.Fatalf("reason = %q, want trimmed %q", row.Reason, "knee injury")
	}
	if row.PosX != nil || row.PosY != nil {
		t.Fatalf("unavailable players must carry no pitch coordinates: %+v", row)
	}
}

func TestRosterConsolidator_ShirtAndPositionFillIn(t *testing.T) {
	c := NewRosterConsolidator(nil)

	sightings := []LineupSighting{
		{PlayerName: "Arrascaeta", Role: lineup.RoleSubstitute},
		{PlayerName: "Arrascaeta", Role: lineup.RoleStarter, ShirtNumber: "14", Position: "MEIA"},
		// A later conflicting sighting never overwrites known fields.
		{PlayerName: "Arrascaeta", Role: lineup.RoleStarter, ShirtNumber: "10", Position: "ATACANTE"},
	}
	for _, sighting := range sightings {
		if err := c.AddSighting(500, 10, sighting); err != nil {
			t.Fatalf("add sighting: %v", err)
		}
	}

	entries := c.Entries()
	if len(entries) != 1 {
		t.Fatalf("expected one roster entry, got %d", len(entries))
	}
	entry := entries[0]
	if entry.ShirtNumber != "14" {
		t.Fatalf("shirt number = %q, want first observed 14", entry.ShirtNumber)
	}
	if entry.Position != roster.PositionMidfielder {
		t.Fatalf("position = %s, want MF", entry.Position)
	}
}

func TestRosterConsolidator_PhotoBinding(t *testing.T) {
	index := []identity.PhotoEntry{
		{Name: "Gabriel Barbosa", URL: "https://img.example/gabigol.png"},
	}
	c := NewRosterConsolidator(index)

	if err := c.AddSighting(500, 10, LineupSighting{PlayerName: "GABRIEL BARBOSA", Role: lineup.RoleStarter}); err != nil {
		t.Fatalf("add sighting: %v", err)
	}
	if err := c.AddSighting(500, 10, LineupSighting{PlayerName: "Léo Ortiz", Role: lineup.RoleStarter}); err != nil {
		t.Fatalf("add sighting: %v", err)
	}

	entries := c.Entries()
	if entries[0].PhotoURL != "https://img.example/gabigol.png" {
		t.Fatalf("photo url = %q", entries[0].PhotoURL)
	}
	if entries[1].PhotoURL != "" {
		t.Fatalf("unmatched player must keep an empty photo url, got %q", entries[1].PhotoURL)
	}
}

func TestRosterConsolidator_OneEntryPerTeamAndPlayer(t *testing.T) {
	c := NewRosterConsolidator(nil)

	// Same player seen in two fixtures, plus a same-named player on another
	// team. Names differing only by case and accents collapse.
	adds := []struct {
		fixtureID int64
		teamID    int64
		name      string
	}{
		{500, 10, "João Pedro"},
		{501, 10, "JOAO PEDRO"},
		{500, 20, "João Pedro"},
	}
	for _, add := range adds {
		if err := c.AddSighting(add.fixtureID, add.teamID, LineupSighting{PlayerName: add.name, Role: lineup.RoleStarter}); err != nil {
			t.Fatalf("add sighting: %v", err)
		}
	}

	entries := c.Entries()
	if len(entries) != 2 {
		t.Fatalf("expected 2 roster entries, got %d", len(entries))
	}
	if entries[0].PlayerID != 1 || entries[1].PlayerID != 2 {
		t.Fatalf("run-scoped ids must be monotonic from 1: %+v", entries)
	}
	if entries[0].DisplayName != "João Pedro" {
		t.Fatalf("display name must keep the first-seen spelling, got %q", entries[0].DisplayName)
	}

	rows := c.Lineups()
	if len(rows) != 3 {
		t.Fatalf("expected 3 lineup rows, got %d", len(rows))
	}
	for i := 1; i < len(rows); i++ {
		prev, cur := rows[i-1], rows[i]
		if prev.FixtureID > cur.FixtureID ||
			(prev.FixtureID == cur.FixtureID && prev.TeamID > cur.TeamID) {
			t.Fatalf("lineups out of order at %d: %+v", i, rows)
		}
	}
}

func TestRosterConsolidator_RejectsMalformedSightings(t *testing.T) {
	c := NewRosterConsolidator(nil)

	cases := []struct {
		fixtureID int64
		teamID    int64
		sighting  LineupSighting
	}{
		{500, 10, LineupSighting{PlayerName: "   ", Role: lineup.RoleStarter}},
		{500, 10, LineupSighting{PlayerName: "Pedro", Role: lineup.Role("BENCHED")}},
		{0, 10, LineupSighting{PlayerName: "Pedro", Role: lineup.RoleStarter}},
		{500, 0, LineupSighting{PlayerName: "Pedro", Role: lineup.RoleStarter}},
	}
	for i, tc := range cases {
		err := c.AddSighting(tc.fixtureID, tc.teamID, tc.sighting)
		if !errors.Is(err, ErrInvalidInput) {
			t.Fatalf("case %d: err = %v, want ErrInvalidInput", i, err)
		}
	}
	if len(c.Entries()) != 0 {
		t.Fatalf("rejected sightings must not create roster entries")
	}
}
