package memory

import (
	"context"
	"testing"

	"github.com/brasilscore/brasileirao-sync/internal/domain/fixture"
	"github.com/brasilscore/brasileirao-sync/internal/domain/lineup"
	"github.com/brasilscore/brasileirao-sync/internal/domain/roster"
	"github.com/brasilscore/brasileirao-sync/internal/domain/team"
	"github.com/brasilscore/brasileirao-sync/internal/usecase"
)

func sampleBatch() usecase.RunBatch {
	return usecase.RunBatch{
		Teams: []team.Team{{ID: 10, CanonicalName: "Flamengo"}},
		Fixtures: []fixture.Fixture{
			{ID: 100, Round: 1, HomeTeamID: 10, AwayTeamID: 20},
		},
		Finished: []fixture.Finished{{FixtureID: 100, Round: 1}},
		Roster: []roster.Entry{
			// Run-scoped ids, deliberately offset from what the store assigns.
			{PlayerID: 7, TeamID: 10, DisplayName: "Pedro", NormalizedName: "pedro"},
			{PlayerID: 8, TeamID: 10, DisplayName: "Gerson", NormalizedName: "gerson"},
		},
		Lineups: []lineup.Entry{
			{FixtureID: 100, TeamID: 10, PlayerID: 7, Role: lineup.RoleStarter},
			{FixtureID: 100, TeamID: 10, PlayerID: 8, Role: lineup.RoleSubstitute},
		},
		AdvanceCheckpointTo: 1,
	}
}

func TestStore_CommitRun_RemapsPlayerIDs(t *testing.T) {
	store := NewStore()

	counts, err := store.CommitRun(context.Background(), sampleBatch())
	if err != nil {
		t.Fatalf("commit: %v", err)
	}
	if counts.Roster != 2 || counts.Lineups != 2 {
		t.Fatalf("counts = %+v", counts)
	}

	entries := store.RosterEntries()
	if entries[0].PlayerID != 1 || entries[1].PlayerID != 2 {
		t.Fatalf("persisted ids must come from the store, got %+v", entries)
	}
}

func TestStore_CommitRun_ReRunConverges(t *testing.T) {
	store := NewStore()

	if _, err := store.CommitRun(context.Background(), sampleBatch()); err != nil {
		t.Fatalf("first commit: %v", err)
	}

	// The second run re-derives the same batch with fresh run-scoped ids.
	second := sampleBatch()
	second.Roster[0].PlayerID = 31
	second.Roster[1].PlayerID = 32
	second.Lineups[0].PlayerID = 31
	second.Lineups[1].PlayerID = 32

	counts, err := store.CommitRun(context.Background(), second)
	if err != nil {
		t.Fatalf("second commit: %v", err)
	}
	if counts.Roster != 0 || counts.Lineups != 0 {
		t.Fatalf("a converged re-run must insert nothing, counts = %+v", counts)
	}
	if store.LineupCount() != 2 {
		t.Fatalf("lineup rows = %d, want 2", store.LineupCount())
	}
	if len(store.RosterEntries()) != 2 {
		t.Fatalf("roster entries = %d, want 2", len(store.RosterEntries()))
	}
}

func TestStore_CheckpointNeverRegresses(t *testing.T) {
	store := NewStore()

	batch := sampleBatch()
	batch.AdvanceCheckpointTo = 5
	if _, err := store.CommitRun(context.Background(), batch); err != nil {
		t.Fatalf("commit: %v", err)
	}

	stale := sampleBatch()
	stale.AdvanceCheckpointTo = 3
	if _, err := store.CommitRun(context.Background(), stale); err != nil {
		t.Fatalf("stale commit: %v", err)
	}

	round, err := store.LastProcessedRound(context.Background())
	if err != nil {
		t.Fatalf("read checkpoint: %v", err)
	}
	if round != 5 {
		t.Fatalf("checkpoint = %d, want 5", round)
	}
}

func TestStore_LineupsForUnknownPlayersAreDropped(t *testing.T) {
	store := NewStore()

	batch := sampleBatch()
	batch.Lineups = append(batch.Lineups, lineup.Entry{
		FixtureID: 100, TeamID: 10, PlayerID: 999, Role: lineup.RoleStarter,
	})

	counts, err := store.CommitRun(context.Background(), batch)
	if err != nil {
		t.Fatalf("commit: %v", err)
	}
	if counts.Lineups != 2 {
		t.Fatalf("lineups = %d, want 2 (row outside the roster batch dropped)", counts.Lineups)
	}
}
