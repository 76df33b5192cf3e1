package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/brasilscore/brasileirao-sync/internal/domain/fixture"
	"github.com/brasilscore/brasileirao-sync/internal/domain/lineup"
	"github.com/brasilscore/brasileirao-sync/internal/domain/playercard"
	"github.com/brasilscore/brasileirao-sync/internal/domain/roster"
	"github.com/brasilscore/brasileirao-sync/internal/domain/team"
	"github.com/brasilscore/brasileirao-sync/internal/domain/teamstat"
	"github.com/brasilscore/brasileirao-sync/internal/usecase"
)

type rosterKey struct {
	teamID         int64
	normalizedName string
}

type lineupKey struct {
	fixtureID int64
	teamID    int64
	playerID  int64
}

type cardKey struct {
	teamID         int64
	normalizedName string
}

// Store is the in-memory run store. It mirrors the relational semantics of
// the postgres store: replace-by-key upserts, insert-or-ignore roster and
// lineup rows, and a monotonic checkpoint.
type Store struct {
	mu sync.RWMutex

	teams        map[int64]team.Team
	fixtures     map[int64]fixture.Fixture
	finished     map[int64]fixture.Finished
	teamStats    map[int64]teamstat.RoundStat
	roster       map[rosterKey]roster.Entry
	lineups      map[lineupKey]lineup.Entry
	playerCards  map[cardKey]playercard.Ledger
	checkpoint   int
	nextPlayerID int64
}

func NewStore() *Store {
	return &Store{
		teams:        make(map[int64]team.Team),
		fixtures:     make(map[int64]fixture.Fixture),
		finished:     make(map[int64]fixture.Finished),
		teamStats:    make(map[int64]teamstat.RoundStat),
		roster:       make(map[rosterKey]roster.Entry),
		lineups:      make(map[lineupKey]lineup.Entry),
		playerCards:  make(map[cardKey]playercard.Ledger),
		nextPlayerID: 1,
	}
}

func (s *Store) CommitRun(_ context.Context, batch usecase.RunBatch) (usecase.RunCounts, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	counts := usecase.RunCounts{}

	for _, item := range batch.Teams {
		s.teams[item.ID] = item
		counts.Teams++
	}
	for _, item := range batch.Fixtures {
		s.fixtures[item.ID] = item
		counts.Fixtures++
	}
	for _, item := range batch.Finished {
		if _, ok := s.finished[item.FixtureID]; !ok {
			s.finished[item.FixtureID] = item
		}
	}
	for _, item := range batch.TeamStats {
		s.teamStats[item.TeamID] = item
		counts.TeamStats++
	}

	playerIDByRunID := make(map[int64]int64, len(batch.Roster))
	for _, item := range batch.Roster {
		key := rosterKey{teamID: item.TeamID, normalizedName: item.NormalizedName}
		existing, ok := s.roster[key]
		if !ok {
			runID := item.PlayerID
			item.PlayerID = s.nextPlayerID
			s.nextPlayerID++
			s.roster[key] = item
			playerIDByRunID[runID] = item.PlayerID
			counts.Roster++
			continue
		}
		playerIDByRunID[item.PlayerID] = existing.PlayerID
	}

	for _, item := range batch.Lineups {
		persistedID, ok := playerIDByRunID[item.PlayerID]
		if !ok {
			continue
		}
		item.PlayerID = persistedID
		key := lineupKey{fixtureID: item.FixtureID, teamID: item.TeamID, playerID: persistedID}
		if _, exists := s.lineups[key]; exists {
			continue
		}
		s.lineups[key] = item
		counts.Lineups++
	}

	for _, item := range batch.PlayerCards {
		s.playerCards[cardKey{teamID: item.TeamID, normalizedName: item.NormalizedName}] = item
	}

	if batch.AdvanceCheckpointTo > s.checkpoint {
		s.checkpoint = batch.AdvanceCheckpointTo
	}

	return counts, nil
}

func (s *Store) LastProcessedRound(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.checkpoint, nil
}

func (s *Store) ListTeams(_ context.Context) ([]team.Team, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]team.Team, 0, len(s.teams))
	for _, item := range s.teams {
		out = append(out, item)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].ID < out[j].ID })

	return out, nil
}

func (s *Store) ListFixtures(_ context.Context) ([]fixture.Fixture, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]fixture.Fixture, 0, len(s.fixtures))
	for _, item := range s.fixtures {
		out = append(out, item)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Round != out[j].Round {
			return out[i].Round < out[j].Round
		}
		return out[i].ID < out[j].ID
	})

	return out, nil
}

func (s *Store) ListFinished(_ context.Context) ([]fixture.Finished, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]fixture.Finished, 0, len(s.finished))
	for _, item := range s.finished {
		out = append(out, item)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].FixtureID < out[j].FixtureID })

	return out, nil
}

// LineupCount reports the number of persisted lineup rows, used by tests to
// assert idempotence.
func (s *Store) LineupCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.lineups)
}

// RosterEntries returns the persisted roster sorted by player id.
func (s *Store) RosterEntries() []roster.Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]roster.Entry, 0, len(s.roster))
	for _, item := range s.roster {
		out = append(out, item)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].PlayerID < out[j].PlayerID })

	return out
}

// PlayerCards returns the persisted card ledgers sorted by team then name.
func (s *Store) PlayerCards() []playercard.Ledger {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]playercard.Ledger, 0, len(s.playerCards))
	for _, item := range s.playerCards {
		out = append(out, item)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].TeamID != out[j].TeamID {
			return out[i].TeamID < out[j].TeamID
		}
		return out[i].NormalizedName < out[j].NormalizedName
	})

	return out
}

// TeamStats returns the persisted round stats sorted by standing position.
func (s *Store) TeamStats() []teamstat.RoundStat {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]teamstat.RoundStat, 0, len(s.teamStats))
	for _, item := range s.teamStats {
		out = append(out, item)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].StandingPosition < out[j].StandingPosition
	})

	return out
}

// Fixture returns one persisted fixture by id.
func (s *Store) Fixture(id int64) (fixture.Fixture, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	item, ok := s.fixtures[id]
	return item, ok
}
