package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/brasilscore/brasileirao-sync/internal/domain/checkpoint"
	"github.com/brasilscore/brasileirao-sync/internal/domain/fixture"
	"github.com/brasilscore/brasileirao-sync/internal/domain/lineup"
	"github.com/brasilscore/brasileirao-sync/internal/domain/playercard"
	"github.com/brasilscore/brasileirao-sync/internal/domain/roster"
	"github.com/brasilscore/brasileirao-sync/internal/domain/team"
	"github.com/brasilscore/brasileirao-sync/internal/domain/teamstat"
)

// RunBatch is the complete working set of one run, handed to the store as a
// single logical transaction. AdvanceCheckpointTo is zero when the run must
// not move the checkpoint.
type RunBatch struct {
	Teams               []team.Team
	Fixtures            []fixture.Fixture
	Finished            []fixture.Finished
	TeamStats           []teamstat.RoundStat
	Roster              []roster.Entry
	Lineups             []lineup.Entry
	PlayerCards         []playercard.Ledger
	AdvanceCheckpointTo int
}

// RunCounts reports what a committed run wrote.
type RunCounts struct {
	Teams     int
	Fixtures  int
	Roster    int
	Lineups   int
	TeamStats int
}

// RunStore commits a run batch atomically. Roster rows hit an insert-or-ignore
// path; the store must remap run-scoped player ids onto the persisted ones
// before writing lineups.
type RunStore interface {
	CommitRun(ctx context.Context, batch RunBatch) (RunCounts, error)
}

// IngestionService fronts the run store: it validates the batch and enforces
// referential integrity before anything reaches the database. A batch that
// references an unknown team indicates an unresolved-identity bug upstream
// and is rejected, not silently trimmed.
type IngestionService struct {
	store          RunStore
	checkpointRepo checkpoint.Repository
}

func NewIngestionService(store RunStore, checkpointRepo checkpoint.Repository) *IngestionService {
	return &IngestionService{store: store, checkpointRepo: checkpointRepo}
}

func (s *IngestionService) LastProcessedRound(ctx context.Context) (int, error) {
	round, err := s.checkpointRepo.LastProcessedRound(ctx)
	if err != nil {
		return 0, fmt.Errorf("read checkpoint: %w", err)
	}
	if round < 0 {
		return 0, fmt.Errorf("%w: checkpoint round %d is negative", ErrValidation, round)
	}
	return round, nil
}

func (s *IngestionService) CommitRun(ctx context.Context, batch RunBatch) (RunCounts, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.IngestionService.CommitRun")
	defer span.End()

	if len(batch.Teams) == 0 {
		return RunCounts{}, fmt.Errorf("%w: run batch has no teams", ErrInvalidInput)
	}

	knownTeams := make(map[int64]struct{}, len(batch.Teams))
	for idx := range batch.Teams {
		batch.Teams[idx].CanonicalName = strings.TrimSpace(batch.Teams[idx].CanonicalName)
		batch.Teams[idx].ShortName = strings.TrimSpace(batch.Teams[idx].ShortName)
		if err := batch.Teams[idx].Validate(); err != nil {
			return RunCounts{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		knownTeams[batch.Teams[idx].ID] = struct{}{}
	}

	knownFixtures := make(map[int64]struct{}, len(batch.Fixtures))
	for idx := range batch.Fixtures {
		item := batch.Fixtures[idx]
		if err := item.Validate(); err != nil {
			return RunCounts{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		if _, ok := knownTeams[item.HomeTeamID]; !ok {
			return RunCounts{}, fmt.Errorf("%w: fixture %d references unknown home team %d", ErrIntegrity, item.ID, item.HomeTeamID)
		}
		if _, ok := knownTeams[item.AwayTeamID]; !ok {
			return RunCounts{}, fmt.Errorf("%w: fixture %d references unknown away team %d", ErrIntegrity, item.ID, item.AwayTeamID)
		}
		knownFixtures[item.ID] = struct{}{}
	}

	for _, item := range batch.Finished {
		if _, ok := knownFixtures[item.FixtureID]; !ok {
			return RunCounts{}, fmt.Errorf("%w: finished record references unknown fixture %d", ErrIntegrity, item.FixtureID)
		}
	}

	for _, item := range batch.TeamStats {
		if err := item.Validate(); err != nil {
			return RunCounts{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		if _, ok := knownTeams[item.TeamID]; !ok {
			return RunCounts{}, fmt.Errorf("%w: team stat references unknown team %d", ErrIntegrity, item.TeamID)
		}
	}

	knownPlayers := make(map[int64]struct{}, len(batch.Roster))
	for _, item := range batch.Roster {
		if err := item.Validate(); err != nil {
			return RunCounts{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		if _, ok := knownTeams[item.TeamID]; !ok {
			return RunCounts{}, fmt.Errorf("%w: roster entry %q references unknown team %d", ErrIntegrity, item.DisplayName, item.TeamID)
		}
		knownPlayers[item.PlayerID] = struct{}{}
	}

	for _, item := range batch.Lineups {
		if err := item.Validate(); err != nil {
			return RunCounts{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		if _, ok := knownTeams[item.TeamID]; !ok {
			return RunCounts{}, fmt.Errorf("%w: lineup entry references unknown team %d", ErrIntegrity, item.TeamID)
		}
		if _, ok := knownFixtures[item.FixtureID]; !ok {
			return RunCounts{}, fmt.Errorf("%w: lineup entry references unknown fixture %d", ErrIntegrity, item.FixtureID)
		}
		if _, ok := knownPlayers[item.PlayerID]; !ok {
			return RunCounts{}, fmt.Errorf("%w: lineup entry references player %d outside the roster batch", ErrIntegrity, item.PlayerID)
		}
	}

	for _, item := range batch.PlayerCards {
		if err := item.Validate(); err != nil {
			return RunCounts{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		if _, ok := knownTeams[item.TeamID]; !ok {
			return RunCounts{}, fmt.Errorf("%w: player card references unknown team %d", ErrIntegrity, item.TeamID)
		}
	}

	if batch.AdvanceCheckpointTo < 0 {
		return RunCounts{}, fmt.Errorf("%w: checkpoint target cannot be negative", ErrInvalidInput)
	}

	counts, err := s.store.CommitRun(ctx, batch)
	if err != nil {
		return RunCounts{}, fmt.Errorf("commit run batch: %w", err)
	}
	return counts, nil
}
