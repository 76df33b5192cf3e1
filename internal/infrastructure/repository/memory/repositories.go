package memory

import (
	"context"

	"github.com/brasilscore/brasileirao-sync/internal/domain/fixture"
	"github.com/brasilscore/brasileirao-sync/internal/domain/team"
)

// TeamRepository is the read view over a Store satisfying team.Repository.
type TeamRepository struct {
	store *Store
}

func NewTeamRepository(store *Store) *TeamRepository {
	return &TeamRepository{store: store}
}

func (r *TeamRepository) List(ctx context.Context) ([]team.Team, error) {
	return r.store.ListTeams(ctx)
}

// FixtureRepository is the read view over a Store satisfying
// fixture.Repository.
type FixtureRepository struct {
	store *Store
}

func NewFixtureRepository(store *Store) *FixtureRepository {
	return &FixtureRepository{store: store}
}

func (r *FixtureRepository) List(ctx context.Context) ([]fixture.Fixture, error) {
	return r.store.ListFixtures(ctx)
}

func (r *FixtureRepository) ListFinished(ctx context.Context) ([]fixture.Finished, error) {
	return r.store.ListFinished(ctx)
}
