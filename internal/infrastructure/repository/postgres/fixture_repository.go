package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/brasilscore/brasileirao-sync/internal/domain/fixture"
	qb "github.com/brasilscore/brasileirao-sync/internal/platform/querybuilder"
)

type FixtureRepository struct {
	db *sqlx.DB
}

func NewFixtureRepository(db *sqlx.DB) *FixtureRepository {
	return &FixtureRepository{db: db}
}

func (r *FixtureRepository) List(ctx context.Context) ([]fixture.Fixture, error) {
	query, args, err := qb.Select(
		"id", "round", "kickoff_date", "kickoff_time", "venue",
		"home_team_id", "away_team_id", "home_goals", "away_goals",
		"home_formation", "away_formation",
	).
		From("fixtures").
		OrderBy("round", "id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list fixtures query: %w", err)
	}

	var rows []fixtureInsertModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list fixtures: %w", err)
	}

	out := make([]fixture.Fixture, 0, len(rows))
	for _, row := range rows {
		item := fixture.Fixture{
			ID:          row.ID,
			Round:       row.Round,
			KickoffDate: row.KickoffDate,
			KickoffTime: row.KickoffTime,
			Venue:       row.Venue,
			HomeTeamID:  row.HomeTeamID,
			AwayTeamID:  row.AwayTeamID,
		}
		if row.HomeGoals.Valid {
			goals := int(row.HomeGoals.Int64)
			item.HomeGoals = &goals
		}
		if row.AwayGoals.Valid {
			goals := int(row.AwayGoals.Int64)
			item.AwayGoals = &goals
		}
		item.HomeFormation = row.HomeFormation.String
		item.AwayFormation = row.AwayFormation.String
		out = append(out, item)
	}
	return out, nil
}

func (r *FixtureRepository) ListFinished(ctx context.Context) ([]fixture.Finished, error) {
	query, args, err := qb.Select("fixture_id", "round").
		From("finished_fixtures").
		OrderBy("fixture_id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list finished fixtures query: %w", err)
	}

	var rows []finishedFixtureInsertModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list finished fixtures: %w", err)
	}

	out := make([]fixture.Finished, 0, len(rows))
	for _, row := range rows {
		out = append(out, fixture.Finished{FixtureID: row.FixtureID, Round: row.Round})
	}
	return out, nil
}
