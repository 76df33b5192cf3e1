package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/brasilscore/brasileirao-sync/internal/domain/team"
	qb "github.com/brasilscore/brasileirao-sync/internal/platform/querybuilder"
)

type TeamRepository struct {
	db *sqlx.DB
}

func NewTeamRepository(db *sqlx.DB) *TeamRepository {
	return &TeamRepository{db: db}
}

func (r *TeamRepository) List(ctx context.Context) ([]team.Team, error) {
	query, args, err := qb.Select("id", "canonical_name", "short_name", "crest_url").
		From("teams").
		OrderBy("id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list teams query: %w", err)
	}

	var rows []teamInsertModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list teams: %w", err)
	}

	out := make([]team.Team, 0, len(rows))
	for _, row := range rows {
		out = append(out, team.Team{
			ID:            row.ID,
			CanonicalName: row.CanonicalName,
			ShortName:     row.ShortName,
			CrestURL:      row.CrestURL,
		})
	}
	return out, nil
}
