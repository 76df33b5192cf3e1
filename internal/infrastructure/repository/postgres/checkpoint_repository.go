package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/brasilscore/brasileirao-sync/internal/domain/checkpoint"
	qb "github.com/brasilscore/brasileirao-sync/internal/platform/querybuilder"
)

type CheckpointRepository struct {
	db *sqlx.DB
}

func NewCheckpointRepository(db *sqlx.DB) *CheckpointRepository {
	return &CheckpointRepository{db: db}
}

// LastProcessedRound returns the stored checkpoint round, or zero when no
// run has ever committed one.
func (r *CheckpointRepository) LastProcessedRound(ctx context.Context) (int, error) {
	query, args, err := qb.Select("value").
		From("processing_checkpoint").
		Where(qb.Eq("key", checkpoint.KeyLastProcessedRound)).
		Limit(1).
		ToSQL()
	if err != nil {
		return 0, fmt.Errorf("build checkpoint query: %w", err)
	}

	var value int
	if err := r.db.GetContext(ctx, &value, query, args...); err != nil {
		if isNotFound(err) {
			return 0, nil
		}
		return 0, fmt.Errorf("get checkpoint: %w", err)
	}
	return value, nil
}
