package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/brasilscore/brasileirao-sync/internal/domain/checkpoint"
	qb "github.com/brasilscore/brasileirao-sync/internal/platform/querybuilder"
	"github.com/brasilscore/brasileirao-sync/internal/usecase"
)

// RunStore persists a full sync run in one transaction. Write order follows
// the foreign keys: teams first, the checkpoint last, so a failure anywhere
// leaves both the data and the checkpoint untouched.
type RunStore struct {
	db *sqlx.DB
}

func NewRunStore(db *sqlx.DB) *RunStore {
	return &RunStore{db: db}
}

func (s *RunStore) CommitRun(ctx context.Context, batch usecase.RunBatch) (usecase.RunCounts, error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return usecase.RunCounts{}, fmt.Errorf("begin run tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	counts := usecase.RunCounts{}

	for _, item := range batch.Teams {
		model := teamInsertModel{
			ID:            item.ID,
			CanonicalName: item.CanonicalName,
			ShortName:     item.ShortName,
			CrestURL:      item.CrestURL,
		}
		query, args, err := qb.InsertModel("teams", model, `ON CONFLICT (id)
DO UPDATE SET
    canonical_name = EXCLUDED.canonical_name,
    short_name = EXCLUDED.short_name,
    crest_url = EXCLUDED.crest_url,
    updated_at = NOW()`)
		if err != nil {
			return usecase.RunCounts{}, fmt.Errorf("build upsert team query: %w", err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return usecase.RunCounts{}, wrapWriteError("upsert team", err)
		}
		counts.Teams++
	}

	for _, item := range batch.Fixtures {
		model := fixtureInsertModel{
			ID:            item.ID,
			Round:         item.Round,
			KickoffDate:   item.KickoffDate,
			KickoffTime:   item.KickoffTime,
			Venue:         item.Venue,
			HomeTeamID:    item.HomeTeamID,
			AwayTeamID:    item.AwayTeamID,
			HomeGoals:     intPtrToNullInt64(item.HomeGoals),
			AwayGoals:     intPtrToNullInt64(item.AwayGoals),
			HomeFormation: stringToNullString(item.HomeFormation),
			AwayFormation: stringToNullString(item.AwayFormation),
		}
		query, args, err := qb.InsertModel("fixtures", model, `ON CONFLICT (id)
DO UPDATE SET
    round = EXCLUDED.round,
    kickoff_date = EXCLUDED.kickoff_date,
    kickoff_time = EXCLUDED.kickoff_time,
    venue = EXCLUDED.venue,
    home_team_id = EXCLUDED.home_team_id,
    away_team_id = EXCLUDED.away_team_id,
    home_goals = EXCLUDED.home_goals,
    away_goals = EXCLUDED.away_goals,
    home_formation = COALESCE(EXCLUDED.home_formation, fixtures.home_formation),
    away_formation = COALESCE(EXCLUDED.away_formation, fixtures.away_formation),
    updated_at = NOW()`)
		if err != nil {
			return usecase.RunCounts{}, fmt.Errorf("build upsert fixture query: %w", err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return usecase.RunCounts{}, wrapWriteError(fmt.Sprintf("upsert fixture %d", item.ID), err)
		}
		counts.Fixtures++
	}

	for _, item := range batch.Finished {
		model := finishedFixtureInsertModel{FixtureID: item.FixtureID, Round: item.Round}
		query, args, err := qb.InsertModel("finished_fixtures", model, `ON CONFLICT (fixture_id) DO NOTHING`)
		if err != nil {
			return usecase.RunCounts{}, fmt.Errorf("build insert finished fixture query: %w", err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return usecase.RunCounts{}, wrapWriteError(fmt.Sprintf("insert finished fixture %d", item.FixtureID), err)
		}
	}

	for _, item := range batch.TeamStats {
		model := teamStatInsertModel{
			TeamID:           item.TeamID,
			StandingPosition: item.StandingPosition,
			Points:           item.Points,
			RecentForm:       item.RecentForm,
			AvgYellowCards:   item.AvgYellowCards,
			TotalRedCards:    item.TotalRedCards,
			AvgCorners:       item.AvgCorners,
		}
		query, args, err := qb.InsertModel("team_round_stats", model, `ON CONFLICT (team_id)
DO UPDATE SET
    standing_position = EXCLUDED.standing_position,
    points = EXCLUDED.points,
    recent_form = EXCLUDED.recent_form,
    avg_yellow_cards = EXCLUDED.avg_yellow_cards,
    total_red_cards = EXCLUDED.total_red_cards,
    avg_corners = EXCLUDED.avg_corners,
    updated_at = NOW()`)
		if err != nil {
			return usecase.RunCounts{}, fmt.Errorf("build upsert team stat query: %w", err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return usecase.RunCounts{}, wrapWriteError(fmt.Sprintf("upsert team stat team=%d", item.TeamID), err)
		}
		counts.TeamStats++
	}

	playerIDByRunID, rosterInserted, err := s.writeRoster(ctx, tx, batch)
	if err != nil {
		return usecase.RunCounts{}, err
	}
	counts.Roster = rosterInserted

	for _, item := range batch.Lineups {
		persistedID, ok := playerIDByRunID[item.PlayerID]
		if !ok {
			return usecase.RunCounts{}, fmt.Errorf("%w: lineup references player %d missing from persisted roster", usecase.ErrIntegrity, item.PlayerID)
		}
		model := lineupInsertModel{
			FixtureID: item.FixtureID,
			TeamID:    item.TeamID,
			PlayerID:  persistedID,
			Role:      string(item.Role),
			PosX:      floatPtrToNullFloat64(item.PosX),
			PosY:      floatPtrToNullFloat64(item.PosY),
			Reason:    stringToNullString(item.Reason),
		}
		query, args, err := qb.InsertModel("lineup_entries", model, `ON CONFLICT (fixture_id, team_id, player_id) DO NOTHING`)
		if err != nil {
			return usecase.RunCounts{}, fmt.Errorf("build insert lineup entry query: %w", err)
		}
		res, err := tx.ExecContext(ctx, query, args...)
		if err != nil {
			return usecase.RunCounts{}, wrapWriteError(fmt.Sprintf("insert lineup entry fixture=%d player=%d", item.FixtureID, persistedID), err)
		}
		if affected, err := res.RowsAffected(); err == nil {
			counts.Lineups += int(affected)
		}
	}

	for _, item := range batch.PlayerCards {
		model := playerCardInsertModel{
			TeamID:                item.TeamID,
			PlayerName:            item.PlayerName,
			NormalizedName:        item.NormalizedName,
			YellowCards:           item.YellowCards,
			RedCards:              item.RedCards,
			YellowSuspensionRound: intToNullInt64(item.YellowSuspensionRound),
			LastRedRound:          intToNullInt64(item.LastRedRound),
		}
		query, args, err := qb.InsertModel("player_cards", model, `ON CONFLICT (team_id, normalized_name)
DO UPDATE SET
    player_name = EXCLUDED.player_name,
    yellow_cards = EXCLUDED.yellow_cards,
    red_cards = EXCLUDED.red_cards,
    yellow_suspension_round = EXCLUDED.yellow_suspension_round,
    last_red_round = EXCLUDED.last_red_round,
    updated_at = NOW()`)
		if err != nil {
			return usecase.RunCounts{}, fmt.Errorf("build upsert player card query: %w", err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return usecase.RunCounts{}, wrapWriteError(fmt.Sprintf("upsert player card team=%d player=%q", item.TeamID, item.PlayerName), err)
		}
	}

	if batch.AdvanceCheckpointTo > 0 {
		query, args, err := qb.InsertInto("processing_checkpoint").
			Columns("key", "value").
			Values(checkpoint.KeyLastProcessedRound, batch.AdvanceCheckpointTo).
			Suffix(`ON CONFLICT (key)
DO UPDATE SET value = GREATEST(processing_checkpoint.value, EXCLUDED.value), updated_at = NOW()`).
			ToSQL()
		if err != nil {
			return usecase.RunCounts{}, fmt.Errorf("build advance checkpoint query: %w", err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return usecase.RunCounts{}, wrapWriteError("advance checkpoint", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return usecase.RunCounts{}, fmt.Errorf("commit run tx: %w", err)
	}
	return counts, nil
}

// writeRoster inserts roster rows with insert-or-ignore semantics, then reads
// the persisted ids back so lineup rows can be rewritten from run-scoped
// player ids onto the database ones.
func (s *RunStore) writeRoster(ctx context.Context, tx *sqlx.Tx, batch usecase.RunBatch) (map[int64]int64, int, error) {
	if len(batch.Roster) == 0 {
		return map[int64]int64{}, 0, nil
	}

	inserted := 0
	teamIDs := make(map[int64]struct{}, len(batch.Teams))
	for _, item := range batch.Roster {
		model := rosterInsertModel{
			TeamID:         item.TeamID,
			DisplayName:    item.DisplayName,
			NormalizedName: item.NormalizedName,
			ShirtNumber:    stringToNullString(item.ShirtNumber),
			Position:       string(item.Position),
			PhotoURL:       stringToNullString(item.PhotoURL),
		}
		query, args, err := qb.InsertModel("roster_entries", model, `ON CONFLICT (team_id, normalized_name) DO NOTHING`)
		if err != nil {
			return nil, 0, fmt.Errorf("build insert roster entry query: %w", err)
		}
		res, err := tx.ExecContext(ctx, query, args...)
		if err != nil {
			return nil, 0, wrapWriteError(fmt.Sprintf("insert roster entry team=%d player=%q", item.TeamID, item.DisplayName), err)
		}
		if affected, err := res.RowsAffected(); err == nil {
			inserted += int(affected)
		}
		teamIDs[item.TeamID] = struct{}{}
	}

	teamIDArgs := make([]any, 0, len(teamIDs))
	for id := range teamIDs {
		teamIDArgs = append(teamIDArgs, id)
	}
	query, args, err := qb.Select("id", "team_id", "normalized_name").
		From("roster_entries").
		Where(qb.In("team_id", teamIDArgs)).
		ToSQL()
	if err != nil {
		return nil, 0, fmt.Errorf("build roster read-back query: %w", err)
	}

	var rows []rosterRowModel
	if err := tx.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, 0, fmt.Errorf("read back roster entries: %w", err)
	}

	type rosterKey struct {
		teamID         int64
		normalizedName string
	}
	persistedByKey := make(map[rosterKey]int64, len(rows))
	for _, row := range rows {
		persistedByKey[rosterKey{teamID: row.TeamID, normalizedName: row.NormalizedName}] = row.ID
	}

	playerIDByRunID := make(map[int64]int64, len(batch.Roster))
	for _, item := range batch.Roster {
		persistedID, ok := persistedByKey[rosterKey{teamID: item.TeamID, normalizedName: item.NormalizedName}]
		if !ok {
			return nil, 0, fmt.Errorf("%w: roster entry team=%d player=%q missing after insert", usecase.ErrIntegrity, item.TeamID, item.DisplayName)
		}
		playerIDByRunID[item.PlayerID] = persistedID
	}
	return playerIDByRunID, inserted, nil
}

// wrapWriteError surfaces foreign key violations under the integrity sentinel
// so callers can tell a bad batch apart from an unavailable database.
func wrapWriteError(op string, err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == "23503" {
		return fmt.Errorf("%w: %s: %v", usecase.ErrIntegrity, op, err)
	}
	return fmt.Errorf("%s: %w", op, err)
}
