package usecase

import (
	"context"
	"fmt"
	"math"
	"sort"

	"github.com/brasilscore/brasileirao-sync/internal/domain/identity"
	"github.com/brasilscore/brasileirao-sync/internal/domain/teamstat"
	"github.com/brasilscore/brasileirao-sync/internal/platform/logging"
)

// StatsService joins the official standings table with the third-party
// aggregates through resolved team identity.
type StatsService struct {
	resolver *identity.Resolver
	logger   *logging.Logger
}

func NewStatsService(resolver *identity.Resolver, logger *logging.Logger) *StatsService {
	if logger == nil {
		logger = logging.Default()
	}
	return &StatsService{resolver: resolver, logger: logger}
}

// Merge builds one RoundStat per resolvable standings row. A standings table
// smaller than the known league size aborts the run before any persistence; a
// team absent from the third-party side keeps zero aggregates and never fails
// the run.
func (s *StatsService) Merge(
	ctx context.Context,
	standings []StandingRow,
	aggregates []TeamAggregate,
	teamIDByKey map[identity.TeamKey]int64,
	minLeagueSize int,
) ([]teamstat.RoundStat, error) {
	ctx, span := startUsecaseSpan(ctx, "StatsService.Merge")
	defer span.End()

	if len(standings) < minLeagueSize {
		return nil, fmt.Errorf("%w: standings has %d rows, expected at least %d", ErrValidation, len(standings), minLeagueSize)
	}

	aggregateByKey := make(map[identity.TeamKey]TeamAggregate, len(aggregates))
	for _, item := range aggregates {
		key, ok := s.resolver.Resolve(item.TeamName, identity.SourceThirdParty)
		if !ok {
			s.logger.WarnContext(ctx, "unresolved third-party team in aggregates",
				"raw_name", item.TeamName,
			)
			continue
		}
		aggregateByKey[key] = item
	}

	out := make([]teamstat.RoundStat, 0, len(standings))
	for _, row := range standings {
		key, ok := s.resolver.Resolve(row.TeamName, identity.SourceOfficialSite)
		if !ok {
			s.logger.WarnContext(ctx, "unresolved team in official standings",
				"raw_name", row.TeamName,
				"position", row.Position,
			)
			continue
		}
		teamID, ok := teamIDByKey[key]
		if !ok {
			s.logger.WarnContext(ctx, "standings team has no official id this run",
				"team_key", string(key),
			)
			continue
		}

		stat := teamstat.RoundStat{
			TeamID:           teamID,
			StandingPosition: row.Position,
			Points:           row.Points,
			RecentForm:       row.RecentForm,
		}
		if agg, ok := aggregateByKey[key]; ok {
			stat.AvgYellowCards = averageYellow(agg.TotalYellow, row.MatchesPlayed)
			stat.TotalRedCards = agg.TotalRed
			stat.AvgCorners = agg.AvgCorners
		}
		out = append(out, stat)
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].StandingPosition < out[j].StandingPosition
	})
	return out, nil
}

// averageYellow divides total cards over matches played, rounded to two
// decimals. Zero matches yields zero, not a division fault.
func averageYellow(totalYellow, matchesPlayed int) float64 {
	if matchesPlayed <= 0 {
		return 0
	}
	return math.Round(float64(totalYellow)/float64(matchesPlayed)*100) / 100
}
