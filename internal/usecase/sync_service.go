package usecase

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"sync/atomic"

	"github.com/panjf2000/ants/v2"
	"github.com/sourcegraph/conc/pool"

	"github.com/brasilscore/brasileirao-sync/internal/domain/fixture"
	"github.com/brasilscore/brasileirao-sync/internal/domain/identity"
	"github.com/brasilscore/brasileirao-sync/internal/domain/team"
	"github.com/brasilscore/brasileirao-sync/internal/platform/logging"
)

// SyncConfig carries the season constants and run thresholds.
type SyncConfig struct {
	TotalRounds            int
	MinLeagueSize          int
	MaxFailedRoundFraction float64
	LineupWorkers          int
}

// RunReport summarizes a completed run.
type RunReport struct {
	TargetRound        int
	RoundState         RoundState
	Counts             RunCounts
	SkippedFixtures    int
	CheckpointAdvanced bool
}

// SyncService sequences one full reconciliation run: fetch the three sources,
// pick the target round, consolidate, merge and commit. It owns the mutable
// working set for the duration of the run and hands everything to the
// ingestion service as one batch.
type SyncService struct {
	official    OfficialSource
	thirdParty  ThirdPartySource
	resolver    *identity.Resolver
	stats       *StatsService
	ingestion   *IngestionService
	teamRepo    team.Repository
	fixtureRepo fixture.Repository
	cfg         SyncConfig
	logger      *logging.Logger
}

func NewSyncService(
	official OfficialSource,
	thirdParty ThirdPartySource,
	resolver *identity.Resolver,
	stats *StatsService,
	ingestion *IngestionService,
	teamRepo team.Repository,
	fixtureRepo fixture.Repository,
	cfg SyncConfig,
	logger *logging.Logger,
) *SyncService {
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.TotalRounds <= 0 {
		cfg.TotalRounds = 38
	}
	if cfg.MinLeagueSize <= 0 {
		cfg.MinLeagueSize = 20
	}
	if cfg.MaxFailedRoundFraction <= 0 {
		cfg.MaxFailedRoundFraction = 0.2
	}
	if cfg.LineupWorkers <= 0 {
		cfg.LineupWorkers = 4
	}
	return &SyncService{
		official:    official,
		thirdParty:  thirdParty,
		resolver:    resolver,
		stats:       stats,
		ingestion:   ingestion,
		teamRepo:    teamRepo,
		fixtureRepo: fixtureRepo,
		cfg:         cfg,
		logger:      logger,
	}
}

type fetchedSources struct {
	rounds       []OfficialRound
	failedRounds int
	standings    []StandingRow
	aggregates   []TeamAggregate
	photoIndex   []identity.PhotoEntry
}

func (s *SyncService) Run(ctx context.Context) (RunReport, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SyncService.Run")
	defer span.End()

	if s.official == nil || s.thirdParty == nil || s.ingestion == nil {
		return RunReport{}, fmt.Errorf("%w: sync service is not fully configured", ErrDependencyUnavailable)
	}

	lastProcessed, err := s.ingestion.LastProcessedRound(ctx)
	if err != nil {
		return RunReport{}, err
	}

	fetched, err := s.fetchSources(ctx)
	if err != nil {
		return RunReport{}, err
	}

	if maxFailed := int(float64(s.cfg.TotalRounds) * s.cfg.MaxFailedRoundFraction); fetched.failedRounds > maxFailed {
		return RunReport{}, fmt.Errorf("%w: official api failed for %d of %d rounds",
			ErrTransientFetch, fetched.failedRounds, s.cfg.TotalRounds)
	}

	teams, teamIDByKey := s.buildTeams(ctx, fetched)
	if len(teams) < s.cfg.MinLeagueSize {
		return RunReport{}, fmt.Errorf("%w: resolved %d teams, expected at least %d",
			ErrValidation, len(teams), s.cfg.MinLeagueSize)
	}

	fixtures, finished := s.buildFixtures(ctx, fetched)
	finished = s.mergePersistedFinished(ctx, fixtures, finished)

	progress := NewRoundProgress(fixtures, finished, s.cfg.TotalRounds)
	targetRound := progress.TargetRound(lastProcessed)
	s.logger.InfoContext(ctx, "round progression computed",
		"current_round", progress.CurrentRound(),
		"target_round", targetRound,
		"target_state", string(progress.State(targetRound)),
		"checkpoint", lastProcessed,
	)

	lineups, skipped := s.fetchRoundLineups(ctx, fixtures, targetRound)

	consolidator := NewRosterConsolidator(fetched.photoIndex)
	fixtureByID := make(map[int64]int, len(fixtures))
	for idx, item := range fixtures {
		fixtureByID[item.ID] = idx
	}
	for _, payload := range lineups {
		if idx, ok := fixtureByID[payload.FixtureID]; ok {
			fixtures[idx].HomeFormation = payload.HomeFormation
			fixtures[idx].AwayFormation = payload.AwayFormation
		}
		for _, sighting := range payload.Sightings {
			teamID, ok := s.resolveTeamID(ctx, sighting.TeamName, identity.SourceThirdParty, teamIDByKey)
			if !ok {
				continue
			}
			if err := consolidator.AddSighting(payload.FixtureID, teamID, sighting); err != nil {
				s.logger.WarnContext(ctx, "dropping malformed lineup sighting",
					"fixture_id", payload.FixtureID,
					"player_name", sighting.PlayerName,
					"error", err,
				)
			}
		}
	}

	cards := NewCardConsolidator()
	for _, round := range fetched.rounds {
		for _, event := range round.Cards {
			teamID, ok := s.resolveTeamID(ctx, event.TeamName, identity.SourceOfficialAPI, teamIDByKey)
			if !ok {
				continue
			}
			if err := cards.AddEvent(teamID, event); err != nil {
				s.logger.WarnContext(ctx, "dropping malformed card event",
					"player_name", event.PlayerName,
					"error", err,
				)
			}
		}
	}

	teamStats, err := s.stats.Merge(ctx, fetched.standings, fetched.aggregates, teamIDByKey, s.cfg.MinLeagueSize)
	if err != nil {
		return RunReport{}, err
	}

	batch := RunBatch{
		Teams:       teams,
		Fixtures:    fixtures,
		Finished:    finished,
		TeamStats:   teamStats,
		Roster:      consolidator.Entries(),
		Lineups:     consolidator.Lineups(),
		PlayerCards: cards.Ledgers(),
	}
	// The checkpoint moves only when this run actually persisted lineup data
	// for the target round; a run that skipped every fixture recomputes the
	// same target next time.
	if len(batch.Lineups) > 0 {
		batch.AdvanceCheckpointTo = targetRound
	}

	counts, err := s.ingestion.CommitRun(ctx, batch)
	if err != nil {
		return RunReport{}, err
	}

	report := RunReport{
		TargetRound:        targetRound,
		RoundState:         progress.State(targetRound),
		Counts:             counts,
		SkippedFixtures:    skipped,
		CheckpointAdvanced: batch.AdvanceCheckpointTo > 0 && batch.AdvanceCheckpointTo > lastProcessed,
	}
	s.logger.InfoContext(ctx, "sync run committed",
		"target_round", report.TargetRound,
		"teams", counts.Teams,
		"fixtures", counts.Fixtures,
		"roster_entries", counts.Roster,
		"lineup_entries", counts.Lineups,
		"skipped_fixtures", skipped,
		"checkpoint_advanced", report.CheckpointAdvanced,
	)
	return report, nil
}

// fetchSources pulls the three upstreams concurrently. All of them must
// complete before round progression can be computed, because completeness
// depends on the full fixture set.
func (s *SyncService) fetchSources(ctx context.Context) (fetchedSources, error) {
	var fetched fetchedSources
	var standingsErr, aggregatesErr, photoErr error

	group := pool.New().WithMaxGoroutines(3)
	group.Go(func() {
		rounds := make([]OfficialRound, 0, s.cfg.TotalRounds)
		failed := 0
		for round := 1; round <= s.cfg.TotalRounds; round++ {
			payload, err := s.official.FetchRound(ctx, round)
			if err != nil {
				failed++
				s.logger.WarnContext(ctx, "official round fetch failed",
					"round", round,
					"error", err,
				)
				continue
			}
			rounds = append(rounds, payload)
		}
		fetched.rounds = rounds
		fetched.failedRounds = failed
	})
	group.Go(func() {
		fetched.standings, standingsErr = s.official.FetchStandings(ctx)
	})
	group.Go(func() {
		fetched.aggregates, aggregatesErr = s.thirdParty.FetchTeamAggregates(ctx)
		if aggregatesErr != nil {
			return
		}
		fetched.photoIndex, photoErr = s.thirdParty.FetchPhotoIndex(ctx)
	})
	group.Wait()

	if standingsErr != nil {
		return fetchedSources{}, fmt.Errorf("%w: fetch standings: %v", ErrTransientFetch, standingsErr)
	}
	if aggregatesErr != nil {
		s.logger.WarnContext(ctx, "third-party aggregates unavailable, continuing with zero aggregates", "error", aggregatesErr)
		fetched.aggregates = nil
	}
	if photoErr != nil {
		s.logger.WarnContext(ctx, "photo index unavailable, roster photos will be empty", "error", photoErr)
		fetched.photoIndex = nil
	}
	return fetched, nil
}

// buildTeams derives the Team batch from official fixture participants and
// enriches it with third-party identity fields when those resolve.
func (s *SyncService) buildTeams(ctx context.Context, fetched fetchedSources) ([]team.Team, map[identity.TeamKey]int64) {
	byID := make(map[int64]team.Team, 32)
	idByKey := make(map[identity.TeamKey]int64, 32)

	record := func(id int64, rawName string) {
		if id <= 0 {
			return
		}
		current, ok := byID[id]
		if !ok {
			current = team.Team{ID: id, CanonicalName: rawName}
		}
		key, resolved := s.resolver.Resolve(rawName, identity.SourceOfficialAPI)
		if resolved {
			current.CanonicalName = string(key)
			idByKey[key] = id
		} else if rawName != "" {
			s.logger.WarnContext(ctx, "unresolved official team name",
				"raw_name", rawName,
				"team_id", id,
			)
		}
		byID[id] = current
	}

	for _, round := range fetched.rounds {
		for _, item := range round.Fixtures {
			record(item.HomeID, item.HomeName)
			record(item.AwayID, item.AwayName)
		}
	}

	for _, agg := range fetched.aggregates {
		key, ok := s.resolver.Resolve(agg.TeamName, identity.SourceThirdParty)
		if !ok {
			continue
		}
		id, ok := idByKey[key]
		if !ok {
			continue
		}
		current := byID[id]
		if agg.ShortName != "" {
			current.ShortName = agg.ShortName
		}
		if agg.CrestURL != "" {
			current.CrestURL = agg.CrestURL
		}
		byID[id] = current
	}

	// When the third-party side is degraded this run, previously persisted
	// identity fields beat empty ones.
	if s.teamRepo != nil {
		persisted, err := s.teamRepo.List(ctx)
		if err != nil {
			s.logger.WarnContext(ctx, "persisted teams unavailable for enrichment fallback", "error", err)
		} else {
			for _, prev := range persisted {
				current, ok := byID[prev.ID]
				if !ok {
					continue
				}
				if current.ShortName == "" {
					current.ShortName = prev.ShortName
				}
				if current.CrestURL == "" {
					current.CrestURL = prev.CrestURL
				}
				byID[prev.ID] = current
			}
		}
	}

	out := make([]team.Team, 0, len(byID))
	for _, item := range byID {
		if item.ShortName == "" {
			item.ShortName = item.CanonicalName
		}
		out = append(out, item)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, idByKey
}

func (s *SyncService) buildFixtures(ctx context.Context, fetched fetchedSources) ([]fixture.Fixture, []fixture.Finished) {
	fixtures := make([]fixture.Fixture, 0, s.cfg.TotalRounds*10)
	finished := make([]fixture.Finished, 0, len(fixtures))

	for _, round := range fetched.rounds {
		for _, item := range round.Fixtures {
			if item.ID <= 0 || item.HomeID <= 0 || item.AwayID <= 0 {
				s.logger.WarnContext(ctx, "dropping official fixture with missing ids",
					"fixture_id", item.ID,
					"round", item.Round,
				)
				continue
			}
			fixtures = append(fixtures, fixture.Fixture{
				ID:          item.ID,
				Round:       item.Round,
				KickoffDate: item.Date,
				KickoffTime: item.Time,
				Venue:       item.Venue,
				HomeTeamID:  item.HomeID,
				AwayTeamID:  item.AwayID,
				HomeGoals:   item.HomeGoals,
				AwayGoals:   item.AwayGoals,
			})
			if item.Finished {
				finished = append(finished, fixture.Finished{FixtureID: item.ID, Round: item.Round})
			}
		}
	}

	sort.SliceStable(fixtures, func(i, j int) bool {
		if fixtures[i].Round != fixtures[j].Round {
			return fixtures[i].Round < fixtures[j].Round
		}
		return fixtures[i].ID < fixtures[j].ID
	})
	sort.SliceStable(finished, func(i, j int) bool { return finished[i].FixtureID < finished[j].FixtureID })
	return fixtures, finished
}

// mergePersistedFinished unions previously persisted finished fixtures into
// the freshly fetched set. Finished is sticky: a fixture recorded as finished
// by an earlier run stays finished even when the source momentarily stops
// reporting its match documents.
func (s *SyncService) mergePersistedFinished(ctx context.Context, fixtures []fixture.Fixture, finished []fixture.Finished) []fixture.Finished {
	if s.fixtureRepo == nil {
		return finished
	}
	persisted, err := s.fixtureRepo.ListFinished(ctx)
	if err != nil {
		s.logger.WarnContext(ctx, "persisted finished fixtures unavailable", "error", err)
		return finished
	}

	known := make(map[int64]struct{}, len(fixtures))
	for _, item := range fixtures {
		known[item.ID] = struct{}{}
	}
	seen := make(map[int64]struct{}, len(finished))
	for _, item := range finished {
		seen[item.FixtureID] = struct{}{}
	}
	for _, item := range persisted {
		if _, ok := known[item.FixtureID]; !ok {
			continue
		}
		if _, ok := seen[item.FixtureID]; ok {
			continue
		}
		finished = append(finished, item)
		seen[item.FixtureID] = struct{}{}
	}
	sort.SliceStable(finished, func(i, j int) bool { return finished[i].FixtureID < finished[j].FixtureID })
	return finished
}

// fetchRoundLineups pulls lineup payloads for every fixture of the target
// round through a bounded worker pool. A failed fixture is skipped, not
// fatal; it simply carries no lineup rows and is retried next run.
func (s *SyncService) fetchRoundLineups(ctx context.Context, fixtures []fixture.Fixture, targetRound int) ([]FixtureLineup, int) {
	targets := make([]int64, 0, 10)
	for _, item := range fixtures {
		if item.Round == targetRound {
			targets = append(targets, item.ID)
		}
	}
	if len(targets) == 0 {
		return nil, 0
	}

	results := make(chan FixtureLineup, len(targets))
	var skippedCount atomic.Int32

	workers := s.cfg.LineupWorkers
	if workers > len(targets) {
		workers = len(targets)
	}
	workerPool, err := ants.NewPool(workers)
	if err != nil {
		s.logger.WarnContext(ctx, "lineup worker pool unavailable, skipping round lineups", "error", err)
		return nil, len(targets)
	}
	defer workerPool.Release()

	var wg sync.WaitGroup
	for _, fixtureID := range targets {
		fixtureID := fixtureID
		wg.Add(1)
		if err := workerPool.Submit(func() {
			defer wg.Done()

			payload, err := s.thirdParty.FetchFixtureLineup(ctx, fixtureID)
			if err != nil {
				skippedCount.Add(1)
				s.logger.WarnContext(ctx, "fixture lineup fetch failed, skipping fixture",
					"fixture_id", fixtureID,
					"error", err,
				)
				return
			}
			payload.FixtureID = fixtureID
			results <- payload
		}); err != nil {
			wg.Done()
			skippedCount.Add(1)
		}
	}

	wg.Wait()
	close(results)

	out := make([]FixtureLineup, 0, len(targets))
	for payload := range results {
		out = append(out, payload)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].FixtureID < out[j].FixtureID })
	return out, int(skippedCount.Load())
}

func (s *SyncService) resolveTeamID(
	ctx context.Context,
	rawName string,
	source identity.Source,
	idByKey map[identity.TeamKey]int64,
) (int64, bool) {
	key, ok := s.resolver.Resolve(rawName, source)
	if !ok {
		s.logger.WarnContext(ctx, "skipping record with unresolved team name",
			"raw_name", rawName,
			"source", source.String(),
		)
		return 0, false
	}
	id, ok := idByKey[key]
	if !ok {
		s.logger.WarnContext(ctx, "resolved team key has no official id this run",
			"team_key", string(key),
		)
		return 0, false
	}
	return id, true
}
