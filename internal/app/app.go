package app

import (
	"fmt"
	"net/http"

	"github.com/jmoiron/sqlx"
	"github.com/uptrace/opentelemetry-go-extra/otelsql"
	"github.com/uptrace/opentelemetry-go-extra/otelsqlx"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel/attribute"

	"github.com/brasilscore/brasileirao-sync/external/cbf"
	"github.com/brasilscore/brasileirao-sync/external/scores365"
	"github.com/brasilscore/brasileirao-sync/internal/config"
	"github.com/brasilscore/brasileirao-sync/internal/domain/identity"
	"github.com/brasilscore/brasileirao-sync/internal/infrastructure/repository/postgres"
	"github.com/brasilscore/brasileirao-sync/internal/platform/logging"
	"github.com/brasilscore/brasileirao-sync/internal/platform/resilience"
	"github.com/brasilscore/brasileirao-sync/internal/usecase"
)

// ConnectDB opens the traced database handle used by every repository.
func ConnectDB(cfg config.Config) (*sqlx.DB, error) {
	dbURL := normalizeDBURL(cfg.DBURL, cfg.DBDisablePreparedBinary)

	opts := []otelsql.Option{
		otelsql.WithAttributes(attribute.String("db.system", "postgresql")),
		otelsql.WithQueryFormatter(formatDBQueryForTrace),
	}
	if name := dbNameFromURL(cfg.DBURL); name != "" {
		opts = append(opts, otelsql.WithDBName(name))
	}

	db, err := otelsqlx.Connect("postgres", dbURL, opts...)
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}
	return db, nil
}

// NewSyncService wires the full run pipeline: sources, resolver, stores and
// the orchestrator. The returned cleanup closes the database handle.
func NewSyncService(cfg config.Config, logger *logging.Logger) (*usecase.SyncService, func() error, error) {
	if logger == nil {
		logger = logging.Default()
	}

	db, err := ConnectDB(cfg)
	if err != nil {
		return nil, nil, err
	}

	resolver := identity.NewResolver(identity.DefaultAliases())

	official := cbf.NewClient(cbf.ClientConfig{
		BaseURL:       cfg.CBFBaseURL,
		CompetitionID: cfg.CompetitionID,
		SeasonYear:    cfg.SeasonYear,
		Timeout:       cfg.CBFTimeout,
		MaxRetries:    cfg.CBFMaxRetries,
		Logger:        logger,
		CircuitBreaker: resilience.CircuitBreakerConfig{
			Enabled:          cfg.CBFCircuitEnabled,
			FailureThreshold: cfg.CBFCircuitFailureCount,
			OpenTimeout:      cfg.CBFCircuitOpenTimeout,
			HalfOpenMaxReq:   cfg.CBFCircuitHalfOpenMax,
		},
	})

	thirdParty := scores365.NewClient(scores365.ClientConfig{
		HTTPClient: &http.Client{
			Timeout:   cfg.ScoresTimeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		BaseURL:       cfg.ScoresBaseURL,
		CompetitionID: cfg.CompetitionID,
		SeasonYear:    cfg.SeasonYear,
		RatePerSecond: cfg.ScoresRatePerSecond,
		RateBurst:     cfg.ScoresRateBurst,
		RetryAfter429: cfg.Scores429RetryDelay,
		Logger:        logger,
	})

	store := postgres.NewRunStore(db)
	checkpointRepo := postgres.NewCheckpointRepository(db)
	teamRepo := postgres.NewTeamRepository(db)
	fixtureRepo := postgres.NewFixtureRepository(db)

	stats := usecase.NewStatsService(resolver, logger)
	ingestion := usecase.NewIngestionService(store, checkpointRepo)

	sync := usecase.NewSyncService(
		official,
		thirdParty,
		resolver,
		stats,
		ingestion,
		teamRepo,
		fixtureRepo,
		usecase.SyncConfig{
			TotalRounds:            cfg.TotalRounds,
			MinLeagueSize:          cfg.MinLeagueSize,
			MaxFailedRoundFraction: cfg.MaxFailedRoundFraction,
			LineupWorkers:          cfg.LineupWorkers,
		},
		logger,
	)

	cleanup := func() error {
		return db.Close()
	}
	return sync, cleanup, nil
}
