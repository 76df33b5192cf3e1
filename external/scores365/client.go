package scores365

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"golang.org/x/time/rate"

	"github.com/brasilscore/brasileirao-sync/internal/domain/identity"
	"github.com/brasilscore/brasileirao-sync/internal/domain/lineup"
	"github.com/brasilscore/brasileirao-sync/internal/platform/logging"
	"github.com/brasilscore/brasileirao-sync/internal/usecase"
)

const (
	defaultBaseURL = "https://webws.365scores.com/web"
	defaultTimeout = 15 * time.Second
	maxBodySize    = 6 << 20

	statAvgCorners  = "Corners Per Game"
	statTotalYellow = "Yellow Cards"
	statTotalRed    = "Red Cards"
)

type ClientConfig struct {
	HTTPClient    *http.Client
	BaseURL       string
	CompetitionID string
	SeasonYear    int
	RatePerSecond float64
	RateBurst     int
	RetryAfter429 time.Duration
	Logger        *logging.Logger
}

// Client talks to the third-party scores site. It implements
// usecase.ThirdPartySource. Every request goes through a shared rate limiter;
// a 429 is retried exactly once after a fixed delay, then surfaces as an
// error so the orchestrator can skip the fixture.
type Client struct {
	httpClient    *http.Client
	baseURL       string
	competitionID string
	seasonYear    int
	limiter       *rate.Limiter
	retryAfter429 time.Duration
	logger        *logging.Logger
}

func NewClient(cfg ClientConfig) *Client {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{
			Timeout:   defaultTimeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		}
	}

	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	perSecond := cfg.RatePerSecond
	if perSecond <= 0 {
		perSecond = 2
	}
	burst := cfg.RateBurst
	if burst < 1 {
		burst = 1
	}
	retryAfter := cfg.RetryAfter429
	if retryAfter <= 0 {
		retryAfter = 5 * time.Second
	}

	return &Client{
		httpClient:    httpClient,
		baseURL:       baseURL,
		competitionID: strings.TrimSpace(cfg.CompetitionID),
		seasonYear:    cfg.SeasonYear,
		limiter:       rate.NewLimiter(rate.Limit(perSecond), burst),
		retryAfter429: retryAfter,
		logger:        logger,
	}
}

func (c *Client) FetchTeamAggregates(ctx context.Context) ([]usecase.TeamAggregate, error) {
	query := url.Values{}
	query.Set("competitions", c.competitionID)
	query.Set("seasonNum", fmt.Sprintf("%d", c.seasonYear))

	var envelope competitionEnvelope
	if err := c.doJSON(ctx, "/stats/competitors/", query, &envelope); err != nil {
		return nil, fmt.Errorf("fetch team aggregates: %w", err)
	}

	out := make([]usecase.TeamAggregate, 0, len(envelope.Competitors))
	for _, item := range envelope.Competitors {
		agg := usecase.TeamAggregate{
			TeamName:  strings.TrimSpace(item.Name),
			ShortName: strings.TrimSpace(item.ShortName),
			CrestURL:  strings.TrimSpace(item.ImageURL),
		}
		for _, stat := range item.Statistics {
			switch stat.Name {
			case statAvgCorners:
				agg.AvgCorners = stat.Value
			case statTotalYellow:
				agg.TotalYellow = int(stat.Value)
			case statTotalRed:
				agg.TotalRed = int(stat.Value)
			}
		}
		out = append(out, agg)
	}
	return out, nil
}

func (c *Client) FetchFixtureLineup(ctx context.Context, fixtureID int64) (usecase.FixtureLineup, error) {
	query := url.Values{}
	query.Set("gameId", fmt.Sprintf("%d", fixtureID))

	var envelope lineupEnvelope
	if err := c.doJSON(ctx, "/game/lineups/", query, &envelope); err != nil {
		return usecase.FixtureLineup{}, fmt.Errorf("fetch lineup game_id=%d: %w", fixtureID, err)
	}

	out := usecase.FixtureLineup{
		FixtureID:     fixtureID,
		HomeFormation: strings.TrimSpace(envelope.HomeFormation),
		AwayFormation: strings.TrimSpace(envelope.AwayFormation),
	}
	for _, member := range envelope.Members {
		sighting := usecase.LineupSighting{
			TeamName:    strings.TrimSpace(member.TeamName),
			Role:        lineup.RoleSubstitute,
			PlayerName:  strings.TrimSpace(member.Name),
			ShirtNumber: strings.TrimSpace(member.JerseyNum),
			Position:    strings.TrimSpace(member.Position),
		}
		if member.Starter {
			sighting.Role = lineup.RoleStarter
			if member.FieldCoords != nil {
				x, y := member.FieldCoords.X, member.FieldCoords.Y
				sighting.PosX = &x
				sighting.PosY = &y
			}
		}
		out.Sightings = append(out.Sightings, sighting)
	}
	for _, missing := range envelope.Missing {
		out.Sightings = append(out.Sightings, usecase.LineupSighting{
			TeamName:   strings.TrimSpace(missing.TeamName),
			Role:       lineup.RoleUnavailable,
			PlayerName: strings.TrimSpace(missing.Name),
			Position:   strings.TrimSpace(missing.Position),
			Reason:     strings.TrimSpace(missing.Reason),
		})
	}
	return out, nil
}

func (c *Client) FetchPhotoIndex(ctx context.Context) ([]identity.PhotoEntry, error) {
	query := url.Values{}
	query.Set("competitions", c.competitionID)

	var envelope photoIndexEnvelope
	if err := c.doJSON(ctx, "/athletes/images/", query, &envelope); err != nil {
		return nil, fmt.Errorf("fetch photo index: %w", err)
	}

	out := make([]identity.PhotoEntry, 0, len(envelope.Athletes))
	for _, item := range envelope.Athletes {
		name := strings.TrimSpace(item.Name)
		photoURL := strings.TrimSpace(item.ImageURL)
		if name == "" || photoURL == "" {
			continue
		}
		out = append(out, identity.PhotoEntry{Name: name, URL: photoURL})
	}
	return out, nil
}

func (c *Client) doJSON(ctx context.Context, path string, query url.Values, target any) error {
	fullURL := c.baseURL + path
	if encoded := query.Encode(); encoded != "" {
		fullURL += "?" + encoded
	}

	raw, status, err := c.doOnce(ctx, fullURL)
	if err == nil && status == http.StatusTooManyRequests {
		c.logger.WarnContext(ctx, "scores365 rate limited, retrying once",
			"url", fullURL,
			"delay", c.retryAfter429.String(),
		)
		timer := time.NewTimer(c.retryAfter429)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
		raw, status, err = c.doOnce(ctx, fullURL)
	}
	if err != nil {
		return err
	}
	if status < 200 || status >= 300 {
		return fmt.Errorf("scores site status=%d", status)
	}
	if err := sonic.Unmarshal(raw, target); err != nil {
		return fmt.Errorf("decode scores payload: %w", err)
	}
	return nil
}

func (c *Client) doOnce(ctx context.Context, fullURL string) ([]byte, int, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, 0, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return nil, 0, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("send request: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, 0, fmt.Errorf("read response body: %w", err)
	}
	return raw, resp.StatusCode, nil
}
