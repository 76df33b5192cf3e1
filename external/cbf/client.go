package cbf

import (
	"context"
	stderrors "errors"
	"fmt"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/valyala/bytebufferpool"
	"github.com/valyala/fasthttp"

	"github.com/brasilscore/brasileirao-sync/internal/platform/logging"
	"github.com/brasilscore/brasileirao-sync/internal/platform/resilience"
	"github.com/brasilscore/brasileirao-sync/internal/usecase"
)

const (
	defaultBaseURL = "https://api.cbf.com.br/competicoes"
	defaultTimeout = 20 * time.Second
	maxBodySize    = 4 << 20

	cardYellow = "amarelo"
	cardRed    = "vermelho"
)

var errCBFTransient = crerr.New("cbf transient failure")

type ClientConfig struct {
	BaseURL        string
	CompetitionID  string
	SeasonYear     int
	Timeout        time.Duration
	MaxRetries     int
	Logger         *logging.Logger
	CircuitBreaker resilience.CircuitBreakerConfig
}

// Client talks to the official competition API. It implements
// usecase.OfficialSource.
type Client struct {
	httpClient     *fasthttp.Client
	baseURL        string
	competitionID  string
	seasonYear     int
	timeout        time.Duration
	maxRetries     int
	logger         *logging.Logger
	breaker        *resilience.CircuitBreaker
	circuitEnabled bool
	flight         resilience.SingleFlight
}

func NewClient(cfg ClientConfig) *Client {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	breakerCfg := resilience.NormalizeCircuitBreakerConfig(cfg.CircuitBreaker)

	return &Client{
		httpClient: &fasthttp.Client{
			ReadTimeout:         timeout,
			WriteTimeout:        timeout,
			MaxResponseBodySize: maxBodySize,
		},
		baseURL:        baseURL,
		competitionID:  strings.TrimSpace(cfg.CompetitionID),
		seasonYear:     cfg.SeasonYear,
		timeout:        timeout,
		maxRetries:     maxInt(cfg.MaxRetries, 0),
		logger:         logger,
		breaker:        resilience.NewCircuitBreaker(breakerCfg.FailureThreshold, breakerCfg.OpenTimeout, breakerCfg.HalfOpenMaxReq),
		circuitEnabled: breakerCfg.Enabled,
	}
}

func (c *Client) FetchRound(ctx context.Context, round int) (usecase.OfficialRound, error) {
	if round <= 0 {
		return usecase.OfficialRound{}, fmt.Errorf("round must be greater than zero")
	}

	path := c.buildPath("rodada", round)
	var envelope roundEnvelope
	if err := c.doJSON(ctx, path, &envelope); err != nil {
		return usecase.OfficialRound{}, fmt.Errorf("fetch round %d: %w", round, err)
	}

	return mapRound(round, envelope), nil
}

func (c *Client) FetchStandings(ctx context.Context) ([]usecase.StandingRow, error) {
	path := c.buildPath("classificacao", 0)
	var envelope standingsEnvelope
	if err := c.doJSON(ctx, path, &envelope); err != nil {
		return nil, fmt.Errorf("fetch standings: %w", err)
	}

	out := make([]usecase.StandingRow, 0, len(envelope.Classificacao))
	for _, row := range envelope.Classificacao {
		out = append(out, usecase.StandingRow{
			Position:      row.Posicao,
			TeamName:      strings.TrimSpace(row.Equipe),
			Points:        row.Pontos,
			RecentForm:    strings.TrimSpace(row.UltimosJogos),
			MatchesPlayed: row.Jogos,
		})
	}
	return out, nil
}

func (c *Client) buildPath(resource string, round int) string {
	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	_, _ = buf.WriteString("/")
	_, _ = buf.WriteString(c.competitionID)
	_, _ = fmt.Fprintf(buf, "/%d/", c.seasonYear)
	_, _ = buf.WriteString(resource)
	if round > 0 {
		_, _ = fmt.Fprintf(buf, "/%d", round)
	}
	return buf.String()
}

func (c *Client) doJSON(ctx context.Context, path string, target any) error {
	if c.circuitEnabled {
		if err := c.breaker.Allow(); err != nil {
			c.logger.WarnContext(ctx, "cbf circuit breaker rejected request", "state", c.breaker.State())
			return fmt.Errorf("%w: official api is temporarily unavailable", usecase.ErrDependencyUnavailable)
		}
	}

	fullURL := c.baseURL + path
	out, err, _ := c.flight.Do(fullURL, func() (any, error) {
		raw, reqErr := c.executeRequest(ctx, fullURL)
		if c.circuitEnabled {
			if reqErr != nil && isCircuitFailure(reqErr) {
				c.breaker.RecordFailure()
			} else {
				c.breaker.RecordSuccess()
			}
		}
		return raw, reqErr
	})
	if err != nil {
		return err
	}

	raw, ok := out.([]byte)
	if !ok {
		return fmt.Errorf("unexpected response payload type %T", out)
	}
	if err := sonic.Unmarshal(raw, target); err != nil {
		return fmt.Errorf("decode official payload: %w", err)
	}
	return nil
}

func (c *Client) executeRequest(ctx context.Context, fullURL string) ([]byte, error) {
	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}

		raw, err := c.doOnce(ctx, fullURL)
		if err == nil {
			return raw, nil
		}
		lastErr = err
		if !isCircuitFailure(err) {
			return nil, err
		}

		if attempt == c.maxRetries {
			break
		}
		backoff := time.Duration(attempt+1) * time.Second
		timer := time.NewTimer(backoff)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}

	c.logger.WarnContext(ctx, "cbf request failed", "url", fullURL, "error", lastErr)
	return nil, lastErr
}

func (c *Client) doOnce(ctx context.Context, fullURL string) ([]byte, error) {
	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer func() {
		fasthttp.ReleaseRequest(req)
		fasthttp.ReleaseResponse(resp)
	}()

	req.SetRequestURI(fullURL)
	req.Header.SetMethod(fasthttp.MethodGet)
	req.Header.Set("accept", "application/json")

	deadline := time.Now().Add(c.timeout)
	if ctxDeadline, ok := ctx.Deadline(); ok && ctxDeadline.Before(deadline) {
		deadline = ctxDeadline
	}

	if err := c.httpClient.DoDeadline(req, resp, deadline); err != nil {
		return nil, fmt.Errorf("%w: send request: %v", errCBFTransient, err)
	}

	status := resp.StatusCode()
	body := append([]byte(nil), resp.Body()...)
	if status >= 200 && status < 300 {
		return body, nil
	}
	if isRetryableStatus(status) {
		return nil, fmt.Errorf("%w: official api status=%d", errCBFTransient, status)
	}
	return nil, fmt.Errorf("official api status=%d body=%s", status, abbreviateBody(body))
}

// mapRound flattens the Portuguese envelope into neutral rows. A match with at
// least one published document is treated as finished; scores alone are not
// authoritative because the API pre-fills zeros before kickoff.
func mapRound(round int, envelope roundEnvelope) usecase.OfficialRound {
	out := usecase.OfficialRound{Round: round}
	for _, match := range envelope.Partidas {
		item := usecase.OfficialFixture{
			ID:       match.ID,
			Round:    round,
			Date:     strings.TrimSpace(match.DataRealizacao),
			Time:     strings.TrimSpace(match.HoraRealizacao),
			Venue:    strings.TrimSpace(match.Estadio.Nome),
			HomeID:   match.TimeCasa.ID,
			HomeName: strings.TrimSpace(match.TimeCasa.Nome),
			AwayID:   match.TimeVisitante.ID,
			AwayName: strings.TrimSpace(match.TimeVisitante.Nome),
			Finished: len(match.Documentos) > 0,
		}
		if item.Finished {
			item.HomeGoals = match.PlacarCasa
			item.AwayGoals = match.PlacarVisitante
		}
		out.Fixtures = append(out.Fixtures, item)

		for _, card := range match.Cartoes {
			event := usecase.CardEvent{
				Round:      round,
				TeamName:   strings.TrimSpace(card.Equipe),
				PlayerName: strings.TrimSpace(card.Atleta),
			}
			switch strings.ToLower(strings.TrimSpace(card.Tipo)) {
			case cardYellow:
				event.Yellow = 1
			case cardRed:
				event.Red = 1
			default:
				continue
			}
			out.Cards = append(out.Cards, event)
		}
	}
	return out
}

func isCircuitFailure(err error) bool {
	return stderrors.Is(err, errCBFTransient)
}

func isRetryableStatus(status int) bool {
	return status == fasthttp.StatusTooManyRequests || status >= 500
}

func abbreviateBody(body []byte) string {
	const limit = 256
	text := strings.TrimSpace(string(body))
	if len(text) > limit {
		return text[:limit] + "..."
	}
	return text
}

func maxInt(left, right int) int {
	if left > right {
		return left
	}
	return right
}
