package cbf

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brasilscore/brasileirao-sync/internal/platform/resilience"
	"github.com/brasilscore/brasileirao-sync/internal/usecase"
)

const roundPayload = `{
	"rodada": 7,
	"partidas": [
		{
			"id": 101,
			"data_realizacao": "2026-04-04",
			"hora_realizacao": "16:00",
			"estadio": {"nome": "Maracanã"},
			"time_casa": {"id": 10, "nome": "Flamengo"},
			"time_visitante": {"id": 20, "nome": "Palmeiras"},
			"placar_casa": 2,
			"placar_visitante": 1,
			"documentos": [{"nome": "Súmula", "url": "https://cbf.example/sumula.pdf"}],
			"cartoes": [
				{"atleta": "Gerson", "equipe": "Flamengo", "tipo": "Amarelo"},
				{"atleta": "Murilo", "equipe": "Palmeiras", "tipo": "vermelho"},
				{"atleta": "Pedro", "equipe": "Flamengo", "tipo": "azul"}
			]
		},
		{
			"id": 102,
			"data_realizacao": "2026-04-05",
			"hora_realizacao": "18:30",
			"estadio": {"nome": "Arena MRV"},
			"time_casa": {"id": 30, "nome": "Atlético Mineiro Saf"},
			"time_visitante": {"id": 40, "nome": "Cruzeiro"},
			"placar_casa": 0,
			"placar_visitante": 0,
			"documentos": []
		}
	]
}`

func newTestClient(baseURL string, maxRetries int) *Client {
	return NewClient(ClientConfig{
		BaseURL:       baseURL,
		CompetitionID: "424",
		SeasonYear:    2026,
		MaxRetries:    maxRetries,
	})
}

func TestFetchRound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/424/2026/rodada/7", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(roundPayload))
	}))
	defer server.Close()

	client := newTestClient(server.URL, 0)
	round, err := client.FetchRound(context.Background(), 7)
	require.NoError(t, err)

	require.Len(t, round.Fixtures, 2)

	finished := round.Fixtures[0]
	assert.True(t, finished.Finished)
	require.NotNil(t, finished.HomeGoals)
	require.NotNil(t, finished.AwayGoals)
	assert.Equal(t, 2, *finished.HomeGoals)
	assert.Equal(t, 1, *finished.AwayGoals)
	assert.Equal(t, "Maracanã", finished.Venue)
	assert.Equal(t, int64(10), finished.HomeID)
	assert.Equal(t, "Flamengo", finished.HomeName)

	// No published documents means not finished, and the pre-filled 0-0
	// score must not leak through.
	scheduled := round.Fixtures[1]
	assert.False(t, scheduled.Finished)
	assert.Nil(t, scheduled.HomeGoals)
	assert.Nil(t, scheduled.AwayGoals)

	// Card types map case-insensitively; unknown types are dropped.
	require.Len(t, round.Cards, 2)
	assert.Equal(t, usecase.CardEvent{Round: 7, TeamName: "Flamengo", PlayerName: "Gerson", Yellow: 1}, round.Cards[0])
	assert.Equal(t, usecase.CardEvent{Round: 7, TeamName: "Palmeiras", PlayerName: "Murilo", Red: 1}, round.Cards[1])
}

func TestFetchRound_RejectsNonPositiveRound(t *testing.T) {
	client := newTestClient("http://127.0.0.1:0", 0)
	_, err := client.FetchRound(context.Background(), 0)
	require.Error(t, err)
}

func TestFetchStandings(t *testing.T) {
	payload := `{
		"classificacao": [
			{"posicao": 1, "equipe": "Flamengo", "pontos": 45, "jogos": 19, "ultimos_jogos": "VVEDV"},
			{"posicao": 2, "equipe": " Palmeiras ", "pontos": 43, "jogos": 19, "ultimos_jogos": "VVVDE"}
		]
	}`
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/424/2026/classificacao", r.URL.Path)
		_, _ = w.Write([]byte(payload))
	}))
	defer server.Close()

	client := newTestClient(server.URL, 0)
	rows, err := client.FetchStandings(context.Background())
	require.NoError(t, err)

	require.Len(t, rows, 2)
	assert.Equal(t, usecase.StandingRow{Position: 1, TeamName: "Flamengo", Points: 45, RecentForm: "VVEDV", MatchesPlayed: 19}, rows[0])
	assert.Equal(t, "Palmeiras", rows[1].TeamName)
}

func TestFetchStandings_NonRetryableStatusFailsFast(t *testing.T) {
	var requests int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	client := newTestClient(server.URL, 3)
	_, err := client.FetchStandings(context.Background())
	require.Error(t, err)
	assert.Equal(t, 1, requests, "a 404 must not be retried")
}

func TestDoJSON_CircuitOpensAfterThreshold(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	client := NewClient(ClientConfig{
		BaseURL:       server.URL,
		CompetitionID: "424",
		SeasonYear:    2026,
		CircuitBreaker: resilience.CircuitBreakerConfig{
			Enabled:          true,
			FailureThreshold: 1,
		},
	})

	_, err := client.FetchStandings(context.Background())
	require.Error(t, err)

	_, err = client.FetchRound(context.Background(), 1)
	require.Error(t, err)
	assert.True(t, errors.Is(err, usecase.ErrDependencyUnavailable), "err = %v", err)
}

func TestIsRetryableStatus(t *testing.T) {
	assert.True(t, isRetryableStatus(http.StatusTooManyRequests))
	assert.True(t, isRetryableStatus(http.StatusInternalServerError))
	assert.True(t, isRetryableStatus(http.StatusBadGateway))
	assert.False(t, isRetryableStatus(http.StatusNotFound))
	assert.False(t, isRetryableStatus(http.StatusUnauthorized))
	assert.False(t, isRetryableStatus(http.StatusOK))
}

func TestBuildPath(t *testing.T) {
	client := newTestClient("https://api.example", 0)

	assert.Equal(t, "/424/2026/rodada/7", client.buildPath("rodada", 7))
	assert.Equal(t, "/424/2026/classificacao", client.buildPath("classificacao", 0))
}
