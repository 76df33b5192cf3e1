package scores365

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brasilscore/brasileirao-sync/internal/domain/lineup"
)

func newTestClient(baseURL string) *Client {
	return NewClient(ClientConfig{
		BaseURL:       baseURL,
		CompetitionID: "113",
		SeasonYear:    2026,
		RatePerSecond: 500,
		RateBurst:     10,
		RetryAfter429: 10 * time.Millisecond,
	})
}

func TestFetchTeamAggregates(t *testing.T) {
	payload := `{
		"competitors": [
			{
				"name": "Flamengo",
				"symbolicName": "FLA",
				"imageUrl": "https://img.example/fla.png",
				"statistics": [
					{"name": "Corners Per Game", "value": 6.1},
					{"name": "Yellow Cards", "value": 37},
					{"name": "Red Cards", "value": 3},
					{"name": "Goals Per Game", "value": 2.2}
				]
			},
			{"name": "Mirassol", "symbolicName": "MIR", "imageUrl": ""}
		]
	}`
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/stats/competitors/", r.URL.Path)
		assert.Equal(t, "113", r.URL.Query().Get("competitions"))
		assert.Equal(t, "2026", r.URL.Query().Get("seasonNum"))
		_, _ = w.Write([]byte(payload))
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	aggregates, err := client.FetchTeamAggregates(context.Background())
	require.NoError(t, err)

	require.Len(t, aggregates, 2)
	flamengo := aggregates[0]
	assert.Equal(t, "Flamengo", flamengo.TeamName)
	assert.Equal(t, "FLA", flamengo.ShortName)
	assert.Equal(t, "https://img.example/fla.png", flamengo.CrestURL)
	assert.Equal(t, 6.1, flamengo.AvgCorners)
	assert.Equal(t, 37, flamengo.TotalYellow)
	assert.Equal(t, 3, flamengo.TotalRed)

	// Unlisted statistics stay zero.
	assert.Zero(t, aggregates[1].TotalYellow)
	assert.Zero(t, aggregates[1].AvgCorners)
}

func TestFetchFixtureLineup(t *testing.T) {
	payload := `{
		"homeFormation": "4-2-3-1",
		"awayFormation": "4-4-2",
		"members": [
			{
				"competitorName": "Flamengo",
				"name": "Arrascaeta",
				"jerseyNum": "14",
				"position": "M",
				"isStarter": true,
				"fieldPosition": {"x": 0.6, "y": 0.8}
			},
			{"competitorName": "Flamengo", "name": "Pedro", "jerseyNum": "9", "position": "F", "isStarter": false}
		],
		"missingPlayers": [
			{"competitorName": "Palmeiras", "name": "Weverton", "position": "G", "reason": "Injured"}
		]
	}`
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/game/lineups/", r.URL.Path)
		assert.Equal(t, "201", r.URL.Query().Get("gameId"))
		_, _ = w.Write([]byte(payload))
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	payload2, err := client.FetchFixtureLineup(context.Background(), 201)
	require.NoError(t, err)

	assert.Equal(t, int64(201), payload2.FixtureID)
	assert.Equal(t, "4-2-3-1", payload2.HomeFormation)
	assert.Equal(t, "4-4-2", payload2.AwayFormation)
	require.Len(t, payload2.Sightings, 3)

	starter := payload2.Sightings[0]
	assert.Equal(t, lineup.RoleStarter, starter.Role)
	require.NotNil(t, starter.PosX)
	require.NotNil(t, starter.PosY)
	assert.Equal(t, 0.6, *starter.PosX)
	assert.Equal(t, 0.8, *starter.PosY)
	assert.Equal(t, "14", starter.ShirtNumber)

	bench := payload2.Sightings[1]
	assert.Equal(t, lineup.RoleSubstitute, bench.Role)
	assert.Nil(t, bench.PosX)

	missing := payload2.Sightings[2]
	assert.Equal(t, lineup.RoleUnavailable, missing.Role)
	assert.Equal(t, "Palmeiras", missing.TeamName)
	assert.Equal(t, "Injured", missing.Reason)
}

func TestFetchPhotoIndex_SkipsIncompleteEntries(t *testing.T) {
	payload := `{
		"athletes": [
			{"name": "Arrascaeta", "imageUrl": "https://img.example/arrascaeta.png"},
			{"name": "", "imageUrl": "https://img.example/unknown.png"},
			{"name": "Pedro", "imageUrl": ""}
		]
	}`
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(payload))
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	index, err := client.FetchPhotoIndex(context.Background())
	require.NoError(t, err)

	require.Len(t, index, 1)
	assert.Equal(t, "Arrascaeta", index[0].Name)
}

func TestDoJSON_RetriesOnceAfter429(t *testing.T) {
	var requests int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		if requests == 1 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		_, _ = w.Write([]byte(`{"athletes": []}`))
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	_, err := client.FetchPhotoIndex(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, requests)
}

func TestDoJSON_SecondRateLimitFails(t *testing.T) {
	var requests int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	_, err := client.FetchPhotoIndex(context.Background())
	require.Error(t, err)
	assert.Equal(t, 2, requests, "a 429 is retried exactly once")
}
