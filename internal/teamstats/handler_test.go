package teamstats

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatsHandler_handleGet(t *testing.T) {
	api := NewTestApi()
	require.NoError(t, api.Update(context.Background(), &Stats{
		Wins:         7,
		Draws:        2,
		Losses:       1,
		GoalsFor:     21,
		GoalsAgainst: 8,
	}))

	r := mux.NewRouter()
	NewHandler(api).SetupRoutes(r)

	req, err := http.NewRequest("GET", "/stats", nil)
	require.NoError(t, err)
	rr := httptest.NewRecorder()

	r.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))

	var resp statsResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, 7, resp.Wins)
	assert.Equal(t, 21, resp.GoalsFor)
	assert.Equal(t, 23, resp.Points)
}

func TestStatsHandler_handleGet_freshSeason(t *testing.T) {
	r := mux.NewRouter()
	NewHandler(NewTestApi()).SetupRoutes(r)

	req, err := http.NewRequest("GET", "/stats", nil)
	require.NoError(t, err)
	rr := httptest.NewRecorder()

	r.ServeHTTP(rr, req)
	require.Equal(t, http.StatusOK, rr.Code)

	var resp statsResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, Stats{}, resp.Stats)
	assert.Equal(t, 0, resp.Points)
}

func TestStatsHandler_handleUpdate(t *testing.T) {
	api := NewTestApi()

	r := mux.NewRouter()
	NewHandler(api).SetupRoutes(r)

	updateJson := `{"wins": 3, "draws": 1, "losses": 0, "goals_for": 10, "goals_against": 2}`
	req, err := http.NewRequest("POST", "/stats/update", strings.NewReader(updateJson))
	require.NoError(t, err)
	rr := httptest.NewRecorder()

	r.ServeHTTP(rr, req)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "updated", rr.Body.String())

	stats, err := api.Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, stats.Wins)
	assert.Equal(t, 10, stats.GoalsFor)
	assert.Equal(t, 10, stats.Points())
}

func TestStatsHandler_handleUpdate_negative(t *testing.T) {
	r := mux.NewRouter()
	NewHandler(NewTestApi()).SetupRoutes(r)

	req, err := http.NewRequest("POST", "/stats/update", strings.NewReader(`{"wins": -1}`))
	require.NoError(t, err)
	rr := httptest.NewRecorder()

	r.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, "error, negative stats\n", rr.Body.String())
}
