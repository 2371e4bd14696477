package matches

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMatchesHandler_routes(t *testing.T) {
	r := mux.NewRouter()
	handler := NewHandler(NewTestApi())
	require.NotNil(t, handler)
	handler.SetupRoutes(r)

	for caseName, route := range map[string]struct {
		name   string
		path   string
		method string
	}{
		"all-matches": {
			name:   "all-matches",
			path:   "/matches/all",
			method: "GET",
		},
		"next-match": {
			name:   "next-match",
			path:   "/matches/next",
			method: "GET",
		},
		"get-match": {
			name:   "get-match",
			path:   "/matches/5",
			method: "GET",
		},
		"new-match": {
			name:   "new-match",
			path:   "/matches/new",
			method: "POST",
		},
		"update-match": {
			name:   "update-match",
			path:   "/matches/update",
			method: "POST",
		},
		"match-result": {
			name:   "match-result",
			path:   "/matches/result",
			method: "PATCH",
		},
		"delete-match": {
			name:   "delete-match",
			path:   "/matches/delete/5",
			method: "DELETE",
		},
	} {
		t.Run(caseName, func(t *testing.T) {
			req, err := http.NewRequest(route.method, route.path, nil)
			require.NoError(t, err)

			routeMatch := &mux.RouteMatch{}
			muxRoute := r.Get(route.name)
			require.NotNil(t, muxRoute)
			assert.True(t, muxRoute.Match(req, routeMatch), caseName)
		})
	}
}

// getTestMatchesApi seeds 3 past matches (with results) and 2 upcoming ones
// around the given "now" moment.
func getTestMatchesApi(t *testing.T, now time.Time) *TestApi {
	t.Helper()

	api := NewTestApi()
	for i := 1; i <= 5; i++ {
		offset := time.Duration(i-3) * 24 * time.Hour
		match := &Match{
			Opponent: fmt.Sprintf("opponent %d", i),
			Location: "Estádio Municipal",
			StartsAt: now.Add(offset),
		}
		require.NoError(t, api.Add(context.Background(), match))
		if i <= 3 {
			require.NoError(t, api.SetResult(context.Background(), match.ID, i, 1))
		}
	}

	return api
}

func TestMatchesHandler_handleAll(t *testing.T) {
	now := time.Now()
	api := getTestMatchesApi(t, now)

	r := mux.NewRouter()
	NewHandler(api).SetupRoutes(r)

	req, err := http.NewRequest("GET", "/matches/all", nil)
	require.NoError(t, err)
	rr := httptest.NewRecorder()

	r.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))

	var allMatches []*Match
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &allMatches))
	require.Len(t, allMatches, 5)

	// newest fixture first
	for i := 1; i < len(allMatches); i++ {
		assert.True(t, allMatches[i-1].StartsAt.After(allMatches[i].StartsAt))
	}
}

func TestMatchesHandler_handleNext(t *testing.T) {
	now := time.Now()
	api := getTestMatchesApi(t, now)

	r := mux.NewRouter()
	handler := NewHandler(api)
	handler.now = func() time.Time { return now }
	handler.SetupRoutes(r)

	req, err := http.NewRequest("GET", "/matches/next", nil)
	require.NoError(t, err)
	rr := httptest.NewRecorder()

	r.ServeHTTP(rr, req)
	require.Equal(t, http.StatusOK, rr.Code)

	var next Match
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &next))
	assert.Equal(t, "opponent 4", next.Opponent)
	assert.False(t, next.Played())
}

func TestMatchesHandler_handleNext_noUpcoming(t *testing.T) {
	now := time.Now()
	api := getTestMatchesApi(t, now)

	r := mux.NewRouter()
	handler := NewHandler(api)
	// a moment past the whole calendar
	handler.now = func() time.Time { return now.Add(100 * 24 * time.Hour) }
	handler.SetupRoutes(r)

	req, err := http.NewRequest("GET", "/matches/next", nil)
	require.NoError(t, err)
	rr := httptest.NewRecorder()

	r.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestMatchesHandler_handleNew(t *testing.T) {
	now := time.Now()
	api := getTestMatchesApi(t, now)

	r := mux.NewRouter()
	NewHandler(api).SetupRoutes(r)

	newMatchJson, err := json.Marshal(newMatchRequest{
		Opponent: "Desportivo Vizinho",
		Location: "fora",
		StartsAt: now.Add(10 * 24 * time.Hour),
	})
	require.NoError(t, err)

	req, err := http.NewRequest("POST", "/matches/new", strings.NewReader(string(newMatchJson)))
	require.NoError(t, err)
	rr := httptest.NewRecorder()

	r.ServeHTTP(rr, req)
	require.Equal(t, http.StatusCreated, rr.Code)
	assert.Equal(t, "added:6", rr.Body.String())

	added, err := api.Get(context.Background(), 6)
	require.NoError(t, err)
	assert.Equal(t, "Desportivo Vizinho", added.Opponent)
	assert.False(t, added.Played())
}

func TestMatchesHandler_handleNew_invalid(t *testing.T) {
	api := getTestMatchesApi(t, time.Now())

	r := mux.NewRouter()
	NewHandler(api).SetupRoutes(r)

	for caseName, tc := range map[string]struct {
		body     string
		expected string
	}{
		"opponent empty": {
			body:     `{"location": "casa", "starts_at": "2026-10-10T16:00:00Z"}`,
			expected: "error, opponent empty\n",
		},
		"starts_at empty": {
			body:     `{"opponent": "alguém"}`,
			expected: "error, starts_at empty\n",
		},
	} {
		t.Run(caseName, func(t *testing.T) {
			req, err := http.NewRequest("POST", "/matches/new", strings.NewReader(tc.body))
			require.NoError(t, err)
			rr := httptest.NewRecorder()

			r.ServeHTTP(rr, req)
			assert.Equal(t, http.StatusBadRequest, rr.Code)
			assert.Equal(t, tc.expected, rr.Body.String())
		})
	}
}

func TestMatchesHandler_handleResult(t *testing.T) {
	now := time.Now()
	api := getTestMatchesApi(t, now)

	r := mux.NewRouter()
	NewHandler(api).SetupRoutes(r)

	req, err := http.NewRequest(
		"PATCH", "/matches/result",
		strings.NewReader(`{"id": 4, "home_goals": 2, "away_goals": 2}`),
	)
	require.NoError(t, err)
	rr := httptest.NewRecorder()

	r.ServeHTTP(rr, req)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "result-set:4", rr.Body.String())

	match, err := api.Get(context.Background(), 4)
	require.NoError(t, err)
	require.True(t, match.Played())
	assert.Equal(t, 2, *match.HomeGoals)
	assert.Equal(t, 2, *match.AwayGoals)

	// unknown match
	req, err = http.NewRequest(
		"PATCH", "/matches/result",
		strings.NewReader(`{"id": 100, "home_goals": 1, "away_goals": 0}`),
	)
	require.NoError(t, err)
	rr = httptest.NewRecorder()

	r.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusNotFound, rr.Code)

	// negative score rejected
	req, err = http.NewRequest(
		"PATCH", "/matches/result",
		strings.NewReader(`{"id": 4, "home_goals": -1, "away_goals": 0}`),
	)
	require.NoError(t, err)
	rr = httptest.NewRecorder()

	r.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestMatchesHandler_handleDelete(t *testing.T) {
	now := time.Now()
	api := getTestMatchesApi(t, now)

	r := mux.NewRouter()
	NewHandler(api).SetupRoutes(r)

	req, err := http.NewRequest("DELETE", "/matches/delete/2", nil)
	require.NoError(t, err)
	rr := httptest.NewRecorder()

	r.ServeHTTP(rr, req)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "deleted:2", rr.Body.String())

	_, err = api.Get(context.Background(), 2)
	assert.ErrorIs(t, err, ErrMatchNotFound)
}
