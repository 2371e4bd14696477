package matches

import (
	"context"
	"sort"
	"sync"
	"time"
)

// TestApi is an in-memory matches repo used in tests.
type TestApi struct {
	mutex   sync.RWMutex
	nextID  int
	matches map[int]*Match
}

func NewTestApi() *TestApi {
	return &TestApi{
		nextID:  1,
		matches: map[int]*Match{},
	}
}

func (api *TestApi) Add(_ context.Context, match *Match) error {
	api.mutex.Lock()
	defer api.mutex.Unlock()

	if match.Opponent == "" {
		return ErrMatchOpponentEmpty
	}

	match.ID = api.nextID
	api.nextID++
	if match.CreatedAt.IsZero() {
		match.CreatedAt = time.Now()
	}
	api.matches[match.ID] = match

	return nil
}

func (api *TestApi) Update(_ context.Context, match *Match) error {
	api.mutex.Lock()
	defer api.mutex.Unlock()

	if match.Opponent == "" {
		return ErrMatchOpponentEmpty
	}

	stored, ok := api.matches[match.ID]
	if !ok {
		return ErrMatchNotFound
	}

	stored.Opponent = match.Opponent
	stored.Location = match.Location
	stored.StartsAt = match.StartsAt

	return nil
}

func (api *TestApi) SetResult(_ context.Context, id, homeGoals, awayGoals int) error {
	api.mutex.Lock()
	defer api.mutex.Unlock()

	stored, ok := api.matches[id]
	if !ok {
		return ErrMatchNotFound
	}

	stored.HomeGoals = &homeGoals
	stored.AwayGoals = &awayGoals

	return nil
}

func (api *TestApi) Delete(_ context.Context, id int) error {
	api.mutex.Lock()
	defer api.mutex.Unlock()

	if _, ok := api.matches[id]; !ok {
		return ErrMatchNotFound
	}

	delete(api.matches, id)

	return nil
}

func (api *TestApi) All(_ context.Context) ([]*Match, error) {
	api.mutex.RLock()
	defer api.mutex.RUnlock()

	all := make([]*Match, 0, len(api.matches))
	for _, match := range api.matches {
		all = append(all, match)
	}

	sort.Slice(all, func(i, j int) bool {
		return all[i].StartsAt.After(all[j].StartsAt)
	})

	return all, nil
}

func (api *TestApi) Next(_ context.Context, now time.Time) (*Match, error) {
	api.mutex.RLock()
	defer api.mutex.RUnlock()

	var next *Match
	for _, match := range api.matches {
		if !match.StartsAt.After(now) {
			continue
		}
		if next == nil || match.StartsAt.Before(next.StartsAt) {
			next = match
		}
	}

	if next == nil {
		return nil, ErrMatchNotFound
	}

	return next, nil
}

func (api *TestApi) Get(_ context.Context, id int) (*Match, error) {
	api.mutex.RLock()
	defer api.mutex.RUnlock()

	match, ok := api.matches[id]
	if !ok {
		return nil, ErrMatchNotFound
	}

	return match, nil
}
