package teamstats

import (
	"context"
	"sync"
)

// TestApi is an in-memory stats repo used in tests.
type TestApi struct {
	mutex sync.RWMutex
	stats Stats
}

func NewTestApi() *TestApi {
	return &TestApi{}
}

func (api *TestApi) Get(_ context.Context) (*Stats, error) {
	api.mutex.RLock()
	defer api.mutex.RUnlock()

	stats := api.stats
	return &stats, nil
}

func (api *TestApi) Update(_ context.Context, stats *Stats) error {
	api.mutex.Lock()
	defer api.mutex.Unlock()

	api.stats = *stats
	return nil
}
