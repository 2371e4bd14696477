package players

import (
	"context"
	"sort"
	"sync"
	"time"
)

// TestApi is an in-memory players repo used in tests.
type TestApi struct {
	mutex   sync.RWMutex
	nextID  int
	players map[int]*Player
}

func NewTestApi() *TestApi {
	return &TestApi{
		nextID:  1,
		players: map[int]*Player{},
	}
}

func (api *TestApi) Add(_ context.Context, player *Player) error {
	api.mutex.Lock()
	defer api.mutex.Unlock()

	if player.Name == "" {
		return ErrPlayerNameEmpty
	}

	player.ID = api.nextID
	api.nextID++
	if player.CreatedAt.IsZero() {
		player.CreatedAt = time.Now()
	}
	api.players[player.ID] = player

	return nil
}

func (api *TestApi) Update(_ context.Context, player *Player) error {
	api.mutex.Lock()
	defer api.mutex.Unlock()

	if player.Name == "" {
		return ErrPlayerNameEmpty
	}

	stored, ok := api.players[player.ID]
	if !ok {
		return ErrPlayerNotFound
	}

	player.CreatedAt = stored.CreatedAt
	api.players[player.ID] = player

	return nil
}

func (api *TestApi) Delete(_ context.Context, id int) error {
	api.mutex.Lock()
	defer api.mutex.Unlock()

	if _, ok := api.players[id]; !ok {
		return ErrPlayerNotFound
	}

	delete(api.players, id)

	return nil
}

func (api *TestApi) All(_ context.Context) ([]*Player, error) {
	api.mutex.RLock()
	defer api.mutex.RUnlock()

	all := make([]*Player, 0, len(api.players))
	for _, player := range api.players {
		all = append(all, player)
	}

	sort.Slice(all, func(i, j int) bool {
		return all[i].Number < all[j].Number
	})

	return all, nil
}

func (api *TestApi) Get(_ context.Context, id int) (*Player, error) {
	api.mutex.RLock()
	defer api.mutex.RUnlock()

	player, ok := api.players[id]
	if !ok {
		return nil, ErrPlayerNotFound
	}

	return player, nil
}
