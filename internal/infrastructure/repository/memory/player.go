package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/riskibarqy/fantasy-cricket/internal/domain/player"
)

// PlayerRepository is an in-memory player directory keyed by tournament.
type PlayerRepository struct {
	mu    sync.RWMutex
	items map[string]map[string]player.Player
}

func NewPlayerRepository() *PlayerRepository {
	return &PlayerRepository{items: make(map[string]map[string]player.Player)}
}

func (r *PlayerRepository) ListByTournament(_ context.Context, tournamentID string) ([]player.Player, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	pool := r.items[tournamentID]
	out := make([]player.Player, 0, len(pool))
	for _, item := range pool {
		out = append(out, item)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })

	return out, nil
}

func (r *PlayerRepository) GetByID(_ context.Context, tournamentID, playerID string) (player.Player, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.items[tournamentID][playerID]
	return item, ok, nil
}

func (r *PlayerRepository) GetByIDs(_ context.Context, tournamentID string, playerIDs []string) ([]player.Player, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	pool := r.items[tournamentID]
	out := make([]player.Player, 0, len(playerIDs))
	for _, playerID := range playerIDs {
		if item, ok := pool[playerID]; ok {
			out = append(out, item)
		}
	}

	return out, nil
}

func (r *PlayerRepository) AddMatchPoints(_ context.Context, tournamentID, playerID string, points int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	pool := r.items[tournamentID]
	item, ok := pool[playerID]
	if !ok {
		return fmt.Errorf("player %s not found in tournament %s", playerID, tournamentID)
	}

	item.TotalPoints += points
	item.MatchesPlayed++
	pool[playerID] = item

	return nil
}

func (r *PlayerRepository) Put(item player.Player) {
	r.mu.Lock()
	defer r.mu.Unlock()

	pool, ok := r.items[item.TournamentID]
	if !ok {
		pool = make(map[string]player.Player)
		r.items[item.TournamentID] = pool
	}
	pool[item.ID] = item
}
