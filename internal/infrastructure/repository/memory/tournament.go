package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/riskibarqy/fantasy-cricket/internal/domain/tournament"
)

// TournamentRepository is an in-memory tournament catalogue for development
// and tests.
type TournamentRepository struct {
	mu    sync.RWMutex
	items map[string]tournament.Tournament
}

func NewTournamentRepository() *TournamentRepository {
	return &TournamentRepository{items: make(map[string]tournament.Tournament)}
}

func (r *TournamentRepository) List(_ context.Context) ([]tournament.Tournament, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]tournament.Tournament, 0, len(r.items))
	for _, item := range r.items {
		out = append(out, item)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })

	return out, nil
}

func (r *TournamentRepository) GetByID(_ context.Context, tournamentID string) (tournament.Tournament, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.items[tournamentID]
	return item, ok, nil
}

func (r *TournamentRepository) Put(item tournament.Tournament) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.items[item.ID] = item
}
