package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/riskibarqy/fantasy-cricket/internal/domain/scoring"
)

// ScoringRepository tracks applied scorecards in memory.
type ScoringRepository struct {
	mu    sync.RWMutex
	items map[string]map[string]scoring.AppliedMatch
}

func NewScoringRepository() *ScoringRepository {
	return &ScoringRepository{items: make(map[string]map[string]scoring.AppliedMatch)}
}

func (r *ScoringRepository) GetAppliedMatch(_ context.Context, tournamentID, matchID string) (scoring.AppliedMatch, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.items[tournamentID][matchID]
	return item, ok, nil
}

func (r *ScoringRepository) RecordAppliedMatch(_ context.Context, applied scoring.AppliedMatch) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	pool, ok := r.items[applied.TournamentID]
	if !ok {
		pool = make(map[string]scoring.AppliedMatch)
		r.items[applied.TournamentID] = pool
	}
	pool[applied.MatchID] = applied

	return nil
}

func (r *ScoringRepository) ListAppliedMatches(_ context.Context, tournamentID string) ([]scoring.AppliedMatch, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	pool := r.items[tournamentID]
	out := make([]scoring.AppliedMatch, 0, len(pool))
	for _, item := range pool {
		out = append(out, item)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].AppliedAt.Before(out[j].AppliedAt) })

	return out, nil
}
