package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/riskibarqy/fantasy-cricket/internal/domain/roster"
	"github.com/riskibarqy/fantasy-cricket/internal/domain/team"
)

// TeamRepository is an in-memory team store keyed by tournament then team id.
type TeamRepository struct {
	mu    sync.RWMutex
	items map[string]map[string]team.Team
}

func NewTeamRepository() *TeamRepository {
	return &TeamRepository{items: make(map[string]map[string]team.Team)}
}

func (r *TeamRepository) GetByID(_ context.Context, tournamentID, teamID string) (team.Team, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.items[tournamentID][teamID]
	if !ok {
		return team.Team{}, false, nil
	}

	return cloneTeam(item), true, nil
}

func (r *TeamRepository) GetByUserAndTournament(_ context.Context, userID, tournamentID string) (team.Team, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, item := range r.items[tournamentID] {
		if item.UserID == userID {
			return cloneTeam(item), true, nil
		}
	}

	return team.Team{}, false, nil
}

func (r *TeamRepository) ListByTournament(_ context.Context, tournamentID string) ([]team.Team, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	pool := r.items[tournamentID]
	out := make([]team.Team, 0, len(pool))
	for _, item := range pool {
		out = append(out, cloneTeam(item))
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})

	return out, nil
}

func (r *TeamRepository) Upsert(_ context.Context, item team.Team) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	pool, ok := r.items[item.TournamentID]
	if !ok {
		pool = make(map[string]team.Team)
		r.items[item.TournamentID] = pool
	}
	pool[item.ID] = cloneTeam(item)

	return nil
}

// cloneTeam copies the entries slice so callers cannot mutate stored state
// through a returned snapshot.
func cloneTeam(item team.Team) team.Team {
	clone := item
	clone.Entries = append([]roster.Entry(nil), item.Entries...)

	return clone
}
