package memory

import (
	"context"
	"sync"

	"github.com/riskibarqy/fantasy-cricket/internal/domain/draft"
)

// DraftRepository stores draft sessions and their append-only pick logs in
// memory.
type DraftRepository struct {
	mu       sync.RWMutex
	sessions map[string]draft.Session
	picks    map[string][]draft.Pick
}

func NewDraftRepository() *DraftRepository {
	return &DraftRepository{
		sessions: make(map[string]draft.Session),
		picks:    make(map[string][]draft.Pick),
	}
}

func (r *DraftRepository) GetSession(_ context.Context, tournamentID string) (draft.Session, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	session, ok := r.sessions[tournamentID]
	if !ok {
		return draft.Session{}, false, nil
	}

	return cloneSession(session), true, nil
}

func (r *DraftRepository) SaveSession(_ context.Context, session draft.Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.sessions[session.TournamentID] = cloneSession(session)

	return nil
}

func (r *DraftRepository) AppendPick(_ context.Context, tournamentID string, pick draft.Pick) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.picks[tournamentID] = append(r.picks[tournamentID], pick)

	return nil
}

func (r *DraftRepository) ListPicks(_ context.Context, tournamentID string) ([]draft.Pick, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return append([]draft.Pick(nil), r.picks[tournamentID]...), nil
}

func (r *DraftRepository) ListPicksAfter(_ context.Context, tournamentID string, afterNumber int) ([]draft.Pick, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]draft.Pick, 0)
	for _, pick := range r.picks[tournamentID] {
		if pick.Number > afterNumber {
			out = append(out, pick)
		}
	}

	return out, nil
}

func (r *DraftRepository) DeletePicks(_ context.Context, tournamentID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.picks, tournamentID)

	return nil
}

func cloneSession(session draft.Session) draft.Session {
	clone := session
	clone.Order = append([]draft.OrderEntry(nil), session.Order...)
	if session.StartedAt != nil {
		startedAt := *session.StartedAt
		clone.StartedAt = &startedAt
	}
	if session.CompletedAt != nil {
		completedAt := *session.CompletedAt
		clone.CompletedAt = &completedAt
	}

	return clone
}
