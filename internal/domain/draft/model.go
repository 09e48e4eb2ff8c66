package draft

import (
	"errors"
	"time"

	"github.com/riskibarqy/fantasy-cricket/internal/domain/roster"
)

var (
	ErrDraftNotActive  = errors.New("draft is not in progress")
	ErrDraftNotOpen    = errors.New("draft registration is not open")
	ErrAlreadyStarted  = errors.New("draft order already generated")
	ErrNotEnoughTeams  = errors.New("draft needs at least two teams")
	ErrEmptyOrder      = errors.New("draft order is empty")
	ErrNotYourTurn     = errors.New("not your turn to pick")
	ErrPlayerTaken     = errors.New("player already drafted")
	ErrSessionNotFound = errors.New("draft session not found")
)

// MinTeams is the smallest participant count a draft can start with.
const MinTeams = 2

// Status is the draft session lifecycle state.
type Status string

const (
	StatusPending    Status = "pending"
	StatusOpen       Status = "open"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
)

var AllStatuses = map[Status]struct{}{
	StatusPending:    {},
	StatusOpen:       {},
	StatusInProgress: {},
	StatusCompleted:  {},
}

// OrderEntry maps one pick number to the team that owns the turn.
type OrderEntry struct {
	PickNumber int
	TeamID     string
}

// Pick is an append-only record of one committed draft selection.
type Pick struct {
	Number   int
	Round    int
	TeamID   string
	PlayerID string
	Slot     roster.Slot
	PickedAt time.Time
}

// Session is the authoritative draft state for one tournament. The order is
// generated exactly once at start and persisted verbatim; the cursor is the
// 0-based count of committed picks and the sole arbiter of whose turn it is.
type Session struct {
	TournamentID string
	Status       Status
	Cursor       int
	Order        []OrderEntry
	StartedAt    *time.Time
	CompletedAt  *time.Time
	UpdatedAt    time.Time
}

// CurrentTeam returns the team holding the turn at the session cursor. It
// reports false when the draft is not accepting picks.
func (s Session) CurrentTeam() (string, bool) {
	if s.Status != StatusInProgress {
		return "", false
	}
	if s.Cursor < 0 || s.Cursor >= len(s.Order) {
		return "", false
	}

	return s.Order[s.Cursor].TeamID, true
}

// Completed reports whether every pick in the order has been committed.
func (s Session) Completed() bool {
	return s.Status == StatusCompleted
}

// RemainingPicks counts picks not yet committed.
func (s Session) RemainingPicks() int {
	remaining := len(s.Order) - s.Cursor
	if remaining < 0 {
		return 0
	}

	return remaining
}
