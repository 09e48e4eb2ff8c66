package draft

import "context"

// Repository owns draft session and pick persistence. The draft service is
// the only writer; everything else treats sessions as read-only snapshots.
type Repository interface {
	GetSession(ctx context.Context, tournamentID string) (Session, bool, error)
	SaveSession(ctx context.Context, session Session) error

	AppendPick(ctx context.Context, tournamentID string, pick Pick) error
	ListPicks(ctx context.Context, tournamentID string) ([]Pick, error)
	// ListPicksAfter returns picks with number strictly greater than
	// afterNumber, in pick-number order. Polling clients use it to fetch
	// only the delta since their local cursor.
	ListPicksAfter(ctx context.Context, tournamentID string, afterNumber int) ([]Pick, error)
	// DeletePicks clears every pick for the tournament. Only the explicit
	// reset-draft operation calls this.
	DeletePicks(ctx context.Context, tournamentID string) error
}
