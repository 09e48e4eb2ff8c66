package team

import "context"

// Repository describes team persistence needs from use cases.
type Repository interface {
	GetByID(ctx context.Context, tournamentID, teamID string) (Team, bool, error)
	GetByUserAndTournament(ctx context.Context, userID, tournamentID string) (Team, bool, error)
	ListByTournament(ctx context.Context, tournamentID string) ([]Team, error)
	Upsert(ctx context.Context, item Team) error
}
