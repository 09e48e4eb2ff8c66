package player

import "context"

// Repository describes player directory persistence needs from use cases.
type Repository interface {
	ListByTournament(ctx context.Context, tournamentID string) ([]Player, error)
	GetByID(ctx context.Context, tournamentID, playerID string) (Player, bool, error)
	GetByIDs(ctx context.Context, tournamentID string, playerIDs []string) ([]Player, error)
	// AddMatchPoints adds points to a player's cumulative total and bumps the
	// matches-played counter. Called by the scoring apply flow only.
	AddMatchPoints(ctx context.Context, tournamentID, playerID string, points int) error
}
