package scoring

import "context"

// Repository records which scorecards have been committed to player totals.
type Repository interface {
	GetAppliedMatch(ctx context.Context, tournamentID, matchID string) (AppliedMatch, bool, error)
	RecordAppliedMatch(ctx context.Context, applied AppliedMatch) error
	ListAppliedMatches(ctx context.Context, tournamentID string) ([]AppliedMatch, error)
}
