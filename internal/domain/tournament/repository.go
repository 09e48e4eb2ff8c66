package tournament

import "context"

// Repository describes tournament metadata reads. Seeding and admin CRUD are
// external collaborators.
type Repository interface {
	List(ctx context.Context) ([]Tournament, error)
	GetByID(ctx context.Context, tournamentID string) (Tournament, bool, error)
}
