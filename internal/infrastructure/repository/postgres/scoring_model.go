package postgres

import "time"

type appliedMatchTableModel struct {
	TournamentID string    `db:"tournament_id"`
	MatchID      string    `db:"match_id"`
	PlayerCount  int       `db:"player_count"`
	TotalPoints  int       `db:"total_points"`
	AppliedAt    time.Time `db:"applied_at"`
}
