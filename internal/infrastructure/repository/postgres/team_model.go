package postgres

import "time"

type teamTableModel struct {
	ID             string    `db:"id"`
	TournamentID   string    `db:"tournament_id"`
	UserID         string    `db:"user_id"`
	Name           string    `db:"name"`
	PickupsUsed    int       `db:"pickups_used"`
	PickupsResetAt time.Time `db:"pickups_reset_at"`
	CreatedAt      time.Time `db:"created_at"`
	UpdatedAt      time.Time `db:"updated_at"`
}

type rosterEntryTableModel struct {
	TournamentID string `db:"tournament_id"`
	TeamID       string `db:"team_id"`
	PlayerID     string `db:"player_id"`
	Slot         string `db:"slot"`
	Ordinal      int    `db:"ordinal"`
}
