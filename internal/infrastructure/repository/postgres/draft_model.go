package postgres

import "time"

type draftSessionTableModel struct {
	TournamentID string     `db:"tournament_id"`
	Status       string     `db:"status"`
	Cursor       int        `db:"pick_cursor"`
	StartedAt    *time.Time `db:"started_at"`
	CompletedAt  *time.Time `db:"completed_at"`
	UpdatedAt    time.Time  `db:"updated_at"`
}

type draftOrderTableModel struct {
	TournamentID string `db:"tournament_id"`
	PickNumber   int    `db:"pick_number"`
	TeamID       string `db:"team_id"`
}

type draftPickTableModel struct {
	TournamentID string    `db:"tournament_id"`
	Number       int       `db:"number"`
	Round        int       `db:"round"`
	TeamID       string    `db:"team_id"`
	PlayerID     string    `db:"player_id"`
	Slot         string    `db:"slot"`
	PickedAt     time.Time `db:"picked_at"`
}
