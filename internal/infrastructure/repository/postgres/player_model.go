package postgres

type playerTableModel struct {
	ID            string `db:"id"`
	TournamentID  string `db:"tournament_id"`
	Name          string `db:"name"`
	SourceTeam    string `db:"source_team"`
	Position      string `db:"position"`
	TotalPoints   int    `db:"total_points"`
	MatchesPlayed int    `db:"matches_played"`
}
