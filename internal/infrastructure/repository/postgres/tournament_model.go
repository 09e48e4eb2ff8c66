package postgres

type tournamentTableModel struct {
	ID                 string `db:"id"`
	Name               string `db:"name"`
	Season             string `db:"season"`
	DraftRounds        int    `db:"draft_rounds"`
	WeeklyPickupBudget int    `db:"weekly_pickup_budget"`
	IsDefault          bool   `db:"is_default"`
}
