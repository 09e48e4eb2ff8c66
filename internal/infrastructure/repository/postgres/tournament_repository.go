package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/fantasy-cricket/internal/domain/tournament"
	qb "github.com/riskibarqy/fantasy-cricket/internal/platform/querybuilder"
)

type TournamentRepository struct {
	db *sqlx.DB
}

func NewTournamentRepository(db *sqlx.DB) *TournamentRepository {
	return &TournamentRepository{db: db}
}

func (r *TournamentRepository) List(ctx context.Context) ([]tournament.Tournament, error) {
	query, args, err := tournamentBaseSelectBuilder().
		OrderBy("id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list tournaments query: %w", err)
	}

	var rows []tournamentTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list tournaments: %w", err)
	}

	out := make([]tournament.Tournament, 0, len(rows))
	for _, row := range rows {
		out = append(out, tournamentFromRow(row))
	}
	return out, nil
}

func (r *TournamentRepository) GetByID(ctx context.Context, tournamentID string) (tournament.Tournament, bool, error) {
	query, args, err := tournamentBaseSelectBuilder().
		Where(qb.Eq("id", tournamentID)).
		ToSQL()
	if err != nil {
		return tournament.Tournament{}, false, fmt.Errorf("build get tournament query: %w", err)
	}

	var row tournamentTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return tournament.Tournament{}, false, nil
		}
		return tournament.Tournament{}, false, fmt.Errorf("get tournament: %w", err)
	}

	return tournamentFromRow(row), true, nil
}

func tournamentBaseSelectBuilder() *qb.SelectBuilder {
	return qb.Select(
		"id",
		"name",
		"season",
		"draft_rounds",
		"weekly_pickup_budget",
		"is_default",
	).From("tournaments")
}

func tournamentFromRow(row tournamentTableModel) tournament.Tournament {
	return tournament.Tournament{
		ID:                 row.ID,
		Name:               row.Name,
		Season:             row.Season,
		DraftRounds:        row.DraftRounds,
		WeeklyPickupBudget: row.WeeklyPickupBudget,
		IsDefault:          row.IsDefault,
	}
}
