package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/fantasy-cricket/internal/domain/player"
	qb "github.com/riskibarqy/fantasy-cricket/internal/platform/querybuilder"
)

type PlayerRepository struct {
	db *sqlx.DB
}

func NewPlayerRepository(db *sqlx.DB) *PlayerRepository {
	return &PlayerRepository{db: db}
}

func (r *PlayerRepository) ListByTournament(ctx context.Context, tournamentID string) ([]player.Player, error) {
	query, args, err := playerBaseSelectBuilder().
		Where(qb.Eq("tournament_id", tournamentID)).
		OrderBy("id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list players query: %w", err)
	}

	var rows []playerTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list players: %w", err)
	}

	out := make([]player.Player, 0, len(rows))
	for _, row := range rows {
		out = append(out, playerFromRow(row))
	}
	return out, nil
}

func (r *PlayerRepository) GetByID(ctx context.Context, tournamentID, playerID string) (player.Player, bool, error) {
	query, args, err := playerBaseSelectBuilder().
		Where(
			qb.Eq("tournament_id", tournamentID),
			qb.Eq("id", playerID),
		).
		ToSQL()
	if err != nil {
		return player.Player{}, false, fmt.Errorf("build get player query: %w", err)
	}

	var row playerTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return player.Player{}, false, nil
		}
		return player.Player{}, false, fmt.Errorf("get player: %w", err)
	}

	return playerFromRow(row), true, nil
}

func (r *PlayerRepository) GetByIDs(ctx context.Context, tournamentID string, playerIDs []string) ([]player.Player, error) {
	if len(playerIDs) == 0 {
		return []player.Player{}, nil
	}

	ids := make([]any, 0, len(playerIDs))
	for _, playerID := range playerIDs {
		ids = append(ids, playerID)
	}
	query, args, err := playerBaseSelectBuilder().
		Where(
			qb.Eq("tournament_id", tournamentID),
			qb.In("id", ids),
		).
		OrderBy("id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build get players by ids query: %w", err)
	}

	var rows []playerTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("get players by ids: %w", err)
	}

	out := make([]player.Player, 0, len(rows))
	for _, row := range rows {
		out = append(out, playerFromRow(row))
	}
	return out, nil
}

func (r *PlayerRepository) AddMatchPoints(ctx context.Context, tournamentID, playerID string, points int) error {
	query := `UPDATE players
		SET total_points = total_points + $1, matches_played = matches_played + 1
		WHERE tournament_id = $2 AND id = $3`
	result, err := r.db.ExecContext(ctx, query, points, tournamentID, playerID)
	if err != nil {
		return fmt.Errorf("add match points: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected add match points: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("player %s not found in tournament %s", playerID, tournamentID)
	}

	return nil
}

func playerBaseSelectBuilder() *qb.SelectBuilder {
	return qb.Select(
		"id",
		"tournament_id",
		"name",
		"source_team",
		"position",
		"total_points",
		"matches_played",
	).From("players")
}

func playerFromRow(row playerTableModel) player.Player {
	return player.Player{
		ID:            row.ID,
		TournamentID:  row.TournamentID,
		Name:          row.Name,
		SourceTeam:    row.SourceTeam,
		Position:      player.Position(row.Position),
		TotalPoints:   row.TotalPoints,
		MatchesPlayed: row.MatchesPlayed,
	}
}
