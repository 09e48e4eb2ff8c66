package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/fantasy-cricket/internal/domain/scoring"
	qb "github.com/riskibarqy/fantasy-cricket/internal/platform/querybuilder"
)

type ScoringRepository struct {
	db *sqlx.DB
}

func NewScoringRepository(db *sqlx.DB) *ScoringRepository {
	return &ScoringRepository{db: db}
}

func (r *ScoringRepository) GetAppliedMatch(ctx context.Context, tournamentID, matchID string) (scoring.AppliedMatch, bool, error) {
	query, args, err := appliedMatchBaseSelectBuilder().
		Where(
			qb.Eq("tournament_id", tournamentID),
			qb.Eq("match_id", matchID),
		).
		ToSQL()
	if err != nil {
		return scoring.AppliedMatch{}, false, fmt.Errorf("build get applied match query: %w", err)
	}

	var row appliedMatchTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return scoring.AppliedMatch{}, false, nil
		}
		return scoring.AppliedMatch{}, false, fmt.Errorf("get applied match: %w", err)
	}

	return appliedMatchFromRow(row), true, nil
}

func (r *ScoringRepository) RecordAppliedMatch(ctx context.Context, applied scoring.AppliedMatch) error {
	query, args, err := qb.InsertInto("applied_matches").
		Columns("tournament_id", "match_id", "player_count", "total_points", "applied_at").
		Values(applied.TournamentID, applied.MatchID, applied.PlayerCount, applied.TotalPoints, applied.AppliedAt).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build record applied match query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("record applied match: %w", err)
	}

	return nil
}

func (r *ScoringRepository) ListAppliedMatches(ctx context.Context, tournamentID string) ([]scoring.AppliedMatch, error) {
	query, args, err := appliedMatchBaseSelectBuilder().
		Where(qb.Eq("tournament_id", tournamentID)).
		OrderBy("applied_at").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list applied matches query: %w", err)
	}

	var rows []appliedMatchTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list applied matches: %w", err)
	}

	out := make([]scoring.AppliedMatch, 0, len(rows))
	for _, row := range rows {
		out = append(out, appliedMatchFromRow(row))
	}
	return out, nil
}

func appliedMatchBaseSelectBuilder() *qb.SelectBuilder {
	return qb.Select(
		"tournament_id",
		"match_id",
		"player_count",
		"total_points",
		"applied_at",
	).From("applied_matches")
}

func appliedMatchFromRow(row appliedMatchTableModel) scoring.AppliedMatch {
	return scoring.AppliedMatch{
		TournamentID: row.TournamentID,
		MatchID:      row.MatchID,
		PlayerCount:  row.PlayerCount,
		TotalPoints:  row.TotalPoints,
		AppliedAt:    row.AppliedAt,
	}
}
