package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/fantasy-cricket/internal/domain/draft"
	"github.com/riskibarqy/fantasy-cricket/internal/domain/roster"
	qb "github.com/riskibarqy/fantasy-cricket/internal/platform/querybuilder"
)

type DraftRepository struct {
	db *sqlx.DB
}

func NewDraftRepository(db *sqlx.DB) *DraftRepository {
	return &DraftRepository{db: db}
}

func (r *DraftRepository) GetSession(ctx context.Context, tournamentID string) (draft.Session, bool, error) {
	query, args, err := qb.Select("tournament_id", "status", "pick_cursor", "started_at", "completed_at", "updated_at").
		From("draft_sessions").
		Where(qb.Eq("tournament_id", tournamentID)).
		ToSQL()
	if err != nil {
		return draft.Session{}, false, fmt.Errorf("build get draft session query: %w", err)
	}

	var row draftSessionTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return draft.Session{}, false, nil
		}
		return draft.Session{}, false, fmt.Errorf("get draft session: %w", err)
	}

	session := draft.Session{
		TournamentID: row.TournamentID,
		Status:       draft.Status(row.Status),
		Cursor:       row.Cursor,
		Order:        []draft.OrderEntry{},
		StartedAt:    row.StartedAt,
		CompletedAt:  row.CompletedAt,
		UpdatedAt:    row.UpdatedAt,
	}

	query, args, err = qb.Select("tournament_id", "pick_number", "team_id").
		From("draft_order").
		Where(qb.Eq("tournament_id", tournamentID)).
		OrderBy("pick_number").
		ToSQL()
	if err != nil {
		return draft.Session{}, false, fmt.Errorf("build get draft order query: %w", err)
	}

	var orderRows []draftOrderTableModel
	if err := r.db.SelectContext(ctx, &orderRows, query, args...); err != nil {
		return draft.Session{}, false, fmt.Errorf("get draft order: %w", err)
	}
	for _, orderRow := range orderRows {
		session.Order = append(session.Order, draft.OrderEntry{
			PickNumber: orderRow.PickNumber,
			TeamID:     orderRow.TeamID,
		})
	}

	return session, true, nil
}

// SaveSession writes the session row and replaces the persisted order
// atomically. The order only ever changes on start and reset, so the full
// rewrite stays cheap.
func (r *DraftRepository) SaveSession(ctx context.Context, session draft.Session) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin save draft session: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	query, args, err := qb.InsertInto("draft_sessions").
		Columns("tournament_id", "status", "pick_cursor", "started_at", "completed_at", "updated_at").
		Values(session.TournamentID, string(session.Status), session.Cursor, session.StartedAt, session.CompletedAt, session.UpdatedAt).
		Suffix(`ON CONFLICT (tournament_id) DO UPDATE SET
			status = EXCLUDED.status,
			pick_cursor = EXCLUDED.pick_cursor,
			started_at = EXCLUDED.started_at,
			completed_at = EXCLUDED.completed_at,
			updated_at = EXCLUDED.updated_at`).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build upsert draft session query: %w", err)
	}
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert draft session: %w", err)
	}

	query, args, err = qb.DeleteFrom("draft_order").
		Where(qb.Eq("tournament_id", session.TournamentID)).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build clear draft order query: %w", err)
	}
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("clear draft order: %w", err)
	}

	if len(session.Order) > 0 {
		builder := qb.InsertInto("draft_order").
			Columns("tournament_id", "pick_number", "team_id")
		for _, entry := range session.Order {
			builder.Values(session.TournamentID, entry.PickNumber, entry.TeamID)
		}
		query, args, err = builder.ToSQL()
		if err != nil {
			return fmt.Errorf("build insert draft order query: %w", err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("insert draft order: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit save draft session: %w", err)
	}

	return nil
}

func (r *DraftRepository) AppendPick(ctx context.Context, tournamentID string, pick draft.Pick) error {
	query, args, err := qb.InsertInto("draft_picks").
		Columns("tournament_id", "number", "round", "team_id", "player_id", "slot", "picked_at").
		Values(tournamentID, pick.Number, pick.Round, pick.TeamID, pick.PlayerID, string(pick.Slot), pick.PickedAt).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build append pick query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("append pick: %w", err)
	}

	return nil
}

func (r *DraftRepository) ListPicks(ctx context.Context, tournamentID string) ([]draft.Pick, error) {
	return r.listPicks(ctx, qb.Eq("tournament_id", tournamentID))
}

func (r *DraftRepository) ListPicksAfter(ctx context.Context, tournamentID string, afterNumber int) ([]draft.Pick, error) {
	return r.listPicks(ctx,
		qb.Eq("tournament_id", tournamentID),
		qb.Gt("number", afterNumber),
	)
}

func (r *DraftRepository) DeletePicks(ctx context.Context, tournamentID string) error {
	query, args, err := qb.DeleteFrom("draft_picks").
		Where(qb.Eq("tournament_id", tournamentID)).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build delete picks query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("delete picks: %w", err)
	}

	return nil
}

func (r *DraftRepository) listPicks(ctx context.Context, conditions ...qb.Condition) ([]draft.Pick, error) {
	query, args, err := qb.Select("tournament_id", "number", "round", "team_id", "player_id", "slot", "picked_at").
		From("draft_picks").
		Where(conditions...).
		OrderBy("number").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list picks query: %w", err)
	}

	var rows []draftPickTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list picks: %w", err)
	}

	out := make([]draft.Pick, 0, len(rows))
	for _, row := range rows {
		out = append(out, draft.Pick{
			Number:   row.Number,
			Round:    row.Round,
			TeamID:   row.TeamID,
			PlayerID: row.PlayerID,
			Slot:     roster.Slot(row.Slot),
			PickedAt: row.PickedAt,
		})
	}
	return out, nil
}
