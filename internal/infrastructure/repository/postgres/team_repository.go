package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/fantasy-cricket/internal/domain/roster"
	"github.com/riskibarqy/fantasy-cricket/internal/domain/team"
	qb "github.com/riskibarqy/fantasy-cricket/internal/platform/querybuilder"
)

type TeamRepository struct {
	db *sqlx.DB
}

func NewTeamRepository(db *sqlx.DB) *TeamRepository {
	return &TeamRepository{db: db}
}

func (r *TeamRepository) GetByID(ctx context.Context, tournamentID, teamID string) (team.Team, bool, error) {
	query, args, err := teamBaseSelectBuilder().
		Where(
			qb.Eq("tournament_id", tournamentID),
			qb.Eq("id", teamID),
		).
		ToSQL()
	if err != nil {
		return team.Team{}, false, fmt.Errorf("build get team query: %w", err)
	}

	var row teamTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return team.Team{}, false, nil
		}
		return team.Team{}, false, fmt.Errorf("get team: %w", err)
	}

	item := teamFromRow(row)
	if err := r.attachEntries(ctx, []*team.Team{&item}); err != nil {
		return team.Team{}, false, err
	}

	return item, true, nil
}

func (r *TeamRepository) GetByUserAndTournament(ctx context.Context, userID, tournamentID string) (team.Team, bool, error) {
	query, args, err := teamBaseSelectBuilder().
		Where(
			qb.Eq("tournament_id", tournamentID),
			qb.Eq("user_id", userID),
		).
		ToSQL()
	if err != nil {
		return team.Team{}, false, fmt.Errorf("build get team by user query: %w", err)
	}

	var row teamTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return team.Team{}, false, nil
		}
		return team.Team{}, false, fmt.Errorf("get team by user: %w", err)
	}

	item := teamFromRow(row)
	if err := r.attachEntries(ctx, []*team.Team{&item}); err != nil {
		return team.Team{}, false, err
	}

	return item, true, nil
}

func (r *TeamRepository) ListByTournament(ctx context.Context, tournamentID string) ([]team.Team, error) {
	query, args, err := teamBaseSelectBuilder().
		Where(qb.Eq("tournament_id", tournamentID)).
		OrderBy("created_at", "id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list teams query: %w", err)
	}

	var rows []teamTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list teams: %w", err)
	}

	out := make([]team.Team, 0, len(rows))
	refs := make([]*team.Team, 0, len(rows))
	for _, row := range rows {
		out = append(out, teamFromRow(row))
		refs = append(refs, &out[len(out)-1])
	}
	if err := r.attachEntries(ctx, refs); err != nil {
		return nil, err
	}

	return out, nil
}

// Upsert writes the team row and replaces its roster entries in one
// transaction, so a reader never sees a half-updated roster.
func (r *TeamRepository) Upsert(ctx context.Context, item team.Team) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin team upsert: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	query, args, err := qb.InsertInto("teams").
		Columns("id", "tournament_id", "user_id", "name", "pickups_used", "pickups_reset_at", "created_at", "updated_at").
		Values(item.ID, item.TournamentID, item.UserID, item.Name, item.PickupsUsed, item.PickupsResetAt, item.CreatedAt, item.UpdatedAt).
		Suffix(`ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			pickups_used = EXCLUDED.pickups_used,
			pickups_reset_at = EXCLUDED.pickups_reset_at,
			updated_at = EXCLUDED.updated_at`).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build upsert team query: %w", err)
	}
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert team: %w", err)
	}

	query, args, err = qb.DeleteFrom("roster_entries").
		Where(
			qb.Eq("tournament_id", item.TournamentID),
			qb.Eq("team_id", item.ID),
		).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build clear roster entries query: %w", err)
	}
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("clear roster entries: %w", err)
	}

	if len(item.Entries) > 0 {
		builder := qb.InsertInto("roster_entries").
			Columns("tournament_id", "team_id", "player_id", "slot", "ordinal")
		for ordinal, entry := range item.Entries {
			builder.Values(item.TournamentID, item.ID, entry.PlayerID, string(entry.Slot), ordinal)
		}
		query, args, err = builder.ToSQL()
		if err != nil {
			return fmt.Errorf("build insert roster entries query: %w", err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("insert roster entries: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit team upsert: %w", err)
	}

	return nil
}

func (r *TeamRepository) attachEntries(ctx context.Context, teams []*team.Team) error {
	if len(teams) == 0 {
		return nil
	}

	teamIDs := make([]any, 0, len(teams))
	byID := make(map[string]*team.Team, len(teams))
	for _, item := range teams {
		teamIDs = append(teamIDs, item.ID)
		byID[item.ID] = item
		item.Entries = []roster.Entry{}
	}

	query, args, err := qb.Select("tournament_id", "team_id", "player_id", "slot", "ordinal").
		From("roster_entries").
		Where(qb.In("team_id", teamIDs)).
		OrderBy("team_id", "ordinal").
		ToSQL()
	if err != nil {
		return fmt.Errorf("build list roster entries query: %w", err)
	}

	var rows []rosterEntryTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return fmt.Errorf("list roster entries: %w", err)
	}

	for _, row := range rows {
		item, ok := byID[row.TeamID]
		if !ok {
			continue
		}
		item.Entries = append(item.Entries, roster.Entry{
			PlayerID: row.PlayerID,
			Slot:     roster.Slot(row.Slot),
		})
	}

	return nil
}

func teamBaseSelectBuilder() *qb.SelectBuilder {
	return qb.Select(
		"id",
		"tournament_id",
		"user_id",
		"name",
		"pickups_used",
		"pickups_reset_at",
		"created_at",
		"updated_at",
	).From("teams")
}

func teamFromRow(row teamTableModel) team.Team {
	return team.Team{
		ID:             row.ID,
		TournamentID:   row.TournamentID,
		UserID:         row.UserID,
		Name:           row.Name,
		PickupsUsed:    row.PickupsUsed,
		PickupsResetAt: row.PickupsResetAt,
		CreatedAt:      row.CreatedAt,
		UpdatedAt:      row.UpdatedAt,
	}
}
