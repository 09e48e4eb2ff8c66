package usecase

import (
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/riskibarqy/fantasy-cricket/internal/domain/roster"
	"github.com/riskibarqy/fantasy-cricket/internal/domain/tournament"
	"github.com/riskibarqy/fantasy-cricket/internal/infrastructure/repository/memory"
)

type staticIDGenerator struct {
	id string
}

func (g staticIDGenerator) NewID() (string, error) {
	return g.id, nil
}

func newTeamFixture(t *testing.T) *TeamService {
	t.Helper()

	tournamentRepo := memory.NewTournamentRepository()
	tournamentRepo.Put(tournament.Tournament{
		ID:                 "t1",
		Name:               "T20 Blast",
		Season:             "2026",
		DraftRounds:        12,
		WeeklyPickupBudget: 2,
	})

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	return NewTeamService(tournamentRepo, memory.NewTeamRepository(), staticIDGenerator{id: "team-001"}, logger)
}

func TestTeamService_CreateTeam(t *testing.T) {
	service := newTeamFixture(t)
	now := time.Date(2026, 6, 10, 12, 0, 0, 0, time.UTC)
	service.now = func() time.Time { return now }

	created, err := service.CreateTeam(t.Context(), CreateTeamInput{
		UserID:       "user-1",
		TournamentID: "t1",
		Name:         "Boundary Riders",
	})
	if err != nil {
		t.Fatalf("create team: %v", err)
	}
	if created.ID != "team-001" {
		t.Fatalf("expected id team-001, got %s", created.ID)
	}
	if !created.PickupsResetAt.Equal(roster.StartOfISOWeek(now)) {
		t.Fatalf("expected pickup anchor %v, got %v", roster.StartOfISOWeek(now), created.PickupsResetAt)
	}
	if created.PickupsUsed != 0 || len(created.Entries) != 0 {
		t.Fatalf("expected a fresh team, got %+v", created)
	}
}

func TestTeamService_OneTeamPerUserPerTournament(t *testing.T) {
	service := newTeamFixture(t)

	if _, err := service.CreateTeam(t.Context(), CreateTeamInput{
		UserID: "user-1", TournamentID: "t1", Name: "First XI",
	}); err != nil {
		t.Fatalf("create team: %v", err)
	}

	_, err := service.CreateTeam(t.Context(), CreateTeamInput{
		UserID: "user-1", TournamentID: "t1", Name: "Second Try",
	})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for duplicate registration, got %v", err)
	}
}

func TestTeamService_CreateTeamValidation(t *testing.T) {
	service := newTeamFixture(t)

	_, err := service.CreateTeam(t.Context(), CreateTeamInput{TournamentID: "t1", Name: "No User"})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for missing user, got %v", err)
	}

	_, err = service.CreateTeam(t.Context(), CreateTeamInput{
		UserID: "user-1", TournamentID: "missing", Name: "Lost XI",
	})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for unknown tournament, got %v", err)
	}
}

func TestTeamService_GetTeamByUser(t *testing.T) {
	service := newTeamFixture(t)

	created, err := service.CreateTeam(t.Context(), CreateTeamInput{
		UserID: "user-1", TournamentID: "t1", Name: "Boundary Riders",
	})
	if err != nil {
		t.Fatalf("create team: %v", err)
	}

	found, exists, err := service.GetTeamByUser(t.Context(), "user-1", "t1")
	if err != nil {
		t.Fatalf("get team by user: %v", err)
	}
	if !exists || found.ID != created.ID {
		t.Fatalf("expected team %s for user-1, got exists=%v id=%s", created.ID, exists, found.ID)
	}

	if _, exists, err := service.GetTeamByUser(t.Context(), "user-2", "t1"); err != nil || exists {
		t.Fatalf("expected no team for user-2, got exists=%v err=%v", exists, err)
	}
}
