package usecase

import (
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/riskibarqy/fantasy-cricket/internal/domain/draft"
	"github.com/riskibarqy/fantasy-cricket/internal/domain/player"
	"github.com/riskibarqy/fantasy-cricket/internal/domain/roster"
	"github.com/riskibarqy/fantasy-cricket/internal/domain/team"
	"github.com/riskibarqy/fantasy-cricket/internal/domain/tournament"
	"github.com/riskibarqy/fantasy-cricket/internal/infrastructure/repository/memory"
)

type draftFixture struct {
	service        *DraftService
	tournamentRepo *memory.TournamentRepository
	teamRepo       *memory.TeamRepository
	playerRepo     *memory.PlayerRepository
	draftRepo      *memory.DraftRepository
}

func newDraftFixture(t *testing.T, rounds int) draftFixture {
	t.Helper()

	tournamentRepo := memory.NewTournamentRepository()
	tournamentRepo.Put(tournament.Tournament{
		ID:                 "t1",
		Name:               "T20 Blast",
		Season:             "2026",
		DraftRounds:        rounds,
		WeeklyPickupBudget: 2,
	})

	playerRepo := memory.NewPlayerRepository()
	positions := []player.Position{
		player.PositionBatter,
		player.PositionBowler,
		player.PositionKeeper,
		player.PositionAllrounder,
		player.PositionBatter,
		player.PositionBowler,
	}
	for idx, position := range positions {
		playerRepo.Put(player.Player{
			ID:           "p" + string(rune('1'+idx)),
			TournamentID: "t1",
			Name:         "Player " + string(rune('1'+idx)),
			SourceTeam:   "Northern Strikers",
			Position:     position,
		})
	}

	teamRepo := memory.NewTeamRepository()
	base := time.Date(2026, 6, 1, 10, 0, 0, 0, time.UTC)
	for idx, id := range []string{"team-a", "team-b"} {
		if err := teamRepo.Upsert(t.Context(), team.Team{
			ID:             id,
			TournamentID:   "t1",
			UserID:         "user-" + id,
			Name:           "Team " + id,
			PickupsResetAt: base,
			CreatedAt:      base.Add(time.Duration(idx) * time.Minute),
			UpdatedAt:      base,
		}); err != nil {
			t.Fatalf("seed team %s: %v", id, err)
		}
	}

	draftRepo := memory.NewDraftRepository()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	service := NewDraftService(tournamentRepo, teamRepo, playerRepo, draftRepo, nil, logger)

	return draftFixture{
		service:        service,
		tournamentRepo: tournamentRepo,
		teamRepo:       teamRepo,
		playerRepo:     playerRepo,
		draftRepo:      draftRepo,
	}
}

func (f draftFixture) startDraft(t *testing.T) draft.Session {
	t.Helper()

	if _, err := f.service.OpenRegistration(t.Context(), "t1"); err != nil {
		t.Fatalf("open registration: %v", err)
	}
	session, err := f.service.StartDraft(t.Context(), StartDraftInput{TournamentID: "t1"})
	if err != nil {
		t.Fatalf("start draft: %v", err)
	}

	return session
}

func TestDraftService_FullDraftRoundTrip(t *testing.T) {
	fixture := newDraftFixture(t, 2)
	session := fixture.startDraft(t)

	if session.Status != draft.StatusInProgress {
		t.Fatalf("expected in_progress, got %s", session.Status)
	}
	if len(session.Order) != 4 {
		t.Fatalf("expected 4 order entries for 2 teams x 2 rounds, got %d", len(session.Order))
	}

	// Snake order: a, b, b, a.
	wantTurns := []struct {
		teamID   string
		playerID string
	}{
		{"team-a", "p1"},
		{"team-b", "p2"},
		{"team-b", "p3"},
		{"team-a", "p4"},
	}
	for idx, turn := range wantTurns {
		result, err := fixture.service.MakePick(t.Context(), MakePickInput{
			TournamentID: "t1",
			TeamID:       turn.teamID,
			PlayerID:     turn.playerID,
		})
		if err != nil {
			t.Fatalf("pick %d: %v", idx+1, err)
		}
		if result.Pick.Number != idx+1 {
			t.Fatalf("pick %d: expected number %d, got %d", idx+1, idx+1, result.Pick.Number)
		}
		if result.Session.Cursor != idx+1 {
			t.Fatalf("pick %d: expected cursor %d, got %d", idx+1, idx+1, result.Session.Cursor)
		}
	}

	final, err := fixture.service.GetState(t.Context(), "t1")
	if err != nil {
		t.Fatalf("get state: %v", err)
	}
	if final.Status != draft.StatusCompleted {
		t.Fatalf("expected completed draft, got %s", final.Status)
	}
	if final.CompletedAt == nil {
		t.Fatal("expected completed_at to be set")
	}
	if final.Cursor != len(final.Order) {
		t.Fatalf("expected cursor %d at completion, got %d", len(final.Order), final.Cursor)
	}

	teamA, _, err := fixture.teamRepo.GetByID(t.Context(), "t1", "team-a")
	if err != nil {
		t.Fatalf("get team-a: %v", err)
	}
	if len(teamA.Entries) != 2 {
		t.Fatalf("expected 2 roster entries for team-a, got %d", len(teamA.Entries))
	}
	for _, entry := range teamA.Entries {
		if entry.Slot == roster.SlotBench {
			t.Fatalf("drafted player %s landed on the bench", entry.PlayerID)
		}
	}
}

func TestDraftService_PickRounds(t *testing.T) {
	fixture := newDraftFixture(t, 3)
	fixture.startDraft(t)

	picks := []struct {
		teamID    string
		playerID  string
		wantRound int
	}{
		{"team-a", "p1", 1},
		{"team-b", "p2", 1},
		{"team-b", "p3", 2},
		{"team-a", "p4", 2},
		{"team-a", "p5", 3},
		{"team-b", "p6", 3},
	}
	for _, tt := range picks {
		result, err := fixture.service.MakePick(t.Context(), MakePickInput{
			TournamentID: "t1",
			TeamID:       tt.teamID,
			PlayerID:     tt.playerID,
		})
		if err != nil {
			t.Fatalf("pick %s by %s: %v", tt.playerID, tt.teamID, err)
		}
		if result.Pick.Round != tt.wantRound {
			t.Fatalf("pick %s: expected round %d, got %d", tt.playerID, tt.wantRound, result.Pick.Round)
		}
	}
}

func TestDraftService_OutOfTurnPickRejected(t *testing.T) {
	fixture := newDraftFixture(t, 2)
	fixture.startDraft(t)

	_, err := fixture.service.MakePick(t.Context(), MakePickInput{
		TournamentID: "t1",
		TeamID:       "team-b",
		PlayerID:     "p1",
	})
	if !errors.Is(err, draft.ErrNotYourTurn) {
		t.Fatalf("expected ErrNotYourTurn, got %v", err)
	}

	session, err := fixture.service.GetState(t.Context(), "t1")
	if err != nil {
		t.Fatalf("get state: %v", err)
	}
	if session.Cursor != 0 {
		t.Fatalf("expected cursor unchanged at 0, got %d", session.Cursor)
	}
	picks, err := fixture.service.ListPicksAfter(t.Context(), "t1", 0)
	if err != nil {
		t.Fatalf("list picks: %v", err)
	}
	if len(picks) != 0 {
		t.Fatalf("expected no committed picks, got %d", len(picks))
	}
}

func TestDraftService_DoubleStartRejected(t *testing.T) {
	fixture := newDraftFixture(t, 2)
	first := fixture.startDraft(t)

	_, err := fixture.service.StartDraft(t.Context(), StartDraftInput{TournamentID: "t1"})
	if !errors.Is(err, draft.ErrAlreadyStarted) {
		t.Fatalf("expected ErrAlreadyStarted, got %v", err)
	}

	session, err := fixture.service.GetState(t.Context(), "t1")
	if err != nil {
		t.Fatalf("get state: %v", err)
	}
	if len(session.Order) != len(first.Order) {
		t.Fatalf("expected order unchanged, got %d vs %d entries", len(session.Order), len(first.Order))
	}
	for idx := range session.Order {
		if session.Order[idx] != first.Order[idx] {
			t.Fatalf("order entry %d changed: %+v vs %+v", idx, session.Order[idx], first.Order[idx])
		}
	}
}

func TestDraftService_TakenPlayerRejected(t *testing.T) {
	fixture := newDraftFixture(t, 2)
	fixture.startDraft(t)

	if _, err := fixture.service.MakePick(t.Context(), MakePickInput{
		TournamentID: "t1", TeamID: "team-a", PlayerID: "p1",
	}); err != nil {
		t.Fatalf("first pick: %v", err)
	}

	_, err := fixture.service.MakePick(t.Context(), MakePickInput{
		TournamentID: "t1", TeamID: "team-b", PlayerID: "p1",
	})
	if !errors.Is(err, draft.ErrPlayerTaken) {
		t.Fatalf("expected ErrPlayerTaken, got %v", err)
	}
}

func TestDraftService_PlayerOnAnotherRosterRejected(t *testing.T) {
	fixture := newDraftFixture(t, 2)
	fixture.startDraft(t)

	// p5 reaches team-b's bench as a mid-draft pickup, not through a pick.
	teamB, _, err := fixture.teamRepo.GetByID(t.Context(), "t1", "team-b")
	if err != nil {
		t.Fatalf("get team-b: %v", err)
	}
	teamB.Entries = append(teamB.Entries, roster.Entry{PlayerID: "p5", Slot: roster.SlotBench})
	if err := fixture.teamRepo.Upsert(t.Context(), teamB); err != nil {
		t.Fatalf("upsert team-b: %v", err)
	}

	_, err = fixture.service.MakePick(t.Context(), MakePickInput{
		TournamentID: "t1", TeamID: "team-a", PlayerID: "p5",
	})
	if !errors.Is(err, draft.ErrPlayerTaken) {
		t.Fatalf("expected ErrPlayerTaken for rostered player, got %v", err)
	}

	session, err := fixture.service.GetState(t.Context(), "t1")
	if err != nil {
		t.Fatalf("get state: %v", err)
	}
	if session.Cursor != 0 {
		t.Fatalf("expected cursor unchanged at 0, got %d", session.Cursor)
	}
}

func TestDraftService_StartRequiresOpenRegistration(t *testing.T) {
	fixture := newDraftFixture(t, 2)

	_, err := fixture.service.StartDraft(t.Context(), StartDraftInput{TournamentID: "t1"})
	if !errors.Is(err, draft.ErrDraftNotOpen) {
		t.Fatalf("expected ErrDraftNotOpen, got %v", err)
	}

	// AdminOverride starts straight from pending.
	session, err := fixture.service.StartDraft(t.Context(), StartDraftInput{TournamentID: "t1", AdminOverride: true})
	if err != nil {
		t.Fatalf("start with override: %v", err)
	}
	if session.Status != draft.StatusInProgress {
		t.Fatalf("expected in_progress after override start, got %s", session.Status)
	}
}

func TestDraftService_StartNeedsEnoughTeams(t *testing.T) {
	solo := newDraftFixtureWithTeams(t, 1)

	if _, err := solo.service.OpenRegistration(t.Context(), "t1"); err != nil {
		t.Fatalf("open registration: %v", err)
	}
	_, err := solo.service.StartDraft(t.Context(), StartDraftInput{TournamentID: "t1"})
	if !errors.Is(err, draft.ErrNotEnoughTeams) {
		t.Fatalf("expected ErrNotEnoughTeams, got %v", err)
	}
}

func TestDraftService_PickWithoutSession(t *testing.T) {
	fixture := newDraftFixture(t, 2)

	_, err := fixture.service.MakePick(t.Context(), MakePickInput{
		TournamentID: "t1", TeamID: "team-a", PlayerID: "p1",
	})
	if !errors.Is(err, draft.ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound, got %v", err)
	}
}

func TestDraftService_ResetKeepsPickups(t *testing.T) {
	fixture := newDraftFixture(t, 2)
	fixture.startDraft(t)

	if _, err := fixture.service.MakePick(t.Context(), MakePickInput{
		TournamentID: "t1", TeamID: "team-a", PlayerID: "p1",
	}); err != nil {
		t.Fatalf("pick: %v", err)
	}

	// Give team-a a bench player that did not come from the draft.
	teamA, _, err := fixture.teamRepo.GetByID(t.Context(), "t1", "team-a")
	if err != nil {
		t.Fatalf("get team-a: %v", err)
	}
	teamA.Entries = append(teamA.Entries, roster.Entry{PlayerID: "p6", Slot: roster.SlotBench})
	if err := fixture.teamRepo.Upsert(t.Context(), teamA); err != nil {
		t.Fatalf("upsert team-a: %v", err)
	}

	session, err := fixture.service.ResetDraft(t.Context(), "t1")
	if err != nil {
		t.Fatalf("reset draft: %v", err)
	}
	if session.Status != draft.StatusOpen {
		t.Fatalf("expected open after reset, got %s", session.Status)
	}
	if session.Cursor != 0 || len(session.Order) != 0 {
		t.Fatalf("expected empty session after reset, got cursor=%d order=%d", session.Cursor, len(session.Order))
	}

	// Open means a re-draft can start without reopening registration.
	if _, err := fixture.service.StartDraft(t.Context(), StartDraftInput{TournamentID: "t1"}); err != nil {
		t.Fatalf("restart after reset: %v", err)
	}

	picks, err := fixture.service.ListPicksAfter(t.Context(), "t1", 0)
	if err != nil {
		t.Fatalf("list picks: %v", err)
	}
	if len(picks) != 0 {
		t.Fatalf("expected picks cleared, got %d", len(picks))
	}

	teamA, _, err = fixture.teamRepo.GetByID(t.Context(), "t1", "team-a")
	if err != nil {
		t.Fatalf("get team-a after reset: %v", err)
	}
	if len(teamA.Entries) != 1 || teamA.Entries[0].PlayerID != "p6" {
		t.Fatalf("expected only the pickup to survive reset, got %+v", teamA.Entries)
	}
}

func TestDraftService_OpenRegistrationIdempotent(t *testing.T) {
	fixture := newDraftFixture(t, 2)

	first, err := fixture.service.OpenRegistration(t.Context(), "t1")
	if err != nil {
		t.Fatalf("open registration: %v", err)
	}
	second, err := fixture.service.OpenRegistration(t.Context(), "t1")
	if err != nil {
		t.Fatalf("reopen registration: %v", err)
	}
	if first.Status != draft.StatusOpen || second.Status != draft.StatusOpen {
		t.Fatalf("expected open status both times, got %s then %s", first.Status, second.Status)
	}

	fixture.startDraft(t)
	if _, err := fixture.service.OpenRegistration(t.Context(), "t1"); !errors.Is(err, draft.ErrAlreadyStarted) {
		t.Fatalf("expected ErrAlreadyStarted reopening a started draft, got %v", err)
	}
}

func TestDraftService_UnknownTournament(t *testing.T) {
	fixture := newDraftFixture(t, 2)

	_, err := fixture.service.OpenRegistration(t.Context(), "missing")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

// newDraftFixtureWithTeams seeds a fixture with exactly teamCount teams.
func newDraftFixtureWithTeams(t *testing.T, teamCount int) draftFixture {
	t.Helper()

	fixture := newDraftFixture(t, 2)
	teams, err := fixture.teamRepo.ListByTournament(t.Context(), "t1")
	if err != nil {
		t.Fatalf("list teams: %v", err)
	}

	teamRepo := memory.NewTeamRepository()
	for idx, item := range teams {
		if idx >= teamCount {
			break
		}
		if err := teamRepo.Upsert(t.Context(), item); err != nil {
			t.Fatalf("upsert team: %v", err)
		}
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	fixture.teamRepo = teamRepo
	fixture.service = NewDraftService(fixture.tournamentRepo, teamRepo, fixture.playerRepo, fixture.draftRepo, nil, logger)

	return fixture
}
