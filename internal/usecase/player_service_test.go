package usecase

import (
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/riskibarqy/fantasy-cricket/internal/domain/player"
	"github.com/riskibarqy/fantasy-cricket/internal/domain/roster"
	"github.com/riskibarqy/fantasy-cricket/internal/domain/team"
	"github.com/riskibarqy/fantasy-cricket/internal/domain/tournament"
	"github.com/riskibarqy/fantasy-cricket/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/fantasy-cricket/internal/platform/cache"
)

func newPlayerFixture(t *testing.T, store *cache.Store) (*PlayerService, *memory.TeamRepository) {
	t.Helper()

	tournamentRepo := memory.NewTournamentRepository()
	tournamentRepo.Put(tournament.Tournament{
		ID: "t1", Name: "T20 Blast", Season: "2026", DraftRounds: 12, WeeklyPickupBudget: 2,
	})

	playerRepo := memory.NewPlayerRepository()
	playerRepo.Put(player.Player{
		ID: "p1", TournamentID: "t1", Name: "Opening Bat", SourceTeam: "Ridgeview Royals",
		Position: player.PositionBatter,
	})
	playerRepo.Put(player.Player{
		ID: "p2", TournamentID: "t1", Name: "Strike Bowler", SourceTeam: "Ridgeview Royals",
		Position: player.PositionBowler,
	})

	teamRepo := memory.NewTeamRepository()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	return NewPlayerService(tournamentRepo, playerRepo, teamRepo, store, logger), teamRepo
}

func TestPlayerService_ListPlayersAnnotatesOwnership(t *testing.T) {
	service, teamRepo := newPlayerFixture(t, nil)

	if err := teamRepo.Upsert(t.Context(), team.Team{
		ID: "team-a", TournamentID: "t1", UserID: "user-1", Name: "Team A",
		Entries:   []roster.Entry{{PlayerID: "p1", Slot: roster.SlotBatters}},
		CreatedAt: time.Now(), UpdatedAt: time.Now(),
	}); err != nil {
		t.Fatalf("seed team: %v", err)
	}

	listing, err := service.ListPlayers(t.Context(), "t1")
	if err != nil {
		t.Fatalf("list players: %v", err)
	}
	if len(listing) != 2 {
		t.Fatalf("expected 2 players, got %d", len(listing))
	}

	byID := make(map[string]PlayerWithStatus, len(listing))
	for _, item := range listing {
		byID[item.ID] = item
	}
	if byID["p1"].OwnedByTeamID != "team-a" {
		t.Fatalf("expected p1 owned by team-a, got %q", byID["p1"].OwnedByTeamID)
	}
	if byID["p2"].OwnedByTeamID != "" {
		t.Fatalf("expected p2 unowned, got %q", byID["p2"].OwnedByTeamID)
	}
}

func TestPlayerService_DirectoryCacheServesStaleUntilInvalidated(t *testing.T) {
	store := cache.NewStore(time.Minute)
	service, teamRepo := newPlayerFixture(t, store)

	first, err := service.ListPlayers(t.Context(), "t1")
	if err != nil {
		t.Fatalf("first list: %v", err)
	}
	for _, item := range first {
		if item.OwnedByTeamID != "" {
			t.Fatalf("expected no owners initially, got %+v", item)
		}
	}

	if err := teamRepo.Upsert(t.Context(), team.Team{
		ID: "team-a", TournamentID: "t1", UserID: "user-1", Name: "Team A",
		Entries:   []roster.Entry{{PlayerID: "p1", Slot: roster.SlotBatters}},
		CreatedAt: time.Now(), UpdatedAt: time.Now(),
	}); err != nil {
		t.Fatalf("seed team: %v", err)
	}

	// The cached directory is still the pre-ownership snapshot.
	second, err := service.ListPlayers(t.Context(), "t1")
	if err != nil {
		t.Fatalf("second list: %v", err)
	}
	for _, item := range second {
		if item.OwnedByTeamID != "" {
			t.Fatal("expected cached listing to lag roster changes")
		}
	}

	store.DeletePrefix(t.Context(), directoryCacheKey("t1"))

	third, err := service.ListPlayers(t.Context(), "t1")
	if err != nil {
		t.Fatalf("third list: %v", err)
	}
	sawOwner := false
	for _, item := range third {
		if item.ID == "p1" && item.OwnedByTeamID == "team-a" {
			sawOwner = true
		}
	}
	if !sawOwner {
		t.Fatal("expected rebuilt listing to show ownership after invalidation")
	}
}

func TestPlayerService_GetPlayer(t *testing.T) {
	service, _ := newPlayerFixture(t, nil)

	item, err := service.GetPlayer(t.Context(), "t1", "p1")
	if err != nil {
		t.Fatalf("get player: %v", err)
	}
	if item.Name != "Opening Bat" {
		t.Fatalf("unexpected player %+v", item)
	}

	if _, err := service.GetPlayer(t.Context(), "t1", "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
