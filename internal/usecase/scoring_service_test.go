package usecase

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"testing"

	"github.com/riskibarqy/fantasy-cricket/internal/domain/player"
	"github.com/riskibarqy/fantasy-cricket/internal/domain/scoring"
	"github.com/riskibarqy/fantasy-cricket/internal/infrastructure/repository/memory"
)

type stubFeed struct {
	card  scoring.Scorecard
	err   error
	calls int
}

func (f *stubFeed) FetchScorecard(_ context.Context, _, _ string) (scoring.Scorecard, error) {
	f.calls++
	if f.err != nil {
		return scoring.Scorecard{}, f.err
	}
	return f.card, nil
}

func newScoringFixture(t *testing.T, feed StatsFeed) (*ScoringService, *memory.PlayerRepository) {
	t.Helper()

	playerRepo := memory.NewPlayerRepository()
	playerRepo.Put(player.Player{
		ID: "p1", TournamentID: "t1", Name: "Opening Bat", SourceTeam: "Harbour Hawks",
		Position: player.PositionBatter,
	})
	playerRepo.Put(player.Player{
		ID: "p2", TournamentID: "t1", Name: "Strike Bowler", SourceTeam: "Harbour Hawks",
		Position: player.PositionBowler,
	})

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	service := NewScoringService(playerRepo, memory.NewScoringRepository(), feed, logger)

	return service, playerRepo
}

func feedScorecard() scoring.Scorecard {
	return scoring.Scorecard{
		TournamentID: "t1",
		MatchID:      "m1",
		Performances: []scoring.MatchPerformance{
			{PlayerID: "p1", MatchID: "m1", Runs: 45, StrikeRate: 150},
			{PlayerID: "p2", MatchID: "m1", Wickets: 2, OversBowled: 4, EconomyRate: 6},
		},
	}
}

func TestScoringService_PreviewDoesNotMutateTotals(t *testing.T) {
	service, playerRepo := newScoringFixture(t, &stubFeed{card: feedScorecard()})

	preview, err := service.PreviewScorecard(t.Context(), ScorecardRequest{TournamentID: "t1", MatchID: "m1"})
	if err != nil {
		t.Fatalf("preview: %v", err)
	}
	if preview.AlreadyApplied {
		t.Fatal("expected already_applied=false before apply")
	}
	if preview.TotalPoints != 135 {
		t.Fatalf("expected total 135 (65+70), got %d", preview.TotalPoints)
	}

	p1, _, err := playerRepo.GetByID(t.Context(), "t1", "p1")
	if err != nil {
		t.Fatalf("get p1: %v", err)
	}
	if p1.TotalPoints != 0 || p1.MatchesPlayed != 0 {
		t.Fatalf("expected preview to leave totals untouched, got %d points %d matches", p1.TotalPoints, p1.MatchesPlayed)
	}
}

func TestScoringService_ApplyIsIdempotent(t *testing.T) {
	service, playerRepo := newScoringFixture(t, &stubFeed{card: feedScorecard()})

	result, err := service.ApplyScorecard(t.Context(), ScorecardRequest{TournamentID: "t1", MatchID: "m1"})
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	if result.Applied.TotalPoints != 135 || result.Applied.PlayerCount != 2 {
		t.Fatalf("unexpected applied record %+v", result.Applied)
	}

	p1, _, err := playerRepo.GetByID(t.Context(), "t1", "p1")
	if err != nil {
		t.Fatalf("get p1: %v", err)
	}
	if p1.TotalPoints != 65 || p1.MatchesPlayed != 1 {
		t.Fatalf("expected p1 at 65 points after apply, got %d points %d matches", p1.TotalPoints, p1.MatchesPlayed)
	}

	_, err = service.ApplyScorecard(t.Context(), ScorecardRequest{TournamentID: "t1", MatchID: "m1"})
	if !errors.Is(err, scoring.ErrMatchAlreadyApplied) {
		t.Fatalf("expected ErrMatchAlreadyApplied, got %v", err)
	}

	p1, _, err = playerRepo.GetByID(t.Context(), "t1", "p1")
	if err != nil {
		t.Fatalf("get p1 again: %v", err)
	}
	if p1.TotalPoints != 65 {
		t.Fatalf("expected totals unchanged by rejected reapply, got %d", p1.TotalPoints)
	}

	preview, err := service.PreviewScorecard(t.Context(), ScorecardRequest{TournamentID: "t1", MatchID: "m1"})
	if err != nil {
		t.Fatalf("preview after apply: %v", err)
	}
	if !preview.AlreadyApplied {
		t.Fatal("expected already_applied=true after apply")
	}
}

func TestScoringService_ManualPerformancesBypassFeed(t *testing.T) {
	feed := &stubFeed{err: fmt.Errorf("feed down")}
	service, _ := newScoringFixture(t, feed)

	preview, err := service.PreviewScorecard(t.Context(), ScorecardRequest{
		TournamentID: "t1",
		MatchID:      "m2",
		Manual: []scoring.MatchPerformance{
			{PlayerID: "p1", MatchID: "m2", Runs: 30},
		},
	})
	if err != nil {
		t.Fatalf("manual preview: %v", err)
	}
	if preview.TotalPoints != 30 {
		t.Fatalf("expected 30 points from manual stats, got %d", preview.TotalPoints)
	}
	if feed.calls != 0 {
		t.Fatalf("expected feed untouched for manual stats, got %d calls", feed.calls)
	}
}

func TestScoringService_RowsPairEachPlayerWithOwnPoints(t *testing.T) {
	service, playerRepo := newScoringFixture(t, &stubFeed{})

	// Each player scores exactly their own run count (all below the
	// strike-rate gate), so any cross-credit between workers is visible.
	perfs := make([]scoring.MatchPerformance, 0, 64)
	wantTotal := make(map[string]int, 64)
	for i := 0; i < 64; i++ {
		id := fmt.Sprintf("pair-%02d", i)
		playerRepo.Put(player.Player{
			ID: id, TournamentID: "t1", Name: id, Position: player.PositionBatter,
		})
		runs := i + 1
		perfs = append(perfs, scoring.MatchPerformance{PlayerID: id, MatchID: "m7", Runs: runs})
		wantTotal[id] = runs
	}

	for attempt := 0; attempt < 10; attempt++ {
		preview, err := service.PreviewScorecard(t.Context(), ScorecardRequest{
			TournamentID: "t1",
			MatchID:      "m7",
			Manual:       perfs,
		})
		if err != nil {
			t.Fatalf("attempt %d: preview: %v", attempt, err)
		}
		if len(preview.Rows) != len(perfs) {
			t.Fatalf("attempt %d: expected %d rows, got %d", attempt, len(perfs), len(preview.Rows))
		}
		for _, row := range preview.Rows {
			if row.Points.Total != wantTotal[row.PlayerID] {
				t.Fatalf("attempt %d: player %s scored %d runs but was credited %d points",
					attempt, row.PlayerID, wantTotal[row.PlayerID], row.Points.Total)
			}
		}
	}
}

func TestScoringService_UnknownPlayersSkipped(t *testing.T) {
	card := feedScorecard()
	card.Performances = append(card.Performances, scoring.MatchPerformance{
		PlayerID: "ghost", MatchID: "m1", Runs: 99,
	})
	service, _ := newScoringFixture(t, &stubFeed{card: card})

	preview, err := service.PreviewScorecard(t.Context(), ScorecardRequest{TournamentID: "t1", MatchID: "m1"})
	if err != nil {
		t.Fatalf("preview: %v", err)
	}
	if len(preview.Rows) != 2 {
		t.Fatalf("expected 2 scored rows, got %d", len(preview.Rows))
	}
	if len(preview.SkippedPlayers) != 1 || preview.SkippedPlayers[0] != "ghost" {
		t.Fatalf("expected ghost in skipped players, got %v", preview.SkippedPlayers)
	}
	if preview.TotalPoints != 135 {
		t.Fatalf("expected skipped player to contribute nothing, got %d", preview.TotalPoints)
	}
}

func TestScoringService_FeedFailureIsDependencyError(t *testing.T) {
	service, _ := newScoringFixture(t, &stubFeed{err: fmt.Errorf("upstream 503")})

	_, err := service.PreviewScorecard(t.Context(), ScorecardRequest{TournamentID: "t1", MatchID: "m1"})
	if !errors.Is(err, ErrDependencyUnavailable) {
		t.Fatalf("expected ErrDependencyUnavailable, got %v", err)
	}
}

func TestScoringService_EmptyRequestRejected(t *testing.T) {
	service, _ := newScoringFixture(t, &stubFeed{card: feedScorecard()})

	_, err := service.PreviewScorecard(t.Context(), ScorecardRequest{})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}

	_, err = service.PreviewScorecard(t.Context(), ScorecardRequest{
		TournamentID: "t1",
		MatchID:      "m9",
		Manual: []scoring.MatchPerformance{
			{MatchID: "m9", Runs: 10},
		},
	})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for missing player id, got %v", err)
	}
}

func TestScoringService_ListAppliedMatches(t *testing.T) {
	service, _ := newScoringFixture(t, &stubFeed{card: feedScorecard()})

	if _, err := service.ApplyScorecard(t.Context(), ScorecardRequest{TournamentID: "t1", MatchID: "m1"}); err != nil {
		t.Fatalf("apply: %v", err)
	}

	matches, err := service.ListAppliedMatches(t.Context(), "t1")
	if err != nil {
		t.Fatalf("list applied: %v", err)
	}
	if len(matches) != 1 || matches[0].MatchID != "m1" {
		t.Fatalf("expected one applied match m1, got %+v", matches)
	}
}
