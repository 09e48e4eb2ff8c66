package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/sourcegraph/conc/pool"

	"github.com/riskibarqy/fantasy-cricket/internal/domain/player"
	"github.com/riskibarqy/fantasy-cricket/internal/domain/scoring"
	"github.com/riskibarqy/fantasy-cricket/internal/platform/resilience"
)

// StatsFeed supplies raw match scorecards from the upstream stats provider.
type StatsFeed interface {
	FetchScorecard(ctx context.Context, tournamentID, matchID string) (scoring.Scorecard, error)
}

// ScorecardRequest addresses one match's scorecard. Manual, when non-empty,
// replaces the feed payload entirely so admin-entered stats flow through the
// same preview→apply gate as live ones.
type ScorecardRequest struct {
	TournamentID string
	MatchID      string
	Manual       []scoring.MatchPerformance
}

// PlayerMatchRow is one player's computed points joined with the directory.
type PlayerMatchRow struct {
	PlayerID string
	Name     string
	Position player.Position
	Points   scoring.MatchPoints
}

// ScorecardPreview is the dry-run result the admin reviews before applying.
type ScorecardPreview struct {
	TournamentID   string
	MatchID        string
	AlreadyApplied bool
	TotalPoints    int
	Rows           []PlayerMatchRow
	SkippedPlayers []string
}

// ApplyResult reports one committed scorecard application.
type ApplyResult struct {
	Applied scoring.AppliedMatch
	Rows    []PlayerMatchRow
}

// ScoringService computes fantasy points from match scorecards. Preview is a
// pure dry run; apply commits the identical numbers to player totals exactly
// once per (tournament, match).
type ScoringService struct {
	playerRepo  player.Repository
	scoringRepo scoring.Repository
	feed        StatsFeed
	applyFlight resilience.SingleFlight
	logger      *slog.Logger
	now         func() time.Time
}

func NewScoringService(
	playerRepo player.Repository,
	scoringRepo scoring.Repository,
	feed StatsFeed,
	logger *slog.Logger,
) *ScoringService {
	if logger == nil {
		logger = slog.Default()
	}

	return &ScoringService{
		playerRepo:  playerRepo,
		scoringRepo: scoringRepo,
		feed:        feed,
		logger:      logger,
		now:         time.Now,
	}
}

// PreviewScorecard computes every player's points for the match without
// touching stored totals. Performances for players missing from the
// tournament directory are skipped and reported, never scored.
func (s *ScoringService) PreviewScorecard(ctx context.Context, req ScorecardRequest) (ScorecardPreview, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ScoringService.PreviewScorecard")
	defer span.End()

	rows, skipped, err := s.computeRows(ctx, &req)
	if err != nil {
		return ScorecardPreview{}, err
	}

	_, applied, err := s.scoringRepo.GetAppliedMatch(ctx, req.TournamentID, req.MatchID)
	if err != nil {
		return ScorecardPreview{}, fmt.Errorf("get applied match: %w", err)
	}

	preview := ScorecardPreview{
		TournamentID:   req.TournamentID,
		MatchID:        req.MatchID,
		AlreadyApplied: applied,
		Rows:           rows,
		SkippedPlayers: skipped,
	}
	for _, row := range rows {
		preview.TotalPoints += row.Points.Total
	}

	return preview, nil
}

// ApplyScorecard commits the match's points to player cumulative totals. A
// second apply for the same (tournament, match) is rejected; concurrent
// applies collapse onto one execution.
func (s *ScoringService) ApplyScorecard(ctx context.Context, req ScorecardRequest) (ApplyResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ScoringService.ApplyScorecard")
	defer span.End()

	rows, _, err := s.computeRows(ctx, &req)
	if err != nil {
		return ApplyResult{}, err
	}

	key := "apply:" + req.TournamentID + ":" + req.MatchID
	value, err, _ := s.applyFlight.Do(key, func() (any, error) {
		return s.commitRows(ctx, req, rows)
	})
	if err != nil {
		return ApplyResult{}, err
	}

	result, ok := value.(ApplyResult)
	if !ok {
		return ApplyResult{}, fmt.Errorf("unexpected apply result type %T", value)
	}

	return result, nil
}

func (s *ScoringService) ListAppliedMatches(ctx context.Context, tournamentID string) ([]scoring.AppliedMatch, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ScoringService.ListAppliedMatches")
	defer span.End()

	tournamentID = strings.TrimSpace(tournamentID)
	if tournamentID == "" {
		return nil, fmt.Errorf("%w: tournament_id is required", ErrInvalidInput)
	}

	matches, err := s.scoringRepo.ListAppliedMatches(ctx, tournamentID)
	if err != nil {
		return nil, fmt.Errorf("list applied matches: %w", err)
	}

	return matches, nil
}

func (s *ScoringService) commitRows(ctx context.Context, req ScorecardRequest, rows []PlayerMatchRow) (ApplyResult, error) {
	if _, applied, err := s.scoringRepo.GetAppliedMatch(ctx, req.TournamentID, req.MatchID); err != nil {
		return ApplyResult{}, fmt.Errorf("get applied match: %w", err)
	} else if applied {
		return ApplyResult{}, fmt.Errorf("match %s: %w", req.MatchID, scoring.ErrMatchAlreadyApplied)
	}

	total := 0
	for _, row := range rows {
		if err := s.playerRepo.AddMatchPoints(ctx, req.TournamentID, row.PlayerID, row.Points.Total); err != nil {
			return ApplyResult{}, fmt.Errorf("add match points for player %s: %w", row.PlayerID, err)
		}
		total += row.Points.Total
	}

	applied := scoring.AppliedMatch{
		TournamentID: req.TournamentID,
		MatchID:      req.MatchID,
		PlayerCount:  len(rows),
		TotalPoints:  total,
		AppliedAt:    s.now().UTC(),
	}
	if err := s.scoringRepo.RecordAppliedMatch(ctx, applied); err != nil {
		return ApplyResult{}, fmt.Errorf("record applied match: %w", err)
	}

	s.logger.InfoContext(ctx, "scorecard applied",
		"tournament_id", req.TournamentID,
		"match_id", req.MatchID,
		"players", len(rows),
		"total_points", total,
	)

	return ApplyResult{Applied: applied, Rows: rows}, nil
}

// computeRows resolves the scorecard, joins it against the player directory
// and fans the pure point computation out across a bounded worker pool.
func (s *ScoringService) computeRows(ctx context.Context, req *ScorecardRequest) ([]PlayerMatchRow, []string, error) {
	req.TournamentID = strings.TrimSpace(req.TournamentID)
	req.MatchID = strings.TrimSpace(req.MatchID)
	if req.TournamentID == "" || req.MatchID == "" {
		return nil, nil, fmt.Errorf("%w: tournament_id and match_id are required", ErrInvalidInput)
	}

	performances := req.Manual
	if len(performances) == 0 {
		if s.feed == nil {
			return nil, nil, fmt.Errorf("%w: no stats feed configured", ErrDependencyUnavailable)
		}
		card, err := s.feed.FetchScorecard(ctx, req.TournamentID, req.MatchID)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: fetch scorecard for match %s: %v", ErrDependencyUnavailable, req.MatchID, err)
		}
		performances = card.Performances
	}
	if len(performances) == 0 {
		return nil, nil, fmt.Errorf("%w: scorecard has no performances", ErrInvalidInput)
	}

	playerIDs := make([]string, 0, len(performances))
	for _, perf := range performances {
		if perf.PlayerID == "" {
			return nil, nil, fmt.Errorf("%w: performance missing player id", ErrInvalidInput)
		}
		playerIDs = append(playerIDs, perf.PlayerID)
	}
	known, err := s.playerRepo.GetByIDs(ctx, req.TournamentID, playerIDs)
	if err != nil {
		return nil, nil, fmt.Errorf("get players by ids: %w", err)
	}
	byID := make(map[string]player.Player, len(known))
	for _, item := range known {
		byID[item.ID] = item
	}

	scored := make([]scoring.MatchPerformance, 0, len(performances))
	var skipped []string
	for _, perf := range performances {
		if _, ok := byID[perf.PlayerID]; !ok {
			skipped = append(skipped, perf.PlayerID)
			continue
		}
		scored = append(scored, perf)
	}
	if len(skipped) > 0 {
		s.logger.WarnContext(ctx, "scorecard names unknown players",
			"tournament_id", req.TournamentID,
			"match_id", req.MatchID,
			"skipped", len(skipped),
		)
	}

	// Each task writes its own slot so row i always pairs with scored[i],
	// whatever order the workers finish in.
	points := make([]scoring.MatchPoints, len(scored))
	workers := pool.New().WithMaxGoroutines(8)
	for i, perf := range scored {
		workers.Go(func() {
			points[i] = scoring.Points(perf)
		})
	}
	workers.Wait()

	rows := make([]PlayerMatchRow, 0, len(points))
	for i, pts := range points {
		item := byID[scored[i].PlayerID]
		rows = append(rows, PlayerMatchRow{
			PlayerID: item.ID,
			Name:     item.Name,
			Position: item.Position,
			Points:   pts,
		})
	}

	return rows, skipped, nil
}
