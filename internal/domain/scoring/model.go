package scoring

import (
	"errors"
	"time"
)

var ErrMatchAlreadyApplied = errors.New("match points already applied")

// MatchPerformance is one player's raw statistics for one match, as supplied
// by the live feed or manual admin entry. Absent optional fields stay at
// their zero value; the calculator skips the related bonus instead of
// rejecting the record.
type MatchPerformance struct {
	PlayerID    string
	MatchID     string
	Runs        int
	BallsFaced  int
	StrikeRate  float64
	Wickets     int
	OversBowled float64
	EconomyRate float64
	Maidens     int
	Catches     int
	RunOuts     int
	Stumpings   int
	IsKeeper    bool
}

// Scorecard bundles every performance of one match.
type Scorecard struct {
	TournamentID string
	MatchID      string
	StartedAt    time.Time
	Performances []MatchPerformance
}

// BreakdownItem is one labelled contribution to a player's match points.
type BreakdownItem struct {
	Label  string
	Points int
}

// MatchPoints is the calculator output for a single performance: the integer
// total plus the per-category breakdown shown to the admin during preview.
type MatchPoints struct {
	PlayerID  string
	Total     int
	Breakdown []BreakdownItem
}

// AppliedMatch records that a scorecard's points were committed to player
// totals, making apply idempotent per (tournament, match).
type AppliedMatch struct {
	TournamentID string
	MatchID      string
	PlayerCount  int
	TotalPoints  int
	AppliedAt    time.Time
}
