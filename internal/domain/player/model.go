package player

import "fmt"

// Position represents cricket role categories used in roster rules.
type Position string

const (
	PositionBatter     Position = "BAT"
	PositionKeeper     Position = "WK"
	PositionBowler     Position = "BOWL"
	PositionAllrounder Position = "AR"
)

var AllPositions = map[Position]struct{}{
	PositionBatter:     {},
	PositionKeeper:     {},
	PositionBowler:     {},
	PositionAllrounder: {},
}

// Player is a draftable athlete in a tournament's player pool. Identity is
// immutable once drafted; point totals accumulate through the scoring apply
// flow only.
type Player struct {
	ID            string
	TournamentID  string
	Name          string
	SourceTeam    string
	Position      Position
	TotalPoints   int
	MatchesPlayed int
}

func (p Player) Validate() error {
	if p.ID == "" {
		return fmt.Errorf("player id is required")
	}
	if p.TournamentID == "" {
		return fmt.Errorf("player tournament id is required")
	}
	if p.Name == "" {
		return fmt.Errorf("player name is required")
	}
	if _, ok := AllPositions[p.Position]; !ok {
		return fmt.Errorf("invalid player position: %s", p.Position)
	}
	if p.TotalPoints < 0 {
		return fmt.Errorf("player total points cannot be negative")
	}
	if p.MatchesPlayed < 0 {
		return fmt.Errorf("player matches played cannot be negative")
	}

	return nil
}
