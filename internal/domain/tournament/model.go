package tournament

import "fmt"

// Tournament is a real-world competition the fantasy league runs against.
// DraftRounds doubles as the roster size every team drafts to; the weekly
// pickup budget bounds free-agent acquisitions per ISO week.
type Tournament struct {
	ID                 string
	Name               string
	Season             string
	DraftRounds        int
	WeeklyPickupBudget int
	IsDefault          bool
}

func (t Tournament) Validate() error {
	if t.ID == "" {
		return fmt.Errorf("tournament id is required")
	}
	if t.Name == "" {
		return fmt.Errorf("tournament name is required")
	}
	if t.Season == "" {
		return fmt.Errorf("tournament season is required")
	}
	if t.DraftRounds <= 0 {
		return fmt.Errorf("tournament draft rounds must be greater than zero")
	}
	if t.WeeklyPickupBudget <= 0 {
		return fmt.Errorf("tournament weekly pickup budget must be greater than zero")
	}

	return nil
}
