package app

import (
	"context"
	"fmt"

	"github.com/riskibarqy/fantasy-cricket/internal/domain/scoring"
)

// disabledFeed stands in when no scorecard provider is configured. Admins can
// still score matches by posting manual performances, which never touch the
// feed.
type disabledFeed struct{}

func (disabledFeed) FetchScorecard(_ context.Context, _, matchID string) (scoring.Scorecard, error) {
	return scoring.Scorecard{}, fmt.Errorf("stats feed disabled, submit manual performances for match %s", matchID)
}
