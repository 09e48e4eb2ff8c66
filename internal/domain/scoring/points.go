package scoring

// Point values and gates for the fantasy scoring rules. Categories are
// additive and independent: each contributes only when its own gate is met.
const (
	pointsPerRun      = 1
	pointsPerWicket   = 25
	pointsPerMaiden   = 20
	pointsPerCatch    = 12
	pointsPerRunOut   = 20
	pointsPerStumping = 15

	strikeRateMinRuns = 20
	economyMinOvers   = 3.0
)

// strikeRateBuckets are evaluated highest threshold first; buckets are
// mutually exclusive. A strike rate below the last threshold earns nothing.
var strikeRateBuckets = []struct {
	Min    float64
	Points int
}{
	{Min: 160, Points: 25},
	{Min: 150, Points: 20},
	{Min: 140, Points: 15},
	{Min: 130, Points: 10},
	{Min: 120, Points: 5},
}

// economyBuckets are evaluated tightest first; an economy above the last
// ceiling earns nothing.
var economyBuckets = []struct {
	Max    float64
	Points int
}{
	{Max: 5, Points: 25},
	{Max: 6, Points: 20},
	{Max: 7, Points: 15},
	{Max: 8, Points: 10},
}

// Points computes one performance's fantasy points. Pure and deterministic,
// which is what makes the preview→apply protocol trustworthy: the admin
// preview and the later apply always compute identical numbers.
func Points(perf MatchPerformance) MatchPoints {
	result := MatchPoints{PlayerID: perf.PlayerID}

	result.add("runs", perf.Runs*pointsPerRun)
	result.add("strike_rate_bonus", strikeRateBonus(perf))
	result.add("wickets", perf.Wickets*pointsPerWicket)
	result.add("maidens", perf.Maidens*pointsPerMaiden)
	result.add("economy_bonus", economyBonus(perf))
	result.add("catches", perf.Catches*pointsPerCatch)
	result.add("run_outs", perf.RunOuts*pointsPerRunOut)
	if perf.IsKeeper {
		result.add("stumpings", perf.Stumpings*pointsPerStumping)
	}

	return result
}

func (m *MatchPoints) add(label string, points int) {
	if points <= 0 {
		return
	}

	m.Total += points
	m.Breakdown = append(m.Breakdown, BreakdownItem{Label: label, Points: points})
}

// strikeRateBonus applies only past the minimum-runs gate and when a strike
// rate is present (> 0); a missing rate skips the bonus, nothing else.
func strikeRateBonus(perf MatchPerformance) int {
	if perf.Runs < strikeRateMinRuns || perf.StrikeRate <= 0 {
		return 0
	}

	for _, bucket := range strikeRateBuckets {
		if perf.StrikeRate >= bucket.Min {
			return bucket.Points
		}
	}

	return 0
}

// economyBonus applies only past the minimum-overs gate and when an economy
// rate is present (> 0).
func economyBonus(perf MatchPerformance) int {
	if perf.OversBowled < economyMinOvers || perf.EconomyRate <= 0 {
		return 0
	}

	for _, bucket := range economyBuckets {
		if perf.EconomyRate <= bucket.Max {
			return bucket.Points
		}
	}

	return 0
}
