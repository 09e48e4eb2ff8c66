package draft

// GenerateOrder produces the full snake-draft turn sequence for the given
// participant order and round count: odd rounds follow the input order, even
// rounds reverse it, so no participant picks last twice in a row. Pick
// numbers are sequential starting at 1. The function is pure and fully
// deterministic; shuffle the input beforehand if a random seeding is wanted.
func GenerateOrder(teamIDs []string, rounds int) []OrderEntry {
	if len(teamIDs) == 0 || rounds <= 0 {
		return []OrderEntry{}
	}

	order := make([]OrderEntry, 0, len(teamIDs)*rounds)
	pickNumber := 1
	for round := 1; round <= rounds; round++ {
		if round%2 == 1 {
			for _, teamID := range teamIDs {
				order = append(order, OrderEntry{PickNumber: pickNumber, TeamID: teamID})
				pickNumber++
			}
			continue
		}

		for idx := len(teamIDs) - 1; idx >= 0; idx-- {
			order = append(order, OrderEntry{PickNumber: pickNumber, TeamID: teamIDs[idx]})
			pickNumber++
		}
	}

	return order
}

// RoundOfPick maps a 1-based pick number to its 1-based round for the given
// participant count.
func RoundOfPick(pickNumber, teamCount int) int {
	if pickNumber <= 0 || teamCount <= 0 {
		return 0
	}

	return (pickNumber-1)/teamCount + 1
}
