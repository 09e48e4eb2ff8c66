package memory

import (
	"github.com/riskibarqy/fantasy-cricket/internal/domain/player"
	"github.com/riskibarqy/fantasy-cricket/internal/domain/tournament"
)

// DefaultTournamentID is the tournament every dev-mode request lands on.
const DefaultTournamentID = "t20-blast-2026"

// Seed loads a development dataset: one default tournament and a player pool
// large enough for four teams to draft a full roster each.
func Seed(tournaments *TournamentRepository, players *PlayerRepository) {
	tournaments.Put(tournament.Tournament{
		ID:                 DefaultTournamentID,
		Name:               "T20 Blast",
		Season:             "2026",
		DraftRounds:        12,
		WeeklyPickupBudget: 2,
		IsDefault:          true,
	})

	for _, seeded := range seedPlayers {
		players.Put(player.Player{
			ID:           seeded.id,
			TournamentID: DefaultTournamentID,
			Name:         seeded.name,
			SourceTeam:   seeded.sourceTeam,
			Position:     seeded.position,
		})
	}
}

var seedPlayers = []struct {
	id         string
	name       string
	sourceTeam string
	position   player.Position
}{
	{"p-001", "Arjun Mehta", "Northern Strikers", player.PositionBatter},
	{"p-002", "Dylan Carter", "Northern Strikers", player.PositionBatter},
	{"p-003", "Rohan Iyer", "Northern Strikers", player.PositionKeeper},
	{"p-004", "Sam Whitfield", "Northern Strikers", player.PositionBowler},
	{"p-005", "Imran Shaikh", "Northern Strikers", player.PositionBowler},
	{"p-006", "Callum Reed", "Northern Strikers", player.PositionAllrounder},
	{"p-007", "Nikhil Rao", "Northern Strikers", player.PositionBatter},
	{"p-008", "Owen Blake", "Northern Strikers", player.PositionBowler},
	{"p-009", "Farhan Qureshi", "Northern Strikers", player.PositionAllrounder},
	{"p-010", "Jayden Brooks", "Northern Strikers", player.PositionBatter},
	{"p-011", "Vikram Nair", "Northern Strikers", player.PositionBowler},
	{"p-012", "Ethan Walsh", "Northern Strikers", player.PositionBatter},
	{"p-013", "Tariq Anwar", "Coastal Titans", player.PositionBatter},
	{"p-014", "Liam Prescott", "Coastal Titans", player.PositionKeeper},
	{"p-015", "Aditya Kulkarni", "Coastal Titans", player.PositionBowler},
	{"p-016", "Marcus Hale", "Coastal Titans", player.PositionBowler},
	{"p-017", "Zane Fletcher", "Coastal Titans", player.PositionAllrounder},
	{"p-018", "Kabir Malhotra", "Coastal Titans", player.PositionBatter},
	{"p-019", "Theo Granger", "Coastal Titans", player.PositionBatter},
	{"p-020", "Rafiq Hossain", "Coastal Titans", player.PositionBowler},
	{"p-021", "Jonah Pierce", "Coastal Titans", player.PositionAllrounder},
	{"p-022", "Dev Sharma", "Coastal Titans", player.PositionBatter},
	{"p-023", "Caleb Norwood", "Coastal Titans", player.PositionBowler},
	{"p-024", "Harvey Lowe", "Coastal Titans", player.PositionBatter},
	{"p-025", "Anik Dutta", "Ridgeview Royals", player.PositionKeeper},
	{"p-026", "Felix Marsh", "Ridgeview Royals", player.PositionBatter},
	{"p-027", "Sanjay Pillai", "Ridgeview Royals", player.PositionBowler},
	{"p-028", "Gareth Doyle", "Ridgeview Royals", player.PositionBowler},
	{"p-029", "Rehan Siddiqui", "Ridgeview Royals", player.PositionAllrounder},
	{"p-030", "Miles Tanner", "Ridgeview Royals", player.PositionBatter},
	{"p-031", "Kunal Bhatt", "Ridgeview Royals", player.PositionBatter},
	{"p-032", "Austin Crane", "Ridgeview Royals", player.PositionBowler},
	{"p-033", "Dhruv Menon", "Ridgeview Royals", player.PositionAllrounder},
	{"p-034", "Logan Frost", "Ridgeview Royals", player.PositionBatter},
	{"p-035", "Parth Desai", "Ridgeview Royals", player.PositionBowler},
	{"p-036", "Colin Ashford", "Ridgeview Royals", player.PositionBatter},
	{"p-037", "Yusuf Khan", "Harbour Hawks", player.PositionBatter},
	{"p-038", "Brendan Cole", "Harbour Hawks", player.PositionKeeper},
	{"p-039", "Ashwin Verma", "Harbour Hawks", player.PositionBowler},
	{"p-040", "Patrick Lane", "Harbour Hawks", player.PositionBowler},
	{"p-041", "Omar Farouk", "Harbour Hawks", player.PositionAllrounder},
	{"p-042", "Ravi Chandran", "Harbour Hawks", player.PositionBatter},
	{"p-043", "Jasper Holt", "Harbour Hawks", player.PositionBatter},
	{"p-044", "Naveen Joshi", "Harbour Hawks", player.PositionBowler},
	{"p-045", "Shane Redmond", "Harbour Hawks", player.PositionAllrounder},
	{"p-046", "Arnav Chopra", "Harbour Hawks", player.PositionBatter},
	{"p-047", "Tobias Finch", "Harbour Hawks", player.PositionBowler},
	{"p-048", "Hassan Raza", "Harbour Hawks", player.PositionBatter},
}
