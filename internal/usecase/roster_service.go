package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/riskibarqy/fantasy-cricket/internal/domain/player"
	"github.com/riskibarqy/fantasy-cricket/internal/domain/roster"
	"github.com/riskibarqy/fantasy-cricket/internal/domain/team"
	"github.com/riskibarqy/fantasy-cricket/internal/domain/tournament"
	"github.com/riskibarqy/fantasy-cricket/internal/platform/cache"
)

// RosterMutationInput addresses one player on one team's roster.
type RosterMutationInput struct {
	TournamentID string
	TeamID       string
	PlayerID     string
}

// MoveToSlotInput relocates a rostered player to a target slot.
type MoveToSlotInput struct {
	TournamentID string
	TeamID       string
	PlayerID     string
	TargetSlot   roster.Slot
}

// RosterEntryView is one roster place joined with the player directory.
type RosterEntryView struct {
	PlayerID    string
	Name        string
	SourceTeam  string
	Position    player.Position
	Slot        roster.Slot
	TotalPoints int
}

// RosterView is a team's roster enriched for display.
type RosterView struct {
	Team             team.Team
	Entries          []RosterEntryView
	PickupsRemaining int
}

// RosterService applies post-draft roster mutations: weekly free-agent
// pickups onto the bench, slot moves, and drops.
type RosterService struct {
	tournamentRepo tournament.Repository
	teamRepo       team.Repository
	playerRepo     player.Repository
	directoryCache *cache.Store
	logger         *slog.Logger
	now            func() time.Time
}

func NewRosterService(
	tournamentRepo tournament.Repository,
	teamRepo team.Repository,
	playerRepo player.Repository,
	directoryCache *cache.Store,
	logger *slog.Logger,
) *RosterService {
	if logger == nil {
		logger = slog.Default()
	}

	return &RosterService{
		tournamentRepo: tournamentRepo,
		teamRepo:       teamRepo,
		playerRepo:     playerRepo,
		directoryCache: directoryCache,
		logger:         logger,
		now:            time.Now,
	}
}

// AddToBench acquires a free agent onto the team's bench. Acquisitions never
// land directly in an active slot, so active-slot capacities cannot be
// violated by a pickup. Each success consumes one unit of the weekly pickup
// budget; the purse resets when the clock crosses into a new ISO week.
func (s *RosterService) AddToBench(ctx context.Context, input RosterMutationInput) (team.Team, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.RosterService.AddToBench")
	defer span.End()

	tour, teamItem, err := s.resolveMutation(ctx, &input)
	if err != nil {
		return team.Team{}, err
	}

	if _, exists, err := s.playerRepo.GetByID(ctx, input.TournamentID, input.PlayerID); err != nil {
		return team.Team{}, fmt.Errorf("get player: %w", err)
	} else if !exists {
		return team.Team{}, fmt.Errorf("%w: player not found", ErrNotFound)
	}

	owned, err := s.playerOwned(ctx, input.TournamentID, input.PlayerID)
	if err != nil {
		return team.Team{}, err
	}
	if owned {
		return team.Team{}, fmt.Errorf("player %s: %w", input.PlayerID, roster.ErrPlayerOnRoster)
	}

	now := s.now()
	applyWeeklyReset(&teamItem, now)
	if teamItem.PickupsUsed >= tour.WeeklyPickupBudget {
		return team.Team{}, fmt.Errorf("pickups %d/%d this week: %w",
			teamItem.PickupsUsed, tour.WeeklyPickupBudget, roster.ErrPickupLimitReached)
	}

	teamItem.Entries = append(teamItem.Entries, roster.Entry{PlayerID: input.PlayerID, Slot: roster.SlotBench})
	teamItem.PickupsUsed++
	teamItem.UpdatedAt = now.UTC()
	if err := s.teamRepo.Upsert(ctx, teamItem); err != nil {
		return team.Team{}, fmt.Errorf("upsert team roster: %w", err)
	}

	s.invalidateDirectory(ctx, input.TournamentID)

	s.logger.InfoContext(ctx, "free agent picked up",
		"tournament_id", input.TournamentID,
		"team_id", input.TeamID,
		"player_id", input.PlayerID,
		"pickups_used", teamItem.PickupsUsed,
		"pickup_budget", tour.WeeklyPickupBudget,
	)

	return teamItem, nil
}

// MoveToSlot relocates a rostered player into the target slot, enforcing the
// position-compatibility table and the target's capacity. Moves to the bench
// are always legal.
func (s *RosterService) MoveToSlot(ctx context.Context, input MoveToSlotInput) (team.Team, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.RosterService.MoveToSlot")
	defer span.End()

	mutation := RosterMutationInput{
		TournamentID: input.TournamentID,
		TeamID:       input.TeamID,
		PlayerID:     input.PlayerID,
	}
	_, teamItem, err := s.resolveMutation(ctx, &mutation)
	if err != nil {
		return team.Team{}, err
	}
	input.TournamentID, input.TeamID, input.PlayerID = mutation.TournamentID, mutation.TeamID, mutation.PlayerID

	if _, known := roster.AllSlots[input.TargetSlot]; !known {
		return team.Team{}, fmt.Errorf("slot %q: %w", input.TargetSlot, roster.ErrUnknownSlot)
	}

	idx := roster.Find(teamItem.Entries, input.PlayerID)
	if idx < 0 {
		return team.Team{}, fmt.Errorf("player %s: %w", input.PlayerID, roster.ErrPlayerNotOnRoster)
	}
	if teamItem.Entries[idx].Slot == input.TargetSlot {
		return teamItem, nil
	}

	rosteredPlayer, exists, err := s.playerRepo.GetByID(ctx, input.TournamentID, input.PlayerID)
	if err != nil {
		return team.Team{}, fmt.Errorf("get player: %w", err)
	}
	if !exists {
		return team.Team{}, fmt.Errorf("%w: player not found", ErrNotFound)
	}

	if !roster.CanPlace(rosteredPlayer.Position, input.TargetSlot) {
		return team.Team{}, fmt.Errorf("position %s into slot %s: %w",
			rosteredPlayer.Position, input.TargetSlot, roster.ErrSlotIncompatible)
	}

	if capacity, bounded := roster.Capacity(input.TargetSlot); bounded {
		if teamItem.SlotCounts()[input.TargetSlot] >= capacity {
			return team.Team{}, fmt.Errorf("slot %s at %d/%d: %w",
				input.TargetSlot, capacity, capacity, roster.ErrSlotFull)
		}
	}

	teamItem.Entries[idx].Slot = input.TargetSlot
	teamItem.UpdatedAt = s.now().UTC()
	if err := s.teamRepo.Upsert(ctx, teamItem); err != nil {
		return team.Team{}, fmt.Errorf("upsert team roster: %w", err)
	}

	s.logger.InfoContext(ctx, "roster slot move",
		"tournament_id", input.TournamentID,
		"team_id", input.TeamID,
		"player_id", input.PlayerID,
		"slot", string(input.TargetSlot),
	)

	return teamItem, nil
}

// Drop removes a player from the roster unconditionally, returning them to
// the free-agent pool. Dropping does not refund pickup budget.
func (s *RosterService) Drop(ctx context.Context, input RosterMutationInput) (team.Team, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.RosterService.Drop")
	defer span.End()

	_, teamItem, err := s.resolveMutation(ctx, &input)
	if err != nil {
		return team.Team{}, err
	}

	idx := roster.Find(teamItem.Entries, input.PlayerID)
	if idx < 0 {
		return team.Team{}, fmt.Errorf("player %s: %w", input.PlayerID, roster.ErrPlayerNotOnRoster)
	}

	teamItem.Entries = append(teamItem.Entries[:idx], teamItem.Entries[idx+1:]...)
	teamItem.UpdatedAt = s.now().UTC()
	if err := s.teamRepo.Upsert(ctx, teamItem); err != nil {
		return team.Team{}, fmt.Errorf("upsert team roster: %w", err)
	}

	s.invalidateDirectory(ctx, input.TournamentID)

	s.logger.InfoContext(ctx, "player dropped",
		"tournament_id", input.TournamentID,
		"team_id", input.TeamID,
		"player_id", input.PlayerID,
	)

	return teamItem, nil
}

// GetRoster returns the team's roster joined with the player directory, plus
// the remaining pickup budget for the current ISO week.
func (s *RosterService) GetRoster(ctx context.Context, tournamentID, teamID string) (RosterView, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.RosterService.GetRoster")
	defer span.End()

	tournamentID = strings.TrimSpace(tournamentID)
	teamID = strings.TrimSpace(teamID)
	if tournamentID == "" || teamID == "" {
		return RosterView{}, fmt.Errorf("%w: tournament_id and team_id are required", ErrInvalidInput)
	}

	tour, exists, err := s.tournamentRepo.GetByID(ctx, tournamentID)
	if err != nil {
		return RosterView{}, fmt.Errorf("get tournament by id: %w", err)
	}
	if !exists {
		return RosterView{}, fmt.Errorf("%w: tournament=%s", ErrNotFound, tournamentID)
	}

	teamItem, exists, err := s.teamRepo.GetByID(ctx, tournamentID, teamID)
	if err != nil {
		return RosterView{}, fmt.Errorf("get team: %w", err)
	}
	if !exists {
		return RosterView{}, fmt.Errorf("%w: team not found", ErrNotFound)
	}

	// Present the purse as it would stand after the weekly reset, without
	// persisting; the write path applies the reset authoritatively.
	applyWeeklyReset(&teamItem, s.now())

	playerIDs := make([]string, 0, len(teamItem.Entries))
	for _, entry := range teamItem.Entries {
		playerIDs = append(playerIDs, entry.PlayerID)
	}
	players, err := s.playerRepo.GetByIDs(ctx, tournamentID, playerIDs)
	if err != nil {
		return RosterView{}, fmt.Errorf("get players by ids: %w", err)
	}
	byID := make(map[string]player.Player, len(players))
	for _, item := range players {
		byID[item.ID] = item
	}

	view := RosterView{
		Team:    teamItem,
		Entries: make([]RosterEntryView, 0, len(teamItem.Entries)),
	}
	for _, entry := range teamItem.Entries {
		item, ok := byID[entry.PlayerID]
		if !ok {
			continue
		}
		view.Entries = append(view.Entries, RosterEntryView{
			PlayerID:    item.ID,
			Name:        item.Name,
			SourceTeam:  item.SourceTeam,
			Position:    item.Position,
			Slot:        entry.Slot,
			TotalPoints: item.TotalPoints,
		})
	}

	view.PickupsRemaining = tour.WeeklyPickupBudget - teamItem.PickupsUsed
	if view.PickupsRemaining < 0 {
		view.PickupsRemaining = 0
	}

	return view, nil
}

func (s *RosterService) resolveMutation(ctx context.Context, input *RosterMutationInput) (tournament.Tournament, team.Team, error) {
	input.TournamentID = strings.TrimSpace(input.TournamentID)
	input.TeamID = strings.TrimSpace(input.TeamID)
	input.PlayerID = strings.TrimSpace(input.PlayerID)
	if input.TournamentID == "" || input.TeamID == "" || input.PlayerID == "" {
		return tournament.Tournament{}, team.Team{}, fmt.Errorf("%w: tournament_id, team_id and player_id are required", ErrInvalidInput)
	}

	tour, exists, err := s.tournamentRepo.GetByID(ctx, input.TournamentID)
	if err != nil {
		return tournament.Tournament{}, team.Team{}, fmt.Errorf("get tournament by id: %w", err)
	}
	if !exists {
		return tournament.Tournament{}, team.Team{}, fmt.Errorf("%w: tournament=%s", ErrNotFound, input.TournamentID)
	}

	teamItem, exists, err := s.teamRepo.GetByID(ctx, input.TournamentID, input.TeamID)
	if err != nil {
		return tournament.Tournament{}, team.Team{}, fmt.Errorf("get team: %w", err)
	}
	if !exists {
		return tournament.Tournament{}, team.Team{}, fmt.Errorf("%w: team not found", ErrNotFound)
	}

	return tour, teamItem, nil
}

// playerOwned scans every roster in the tournament; drafted players are on a
// roster too, so this one check covers both draft and pickup ownership.
func (s *RosterService) playerOwned(ctx context.Context, tournamentID, playerID string) (bool, error) {
	teams, err := s.teamRepo.ListByTournament(ctx, tournamentID)
	if err != nil {
		return false, fmt.Errorf("list teams: %w", err)
	}
	for _, item := range teams {
		if item.HasPlayer(playerID) {
			return true, nil
		}
	}

	return false, nil
}

func (s *RosterService) invalidateDirectory(ctx context.Context, tournamentID string) {
	if s.directoryCache == nil {
		return
	}
	s.directoryCache.DeletePrefix(ctx, directoryCacheKey(tournamentID))
}

func applyWeeklyReset(t *team.Team, now time.Time) {
	if !roster.NeedsWeeklyReset(t.PickupsResetAt, now) {
		return
	}

	t.PickupsUsed = 0
	t.PickupsResetAt = roster.StartOfISOWeek(now)
}
