package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/riskibarqy/fantasy-cricket/internal/domain/roster"
	"github.com/riskibarqy/fantasy-cricket/internal/domain/team"
	"github.com/riskibarqy/fantasy-cricket/internal/domain/tournament"
	idgen "github.com/riskibarqy/fantasy-cricket/internal/platform/id"
)

// CreateTeamInput is the incoming payload for team registration.
type CreateTeamInput struct {
	UserID       string
	TournamentID string
	Name         string
}

type TeamService struct {
	tournamentRepo tournament.Repository
	teamRepo       team.Repository
	idGen          idgen.Generator
	logger         *slog.Logger
	now            func() time.Time
}

func NewTeamService(
	tournamentRepo tournament.Repository,
	teamRepo team.Repository,
	idGen idgen.Generator,
	logger *slog.Logger,
) *TeamService {
	if logger == nil {
		logger = slog.Default()
	}

	return &TeamService{
		tournamentRepo: tournamentRepo,
		teamRepo:       teamRepo,
		idGen:          idGen,
		logger:         logger,
		now:            time.Now,
	}
}

// CreateTeam registers one team per (user, tournament) pair. A second
// registration for the same pair is rejected, not overwritten.
func (s *TeamService) CreateTeam(ctx context.Context, input CreateTeamInput) (team.Team, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.TeamService.CreateTeam")
	defer span.End()

	input.UserID = strings.TrimSpace(input.UserID)
	input.TournamentID = strings.TrimSpace(input.TournamentID)
	input.Name = strings.TrimSpace(input.Name)

	if input.UserID == "" {
		return team.Team{}, fmt.Errorf("%w: user id is required", ErrInvalidInput)
	}
	if input.TournamentID == "" {
		return team.Team{}, fmt.Errorf("%w: tournament id is required", ErrInvalidInput)
	}
	if input.Name == "" {
		return team.Team{}, fmt.Errorf("%w: team name is required", ErrInvalidInput)
	}

	if _, err := s.requireTournament(ctx, input.TournamentID); err != nil {
		return team.Team{}, err
	}

	_, exists, err := s.teamRepo.GetByUserAndTournament(ctx, input.UserID, input.TournamentID)
	if err != nil {
		return team.Team{}, fmt.Errorf("get team by user and tournament: %w", err)
	}
	if exists {
		return team.Team{}, fmt.Errorf("%w: user already has a team in tournament %s", ErrInvalidInput, input.TournamentID)
	}

	teamID, err := s.idGen.NewID()
	if err != nil {
		return team.Team{}, fmt.Errorf("generate team id: %w", err)
	}

	now := s.now().UTC()
	item := team.Team{
		ID:             teamID,
		TournamentID:   input.TournamentID,
		UserID:         input.UserID,
		Name:           input.Name,
		Entries:        []roster.Entry{},
		PickupsUsed:    0,
		PickupsResetAt: roster.StartOfISOWeek(now),
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := item.Validate(); err != nil {
		return team.Team{}, fmt.Errorf("validate team: %w", err)
	}

	if err := s.teamRepo.Upsert(ctx, item); err != nil {
		return team.Team{}, fmt.Errorf("upsert team: %w", err)
	}

	s.logger.InfoContext(ctx, "team created",
		"team_id", item.ID,
		"user_id", item.UserID,
		"tournament_id", item.TournamentID,
	)

	return item, nil
}

func (s *TeamService) GetTeam(ctx context.Context, tournamentID, teamID string) (team.Team, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.TeamService.GetTeam")
	defer span.End()

	tournamentID = strings.TrimSpace(tournamentID)
	teamID = strings.TrimSpace(teamID)
	if tournamentID == "" || teamID == "" {
		return team.Team{}, fmt.Errorf("%w: tournament_id and team_id are required", ErrInvalidInput)
	}

	item, exists, err := s.teamRepo.GetByID(ctx, tournamentID, teamID)
	if err != nil {
		return team.Team{}, fmt.Errorf("get team: %w", err)
	}
	if !exists {
		return team.Team{}, fmt.Errorf("%w: team not found", ErrNotFound)
	}

	return item, nil
}

func (s *TeamService) GetTeamByUser(ctx context.Context, userID, tournamentID string) (team.Team, bool, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.TeamService.GetTeamByUser")
	defer span.End()

	userID = strings.TrimSpace(userID)
	tournamentID = strings.TrimSpace(tournamentID)
	if userID == "" || tournamentID == "" {
		return team.Team{}, false, fmt.Errorf("%w: user_id and tournament_id are required", ErrInvalidInput)
	}

	item, exists, err := s.teamRepo.GetByUserAndTournament(ctx, userID, tournamentID)
	if err != nil {
		return team.Team{}, false, fmt.Errorf("get team by user: %w", err)
	}

	return item, exists, nil
}

func (s *TeamService) ListTeamsByTournament(ctx context.Context, tournamentID string) ([]team.Team, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.TeamService.ListTeamsByTournament")
	defer span.End()

	tournamentID = strings.TrimSpace(tournamentID)
	if tournamentID == "" {
		return nil, fmt.Errorf("%w: tournament_id is required", ErrInvalidInput)
	}
	if _, err := s.requireTournament(ctx, tournamentID); err != nil {
		return nil, err
	}

	teams, err := s.teamRepo.ListByTournament(ctx, tournamentID)
	if err != nil {
		return nil, fmt.Errorf("list teams by tournament: %w", err)
	}

	return teams, nil
}

func (s *TeamService) requireTournament(ctx context.Context, tournamentID string) (tournament.Tournament, error) {
	item, exists, err := s.tournamentRepo.GetByID(ctx, tournamentID)
	if err != nil {
		return tournament.Tournament{}, fmt.Errorf("get tournament by id: %w", err)
	}
	if !exists {
		return tournament.Tournament{}, fmt.Errorf("%w: tournament=%s", ErrNotFound, tournamentID)
	}

	return item, nil
}
