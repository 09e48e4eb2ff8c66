package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/riskibarqy/fantasy-cricket/internal/domain/player"
	"github.com/riskibarqy/fantasy-cricket/internal/domain/team"
	"github.com/riskibarqy/fantasy-cricket/internal/domain/tournament"
	"github.com/riskibarqy/fantasy-cricket/internal/platform/cache"
)

// PlayerWithStatus is a directory row annotated with current ownership, so
// draft clients can grey out taken players without a second lookup.
type PlayerWithStatus struct {
	player.Player
	OwnedByTeamID string
}

// PlayerService serves the tournament player directory. Listings are cached
// per tournament; every roster mutation invalidates the tournament's prefix.
type PlayerService struct {
	tournamentRepo tournament.Repository
	playerRepo     player.Repository
	teamRepo       team.Repository
	directoryCache *cache.Store
	logger         *slog.Logger
}

func NewPlayerService(
	tournamentRepo tournament.Repository,
	playerRepo player.Repository,
	teamRepo team.Repository,
	directoryCache *cache.Store,
	logger *slog.Logger,
) *PlayerService {
	if logger == nil {
		logger = slog.Default()
	}

	return &PlayerService{
		tournamentRepo: tournamentRepo,
		playerRepo:     playerRepo,
		teamRepo:       teamRepo,
		directoryCache: directoryCache,
		logger:         logger,
	}
}

// ListPlayers returns the tournament's full player pool with ownership
// annotations, served from cache when fresh.
func (s *PlayerService) ListPlayers(ctx context.Context, tournamentID string) ([]PlayerWithStatus, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PlayerService.ListPlayers")
	defer span.End()

	tournamentID = strings.TrimSpace(tournamentID)
	if tournamentID == "" {
		return nil, fmt.Errorf("%w: tournament_id is required", ErrInvalidInput)
	}
	if _, exists, err := s.tournamentRepo.GetByID(ctx, tournamentID); err != nil {
		return nil, fmt.Errorf("get tournament by id: %w", err)
	} else if !exists {
		return nil, fmt.Errorf("%w: tournament=%s", ErrNotFound, tournamentID)
	}

	load := func(ctx context.Context) (any, error) {
		return s.loadDirectory(ctx, tournamentID)
	}
	if s.directoryCache == nil {
		value, err := load(ctx)
		if err != nil {
			return nil, err
		}
		return value.([]PlayerWithStatus), nil
	}

	value, err := s.directoryCache.GetOrLoad(ctx, directoryCacheKey(tournamentID), load)
	if err != nil {
		return nil, err
	}

	listing, ok := value.([]PlayerWithStatus)
	if !ok {
		return nil, fmt.Errorf("unexpected directory cache value type %T", value)
	}

	return listing, nil
}

func (s *PlayerService) GetPlayer(ctx context.Context, tournamentID, playerID string) (player.Player, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PlayerService.GetPlayer")
	defer span.End()

	tournamentID = strings.TrimSpace(tournamentID)
	playerID = strings.TrimSpace(playerID)
	if tournamentID == "" || playerID == "" {
		return player.Player{}, fmt.Errorf("%w: tournament_id and player_id are required", ErrInvalidInput)
	}

	item, exists, err := s.playerRepo.GetByID(ctx, tournamentID, playerID)
	if err != nil {
		return player.Player{}, fmt.Errorf("get player: %w", err)
	}
	if !exists {
		return player.Player{}, fmt.Errorf("%w: player not found", ErrNotFound)
	}

	return item, nil
}

func (s *PlayerService) loadDirectory(ctx context.Context, tournamentID string) ([]PlayerWithStatus, error) {
	players, err := s.playerRepo.ListByTournament(ctx, tournamentID)
	if err != nil {
		return nil, fmt.Errorf("list players: %w", err)
	}

	teams, err := s.teamRepo.ListByTournament(ctx, tournamentID)
	if err != nil {
		return nil, fmt.Errorf("list teams: %w", err)
	}
	ownerOf := make(map[string]string)
	for _, item := range teams {
		for _, entry := range item.Entries {
			ownerOf[entry.PlayerID] = item.ID
		}
	}

	listing := make([]PlayerWithStatus, 0, len(players))
	for _, item := range players {
		listing = append(listing, PlayerWithStatus{
			Player:        item,
			OwnedByTeamID: ownerOf[item.ID],
		})
	}

	return listing, nil
}

func directoryCacheKey(tournamentID string) string {
	return "players:" + tournamentID
}
