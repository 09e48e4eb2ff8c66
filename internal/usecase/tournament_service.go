package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/riskibarqy/fantasy-cricket/internal/domain/tournament"
)

// TournamentService serves the read-only tournament catalogue.
type TournamentService struct {
	tournamentRepo tournament.Repository
	logger         *slog.Logger
}

func NewTournamentService(tournamentRepo tournament.Repository, logger *slog.Logger) *TournamentService {
	if logger == nil {
		logger = slog.Default()
	}

	return &TournamentService{tournamentRepo: tournamentRepo, logger: logger}
}

func (s *TournamentService) ListTournaments(ctx context.Context) ([]tournament.Tournament, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.TournamentService.ListTournaments")
	defer span.End()

	tournaments, err := s.tournamentRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list tournaments: %w", err)
	}

	return tournaments, nil
}

func (s *TournamentService) GetTournament(ctx context.Context, tournamentID string) (tournament.Tournament, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.TournamentService.GetTournament")
	defer span.End()

	tournamentID = strings.TrimSpace(tournamentID)
	if tournamentID == "" {
		return tournament.Tournament{}, fmt.Errorf("%w: tournament_id is required", ErrInvalidInput)
	}

	item, exists, err := s.tournamentRepo.GetByID(ctx, tournamentID)
	if err != nil {
		return tournament.Tournament{}, fmt.Errorf("get tournament by id: %w", err)
	}
	if !exists {
		return tournament.Tournament{}, fmt.Errorf("%w: tournament=%s", ErrNotFound, tournamentID)
	}

	return item, nil
}

// DefaultTournament returns the catalogue entry flagged as default, falling
// back to the first listed tournament.
func (s *TournamentService) DefaultTournament(ctx context.Context) (tournament.Tournament, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.TournamentService.DefaultTournament")
	defer span.End()

	tournaments, err := s.tournamentRepo.List(ctx)
	if err != nil {
		return tournament.Tournament{}, fmt.Errorf("list tournaments: %w", err)
	}
	if len(tournaments) == 0 {
		return tournament.Tournament{}, fmt.Errorf("%w: no tournaments configured", ErrNotFound)
	}

	for _, item := range tournaments {
		if item.IsDefault {
			return item, nil
		}
	}

	return tournaments[0], nil
}
