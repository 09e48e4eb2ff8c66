package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/riskibarqy/fantasy-cricket/internal/domain/draft"
	"github.com/riskibarqy/fantasy-cricket/internal/domain/player"
	"github.com/riskibarqy/fantasy-cricket/internal/domain/roster"
	"github.com/riskibarqy/fantasy-cricket/internal/domain/team"
	"github.com/riskibarqy/fantasy-cricket/internal/domain/tournament"
	"github.com/riskibarqy/fantasy-cricket/internal/platform/cache"
)

// StartDraftInput starts the pick phase for one tournament. AdminOverride
// lets an admin start straight from pending, skipping open registration.
type StartDraftInput struct {
	TournamentID  string
	AdminOverride bool
}

// MakePickInput is one attempted draft selection.
type MakePickInput struct {
	TournamentID string
	TeamID       string
	PlayerID     string
}

// PickResult is the committed pick plus the session snapshot after it.
type PickResult struct {
	Pick    draft.Pick
	Session draft.Session
}

// DraftService owns the draft session lifecycle. All session mutation is
// serialized per tournament, so the cursor check and the cursor advance are a
// single critical section and two racing picks can never both commit.
type DraftService struct {
	tournamentRepo tournament.Repository
	teamRepo       team.Repository
	playerRepo     player.Repository
	draftRepo      draft.Repository
	directoryCache *cache.Store
	logger         *slog.Logger
	now            func() time.Time

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func NewDraftService(
	tournamentRepo tournament.Repository,
	teamRepo team.Repository,
	playerRepo player.Repository,
	draftRepo draft.Repository,
	directoryCache *cache.Store,
	logger *slog.Logger,
) *DraftService {
	if logger == nil {
		logger = slog.Default()
	}

	return &DraftService{
		tournamentRepo: tournamentRepo,
		teamRepo:       teamRepo,
		playerRepo:     playerRepo,
		draftRepo:      draftRepo,
		directoryCache: directoryCache,
		logger:         logger,
		now:            time.Now,
		locks:          make(map[string]*sync.Mutex),
	}
}

// OpenRegistration moves a tournament's draft from pending to open. Opening
// an already-open draft is a no-op; a started draft cannot be reopened.
func (s *DraftService) OpenRegistration(ctx context.Context, tournamentID string) (draft.Session, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.DraftService.OpenRegistration")
	defer span.End()

	tournamentID = strings.TrimSpace(tournamentID)
	if tournamentID == "" {
		return draft.Session{}, fmt.Errorf("%w: tournament_id is required", ErrInvalidInput)
	}
	if _, err := s.requireTournament(ctx, tournamentID); err != nil {
		return draft.Session{}, err
	}

	lock := s.tournamentLock(tournamentID)
	lock.Lock()
	defer lock.Unlock()

	session, exists, err := s.draftRepo.GetSession(ctx, tournamentID)
	if err != nil {
		return draft.Session{}, fmt.Errorf("get draft session: %w", err)
	}
	if !exists {
		session = newPendingSession(tournamentID)
	}

	switch session.Status {
	case draft.StatusOpen:
		return session, nil
	case draft.StatusInProgress, draft.StatusCompleted:
		return draft.Session{}, fmt.Errorf("open registration: %w", draft.ErrAlreadyStarted)
	}

	session.Status = draft.StatusOpen
	session.UpdatedAt = s.now().UTC()
	if err := s.draftRepo.SaveSession(ctx, session); err != nil {
		return draft.Session{}, fmt.Errorf("save draft session: %w", err)
	}

	s.logger.InfoContext(ctx, "draft registration opened", "tournament_id", tournamentID)

	return session, nil
}

// StartDraft generates the snake order exactly once and moves the session to
// in_progress with the cursor at zero. Participants are ordered by team
// creation time; the order is persisted verbatim and never regenerated.
func (s *DraftService) StartDraft(ctx context.Context, input StartDraftInput) (draft.Session, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.DraftService.StartDraft")
	defer span.End()

	input.TournamentID = strings.TrimSpace(input.TournamentID)
	if input.TournamentID == "" {
		return draft.Session{}, fmt.Errorf("%w: tournament_id is required", ErrInvalidInput)
	}

	tour, err := s.requireTournament(ctx, input.TournamentID)
	if err != nil {
		return draft.Session{}, err
	}

	lock := s.tournamentLock(input.TournamentID)
	lock.Lock()
	defer lock.Unlock()

	session, exists, err := s.draftRepo.GetSession(ctx, input.TournamentID)
	if err != nil {
		return draft.Session{}, fmt.Errorf("get draft session: %w", err)
	}
	if !exists {
		session = newPendingSession(input.TournamentID)
	}

	switch session.Status {
	case draft.StatusInProgress, draft.StatusCompleted:
		return draft.Session{}, fmt.Errorf("start draft: %w", draft.ErrAlreadyStarted)
	case draft.StatusPending:
		if !input.AdminOverride {
			return draft.Session{}, fmt.Errorf("start draft: %w", draft.ErrDraftNotOpen)
		}
	}

	teams, err := s.teamRepo.ListByTournament(ctx, input.TournamentID)
	if err != nil {
		return draft.Session{}, fmt.Errorf("list teams: %w", err)
	}
	if len(teams) < draft.MinTeams {
		return draft.Session{}, fmt.Errorf("start draft with %d teams: %w", len(teams), draft.ErrNotEnoughTeams)
	}

	sort.Slice(teams, func(i, j int) bool {
		if teams[i].CreatedAt.Equal(teams[j].CreatedAt) {
			return teams[i].ID < teams[j].ID
		}
		return teams[i].CreatedAt.Before(teams[j].CreatedAt)
	})
	teamIDs := make([]string, 0, len(teams))
	for _, item := range teams {
		teamIDs = append(teamIDs, item.ID)
	}

	order := draft.GenerateOrder(teamIDs, tour.DraftRounds)
	if len(order) == 0 {
		return draft.Session{}, fmt.Errorf("start draft: %w", draft.ErrEmptyOrder)
	}

	now := s.now().UTC()
	session.Status = draft.StatusInProgress
	session.Cursor = 0
	session.Order = order
	session.StartedAt = &now
	session.CompletedAt = nil
	session.UpdatedAt = now

	if err := s.draftRepo.SaveSession(ctx, session); err != nil {
		return draft.Session{}, fmt.Errorf("save draft session: %w", err)
	}

	s.logger.InfoContext(ctx, "draft started",
		"tournament_id", input.TournamentID,
		"teams", len(teams),
		"rounds", tour.DraftRounds,
		"total_picks", len(order),
	)

	return session, nil
}

// MakePick validates and commits one selection: the session must be in
// progress, the team must hold the turn at the cursor, the player must be
// undrafted, and a compatible active slot must have room. Any rejection
// leaves the session, picks, and rosters untouched.
func (s *DraftService) MakePick(ctx context.Context, input MakePickInput) (PickResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.DraftService.MakePick")
	defer span.End()

	input.TournamentID = strings.TrimSpace(input.TournamentID)
	input.TeamID = strings.TrimSpace(input.TeamID)
	input.PlayerID = strings.TrimSpace(input.PlayerID)
	if input.TournamentID == "" || input.TeamID == "" || input.PlayerID == "" {
		return PickResult{}, fmt.Errorf("%w: tournament_id, team_id and player_id are required", ErrInvalidInput)
	}

	tour, err := s.requireTournament(ctx, input.TournamentID)
	if err != nil {
		return PickResult{}, err
	}

	lock := s.tournamentLock(input.TournamentID)
	lock.Lock()
	defer lock.Unlock()

	session, exists, err := s.draftRepo.GetSession(ctx, input.TournamentID)
	if err != nil {
		return PickResult{}, fmt.Errorf("get draft session: %w", err)
	}
	if !exists {
		return PickResult{}, fmt.Errorf("make pick: %w", draft.ErrSessionNotFound)
	}
	if session.Status != draft.StatusInProgress {
		return PickResult{}, fmt.Errorf("make pick in status %s: %w", session.Status, draft.ErrDraftNotActive)
	}

	currentTeam, ok := session.CurrentTeam()
	if !ok {
		return PickResult{}, fmt.Errorf("make pick: %w", draft.ErrDraftNotActive)
	}
	if currentTeam != input.TeamID {
		return PickResult{}, fmt.Errorf("turn belongs to team %s: %w", currentTeam, draft.ErrNotYourTurn)
	}

	teamItem, exists, err := s.teamRepo.GetByID(ctx, input.TournamentID, input.TeamID)
	if err != nil {
		return PickResult{}, fmt.Errorf("get team: %w", err)
	}
	if !exists {
		return PickResult{}, fmt.Errorf("%w: team not found", ErrNotFound)
	}

	pickPlayer, exists, err := s.playerRepo.GetByID(ctx, input.TournamentID, input.PlayerID)
	if err != nil {
		return PickResult{}, fmt.Errorf("get player: %w", err)
	}
	if !exists {
		return PickResult{}, fmt.Errorf("%w: player not found", ErrNotFound)
	}

	picks, err := s.draftRepo.ListPicks(ctx, input.TournamentID)
	if err != nil {
		return PickResult{}, fmt.Errorf("list picks: %w", err)
	}
	for _, committed := range picks {
		if committed.PlayerID == input.PlayerID {
			return PickResult{}, fmt.Errorf("player %s: %w", input.PlayerID, draft.ErrPlayerTaken)
		}
	}

	// The pick log only covers drafted players; a weekly pickup during an
	// in-progress draft puts the player on a roster without a pick record,
	// so every roster in the tournament is checked.
	allTeams, err := s.teamRepo.ListByTournament(ctx, input.TournamentID)
	if err != nil {
		return PickResult{}, fmt.Errorf("list teams: %w", err)
	}
	for _, item := range allTeams {
		if !item.HasPlayer(input.PlayerID) {
			continue
		}
		if item.ID == input.TeamID {
			return PickResult{}, fmt.Errorf("player %s: %w", input.PlayerID, roster.ErrPlayerOnRoster)
		}
		return PickResult{}, fmt.Errorf("player %s held by team %s: %w", input.PlayerID, item.ID, draft.ErrPlayerTaken)
	}

	slot, ok := roster.BestSlot(pickPlayer.Position, teamItem.SlotCounts())
	if !ok {
		return PickResult{}, fmt.Errorf("position %s: %w", pickPlayer.Position, roster.ErrNoSlotAvailable)
	}

	now := s.now().UTC()
	teamCount := len(session.Order) / tour.DraftRounds
	pick := draft.Pick{
		Number:   session.Cursor + 1,
		Round:    draft.RoundOfPick(session.Cursor+1, teamCount),
		TeamID:   input.TeamID,
		PlayerID: input.PlayerID,
		Slot:     slot,
		PickedAt: now,
	}
	if err := s.draftRepo.AppendPick(ctx, input.TournamentID, pick); err != nil {
		return PickResult{}, fmt.Errorf("append pick: %w", err)
	}

	teamItem.Entries = append(teamItem.Entries, roster.Entry{PlayerID: input.PlayerID, Slot: slot})
	teamItem.UpdatedAt = now
	if err := s.teamRepo.Upsert(ctx, teamItem); err != nil {
		return PickResult{}, fmt.Errorf("upsert team roster: %w", err)
	}

	session.Cursor++
	session.UpdatedAt = now
	if session.Cursor >= len(session.Order) {
		session.Status = draft.StatusCompleted
		session.CompletedAt = &now
	}
	if err := s.draftRepo.SaveSession(ctx, session); err != nil {
		return PickResult{}, fmt.Errorf("save draft session: %w", err)
	}

	s.invalidateDirectory(ctx, input.TournamentID)

	s.logger.InfoContext(ctx, "draft pick committed",
		"tournament_id", input.TournamentID,
		"team_id", input.TeamID,
		"player_id", input.PlayerID,
		"pick_number", pick.Number,
		"round", pick.Round,
		"slot", string(slot),
		"draft_completed", session.Completed(),
	)

	return PickResult{Pick: pick, Session: session}, nil
}

// ResetDraft wipes every pick, strips drafted players from team rosters and
// returns the session to open, ready for a fresh StartDraft. Pickup
// acquisitions survive the reset.
func (s *DraftService) ResetDraft(ctx context.Context, tournamentID string) (draft.Session, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.DraftService.ResetDraft")
	defer span.End()

	tournamentID = strings.TrimSpace(tournamentID)
	if tournamentID == "" {
		return draft.Session{}, fmt.Errorf("%w: tournament_id is required", ErrInvalidInput)
	}
	if _, err := s.requireTournament(ctx, tournamentID); err != nil {
		return draft.Session{}, err
	}

	lock := s.tournamentLock(tournamentID)
	lock.Lock()
	defer lock.Unlock()

	session, exists, err := s.draftRepo.GetSession(ctx, tournamentID)
	if err != nil {
		return draft.Session{}, fmt.Errorf("get draft session: %w", err)
	}
	if !exists {
		return draft.Session{}, fmt.Errorf("reset draft: %w", draft.ErrSessionNotFound)
	}

	picks, err := s.draftRepo.ListPicks(ctx, tournamentID)
	if err != nil {
		return draft.Session{}, fmt.Errorf("list picks: %w", err)
	}
	drafted := make(map[string]struct{}, len(picks))
	for _, pick := range picks {
		drafted[pick.PlayerID] = struct{}{}
	}

	now := s.now().UTC()
	if len(drafted) > 0 {
		teams, err := s.teamRepo.ListByTournament(ctx, tournamentID)
		if err != nil {
			return draft.Session{}, fmt.Errorf("list teams: %w", err)
		}
		for _, item := range teams {
			kept := item.Entries[:0:0]
			for _, entry := range item.Entries {
				if _, wasDrafted := drafted[entry.PlayerID]; !wasDrafted {
					kept = append(kept, entry)
				}
			}
			if len(kept) == len(item.Entries) {
				continue
			}
			item.Entries = kept
			item.UpdatedAt = now
			if err := s.teamRepo.Upsert(ctx, item); err != nil {
				return draft.Session{}, fmt.Errorf("upsert team roster: %w", err)
			}
		}
	}

	if err := s.draftRepo.DeletePicks(ctx, tournamentID); err != nil {
		return draft.Session{}, fmt.Errorf("delete picks: %w", err)
	}

	session = newPendingSession(tournamentID)
	session.Status = draft.StatusOpen
	session.UpdatedAt = now
	if err := s.draftRepo.SaveSession(ctx, session); err != nil {
		return draft.Session{}, fmt.Errorf("save draft session: %w", err)
	}

	s.invalidateDirectory(ctx, tournamentID)

	s.logger.WarnContext(ctx, "draft reset",
		"tournament_id", tournamentID,
		"picks_cleared", len(picks),
	)

	return session, nil
}

// GetState returns the session snapshot polling clients reconcile against.
func (s *DraftService) GetState(ctx context.Context, tournamentID string) (draft.Session, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.DraftService.GetState")
	defer span.End()

	tournamentID = strings.TrimSpace(tournamentID)
	if tournamentID == "" {
		return draft.Session{}, fmt.Errorf("%w: tournament_id is required", ErrInvalidInput)
	}

	session, exists, err := s.draftRepo.GetSession(ctx, tournamentID)
	if err != nil {
		return draft.Session{}, fmt.Errorf("get draft session: %w", err)
	}
	if !exists {
		return draft.Session{}, fmt.Errorf("get draft state: %w", draft.ErrSessionNotFound)
	}

	return session, nil
}

// ListPicksAfter returns committed picks with number greater than afterNumber,
// in pick order. It backs the sync client's delta fetch.
func (s *DraftService) ListPicksAfter(ctx context.Context, tournamentID string, afterNumber int) ([]draft.Pick, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.DraftService.ListPicksAfter")
	defer span.End()

	tournamentID = strings.TrimSpace(tournamentID)
	if tournamentID == "" {
		return nil, fmt.Errorf("%w: tournament_id is required", ErrInvalidInput)
	}
	if afterNumber < 0 {
		return nil, fmt.Errorf("%w: after must not be negative", ErrInvalidInput)
	}

	picks, err := s.draftRepo.ListPicksAfter(ctx, tournamentID, afterNumber)
	if err != nil {
		return nil, fmt.Errorf("list picks after %d: %w", afterNumber, err)
	}

	return picks, nil
}

func (s *DraftService) requireTournament(ctx context.Context, tournamentID string) (tournament.Tournament, error) {
	item, exists, err := s.tournamentRepo.GetByID(ctx, tournamentID)
	if err != nil {
		return tournament.Tournament{}, fmt.Errorf("get tournament by id: %w", err)
	}
	if !exists {
		return tournament.Tournament{}, fmt.Errorf("%w: tournament=%s", ErrNotFound, tournamentID)
	}

	return item, nil
}

func (s *DraftService) tournamentLock(tournamentID string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()

	lock, ok := s.locks[tournamentID]
	if !ok {
		lock = &sync.Mutex{}
		s.locks[tournamentID] = lock
	}

	return lock
}

func (s *DraftService) invalidateDirectory(ctx context.Context, tournamentID string) {
	if s.directoryCache == nil {
		return
	}
	s.directoryCache.DeletePrefix(ctx, directoryCacheKey(tournamentID))
}

func newPendingSession(tournamentID string) draft.Session {
	return draft.Session{
		TournamentID: tournamentID,
		Status:       draft.StatusPending,
		Cursor:       0,
		Order:        []draft.OrderEntry{},
	}
}
