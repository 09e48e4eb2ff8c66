package httpapi

import (
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	"github.com/go-playground/validator/v10"

	"github.com/riskibarqy/fantasy-cricket/internal/domain/user"
	"github.com/riskibarqy/fantasy-cricket/internal/usecase"
)

const maxBodyBytes = 1 << 20

type Handler struct {
	tournamentService *usecase.TournamentService
	teamService       *usecase.TeamService
	playerService     *usecase.PlayerService
	draftService      *usecase.DraftService
	rosterService     *usecase.RosterService
	scoringService    *usecase.ScoringService
	logger            *slog.Logger
	validator         *validator.Validate
}

func NewHandler(
	tournamentService *usecase.TournamentService,
	teamService *usecase.TeamService,
	playerService *usecase.PlayerService,
	draftService *usecase.DraftService,
	rosterService *usecase.RosterService,
	scoringService *usecase.ScoringService,
	logger *slog.Logger,
) *Handler {
	if logger == nil {
		logger = slog.Default()
	}

	return &Handler{
		tournamentService: tournamentService,
		teamService:       teamService,
		playerService:     playerService,
		draftService:      draftService,
		rosterService:     rosterService,
		scoringService:    scoringService,
		logger:            logger,
		validator:         validator.New(),
	}
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Healthz")
	defer span.End()

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "ok"})
}

// decodeJSONBody reads, decodes and validates a request payload. Validation
// failures surface as invalid-input errors.
func (h *Handler) decodeJSONBody(r *http.Request, payload any) error {
	raw, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		return fmt.Errorf("%w: read request body: %v", usecase.ErrInvalidInput, err)
	}
	if len(raw) == 0 {
		return fmt.Errorf("%w: request body is required", usecase.ErrInvalidInput)
	}
	if err := sonic.Unmarshal(raw, payload); err != nil {
		return fmt.Errorf("%w: decode request body: %v", usecase.ErrInvalidInput, err)
	}
	if err := h.validator.StructCtx(r.Context(), payload); err != nil {
		return fmt.Errorf("%w: %v", usecase.ErrInvalidInput, err)
	}

	return nil
}

// requirePrincipal returns the authenticated principal; RequireAuth puts it
// on the context, so a miss means a wiring mistake rather than a bad token.
func requirePrincipal(r *http.Request) (user.Principal, error) {
	principal, ok := principalFromContext(r.Context())
	if !ok {
		return user.Principal{}, fmt.Errorf("%w: no authenticated principal", usecase.ErrUnauthorized)
	}

	return principal, nil
}

// authorizeTeamAccess rejects callers acting on a team they do not own.
// Admins may act on any team.
func (h *Handler) authorizeTeamAccess(r *http.Request, tournamentID, teamID string) error {
	principal, err := requirePrincipal(r)
	if err != nil {
		return err
	}
	if principal.IsAdmin {
		return nil
	}

	item, err := h.teamService.GetTeam(r.Context(), tournamentID, teamID)
	if err != nil {
		return err
	}
	if item.UserID != principal.UserID {
		return fmt.Errorf("%w: team belongs to another user", usecase.ErrUnauthorized)
	}

	return nil
}

func pathValue(r *http.Request, name string) string {
	return strings.TrimSpace(r.PathValue(name))
}

func formatTimePtr(t *time.Time) string {
	if t == nil {
		return ""
	}

	return t.UTC().Format(time.RFC3339)
}
