package httpapi

import (
	"net/http"
	"time"

	"github.com/riskibarqy/fantasy-cricket/internal/domain/team"
	"github.com/riskibarqy/fantasy-cricket/internal/usecase"
)

type teamDTO struct {
	ID             string `json:"id"`
	TournamentID   string `json:"tournamentId"`
	UserID         string `json:"userId"`
	Name           string `json:"name"`
	PickupsUsed    int    `json:"pickupsUsed"`
	PickupsResetAt string `json:"pickupsResetAt"`
	CreatedAt      string `json:"createdAt"`
	UpdatedAt      string `json:"updatedAt"`
}

type createTeamRequest struct {
	Name string `json:"name" validate:"required,min=1,max=64"`
}

func (h *Handler) CreateTeam(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.CreateTeam")
	defer span.End()

	principal, err := requirePrincipal(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	var payload createTeamRequest
	if err := h.decodeJSONBody(r, &payload); err != nil {
		writeError(ctx, w, err)
		return
	}

	item, err := h.teamService.CreateTeam(ctx, usecase.CreateTeamInput{
		UserID:       principal.UserID,
		TournamentID: pathValue(r, "tournamentID"),
		Name:         payload.Name,
	})
	if err != nil {
		h.logger.ErrorContext(ctx, "create team failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, toTeamDTO(item))
}

func (h *Handler) ListTeams(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListTeams")
	defer span.End()

	teams, err := h.teamService.ListTeamsByTournament(ctx, pathValue(r, "tournamentID"))
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	out := make([]teamDTO, 0, len(teams))
	for _, item := range teams {
		out = append(out, toTeamDTO(item))
	}
	writeSuccess(ctx, w, http.StatusOK, map[string]any{"teams": out})
}

func (h *Handler) GetTeam(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetTeam")
	defer span.End()

	item, err := h.teamService.GetTeam(ctx, pathValue(r, "tournamentID"), pathValue(r, "teamID"))
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, toTeamDTO(item))
}

func toTeamDTO(item team.Team) teamDTO {
	return teamDTO{
		ID:             item.ID,
		TournamentID:   item.TournamentID,
		UserID:         item.UserID,
		Name:           item.Name,
		PickupsUsed:    item.PickupsUsed,
		PickupsResetAt: item.PickupsResetAt.UTC().Format(time.RFC3339),
		CreatedAt:      item.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:      item.UpdatedAt.UTC().Format(time.RFC3339),
	}
}
