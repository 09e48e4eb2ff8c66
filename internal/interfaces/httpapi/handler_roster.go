package httpapi

import (
	"net/http"

	"github.com/riskibarqy/fantasy-cricket/internal/domain/roster"
	"github.com/riskibarqy/fantasy-cricket/internal/usecase"
)

type rosterEntryDTO struct {
	PlayerID    string `json:"playerId"`
	Name        string `json:"name"`
	SourceTeam  string `json:"sourceTeam"`
	Position    string `json:"position"`
	Slot        string `json:"slot"`
	TotalPoints int    `json:"totalPoints"`
}

type rosterViewDTO struct {
	Team             teamDTO          `json:"team"`
	Entries          []rosterEntryDTO `json:"entries"`
	PickupsRemaining int              `json:"pickupsRemaining"`
}

type pickupRequest struct {
	PlayerID string `json:"playerId" validate:"required"`
}

type moveToSlotRequest struct {
	PlayerID   string `json:"playerId" validate:"required"`
	TargetSlot string `json:"targetSlot" validate:"required"`
}

func (h *Handler) GetRoster(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetRoster")
	defer span.End()

	view, err := h.rosterService.GetRoster(ctx, pathValue(r, "tournamentID"), pathValue(r, "teamID"))
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, toRosterViewDTO(view))
}

func (h *Handler) PickUpPlayer(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.PickUpPlayer")
	defer span.End()

	var payload pickupRequest
	if err := h.decodeJSONBody(r, &payload); err != nil {
		writeError(ctx, w, err)
		return
	}

	tournamentID := pathValue(r, "tournamentID")
	teamID := pathValue(r, "teamID")
	if err := h.authorizeTeamAccess(r, tournamentID, teamID); err != nil {
		writeError(ctx, w, err)
		return
	}

	item, err := h.rosterService.AddToBench(ctx, usecase.RosterMutationInput{
		TournamentID: tournamentID,
		TeamID:       teamID,
		PlayerID:     payload.PlayerID,
	})
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, toTeamDTO(item))
}

func (h *Handler) MovePlayerToSlot(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.MovePlayerToSlot")
	defer span.End()

	var payload moveToSlotRequest
	if err := h.decodeJSONBody(r, &payload); err != nil {
		writeError(ctx, w, err)
		return
	}

	tournamentID := pathValue(r, "tournamentID")
	teamID := pathValue(r, "teamID")
	if err := h.authorizeTeamAccess(r, tournamentID, teamID); err != nil {
		writeError(ctx, w, err)
		return
	}

	item, err := h.rosterService.MoveToSlot(ctx, usecase.MoveToSlotInput{
		TournamentID: tournamentID,
		TeamID:       teamID,
		PlayerID:     payload.PlayerID,
		TargetSlot:   roster.Slot(payload.TargetSlot),
	})
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, toTeamDTO(item))
}

func (h *Handler) DropPlayer(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.DropPlayer")
	defer span.End()

	tournamentID := pathValue(r, "tournamentID")
	teamID := pathValue(r, "teamID")
	if err := h.authorizeTeamAccess(r, tournamentID, teamID); err != nil {
		writeError(ctx, w, err)
		return
	}

	item, err := h.rosterService.Drop(ctx, usecase.RosterMutationInput{
		TournamentID: tournamentID,
		TeamID:       teamID,
		PlayerID:     pathValue(r, "playerID"),
	})
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, toTeamDTO(item))
}

func toRosterViewDTO(view usecase.RosterView) rosterViewDTO {
	out := rosterViewDTO{
		Team:             toTeamDTO(view.Team),
		Entries:          make([]rosterEntryDTO, 0, len(view.Entries)),
		PickupsRemaining: view.PickupsRemaining,
	}
	for _, entry := range view.Entries {
		out.Entries = append(out.Entries, rosterEntryDTO{
			PlayerID:    entry.PlayerID,
			Name:        entry.Name,
			SourceTeam:  entry.SourceTeam,
			Position:    string(entry.Position),
			Slot:        string(entry.Slot),
			TotalPoints: entry.TotalPoints,
		})
	}

	return out
}
