package httpapi

import (
	"net/http"
)

type playerDTO struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	SourceTeam    string `json:"sourceTeam"`
	Position      string `json:"position"`
	TotalPoints   int    `json:"totalPoints"`
	MatchesPlayed int    `json:"matchesPlayed"`
	OwnedByTeamID string `json:"ownedByTeamId,omitempty"`
}

func (h *Handler) ListPlayers(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListPlayers")
	defer span.End()

	listing, err := h.playerService.ListPlayers(ctx, pathValue(r, "tournamentID"))
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	out := make([]playerDTO, 0, len(listing))
	for _, item := range listing {
		out = append(out, playerDTO{
			ID:            item.ID,
			Name:          item.Name,
			SourceTeam:    item.SourceTeam,
			Position:      string(item.Position),
			TotalPoints:   item.TotalPoints,
			MatchesPlayed: item.MatchesPlayed,
			OwnedByTeamID: item.OwnedByTeamID,
		})
	}
	writeSuccess(ctx, w, http.StatusOK, map[string]any{"players": out})
}

func (h *Handler) GetPlayer(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetPlayer")
	defer span.End()

	item, err := h.playerService.GetPlayer(ctx, pathValue(r, "tournamentID"), pathValue(r, "playerID"))
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, playerDTO{
		ID:            item.ID,
		Name:          item.Name,
		SourceTeam:    item.SourceTeam,
		Position:      string(item.Position),
		TotalPoints:   item.TotalPoints,
		MatchesPlayed: item.MatchesPlayed,
	})
}
