package httpapi

import (
	"net/http"

	"github.com/riskibarqy/fantasy-cricket/internal/domain/tournament"
)

type tournamentDTO struct {
	ID                 string `json:"id"`
	Name               string `json:"name"`
	Season             string `json:"season"`
	DraftRounds        int    `json:"draftRounds"`
	WeeklyPickupBudget int    `json:"weeklyPickupBudget"`
	IsDefault          bool   `json:"isDefault"`
}

func (h *Handler) ListTournaments(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListTournaments")
	defer span.End()

	tournaments, err := h.tournamentService.ListTournaments(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "list tournaments failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	out := make([]tournamentDTO, 0, len(tournaments))
	for _, item := range tournaments {
		out = append(out, toTournamentDTO(item))
	}
	writeSuccess(ctx, w, http.StatusOK, map[string]any{"tournaments": out})
}

func (h *Handler) GetTournament(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetTournament")
	defer span.End()

	item, err := h.tournamentService.GetTournament(ctx, pathValue(r, "tournamentID"))
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, toTournamentDTO(item))
}

func toTournamentDTO(item tournament.Tournament) tournamentDTO {
	return tournamentDTO{
		ID:                 item.ID,
		Name:               item.Name,
		Season:             item.Season,
		DraftRounds:        item.DraftRounds,
		WeeklyPickupBudget: item.WeeklyPickupBudget,
		IsDefault:          item.IsDefault,
	}
}
