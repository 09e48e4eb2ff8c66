package httpapi

import (
	"net/http"
	"time"

	"github.com/riskibarqy/fantasy-cricket/internal/domain/scoring"
	"github.com/riskibarqy/fantasy-cricket/internal/usecase"
)

type breakdownItemDTO struct {
	Label  string `json:"label"`
	Points int    `json:"points"`
}

type playerMatchRowDTO struct {
	PlayerID  string             `json:"playerId"`
	Name      string             `json:"name"`
	Position  string             `json:"position"`
	Total     int                `json:"total"`
	Breakdown []breakdownItemDTO `json:"breakdown"`
}

type scorecardPreviewDTO struct {
	TournamentID   string              `json:"tournamentId"`
	MatchID        string              `json:"matchId"`
	AlreadyApplied bool                `json:"alreadyApplied"`
	TotalPoints    int                 `json:"totalPoints"`
	Rows           []playerMatchRowDTO `json:"rows"`
	SkippedPlayers []string            `json:"skippedPlayers,omitempty"`
}

type appliedMatchDTO struct {
	TournamentID string `json:"tournamentId"`
	MatchID      string `json:"matchId"`
	PlayerCount  int    `json:"playerCount"`
	TotalPoints  int    `json:"totalPoints"`
	AppliedAt    string `json:"appliedAt"`
}

type manualPerformanceDTO struct {
	PlayerID    string  `json:"playerId" validate:"required"`
	Runs        int     `json:"runs" validate:"gte=0"`
	BallsFaced  int     `json:"ballsFaced" validate:"gte=0"`
	StrikeRate  float64 `json:"strikeRate" validate:"gte=0"`
	Wickets     int     `json:"wickets" validate:"gte=0"`
	OversBowled float64 `json:"oversBowled" validate:"gte=0"`
	EconomyRate float64 `json:"economyRate" validate:"gte=0"`
	Maidens     int     `json:"maidens" validate:"gte=0"`
	Catches     int     `json:"catches" validate:"gte=0"`
	RunOuts     int     `json:"runOuts" validate:"gte=0"`
	Stumpings   int     `json:"stumpings" validate:"gte=0"`
	IsKeeper    bool    `json:"isKeeper"`
}

type applyScorecardRequest struct {
	Performances []manualPerformanceDTO `json:"performances" validate:"dive"`
}

func (h *Handler) PreviewScorecard(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.PreviewScorecard")
	defer span.End()

	req := usecase.ScorecardRequest{
		TournamentID: pathValue(r, "tournamentID"),
		MatchID:      pathValue(r, "matchID"),
	}
	if r.ContentLength > 0 {
		var payload applyScorecardRequest
		if err := h.decodeJSONBody(r, &payload); err != nil {
			writeError(ctx, w, err)
			return
		}
		req.Manual = toManualPerformances(payload.Performances, req.MatchID)
	}

	preview, err := h.scoringService.PreviewScorecard(ctx, req)
	if err != nil {
		h.logger.ErrorContext(ctx, "preview scorecard failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, toPreviewDTO(preview))
}

func (h *Handler) ApplyScorecard(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ApplyScorecard")
	defer span.End()

	req := usecase.ScorecardRequest{
		TournamentID: pathValue(r, "tournamentID"),
		MatchID:      pathValue(r, "matchID"),
	}
	if r.ContentLength > 0 {
		var payload applyScorecardRequest
		if err := h.decodeJSONBody(r, &payload); err != nil {
			writeError(ctx, w, err)
			return
		}
		req.Manual = toManualPerformances(payload.Performances, req.MatchID)
	}

	result, err := h.scoringService.ApplyScorecard(ctx, req)
	if err != nil {
		h.logger.ErrorContext(ctx, "apply scorecard failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	rows := make([]playerMatchRowDTO, 0, len(result.Rows))
	for _, row := range result.Rows {
		rows = append(rows, toPlayerMatchRowDTO(row))
	}
	writeSuccess(ctx, w, http.StatusOK, map[string]any{
		"applied": toAppliedMatchDTO(result.Applied),
		"rows":    rows,
	})
}

func (h *Handler) ListAppliedMatches(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListAppliedMatches")
	defer span.End()

	matches, err := h.scoringService.ListAppliedMatches(ctx, pathValue(r, "tournamentID"))
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	out := make([]appliedMatchDTO, 0, len(matches))
	for _, item := range matches {
		out = append(out, toAppliedMatchDTO(item))
	}
	writeSuccess(ctx, w, http.StatusOK, map[string]any{"matches": out})
}

func toManualPerformances(payload []manualPerformanceDTO, matchID string) []scoring.MatchPerformance {
	out := make([]scoring.MatchPerformance, 0, len(payload))
	for _, perf := range payload {
		out = append(out, scoring.MatchPerformance{
			PlayerID:    perf.PlayerID,
			MatchID:     matchID,
			Runs:        perf.Runs,
			BallsFaced:  perf.BallsFaced,
			StrikeRate:  perf.StrikeRate,
			Wickets:     perf.Wickets,
			OversBowled: perf.OversBowled,
			EconomyRate: perf.EconomyRate,
			Maidens:     perf.Maidens,
			Catches:     perf.Catches,
			RunOuts:     perf.RunOuts,
			Stumpings:   perf.Stumpings,
			IsKeeper:    perf.IsKeeper,
		})
	}

	return out
}

func toPreviewDTO(preview usecase.ScorecardPreview) scorecardPreviewDTO {
	rows := make([]playerMatchRowDTO, 0, len(preview.Rows))
	for _, row := range preview.Rows {
		rows = append(rows, toPlayerMatchRowDTO(row))
	}

	return scorecardPreviewDTO{
		TournamentID:   preview.TournamentID,
		MatchID:        preview.MatchID,
		AlreadyApplied: preview.AlreadyApplied,
		TotalPoints:    preview.TotalPoints,
		Rows:           rows,
		SkippedPlayers: preview.SkippedPlayers,
	}
}

func toPlayerMatchRowDTO(row usecase.PlayerMatchRow) playerMatchRowDTO {
	breakdown := make([]breakdownItemDTO, 0, len(row.Points.Breakdown))
	for _, item := range row.Points.Breakdown {
		breakdown = append(breakdown, breakdownItemDTO{Label: item.Label, Points: item.Points})
	}

	return playerMatchRowDTO{
		PlayerID:  row.PlayerID,
		Name:      row.Name,
		Position:  string(row.Position),
		Total:     row.Points.Total,
		Breakdown: breakdown,
	}
}

func toAppliedMatchDTO(item scoring.AppliedMatch) appliedMatchDTO {
	return appliedMatchDTO{
		TournamentID: item.TournamentID,
		MatchID:      item.MatchID,
		PlayerCount:  item.PlayerCount,
		TotalPoints:  item.TotalPoints,
		AppliedAt:    item.AppliedAt.UTC().Format(time.RFC3339),
	}
}
