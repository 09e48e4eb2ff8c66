package httpapi

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/riskibarqy/fantasy-cricket/internal/domain/draft"
	"github.com/riskibarqy/fantasy-cricket/internal/usecase"
)

type draftStateDTO struct {
	TournamentID string `json:"tournamentId"`
	Status       string `json:"status"`
	Cursor       int    `json:"cursor"`
	TotalPicks   int    `json:"totalPicks"`
	CurrentTeam  string `json:"currentTeamId,omitempty"`
	StartedAt    string `json:"startedAt,omitempty"`
	CompletedAt  string `json:"completedAt,omitempty"`
}

type orderEntryDTO struct {
	PickNumber int    `json:"pickNumber"`
	TeamID     string `json:"teamId"`
}

type pickDTO struct {
	Number   int    `json:"number"`
	Round    int    `json:"round"`
	TeamID   string `json:"teamId"`
	PlayerID string `json:"playerId"`
	Slot     string `json:"slot"`
	PickedAt string `json:"pickedAt"`
}

type startDraftRequest struct {
	AdminOverride bool `json:"adminOverride"`
}

type makePickRequest struct {
	TeamID   string `json:"teamId" validate:"required"`
	PlayerID string `json:"playerId" validate:"required"`
}

func (h *Handler) GetDraftState(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetDraftState")
	defer span.End()

	session, err := h.draftService.GetState(ctx, pathValue(r, "tournamentID"))
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, toDraftStateDTO(session))
}

func (h *Handler) GetDraftOrder(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetDraftOrder")
	defer span.End()

	session, err := h.draftService.GetState(ctx, pathValue(r, "tournamentID"))
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	out := make([]orderEntryDTO, 0, len(session.Order))
	for _, entry := range session.Order {
		out = append(out, orderEntryDTO{PickNumber: entry.PickNumber, TeamID: entry.TeamID})
	}
	writeSuccess(ctx, w, http.StatusOK, map[string]any{"order": out})
}

func (h *Handler) ListDraftPicks(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListDraftPicks")
	defer span.End()

	after := 0
	if raw := strings.TrimSpace(r.URL.Query().Get("after")); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			writeError(ctx, w, invalidAfterParam(raw))
			return
		}
		after = parsed
	}

	picks, err := h.draftService.ListPicksAfter(ctx, pathValue(r, "tournamentID"), after)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	out := make([]pickDTO, 0, len(picks))
	for _, pick := range picks {
		out = append(out, toPickDTO(pick))
	}
	writeSuccess(ctx, w, http.StatusOK, map[string]any{"picks": out})
}

func (h *Handler) OpenDraftRegistration(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.OpenDraftRegistration")
	defer span.End()

	session, err := h.draftService.OpenRegistration(ctx, pathValue(r, "tournamentID"))
	if err != nil {
		h.logger.ErrorContext(ctx, "open draft registration failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, toDraftStateDTO(session))
}

func (h *Handler) StartDraft(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.StartDraft")
	defer span.End()

	var payload startDraftRequest
	if r.ContentLength > 0 {
		if err := h.decodeJSONBody(r, &payload); err != nil {
			writeError(ctx, w, err)
			return
		}
	}

	session, err := h.draftService.StartDraft(ctx, usecase.StartDraftInput{
		TournamentID:  pathValue(r, "tournamentID"),
		AdminOverride: payload.AdminOverride,
	})
	if err != nil {
		h.logger.ErrorContext(ctx, "start draft failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, toDraftStateDTO(session))
}

func (h *Handler) MakeDraftPick(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.MakeDraftPick")
	defer span.End()

	var payload makePickRequest
	if err := h.decodeJSONBody(r, &payload); err != nil {
		writeError(ctx, w, err)
		return
	}

	tournamentID := pathValue(r, "tournamentID")
	if err := h.authorizeTeamAccess(r, tournamentID, payload.TeamID); err != nil {
		writeError(ctx, w, err)
		return
	}

	result, err := h.draftService.MakePick(ctx, usecase.MakePickInput{
		TournamentID: tournamentID,
		TeamID:       payload.TeamID,
		PlayerID:     payload.PlayerID,
	})
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, map[string]any{
		"pick":  toPickDTO(result.Pick),
		"state": toDraftStateDTO(result.Session),
	})
}

func (h *Handler) ResetDraft(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ResetDraft")
	defer span.End()

	session, err := h.draftService.ResetDraft(ctx, pathValue(r, "tournamentID"))
	if err != nil {
		h.logger.ErrorContext(ctx, "reset draft failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, toDraftStateDTO(session))
}

func invalidAfterParam(raw string) error {
	return fmt.Errorf("%w: invalid after parameter %q", usecase.ErrInvalidInput, raw)
}

func toDraftStateDTO(session draft.Session) draftStateDTO {
	dto := draftStateDTO{
		TournamentID: session.TournamentID,
		Status:       string(session.Status),
		Cursor:       session.Cursor,
		TotalPicks:   len(session.Order),
		StartedAt:    formatTimePtr(session.StartedAt),
		CompletedAt:  formatTimePtr(session.CompletedAt),
	}
	if teamID, ok := session.CurrentTeam(); ok {
		dto.CurrentTeam = teamID
	}

	return dto
}

func toPickDTO(pick draft.Pick) pickDTO {
	return pickDTO{
		Number:   pick.Number,
		Round:    pick.Round,
		TeamID:   pick.TeamID,
		PlayerID: pick.PlayerID,
		Slot:     string(pick.Slot),
		PickedAt: pick.PickedAt.UTC().Format(time.RFC3339),
	}
}
