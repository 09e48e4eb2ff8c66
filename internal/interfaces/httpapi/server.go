package httpapi

import (
	"log/slog"
	"net/http"
)

func NewRouter(
	handler *Handler,
	verifier TokenVerifier,
	logger *slog.Logger,
	corsAllowedOrigins []string,
) http.Handler {
	if logger == nil {
		logger = slog.Default()
	}

	mux := http.NewServeMux()
	registerSystemRoutes(mux, handler)
	registerPublicRoutes(mux, handler)
	registerAuthorizedRoutes(mux, handler, verifier)
	registerAdminRoutes(mux, handler, verifier)

	return RequestTracing(RequestLogging(logger, CORS(corsAllowedOrigins, recoverPanic(logger, mux))))
}

func recoverPanic(logger *slog.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx, span := startSpan(r.Context(), "httpapi.recoverPanic")
		defer span.End()

		defer func() {
			if rec := recover(); rec != nil {
				logger.ErrorContext(ctx, "panic recovered", "panic", rec)
				writeInternalError(ctx, w)
			}
		}()
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func registerSystemRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /healthz", handler.Healthz)
}

func registerPublicRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /v1/tournaments", handler.ListTournaments)
	mux.HandleFunc("GET /v1/tournaments/{tournamentID}", handler.GetTournament)
	mux.HandleFunc("GET /v1/tournaments/{tournamentID}/players", handler.ListPlayers)
	mux.HandleFunc("GET /v1/tournaments/{tournamentID}/players/{playerID}", handler.GetPlayer)
	mux.HandleFunc("GET /v1/tournaments/{tournamentID}/teams", handler.ListTeams)
	mux.HandleFunc("GET /v1/tournaments/{tournamentID}/teams/{teamID}", handler.GetTeam)
	mux.HandleFunc("GET /v1/tournaments/{tournamentID}/teams/{teamID}/roster", handler.GetRoster)
	mux.HandleFunc("GET /v1/tournaments/{tournamentID}/draft", handler.GetDraftState)
	mux.HandleFunc("GET /v1/tournaments/{tournamentID}/draft/order", handler.GetDraftOrder)
	mux.HandleFunc("GET /v1/tournaments/{tournamentID}/draft/picks", handler.ListDraftPicks)
	mux.HandleFunc("GET /v1/tournaments/{tournamentID}/scoring/applied", handler.ListAppliedMatches)
}

func registerAuthorizedRoutes(mux *http.ServeMux, handler *Handler, verifier TokenVerifier) {
	mux.Handle("POST /v1/tournaments/{tournamentID}/teams", RequireAuth(verifier, http.HandlerFunc(handler.CreateTeam)))
	mux.Handle("POST /v1/tournaments/{tournamentID}/draft/picks", RequireAuth(verifier, http.HandlerFunc(handler.MakeDraftPick)))
	mux.Handle("POST /v1/tournaments/{tournamentID}/teams/{teamID}/roster/pickups", RequireAuth(verifier, http.HandlerFunc(handler.PickUpPlayer)))
	mux.Handle("POST /v1/tournaments/{tournamentID}/teams/{teamID}/roster/moves", RequireAuth(verifier, http.HandlerFunc(handler.MovePlayerToSlot)))
	mux.Handle("DELETE /v1/tournaments/{tournamentID}/teams/{teamID}/roster/{playerID}", RequireAuth(verifier, http.HandlerFunc(handler.DropPlayer)))
}

func registerAdminRoutes(mux *http.ServeMux, handler *Handler, verifier TokenVerifier) {
	mux.Handle("POST /v1/tournaments/{tournamentID}/draft/open", RequireAdmin(verifier, http.HandlerFunc(handler.OpenDraftRegistration)))
	mux.Handle("POST /v1/tournaments/{tournamentID}/draft/start", RequireAdmin(verifier, http.HandlerFunc(handler.StartDraft)))
	mux.Handle("POST /v1/tournaments/{tournamentID}/draft/reset", RequireAdmin(verifier, http.HandlerFunc(handler.ResetDraft)))
	mux.Handle("POST /v1/tournaments/{tournamentID}/scoring/matches/{matchID}/preview", RequireAdmin(verifier, http.HandlerFunc(handler.PreviewScorecard)))
	mux.Handle("POST /v1/tournaments/{tournamentID}/scoring/matches/{matchID}/apply", RequireAdmin(verifier, http.HandlerFunc(handler.ApplyScorecard)))
}
