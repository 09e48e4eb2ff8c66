package app

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/riskibarqy/fantasy-cricket/external/cricfeed"
	"github.com/riskibarqy/fantasy-cricket/internal/config"
	"github.com/riskibarqy/fantasy-cricket/internal/domain/draft"
	"github.com/riskibarqy/fantasy-cricket/internal/domain/player"
	"github.com/riskibarqy/fantasy-cricket/internal/domain/scoring"
	"github.com/riskibarqy/fantasy-cricket/internal/domain/team"
	"github.com/riskibarqy/fantasy-cricket/internal/domain/tournament"
	"github.com/riskibarqy/fantasy-cricket/internal/domain/user"
	"github.com/riskibarqy/fantasy-cricket/internal/infrastructure/account"
	"github.com/riskibarqy/fantasy-cricket/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/fantasy-cricket/internal/infrastructure/repository/postgres"
	"github.com/riskibarqy/fantasy-cricket/internal/interfaces/httpapi"
	"github.com/riskibarqy/fantasy-cricket/internal/platform/cache"
	idgen "github.com/riskibarqy/fantasy-cricket/internal/platform/id"
	"github.com/riskibarqy/fantasy-cricket/internal/platform/logging"
	"github.com/riskibarqy/fantasy-cricket/internal/platform/resilience"
	"github.com/riskibarqy/fantasy-cricket/internal/usecase"
	"go.uber.org/zap/zapcore"
)

type repositories struct {
	tournaments tournament.Repository
	players     player.Repository
	teams       team.Repository
	drafts      draft.Repository
	scoring     scoring.Repository
}

func NewHTTPServer(cfg config.Config, logger *slog.Logger) (*http.Server, error) {
	if logger == nil {
		logger = slog.Default()
	}

	repos, err := buildRepositories(cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("build repositories: %w", err)
	}

	var directoryCache *cache.Store
	if cfg.CacheEnabled {
		directoryCache = cache.NewStore(cfg.CacheTTL)
	}

	tournamentSvc := usecase.NewTournamentService(repos.tournaments, logger)
	teamSvc := usecase.NewTeamService(repos.tournaments, repos.teams, idgen.NewRandomGenerator(), logger)
	playerSvc := usecase.NewPlayerService(repos.tournaments, repos.players, repos.teams, directoryCache, logger)
	draftSvc := usecase.NewDraftService(repos.tournaments, repos.teams, repos.players, repos.drafts, directoryCache, logger)
	rosterSvc := usecase.NewRosterService(repos.tournaments, repos.teams, repos.players, directoryCache, logger)
	scoringSvc := usecase.NewScoringService(repos.players, repos.scoring, buildStatsFeed(cfg), logger)

	verifier := buildVerifier(cfg)

	handler := httpapi.NewHandler(tournamentSvc, teamSvc, playerSvc, draftSvc, rosterSvc, scoringSvc, logger)
	router := httpapi.NewRouter(handler, verifier, logger, cfg.CORSAllowedOrigins)

	server := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	if server.Addr == "" {
		return nil, fmt.Errorf("http server addr cannot be empty")
	}

	return server, nil
}

// buildRepositories picks the storage backend from DB_URL: empty means the
// seeded in-memory stores, anything else is treated as a Postgres DSN.
func buildRepositories(cfg config.Config, logger *slog.Logger) (repositories, error) {
	if cfg.DBURL == "" {
		tournamentRepo := memory.NewTournamentRepository()
		playerRepo := memory.NewPlayerRepository()
		memory.Seed(tournamentRepo, playerRepo)
		logger.Info("storage backend selected", "backend", "memory", "tournament", memory.DefaultTournamentID)

		return repositories{
			tournaments: tournamentRepo,
			players:     playerRepo,
			teams:       memory.NewTeamRepository(),
			drafts:      memory.NewDraftRepository(),
			scoring:     memory.NewScoringRepository(),
		}, nil
	}

	db, err := openDB(cfg)
	if err != nil {
		return repositories{}, err
	}
	logger.Info("storage backend selected", "backend", "postgres")

	return repositories{
		tournaments: postgres.NewTournamentRepository(db),
		players:     postgres.NewPlayerRepository(db),
		teams:       postgres.NewTeamRepository(db),
		drafts:      postgres.NewDraftRepository(db),
		scoring:     postgres.NewScoringRepository(db),
	}, nil
}

func buildStatsFeed(cfg config.Config) usecase.StatsFeed {
	if !cfg.CricfeedEnabled {
		return disabledFeed{}
	}

	return cricfeed.NewClient(cricfeed.ClientConfig{
		BaseURL:      cfg.CricfeedBaseURL,
		Token:        cfg.CricfeedToken,
		Timeout:      cfg.CricfeedTimeout,
		MaxRetries:   cfg.CricfeedMaxRetries,
		PrefetchSize: cfg.CricfeedPrefetchSize,
		Logger:       logging.NewJSON(zapLevelFor(cfg.LogLevel)),
		CircuitBreaker: resilience.CircuitBreakerConfig{
			Enabled:          cfg.CricfeedCircuitEnabled,
			FailureThreshold: cfg.CricfeedCircuitFailureCount,
			OpenTimeout:      cfg.CricfeedCircuitOpenTimeout,
			HalfOpenMaxReq:   cfg.CricfeedCircuitHalfOpenMaxReq,
		},
	})
}

func buildVerifier(cfg config.Config) *account.StaticVerifier {
	verifier := account.NewStaticVerifier()
	verifier.Register(cfg.AdminToken, user.Principal{
		UserID:      "admin",
		DisplayName: "Administrator",
		IsAdmin:     true,
	})
	for token, userID := range cfg.DevUserTokens {
		verifier.Register(token, user.Principal{UserID: userID, DisplayName: userID})
	}

	return verifier
}

func zapLevelFor(level slog.Level) logging.Level {
	switch {
	case level <= slog.LevelDebug:
		return zapcore.DebugLevel
	case level <= slog.LevelInfo:
		return zapcore.InfoLevel
	case level <= slog.LevelWarn:
		return zapcore.WarnLevel
	default:
		return zapcore.ErrorLevel
	}
}
