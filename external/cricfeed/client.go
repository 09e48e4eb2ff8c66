package cricfeed

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	ants "github.com/panjf2000/ants/v2"
	"github.com/valyala/bytebufferpool"

	"github.com/riskibarqy/fantasy-cricket/internal/domain/scoring"
	"github.com/riskibarqy/fantasy-cricket/internal/platform/logging"
	"github.com/riskibarqy/fantasy-cricket/internal/platform/resilience"
)

const (
	defaultBaseURL      = "https://feed.cricstats.example.com/v2"
	defaultTimeout      = 15 * time.Second
	defaultPrefetchSize = 4
	maxResponseBytes    = 4 << 20
)

var errCricfeedTransient = crerr.New("cricfeed transient failure")

type ClientConfig struct {
	HTTPClient     *http.Client
	BaseURL        string
	Token          string
	Timeout        time.Duration
	MaxRetries     int
	PrefetchSize   int
	Logger         *logging.Logger
	CircuitBreaker resilience.CircuitBreakerConfig
}

// Client fetches match scorecards from the upstream cricket stats provider.
// Concurrent fetches for the same match collapse onto one request; repeated
// provider failures trip a circuit breaker so a dead feed fails fast.
type Client struct {
	httpClient     *http.Client
	baseURL        string
	token          string
	maxRetries     int
	prefetchSize   int
	logger         *logging.Logger
	breaker        *resilience.CircuitBreaker
	circuitEnabled bool
	flight         resilience.SingleFlight
}

func NewClient(cfg ClientConfig) *Client {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	if httpClient.Timeout <= 0 {
		httpClient.Timeout = defaultTimeout
	}

	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	prefetchSize := cfg.PrefetchSize
	if prefetchSize <= 0 {
		prefetchSize = defaultPrefetchSize
	}

	maxRetries := cfg.MaxRetries
	if maxRetries < 0 {
		maxRetries = 0
	}

	return &Client{
		httpClient:     httpClient,
		baseURL:        baseURL,
		token:          strings.TrimSpace(cfg.Token),
		maxRetries:     maxRetries,
		prefetchSize:   prefetchSize,
		logger:         logger,
		breaker:        resilience.NewCircuitBreaker(cfg.CircuitBreaker),
		circuitEnabled: cfg.CircuitBreaker.Enabled,
	}
}

type performancePayload struct {
	PlayerID    string  `json:"playerId"`
	Runs        int     `json:"runs"`
	BallsFaced  int     `json:"ballsFaced"`
	StrikeRate  float64 `json:"strikeRate"`
	Wickets     int     `json:"wickets"`
	OversBowled float64 `json:"oversBowled"`
	EconomyRate float64 `json:"economyRate"`
	Maidens     int     `json:"maidens"`
	Catches     int     `json:"catches"`
	RunOuts     int     `json:"runOuts"`
	Stumpings   int     `json:"stumpings"`
	IsKeeper    bool    `json:"isKeeper"`
}

type scorecardPayload struct {
	TournamentID string               `json:"tournamentId"`
	MatchID      string               `json:"matchId"`
	StartedAt    time.Time            `json:"startedAt"`
	Performances []performancePayload `json:"performances"`
}

// FetchScorecard returns the full scorecard for one match.
func (c *Client) FetchScorecard(ctx context.Context, tournamentID, matchID string) (scoring.Scorecard, error) {
	tournamentID = strings.TrimSpace(tournamentID)
	matchID = strings.TrimSpace(matchID)
	if tournamentID == "" || matchID == "" {
		return scoring.Scorecard{}, fmt.Errorf("tournament id and match id are required")
	}

	path := c.scorecardPath(tournamentID, matchID)
	var payload scorecardPayload
	if err := c.doJSON(ctx, path, &payload); err != nil {
		return scoring.Scorecard{}, fmt.Errorf("fetch scorecard match=%s: %w", matchID, err)
	}

	card := scoring.Scorecard{
		TournamentID: tournamentID,
		MatchID:      matchID,
		StartedAt:    payload.StartedAt,
		Performances: make([]scoring.MatchPerformance, 0, len(payload.Performances)),
	}
	for _, perf := range payload.Performances {
		card.Performances = append(card.Performances, scoring.MatchPerformance{
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

	return card, nil
}

// PrefetchScorecards warms several matches through a bounded worker pool.
// Individual match failures are logged and skipped; the returned map holds
// whatever succeeded.
func (c *Client) PrefetchScorecards(ctx context.Context, tournamentID string, matchIDs []string) (map[string]scoring.Scorecard, error) {
	if len(matchIDs) == 0 {
		return map[string]scoring.Scorecard{}, nil
	}

	workers, err := ants.NewPool(c.prefetchSize)
	if err != nil {
		return nil, fmt.Errorf("create prefetch pool: %w", err)
	}
	defer workers.Release()

	var (
		mu  sync.Mutex
		wg  sync.WaitGroup
		out = make(map[string]scoring.Scorecard, len(matchIDs))
	)
	for _, matchID := range matchIDs {
		wg.Add(1)
		submitErr := workers.Submit(func() {
			defer wg.Done()
			card, fetchErr := c.FetchScorecard(ctx, tournamentID, matchID)
			if fetchErr != nil {
				c.logger.WarnContext(ctx, "scorecard prefetch failed",
					"tournament_id", tournamentID,
					"match_id", matchID,
					"error", fetchErr,
				)
				return
			}
			mu.Lock()
			out[card.MatchID] = card
			mu.Unlock()
		})
		if submitErr != nil {
			wg.Done()
			return nil, fmt.Errorf("submit prefetch task: %w", submitErr)
		}
	}
	wg.Wait()

	return out, nil
}

func (c *Client) scorecardPath(tournamentID, matchID string) string {
	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	_, _ = buf.WriteString("/tournaments/")
	_, _ = buf.WriteString(url.PathEscape(tournamentID))
	_, _ = buf.WriteString("/matches/")
	_, _ = buf.WriteString(url.PathEscape(matchID))
	_, _ = buf.WriteString("/scorecard")

	return buf.String()
}

func (c *Client) doJSON(ctx context.Context, path string, target any) error {
	if c.circuitEnabled {
		if err := c.breaker.Allow(); err != nil {
			c.logger.WarnContext(ctx, "cricfeed circuit breaker rejected request", "state", string(c.breaker.State()))
			return fmt.Errorf("stats feed temporarily unavailable: %w", err)
		}
	}

	fullURL := c.baseURL + path
	out, err, _ := c.flight.Do(path, func() (any, error) {
		raw, reqErr := c.executeRequest(ctx, fullURL)
		if c.circuitEnabled {
			if reqErr != nil && crerr.Is(reqErr, errCricfeedTransient) {
				c.breaker.RecordFailure()
			} else {
				c.breaker.RecordSuccess()
			}
		}
		return raw, reqErr
	})
	if err != nil {
		return err
	}

	raw, ok := out.([]byte)
	if !ok {
		return fmt.Errorf("unexpected response payload type %T", out)
	}
	if err := sonic.Unmarshal(raw, target); err != nil {
		return fmt.Errorf("decode feed payload: %w", err)
	}

	return nil
}

func (c *Client) executeRequest(ctx context.Context, fullURL string) ([]byte, error) {
	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
		if err != nil {
			return nil, fmt.Errorf("build request: %w", err)
		}
		req.Header.Set("accept", "application/json")
		if c.token != "" {
			req.Header.Set("authorization", "Bearer "+c.token)
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = crerr.Wrapf(errCricfeedTransient, "send request: %v", err)
		} else {
			raw, readErr := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
			_ = resp.Body.Close()
			switch {
			case readErr != nil:
				lastErr = crerr.Wrapf(errCricfeedTransient, "read response body: %v", readErr)
			case resp.StatusCode >= 200 && resp.StatusCode < 300:
				return raw, nil
			case isRetryableStatus(resp.StatusCode):
				lastErr = crerr.Wrapf(errCricfeedTransient, "feed status=%d", resp.StatusCode)
			default:
				return nil, fmt.Errorf("feed status=%d body=%s", resp.StatusCode, abbreviateBody(raw))
			}
		}

		if attempt == c.maxRetries {
			break
		}
		backoff := time.Duration(attempt+1) * time.Second
		timer := time.NewTimer(backoff)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}

	if lastErr == nil {
		lastErr = fmt.Errorf("feed request failed")
	}
	c.logger.WarnContext(ctx, "cricfeed request failed", "url", fullURL, "error", lastErr)
	return nil, lastErr
}

func isRetryableStatus(status int) bool {
	return status == http.StatusTooManyRequests || status >= http.StatusInternalServerError
}

func abbreviateBody(raw []byte) string {
	const limit = 256
	if len(raw) <= limit {
		return string(raw)
	}

	return string(raw[:limit]) + "..."
}
