// Package draftsync keeps a local replica of a tournament's draft state in
// step with the server by polling. Staleness is expected and self-healing:
// whenever the server cursor is ahead of the local one, the client fetches
// exactly the missing picks and replays them in order.
package draftsync

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/riskibarqy/fantasy-cricket/internal/platform/logging"
)

// DefaultPollInterval is how often the replica reconciles with the server.
const DefaultPollInterval = 3 * time.Second

// StateSnapshot is the server's draft summary as seen by the replica.
type StateSnapshot struct {
	TournamentID string
	Status       string
	Cursor       int
	TotalPicks   int
}

// OrderEntry mirrors one turn of the persisted draft order.
type OrderEntry struct {
	PickNumber int
	TeamID     string
}

// Pick mirrors one committed pick.
type Pick struct {
	Number   int
	Round    int
	TeamID   string
	PlayerID string
	Slot     string
	PickedAt time.Time
}

// Replica is the client-side copy of the draft: summary, order, and the pick
// log up to the local cursor.
type Replica struct {
	State  StateSnapshot
	Order  []OrderEntry
	Picks  []Pick
	Cursor int
}

// fetcher is the server surface the client needs. Tests stub it; production
// uses the fasthttp-backed implementation in transport.go.
type fetcher interface {
	FetchState(ctx context.Context) (StateSnapshot, error)
	FetchOrder(ctx context.Context) ([]OrderEntry, error)
	FetchPicksAfter(ctx context.Context, afterNumber int) ([]Pick, error)
}

type Config struct {
	BaseURL      string
	TournamentID string
	Token        string
	PollInterval time.Duration
	Timeout      time.Duration
	Logger       *logging.Logger
}

// Client polls the draft API and maintains a Replica. The draft order is
// fetched exactly once, on the first poll that observes the draft past the
// open phase; it never changes afterwards, so refetching it would be waste.
type Client struct {
	fetch    fetcher
	interval time.Duration
	logger   *logging.Logger

	mu           sync.RWMutex
	replica      Replica
	orderFetched bool

	onPick func(Pick)
}

func NewClient(cfg Config) (*Client, error) {
	cfg.BaseURL = strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	cfg.TournamentID = strings.TrimSpace(cfg.TournamentID)
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("base url is required")
	}
	if cfg.TournamentID == "" {
		return nil, fmt.Errorf("tournament id is required")
	}

	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}

	interval := cfg.PollInterval
	if interval <= 0 {
		interval = DefaultPollInterval
	}

	return &Client{
		fetch:    newHTTPFetcher(cfg),
		interval: interval,
		logger:   logger,
	}, nil
}

// newClientWithFetcher wires a stub transport for tests.
func newClientWithFetcher(fetch fetcher, interval time.Duration, logger *logging.Logger) *Client {
	if logger == nil {
		logger = logging.Default()
	}
	if interval <= 0 {
		interval = DefaultPollInterval
	}

	return &Client{fetch: fetch, interval: interval, logger: logger}
}

// OnPick registers a callback invoked for every newly observed pick, in pick
// order. Must be set before Run.
func (c *Client) OnPick(fn func(Pick)) {
	c.onPick = fn
}

// Snapshot returns a copy of the current replica.
func (c *Client) Snapshot() Replica {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := c.replica
	out.Order = append([]OrderEntry(nil), c.replica.Order...)
	out.Picks = append([]Pick(nil), c.replica.Picks...)

	return out
}

// Run polls until the context is cancelled or the draft completes. The first
// sync happens immediately, not one interval in.
func (c *Client) Run(ctx context.Context) error {
	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	for {
		if err := c.SyncOnce(ctx); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			c.logger.WarnContext(ctx, "draft sync failed, retrying next poll", "error", err)
		} else if c.Snapshot().State.Status == "completed" && c.Snapshot().Cursor >= c.Snapshot().State.TotalPicks {
			return nil
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

// SyncOnce performs a single reconcile pass: refresh the summary, fetch the
// order the first time the draft is past open, then pull any picks the local
// cursor is missing.
func (c *Client) SyncOnce(ctx context.Context) error {
	state, err := c.fetch.FetchState(ctx)
	if err != nil {
		return fmt.Errorf("fetch draft state: %w", err)
	}

	c.mu.Lock()
	c.replica.State = state
	needOrder := !c.orderFetched && (state.Status == "in_progress" || state.Status == "completed")
	localCursor := c.replica.Cursor
	c.mu.Unlock()

	if needOrder {
		order, err := c.fetch.FetchOrder(ctx)
		if err != nil {
			return fmt.Errorf("fetch draft order: %w", err)
		}
		c.mu.Lock()
		c.replica.Order = order
		c.orderFetched = true
		c.mu.Unlock()
	}

	if state.Cursor <= localCursor {
		return nil
	}

	picks, err := c.fetch.FetchPicksAfter(ctx, localCursor)
	if err != nil {
		return fmt.Errorf("fetch picks after %d: %w", localCursor, err)
	}

	c.mu.Lock()
	for _, pick := range picks {
		if pick.Number <= c.replica.Cursor {
			continue
		}
		c.replica.Picks = append(c.replica.Picks, pick)
		c.replica.Cursor = pick.Number
	}
	callback := c.onPick
	c.mu.Unlock()

	if callback != nil {
		for _, pick := range picks {
			callback(pick)
		}
	}

	c.logger.DebugContext(ctx, "draft replica reconciled",
		"tournament_id", state.TournamentID,
		"server_cursor", state.Cursor,
		"local_cursor", c.Snapshot().Cursor,
		"new_picks", len(picks),
	)

	return nil
}
