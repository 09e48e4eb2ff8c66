package draftsync

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"time"

	sonic "github.com/bytedance/sonic"
	"github.com/valyala/fasthttp"
)

const defaultRequestTimeout = 10 * time.Second

// httpFetcher talks to the draft API over fasthttp and unwraps the response
// envelope.
type httpFetcher struct {
	client       *fasthttp.Client
	baseURL      string
	tournamentID string
	token        string
	timeout      time.Duration
}

func newHTTPFetcher(cfg Config) *httpFetcher {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultRequestTimeout
	}

	return &httpFetcher{
		client: &fasthttp.Client{
			ReadTimeout:  timeout,
			WriteTimeout: timeout,
		},
		baseURL:      cfg.BaseURL,
		tournamentID: cfg.TournamentID,
		token:        cfg.Token,
		timeout:      timeout,
	}
}

type responseEnvelope struct {
	APIVersion string          `json:"apiVersion"`
	Data       json.RawMessage `json:"data"`
	Error      *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

type statePayload struct {
	TournamentID string `json:"tournamentId"`
	Status       string `json:"status"`
	Cursor       int    `json:"cursor"`
	TotalPicks   int    `json:"totalPicks"`
}

type orderPayload struct {
	Order []struct {
		PickNumber int    `json:"pickNumber"`
		TeamID     string `json:"teamId"`
	} `json:"order"`
}

type picksPayload struct {
	Picks []struct {
		Number   int       `json:"number"`
		Round    int       `json:"round"`
		TeamID   string    `json:"teamId"`
		PlayerID string    `json:"playerId"`
		Slot     string    `json:"slot"`
		PickedAt time.Time `json:"pickedAt"`
	} `json:"picks"`
}

func (f *httpFetcher) FetchState(ctx context.Context) (StateSnapshot, error) {
	var payload statePayload
	if err := f.getJSON(ctx, f.draftPath(""), &payload); err != nil {
		return StateSnapshot{}, err
	}

	return StateSnapshot{
		TournamentID: payload.TournamentID,
		Status:       payload.Status,
		Cursor:       payload.Cursor,
		TotalPicks:   payload.TotalPicks,
	}, nil
}

func (f *httpFetcher) FetchOrder(ctx context.Context) ([]OrderEntry, error) {
	var payload orderPayload
	if err := f.getJSON(ctx, f.draftPath("/order"), &payload); err != nil {
		return nil, err
	}

	out := make([]OrderEntry, 0, len(payload.Order))
	for _, entry := range payload.Order {
		out = append(out, OrderEntry{PickNumber: entry.PickNumber, TeamID: entry.TeamID})
	}
	return out, nil
}

func (f *httpFetcher) FetchPicksAfter(ctx context.Context, afterNumber int) ([]Pick, error) {
	var payload picksPayload
	path := f.draftPath("/picks") + "?after=" + strconv.Itoa(afterNumber)
	if err := f.getJSON(ctx, path, &payload); err != nil {
		return nil, err
	}

	out := make([]Pick, 0, len(payload.Picks))
	for _, pick := range payload.Picks {
		out = append(out, Pick{
			Number:   pick.Number,
			Round:    pick.Round,
			TeamID:   pick.TeamID,
			PlayerID: pick.PlayerID,
			Slot:     pick.Slot,
			PickedAt: pick.PickedAt,
		})
	}
	return out, nil
}

func (f *httpFetcher) draftPath(suffix string) string {
	return f.baseURL + "/v1/tournaments/" + url.PathEscape(f.tournamentID) + "/draft" + suffix
}

func (f *httpFetcher) getJSON(ctx context.Context, fullURL string, target any) error {
	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(fullURL)
	req.Header.SetMethod(fasthttp.MethodGet)
	req.Header.Set("accept", "application/json")
	if f.token != "" {
		req.Header.Set("authorization", "Bearer "+f.token)
	}

	deadline := time.Now().Add(f.timeout)
	if ctxDeadline, ok := ctx.Deadline(); ok && ctxDeadline.Before(deadline) {
		deadline = ctxDeadline
	}
	if err := f.client.DoDeadline(req, resp, deadline); err != nil {
		return fmt.Errorf("request %s: %w", fullURL, err)
	}

	var envelope responseEnvelope
	if err := sonic.Unmarshal(resp.Body(), &envelope); err != nil {
		return fmt.Errorf("decode envelope: %w", err)
	}
	if envelope.Error != nil {
		return fmt.Errorf("server error code=%d: %s", envelope.Error.Code, envelope.Error.Message)
	}
	if resp.StatusCode() < 200 || resp.StatusCode() >= 300 {
		return fmt.Errorf("unexpected status %d from %s", resp.StatusCode(), fullURL)
	}
	if err := sonic.Unmarshal(envelope.Data, target); err != nil {
		return fmt.Errorf("decode payload: %w", err)
	}

	return nil
}
