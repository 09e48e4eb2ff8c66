package draftsync

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"
)

type stubFetcher struct {
	mu         sync.Mutex
	states     []StateSnapshot
	stateIdx   int
	order      []OrderEntry
	orderCalls int
	picks      []Pick
	picksCalls int
	stateErr   error
	picksErr   error
	lastAfter  int
}

func (f *stubFetcher) FetchState(context.Context) (StateSnapshot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.stateErr != nil {
		return StateSnapshot{}, f.stateErr
	}
	state := f.states[f.stateIdx]
	if f.stateIdx < len(f.states)-1 {
		f.stateIdx++
	}
	return state, nil
}

func (f *stubFetcher) setStateErr(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.stateErr = err
}

func (f *stubFetcher) FetchOrder(context.Context) ([]OrderEntry, error) {
	f.orderCalls++
	return f.order, nil
}

func (f *stubFetcher) FetchPicksAfter(_ context.Context, afterNumber int) ([]Pick, error) {
	f.picksCalls++
	f.lastAfter = afterNumber
	if f.picksErr != nil {
		return nil, f.picksErr
	}
	out := make([]Pick, 0, len(f.picks))
	for _, pick := range f.picks {
		if pick.Number > afterNumber {
			out = append(out, pick)
		}
	}
	return out, nil
}

func TestSyncOnce_BootstrapFetchesOrderAndPicks(t *testing.T) {
	fetch := &stubFetcher{
		states: []StateSnapshot{
			{TournamentID: "t1", Status: "in_progress", Cursor: 2, TotalPicks: 4},
		},
		order: []OrderEntry{
			{PickNumber: 1, TeamID: "team-a"},
			{PickNumber: 2, TeamID: "team-b"},
			{PickNumber: 3, TeamID: "team-b"},
			{PickNumber: 4, TeamID: "team-a"},
		},
		picks: []Pick{
			{Number: 1, TeamID: "team-a", PlayerID: "p1"},
			{Number: 2, TeamID: "team-b", PlayerID: "p2"},
		},
	}
	client := newClientWithFetcher(fetch, time.Millisecond, nil)

	if err := client.SyncOnce(t.Context()); err != nil {
		t.Fatalf("sync: %v", err)
	}

	snapshot := client.Snapshot()
	if snapshot.Cursor != 2 {
		t.Fatalf("expected local cursor 2, got %d", snapshot.Cursor)
	}
	if len(snapshot.Order) != 4 {
		t.Fatalf("expected full order replica, got %d entries", len(snapshot.Order))
	}
	if len(snapshot.Picks) != 2 {
		t.Fatalf("expected 2 replicated picks, got %d", len(snapshot.Picks))
	}
	if fetch.lastAfter != 0 {
		t.Fatalf("expected bootstrap delta from 0, got %d", fetch.lastAfter)
	}
}

func TestSyncOnce_OrderFetchedExactlyOnce(t *testing.T) {
	fetch := &stubFetcher{
		states: []StateSnapshot{
			{TournamentID: "t1", Status: "open", Cursor: 0, TotalPicks: 0},
			{TournamentID: "t1", Status: "in_progress", Cursor: 0, TotalPicks: 4},
			{TournamentID: "t1", Status: "in_progress", Cursor: 1, TotalPicks: 4},
		},
		order: []OrderEntry{{PickNumber: 1, TeamID: "team-a"}},
		picks: []Pick{{Number: 1, TeamID: "team-a", PlayerID: "p1"}},
	}
	client := newClientWithFetcher(fetch, time.Millisecond, nil)

	// While the draft is only open, the order is not fetched.
	if err := client.SyncOnce(t.Context()); err != nil {
		t.Fatalf("sync 1: %v", err)
	}
	if fetch.orderCalls != 0 {
		t.Fatalf("expected no order fetch while open, got %d", fetch.orderCalls)
	}

	for i := 0; i < 3; i++ {
		if err := client.SyncOnce(t.Context()); err != nil {
			t.Fatalf("sync %d: %v", i+2, err)
		}
	}
	if fetch.orderCalls != 1 {
		t.Fatalf("expected order fetched exactly once, got %d", fetch.orderCalls)
	}
}

func TestSyncOnce_DeltaFetchOnlyMissingPicks(t *testing.T) {
	fetch := &stubFetcher{
		states: []StateSnapshot{
			{TournamentID: "t1", Status: "in_progress", Cursor: 2, TotalPicks: 4},
			{TournamentID: "t1", Status: "in_progress", Cursor: 2, TotalPicks: 4},
			{TournamentID: "t1", Status: "completed", Cursor: 4, TotalPicks: 4},
		},
		order: []OrderEntry{{PickNumber: 1, TeamID: "team-a"}},
		picks: []Pick{
			{Number: 1, PlayerID: "p1"},
			{Number: 2, PlayerID: "p2"},
			{Number: 3, PlayerID: "p3"},
			{Number: 4, PlayerID: "p4"},
		},
	}
	client := newClientWithFetcher(fetch, time.Millisecond, nil)

	var seen []string
	client.OnPick(func(pick Pick) { seen = append(seen, pick.PlayerID) })

	if err := client.SyncOnce(t.Context()); err != nil {
		t.Fatalf("sync 1: %v", err)
	}

	// Server cursor unchanged: no pick fetch at all.
	before := fetch.picksCalls
	if err := client.SyncOnce(t.Context()); err != nil {
		t.Fatalf("sync 2: %v", err)
	}
	if fetch.picksCalls != before {
		t.Fatal("expected no pick fetch when the cursor is caught up")
	}

	// Server advanced to 4: fetch only picks after 2.
	if err := client.SyncOnce(t.Context()); err != nil {
		t.Fatalf("sync 3: %v", err)
	}
	if fetch.lastAfter != 2 {
		t.Fatalf("expected delta fetch after pick 2, got %d", fetch.lastAfter)
	}

	snapshot := client.Snapshot()
	if snapshot.Cursor != 4 {
		t.Fatalf("expected cursor 4, got %d", snapshot.Cursor)
	}
	if len(snapshot.Picks) != 4 {
		t.Fatalf("expected 4 replicated picks, got %d", len(snapshot.Picks))
	}

	want := []string{"p1", "p2", "p3", "p4"}
	if len(seen) != len(want) {
		t.Fatalf("expected %d callbacks, got %d", len(want), len(seen))
	}
	for idx := range want {
		if seen[idx] != want[idx] {
			t.Fatalf("callback %d: expected %s, got %s", idx, want[idx], seen[idx])
		}
	}
}

func TestRun_ExitsWhenDraftCompletes(t *testing.T) {
	fetch := &stubFetcher{
		states: []StateSnapshot{
			{TournamentID: "t1", Status: "completed", Cursor: 1, TotalPicks: 1},
		},
		order: []OrderEntry{{PickNumber: 1, TeamID: "team-a"}},
		picks: []Pick{{Number: 1, PlayerID: "p1"}},
	}
	client := newClientWithFetcher(fetch, time.Millisecond, nil)

	ctx, cancel := context.WithTimeout(t.Context(), time.Second)
	defer cancel()

	if err := client.Run(ctx); err != nil {
		t.Fatalf("expected clean exit on completed draft, got %v", err)
	}
}

func TestRun_RetriesAfterTransientError(t *testing.T) {
	fetch := &stubFetcher{
		states: []StateSnapshot{
			{TournamentID: "t1", Status: "completed", Cursor: 0, TotalPicks: 0},
		},
		stateErr: fmt.Errorf("connection refused"),
	}
	client := newClientWithFetcher(fetch, time.Millisecond, nil)

	done := make(chan error, 1)
	ctx, cancel := context.WithCancel(t.Context())
	go func() { done <- client.Run(ctx) }()

	// Let a few failing polls happen, then heal the transport.
	time.Sleep(20 * time.Millisecond)
	fetch.setStateErr(nil)

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("expected clean exit after recovery, got %v", err)
		}
	case <-time.After(time.Second):
		cancel()
		t.Fatal("client did not finish after the transport recovered")
	}
	cancel()
}

func TestNewClient_Validation(t *testing.T) {
	if _, err := NewClient(Config{TournamentID: "t1"}); err == nil {
		t.Fatal("expected error for missing base url")
	}
	if _, err := NewClient(Config{BaseURL: "http://localhost:8080"}); err == nil {
		t.Fatal("expected error for missing tournament id")
	}
	client, err := NewClient(Config{BaseURL: "http://localhost:8080/", TournamentID: "t1"})
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	if client.interval != DefaultPollInterval {
		t.Fatalf("expected default poll interval, got %v", client.interval)
	}
}
