package roster

import (
	"testing"
	"time"
)

func TestStartOfISOWeek(t *testing.T) {
	// 2026-02-11 is a Wednesday; the week starts Monday 2026-02-09.
	wednesday := time.Date(2026, 2, 11, 15, 30, 0, 0, time.UTC)
	want := time.Date(2026, 2, 9, 0, 0, 0, 0, time.UTC)

	if got := StartOfISOWeek(wednesday); !got.Equal(want) {
		t.Fatalf("expected week start %v, got %v", want, got)
	}

	monday := time.Date(2026, 2, 9, 0, 0, 0, 0, time.UTC)
	if got := StartOfISOWeek(monday); !got.Equal(monday) {
		t.Fatalf("expected monday to be its own week start, got %v", got)
	}

	sunday := time.Date(2026, 2, 15, 23, 59, 59, 0, time.UTC)
	if got := StartOfISOWeek(sunday); !got.Equal(want) {
		t.Fatalf("expected sunday to belong to week of %v, got %v", want, got)
	}
}

func TestNeedsWeeklyReset(t *testing.T) {
	wednesday := time.Date(2026, 2, 11, 12, 0, 0, 0, time.UTC)

	if NeedsWeeklyReset(wednesday, wednesday.Add(2*time.Hour)) {
		t.Fatal("expected no reset within the same week")
	}

	sunday := time.Date(2026, 2, 15, 23, 0, 0, 0, time.UTC)
	nextMonday := time.Date(2026, 2, 16, 0, 30, 0, 0, time.UTC)
	if !NeedsWeeklyReset(sunday, nextMonday) {
		t.Fatal("expected reset after crossing into the next week")
	}

	if !NeedsWeeklyReset(time.Time{}, wednesday) {
		t.Fatal("expected reset for zero last-reset time")
	}

	if NeedsWeeklyReset(nextMonday, sunday) {
		t.Fatal("expected no reset when now is before the last reset")
	}
}
