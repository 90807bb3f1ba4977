package gmaps

import (
	"context"
	"errors"
	"testing"
)

type fakeWheel struct {
	calls int
	err   error
}

func (f *fakeWheel) Scroll(context.Context, int) error {
	f.calls++
	return f.err
}

func params() ScrollParams {
	return ScrollParams{Attempts: 15, Distance: 3000, MinAttempts: 5}
}

func TestScrollToLoadStopsWhenStable(t *testing.T) {
	// WHAT: counts grow for a few passes, then plateau; the loop stops
	// after the plateau once MinAttempts passes have run.
	counts := []int{3, 6, 9, 9, 9, 9, 9, 9, 9, 9, 9, 9, 9, 9, 9}
	i := 0
	counter := func(context.Context) int {
		c := counts[i]
		if i < len(counts)-1 {
			i++
		}
		return c
	}

	w := &fakeWheel{}
	got := ScrollToLoad(context.Background(), w, counter, params(), nil)
	if got != 9 {
		t.Errorf("count = %d, want 9", got)
	}
	if w.calls >= 15 {
		t.Errorf("scrolled %d times, expected early stop", w.calls)
	}
	if w.calls < 6 {
		t.Errorf("scrolled %d times, expected at least MinAttempts+1", w.calls)
	}
}

func TestScrollToLoadExhaustsBudget(t *testing.T) {
	// WHAT: a count that keeps growing runs the full budget.
	n := 0
	counter := func(context.Context) int {
		n += 2
		return n
	}

	w := &fakeWheel{}
	got := ScrollToLoad(context.Background(), w, counter, params(), nil)
	if w.calls != 15 {
		t.Errorf("scrolled %d times, want 15", w.calls)
	}
	if got != 30 {
		t.Errorf("count = %d, want 30", got)
	}
}

func TestScrollToLoadToleratesScrollErrors(t *testing.T) {
	// WHY: scroll failures are best-effort; they consume budget but never
	// escalate.
	w := &fakeWheel{err: errors.New("wheel broke")}
	got := ScrollToLoad(context.Background(), w, func(context.Context) int { return 0 }, params(), nil)
	if got != 0 {
		t.Errorf("count = %d, want 0", got)
	}
	if w.calls != 15 {
		t.Errorf("scrolled %d times, want full budget", w.calls)
	}
}

func TestScrollToLoadCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	w := &fakeWheel{}
	ScrollToLoad(ctx, w, func(context.Context) int { return 1 }, params(), nil)
	if w.calls != 0 {
		t.Errorf("scrolled %d times after cancel, want 0", w.calls)
	}
}

func TestScrollToLoadZeroReviews(t *testing.T) {
	// WHAT: a page with no review elements stops after MinAttempts stable
	// passes rather than running the whole budget.
	w := &fakeWheel{}
	got := ScrollToLoad(context.Background(), w, func(context.Context) int { return 0 }, params(), nil)
	if got != 0 {
		t.Errorf("count = %d, want 0", got)
	}
	if w.calls >= 15 {
		t.Errorf("scrolled %d times, expected early stop", w.calls)
	}
}
