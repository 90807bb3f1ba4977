package gmaps

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/input"
	"github.com/go-rod/rod/lib/proto"
)

// Config tunes navigation waits. Zero values are filled by the caller
// (scrape/internal/config owns the defaults).
type Config struct {
	PageSettle  time.Duration
	SearchWait  time.Duration
	ReviewsWait time.Duration
	Candidate   time.Duration // per-candidate lookup timeout
}

// Nav drives one page through the maps flow.
type Nav struct {
	page   *rod.Page
	cfg    Config
	logger *slog.Logger
}

// New creates a Nav for the given page.
func New(page *rod.Page, cfg Config, logger *slog.Logger) *Nav {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Candidate <= 0 {
		cfg.Candidate = 3 * time.Second
	}
	return &Nav{page: page, cfg: cfg, logger: logger}
}

// findCandidate tries a candidate list in order and returns the first
// visible match, or nil when none matched.
func (n *Nav) findCandidate(ctx context.Context, candidates []Candidate) *rod.Element {
	for _, c := range candidates {
		p := n.page.Context(ctx).Timeout(n.cfg.Candidate)

		var el *rod.Element
		var err error
		if c.TextRE != "" {
			el, err = p.ElementR(c.Selector, c.TextRE)
		} else {
			el, err = p.Element(c.Selector)
		}
		if err != nil || el == nil {
			continue
		}

		visible, err := el.Visible()
		if err != nil || !visible {
			continue
		}
		return el
	}
	return nil
}

// DismissConsent clicks the first matching consent reject button, if any.
// Returns true when a button was clicked. Absence of the overlay is not an
// error.
func (n *Nav) DismissConsent(ctx context.Context) bool {
	sleepCtx(ctx, n.cfg.PageSettle)

	el := n.findCandidate(ctx, ConsentCandidates)
	if el == nil {
		n.logger.Debug("gmaps: no consent overlay found")
		return false
	}

	if err := el.Click(proto.InputMouseButtonLeft, 1); err != nil {
		n.logger.Warn("gmaps: consent click failed", "error", err)
		return false
	}
	n.logger.Info("gmaps: consent overlay dismissed")
	sleepCtx(ctx, time.Second)
	return true
}

// VerifyMapsURL checks that the page actually landed on the maps app.
func (n *Nav) VerifyMapsURL(ctx context.Context) error {
	info, err := n.page.Context(ctx).Info()
	if err != nil {
		return fmt.Errorf("gmaps: page info: %w", err)
	}
	if !strings.Contains(strings.ToLower(info.URL), "maps") {
		return fmt.Errorf("gmaps: unexpected landing URL %q", info.URL)
	}
	return nil
}

// Search fills the search box with the business name and submits it.
func (n *Nav) Search(ctx context.Context, business string) error {
	p := n.page.Context(ctx).Timeout(n.cfg.Candidate + 2*time.Second)

	box, err := p.Element(SearchBox)
	if err != nil {
		return fmt.Errorf("gmaps: search box not found: %w", err)
	}
	if visible, err := box.Visible(); err != nil || !visible {
		return fmt.Errorf("gmaps: search box not visible")
	}

	if err := box.Input(business); err != nil {
		return fmt.Errorf("gmaps: fill search box: %w", err)
	}
	if err := box.Type(input.Enter); err != nil {
		return fmt.Errorf("gmaps: submit search: %w", err)
	}

	sleepCtx(ctx, n.cfg.SearchWait)
	n.logger.Info("gmaps: search submitted", "business", business)
	return nil
}

// OpenReviews clicks the reviews tab on the business listing.
func (n *Nav) OpenReviews(ctx context.Context) error {
	// Business details take a moment to render after search.
	sleepCtx(ctx, n.cfg.ReviewsWait)

	el := n.findCandidate(ctx, ReviewsTabCandidates)
	if el == nil {
		return fmt.Errorf("gmaps: reviews tab not found")
	}
	if err := el.Click(proto.InputMouseButtonLeft, 1); err != nil {
		return fmt.Errorf("gmaps: click reviews tab: %w", err)
	}

	sleepCtx(ctx, n.cfg.ReviewsWait)
	n.logger.Info("gmaps: reviews tab opened")
	return nil
}

// ReviewCount returns the number of review elements currently in the DOM.
func (n *Nav) ReviewCount(ctx context.Context) int {
	els, err := n.page.Context(ctx).Elements(ReviewElements)
	if err != nil {
		n.logger.Debug("gmaps: review count failed", "error", err)
		return 0
	}
	return len(els)
}

// ReviewElems returns the review elements currently in the DOM.
func (n *Nav) ReviewElems(ctx context.Context) (rod.Elements, error) {
	els, err := n.page.Context(ctx).Elements(ReviewElements)
	if err != nil {
		return nil, fmt.Errorf("gmaps: list review elements: %w", err)
	}
	return els, nil
}

func sleepCtx(ctx context.Context, d time.Duration) {
	if d <= 0 {
		return
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}
