package scrape

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/hazyhaar/avis/scrape/internal/browser"
	"github.com/hazyhaar/avis/scrape/internal/extract"
	"github.com/hazyhaar/avis/scrape/internal/gmaps"
	"github.com/hazyhaar/avis/textproc"
)

// Scraper glues the pipeline stages around one managed browser.
type Scraper struct {
	cfg    *Config
	mgr    *browser.Manager
	ext    *extract.Extractor
	logger *slog.Logger
}

// New creates a Scraper. Call Start before Run and Stop when done.
func New(cfg *Config, proc *textproc.Processor, logger *slog.Logger) *Scraper {
	if cfg == nil {
		cfg = DefaultConfig()
	} else {
		cfg.ApplyDefaults()
	}
	if logger == nil {
		logger = slog.Default()
	}
	if proc == nil {
		proc = textproc.NewProcessor(nil, logger)
	}

	stealth := browser.LevelHeadless
	if cfg.Browser.Stealth == "headful" {
		stealth = browser.LevelHeadful
	}

	mgr := browser.NewManager(browser.Config{
		RemoteURL:        cfg.Browser.Remote,
		ResourceBlocking: cfg.Browser.ResourceBlocking,
		Stealth:          stealth,
		XvfbDisplay:      cfg.Browser.XvfbDisplay,
		NavTimeout:       cfg.Browser.NavTimeout,
		Logger:           logger,
	})

	return &Scraper{
		cfg:    cfg,
		mgr:    mgr,
		ext:    extract.New(proc, cfg.FieldTimeout, logger),
		logger: logger,
	}
}

// Start launches (or connects to) Chrome.
func (s *Scraper) Start(ctx context.Context) error {
	if _, err := s.mgr.Start(ctx); err != nil {
		return fmt.Errorf("scrape: start browser: %w", err)
	}
	return nil
}

// Restart relaunches Chrome after a crash.
func (s *Scraper) Restart(ctx context.Context) error {
	if _, err := s.mgr.Restart(ctx); err != nil {
		return fmt.Errorf("scrape: restart browser: %w", err)
	}
	return nil
}

// Stop shuts the browser down.
func (s *Scraper) Stop() {
	if err := s.mgr.Close(); err != nil {
		s.logger.Warn("scrape: browser close", "error", err)
	}
}

// Run executes the full pipeline for one business and returns whatever was
// extracted. Hard stage failures (navigation, search, reviews tab) return
// the error alongside a Result carrying it; per-review failures are
// recorded in Result.Errors only.
func (s *Scraper) Run(ctx context.Context, business string) (result *Result, err error) {
	log := s.logger.With("business", business)
	log.Info("scrape: starting run",
		"max_reviews", s.cfg.MaxReviews,
		"translate", s.cfg.Translate.Backend)

	result = &Result{
		Business:  business,
		Reviews:   []Review{},
		Errors:    []string{},
		ScrapedAt: time.Now().UTC(),
	}

	// The automation library reports some failures by panicking.
	defer func() {
		if r := recover(); r != nil {
			msg := fmt.Sprintf("browser automation panic: %v", r)
			log.Error("scrape: recovered", "panic", r)
			result.Errors = append(result.Errors, msg)
			err = fmt.Errorf("scrape: %s", msg)
		}
	}()

	if s.mgr.Browser() == nil {
		return fail(result, ErrNotStarted)
	}

	// Stage 1: navigate to the maps application.
	tab, terr := browser.OpenTab(ctx, s.mgr, s.cfg.MapsURL)
	if terr != nil {
		return fail(result, fmt.Errorf("%w: %v", ErrNavigate, terr))
	}
	defer tab.Close()

	nav := gmaps.New(tab.Page, gmaps.Config{
		PageSettle:  s.cfg.PageSettle,
		SearchWait:  s.cfg.SearchWait,
		ReviewsWait: s.cfg.ReviewsWait,
	}, s.logger)

	nav.DismissConsent(ctx)

	if verr := nav.VerifyMapsURL(ctx); verr != nil {
		return fail(result, fmt.Errorf("%w: %v", ErrNavigate, verr))
	}
	if u, uerr := tab.URL(); uerr == nil {
		log.Debug("scrape: landed", "url", u)
	}

	// Stage 2: search for the business.
	if serr := nav.Search(ctx, business); serr != nil {
		return fail(result, fmt.Errorf("%w: %v", ErrSearch, serr))
	}

	// Stage 3: open the reviews tab.
	if rerr := nav.OpenReviews(ctx); rerr != nil {
		return fail(result, fmt.Errorf("%w: %v", ErrReviewsTab, rerr))
	}

	// Stage 4: scroll until the review count stops growing.
	loaded := gmaps.ScrollToLoad(ctx, tab, nav.ReviewCount, gmaps.ScrollParams{
		Attempts:    s.cfg.Scroll.Attempts,
		Distance:    s.cfg.Scroll.Distance,
		Wait:        s.cfg.Scroll.Wait,
		MinAttempts: s.cfg.Scroll.MinAttempts,
	}, s.logger)
	log.Info("scrape: scroll finished", "loaded", loaded)

	// Stage 5: extract.
	s.extractAll(ctx, nav, result)

	log.Info("scrape: run complete",
		"found", result.TotalFound,
		"extracted", result.TotalExtracted,
		"errors", len(result.Errors))
	return result, nil
}

func (s *Scraper) extractAll(ctx context.Context, nav *gmaps.Nav, result *Result) {
	els, err := nav.ReviewElems(ctx)
	if err != nil {
		result.Errors = append(result.Errors, err.Error())
		return
	}

	result.TotalFound = len(els)
	if result.TotalFound == 0 {
		result.Errors = append(result.Errors, "no review elements found on the page")
		s.logger.Error("scrape: no review elements found")
		return
	}

	limit := min(result.TotalFound, s.cfg.MaxReviews)
	s.logger.Info("scrape: extracting reviews", "found", result.TotalFound, "limit", limit)

	for i, el := range els[:limit] {
		if ctx.Err() != nil {
			result.Errors = append(result.Errors, "run cancelled during extraction")
			break
		}

		rev, err := s.ext.One(ctx, el, result.Business, i)
		if err != nil {
			msg := fmt.Sprintf("failed to extract review %d: %v", i+1, err)
			s.logger.Warn("scrape: extract failed", "index", i, "error", err)
			result.Errors = append(result.Errors, msg)
			continue
		}
		result.Reviews = append(result.Reviews, *rev)

		if (i+1)%10 == 0 {
			s.logger.Info("scrape: progress", "extracted", i+1, "limit", limit)
		}
	}

	result.TotalExtracted = len(result.Reviews)
}

// PageStats reports review statistics for a page already showing reviews.
// Exposed for diagnostics surfaces; Run does not depend on it.
func (s *Scraper) PageStats(ctx context.Context) (*Stats, error) {
	b := s.mgr.Browser()
	if b == nil {
		return nil, ErrNotStarted
	}
	pages, err := b.Pages()
	if err != nil || len(pages) == 0 {
		return nil, fmt.Errorf("scrape: no open pages")
	}
	return extract.PageStats(ctx, pages[0])
}

func fail(result *Result, err error) (*Result, error) {
	result.Errors = append(result.Errors, err.Error())
	return result, err
}
