package scrape

import "errors"

// ErrNavigate is returned when the maps application cannot be reached.
var ErrNavigate = errors.New("scrape: failed to navigate to maps")

// ErrSearch is returned when the business search cannot be submitted.
var ErrSearch = errors.New("scrape: failed to search for business")

// ErrReviewsTab is returned when the reviews tab cannot be opened.
var ErrReviewsTab = errors.New("scrape: failed to open reviews tab")

// ErrNotStarted is returned when Run is called before Start.
var ErrNotStarted = errors.New("scrape: browser not started")
