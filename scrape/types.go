// Package scrape orchestrates the review scraping pipeline: navigate,
// search, dismiss consent, open the reviews tab, scroll-to-load, and
// extract per-element fields.
//
// Every stage is a thin wrapper over browser automation primitives with
// best-effort retry-by-looping; completeness is not guaranteed when the
// host page's DOM structure changes.
package scrape

import (
	"time"

	"github.com/hazyhaar/avis/scrape/internal/extract"
)

// Re-export extraction types for the public API.
type (
	Review = extract.Review
	Stats  = extract.Stats
)

// Field defaults applied when a review element is missing a field.
const (
	DefaultReviewer = extract.DefaultReviewer
	DefaultRating   = extract.DefaultRating
	DefaultText     = extract.DefaultText
)

// Result is the outcome of one scrape run.
type Result struct {
	Business       string    `json:"business_name"`
	Reviews        []Review  `json:"reviews"`
	TotalFound     int       `json:"total_found"`
	TotalExtracted int       `json:"total_extracted"`
	Errors         []string  `json:"errors"`
	ScrapedAt      time.Time `json:"scraped_at"`
}

// SuccessRate is the percentage of found reviews that were extracted.
func (r *Result) SuccessRate() float64 {
	if r.TotalFound == 0 {
		return 0
	}
	return float64(r.TotalExtracted) / float64(r.TotalFound) * 100
}
