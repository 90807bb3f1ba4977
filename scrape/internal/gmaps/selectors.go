// Package gmaps drives the map-search web application: consent dismissal,
// business search, reviews tab, and scroll-to-load.
//
// Selectors target generated class names and are expected to rot when the
// host page changes; everything here is best-effort by design of the host.
package gmaps

// Review pane selectors.
const (
	SearchBox      = `input#searchboxinput`
	ReviewElements = `div[class*='jJc9Ad']`
	ReviewerName   = `div[class*='d4r55']`
	RatingLabel    = `span[aria-label]`
	ReviewText     = `span[class*='wiI7pd']`
	ReviewDate     = `span[class*='rsqaWe']`
	OwnerResponse  = `div[class*='CDe7pd']`
)

// Candidate pairs a CSS selector with an optional text pattern. When
// TextRE is set the element must also match the pattern (rod ElementR).
type Candidate struct {
	Selector string
	TextRE   string
}

// ConsentCandidates are tried in order to dismiss the cookie/privacy
// overlay. Multi-locale because the consent page language follows the
// exit node, not the browser.
var ConsentCandidates = []Candidate{
	{Selector: `button`, TextRE: `Reject all`},
	{Selector: `button`, TextRE: `I disagree`},
	{Selector: `button[aria-label*='Reject']`},
	{Selector: `button`, TextRE: `Alla avvisa`}, // Swedish
	{Selector: `button`, TextRE: `Tout refuser`}, // French
	{Selector: `div[role='button']`, TextRE: `Reject`},
	{Selector: `[data-value='0']`},
}

// ReviewsTabCandidates locate the reviews tab on a business listing.
var ReviewsTabCandidates = []Candidate{
	{Selector: `button[role='tab']`, TextRE: `(?i)reviews`},
	{Selector: `button[aria-label*='Reviews']`},
	{Selector: `[role='tab']`, TextRE: `(?i)reviews|avis|rezensionen`},
}

// MoreCandidates locate the per-review "More" button that expands
// truncated review text.
var MoreCandidates = []Candidate{
	{Selector: `button[aria-label='See more']`},
	{Selector: `button`, TextRE: `^More$`},
}
