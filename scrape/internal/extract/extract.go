// Package extract reads per-review fields out of loaded review elements.
//
// Field lookups run with short timeouts and per-field defaults; a review
// element missing every field still yields a Review rather than an error.
package extract

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/base"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/commonmark"
	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"
	"github.com/microcosm-cc/bluemonday"

	"github.com/hazyhaar/avis/scrape/internal/gmaps"
	"github.com/hazyhaar/avis/textproc"
)

// Field defaults, mirrored in exports.
const (
	DefaultReviewer = "Unknown"
	DefaultRating   = "No rating"
	DefaultText     = textproc.NoTextPlaceholder
)

// Review is one extracted customer review.
type Review struct {
	ID               string    `json:"id,omitempty"`
	Reviewer         string    `json:"reviewer"`
	Rating           string    `json:"rating"`
	Stars            float64   `json:"stars"`
	Text             string    `json:"text"`
	Published        string    `json:"published,omitempty"`
	OwnerResponse    string    `json:"owner_response,omitempty"`
	Business         string    `json:"business"`
	ScrapedAt        time.Time `json:"scraped_at"`
	Translated       bool      `json:"translated"`
	OriginalLanguage string    `json:"original_language,omitempty"`
}

// Extractor reads fields from review elements and runs them through the
// text processor.
type Extractor struct {
	proc         *textproc.Processor
	fieldTimeout time.Duration
	logger       *slog.Logger
	policy       *bluemonday.Policy
	mdConv       *converter.Converter
}

// New creates an Extractor.
func New(proc *textproc.Processor, fieldTimeout time.Duration, logger *slog.Logger) *Extractor {
	if logger == nil {
		logger = slog.Default()
	}
	if fieldTimeout <= 0 {
		fieldTimeout = 5 * time.Second
	}
	return &Extractor{
		proc:         proc,
		fieldTimeout: fieldTimeout,
		logger:       logger,
		policy:       bluemonday.UGCPolicy(),
		mdConv: converter.NewConverter(
			converter.WithPlugins(
				base.NewBasePlugin(),
				commonmark.NewCommonmarkPlugin(),
			),
		),
	}
}

// One extracts a single review from a review element.
func (e *Extractor) One(ctx context.Context, el *rod.Element, business string, index int) (*Review, error) {
	e.expandMore(el)

	rev := &Review{
		Reviewer:  DefaultReviewer,
		Rating:    DefaultRating,
		Text:      DefaultText,
		Business:  business,
		ScrapedAt: time.Now().UTC(),
	}

	if name := e.fieldText(el, gmaps.ReviewerName); name != "" {
		rev.Reviewer = textproc.Clean(name)
	}

	if label := e.fieldAttr(el, gmaps.RatingLabel, "aria-label"); label != "" {
		rev.Rating = textproc.Clean(label)
		rev.Stars = ParseStars(label)
	}

	text := e.fieldText(el, gmaps.ReviewText)
	if text == "" {
		// Some layouts render review text outside the usual span. Fall
		// back to the element's HTML: sanitize, then down-convert.
		text = e.htmlFallback(el)
	}
	if text != "" {
		processed, translated, lang := e.proc.Process(ctx, text)
		if processed != "" {
			rev.Text = processed
			rev.Translated = translated
			rev.OriginalLanguage = lang
		}
	}

	if published := e.fieldText(el, gmaps.ReviewDate); published != "" {
		rev.Published = textproc.Clean(published)
	}

	if ownerHTML := e.fieldHTML(el, gmaps.OwnerResponse); ownerHTML != "" {
		if resp := CollectText(ownerHTML); resp != "" {
			processed, _, _ := e.proc.Process(ctx, resp)
			rev.OwnerResponse = processed
		}
	}

	e.logger.Debug("extract: review extracted", "index", index, "reviewer", rev.Reviewer)
	return rev, nil
}

// expandMore clicks the review's "More" button so truncated text is fully
// rendered. Best-effort: most reviews have no such button.
func (e *Extractor) expandMore(el *rod.Element) {
	for _, c := range gmaps.MoreCandidates {
		var btn *rod.Element
		var err error
		scoped := el.Timeout(500 * time.Millisecond)
		if c.TextRE != "" {
			btn, err = scoped.ElementR(c.Selector, c.TextRE)
		} else {
			btn, err = scoped.Element(c.Selector)
		}
		if err != nil || btn == nil {
			continue
		}
		if err := btn.Click(proto.InputMouseButtonLeft, 1); err == nil {
			time.Sleep(200 * time.Millisecond)
		}
		return
	}
}

func (e *Extractor) fieldText(el *rod.Element, sel string) string {
	child, err := el.Timeout(e.fieldTimeout).Element(sel)
	if err != nil || child == nil {
		return ""
	}
	text, err := child.Text()
	if err != nil {
		return ""
	}
	return text
}

func (e *Extractor) fieldAttr(el *rod.Element, sel, attr string) string {
	child, err := el.Timeout(e.fieldTimeout).Element(sel)
	if err != nil || child == nil {
		return ""
	}
	val, err := child.Attribute(attr)
	if err != nil || val == nil {
		return ""
	}
	return *val
}

func (e *Extractor) fieldHTML(el *rod.Element, sel string) string {
	child, err := el.Timeout(e.fieldTimeout).Element(sel)
	if err != nil || child == nil {
		return ""
	}
	html, err := child.HTML()
	if err != nil {
		return ""
	}
	return html
}

// htmlFallback extracts readable text from the whole review element via
// sanitized HTML converted to Markdown.
func (e *Extractor) htmlFallback(el *rod.Element) string {
	raw, err := el.HTML()
	if err != nil || raw == "" {
		return ""
	}
	return e.MarkdownFromHTML(raw)
}

// MarkdownFromHTML sanitizes raw HTML and converts the remainder to
// Markdown-flavoured plain text.
func (e *Extractor) MarkdownFromHTML(raw string) string {
	clean := e.policy.Sanitize(raw)
	md, err := e.mdConv.ConvertString(clean)
	if err != nil {
		e.logger.Debug("extract: markdown conversion failed", "error", err)
		return textproc.Clean(clean)
	}
	return textproc.Clean(md)
}

// Stats summarises reviews on the current page without extracting them.
type Stats struct {
	TotalReviews int       `json:"total_reviews"`
	PageURL      string    `json:"page_url"`
	Timestamp    time.Time `json:"timestamp"`
}

// PageStats reports how many review elements the page currently holds.
func PageStats(ctx context.Context, page *rod.Page) (*Stats, error) {
	els, err := page.Context(ctx).Elements(gmaps.ReviewElements)
	if err != nil {
		return nil, fmt.Errorf("extract: count review elements: %w", err)
	}
	info, err := page.Context(ctx).Info()
	if err != nil {
		return nil, fmt.Errorf("extract: page info: %w", err)
	}
	return &Stats{
		TotalReviews: len(els),
		PageURL:      info.URL,
		Timestamp:    time.Now().UTC(),
	}, nil
}
