package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/hazyhaar/avis/scrape"
)

// WriteMarkdown writes a per-review Markdown report for human reading.
func WriteMarkdown(w io.Writer, result *scrape.Result) error {
	var b strings.Builder

	fmt.Fprintf(&b, "# Reviews: %s\n\n", result.Business)
	fmt.Fprintf(&b, "Scraped %s. Found %d, extracted %d (%.1f%%).\n\n",
		result.ScrapedAt.Format("2006-01-02 15:04"),
		result.TotalFound, result.TotalExtracted, result.SuccessRate())

	for i, rev := range result.Reviews {
		fmt.Fprintf(&b, "## %d. %s\n\n", i+1, rev.Reviewer)
		fmt.Fprintf(&b, "**Rating:** %s", rev.Rating)
		if rev.Published != "" {
			fmt.Fprintf(&b, " · %s", rev.Published)
		}
		b.WriteString("\n\n")
		b.WriteString(rev.Text + "\n\n")
		if rev.OwnerResponse != "" {
			fmt.Fprintf(&b, "> Owner response: %s\n\n", rev.OwnerResponse)
		}
		if rev.Translated {
			fmt.Fprintf(&b, "_Translated from %s._\n\n", orAuto(rev.OriginalLanguage))
		}
	}

	if len(result.Errors) > 0 {
		b.WriteString("## Errors\n\n")
		for _, e := range result.Errors {
			fmt.Fprintf(&b, "- %s\n", e)
		}
	}

	if _, err := io.WriteString(w, b.String()); err != nil {
		return fmt.Errorf("export: write markdown: %w", err)
	}
	return nil
}

func orAuto(lang string) string {
	if lang == "" {
		return "auto-detected language"
	}
	return lang
}
