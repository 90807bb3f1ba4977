package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/hazyhaar/avis/scrape"
)

// WriteSummary writes a human-readable summary report of one run.
func WriteSummary(w io.Writer, result *scrape.Result) error {
	var b strings.Builder

	b.WriteString("Review Scraping Summary Report\n")
	b.WriteString(strings.Repeat("=", 40) + "\n")
	fmt.Fprintf(&b, "Business: %s\n", result.Business)
	fmt.Fprintf(&b, "Scraped at: %s\n", result.ScrapedAt.Format("2006-01-02 15:04:05"))
	b.WriteString("\n")

	b.WriteString("Results:\n")
	fmt.Fprintf(&b, "  - Reviews found: %d\n", result.TotalFound)
	fmt.Fprintf(&b, "  - Reviews extracted: %d\n", result.TotalExtracted)
	fmt.Fprintf(&b, "  - Success rate: %.1f%%\n", result.SuccessRate())
	b.WriteString("\n")

	if len(result.Errors) > 0 {
		b.WriteString("Errors encountered:\n")
		for _, e := range result.Errors {
			fmt.Fprintf(&b, "  - %s\n", e)
		}
		b.WriteString("\n")
	}

	if len(result.Reviews) > 0 {
		translated := 0
		for _, rev := range result.Reviews {
			if rev.Translated {
				translated++
			}
		}
		b.WriteString("Review Statistics:\n")
		fmt.Fprintf(&b, "  - Total reviews: %d\n", len(result.Reviews))
		fmt.Fprintf(&b, "  - Translated reviews: %d\n", translated)
		fmt.Fprintf(&b, "  - Original language reviews: %d\n", len(result.Reviews)-translated)
	}

	if _, err := io.WriteString(w, b.String()); err != nil {
		return fmt.Errorf("export: write summary: %w", err)
	}
	return nil
}
