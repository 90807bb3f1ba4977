package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/hazyhaar/avis/scrape"
)

// WriteCSV writes reviews as CSV. With metadata enabled, the business,
// scrape timestamp and translation columns are appended to each row.
func WriteCSV(w io.Writer, reviews []scrape.Review, metadata bool) error {
	cw := csv.NewWriter(w)

	header := []string{"Reviewer", "Rating", "Stars", "Review", "Published", "Owner_Response"}
	if metadata {
		header = append(header, "Business", "Scraped_At", "Translated", "Original_Language")
	}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("export: csv header: %w", err)
	}

	for _, rev := range reviews {
		row := []string{
			rev.Reviewer,
			rev.Rating,
			strconv.FormatFloat(rev.Stars, 'f', -1, 64),
			rev.Text,
			rev.Published,
			rev.OwnerResponse,
		}
		if metadata {
			row = append(row,
				rev.Business,
				rev.ScrapedAt.Format(time.RFC3339),
				strconv.FormatBool(rev.Translated),
				rev.OriginalLanguage,
			)
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("export: csv row: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}
