package export

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/hazyhaar/avis/scrape"
)

// jsonResult mirrors scrape.Result with the derived success rate baked in.
type jsonResult struct {
	*scrape.Result
	SuccessRate float64 `json:"success_rate"`
}

// WriteJSON writes the full result, including the success rate, as JSON.
func WriteJSON(w io.Writer, result *scrape.Result, pretty bool) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	if pretty {
		enc.SetIndent("", "  ")
	}
	if err := enc.Encode(jsonResult{Result: result, SuccessRate: result.SuccessRate()}); err != nil {
		return fmt.Errorf("export: encode json: %w", err)
	}
	return nil
}
