// Package export writes scrape results as CSV, JSON, text summary or
// Markdown, either to files under an output directory or to any
// io.Writer for streaming surfaces.
package export

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/hazyhaar/avis/scrape"
)

// Format identifies an export format.
type Format string

const (
	FormatCSV      Format = "csv"
	FormatJSON     Format = "json"
	FormatSummary  Format = "summary"
	FormatMarkdown Format = "markdown"
)

// ParseFormat validates a user-supplied format name.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatCSV, FormatJSON, FormatSummary, FormatMarkdown:
		return f, nil
	default:
		return "", fmt.Errorf("export: unknown format %q", s)
	}
}

// Ext is the file extension for the format, without the dot.
func (f Format) Ext() string {
	switch f {
	case FormatCSV:
		return "csv"
	case FormatJSON:
		return "json"
	case FormatMarkdown:
		return "md"
	default:
		return "txt"
	}
}

// ContentType is the HTTP content type for the format.
func (f Format) ContentType() string {
	switch f {
	case FormatCSV:
		return "text/csv; charset=utf-8"
	case FormatJSON:
		return "application/json; charset=utf-8"
	case FormatMarkdown:
		return "text/markdown; charset=utf-8"
	default:
		return "text/plain; charset=utf-8"
	}
}

// Exporter writes results into an output directory.
type Exporter struct {
	dir    string
	logger *slog.Logger

	// IncludeMetadata adds the business/timestamp/translation columns to
	// CSV output. On by default.
	IncludeMetadata bool
	// Pretty indents JSON output. On by default.
	Pretty bool

	now func() time.Time
}

// New creates an Exporter rooted at dir, creating it if needed.
func New(dir string, logger *slog.Logger) (*Exporter, error) {
	if dir == "" {
		dir = "."
	}
	if logger == nil {
		logger = slog.Default()
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("export: create output dir: %w", err)
	}
	return &Exporter{
		dir:             dir,
		logger:          logger,
		IncludeMetadata: true,
		Pretty:          true,
		now:             time.Now,
	}, nil
}

// Write streams a result in the given format.
func Write(w io.Writer, f Format, result *scrape.Result) error {
	switch f {
	case FormatCSV:
		return WriteCSV(w, result.Reviews, true)
	case FormatJSON:
		return WriteJSON(w, result, true)
	case FormatSummary:
		return WriteSummary(w, result)
	case FormatMarkdown:
		return WriteMarkdown(w, result)
	default:
		return fmt.Errorf("export: unknown format %q", f)
	}
}

// File writes a result in the given format to a generated filename under
// the output directory and returns the file's path.
func (e *Exporter) File(f Format, result *scrape.Result) (string, error) {
	path := filepath.Join(e.dir, e.Filename(result.Business, f))

	file, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("export: create %s: %w", path, err)
	}
	defer file.Close()

	var werr error
	switch f {
	case FormatCSV:
		werr = WriteCSV(file, result.Reviews, e.IncludeMetadata)
	case FormatJSON:
		werr = WriteJSON(file, result, e.Pretty)
	case FormatSummary:
		werr = WriteSummary(file, result)
	case FormatMarkdown:
		werr = WriteMarkdown(file, result)
	default:
		werr = fmt.Errorf("export: unknown format %q", f)
	}
	if werr != nil {
		return "", werr
	}

	e.logger.Info("export: wrote file",
		"format", string(f),
		"path", path,
		"reviews", len(result.Reviews))
	return path, nil
}

// Filename builds `<business_slug>_<kind>_<timestamp>.<ext>`.
func (e *Exporter) Filename(business string, f Format) string {
	kind := string(f)
	if f == FormatJSON {
		kind = "result"
	}
	return fmt.Sprintf("%s_%s_%s.%s",
		Slug(business), kind, e.now().Format("20060102_150405"), f.Ext())
}

// Slug lowercases a business name and replaces whitespace runs with
// underscores so it is safe in filenames.
func Slug(business string) string {
	s := strings.ToLower(strings.TrimSpace(business))
	s = strings.Join(strings.Fields(s), "_")
	s = strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':', '*', '?', '"', '<', '>', '|':
			return '_'
		}
		return r
	}, s)
	if s == "" {
		s = "reviews"
	}
	return s
}
