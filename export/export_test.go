package export

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/hazyhaar/avis/scrape"
)

func sampleResult() *scrape.Result {
	at := time.Date(2026, 8, 20, 14, 30, 0, 0, time.UTC)
	return &scrape.Result{
		Business: "Chez Louis",
		Reviews: []scrape.Review{
			{
				Reviewer:  "Alice",
				Rating:    "5 stars",
				Stars:     5,
				Text:      "Excellent, would \"definitely\" return.",
				Published: "2 weeks ago",
				Business:  "Chez Louis",
				ScrapedAt: at,
			},
			{
				Reviewer:         "Bob",
				Rating:           "3 stars",
				Stars:            3,
				Text:             "Decent but slow.",
				OwnerResponse:    "Sorry about the wait.",
				Business:         "Chez Louis",
				ScrapedAt:        at,
				Translated:       true,
				OriginalLanguage: "fr",
			},
		},
		TotalFound:     3,
		TotalExtracted: 2,
		Errors:         []string{"failed to extract review 3: timeout"},
		ScrapedAt:      at,
	}
}

func TestSlug(t *testing.T) {
	cases := []struct{ in, want string }{
		{"Chez Louis", "chez_louis"},
		{"  Tom's   Diner  ", "tom's_diner"},
		{"A/B:C", "a_b_c"},
		{"", "reviews"},
	}
	for _, tc := range cases {
		if got := Slug(tc.in); got != tc.want {
			t.Errorf("Slug(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestParseFormat(t *testing.T) {
	if f, err := ParseFormat(" CSV "); err != nil || f != FormatCSV {
		t.Errorf("ParseFormat(CSV) = %v, %v", f, err)
	}
	if _, err := ParseFormat("xlsx"); err == nil {
		t.Error("expected error for unknown format")
	}
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, sampleResult().Reviews, true); err != nil {
		t.Fatalf("WriteCSV: %v", err)
	}

	rows, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("reading back: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("got %d rows, want header + 2", len(rows))
	}
	if rows[0][0] != "Reviewer" || rows[0][6] != "Business" {
		t.Errorf("header = %v", rows[0])
	}
	if rows[1][3] != `Excellent, would "definitely" return.` {
		t.Errorf("quoted text round trip failed: %q", rows[1][3])
	}
	if rows[2][8] != "true" || rows[2][9] != "fr" {
		t.Errorf("translation columns = %v", rows[2][8:])
	}
}

func TestWriteCSVWithoutMetadata(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, sampleResult().Reviews, false); err != nil {
		t.Fatalf("WriteCSV: %v", err)
	}
	rows, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("reading back: %v", err)
	}
	if len(rows[0]) != 6 {
		t.Errorf("header has %d columns, want 6", len(rows[0]))
	}
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteJSON(&buf, sampleResult(), true); err != nil {
		t.Fatalf("WriteJSON: %v", err)
	}

	var decoded struct {
		Business    string  `json:"business_name"`
		SuccessRate float64 `json:"success_rate"`
		Reviews     []struct {
			Reviewer string `json:"reviewer"`
		} `json:"reviews"`
	}
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if decoded.Business != "Chez Louis" {
		t.Errorf("business = %q", decoded.Business)
	}
	if decoded.SuccessRate < 66 || decoded.SuccessRate > 67 {
		t.Errorf("success_rate = %v", decoded.SuccessRate)
	}
	if len(decoded.Reviews) != 2 {
		t.Errorf("reviews = %d", len(decoded.Reviews))
	}
}

func TestWriteSummary(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteSummary(&buf, sampleResult()); err != nil {
		t.Fatalf("WriteSummary: %v", err)
	}
	out := buf.String()

	for _, want := range []string{
		"Business: Chez Louis",
		"Reviews found: 3",
		"Reviews extracted: 2",
		"Success rate: 66.7%",
		"failed to extract review 3: timeout",
		"Translated reviews: 1",
		"Original language reviews: 1",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("summary missing %q\n%s", want, out)
		}
	}
}

func TestWriteMarkdown(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteMarkdown(&buf, sampleResult()); err != nil {
		t.Fatalf("WriteMarkdown: %v", err)
	}
	out := buf.String()

	for _, want := range []string{
		"# Reviews: Chez Louis",
		"## 1. Alice",
		"## 2. Bob",
		"> Owner response: Sorry about the wait.",
		"_Translated from fr._",
		"## Errors",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("markdown missing %q", want)
		}
	}
}

func TestExporterFile(t *testing.T) {
	dir := t.TempDir()
	e, err := New(dir, nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	e.now = func() time.Time { return time.Date(2026, 8, 20, 14, 30, 0, 0, time.UTC) }

	path, err := e.File(FormatCSV, sampleResult())
	if err != nil {
		t.Fatalf("File: %v", err)
	}
	if filepath.Base(path) != "chez_louis_csv_20260820_143000.csv" {
		t.Errorf("filename = %q", filepath.Base(path))
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if !strings.Contains(string(data), "Alice") {
		t.Error("file content missing review")
	}
}

func TestJSONFilenameUsesResultKind(t *testing.T) {
	e := &Exporter{now: func() time.Time { return time.Date(2026, 8, 20, 14, 30, 0, 0, time.UTC) }}
	if got := e.Filename("Chez Louis", FormatJSON); got != "chez_louis_result_20260820_143000.json" {
		t.Errorf("Filename = %q", got)
	}
}
