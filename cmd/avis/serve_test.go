package main

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"
	_ "modernc.org/sqlite"

	"github.com/hazyhaar/avis/dbopen"
	"github.com/hazyhaar/avis/scrape"
	"github.com/hazyhaar/avis/store"
)

func testApp(t *testing.T) *app {
	t.Helper()
	st := store.New(dbopen.OpenMemory(t))
	if err := st.Init(); err != nil {
		t.Fatalf("Init: %v", err)
	}
	return &app{
		cfg:    scrape.DefaultConfig(),
		store:  st,
		logger: slog.New(slog.NewTextHandler(&strings.Builder{}, nil)),
	}
}

func seedRun(t *testing.T, a *app) string {
	t.Helper()
	runID, err := a.store.SaveResult(context.Background(), &scrape.Result{
		Business: "Chez Louis",
		Reviews: []scrape.Review{
			{Reviewer: "Alice", Rating: "5 stars", Stars: 5, Text: "Great.",
				Business: "Chez Louis", ScrapedAt: time.Now().UTC()},
		},
		TotalFound:     1,
		TotalExtracted: 1,
		Errors:         []string{},
		ScrapedAt:      time.Now().UTC(),
	})
	if err != nil {
		t.Fatalf("SaveResult: %v", err)
	}
	return runID
}

func TestHealthz(t *testing.T) {
	srv := httptest.NewServer(testApp(t).router(""))
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/healthz")
	if err != nil {
		t.Fatalf("GET /healthz: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != 200 {
		t.Errorf("status = %d", resp.StatusCode)
	}
}

func TestRunsEndpoints(t *testing.T) {
	a := testApp(t)
	runID := seedRun(t, a)
	srv := httptest.NewServer(a.router(""))
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/runs")
	if err != nil {
		t.Fatalf("GET /runs: %v", err)
	}
	var runs []store.Run
	if err := json.NewDecoder(resp.Body).Decode(&runs); err != nil {
		t.Fatalf("decode runs: %v", err)
	}
	resp.Body.Close()
	if len(runs) != 1 || runs[0].ID != runID {
		t.Fatalf("runs = %+v", runs)
	}

	resp, err = http.Get(srv.URL + "/runs/" + runID + "/reviews")
	if err != nil {
		t.Fatalf("GET reviews: %v", err)
	}
	var reviews []scrape.Review
	if err := json.NewDecoder(resp.Body).Decode(&reviews); err != nil {
		t.Fatalf("decode reviews: %v", err)
	}
	resp.Body.Close()
	if len(reviews) != 1 || reviews[0].Reviewer != "Alice" {
		t.Errorf("reviews = %+v", reviews)
	}
}

func TestRunNotFound(t *testing.T) {
	srv := httptest.NewServer(testApp(t).router(""))
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/runs/run_nope")
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != 404 {
		t.Errorf("status = %d, want 404", resp.StatusCode)
	}
}

func TestExportEndpoint(t *testing.T) {
	a := testApp(t)
	runID := seedRun(t, a)
	srv := httptest.NewServer(a.router(""))
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/runs/" + runID + "/export?format=summary")
	if err != nil {
		t.Fatalf("GET export: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != 200 {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	var body strings.Builder
	if _, err := io.Copy(&body, resp.Body); err != nil {
		t.Fatalf("read body: %v", err)
	}
	if !strings.Contains(body.String(), "Business: Chez Louis") {
		t.Errorf("summary missing business:\n%s", body.String())
	}

	resp2, err := http.Get(srv.URL + "/runs/" + runID + "/export?format=xlsx")
	if err != nil {
		t.Fatalf("GET export: %v", err)
	}
	resp2.Body.Close()
	if resp2.StatusCode != 400 {
		t.Errorf("bad format status = %d, want 400", resp2.StatusCode)
	}
}

func TestBasicAuth(t *testing.T) {
	a := testApp(t)
	hash, err := bcrypt.GenerateFromPassword([]byte("sesame"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("bcrypt: %v", err)
	}
	srv := httptest.NewServer(a.router(string(hash)))
	defer srv.Close()

	// Health stays open.
	resp, err := http.Get(srv.URL + "/healthz")
	if err != nil {
		t.Fatalf("GET /healthz: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != 200 {
		t.Errorf("healthz status = %d", resp.StatusCode)
	}

	resp, err = http.Get(srv.URL + "/runs")
	if err != nil {
		t.Fatalf("GET /runs: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != 401 {
		t.Errorf("unauthenticated status = %d, want 401", resp.StatusCode)
	}

	req, _ := http.NewRequest("GET", srv.URL+"/runs", nil)
	req.SetBasicAuth("avis", "sesame")
	resp, err = http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("authed GET: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != 200 {
		t.Errorf("authenticated status = %d, want 200", resp.StatusCode)
	}
}

func TestScrapeEndpointValidation(t *testing.T) {
	srv := httptest.NewServer(testApp(t).router(""))
	defer srv.Close()

	resp, err := http.Post(srv.URL+"/scrape", "application/json", strings.NewReader(`{}`))
	if err != nil {
		t.Fatalf("POST /scrape: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != 400 {
		t.Errorf("status = %d, want 400 for missing business", resp.StatusCode)
	}
}
