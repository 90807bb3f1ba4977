package main

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/hazyhaar/avis/export"
	"github.com/hazyhaar/avis/scrape"
)

// serve runs the HTTP API until the context is cancelled.
func (a *app) serve(ctx context.Context, addr, authHash string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           a.router(authHash),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()
	a.logger.Info("avis: http listening", "addr", addr)

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
		shutCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutCtx)
	}
}

func (a *app) router(authHash string) http.Handler {
	r := chi.NewRouter()

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, 200, map[string]string{"status": "ok"})
	})

	r.Group(func(r chi.Router) {
		if authHash != "" {
			r.Use(basicAuth(authHash))
		}

		r.Get("/runs", func(w http.ResponseWriter, r *http.Request) {
			limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
			runs, err := a.store.ListRuns(r.Context(), limit)
			if err != nil {
				writeError(w, 500, err)
				return
			}
			writeJSON(w, 200, runs)
		})

		r.Get("/runs/{id}", func(w http.ResponseWriter, r *http.Request) {
			run, err := a.store.GetRun(r.Context(), chi.URLParam(r, "id"))
			if err != nil {
				writeError(w, 500, err)
				return
			}
			if run == nil {
				writeError(w, 404, errors.New("run not found"))
				return
			}
			writeJSON(w, 200, run)
		})

		r.Get("/runs/{id}/reviews", func(w http.ResponseWriter, r *http.Request) {
			reviews, err := a.store.ReviewsForRun(r.Context(), chi.URLParam(r, "id"))
			if err != nil {
				writeError(w, 500, err)
				return
			}
			writeJSON(w, 200, reviews)
		})

		r.Get("/runs/{id}/export", func(w http.ResponseWriter, r *http.Request) {
			format, err := export.ParseFormat(r.URL.Query().Get("format"))
			if err != nil {
				writeError(w, 400, err)
				return
			}
			result, err := a.resultForRun(r.Context(), chi.URLParam(r, "id"))
			if err != nil {
				writeError(w, 500, err)
				return
			}
			if result == nil {
				writeError(w, 404, errors.New("run not found"))
				return
			}
			w.Header().Set("Content-Type", format.ContentType())
			if err := export.Write(w, format, result); err != nil {
				a.logger.Warn("avis: export stream", "error", err)
			}
		})

		r.Post("/scrape", func(w http.ResponseWriter, r *http.Request) {
			var req struct {
				Business   string `json:"business"`
				MaxReviews int    `json:"max_reviews"`
			}
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				writeError(w, 400, fmt.Errorf("decode request: %w", err))
				return
			}
			if req.Business == "" {
				writeError(w, 400, errors.New("business is required"))
				return
			}

			cfg := *a.cfg
			if req.MaxReviews > 0 {
				cfg.MaxReviews = req.MaxReviews
			}
			runApp := *a
			runApp.cfg = &cfg

			result, runID, err := runApp.scrapeAndSave(r.Context(), req.Business)
			if result == nil {
				writeError(w, 500, err)
				return
			}

			resp := map[string]any{
				"run_id":       runID,
				"result":       result,
				"success_rate": result.SuccessRate(),
			}
			if err != nil {
				resp["error"] = err.Error()
				writeJSON(w, 502, resp)
				return
			}
			writeJSON(w, 200, resp)
		})
	})

	return r
}

// resultForRun rebuilds a scrape.Result from its stored run and reviews.
// Returns nil when the run does not exist.
func (a *app) resultForRun(ctx context.Context, id string) (*scrape.Result, error) {
	run, err := a.store.GetRun(ctx, id)
	if err != nil || run == nil {
		return nil, err
	}
	reviews, err := a.store.ReviewsForRun(ctx, id)
	if err != nil {
		return nil, err
	}
	if reviews == nil {
		reviews = []scrape.Review{}
	}
	return &scrape.Result{
		Business:       run.Business,
		Reviews:        reviews,
		TotalFound:     run.TotalFound,
		TotalExtracted: run.TotalExtracted,
		Errors:         run.Errors,
		ScrapedAt:      time.UnixMilli(run.ScrapedAt).UTC(),
	}, nil
}

// basicAuth guards routes with a single bcrypt-hashed credential for the
// fixed user "avis".
func basicAuth(hash string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, pass, ok := r.BasicAuth()
			if !ok ||
				subtle.ConstantTimeCompare([]byte(user), []byte("avis")) != 1 ||
				bcrypt.CompareHashAndPassword([]byte(hash), []byte(pass)) != nil {
				w.Header().Set("WWW-Authenticate", `Basic realm="avis"`)
				writeError(w, 401, errors.New("unauthorized"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, err error) {
	writeJSON(w, code, map[string]string{"error": err.Error()})
}
