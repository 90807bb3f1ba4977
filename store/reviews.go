package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/hazyhaar/avis/scrape"
)

// upsertReview inserts a review or, when the same content was already seen
// in an earlier run, moves it onto this run and refreshes the mutable
// fields (rating, published label, owner response, translation state).
func (s *Store) upsertReview(ctx context.Context, tx *sql.Tx, runID string, rev *scrape.Review) error {
	hash := ContentHash(rev.Business, rev.Reviewer, rev.Text)
	_, err := tx.ExecContext(ctx,
		`INSERT INTO reviews (id, run_id, content_hash, reviewer, rating, stars, text,
			published, owner_response, business, scraped_at, translated, original_language)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(content_hash) DO UPDATE SET
			run_id = excluded.run_id,
			rating = excluded.rating,
			stars = excluded.stars,
			published = excluded.published,
			owner_response = excluded.owner_response,
			scraped_at = excluded.scraped_at,
			translated = excluded.translated,
			original_language = excluded.original_language`,
		s.newReviewID(), runID, hash, rev.Reviewer, rev.Rating, rev.Stars, rev.Text,
		rev.Published, rev.OwnerResponse, rev.Business, rev.ScrapedAt.UnixMilli(),
		boolToInt(rev.Translated), rev.OriginalLanguage,
	)
	if err != nil {
		return fmt.Errorf("store: upsert review: %w", err)
	}
	return nil
}

// ReviewsForRun returns every review attached to a run.
func (s *Store) ReviewsForRun(ctx context.Context, runID string) ([]scrape.Review, error) {
	return s.queryReviews(ctx,
		`SELECT id, reviewer, rating, stars, text, published, owner_response,
			business, scraped_at, translated, original_language
		FROM reviews WHERE run_id = ? ORDER BY scraped_at, id`, runID)
}

// ReviewsForBusiness returns every stored review for a business across all
// runs, deduplicated by construction.
func (s *Store) ReviewsForBusiness(ctx context.Context, business string) ([]scrape.Review, error) {
	return s.queryReviews(ctx,
		`SELECT id, reviewer, rating, stars, text, published, owner_response,
			business, scraped_at, translated, original_language
		FROM reviews WHERE business = ? ORDER BY scraped_at, id`, business)
}

func (s *Store) queryReviews(ctx context.Context, query string, args ...any) ([]scrape.Review, error) {
	rows, err := s.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var reviews []scrape.Review
	for rows.Next() {
		var rev scrape.Review
		var scrapedAt int64
		var translated int
		if err := rows.Scan(&rev.ID, &rev.Reviewer, &rev.Rating, &rev.Stars, &rev.Text,
			&rev.Published, &rev.OwnerResponse, &rev.Business, &scrapedAt,
			&translated, &rev.OriginalLanguage); err != nil {
			return nil, err
		}
		rev.ScrapedAt = time.UnixMilli(scrapedAt).UTC()
		rev.Translated = translated != 0
		reviews = append(reviews, rev)
	}
	return reviews, rows.Err()
}

// BusinessStats aggregates stored reviews for a business.
type BusinessStats struct {
	Business     string  `json:"business"`
	ReviewCount  int     `json:"review_count"`
	AverageStars float64 `json:"average_stars"`
	RunCount     int     `json:"run_count"`
}

// StatsForBusiness computes aggregate statistics for one business. Reviews
// with no parsed star value are excluded from the average.
func (s *Store) StatsForBusiness(ctx context.Context, business string) (*BusinessStats, error) {
	stats := &BusinessStats{Business: business}
	err := s.DB.QueryRowContext(ctx,
		`SELECT COUNT(*), COALESCE(AVG(CASE WHEN stars > 0 THEN stars END), 0)
		FROM reviews WHERE business = ?`, business).
		Scan(&stats.ReviewCount, &stats.AverageStars)
	if err != nil {
		return nil, err
	}
	err = s.DB.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM runs WHERE business = ?`, business).
		Scan(&stats.RunCount)
	if err != nil {
		return nil, err
	}
	return stats, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
