package translate

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sony/gobreaker"
)

// BreakerConfig tunes the circuit breaker around a Translator.
type BreakerConfig struct {
	// ConsecutiveFailures before the circuit opens. Default: 5.
	ConsecutiveFailures uint32

	// Cooldown before a half-open probe. Default: 30s.
	Cooldown time.Duration
}

func (c *BreakerConfig) defaults() {
	if c.ConsecutiveFailures == 0 {
		c.ConsecutiveFailures = 5
	}
	if c.Cooldown <= 0 {
		c.Cooldown = 30 * time.Second
	}
}

type breakerResult struct {
	text string
	lang string
}

// Breaker wraps a Translator with a circuit breaker so a dead endpoint
// stops being hammered mid-run. While the circuit is open every call
// returns ErrUnavailable immediately.
type Breaker struct {
	inner Translator
	cb    *gobreaker.CircuitBreaker
}

// WithBreaker wraps t in a circuit breaker.
func WithBreaker(t Translator, cfg BreakerConfig) *Breaker {
	cfg.defaults()
	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "translate",
		MaxRequests: 1,
		Timeout:     cfg.Cooldown,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.ConsecutiveFailures
		},
	})
	return &Breaker{inner: t, cb: cb}
}

// Translate implements Translator.
func (b *Breaker) Translate(ctx context.Context, text string) (string, string, error) {
	res, err := b.cb.Execute(func() (any, error) {
		translated, lang, err := b.inner.Translate(ctx, text)
		if err != nil {
			return nil, err
		}
		return breakerResult{text: translated, lang: lang}, nil
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return "", "", fmt.Errorf("%w: circuit open", ErrUnavailable)
		}
		return "", "", err
	}
	r := res.(breakerResult)
	return r.text, r.lang, nil
}
