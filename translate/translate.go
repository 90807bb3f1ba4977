// Package translate provides machine translation with automatic source
// language detection.
//
// Two backends are available: the Google translate web endpoint and an
// OpenAI chat model. Both are best-effort collaborators: callers are
// expected to fall back to the untranslated text on error.
package translate

import (
	"context"
	"errors"
)

// ErrUnavailable is returned when the translation backend cannot be reached
// or refuses to answer (including an open circuit breaker).
var ErrUnavailable = errors.New("translate: backend unavailable")

// Translator turns text into the target language.
//
// sourceLang is the detected source language code when the backend reports
// one, or "auto" when detection is not available.
type Translator interface {
	Translate(ctx context.Context, text string) (translated, sourceLang string, err error)
}

// Noop returns the input unchanged. Used when translation is disabled.
type Noop struct{}

func (Noop) Translate(_ context.Context, text string) (string, string, error) {
	return text, "", nil
}
