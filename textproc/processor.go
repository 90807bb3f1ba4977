package textproc

import (
	"context"
	"log/slog"

	"github.com/hazyhaar/avis/translate"
)

// NoTextPlaceholder marks reviews whose text could not be extracted. It is
// never sent to a translation backend.
const NoTextPlaceholder = "No review text"

// Processor applies the full text treatment: clean, then translate when a
// translator is configured. Translation failures degrade to the cleaned
// original; they never fail the caller.
type Processor struct {
	translator translate.Translator
	logger     *slog.Logger
}

// NewProcessor creates a Processor. A nil translator disables translation.
func NewProcessor(t translate.Translator, logger *slog.Logger) *Processor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Processor{translator: t, logger: logger}
}

// Process cleans s and translates it when enabled.
//
// translated reports whether the translator actually changed the text;
// sourceLang is the detected source language ("" when not translated).
func (p *Processor) Process(ctx context.Context, s string) (text string, translated bool, sourceLang string) {
	cleaned := Clean(s)
	if p.translator == nil || cleaned == "" || cleaned == NoTextPlaceholder {
		return cleaned, false, ""
	}

	out, lang, err := p.translator.Translate(ctx, cleaned)
	if err != nil {
		p.logger.Warn("textproc: translation failed, keeping original",
			"error", err, "len", len(cleaned))
		return cleaned, false, ""
	}

	if out == "" || out == cleaned {
		// Already in the target language (or the backend echoed the input).
		return cleaned, false, lang
	}
	return out, true, lang
}
