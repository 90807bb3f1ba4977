package translate

import (
	"context"
	"sync"
)

type cacheEntry struct {
	text string
	lang string
}

// Cache memoizes translations so identical texts hit the backend once per
// run. Errors are not cached: a transient failure should not pin the
// untranslated text for the rest of the run.
type Cache struct {
	inner Translator

	mu      sync.Mutex
	entries map[string]cacheEntry
}

// WithCache wraps t in an in-memory memo.
func WithCache(t Translator) *Cache {
	return &Cache{
		inner:   t,
		entries: make(map[string]cacheEntry),
	}
}

// Translate implements Translator.
func (c *Cache) Translate(ctx context.Context, text string) (string, string, error) {
	c.mu.Lock()
	if e, ok := c.entries[text]; ok {
		c.mu.Unlock()
		return e.text, e.lang, nil
	}
	c.mu.Unlock()

	translated, lang, err := c.inner.Translate(ctx, text)
	if err != nil {
		return "", "", err
	}

	c.mu.Lock()
	c.entries[text] = cacheEntry{text: translated, lang: lang}
	c.mu.Unlock()

	return translated, lang, nil
}

// Len returns the number of cached translations.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
