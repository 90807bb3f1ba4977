package translate

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const defaultGoogleEndpoint = "https://translate.googleapis.com/translate_a/single"

// GoogleConfig configures the Google web-endpoint translator.
type GoogleConfig struct {
	// TargetLang is the language to translate into. Default: "en".
	TargetLang string

	// Endpoint overrides the translate URL. Used in tests.
	Endpoint string

	// Timeout bounds a single translate call. Default: 15s.
	Timeout time.Duration

	// UserAgent is sent on every request.
	UserAgent string
}

func (c *GoogleConfig) defaults() {
	if c.TargetLang == "" {
		c.TargetLang = "en"
	}
	if c.Endpoint == "" {
		c.Endpoint = defaultGoogleEndpoint
	}
	if c.Timeout <= 0 {
		c.Timeout = 15 * time.Second
	}
	if c.UserAgent == "" {
		c.UserAgent = "avis/1.0"
	}
}

// Google translates via the public translate web endpoint with source
// language auto-detection. No API key is required; the endpoint is
// rate-limited and may refuse heavy use, which surfaces as ErrUnavailable.
type Google struct {
	cfg    GoogleConfig
	client *http.Client
}

// NewGoogle creates a Google translator.
func NewGoogle(cfg GoogleConfig) *Google {
	cfg.defaults()
	return &Google{
		cfg:    cfg,
		client: &http.Client{Timeout: cfg.Timeout},
	}
}

// Translate implements Translator.
func (g *Google) Translate(ctx context.Context, text string) (string, string, error) {
	q := url.Values{}
	q.Set("client", "gtx")
	q.Set("sl", "auto")
	q.Set("tl", g.cfg.TargetLang)
	q.Set("dt", "t")
	q.Set("q", text)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.cfg.Endpoint+"?"+q.Encode(), nil)
	if err != nil {
		return "", "", fmt.Errorf("translate: build request: %w", err)
	}
	req.Header.Set("User-Agent", g.cfg.UserAgent)

	resp, err := g.client.Do(req)
	if err != nil {
		return "", "", fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", "", fmt.Errorf("%w: status %d", ErrUnavailable, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return "", "", fmt.Errorf("translate: read body: %w", err)
	}

	return parseGoogleResponse(body)
}

// parseGoogleResponse decodes the endpoint's nested-array payload:
// [[["translated","original",...],...],null,"detected_lang",...].
func parseGoogleResponse(body []byte) (string, string, error) {
	var payload []any
	if err := json.Unmarshal(body, &payload); err != nil {
		return "", "", fmt.Errorf("translate: decode response: %w", err)
	}
	if len(payload) == 0 {
		return "", "", fmt.Errorf("translate: empty response")
	}

	segments, ok := payload[0].([]any)
	if !ok {
		return "", "", fmt.Errorf("translate: unexpected response shape")
	}

	var sb strings.Builder
	for _, seg := range segments {
		parts, ok := seg.([]any)
		if !ok || len(parts) == 0 {
			continue
		}
		if s, ok := parts[0].(string); ok {
			sb.WriteString(s)
		}
	}

	sourceLang := "auto"
	if len(payload) > 2 {
		if s, ok := payload[2].(string); ok && s != "" {
			sourceLang = s
		}
	}

	return sb.String(), sourceLang, nil
}
