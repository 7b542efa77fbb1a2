package translate

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"
)

// Ensure LibreTranslate implements Translator at compile time.
var _ Translator = (*LibreTranslate)(nil)

const (
	defaultUserAgent = "shaker/0.1"
	requestTimeout   = 10 * time.Second
	maxCacheEntries  = 512
)

// LibreTranslate calls a LibreTranslate-compatible POST /translate endpoint.
type LibreTranslate struct {
	endpoint *url.URL
	http     *http.Client
	apiKey   string
	source   string
	target   string
	log      *slog.Logger

	mu    sync.Mutex
	cache map[string]string
}

// Option configures a LibreTranslate client.
type Option func(*LibreTranslate)

// WithAPIKey sets the api_key sent with each request.
func WithAPIKey(key string) Option {
	return func(l *LibreTranslate) { l.apiKey = strings.TrimSpace(key) }
}

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(c *http.Client) Option {
	return func(l *LibreTranslate) {
		if c != nil {
			l.http = c
		}
	}
}

// WithLogger sets the logger used for failed requests.
func WithLogger(log *slog.Logger) Option {
	return func(l *LibreTranslate) {
		if log != nil {
			l.log = log
		}
	}
}

// NewLibreTranslate builds a client translating English into target.
func NewLibreTranslate(baseURL, target string, opts ...Option) (*LibreTranslate, error) {
	trimmed := strings.TrimSpace(baseURL)
	if trimmed == "" {
		return nil, fmt.Errorf("translate_url is empty")
	}
	if !strings.Contains(trimmed, "://") {
		trimmed = "https://" + trimmed
	}
	base, err := url.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("parse translate_url %q: %w", baseURL, err)
	}
	lang, err := ParseLanguage(target)
	if err != nil {
		return nil, err
	}

	endpoint := base.JoinPath("translate")
	endpoint.RawQuery = ""
	endpoint.Fragment = ""

	l := &LibreTranslate{
		endpoint: endpoint,
		http:     &http.Client{Timeout: requestTimeout},
		source:   SourceLanguage,
		target:   lang,
		log:      slog.Default(),
		cache:    make(map[string]string),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l, nil
}

// Target returns the target language code.
func (l *LibreTranslate) Target() string {
	return l.target
}

type libreRequest struct {
	Q      string `json:"q"`
	Source string `json:"source"`
	Target string `json:"target"`
	Format string `json:"format"`
	APIKey string `json:"api_key,omitempty"`
}

type libreResponse struct {
	TranslatedText string `json:"translatedText"`
	Error          string `json:"error"`
}

// Translate implements Translator. Successful translations are cached per
// input text.
func (l *LibreTranslate) Translate(ctx context.Context, text string) (string, error) {
	if l == nil {
		return "", fmt.Errorf("translator is nil")
	}
	if strings.TrimSpace(text) == "" {
		return text, nil
	}

	l.mu.Lock()
	cached, ok := l.cache[text]
	l.mu.Unlock()
	if ok {
		return cached, nil
	}

	out, err := l.request(ctx, text)
	if err != nil {
		l.log.Warn("translation failed", "target", l.target, "error", err)
		return "", err
	}

	l.mu.Lock()
	if len(l.cache) >= maxCacheEntries {
		l.cache = make(map[string]string)
	}
	l.cache[text] = out
	l.mu.Unlock()
	return out, nil
}

func (l *LibreTranslate) request(ctx context.Context, text string) (string, error) {
	body, err := json.Marshal(libreRequest{
		Q:      text,
		Source: l.source,
		Target: l.target,
		Format: "text",
		APIKey: l.apiKey,
	})
	if err != nil {
		return "", fmt.Errorf("encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, l.endpoint.String(), bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", defaultUserAgent)

	resp, err := l.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("execute request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	var payload libreResponse
	decodeErr := json.NewDecoder(resp.Body).Decode(&payload)
	if resp.StatusCode >= 400 {
		if decodeErr == nil && payload.Error != "" {
			return "", fmt.Errorf("translate returned status %d: %s", resp.StatusCode, payload.Error)
		}
		return "", fmt.Errorf("translate returned status %d", resp.StatusCode)
	}
	if decodeErr != nil {
		return "", fmt.Errorf("decode response: %w", decodeErr)
	}
	if payload.Error != "" {
		return "", fmt.Errorf("translate: %s", payload.Error)
	}
	return payload.TranslatedText, nil
}
