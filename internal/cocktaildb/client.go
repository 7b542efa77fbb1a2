package cocktaildb

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Fetcher defines the read-only API surface used by the recipe repository.
// This interface is implemented by *Client and can be faked in tests.
type Fetcher interface {
	Search(ctx context.Context, query string) ([]Drink, error)
	Random(ctx context.Context) (*Drink, error)
	FilterByIngredient(ctx context.Context, ingredient string) ([]Drink, error)
	Lookup(ctx context.Context, id string) (*Drink, error)
}

// Ensure Client implements Fetcher at compile time.
var _ Fetcher = (*Client)(nil)

// Client talks to TheCocktailDB JSON API.
type Client struct {
	baseURL   *url.URL
	http      *http.Client
	userAgent string
}

const (
	// DefaultBaseURL is the public free-tier endpoint.
	DefaultBaseURL   = "https://www.thecocktaildb.com/api/json/v1/1/"
	defaultUserAgent = "shaker/0.1"
	defaultTimeout   = 10 * time.Second
)

// NewClient builds a Client for baseURL. A blank baseURL selects
// DefaultBaseURL and a non-positive timeout selects the default.
func NewClient(baseURL string, timeout time.Duration) (*Client, error) {
	base, err := parseBaseURL(baseURL)
	if err != nil {
		return nil, err
	}
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		baseURL: base,
		http: &http.Client{
			Timeout: timeout,
		},
		userAgent: defaultUserAgent,
	}, nil
}

// Search returns drinks whose name matches query.
func (c *Client) Search(ctx context.Context, query string) ([]Drink, error) {
	if c == nil {
		return nil, fmt.Errorf("client is nil")
	}
	values := url.Values{}
	values.Set("s", query)
	var payload DrinksResponse
	if err := c.get(ctx, "search.php", values, &payload); err != nil {
		return nil, err
	}
	return payload.Drinks, nil
}

// Random returns one random drink, or nil when the API returned none.
func (c *Client) Random(ctx context.Context) (*Drink, error) {
	if c == nil {
		return nil, fmt.Errorf("client is nil")
	}
	var payload DrinksResponse
	if err := c.get(ctx, "random.php", nil, &payload); err != nil {
		return nil, err
	}
	if len(payload.Drinks) == 0 {
		return nil, nil
	}
	return &payload.Drinks[0], nil
}

// FilterByIngredient lists drinks containing ingredient. The API only fills
// id, name and thumbnail for filter results; use Lookup for the rest.
func (c *Client) FilterByIngredient(ctx context.Context, ingredient string) ([]Drink, error) {
	if c == nil {
		return nil, fmt.Errorf("client is nil")
	}
	ingredient = strings.TrimSpace(ingredient)
	if ingredient == "" {
		return nil, fmt.Errorf("ingredient required")
	}
	values := url.Values{}
	values.Set("i", ingredient)
	var payload DrinksResponse
	if err := c.get(ctx, "filter.php", values, &payload); err != nil {
		return nil, err
	}
	return payload.Drinks, nil
}

// Lookup fetches the full record for a drink id, or nil when unknown.
func (c *Client) Lookup(ctx context.Context, id string) (*Drink, error) {
	if c == nil {
		return nil, fmt.Errorf("client is nil")
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, fmt.Errorf("drink id required")
	}
	values := url.Values{}
	values.Set("i", id)
	var payload DrinksResponse
	if err := c.get(ctx, "lookup.php", values, &payload); err != nil {
		return nil, err
	}
	if len(payload.Drinks) == 0 {
		return nil, nil
	}
	return &payload.Drinks[0], nil
}

func (c *Client) get(ctx context.Context, endpoint string, values url.Values, dest any) error {
	rel := &url.URL{Path: endpoint}
	if len(values) > 0 {
		rel.RawQuery = values.Encode()
	}
	return c.doURL(ctx, http.MethodGet, rel, dest)
}

func (c *Client) doURL(ctx context.Context, method string, rel *url.URL, dest any) error {
	reqURL := c.baseURL.ResolveReference(rel)
	req, err := http.NewRequestWithContext(ctx, method, reqURL.String(), nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("execute request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 400 {
		return fmt.Errorf("api %s returned status %d", rel.Path, resp.StatusCode)
	}
	if dest == nil {
		return nil
	}
	decoder := json.NewDecoder(resp.Body)
	if err := decoder.Decode(dest); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// parseBaseURL keeps the path (the API version lives there) and guarantees a
// trailing slash so endpoint names resolve beneath it.
func parseBaseURL(raw string) (*url.URL, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		trimmed = DefaultBaseURL
	}
	if !strings.Contains(trimmed, "://") {
		trimmed = "https://" + trimmed
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("parse api_base_url %q: %w", raw, err)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("parse api_base_url %q: missing host", raw)
	}
	if !strings.HasSuffix(u.Path, "/") {
		u.Path += "/"
	}
	u.RawQuery = ""
	u.Fragment = ""
	return u, nil
}
