package news

import (
	"context"
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

const defaultBaseURL = "https://gnews.io/api/v4/top-headlines"

// Countries the region selector exposes. Region codes outside this set
// that are not topics fall through to an unfiltered query.
var countryRegions = map[string]struct{}{
	"us": {}, "in": {}, "gb": {}, "de": {},
	"fr": {}, "jp": {}, "au": {}, "br": {},
}

var topicRegions = map[string]string{
	"tech":          "technology",
	"entertainment": "entertainment",
}

// Regions returns the region codes the API advertises, in menu order.
func Regions() []string {
	return []string{"world", "us", "in", "gb", "de", "fr", "jp", "au", "br", "tech", "entertainment"}
}

type UpstreamError struct {
	StatusCode int
	Body       string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("upstream returned status %d: %s", e.StatusCode, e.Body)
}

type GNewsClient struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

func NewGNewsClient(apiKey string) *GNewsClient {
	return &GNewsClient{
		apiKey:     apiKey,
		baseURL:    defaultBaseURL,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

func (c *GNewsClient) Name() string {
	return "GNews"
}

func (c *GNewsClient) buildQuery(region string) url.Values {
	q := url.Values{}
	q.Set("lang", "en")
	q.Set("max", "10")

	if _, ok := countryRegions[region]; ok {
		q.Set("country", region)
		return q
	}

	if topic, ok := topicRegions[region]; ok {
		q.Set("topic", topic)
		return q
	}

	// "world" and anything unrecognized issue an unfiltered query.
	return q
}

// CacheKey is the normalized upstream URL without the credential, so
// the key is stable across key rotation and never stores the secret.
func (c *GNewsClient) CacheKey(region string) string {
	return "trending:" + c.baseURL + "?" + c.buildQuery(region).Encode()
}

func (c *GNewsClient) Fetch(ctx context.Context, region string) ([]TrendingItem, error) {
	q := c.buildQuery(region)
	q.Set("apikey", c.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("gnews request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("gnews fetch: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, &UpstreamError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	var raw gnewsResponse
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, fmt.Errorf("gnews decode: %w", err)
	}

	items := make([]TrendingItem, 0, len(raw.Articles))
	for _, a := range raw.Articles {
		id := a.URL
		if id == "" {
			id = shortID(a.Title + a.PublishedAt)
		}

		items = append(items, TrendingItem{
			ID:          id,
			Title:       a.Title,
			Source:      a.Source.Name,
			PublishedAt: a.PublishedAt,
			Summary:     a.Description,
			URL:         a.URL,
		})
	}

	return items, nil
}

func shortID(seed string) string {
	sum := sha256.Sum256([]byte(seed))
	return fmt.Sprintf("%x", sum)[:16]
}

type gnewsResponse struct {
	Articles []gnewsArticle `json:"articles"`
}

type gnewsArticle struct {
	Title       string      `json:"title"`
	Description string      `json:"description"`
	URL         string      `json:"url"`
	PublishedAt string      `json:"publishedAt"`
	Source      gnewsSource `json:"source"`
}

type gnewsSource struct {
	Name string `json:"name"`
}
