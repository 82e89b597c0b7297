package news

import "context"

type TrendingItem struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Source      string `json:"source"`
	PublishedAt string `json:"publishedAt"`
	Summary     string `json:"summary"`
	URL         string `json:"url"`
}

type Client interface {
	Fetch(ctx context.Context, region string) ([]TrendingItem, error)
	CacheKey(region string) string
	Name() string
}
