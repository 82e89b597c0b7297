package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/assert/v2"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/567kasi-cmd/news-trending-generator/internal/cache"
	"github.com/567kasi-cmd/news-trending-generator/internal/metrics"
	"github.com/567kasi-cmd/news-trending-generator/internal/generate"
	"github.com/567kasi-cmd/news-trending-generator/internal/imagegen"
	"github.com/567kasi-cmd/news-trending-generator/internal/session"
	"github.com/567kasi-cmd/news-trending-generator/pkg/news"
)

type fakeNewsClient struct {
	items      []news.TrendingItem
	err        error
	fetchCount int
	lastRegion string
}

func (f *fakeNewsClient) Fetch(_ context.Context, region string) ([]news.TrendingItem, error) {
	f.fetchCount++
	f.lastRegion = region
	return f.items, f.err
}

func (f *fakeNewsClient) CacheKey(region string) string {
	return "trending:test:" + region
}

func (f *fakeNewsClient) Name() string {
	return "Fake"
}

func newTestEnv(client news.Client) (*gin.Engine, *cache.MemoryStore, *session.Session) {
	gin.SetMode(gin.TestMode)
	store := cache.NewMemoryStore()
	sess := session.New()
	trending := NewTrendingHandler(client, store, sess)
	gen := NewGenerateHandler(generate.Fallback{}, imagegen.Placeholder{}, sess)
	r := NewRouter(trending, gen, NewSessionHandler(sess), nil)
	return r, store, sess
}

func TestGetTrending_ReturnsItems(t *testing.T) {
	client := &fakeNewsClient{
		items: []news.TrendingItem{
			{ID: "https://example.com/a", Title: "Headline A", Source: "Wire"},
		},
	}
	r, _, sess := newTestEnv(client)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/api/trending?region=IN", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "in", client.lastRegion)

	var res TrendingResponse
	json.Unmarshal(w.Body.Bytes(), &res)
	assert.Equal(t, 1, len(res.Items))
	assert.Equal(t, "Headline A", res.Items[0].Title)

	assert.Equal(t, 1, len(sess.Items()))
}

func TestGetTrending_DefaultRegionWorld(t *testing.T) {
	client := &fakeNewsClient{items: []news.TrendingItem{}}
	r, _, _ := newTestEnv(client)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/api/trending", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "world", client.lastRegion)
}

func TestGetTrending_MissingCredential(t *testing.T) {
	r, _, _ := newTestEnv(nil)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/api/trending", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)

	var res map[string]interface{}
	json.Unmarshal(w.Body.Bytes(), &res)
	assert.Equal(t, "NEWS_API_KEY is not configured", res["error"])
}

func TestGetTrending_UpstreamError(t *testing.T) {
	client := &fakeNewsClient{
		err: &news.UpstreamError{StatusCode: 429, Body: `{"errors":["rate limited"]}`},
	}
	r, _, _ := newTestEnv(client)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/api/trending?region=us", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadGateway, w.Code)

	var res map[string]interface{}
	json.Unmarshal(w.Body.Bytes(), &res)
	assert.Equal(t, "Upstream news API error", res["error"])
	assert.Equal(t, float64(429), res["status"])
	assert.Equal(t, `{"errors":["rate limited"]}`, res["details"])
}

func TestGetTrending_GenericFetchError(t *testing.T) {
	client := &fakeNewsClient{err: errors.New("connection refused")}
	r, _, _ := newTestEnv(client)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/api/trending", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestGetTrending_CacheHitSkipsUpstream(t *testing.T) {
	client := &fakeNewsClient{items: []news.TrendingItem{{ID: "fresh"}}}
	r, store, _ := newTestEnv(client)

	cachedBody := `{"items":[{"id":"cached","title":"Cached","source":"","publishedAt":"","summary":"","url":""}]}`
	store.Set(context.Background(), "trending:test:world", []byte(cachedBody), time.Minute)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/api/trending", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 0, client.fetchCount)

	var res TrendingResponse
	json.Unmarshal(w.Body.Bytes(), &res)
	assert.Equal(t, "cached", res.Items[0].ID)
}

func TestGetTrending_CacheHitSeedsSession(t *testing.T) {
	client := &fakeNewsClient{items: []news.TrendingItem{{ID: "fresh"}}}
	r, store, sess := newTestEnv(client)

	cachedBody := `{"items":[{"id":"https://example.com/a","title":"Cached Headline","source":"Wire","publishedAt":"2026-08-29T09:15:00Z","summary":"Cached summary.","url":"https://example.com/a"}]}`
	store.Set(context.Background(), "trending:test:world", []byte(cachedBody), time.Minute)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/api/trending", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 0, client.fetchCount)

	item, found := sess.ItemByID("https://example.com/a")
	assert.Equal(t, true, found)
	assert.Equal(t, "Cached Headline", item.Title)

	// Generating for an item served from cache must work.
	w = postJSON(r, "/api/generate", `{"id": "https://example.com/a"}`)
	assert.Equal(t, http.StatusOK, w.Code)

	var res EntryResponse
	json.Unmarshal(w.Body.Bytes(), &res)
	assert.Equal(t, "Cached Headline. Cached summary", res.ShortScript)
}

func TestGetTrending_UndecodableCacheEntryRefetches(t *testing.T) {
	client := &fakeNewsClient{items: []news.TrendingItem{{ID: "fresh", Title: "Fresh"}}}
	r, store, sess := newTestEnv(client)

	store.Set(context.Background(), "trending:test:world", []byte("not json"), time.Minute)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/api/trending", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, client.fetchCount)

	_, found := sess.ItemByID("fresh")
	assert.Equal(t, true, found)
}

func TestGetTrending_CountsFetchesBySource(t *testing.T) {
	client := &fakeNewsClient{items: []news.TrendingItem{{ID: "a"}}}
	r, _, _ := newTestEnv(client)

	before := testutil.ToFloat64(metrics.UpstreamFetchesTotal.WithLabelValues("Fake", "de", "ok"))

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/api/trending?region=de", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	after := testutil.ToFloat64(metrics.UpstreamFetchesTotal.WithLabelValues("Fake", "de", "ok"))
	assert.Equal(t, before+1, after)
}

func TestGetTrending_CacheWriteAfterMiss(t *testing.T) {
	client := &fakeNewsClient{items: []news.TrendingItem{{ID: "a", Title: "Headline"}}}
	r, store, _ := newTestEnv(client)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/api/trending?region=us", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, client.fetchCount)

	// The write is asynchronous; give it a moment.
	deadline := time.Now().Add(2 * time.Second)
	var ok bool
	for time.Now().Before(deadline) {
		if _, ok, _ = store.Get(context.Background(), "trending:test:us"); ok {
			break
		}
		time.Sleep(5 * time.Millisecond)
	}
	assert.Equal(t, true, ok)

	// Second request is served from cache.
	w = httptest.NewRecorder()
	req = httptest.NewRequest("GET", "/api/trending?region=us", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, client.fetchCount)
}

func TestGetRegions(t *testing.T) {
	r, _, _ := newTestEnv(&fakeNewsClient{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/api/regions", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var res RegionsResponse
	json.Unmarshal(w.Body.Bytes(), &res)
	assert.Equal(t, "world", res.Regions[0])
}

func TestHealth(t *testing.T) {
	r, _, _ := newTestEnv(&fakeNewsClient{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/health", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}
