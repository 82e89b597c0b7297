package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/567kasi-cmd/news-trending-generator/internal/cache"
	"github.com/567kasi-cmd/news-trending-generator/internal/metrics"
	"github.com/567kasi-cmd/news-trending-generator/internal/session"
	"github.com/567kasi-cmd/news-trending-generator/pkg/news"
)

const (
	cacheTTL      = 300 * time.Second
	cacheSetLimit = 5 * time.Second
)

type TrendingHandler struct {
	client news.Client
	store  cache.Store
	sess   *session.Session
}

// NewTrendingHandler wires the proxy. client may be nil when no
// upstream credential is configured; requests then fail with 500.
func NewTrendingHandler(client news.Client, store cache.Store, sess *session.Session) *TrendingHandler {
	return &TrendingHandler{client: client, store: store, sess: sess}
}

func (h *TrendingHandler) GetTrending(c *gin.Context) {
	region := strings.ToLower(strings.TrimSpace(c.DefaultQuery("region", "world")))

	if h.client == nil {
		slog.Error("trending request rejected, NEWS_API_KEY is not configured")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "NEWS_API_KEY is not configured"})
		return
	}

	key := h.client.CacheKey(region)

	cached, ok, err := h.store.Get(c.Request.Context(), key)
	if err != nil {
		slog.Warn("cache lookup failed", "key", key, "error", err)
	}
	if ok {
		// The session must know the items the client was just shown,
		// or a later generate action for them would miss.
		var cachedRes TrendingResponse
		if err := json.Unmarshal(cached, &cachedRes); err != nil {
			slog.Warn("discarding undecodable cache entry", "key", key, "error", err)
		} else {
			metrics.CacheLookupsTotal.WithLabelValues("hit").Inc()
			h.sess.SetItems(h.sess.Begin(session.SlotTrending), cachedRes.Items)
			c.Data(http.StatusOK, "application/json", cached)
			return
		}
	}
	metrics.CacheLookupsTotal.WithLabelValues("miss").Inc()

	token := h.sess.Begin(session.SlotTrending)

	source := h.client.Name()

	items, err := h.client.Fetch(c.Request.Context(), region)
	if err != nil {
		var upstream *news.UpstreamError
		if errors.As(err, &upstream) {
			metrics.UpstreamFetchesTotal.WithLabelValues(source, region, "upstream_error").Inc()
			slog.Error("upstream news fetch failed", "source", source, "region", region, "status", upstream.StatusCode)
			c.JSON(http.StatusBadGateway, gin.H{
				"error":   "Upstream news API error",
				"status":  upstream.StatusCode,
				"details": upstream.Body,
			})
			return
		}

		metrics.UpstreamFetchesTotal.WithLabelValues(source, region, "error").Inc()
		slog.Error("error fetching trending items", "source", source, "region", region, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	metrics.UpstreamFetchesTotal.WithLabelValues(source, region, "ok").Inc()

	h.sess.SetItems(token, items)

	body, err := json.Marshal(TrendingResponse{Items: items})
	if err != nil {
		slog.Error("error encoding trending response", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.Data(http.StatusOK, "application/json", body)

	// Fire-and-forget cache write after the response; a failed write
	// is logged and otherwise ignored.
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), cacheSetLimit)
		defer cancel()
		if err := h.store.Set(ctx, key, body, cacheTTL); err != nil {
			slog.Warn("cache write failed", "key", key, "error", err)
		}
	}()
}

func (h *TrendingHandler) GetRegions(c *gin.Context) {
	c.JSON(http.StatusOK, RegionsResponse{Regions: news.Regions()})
}
