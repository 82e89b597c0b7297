package main

import (
	"log"
	"log/slog"
	"os"

	"github.com/joho/godotenv"

	"github.com/567kasi-cmd/news-trending-generator/internal/cache"
	"github.com/567kasi-cmd/news-trending-generator/internal/generate"
	"github.com/567kasi-cmd/news-trending-generator/internal/handler"
	"github.com/567kasi-cmd/news-trending-generator/internal/imagegen"
	"github.com/567kasi-cmd/news-trending-generator/internal/session"
	"github.com/567kasi-cmd/news-trending-generator/pkg/news"
)

func main() {

	godotenv.Load()

	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	var store cache.Store
	if redisURL := os.Getenv("REDIS_URL"); redisURL != "" {
		redisStore, err := cache.NewRedisStore(redisURL)
		if err != nil {
			log.Fatalf("error connecting to Redis: %v", err)
		}
		defer redisStore.Close()
		store = redisStore
	} else {
		slog.Warn("REDIS_URL not set, using in-memory cache")
		store = cache.NewMemoryStore()
	}

	var newsClient news.Client
	if key := os.Getenv("NEWS_API_KEY"); key != "" {
		newsClient = news.NewGNewsClient(key)
	} else {
		slog.Warn("NEWS_API_KEY not set, trending requests will fail")
	}

	sess := session.New()

	trendingHandler := handler.NewTrendingHandler(newsClient, store, sess)
	generateHandler := handler.NewGenerateHandler(generate.Fallback{}, imagegen.Placeholder{}, sess)
	sessionHandler := handler.NewSessionHandler(sess)

	allowedOrigins := []string{"http://localhost:3000"}
	if frontendURL := os.Getenv("FRONTEND_URL"); frontendURL != "" {
		allowedOrigins = append(allowedOrigins, frontendURL)
	}

	slog.Info("AllowOrigins URL:", "urls", allowedOrigins)

	r := handler.NewRouter(trendingHandler, generateHandler, sessionHandler, allowedOrigins)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	if err := r.Run(":" + port); err != nil {
		log.Fatalf("error starting server: %v", err)
	}
}
