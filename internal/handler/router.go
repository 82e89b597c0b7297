package handler

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/567kasi-cmd/news-trending-generator/internal/middleware"
)

// Recovery converts any panic into a generic 500 carrying the panic's
// string form, so no request ever crashes the process.
func Recovery() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, err any) {
		slog.Error("recovered from panic", "error", err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": fmt.Sprintf("%v", err)})
	})
}

func NewRouter(trending *TrendingHandler, gen *GenerateHandler, sess *SessionHandler, allowedOrigins []string) *gin.Engine {
	r := gin.New()
	r.Use(gin.Logger(), Recovery(), middleware.Prometheus())

	r.HandleMethodNotAllowed = true
	r.NoMethod(func(c *gin.Context) {
		c.JSON(http.StatusMethodNotAllowed, gin.H{"error": "Method not allowed"})
	})

	if len(allowedOrigins) > 0 {
		r.Use(cors.New(cors.Config{
			AllowOrigins: allowedOrigins,
			AllowMethods: []string{"GET", "POST", "OPTIONS"},
			AllowHeaders: []string{"Origin", "Content-Type"},
		}))
	}

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy", "service": "trending-api"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api")
	api.GET("/trending", trending.GetTrending)
	api.GET("/regions", trending.GetRegions)
	api.POST("/generate-image", gen.GenerateImage)
	api.POST("/generate-script", gen.GenerateScript)
	api.POST("/generate", gen.GenerateEntry)
	api.GET("/current", sess.GetCurrent)
	api.GET("/history", sess.GetHistory)
	api.GET("/export", sess.ExportEntry)

	return r
}
