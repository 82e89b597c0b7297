package handler

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"

	"github.com/567kasi-cmd/news-trending-generator/internal/generate"
	"github.com/567kasi-cmd/news-trending-generator/internal/imagegen"
	"github.com/567kasi-cmd/news-trending-generator/internal/metrics"
	"github.com/567kasi-cmd/news-trending-generator/internal/session"
)

type GenerateHandler struct {
	scripts  generate.ScriptGenerator
	fallback generate.Fallback
	images   imagegen.Generator
	sess     *session.Session
}

func NewGenerateHandler(scripts generate.ScriptGenerator, images imagegen.Generator, sess *session.Session) *GenerateHandler {
	return &GenerateHandler{scripts: scripts, images: images, sess: sess}
}

// generateScript never fails: a generator error degrades to the
// deterministic fallback rather than surfacing to the client.
func (h *GenerateHandler) generateScript(ctx context.Context, req generate.Request) *generate.Result {
	res, err := h.scripts.Generate(ctx, req)
	if err != nil {
		slog.Warn("script generator failed, using fallback", "error", err)
		res, _ = h.fallback.Generate(ctx, req)
	}
	return res
}

func (h *GenerateHandler) GenerateScript(c *gin.Context) {
	var req ScriptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	res := h.generateScript(c.Request.Context(), generate.Request{
		Title:   req.Title,
		Source:  req.Source,
		Summary: req.Summary,
	})

	c.JSON(http.StatusOK, ScriptResponse{
		ShortScript:   res.ShortScript,
		TitleVariants: res.TitleVariants,
		Hashtags:      res.Hashtags,
	})
}

func (h *GenerateHandler) GenerateImage(c *gin.Context) {
	var req ImageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	prompt := imagegen.ClampPrompt(req.Prompt)

	imageURL, err := h.images.Generate(c.Request.Context(), prompt)
	if err != nil {
		slog.Error("image generation failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, ImageResponse{ImageURL: imageURL})
}

// GenerateEntry runs the per-item generate action: script copy, then
// an illustration, recorded in session history.
func (h *GenerateHandler) GenerateEntry(c *gin.Context) {
	var req GenerateRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.ID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	item, ok := h.sess.ItemByID(req.ID)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Unknown item"})
		return
	}

	scriptToken := h.sess.Begin(session.SlotScript)

	res := h.generateScript(c.Request.Context(), generate.Request{
		Title:   item.Title,
		Source:  item.Source,
		Summary: item.Summary,
	})

	entry := session.GeneratedEntry{
		TrendingItem:  item,
		TitleVariants: res.TitleVariants,
		ShortScript:   res.ShortScript,
		Hashtags:      res.Hashtags,
	}

	if !h.sess.Record(scriptToken, entry) {
		c.JSON(http.StatusConflict, gin.H{"error": "Superseded by a newer request"})
		return
	}
	metrics.GeneratedEntriesTotal.Inc()

	imageToken := h.sess.Begin(session.SlotImage)
	prompt := imagegen.ClampPrompt("News illustration: " + item.Title)

	response := EntryResponse{GeneratedEntry: entry}

	imageURL, err := h.images.Generate(c.Request.Context(), prompt)
	if err != nil {
		// Best-effort: the entry stands without an image, the client
		// gets an image search link instead.
		slog.Warn("image generation failed", "item_id", item.ID, "error", err)
		response.ImageSearchURL = "https://www.google.com/search?tbm=isch&q=" + url.QueryEscape(item.Title)
	} else {
		h.sess.AttachImage(imageToken, item.ID, imageURL)
		response.ImageURL = imageURL
	}

	c.JSON(http.StatusOK, response)
}
