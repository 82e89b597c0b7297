package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/567kasi-cmd/news-trending-generator/internal/session"
)

type SessionHandler struct {
	sess *session.Session
}

func NewSessionHandler(sess *session.Session) *SessionHandler {
	return &SessionHandler{sess: sess}
}

// GetCurrent returns the entry in the side panel, the most recent
// non-superseded generation.
func (h *SessionHandler) GetCurrent(c *gin.Context) {
	entry, ok := h.sess.Current()
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "No entry generated yet"})
		return
	}

	c.JSON(http.StatusOK, entry)
}

func (h *SessionHandler) GetHistory(c *gin.Context) {
	entries := h.sess.History()
	if entries == nil {
		entries = []session.GeneratedEntry{}
	}

	c.JSON(http.StatusOK, HistoryResponse{Entries: entries, Total: len(entries)})
}

// ExportEntry serves the download document for one generated entry.
// Item IDs are usually URLs, so the ID travels as a query parameter.
func (h *SessionHandler) ExportEntry(c *gin.Context) {
	id := c.Query("id")
	if id == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing id parameter"})
		return
	}

	doc, ok := h.sess.Export(id)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Entry not found"})
		return
	}

	c.Header("Content-Disposition", `attachment; filename="clip-export.json"`)
	c.JSON(http.StatusOK, doc)
}
