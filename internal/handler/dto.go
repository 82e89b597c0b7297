package handler

import (
	"github.com/567kasi-cmd/news-trending-generator/internal/session"
	"github.com/567kasi-cmd/news-trending-generator/pkg/news"
)

type TrendingResponse struct {
	Items []news.TrendingItem `json:"items"`
}

type RegionsResponse struct {
	Regions []string `json:"regions"`
}

type ScriptRequest struct {
	Title   string `json:"title"`
	Source  string `json:"source"`
	Summary string `json:"summary"`
}

type ScriptResponse struct {
	ShortScript   string   `json:"shortScript"`
	TitleVariants []string `json:"titleVariants"`
	Hashtags      string   `json:"hashtags"`
}

type ImageRequest struct {
	Prompt string `json:"prompt"`
}

type ImageResponse struct {
	ImageURL string `json:"imageUrl"`
}

type GenerateRequest struct {
	ID string `json:"id"`
}

type EntryResponse struct {
	session.GeneratedEntry
	ImageSearchURL string `json:"imageSearchUrl,omitempty"`
}

type HistoryResponse struct {
	Entries []session.GeneratedEntry `json:"entries"`
	Total   int                      `json:"total"`
}
