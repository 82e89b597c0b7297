package session

import (
	"sync"

	"github.com/567kasi-cmd/news-trending-generator/pkg/news"
)

const historyLimit = 50

type GeneratedEntry struct {
	news.TrendingItem
	TitleVariants []string `json:"titleVariants"`
	ShortScript   string   `json:"shortScript"`
	Hashtags      string   `json:"hashtags"`
	ImageURL      string   `json:"imageUrl"`
}

// ExportDoc is the document a user downloads for one generated entry.
type ExportDoc struct {
	Title  string `json:"title"`
	Script string `json:"script"`
	Image  string `json:"image"`
	Tags   string `json:"tags"`
}

// Slot identifies a piece of session state that rapid successive
// requests can race on. Each slot hands out monotonically increasing
// tokens; a completion carrying anything but the latest token is
// stale and gets discarded.
type Slot int

const (
	SlotTrending Slot = iota
	SlotScript
	SlotImage
	slotCount
)

// Session holds the per-process application state the UI works
// against: the current item list, the entry in the side panel, and a
// bounded newest-first history. All methods are safe for concurrent
// use.
type Session struct {
	mu      sync.Mutex
	items   []news.TrendingItem
	current *GeneratedEntry
	history []GeneratedEntry
	tokens  [slotCount]uint64
}

func New() *Session {
	return &Session{}
}

// Begin reserves the next token for a slot, invalidating any request
// still in flight for it.
func (s *Session) Begin(slot Slot) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.tokens[slot]++
	return s.tokens[slot]
}

func (s *Session) fresh(slot Slot, token uint64) bool {
	return token == s.tokens[slot]
}

// SetItems replaces the item list if the token is still current.
func (s *Session) SetItems(token uint64, items []news.TrendingItem) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.fresh(SlotTrending, token) {
		return false
	}

	s.items = make([]news.TrendingItem, len(items))
	copy(s.items, items)
	return true
}

func (s *Session) Items() []news.TrendingItem {
	s.mu.Lock()
	defer s.mu.Unlock()

	items := make([]news.TrendingItem, len(s.items))
	copy(items, s.items)
	return items
}

func (s *Session) ItemByID(id string) (news.TrendingItem, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, item := range s.items {
		if item.ID == id {
			return item, true
		}
	}
	return news.TrendingItem{}, false
}

// Record makes the entry current and prepends it to history, dropping
// the oldest entry past the cap. Stale tokens are discarded.
func (s *Session) Record(token uint64, entry GeneratedEntry) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.fresh(SlotScript, token) {
		return false
	}

	s.current = &entry
	s.history = append([]GeneratedEntry{entry}, s.history...)
	if len(s.history) > historyLimit {
		s.history = s.history[:historyLimit]
	}
	return true
}

// AttachImage sets the image on the current entry and its history
// record once image generation resolves. Stale tokens are discarded.
func (s *Session) AttachImage(token uint64, id, imageURL string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.fresh(SlotImage, token) {
		return false
	}

	if s.current == nil || s.current.ID != id {
		return false
	}

	s.current.ImageURL = imageURL
	for i := range s.history {
		if s.history[i].ID == id {
			s.history[i].ImageURL = imageURL
			break
		}
	}
	return true
}

func (s *Session) Current() (GeneratedEntry, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.current == nil {
		return GeneratedEntry{}, false
	}
	return *s.current, true
}

// History returns the generated entries, newest first.
func (s *Session) History() []GeneratedEntry {
	s.mu.Lock()
	defer s.mu.Unlock()

	history := make([]GeneratedEntry, len(s.history))
	copy(history, s.history)
	return history
}

// Export builds the download document for the most recent history
// entry with the given item ID.
func (s *Session) Export(id string) (ExportDoc, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, entry := range s.history {
		if entry.ID == id {
			return ExportDoc{
				Title:  entry.Title,
				Script: entry.ShortScript,
				Image:  entry.ImageURL,
				Tags:   entry.Hashtags,
			}, true
		}
	}
	return ExportDoc{}, false
}
