package generate

import (
	"context"
	"regexp"
	"strings"
	"unicode/utf8"
)

const (
	maxScriptLen    = 220
	maxTitleLen     = 45
	shortTitleWords = 7
	maxHashtags     = 5
)

type Request struct {
	Title   string
	Source  string
	Summary string
}

type Result struct {
	ShortScript   string
	TitleVariants []string
	Hashtags      string
}

// ScriptGenerator turns a news item into short-form copy. The real
// generator is an external collaborator; Fallback is the deterministic
// implementation used when no generator is configured or one fails.
type ScriptGenerator interface {
	Generate(ctx context.Context, req Request) (*Result, error)
}

type Fallback struct{}

func (Fallback) Generate(_ context.Context, req Request) (*Result, error) {
	variants := []string{ShortTitle(req.Title)}
	if variants[0] != req.Title {
		variants = append(variants, req.Title)
	}

	return &Result{
		ShortScript:   ShortScript(req.Title, req.Summary),
		TitleVariants: variants,
		Hashtags:      Hashtags(req.Title),
	}, nil
}

// ShortScript joins the title with the first sentence of the summary
// and truncates the whole thing to 220 characters.
func ShortScript(title, summary string) string {
	sentence := summary
	if i := strings.Index(summary, "."); i >= 0 {
		sentence = summary[:i]
	}

	script := strings.TrimSpace(strings.TrimSpace(title) + ". " + strings.TrimSpace(sentence))
	runes := []rune(script)
	if len(runes) <= maxScriptLen {
		return script
	}

	return string(runes[:maxScriptLen-3]) + "..."
}

// ShortTitle leaves short titles alone and clips long ones to the
// first seven words. Limits count characters, not bytes.
func ShortTitle(title string) string {
	if utf8.RuneCountInString(title) <= maxTitleLen {
		return title
	}

	words := strings.Fields(title)
	if len(words) > shortTitleWords {
		words = words[:shortTitleWords]
	}

	return strings.Join(words, " ") + "..."
}

var nonWord = regexp.MustCompile(`\W+`)

// Hashtags derives up to five tags from words in the title longer
// than three characters.
func Hashtags(title string) string {
	cleaned := nonWord.ReplaceAllString(strings.ToLower(title), " ")

	var tags []string
	for _, word := range strings.Fields(cleaned) {
		if len(word) <= 3 {
			continue
		}
		tags = append(tags, "#"+word)
		if len(tags) == maxHashtags {
			break
		}
	}

	if len(tags) == 0 {
		return "#news"
	}

	return strings.Join(tags, " ")
}
