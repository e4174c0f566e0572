package ai

import (
	"fmt"
	"html"
	"strings"

	"github.com/emrgen/cms/internal/model"
)

const fallbackExcerptLength = 200

// typeLabel title-cases the content type, e.g. ARTICLE becomes Article.
func typeLabel(t model.ContentType) string {
	s := strings.ToLower(string(t))
	if s == "" {
		return "Article"
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// fallbackResponse builds a usable draft from a reply that could not be decoded.
func fallbackResponse(req GenerationRequest, raw string) *GenerationResponse {
	raw = strings.TrimSpace(raw)

	resp := &GenerationResponse{
		Title:         fmt.Sprintf("%s: %s", typeLabel(req.Type), req.Topic),
		Content:       paragraphs(raw),
		Excerpt:       truncate(raw, fallbackExcerptLength) + "...",
		SuggestedTags: []string{strings.ToLower(req.Topic)},
	}
	resp.finalize()

	return resp
}

// paragraphs turns each non-blank line into an escaped <p> element.
func paragraphs(raw string) string {
	var b strings.Builder
	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		b.WriteString("<p>")
		b.WriteString(html.EscapeString(line))
		b.WriteString("</p>")
	}
	return b.String()
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}

func fallbackIdeas(topic string) []string {
	return []string{
		fmt.Sprintf("A beginner's guide to %s", topic),
		fmt.Sprintf("Common mistakes to avoid with %s", topic),
		fmt.Sprintf("The future of %s", topic),
	}
}

func fallbackTitles(topic string) []string {
	return []string{
		fmt.Sprintf("The Complete Guide to %s", topic),
		fmt.Sprintf("How to Get Started with %s", topic),
		fmt.Sprintf("10 Things You Need to Know About %s", topic),
	}
}
