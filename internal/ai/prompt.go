package ai

import (
	"fmt"
	"strings"
)

const systemPrompt = "You are an experienced content writer for a publishing platform. " +
	"You follow formatting instructions exactly and reply with JSON only when asked to."

const contentInstructions = `Reply with a single JSON object and nothing else, using exactly this shape:
{
  "title": "string",
  "content": "string (HTML)",
  "excerpt": "string, at most 200 characters",
  "seoTitle": "string (only when SEO fields were requested)",
  "seoDescription": "string (only when SEO fields were requested)",
  "suggestedTags": ["string"],
  "outline": ["string"] (only when an outline was requested)
}

Formatting rules for "content":
- Use HTML tags only, never Markdown.
- Use <h2> for section headings and <h3> for subsections. Do not use <h1>.
- Wrap paragraphs in <p>, lists in <ul>/<ol> with <li>.
- Suggest between 3 and 6 tags.`

func contentPrompt(req GenerationRequest) string {
	words := req.Length.Range()

	var b strings.Builder
	fmt.Fprintf(&b, "Content type: %s.\n", strings.ToLower(typeLabel(req.Type)))
	fmt.Fprintf(&b, "Topic: %q.\n", req.Topic)
	fmt.Fprintf(&b, "Tone: %s.\n", req.Tone.Phrase())
	fmt.Fprintf(&b, "Length: between %d and %d words.\n", words.Min, words.Max)
	if audience := strings.TrimSpace(req.Audience); audience != "" {
		fmt.Fprintf(&b, "Target audience: %s.\n", audience)
	} else {
		b.WriteString("Target audience: a general audience.\n")
	}
	if len(req.Keywords) > 0 {
		fmt.Fprintf(&b, "Naturally include these keywords: %s.\n", strings.Join(req.Keywords, ", "))
	}
	if req.IncludeOutline {
		b.WriteString("Include an outline listing the section headings in order.\n")
	}
	if req.IncludeSEO {
		b.WriteString("Include an SEO title of at most 60 characters and an SEO description of at most 160 characters.\n")
	}
	b.WriteString("\n")
	b.WriteString(contentInstructions)

	return b.String()
}

func ideasPrompt(topic string, count int) string {
	return fmt.Sprintf("Suggest %d distinct content ideas about %q. "+
		"Each idea is one short sentence that could become an article. "+
		"Reply with a JSON array of %d strings and nothing else.", count, topic, count)
}

func titlesPrompt(topic string, count int) string {
	return fmt.Sprintf("Write %d title variations for an article about %q. "+
		"Keep every title between 40 and 70 characters. "+
		"Vary the style: include how-to, list and question framings. "+
		"Reply with a JSON array of %d strings and nothing else.", count, topic, count)
}

func improvePrompt(content string, improvements []string) string {
	var b strings.Builder
	b.WriteString("Rewrite the following HTML content, applying these improvements:\n")
	for _, improvement := range improvements {
		fmt.Fprintf(&b, "- %s\n", improvement)
	}
	b.WriteString("\nKeep the HTML structure valid and reply with the improved HTML only, without commentary or code fences.\n\n")
	b.WriteString(content)

	return b.String()
}
