package ai

import (
	"strings"

	"github.com/emrgen/cms/internal/model"
)

type Tone string

const (
	ToneProfessional   Tone = "professional"
	ToneCasual         Tone = "casual"
	ToneFriendly       Tone = "friendly"
	ToneAuthoritative  Tone = "authoritative"
	ToneConversational Tone = "conversational"
	ToneTechnical      Tone = "technical"
)

var tonePhrases = map[Tone]string{
	ToneProfessional:   "professional and informative",
	ToneCasual:         "casual and relaxed",
	ToneFriendly:       "warm and friendly",
	ToneAuthoritative:  "authoritative and expert, backed by concrete detail",
	ToneConversational: "conversational, addressing the reader directly",
	ToneTechnical:      "precise and technical",
}

// Phrase describes the tone for the prompt. Unknown tones read as professional.
func (t Tone) Phrase() string {
	if phrase, ok := tonePhrases[t]; ok {
		return phrase
	}
	return tonePhrases[ToneProfessional]
}

type Length string

const (
	LengthShort  Length = "short"
	LengthMedium Length = "medium"
	LengthLong   Length = "long"
)

// WordRange is an inclusive target word count.
type WordRange struct {
	Min int
	Max int
}

func (r WordRange) Contains(words int) bool {
	return words >= r.Min && words <= r.Max
}

// Range returns the target word count. Unknown lengths read as medium.
func (l Length) Range() WordRange {
	switch l {
	case LengthShort:
		return WordRange{Min: 300, Max: 500}
	case LengthLong:
		return WordRange{Min: 1500, Max: 2500}
	default:
		return WordRange{Min: 800, Max: 1200}
	}
}

type GenerationRequest struct {
	Type           model.ContentType `json:"type"`
	Topic          string            `json:"topic"`
	Tone           Tone              `json:"tone,omitempty"`
	Length         Length            `json:"length,omitempty"`
	Audience       string            `json:"audience,omitempty"`
	Keywords       []string          `json:"keywords,omitempty"`
	IncludeOutline bool              `json:"includeOutline"`
	IncludeSEO     bool              `json:"includeSEO"`
}

// withDefaults fills the optional fields and validates the topic.
func (r GenerationRequest) withDefaults() (GenerationRequest, error) {
	r.Topic = strings.TrimSpace(r.Topic)
	if r.Topic == "" {
		return r, invalidRequest("topic is required")
	}
	if r.Type == "" {
		r.Type = model.ContentTypeArticle
	}
	if r.Tone == "" {
		r.Tone = ToneProfessional
	}
	if r.Length == "" {
		r.Length = LengthMedium
	}
	return r, nil
}

type GenerationResponse struct {
	Title          string   `json:"title"`
	Content        string   `json:"content"`
	Excerpt        string   `json:"excerpt"`
	SEOTitle       string   `json:"seoTitle,omitempty"`
	SEODescription string   `json:"seoDescription,omitempty"`
	SuggestedTags  []string `json:"suggestedTags"`
	Outline        []string `json:"outline,omitempty"`
	WordCount      int      `json:"wordCount"`
	ReadingTime    int      `json:"readingTime"`
}

// finalize derives the counters from the content, discarding any estimate the model made.
func (r *GenerationResponse) finalize() {
	if r.SuggestedTags == nil {
		r.SuggestedTags = []string{}
	}
	r.WordCount = CountWords(r.Content)
	r.ReadingTime = ReadingTime(r.WordCount)
}
