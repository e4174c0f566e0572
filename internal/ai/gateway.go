package ai

import (
	"context"
	"strings"

	"github.com/sirupsen/logrus"
)

const (
	DefaultCount = 5
	MaxCount     = 20

	defaultMaxTokens = 4096
	listMaxTokens    = 1024
)

// Model is a hosted text model answering a single prompt.
type Model interface {
	Complete(ctx context.Context, system, prompt string, maxTokens int64) (string, error)
}

// NewGateway creates a gateway over model. A nil model yields a gateway whose operations
// all return ErrDisabled.
func NewGateway(model Model, maxTokens int64) *Gateway {
	if maxTokens <= 0 {
		maxTokens = defaultMaxTokens
	}
	return &Gateway{
		model:     model,
		maxTokens: maxTokens,
	}
}

// Gateway turns structured generation requests into prompts and model replies into drafts.
type Gateway struct {
	model     Model
	maxTokens int64
}

// Available reports whether a model credential is configured.
func (g *Gateway) Available() bool {
	return g != nil && g.model != nil
}

// GenerateContent drafts a content item. A reply that cannot be decoded is turned into a
// fallback draft; only a failed model call is an error.
func (g *Gateway) GenerateContent(ctx context.Context, req GenerationRequest) (*GenerationResponse, error) {
	const op = "generate"
	if !g.Available() {
		observe(op, outcomeDisabled)
		return nil, ErrDisabled
	}

	req, err := req.withDefaults()
	if err != nil {
		return nil, err
	}

	raw, err := g.model.Complete(ctx, systemPrompt, contentPrompt(req), g.maxTokens)
	if err != nil {
		observe(op, outcomeError)
		logrus.Errorf("ai generate %q: %v", req.Topic, err)
		return nil, upstream(op, err)
	}

	var resp GenerationResponse
	if err := decodeModelJSON(raw, &resp); err != nil || strings.TrimSpace(resp.Content) == "" {
		observe(op, outcomeFallback)
		logrus.Warnf("ai generate %q: undecodable reply, using fallback: %v", req.Topic, err)
		return fallbackResponse(req, raw), nil
	}
	if strings.TrimSpace(resp.Title) == "" {
		resp.Title = fallbackResponse(req, "").Title
	}
	resp.finalize()

	observe(op, outcomeOK)
	return &resp, nil
}

// GenerateIdeas suggests count content ideas. Model failures degrade to a fixed list.
func (g *Gateway) GenerateIdeas(ctx context.Context, topic string, count int) ([]string, error) {
	return g.generateList(ctx, "ideas", topic, count, ideasPrompt, fallbackIdeas)
}

// GenerateTitles suggests count title variations. Model failures degrade to a fixed list.
func (g *Gateway) GenerateTitles(ctx context.Context, topic string, count int) ([]string, error) {
	return g.generateList(ctx, "titles", topic, count, titlesPrompt, fallbackTitles)
}

func (g *Gateway) generateList(ctx context.Context, op, topic string, count int, prompt func(string, int) string, fallback func(string) []string) ([]string, error) {
	if !g.Available() {
		observe(op, outcomeDisabled)
		return nil, ErrDisabled
	}

	topic = strings.TrimSpace(topic)
	if topic == "" {
		return nil, invalidRequest("topic is required")
	}
	count = clampCount(count)

	raw, err := g.model.Complete(ctx, systemPrompt, prompt(topic, count), listMaxTokens)
	if err != nil {
		observe(op, outcomeFallback)
		logrus.Warnf("ai %s %q: model call failed, using fallback: %v", op, topic, err)
		return fallback(topic), nil
	}

	items, err := decodeList(raw, op)
	if err != nil || len(items) == 0 {
		observe(op, outcomeFallback)
		logrus.Warnf("ai %s %q: undecodable reply, using fallback: %v", op, topic, err)
		return fallback(topic), nil
	}
	if len(items) > count {
		items = items[:count]
	}

	observe(op, outcomeOK)
	return items, nil
}

// ImproveContent rewrites content according to the improvements. Unlike the other
// operations it has no fallback: returning the input unchanged would hide the failure.
func (g *Gateway) ImproveContent(ctx context.Context, content string, improvements []string) (string, error) {
	const op = "improve"
	if !g.Available() {
		observe(op, outcomeDisabled)
		return "", ErrDisabled
	}
	if strings.TrimSpace(content) == "" {
		return "", invalidRequest("content is required")
	}
	if len(improvements) == 0 {
		improvements = DefaultImprovements
	}

	raw, err := g.model.Complete(ctx, systemPrompt, improvePrompt(content, improvements), g.maxTokens)
	if err != nil {
		observe(op, outcomeError)
		logrus.Errorf("ai improve: %v", err)
		return "", upstream(op, err)
	}

	improved := strings.TrimSpace(stripCodeFence(raw))
	if improved == "" {
		observe(op, outcomeError)
		return "", &GenerationError{Kind: KindUpstream, Op: op, Err: errEmptyReply}
	}

	observe(op, outcomeOK)
	return improved, nil
}

// DefaultImprovements is applied when the caller does not name any.
var DefaultImprovements = []string{
	"improve clarity and readability",
	"tighten wording and remove repetition",
	"strengthen the introduction and conclusion",
}

// decodeList accepts either a bare JSON array or an object holding the array under key.
func decodeList(raw, key string) ([]string, error) {
	var items []string
	if err := decodeModelJSON(raw, &items); err == nil {
		return cleanList(items), nil
	}

	var wrapped map[string][]string
	if err := decodeModelJSON(raw, &wrapped); err != nil {
		return nil, err
	}
	return cleanList(wrapped[key]), nil
}

func cleanList(items []string) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

func clampCount(count int) int {
	switch {
	case count <= 0:
		return DefaultCount
	case count > MaxCount:
		return MaxCount
	}
	return count
}
