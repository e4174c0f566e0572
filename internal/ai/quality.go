package ai

import (
	"context"
	"strings"

	"github.com/sirupsen/logrus"
)

// QualityThreshold is the score below which a draft is regenerated once.
const QualityThreshold = 60

// GenerationResult is a draft along with how it scored.
type GenerationResult struct {
	Response            *GenerationResponse
	QualityScore        int
	ResearchSourceCount int
	Regenerated         bool
}

// Score rates a draft from 0 to 100 against what was requested.
func Score(req GenerationRequest, resp *GenerationResponse) int {
	if resp == nil {
		return 0
	}

	score := 0
	if req.Length.Range().Contains(resp.WordCount) {
		score += 40
	}
	if strings.Contains(strings.ToLower(resp.Content), "<h2") {
		score += 20
	}
	if strings.TrimSpace(resp.Excerpt) != "" {
		score += 10
	}
	if len(resp.SuggestedTags) >= 3 {
		score += 10
	}
	if !req.IncludeSEO || (resp.SEOTitle != "" && resp.SEODescription != "") {
		score += 10
	}
	if !req.IncludeOutline || len(resp.Outline) > 0 {
		score += 10
	}
	return score
}

// GenerateWithQualityGate generates a draft and, when it scores below QualityThreshold,
// regenerates it once with an authoritative tone. A failed second attempt keeps the first draft.
func (g *Gateway) GenerateWithQualityGate(ctx context.Context, req GenerationRequest) (*GenerationResult, error) {
	resp, err := g.GenerateContent(ctx, req)
	if err != nil {
		return nil, err
	}

	defaulted, _ := req.withDefaults()
	result := &GenerationResult{Response: resp, QualityScore: Score(defaulted, resp)}
	if result.QualityScore >= QualityThreshold || defaulted.Tone == ToneAuthoritative {
		return result, nil
	}

	retry := defaulted
	retry.Tone = ToneAuthoritative
	second, err := g.GenerateContent(ctx, retry)
	if err != nil {
		logrus.Warnf("ai regenerate %q: %v", req.Topic, err)
		return result, nil
	}

	result.Response = second
	result.QualityScore = Score(retry, second)
	result.Regenerated = true
	return result, nil
}
