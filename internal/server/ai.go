package server

import (
	"net/http"

	"github.com/emrgen/cms/internal/ai"
	"github.com/emrgen/cms/internal/model"
	"github.com/gin-gonic/gin"
)

func (h *Handler) AIStatus(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"enabled": h.ai.Available()})
}

func (h *Handler) Generate(c *gin.Context) {
	var req ai.GenerationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortBadRequest(c, "invalid request body")
		return
	}
	if req.Type != "" {
		req.Type = model.ParseContentType(string(req.Type))
	}

	result, err := h.ai.GenerateWithQualityGate(c.Request.Context(), req)
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": result.Response,
		"metadata": generationMetadata{
			QualityScore:        result.QualityScore,
			ResearchSourceCount: result.ResearchSourceCount,
			Regenerated:         result.Regenerated,
		},
	})
}

func (h *Handler) Ideas(c *gin.Context) {
	var req listRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortBadRequest(c, "invalid request body")
		return
	}

	ideas, err := h.ai.GenerateIdeas(c.Request.Context(), req.Topic, req.Count)
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"ideas": ideas})
}

func (h *Handler) Titles(c *gin.Context) {
	var req listRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortBadRequest(c, "invalid request body")
		return
	}

	titles, err := h.ai.GenerateTitles(c.Request.Context(), req.Topic, req.Count)
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"titles": titles})
}

func (h *Handler) Improve(c *gin.Context) {
	var req improveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortBadRequest(c, "invalid request body")
		return
	}

	improvements := req.Improvements
	if len(improvements) == 0 {
		improvements = ai.DefaultImprovements
	}

	improved, err := h.ai.ImproveContent(c.Request.Context(), req.Content, improvements)
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, improveResponse{
		OriginalContent: req.Content,
		ImprovedContent: improved,
		Improvements:    improvements,
	})
}
