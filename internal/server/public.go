package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (h *Handler) ListPublicContent(c *gin.Context) {
	filter, page, sort, ok := listQuery(c)
	if !ok {
		return
	}

	result, err := h.content.ListPublished(c.Request.Context(), c.Param("org"), filter, page, sort)
	if err != nil {
		abortWithError(c, err)
		return
	}
	if result == nil {
		abortNotFound(c, "organization")
		return
	}

	c.JSON(http.StatusOK, newListResponse(result, newPublicContentResponse))
}

func (h *Handler) GetPublicContent(c *gin.Context) {
	content, err := h.content.GetPublished(c.Request.Context(), c.Param("org"), c.Param("id"))
	if err != nil {
		abortWithError(c, err)
		return
	}
	if content == nil {
		abortNotFound(c, "content")
		return
	}

	c.JSON(http.StatusOK, newPublicContentResponse(content))
}
