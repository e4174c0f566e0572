package server

import (
	"net/http"
	"strconv"

	"github.com/emrgen/cms/internal/model"
	"github.com/gin-gonic/gin"
)

func (h *Handler) ListContent(c *gin.Context) {
	cl := claims(c)
	if cl == nil {
		return
	}
	filter, page, sort, ok := listQuery(c)
	if !ok {
		return
	}
	filter.OrganizationID = cl.OrganizationID

	result, err := h.content.List(c.Request.Context(), filter, page, sort)
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, newListResponse(result, newContentResponse))
}

func (h *Handler) CreateContent(c *gin.Context) {
	cl := claims(c)
	if cl == nil {
		return
	}

	var req contentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortBadRequest(c, "invalid request body")
		return
	}

	content, err := h.content.Create(c.Request.Context(), req.createParams(), cl.UserID(), cl.OrganizationID)
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, newContentResponse(content))
}

func (h *Handler) GetContent(c *gin.Context) {
	cl := claims(c)
	if cl == nil {
		return
	}

	content, err := h.content.Get(c.Request.Context(), c.Param("id"), cl.OrganizationID)
	h.respondContent(c, content, err)
}

func (h *Handler) UpdateContent(c *gin.Context) {
	cl := claims(c)
	if cl == nil {
		return
	}

	var req contentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortBadRequest(c, "invalid request body")
		return
	}

	content, err := h.content.Update(c.Request.Context(), c.Param("id"), req.updateParams(cl.UserID()), cl.OrganizationID)
	h.respondContent(c, content, err)
}

func (h *Handler) DeleteContent(c *gin.Context) {
	cl := claims(c)
	if cl == nil {
		return
	}

	deleted, err := h.content.Delete(c.Request.Context(), c.Param("id"), cl.OrganizationID)
	if err != nil {
		abortWithError(c, err)
		return
	}
	if !deleted {
		abortNotFound(c, "content")
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *Handler) PublishContent(c *gin.Context) {
	cl := claims(c)
	if cl == nil {
		return
	}

	content, err := h.content.Publish(c.Request.Context(), c.Param("id"), cl.OrganizationID)
	h.respondContent(c, content, err)
}

func (h *Handler) UnpublishContent(c *gin.Context) {
	cl := claims(c)
	if cl == nil {
		return
	}

	content, err := h.content.Unpublish(c.Request.Context(), c.Param("id"), cl.OrganizationID)
	h.respondContent(c, content, err)
}

func (h *Handler) ContentStats(c *gin.Context) {
	cl := claims(c)
	if cl == nil {
		return
	}

	stats, err := h.content.Stats(c.Request.Context(), cl.OrganizationID)
	if err != nil {
		abortWithError(c, err)
		return
	}

	recent := make([]contentResponse, 0, len(stats.Recent))
	for _, item := range stats.Recent {
		recent = append(recent, newContentResponse(item))
	}
	c.JSON(http.StatusOK, statsResponse{
		Total:     stats.Total,
		Published: stats.Published,
		Draft:     stats.Draft,
		Archived:  stats.Archived,
		Recent:    recent,
	})
}

func (h *Handler) ListRevisions(c *gin.Context) {
	cl := claims(c)
	if cl == nil {
		return
	}

	revisions, err := h.content.ListRevisions(c.Request.Context(), c.Param("id"), cl.OrganizationID)
	if err != nil {
		abortWithError(c, err)
		return
	}
	if revisions == nil {
		abortNotFound(c, "content")
		return
	}

	items := make([]revisionResponse, 0, len(revisions))
	for _, revision := range revisions {
		items = append(items, newRevisionResponse(revision))
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

func (h *Handler) GetRevision(c *gin.Context) {
	cl := claims(c)
	if cl == nil {
		return
	}
	version, ok := versionParam(c)
	if !ok {
		return
	}

	revision, err := h.content.GetRevision(c.Request.Context(), c.Param("id"), version, cl.OrganizationID)
	if err != nil {
		abortWithError(c, err)
		return
	}
	if revision == nil {
		abortNotFound(c, "revision")
		return
	}

	c.JSON(http.StatusOK, newRevisionResponse(revision))
}

func (h *Handler) RestoreRevision(c *gin.Context) {
	cl := claims(c)
	if cl == nil {
		return
	}
	version, ok := versionParam(c)
	if !ok {
		return
	}

	content, err := h.content.RestoreRevision(c.Request.Context(), c.Param("id"), version, cl.OrganizationID, cl.UserID())
	h.respondContent(c, content, err)
}

func (h *Handler) respondContent(c *gin.Context, content *model.Content, err error) {
	if err != nil {
		abortWithError(c, err)
		return
	}
	if content == nil {
		abortNotFound(c, "content")
		return
	}

	c.JSON(http.StatusOK, newContentResponse(content))
}

func versionParam(c *gin.Context) (int64, bool) {
	version, err := strconv.ParseInt(c.Param("version"), 10, 64)
	if err != nil || version < 0 {
		abortBadRequest(c, "version must be a non-negative number")
		return 0, false
	}
	return version, true
}
