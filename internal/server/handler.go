package server

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/emrgen/cms/internal/ai"
	"github.com/emrgen/cms/internal/model"
	"github.com/emrgen/cms/internal/module"
	"github.com/emrgen/cms/internal/service"
	"github.com/emrgen/cms/internal/token"
	"github.com/gin-gonic/gin"
)

// Handler serves the HTTP API on top of the services.
type Handler struct {
	content *service.ContentService
	auth    *service.AuthService
	ai      *ai.Gateway
	tokens  *token.Manager
}

func NewHandler(content *service.ContentService, auth *service.AuthService, gateway *ai.Gateway, tokens *token.Manager) *Handler {
	return &Handler{
		content: content,
		auth:    auth,
		ai:      gateway,
		tokens:  tokens,
	}
}

func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"ai":     gin.H{"enabled": h.ai.Available()},
	})
}

// claims returns the caller's identity. Routes using it sit behind module.Authenticate.
func claims(c *gin.Context) *token.Claims {
	cl, ok := module.ClaimsFrom(c)
	if !ok {
		abortWithError(c, service.ErrUnauthorized)
		return nil
	}
	return cl
}

// listQuery reads the filter, pagination and sort query parameters shared by the private
// and public listings.
func listQuery(c *gin.Context) (service.ListFilter, service.Page, service.Sort, bool) {
	var filter service.ListFilter
	var page service.Page
	var sort service.Sort

	if status := c.Query("status"); status != "" {
		filter.Status = model.ContentStatus(strings.ToUpper(strings.TrimSpace(status)))
	}
	if t := c.Query("type"); t != "" {
		filter.Type = model.ParseContentType(t)
		if !knownType(filter.Type) {
			abortBadRequest(c, "unknown type "+t)
			return filter, page, sort, false
		}
	}
	filter.Search = c.Query("search")
	filter.AuthorID = c.Query("author")

	var err error
	if raw := c.Query("page"); raw != "" {
		if page.Page, err = strconv.Atoi(raw); err != nil {
			abortBadRequest(c, "page must be a number")
			return filter, page, sort, false
		}
	}
	if raw := c.Query("limit"); raw != "" {
		if page.Limit, err = strconv.Atoi(raw); err != nil {
			abortBadRequest(c, "limit must be a number")
			return filter, page, sort, false
		}
	}

	sort.Field = c.Query("sort")
	switch strings.ToLower(c.DefaultQuery("order", "desc")) {
	case "desc":
		sort.Descending = true
	case "asc":
		sort.Descending = false
	default:
		abortBadRequest(c, "order must be asc or desc")
		return filter, page, sort, false
	}

	return filter, page, sort, true
}

func knownType(t model.ContentType) bool {
	for _, known := range model.ContentTypes() {
		if t == known {
			return true
		}
	}
	return false
}
