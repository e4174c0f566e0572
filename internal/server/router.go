package server

import (
	"net/http"

	"github.com/emrgen/cms/internal/module"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const docsPath = "/v1/docs/"

// NewRouter wires every route. docs may be nil, in which case no documentation is served.
func NewRouter(h *Handler, docs http.FileSystem) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), RequestTime(), Metrics())

	r.GET("/health", h.Health)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	if docs != nil {
		r.GET(docsPath+"*filepath", gin.WrapH(http.StripPrefix(docsPath, http.FileServer(docs))))
	}

	api := r.Group("/api/v1")

	auth := api.Group("/auth")
	auth.POST("/register", h.Register)
	auth.POST("/login", h.Login)
	auth.GET("/me", module.Authenticate(h.tokens), h.Me)

	public := api.Group("/public/:org")
	public.GET("/content", h.ListPublicContent)
	public.GET("/content/:id", h.GetPublicContent)

	content := api.Group("/content", module.Authenticate(h.tokens))
	content.GET("", h.ListContent)
	content.POST("", h.CreateContent)
	content.GET("/stats", h.ContentStats)
	content.GET("/:id", h.GetContent)
	content.PUT("/:id", h.UpdateContent)
	content.DELETE("/:id", h.DeleteContent)
	content.POST("/:id/publish", h.PublishContent)
	content.POST("/:id/unpublish", h.UnpublishContent)
	content.GET("/:id/revisions", h.ListRevisions)
	content.GET("/:id/revisions/:version", h.GetRevision)
	content.POST("/:id/revisions/:version/restore", h.RestoreRevision)

	gen := api.Group("/ai", module.Authenticate(h.tokens))
	gen.GET("/status", h.AIStatus)
	gen.POST("/generate", h.Generate)
	gen.POST("/ideas", h.Ideas)
	gen.POST("/titles", h.Titles)
	gen.POST("/improve", h.Improve)

	return r
}
