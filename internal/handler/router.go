package handler

import (
	"github.com/gin-gonic/gin"
)

type RouterDeps struct {
	Ingest *IngestHandler
	Query  *QueryHandler
}

func RegisterRoutes(api *gin.RouterGroup, deps RouterDeps) {
	api.POST("/rag/documents", deps.Ingest.Upload)
	api.POST("/rag/query", deps.Query.Query)
	api.POST("/rag/search", deps.Query.Search)
	api.GET("/rag/stats", deps.Query.Stats)
}
