package handler

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/xxxsen/ragdoc/internal/ai"
	"github.com/xxxsen/ragdoc/internal/pkg/errcode"
	appErr "github.com/xxxsen/ragdoc/internal/pkg/errors"
	"github.com/xxxsen/ragdoc/internal/pkg/response"
)

// handleError maps service errors to response codes. Embedding and
// generation failures keep their causing message so the caller can see what
// actually broke.
func handleError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	logutil.GetLogger(c.Request.Context()).Error("request failed",
		zap.String("method", c.Request.Method),
		zap.String("path", c.Request.URL.Path),
		zap.Error(err),
	)
	switch {
	case errors.Is(err, appErr.ErrEmptyInput):
		response.Error(c, errcode.ErrEmptyInput, err.Error())
	case errors.Is(err, appErr.ErrInvalid):
		response.Error(c, errcode.ErrInvalid, err.Error())
	case errors.Is(err, appErr.ErrExtraction):
		response.Error(c, errcode.ErrExtractionFailed, err.Error())
	case errors.Is(err, appErr.ErrEmbedding):
		response.Error(c, errcode.ErrEmbeddingFailed, err.Error())
	case errors.Is(err, appErr.ErrGeneration):
		response.Error(c, errcode.ErrGenerationFailed, err.Error())
	case errors.Is(err, appErr.ErrNotFound):
		response.Error(c, errcode.ErrNotFound, "not found")
	case errors.Is(err, ai.ErrUnavailable):
		response.Error(c, errcode.ErrAIUnavailable, "ai not configured")
	default:
		response.Error(c, errcode.ErrInternal, "internal error")
	}
}
