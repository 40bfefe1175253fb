package handler

import (
	"io"
	"mime/multipart"

	"github.com/gin-gonic/gin"
	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/xxxsen/ragdoc/internal/pkg/errcode"
	"github.com/xxxsen/ragdoc/internal/pkg/response"
	"github.com/xxxsen/ragdoc/internal/service"
)

type IngestHandler struct {
	ingest        *service.IngestService
	maxUploadSize int64
}

func NewIngestHandler(ingest *service.IngestService, maxUploadSize int64) *IngestHandler {
	return &IngestHandler{ingest: ingest, maxUploadSize: maxUploadSize}
}

// Upload accepts one or more documents in the multipart field "files"
// (single-file clients may use "file") and runs the ingestion pipeline.
func (h *IngestHandler) Upload(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil {
		response.Error(c, errcode.ErrInvalidFile, "multipart form required")
		return
	}
	headers := form.File["files"]
	if len(headers) == 0 {
		headers = form.File["file"]
	}
	if len(headers) == 0 {
		response.Error(c, errcode.ErrEmptyInput, "no documents supplied")
		return
	}
	files := make([]service.IngestFile, 0, len(headers))
	for _, header := range headers {
		if h.maxUploadSize > 0 && header.Size > h.maxUploadSize {
			response.Error(c, errcode.ErrInvalidFile, "file too large: "+header.Filename)
			return
		}
		data, err := readMultipartFile(header)
		if err != nil {
			logutil.GetLogger(c.Request.Context()).Error("failed to read upload", zap.String("filename", header.Filename), zap.Error(err))
			response.Error(c, errcode.ErrUploadFailed, "failed to read file: "+header.Filename)
			return
		}
		files = append(files, service.IngestFile{Name: header.Filename, Data: data})
	}
	result, err := h.ingest.Ingest(c.Request.Context(), files)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, result)
}

func readMultipartFile(header *multipart.FileHeader) ([]byte, error) {
	file, err := header.Open()
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return io.ReadAll(file)
}
