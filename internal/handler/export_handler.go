package handler

import (
	"context"
	"path/filepath"

	"github.com/gin-gonic/gin"

	"github.com/amirhzq/unit-media-api/internal/dto"
	"github.com/amirhzq/unit-media-api/internal/models"
	appErrors "github.com/amirhzq/unit-media-api/pkg/errors"
	"github.com/amirhzq/unit-media-api/pkg/response"
)

type exportService interface {
	RenderSubmissions(ctx context.Context, actor *models.Session, format string) (*dto.ExportResult, error)
	ResolveDownload(token string) (string, error)
}

// ExportHandler renders submission exports and serves the resulting files
// through signed download tokens.
type ExportHandler struct {
	service exportService
}

// NewExportHandler constructs the handler.
func NewExportHandler(service exportService) *ExportHandler {
	return &ExportHandler{service: service}
}

// Render godoc
// @Summary Render the visible submissions as a CSV or PDF file
// @Tags Exports
// @Produce json
// @Param format query string false "csv or pdf" default(csv)
// @Success 201 {object} response.Envelope
// @Router /exports/submissions [post]
func (h *ExportHandler) Render(c *gin.Context) {
	actor := sessionFromContext(c)
	if actor == nil {
		response.Error(c, appErrors.ErrUnauthenticated)
		return
	}

	format := c.DefaultQuery("format", "csv")
	result, err := h.service.RenderSubmissions(c.Request.Context(), actor, format)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, result)
}

// Download godoc
// @Summary Download a rendered export by signed token
// @Tags Exports
// @Produce octet-stream
// @Param token query string true "Signed download token"
// @Success 200 {file} binary
// @Router /exports/download [get]
func (h *ExportHandler) Download(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		response.Error(c, appErrors.Clone(appErrors.ErrMissingInput, "token query parameter is required"))
		return
	}

	path, err := h.service.ResolveDownload(token)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.FileAttachment(path, filepath.Base(path))
}
