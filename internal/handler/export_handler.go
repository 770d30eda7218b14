package handler

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"

	"github.com/gin-gonic/gin"

	"github.com/ostazy-app/ostazy-api/internal/middleware"
	"github.com/ostazy-app/ostazy-api/internal/models"
	"github.com/ostazy-app/ostazy-api/internal/service"
	"github.com/ostazy-app/ostazy-api/pkg/errors"
	"github.com/ostazy-app/ostazy-api/pkg/response"
)

// ExportService is the handler-facing slice of the export service.
type ExportService interface {
	Render(ctx context.Context, criteria models.FilterCriteria, format string) ([]byte, string, string, error)
	Enqueue(criteria models.FilterCriteria, format, requestedBy string) (*service.ExportJob, error)
	Status(jobID, requestedBy string) (*service.ExportStatus, error)
	Open(token string) (*os.File, string, string, error)
}

// ExportHandler serves listing exports, sync and async.
type ExportHandler struct {
	exports ExportService
}

// NewExportHandler constructs an ExportHandler.
func NewExportHandler(exports ExportService) *ExportHandler {
	return &ExportHandler{exports: exports}
}

// Export godoc
// @Summary Export tutor listing
// @Description Renders the filtered listing as CSV or PDF and streams it back.
// @Tags exports
// @Produce text/csv,application/pdf
// @Security BearerAuth
// @Param format query string true "csv or pdf"
// @Success 200 {file} file
// @Failure 400 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /tutors/export [get]
func (h *ExportHandler) Export(c *gin.Context) {
	criteria := parseCriteria(c)
	format := c.DefaultQuery("format", service.FormatCSV)

	payload, contentType, filename, err := h.exports.Render(c.Request.Context(), criteria, format)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, contentType, payload)
}

// EnqueueExport godoc
// @Summary Enqueue an export job
// @Description Schedules an async listing export; poll the returned job id for the download token.
// @Tags exports
// @Produce json
// @Security BearerAuth
// @Param format query string true "csv or pdf"
// @Success 202 {object} response.Envelope{data=service.ExportJob}
// @Failure 400 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /tutors/export [post]
func (h *ExportHandler) EnqueueExport(c *gin.Context) {
	claims, ok := middleware.CurrentUser(c)
	if !ok {
		response.Error(c, errors.ErrUnauthorized)
		return
	}

	job, err := h.exports.Enqueue(parseCriteria(c), c.DefaultQuery("format", service.FormatCSV), claims.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusAccepted, job, nil)
}

// ExportStatus godoc
// @Summary Export job status
// @Description Job status for an async export; completed jobs carry a signed download token.
// @Tags exports
// @Produce json
// @Security BearerAuth
// @Param id path string true "Export job ID"
// @Success 200 {object} response.Envelope{data=service.ExportStatus}
// @Failure 403 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /exports/{id} [get]
func (h *ExportHandler) ExportStatus(c *gin.Context) {
	claims, ok := middleware.CurrentUser(c)
	if !ok {
		response.Error(c, errors.ErrUnauthorized)
		return
	}

	status, err := h.exports.Status(c.Param("id"), claims.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, status, nil)
}

// Download godoc
// @Summary Download a finished export
// @Description Streams a rendered export after validating the signed token.
// @Tags exports
// @Produce text/csv,application/pdf
// @Param token query string true "Signed download token"
// @Success 200 {file} file
// @Failure 401 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /exports/download [get]
func (h *ExportHandler) Download(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		response.Error(c, errors.Clone(errors.ErrValidation, "token required"))
		return
	}

	file, contentType, relPath, err := h.exports.Open(token)
	if err != nil {
		response.Error(c, err)
		return
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		response.Error(c, errors.Wrap(err, errors.ErrInternal.Code, errors.ErrInternal.Status, "stat export file"))
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filepath.Base(relPath)))
	c.DataFromReader(http.StatusOK, info.Size(), contentType, file, nil)
}
