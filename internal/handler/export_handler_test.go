package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/ostazy-app/ostazy-api/internal/models"
	"github.com/ostazy-app/ostazy-api/internal/service"
	"github.com/ostazy-app/ostazy-api/pkg/errors"
)

type fakeExportService struct {
	format  string
	payload []byte
	job     *service.ExportJob
	status  *service.ExportStatus
	err     error
}

func (f *fakeExportService) Render(_ context.Context, _ models.FilterCriteria, format string) ([]byte, string, string, error) {
	f.format = format
	if f.err != nil {
		return nil, "", "", f.err
	}
	return f.payload, "text/csv", "tutors.csv", nil
}

func (f *fakeExportService) Enqueue(_ models.FilterCriteria, format, _ string) (*service.ExportJob, error) {
	f.format = format
	return f.job, f.err
}

func (f *fakeExportService) Status(_, _ string) (*service.ExportStatus, error) {
	return f.status, f.err
}

func (f *fakeExportService) Open(_ string) (*os.File, string, string, error) {
	return nil, "", "", f.err
}

func exportRouter(svc *fakeExportService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	handler := NewExportHandler(svc)
	router.GET("/tutors/export", fakeAuth("admin-1"), handler.Export)
	router.POST("/tutors/export", fakeAuth("admin-1"), handler.EnqueueExport)
	router.GET("/exports/:id", fakeAuth("admin-1"), handler.ExportStatus)
	router.GET("/exports/download", handler.Download)
	return router
}

func TestExportStreamsCSV(t *testing.T) {
	svc := &fakeExportService{payload: []byte("Name\nAhmed\n")}
	router := exportRouter(svc)

	req := httptest.NewRequest(http.MethodGet, "/tutors/export?format=csv", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "csv", svc.format)
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "tutors.csv")
	assert.Contains(t, rec.Body.String(), "Ahmed")
}

func TestExportDefaultsToCSV(t *testing.T) {
	svc := &fakeExportService{payload: []byte("Name\n")}
	router := exportRouter(svc)

	req := httptest.NewRequest(http.MethodGet, "/tutors/export", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "csv", svc.format)
}

func TestExportForbiddenWhenDisabled(t *testing.T) {
	svc := &fakeExportService{err: errors.Clone(errors.ErrForbidden, "exports are disabled")}
	router := exportRouter(svc)

	req := httptest.NewRequest(http.MethodGet, "/tutors/export", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestEnqueueExportReturnsAccepted(t *testing.T) {
	svc := &fakeExportService{job: &service.ExportJob{ID: "job-1", Status: service.ExportStatusQueued}}
	router := exportRouter(svc)

	req := httptest.NewRequest(http.MethodPost, "/tutors/export?format=pdf", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusAccepted, rec.Code)
	assert.Equal(t, "pdf", svc.format)
	assert.Contains(t, rec.Body.String(), "job-1")
}

func TestExportStatusReturnsToken(t *testing.T) {
	svc := &fakeExportService{status: &service.ExportStatus{
		ExportJob:     service.ExportJob{ID: "job-1", Status: service.ExportStatusCompleted},
		DownloadToken: "signed-token",
	}}
	router := exportRouter(svc)

	req := httptest.NewRequest(http.MethodGet, "/exports/job-1", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "signed-token")
}

func TestDownloadRequiresToken(t *testing.T) {
	router := exportRouter(&fakeExportService{})

	req := httptest.NewRequest(http.MethodGet, "/exports/download", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDownloadRejectsBadToken(t *testing.T) {
	svc := &fakeExportService{err: errors.Clone(errors.ErrUnauthorized, "invalid download token")}
	router := exportRouter(svc)

	req := httptest.NewRequest(http.MethodGet, "/exports/download?token=bogus", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
