package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/ostazy-app/ostazy-api/internal/models"
	"github.com/ostazy-app/ostazy-api/pkg/errors"
)

type fakeTutorService struct {
	detail *models.TutorDetail
	err    error
}

func (f *fakeTutorService) Get(_ context.Context, _ string) (*models.TutorDetail, error) {
	return f.detail, f.err
}

func tutorRouter(svc TutorService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/tutors/:id", NewTutorHandler(svc).Get)
	return router
}

func TestTutorGetReturnsDetail(t *testing.T) {
	svc := &fakeTutorService{detail: &models.TutorDetail{
		TutorCard: models.TutorCard{ID: "t1", FullName: "Ahmed"},
		Offerings: []models.OfferingView{{ID: "o1", SubjectName: "Math"}},
	}}
	router := tutorRouter(svc)

	req := httptest.NewRequest(http.MethodGet, "/tutors/t1", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Ahmed")
	assert.Contains(t, rec.Body.String(), "Math")
}

func TestTutorGetMissingIs404(t *testing.T) {
	svc := &fakeTutorService{err: errors.Clone(errors.ErrNotFound, "tutor not found")}
	router := tutorRouter(svc)

	req := httptest.NewRequest(http.MethodGet, "/tutors/nope", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "NOT_FOUND")
}
