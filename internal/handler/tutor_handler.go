package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ostazy-app/ostazy-api/internal/models"
	"github.com/ostazy-app/ostazy-api/pkg/errors"
	"github.com/ostazy-app/ostazy-api/pkg/response"
)

// TutorService is the handler-facing slice of the tutor service.
type TutorService interface {
	Get(ctx context.Context, id string) (*models.TutorDetail, error)
}

// TutorHandler serves single-tutor reads.
type TutorHandler struct {
	tutors TutorService
}

// NewTutorHandler constructs a TutorHandler.
func NewTutorHandler(tutors TutorService) *TutorHandler {
	return &TutorHandler{tutors: tutors}
}

// Get godoc
// @Summary Tutor detail
// @Description Public profile for one active tutor including every active offering.
// @Tags tutors
// @Produce json
// @Param id path string true "Tutor ID"
// @Success 200 {object} response.Envelope{data=models.TutorDetail}
// @Failure 404 {object} response.Envelope
// @Router /tutors/{id} [get]
func (h *TutorHandler) Get(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.Error(c, errors.Clone(errors.ErrValidation, "tutor id required"))
		return
	}

	detail, err := h.tutors.Get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, detail, nil)
}
