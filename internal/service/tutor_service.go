package service

import (
	"context"
	"database/sql"
	stderrors "errors"

	"github.com/ostazy-app/ostazy-api/internal/models"
	"github.com/ostazy-app/ostazy-api/pkg/errors"
)

// TutorReader loads a single tutor profile.
type TutorReader interface {
	FindByID(ctx context.Context, id string) (*models.TutorWithOfferings, error)
}

// TutorService serves single-tutor reads.
type TutorService struct {
	tutors TutorReader
}

// NewTutorService constructs a TutorService.
func NewTutorService(tutors TutorReader) *TutorService {
	return &TutorService{tutors: tutors}
}

// Get returns the public detail view for one active tutor.
func (s *TutorService) Get(ctx context.Context, id string) (*models.TutorDetail, error) {
	tutor, err := s.tutors.FindByID(ctx, id)
	if err != nil {
		if stderrors.Is(err, sql.ErrNoRows) {
			return nil, errors.Clone(errors.ErrNotFound, "tutor not found")
		}
		return nil, errors.Wrap(err, errors.ErrServiceUnavailable.Code,
			errors.ErrServiceUnavailable.Status, "tutor store unavailable")
	}

	detail := tutor.Detail()
	return &detail, nil
}
