package repository

import (
	"context"
	"strconv"

	"github.com/noah-isme/siakad-cli/internal/models"
)

// EnrollmentRepository manages enrollments through the API.
type EnrollmentRepository struct {
	client apiClient
}

// NewEnrollmentRepository constructs an EnrollmentRepository.
func NewEnrollmentRepository(client apiClient) *EnrollmentRepository {
	return &EnrollmentRepository{client: client}
}

// List returns enrollments visible to the caller.
func (r *EnrollmentRepository) List(ctx context.Context) ([]models.Enrollment, error) {
	var enrollments []models.Enrollment
	if err := r.client.Get(ctx, "/api/enrollments", &enrollments); err != nil {
		return nil, err
	}
	return enrollments, nil
}

// Create enrolls a student into a course. Capacity is arbitrated server side.
func (r *EnrollmentRepository) Create(ctx context.Context, req models.CreateEnrollmentRequest) (*models.Enrollment, error) {
	var enrollment models.Enrollment
	if err := r.client.Post(ctx, "/api/enrollments", req, &enrollment); err != nil {
		return nil, err
	}
	return &enrollment, nil
}

// Delete cancels an enrollment.
func (r *EnrollmentRepository) Delete(ctx context.Context, id int64) error {
	return r.client.Delete(ctx, "/api/enrollments/"+strconv.FormatInt(id, 10), nil)
}
