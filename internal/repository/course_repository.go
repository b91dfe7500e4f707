package repository

import (
	"context"

	"github.com/noah-isme/siakad-cli/internal/models"
)

// CourseRepository reads the course catalog.
type CourseRepository struct {
	client apiClient
}

// NewCourseRepository constructs a CourseRepository.
func NewCourseRepository(client apiClient) *CourseRepository {
	return &CourseRepository{client: client}
}

// List returns the catalog.
func (r *CourseRepository) List(ctx context.Context) ([]models.Course, error) {
	var courses []models.Course
	if err := r.client.Get(ctx, "/api/courses", &courses); err != nil {
		return nil, err
	}
	return courses, nil
}
