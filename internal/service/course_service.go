package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/noah-isme/siakad-cli/internal/models"
	appErrors "github.com/noah-isme/siakad-cli/pkg/errors"
)

type courseRepository interface {
	List(ctx context.Context) ([]models.Course, error)
}

// CourseService reads the course catalog.
type CourseService struct {
	repo   courseRepository
	logger *zap.Logger
}

// NewCourseService constructs a CourseService.
func NewCourseService(repo courseRepository, logger *zap.Logger) *CourseService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CourseService{repo: repo, logger: logger}
}

// List returns the catalog.
func (s *CourseService) List(ctx context.Context) ([]models.Course, error) {
	courses, err := s.repo.List(ctx)
	if err != nil {
		return nil, appErrors.OrFallback(err, "failed to load courses")
	}
	return courses, nil
}

// FilterCourses matches course code or name.
func FilterCourses(courses []models.Course, query string) []models.Course {
	return Filter(courses, query, func(c models.Course) []string {
		return []string{c.CourseCode, c.CourseName}
	})
}
