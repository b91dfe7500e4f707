package service

import (
	"context"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/siakad-cli/internal/models"
	appErrors "github.com/noah-isme/siakad-cli/pkg/errors"
)

type enrollmentRepository interface {
	List(ctx context.Context) ([]models.Enrollment, error)
	Create(ctx context.Context, req models.CreateEnrollmentRequest) (*models.Enrollment, error)
	Delete(ctx context.Context, id int64) error
}

// EnrollmentService manages enrollments. Capacity is decided by the server.
type EnrollmentService struct {
	repo      enrollmentRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewEnrollmentService constructs an EnrollmentService.
func NewEnrollmentService(repo enrollmentRepository, validate *validator.Validate, logger *zap.Logger) *EnrollmentService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EnrollmentService{repo: repo, validator: validate, logger: logger}
}

// Create enrolls a student. An empty academic year takes the default.
func (s *EnrollmentService) Create(ctx context.Context, req models.CreateEnrollmentRequest) (*models.Enrollment, error) {
	if strings.TrimSpace(req.AcademicYear) == "" {
		req.AcademicYear = models.DefaultAcademicYear
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid enrollment payload")
	}
	enrollment, err := s.repo.Create(ctx, req)
	if err != nil {
		return nil, appErrors.OrFallback(err, "failed to enroll")
	}
	s.logger.Info("enrollment created", zap.String("nim", req.NIM), zap.Int64("course_id", req.CourseID))
	return enrollment, nil
}

// Page starts a fresh enrollment list page.
func (s *EnrollmentService) Page() *EnrollmentPage {
	return &EnrollmentPage{svc: s}
}

// EnrollmentPage holds enrollments fetched during one page lifetime.
type EnrollmentPage struct {
	svc         *EnrollmentService
	enrollments []models.Enrollment
}

// Load fetches the list. On failure the page stays empty.
func (p *EnrollmentPage) Load(ctx context.Context) error {
	enrollments, err := p.svc.repo.List(ctx)
	if err != nil {
		p.enrollments = nil
		return appErrors.OrFallback(err, "failed to load enrollments")
	}
	p.enrollments = enrollments
	return nil
}

// Enrollments returns the page data.
func (p *EnrollmentPage) Enrollments() []models.Enrollment {
	return p.enrollments
}

// Filter matches NIM, course code or name, semester, year and status.
func (p *EnrollmentPage) Filter(query string) []models.Enrollment {
	return Filter(p.enrollments, query, func(e models.Enrollment) []string {
		fields := []string{e.NIM, e.Semester, e.AcademicYear, string(e.Status)}
		if e.Course != nil {
			fields = append(fields, e.Course.CourseCode, e.Course.CourseName)
		}
		return fields
	})
}

// Cancel deletes the enrollment after confirmation and drops it from the page.
func (p *EnrollmentPage) Cancel(ctx context.Context, id int64, c Confirmer) (bool, error) {
	if id <= 0 {
		return false, appErrors.Clone(appErrors.ErrValidation, "enrollment id is required")
	}
	ok, err := confirm(ctx, c, "Cancel enrollment #"+strconv.FormatInt(id, 10)+"?")
	if err != nil || !ok {
		return false, err
	}
	if err := p.svc.repo.Delete(ctx, id); err != nil {
		return false, appErrors.OrFallback(err, "failed to cancel enrollment")
	}
	p.enrollments = splice(p.enrollments, func(e models.Enrollment) bool { return e.ID == id })
	p.svc.logger.Info("enrollment cancelled", zap.Int64("id", id))
	return true, nil
}
