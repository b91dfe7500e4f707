package service

import (
	"context"
	"strconv"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/siakad-cli/internal/models"
	appErrors "github.com/noah-isme/siakad-cli/pkg/errors"
)

type studentRepository interface {
	List(ctx context.Context) ([]models.Student, error)
	Create(ctx context.Context, req models.CreateStudentRequest) (*models.Student, error)
	Delete(ctx context.Context, nim string) error
}

// StudentService handles student use-cases.
type StudentService struct {
	repo      studentRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewStudentService constructs the student service.
func NewStudentService(repo studentRepository, validate *validator.Validate, logger *zap.Logger) *StudentService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StudentService{repo: repo, validator: validate, logger: logger}
}

// Create validates and submits a new student record.
func (s *StudentService) Create(ctx context.Context, req models.CreateStudentRequest) (*models.Student, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid student payload")
	}
	student, err := s.repo.Create(ctx, req)
	if err != nil {
		return nil, appErrors.OrFallback(err, "failed to add student")
	}
	s.logger.Info("student created", zap.String("nim", req.NIM))
	return student, nil
}

// Page starts a fresh student list page.
func (s *StudentService) Page() *StudentPage {
	return &StudentPage{svc: s}
}

// StudentPage holds the students fetched during one page lifetime.
type StudentPage struct {
	svc      *StudentService
	students []models.Student
}

// Load fetches the list. On failure the page stays empty.
func (p *StudentPage) Load(ctx context.Context) error {
	students, err := p.svc.repo.List(ctx)
	if err != nil {
		p.students = nil
		return appErrors.OrFallback(err, "failed to load students")
	}
	p.students = students
	return nil
}

// Students returns the page data.
func (p *StudentPage) Students() []models.Student {
	return p.students
}

// Filter matches name, NIM or major.
func (p *StudentPage) Filter(query string) []models.Student {
	return Filter(p.students, query, func(s models.Student) []string {
		return []string{s.Name, s.NIM, s.Major}
	})
}

// Delete removes the student after confirmation and drops it from the page.
// A declined confirmation reports false without contacting the server.
func (p *StudentPage) Delete(ctx context.Context, nim string, c Confirmer) (bool, error) {
	if nim == "" {
		return false, appErrors.Clone(appErrors.ErrValidation, "nim is required")
	}
	ok, err := confirm(ctx, c, "Delete student "+strconv.Quote(nim)+"?")
	if err != nil || !ok {
		return false, err
	}
	if err := p.svc.repo.Delete(ctx, nim); err != nil {
		return false, appErrors.OrFallback(err, "failed to delete student")
	}
	p.students = splice(p.students, func(s models.Student) bool { return s.NIM == nim })
	p.svc.logger.Info("student deleted", zap.String("nim", nim))
	return true, nil
}

func splice[T any](items []T, match func(T) bool) []T {
	out := make([]T, 0, len(items))
	for _, item := range items {
		if !match(item) {
			out = append(out, item)
		}
	}
	return out
}
