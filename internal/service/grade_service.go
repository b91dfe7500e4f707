package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/noah-isme/siakad-cli/internal/models"
	appErrors "github.com/noah-isme/siakad-cli/pkg/errors"
)

type gradeRepository interface {
	List(ctx context.Context) ([]models.Grade, error)
	Finalize(ctx context.Context, id int64) error
	Transcript(ctx context.Context, nim string) (*models.Transcript, error)
}

// Grade row actions.
const (
	ActionEdit     = "edit"
	ActionFinalize = "finalize"
)

// GradeActions lists what can still be done to g. Final grades are locked.
func GradeActions(g models.Grade) []string {
	if g.Final() {
		return nil
	}
	return []string{ActionEdit, ActionFinalize}
}

// GradeService reads grades and triggers finalisation.
type GradeService struct {
	repo   gradeRepository
	logger *zap.Logger
}

// NewGradeService constructs a GradeService.
func NewGradeService(repo gradeRepository, logger *zap.Logger) *GradeService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &GradeService{repo: repo, logger: logger}
}

// Page starts a fresh grade list page.
func (s *GradeService) Page() *GradePage {
	return &GradePage{svc: s}
}

// GradePage holds grades fetched during one page lifetime.
type GradePage struct {
	svc    *GradeService
	grades []models.Grade
	loaded bool
}

// Load fetches the list. On failure the page stays empty.
func (p *GradePage) Load(ctx context.Context) error {
	grades, err := p.svc.repo.List(ctx)
	if err != nil {
		p.grades = nil
		p.loaded = false
		return appErrors.OrFallback(err, "failed to load grades")
	}
	p.grades = grades
	p.loaded = true
	return nil
}

// Grades returns the page data.
func (p *GradePage) Grades() []models.Grade {
	return p.grades
}

// Filter matches NIM, course code or name, letter grade and status.
func (p *GradePage) Filter(query string) []models.Grade {
	return Filter(p.grades, query, func(g models.Grade) []string {
		fields := []string{g.NIM, string(g.Status)}
		if g.LetterGrade != nil {
			fields = append(fields, *g.LetterGrade)
		}
		if g.Course != nil {
			fields = append(fields, g.Course.CourseCode, g.Course.CourseName)
		}
		return fields
	})
}

// Find returns the loaded grade with id.
func (p *GradePage) Find(id int64) (models.Grade, bool) {
	for _, g := range p.grades {
		if g.ID == id {
			return g, true
		}
	}
	return models.Grade{}, false
}

// Finalize locks a draft grade after confirmation and reloads the page so
// the server computed fields are shown. A grade already final in the page is
// refused without a request.
func (p *GradePage) Finalize(ctx context.Context, id int64, c Confirmer) (bool, error) {
	if p.loaded {
		grade, ok := p.Find(id)
		if !ok {
			return false, appErrors.Clone(appErrors.ErrNotFound, fmt.Sprintf("grade #%d not found", id))
		}
		if grade.Final() {
			return false, appErrors.ErrFinalized
		}
	}
	ok, err := confirm(ctx, c, fmt.Sprintf("Finalize grade #%d? This cannot be undone.", id))
	if err != nil || !ok {
		return false, err
	}
	if err := p.svc.repo.Finalize(ctx, id); err != nil {
		return false, appErrors.OrFallback(err, "failed to finalize grade")
	}
	p.svc.logger.Info("grade finalized", zap.Int64("id", id))
	if err := p.Load(ctx); err != nil {
		return true, err
	}
	return true, nil
}
