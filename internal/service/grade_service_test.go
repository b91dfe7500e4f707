package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/siakad-cli/internal/models"
	appErrors "github.com/noah-isme/siakad-cli/pkg/errors"
)

type mockGradeRepo struct {
	grades      []models.Grade
	listCalls   int
	finalized   []int64
	finalizeErr error
	transcript  *models.Transcript
	transcripts int
	err         error
}

func (m *mockGradeRepo) List(ctx context.Context) ([]models.Grade, error) {
	m.listCalls++
	if m.err != nil {
		return nil, m.err
	}
	return append([]models.Grade(nil), m.grades...), nil
}

func (m *mockGradeRepo) Finalize(ctx context.Context, id int64) error {
	m.finalized = append(m.finalized, id)
	if m.finalizeErr != nil {
		return m.finalizeErr
	}
	for i := range m.grades {
		if m.grades[i].ID == id {
			m.grades[i].Status = models.GradeStatusFinal
		}
	}
	return nil
}

func (m *mockGradeRepo) Transcript(ctx context.Context, nim string) (*models.Transcript, error) {
	m.transcripts++
	if m.err != nil {
		return nil, m.err
	}
	return m.transcript, nil
}

func letter(s string) *string { return &s }

func TestGradeActions(t *testing.T) {
	assert.Equal(t, []string{ActionEdit, ActionFinalize}, GradeActions(models.Grade{Status: models.GradeStatusDraft}))
	assert.Empty(t, GradeActions(models.Grade{Status: models.GradeStatusFinal}))
}

func TestGradePageFinalize(t *testing.T) {
	repo := &mockGradeRepo{grades: []models.Grade{
		{ID: 1, NIM: "a", Status: models.GradeStatusDraft},
		{ID: 2, NIM: "b", Status: models.GradeStatusFinal, LetterGrade: letter("A")},
	}}
	page := NewGradeService(repo, nil).Page()
	require.NoError(t, page.Load(context.Background()))

	ok, err := page.Finalize(context.Background(), 1, answer(false))
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Empty(t, repo.finalized)

	ok, err = page.Finalize(context.Background(), 1, AlwaysConfirm)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, []int64{1}, repo.finalized)
	assert.Equal(t, 2, repo.listCalls, "page is re-fetched after finalising")
	g, found := page.Find(1)
	require.True(t, found)
	assert.True(t, g.Final())
	assert.Empty(t, GradeActions(g))
}

func TestGradePageFinalizeLockedGrade(t *testing.T) {
	repo := &mockGradeRepo{grades: []models.Grade{{ID: 2, Status: models.GradeStatusFinal}}}
	page := NewGradeService(repo, nil).Page()
	require.NoError(t, page.Load(context.Background()))

	_, err := page.Finalize(context.Background(), 2, AlwaysConfirm)
	assert.True(t, errors.Is(err, appErrors.ErrFinalized))
	_, err = page.Finalize(context.Background(), 99, AlwaysConfirm)
	assert.True(t, errors.Is(err, appErrors.ErrNotFound))
	assert.Empty(t, repo.finalized)
}

func TestGradePageFinalizeFailure(t *testing.T) {
	repo := &mockGradeRepo{
		grades:      []models.Grade{{ID: 1, Status: models.GradeStatusDraft}},
		finalizeErr: &appErrors.Error{Code: "INTERNAL_ERROR", Status: 500, Message: "request failed (http 500)", Fallback: true},
	}
	page := NewGradeService(repo, nil).Page()
	require.NoError(t, page.Load(context.Background()))

	ok, err := page.Finalize(context.Background(), 1, AlwaysConfirm)
	assert.False(t, ok)
	assert.Equal(t, "failed to finalize grade", appErrors.Message(err))
	assert.Equal(t, 1, repo.listCalls)
}

func TestGradePageFilter(t *testing.T) {
	repo := &mockGradeRepo{grades: []models.Grade{
		{ID: 1, NIM: "2021001", Status: models.GradeStatusDraft, Course: &models.Course{CourseCode: "IF101", CourseName: "Algoritma"}},
		{ID: 2, NIM: "2021002", Status: models.GradeStatusFinal, LetterGrade: letter("B")},
	}}
	page := NewGradeService(repo, nil).Page()
	require.NoError(t, page.Load(context.Background()))

	assert.Len(t, page.Filter("final"), 1)
	assert.Len(t, page.Filter("b"), 1)
	assert.Len(t, page.Filter("algoritma"), 1)
	assert.Len(t, page.Filter("2021"), 2)
}

func TestTranscriptServiceRequiresNIM(t *testing.T) {
	repo := &mockGradeRepo{transcript: &models.Transcript{NIM: "2021001"}}
	svc := NewTranscriptService(repo, nil)

	_, err := svc.Get(context.Background(), "  ")
	require.Error(t, err)
	assert.Equal(t, "nim is required", appErrors.Message(err))
	assert.Equal(t, 0, repo.transcripts)

	transcript, err := svc.Get(context.Background(), "2021001")
	require.NoError(t, err)
	assert.Equal(t, "2021001", transcript.NIM)

	repo.err = &appErrors.Error{Code: "NOT_FOUND", Status: 404, Message: "Student with NIM x not found"}
	_, err = svc.Get(context.Background(), "x")
	assert.Equal(t, "Student with NIM x not found", appErrors.Message(err))
}
