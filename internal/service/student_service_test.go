package service

import (
	"context"
	"errors"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/siakad-cli/internal/models"
	appErrors "github.com/noah-isme/siakad-cli/pkg/errors"
)

type mockStudentRepo struct {
	students  []models.Student
	listErr   error
	createErr error
	deleteErr error
	created   []models.CreateStudentRequest
	deleted   []string
}

func (m *mockStudentRepo) List(ctx context.Context) ([]models.Student, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	return append([]models.Student(nil), m.students...), nil
}

func (m *mockStudentRepo) Create(ctx context.Context, req models.CreateStudentRequest) (*models.Student, error) {
	if m.createErr != nil {
		return nil, m.createErr
	}
	m.created = append(m.created, req)
	return &models.Student{NIM: req.NIM, Name: req.Name}, nil
}

func (m *mockStudentRepo) Delete(ctx context.Context, nim string) error {
	m.deleted = append(m.deleted, nim)
	return m.deleteErr
}

func seededStudents() []models.Student {
	return []models.Student{
		{NIM: "2021001", Name: "Budi Santoso", Major: "Informatika"},
		{NIM: "2021002", Name: "Siti Aminah", Major: "Sistem Informasi"},
		{NIM: "2022003", Name: "Andi Wijaya", Major: "Informatika"},
	}
}

func answer(ok bool) ConfirmFunc {
	return func(context.Context, string) (bool, error) { return ok, nil }
}

func TestStudentPageFilter(t *testing.T) {
	svc := NewStudentService(&mockStudentRepo{students: seededStudents()}, validator.New(), zap.NewNop())
	page := svc.Page()
	require.NoError(t, page.Load(context.Background()))

	assert.Len(t, page.Filter(""), 3)
	assert.Len(t, page.Filter("informasi"), 1)
	assert.Len(t, page.Filter("informatika"), 2)
	assert.Len(t, page.Filter("INFORMATIKA"), 2)
	assert.Empty(t, page.Filter(" INFORMATIKA "))
	assert.Len(t, page.Filter("i A"), 1)
	assert.Len(t, page.Filter("2021"), 2)
	assert.Len(t, page.Filter("siti"), 1)
	assert.Empty(t, page.Filter("nobody"))
	assert.Len(t, page.Students(), 3, "filtering never changes the page data")
}

func TestStudentPageLoadFailure(t *testing.T) {
	generic := &appErrors.Error{Code: appErrors.ErrTransport.Code, Message: "unable to reach the server", Fallback: true}
	svc := NewStudentService(&mockStudentRepo{listErr: generic}, nil, nil)
	page := svc.Page()

	err := page.Load(context.Background())
	require.Error(t, err)
	assert.Equal(t, "failed to load students", appErrors.Message(err))
	assert.Empty(t, page.Students())
}

func TestStudentPageDelete(t *testing.T) {
	repo := &mockStudentRepo{students: seededStudents()}
	page := NewStudentService(repo, nil, nil).Page()
	require.NoError(t, page.Load(context.Background()))

	deleted, err := page.Delete(context.Background(), "2021002", answer(false))
	require.NoError(t, err)
	assert.False(t, deleted)
	assert.Empty(t, repo.deleted, "declined confirmation sends nothing")
	assert.Len(t, page.Students(), 3)

	deleted, err = page.Delete(context.Background(), "2021002", answer(true))
	require.NoError(t, err)
	assert.True(t, deleted)
	assert.Equal(t, []string{"2021002"}, repo.deleted)
	require.Len(t, page.Students(), 2)
	for _, s := range page.Students() {
		assert.NotEqual(t, "2021002", s.NIM)
	}
}

func TestStudentPageDeleteFailureKeepsList(t *testing.T) {
	repo := &mockStudentRepo{students: seededStudents(), deleteErr: &appErrors.Error{Code: "FORBIDDEN", Status: 403, Message: "Forbidden resource"}}
	page := NewStudentService(repo, nil, nil).Page()
	require.NoError(t, page.Load(context.Background()))

	deleted, err := page.Delete(context.Background(), "2021001", AlwaysConfirm)
	require.Error(t, err)
	assert.False(t, deleted)
	assert.Equal(t, "Forbidden resource", appErrors.Message(err))
	assert.Len(t, page.Students(), 3)
}

func TestStudentPageDeleteConfirmError(t *testing.T) {
	repo := &mockStudentRepo{}
	page := NewStudentService(repo, nil, nil).Page()
	stop := errors.New("interrupted")

	_, err := page.Delete(context.Background(), "2021001", ConfirmFunc(func(context.Context, string) (bool, error) { return false, stop }))
	assert.ErrorIs(t, err, stop)
	assert.Empty(t, repo.deleted)

	_, err = page.Delete(context.Background(), "2021001", nil)
	assert.NoError(t, err)
	assert.Empty(t, repo.deleted, "no confirmer means no consent")
}

func TestStudentServiceCreate(t *testing.T) {
	repo := &mockStudentRepo{}
	svc := NewStudentService(repo, nil, nil)

	_, err := svc.Create(context.Background(), models.CreateStudentRequest{NIM: "1", Name: "A", Email: "bad", Major: "TI", Angkatan: 2024})
	require.Error(t, err)
	assert.True(t, errors.Is(err, appErrors.ErrValidation))
	assert.Empty(t, repo.created)

	student, err := svc.Create(context.Background(), models.CreateStudentRequest{NIM: "1", Name: "A", Email: "a@k.id", Major: "TI", Angkatan: 2024})
	require.NoError(t, err)
	assert.Equal(t, "1", student.NIM)

	repo.createErr = &appErrors.Error{Code: "INTERNAL_ERROR", Status: 500, Message: "request failed (http 500)", Fallback: true}
	_, err = svc.Create(context.Background(), models.CreateStudentRequest{NIM: "2", Name: "B", Email: "b@k.id", Major: "TI", Angkatan: 2024})
	require.Error(t, err)
	assert.Equal(t, "failed to add student", appErrors.Message(err))
}
