package repository

import (
	"context"
	"net/url"

	"github.com/noah-isme/siakad-cli/internal/models"
)

// StudentRepository reads and mutates student records through the API.
type StudentRepository struct {
	client apiClient
}

// NewStudentRepository constructs a StudentRepository.
func NewStudentRepository(client apiClient) *StudentRepository {
	return &StudentRepository{client: client}
}

// List returns every student visible to the caller.
func (r *StudentRepository) List(ctx context.Context) ([]models.Student, error) {
	var students []models.Student
	if err := r.client.Get(ctx, "/api/students", &students); err != nil {
		return nil, err
	}
	return students, nil
}

// Create registers a new student.
func (r *StudentRepository) Create(ctx context.Context, req models.CreateStudentRequest) (*models.Student, error) {
	var student models.Student
	if err := r.client.Post(ctx, "/api/students", req, &student); err != nil {
		return nil, err
	}
	return &student, nil
}

// Delete removes the student identified by nim.
func (r *StudentRepository) Delete(ctx context.Context, nim string) error {
	return r.client.Delete(ctx, "/api/students/"+url.PathEscape(nim), nil)
}
