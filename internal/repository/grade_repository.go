package repository

import (
	"context"
	"net/url"
	"strconv"

	"github.com/noah-isme/siakad-cli/internal/models"
)

// GradeRepository reads grades and triggers finalisation.
type GradeRepository struct {
	client apiClient
}

// NewGradeRepository constructs a GradeRepository.
func NewGradeRepository(client apiClient) *GradeRepository {
	return &GradeRepository{client: client}
}

// List returns grades visible to the caller.
func (r *GradeRepository) List(ctx context.Context) ([]models.Grade, error) {
	var grades []models.Grade
	if err := r.client.Get(ctx, "/api/grades", &grades); err != nil {
		return nil, err
	}
	return grades, nil
}

// Finalize locks a draft grade.
func (r *GradeRepository) Finalize(ctx context.Context, id int64) error {
	return r.client.Post(ctx, "/api/grades/"+strconv.FormatInt(id, 10)+"/finalize", nil, nil)
}

// Transcript fetches the aggregated transcript for nim.
func (r *GradeRepository) Transcript(ctx context.Context, nim string) (*models.Transcript, error) {
	var transcript models.Transcript
	if err := r.client.Get(ctx, "/api/grades/student/"+url.PathEscape(nim)+"/transcript", &transcript); err != nil {
		return nil, err
	}
	return &transcript, nil
}
