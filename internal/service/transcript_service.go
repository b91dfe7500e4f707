package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/noah-isme/siakad-cli/internal/models"
	appErrors "github.com/noah-isme/siakad-cli/pkg/errors"
)

type transcriptRepository interface {
	Transcript(ctx context.Context, nim string) (*models.Transcript, error)
}

// TranscriptService fetches server aggregated transcripts.
type TranscriptService struct {
	repo   transcriptRepository
	logger *zap.Logger
}

// NewTranscriptService constructs a TranscriptService.
func NewTranscriptService(repo transcriptRepository, logger *zap.Logger) *TranscriptService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TranscriptService{repo: repo, logger: logger}
}

// Get loads the transcript for nim. An empty nim never reaches the server.
func (s *TranscriptService) Get(ctx context.Context, nim string) (*models.Transcript, error) {
	nim = strings.TrimSpace(nim)
	if nim == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "nim is required")
	}
	transcript, err := s.repo.Transcript(ctx, nim)
	if err != nil {
		return nil, appErrors.OrFallback(err, "failed to load transcript")
	}
	return transcript, nil
}
