package service

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/siakad-cli/internal/dto"
	"github.com/noah-isme/siakad-cli/internal/models"
	appErrors "github.com/noah-isme/siakad-cli/pkg/errors"
	"github.com/noah-isme/siakad-cli/pkg/export"
	"github.com/noah-isme/siakad-cli/pkg/jobs"
)

// ExportFormat selects the rendered file type.
type ExportFormat string

const (
	ExportFormatCSV ExportFormat = "csv"
	ExportFormatPDF ExportFormat = "pdf"
)

// ParseExportFormat accepts csv or pdf, defaulting to csv.
func ParseExportFormat(raw string) (ExportFormat, error) {
	switch ExportFormat(strings.ToLower(strings.TrimSpace(raw))) {
	case "", ExportFormatCSV:
		return ExportFormatCSV, nil
	case ExportFormatPDF:
		return ExportFormatPDF, nil
	default:
		return "", appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unsupported export format %q", raw))
	}
}

type exportTranscriptSource interface {
	Transcript(ctx context.Context, nim string) (*models.Transcript, error)
}

type exportGradeSource interface {
	List(ctx context.Context) ([]models.Grade, error)
}

type fileStorage interface {
	Save(filename string, data []byte) (string, error)
}

type datasetRenderer interface {
	Render(data export.Dataset) ([]byte, error)
}

// ExportConfig tunes export behaviour.
type ExportConfig struct {
	Workers    int
	Retries    int
	RetryDelay time.Duration
}

// ExportResult captures the outcome of one generated file.
type ExportResult struct {
	Subject string
	Path    string
	Format  ExportFormat
	Err     error
}

// ExportService renders transcripts and grade lists to files.
type ExportService struct {
	transcripts exportTranscriptSource
	grades      exportGradeSource
	storage     fileStorage
	csv         datasetRenderer
	pdf         datasetRenderer
	cfg         ExportConfig
	logger      *zap.Logger
	now         func() time.Time
}

// NewExportService constructs an ExportService.
func NewExportService(transcripts exportTranscriptSource, grades exportGradeSource, storage fileStorage, cfg ExportConfig, logger *zap.Logger, csv, pdf datasetRenderer) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.Workers <= 0 {
		cfg.Workers = 1
	}
	if csv == nil {
		csv = export.NewCSVExporter()
	}
	if pdf == nil {
		pdf = export.NewPDFExporter()
	}
	return &ExportService{
		transcripts: transcripts,
		grades:      grades,
		storage:     storage,
		csv:         csv,
		pdf:         pdf,
		cfg:         cfg,
		logger:      logger,
		now:         time.Now,
	}
}

// Transcript exports the transcript of a single student.
func (s *ExportService) Transcript(ctx context.Context, nim string, format ExportFormat) (*ExportResult, error) {
	nim = strings.TrimSpace(nim)
	if nim == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "nim is required")
	}
	transcript, err := s.transcripts.Transcript(ctx, nim)
	if err != nil {
		return nil, appErrors.OrFallback(err, "failed to load transcript")
	}
	path, err := s.write(transcriptDataset(*transcript), "transcript-"+sanitize(nim), format)
	if err != nil {
		return nil, err
	}
	return &ExportResult{Subject: nim, Path: path, Format: format}, nil
}

// Grades exports the grade list visible to the caller.
func (s *ExportService) Grades(ctx context.Context, format ExportFormat) (*ExportResult, error) {
	grades, err := s.grades.List(ctx)
	if err != nil {
		return nil, appErrors.OrFallback(err, "failed to load grades")
	}
	path, err := s.write(gradesDataset(grades), "grades", format)
	if err != nil {
		return nil, err
	}
	return &ExportResult{Subject: "grades", Path: path, Format: format}, nil
}

// Transcripts exports several transcripts through a bounded worker queue.
// One result is returned per NIM, in input order.
func (s *ExportService) Transcripts(ctx context.Context, nims []string, format ExportFormat) []ExportResult {
	results := make([]ExportResult, len(nims))
	index := make(map[string]int, len(nims))
	var mu sync.Mutex

	queue := jobs.NewQueue("transcript-export", func(ctx context.Context, job jobs.Job) error {
		nim, _ := job.Payload.(string)
		res, err := s.Transcript(ctx, nim, format)
		if err != nil {
			return err
		}
		mu.Lock()
		results[index[job.ID]].Path = res.Path
		mu.Unlock()
		return nil
	}, jobs.QueueConfig{
		Workers:    s.cfg.Workers,
		BufferSize: len(nims),
		MaxRetries: s.cfg.Retries,
		RetryDelay: s.cfg.RetryDelay,
		Logger:     s.logger,
		OnDone: func(job jobs.Job, err error) {
			mu.Lock()
			results[index[job.ID]].Err = err
			mu.Unlock()
		},
	})
	queue.Start(ctx)

	for i, nim := range nims {
		id := uuid.NewString()
		results[i] = ExportResult{Subject: nim, Format: format}
		mu.Lock()
		index[id] = i
		mu.Unlock()
		if err := queue.Enqueue(jobs.Job{ID: id, Type: "transcript", Payload: nim}); err != nil {
			mu.Lock()
			results[i].Err = err
			mu.Unlock()
		}
	}
	queue.Drain()

	failed := 0
	for _, res := range results {
		if res.Err != nil {
			failed++
		}
	}
	s.logger.Info("batch export finished", zap.Int("total", len(nims)), zap.Int("failed", failed))
	return results
}

func (s *ExportService) write(data export.Dataset, base string, format ExportFormat) (string, error) {
	renderer := s.csv
	if format == ExportFormatPDF {
		renderer = s.pdf
	}
	payload, err := renderer.Render(data)
	if err != nil {
		return "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render export")
	}
	filename := fmt.Sprintf("%s-%s.%s", base, s.now().UTC().Format("20060102-150405"), format)
	path, err := s.storage.Save(filename, payload)
	if err != nil {
		return "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store export")
	}
	s.logger.Debug("export written", zap.String("path", path), zap.Int("bytes", len(payload)))
	return path, nil
}

var gradeHeaders = []string{"NIM", "Code", "Course", "Credits", "Term", "Score", "Letter", "Weight", "Status"}

func gradeRecord(row dto.GradeRow) map[string]string {
	return map[string]string{
		"NIM":     row.NIM,
		"Code":    row.CourseCode,
		"Course":  row.CourseName,
		"Credits": row.Credits,
		"Term":    row.Term,
		"Score":   row.Score,
		"Letter":  row.Letter,
		"Weight":  row.Weight,
		"Status":  row.Status,
	}
}

func transcriptDataset(t models.Transcript) export.Dataset {
	view := dto.NewTranscriptView(t)
	data := export.Dataset{
		Title: "Academic Transcript",
		Summary: []export.Field{
			{Label: "NIM", Value: view.NIM},
			{Label: "Name", Value: view.StudentName},
			{Label: "Major", Value: view.Major},
			{Label: "Semester GPA", Value: view.SemesterGPA},
			{Label: "Cumulative GPA", Value: view.CumulativeGPA},
			{Label: "Total credits", Value: view.TotalCredits},
			{Label: "Courses", Value: view.CourseCount},
		},
		Headers: gradeHeaders[1:],
	}
	for _, row := range view.Rows {
		data.Rows = append(data.Rows, gradeRecord(row))
	}
	return data
}

func gradesDataset(grades []models.Grade) export.Dataset {
	data := export.Dataset{Title: "Grades", Headers: gradeHeaders}
	for _, g := range grades {
		data.Rows = append(data.Rows, gradeRecord(dto.NewGradeRow(g, nil)))
	}
	return data
}

func sanitize(s string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		default:
			return '_'
		}
	}, s)
}
