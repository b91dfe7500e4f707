package handler

import (
	"context"
	"fmt"
	"strings"

	"github.com/noah-isme/siakad-cli/internal/middleware"
	"github.com/noah-isme/siakad-cli/internal/models"
	"github.com/noah-isme/siakad-cli/internal/service"
	appErrors "github.com/noah-isme/siakad-cli/pkg/errors"
)

func (r *Router) export(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("export: expected transcript or grades")
	}
	if r.deps.Export == nil {
		return appErrors.Clone(appErrors.ErrInternal, "export is unavailable: EXPORT_DIR cannot be created")
	}
	var (
		section models.Section
		run     middleware.HandlerFunc
	)
	switch args[0] {
	case "transcript", "transcripts":
		section, run = models.SectionTranscript, r.exportTranscripts
	case "grades":
		section, run = models.SectionGrades, r.exportGrades
	default:
		return fmt.Errorf("export %q: no such subcommand", args[0])
	}
	return middleware.Chain(run, middleware.RequireSection(r.deps.Session, section))(ctx, args[1:])
}

func (r *Router) exportTranscripts(ctx context.Context, args []string) error {
	fs := r.flagSet("export transcript")
	nims := fs.String("nim", "", "Comma separated NIMs.")
	rawFormat := fs.String("format", "csv", "csv or pdf.")
	if err := parse(fs, args); err != nil {
		return err
	}
	format, err := service.ParseExportFormat(*rawFormat)
	if err != nil {
		return err
	}

	list := splitList(*nims)
	switch len(list) {
	case 0:
		return appErrors.Clone(appErrors.ErrValidation, "nim is required")
	case 1:
		res, err := r.deps.Export.Transcript(ctx, list[0], format)
		if err != nil {
			return err
		}
		r.printf("Wrote %s\n", res.Path)
		return nil
	}

	failed := 0
	t := newTable(r.out, "NIM", "RESULT")
	for _, res := range r.deps.Export.Transcripts(ctx, list, format) {
		if res.Err != nil {
			failed++
			t.row(res.Subject, "error: "+appErrors.Message(res.Err))
			continue
		}
		t.row(res.Subject, res.Path)
	}
	t.flush()
	if failed > 0 {
		return appErrors.Clone(appErrors.ErrRequestFailed, fmt.Sprintf("%d of %d exports failed", failed, len(list)))
	}
	return nil
}

func (r *Router) exportGrades(ctx context.Context, args []string) error {
	fs := r.flagSet("export grades")
	rawFormat := fs.String("format", "csv", "csv or pdf.")
	if err := parse(fs, args); err != nil {
		return err
	}
	format, err := service.ParseExportFormat(*rawFormat)
	if err != nil {
		return err
	}
	res, err := r.deps.Export.Grades(ctx, format)
	if err != nil {
		return err
	}
	r.printf("Wrote %s\n", res.Path)
	return nil
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
