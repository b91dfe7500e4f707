package handler

import (
	"context"

	"github.com/noah-isme/siakad-cli/internal/dto"
)

func (r *Router) transcript(ctx context.Context, args []string) error {
	fs := r.flagSet("transcript")
	nim := fs.String("nim", "", "Student NIM.")
	if err := parse(fs, args); err != nil {
		return err
	}

	transcript, err := r.deps.Transcripts.Get(ctx, *nim)
	if err != nil {
		return err
	}
	view := dto.NewTranscriptView(*transcript)
	r.printf("%s (%s)\n", view.StudentName, view.NIM)
	if view.Major != "" {
		r.printf("Major: %s\n", view.Major)
	}
	r.printf("GPA: %s  Semester GPA: %s  Credits: %s  Courses: %s\n\n",
		view.CumulativeGPA, view.SemesterGPA, view.TotalCredits, view.CourseCount)

	t := newTable(r.out, "CODE", "COURSE", "SKS", "TERM", "SCORE", "LETTER", "WEIGHT")
	for _, row := range view.Rows {
		t.row(row.CourseCode, row.CourseName, row.Credits, row.Term, row.Score, row.Letter, row.Weight)
	}
	t.flush()
	return nil
}
