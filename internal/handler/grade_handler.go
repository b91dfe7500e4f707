package handler

import (
	"context"
	"fmt"

	"github.com/noah-isme/siakad-cli/internal/dto"
	"github.com/noah-isme/siakad-cli/internal/models"
	"github.com/noah-isme/siakad-cli/internal/service"
)

func (r *Router) grades(ctx context.Context, args []string) error {
	sub, rest := subcommand(args)
	switch sub {
	case "list":
		return r.listGrades(ctx, rest)
	case "finalize":
		return r.finalizeGrade(ctx, rest)
	default:
		return fmt.Errorf("grades %q: no such subcommand", sub)
	}
}

func (r *Router) listGrades(ctx context.Context, args []string) error {
	fs := r.flagSet("grades list")
	query := fs.String("q", "", "Filter by NIM, course, letter or status.")
	if err := parse(fs, args); err != nil {
		return err
	}

	page := r.deps.Grades.Page()
	if err := page.Load(ctx); err != nil {
		return err
	}
	shown := page.Filter(*query)
	r.printGrades(shown)
	r.printCount(len(shown), len(page.Grades()), "grades")
	return nil
}

func (r *Router) printGrades(grades []models.Grade) {
	t := newTable(r.out, "ID", "NIM", "COURSE", "TERM", "QUIZ", "ASSIGN", "MID", "FINAL", "SCORE", "LETTER", "STATUS", "ACTIONS")
	for _, g := range grades {
		row := dto.NewGradeRow(g, service.GradeActions(g))
		t.row(row.ID, row.NIM, row.CourseCode, row.Term, row.Quiz, row.Assignment, row.Midterm,
			row.Final, row.Score, row.Letter, row.Status, row.ActionList())
	}
	t.flush()
}

func (r *Router) finalizeGrade(ctx context.Context, args []string) error {
	fs := r.flagSet("grades finalize")
	id := fs.Int64("id", 0, "Grade ID.")
	yes := fs.Bool("yes", false, "Skip the confirmation prompt.")
	if err := parse(fs, args); err != nil {
		return err
	}
	if *id <= 0 {
		fs.Usage()
		return errHelp
	}

	page := r.deps.Grades.Page()
	if err := page.Load(ctx); err != nil {
		return err
	}
	finalized, err := page.Finalize(ctx, *id, r.confirmer(*yes))
	if !finalized {
		if err == nil {
			r.printf("Aborted\n")
		}
		return err
	}
	r.printf("Grade #%d finalized\n", *id)
	if err != nil {
		return err
	}
	if g, ok := page.Find(*id); ok {
		r.printGrades([]models.Grade{g})
	}
	return nil
}
