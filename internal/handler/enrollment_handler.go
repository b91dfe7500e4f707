package handler

import (
	"context"
	"fmt"
	"strconv"

	"github.com/noah-isme/siakad-cli/internal/models"
)

func (r *Router) enrollments(ctx context.Context, args []string) error {
	sub, rest := subcommand(args)
	switch sub {
	case "list":
		return r.listEnrollments(ctx, rest)
	case "create":
		return r.createEnrollment(ctx, rest)
	case "delete", "cancel":
		return r.cancelEnrollment(ctx, rest)
	default:
		return fmt.Errorf("enrollments %q: no such subcommand", sub)
	}
}

func (r *Router) listEnrollments(ctx context.Context, args []string) error {
	fs := r.flagSet("enrollments list")
	query := fs.String("q", "", "Filter by NIM, course, semester, year or status.")
	if err := parse(fs, args); err != nil {
		return err
	}

	page := r.deps.Enrollments.Page()
	if err := page.Load(ctx); err != nil {
		return err
	}
	shown := page.Filter(*query)
	t := newTable(r.out, "ID", "NIM", "COURSE", "SEMESTER", "YEAR", "STATUS")
	for _, e := range shown {
		course := strconv.FormatInt(e.CourseID, 10)
		if e.Course != nil {
			course = e.Course.CourseCode + " " + e.Course.CourseName
		}
		t.row(strconv.FormatInt(e.ID, 10), e.NIM, course, e.Semester, e.AcademicYear, string(e.Status))
	}
	t.flush()
	r.printCount(len(shown), len(page.Enrollments()), "enrollments")
	return nil
}

func (r *Router) createEnrollment(ctx context.Context, args []string) error {
	fs := r.flagSet("enrollments create")
	nim := fs.String("nim", "", "Student NIM.")
	courseID := fs.Int64("course", 0, "Course ID.")
	semester := fs.String("semester", "", "Semester, for example Ganjil or Genap.")
	year := fs.String("year", models.DefaultAcademicYear, "Academic year.")
	if err := parse(fs, args); err != nil {
		return err
	}

	enrollment, err := r.deps.Enrollments.Create(ctx, models.CreateEnrollmentRequest{
		NIM:          *nim,
		CourseID:     *courseID,
		Semester:     *semester,
		AcademicYear: *year,
	})
	if err != nil {
		return err
	}
	r.printf("Enrollment #%d created for %s\n", enrollment.ID, enrollment.NIM)
	return nil
}

func (r *Router) cancelEnrollment(ctx context.Context, args []string) error {
	fs := r.flagSet("enrollments delete")
	id := fs.Int64("id", 0, "Enrollment ID.")
	yes := fs.Bool("yes", false, "Skip the confirmation prompt.")
	if err := parse(fs, args); err != nil {
		return err
	}

	cancelled, err := r.deps.Enrollments.Page().Cancel(ctx, *id, r.confirmer(*yes))
	if err != nil {
		return err
	}
	if !cancelled {
		r.printf("Aborted\n")
		return nil
	}
	r.printf("Enrollment #%d cancelled\n", *id)
	return nil
}
