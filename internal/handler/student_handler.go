package handler

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/noah-isme/siakad-cli/internal/models"
)

func (r *Router) students(ctx context.Context, args []string) error {
	sub, rest := subcommand(args)
	switch sub {
	case "list":
		return r.listStudents(ctx, rest)
	case "create":
		return r.createStudent(ctx, rest)
	case "delete":
		return r.deleteStudent(ctx, rest)
	default:
		return fmt.Errorf("students %q: no such subcommand", sub)
	}
}

func (r *Router) listStudents(ctx context.Context, args []string) error {
	fs := r.flagSet("students list")
	query := fs.String("q", "", "Filter by name, NIM or major.")
	if err := parse(fs, args); err != nil {
		return err
	}

	page := r.deps.Students.Page()
	if err := page.Load(ctx); err != nil {
		return err
	}
	shown := page.Filter(*query)
	t := newTable(r.out, "NIM", "NAME", "EMAIL", "MAJOR", "ANGKATAN")
	for _, s := range shown {
		t.row(s.NIM, s.Name, s.Email, s.Major, strconv.Itoa(s.Angkatan))
	}
	t.flush()
	r.printCount(len(shown), len(page.Students()), "students")
	return nil
}

func (r *Router) createStudent(ctx context.Context, args []string) error {
	fs := r.flagSet("students create")
	nim := fs.String("nim", "", "Student number.")
	name := fs.String("name", "", "Full name.")
	email := fs.String("email", "", "Email address.")
	major := fs.String("major", "", "Major.")
	angkatan := fs.Int("angkatan", time.Now().Year(), "Intake year.")
	if err := parse(fs, args); err != nil {
		return err
	}

	student, err := r.deps.Students.Create(ctx, models.CreateStudentRequest{
		NIM:      *nim,
		Name:     *name,
		Email:    *email,
		Major:    *major,
		Angkatan: *angkatan,
	})
	if err != nil {
		return err
	}
	r.printf("Student %s (%s) added\n", student.NIM, student.Name)
	return nil
}

func (r *Router) deleteStudent(ctx context.Context, args []string) error {
	fs := r.flagSet("students delete")
	nim := fs.String("nim", "", "NIM of the student to delete.")
	yes := fs.Bool("yes", false, "Skip the confirmation prompt.")
	if err := parse(fs, args); err != nil {
		return err
	}

	deleted, err := r.deps.Students.Page().Delete(ctx, *nim, r.confirmer(*yes))
	if err != nil {
		return err
	}
	if !deleted {
		r.printf("Aborted\n")
		return nil
	}
	r.printf("Student %s deleted\n", *nim)
	return nil
}
