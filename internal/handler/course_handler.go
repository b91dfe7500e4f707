package handler

import (
	"context"
	"fmt"
	"strconv"

	"github.com/noah-isme/siakad-cli/internal/dto"
	"github.com/noah-isme/siakad-cli/internal/service"
)

func (r *Router) courses(ctx context.Context, args []string) error {
	sub, rest := subcommand(args)
	if sub != "list" {
		return fmt.Errorf("courses %q: no such subcommand", sub)
	}
	fs := r.flagSet("courses list")
	query := fs.String("q", "", "Filter by course code or name.")
	if err := parse(fs, rest); err != nil {
		return err
	}

	courses, err := r.deps.Courses.List(ctx)
	if err != nil {
		return err
	}
	shown := service.FilterCourses(courses, *query)
	t := newTable(r.out, "ID", "CODE", "NAME", "SKS", "SEMESTER", "LECTURER", "CAPACITY")
	for _, c := range shown {
		t.row(strconv.FormatInt(c.ID, 10), c.CourseCode, c.CourseName, strconv.Itoa(c.Credits),
			strconv.Itoa(c.Semester), c.LecturerName, dto.Capacity(c))
	}
	t.flush()
	r.printCount(len(shown), len(courses), "courses")
	return nil
}
