package dto

import (
	"strconv"

	"github.com/noah-isme/siakad-cli/internal/models"
)

// TranscriptView is the printable transcript.
type TranscriptView struct {
	NIM           string     `json:"nim"`
	StudentName   string     `json:"studentName"`
	Major         string     `json:"major"`
	SemesterGPA   string     `json:"semesterGPA"`
	CumulativeGPA string     `json:"cumulativeGPA"`
	TotalCredits  string     `json:"totalCredits"`
	CourseCount   string     `json:"courseCount"`
	Rows          []GradeRow `json:"rows"`
}

// NewTranscriptView formats t. Transcript rows carry no actions.
func NewTranscriptView(t models.Transcript) TranscriptView {
	view := TranscriptView{
		NIM:           t.NIM,
		StudentName:   t.StudentName,
		Major:         t.Major,
		SemesterGPA:   GPA(t.SemesterGPA),
		CumulativeGPA: GPA(t.CumulativeGPA),
		TotalCredits:  strconv.Itoa(t.TotalCredits),
		CourseCount:   strconv.Itoa(len(t.Grades)),
		Rows:          make([]GradeRow, 0, len(t.Grades)),
	}
	for _, g := range t.Grades {
		view.Rows = append(view.Rows, NewGradeRow(g, nil))
	}
	return view
}
