package dto

import (
	"strconv"
	"strings"

	"github.com/noah-isme/siakad-cli/internal/models"
)

// GradeRow is a display ready grade line.
type GradeRow struct {
	ID         string   `json:"id"`
	NIM        string   `json:"nim"`
	CourseCode string   `json:"courseCode"`
	CourseName string   `json:"courseName"`
	Credits    string   `json:"credits"`
	Term       string   `json:"term"`
	Quiz       string   `json:"quiz"`
	Assignment string   `json:"assignment"`
	Midterm    string   `json:"midterm"`
	Final      string   `json:"final"`
	Score      string   `json:"score"`
	Letter     string   `json:"letter"`
	Weight     string   `json:"weight"`
	Status     string   `json:"status"`
	Actions    []string `json:"actions"`
}

// NewGradeRow flattens g for display.
func NewGradeRow(g models.Grade, actions []string) GradeRow {
	row := GradeRow{
		ID:         strconv.FormatInt(g.ID, 10),
		NIM:        g.NIM,
		CourseCode: placeholder,
		CourseName: placeholder,
		Credits:    placeholder,
		Term:       strings.TrimSpace(g.Semester + " " + g.AcademicYear),
		Quiz:       Score(g.QuizScore),
		Assignment: Score(g.AssignmentScore),
		Midterm:    Score(g.MidtermScore),
		Final:      Score(g.FinalScore),
		Score:      Score(g.FinalGrade),
		Letter:     Text(g.LetterGrade),
		Weight:     Score(g.GPA),
		Status:     string(g.Status),
		Actions:    actions,
	}
	if g.Course != nil {
		row.CourseCode = g.Course.CourseCode
		row.CourseName = g.Course.CourseName
		row.Credits = strconv.Itoa(g.Course.Credits)
	}
	return row
}

// ActionList joins row actions for a table cell.
func (r GradeRow) ActionList() string {
	if len(r.Actions) == 0 {
		return placeholder
	}
	return strings.Join(r.Actions, ",")
}
