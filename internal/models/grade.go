package models

import "time"

// GradeStatus tracks whether a grade can still change.
type GradeStatus string

const (
	GradeStatusDraft GradeStatus = "draft"
	GradeStatusFinal GradeStatus = "final"
)

// Grade holds component scores and the server computed result.
type Grade struct {
	ID              int64       `json:"id"`
	NIM             string      `json:"nim"`
	CourseID        int64       `json:"courseId"`
	Semester        string      `json:"semester"`
	AcademicYear    string      `json:"academicYear"`
	QuizScore       *float64    `json:"quizScore,omitempty"`
	AssignmentScore *float64    `json:"assignmentScore,omitempty"`
	MidtermScore    *float64    `json:"midtermScore,omitempty"`
	FinalScore      *float64    `json:"finalScore,omitempty"`
	FinalGrade      *float64    `json:"finalGrade,omitempty"`
	LetterGrade     *string     `json:"letterGrade,omitempty"`
	GPA             *float64    `json:"gpa,omitempty"`
	Status          GradeStatus `json:"status"`
	CreatedAt       time.Time   `json:"createdAt"`
	UpdatedAt       time.Time   `json:"updatedAt"`
	Course          *Course     `json:"course,omitempty"`
	Student         *Student    `json:"student,omitempty"`
}

// Final reports whether the grade is locked.
func (g Grade) Final() bool {
	return g.Status == GradeStatusFinal
}

// Transcript is the server side aggregate of a student's grades.
type Transcript struct {
	NIM           string  `json:"nim"`
	StudentName   string  `json:"studentName"`
	Major         string  `json:"major"`
	Grades        []Grade `json:"grades"`
	SemesterGPA   float64 `json:"semesterGPA"`
	CumulativeGPA float64 `json:"cumulativeGPA"`
	TotalCredits  int     `json:"totalCredits"`
}
