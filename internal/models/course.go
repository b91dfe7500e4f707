package models

import "time"

// Course is a catalog entry. Capacity figures are informational only.
type Course struct {
	ID                int64     `json:"id"`
	CourseCode        string    `json:"courseCode"`
	CourseName        string    `json:"courseName"`
	Credits           int       `json:"credits"`
	Semester          int       `json:"semester"`
	MaxCapacity       int       `json:"maxCapacity"`
	CurrentEnrollment int       `json:"currentEnrollment"`
	LecturerID        string    `json:"lecturerId"`
	LecturerName      string    `json:"lecturerName"`
	CreatedAt         time.Time `json:"createdAt"`
	UpdatedAt         time.Time `json:"updatedAt"`
}

// Full reports whether the course has reached its displayed capacity.
func (c Course) Full() bool {
	return c.CurrentEnrollment >= c.MaxCapacity
}
