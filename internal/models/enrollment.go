package models

import "time"

// EnrollmentStatus represents the lifecycle of an enrollment.
type EnrollmentStatus string

// Possible enrollment statuses.
const (
	EnrollmentStatusActive    EnrollmentStatus = "active"
	EnrollmentStatusCompleted EnrollmentStatus = "completed"
	EnrollmentStatusDropped   EnrollmentStatus = "dropped"
)

// DefaultAcademicYear pre-fills new enrollments.
const DefaultAcademicYear = "2024/2025"

// Enrollment links a student to a course for a semester.
type Enrollment struct {
	ID           int64            `json:"id"`
	NIM          string           `json:"nim"`
	CourseID     int64            `json:"courseId"`
	Semester     string           `json:"semester"`
	AcademicYear string           `json:"academicYear"`
	Status       EnrollmentStatus `json:"status"`
	EnrolledAt   time.Time        `json:"enrolledAt"`
	Course       *Course          `json:"course,omitempty"`
	Student      *Student         `json:"student,omitempty"`
}

// CreateEnrollmentRequest is the enrollment form payload.
type CreateEnrollmentRequest struct {
	NIM          string `json:"nim" validate:"required"`
	CourseID     int64  `json:"courseId" validate:"required,gt=0"`
	Semester     string `json:"semester" validate:"required"`
	AcademicYear string `json:"academicYear" validate:"required"`
}
