package models

import "time"

// Student represents a learner, keyed by NIM.
type Student struct {
	NIM       string    `json:"nim"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Major     string    `json:"major"`
	Angkatan  int       `json:"angkatan"`
	Photo     *string   `json:"photo,omitempty"`
	Documents *string   `json:"documents,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// CreateStudentRequest holds payload for creating students.
type CreateStudentRequest struct {
	NIM      string `json:"nim" validate:"required"`
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Major    string `json:"major" validate:"required"`
	Angkatan int    `json:"angkatan" validate:"required,gte=1900,lte=2999"`
}
