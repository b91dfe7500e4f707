package dto

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/noah-isme/siakad-cli/internal/models"
)

func TestCapacity(t *testing.T) {
	assert.Equal(t, "12/40", Capacity(models.Course{CurrentEnrollment: 12, MaxCapacity: 40}))
	assert.Equal(t, "40/40 FULL", Capacity(models.Course{CurrentEnrollment: 40, MaxCapacity: 40}))
	assert.Equal(t, "41/40 FULL", Capacity(models.Course{CurrentEnrollment: 41, MaxCapacity: 40}))
}

func TestTranscriptViewFormatsGPA(t *testing.T) {
	view := NewTranscriptView(models.Transcript{NIM: "2021001", StudentName: "Budi"})
	assert.Equal(t, "0.00", view.CumulativeGPA)
	assert.Equal(t, "0", view.CourseCount)
	assert.Empty(t, view.Rows)

	score := 3.456
	view = NewTranscriptView(models.Transcript{CumulativeGPA: 3.456, Grades: []models.Grade{{GPA: &score}, {}}})
	assert.Equal(t, "3.46", view.CumulativeGPA)
	assert.Equal(t, "2", view.CourseCount)
	assert.Equal(t, "3.46", view.Rows[0].Weight)
	assert.Equal(t, "-", view.Rows[1].Weight)
	assert.Equal(t, "-", view.Rows[1].ActionList())
}

func TestNewDashboard(t *testing.T) {
	dash := NewDashboard(models.User{Username: "mhs1", FullName: "Mahasiswa Satu", Role: models.RoleStudent},
		[]models.Section{models.SectionCourses, models.SectionTranscript})
	assert.Equal(t, "Welcome, Mahasiswa Satu", dash.Welcome)
	if assert.Len(t, dash.Cards, 2) {
		assert.Equal(t, "Courses", dash.Cards[0].Title)
		assert.Equal(t, models.SectionTranscript, dash.Cards[1].Section)
	}

	dash = NewDashboard(models.User{Username: "x"}, nil)
	assert.Equal(t, "Welcome, x", dash.Welcome)
	assert.Empty(t, dash.Cards)

	_, ok := Card("finance")
	assert.False(t, ok)
}
