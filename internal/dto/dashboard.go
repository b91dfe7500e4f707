package dto

import "github.com/noah-isme/siakad-cli/internal/models"

// SectionCard is one navigable entry on the dashboard and in the shell menu.
type SectionCard struct {
	Section     models.Section `json:"section"`
	Title       string         `json:"title"`
	Description string         `json:"description"`
	Command     string         `json:"command"`
}

// Dashboard is the landing view for a signed in user.
type Dashboard struct {
	Welcome string        `json:"welcome"`
	Role    string        `json:"role"`
	Cards   []SectionCard `json:"cards"`
}

var sectionCards = map[models.Section]SectionCard{
	models.SectionStudents: {
		Section: models.SectionStudents, Title: "Students",
		Description: "Manage student records", Command: "students list",
	},
	models.SectionCourses: {
		Section: models.SectionCourses, Title: "Courses",
		Description: "Browse the course catalog", Command: "courses list",
	},
	models.SectionEnrollments: {
		Section: models.SectionEnrollments, Title: "Enrollments",
		Description: "Course registration", Command: "enrollments list",
	},
	models.SectionGrades: {
		Section: models.SectionGrades, Title: "Grades",
		Description: "Review and finalize grades", Command: "grades list",
	},
	models.SectionTranscript: {
		Section: models.SectionTranscript, Title: "Transcript",
		Description: "View transcript and GPA", Command: "transcript -nim <nim>",
	},
}

// Card returns the presentation of section.
func Card(section models.Section) (SectionCard, bool) {
	card, ok := sectionCards[section]
	return card, ok
}

// NewDashboard builds the landing view from the sections visible to user.
func NewDashboard(user models.User, sections []models.Section) Dashboard {
	name := user.FullName
	if name == "" {
		name = user.Username
	}
	dash := Dashboard{
		Welcome: "Welcome, " + name,
		Role:    string(user.Role),
		Cards:   make([]SectionCard, 0, len(sections)),
	}
	for _, section := range sections {
		if card, ok := sectionCards[section]; ok {
			dash.Cards = append(dash.Cards, card)
		}
	}
	return dash
}
