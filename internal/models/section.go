package models

// Section names a navigable area of the client.
type Section string

const (
	SectionStudents    Section = "students"
	SectionCourses     Section = "courses"
	SectionEnrollments Section = "enrollments"
	SectionGrades      Section = "grades"
	SectionTranscript  Section = "transcript"
)

// Sections lists every section in menu order.
var Sections = []Section{
	SectionStudents,
	SectionCourses,
	SectionEnrollments,
	SectionGrades,
	SectionTranscript,
}
