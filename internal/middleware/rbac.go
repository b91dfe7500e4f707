package middleware

import (
	"context"

	"github.com/noah-isme/siakad-cli/internal/models"
	"github.com/noah-isme/siakad-cli/internal/session"
	appErrors "github.com/noah-isme/siakad-cli/pkg/errors"
)

// visibility is the single source of which role sees which section.
var visibility = map[models.Section]map[models.UserRole]bool{
	models.SectionStudents:    {models.RoleAdmin: true, models.RoleLecturer: true},
	models.SectionCourses:     {models.RoleAdmin: true, models.RoleLecturer: true, models.RoleStudent: true},
	models.SectionEnrollments: {models.RoleAdmin: true, models.RoleStudent: true},
	models.SectionGrades:      {models.RoleAdmin: true, models.RoleLecturer: true},
	models.SectionTranscript:  {models.RoleStudent: true},
}

// Visible reports whether role may see section. Unknown roles see nothing.
func Visible(role models.UserRole, section models.Section) bool {
	return visibility[section][role]
}

// VisibleSections returns the sections role may see, in menu order.
func VisibleSections(role models.UserRole) []models.Section {
	out := make([]models.Section, 0, len(models.Sections))
	for _, section := range models.Sections {
		if Visible(role, section) {
			out = append(out, section)
		}
	}
	return out
}

// RequireSection gates a command on the current role. It is evaluated on
// every call so a login in the shell takes effect immediately.
func RequireSection(sess *session.Session, section models.Section) Middleware {
	return func(next HandlerFunc) HandlerFunc {
		return func(ctx context.Context, args []string) error {
			if !sess.Authenticated() {
				return appErrors.ErrNotAuthenticated
			}
			if !Visible(sess.Role(), section) {
				return appErrors.Clone(appErrors.ErrSectionHidden, string(section)+" is not available for role "+string(sess.Role()))
			}
			return next(ctx, args)
		}
	}
}
