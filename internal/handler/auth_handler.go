package handler

import (
	"context"
	"time"

	"github.com/noah-isme/siakad-cli/internal/middleware"
	"github.com/noah-isme/siakad-cli/internal/models"
	appErrors "github.com/noah-isme/siakad-cli/pkg/errors"
)

func (r *Router) login(ctx context.Context, args []string) error {
	fs := r.flagSet("login")
	username := fs.String("username", "", "Account username.")
	password := fs.String("password", "", "Account password. Prompted when omitted.")
	if err := parse(fs, args); err != nil {
		return err
	}
	if *username == "" {
		fs.Usage()
		return errHelp
	}
	if *password == "" {
		pwd, err := r.readPassword(ctx)
		if err != nil {
			return err
		}
		*password = pwd
	}

	user, err := r.deps.Auth.Login(ctx, *username, *password)
	if err != nil {
		return err
	}
	r.printf("Signed in as %s (%s)\n", user.Username, user.Role)
	r.printSections(user.Role)
	return nil
}

func (r *Router) registerUser(ctx context.Context, args []string) error {
	fs := r.flagSet("register")
	username := fs.String("username", "", "Account username.")
	email := fs.String("email", "", "Email address.")
	fullName := fs.String("fullname", "", "Full name.")
	role := fs.String("role", string(models.RoleStudent), "One of admin, lecturer, student.")
	password := fs.String("password", "", "Account password. Prompted when omitted.")
	if err := parse(fs, args); err != nil {
		return err
	}
	if *username == "" {
		fs.Usage()
		return errHelp
	}
	if *password == "" {
		pwd, err := r.readPassword(ctx)
		if err != nil {
			return err
		}
		*password = pwd
	}

	user, err := r.deps.Auth.Register(ctx, models.RegisterRequest{
		Username: *username,
		Email:    *email,
		Password: *password,
		FullName: *fullName,
		Role:     models.UserRole(*role),
	})
	if err != nil {
		return err
	}
	r.printf("Registered and signed in as %s (%s)\n", user.Username, user.Role)
	r.printSections(user.Role)
	return nil
}

func (r *Router) logout(ctx context.Context, args []string) error {
	r.deps.Auth.Logout(ctx)
	r.printf("Signed out\n")
	return nil
}

func (r *Router) whoami(ctx context.Context, args []string) error {
	user, err := r.deps.Auth.Current()
	if err != nil {
		return err
	}
	t := newTable(r.out, "FIELD", "VALUE")
	t.row("username", user.Username)
	t.row("name", user.FullName)
	t.row("email", user.Email)
	t.row("role", string(user.Role))
	if exp, ok := r.deps.Auth.TokenExpiry(); ok {
		status := exp.Local().Format(time.RFC3339)
		if time.Now().After(exp) {
			status += " (expired)"
		}
		t.row("token expires", status)
	}
	t.flush()
	return nil
}

func (r *Router) printSections(role models.UserRole) {
	sections := middleware.VisibleSections(role)
	if len(sections) == 0 {
		r.printf("No sections are available for role %q\n", role)
		return
	}
	r.printf("Available:")
	for _, s := range sections {
		r.printf(" %s", s)
	}
	r.printf("\n")
}

// currentUser returns the signed in user for pages that greet them.
func (r *Router) currentUser() (models.User, error) {
	user, ok := r.deps.Session.User()
	if !ok {
		return models.User{}, appErrors.ErrNotAuthenticated
	}
	return user, nil
}
