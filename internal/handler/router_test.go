package handler

import (
	"bytes"
	"context"
	"errors"
	"os"
	"strings"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/siakad-cli/internal/models"
	"github.com/noah-isme/siakad-cli/internal/repository"
	"github.com/noah-isme/siakad-cli/internal/service"
	"github.com/noah-isme/siakad-cli/internal/session"
	"github.com/noah-isme/siakad-cli/internal/testutil/fakeapi"
	"github.com/noah-isme/siakad-cli/pkg/apiclient"
	appErrors "github.com/noah-isme/siakad-cli/pkg/errors"
	"github.com/noah-isme/siakad-cli/pkg/storage"
)

var (
	adminUser   = models.User{ID: 1, Username: "admin1", FullName: "Admin Satu", Role: models.RoleAdmin}
	studentUser = models.User{ID: 2, Username: "mhs1", FullName: "Mahasiswa Satu", Role: models.RoleStudent}
	lectUser    = models.User{ID: 3, Username: "dosen1", FullName: "Dosen Satu", Role: models.RoleLecturer}
)

type harness struct {
	srv       *fakeapi.Server
	sess      *session.Session
	router    *Router
	out       *bytes.Buffer
	errOut    *bytes.Buffer
	exportDir string
}

func newHarness(t *testing.T, input string) *harness {
	t.Helper()
	srv := fakeapi.New(t)
	srv.AddUser(adminUser, "secret", "t1")
	srv.AddUser(studentUser, "secret", "t2")
	srv.AddUser(lectUser, "secret", "t3")
	srv.Seed(
		[]models.Student{{NIM: "2021001", Name: "Budi", Major: "Informatika"}, {NIM: "2021002", Name: "Siti", Major: "Sistem Informasi"}},
		[]models.Course{{ID: 10, CourseCode: "IF101", CourseName: "Algoritma", Credits: 3, MaxCapacity: 40, CurrentEnrollment: 12}},
		nil,
		[]models.Grade{
			{ID: 1, NIM: "2021001", Semester: "Ganjil", AcademicYear: "2024/2025", Status: models.GradeStatusDraft},
			{ID: 2, NIM: "2021002", Semester: "Ganjil", AcademicYear: "2024/2025", Status: models.GradeStatusFinal},
		},
	)

	logger := zap.NewNop()
	sess := session.New(repository.NewMemorySessionRepository(), logger)
	client := apiclient.New(srv.URL, sess)
	validate := validator.New()
	gradeRepo := repository.NewGradeRepository(client)

	dir := t.TempDir()
	files, err := storage.NewLocalStorage(dir)
	require.NoError(t, err)

	deps := Dependencies{
		Session:     sess,
		Auth:        service.NewAuthService(repository.NewAuthRepository(client), sess, validate, logger),
		Students:    service.NewStudentService(repository.NewStudentRepository(client), validate, logger),
		Courses:     service.NewCourseService(repository.NewCourseRepository(client), logger),
		Enrollments: service.NewEnrollmentService(repository.NewEnrollmentRepository(client), validate, logger),
		Grades:      service.NewGradeService(gradeRepo, logger),
		Transcripts: service.NewTranscriptService(gradeRepo, logger),
		Export:      service.NewExportService(gradeRepo, gradeRepo, files, service.ExportConfig{Workers: 2}, logger, nil, nil),
		Metrics:     service.NewMetricsService(),
		Logger:      logger,
	}

	h := &harness{srv: srv, sess: sess, out: &bytes.Buffer{}, errOut: &bytes.Buffer{}, exportDir: dir}
	h.router = NewRouter(deps, WithIO(strings.NewReader(input), h.out, h.errOut))
	return h
}

func (h *harness) signIn(t *testing.T, user models.User, token string) {
	t.Helper()
	require.NoError(t, h.sess.Establish(context.Background(), token, user))
}

func mockTerminal(t *testing.T, terminal bool, password string) {
	t.Helper()
	origIsTerminal, origReadPassword := isTerminalFunc, readPasswordFunc
	t.Cleanup(func() {
		isTerminalFunc, readPasswordFunc = origIsTerminal, origReadPassword
	})
	isTerminalFunc = func(int) bool { return terminal }
	readPasswordFunc = func(int) ([]byte, error) { return []byte(password), nil }
}

func TestLogin(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		input    string
		terminal bool
		password string
		wantErr  error
	}{
		{name: "password flag", args: []string{"login", "-username", "admin1", "-password", "secret"}},
		{name: "password from stdin", args: []string{"login", "-username", "admin1"}, input: "secret\n"},
		{name: "password from terminal", args: []string{"login", "-username", "admin1"}, terminal: true, password: "secret"},
		{name: "wrong password", args: []string{"login", "-username", "admin1", "-password", "nope"}, wantErr: appErrors.ErrUnauthorized},
		{name: "missing password", args: []string{"login", "-username", "admin1"}, wantErr: appErrors.ErrValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockTerminal(t, tt.terminal, tt.password)
			h := newHarness(t, tt.input)

			err := h.router.Run(context.Background(), tt.args)
			if tt.wantErr != nil {
				require.Error(t, err)
				assert.True(t, errors.Is(err, tt.wantErr), err)
				assert.False(t, h.sess.Authenticated())
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "t1", h.sess.Token())
			assert.Contains(t, h.out.String(), "Signed in as admin1 (admin)")
			assert.Contains(t, h.out.String(), "Available: students courses enrollments grades\n")
		})
	}
}

func TestLoginWithoutUsernamePrintsUsage(t *testing.T) {
	h := newHarness(t, "")
	err := h.router.Run(context.Background(), []string{"login"})
	assert.True(t, IsHelp(err))
	assert.Empty(t, h.srv.Requests())
}

func TestRegisterSignsIn(t *testing.T) {
	h := newHarness(t, "")
	err := h.router.Run(context.Background(), []string{"register",
		"-username", "mhs9", "-email", "mhs9@kampus.ac.id", "-fullname", "Mahasiswa Sembilan", "-password", "pw"})
	require.NoError(t, err)
	user, ok := h.sess.User()
	require.True(t, ok)
	assert.Equal(t, models.RoleStudent, user.Role)
	assert.Contains(t, h.out.String(), "Available: courses enrollments transcript\n")
}

func TestLogoutClearsSession(t *testing.T) {
	h := newHarness(t, "")
	h.signIn(t, adminUser, "t1")

	require.NoError(t, h.router.Run(context.Background(), []string{"logout"}))
	assert.False(t, h.sess.Authenticated())
	assert.Empty(t, h.sess.Token())

	err := h.router.Run(context.Background(), []string{"students"})
	assert.True(t, errors.Is(err, appErrors.ErrNotAuthenticated))
}

func TestCommandGating(t *testing.T) {
	tests := []struct {
		name    string
		user    *models.User
		token   string
		args    []string
		wantErr error
		path    string
	}{
		{name: "anonymous courses", args: []string{"courses"}, wantErr: appErrors.ErrNotAuthenticated, path: "/api/courses"},
		{name: "anonymous whoami", args: []string{"whoami"}, wantErr: appErrors.ErrNotAuthenticated},
		{name: "student students", user: &studentUser, token: "t2", args: []string{"students", "list"}, wantErr: appErrors.ErrSectionHidden, path: "/api/students"},
		{name: "student grades", user: &studentUser, token: "t2", args: []string{"grades"}, wantErr: appErrors.ErrSectionHidden, path: "/api/grades"},
		{name: "lecturer enrollments", user: &lectUser, token: "t3", args: []string{"enrollments"}, wantErr: appErrors.ErrSectionHidden, path: "/api/enrollments"},
		{name: "admin transcript", user: &adminUser, token: "t1", args: []string{"transcript", "-nim", "2021001"}, wantErr: appErrors.ErrSectionHidden, path: "/api/grades/student/2021001/transcript"},
		{name: "student export grades", user: &studentUser, token: "t2", args: []string{"export", "grades"}, wantErr: appErrors.ErrSectionHidden, path: "/api/grades"},
		{name: "lecturer students", user: &lectUser, token: "t3", args: []string{"students"}, path: "/api/students"},
		{name: "student courses", user: &studentUser, token: "t2", args: []string{"courses"}, path: "/api/courses"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t, "")
			if tt.user != nil {
				h.signIn(t, *tt.user, tt.token)
			}

			err := h.router.Run(context.Background(), tt.args)
			if tt.wantErr == nil {
				require.NoError(t, err)
				assert.Equal(t, 1, h.srv.Count("GET", tt.path))
				return
			}
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.wantErr), err)
			if tt.path != "" {
				assert.Zero(t, h.srv.Count("GET", tt.path))
			}
		})
	}
}

func TestHelpListsReachableCommands(t *testing.T) {
	h := newHarness(t, "")
	assert.Equal(t, []string{"help", "login", "logout", "register"}, h.router.Available())

	h.signIn(t, studentUser, "t2")
	assert.Equal(t, []string{"courses", "dashboard", "enrollments", "export", "help", "login", "logout", "register", "transcript", "whoami"},
		h.router.Available())

	require.NoError(t, h.router.Run(context.Background(), []string{"help"}))
	assert.Contains(t, h.out.String(), "transcript -nim N")
	assert.NotContains(t, h.out.String(), "students list")
}

func TestUnknownCommand(t *testing.T) {
	h := newHarness(t, "")
	err := h.router.Run(context.Background(), []string{"bogus"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no such command")
	assert.Contains(t, h.errOut.String(), "Usage: siakad")

	assert.True(t, IsHelp(h.router.Run(context.Background(), nil)))
}

func TestDashboard(t *testing.T) {
	h := newHarness(t, "")
	h.signIn(t, lectUser, "t3")

	require.NoError(t, h.router.Run(context.Background(), []string{"dashboard"}))
	out := h.out.String()
	assert.Contains(t, out, "Welcome, Dosen Satu")
	assert.Contains(t, out, "siakad students list")
	assert.Contains(t, out, "siakad grades list")
	assert.NotContains(t, out, "Transcript")
}

func TestStudentsListFilter(t *testing.T) {
	h := newHarness(t, "")
	h.signIn(t, adminUser, "t1")

	require.NoError(t, h.router.Run(context.Background(), []string{"students", "-q", "siti"}))
	assert.Contains(t, h.out.String(), "Siti")
	assert.NotContains(t, h.out.String(), "Budi")
	assert.Contains(t, h.out.String(), "1 of 2 students\n")
}

func TestStudentsDelete(t *testing.T) {
	tests := []struct {
		name        string
		input       string
		args        []string
		wantDeleted bool
	}{
		{name: "declined", input: "n\n", args: []string{"students", "delete", "-nim", "2021001"}},
		{name: "no answer", input: "", args: []string{"students", "delete", "-nim", "2021001"}},
		{name: "confirmed", input: "y\n", args: []string{"students", "delete", "-nim", "2021001"}, wantDeleted: true},
		{name: "assume yes", args: []string{"students", "delete", "-nim", "2021001", "-yes"}, wantDeleted: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t, tt.input)
			h.signIn(t, adminUser, "t1")

			require.NoError(t, h.router.Run(context.Background(), tt.args))
			if !tt.wantDeleted {
				assert.Contains(t, h.out.String(), "Aborted")
				assert.Zero(t, h.srv.Count("DELETE", "/api/students/2021001"))
				assert.Len(t, h.srv.Students(), 2)
				return
			}
			assert.Contains(t, h.out.String(), "Student 2021001 deleted")
			assert.Equal(t, 1, h.srv.Count("DELETE", "/api/students/2021001"))
			assert.Len(t, h.srv.Students(), 1)
		})
	}
}

func TestStudentsCreateValidation(t *testing.T) {
	h := newHarness(t, "")
	h.signIn(t, adminUser, "t1")

	err := h.router.Run(context.Background(), []string{"students", "create", "-nim", "2021003"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, appErrors.ErrValidation))
	assert.Zero(t, h.srv.Count("POST", "/api/students"))
}

func TestGradesFinalize(t *testing.T) {
	h := newHarness(t, "")
	h.signIn(t, adminUser, "t1")
	ctx := context.Background()

	require.NoError(t, h.router.Run(ctx, []string{"grades", "finalize", "-id", "1", "-yes"}))
	assert.Contains(t, h.out.String(), "Grade #1 finalized")
	assert.Equal(t, 1, h.srv.Count("POST", "/api/grades/1/finalize"))

	err := h.router.Run(ctx, []string{"grades", "finalize", "-id", "2", "-yes"})
	assert.True(t, errors.Is(err, appErrors.ErrFinalized))
	assert.Zero(t, h.srv.Count("POST", "/api/grades/2/finalize"))

	err = h.router.Run(ctx, []string{"grades", "finalize", "-id", "99", "-yes"})
	assert.True(t, errors.Is(err, appErrors.ErrNotFound))
}

func TestTranscript(t *testing.T) {
	h := newHarness(t, "")
	h.signIn(t, studentUser, "t2")
	ctx := context.Background()

	err := h.router.Run(ctx, []string{"transcript", "-nim", "  "})
	require.Error(t, err)
	assert.True(t, errors.Is(err, appErrors.ErrValidation))
	assert.Equal(t, "nim is required", appErrors.Message(err))

	err = h.router.Run(ctx, []string{"transcript", "-nim", "2021009"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, appErrors.ErrNotFound))

	h.srv.SetTranscript(models.Transcript{NIM: "2021001", StudentName: "Budi", CumulativeGPA: 3.5, TotalCredits: 3,
		Grades: []models.Grade{{ID: 1, Course: &models.Course{CourseCode: "IF101", CourseName: "Algoritma", Credits: 3}}}})
	require.NoError(t, h.router.Run(ctx, []string{"transcript", "-nim", "2021001"}))
	assert.Contains(t, h.out.String(), "Budi (2021001)")
	assert.Contains(t, h.out.String(), "GPA: 3.50")
	assert.Contains(t, h.out.String(), "IF101")
}

func TestExportTranscripts(t *testing.T) {
	h := newHarness(t, "")
	h.signIn(t, studentUser, "t2")
	h.srv.SetTranscript(models.Transcript{NIM: "2021001", StudentName: "Budi"})
	ctx := context.Background()

	require.NoError(t, h.router.Run(ctx, []string{"export", "transcript", "-nim", "2021001"}))
	assert.Contains(t, h.out.String(), "Wrote ")
	entries, err := os.ReadDir(h.exportDir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.True(t, strings.HasPrefix(entries[0].Name(), "transcript-2021001-"))

	err = h.router.Run(ctx, []string{"export", "transcript", "-nim", "2021001,2021009"})
	require.Error(t, err)
	assert.Equal(t, "1 of 2 exports failed", appErrors.Message(err))

	err = h.router.Run(ctx, []string{"export", "transcript", "-nim", "2021001", "-format", "xlsx"})
	assert.True(t, errors.Is(err, appErrors.ErrValidation))
}

func TestShell(t *testing.T) {
	input := strings.Join([]string{
		"courses",
		"login -username admin1 -password secret",
		`students -q "sistem informasi"`,
		"bogus",
		`courses -q "IF`,
		"exit",
		"whoami",
	}, "\n") + "\n"
	h := newHarness(t, input)

	require.NoError(t, h.router.Run(context.Background(), []string{"shell"}))
	errOut := h.errOut.String()
	assert.Contains(t, errOut, "error: not logged in")
	assert.Contains(t, errOut, "siakad(admin1)> ")
	assert.Contains(t, errOut, "no such command")
	assert.Contains(t, errOut, "unterminated quote")
	assert.Contains(t, h.out.String(), "1 of 2 students")
	assert.NotContains(t, h.out.String(), "FIELD")
}

func TestShellStopsAtEOF(t *testing.T) {
	h := newHarness(t, "help")
	require.NoError(t, h.router.Shell(context.Background()))
	assert.Contains(t, h.out.String(), "Commands:")
}

func TestReportHints(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{err: appErrors.ErrUnauthorized, want: "siakad login"},
		{err: appErrors.ErrNotAuthenticated, want: "siakad login"},
		{err: appErrors.ErrTransport, want: "API_BASE_URL"},
		{err: appErrors.Clone(appErrors.ErrValidation, "nim is required"), want: "error: nim is required\n"},
	}
	for _, tt := range tests {
		h := newHarness(t, "")
		h.router.Report(tt.err)
		assert.Contains(t, h.errOut.String(), tt.want)
	}

	h := newHarness(t, "")
	h.router.Report(errHelp)
	assert.Empty(t, h.errOut.String())
}

func TestSplitArgs(t *testing.T) {
	tests := []struct {
		line    string
		want    []string
		wantErr bool
	}{
		{line: "", want: nil},
		{line: "  courses   list ", want: []string{"courses", "list"}},
		{line: `students -q "Sistem Informasi"`, want: []string{"students", "-q", "Sistem Informasi"}},
		{line: `login -password ""`, want: []string{"login", "-password", ""}},
		{line: `courses -q "IF`, wantErr: true},
	}
	for _, tt := range tests {
		got, err := splitArgs(tt.line)
		if tt.wantErr {
			assert.Error(t, err, tt.line)
			continue
		}
		require.NoError(t, err, tt.line)
		assert.Equal(t, tt.want, got, tt.line)
	}
}
