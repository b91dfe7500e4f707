package handler

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/noah-isme/siakad-cli/internal/middleware"
	"github.com/noah-isme/siakad-cli/internal/models"
	"github.com/noah-isme/siakad-cli/internal/service"
	"github.com/noah-isme/siakad-cli/internal/session"
	appErrors "github.com/noah-isme/siakad-cli/pkg/errors"
)

var errHelp = errors.New("help provided")

// Dependencies are the services the commands are built from.
type Dependencies struct {
	Session     *session.Session
	Auth        *service.AuthService
	Students    *service.StudentService
	Courses     *service.CourseService
	Enrollments *service.EnrollmentService
	Grades      *service.GradeService
	Transcripts *service.TranscriptService
	Export      *service.ExportService
	Metrics     *service.MetricsService
	Logger      *zap.Logger
}

// Option customises a Router.
type Option func(*Router)

// WithIO replaces stdin, stdout and stderr.
func WithIO(in io.Reader, out, errOut io.Writer) Option {
	return func(r *Router) {
		r.in = bufio.NewReader(in)
		r.out = out
		r.errOut = errOut
	}
}

type command struct {
	name    string
	usage   string
	section models.Section
	public  bool
	run     middleware.HandlerFunc
}

// Router dispatches command lines to page handlers.
type Router struct {
	deps     Dependencies
	in       *bufio.Reader
	out      io.Writer
	errOut   io.Writer
	logger   *zap.Logger
	commands map[string]*command
}

// NewRouter registers every command.
func NewRouter(deps Dependencies, opts ...Option) *Router {
	r := &Router{
		deps:     deps,
		in:       bufio.NewReader(os.Stdin),
		out:      os.Stdout,
		errOut:   os.Stderr,
		logger:   deps.Logger,
		commands: make(map[string]*command),
	}
	if r.logger == nil {
		r.logger = zap.NewNop()
	}
	for _, opt := range opts {
		opt(r)
	}

	r.register(&command{name: "login", usage: "login -username U [-password P]", public: true, run: r.login})
	r.register(&command{name: "register", usage: "register -username U -email E -fullname N -role R", public: true, run: r.registerUser})
	r.register(&command{name: "logout", usage: "logout", public: true, run: r.logout})
	r.register(&command{name: "whoami", usage: "whoami", run: r.whoami})
	r.register(&command{name: "dashboard", usage: "dashboard", run: r.dashboard})
	r.register(&command{name: "students", usage: "students list [-q term] | create ... | delete -nim N [-yes]", section: models.SectionStudents, run: r.students})
	r.register(&command{name: "courses", usage: "courses list [-q term]", section: models.SectionCourses, run: r.courses})
	r.register(&command{name: "enrollments", usage: "enrollments list [-q term] | create ... | delete -id ID [-yes]", section: models.SectionEnrollments, run: r.enrollments})
	r.register(&command{name: "grades", usage: "grades list [-q term] | finalize -id ID [-yes]", section: models.SectionGrades, run: r.grades})
	r.register(&command{name: "transcript", usage: "transcript -nim N", section: models.SectionTranscript, run: r.transcript})
	r.register(&command{name: "export", usage: "export transcript -nim N[,N...] [-format csv|pdf] | grades [-format csv|pdf]", run: r.export})
	r.register(&command{name: "help", usage: "help", public: true, run: r.help})
	return r
}

func (r *Router) register(cmd *command) {
	var guard middleware.Middleware
	switch {
	case cmd.section != "":
		guard = middleware.RequireSection(r.deps.Session, cmd.section)
	case !cmd.public:
		guard = middleware.RequireSession(r.deps.Session)
	}
	mws := []middleware.Middleware{middleware.Metrics(r.deps.Metrics, cmd.name)}
	if guard != nil {
		mws = append(mws, guard)
	}
	cmd.run = middleware.Chain(cmd.run, mws...)
	r.commands[cmd.name] = cmd
}

// Run executes one command line. args excludes the program name.
func (r *Router) Run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		r.printUsage()
		return errHelp
	}
	if args[0] == "shell" {
		return r.Shell(ctx)
	}
	cmd, ok := r.commands[args[0]]
	if !ok {
		r.printUsage()
		return fmt.Errorf("%q: no such command", args[0])
	}
	return cmd.run(ctx, args[1:])
}

// Available lists the commands the current session may run, sorted by name.
func (r *Router) Available() []string {
	role := r.deps.Session.Role()
	authenticated := r.deps.Session.Authenticated()
	names := make([]string, 0, len(r.commands))
	for name, cmd := range r.commands {
		switch {
		case cmd.section != "":
			if !authenticated || !middleware.Visible(role, cmd.section) {
				continue
			}
		case !cmd.public && !authenticated:
			continue
		}
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (r *Router) help(ctx context.Context, args []string) error {
	fmt.Fprintln(r.out, "Commands:")
	for _, name := range r.Available() {
		fmt.Fprintf(r.out, "  %s\n", r.commands[name].usage)
	}
	return nil
}

func (r *Router) printUsage() {
	fmt.Fprintln(r.errOut, "Usage: siakad <command> [flags]")
	for _, name := range r.Available() {
		fmt.Fprintf(r.errOut, "  %s\n", r.commands[name].usage)
	}
	fmt.Fprintln(r.errOut, "  shell")
}

// Report prints err for the operator. Help requests print nothing.
func (r *Router) Report(err error) {
	if err == nil || errors.Is(err, errHelp) {
		return
	}
	fmt.Fprintf(r.errOut, "error: %s\n", appErrors.Message(err))
	switch {
	case errors.Is(err, appErrors.ErrUnauthorized), errors.Is(err, appErrors.ErrNotAuthenticated):
		fmt.Fprintln(r.errOut, "hint: sign in again with `siakad login`")
	case errors.Is(err, appErrors.ErrTransport):
		fmt.Fprintln(r.errOut, "hint: check API_BASE_URL and that the server is running")
	}
	r.logger.Debug("command failed", zap.Error(err))
}

// IsHelp reports whether err only signals that usage was printed.
func IsHelp(err error) bool {
	return errors.Is(err, errHelp)
}

func subcommand(args []string) (string, []string) {
	if len(args) == 0 || strings.HasPrefix(args[0], "-") {
		return "list", args
	}
	return args[0], args[1:]
}
