package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/siakad-cli/internal/handler"
	"github.com/noah-isme/siakad-cli/internal/repository"
	"github.com/noah-isme/siakad-cli/internal/service"
	"github.com/noah-isme/siakad-cli/internal/session"
	"github.com/noah-isme/siakad-cli/pkg/apiclient"
	"github.com/noah-isme/siakad-cli/pkg/cache"
	"github.com/noah-isme/siakad-cli/pkg/config"
	"github.com/noah-isme/siakad-cli/pkg/logger"
	"github.com/noah-isme/siakad-cli/pkg/observability"
	"github.com/noah-isme/siakad-cli/pkg/storage"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	cfg, err := config.Load()
	if err != nil {
		log.Printf("failed to load config: %v", err)
		return 1
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Printf("failed to init logger: %v", err)
		return 1
	}
	defer logr.Sync() //nolint:errcheck

	flush, err := observability.InitSentry(cfg.Sentry.DSN, cfg.Env, cfg.Sentry.Release)
	if err != nil {
		logr.Warn("sentry disabled", zap.Error(err))
	}
	defer flush()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, closeStore, err := sessionStore(ctx, cfg, logr)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}
	defer closeStore()

	sess := session.New(store, logr)
	if err := sess.Restore(ctx); err != nil {
		logr.Warn("session could not be restored; continuing signed out", zap.Error(err))
	}

	metrics := service.NewMetricsService()
	defer func() {
		if err := metrics.WriteTextfile(cfg.Metrics.Textfile); err != nil {
			logr.Warn("failed to write metrics textfile", zap.String("path", cfg.Metrics.Textfile), zap.Error(err))
		}
	}()

	client := apiclient.New(cfg.API.BaseURL, sess,
		apiclient.WithTimeout(cfg.API.Timeout),
		apiclient.WithLogger(logr),
		apiclient.WithObserver(metrics),
	)

	exportStorage, err := storage.NewLocalStorage(cfg.Export.Dir)
	if err != nil {
		logr.Warn("export directory unavailable", zap.Error(err))
	}

	validate := validator.New()
	studentRepo := repository.NewStudentRepository(client)
	courseRepo := repository.NewCourseRepository(client)
	enrollmentRepo := repository.NewEnrollmentRepository(client)
	gradeRepo := repository.NewGradeRepository(client)

	deps := handler.Dependencies{
		Session:     sess,
		Auth:        service.NewAuthService(repository.NewAuthRepository(client), sess, validate, logr),
		Students:    service.NewStudentService(studentRepo, validate, logr),
		Courses:     service.NewCourseService(courseRepo, logr),
		Enrollments: service.NewEnrollmentService(enrollmentRepo, validate, logr),
		Grades:      service.NewGradeService(gradeRepo, logr),
		Transcripts: service.NewTranscriptService(gradeRepo, logr),
		Metrics:     metrics,
		Logger:      logr,
	}
	if exportStorage != nil {
		deps.Export = service.NewExportService(gradeRepo, gradeRepo, exportStorage, service.ExportConfig{
			Workers: cfg.Export.Workers,
			Retries: cfg.Export.Retries,
		}, logr, nil, nil)
	}

	router := handler.NewRouter(deps)
	if err := router.Run(ctx, args); err != nil {
		router.Report(err)
		if handler.IsHelp(err) {
			return 2
		}
		return 1
	}
	return 0
}

func sessionStore(ctx context.Context, cfg *config.Config, logr *zap.Logger) (session.Store, func(), error) {
	switch cfg.Session.Backend {
	case config.SessionBackendRedis:
		client, err := cache.NewRedis(ctx, cfg.Redis)
		if err != nil {
			return nil, nil, fmt.Errorf("session backend: %w", err)
		}
		return repository.NewRedisSessionRepository(client, cfg.Session.KeyPrefix, logr), func() { _ = client.Close() }, nil
	case config.SessionBackendFile, "":
		return repository.NewFileSessionRepository(cfg.Session.File, logr), func() {}, nil
	default:
		return nil, nil, fmt.Errorf("unknown SESSION_BACKEND %q", cfg.Session.Backend)
	}
}
