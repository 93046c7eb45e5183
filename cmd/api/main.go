package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cmlabs-hris/office-attendance-go/internal/config"
	appHTTP "github.com/cmlabs-hris/office-attendance-go/internal/handler/http"
	"github.com/cmlabs-hris/office-attendance-go/internal/pkg/clock"
	"github.com/cmlabs-hris/office-attendance-go/internal/pkg/database"
	"github.com/cmlabs-hris/office-attendance-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/office-attendance-go/internal/pkg/storage"
	"github.com/cmlabs-hris/office-attendance-go/internal/repository/postgresql"
	attendanceService "github.com/cmlabs-hris/office-attendance-go/internal/service/attendance"
	serviceAuth "github.com/cmlabs-hris/office-attendance-go/internal/service/auth"
	dashboardService "github.com/cmlabs-hris/office-attendance-go/internal/service/dashboard"
	"github.com/cmlabs-hris/office-attendance-go/internal/service/file"
	reportService "github.com/cmlabs-hris/office-attendance-go/internal/service/report"
	taskService "github.com/cmlabs-hris/office-attendance-go/internal/service/task"
)

const shutdownTimeout = 15 * time.Second

func main() {
	if err := run(); err != nil {
		slog.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func newLogger(cfg *config.Config) *slog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.App.LogLevel)); err != nil {
		level = slog.LevelInfo
	}
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger := newLogger(cfg)
	slog.SetDefault(logger)

	loc, err := cfg.Location()
	if err != nil {
		return err
	}
	lateThreshold, err := cfg.LateThreshold()
	if err != nil {
		return err
	}
	clk := clock.New(loc)

	db, err := database.NewPostgreSQLDB(cfg.DatabaseURL(), database.PoolOptions{
		MaxConns: cfg.Database.MaxConns,
		MinConns: cfg.Database.MinConns,
	})
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer db.Close()

	userRepo := postgresql.NewUserRepository(db)
	JWTRepository := postgresql.NewJWTRepository(db)
	attendanceRepo := postgresql.NewAttendanceRepository(db)
	reportRepo := postgresql.NewReportRepository(db)
	taskRepo := postgresql.NewTaskRepository(db)

	var fileStorage storage.FileStorage
	switch cfg.Storage.Type {
	case "local":
		fileStorage, err = storage.NewLocalStorage(cfg.Storage.BasePath, cfg.Storage.BaseURL)
		if err != nil {
			return fmt.Errorf("initialize local storage: %w", err)
		}
	default:
		return fmt.Errorf("unsupported storage type %q", cfg.Storage.Type)
	}

	JWTService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration, cfg.JWT.RefreshExpiration)
	fileService := file.NewFileService(fileStorage, storage.UploadOptions{MaxSize: cfg.Storage.MaxUploadSize})

	authService := serviceAuth.NewAuthService(db, userRepo, JWTService, JWTRepository, clk)
	attendanceSvc := attendanceService.NewAttendanceService(attendanceRepo, userRepo, clk, lateThreshold)
	reportSvc := reportService.NewReportService(reportRepo, attendanceRepo, clk)
	taskSvc := taskService.NewTaskService(db, taskRepo, userRepo, fileService, clk)
	dashboardSvc := dashboardService.NewDashboardService(userRepo, attendanceRepo, reportRepo, clk)

	router := appHTTP.NewRouter(JWTService, appHTTP.Handlers{
		Auth:       appHTTP.NewAuthHandler(JWTService, authService),
		Attendance: appHTTP.NewAttendanceHandler(attendanceSvc),
		Report:     appHTTP.NewReportHandler(reportSvc),
		Task:       appHTTP.NewTaskHandler(taskSvc, cfg.Storage.MaxUploadSize),
		Dashboard:  appHTTP.NewDashboardHandler(dashboardSvc),
	}, appHTTP.RouterOptions{
		Logger:         logger,
		AllowedOrigins: cfg.App.CORSOrigins,
		UploadsDir:     cfg.Storage.BasePath,
		AuthRateLimit:  cfg.App.AuthRateLimit,
	})

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening", "addr", server.Addr, "env", cfg.App.Env, "timezone", loc.String())
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
