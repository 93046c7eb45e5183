package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/cmlabs-hris/office-attendance-go/internal/handler/http/middleware"
	"github.com/cmlabs-hris/office-attendance-go/internal/pkg/jwt"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/httprate"
	"github.com/go-chi/jwtauth/v5"
)

// RouterOptions carries the cross-cutting settings of the HTTP surface.
type RouterOptions struct {
	Logger         *slog.Logger
	AllowedOrigins []string
	// UploadsDir is served under /uploads when set.
	UploadsDir string
	// AuthRateLimit is requests per minute per IP on /auth; 0 disables it.
	AuthRateLimit int
}

type Handlers struct {
	Auth       AuthHandler
	Attendance AttendanceHandler
	Report     ReportHandler
	Task       TaskHandler
	Dashboard  DashboardHandler
}

func NewRouter(JWTService jwt.Service, h Handlers, opts RouterOptions) *chi.Mux {
	r := chi.NewRouter()

	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	origins := opts.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"http://localhost:3000"}
	}

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		MaxAge:           300,
	}))

	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  slog.LevelInfo,
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/health"))

	if opts.UploadsDir != "" {
		fs := http.StripPrefix("/uploads/", http.FileServer(http.Dir(opts.UploadsDir)))
		r.Get("/uploads/*", fs.ServeHTTP)
	}

	r.Route("/api/v1", func(r chi.Router) {

		r.Route("/auth", func(r chi.Router) {
			if opts.AuthRateLimit > 0 {
				r.Use(httprate.LimitByIP(opts.AuthRateLimit, time.Minute))
			}
			r.Post("/register", h.Auth.Register)
			r.Post("/login", h.Auth.Login)
			r.Post("/refresh", h.Auth.RefreshToken)
			r.Post("/logout", h.Auth.Logout)

			r.Group(func(r chi.Router) {
				r.Use(jwtauth.Verifier(JWTService.JWTAuth()))
				r.Use(middleware.AuthRequired)
				r.Get("/me", h.Auth.Me)
			})
		})

		// Requires authentication
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(JWTService.JWTAuth()))
			r.Use(middleware.AuthRequired)

			r.Route("/attendance", func(r chi.Router) {
				r.Post("/checkin", h.Attendance.CheckIn)
				r.Put("/checkout", h.Attendance.CheckOut)
				r.Get("/today", h.Attendance.GetToday)
				r.Get("/history", h.Attendance.GetHistory)
				r.Get("/stats", h.Attendance.GetStats)
				r.Get("/monthly", h.Attendance.GetMonthly)

				// Manager only
				r.Group(func(r chi.Router) {
					r.Use(middleware.RequireManager)
					r.Get("/all", h.Attendance.GetAll)
					r.Get("/employee/{employeeID}", h.Attendance.GetEmployeeHistory)
				})
			})

			r.Route("/reports", func(r chi.Router) {
				r.Post("/", h.Report.Create)
				r.Get("/today", h.Report.GetToday)
				r.Get("/history", h.Report.GetHistory)
				r.Get("/stats", h.Report.GetStats)
				r.Put("/{id}", h.Report.Update)
				r.Delete("/{id}", h.Report.Delete)

				// Manager only
				r.Group(func(r chi.Router) {
					r.Use(middleware.RequireManager)
					r.Get("/all", h.Report.ListAll)
					r.Put("/{id}/review", h.Report.Review)
				})
			})

			r.Route("/tasks", func(r chi.Router) {
				r.Get("/stats", h.Task.Stats)
				r.Get("/", h.Task.List)
				r.Get("/{id}", h.Task.Get)
				r.Put("/{id}", h.Task.Update)
				r.Patch("/{id}/status", h.Task.UpdateStatus)
				r.Post("/{id}/comments", h.Task.AddComment)
				r.Post("/{id}/attachments", h.Task.AddAttachment)
				r.Delete("/{id}/attachments/{attachmentID}", h.Task.DeleteAttachment)

				// Manager only
				r.Group(func(r chi.Router) {
					r.Use(middleware.RequireManager)
					r.Post("/", h.Task.Create)
					r.Delete("/{id}", h.Task.Delete)
				})
			})

			r.Route("/users", func(r chi.Router) {
				r.Get("/birthdays/today", h.Dashboard.TodaysBirthdays)
				r.Get("/birthdays/upcoming", h.Dashboard.UpcomingBirthdays)

				// Manager only
				r.Group(func(r chi.Router) {
					r.Use(middleware.RequireManager)
					r.Get("/employees", h.Dashboard.ListEmployees)
					r.Get("/employees/{id}", h.Dashboard.EmployeeDetails)
					r.Get("/team-stats", h.Dashboard.TeamStats)
					r.Get("/attendance-overview", h.Dashboard.AttendanceOverview)
				})
			})
		})
	})
	return r
}
