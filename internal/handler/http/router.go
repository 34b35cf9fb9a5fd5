package http

import (
	"log/slog"
	"os"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"

	"github.com/hrportal/leave-backend-go/internal/config"
	"github.com/hrportal/leave-backend-go/internal/handler/http/middleware"
	"github.com/hrportal/leave-backend-go/internal/pkg/jwt"
)

func NewRouter(cfg *config.Config, jwtService jwt.Service, leaveHandler LeaveHandler) *chi.Mux {
	r := chi.NewRouter()
	logFormat := httplog.SchemaECS.Concise(false)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", "leave-backend"),
		slog.String("version", "v1.0.0"),
		slog.String("env", cfg.App.Env),
	)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{cfg.App.FrontendURL},
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		MaxAge:           300,
	}))

	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  slog.LevelInfo,
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.AllowContentEncoding("application/json"))
	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/"))

	r.Route("/api/v1", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(jwtService.JWTAuth()))
			r.Use(middleware.AuthRequired(jwtService.JWTAuth()))

			r.Route("/leave", func(r chi.Router) {
				r.Route("/requests", func(r chi.Router) {
					r.Post("/", leaveHandler.SubmitRequest)
					r.Get("/my", leaveHandler.GetMyRequests)
					r.Get("/{id}", leaveHandler.GetRequest)

					r.Group(func(r chi.Router) {
						r.Use(middleware.RequireDirector)
						r.Post("/{id}/approve-director", leaveHandler.ApproveAsDirector)
					})

					r.Group(func(r chi.Router) {
						r.Use(middleware.RequireDepartmentHead)
						r.Post("/{id}/approve-department-head", leaveHandler.ApproveAsDepartmentHead)
					})

					r.Group(func(r chi.Router) {
						r.Use(middleware.RequireApprover)
						r.Post("/{id}/reject", leaveHandler.RejectRequest)
					})

					// HR only
					r.Group(func(r chi.Router) {
						r.Use(middleware.RequireHR)
						r.Get("/", leaveHandler.ListRequests)
						r.Put("/{id}", leaveHandler.EditRequest)
						r.Delete("/{id}", leaveHandler.DeleteRequest)
					})
				})

				r.Route("/balance", func(r chi.Router) {
					r.Get("/my", leaveHandler.GetMyBalance)

					r.Group(func(r chi.Router) {
						r.Use(middleware.RequireHR)
						r.Get("/{employeeId}", leaveHandler.GetBalance)
					})
				})

				r.Post("/working-days", leaveHandler.ComputeWorkingDays)
				r.Get("/holidays", leaveHandler.ListHolidays)
				r.Get("/replacement-candidates", leaveHandler.GetReplacementCandidates)

				// HR only
				r.Group(func(r chi.Router) {
					r.Use(middleware.RequireHR)
					r.Post("/accounts", leaveHandler.CreateAccount)
					r.Post("/bonus-grants", leaveHandler.CreateBonusGrant)
					r.Get("/bonus-grants", leaveHandler.ListBonusGrants)
					r.Post("/carryover/import", leaveHandler.ImportCarryover)
				})
			})
		})
	})

	return r
}
