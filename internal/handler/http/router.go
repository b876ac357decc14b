package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
	"github.com/repsboard/payroll-backend/internal/domain/user"
	"github.com/repsboard/payroll-backend/internal/handler/http/middleware"
	"github.com/repsboard/payroll-backend/internal/handler/http/response"
	"github.com/repsboard/payroll-backend/internal/pkg/jwt"
)

type Handlers struct {
	Auth        AuthHandler
	Events      EventsHandler
	WorkRecord  WorkRecordHandler
	Batch       BatchHandler
	Candidate   CandidateHandler
	Performance PerformanceHandler
	Dashboard   DashboardHandler
}

type RouterOptions struct {
	Logger         *slog.Logger
	AllowedOrigins []string
}

func NewRouter(JWTService jwt.Service, h Handlers, opts RouterOptions) *chi.Mux {
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   opts.AllowedOrigins,
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link", "Content-Disposition"},
		MaxAge:           300,
	}))

	if opts.Logger != nil {
		r.Use(httplog.RequestLogger(opts.Logger, &httplog.Options{
			Level:  slog.LevelDebug,
			Schema: httplog.SchemaECS,
		}))
	}

	r.Use(chiMiddleware.AllowContentEncoding("application/json"))
	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/"))

	r.Route("/api/v1", func(r chi.Router) {

		r.Route("/auth", func(r chi.Router) {
			r.Route("/login", func(r chi.Router) {
				r.Post("/admin", h.Auth.AdminLogin)
				r.Post("/rep", h.Auth.RepLogin)
			})
		})

		// The stream authenticates with its own short-lived token in the query.
		r.Get("/events/stream", h.Events.Stream)

		// Requires authentication
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(JWTService.JWTAuth()))
			r.Use(middleware.AuthRequired(JWTService))

			r.Post("/auth/logout", h.Auth.Logout)
			r.Get("/auth/me", h.Auth.Me)
			r.Get("/events/token", h.Events.Token)

			r.Route("/work-records", func(r chi.Router) {
				r.Get("/", h.WorkRecord.List)
				r.Get("/{id}", h.WorkRecord.Get)

				// Admin only
				r.Group(func(r chi.Router) {
					r.Use(middleware.AdminOnly)
					r.Get("/preview", h.WorkRecord.Preview)
					r.Post("/", h.WorkRecord.Create)
					r.Put("/{id}", h.WorkRecord.Update)
					r.Delete("/{id}", h.WorkRecord.Delete)
				})
			})

			r.Route("/batches", func(r chi.Router) {
				r.Use(middleware.AdminOnly)
				r.Get("/", h.Batch.List)
				r.Post("/", h.Batch.Generate)
				r.Get("/{id}", h.Batch.Get)
				r.Post("/{id}/paid", h.Batch.MarkPaid)
				r.Post("/{id}/revert", h.Batch.Revert)
				r.Get("/{id}/export", h.Batch.Export)
			})

			r.Route("/candidates", func(r chi.Router) {
				r.Use(middleware.AdminOnly)
				r.Get("/", h.Candidate.List)
				r.Post("/", h.Candidate.Create)
				r.Patch("/{id}", h.Candidate.UpdateDetails)
				r.Put("/{id}/status", h.Candidate.UpdateStatus)
				r.Post("/{id}/revoke", h.Candidate.RevokeAccess)
				r.Delete("/{id}", h.Candidate.Delete)
			})

			r.Route("/performance/agents", func(r chi.Router) {
				r.Use(middleware.AdminOnly)
				r.Get("/", h.Performance.ListAgents)
				r.Put("/{name}", h.Performance.UpdateAgent)
			})

			r.Route("/dashboard", func(r chi.Router) {
				r.With(middleware.AdminOnly).Get("/unpaid", h.Dashboard.UnpaidSummary)
				r.With(middleware.RequirePermission(user.PermissionDashboardViewOwn)).Get("/me", h.Dashboard.RepSummary)
			})
		})
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		response.NotFound(w, "Route not found")
	})
	return r
}
