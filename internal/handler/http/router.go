package http

import (
	"log/slog"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
	"github.com/oficina-erp/payroll-engine/internal/domain/user"
	"github.com/oficina-erp/payroll-engine/internal/handler/http/middleware"
	"github.com/oficina-erp/payroll-engine/internal/pkg/jwt"
)

// Handlers groups every HTTP handler mounted by the router.
type Handlers struct {
	Position PositionHandler
	Payroll  PayrollHandler
	Bonus    BonusHandler
	Tax      TaxHandler
}

// RouterOptions carries the parts of the router that differ per environment.
type RouterOptions struct {
	Logger         *slog.Logger
	AllowedOrigins []string
}

func NewRouter(JWTService jwt.Service, h Handlers, opts RouterOptions) *chi.Mux {
	r := chi.NewRouter()

	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   opts.AllowedOrigins,
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link", "Content-Disposition"},
		MaxAge:           300,
	}))

	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  slog.LevelDebug,
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/"))

	r.Route("/api/v1", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(JWTService.JWTAuth()))
			r.Use(middleware.AuthRequired)
			r.Use(middleware.RequireCompany)

			r.Route("/positions", func(r chi.Router) {
				r.With(middleware.RequirePermission(user.PermissionPositionView)).Get("/", h.Position.List)
				r.With(middleware.RequirePermission(user.PermissionPositionView)).Get("/{id}", h.Position.Get)

				r.Group(func(r chi.Router) {
					r.Use(middleware.RequirePermission(user.PermissionPositionManage))
					r.Post("/", h.Position.Create)
					r.Post("/defaults", h.Position.SeedDefaults)
					r.Put("/{id}", h.Position.Update)
				})
			})

			r.Route("/payroll", func(r chi.Router) {
				r.Group(func(r chi.Router) {
					r.Use(middleware.RequirePermission(user.PermissionPayrollView))
					r.Get("/", h.Payroll.List)
					r.Post("/preview", h.Payroll.Preview)
					r.Get("/commission", h.Payroll.PreviewCommission)
					r.Get("/{id}", h.Payroll.Get)
					r.Get("/{id}/payslip.pdf", h.Payroll.Payslip)
				})

				r.Group(func(r chi.Router) {
					r.Use(middleware.RequirePermission(user.PermissionPayrollManage))
					r.Post("/", h.Payroll.Save)
					r.Post("/{id}/recalculate", h.Payroll.Recalculate)
				})
			})

			r.Route("/annual-bonus", func(r chi.Router) {
				r.Group(func(r chi.Router) {
					r.Use(middleware.RequirePermission(user.PermissionBonusView))
					r.Get("/", h.Bonus.List)
					r.Post("/preview", h.Bonus.Preview)
					r.Get("/{id}", h.Bonus.Get)
					r.Get("/{id}/receipt.pdf", h.Bonus.Receipt)
				})

				r.Group(func(r chi.Router) {
					r.Use(middleware.RequirePermission(user.PermissionBonusManage))
					r.Post("/", h.Bonus.Save)
					r.Put("/{id}/twelfths", h.Bonus.UpdateTwelfths)
				})
			})

			r.Route("/tax", func(r chi.Router) {
				r.Use(middleware.RequirePermission(user.PermissionTaxView))
				r.Get("/tables", h.Tax.ListTables)
				r.Get("/tables/{year}", h.Tax.GetTables)
				r.Post("/withholding", h.Tax.PreviewWithholding)
			})
		})
	})

	return r
}
