package http

import (
	"log/slog"
	"os"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
)

func NewRouter(env string, payrollHandler PayrollHandler) *chi.Mux {
	r := chi.NewRouter()
	logFormat := httplog.SchemaECS.Concise(false)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", "payroll-backend"),
		slog.String("version", "v1.0.0"),
		slog.String("env", env),
	)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:3000"},
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		MaxAge:           300,
	}))

	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  slog.LevelDebug,
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.AllowContentEncoding("application/json"))
	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/"))

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/payroll", func(r chi.Router) {
			r.Post("/calculate", payrollHandler.Calculate)
			r.Post("/calculate-batch", payrollHandler.CalculateBatch)
			r.Post("/reconcile", payrollHandler.Reconcile)
			r.Post("/reconcile-batch", payrollHandler.ReconcileBatch)

			r.Route("/results", func(r chi.Router) {
				r.Get("/{employeeID}", payrollHandler.GetResult)
				r.Patch("/{id}/status", payrollHandler.UpdateResultStatus)
			})

			r.Route("/items", func(r chi.Router) {
				r.Post("/", payrollHandler.CreatePayItem)
				r.Get("/{employeeID}", payrollHandler.ListPayItems)
				r.Delete("/{id}", payrollHandler.DeletePayItem)
			})

			r.Route("/parameters", func(r chi.Router) {
				r.Get("/effective", payrollHandler.GetEffectiveParameters)
				r.Post("/", payrollHandler.CreateParameters)
			})
		})
	})
	return r
}
