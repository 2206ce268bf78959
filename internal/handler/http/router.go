package http

import (
	"log/slog"
	"os"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"

	"github.com/kostadin12/sis-api/internal/config"
)

func NewRouter(
	cfg config.AppConfig,
	absenceHandler AbsenceHandler,
	calendarHandler CalendarHandler,
	reportHandler ReportHandler,
) *chi.Mux {
	r := chi.NewRouter()
	logFormat := httplog.SchemaECS.Concise(false)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", "sis-api"),
		slog.String("version", "v1.0.0"),
		slog.String("env", cfg.Env),
	)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:3000"},
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
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
		r.Route("/absences", func(r chi.Router) {
			r.Post("/", absenceHandler.Create)
			r.Get("/", absenceHandler.List)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", absenceHandler.Get)
				r.Put("/", absenceHandler.Update)
				r.Delete("/", absenceHandler.Delete)
			})
		})

		r.Route("/years/{year}", func(r chi.Router) {
			r.Get("/non-working-days", calendarHandler.NonWorkingDays)
			r.Delete("/", calendarHandler.DeleteYear)
		})

		r.Route("/reports", func(r chi.Router) {
			r.Get("/working-days", reportHandler.WorkingDays)
			r.Get("/availability", reportHandler.Availability)
		})
	})
	return r
}
