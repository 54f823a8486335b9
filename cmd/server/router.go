package main

import (
	"net/http"

	"github.com/Sathya-1307/Alumini-Mentorship1/internal/api"
	apiMiddleware "github.com/Sathya-1307/Alumini-Mentorship1/internal/api/middleware"
	"github.com/Sathya-1307/Alumini-Mentorship1/internal/notify"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// setupRouter configures the HTTP router with middleware and the reminder
// routes.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(apiMiddleware.NewTraceMiddleware(app.logger))

	var opts []api.HandlerOption
	if v, ok := app.notifier.(notify.Verifier); ok {
		opts = append(opts, api.WithVerifier(v))
	}
	reminderHandler := api.NewReminderHandler(
		app.engine,
		app.scheduler,
		app.meetingService,
		app.logger,
		opts...,
	)

	r.Route("/api/reminders", reminderHandler.Routes)

	// Liveness probe
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})
	r.Handle("/metrics", app.metrics.Handler())

	return r
}
