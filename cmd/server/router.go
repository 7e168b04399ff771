package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/phrazzld/nutri-api/internal/api"
	apiMiddleware "github.com/phrazzld/nutri-api/internal/api/middleware"
)

// setupRouter creates the router with middleware and every route.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(apiMiddleware.Trace(app.logger))

	flowHandler := api.NewFlowHandler(app.service, app.logger)
	runHandler := api.NewRunHandler(app.runStore, app.logger)

	r.Route("/api", func(r chi.Router) {
		flowHandler.Routes(r)
		runHandler.Routes(r)
	})

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			app.logger.Error("failed to write health check response", "error", err)
		}
	})

	return r
}
