package httptransport

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	appservice "github.com/Mutawai/ThiQaX-sub002/internal/application/service"
	docservice "github.com/Mutawai/ThiQaX-sub002/internal/document/service"
	jobservice "github.com/Mutawai/ThiQaX-sub002/internal/job/service"
	"github.com/Mutawai/ThiQaX-sub002/internal/platform/middleware"
	"github.com/Mutawai/ThiQaX-sub002/internal/stats"
)

// Deps bundles everything the router wires together.
type Deps struct {
	Documents    *docservice.Service
	Applications *appservice.Service
	Jobs         *jobservice.Service
	Stats        *stats.Service
	Validator    middleware.TokenValidator
	Logger       *slog.Logger
}

// NewRouter wires all endpoints. Health and metrics stay unauthenticated;
// everything under /v1 requires a bearer token.
func NewRouter(deps Deps) http.Handler {
	docs := &documentHandler{docs: deps.Documents}
	apps := &applicationHandler{apps: deps.Applications}
	jobs := &jobHandler{jobs: deps.Jobs}
	dash := &statsHandler{stats: deps.Stats}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/v1", func(r chi.Router) {
		r.Use(middleware.RequireAuth(deps.Validator, deps.Logger))

		r.Route("/documents", func(r chi.Router) {
			r.Post("/", docs.register)
			r.Get("/{documentID}", docs.get)
			r.Get("/{documentID}/history", docs.history)
			r.Get("/{documentID}/expiry", docs.expiry)
			r.Post("/{documentID}/transition", docs.transition)
			r.Post("/{documentID}/notify-expiry", docs.markNotified)
		})

		r.Route("/applications", func(r chi.Router) {
			r.Post("/", apps.create)
			r.Get("/{applicationID}", apps.get)
			r.Get("/{applicationID}/history", apps.history)
			r.Post("/{applicationID}/transition", apps.transition)
			r.Post("/{applicationID}/interviews", apps.scheduleInterview)
			r.Post("/{applicationID}/feedback", apps.addFeedback)
		})

		r.Route("/jobs", func(r chi.Router) {
			r.Post("/", jobs.create)
			r.Get("/{jobID}", jobs.get)
			r.Post("/{jobID}/transition", jobs.transition)
			r.Get("/{jobID}/applications", apps.listByJob)
		})

		r.Route("/users/{userID}", func(r chi.Router) {
			r.Get("/documents", docs.listByOwner)
			r.Get("/applications", apps.listByApplicant)
			r.Get("/jobs", jobs.listBySponsor)
			r.Get("/dashboard", dash.dashboard)
		})
	})

	return r
}
