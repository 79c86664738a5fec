package api

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/medwatch/vitalhub/api/resources"
	"github.com/medwatch/vitalhub/internal/stream"
	"github.com/medwatch/vitalhub/internal/vitalservice"
)

type Router struct {
	router    *mux.Router
	resources *resources.Resources
}

func NewRouter(svc *vitalservice.VitalService, hub *stream.Hub) *Router {
	r := &Router{
		router:    mux.NewRouter(),
		resources: resources.NewResources(svc, hub),
	}

	r.setupRoutes()
	return r
}

func (r *Router) setupRoutes() {
	api := r.router.PathPrefix("/api").Subrouter()

	api.HandleFunc("/health", r.resources.HealthCheck).Methods(http.MethodGet)

	// Readings
	api.HandleFunc("/reading", r.resources.Readings.IngestReading).Methods(http.MethodPost)
	api.HandleFunc("/average", r.resources.Readings.GetAverage).Methods(http.MethodGet)

	// Live feed
	api.HandleFunc("/stream", r.resources.Stream.Subscribe).Methods(http.MethodGet)
}

func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.router.ServeHTTP(w, req)
}
