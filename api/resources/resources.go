// FilePath: api/resources/resources.go
package resources

import (
	"net/http"

	"github.com/medwatch/vitalhub/internal/stream"
	"github.com/medwatch/vitalhub/internal/vitalservice"
	nuts "github.com/vaudience/go-nuts"
)

// Resources holds all HTTP resource handlers
type Resources struct {
	Readings    *ReadingHandlers
	Stream      *StreamHandlers
	HealthCheck func(w http.ResponseWriter, r *http.Request)
}

// NewResources creates a new Resources instance
func NewResources(svc *vitalservice.VitalService, hub *stream.Hub) *Resources {
	r := &Resources{
		Readings: &ReadingHandlers{service: svc},
		Stream:   &StreamHandlers{hub: hub},
	}
	r.HealthCheck = healthCheckHandler(svc, hub)
	return r
}

func healthCheckHandler(svc *vitalservice.VitalService, hub *stream.Hub) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		records, err := svc.Readings.Count(r.Context())
		if err != nil {
			respondWithJSON(w, http.StatusServiceUnavailable, map[string]any{
				"status":  "degraded",
				"version": nuts.GetVersion(),
			})
			return
		}

		respondWithJSON(w, http.StatusOK, map[string]any{
			"status":   "ok",
			"version":  nuts.GetVersion(),
			"records":  records,
			"sessions": hub.Len(),
		})
	}
}
