// FilePath: api/resources/api.resource.readings.go
package resources

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/gorilla/schema"
	"github.com/medwatch/vitalhub/internal/errors"
	"github.com/medwatch/vitalhub/internal/models"
	"github.com/medwatch/vitalhub/internal/vitalservice"
	nuts "github.com/vaudience/go-nuts"
)

const maxReadingBodyBytes = 1 << 20

// ReadingHandlers encapsulates the reading-related HTTP handlers
type ReadingHandlers struct {
	service *vitalservice.VitalService
}

var queryDecoder = newQueryDecoder()

func newQueryDecoder() *schema.Decoder {
	decoder := schema.NewDecoder()
	decoder.IgnoreUnknownKeys(true)
	return decoder
}

// @Summary Ingest a reading
// @Description Persist one physiological reading and broadcast it to all connected observers
// @Tags readings
// @Accept json
// @Produce json
// @Param reading body models.Reading true "Reading payload"
// @Success 201 {object} map[string]bool
// @Failure 400 {object} errors.APIError
// @Failure 500 {object} errors.APIError
// @Router /reading [post]
func (h *ReadingHandlers) IngestReading(w http.ResponseWriter, r *http.Request) {
	requestID := nuts.NID("req", 12)

	r.Body = http.MaxBytesReader(w, r.Body, maxReadingBodyBytes)
	payload, err := io.ReadAll(r.Body)
	if err != nil {
		respondWithError(w, errors.NewValidationError("invalid request body", err).WithRequestID(requestID))
		return
	}

	reading, err := models.DecodeReading(payload)
	if err != nil {
		respondWithError(w, errors.NewValidationError("invalid request body", err).WithRequestID(requestID))
		return
	}

	if err := h.service.IngestReading(r.Context(), &reading); err != nil {
		respondWithError(w, errors.NewDatabaseError("failed to persist reading", err).WithRequestID(requestID))
		return
	}

	respondWithJSON(w, http.StatusCreated, map[string]bool{"success": true})
}

type averageQuery struct {
	Window int `schema:"window"`
}

// @Summary Get average vitals
// @Description Arithmetic mean of heart rate, SpO2 and temperature over the most recent readings
// @Tags readings
// @Produce json
// @Param window query int false "Rolling window size (defaults to 60)"
// @Success 200 {object} models.VitalsAverage
// @Failure 500 {object} errors.APIError
// @Router /average [get]
func (h *ReadingHandlers) GetAverage(w http.ResponseWriter, r *http.Request) {
	requestID := nuts.NID("req", 12)

	var query averageQuery
	if err := queryDecoder.Decode(&query, r.URL.Query()); err != nil {
		respondWithError(w, errors.NewValidationError("invalid query parameters", err).WithRequestID(requestID))
		return
	}

	average, err := h.service.AverageVitals(r.Context(), query.Window)
	if err != nil {
		respondWithError(w, errors.NewDatabaseError("failed to compute average", err).WithRequestID(requestID))
		return
	}

	respondWithJSON(w, http.StatusOK, average)
}

func respondWithError(w http.ResponseWriter, err *errors.APIError) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(err.Code)
	json.NewEncoder(w).Encode(err)
	nuts.L.Errorf("[API] %s", err.Error())
}

func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(payload)
}
