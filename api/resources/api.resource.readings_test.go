// FilePath: api/resources/api.resource.readings_test.go
package resources

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/medwatch/vitalhub/internal/models"
	"github.com/medwatch/vitalhub/internal/repository/memory"
	"github.com/medwatch/vitalhub/internal/stream"
	"github.com/medwatch/vitalhub/internal/vitalservice"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestResources() (*Resources, *memory.ReadingRepo) {
	repo := memory.NewReadingRepository()
	hub := stream.NewHub(nil)
	svc := vitalservice.New(repo, hub, nil, 60)
	return NewResources(svc, hub), repo
}

func TestIngestReadingPersistsAndReturnsCreated(t *testing.T) {
	res, repo := newTestResources()

	body := `{"patientId":"P001","heartRate":72,"spo2":97.5,"temperature":36.6,"timestamp":1738886400000}`
	request := httptest.NewRequest(http.MethodPost, "/api/reading", strings.NewReader(body))
	recorder := httptest.NewRecorder()

	res.Readings.IngestReading(recorder, request)

	require.Equal(t, http.StatusCreated, recorder.Code)

	var response map[string]bool
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &response))
	assert.True(t, response["success"])

	readings, err := repo.Latest(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, readings, 1)
	assert.Equal(t, "P001", readings[0].PatientID)
	assert.Equal(t, 72, readings[0].HeartRate)
	assert.Equal(t, int64(1738886400000), readings[0].Timestamp)
}

func TestIngestReadingPermissivePartialPayload(t *testing.T) {
	res, repo := newTestResources()

	request := httptest.NewRequest(http.MethodPost, "/api/reading", strings.NewReader(`{"patientId":"P003"}`))
	recorder := httptest.NewRecorder()

	res.Readings.IngestReading(recorder, request)

	require.Equal(t, http.StatusCreated, recorder.Code)

	readings, err := repo.Latest(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, readings, 1)
	assert.Zero(t, readings[0].HeartRate)
	assert.Zero(t, readings[0].SpO2)
}

func TestIngestReadingRejectsMalformedBody(t *testing.T) {
	res, repo := newTestResources()

	request := httptest.NewRequest(http.MethodPost, "/api/reading", strings.NewReader("not json"))
	recorder := httptest.NewRecorder()

	res.Readings.IngestReading(recorder, request)

	assert.Equal(t, http.StatusBadRequest, recorder.Code)

	count, err := repo.Count(context.Background())
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestGetAverageEmptyStoreReturnsZeros(t *testing.T) {
	res, _ := newTestResources()

	request := httptest.NewRequest(http.MethodGet, "/api/average", nil)
	recorder := httptest.NewRecorder()

	res.Readings.GetAverage(recorder, request)

	require.Equal(t, http.StatusOK, recorder.Code)

	var average models.VitalsAverage
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &average))
	assert.Zero(t, average.HeartRate)
	assert.Zero(t, average.SpO2)
	assert.Zero(t, average.Temperature)
}

func TestGetAverageComputesMeans(t *testing.T) {
	res, repo := newTestResources()
	ctx := context.Background()

	for i, hr := range []int{70, 80, 90} {
		require.NoError(t, repo.Insert(ctx, &models.Reading{HeartRate: hr, SpO2: 96, Temperature: 36.5, Timestamp: int64(i + 1)}))
	}

	request := httptest.NewRequest(http.MethodGet, "/api/average", nil)
	recorder := httptest.NewRecorder()

	res.Readings.GetAverage(recorder, request)

	require.Equal(t, http.StatusOK, recorder.Code)

	var average models.VitalsAverage
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &average))
	assert.InDelta(t, 80.0, average.HeartRate, 1e-9)
	assert.InDelta(t, 96.0, average.SpO2, 1e-9)
	assert.InDelta(t, 36.5, average.Temperature, 1e-9)
}

func TestGetAverageHonorsWindowParameter(t *testing.T) {
	res, repo := newTestResources()
	ctx := context.Background()

	for i, hr := range []int{60, 80, 100} {
		require.NoError(t, repo.Insert(ctx, &models.Reading{HeartRate: hr, Timestamp: int64(i + 1)}))
	}

	request := httptest.NewRequest(http.MethodGet, "/api/average?window=2", nil)
	recorder := httptest.NewRecorder()

	res.Readings.GetAverage(recorder, request)

	require.Equal(t, http.StatusOK, recorder.Code)

	var average models.VitalsAverage
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &average))
	assert.InDelta(t, 90.0, average.HeartRate, 1e-9)
}

func TestHealthCheckReportsRecordsAndSessions(t *testing.T) {
	res, repo := newTestResources()

	require.NoError(t, repo.Insert(context.Background(), &models.Reading{Timestamp: 1}))

	request := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	recorder := httptest.NewRecorder()

	res.HealthCheck(recorder, request)

	require.Equal(t, http.StatusOK, recorder.Code)

	var payload map[string]any
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &payload))
	assert.Equal(t, "ok", payload["status"])
	assert.EqualValues(t, 1, payload["records"])
	assert.EqualValues(t, 0, payload["sessions"])
}
