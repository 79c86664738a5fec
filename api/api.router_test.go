package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/medwatch/vitalhub/internal/models"
	"github.com/medwatch/vitalhub/internal/repository/memory"
	"github.com/medwatch/vitalhub/internal/stream"
	"github.com/medwatch/vitalhub/internal/vitalservice"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) (*httptest.Server, *stream.Hub) {
	t.Helper()

	repo := memory.NewReadingRepository()
	hub := stream.NewHub(nil)
	svc := vitalservice.New(repo, hub, nil, 60)
	router := NewRouter(svc, hub)

	server := httptest.NewServer(router)
	t.Cleanup(server.Close)
	t.Cleanup(hub.Close)
	return server, hub
}

func postReading(t *testing.T, server *httptest.Server, body string) *http.Response {
	t.Helper()

	response, err := http.Post(server.URL+"/api/reading", "application/json", bytes.NewReader([]byte(body)))
	require.NoError(t, err)
	t.Cleanup(func() { response.Body.Close() })
	return response
}

func waitForSessions(t *testing.T, hub *stream.Hub, want int) {
	t.Helper()

	deadline := time.Now().Add(2 * time.Second)
	for hub.Len() != want {
		if time.Now().After(deadline) {
			t.Fatalf("expected %d sessions, have %d", want, hub.Len())
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestIngestThenAverageRoundTrip(t *testing.T) {
	server, _ := newTestServer(t)

	for _, body := range []string{
		`{"patientId":"P001","heartRate":70,"spo2":95,"temperature":36.0,"timestamp":1}`,
		`{"patientId":"P001","heartRate":80,"spo2":96,"temperature":36.5,"timestamp":2}`,
		`{"patientId":"P002","heartRate":90,"spo2":97,"temperature":37.0,"timestamp":3}`,
	} {
		response := postReading(t, server, body)
		require.Equal(t, http.StatusCreated, response.StatusCode)
	}

	response, err := http.Get(server.URL + "/api/average")
	require.NoError(t, err)
	defer response.Body.Close()
	require.Equal(t, http.StatusOK, response.StatusCode)

	var average models.VitalsAverage
	require.NoError(t, json.NewDecoder(response.Body).Decode(&average))
	assert.InDelta(t, 80.0, average.HeartRate, 1e-9)
	assert.InDelta(t, 96.0, average.SpO2, 1e-9)
	assert.InDelta(t, 36.5, average.Temperature, 1e-9)
}

func TestStreamPushesNewReadingEvents(t *testing.T) {
	server, hub := newTestServer(t)

	wsURL := "ws" + strings.TrimPrefix(server.URL, "http") + "/api/stream"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	defer conn.Close()

	waitForSessions(t, hub, 1)

	response := postReading(t, server, `{"patientId":"P001","heartRate":72,"spo2":97,"temperature":36.6,"timestamp":1000}`)
	require.Equal(t, http.StatusCreated, response.StatusCode)

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))

	var event stream.Event
	require.NoError(t, conn.ReadJSON(&event))
	assert.Equal(t, stream.EventNewReading, event.Event)
	assert.Equal(t, "P001", event.Data.PatientID)
	assert.Equal(t, 72, event.Data.HeartRate)
	assert.Equal(t, int64(1000), event.Data.Timestamp)
}

func TestStreamDeliversInIngestionOrder(t *testing.T) {
	server, hub := newTestServer(t)

	wsURL := "ws" + strings.TrimPrefix(server.URL, "http") + "/api/stream"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	defer conn.Close()

	waitForSessions(t, hub, 1)

	for ts := 1; ts <= 3; ts++ {
		body := `{"patientId":"P001","heartRate":70,"timestamp":` + strings.Repeat("1", ts) + `}`
		response := postReading(t, server, body)
		require.Equal(t, http.StatusCreated, response.StatusCode)
	}

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	previous := int64(0)
	for i := 0; i < 3; i++ {
		var event stream.Event
		require.NoError(t, conn.ReadJSON(&event))
		assert.Equal(t, stream.EventNewReading, event.Event)
		assert.Greater(t, event.Data.Timestamp, previous)
		previous = event.Data.Timestamp
	}
}

func TestDisconnectedObserverDoesNotBlockOthers(t *testing.T) {
	server, hub := newTestServer(t)

	wsURL := "ws" + strings.TrimPrefix(server.URL, "http") + "/api/stream"

	leaver, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	stayer, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	defer stayer.Close()

	waitForSessions(t, hub, 2)

	leaver.Close()
	waitForSessions(t, hub, 1)

	response := postReading(t, server, `{"patientId":"P001","heartRate":64,"timestamp":42}`)
	require.Equal(t, http.StatusCreated, response.StatusCode)

	stayer.SetReadDeadline(time.Now().Add(2 * time.Second))

	var event stream.Event
	require.NoError(t, stayer.ReadJSON(&event))
	assert.Equal(t, int64(42), event.Data.Timestamp)
}
