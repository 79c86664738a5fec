// FilePath: internal/vitalservice/vitalservice.readings.go
package vitalservice

import (
	"context"

	"github.com/medwatch/vitalhub/internal/models"
)

// IngestReading persists the reading and, once the write has
// committed, hands it to the broadcast path. A failed write never
// triggers a broadcast. The broadcast itself is non-blocking; the
// caller does not wait for observers to receive anything.
func (s *VitalService) IngestReading(ctx context.Context, reading *models.Reading) error {
	if err := s.Readings.Insert(ctx, reading); err != nil {
		return err
	}

	s.Broadcast.Broadcast(*reading)
	s.Events.Emit("reading.ingested", reading.ID)
	return nil
}

// AverageVitals computes the arithmetic mean of heart rate, SpO2 and
// temperature over the window most recent readings, regardless of
// patient. A non-positive window falls back to the configured default.
// An empty store yields zeros rather than an error.
func (s *VitalService) AverageVitals(ctx context.Context, window int) (models.VitalsAverage, error) {
	if window <= 0 {
		window = s.averageWindow
	}

	readings, err := s.Readings.Latest(ctx, window)
	if err != nil {
		return models.VitalsAverage{}, err
	}
	if len(readings) == 0 {
		return models.VitalsAverage{}, nil
	}

	var heartRate, spo2, temperature float64
	for _, reading := range readings {
		heartRate += float64(reading.HeartRate)
		spo2 += reading.SpO2
		temperature += reading.Temperature
	}

	count := float64(len(readings))
	return models.VitalsAverage{
		HeartRate:   heartRate / count,
		SpO2:        spo2 / count,
		Temperature: temperature / count,
	}, nil
}

// AverageWindow returns the configured default rolling window size.
func (s *VitalService) AverageWindow() int {
	return s.averageWindow
}
