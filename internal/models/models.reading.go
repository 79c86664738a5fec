// FilePath: internal/models/models.reading.go
package models

import (
	"bytes"
	"encoding/json"
	"strconv"
)

// Reading represents a single physiological measurement for a patient.
type Reading struct {
	ID          string  `json:"id,omitempty" db:"id"`
	PatientID   string  `json:"patientId" db:"patient_id"`
	HeartRate   int     `json:"heartRate" db:"heart_rate"`
	SpO2        float64 `json:"spo2" db:"spo2"`
	Temperature float64 `json:"temperature" db:"temperature"`
	Timestamp   int64   `json:"timestamp" db:"timestamp"`
}

// VitalsAverage holds per-field arithmetic means over a reading window.
type VitalsAverage struct {
	HeartRate   float64 `json:"heartRate"`
	SpO2        float64 `json:"spo2"`
	Temperature float64 `json:"temperature"`
}

// DecodeReading deserializes a reading payload permissively: absent
// fields become zero values, numeric fields accept number or numeric
// string forms, and unknown fields are ignored. Only a payload that is
// not a JSON object at all is rejected.
func DecodeReading(raw []byte) (Reading, error) {
	decoder := json.NewDecoder(bytes.NewReader(raw))
	decoder.UseNumber()

	var payload map[string]any
	if err := decoder.Decode(&payload); err != nil {
		return Reading{}, err
	}

	reading := Reading{
		PatientID:   stringField(payload, "patientId"),
		HeartRate:   int(int64Field(payload, "heartRate")),
		SpO2:        floatField(payload, "spo2"),
		Temperature: floatField(payload, "temperature"),
		Timestamp:   int64Field(payload, "timestamp"),
	}
	return reading, nil
}

func stringField(payload map[string]any, key string) string {
	value, ok := payload[key]
	if !ok {
		return ""
	}
	if text, ok := value.(string); ok {
		return text
	}
	return ""
}

func floatField(payload map[string]any, key string) float64 {
	value, ok := payload[key]
	if !ok {
		return 0
	}
	parsed, err := parseFloat(value)
	if err != nil {
		return 0
	}
	return parsed
}

func int64Field(payload map[string]any, key string) int64 {
	value, ok := payload[key]
	if !ok {
		return 0
	}
	parsed, err := parseInt64(value)
	if err != nil {
		return 0
	}
	return parsed
}

func parseFloat(value any) (float64, error) {
	switch typed := value.(type) {
	case json.Number:
		return typed.Float64()
	case string:
		return strconv.ParseFloat(typed, 64)
	case float64:
		return typed, nil
	default:
		return 0, strconv.ErrSyntax
	}
}

func parseInt64(value any) (int64, error) {
	switch typed := value.(type) {
	case json.Number:
		if intValue, err := typed.Int64(); err == nil {
			return intValue, nil
		}
		floatValue, err := typed.Float64()
		if err != nil {
			return 0, err
		}
		return int64(floatValue), nil
	case string:
		if intValue, err := strconv.ParseInt(typed, 10, 64); err == nil {
			return intValue, nil
		}
		floatValue, err := strconv.ParseFloat(typed, 64)
		if err != nil {
			return 0, err
		}
		return int64(floatValue), nil
	case float64:
		return int64(typed), nil
	default:
		return 0, strconv.ErrSyntax
	}
}
