// FilePath: cmd/loadgen/main.go
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"math"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"time"
)

type reading struct {
	PatientID   string  `json:"patientId"`
	HeartRate   int     `json:"heartRate"`
	SpO2        float64 `json:"spo2"`
	Temperature float64 `json:"temperature"`
	Timestamp   int64   `json:"timestamp"`
}

func main() {
	var targetURL string
	var patientID string
	var interval time.Duration
	var timeout time.Duration
	var count int
	var seed int64

	flag.StringVar(&targetURL, "url", "http://localhost:5000/api/reading", "ingest endpoint URL")
	flag.StringVar(&patientID, "patient", "P001", "patient identifier to tag readings with")
	flag.DurationVar(&interval, "interval", 2*time.Second, "delay between emitted readings")
	flag.DurationVar(&timeout, "timeout", 5*time.Second, "HTTP request timeout")
	flag.IntVar(&count, "count", 0, "number of readings to emit (0 = infinite)")
	flag.Int64Var(&seed, "seed", 0, "random seed (0 = use current time)")
	flag.Parse()

	if interval <= 0 {
		log.Fatal("interval must be > 0")
	}
	if timeout <= 0 {
		log.Fatal("timeout must be > 0")
	}
	if count < 0 {
		log.Fatal("count must be >= 0")
	}

	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))
	log.Printf("loadgen started seed=%d target=%s interval=%s", seed, targetURL, interval)

	client := &http.Client{Timeout: timeout}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	emitted := 0
	for {
		if count > 0 && emitted >= count {
			log.Printf("load generation complete (%d readings sent)", emitted)
			return
		}

		next := nextReading(rng, patientID, time.Now())
		if err := postReading(ctx, client, targetURL, next); err != nil {
			log.Printf("send failed: %v", err)
		} else {
			emitted++
			log.Printf(
				"sent #%d hr=%d spo2=%.1f temp=%.1f",
				emitted,
				next.HeartRate,
				next.SpO2,
				next.Temperature,
			)
		}

		select {
		case <-ctx.Done():
			log.Printf("load generation stopped")
			return
		case <-time.After(interval):
		}
	}
}

func nextReading(rng *rand.Rand, patientID string, now time.Time) reading {
	heartRate := 65 + rng.Float64()*40 // bpm
	spo2 := 94 + rng.Float64()*5      // %
	temperature := 36 + rng.Float64() // °C

	return reading{
		PatientID:   patientID,
		HeartRate:   int(math.Round(heartRate)),
		SpO2:        round1(spo2),
		Temperature: round1(temperature),
		Timestamp:   now.UnixMilli(),
	}
}

func postReading(ctx context.Context, client *http.Client, targetURL string, payload reading) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode payload: %w", err)
	}

	request, err := http.NewRequestWithContext(ctx, http.MethodPost, targetURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	request.Header.Set("Content-Type", "application/json")

	response, err := client.Do(request)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer response.Body.Close()

	if response.StatusCode >= http.StatusMultipleChoices {
		responseBody, _ := io.ReadAll(io.LimitReader(response.Body, 1024))
		return fmt.Errorf("status %d: %s", response.StatusCode, string(responseBody))
	}

	return nil
}

func round1(value float64) float64 {
	return math.Round(value*10) / 10
}
