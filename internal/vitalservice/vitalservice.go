// FilePath: internal/vitalservice/vitalservice.go
package vitalservice

import (
	"github.com/medwatch/vitalhub/internal/errors"
	"github.com/medwatch/vitalhub/internal/models"
	"github.com/medwatch/vitalhub/internal/repository"
	nuts "github.com/vaudience/go-nuts"
)

// Broadcaster fans a reading out to all connected observers. Delivery
// is fire-and-forget; a Broadcaster never returns an error to the
// ingestion path.
type Broadcaster interface {
	Broadcast(reading models.Reading)
}

// VitalService contains the reading store, the broadcast path and
// service-wide dependencies
type VitalService struct {
	Readings      repository.ReadingRepository
	Broadcast     Broadcaster
	Events        *nuts.EventEmitter
	averageWindow int
}

// New creates a new VitalService instance
func New(readings repository.ReadingRepository, broadcast Broadcaster, events *nuts.EventEmitter, averageWindow int) *VitalService {
	if events == nil {
		events = nuts.NewEventEmitter()
	}
	if averageWindow <= 0 {
		averageWindow = 60
	}
	return &VitalService{
		Readings:      readings,
		Broadcast:     broadcast,
		Events:        events,
		averageWindow: averageWindow,
	}
}

// Validate checks if all required dependencies are initialized
func (s *VitalService) Validate() error {
	if s.Readings == nil {
		return ErrMissingDependency("readings")
	}
	if s.Broadcast == nil {
		return ErrMissingDependency("broadcast")
	}
	return nil
}

func ErrMissingDependency(name string) error {
	return errors.NewInternalError("missing dependency: "+name, nil)
}
