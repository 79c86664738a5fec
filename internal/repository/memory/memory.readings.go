// FilePath: internal/repository/memory/memory.readings.go
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/medwatch/vitalhub/internal/models"
	nuts "github.com/vaudience/go-nuts"
)

// ReadingRepo is an in-memory reading store. It backs unit tests and
// the no-database development mode; the durable store is the postgres
// repository.
type ReadingRepo struct {
	mu       sync.RWMutex
	readings []models.Reading
}

func NewReadingRepository() *ReadingRepo {
	return &ReadingRepo{readings: make([]models.Reading, 0, 256)}
}

func (r *ReadingRepo) Insert(ctx context.Context, reading *models.Reading) error {
	if reading.ID == "" {
		reading.ID = nuts.NID("rd", 12)
	}

	r.mu.Lock()
	r.readings = append(r.readings, *reading)
	r.mu.Unlock()
	return nil
}

func (r *ReadingRepo) Latest(ctx context.Context, limit int) ([]models.Reading, error) {
	r.mu.RLock()
	snapshot := make([]models.Reading, len(r.readings))
	copy(snapshot, r.readings)
	r.mu.RUnlock()

	// Stable sort keeps insertion order for equal timestamps; callers
	// must not rely on any particular tie-break.
	sort.SliceStable(snapshot, func(i, j int) bool {
		return snapshot[i].Timestamp > snapshot[j].Timestamp
	})

	if limit > 0 && limit < len(snapshot) {
		snapshot = snapshot[:limit]
	}
	return snapshot, nil
}

func (r *ReadingRepo) Count(ctx context.Context) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return int64(len(r.readings)), nil
}

func (r *ReadingRepo) Ping(ctx context.Context) error {
	return nil
}
