// FilePath: internal/repository/repository.go
package repository

import (
	"context"

	"github.com/medwatch/vitalhub/internal/models"
)

// ReadingRepository defines the interface for the reading store. The
// store is append-only: readings are never updated or deleted here.
type ReadingRepository interface {
	// Insert persists one reading.
	Insert(ctx context.Context, reading *models.Reading) error
	// Latest returns up to limit readings ordered by timestamp
	// descending. Readings sharing a timestamp come back in an
	// implementation-defined order.
	Latest(ctx context.Context, limit int) ([]models.Reading, error)
	// Count returns the total number of persisted readings.
	Count(ctx context.Context) (int64, error)
	// Ping verifies the store is reachable.
	Ping(ctx context.Context) error
}
