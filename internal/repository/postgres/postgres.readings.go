// FilePath: internal/repository/postgres/postgres.readings.go
package postgres

import (
	"context"

	"github.com/medwatch/vitalhub/internal/database"
	"github.com/medwatch/vitalhub/internal/errors"
	"github.com/medwatch/vitalhub/internal/models"
	nuts "github.com/vaudience/go-nuts"
)

type ReadingRepo struct {
	db database.DB
}

func NewReadingRepository(db database.DB) (*ReadingRepo, error) {
	repo := &ReadingRepo{db: db}
	if err := repo.initializeSchema(); err != nil {
		return nil, err
	}
	return repo, nil
}

func (r *ReadingRepo) initializeSchema() error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS readings (
			id TEXT PRIMARY KEY,
			patient_id TEXT NOT NULL,
			heart_rate INTEGER NOT NULL,
			spo2 DOUBLE PRECISION NOT NULL,
			temperature DOUBLE PRECISION NOT NULL,
			timestamp BIGINT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_readings_timestamp
			ON readings(timestamp DESC)`,
	}

	for _, query := range queries {
		_, err := r.db.GetDB().Exec(query)
		if err != nil {
			return errors.NewDatabaseError("failed to initialize schema", err)
		}
	}

	nuts.L.Infof("[ReadingRepo] Schema ready")
	return nil
}

func (r *ReadingRepo) Insert(ctx context.Context, reading *models.Reading) error {
	if reading.ID == "" {
		reading.ID = nuts.NID("rd", 12)
	}
	query := `
		INSERT INTO readings (id, patient_id, heart_rate, spo2, temperature, timestamp)
		VALUES (:id, :patient_id, :heart_rate, :spo2, :temperature, :timestamp)`

	_, err := r.db.GetDB().NamedExecContext(ctx, query, reading)
	if err != nil {
		return errors.NewDatabaseError("failed to insert reading", err)
	}
	return nil
}

func (r *ReadingRepo) Latest(ctx context.Context, limit int) ([]models.Reading, error) {
	readings := []models.Reading{}
	query := `
		SELECT id, patient_id, heart_rate, spo2, temperature, timestamp
		FROM readings
		ORDER BY timestamp DESC
		LIMIT $1`

	err := r.db.GetDB().SelectContext(ctx, &readings, query, limit)
	if err != nil {
		return nil, errors.NewDatabaseError("failed to get latest readings", err)
	}
	return readings, nil
}

func (r *ReadingRepo) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.GetDB().GetContext(ctx, &count, `SELECT COUNT(*) FROM readings`)
	if err != nil {
		return 0, errors.NewDatabaseError("failed to count readings", err)
	}
	return count, nil
}

func (r *ReadingRepo) Ping(ctx context.Context) error {
	if err := r.db.Ping(ctx); err != nil {
		return errors.NewDatabaseError("failed to ping database", err)
	}
	return nil
}
