package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/dropout-api/internal/models"
)

// ExportHistoryRepository persists audit rows for generated documents.
type ExportHistoryRepository struct {
	db *sqlx.DB
}

// NewExportHistoryRepository constructs the repository.
func NewExportHistoryRepository(db *sqlx.DB) *ExportHistoryRepository {
	return &ExportHistoryRepository{db: db}
}

// Create inserts a new export row with generated defaults.
func (r *ExportHistoryRepository) Create(ctx context.Context, record *models.ExportRecord) error {
	if record.ID == "" {
		record.ID = uuid.NewString()
	}
	if record.CreatedAt.IsZero() {
		record.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO export_history (id, school_id, kind, course_id, filename, size_bytes, pages, duration_ms, created_by, created_at)
VALUES (:id, :school_id, :kind, :course_id, :filename, :size_bytes, :pages, :duration_ms, :created_by, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, record); err != nil {
		return fmt.Errorf("create export record: %w", err)
	}
	return nil
}

// ListBySchool returns the most recent export rows for a school.
func (r *ExportHistoryRepository) ListBySchool(ctx context.Context, schoolID string, limit int) ([]models.ExportRecord, error) {
	if limit <= 0 {
		limit = 20
	}
	const query = `SELECT id, school_id, kind, course_id, filename, size_bytes, pages, duration_ms, created_by, created_at
FROM export_history WHERE school_id = $1 ORDER BY created_at DESC LIMIT $2`
	var records []models.ExportRecord
	if err := r.db.SelectContext(ctx, &records, query, schoolID, limit); err != nil {
		return nil, fmt.Errorf("list export records: %w", err)
	}
	return records, nil
}
