package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/dropout-api/internal/models"
)

func newExportHistoryRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func TestExportHistoryRepositoryCreateFillsDefaults(t *testing.T) {
	db, mock, cleanup := newExportHistoryRepoMock(t)
	defer cleanup()

	repo := NewExportHistoryRepository(db)
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO export_history")).
		WillReturnResult(sqlmock.NewResult(1, 1))

	record := &models.ExportRecord{
		SchoolID:   "school-1",
		Kind:       "GRADES",
		CourseID:   "all",
		Filename:   "grades_report_2024-03-07.pdf",
		SizeBytes:  4096,
		Pages:      3,
		DurationMS: 120,
		CreatedBy:  "user-1",
	}
	require.NoError(t, repo.Create(context.Background(), record))
	require.NotEmpty(t, record.ID)
	require.False(t, record.CreatedAt.IsZero())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestExportHistoryRepositoryListBySchool(t *testing.T) {
	db, mock, cleanup := newExportHistoryRepoMock(t)
	defer cleanup()

	repo := NewExportHistoryRepository(db)
	rows := sqlmock.NewRows([]string{"id", "school_id", "kind", "course_id", "filename", "size_bytes", "pages", "duration_ms", "created_by", "created_at"}).
		AddRow("exp-2", "school-1", "ATTENDANCE", "all", "attendance_report_2024-03-07.pdf", 2048, 2, 90, "user-1", time.Now()).
		AddRow("exp-1", "school-1", "GRADES", "c1", "grades_report_2024-03-06.pdf", 4096, 3, 120, "user-1", time.Now().Add(-time.Hour))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, school_id, kind, course_id")).
		WithArgs("school-1", 20).
		WillReturnRows(rows)

	records, err := repo.ListBySchool(context.Background(), "school-1", 0)
	require.NoError(t, err)
	require.Len(t, records, 2)
	require.Equal(t, "exp-2", records[0].ID)
	require.NoError(t, mock.ExpectationsWereMet())
}
