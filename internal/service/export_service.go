package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/dropout-api/internal/models"
	"github.com/noah-isme/dropout-api/pkg/format"
	"github.com/noah-isme/dropout-api/pkg/pdf"
)

// documentGenerator renders a report into a PDF document.
type documentGenerator interface {
	Generate(report *models.Report, req pdf.Request) (*pdf.Document, error)
}

// exportStore persists the generated document bytes.
type exportStore interface {
	Save(filename string, data []byte) (string, error)
	CleanupOlderThan(ttl time.Duration) ([]string, error)
}

// ExportHistoryStore records audit rows for generated documents.
type ExportHistoryStore interface {
	Create(ctx context.Context, record *models.ExportRecord) error
	ListBySchool(ctx context.Context, schoolID string, limit int) ([]models.ExportRecord, error)
}

// ExportResult is the outcome of one export request.
type ExportResult struct {
	Filename string
	Data     []byte
	Pages    int
	// Skipped is set when no cached report exists for the scope; nothing was
	// generated and nothing was stored.
	Skipped bool
}

// ExportService turns already-fetched reports into stored PDF documents. The
// export path deliberately reuses whatever report is cached for the scope and
// never triggers a fresh upstream fetch.
type ExportService struct {
	reports   *ReportService
	generator documentGenerator
	store     exportStore
	history   ExportHistoryStore
	metrics   *MetricsService
	logger    *zap.Logger
	now       func() time.Time
}

// NewExportService constructs the service. History and metrics are optional.
func NewExportService(reports *ReportService, generator documentGenerator, store exportStore, history ExportHistoryStore, metrics *MetricsService, logger *zap.Logger) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExportService{
		reports:   reports,
		generator: generator,
		store:     store,
		history:   history,
		metrics:   metrics,
		logger:    logger,
		now:       time.Now,
	}
}

// ExportFilename builds the stored document name for a scope and date.
func ExportFilename(kind models.ReportKind, t time.Time) string {
	return fmt.Sprintf("%s_report_%s.pdf", strings.ToLower(string(kind)), format.ISODate(t))
}

// Export generates, stores, and records the PDF for the scope. A cache miss
// yields a skipped result instead of an error.
func (s *ExportService) Export(ctx context.Context, scope models.ReportScope, createdBy string) (*ExportResult, error) {
	report, ok := s.reports.Cached(ctx, scope.SchoolID, scope.Kind)
	if !ok {
		s.logger.Info("export skipped, no cached report",
			zap.String("school_id", scope.SchoolID),
			zap.String("kind", string(scope.Kind)),
		)
		return &ExportResult{Skipped: true}, nil
	}

	filtered := FilterByCourse(report, scope.CourseID)

	courseName := ""
	if scope.Scoped() && filtered.Courses != nil {
		if course := filtered.Courses.CourseNamed(scope.CourseID); course != nil {
			courseName = course.CourseName
		}
	}

	start := s.now()
	doc, err := s.generator.Generate(filtered, pdf.Request{Scope: scope, CourseName: courseName})
	if err != nil {
		return nil, fmt.Errorf("generate export document: %w", err)
	}
	duration := s.now().Sub(start)
	s.metrics.ObserveDocumentGeneration(string(scope.Kind), duration, len(doc.Bytes))

	filename := ExportFilename(scope.Kind, s.now())
	if _, err := s.store.Save(filename, doc.Bytes); err != nil {
		return nil, fmt.Errorf("store export document: %w", err)
	}

	s.recordHistory(ctx, scope, filename, doc, duration, createdBy)

	s.logger.Info("report exported",
		zap.String("school_id", scope.SchoolID),
		zap.String("kind", string(scope.Kind)),
		zap.String("filename", filename),
		zap.Int("pages", doc.Pages),
		zap.Duration("duration", duration),
	)

	return &ExportResult{Filename: filename, Data: doc.Bytes, Pages: doc.Pages}, nil
}

// recordHistory writes the audit row. Failures are logged, never surfaced; a
// missing audit row must not block the download.
func (s *ExportService) recordHistory(ctx context.Context, scope models.ReportScope, filename string, doc *pdf.Document, duration time.Duration, createdBy string) {
	if s.history == nil {
		return
	}
	record := &models.ExportRecord{
		SchoolID:   scope.SchoolID,
		Kind:       scope.Kind,
		CourseID:   scope.CourseID,
		Filename:   filename,
		SizeBytes:  int64(len(doc.Bytes)),
		Pages:      doc.Pages,
		DurationMS: duration.Milliseconds(),
		CreatedBy:  createdBy,
	}
	if err := s.history.Create(ctx, record); err != nil {
		s.logger.Warn("export history write failed", zap.String("filename", filename), zap.Error(err))
	}
}

// History lists recent export rows for a school.
func (s *ExportService) History(ctx context.Context, schoolID string, limit int) ([]models.ExportRecord, error) {
	if s.history == nil {
		return []models.ExportRecord{}, nil
	}
	return s.history.ListBySchool(ctx, schoolID, limit)
}

// StartCleanup periodically removes stored documents older than ttl until the
// context is cancelled.
func (s *ExportService) StartCleanup(ctx context.Context, interval, ttl time.Duration) {
	if interval <= 0 || ttl <= 0 {
		return
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				deleted, err := s.store.CleanupOlderThan(ttl)
				if err != nil {
					s.logger.Warn("export cleanup failed", zap.Error(err))
					continue
				}
				if len(deleted) > 0 {
					s.logger.Info("expired exports removed", zap.Int("count", len(deleted)))
				}
			}
		}
	}()
}
