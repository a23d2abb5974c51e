package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/dropout-api/internal/dto"
	"github.com/noah-isme/dropout-api/internal/models"
)

// reportFetcher pulls one report payload from the upstream school API.
type reportFetcher interface {
	Fetch(ctx context.Context, schoolID string, kind models.ReportKind, token string) (*models.Report, error)
}

// ReportService aggregates upstream report payloads, caches them, and builds
// the dashboard view.
type ReportService struct {
	fetcher  reportFetcher
	cache    *CacheService
	summary  *SummaryService
	cacheTTL time.Duration
	logger   *zap.Logger
}

// NewReportService constructs the service.
func NewReportService(fetcher reportFetcher, cache *CacheService, summary *SummaryService, cacheTTL time.Duration, logger *zap.Logger) *ReportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if summary == nil {
		summary = NewSummaryService()
	}
	return &ReportService{fetcher: fetcher, cache: cache, summary: summary, cacheTTL: cacheTTL, logger: logger}
}

func reportCacheKey(schoolID string, kind models.ReportKind) string {
	return fmt.Sprintf("report:%s:%s", schoolID, kind)
}

func scopeCacheKey(schoolID string) string {
	return fmt.Sprintf("report:scope:%s", schoolID)
}

// Fetch returns the report for the school and kind, preferring the cache. The
// boolean reports whether the payload was served from cache.
func (s *ReportService) Fetch(ctx context.Context, schoolID string, kind models.ReportKind, token string) (*models.Report, bool, error) {
	key := reportCacheKey(schoolID, kind)

	var cached models.Report
	if hit, err := s.cache.Get(ctx, key, &cached); err == nil && hit {
		return &cached, true, nil
	}

	report, err := s.fetcher.Fetch(ctx, schoolID, kind, token)
	if err != nil {
		return nil, false, err
	}

	if err := s.cache.Set(ctx, key, report, s.cacheTTL); err != nil {
		s.logger.Warn("report cache write failed", zap.String("key", key), zap.Error(err))
	}
	return report, false, nil
}

// Cached returns the report for the school and kind only when a cached copy
// exists. Used by the export path, which never triggers a fresh fetch.
func (s *ReportService) Cached(ctx context.Context, schoolID string, kind models.ReportKind) (*models.Report, bool) {
	var cached models.Report
	hit, err := s.cache.Get(ctx, reportCacheKey(schoolID, kind), &cached)
	if err != nil || !hit {
		return nil, false
	}
	return &cached, true
}

// FilterByCourse narrows a course-based report to a single course. OVERALL
// reports and the "all" sentinel pass through untouched, as does a filter
// that matches no course. The returned report shares course slices with the
// input; callers treat reports as read-only.
func FilterByCourse(report *models.Report, courseID string) *models.Report {
	if report == nil || report.Courses == nil {
		return report
	}
	if courseID == "" || courseID == models.ScopeAllCourses {
		return report
	}

	course := report.Courses.CourseNamed(courseID)
	if course == nil {
		return report
	}

	data := *report.Courses
	data.CourseReports = []models.CourseReport{*course}
	data.TotalStudents = course.StudentCount

	filtered := *report
	filtered.Courses = &data
	return &filtered
}

// View produces the dashboard payload for the requested scope: the filtered
// report, the four KPI values, and the pre-formatted screen tables. Switching
// report kind resets any lingering course filter for the school.
func (s *ReportService) View(ctx context.Context, scope models.ReportScope, token string) (*dto.ReportViewResponse, bool, error) {
	scope = s.resetScopeOnKindChange(ctx, scope)

	report, fromCache, err := s.Fetch(ctx, scope.SchoolID, scope.Kind, token)
	if err != nil {
		return nil, false, err
	}

	filtered := FilterByCourse(report, scope.CourseID)

	resp := &dto.ReportViewResponse{
		Scope:   scope,
		Summary: s.summary.Derive(scope, filtered),
		Report:  filtered,
		Tables:  s.summary.ScreenTables(filtered),
	}
	return resp, fromCache, nil
}

// resetScopeOnKindChange remembers the last served kind per school; when the
// kind changes the incoming course filter is discarded so a stale course id
// from the previous kind cannot leak into the new report.
func (s *ReportService) resetScopeOnKindChange(ctx context.Context, scope models.ReportScope) models.ReportScope {
	if !s.cache.Enabled() {
		return scope
	}

	key := scopeCacheKey(scope.SchoolID)
	var lastKind string
	hit, err := s.cache.Get(ctx, key, &lastKind)
	if err == nil && hit && lastKind != string(scope.Kind) && scope.Scoped() {
		s.logger.Debug("report kind changed, dropping course filter",
			zap.String("school_id", scope.SchoolID),
			zap.String("previous", lastKind),
			zap.String("kind", string(scope.Kind)),
		)
		scope.CourseID = models.ScopeAllCourses
	}
	if err := s.cache.Set(ctx, key, string(scope.Kind), s.cacheTTL); err != nil {
		s.logger.Warn("scope cache write failed", zap.Error(err))
	}
	return scope
}
