package service

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/dropout-api/internal/models"
	appErrors "github.com/noah-isme/dropout-api/pkg/errors"
)

func f(v float64) *float64 { return &v }

type fakeCacheRepo struct {
	data map[string][]byte
}

func newFakeCacheRepo() *fakeCacheRepo {
	return &fakeCacheRepo{data: map[string][]byte{}}
}

func (r *fakeCacheRepo) Get(_ context.Context, key string, dest interface{}) error {
	raw, ok := r.data[key]
	if !ok {
		return appErrors.ErrCacheMiss
	}
	return json.Unmarshal(raw, dest)
}

func (r *fakeCacheRepo) Set(_ context.Context, key string, value interface{}, _ time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	r.data[key] = raw
	return nil
}

type fakeFetcher struct {
	report *models.Report
	err    error
	calls  int
}

func (f *fakeFetcher) Fetch(_ context.Context, _ string, _ models.ReportKind, _ string) (*models.Report, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.report, nil
}

func gradesReport() *models.Report {
	return &models.Report{
		Kind: models.ReportKindGrades,
		Courses: &models.CourseBasedReportData{
			SchoolID:      "school-1",
			SchoolName:    "Riverside High",
			ReportType:    models.ReportKindGrades,
			TotalCourses:  2,
			TotalStudents: 55,
			CourseReports: []models.CourseReport{
				{
					CourseID:     "c1",
					CourseName:   "Algebra",
					TeacherName:  "T. Mensah",
					StudentCount: 30,
					StudentGrades: []models.GradeRecord{
						{StudentID: "s1", StudentName: "Ada", OverallAverage: f(15)},
					},
				},
				{
					CourseID:     "c2",
					CourseName:   "Biology",
					TeacherName:  "N. Diallo",
					StudentCount: 25,
					StudentGrades: []models.GradeRecord{
						{StudentID: "s2", StudentName: "Ben", OverallAverage: f(9)},
					},
				},
			},
		},
	}
}

func newTestReportService(fetcher *fakeFetcher, repo *fakeCacheRepo) *ReportService {
	cacheSvc := NewCacheService(repo, nil, time.Minute, zap.NewNop(), repo != nil)
	return NewReportService(fetcher, cacheSvc, NewSummaryService(), time.Minute, zap.NewNop())
}

func TestReportServiceFetchCachesPayload(t *testing.T) {
	fetcher := &fakeFetcher{report: gradesReport()}
	svc := newTestReportService(fetcher, newFakeCacheRepo())

	report, fromCache, err := svc.Fetch(context.Background(), "school-1", models.ReportKindGrades, "token")
	require.NoError(t, err)
	require.False(t, fromCache)
	require.Equal(t, models.ReportKindGrades, report.Kind)

	report, fromCache, err = svc.Fetch(context.Background(), "school-1", models.ReportKindGrades, "token")
	require.NoError(t, err)
	require.True(t, fromCache)
	require.Equal(t, 1, fetcher.calls)
	require.Equal(t, "Riverside High", report.Courses.SchoolName)
}

func TestReportServiceFetchPropagatesUpstreamError(t *testing.T) {
	fetcher := &fakeFetcher{err: appErrors.ErrFetchFailed}
	svc := newTestReportService(fetcher, newFakeCacheRepo())

	_, _, err := svc.Fetch(context.Background(), "school-1", models.ReportKindGrades, "token")
	require.ErrorIs(t, err, appErrors.ErrFetchFailed)
}

func TestReportServiceCachedOnlyServesExistingEntries(t *testing.T) {
	fetcher := &fakeFetcher{report: gradesReport()}
	svc := newTestReportService(fetcher, newFakeCacheRepo())

	_, ok := svc.Cached(context.Background(), "school-1", models.ReportKindGrades)
	require.False(t, ok)

	_, _, err := svc.Fetch(context.Background(), "school-1", models.ReportKindGrades, "token")
	require.NoError(t, err)

	cached, ok := svc.Cached(context.Background(), "school-1", models.ReportKindGrades)
	require.True(t, ok)
	require.Equal(t, models.ReportKindGrades, cached.Kind)
	require.Equal(t, 1, fetcher.calls)
}

func TestFilterByCourseNarrowsToSingleCourse(t *testing.T) {
	report := gradesReport()
	filtered := FilterByCourse(report, "c2")

	require.Len(t, filtered.Courses.CourseReports, 1)
	require.Equal(t, "Biology", filtered.Courses.CourseReports[0].CourseName)
	require.Equal(t, 25, filtered.Courses.TotalStudents)

	// Input stays untouched.
	require.Len(t, report.Courses.CourseReports, 2)
	require.Equal(t, 55, report.Courses.TotalStudents)
}

func TestFilterByCourseAllSentinelPassesThrough(t *testing.T) {
	report := gradesReport()
	require.Same(t, report, FilterByCourse(report, models.ScopeAllCourses))
	require.Same(t, report, FilterByCourse(report, ""))
}

func TestFilterByCourseUnmatchedIDPassesThrough(t *testing.T) {
	report := gradesReport()
	require.Same(t, report, FilterByCourse(report, "missing"))
}

func TestFilterByCourseOverallPassesThrough(t *testing.T) {
	report := &models.Report{Kind: models.ReportKindOverall, Overall: &models.OverallReportData{}}
	require.Same(t, report, FilterByCourse(report, "c1"))
}

func TestReportServiceViewDropsCourseFilterOnKindChange(t *testing.T) {
	repo := newFakeCacheRepo()
	fetcher := &fakeFetcher{report: gradesReport()}
	svc := newTestReportService(fetcher, repo)

	_, _, err := svc.View(context.Background(), models.ReportScope{
		SchoolID: "school-1",
		Kind:     models.ReportKindAttendance,
	}, "token")
	require.NoError(t, err)

	view, _, err := svc.View(context.Background(), models.ReportScope{
		SchoolID: "school-1",
		Kind:     models.ReportKindGrades,
		CourseID: "c2",
	}, "token")
	require.NoError(t, err)

	// Kind changed since the last request, so the stale course filter is
	// discarded and the full report comes back.
	require.Equal(t, models.ScopeAllCourses, view.Scope.CourseID)
	require.Len(t, view.Report.Courses.CourseReports, 2)
}

func TestReportServiceViewKeepsCourseFilterOnSameKind(t *testing.T) {
	repo := newFakeCacheRepo()
	fetcher := &fakeFetcher{report: gradesReport()}
	svc := newTestReportService(fetcher, repo)

	_, _, err := svc.View(context.Background(), models.ReportScope{
		SchoolID: "school-1",
		Kind:     models.ReportKindGrades,
	}, "token")
	require.NoError(t, err)

	view, _, err := svc.View(context.Background(), models.ReportScope{
		SchoolID: "school-1",
		Kind:     models.ReportKindGrades,
		CourseID: "c2",
	}, "token")
	require.NoError(t, err)
	require.Equal(t, "c2", view.Scope.CourseID)
	require.Len(t, view.Report.Courses.CourseReports, 1)
	require.Equal(t, "Biology", view.Report.Courses.CourseReports[0].CourseName)
}
