package service

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/noah-isme/dropout-api/internal/models"
)

func attendanceReport(rates ...*float64) *models.Report {
	course := models.CourseReport{CourseID: "c1", CourseName: "Algebra", TeacherName: "T. Mensah"}
	for _, rate := range rates {
		course.StudentAttendance = append(course.StudentAttendance, models.AttendanceRecord{
			StudentID:      "s",
			StudentName:    "Student",
			AttendanceRate: rate,
			Dates:          []string{"2024-03-04", "2024-03-05"},
			AttendanceByDate: map[string]string{
				"2024-03-04": "1",
			},
		})
	}
	course.StudentCount = len(rates)
	return &models.Report{
		Kind: models.ReportKindAttendance,
		Courses: &models.CourseBasedReportData{
			SchoolID:      "school-1",
			SchoolName:    "Riverside High",
			ReportType:    models.ReportKindAttendance,
			TotalCourses:  1,
			TotalStudents: len(rates),
			CourseReports: []models.CourseReport{course},
		},
	}
}

func TestDeriveOverallSummary(t *testing.T) {
	svc := NewSummaryService()
	report := &models.Report{
		Kind: models.ReportKindOverall,
		Overall: &models.OverallReportData{
			TotalStudents:     420,
			TotalCourses:      18,
			AverageAttendance: f(88.4),
			AtRiskStudents: []models.AtRiskStudent{
				{StudentName: "Ben", RiskLevel: "HIGH"},
				{StudentName: "Cara", RiskLevel: "CRITICAL"},
			},
		},
	}

	summary := svc.Derive(models.ReportScope{Kind: models.ReportKindOverall}, report)
	require.Equal(t, 420, summary.TotalStudents)
	require.Equal(t, 18, summary.TotalCourses)
	require.Equal(t, 2, summary.RiskCount)
	require.Equal(t, "88.4%", summary.AverageMetric)
}

func TestDeriveAttendanceSummaryMissingRatesCountAsZero(t *testing.T) {
	svc := NewSummaryService()
	report := attendanceReport(f(80), f(70), nil)

	summary := svc.Derive(models.ReportScope{Kind: models.ReportKindAttendance}, report)
	require.Equal(t, "50.0%", summary.AverageMetric)
	require.Equal(t, 2, summary.RiskCount)
	require.Equal(t, 3, summary.TotalStudents)
}

func TestDeriveAttendanceThresholdIsStrict(t *testing.T) {
	svc := NewSummaryService()
	report := attendanceReport(f(75), f(74.9))

	summary := svc.Derive(models.ReportScope{Kind: models.ReportKindAttendance}, report)
	require.Equal(t, 1, summary.RiskCount)
}

func TestDeriveGradesSummary(t *testing.T) {
	svc := NewSummaryService()
	report := gradesReport()

	summary := svc.Derive(models.ReportScope{Kind: models.ReportKindGrades}, report)
	require.Equal(t, "12.00/20", summary.AverageMetric)
	require.Equal(t, 1, summary.RiskCount)
	require.Equal(t, 55, summary.TotalStudents)
	require.Equal(t, 2, summary.TotalCourses)
}

func TestDeriveGradesThresholdIsStrict(t *testing.T) {
	svc := NewSummaryService()
	report := gradesReport()
	report.Courses.CourseReports[0].StudentGrades = []models.GradeRecord{
		{StudentName: "Ada", OverallAverage: f(10)},
	}
	report.Courses.CourseReports[1].StudentGrades = []models.GradeRecord{
		{StudentName: "Ben", OverallAverage: f(9.99)},
	}

	summary := svc.Derive(models.ReportScope{Kind: models.ReportKindGrades}, report)
	require.Equal(t, 1, summary.RiskCount)
}

func TestDeriveEmptyCourseReports(t *testing.T) {
	svc := NewSummaryService()
	report := attendanceReport()

	summary := svc.Derive(models.ReportScope{Kind: models.ReportKindAttendance}, report)
	require.Equal(t, "0.0%", summary.AverageMetric)
	require.Equal(t, 0, summary.RiskCount)
}

func TestScreenTablesAttendanceFormatting(t *testing.T) {
	svc := NewSummaryService()
	report := attendanceReport(f(90))

	tables := svc.ScreenTables(report)
	require.Len(t, tables, 1)
	require.Equal(t, "Algebra", tables[0].CourseName)
	require.Equal(t, []string{"Student Name", "Mar 4", "Mar 5", "Rate"}, tables[0].Headers)
	require.Len(t, tables[0].Rows, 1)
	// The second date is missing from the student's map and stays blank on
	// screen.
	require.Equal(t, []string{"Student", "1", "", "90.0%"}, tables[0].Rows[0])
}

func TestScreenTablesGradesEmptyCourse(t *testing.T) {
	svc := NewSummaryService()
	report := gradesReport()
	report.Courses.CourseReports[0].StudentGrades = nil

	tables := svc.ScreenTables(report)
	require.Len(t, tables, 2)
	require.Equal(t, "No grades available", tables[0].EmptyMessage)
	require.Empty(t, tables[0].Rows)
	require.Len(t, tables[1].Rows, 1)
	require.Equal(t, "9.00/20", tables[1].Rows[0][5])
}

func TestScreenTablesOverallHasNone(t *testing.T) {
	svc := NewSummaryService()
	report := &models.Report{Kind: models.ReportKindOverall, Overall: &models.OverallReportData{}}
	require.Empty(t, svc.ScreenTables(report))
}
