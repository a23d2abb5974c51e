package service

import (
	"github.com/noah-isme/dropout-api/internal/dto"
	"github.com/noah-isme/dropout-api/internal/models"
	"github.com/noah-isme/dropout-api/pkg/format"
)

// Risk thresholds for the dashboard KPI counters. Comparisons are strict:
// a student sitting exactly on the threshold is not counted.
const (
	attendanceRiskThreshold = 75.0
	gradeRiskThreshold      = 10.0
)

// SummaryService derives the dashboard KPI values and screen tables from a
// fetched report. All derivation is pure; missing numeric fields count as
// zero in averages.
type SummaryService struct{}

// NewSummaryService constructs the service.
func NewSummaryService() *SummaryService {
	return &SummaryService{}
}

// Derive computes the four KPI values for the report under the given scope.
func (s *SummaryService) Derive(scope models.ReportScope, report *models.Report) dto.ReportSummary {
	if report == nil {
		return dto.ReportSummary{AverageMetric: format.Missing}
	}

	switch report.Kind {
	case models.ReportKindOverall:
		return overallSummary(report.Overall)
	case models.ReportKindAttendance:
		return attendanceSummary(report.Courses)
	case models.ReportKindGrades:
		return gradesSummary(report.Courses)
	default:
		return dto.ReportSummary{AverageMetric: format.Missing}
	}
}

func overallSummary(data *models.OverallReportData) dto.ReportSummary {
	if data == nil {
		return dto.ReportSummary{AverageMetric: format.Missing}
	}
	return dto.ReportSummary{
		TotalStudents: data.TotalStudents,
		TotalCourses:  data.TotalCourses,
		RiskCount:     len(data.AtRiskStudents),
		AverageMetric: format.Percent(data.AverageAttendance),
	}
}

func attendanceSummary(data *models.CourseBasedReportData) dto.ReportSummary {
	if data == nil {
		return dto.ReportSummary{AverageMetric: format.Missing}
	}

	var sum float64
	var n, atRisk int
	for _, course := range data.CourseReports {
		for _, rec := range course.StudentAttendance {
			rate := 0.0
			if rec.AttendanceRate != nil {
				rate = *rec.AttendanceRate
			}
			sum += rate
			n++
			if rate < attendanceRiskThreshold {
				atRisk++
			}
		}
	}

	avg := 0.0
	if n > 0 {
		avg = sum / float64(n)
	}
	return dto.ReportSummary{
		TotalStudents: data.TotalStudents,
		TotalCourses:  data.TotalCourses,
		RiskCount:     atRisk,
		AverageMetric: format.PercentValue(avg),
	}
}

func gradesSummary(data *models.CourseBasedReportData) dto.ReportSummary {
	if data == nil {
		return dto.ReportSummary{AverageMetric: format.Missing}
	}

	var sum float64
	var n, atRisk int
	for _, course := range data.CourseReports {
		for _, rec := range course.StudentGrades {
			grade := 0.0
			if rec.OverallAverage != nil {
				grade = *rec.OverallAverage
			}
			sum += grade
			n++
			if grade < gradeRiskThreshold {
				atRisk++
			}
		}
	}

	avg := 0.0
	if n > 0 {
		avg = sum / float64(n)
	}
	return dto.ReportSummary{
		TotalStudents: data.TotalStudents,
		TotalCourses:  data.TotalCourses,
		RiskCount:     atRisk,
		AverageMetric: format.Grade(&avg),
	}
}

// ScreenTables builds the pre-formatted per-course tables for the dashboard.
// OVERALL reports have no course tables.
func (s *SummaryService) ScreenTables(report *models.Report) []dto.ScreenTable {
	if report == nil || report.Courses == nil {
		return nil
	}

	tables := make([]dto.ScreenTable, 0, len(report.Courses.CourseReports))
	for _, course := range report.Courses.CourseReports {
		switch report.Kind {
		case models.ReportKindAttendance:
			tables = append(tables, attendanceScreenTable(course))
		case models.ReportKindGrades:
			tables = append(tables, gradesScreenTable(course))
		}
	}
	return tables
}

func attendanceScreenTable(course models.CourseReport) dto.ScreenTable {
	table := dto.ScreenTable{
		CourseID:    course.CourseID,
		CourseName:  course.CourseName,
		TeacherName: course.TeacherName,
	}
	if len(course.StudentAttendance) == 0 {
		table.EmptyMessage = "No attendance data available"
		return table
	}

	dates := course.DateColumns(0)
	table.Headers = append(table.Headers, "Student Name")
	for _, d := range dates {
		table.Headers = append(table.Headers, format.ScreenDate(d))
	}
	table.Headers = append(table.Headers, "Rate")

	for _, rec := range course.StudentAttendance {
		row := []string{rec.StudentName}
		for _, d := range dates {
			raw, ok := rec.AttendanceByDate[d]
			row = append(row, format.ScreenStatus(raw, ok))
		}
		row = append(row, format.Percent(rec.AttendanceRate))
		table.Rows = append(table.Rows, row)
	}
	return table
}

func gradesScreenTable(course models.CourseReport) dto.ScreenTable {
	table := dto.ScreenTable{
		CourseID:    course.CourseID,
		CourseName:  course.CourseName,
		TeacherName: course.TeacherName,
	}
	if len(course.StudentGrades) == 0 {
		table.EmptyMessage = "No grades available"
		return table
	}

	table.Headers = []string{"Student Name", "Assignment", "Quiz", "Groupwork", "Final Exam", "Overall"}
	for _, rec := range course.StudentGrades {
		table.Rows = append(table.Rows, []string{
			rec.StudentName,
			format.Grade(rec.AssignmentAverage),
			format.Grade(rec.QuizAverage),
			format.Grade(rec.GroupworkAverage),
			format.Grade(rec.FinalExam),
			format.Grade(rec.OverallAverage),
		})
	}
	return table
}
