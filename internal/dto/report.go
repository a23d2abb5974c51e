package dto

import "github.com/noah-isme/dropout-api/internal/models"

// ReportSummary carries the four on-screen KPI values.
type ReportSummary struct {
	TotalStudents int    `json:"totalStudents"`
	TotalCourses  int    `json:"totalCourses"`
	RiskCount     int    `json:"riskCount"`
	AverageMetric string `json:"averageMetric"`
}

// ScreenTable is a pre-formatted table for the dashboard surface. Dates use
// the short "Mon D" layout and missing attendance statuses stay blank, unlike
// the PDF tables.
type ScreenTable struct {
	CourseID     string     `json:"courseId"`
	CourseName   string     `json:"courseName"`
	TeacherName  string     `json:"teacherName"`
	Headers      []string   `json:"headers,omitempty"`
	Rows         [][]string `json:"rows,omitempty"`
	EmptyMessage string     `json:"emptyMessage,omitempty"`
}

// ReportViewResponse is the payload for GET /reports/:schoolId.
type ReportViewResponse struct {
	Scope   models.ReportScope `json:"scope"`
	Summary ReportSummary      `json:"summary"`
	Report  *models.Report     `json:"report"`
	Tables  []ScreenTable      `json:"tables,omitempty"`
}
