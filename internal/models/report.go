package models

import "sort"

// ReportKind selects which upstream payload shape and document template is used.
type ReportKind string

const (
	ReportKindOverall    ReportKind = "OVERALL"
	ReportKindAttendance ReportKind = "ATTENDANCE"
	ReportKindGrades     ReportKind = "GRADES"
)

// Valid reports whether the kind is one of the supported report kinds.
func (k ReportKind) Valid() bool {
	switch k {
	case ReportKindOverall, ReportKindAttendance, ReportKindGrades:
		return true
	default:
		return false
	}
}

// ScopeAllCourses is the sentinel course filter meaning "no filter".
const ScopeAllCourses = "all"

// ReportScope identifies one report generation request. Immutable once built.
type ReportScope struct {
	SchoolID   string     `json:"schoolId"`
	Kind       ReportKind `json:"reportKind"`
	CourseID   string     `json:"courseId"`
	TimePeriod string     `json:"timePeriod"`
}

// Scoped reports whether a specific course filter is active.
func (s ReportScope) Scoped() bool {
	return s.CourseID != "" && s.CourseID != ScopeAllCourses
}

// Report is the canonical in-memory report model. The Kind discriminant is set
// once at fetch time; exactly one of Overall / Courses is populated.
type Report struct {
	Kind    ReportKind             `json:"kind"`
	Overall *OverallReportData     `json:"overall,omitempty"`
	Courses *CourseBasedReportData `json:"courses,omitempty"`
}

// OverallReportData is the upstream payload for the OVERALL report kind.
type OverallReportData struct {
	SchoolName        string            `json:"schoolName"`
	TotalStudents     int               `json:"totalStudents"`
	TotalCourses      int               `json:"totalCourses"`
	TotalTeachers     int               `json:"totalTeachers"`
	BehaviorIncidents int               `json:"behaviorIncidents"`
	AverageGrade      *float64          `json:"averageGrade,omitempty"`
	AverageAttendance *float64          `json:"averageAttendance,omitempty"`
	GradeRange        *MetricRange      `json:"gradeRange,omitempty"`
	AttendanceRange   *MetricRange      `json:"attendanceRange,omitempty"`
	RiskDistribution  *RiskDistribution `json:"riskDistribution,omitempty"`
	TopPerformers     []PerformerEntry  `json:"topPerformers,omitempty"`
	BottomPerformers  []PerformerEntry  `json:"bottomPerformers,omitempty"`
	AtRiskStudents    []AtRiskStudent   `json:"atRiskStudents,omitempty"`
	CourseSummaries   []CourseReport    `json:"courseSummaries,omitempty"`
}

// CourseBasedReportData is the upstream payload for ATTENDANCE and GRADES kinds.
type CourseBasedReportData struct {
	SchoolID      string         `json:"schoolId"`
	SchoolName    string         `json:"schoolName"`
	ReportType    ReportKind     `json:"reportType"`
	TotalCourses  int            `json:"totalCourses"`
	TotalStudents int            `json:"totalStudents"`
	CourseReports []CourseReport `json:"courseReports"`
}

// CourseReport carries one course's roster data. Produced by the backend,
// consumed read-only.
type CourseReport struct {
	CourseID          string             `json:"courseId"`
	CourseName        string             `json:"courseName"`
	TeacherName       string             `json:"teacherName"`
	StudentCount      int                `json:"studentCount"`
	StudentAttendance []AttendanceRecord `json:"studentAttendance,omitempty"`
	StudentGrades     []GradeRecord      `json:"studentGrades,omitempty"`
}

// AttendanceRecord holds one student's attendance for a course. AttendanceRate
// is authoritative as supplied; it is never re-derived from AttendanceByDate.
type AttendanceRecord struct {
	StudentID        string            `json:"studentId"`
	StudentName      string            `json:"studentName"`
	AttendanceRate   *float64          `json:"attendanceRate,omitempty"`
	AttendanceByDate map[string]string `json:"attendanceByDate,omitempty"`
	Dates            []string          `json:"dates,omitempty"`
}

// GradeRecord holds one student's grade components, all on a 0-20 scale.
// OverallAverage is backend-computed and not re-derived.
type GradeRecord struct {
	StudentID         string   `json:"studentId"`
	StudentName       string   `json:"studentName"`
	AssignmentAverage *float64 `json:"assignmentAverage,omitempty"`
	QuizAverage       *float64 `json:"quizAverage,omitempty"`
	GroupworkAverage  *float64 `json:"groupworkAverage,omitempty"`
	FinalExam         *float64 `json:"finalExam,omitempty"`
	OverallAverage    *float64 `json:"overallAverage,omitempty"`
}

// MetricRange carries the highest and lowest observed value for a metric.
type MetricRange struct {
	Highest *float64 `json:"highest,omitempty"`
	Lowest  *float64 `json:"lowest,omitempty"`
}

// RiskBucket is one slice of the dropout-risk distribution.
type RiskBucket struct {
	Count      int     `json:"count"`
	Percentage float64 `json:"percentage"`
}

// RiskDistribution groups students by backend-assigned risk classification.
type RiskDistribution struct {
	Low      RiskBucket `json:"low"`
	Medium   RiskBucket `json:"medium"`
	High     RiskBucket `json:"high"`
	Critical RiskBucket `json:"critical"`
}

// PerformerEntry is one pre-ranked row of a top/bottom performer list.
type PerformerEntry struct {
	StudentID      string   `json:"studentId"`
	StudentName    string   `json:"studentName"`
	CourseName     string   `json:"courseName,omitempty"`
	OverallAverage *float64 `json:"overallAverage,omitempty"`
	AttendanceRate *float64 `json:"attendanceRate,omitempty"`
}

// AtRiskStudent is a student flagged by the backend's risk classification.
// DropoutProbability is stored as a 0-1 fraction.
type AtRiskStudent struct {
	StudentID          string   `json:"studentId"`
	StudentName        string   `json:"studentName"`
	RiskLevel          string   `json:"riskLevel"`
	DropoutProbability *float64 `json:"dropoutProbability,omitempty"`
	AttendanceRate     *float64 `json:"attendanceRate,omitempty"`
	OverallAverage     *float64 `json:"overallAverage,omitempty"`
}

// DateColumns resolves the ordered attendance date sequence for the course,
// capped at limit when limit is positive. The first record carrying an
// explicit date list wins; otherwise the sorted union of the per-student date
// maps is used.
func (c CourseReport) DateColumns(limit int) []string {
	var dates []string
	for _, rec := range c.StudentAttendance {
		if len(rec.Dates) > 0 {
			dates = rec.Dates
			break
		}
	}
	if dates == nil {
		seen := map[string]struct{}{}
		for _, rec := range c.StudentAttendance {
			for date := range rec.AttendanceByDate {
				seen[date] = struct{}{}
			}
		}
		dates = make([]string, 0, len(seen))
		for date := range seen {
			dates = append(dates, date)
		}
		sort.Strings(dates)
	}
	if limit > 0 && len(dates) > limit {
		dates = dates[:limit]
	}
	return dates
}

// CourseNamed returns the course matching id, or nil when absent.
func (d *CourseBasedReportData) CourseNamed(id string) *CourseReport {
	if d == nil {
		return nil
	}
	for i := range d.CourseReports {
		if d.CourseReports[i].CourseID == id {
			return &d.CourseReports[i]
		}
	}
	return nil
}
