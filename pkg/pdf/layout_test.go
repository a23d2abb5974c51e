package pdf

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/noah-isme/dropout-api/internal/models"
)

func testGenerator() *Generator {
	return NewGenerator(Config{
		PrincipalName: "Dr. Amara Okafor",
		Now:           func() time.Time { return time.Date(2024, time.March, 7, 9, 0, 0, 0, time.UTC) },
	})
}

func f(v float64) *float64 { return &v }

func overallFixture() *models.Report {
	return &models.Report{
		Kind: models.ReportKindOverall,
		Overall: &models.OverallReportData{
			SchoolName:        "Riverside High",
			TotalStudents:     420,
			TotalCourses:      18,
			TotalTeachers:     25,
			AverageGrade:      f(13.2),
			AverageAttendance: f(88.4),
		},
	}
}

func coursesFixture(kind models.ReportKind, courses ...models.CourseReport) *models.Report {
	return &models.Report{
		Kind: kind,
		Courses: &models.CourseBasedReportData{
			SchoolID:      "school-1",
			SchoolName:    "Riverside High",
			ReportType:    kind,
			TotalCourses:  len(courses),
			CourseReports: courses,
		},
	}
}

func gradesCourse(id, name string, students int) models.CourseReport {
	course := models.CourseReport{CourseID: id, CourseName: name, TeacherName: "T. Mensah"}
	for i := 0; i < students; i++ {
		course.StudentGrades = append(course.StudentGrades, models.GradeRecord{
			StudentID:      "s",
			StudentName:    "Student",
			OverallAverage: f(12),
		})
	}
	course.StudentCount = students
	return course
}

func attendanceCourse(id, name string, students int) models.CourseReport {
	course := models.CourseReport{CourseID: id, CourseName: name, TeacherName: "T. Mensah"}
	for i := 0; i < students; i++ {
		course.StudentAttendance = append(course.StudentAttendance, models.AttendanceRecord{
			StudentID:      "s",
			StudentName:    "Student",
			AttendanceRate: f(90),
			Dates:          []string{"2024-03-04", "2024-03-05"},
			AttendanceByDate: map[string]string{
				"2024-03-04": "1",
				"2024-03-05": "0",
			},
		})
	}
	course.StudentCount = students
	return course
}

func TestGenerateNilReportFails(t *testing.T) {
	_, err := testGenerator().Generate(nil, Request{})
	require.Error(t, err)
}

func TestGenerateOverallMinimalEmitsOnlyOverviewSection(t *testing.T) {
	doc, err := testGenerator().Generate(overallFixture(), Request{})
	require.NoError(t, err)
	require.Equal(t, []string{"S1"}, doc.Sections)
	require.Equal(t, 1, doc.Pages)
	require.NotEmpty(t, doc.Bytes)
}

func TestGenerateOverallSectionTagsStayFixedWhenEarlierSectionsSkipped(t *testing.T) {
	report := overallFixture()
	report.Overall.CourseSummaries = []models.CourseReport{
		{CourseID: "c1", CourseName: "Algebra", TeacherName: "T. Mensah", StudentCount: 30},
	}

	doc, err := testGenerator().Generate(report, Request{})
	require.NoError(t, err)
	require.Equal(t, []string{"S1", "S5"}, doc.Sections)
}

func TestGenerateOverallFullSectionOrder(t *testing.T) {
	report := overallFixture()
	report.Overall.RiskDistribution = &models.RiskDistribution{
		Low:      models.RiskBucket{Count: 300, Percentage: 71.4},
		Medium:   models.RiskBucket{Count: 80, Percentage: 19.0},
		High:     models.RiskBucket{Count: 30, Percentage: 7.1},
		Critical: models.RiskBucket{Count: 10, Percentage: 2.4},
	}
	report.Overall.TopPerformers = []models.PerformerEntry{
		{StudentName: "Ada", CourseName: "Algebra", OverallAverage: f(18.5), AttendanceRate: f(98)},
	}
	report.Overall.AtRiskStudents = []models.AtRiskStudent{
		{StudentName: "Ben", RiskLevel: "HIGH", DropoutProbability: f(0.62), AttendanceRate: f(61), OverallAverage: f(8.1)},
	}
	report.Overall.CourseSummaries = []models.CourseReport{
		{CourseID: "c1", CourseName: "Algebra", TeacherName: "T. Mensah", StudentCount: 30},
	}

	doc, err := testGenerator().Generate(report, Request{})
	require.NoError(t, err)
	require.Equal(t, []string{"S1", "S2", "S3", "S4", "S5"}, doc.Sections)
}

func TestGenerateGradesGivesEachCourseItsOwnPage(t *testing.T) {
	report := coursesFixture(models.ReportKindGrades,
		gradesCourse("c1", "Algebra", 5),
		gradesCourse("c2", "Biology", 5),
		gradesCourse("c3", "Chemistry", 5),
	)

	doc, err := testGenerator().Generate(report, Request{})
	require.NoError(t, err)
	require.Equal(t, 3, doc.Pages)
	require.Equal(t, []string{"GRD1", "GRD2", "GRD3"}, doc.Sections)
}

func TestGenerateAttendanceFlowsCoursesContinuously(t *testing.T) {
	report := coursesFixture(models.ReportKindAttendance,
		attendanceCourse("c1", "Algebra", 4),
		attendanceCourse("c2", "Biology", 4),
	)

	doc, err := testGenerator().Generate(report, Request{})
	require.NoError(t, err)
	require.Equal(t, 1, doc.Pages)
	require.Equal(t, []string{"ATT1", "ATT2"}, doc.Sections)
}

func TestGenerateEmptyCourseStillRendersSectionHeader(t *testing.T) {
	report := coursesFixture(models.ReportKindGrades,
		models.CourseReport{CourseID: "c1", CourseName: "Algebra", TeacherName: "T. Mensah"},
	)

	doc, err := testGenerator().Generate(report, Request{})
	require.NoError(t, err)
	require.Equal(t, []string{"GRD1"}, doc.Sections)
	require.Equal(t, 1, doc.Pages)
}

func TestGenerateLongGradesRosterSpillsOntoContinuationPages(t *testing.T) {
	report := coursesFixture(models.ReportKindGrades, gradesCourse("c1", "Algebra", 120))

	doc, err := testGenerator().Generate(report, Request{})
	require.NoError(t, err)
	require.Greater(t, doc.Pages, 1)
}
