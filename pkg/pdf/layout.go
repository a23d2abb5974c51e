// Package pdf renders paginated school report documents. The layout engine
// walks the canonical report model in a fixed section order, threading a
// Cursor value through each placement step and deciding page breaks itself
// rather than leaning on the library's automatic pagination.
package pdf

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/jung-kurt/gofpdf"

	"github.com/noah-isme/dropout-api/internal/models"
	"github.com/noah-isme/dropout-api/pkg/format"
)

const fontFamily = "Arial"

const (
	sectionBandHeight = 22.0
	sectionInset      = 8.0
	sectionGap        = 8.0

	headerRuleY = 118.0
	bodyStartY  = 132.0

	// Reserve thresholds checked before a section header is placed. When
	// less space remains, the section starts on a fresh page.
	reserveOverview      = 70.0
	reserveRisk          = 70.0
	reservePerformance   = 80.0
	reserveAtRisk        = 70.0
	reserveCourseSummary = 60.0
	reservePerCourse     = 80.0

	// Document tables show at most this many attendance dates per course.
	maxDocumentDates = 10

	courseNameLimit = 25
)

// Config carries presentation defaults for the header and footer blocks.
type Config struct {
	PrincipalName       string
	ConfidentialityNote string
	Now                 func() time.Time
}

// Generator lays out report documents.
type Generator struct {
	cfg Config
}

// NewGenerator constructs a Generator with sane defaults.
func NewGenerator(cfg Config) *Generator {
	if cfg.PrincipalName == "" {
		cfg.PrincipalName = "School Principal"
	}
	if cfg.ConfidentialityNote == "" {
		cfg.ConfidentialityNote = "This report is confidential and intended for authorized school personnel only."
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &Generator{cfg: cfg}
}

// Request describes one generation run.
type Request struct {
	Scope models.ReportScope
	// CourseName is the resolved display name when the scope targets a
	// single course.
	CourseName string
}

// Document is the finished export artifact.
type Document struct {
	Bytes []byte
	Pages int
	// Sections lists the section tags emitted, in placement order.
	Sections []string
}

// run owns the mutable layout state for a single generation.
type run struct {
	doc      *gofpdf.Fpdf
	cur      Cursor
	sections []string
}

// Generate lays out the report into a PDF. Sections backed by absent or empty
// data are skipped entirely; missing numeric fields degrade to "N/A" cells.
func (g *Generator) Generate(report *models.Report, req Request) (*Document, error) {
	if report == nil {
		return nil, fmt.Errorf("no report data to lay out")
	}

	doc := gofpdf.New("P", "pt", "A4", "")
	doc.SetAutoPageBreak(false, 0)
	doc.AliasNbPages("{nb}")
	doc.AddPage()

	r := &run{doc: doc, cur: NewCursor()}
	r.headerBlock(g.cfg, report, req)

	switch report.Kind {
	case models.ReportKindOverall:
		r.overallSections(report.Overall)
	case models.ReportKindAttendance:
		r.attendanceBlocks(courseList(report))
	case models.ReportKindGrades:
		r.gradeBlocks(courseList(report))
	}

	r.footerNote(g.cfg.ConfidentialityNote)

	var buf bytes.Buffer
	if err := doc.Output(&buf); err != nil {
		return nil, fmt.Errorf("render report document: %w", err)
	}
	return &Document{Bytes: buf.Bytes(), Pages: r.cur.Page, Sections: r.sections}, nil
}

func titleFor(kind models.ReportKind) string {
	switch kind {
	case models.ReportKindAttendance:
		return "Attendance Analysis Report"
	case models.ReportKindGrades:
		return "Academic Performance Report"
	default:
		return "Comprehensive School Report"
	}
}

func schoolName(report *models.Report) string {
	switch {
	case report.Overall != nil:
		return report.Overall.SchoolName
	case report.Courses != nil:
		return report.Courses.SchoolName
	default:
		return ""
	}
}

func courseList(report *models.Report) []models.CourseReport {
	if report.Courses == nil {
		return nil
	}
	return report.Courses.CourseReports
}

func (r *run) newPage() {
	r.doc.AddPage()
	r.cur = r.cur.NextPage()
}

// headerBlock draws the first-page header: identity lines top-left, the
// bordered key/value strip top-right, and the separating rule.
func (r *run) headerBlock(cfg Config, report *models.Report, req Request) {
	doc := r.doc

	doc.SetTextColor(17, 24, 39)
	doc.SetFont(fontFamily, "B", 16)
	doc.SetXY(r.cur.MarginLeft, 42)
	doc.CellFormat(310, 18, r.fitText(schoolName(report), 310), "", 2, "L", false, 0, "")

	doc.SetFont(fontFamily, "", 12)
	doc.CellFormat(310, 15, titleFor(report.Kind), "", 2, "L", false, 0, "")

	period := req.Scope.TimePeriod
	if period == "" {
		period = "Current Term"
	}
	doc.SetFont(fontFamily, "", 9)
	doc.SetTextColor(107, 114, 128)
	doc.CellFormat(310, 12, "Period: "+period, "", 2, "L", false, 0, "")
	doc.CellFormat(310, 12, "Total Pages: {nb}", "", 2, "L", false, 0, "")

	rows := [][2]string{
		{"Principal", cfg.PrincipalName},
		{"Generated", format.LongDate(cfg.Now())},
		{"Report Type", format.Capitalize(string(report.Kind))},
	}
	if req.Scope.Scoped() {
		rows = append(rows, [2]string{"Course", format.Truncate(req.CourseName, courseNameLimit)})
	}

	const (
		boxWidth   = 200.0
		labelWidth = 72.0
		boxRowH    = 13.0
	)
	boxX := r.cur.PageWidth - r.cur.MarginRight - boxWidth
	boxY := 42.0
	doc.SetDrawColor(156, 163, 175)
	doc.Rect(boxX, boxY, boxWidth, float64(len(rows))*boxRowH+6, "D")

	y := boxY + 3
	doc.SetTextColor(17, 24, 39)
	for _, kv := range rows {
		doc.SetFont(fontFamily, "B", 7.5)
		doc.SetXY(boxX+5, y)
		doc.CellFormat(labelWidth, boxRowH, kv[0], "", 0, "L", false, 0, "")
		doc.SetFont(fontFamily, "", 7.5)
		doc.CellFormat(boxWidth-labelWidth-10, boxRowH, r.fitText(kv[1], boxWidth-labelWidth-10), "", 0, "L", false, 0, "")
		y += boxRowH
	}

	doc.SetDrawColor(55, 65, 81)
	doc.SetLineWidth(0.8)
	doc.Line(r.cur.MarginLeft, headerRuleY, r.cur.PageWidth-r.cur.MarginRight, headerRuleY)
	doc.SetLineWidth(0.2)

	r.cur.Y = bodyStartY
}

// sectionHeader places the filled band, breaking the page first when the
// remaining space is below the section's reserve.
func (r *run) sectionHeader(tag, title string, reserve float64) {
	if r.cur.NeedsBreak(reserve) {
		r.newPage()
	}
	doc := r.doc
	doc.SetFillColor(31, 41, 55)
	doc.SetDrawColor(31, 41, 55)
	doc.Rect(r.cur.MarginLeft, r.cur.Y, r.cur.ContentWidth(), sectionBandHeight, "FD")
	doc.SetFont(fontFamily, "B", 10)
	doc.SetTextColor(255, 255, 255)
	doc.SetXY(r.cur.MarginLeft+sectionInset, r.cur.Y)
	doc.CellFormat(r.cur.ContentWidth()-2*sectionInset, sectionBandHeight, fmt.Sprintf("[%s] %s", tag, strings.ToUpper(title)), "", 0, "L", false, 0, "")
	doc.SetTextColor(0, 0, 0)

	r.sections = append(r.sections, tag)
	r.cur = r.cur.Advance(sectionBandHeight + sectionGap)
}

func (r *run) subLabel(text string) {
	doc := r.doc
	doc.SetFont(fontFamily, "B", 9)
	doc.SetTextColor(31, 41, 55)
	doc.SetXY(r.cur.MarginLeft, r.cur.Y)
	doc.CellFormat(r.cur.ContentWidth(), 12, text, "", 0, "L", false, 0, "")
	doc.SetTextColor(0, 0, 0)
	r.cur = r.cur.Advance(16)
}

func (r *run) emptyState(msg string) {
	doc := r.doc
	doc.SetFont(fontFamily, "", 9)
	doc.SetTextColor(107, 114, 128)
	doc.SetXY(r.cur.MarginLeft, r.cur.Y)
	doc.CellFormat(r.cur.ContentWidth(), 14, msg, "", 0, "C", false, 0, "")
	doc.SetTextColor(0, 0, 0)
	r.cur = r.cur.Advance(22)
}

func (r *run) courseMeta(course models.CourseReport) {
	doc := r.doc
	doc.SetFont(fontFamily, "", 8.5)
	doc.SetTextColor(107, 114, 128)
	doc.SetXY(r.cur.MarginLeft, r.cur.Y)
	meta := fmt.Sprintf("Teacher: %s    Students: %d", course.TeacherName, course.StudentCount)
	doc.CellFormat(r.cur.ContentWidth(), 11, meta, "", 0, "L", false, 0, "")
	doc.SetTextColor(0, 0, 0)
	r.cur = r.cur.Advance(15)
}

// footerNote places the confidentiality notice near the bottom margin of the
// final page only.
func (r *run) footerNote(note string) {
	doc := r.doc
	doc.SetFont(fontFamily, "I", 8)
	doc.SetTextColor(107, 114, 128)
	doc.SetXY(r.cur.MarginLeft, r.cur.PageHeight-40)
	doc.CellFormat(r.cur.ContentWidth(), 10, note, "", 0, "C", false, 0, "")
	doc.SetTextColor(0, 0, 0)
}

// overallSections walks the fixed S1..S5 order, skipping sections whose
// backing data is absent. Tags stay fixed even when earlier sections are
// skipped.
func (r *run) overallSections(data *models.OverallReportData) {
	if data == nil {
		return
	}

	r.sectionHeader("S1", "School Overview", reserveOverview)
	r.renderTable(Table{
		Columns: []Column{
			{Header: "Metric", Width: 200},
			{Header: "Value", Emphasis: true},
		},
		Rows: [][]string{
			{"Total Students", format.Count(data.TotalStudents)},
			{"Total Courses", format.Count(data.TotalCourses)},
			{"Total Teachers", format.Count(data.TotalTeachers)},
			{"Behavior Incidents", format.Count(data.BehaviorIncidents)},
			{"Average Grade", format.Grade(data.AverageGrade)},
			{"Average Attendance", format.Percent(data.AverageAttendance)},
			{"Grade Range", rangeText(data.GradeRange, format.Grade)},
			{"Attendance Range", rangeText(data.AttendanceRange, format.Percent)},
		},
	})

	if data.RiskDistribution != nil {
		r.sectionHeader("S2", "Dropout Risk Distribution", reserveRisk)
		d := data.RiskDistribution
		r.renderTable(Table{
			Columns: []Column{
				{Header: "Risk Level", Width: 160},
				{Header: "Students", Align: "C"},
				{Header: "Share", Align: "C", Emphasis: true},
			},
			Rows: [][]string{
				{"Low", format.Count(d.Low.Count), format.PercentValue(d.Low.Percentage)},
				{"Medium", format.Count(d.Medium.Count), format.PercentValue(d.Medium.Percentage)},
				{"High", format.Count(d.High.Count), format.PercentValue(d.High.Percentage)},
				{"Critical", format.Count(d.Critical.Count), format.PercentValue(d.Critical.Percentage)},
			},
		})
	}

	if len(data.TopPerformers) > 0 || len(data.BottomPerformers) > 0 {
		r.sectionHeader("S3", "Performance Highlights", reservePerformance)
		if len(data.TopPerformers) > 0 {
			r.subLabel("Top Performers")
			r.renderTable(performerTable(data.TopPerformers))
		}
		if len(data.BottomPerformers) > 0 {
			r.subLabel("Students Needing Support")
			r.renderTable(performerTable(data.BottomPerformers))
		}
	}

	if len(data.AtRiskStudents) > 0 {
		r.sectionHeader("S4", "At-Risk Students", reserveAtRisk)
		rows := make([][]string, 0, len(data.AtRiskStudents))
		for _, s := range data.AtRiskStudents {
			rows = append(rows, []string{
				s.StudentName,
				s.RiskLevel,
				format.Probability(s.DropoutProbability),
				format.Percent(s.AttendanceRate),
				format.Grade(s.OverallAverage),
			})
		}
		r.renderTable(Table{
			Columns: []Column{
				{Header: "Student", Width: 150},
				{Header: "Risk Level", Align: "C"},
				{Header: "Dropout Probability", Align: "C", Emphasis: true},
				{Header: "Attendance", Align: "C"},
				{Header: "Overall Average", Align: "C"},
			},
			Rows: rows,
		})
	}

	if len(data.CourseSummaries) > 0 {
		r.sectionHeader("S5", "Course Summary", reserveCourseSummary)
		rows := make([][]string, 0, len(data.CourseSummaries))
		for _, c := range data.CourseSummaries {
			rows = append(rows, []string{c.CourseName, c.TeacherName, format.Count(c.StudentCount)})
		}
		r.renderTable(Table{
			Columns: []Column{
				{Header: "Course", Width: 200},
				{Header: "Teacher"},
				{Header: "Students", Align: "C", Emphasis: true},
			},
			Rows: rows,
		})
	}
}

// attendanceBlocks flows course blocks continuously, breaking only when the
// remaining space is below the per-course reserve.
func (r *run) attendanceBlocks(courses []models.CourseReport) {
	for i, course := range courses {
		r.sectionHeader(fmt.Sprintf("ATT%d", i+1), course.CourseName, reservePerCourse)
		r.courseMeta(course)
		if len(course.StudentAttendance) == 0 {
			r.emptyState("No attendance data available")
			continue
		}
		r.renderTable(attendanceTable(course))
	}
}

// gradeBlocks gives every course after the first its own page regardless of
// remaining space.
func (r *run) gradeBlocks(courses []models.CourseReport) {
	for i, course := range courses {
		if i > 0 {
			r.newPage()
		}
		r.sectionHeader(fmt.Sprintf("GRD%d", i+1), course.CourseName, reservePerCourse)
		r.courseMeta(course)
		if len(course.StudentGrades) == 0 {
			r.emptyState("No grade data available")
			continue
		}
		rows := make([][]string, 0, len(course.StudentGrades))
		for j, g := range course.StudentGrades {
			rows = append(rows, []string{
				format.Count(j + 1),
				g.StudentName,
				format.Grade(g.AssignmentAverage),
				format.Grade(g.QuizAverage),
				format.Grade(g.GroupworkAverage),
				format.Grade(g.FinalExam),
				format.Grade(g.OverallAverage),
			})
		}
		r.renderTable(Table{
			Columns: []Column{
				{Header: "#", Width: 24, Align: "C"},
				{Header: "Student Name", Width: 140},
				{Header: "Assignment", Align: "C"},
				{Header: "Quiz", Align: "C"},
				{Header: "Groupwork", Align: "C"},
				{Header: "Final Exam", Align: "C"},
				{Header: "Overall", Align: "C", Emphasis: true},
			},
			Rows: rows,
		})
	}
}

func performerTable(entries []models.PerformerEntry) Table {
	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, []string{
			e.StudentName,
			e.CourseName,
			format.Grade(e.OverallAverage),
			format.Percent(e.AttendanceRate),
		})
	}
	return Table{
		Columns: []Column{
			{Header: "Student", Width: 150},
			{Header: "Course"},
			{Header: "Overall Average", Align: "C", Emphasis: true},
			{Header: "Attendance", Align: "C"},
		},
		Rows: rows,
	}
}

func rangeText(rng *models.MetricRange, render func(*float64) string) string {
	if rng == nil {
		return format.Missing
	}
	return render(rng.Highest) + " - " + render(rng.Lowest)
}
