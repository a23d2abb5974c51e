package pdf

import (
	"github.com/noah-isme/dropout-api/internal/models"
	"github.com/noah-isme/dropout-api/pkg/format"
)

// attendanceTable builds the per-course document table: one status column per
// date (limited), with the authoritative attendance rate as the emphasis
// column. Statuses absent from a student's map render as 0.
func attendanceTable(course models.CourseReport) Table {
	dates := course.DateColumns(maxDocumentDates)

	columns := make([]Column, 0, len(dates)+3)
	columns = append(columns,
		Column{Header: "#", Width: 24, Align: "C"},
		Column{Header: "Student Name", Width: 140},
	)
	for _, date := range dates {
		columns = append(columns, Column{Header: format.DocumentDate(date), Align: "C"})
	}
	columns = append(columns, Column{Header: "Rate", Width: 50, Align: "C", Emphasis: true})

	rows := make([][]string, 0, len(course.StudentAttendance))
	for i, rec := range course.StudentAttendance {
		row := make([]string, 0, len(dates)+3)
		row = append(row, format.Count(i+1), rec.StudentName)
		for _, date := range dates {
			raw, ok := rec.AttendanceByDate[date]
			row = append(row, format.DocumentStatus(raw, ok))
		}
		row = append(row, format.Percent(rec.AttendanceRate))
		rows = append(rows, row)
	}

	return Table{Columns: columns, Rows: rows}
}
