package models

import "time"

// ExportRecord is the audit row persisted for every generated document.
type ExportRecord struct {
	ID         string     `db:"id" json:"id"`
	SchoolID   string     `db:"school_id" json:"schoolId"`
	Kind       ReportKind `db:"kind" json:"kind"`
	CourseID   string     `db:"course_id" json:"courseId"`
	Filename   string     `db:"filename" json:"filename"`
	SizeBytes  int64      `db:"size_bytes" json:"sizeBytes"`
	Pages      int        `db:"pages" json:"pages"`
	DurationMS int64      `db:"duration_ms" json:"durationMs"`
	CreatedBy  string     `db:"created_by" json:"createdBy"`
	CreatedAt  time.Time  `db:"created_at" json:"createdAt"`
}
