// Package format is the single formatting surface shared by the on-screen
// API payload builders and the PDF document generator. Screen and document
// output intentionally diverge in places (date layout, missing attendance
// statuses); both variants live here so they cannot drift independently.
package format

import (
	"fmt"
	"strings"
	"time"
)

// Missing is rendered wherever a numeric field is absent from the payload.
const Missing = "N/A"

// Attendance status values after normalisation.
const (
	StatusPresent = "PRESENT"
	StatusAbsent  = "ABSENT"
)

// Grade renders a 0-20 scale value with two decimals and the "/20" suffix.
func Grade(v *float64) string {
	if v == nil {
		return Missing
	}
	return fmt.Sprintf("%.2f/20", *v)
}

// Percent renders a 0-100 rate with exactly one decimal place.
func Percent(v *float64) string {
	if v == nil {
		return Missing
	}
	return PercentValue(*v)
}

// PercentValue formats a known 0-100 rate.
func PercentValue(v float64) string {
	return fmt.Sprintf("%.1f%%", v)
}

// Probability renders a 0-1 dropout fraction as a percentage.
func Probability(v *float64) string {
	if v == nil {
		return Missing
	}
	return PercentValue(*v * 100)
}

// Count renders an integer metric.
func Count(n int) string {
	return fmt.Sprintf("%d", n)
}

// NormalizeStatus maps raw upstream attendance markers (including the numeric
// 1/0 codes some course payloads carry) onto PRESENT/ABSENT.
func NormalizeStatus(raw string) string {
	switch strings.ToUpper(strings.TrimSpace(raw)) {
	case "1", StatusPresent, "P":
		return StatusPresent
	default:
		return StatusAbsent
	}
}

// DocumentStatus renders an attendance status for the PDF table: a single
// character, with missing entries shown as absent.
func DocumentStatus(raw string, present bool) string {
	if !present {
		return "0"
	}
	if NormalizeStatus(raw) == StatusPresent {
		return "1"
	}
	return "0"
}

// ScreenStatus renders an attendance status for the dashboard table: missing
// entries stay blank.
func ScreenStatus(raw string, present bool) string {
	if !present {
		return ""
	}
	if NormalizeStatus(raw) == StatusPresent {
		return "1"
	}
	return "0"
}

// DocumentDate renders a date string as M/D/YYYY without zero padding for PDF
// table headers. Unparseable input is passed through unchanged.
func DocumentDate(raw string) string {
	t, ok := parseDate(raw)
	if !ok {
		return raw
	}
	return fmt.Sprintf("%d/%d/%d", int(t.Month()), t.Day(), t.Year())
}

// ScreenDate renders a date string as short month plus day for dashboard
// table headers.
func ScreenDate(raw string) string {
	t, ok := parseDate(raw)
	if !ok {
		return raw
	}
	return t.Format("Jan 2")
}

// LongDate renders the document generation date, e.g. "January 5, 2024".
func LongDate(t time.Time) string {
	return t.Format("January 2, 2006")
}

// ISODate renders the date component used in export file names.
func ISODate(t time.Time) string {
	return t.Format("2006-01-02")
}

// Capitalize renders an uppercase token as a capitalized word, e.g.
// "ATTENDANCE" becomes "Attendance".
func Capitalize(s string) string {
	if s == "" {
		return s
	}
	lower := strings.ToLower(s)
	return strings.ToUpper(lower[:1]) + lower[1:]
}

// Truncate limits a string to n characters.
func Truncate(s string, n int) string {
	if n <= 0 || len(s) <= n {
		return s
	}
	return s[:n]
}

var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02T15:04:05",
	"01/02/2006",
}

func parseDate(raw string) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
