package format

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func f(v float64) *float64 { return &v }

func TestGrade(t *testing.T) {
	require.Equal(t, "14.50/20", Grade(f(14.5)))
	require.Equal(t, "0.00/20", Grade(f(0)))
	require.Equal(t, "N/A", Grade(nil))
}

func TestPercent(t *testing.T) {
	require.Equal(t, "87.5%", Percent(f(87.5)))
	require.Equal(t, "100.0%", Percent(f(100)))
	require.Equal(t, "N/A", Percent(nil))
}

func TestProbability(t *testing.T) {
	require.Equal(t, "42.0%", Probability(f(0.42)))
	require.Equal(t, "100.0%", Probability(f(1)))
	require.Equal(t, "N/A", Probability(nil))
}

func TestNormalizeStatus(t *testing.T) {
	require.Equal(t, StatusPresent, NormalizeStatus("1"))
	require.Equal(t, StatusPresent, NormalizeStatus("present"))
	require.Equal(t, StatusPresent, NormalizeStatus(" P "))
	require.Equal(t, StatusAbsent, NormalizeStatus("0"))
	require.Equal(t, StatusAbsent, NormalizeStatus("absent"))
	require.Equal(t, StatusAbsent, NormalizeStatus(""))
}

func TestDocumentStatusMissingRendersAbsent(t *testing.T) {
	require.Equal(t, "1", DocumentStatus("1", true))
	require.Equal(t, "0", DocumentStatus("0", true))
	require.Equal(t, "0", DocumentStatus("", false))
}

func TestScreenStatusMissingStaysBlank(t *testing.T) {
	require.Equal(t, "1", ScreenStatus("PRESENT", true))
	require.Equal(t, "0", ScreenStatus("ABSENT", true))
	require.Equal(t, "", ScreenStatus("", false))
}

func TestDocumentDate(t *testing.T) {
	require.Equal(t, "1/5/2024", DocumentDate("2024-01-05"))
	require.Equal(t, "12/31/2023", DocumentDate("2023-12-31"))
	require.Equal(t, "not-a-date", DocumentDate("not-a-date"))
}

func TestScreenDate(t *testing.T) {
	require.Equal(t, "Jan 5", ScreenDate("2024-01-05"))
	require.Equal(t, "Dec 31", ScreenDate("2023-12-31"))
	require.Equal(t, "garbled", ScreenDate("garbled"))
}

func TestLongDate(t *testing.T) {
	ts := time.Date(2024, time.March, 7, 10, 0, 0, 0, time.UTC)
	require.Equal(t, "March 7, 2024", LongDate(ts))
}

func TestISODate(t *testing.T) {
	ts := time.Date(2024, time.March, 7, 10, 0, 0, 0, time.UTC)
	require.Equal(t, "2024-03-07", ISODate(ts))
}

func TestCapitalize(t *testing.T) {
	require.Equal(t, "Attendance", Capitalize("ATTENDANCE"))
	require.Equal(t, "Grades", Capitalize("grades"))
	require.Equal(t, "", Capitalize(""))
}

func TestTruncate(t *testing.T) {
	require.Equal(t, "Advanced Placement Calculu", Truncate("Advanced Placement Calculus BC", 26))
	require.Equal(t, "Math", Truncate("Math", 25))
	require.Equal(t, "Math", Truncate("Math", 0))
}
