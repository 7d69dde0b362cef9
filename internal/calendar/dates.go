// Package calendar builds the month, year and day views shown by calendar clients.
package calendar

import (
	"fmt"
	"time"
)

// DateLayout is the wire format for solar dates.
const DateLayout = "2006-01-02"

// WeekdayVN returns the Vietnamese weekday name (Chủ nhật, Thứ hai, ...).
func WeekdayVN(wd time.Weekday) string {
	days := []string{"Chủ nhật", "Thứ hai", "Thứ ba", "Thứ tư", "Thứ năm", "Thứ sáu", "Thứ bảy"}
	return days[wd]
}

// WeekdayShortVN returns the grid header label (T2..T7, CN).
func WeekdayShortVN(wd time.Weekday) string {
	days := []string{"CN", "T2", "T3", "T4", "T5", "T6", "T7"}
	return days[wd]
}

// WeekHeaderVN lists the grid header labels, Monday first.
func WeekHeaderVN() []string {
	return []string{"T2", "T3", "T4", "T5", "T6", "T7", "CN"}
}

// Date returns the civil date y-m-d at midnight UTC.
func Date(year, month, day int) time.Time {
	return time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
}

// ValidDate reports whether y-m-d is a real Gregorian date.
func ValidDate(year, month, day int) bool {
	if month < 1 || month > 12 || day < 1 {
		return false
	}
	d := Date(year, month, day)
	return d.Year() == year && int(d.Month()) == month && d.Day() == day
}

// ParseDate parses a date string in YYYY-MM-DD format.
func ParseDate(s string) (time.Time, error) {
	d, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse date %q: %w", s, err)
	}
	return d, nil
}

// FormatDate formats a date as YYYY-MM-DD.
func FormatDate(d time.Time) string {
	return d.Format(DateLayout)
}

// isoWeekday maps Monday to 0 and Sunday to 6.
func isoWeekday(d time.Time) int {
	return (int(d.Weekday()) + 6) % 7
}

// gridBounds returns the Monday on or before the 1st and the Sunday on or
// after the last day of the month.
func gridBounds(year, month int) (time.Time, time.Time) {
	first := Date(year, month, 1)
	last := first.AddDate(0, 1, -1)

	start := first.AddDate(0, 0, -isoWeekday(first))
	end := last.AddDate(0, 0, 6-isoWeekday(last))
	return start, end
}

func sameDay(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month() && a.Day() == b.Day()
}
