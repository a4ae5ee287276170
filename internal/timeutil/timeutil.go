// Package timeutil holds the small calendar arithmetic the booking engine is
// built on. All civil times are anchored to UTC; the platform runs in a single
// implicit time reference.
package timeutil

import (
	"errors"
	"time"
)

var (
	ErrInvalidTimeFormat = errors.New("invalid time format, want HH:MM")
	ErrInvalidDate       = errors.New("invalid date, want YYYY-MM-DD")
)

// Weekday maps t to ISO numbering: 1=Monday .. 7=Sunday.
// Note time.Weekday uses 0=Sunday; every caller in this codebase goes through
// this mapping instead.
func Weekday(t time.Time) int {
	wd := int(t.Weekday())
	if wd == 0 {
		return 7
	}
	return wd
}

// ParseHHMM parses a zero-padded wall-clock time like "09:30".
func ParseHHMM(s string) (hour, minute int, err error) {
	if len(s) != 5 || s[2] != ':' {
		return 0, 0, ErrInvalidTimeFormat
	}
	for _, i := range []int{0, 1, 3, 4} {
		if s[i] < '0' || s[i] > '9' {
			return 0, 0, ErrInvalidTimeFormat
		}
	}
	hour = int(s[0]-'0')*10 + int(s[1]-'0')
	minute = int(s[3]-'0')*10 + int(s[4]-'0')
	if hour > 23 || minute > 59 {
		return 0, 0, ErrInvalidTimeFormat
	}
	return hour, minute, nil
}

// ParseDate parses a date-only string into midnight UTC of that day.
func ParseDate(s string) (time.Time, error) {
	d, err := time.ParseInLocation("2006-01-02", s, time.UTC)
	if err != nil {
		return time.Time{}, ErrInvalidDate
	}
	return d, nil
}

// Combine anchors a wall-clock time onto date's day in UTC.
func Combine(date time.Time, hour, minute int) time.Time {
	y, m, d := date.UTC().Date()
	return time.Date(y, m, d, hour, minute, 0, 0, time.UTC)
}

// DateOnly truncates t to midnight UTC.
func DateOnly(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Overlaps reports whether the half-open intervals [aStart,aEnd) and
// [bStart,bEnd) share any instant. Touching endpoints do not overlap.
func Overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && bStart.Before(aEnd)
}

// Contains reports whether [innerStart,innerEnd) lies entirely within
// [outerStart,outerEnd). Shared endpoints count as contained.
func Contains(outerStart, outerEnd, innerStart, innerEnd time.Time) bool {
	return !innerStart.Before(outerStart) && !innerEnd.After(outerEnd)
}
