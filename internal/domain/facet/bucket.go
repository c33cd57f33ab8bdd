package facet

import (
	"fmt"
	"strings"
	"time"
)

// Bucket is a relative creation-date window.
type Bucket string

// Date bucket constants.
const (
	Today Bucket = "today"
	Week  Bucket = "week"
	Month Bucket = "month"
	Year  Bucket = "year"
)

// bucketDays is the inclusive calendar-day span of each bucket.
var bucketDays = map[Bucket]int{
	Today: 0,
	Week:  7,
	Month: 30,
	Year:  365,
}

// ParseBucket parses a date bucket case-insensitively.
func ParseBucket(s string) (Bucket, error) {
	b := Bucket(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := bucketDays[b]; !ok {
		return "", fmt.Errorf("invalid date bucket %q", s)
	}
	return b, nil
}

// Contains reports whether t falls within the bucket relative to now.
// Future instants fall in no bucket.
func (b Bucket) Contains(now, t time.Time) bool {
	span, ok := bucketDays[b]
	if !ok {
		return false
	}
	days := CalendarDays(now, t)
	return days >= 0 && days <= span
}

// CalendarDays returns the number of calendar days from t to now, both truncated
// to midnight in now's location. Negative when t is on a later day than now.
func CalendarDays(now, t time.Time) int {
	loc := now.Location()
	ny, nm, nd := now.Date()
	ty, tm, td := t.In(loc).Date()
	// UTC dates avoid DST-length days skewing the division.
	a := time.Date(ny, nm, nd, 0, 0, 0, 0, time.UTC)
	c := time.Date(ty, tm, td, 0, 0, 0, 0, time.UTC)
	return int(a.Sub(c).Hours() / 24)
}
