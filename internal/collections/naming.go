// Package collections maps calendar dates to per-day collection names.
//
// Every process that touches the store derives collection names from the same
// configured timezone, so a labeling session, the batch generator, and the web
// API all agree on which bucket "yesterday" means.
package collections

import (
	"fmt"
	"strings"
	"time"
)

// Suffix marks collections managed by this pipeline.
const Suffix = "-resumes"

// now is swapped out by tests.
var now = time.Now

// NameForDate returns the collection name for the calendar date of t in loc,
// formatted "{month}-{dd}-resumes", all lowercase.
func NameForDate(t time.Time, loc *time.Location) string {
	local := t.In(loc)
	return fmt.Sprintf("%s-%02d%s", strings.ToLower(local.Month().String()), local.Day(), Suffix)
}

// TodayName returns the collection name for today in loc.
func TodayName(loc *time.Location) string {
	return NameForDate(now(), loc)
}

// PreviousDayName returns the collection name for yesterday in loc.
func PreviousDayName(loc *time.Location) string {
	return NameForDate(now().In(loc).AddDate(0, 0, -1), loc)
}

// NextDayName returns the collection name for tomorrow in loc.
func NextDayName(loc *time.Location) string {
	return NameForDate(now().In(loc).AddDate(0, 0, 1), loc)
}

// IsManaged reports whether name follows the per-day naming scheme.
func IsManaged(name string) bool {
	return strings.HasSuffix(name, Suffix)
}
