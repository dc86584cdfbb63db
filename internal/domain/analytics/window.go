package analytics

import (
	"errors"
	"time"

	"github.com/sangkips/dukahub-api/internal/domain/enum"
)

var (
	// ErrInvalidDateRange is returned when a custom range ends before it starts
	// or is missing altogether. Ranges are never swapped silently.
	ErrInvalidDateRange = errors.New("invalid date range: end date is before start date")
	ErrUnknownRange     = errors.New("unknown range kind")
)

// Window is a closed interval [Start, End]. Both ends are inclusive.
type Window struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Contains reports whether t lies within the window, inclusive of both ends
func (w Window) Contains(t time.Time) bool {
	return !t.Before(w.Start) && !t.After(w.End)
}

// Windows pairs a reporting window with the window it is compared against
type Windows struct {
	Current  Window `json:"current"`
	Previous Window `json:"previous"`
}

// ResolveWindow turns a range kind into the current and previous reporting
// windows. Midnight is taken in now's location.
//
// The previous window steps back the same calendar unit from the current
// start (custom ranges step back by the same number of calendar days) and
// ends one nanosecond before it, so no instant belongs to both windows.
func ResolveWindow(kind enum.RangeKind, now time.Time, custom *Window) (Windows, error) {
	var start, prevStart time.Time

	switch kind {
	case enum.RangeDay:
		start = midnight(now)
		prevStart = midnight(start.AddDate(0, 0, -1))
	case enum.RangeWeek:
		start = midnight(now.AddDate(0, 0, -7))
		prevStart = midnight(start.AddDate(0, 0, -7))
	case enum.RangeMonth:
		start = midnight(subtractMonths(now, 1))
		prevStart = midnight(subtractMonths(start, 1))
	case enum.RangeYear:
		start = midnight(subtractMonths(now, 12))
		prevStart = midnight(subtractMonths(start, 12))
	case enum.RangeCustom:
		return customWindows(custom)
	default:
		return Windows{}, ErrUnknownRange
	}

	return Windows{
		Current:  Window{Start: start, End: now},
		Previous: Window{Start: prevStart, End: start.Add(-time.Nanosecond)},
	}, nil
}

func customWindows(custom *Window) (Windows, error) {
	if custom == nil || custom.Start.IsZero() || custom.End.IsZero() {
		return Windows{}, ErrInvalidDateRange
	}
	if custom.End.Before(custom.Start) {
		return Windows{}, ErrInvalidDateRange
	}

	days, clock := calendarSpan(custom.Start, custom.End)
	prevEnd := custom.Start.Add(-time.Nanosecond)
	return Windows{
		Current:  *custom,
		Previous: Window{Start: prevEnd.AddDate(0, 0, -days).Add(-clock), End: prevEnd},
	}, nil
}

// Days counts the calendar days w touches, in w.Start's location
func (w Window) Days() int {
	if w.End.Before(w.Start) {
		return 0
	}
	days, _ := calendarSpan(w.Start, w.End)
	return days + 1
}

// calendarSpan splits end - start into whole calendar days plus the
// difference in time of day. Neither part can overflow time.Duration.
func calendarSpan(start, end time.Time) (int, time.Duration) {
	end = end.In(start.Location())
	days := civilDay(end) - civilDay(start)
	clock := end.Sub(midnight(end)) - start.Sub(midnight(start))
	return int(days), clock
}

func civilDay(t time.Time) int64 {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC).Unix() / 86400
}

// DayBounds returns local midnight of day's date and the last nanosecond of it
func DayBounds(day time.Time) (time.Time, time.Time) {
	start := midnight(day)
	return start, start.AddDate(0, 0, 1).Add(-time.Nanosecond)
}

func midnight(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// subtractMonths moves t back n calendar months, clamping the day to the
// length of the target month (31 March minus one month is 28/29 February).
func subtractMonths(t time.Time, n int) time.Time {
	y, m, d := t.Date()
	first := time.Date(y, m-time.Month(n), 1, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
	if last := daysIn(first); d > last {
		d = last
	}
	return time.Date(first.Year(), first.Month(), d, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
}

func daysIn(t time.Time) int {
	return time.Date(t.Year(), t.Month()+1, 0, 0, 0, 0, 0, t.Location()).Day()
}
