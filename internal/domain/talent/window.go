package talent

import "time"

// Window is an inclusive date range used for promotion queries.
type Window struct {
	After  time.Time
	Before time.Time
}

// Contains reports whether d falls inside the window, boundaries included.
// A window whose After is later than its Before contains nothing.
func (w Window) Contains(d time.Time) bool {
	if w.After.After(w.Before) {
		return false
	}
	return !d.Before(w.After) && !d.After(w.Before)
}

// ReportWindow is the promotion window for a programme year: 1 March of
// the year through 1 March of the following year, so a report never takes
// credit for promotions agreed before intake.
func ReportWindow(year int) Window {
	return Window{
		After:  time.Date(year, time.March, 1, 0, 0, 0, 0, time.UTC),
		Before: time.Date(year+1, time.March, 1, 0, 0, 0, 0, time.UTC),
	}
}
