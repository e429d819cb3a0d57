// Package filter decides whether an expense timestamp falls inside a
// recency window. Include is pure: callers capture "now" once per
// filtering pass and reuse it for every expense in that pass, so the
// window boundaries cannot shift mid-evaluation.
package filter

import (
	"errors"
	"time"
)

// Mode selects the recency window.
type Mode string

const (
	All       Mode = "all"
	Today     Mode = "today"
	Last4Days Mode = "4days"
	ThisWeek  Mode = "week"
	ThisMonth Mode = "month"
)

var ErrUnknownMode = errors.New("unknown filter mode")

// ParseMode validates a filter mode string. The empty string maps to All,
// the default selection.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case "":
		return All, nil
	case All, Today, Last4Days, ThisWeek, ThisMonth:
		return Mode(s), nil
	default:
		return "", ErrUnknownMode
	}
}

// Include reports whether an expense dated t passes the filter relative
// to now. Interval modes are closed on both ends.
func Include(t time.Time, mode Mode, now time.Time) bool {
	switch mode {
	case Today:
		return sameDay(t, now)
	case Last4Days:
		lo := now.AddDate(0, 0, -4)
		return !t.Before(lo) && !t.After(now)
	case ThisWeek:
		// The week begins on Sunday (weekday index 0); the boundary keeps
		// now's time of day.
		lo := now.AddDate(0, 0, -int(now.Weekday()))
		return !t.Before(lo) && !t.After(now)
	case ThisMonth:
		t = t.In(now.Location())
		return t.Year() == now.Year() && t.Month() == now.Month()
	default:
		return true
	}
}

func sameDay(t, now time.Time) bool {
	y1, m1, d1 := t.In(now.Location()).Date()
	y2, m2, d2 := now.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}
