package riskrange

import (
	"time"

	"github.com/etnz/riskrange/date"
)

// This file decides whether a trading session is over, and therefore whether
// a close price observed "today" is final enough to persist.

// sessionCloseHour is the daily close of the reference exchange, in its local time.
const sessionCloseHour = 16 // 16:00 America/New_York

// marketZone returns the reference exchange's time zone.
func marketZone() *time.Location {
	loc, err := time.LoadLocation("America/New_York")
	if err != nil {
		// The IANA database always knows America/New_York; without it every
		// instant would be misjudged, so fail loudly.
		panic("cannot load exchange time zone: " + err.Error())
	}
	return loc
}

// IsSessionClosed reports whether the trading session covering the given
// instant is over.
//
// Weekends are always closed (no session occurs, and no vendor returns a
// close price for those calendar dates). On weekdays the session is closed
// at or after the exchange's daily cutoff, open before it.
//
// The result changes within a single process lifetime (a long job can cross
// the cutoff), so callers must not memoize it.
func IsSessionClosed(t time.Time) bool {
	et := t.In(marketZone())
	if wd := et.Weekday(); wd == time.Saturday || wd == time.Sunday {
		return true
	}
	return et.Hour() >= sessionCloseHour
}

// sessionDate returns the calendar day of the given instant as seen from the
// exchange's time zone. That day is what "today" means for caching decisions.
func sessionDate(t time.Time) date.Date {
	return date.New(t.In(marketZone()).Date())
}

// ShouldCacheToday reports whether a price observed now for today's date is
// final and may be persisted.
func ShouldCacheToday() bool { return IsSessionClosed(time.Now()) }
