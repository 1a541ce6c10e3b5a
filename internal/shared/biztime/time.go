// Package biztime keeps every stored timestamp in UTC and interprets
// admin-entered dates in the site timezone.
package biztime

import (
	"fmt"
	"strings"
	"sync"
	"time"
)

const DefaultTimezone = "UTC"

// DateTimeLayout is the storage/display layout for expirations and payment dates.
const DateTimeLayout = "2006-01-02 15:04:05"

var (
	siteLocation *time.Location
	locationOnce sync.Once
	initErr      error
)

// Init sets the site timezone once at startup. Empty means UTC.
func Init(tz string) error {
	locationOnce.Do(func() {
		if tz == "" {
			tz = DefaultTimezone
		}
		siteLocation, initErr = time.LoadLocation(tz)
	})
	return initErr
}

func Location() *time.Location {
	if siteLocation == nil {
		if err := Init(""); err != nil {
			panic(fmt.Sprintf("biztime: failed to initialize default timezone: %v", err))
		}
	}
	return siteLocation
}

func NowUTC() time.Time {
	return time.Now().UTC()
}

// EndOfDayUTC returns 23:59:59 of t's site-local day, in UTC.
func EndOfDayUTC(t time.Time) time.Time {
	local := t.In(Location())
	return time.Date(local.Year(), local.Month(), local.Day(), 23, 59, 59, 0, Location()).UTC()
}

func StartOfMonthUTC(year int, month time.Month) time.Time {
	return time.Date(year, month, 1, 0, 0, 0, 0, Location()).UTC()
}

func EndOfMonthUTC(year int, month time.Month) time.Time {
	return time.Date(year, month+1, 1, 0, 0, 0, 0, Location()).Add(-time.Nanosecond).UTC()
}

func StartOfYearUTC(year int) time.Time {
	return time.Date(year, 1, 1, 0, 0, 0, 0, Location()).UTC()
}

func EndOfYearUTC(year int) time.Time {
	return time.Date(year+1, 1, 1, 0, 0, 0, 0, Location()).Add(-time.Nanosecond).UTC()
}

var inputLayouts = []string{
	DateTimeLayout,
	"2006-01-02 15:04",
	"2006-01-02",
	"January 2, 2006",
	"Jan 2, 2006",
	"01/02/2006",
	time.RFC3339,
}

// ParseInput parses an admin-entered date or datetime in the site timezone
// and returns it in UTC.
func ParseInput(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range inputLayouts {
		if t, err := time.ParseInLocation(layout, s, Location()); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid date %q", s)
}

// DateWithCurrentTime combines the calendar day of an admin-entered date with
// the current site-local wall clock. An empty input yields now.
func DateWithCurrentTime(s string) (time.Time, error) {
	now := time.Now().In(Location())
	if strings.TrimSpace(s) == "" {
		return now.UTC(), nil
	}
	day, err := ParseInput(s)
	if err != nil {
		return time.Time{}, err
	}
	d := day.In(Location())
	return time.Date(d.Year(), d.Month(), d.Day(), now.Hour(), now.Minute(), now.Second(), 0, Location()).UTC(), nil
}

func FormatInSiteTimezone(t time.Time, layout string) string {
	return t.In(Location()).Format(layout)
}
