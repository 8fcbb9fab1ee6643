package reminder

import (
	"errors"
	"fmt"
	"math"
	"time"
)

// DateLayout is the storage format of birthdays and contact dates.
const DateLayout = "2006-01-02"

// unpaddedLayout also reads rows like "2024-6-1" written without zero padding.
const unpaddedLayout = "2006-1-2"

const secondsPerDay = 24 * 60 * 60

// NeverContacted is the days-since value for a contact with no recorded
// interaction. It exceeds any finite cadence.
const NeverContacted = math.MaxInt32

// ErrInvalidDate reports a stored date that does not parse as DateLayout.
var ErrInvalidDate = errors.New("invalid date")

// ParseDate parses a YYYY-MM-DD date as a UTC calendar day. Month and day
// may omit their leading zero.
func ParseDate(s string) (time.Time, error) {
	if t, err := time.Parse(DateLayout, s); err == nil {
		return t, nil
	}
	t, err := time.Parse(unpaddedLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	return t, nil
}

// calendarDay drops t's time of day and zone, keeping the wall-clock date.
func calendarDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// daysBetween counts whole calendar days from start to end. Both sides are
// UTC midnights, so Unix seconds divide evenly at any span.
func daysBetween(start, end time.Time) int {
	return int((calendarDay(end).Unix() - calendarDay(start).Unix()) / secondsPerDay)
}

// DaysUntilBirthday returns the signed day offset from today to the birthday
// rebased onto today's year. Negative means it already passed this year; the
// value never wraps to next year. A Feb 29 birthday has no date in a common
// year and yields ErrInvalidDate there.
func DaysUntilBirthday(birthday string, today time.Time) (int, error) {
	b, err := ParseDate(birthday)
	if err != nil {
		return 0, err
	}
	thisYear := time.Date(calendarDay(today).Year(), b.Month(), b.Day(), 0, 0, 0, 0, time.UTC)
	if thisYear.Month() != b.Month() || thisYear.Day() != b.Day() {
		return 0, fmt.Errorf("%w: %q has no date in %d", ErrInvalidDate, birthday, thisYear.Year())
	}
	return daysBetween(today, thisYear), nil
}

// DaysSinceContact returns whole days elapsed since lastContact, clamped at
// zero. An empty lastContact yields NeverContacted.
func DaysSinceContact(lastContact string, today time.Time) (int, error) {
	if lastContact == "" {
		return NeverContacted, nil
	}
	t, err := ParseDate(lastContact)
	if err != nil {
		return 0, err
	}
	return max(daysBetween(t, today), 0), nil
}
