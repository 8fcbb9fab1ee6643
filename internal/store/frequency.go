package store

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// BirthdayOnly is the cadence sentinel that disables frequency reminders.
const BirthdayOnly = "Birthday only"

// DefaultFrequencyDays is the cadence given to contacts created without one.
const DefaultFrequencyDays = 7

var (
	ErrCadenceDisabled = errors.New("cadence disabled")
	ErrInvalidCadence  = errors.New("invalid cadence value")
)

// Frequency is a contact's reminder cadence. It is either a day count or a
// non-numeric label; the only valid label is BirthdayOnly. It round-trips
// through JSON and SQLite as an integer or a string.
type Frequency struct {
	Days  int
	Label string
}

// Every returns a numeric cadence of the given number of days.
func Every(days int) Frequency {
	return Frequency{Days: days}
}

// BirthdayOnlyFrequency returns the sentinel cadence.
func BirthdayOnlyFrequency() Frequency {
	return Frequency{Label: BirthdayOnly}
}

// Cadence returns the day count. It returns ErrCadenceDisabled for the
// sentinel and ErrInvalidCadence for any other label or a non-positive count.
func (f Frequency) Cadence() (int, error) {
	switch {
	case f.Label == BirthdayOnly:
		return 0, ErrCadenceDisabled
	case f.Label != "":
		return 0, fmt.Errorf("%w: %q", ErrInvalidCadence, f.Label)
	case f.Days <= 0:
		return 0, fmt.Errorf("%w: %d", ErrInvalidCadence, f.Days)
	}
	return f.Days, nil
}

// Validate accepts a positive day count or the sentinel.
func (f Frequency) Validate() error {
	if _, err := f.Cadence(); err != nil && !errors.Is(err, ErrCadenceDisabled) {
		return err
	}
	return nil
}

func (f Frequency) String() string {
	if f.Label != "" {
		return f.Label
	}
	return strconv.Itoa(f.Days)
}

func parseFrequency(s string) Frequency {
	s = strings.TrimSpace(s)
	if n, err := strconv.Atoi(s); err == nil {
		return Frequency{Days: n}
	}
	return Frequency{Label: s}
}

func (f Frequency) MarshalJSON() ([]byte, error) {
	if f.Label != "" {
		return json.Marshal(f.Label)
	}
	return json.Marshal(f.Days)
}

func (f *Frequency) UnmarshalJSON(data []byte) error {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	switch t := v.(type) {
	case nil:
		*f = Frequency{}
	case float64:
		if t != math.Trunc(t) {
			return fmt.Errorf("%w: %v", ErrInvalidCadence, t)
		}
		*f = Frequency{Days: int(t)}
	case string:
		*f = parseFrequency(t)
	default:
		return fmt.Errorf("%w: %s", ErrInvalidCadence, data)
	}
	return nil
}

// Value implements driver.Valuer.
func (f Frequency) Value() (driver.Value, error) {
	if f.Label != "" {
		return f.Label, nil
	}
	return int64(f.Days), nil
}

// Scan implements sql.Scanner.
func (f *Frequency) Scan(src any) error {
	switch t := src.(type) {
	case nil:
		*f = Frequency{}
	case int64:
		*f = Frequency{Days: int(t)}
	case float64:
		*f = Frequency{Days: int(t)}
	case string:
		*f = parseFrequency(t)
	case []byte:
		*f = parseFrequency(string(t))
	default:
		return fmt.Errorf("scan frequency: unsupported type %T", src)
	}
	return nil
}
