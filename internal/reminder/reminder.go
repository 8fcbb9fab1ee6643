// Package reminder decides which contacts are due for outreach.
//
// Two sources can fire for a contact: a trailing birthday window and an
// overdue cadence. A birthday reminder suppresses the cadence reminder, so
// each contact yields at most one Entry per evaluation. Entries are computed
// from a contact snapshot and a supplied "today"; nothing is stored.
package reminder

import (
	"encoding/json"
	"time"

	"github.com/lazypower/stayintouch/internal/store"
)

// Status labels the reason an Entry was produced.
type Status string

const (
	StatusBirthday Status = "birthday_reminder"
	StatusOverdue  Status = "overdue"
	// StatusDueSoon is part of the wire vocabulary; the cadence path
	// currently emits only StatusOverdue.
	StatusDueSoon Status = "due_soon"
)

// BirthdayWindowDays is how many days after a birthday it still triggers.
const BirthdayWindowDays = 3

// Entry is a reminder for one contact.
type Entry struct {
	ID              int64           `json:"id"`
	Name            string          `json:"name"`
	WhatsAppNumber  string          `json:"whatsapp_number"`
	Birthday        string          `json:"birthday"`
	Frequency       store.Frequency `json:"reminder_frequency_days"`
	LastContactDate string          `json:"last_contact_date"`
	Notes           string          `json:"notes"`
	ContactGroup    string          `json:"contact_group"`

	// DaysSinceContact is nil when the contact was never reached or the
	// stored date is unreadable.
	DaysSinceContact  *int   `json:"days_since_contact"`
	Status            Status `json:"status"`
	DaysUntilBirthday *int   `json:"days_until_birthday,omitempty"`
}

// MarshalJSON writes unset optional contact fields as null.
func (e Entry) MarshalJSON() ([]byte, error) {
	type plain Entry
	return json.Marshal(struct {
		plain
		WhatsAppNumber  *string `json:"whatsapp_number"`
		Birthday        *string `json:"birthday"`
		LastContactDate *string `json:"last_contact_date"`
		Notes           *string `json:"notes"`
	}{plain(e), store.Optional(e.WhatsAppNumber), store.Optional(e.Birthday), store.Optional(e.LastContactDate), store.Optional(e.Notes)})
}

// OverdueBy returns how many days past its cadence an overdue entry is.
// ok is false for birthday entries, never-contacted contacts and
// non-numeric cadences.
func (e Entry) OverdueBy() (days int, ok bool) {
	cadence, err := e.Frequency.Cadence()
	if err != nil || e.DaysSinceContact == nil {
		return 0, false
	}
	return *e.DaysSinceContact - cadence, true
}

// Clock abstracts time.Now so adapters can inject "today".
type Clock interface {
	Now() time.Time
}

// SystemClock reads the wall clock.
type SystemClock struct{}

// Now returns the current local time.
func (SystemClock) Now() time.Time { return time.Now() }

// ClockFunc adapts a function to Clock.
type ClockFunc func() time.Time

func (f ClockFunc) Now() time.Time { return f() }

// Classify returns the reminder for c as of today, if any.
func Classify(c store.Contact, today time.Time) (Entry, bool) {
	since, sinceErr := DaysSinceContact(c.LastContactDate, today)

	if c.Birthday != "" {
		if until, err := DaysUntilBirthday(c.Birthday, today); err == nil &&
			until <= 0 && until >= -BirthdayWindowDays {
			e := newEntry(c, StatusBirthday)
			if sinceErr == nil && since != NeverContacted {
				e.DaysSinceContact = &since
			}
			e.DaysUntilBirthday = &until
			return e, true
		}
	}

	cadence, err := c.Frequency.Cadence()
	if err != nil || sinceErr != nil {
		return Entry{}, false
	}
	if since >= cadence {
		e := newEntry(c, StatusOverdue)
		if since != NeverContacted {
			e.DaysSinceContact = &since
		}
		return e, true
	}
	return Entry{}, false
}

// Evaluate classifies every contact and returns the reminders in input order.
// The result is never nil.
func Evaluate(contacts []store.Contact, today time.Time) []Entry {
	entries := []Entry{}
	for _, c := range contacts {
		if e, ok := Classify(c, today); ok {
			entries = append(entries, e)
		}
	}
	return entries
}

// Evaluator runs Evaluate against its Clock.
type Evaluator struct {
	Clock Clock
}

// NewEvaluator returns an Evaluator on the given clock, or the system clock
// when clock is nil.
func NewEvaluator(clock Clock) *Evaluator {
	if clock == nil {
		clock = SystemClock{}
	}
	return &Evaluator{Clock: clock}
}

// Evaluate classifies contacts as of the evaluator's current time.
func (ev *Evaluator) Evaluate(contacts []store.Contact) []Entry {
	return Evaluate(contacts, ev.Clock.Now())
}

func newEntry(c store.Contact, status Status) Entry {
	return Entry{
		ID:              c.ID,
		Name:            c.Name,
		WhatsAppNumber:  c.WhatsAppNumber,
		Birthday:        c.Birthday,
		Frequency:       c.Frequency,
		LastContactDate: c.LastContactDate,
		Notes:           c.Notes,
		ContactGroup:    c.ContactGroup,
		Status:          status,
	}
}
