// Package calendar exports contact birthdays as an iCalendar feed.
package calendar

import (
	"bytes"
	"fmt"
	"time"

	"github.com/emersion/go-ical"

	"github.com/lazypower/stayintouch/internal/reminder"
	"github.com/lazypower/stayintouch/internal/store"
	"github.com/lazypower/stayintouch/internal/vcard"
)

const (
	prodID   = "-//StayInTouch//Birthdays//EN"
	calName  = "StayInTouch Birthdays"
	uidHost  = "stayintouch"
	yearly   = "FREQ=YEARLY"
	propName = "X-WR-CALNAME"
)

// emptyCalendar is served when no contact has a birthday; the encoder
// refuses a calendar without components.
const emptyCalendar = "BEGIN:VCALENDAR\r\nVERSION:2.0\r\nPRODID:" + prodID + "\r\nEND:VCALENDAR\r\n"

// anchor places a birthday of unknown year in the latest year up to year
// that has its date, so Feb 29 lands on a leap year instead of Mar 1.
func anchor(born time.Time, year int) time.Time {
	for {
		t := time.Date(year, born.Month(), born.Day(), 0, 0, 0, 0, time.UTC)
		if t.Day() == born.Day() {
			return t
		}
		year--
	}
}

// Build renders one yearly all-day event per contact with a readable
// birthday. now stamps DTSTAMP and anchors birthdays with no known year.
func Build(contacts []store.Contact, now time.Time) ([]byte, error) {
	cal := ical.NewCalendar()
	cal.Props.SetText(ical.PropVersion, "2.0")
	cal.Props.SetText(ical.PropProductID, prodID)
	cal.Props.SetText(ical.PropCalendarScale, "GREGORIAN")
	cal.Props.SetText(propName, calName)

	stamp := ical.NewProp(ical.PropDateTimeStamp)
	stamp.SetDateTime(now.UTC())

	for _, c := range contacts {
		if c.Birthday == "" {
			continue
		}
		born, err := reminder.ParseDate(c.Birthday)
		if err != nil {
			continue
		}
		start := born
		if !vcard.HasYear(c.Birthday) {
			start = anchor(born, now.Year())
		}

		event := ical.NewEvent()
		event.Props.SetText(ical.PropUID, fmt.Sprintf("contact-%d-birthday@%s", c.ID, uidHost))
		event.Props.Set(stamp)
		event.Props.SetText(ical.PropSummary, fmt.Sprintf("🎂 %s's birthday", c.Name))
		if c.Notes != "" {
			event.Props.SetText(ical.PropDescription, c.Notes)
		}

		dtStart := ical.NewProp(ical.PropDateTimeStart)
		dtStart.SetDate(start)
		event.Props.Set(dtStart)

		rrule := ical.NewProp(ical.PropRecurrenceRule)
		rrule.Value = yearly
		event.Props.Set(rrule)

		cal.Children = append(cal.Children, event.Component)
	}

	if len(cal.Children) == 0 {
		return []byte(emptyCalendar), nil
	}

	var buf bytes.Buffer
	if err := ical.NewEncoder(&buf).Encode(cal); err != nil {
		return nil, fmt.Errorf("encode calendar: %w", err)
	}
	return buf.Bytes(), nil
}
