// Package vcard imports contacts from vCard (.vcf) address book exports.
package vcard

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/emersion/go-vcard"

	"github.com/lazypower/stayintouch/internal/reminder"
	"github.com/lazypower/stayintouch/internal/store"
)

// PlaceholderYear stands in for birthdays exported without a year. It is a
// leap year so --02-29 survives.
const PlaceholderYear = 1604

var (
	yearFormats   = []string{"2006-01-02", "20060102", time.RFC3339, "2006-01-02T15:04:05Z"}
	noYearFormats = []string{"--01-02", "--0102"}
)

// Parse decodes every card in r into a ContactInput. Cards with no usable
// name are counted in skipped. Unreadable birthdays are dropped, not fatal.
func Parse(r io.Reader) (contacts []store.ContactInput, skipped int, err error) {
	dec := vcard.NewDecoder(r)
	contacts = []store.ContactInput{}
	for {
		card, err := dec.Decode()
		if errors.Is(err, io.EOF) {
			return contacts, skipped, nil
		}
		if err != nil {
			return contacts, skipped, fmt.Errorf("decode vcard %d: %w", len(contacts)+skipped+1, err)
		}

		in, ok := fromCard(card)
		if !ok {
			skipped++
			continue
		}
		contacts = append(contacts, in)
	}
}

func fromCard(card vcard.Card) (store.ContactInput, bool) {
	name := cardName(card)
	if name == "" {
		return store.ContactInput{}, false
	}
	in := store.ContactInput{
		Name:           name,
		WhatsAppNumber: phone(card),
		Notes:          strings.TrimSpace(card.Value(vcard.FieldNote)),
		ContactGroup:   category(card),
	}
	if bday, ok := ParseBirthday(card.Value(vcard.FieldBirthday)); ok {
		in.Birthday = bday
	}
	return in, true
}

// cardName prefers FN and falls back to the structured N field.
func cardName(card vcard.Card) string {
	if fn := strings.TrimSpace(card.Value(vcard.FieldFormattedName)); fn != "" {
		return fn
	}
	n := card.Name()
	if n == nil {
		return ""
	}
	parts := []string{}
	for _, p := range []string{n.GivenName, n.AdditionalName, n.FamilyName} {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, " ")
}

// phone returns the first cell number, or the first number of any kind.
func phone(card vcard.Card) string {
	tels := card[vcard.FieldTelephone]
	for _, f := range tels {
		if hasType(f, vcard.TypeCell) {
			return strings.TrimSpace(f.Value)
		}
	}
	if len(tels) > 0 {
		return strings.TrimSpace(tels[0].Value)
	}
	return ""
}

func hasType(f *vcard.Field, want string) bool {
	for _, v := range f.Params[vcard.ParamType] {
		for _, t := range strings.Split(v, ",") {
			if strings.EqualFold(strings.TrimSpace(t), want) {
				return true
			}
		}
	}
	return false
}

func category(card vcard.Card) string {
	for _, c := range strings.Split(card.Value(vcard.FieldCategories), ",") {
		if c = strings.TrimSpace(c); c != "" {
			return strings.ToLower(c)
		}
	}
	return ""
}

// ParseBirthday normalizes a vCard BDAY value to YYYY-MM-DD. Year-less
// values get PlaceholderYear.
func ParseBirthday(value string) (string, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return "", false
	}
	for _, f := range yearFormats {
		if t, err := time.Parse(f, value); err == nil {
			return t.Format(reminder.DateLayout), true
		}
	}
	for _, f := range noYearFormats {
		// Parsing without a year lands in year 0, where Feb 29 is valid.
		if t, err := time.Parse(f, value); err == nil {
			d := time.Date(PlaceholderYear, t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
			return d.Format(reminder.DateLayout), true
		}
	}
	return "", false
}

// HasYear reports whether a stored birthday carries a real birth year.
func HasYear(birthday string) bool {
	return !strings.HasPrefix(birthday, fmt.Sprintf("%04d-", PlaceholderYear))
}
