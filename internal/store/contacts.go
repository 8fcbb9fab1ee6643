package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
)

// DefaultContactGroup is assigned when a contact is created without a group.
const DefaultContactGroup = "friends"

// Contact is a person the user wants to stay in touch with.
// Birthday and LastContactDate are YYYY-MM-DD strings; empty means unset.
type Contact struct {
	ID              int64     `json:"id"`
	Name            string    `json:"name"`
	WhatsAppNumber  string    `json:"whatsapp_number"`
	Birthday        string    `json:"birthday"`
	Frequency       Frequency `json:"reminder_frequency_days"`
	LastContactDate string    `json:"last_contact_date"`
	Notes           string    `json:"notes"`
	CreatedAt       string    `json:"created_at"`
	ContactGroup    string    `json:"contact_group"`
}

// MarshalJSON writes unset optional fields as null.
func (c Contact) MarshalJSON() ([]byte, error) {
	type plain Contact
	return json.Marshal(struct {
		plain
		WhatsAppNumber  *string `json:"whatsapp_number"`
		Birthday        *string `json:"birthday"`
		LastContactDate *string `json:"last_contact_date"`
		Notes           *string `json:"notes"`
	}{plain(c), Optional(c.WhatsAppNumber), Optional(c.Birthday), Optional(c.LastContactDate), Optional(c.Notes)})
}

// Optional maps "" to nil, for JSON fields that read null when unset.
func Optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// ContactInput holds the fields for a new contact.
type ContactInput struct {
	Name            string     `json:"name"`
	WhatsAppNumber  string     `json:"whatsapp_number"`
	Birthday        string     `json:"birthday"`
	Frequency       *Frequency `json:"reminder_frequency_days"` // nil: DefaultFrequencyDays
	LastContactDate string     `json:"last_contact_date"`
	Notes           string     `json:"notes"`
	ContactGroup    string     `json:"contact_group"`
}

// ContactPatch holds a partial update. Nil fields are left unchanged; a
// pointer to "" clears the column.
type ContactPatch struct {
	Name            *string    `json:"name"`
	WhatsAppNumber  *string    `json:"whatsapp_number"`
	Birthday        *string    `json:"birthday"`
	Frequency       *Frequency `json:"reminder_frequency_days"`
	LastContactDate *string    `json:"last_contact_date"`
	Notes           *string    `json:"notes"`
	ContactGroup    *string    `json:"contact_group"`
}

const contactColumns = `id, name, whatsapp_number, birthday, reminder_frequency_days,
	last_contact_date, notes, created_at, contact_group`

// ListContacts returns every contact in insertion order. This is the single
// snapshot read the reminder evaluator works from.
func (db *DB) ListContacts() ([]Contact, error) {
	rows, err := db.Query(`SELECT ` + contactColumns + ` FROM contacts ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list contacts: %w", err)
	}
	defer rows.Close()

	contacts := []Contact{}
	for rows.Next() {
		c, err := scanContact(rows)
		if err != nil {
			return nil, err
		}
		contacts = append(contacts, *c)
	}
	return contacts, rows.Err()
}

// GetContact returns a contact by id, or nil if it does not exist.
func (db *DB) GetContact(id int64) (*Contact, error) {
	row := db.QueryRow(`SELECT `+contactColumns+` FROM contacts WHERE id = ?`, id)
	c, err := scanContact(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return c, nil
}

// CreateContact inserts a contact and returns its id.
func (db *DB) CreateContact(in ContactInput) (int64, error) {
	freq := Every(DefaultFrequencyDays)
	if in.Frequency != nil {
		freq = *in.Frequency
	}
	group := in.ContactGroup
	if group == "" {
		group = DefaultContactGroup
	}

	result, err := db.Exec(`
		INSERT INTO contacts (name, whatsapp_number, birthday, reminder_frequency_days, last_contact_date, notes, contact_group)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, strings.TrimSpace(in.Name), nullIfEmpty(in.WhatsAppNumber), nullIfEmpty(in.Birthday), freq,
		nullIfEmpty(in.LastContactDate), nullIfEmpty(in.Notes), group)
	if err != nil {
		return 0, fmt.Errorf("insert contact: %w", err)
	}
	return result.LastInsertId()
}

// UpdateContact applies a partial update. Returns ErrNotFound if no contact
// has the given id.
func (db *DB) UpdateContact(id int64, p ContactPatch) error {
	var sets []string
	var args []any
	set := func(col string, v any) {
		sets = append(sets, col+" = ?")
		args = append(args, v)
	}

	if p.Name != nil {
		set("name", strings.TrimSpace(*p.Name))
	}
	if p.WhatsAppNumber != nil {
		set("whatsapp_number", nullIfEmpty(*p.WhatsAppNumber))
	}
	if p.Birthday != nil {
		set("birthday", nullIfEmpty(*p.Birthday))
	}
	if p.Frequency != nil {
		set("reminder_frequency_days", *p.Frequency)
	}
	if p.LastContactDate != nil {
		set("last_contact_date", nullIfEmpty(*p.LastContactDate))
	}
	if p.Notes != nil {
		set("notes", nullIfEmpty(*p.Notes))
	}
	if p.ContactGroup != nil {
		set("contact_group", nullIfEmpty(*p.ContactGroup))
	}

	if len(sets) == 0 {
		c, err := db.GetContact(id)
		if err != nil {
			return err
		}
		if c == nil {
			return ErrNotFound
		}
		return nil
	}

	args = append(args, id)
	result, err := db.Exec(`UPDATE contacts SET `+strings.Join(sets, ", ")+` WHERE id = ?`, args...)
	if err != nil {
		return fmt.Errorf("update contact: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteContact removes a contact and, by cascade, its interaction log.
func (db *DB) DeleteContact(id int64) error {
	result, err := db.Exec(`DELETE FROM contacts WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete contact: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}

// NameExists reports whether another contact already uses name,
// compared case-insensitively. excludeID of 0 excludes nothing.
func (db *DB) NameExists(name string, excludeID int64) (bool, error) {
	var count int
	err := db.QueryRow(`
		SELECT COUNT(*) FROM contacts WHERE lower(name) = lower(?) AND id != ?
	`, strings.TrimSpace(name), excludeID).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("check duplicate name: %w", err)
	}
	return count > 0, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanContact(r rowScanner) (*Contact, error) {
	var c Contact
	var whatsapp, birthday, lastContact, notes, createdAt, group sql.NullString
	err := r.Scan(&c.ID, &c.Name, &whatsapp, &birthday, &c.Frequency,
		&lastContact, &notes, &createdAt, &group)
	if err == sql.ErrNoRows {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("scan contact: %w", err)
	}
	c.WhatsAppNumber = whatsapp.String
	c.Birthday = birthday.String
	c.LastContactDate = lastContact.String
	c.Notes = notes.String
	c.CreatedAt = createdAt.String
	c.ContactGroup = group.String
	return &c, nil
}
