package store

import (
	"database/sql"
	"fmt"
)

// DefaultInteractionMethod is recorded when a log entry names no method.
const DefaultInteractionMethod = "whatsapp"

// Interaction is one logged touchpoint with a contact.
type Interaction struct {
	ID          int64  `json:"id"`
	ContactID   int64  `json:"contact_id"`
	ContactDate string `json:"contact_date"`
	Method      string `json:"method"`
	Notes       string `json:"notes"`
}

// InteractionInput is the payload for LogInteraction.
type InteractionInput struct {
	ContactDate string `json:"contact_date"`
	Method      string `json:"method"`
	Notes       string `json:"notes"`
}

// LogInteraction records an interaction and moves the contact's
// last_contact_date to it, atomically. Returns ErrNotFound for an unknown
// contact.
func (db *DB) LogInteraction(contactID int64, in InteractionInput) (*Interaction, error) {
	method := in.Method
	if method == "" {
		method = DefaultInteractionMethod
	}

	tx, err := db.Begin()
	if err != nil {
		return nil, fmt.Errorf("begin log interaction: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.Exec(`UPDATE contacts SET last_contact_date = ? WHERE id = ?`, in.ContactDate, contactID)
	if err != nil {
		return nil, fmt.Errorf("update last contact: %w", err)
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		return nil, ErrNotFound
	}

	result, err = tx.Exec(`
		INSERT INTO contact_logs (contact_id, contact_date, method, notes)
		VALUES (?, ?, ?, ?)
	`, contactID, in.ContactDate, method, nullIfEmpty(in.Notes))
	if err != nil {
		return nil, fmt.Errorf("insert contact log: %w", err)
	}
	id, _ := result.LastInsertId()

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit log interaction: %w", err)
	}

	return &Interaction{
		ID:          id,
		ContactID:   contactID,
		ContactDate: in.ContactDate,
		Method:      method,
		Notes:       in.Notes,
	}, nil
}

// ListInteractions returns a contact's log, most recent first.
func (db *DB) ListInteractions(contactID int64) ([]Interaction, error) {
	rows, err := db.Query(`
		SELECT id, contact_id, contact_date, method, notes
		FROM contact_logs WHERE contact_id = ?
		ORDER BY contact_date DESC, id DESC
	`, contactID)
	if err != nil {
		return nil, fmt.Errorf("list interactions: %w", err)
	}
	defer rows.Close()

	logs := []Interaction{}
	for rows.Next() {
		var it Interaction
		var method, notes sql.NullString
		if err := rows.Scan(&it.ID, &it.ContactID, &it.ContactDate, &method, &notes); err != nil {
			return nil, fmt.Errorf("scan interaction: %w", err)
		}
		it.Method = method.String
		it.Notes = notes.String
		logs = append(logs, it)
	}
	return logs, rows.Err()
}
