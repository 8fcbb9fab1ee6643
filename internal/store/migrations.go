package store

import (
	"fmt"
)

type migration struct {
	Version     int
	Description string
	SQL         string
}

// Migrations are append-only; a released version is never edited.

// reminder_frequency_days keeps INTEGER affinity but may hold the text
// sentinel "Birthday only"; see Frequency.
var migrations = []migration{
	{
		Version:     1,
		Description: "contacts: people to stay in touch with",
		SQL: `
CREATE TABLE contacts (
    id                      INTEGER PRIMARY KEY AUTOINCREMENT,
    name                    TEXT NOT NULL CHECK (length(trim(name)) > 0),
    whatsapp_number         TEXT,
    birthday                TEXT,
    reminder_frequency_days INTEGER DEFAULT 7,
    last_contact_date       TEXT,
    notes                   TEXT,
    created_at              TEXT DEFAULT CURRENT_TIMESTAMP,
    contact_group           TEXT DEFAULT 'friends'
);

CREATE INDEX idx_contacts_name ON contacts(lower(name));
`,
	},
	{
		Version:     2,
		Description: "contact_logs: interaction history per contact",
		SQL: `
CREATE TABLE contact_logs (
    id           INTEGER PRIMARY KEY AUTOINCREMENT,
    contact_id   INTEGER NOT NULL,
    contact_date TEXT NOT NULL,
    method       TEXT DEFAULT 'whatsapp',
    notes        TEXT,
    FOREIGN KEY (contact_id) REFERENCES contacts(id) ON DELETE CASCADE
);

CREATE INDEX idx_logs_contact ON contact_logs(contact_id, contact_date DESC);
`,
	},
}

const schemaVersionsDDL = `
CREATE TABLE IF NOT EXISTS schema_versions (
    version     INTEGER PRIMARY KEY,
    description TEXT NOT NULL,
    applied_at  TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP
)`

// migrate applies every migration newer than the recorded schema version.
func (db *DB) migrate() error {
	if _, err := db.Exec(schemaVersionsDDL); err != nil {
		return fmt.Errorf("create schema_versions: %w", err)
	}
	current, err := db.SchemaVersion()
	if err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}
	for _, m := range migrations {
		if m.Version <= current {
			continue
		}
		if err := db.apply(m); err != nil {
			return err
		}
	}
	return nil
}

// apply runs one migration and records it in a single transaction.
func (db *DB) apply(m migration) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("begin migration %d: %w", m.Version, err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(m.SQL); err != nil {
		return fmt.Errorf("migration %d (%s): %w", m.Version, m.Description, err)
	}
	if _, err := tx.Exec(`INSERT INTO schema_versions (version, description) VALUES (?, ?)`,
		m.Version, m.Description); err != nil {
		return fmt.Errorf("record migration %d: %w", m.Version, err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit migration %d: %w", m.Version, err)
	}
	return nil
}

// SchemaVersion returns the highest applied migration, 0 for a fresh file.
func (db *DB) SchemaVersion() (int, error) {
	var version int
	err := db.QueryRow(`SELECT COALESCE(MAX(version), 0) FROM schema_versions`).Scan(&version)
	return version, err
}
