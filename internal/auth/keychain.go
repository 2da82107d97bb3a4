package auth

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/tradeoff/gameclient/internal/model"
)

// recordName is the single keychain slot the client uses.
const recordName = "current-user"

const keychainSchema = `
CREATE TABLE IF NOT EXISTS credentials (
    name       TEXT PRIMARY KEY,
    payload    TEXT     NOT NULL,
    saved_at   DATETIME NOT NULL
);
`

// SQLiteKeychain stores the credential in a local SQLite database
// (pure Go driver, no CGo).
type SQLiteKeychain struct {
	db *sql.DB
}

// NewSQLiteKeychain opens (or creates) the keychain database at the given path.
func NewSQLiteKeychain(path string) (*SQLiteKeychain, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open keychain db: %w", err)
	}

	if _, err := db.Exec(keychainSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply keychain schema: %w", err)
	}

	return &SQLiteKeychain{db: db}, nil
}

// Save upserts the credential under the named record.
func (k *SQLiteKeychain) Save(cred model.Credential) error {
	payload, err := json.Marshal(cred)
	if err != nil {
		return fmt.Errorf("marshal credential: %w", err)
	}

	_, err = k.db.Exec(`
		INSERT INTO credentials (name, payload, saved_at) VALUES (?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET payload = excluded.payload, saved_at = excluded.saved_at`,
		recordName, string(payload), time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("save credential: %w", err)
	}
	return nil
}

// Load reads the named record. A missing record is not an error.
func (k *SQLiteKeychain) Load() (*model.Credential, error) {
	var payload string
	err := k.db.QueryRow(`SELECT payload FROM credentials WHERE name = ?`, recordName).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load credential: %w", err)
	}

	var cred model.Credential
	if err := json.Unmarshal([]byte(payload), &cred); err != nil {
		return nil, fmt.Errorf("unmarshal credential: %w", err)
	}
	return &cred, nil
}

// Delete removes the named record. Idempotent.
func (k *SQLiteKeychain) Delete() error {
	if _, err := k.db.Exec(`DELETE FROM credentials WHERE name = ?`, recordName); err != nil {
		return fmt.Errorf("delete credential: %w", err)
	}
	return nil
}

// Close closes the underlying database.
func (k *SQLiteKeychain) Close() error {
	return k.db.Close()
}
