package main

import (
	"database/sql"
	"encoding/json"
	"log"
	"time"

	_ "modernc.org/sqlite"
)

// Profile holds the economy fields persisted across sessions
type Profile struct {
	Gold         int
	Boats        []int
	FishesCaught int
}

// ProfileStore is the collaborator boundary the world flushes to.
// Reads happen once per session start, writes on catch/purchase/disconnect.
type ProfileStore interface {
	LoadProfile(username string) (*Profile, error)
	SaveProfile(username string, p Profile) error
}

// DB wraps the SQLite database connection
type DB struct {
	conn *sql.DB
}

// AccountRow represents an account record in the database
type AccountRow struct {
	ID        int64
	Username  string
	PassHash  string
	CreatedAt time.Time
}

// OpenDB opens (or creates) the SQLite database
func OpenDB(path string) (*DB, error) {
	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	// Enable WAL mode for better concurrency
	if _, err := conn.Exec("PRAGMA journal_mode=WAL"); err != nil {
		conn.Close()
		return nil, err
	}
	if _, err := conn.Exec("PRAGMA foreign_keys=ON"); err != nil {
		conn.Close()
		return nil, err
	}

	db := &DB{conn: conn}
	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, err
	}
	return db, nil
}

// Close closes the database connection
func (db *DB) Close() error {
	return db.conn.Close()
}

// migrate creates tables if they don't exist
func (db *DB) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS accounts (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		username TEXT NOT NULL UNIQUE,
		pass_hash TEXT NOT NULL DEFAULT '',
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS profiles (
		account_id INTEGER PRIMARY KEY REFERENCES accounts(id),
		gold INTEGER NOT NULL DEFAULT 250,
		boats TEXT NOT NULL DEFAULT '[0]',
		fishes_caught INTEGER NOT NULL DEFAULT 0,
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS events (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		type TEXT NOT NULL,
		username TEXT NOT NULL DEFAULT '',
		session_id TEXT NOT NULL DEFAULT '',
		data TEXT NOT NULL DEFAULT '',
		created_at DATETIME NOT NULL
	);

	CREATE TABLE IF NOT EXISTS settings (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_accounts_username ON accounts(username);
	CREATE INDEX IF NOT EXISTS idx_events_type ON events(type);
	`
	_, err := db.conn.Exec(schema)
	if err != nil {
		log.Printf("DB migration error: %v", err)
	}
	return err
}

// CreateAccount creates a new account with a default profile (returns account ID)
func (db *DB) CreateAccount(username, passHash string) (int64, error) {
	res, err := db.conn.Exec(
		"INSERT INTO accounts (username, pass_hash) VALUES (?, ?)",
		username, passHash,
	)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	_, err = db.conn.Exec("INSERT INTO profiles (account_id) VALUES (?)", id)
	return id, err
}

// GetAccountByUsername returns an account by username, nil if absent
func (db *DB) GetAccountByUsername(username string) (*AccountRow, error) {
	row := db.conn.QueryRow(
		"SELECT id, username, pass_hash, created_at FROM accounts WHERE username = ?",
		username,
	)
	a := &AccountRow{}
	err := row.Scan(&a.ID, &a.Username, &a.PassHash, &a.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return a, err
}

// UsernameExists checks if a username is taken
func (db *DB) UsernameExists(username string) (bool, error) {
	var count int
	err := db.conn.QueryRow("SELECT COUNT(*) FROM accounts WHERE username = ?", username).Scan(&count)
	return count > 0, err
}

// LoadProfile reads the stored economy fields for a username.
// A missing account or profile yields (nil, nil): the caller falls back to
// new-player defaults.
func (db *DB) LoadProfile(username string) (*Profile, error) {
	row := db.conn.QueryRow(`
		SELECT p.gold, p.boats, p.fishes_caught
		FROM profiles p JOIN accounts a ON a.id = p.account_id
		WHERE a.username = ?`,
		username,
	)
	var gold, caught int
	var boatsJSON string
	err := row.Scan(&gold, &boatsJSON, &caught)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	prof := &Profile{Gold: gold, FishesCaught: caught}
	if err := json.Unmarshal([]byte(boatsJSON), &prof.Boats); err != nil {
		// Corrupt boat list degrades to the starter boat
		prof.Boats = []int{StarterBoatID}
	}
	return prof, nil
}

// SaveProfile overwrites the stored economy fields for a username
func (db *DB) SaveProfile(username string, p Profile) error {
	boatsJSON, err := json.Marshal(p.Boats)
	if err != nil {
		return err
	}
	_, err = db.conn.Exec(`
		UPDATE profiles SET gold = ?, boats = ?, fishes_caught = ?, updated_at = CURRENT_TIMESTAMP
		WHERE account_id = (SELECT id FROM accounts WHERE username = ?)`,
		p.Gold, string(boatsJSON), p.FishesCaught, username,
	)
	return err
}

// InsertEvents writes a batch of analytics events in one transaction
func (db *DB) InsertEvents(events []GameEvent) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return err
	}
	stmt, err := tx.Prepare(
		"INSERT INTO events (type, username, session_id, data, created_at) VALUES (?, ?, ?, ?, ?)",
	)
	if err != nil {
		tx.Rollback()
		return err
	}
	defer stmt.Close()
	for _, e := range events {
		if _, err := stmt.Exec(e.Type, e.Username, e.SessionID, e.Data, e.Timestamp); err != nil {
			tx.Rollback()
			return err
		}
	}
	return tx.Commit()
}

// GetSetting returns a settings value, or "" if absent
func (db *DB) GetSetting(key string) string {
	var value string
	err := db.conn.QueryRow("SELECT value FROM settings WHERE key = ?", key).Scan(&value)
	if err != nil {
		return ""
	}
	return value
}

// SetSetting stores a settings value
func (db *DB) SetSetting(key, value string) error {
	_, err := db.conn.Exec(
		"INSERT INTO settings (key, value) VALUES (?, ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value",
		key, value,
	)
	return err
}
