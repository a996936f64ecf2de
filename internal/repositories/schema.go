package repositories

import (
	"database/sql"
	"fmt"
)

// InitSchema creates the tables if they do not exist yet. The DDL differs
// between drivers only in the auto-increment primary key syntax.
func InitSchema(db *sql.DB, driver string) error {
	serial := "SERIAL PRIMARY KEY"
	if driver == "sqlite3" {
		serial = "INTEGER PRIMARY KEY AUTOINCREMENT"
	}

	queries := []string{
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS students (
			id %s,
			name TEXT NOT NULL,
			email TEXT NOT NULL UNIQUE,
			password TEXT NOT NULL,
			year INTEGER,
			status TEXT DEFAULT 'active',
			registration_date TIMESTAMP NOT NULL
		)`, serial),
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS admins (
			id %s,
			username TEXT NOT NULL,
			email TEXT NOT NULL UNIQUE,
			password TEXT NOT NULL,
			reg_number TEXT UNIQUE,
			year INTEGER,
			created_at TIMESTAMP NOT NULL
		)`, serial),
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS admin_codes (
			id %s,
			admin_id INTEGER NOT NULL REFERENCES admins(id) ON DELETE CASCADE,
			code_hash TEXT NOT NULL,
			issued_at TIMESTAMP NOT NULL,
			expires_at TIMESTAMP NOT NULL,
			attempts_left INTEGER NOT NULL DEFAULT 5,
			used_at TIMESTAMP
		)`, serial),
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS events (
			id %s,
			title TEXT NOT NULL,
			description TEXT DEFAULT '',
			event_date TIMESTAMP NOT NULL
		)`, serial),
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS event_registrations (
			id %s,
			student_id INTEGER NOT NULL REFERENCES students(id),
			event_name TEXT NOT NULL,
			created_at TIMESTAMP NOT NULL
		)`, serial),
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS payments (
			id %s,
			student_id INTEGER REFERENCES students(id),
			purpose TEXT NOT NULL,
			amount INTEGER NOT NULL,
			method TEXT NOT NULL,
			date TIMESTAMP NOT NULL
		)`, serial),
	}

	for _, q := range queries {
		if _, err := db.Exec(q); err != nil {
			return fmt.Errorf("init schema: %w", err)
		}
	}
	return nil
}
