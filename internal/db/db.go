package db

import (
	"fmt"
	"log"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

// Connect initializes the database connection and runs migrations.
func Connect(dsn string) (*sqlx.DB, error) {
	db, err := sqlx.Connect("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("connect db: %w", err)
	}

	if err := runMigrations(db); err != nil {
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return db, nil
}

func runMigrations(db *sqlx.DB) error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS users (
            id SERIAL PRIMARY KEY,
            username TEXT NOT NULL UNIQUE,
            password TEXT NOT NULL
        );`,
		`CREATE TABLE IF NOT EXISTS whispers (
            id SERIAL PRIMARY KEY,
            content TEXT NOT NULL,
            category TEXT NOT NULL,
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
            viewed BOOLEAN NOT NULL DEFAULT FALSE,
            author_id INT REFERENCES users(id),
            is_shared BOOLEAN NOT NULL DEFAULT FALSE,
            shared_at TIMESTAMPTZ,
            original_author_id INT REFERENCES users(id)
        );`,
		`CREATE TABLE IF NOT EXISTS whisper_shares (
            id SERIAL PRIMARY KEY,
            whisper_id INT NOT NULL REFERENCES whispers(id) ON DELETE CASCADE,
            shared_by_user_id INT NOT NULL,
            shared_to_user_id INT,
            share_code TEXT NOT NULL UNIQUE,
            consumed_at TIMESTAMPTZ,
            expires_at TIMESTAMPTZ NOT NULL,
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        );`,
		`CREATE INDEX IF NOT EXISTS idx_whisper_shares_expires_at ON whisper_shares (expires_at);`,
	}

	for _, m := range migrations {
		if _, err := db.Exec(m); err != nil {
			return err
		}
	}
	log.Println("database migrations applied")
	return nil
}
