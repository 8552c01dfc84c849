package database

import (
	"database/sql"
	"log"
	"time"

	_ "github.com/lib/pq"
)

var PostgresDB *sql.DB

// ConnectPostgres connects to PostgreSQL database
func ConnectPostgres(postgresURI string) error {
	var err error

	PostgresDB, err = sql.Open("postgres", postgresURI)
	if err != nil {
		return err
	}

	// Set connection pool settings
	PostgresDB.SetMaxOpenConns(25)
	PostgresDB.SetMaxIdleConns(5)
	PostgresDB.SetConnMaxLifetime(5 * time.Minute)

	// Test connection
	if err = PostgresDB.Ping(); err != nil {
		return err
	}

	log.Println("✅ Connected to PostgreSQL")

	// Initialize tables
	if err = InitPostgresTables(); err != nil {
		return err
	}

	return nil
}

// InitPostgresTables creates all necessary tables if they don't exist.
// phone_number columns are VARCHAR(17): the widest value the validator
// accepts is "+1" followed by 15 digits.
func InitPostgresTables() error {
	queries := []string{
		// Users table
		`CREATE TABLE IF NOT EXISTS users (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			created_at TIMESTAMP NOT NULL DEFAULT NOW(),
			name VARCHAR(100) NOT NULL DEFAULT '',
			username VARCHAR(150) NOT NULL UNIQUE,
			phone_number VARCHAR(17) NOT NULL UNIQUE,
			email VARCHAR(255) NOT NULL DEFAULT '',
			password_hash VARCHAR(255) NOT NULL
		)`,

		// Contacts table (one per (owner, phone_number) pair)
		`CREATE TABLE IF NOT EXISTS contacts (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			created_at TIMESTAMP NOT NULL DEFAULT NOW(),
			owner_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			name VARCHAR(100) NOT NULL,
			phone_number VARCHAR(17) NOT NULL,
			is_spam BOOLEAN NOT NULL DEFAULT FALSE,
			is_anonymous BOOLEAN NOT NULL DEFAULT FALSE,
			UNIQUE(owner_id, phone_number)
		)`,

		// Global spam aggregate, one row per phone number
		`CREATE TABLE IF NOT EXISTS spam_reports (
			phone_number VARCHAR(17) PRIMARY KEY,
			spam_count INTEGER NOT NULL DEFAULT 0,
			last_reported_at TIMESTAMP NOT NULL DEFAULT NOW()
		)`,

		// Per-(reporter, phone) report history
		`CREATE TABLE IF NOT EXISTS spam_reporters (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			user_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			phone_number VARCHAR(17) NOT NULL,
			report_count INTEGER NOT NULL DEFAULT 0,
			first_reported_at TIMESTAMP NOT NULL DEFAULT NOW(),
			last_reported_at TIMESTAMP NOT NULL DEFAULT NOW(),
			UNIQUE(user_id, phone_number)
		)`,

		// Create indexes for better performance
		`CREATE INDEX IF NOT EXISTS idx_users_username ON users(username)`,
		`CREATE INDEX IF NOT EXISTS idx_users_phone_number ON users(phone_number)`,
		`CREATE INDEX IF NOT EXISTS idx_users_name_lower ON users(LOWER(name))`,
		`CREATE INDEX IF NOT EXISTS idx_contacts_owner_id ON contacts(owner_id)`,
		`CREATE INDEX IF NOT EXISTS idx_contacts_phone_number ON contacts(phone_number)`,
		`CREATE INDEX IF NOT EXISTS idx_contacts_name_lower ON contacts(LOWER(name))`,
		`CREATE INDEX IF NOT EXISTS idx_spam_reporters_user_id ON spam_reporters(user_id)`,
		`CREATE INDEX IF NOT EXISTS idx_spam_reporters_phone_number ON spam_reporters(phone_number)`,
	}

	for _, query := range queries {
		if _, err := PostgresDB.Exec(query); err != nil {
			return err
		}
	}

	log.Println("✅ PostgreSQL tables initialized")
	return nil
}

// DisconnectPostgres closes the PostgreSQL connection
func DisconnectPostgres() error {
	if PostgresDB != nil {
		return PostgresDB.Close()
	}
	return nil
}
