package database

import (
	"database/sql"
	"fmt"
	"log"

	_ "github.com/lib/pq"
)

func Connect(host, port, user, password, dbname, sslmode string) (*sql.DB, error) {
	psqlInfo := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		host, port, user, password, dbname, sslmode)

	db, err := sql.Open("postgres", psqlInfo)
	if err != nil {
		return nil, fmt.Errorf("error opening database: %v", err)
	}

	err = db.Ping()
	if err != nil {
		return nil, fmt.Errorf("error connecting to database: %v", err)
	}

	return db, nil
}

// EnsureSchema creates the tables the application needs if they do not exist.
func EnsureSchema(db *sql.DB) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id SERIAL PRIMARY KEY,
			email VARCHAR(255) UNIQUE NOT NULL,
			full_name VARCHAR(255) NOT NULL,
			password_hash VARCHAR(255) NOT NULL,
			phone VARCHAR(50),
			location VARCHAR(255),
			linkedin VARCHAR(500),
			skills JSONB DEFAULT '[]',
			master_resume_text TEXT,
			resume_file_path VARCHAR(500),
			profile_vector JSONB,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS job_listings (
			id SERIAL PRIMARY KEY,
			title VARCHAR(500) NOT NULL,
			company VARCHAR(255),
			location VARCHAR(255),
			description TEXT,
			requirements JSONB DEFAULT '[]',
			url VARCHAR(1000) UNIQUE NOT NULL,
			employment_type VARCHAR(100),
			salary VARCHAR(255),
			description_vector JSONB,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS applications (
			id SERIAL PRIMARY KEY,
			application_code VARCHAR(16) UNIQUE NOT NULL,
			user_id INTEGER NOT NULL REFERENCES users(id),
			job_id INTEGER NOT NULL REFERENCES job_listings(id),
			status VARCHAR(50) NOT NULL DEFAULT 'drafting',
			tailored_resume TEXT,
			tailored_resume_path VARCHAR(500),
			screenshot_url VARCHAR(1000),
			failure_reason TEXT,
			retry_count INTEGER NOT NULL DEFAULT 0,
			submitted_at TIMESTAMP,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS audit_logs (
			id SERIAL PRIMARY KEY,
			application_id INTEGER NOT NULL REFERENCES applications(id),
			event VARCHAR(100) NOT NULL,
			detail TEXT,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE INDEX IF NOT EXISTS idx_applications_user_id ON applications(user_id)`,
		`CREATE INDEX IF NOT EXISTS idx_audit_logs_application_id ON audit_logs(application_id)`,
	}

	for _, stmt := range statements {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("error creating schema: %v", err)
		}
	}

	log.Println("Database schema verified")
	return nil
}
