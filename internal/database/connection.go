package database

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
)

// DB is the global database connection
var DB *sqlx.DB

// Type returns the configured database backend, sqlite by default
func Type() string {
	dbType := os.Getenv("DB_TYPE")
	if dbType == "" {
		dbType = "sqlite"
	}
	return dbType
}

// Connect establishes a connection to the database and initializes the
// schema. With DB_TYPE=postgres it connects to DATABASE_URL, otherwise
// it opens a local SQLite file under the data directory.
func Connect() error {
	if Type() == "postgres" {
		dsn := os.Getenv("DATABASE_URL")
		if dsn == "" {
			return fmt.Errorf("DATABASE_URL environment variable is not set")
		}

		db, err := sqlx.Connect("postgres", dsn)
		if err != nil {
			return fmt.Errorf("failed to connect to postgres: %v", err)
		}
		DB = db
		return initializeSchema()
	}

	// Create data directory if it doesn't exist
	dataDir := "data"
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return fmt.Errorf("failed to create data directory: %v", err)
	}

	dbPath := filepath.Join(dataDir, "frasebot.db")
	db, err := sqlx.Connect("sqlite3", dbPath)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %v", err)
	}

	// Enable foreign keys
	_, err = db.Exec("PRAGMA foreign_keys = ON")
	if err != nil {
		return fmt.Errorf("failed to enable foreign keys: %v", err)
	}

	// SQLite doesn't support multiple writers
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	DB = db

	return initializeSchema()
}

// Close closes the database connection
func Close() error {
	if DB != nil {
		return DB.Close()
	}
	return nil
}

// initializeSchema creates necessary tables if they don't exist
func initializeSchema() error {
	idColumn := "INTEGER PRIMARY KEY AUTOINCREMENT"
	if Type() == "postgres" {
		idColumn = "BIGSERIAL PRIMARY KEY"
	}

	// Catalog of sentence pairs. Identity is the id: duplicate texts
	// under different ids are allowed.
	_, err := DB.Exec(fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS phrases (
			id %s,
			source_text TEXT NOT NULL,
			target_text TEXT NOT NULL,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)
	`, idColumn))
	if err != nil {
		return fmt.Errorf("failed to create phrases table: %v", err)
	}

	// All-time set of learned phrase ids
	_, err = DB.Exec(`
		CREATE TABLE IF NOT EXISTS learned_phrases (
			phrase_id INTEGER PRIMARY KEY,
			learned_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			FOREIGN KEY (phrase_id) REFERENCES phrases(id)
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create learned_phrases table: %v", err)
	}

	// Single-row streak state
	_, err = DB.Exec(`
		CREATE TABLE IF NOT EXISTS streak (
			id INTEGER PRIMARY KEY CHECK (id = 1),
			current_streak INTEGER NOT NULL DEFAULT 0,
			last_completed TEXT
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create streak table: %v", err)
	}

	// Tutor chat history
	_, err = DB.Exec(`
		CREATE TABLE IF NOT EXISTS chat_messages (
			id TEXT PRIMARY KEY,
			session_id TEXT NOT NULL,
			role TEXT NOT NULL,
			content TEXT NOT NULL,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create chat_messages table: %v", err)
	}

	return nil
}
