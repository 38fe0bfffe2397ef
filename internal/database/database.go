package database

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog"
)

// DB wraps the sqlite connection behind the reservation store. All writes
// to reservations go through this package; nothing else touches the tables.
type DB struct {
	*sql.DB
	log zerolog.Logger
}

func NewDB(path string, logger *zerolog.Logger) (*DB, error) {
	if path != ":memory:" {
		dir := filepath.Dir(path)
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	// txlock=immediate makes BeginTx take the write lock up front, so a
	// racing writer queues on busy_timeout instead of failing with
	// SQLITE_BUSY when its deferred read snapshot cannot upgrade.
	db, err := sql.Open("sqlite3", path+"?_busy_timeout=5000&_foreign_keys=on&_txlock=immediate")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := createTables(db); err != nil {
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	var log zerolog.Logger
	if logger != nil {
		log = logger.With().Str("component", "database").Logger()
	}
	log.Info().Str("path", path).Msg("database initialized")

	return &DB{DB: db, log: log}, nil
}

func createTables(db *sql.DB) error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS restaurants (
            id INTEGER PRIMARY KEY AUTOINCREMENT,
            name TEXT NOT NULL,
            address TEXT,
            phone TEXT,
            is_active BOOLEAN NOT NULL DEFAULT 1,
            created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
            updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
        )`,
		`CREATE TABLE IF NOT EXISTS restaurant_settings (
            restaurant_id INTEGER PRIMARY KEY,
            need_confirmation BOOLEAN NOT NULL DEFAULT 0,
            min_duration_minutes INTEGER NOT NULL DEFAULT 0,
            max_duration_minutes INTEGER NOT NULL DEFAULT 0,
            min_advance_days INTEGER NOT NULL DEFAULT 0,
            max_advance_days INTEGER NOT NULL DEFAULT 0,
            min_guests INTEGER NOT NULL DEFAULT 0,
            max_guests INTEGER NOT NULL DEFAULT 0,
            max_active_per_user INTEGER NOT NULL DEFAULT 0,
            FOREIGN KEY (restaurant_id) REFERENCES restaurants(id)
        )`,
		`CREATE TABLE IF NOT EXISTS dining_tables (
            id INTEGER PRIMARY KEY AUTOINCREMENT,
            restaurant_id INTEGER NOT NULL,
            label TEXT NOT NULL,
            capacity INTEGER NOT NULL,
            location TEXT,
            seats INTEGER NOT NULL DEFAULT 0,
            is_active BOOLEAN NOT NULL DEFAULT 1,
            created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
            updated_at DATETIME DEFAULT CURRENT_TIMESTAMP,
            FOREIGN KEY (restaurant_id) REFERENCES restaurants(id)
        )`,
		`CREATE TABLE IF NOT EXISTS opening_hours (
            restaurant_id INTEGER NOT NULL,
            day_of_week INTEGER NOT NULL,
            open_time INTEGER NOT NULL DEFAULT 0,
            close_time INTEGER NOT NULL DEFAULT 0,
            is_closed BOOLEAN NOT NULL DEFAULT 0,
            PRIMARY KEY (restaurant_id, day_of_week),
            FOREIGN KEY (restaurant_id) REFERENCES restaurants(id)
        )`,
		`CREATE TABLE IF NOT EXISTS table_reservations (
            id INTEGER PRIMARY KEY AUTOINCREMENT,
            code TEXT NOT NULL UNIQUE,
            restaurant_id INTEGER NOT NULL,
            table_id INTEGER NOT NULL,
            user_id INTEGER NOT NULL DEFAULT 0,
            customer_name TEXT NOT NULL,
            customer_email TEXT,
            customer_phone TEXT,
            guests INTEGER NOT NULL,
            date TEXT NOT NULL,
            start_time INTEGER NOT NULL,
            end_time INTEGER NOT NULL,
            notes TEXT,
            status TEXT NOT NULL DEFAULT 'pending',
            needs_confirmation BOOLEAN NOT NULL DEFAULT 0,
            version INTEGER NOT NULL DEFAULT 1,
            created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
            updated_at DATETIME DEFAULT CURRENT_TIMESTAMP,
            FOREIGN KEY (restaurant_id) REFERENCES restaurants(id),
            FOREIGN KEY (table_id) REFERENCES dining_tables(id)
        )`,

		`CREATE INDEX IF NOT EXISTS idx_tables_restaurant ON dining_tables(restaurant_id)`,
		`CREATE INDEX IF NOT EXISTS idx_table_res_table_date ON table_reservations(table_id, date)`,
		`CREATE INDEX IF NOT EXISTS idx_table_res_restaurant ON table_reservations(restaurant_id)`,
		`CREATE INDEX IF NOT EXISTS idx_table_res_user ON table_reservations(user_id)`,
		`CREATE INDEX IF NOT EXISTS idx_table_res_status ON table_reservations(status)`,
		`CREATE INDEX IF NOT EXISTS idx_table_res_date ON table_reservations(date)`,
	}

	for _, query := range queries {
		if _, err := db.Exec(query); err != nil {
			return fmt.Errorf("error executing query %s: %w", query, err)
		}
	}
	return nil
}

func (db *DB) Close() error {
	return db.DB.Close()
}
