package models

import (
	"encoding/json"
	"fmt"
	"strings"

	sqlitecloud "github.com/sqlitecloud/sqlitecloud-go"
	log "github.com/sirupsen/logrus"
)

// Database represents the SQLite Cloud connection used for preference storage
type Database struct {
	db *sqlitecloud.SQCloud
}

// NewDatabase connects to SQLite Cloud and makes sure the schema exists
func NewDatabase(connStr string) (*Database, error) {
	log.WithField("db", maskConnectionString(connStr)).Info("Connecting to SQLite Cloud database")

	db, err := sqlitecloud.Connect(connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to SQLite Cloud: %w", err)
	}

	database := &Database{db: db}
	if err := database.createTables(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return database, nil
}

// maskConnectionString hides the API key in logs
func maskConnectionString(connStr string) string {
	if strings.Contains(connStr, "apikey=") {
		parts := strings.Split(connStr, "apikey=")
		if len(parts) > 1 {
			return parts[0] + "apikey=***"
		}
	}
	return connStr
}

func (d *Database) createTables() error {
	tables := []string{
		`CREATE TABLE IF NOT EXISTS user_preferences (
			profile TEXT PRIMARY KEY,
			json_response TEXT NOT NULL,
			update_date TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,
	}
	for _, table := range tables {
		if err := d.db.Execute(table); err != nil {
			return fmt.Errorf("failed to create table: %w", err)
		}
	}
	return nil
}

// GetPreferences returns the stored preferences of profile, or nil when none are stored
func (d *Database) GetPreferences(profile string) (*Preferences, error) {
	sql := `SELECT json_response FROM user_preferences WHERE profile = ? LIMIT 1`

	result, err := d.db.SelectArray(sql, []interface{}{profile})
	if err != nil {
		return nil, fmt.Errorf("failed to query preferences: %w", err)
	}
	if result.GetNumberOfRows() == 0 {
		return nil, nil
	}

	data, err := result.GetStringValue(0, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to read preferences: %w", err)
	}

	var prefs Preferences
	if err := json.Unmarshal([]byte(data), &prefs); err != nil {
		return nil, fmt.Errorf("failed to decode preferences: %w", err)
	}
	return &prefs, nil
}

// StorePreferences inserts or replaces the preferences of profile
func (d *Database) StorePreferences(profile string, prefs Preferences) error {
	data, err := json.Marshal(prefs)
	if err != nil {
		return err
	}

	sql := `INSERT INTO user_preferences (profile, json_response) VALUES (?, ?)
		ON CONFLICT(profile) DO UPDATE SET json_response = excluded.json_response, update_date = CURRENT_TIMESTAMP`

	if err := d.db.ExecuteArray(sql, []interface{}{profile, string(data)}); err != nil {
		return fmt.Errorf("failed to store preferences: %w", err)
	}
	return nil
}

// Close closes the database connection
func (d *Database) Close() error {
	if d.db != nil {
		return d.db.Close()
	}
	return nil
}
