package db

import (
	"context"
	"database/sql"
	"fmt"
)

// Setting keys.
const (
	SettingRemoteConnected = "remote_connected"
	SettingLastImportAt    = "last_import_at"
)

// SetSetting stores a key/value pair, replacing any previous value.
func (s *SQLite) SetSetting(ctx context.Context, key, value string) error {
	query := `
		INSERT INTO settings (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`
	if _, err := s.db.ExecContext(ctx, query, key, value); err != nil {
		return fmt.Errorf("storing setting %q: %w", key, err)
	}
	return nil
}

// GetSetting returns the stored value, or "" when the key is absent.
func (s *SQLite) GetSetting(ctx context.Context, key string) (string, error) {
	var value string
	err := s.db.QueryRowContext(ctx,
		`SELECT value FROM settings WHERE key = ?`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("reading setting %q: %w", key, err)
	}
	return value, nil
}
