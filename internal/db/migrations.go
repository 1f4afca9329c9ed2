package db

import "fmt"

// migrate runs database migrations.
func (s *SQLite) migrate() error {
	query := `
		CREATE TABLE IF NOT EXISTS blocks (
			id              TEXT PRIMARY KEY,
			type            TEXT NOT NULL CHECK(type IN ('task_block', 'focus_block', 'buffer', 'personal', 'other')),
			title           TEXT NOT NULL,
			start_at        DATETIME NOT NULL,
			end_at          DATETIME NOT NULL,
			task_id         TEXT REFERENCES tasks(id),
			locked          INTEGER NOT NULL DEFAULT 0,
			source          TEXT NOT NULL DEFAULT 'aawo' CHECK(source IN ('aawo', 'external')),
			remote_event_id TEXT,
			version         INTEGER NOT NULL DEFAULT 1,
			created_at      DATETIME NOT NULL,
			updated_at      DATETIME NOT NULL
		);

		CREATE UNIQUE INDEX IF NOT EXISTS idx_blocks_remote_event
			ON blocks(remote_event_id) WHERE remote_event_id != '';
		CREATE INDEX IF NOT EXISTS idx_blocks_window ON blocks(start_at, end_at);

		CREATE TABLE IF NOT EXISTS tasks (
			id             TEXT PRIMARY KEY,
			title          TEXT NOT NULL,
			description    TEXT NOT NULL DEFAULT '',
			status         TEXT NOT NULL DEFAULT 'todo' CHECK(status IN ('todo', 'in_progress', 'done', 'blocked', 'canceled')),
			priority       TEXT NOT NULL DEFAULT 'medium' CHECK(priority IN ('low', 'medium', 'high', 'critical')),
			due_at         DATETIME,
			effort_minutes INTEGER NOT NULL DEFAULT 60,
			source         TEXT NOT NULL DEFAULT 'manual',
			source_ref     TEXT NOT NULL DEFAULT '',
			version        INTEGER NOT NULL DEFAULT 1,
			created_at     DATETIME NOT NULL,
			updated_at     DATETIME NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_tasks_status ON tasks(status);

		CREATE TABLE IF NOT EXISTS approvals (
			id          TEXT PRIMARY KEY,
			type        TEXT NOT NULL CHECK(type IN ('reschedule', 'action_item', 'generic')),
			summary     TEXT NOT NULL,
			payload     TEXT NOT NULL DEFAULT '{}',
			status      TEXT NOT NULL DEFAULT 'pending' CHECK(status IN ('pending', 'approved', 'rejected')),
			reason      TEXT NOT NULL DEFAULT '',
			created_at  DATETIME NOT NULL,
			resolved_at DATETIME
		);

		CREATE INDEX IF NOT EXISTS idx_approvals_status ON approvals(status);

		CREATE TABLE IF NOT EXISTS settings (
			key   TEXT PRIMARY KEY,
			value TEXT NOT NULL
		);
	`

	if _, err := s.db.Exec(query); err != nil {
		return fmt.Errorf("creating tables: %w", err)
	}

	return nil
}
