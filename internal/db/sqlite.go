// Package db provides SQLite storage implementation.
package db

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"aawo/internal/block"
)

// SQLite implements the block, task, and approval repositories.
type SQLite struct {
	db *sql.DB
}

// New creates a new SQLite repository and runs migrations.
func New(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("connecting to database: %w", err)
	}

	s := &SQLite{db: db}
	if err := s.migrate(); err != nil {
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close releases database resources.
func (s *SQLite) Close() error {
	return s.db.Close()
}

const blockColumns = `id, type, title, start_at, end_at, task_id, locked,
       source, remote_event_id, version, created_at, updated_at`

// CreateBlock adds a new block.
// Returns ErrBlockOverlap if the block intersects an existing one.
func (s *SQLite) CreateBlock(ctx context.Context, b *block.Block) error {
	if err := s.checkBlockOverlap(ctx, b.Start, b.End, ""); err != nil {
		return err
	}

	query := `
		INSERT INTO blocks (
			id, type, title, start_at, end_at, task_id, locked,
			source, remote_event_id, version, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := s.db.ExecContext(ctx, query,
		b.ID,
		b.Type,
		b.Title,
		b.Start.UTC().Format(time.RFC3339),
		b.End.UTC().Format(time.RFC3339),
		nullString(b.TaskID),
		b.Locked,
		b.Source,
		b.RemoteEventID,
		b.Version,
		b.CreatedAt.UTC().Format(time.RFC3339),
		b.UpdatedAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("inserting block: %w", err)
	}

	return nil
}

// GetBlock retrieves a block by ID. Returns nil, nil when absent.
func (s *SQLite) GetBlock(ctx context.Context, id string) (*block.Block, error) {
	query := `SELECT ` + blockColumns + ` FROM blocks WHERE id = ?`

	b, err := scanBlock(s.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("querying block: %w", err)
	}
	return b, nil
}

// ListBlocks returns all blocks intersecting [start, end), sorted by start.
func (s *SQLite) ListBlocks(ctx context.Context, start, end time.Time) ([]*block.Block, error) {
	query := `
		SELECT ` + blockColumns + `
		FROM blocks
		WHERE start_at < ? AND end_at > ?
		ORDER BY start_at, end_at
	`

	rows, err := s.db.QueryContext(ctx, query,
		end.UTC().Format(time.RFC3339),
		start.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return nil, fmt.Errorf("querying blocks: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var blocks []*block.Block
	for rows.Next() {
		b, err := scanBlock(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning block: %w", err)
		}
		blocks = append(blocks, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating blocks: %w", err)
	}

	return blocks, nil
}

// UpdateBlockTimes moves a block and bumps its version.
// Returns ErrBlockOverlap if the new range conflicts with another block.
func (s *SQLite) UpdateBlockTimes(ctx context.Context, id string, start, end time.Time) error {
	b, err := s.GetBlock(ctx, id)
	if err != nil {
		return err
	}
	if b == nil {
		return block.ErrBlockNotFound
	}

	if err := s.checkBlockOverlap(ctx, start, end, id); err != nil {
		return err
	}

	query := `
		UPDATE blocks
		SET start_at = ?, end_at = ?, version = version + 1, updated_at = ?
		WHERE id = ?
	`
	_, err = s.db.ExecContext(ctx, query,
		start.UTC().Format(time.RFC3339),
		end.UTC().Format(time.RFC3339),
		time.Now().UTC().Format(time.RFC3339),
		id,
	)
	if err != nil {
		return fmt.Errorf("updating block times: %w", err)
	}
	return nil
}

// DeleteBlock removes a block. Deleting an absent block is not an error.
func (s *SQLite) DeleteBlock(ctx context.Context, id string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM blocks WHERE id = ?`, id); err != nil {
		return fmt.Errorf("deleting block: %w", err)
	}
	return nil
}

// UpsertRemoteBlock inserts or refreshes the local mirror of a remote
// provider event, keyed by its RemoteEventID. Returns true when a new
// mirror row was created. Mirrors bypass the overlap check: the remote
// calendar is the source of truth for its own events.
func (s *SQLite) UpsertRemoteBlock(ctx context.Context, b *block.Block) (bool, error) {
	if b.RemoteEventID == "" {
		return false, fmt.Errorf("upserting remote block: missing remote event id")
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var existingID string
	err = tx.QueryRowContext(ctx,
		`SELECT id FROM blocks WHERE remote_event_id = ?`, b.RemoteEventID,
	).Scan(&existingID)

	now := time.Now().UTC().Format(time.RFC3339)

	switch {
	case err == sql.ErrNoRows:
		_, err = tx.ExecContext(ctx, `
			INSERT INTO blocks (
				id, type, title, start_at, end_at, task_id, locked,
				source, remote_event_id, version, created_at, updated_at
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		`,
			b.ID,
			b.Type,
			b.Title,
			b.Start.UTC().Format(time.RFC3339),
			b.End.UTC().Format(time.RFC3339),
			nullString(b.TaskID),
			b.Locked,
			b.Source,
			b.RemoteEventID,
			b.Version,
			now,
			now,
		)
		if err != nil {
			return false, fmt.Errorf("inserting remote block: %w", err)
		}
		if err := tx.Commit(); err != nil {
			return false, fmt.Errorf("committing transaction: %w", err)
		}
		return true, nil

	case err != nil:
		return false, fmt.Errorf("querying remote block: %w", err)

	default:
		_, err = tx.ExecContext(ctx, `
			UPDATE blocks
			SET title = ?, start_at = ?, end_at = ?, version = version + 1, updated_at = ?
			WHERE id = ?
		`,
			b.Title,
			b.Start.UTC().Format(time.RFC3339),
			b.End.UTC().Format(time.RFC3339),
			now,
			existingID,
		)
		if err != nil {
			return false, fmt.Errorf("updating remote block: %w", err)
		}
		if err := tx.Commit(); err != nil {
			return false, fmt.Errorf("committing transaction: %w", err)
		}
		b.ID = existingID
		return false, nil
	}
}

// checkBlockOverlap looks for an app-owned block intersecting [start, end).
// Mirrored blocks do not participate: their times belong to the provider.
// Two half-open ranges overlap if start1 < end2 AND start2 < end1.
func (s *SQLite) checkBlockOverlap(ctx context.Context, start, end time.Time, excludeID string) error {
	query := `
		SELECT id, title, start_at, end_at
		FROM blocks
		WHERE source = ?
		  AND id != ?
		  AND start_at < ?
		  AND end_at > ?
		LIMIT 1
	`

	var (
		id         string
		title      string
		existStart string
		existEnd   string
	)

	err := s.db.QueryRowContext(ctx, query,
		block.SourceApp,
		excludeID,
		end.UTC().Format(time.RFC3339),
		start.UTC().Format(time.RFC3339),
	).Scan(&id, &title, &existStart, &existEnd)

	if err == sql.ErrNoRows {
		return nil // No overlap
	}
	if err != nil {
		return fmt.Errorf("checking overlap: %w", err)
	}

	return fmt.Errorf("%w: conflicts with %q (%s to %s)",
		block.ErrBlockOverlap, title, existStart, existEnd)
}

// scanner abstracts *sql.Row and *sql.Rows for the shared scan path.
type scanner interface {
	Scan(dest ...any) error
}

func scanBlock(row scanner) (*block.Block, error) {
	var (
		b         block.Block
		startAt   string
		endAt     string
		taskID    sql.NullString
		createdAt string
		updatedAt string
	)

	err := row.Scan(
		&b.ID,
		&b.Type,
		&b.Title,
		&startAt,
		&endAt,
		&taskID,
		&b.Locked,
		&b.Source,
		&b.RemoteEventID,
		&b.Version,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	if b.Start, err = parseTime(startAt); err != nil {
		return nil, fmt.Errorf("parsing block start: %w", err)
	}
	if b.End, err = parseTime(endAt); err != nil {
		return nil, fmt.Errorf("parsing block end: %w", err)
	}
	if b.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, fmt.Errorf("parsing created at: %w", err)
	}
	if b.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, fmt.Errorf("parsing updated at: %w", err)
	}
	if taskID.Valid {
		b.TaskID = taskID.String
	}

	return &b, nil
}

// parseTime handles the timestamp formats SQLite might hand back.
func parseTime(s string) (time.Time, error) {
	formats := []string{
		time.RFC3339,
		"2006-01-02T15:04:05Z",
		"2006-01-02 15:04:05",
	}
	for _, f := range formats {
		if t, err := time.Parse(f, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized time format: %s", s)
}

func nullString(s string) any {
	if s == "" {
		return nil
	}
	return s
}
