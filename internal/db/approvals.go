package db

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"aawo/internal/approval"
)

const approvalColumns = `id, type, summary, payload, status, reason, created_at, resolved_at`

// CreateApproval adds a pending approval request.
func (s *SQLite) CreateApproval(ctx context.Context, r *approval.Request) error {
	payload, err := json.Marshal(r.Payload)
	if err != nil {
		return fmt.Errorf("encoding approval payload: %w", err)
	}

	query := `
		INSERT INTO approvals (id, type, summary, payload, status, reason, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`
	_, err = s.db.ExecContext(ctx, query,
		r.ID,
		r.Type,
		r.Summary,
		string(payload),
		r.Status,
		r.Reason,
		r.CreatedAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("inserting approval: %w", err)
	}

	return nil
}

// GetApproval retrieves an approval request by ID.
// Returns ErrNotFound when absent.
func (s *SQLite) GetApproval(ctx context.Context, id string) (*approval.Request, error) {
	query := `SELECT ` + approvalColumns + ` FROM approvals WHERE id = ?`

	r, err := scanApproval(s.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, approval.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying approval: %w", err)
	}
	return r, nil
}

// ListPendingApprovals returns pending requests, oldest first.
func (s *SQLite) ListPendingApprovals(ctx context.Context) ([]*approval.Request, error) {
	query := `
		SELECT ` + approvalColumns + `
		FROM approvals
		WHERE status = ?
		ORDER BY created_at
	`

	rows, err := s.db.QueryContext(ctx, query, approval.StatusPending)
	if err != nil {
		return nil, fmt.Errorf("querying approvals: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var requests []*approval.Request
	for rows.Next() {
		r, err := scanApproval(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning approval: %w", err)
		}
		requests = append(requests, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating approvals: %w", err)
	}

	return requests, nil
}

// Resolve applies a decision to a pending request. The status guard in
// the UPDATE makes the transition atomic: of two racing resolvers,
// exactly one flips the row and the other gets ErrAlreadyResolved.
func (s *SQLite) Resolve(ctx context.Context, id string, d approval.Decision, reason string) (*approval.Request, error) {
	status, err := approval.StatusFor(d)
	if err != nil {
		return nil, err
	}

	query := `
		UPDATE approvals
		SET status = ?, reason = ?, resolved_at = ?
		WHERE id = ? AND status = ?
	`
	result, err := s.db.ExecContext(ctx, query,
		status,
		reason,
		time.Now().UTC().Format(time.RFC3339),
		id,
		approval.StatusPending,
	)
	if err != nil {
		return nil, fmt.Errorf("resolving approval: %w", err)
	}

	rows, _ := result.RowsAffected()
	if rows == 0 {
		// Nothing flipped: either the request does not exist or it was
		// already decided. Distinguish the two for the caller.
		existing, err := s.GetApproval(ctx, id)
		if err != nil {
			return nil, err
		}
		return existing, approval.ErrAlreadyResolved
	}

	return s.GetApproval(ctx, id)
}

func scanApproval(row scanner) (*approval.Request, error) {
	var (
		r          approval.Request
		payload    string
		createdAt  string
		resolvedAt sql.NullString
	)

	err := row.Scan(
		&r.ID,
		&r.Type,
		&r.Summary,
		&payload,
		&r.Status,
		&r.Reason,
		&createdAt,
		&resolvedAt,
	)
	if err != nil {
		return nil, err
	}

	if payload != "" {
		if err := json.Unmarshal([]byte(payload), &r.Payload); err != nil {
			return nil, fmt.Errorf("decoding approval payload: %w", err)
		}
	}
	if r.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, fmt.Errorf("parsing created at: %w", err)
	}
	if resolvedAt.Valid {
		t, err := parseTime(resolvedAt.String)
		if err != nil {
			return nil, fmt.Errorf("parsing resolved at: %w", err)
		}
		r.ResolvedAt = &t
	}

	return &r, nil
}
