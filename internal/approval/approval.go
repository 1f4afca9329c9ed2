// Package approval implements the pending-change workflow. Mutations
// proposed by the assistant are parked as requests until the user
// approves or rejects them; the decision is terminal.
package approval

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// Request types. Generic covers ad-hoc proposals the assistant raises
// without a dedicated handler.
const (
	TypeReschedule = "reschedule"
	TypeActionItem = "action_item"
	TypeGeneric    = "generic"
)

// Status values. A request leaves StatusPending exactly once.
const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusRejected = "rejected"
)

// Decision is the user's verdict on a pending request.
type Decision string

const (
	Approve Decision = "approve"
	Reject  Decision = "reject"
)

var (
	ErrNotFound        = errors.New("approval request not found")
	ErrAlreadyResolved = errors.New("approval request already resolved")
	ErrInvalidDecision = errors.New("decision must be approve or reject")
	ErrEmptySummary    = errors.New("approval summary cannot be empty")
)

// Request is a proposed mutation awaiting a decision. Payload carries
// the type-specific parameters needed to apply it on approval.
type Request struct {
	ID         string
	Type       string
	Summary    string
	Payload    map[string]any
	Status     string
	Reason     string
	CreatedAt  time.Time
	ResolvedAt *time.Time
}

// New builds a pending request.
func New(reqType, summary string, payload map[string]any) (*Request, error) {
	if summary == "" {
		return nil, ErrEmptySummary
	}
	switch reqType {
	case TypeReschedule, TypeActionItem, TypeGeneric:
	default:
		reqType = TypeGeneric
	}
	return &Request{
		ID:        uuid.NewString(),
		Type:      reqType,
		Summary:   summary,
		Payload:   payload,
		Status:    StatusPending,
		CreatedAt: time.Now().UTC(),
	}, nil
}

// Pending reports whether the request still awaits a decision.
func (r *Request) Pending() bool {
	return r.Status == StatusPending
}

// StatusFor maps a decision onto the terminal status it produces.
func StatusFor(d Decision) (string, error) {
	switch d {
	case Approve:
		return StatusApproved, nil
	case Reject:
		return StatusRejected, nil
	default:
		return "", ErrInvalidDecision
	}
}

// Repository persists approval requests. Resolve must be atomic: when
// two resolvers race on the same pending request, exactly one wins and
// the other receives ErrAlreadyResolved.
type Repository interface {
	CreateApproval(ctx context.Context, r *Request) error
	GetApproval(ctx context.Context, id string) (*Request, error)
	ListPendingApprovals(ctx context.Context) ([]*Request, error)
	Resolve(ctx context.Context, id string, d Decision, reason string) (*Request, error)
}
