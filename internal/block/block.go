// Package block defines the locally owned calendar block domain type.
package block

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Validation errors.
var (
	ErrEmptyTitle     = errors.New("title cannot be empty")
	ErrEndBeforeStart = errors.New("end must be later than start")
	ErrInvalidType    = errors.New("unknown block type")
)

// Domain errors.
var (
	ErrBlockNotFound = errors.New("block not found")
	ErrBlockOverlap  = errors.New("time block overlaps with existing block")
)

// Type classifies what a block represents on the calendar.
type Type string

const (
	TypeTask     Type = "task_block"
	TypeFocus    Type = "focus_block"
	TypeBuffer   Type = "buffer"
	TypePersonal Type = "personal"
	TypeOther    Type = "other"
)

// Block sources. SourceExternal marks blocks mirrored from the remote
// calendar provider; everything authored here carries SourceApp.
const (
	SourceApp      = "aawo"
	SourceExternal = "external"
)

// Block is a concrete time range on the user's calendar. Blocks with a
// RemoteEventID mirror an event owned by the remote provider and are kept
// in sync by the import path rather than edited directly.
type Block struct {
	ID            string
	Type          Type
	Title         string
	Start         time.Time
	End           time.Time
	TaskID        string // optional link to the task this block executes
	Locked        bool
	Source        string
	RemoteEventID string
	Version       int
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// New creates a validated Block owned by this application.
func New(blockType Type, title string, start, end time.Time) (*Block, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, ErrEmptyTitle
	}
	if !validType(blockType) {
		return nil, ErrInvalidType
	}
	if !end.After(start) {
		return nil, ErrEndBeforeStart
	}

	now := time.Now()
	return &Block{
		ID:        uuid.NewString(),
		Type:      blockType,
		Title:     title,
		Start:     start,
		End:       end,
		Source:    SourceApp,
		Version:   1,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

func validType(t Type) bool {
	switch t {
	case TypeTask, TypeFocus, TypeBuffer, TypePersonal, TypeOther:
		return true
	default:
		return false
	}
}

// IsExternal reports whether the block mirrors a remote provider event.
func (b *Block) IsExternal() bool {
	return b.Source == SourceExternal
}

// IsMirror reports whether the block carries a remote back-reference.
func (b *Block) IsMirror() bool {
	return b.RemoteEventID != ""
}

// Overlaps reports whether two time ranges intersect. Ranges are half-open,
// so a block ending exactly when another starts does not overlap it.
func Overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && bStart.Before(aEnd)
}
