package block

import (
	"context"
	"time"
)

// Repository defines the storage interface for calendar blocks.
type Repository interface {
	// CreateBlock adds a new block. Returns ErrBlockOverlap if the block
	// intersects an existing block.
	CreateBlock(ctx context.Context, b *Block) error

	// GetBlock retrieves a block by ID. Returns nil, nil when absent.
	GetBlock(ctx context.Context, id string) (*Block, error)

	// ListBlocks returns all blocks intersecting [start, end), sorted by
	// start ascending.
	ListBlocks(ctx context.Context, start, end time.Time) ([]*Block, error)

	// UpdateBlockTimes moves a block, bumping its version.
	// Returns ErrBlockOverlap if the new range conflicts with another block.
	UpdateBlockTimes(ctx context.Context, id string, start, end time.Time) error

	// DeleteBlock removes a block. Deleting an absent block is not an error.
	DeleteBlock(ctx context.Context, id string) error

	// UpsertRemoteBlock inserts or refreshes the local mirror of a remote
	// provider event, keyed by its RemoteEventID. Returns true when a new
	// mirror was created.
	UpsertRemoteBlock(ctx context.Context, b *Block) (bool, error)
}
