package repository

import (
	"context"
	"errors"
	"io"

	"github.com/google/uuid"

	"github.com/Keshavsspppp/municipality/internal/domain/entity"
)

// ErrUploadTooLarge is returned when an upload exceeds the configured size limit
var ErrUploadTooLarge = errors.New("upload too large")

// Snapshot is a consistent view of the stored comments
type Snapshot struct {
	Comments []string
	Version  uint64
	Epoch    uint64
}

// CommentStore holds comments and their latest grouping for the process lifetime
type CommentStore interface {
	// Add appends a sanitized comment
	Add(comment string)

	// Snapshot copies the current comments
	Snapshot() Snapshot

	// SaveGroups stores groups built from snap. It returns false when a
	// newer grouping or a clear happened after snap was taken.
	SaveGroups(snap Snapshot, groups []entity.Group) bool

	// Groups returns the latest groups and the comment count
	Groups() ([]entity.Group, int)

	// Clear drops every comment and group
	Clear()
}

// DetectionRepository defines the interface for detection history
type DetectionRepository interface {
	// Create stores a new detection
	Create(ctx context.Context, detection *entity.Detection) error

	// GetByID retrieves a detection, nil when it does not exist
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Detection, error)

	// List retrieves detections newest first with pagination
	List(ctx context.Context, limit, offset int) ([]*entity.Detection, int64, error)

	// Ping checks the backing store
	Ping(ctx context.Context) error
}

// UploadStore keeps uploaded images so they can be served back to clients
type UploadStore interface {
	// Save writes the content under a sanitized name and returns the bytes
	// stored. An existing file with the same name is replaced.
	Save(name string, r io.Reader) ([]byte, error)
}
