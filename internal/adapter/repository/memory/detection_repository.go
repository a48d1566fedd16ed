package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Keshavsspppp/municipality/internal/domain/entity"
	"github.com/Keshavsspppp/municipality/internal/domain/repository"
)

// DefaultDetectionCapacity bounds the in-memory history
const DefaultDetectionCapacity = 1000

type detectionRepository struct {
	mu       sync.RWMutex
	items    []*entity.Detection
	capacity int
}

// NewDetectionRepository keeps the most recent detections in memory.
// Oldest records are dropped once capacity is reached.
func NewDetectionRepository(capacity int) repository.DetectionRepository {
	if capacity <= 0 {
		capacity = DefaultDetectionCapacity
	}
	return &detectionRepository{capacity: capacity}
}

func (r *detectionRepository) Create(_ context.Context, detection *entity.Detection) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if detection.CreatedAt.IsZero() {
		detection.CreatedAt = time.Now().UTC()
	}
	copied := *detection
	r.items = append(r.items, &copied)
	if len(r.items) > r.capacity {
		r.items = r.items[len(r.items)-r.capacity:]
	}
	return nil
}

func (r *detectionRepository) GetByID(_ context.Context, id uuid.UUID) (*entity.Detection, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, d := range r.items {
		if d.ID == id {
			copied := *d
			return &copied, nil
		}
	}
	return nil, nil
}

func (r *detectionRepository) List(_ context.Context, limit, offset int) ([]*entity.Detection, int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	total := len(r.items)
	if limit <= 0 || offset < 0 {
		return []*entity.Detection{}, int64(total), nil
	}
	out := make([]*entity.Detection, 0, limit)
	// newest first
	for i := total - 1 - offset; i >= 0 && len(out) < limit; i-- {
		copied := *r.items[i]
		out = append(out, &copied)
	}
	return out, int64(total), nil
}

func (r *detectionRepository) Ping(context.Context) error {
	return nil
}
