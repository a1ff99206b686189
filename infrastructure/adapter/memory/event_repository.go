package memory

import (
	"context"
	"sync"
	"time"

	"github.com/mintrail/mintrail/domain/entity"
	"github.com/mintrail/mintrail/domain/localdate"
)

// MemoryEventRepository implements EventRepository with in-process storage
// for local development and tests. Semantics mirror the PostgreSQL adapter:
// append-only, store-assigned created_at, newest first.
type MemoryEventRepository struct {
	mu     sync.RWMutex
	events []*entity.DistributionEvent
}

func NewMemoryEventRepository() *MemoryEventRepository {
	return &MemoryEventRepository{}
}

func (r *MemoryEventRepository) Append(ctx context.Context, event *entity.DistributionEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	event.CreatedAt = time.Now().UTC()
	stored := *event
	r.events = append(r.events, &stored)
	return nil
}

func (r *MemoryEventRepository) ListByOrg(ctx context.Context, orgID string, from, to *time.Time) ([]*entity.DistributionEvent, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []*entity.DistributionEvent
	// Reverse insertion order: appends are monotone in created_at.
	for i := len(r.events) - 1; i >= 0; i-- {
		e := r.events[i]
		if e.OrgID != orgID {
			continue
		}
		if !localdate.WithinBounds(e.CreatedAt, from, to) {
			continue
		}
		copied := *e
		out = append(out, &copied)
	}
	return out, nil
}
