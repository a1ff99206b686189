package memory

import (
	"context"
	"sync"

	"github.com/mintrail/mintrail/application/port/outbound"
)

// MemoryMembershipRepository implements MembershipRepository with a static
// user-to-org map for local development and tests.
type MemoryMembershipRepository struct {
	mu      sync.RWMutex
	members map[string]string
}

func NewMemoryMembershipRepository() *MemoryMembershipRepository {
	return &MemoryMembershipRepository{members: make(map[string]string)}
}

func (r *MemoryMembershipRepository) Add(userID, orgID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.members[userID] = orgID
}

func (r *MemoryMembershipRepository) FindOrgByUserID(ctx context.Context, userID string) (string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	orgID, ok := r.members[userID]
	if !ok {
		return "", outbound.ErrNoMembership
	}
	return orgID, nil
}
