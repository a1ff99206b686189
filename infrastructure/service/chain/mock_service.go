package chain

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/mintrail/mintrail/application/port/outbound"
	"github.com/mintrail/mintrail/domain/entity"
)

// MockChainService is an in-memory ChainService for local development and
// tests. It keeps per-collection holdings and approval flags and mints
// sequential token ids.
type MockChainService struct {
	mu        sync.Mutex
	latency   time.Duration
	nextToken entity.TokenID
	holdings  map[string]map[string][]entity.TokenID // collection -> owner -> tokens
	approvals map[string]bool                        // collection/owner/operator -> approved
	txSeq     int

	// FailCommits makes every commit return ErrCommitRejected.
	FailCommits bool
	// UnconfirmedCommits makes every commit return ErrCommitUnconfirmed
	// after applying it, reproducing the ambiguous-outcome case.
	UnconfirmedCommits bool
}

// NewMockChainService creates a mock chain with empty holdings.
func NewMockChainService(latency time.Duration) *MockChainService {
	return &MockChainService{
		latency:   latency,
		nextToken: 1,
		holdings:  make(map[string]map[string][]entity.TokenID),
		approvals: make(map[string]bool),
	}
}

func (m *MockChainService) Claim(ctx context.Context, collection, to string, quantity int) (*outbound.CommitResult, error) {
	if err := m.wait(ctx); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailCommits {
		return nil, fmt.Errorf("%w: mock rejection", outbound.ErrCommitRejected)
	}
	owned := m.owned(collection, to)
	for i := 0; i < quantity; i++ {
		owned = append(owned, m.nextToken)
		m.nextToken++
	}
	m.holdings[collection][to] = owned
	return m.confirm("claim")
}

func (m *MockChainService) BulkSend(ctx context.Context, collection, to string, tokenIDs []entity.TokenID) (*outbound.CommitResult, error) {
	if err := m.wait(ctx); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailCommits {
		return nil, fmt.Errorf("%w: mock rejection", outbound.ErrCommitRejected)
	}
	m.owned(collection, to) // ensure the collection map exists
	moving := make(map[entity.TokenID]bool, len(tokenIDs))
	for _, id := range tokenIDs {
		moving[id] = true
	}
	for owner, owned := range m.holdings[collection] {
		kept := owned[:0]
		for _, id := range owned {
			if !moving[id] {
				kept = append(kept, id)
			}
		}
		m.holdings[collection][owner] = kept
	}
	m.holdings[collection][to] = append(m.holdings[collection][to], tokenIDs...)
	return m.confirm("send")
}

func (m *MockChainService) SetApprovalForAll(ctx context.Context, collection, operator string, approved bool) (*outbound.CommitResult, error) {
	if err := m.wait(ctx); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailCommits {
		return nil, fmt.Errorf("%w: mock rejection", outbound.ErrCommitRejected)
	}
	m.approvals[collection+"/"+operator] = approved
	return m.confirm("approval")
}

func (m *MockChainService) IsApprovedForAll(ctx context.Context, collection, owner, operator string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.approvals[collection+"/"+operator], nil
}

func (m *MockChainService) OwnedTokens(ctx context.Context, collection, owner string) ([]entity.TokenID, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	owned := m.owned(collection, owner)
	out := make([]entity.TokenID, len(owned))
	copy(out, owned)
	return out, nil
}

// Seed places tokens directly into an owner's holding for test setup.
func (m *MockChainService) Seed(collection, owner string, tokenIDs ...entity.TokenID) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.holdings[collection] = map[string][]entity.TokenID{owner: tokenIDs}
	for _, id := range tokenIDs {
		if id >= m.nextToken {
			m.nextToken = id + 1
		}
	}
}

func (m *MockChainService) owned(collection, owner string) []entity.TokenID {
	if m.holdings[collection] == nil {
		m.holdings[collection] = make(map[string][]entity.TokenID)
	}
	return m.holdings[collection][owner]
}

func (m *MockChainService) confirm(operation string) (*outbound.CommitResult, error) {
	m.txSeq++
	if m.UnconfirmedCommits {
		return nil, fmt.Errorf("%w: mock timeout", outbound.ErrCommitUnconfirmed)
	}
	return &outbound.CommitResult{TxHash: fmt.Sprintf("0xmock_%s_%04d", operation, m.txSeq)}, nil
}

func (m *MockChainService) wait(ctx context.Context) error {
	if m.latency <= 0 {
		return nil
	}
	select {
	case <-time.After(m.latency):
		return nil
	case <-ctx.Done():
		return fmt.Errorf("%w: %v", outbound.ErrCommitUnconfirmed, ctx.Err())
	}
}
