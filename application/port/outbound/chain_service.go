package outbound

import (
	"context"
	"errors"

	"github.com/mintrail/mintrail/domain/entity"
)

var (
	// ErrCommitRejected means the chain definitively refused or reverted the
	// operation; nothing was applied.
	ErrCommitRejected = errors.New("commit rejected")
	// ErrCommitUnconfirmed means the call timed out or the connection dropped
	// before a confirmation arrived. The commit may still have been applied;
	// callers must surface the ambiguity, never assume failure.
	ErrCommitUnconfirmed = errors.New("commit unconfirmed")
)

// CommitResult is the chain's confirmation of an irreversible operation.
type CommitResult struct {
	TxHash string
}

// ChainService is the boundary to the external ledger. Commits are
// irreversible and not idempotent: a confirmed commit is never re-issued by
// this service, and confirmation comes only from the returned result, never
// inferred. Once issued, a commit cannot be cancelled; context expiry on an
// in-flight commit surfaces as ErrCommitUnconfirmed.
type ChainService interface {
	// Claim mints the fixed quantity to the distribution wallet.
	Claim(ctx context.Context, collection, to string, quantity int) (*CommitResult, error)

	// BulkSend transfers the given tokens to the recipient.
	BulkSend(ctx context.Context, collection, to string, tokenIDs []entity.TokenID) (*CommitResult, error)

	// SetApprovalForAll grants or revokes the operator contract's authority
	// over the holder's tokens.
	SetApprovalForAll(ctx context.Context, collection, operator string, approved bool) (*CommitResult, error)

	// IsApprovedForAll reads current approval state. Read-only, retryable.
	IsApprovedForAll(ctx context.Context, collection, owner, operator string) (bool, error)

	// OwnedTokens reads the current holding snapshot. Read-only, retryable.
	OwnedTokens(ctx context.Context, collection, owner string) ([]entity.TokenID, error)
}
