package outbound

import (
	"context"
	"errors"
)

var (
	ErrNoMembership = errors.New("no organization membership")
)

// MembershipRepository resolves a principal to their organization. The
// membership directory is owned elsewhere; this service only reads it.
// Exactly one org per principal is assumed; zero memberships means the
// principal cannot touch the ledger at all.
type MembershipRepository interface {
	FindOrgByUserID(ctx context.Context, userID string) (string, error)
}
