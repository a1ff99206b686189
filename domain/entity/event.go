package entity

import (
	"time"

	apperror "github.com/mintrail/mintrail/domain/error"
)

// EventKind represents the kind of a distribution event
type EventKind string

const (
	EventKindClaim EventKind = "CLAIM"
	EventKindSend  EventKind = "SEND"
)

// AutoAssignedTokenIDs is recorded for CLAIM events, where the collection
// contract picks the minted token ids itself.
const AutoAssignedTokenIDs = "(Auto Assigned)"

// OptionalPlaceholder substitutes for absent optional counterparty fields in
// views and exports.
const OptionalPlaceholder = "-"

// DistributionEvent is one immutable audit record of a Claim or Send.
// Records are created once by the distribution workflow after a confirmed
// external commit and are never updated or deleted.
type DistributionEvent struct {
	ID               string    `json:"id"`
	OrgID            string    `json:"org_id"`
	ActorID          string    `json:"actor_id"`
	Kind             EventKind `json:"type"`
	Name             *string   `json:"name,omitempty"`
	IDNo             *string   `json:"id_no,omitempty"`
	Email            *string   `json:"email,omitempty"`
	RecipientAddress string    `json:"recipient_address"`
	Amount           int       `json:"amount"`
	TokenIDs         string    `json:"token_ids"`
	TxHash           string    `json:"tx_hash"`
	// CreatedAt is assigned by the store at insert time and is authoritative
	// for ordering and range filtering. A caller-populated value is ignored.
	CreatedAt time.Time `json:"created_at"`
}

// Validate checks the record invariants before it reaches a store.
func (e *DistributionEvent) Validate() error {
	if e.OrgID == "" {
		return apperror.ErrMissingField("org_id")
	}
	if e.ActorID == "" {
		return apperror.ErrMissingField("actor_id")
	}
	if e.Kind != EventKindClaim && e.Kind != EventKindSend {
		return apperror.ErrMissingField("type")
	}
	if e.Amount <= 0 {
		return apperror.ErrMissingField("amount")
	}
	if e.TxHash == "" {
		return apperror.ErrMissingField("tx_hash")
	}
	if e.RecipientAddress == "" {
		return apperror.ErrMissingField("recipient_address")
	}
	return nil
}

// DisplayName returns the counterparty name or the placeholder.
func (e *DistributionEvent) DisplayName() string { return orPlaceholder(e.Name) }

// DisplayIDNo returns the counterparty id number or the placeholder.
func (e *DistributionEvent) DisplayIDNo() string { return orPlaceholder(e.IDNo) }

// DisplayEmail returns the counterparty email or the placeholder.
func (e *DistributionEvent) DisplayEmail() string { return orPlaceholder(e.Email) }

func orPlaceholder(s *string) string {
	if s == nil || *s == "" {
		return OptionalPlaceholder
	}
	return *s
}

// OptionalString maps the empty string to an absent optional field.
func OptionalString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
