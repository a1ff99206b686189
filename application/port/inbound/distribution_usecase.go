package inbound

import (
	"context"

	"github.com/mintrail/mintrail/application/port/outbound"
	"github.com/mintrail/mintrail/domain/entity"
)

// Session carries the verified principal for one request. It is built by the
// auth middleware from the bearer token and passed explicitly into every
// workflow call; nothing about the caller is held in shared state.
type Session struct {
	UserID string
	Email  string
}

// ClaimRequest names the collection to replenish. The quantity comes from
// the collection's configuration.
type ClaimRequest struct {
	Collection string `json:"collection"`
}

// ClaimResponse reports the confirmed commit, the appended audit record and
// the reconciled ledger read back from the store.
type ClaimResponse struct {
	TxHash   string                      `json:"tx_hash"`
	Event    *entity.DistributionEvent   `json:"event"`
	Holdings *entity.HoldingSnapshot     `json:"holdings"`
	Ledger   []*entity.DistributionEvent `json:"ledger"`
}

// SendRequest carries the recipient details for a batch send. Name and IDNo
// are optional; Email and RecipientAddress are required.
type SendRequest struct {
	Collection       string `json:"collection"`
	Name             string `json:"name"`
	IDNo             string `json:"id_no"`
	Email            string `json:"email"`
	RecipientAddress string `json:"recipient_address"`
}

type SendResponse struct {
	TxHash       string                      `json:"tx_hash"`
	Event        *entity.DistributionEvent   `json:"event"`
	Holdings     *entity.HoldingSnapshot     `json:"holdings"`
	Ledger       []*entity.DistributionEvent `json:"ledger"`
	Notification *outbound.NotificationDraft `json:"notification,omitempty"`
}

type ApprovalRequest struct {
	Collection string `json:"collection"`
	Approved   bool   `json:"approved"`
}

type ApprovalResponse struct {
	TxHash string               `json:"tx_hash"`
	State  entity.ApprovalState `json:"state"`
}

// HoldingsResponse exposes the current snapshot, the deterministic batch the
// next send would pick, and the approval gate state.
type HoldingsResponse struct {
	Collection  string               `json:"collection"`
	FixedAmount int                  `json:"fixed_amount"`
	Held        []entity.TokenID     `json:"held"`
	Selection   []entity.TokenID     `json:"selection"`
	Approval    entity.ApprovalState `json:"approval"`
}

// DistributionUseCase is the claim/send workflow over the external ledger
// and the audit store.
type DistributionUseCase interface {
	Claim(ctx context.Context, session Session, req ClaimRequest) (*ClaimResponse, error)
	Send(ctx context.Context, session Session, req SendRequest) (*SendResponse, error)
	SetApproval(ctx context.Context, session Session, req ApprovalRequest) (*ApprovalResponse, error)
	Holdings(ctx context.Context, session Session, collection string) (*HoldingsResponse, error)
}
