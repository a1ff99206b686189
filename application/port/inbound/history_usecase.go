package inbound

import (
	"context"

	"github.com/mintrail/mintrail/domain/entity"
)

// RangeRequest bounds a ledger query with calendar dates in the tenant's
// civil timezone. Empty strings mean unbounded.
type RangeRequest struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// RecordRequest is an audit record for a commit performed by an external
// wallet, where only the record crosses the wire. Org, actor and created_at
// are server-assigned and deliberately absent.
type RecordRequest struct {
	Type             string `json:"type"`
	Name             string `json:"name"`
	IDNo             string `json:"id_no"`
	Email            string `json:"email"`
	RecipientAddress string `json:"recipient_address"`
	Amount           int    `json:"amount"`
	TokenIDs         string `json:"token_ids"`
	TxHash           string `json:"tx_hash"`
}

// ExportArtifact is a generated flat-file download. An empty filtered range
// still yields a valid artifact with only the header row.
type ExportArtifact struct {
	Filename string
	Content  []byte
}

// HistoryUseCase reads and extends the org-scoped audit ledger.
type HistoryUseCase interface {
	List(ctx context.Context, session Session, req RangeRequest) ([]*entity.DistributionEvent, error)
	Record(ctx context.Context, session Session, req RecordRequest) (*entity.DistributionEvent, error)
	Export(ctx context.Context, session Session, req RangeRequest) (*ExportArtifact, error)
}
