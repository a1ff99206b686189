package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/mintrail/mintrail/application/port/inbound"
	"github.com/mintrail/mintrail/application/port/outbound"
	"github.com/mintrail/mintrail/domain/entity"
	apperror "github.com/mintrail/mintrail/domain/error"
	"github.com/mintrail/mintrail/domain/localdate"
	"github.com/mintrail/mintrail/infrastructure/service/logger"
)

// csvHeader is the fixed column order of the export artifact.
var csvHeader = []string{"Timestamp", "Type", "Name", "ID NO", "Email", "Wallet Address", "Amount", "Token IDs", "Tx Hash"}

// HistoryUseCase reads and extends the org-scoped audit ledger.
type HistoryUseCase struct {
	events     outbound.EventRepository
	membership outbound.MembershipRepository
	logger     logger.Logger
}

func NewHistoryUseCase(events outbound.EventRepository, membership outbound.MembershipRepository, log logger.Logger) inbound.HistoryUseCase {
	return &HistoryUseCase{
		events:     events,
		membership: membership,
		logger:     log,
	}
}

// List returns the caller's org ledger, newest first, optionally bounded by
// local civil days. Range validation happens before any store access.
func (uc *HistoryUseCase) List(ctx context.Context, session inbound.Session, req inbound.RangeRequest) ([]*entity.DistributionEvent, error) {
	orgID, err := uc.resolveOrg(ctx, session)
	if err != nil {
		return nil, err
	}

	from, to, err := localdate.RangeBounds(req.Start, req.End)
	if err != nil {
		return nil, err
	}

	events, err := uc.events.ListByOrg(ctx, orgID, from, to)
	if err != nil {
		return nil, apperror.ErrStoreReadFailed("history list", err)
	}
	return events, nil
}

// Record appends an audit record for a commit performed by an external
// wallet. The chain was never touched by this service, so the record is the
// only artifact; org, actor and timestamp are assigned server-side.
func (uc *HistoryUseCase) Record(ctx context.Context, session inbound.Session, req inbound.RecordRequest) (*entity.DistributionEvent, error) {
	orgID, err := uc.resolveOrg(ctx, session)
	if err != nil {
		return nil, err
	}

	kind := entity.EventKind(strings.ToUpper(req.Type))
	if kind != entity.EventKindClaim && kind != entity.EventKindSend {
		return nil, apperror.ErrMissingField("type must be CLAIM or SEND")
	}
	if req.RecipientAddress == "" {
		return nil, apperror.ErrMissingField("recipient_address")
	}
	if req.TxHash == "" {
		return nil, apperror.ErrMissingField("tx_hash")
	}
	if req.Amount <= 0 {
		return nil, apperror.ErrMissingField("amount must be positive")
	}

	tokenIDs := req.TokenIDs
	if tokenIDs == "" {
		tokenIDs = entity.AutoAssignedTokenIDs
	}

	event := &entity.DistributionEvent{
		ID:               uuid.New().String(),
		OrgID:            orgID,
		ActorID:          session.UserID,
		Kind:             kind,
		Name:             entity.OptionalString(req.Name),
		IDNo:             entity.OptionalString(req.IDNo),
		Email:            entity.OptionalString(req.Email),
		RecipientAddress: req.RecipientAddress,
		Amount:           req.Amount,
		TokenIDs:         tokenIDs,
		TxHash:           req.TxHash,
	}
	if err := event.Validate(); err != nil {
		return nil, apperror.ErrInternalServerError("constructed event failed validation", err)
	}
	if err := uc.events.Append(ctx, event); err != nil {
		return nil, apperror.ErrStoreWriteFailed(req.TxHash, err)
	}

	logger.LogAuditEvent(ctx, uc.logger, "external_commit_recorded", session.UserID, orgID, true, map[string]interface{}{
		"tx_hash": req.TxHash,
		"kind":    kind,
	})
	return event, nil
}

// Export renders the filtered ledger as a CSV download. An empty result set
// still yields a valid artifact with only the header row.
func (uc *HistoryUseCase) Export(ctx context.Context, session inbound.Session, req inbound.RangeRequest) (*inbound.ExportArtifact, error) {
	events, err := uc.List(ctx, session, req)
	if err != nil {
		return nil, err
	}

	return &inbound.ExportArtifact{
		Filename: exportFilename(req.Start, req.End),
		Content:  renderCSV(events),
	}, nil
}

func (uc *HistoryUseCase) resolveOrg(ctx context.Context, session inbound.Session) (string, error) {
	orgID, err := uc.membership.FindOrgByUserID(ctx, session.UserID)
	if err != nil {
		if errors.Is(err, outbound.ErrNoMembership) {
			return "", apperror.ErrNoMembership(session.UserID)
		}
		return "", apperror.ErrStoreReadFailed("membership lookup", err)
	}
	return orgID, nil
}

func exportFilename(start, end string) string {
	if start == "" && end == "" {
		return "nft_history.csv"
	}
	if start == "" {
		start = "beginning"
	}
	if end == "" {
		end = "latest"
	}
	return fmt.Sprintf("nft_history_%s_to_%s.csv", start, end)
}

// renderCSV builds the artifact by hand rather than through encoding/csv:
// the token id column must be quoted even when it contains no separator, so
// spreadsheet imports keep "1 | 2 | 3" as a single text cell.
func renderCSV(events []*entity.DistributionEvent) []byte {
	var b strings.Builder
	b.WriteString(strings.Join(csvHeader, ","))
	b.WriteString("\r\n")
	for _, e := range events {
		row := []string{
			csvField(e.CreatedAt.In(localdate.Zone).Format("2006-01-02 15:04:05")),
			csvField(string(e.Kind)),
			csvField(e.DisplayName()),
			csvField(e.DisplayIDNo()),
			csvField(e.DisplayEmail()),
			csvField(e.RecipientAddress),
			fmt.Sprintf("%d", e.Amount),
			csvQuote(e.TokenIDs),
			csvField(e.TxHash),
		}
		b.WriteString(strings.Join(row, ","))
		b.WriteString("\r\n")
	}
	return []byte(b.String())
}

// csvField quotes only when the value needs it.
func csvField(s string) string {
	if strings.ContainsAny(s, ",\"\r\n") {
		return csvQuote(s)
	}
	return s
}

// csvQuote always quotes, doubling embedded quotes.
func csvQuote(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}
