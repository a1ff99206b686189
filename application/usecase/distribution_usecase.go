package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/mintrail/mintrail/application/port/inbound"
	"github.com/mintrail/mintrail/application/port/outbound"
	"github.com/mintrail/mintrail/domain/entity"
	apperror "github.com/mintrail/mintrail/domain/error"
	"github.com/mintrail/mintrail/infrastructure/service/logger"
	"github.com/mintrail/mintrail/infrastructure/service/metrics"
)

// DistributionUseCase orchestrates the claim/send workflow: it gates on the
// caller's tenant, issues the external commit, appends the audit record, and
// reconciles against the store. The chain commit and the append are strictly
// sequenced because the append payload needs the commit hash.
type DistributionUseCase struct {
	events          outbound.EventRepository
	membership      outbound.MembershipRepository
	chain           outbound.ChainService
	notifier        outbound.Notifier
	logger          logger.Logger
	metrics         *metrics.Metrics
	collections     []entity.Collection
	walletAddress   string
	operatorAddress string
}

func NewDistributionUseCase(
	events outbound.EventRepository,
	membership outbound.MembershipRepository,
	chain outbound.ChainService,
	notifier outbound.Notifier,
	log logger.Logger,
	m *metrics.Metrics,
	collections []entity.Collection,
	walletAddress string,
	operatorAddress string,
) inbound.DistributionUseCase {
	return &DistributionUseCase{
		events:          events,
		membership:      membership,
		chain:           chain,
		notifier:        notifier,
		logger:          log,
		metrics:         m,
		collections:     collections,
		walletAddress:   walletAddress,
		operatorAddress: operatorAddress,
	}
}

// Claim replenishes inventory: mints the collection's fixed quantity to the
// distribution wallet and records the event.
func (uc *DistributionUseCase) Claim(ctx context.Context, session inbound.Session, req inbound.ClaimRequest) (*inbound.ClaimResponse, error) {
	orgID, err := uc.resolveOrg(ctx, session)
	if err != nil {
		return nil, err
	}

	col, ok := entity.FindCollection(uc.collections, req.Collection)
	if !ok {
		return nil, apperror.ErrUnknownCollection(req.Collection)
	}

	start := time.Now()
	res, err := uc.chain.Claim(ctx, col.Address, uc.walletAddress, col.FixedAmount)
	uc.metrics.ObserveCommit(start)
	if err != nil {
		return nil, uc.commitError(ctx, session, orgID, "claim", err)
	}
	uc.metrics.ClaimsCommitted.WithLabelValues(col.Label).Inc()

	holdings := uc.refreshHoldings(ctx, col)

	event := &entity.DistributionEvent{
		ID:               uuid.New().String(),
		OrgID:            orgID,
		ActorID:          session.UserID,
		Kind:             entity.EventKindClaim,
		Name:             entity.OptionalString("Self"),
		RecipientAddress: uc.walletAddress,
		Amount:           col.FixedAmount,
		TokenIDs:         entity.AutoAssignedTokenIDs,
		TxHash:           res.TxHash,
	}
	if err := uc.appendEvent(ctx, session, orgID, event); err != nil {
		return nil, err
	}

	return &inbound.ClaimResponse{
		TxHash:   res.TxHash,
		Event:    event,
		Holdings: holdings,
		Ledger:   uc.reconcile(ctx, orgID, event),
	}, nil
}

// Send transfers the deterministic batch of held tokens to the recipient and
// records the event with the counterparty details.
func (uc *DistributionUseCase) Send(ctx context.Context, session inbound.Session, req inbound.SendRequest) (*inbound.SendResponse, error) {
	orgID, err := uc.resolveOrg(ctx, session)
	if err != nil {
		return nil, err
	}

	col, ok := entity.FindCollection(uc.collections, req.Collection)
	if !ok {
		return nil, apperror.ErrUnknownCollection(req.Collection)
	}
	if req.RecipientAddress == "" {
		return nil, apperror.ErrInvalidRecipient("recipient_address is required")
	}
	if req.Email == "" {
		return nil, apperror.ErrInvalidRecipient("email is required")
	}

	// Preconditions are checked against fresh chain reads before any
	// irreversible call is issued.
	approved, err := uc.chain.IsApprovedForAll(ctx, col.Address, uc.walletAddress, uc.operatorAddress)
	if err != nil {
		return nil, apperror.ErrChainReadFailed("isApprovedForAll", err)
	}
	if !approved {
		return nil, apperror.ErrNotApproved(uc.operatorAddress)
	}

	held, err := uc.chain.OwnedTokens(ctx, col.Address, uc.walletAddress)
	if err != nil {
		return nil, apperror.ErrChainReadFailed("ownedTokens", err)
	}
	snapshot := &entity.HoldingSnapshot{Collection: col.Address, TokenIDs: held}
	selection := snapshot.SelectForSend(col.FixedAmount)
	if len(selection) == 0 {
		return nil, apperror.ErrEmptySelection(col.Label)
	}

	start := time.Now()
	res, err := uc.chain.BulkSend(ctx, col.Address, req.RecipientAddress, selection)
	uc.metrics.ObserveCommit(start)
	if err != nil {
		return nil, uc.commitError(ctx, session, orgID, "send", err)
	}
	uc.metrics.SendsCommitted.WithLabelValues(col.Label).Inc()

	holdings := uc.refreshHoldings(ctx, col)

	joined := entity.JoinTokenIDs(selection)
	event := &entity.DistributionEvent{
		ID:               uuid.New().String(),
		OrgID:            orgID,
		ActorID:          session.UserID,
		Kind:             entity.EventKindSend,
		Name:             entity.OptionalString(req.Name),
		IDNo:             entity.OptionalString(req.IDNo),
		Email:            entity.OptionalString(req.Email),
		RecipientAddress: req.RecipientAddress,
		Amount:           len(selection),
		TokenIDs:         joined,
		TxHash:           res.TxHash,
	}
	if err := uc.appendEvent(ctx, session, orgID, event); err != nil {
		return nil, err
	}

	return &inbound.SendResponse{
		TxHash:       res.TxHash,
		Event:        event,
		Holdings:     holdings,
		Ledger:       uc.reconcile(ctx, orgID, event),
		Notification: uc.notifier.ComposeSendNotice(event.DisplayName(), req.Email, res.TxHash, joined),
	}, nil
}

// SetApproval grants or revokes the operator contract's authority over the
// distribution wallet's tokens. The reported state comes from a re-read
// after the commit, never from optimistic local bookkeeping.
func (uc *DistributionUseCase) SetApproval(ctx context.Context, session inbound.Session, req inbound.ApprovalRequest) (*inbound.ApprovalResponse, error) {
	orgID, err := uc.resolveOrg(ctx, session)
	if err != nil {
		return nil, err
	}

	col, ok := entity.FindCollection(uc.collections, req.Collection)
	if !ok {
		return nil, apperror.ErrUnknownCollection(req.Collection)
	}

	res, err := uc.chain.SetApprovalForAll(ctx, col.Address, uc.operatorAddress, req.Approved)
	if err != nil {
		return nil, uc.commitError(ctx, session, orgID, "setApproval", err)
	}

	approval := entity.NewApproval(uc.walletAddress, uc.operatorAddress)
	if current, err := uc.chain.IsApprovedForAll(ctx, col.Address, uc.walletAddress, uc.operatorAddress); err == nil {
		approval.Resolve(current)
	} else {
		// The commit confirmed, so the requested value is what the chain
		// holds; the verification read can be retried by the caller.
		uc.logger.Warn(ctx, "Approval re-read failed after confirmed commit", map[string]interface{}{
			"collection": col.Label,
			"error":      err.Error(),
		})
		approval.Resolve(req.Approved)
	}

	logger.LogAuditEvent(ctx, uc.logger, "approval_toggled", session.UserID, orgID, true, map[string]interface{}{
		"collection": col.Label,
		"approved":   req.Approved,
		"tx_hash":    res.TxHash,
	})

	return &inbound.ApprovalResponse{TxHash: res.TxHash, State: approval.State}, nil
}

// Holdings reports the current snapshot, the batch the next send would pick,
// and the approval gate state.
func (uc *DistributionUseCase) Holdings(ctx context.Context, session inbound.Session, collection string) (*inbound.HoldingsResponse, error) {
	if _, err := uc.resolveOrg(ctx, session); err != nil {
		return nil, err
	}

	col, ok := entity.FindCollection(uc.collections, collection)
	if !ok {
		return nil, apperror.ErrUnknownCollection(collection)
	}

	approval := entity.NewApproval(uc.walletAddress, uc.operatorAddress)
	if approved, err := uc.chain.IsApprovedForAll(ctx, col.Address, uc.walletAddress, uc.operatorAddress); err == nil {
		approval.Resolve(approved)
	}

	held, err := uc.chain.OwnedTokens(ctx, col.Address, uc.walletAddress)
	if err != nil {
		return nil, apperror.ErrChainReadFailed("ownedTokens", err)
	}
	snapshot := &entity.HoldingSnapshot{Collection: col.Address, TokenIDs: held}

	return &inbound.HoldingsResponse{
		Collection:  col.Label,
		FixedAmount: col.FixedAmount,
		Held:        held,
		Selection:   snapshot.SelectForSend(col.FixedAmount),
		Approval:    approval.State,
	}, nil
}

// resolveOrg maps the verified principal to their tenant. The result is the
// sole scoping key for every ledger access downstream; nothing from the
// request body can widen it.
func (uc *DistributionUseCase) resolveOrg(ctx context.Context, session inbound.Session) (string, error) {
	orgID, err := uc.membership.FindOrgByUserID(ctx, session.UserID)
	if err != nil {
		if errors.Is(err, outbound.ErrNoMembership) {
			return "", apperror.ErrNoMembership(session.UserID)
		}
		return "", apperror.ErrStoreReadFailed("membership lookup", err)
	}
	return orgID, nil
}

// commitError classifies a chain commit failure. An unconfirmed outcome is
// surfaced distinctly: treating it as failure invites a duplicate commit on
// resubmit, treating it as success invites a missing audit record.
func (uc *DistributionUseCase) commitError(ctx context.Context, session inbound.Session, orgID, operation string, err error) error {
	outcome := "rejected"
	if errors.Is(err, outbound.ErrCommitUnconfirmed) {
		outcome = "unconfirmed"
	}
	uc.metrics.CommitFailures.WithLabelValues(operation, outcome).Inc()
	logger.LogAuditEvent(ctx, uc.logger, operation+"_commit_failed", session.UserID, orgID, false, map[string]interface{}{
		"outcome": outcome,
		"error":   err.Error(),
	})
	if outcome == "unconfirmed" {
		return apperror.ErrCommitUnknown(operation, err)
	}
	return apperror.ErrCommitFailed(operation, err)
}

// appendEvent writes the audit record for a confirmed commit. On failure the
// ledger is now behind the chain: report it loudly with the commit hash and
// never re-issue the commit.
func (uc *DistributionUseCase) appendEvent(ctx context.Context, session inbound.Session, orgID string, event *entity.DistributionEvent) error {
	if err := event.Validate(); err != nil {
		return apperror.ErrInternalServerError("constructed event failed validation", err)
	}
	if err := uc.events.Append(ctx, event); err != nil {
		uc.metrics.StoreWriteFailures.Inc()
		uc.logger.Error(ctx, "Audit append failed after confirmed commit; manual reconciliation required", err, map[string]interface{}{
			"tx_hash": event.TxHash,
			"org_id":  orgID,
			"kind":    event.Kind,
		})
		return apperror.ErrStoreWriteFailed(event.TxHash, err)
	}
	logger.LogAuditEvent(ctx, uc.logger, string(event.Kind)+"_recorded", session.UserID, orgID, true, map[string]interface{}{
		"tx_hash": event.TxHash,
		"amount":  event.Amount,
	})
	return nil
}

// reconcile re-reads the ledger so the caller sees the store's view, not the
// locally buffered event. A read failure here is retryable and must not mask
// the already-recorded success, so it degrades to just the buffered event.
func (uc *DistributionUseCase) reconcile(ctx context.Context, orgID string, buffered *entity.DistributionEvent) []*entity.DistributionEvent {
	ledger, err := uc.events.ListByOrg(ctx, orgID, nil, nil)
	if err != nil {
		uc.logger.Warn(ctx, "Reconciliation read failed; returning buffered view", map[string]interface{}{
			"org_id": orgID,
			"error":  err.Error(),
		})
		return []*entity.DistributionEvent{buffered}
	}
	return ledger
}

// refreshHoldings refetches the snapshot after a mutation. The snapshot is
// advisory display state; a failed refresh is logged and skipped.
func (uc *DistributionUseCase) refreshHoldings(ctx context.Context, col entity.Collection) *entity.HoldingSnapshot {
	held, err := uc.chain.OwnedTokens(ctx, col.Address, uc.walletAddress)
	if err != nil {
		uc.logger.Warn(ctx, "Holding snapshot refresh failed", map[string]interface{}{
			"collection": col.Label,
			"error":      err.Error(),
		})
		return nil
	}
	return &entity.HoldingSnapshot{Collection: col.Address, TokenIDs: held}
}
