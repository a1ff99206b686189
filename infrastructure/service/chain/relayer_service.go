package chain

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/mintrail/mintrail/application/port/outbound"
	"github.com/mintrail/mintrail/domain/entity"
	"github.com/mintrail/mintrail/infrastructure/service/logger"
)

// relayerService talks to the transaction relayer over HTTP. The relayer
// signs and submits on behalf of the distribution wallet and replies only
// after the transaction is confirmed, so a 2xx response here is a confirmed
// commit and anything that ends the request before a response — timeout,
// connection drop, context expiry — leaves the outcome unknown.
type relayerService struct {
	baseURL    string
	timeout    time.Duration
	logger     logger.Logger
	httpClient *http.Client
}

type relayerCommitRequest struct {
	Operation  string           `json:"operation"`
	Collection string           `json:"collection"`
	To         string           `json:"to,omitempty"`
	Operator   string           `json:"operator,omitempty"`
	Quantity   int              `json:"quantity,omitempty"`
	TokenIDs   []entity.TokenID `json:"token_ids,omitempty"`
	Approved   *bool            `json:"approved,omitempty"`
}

type relayerCommitResponse struct {
	TxHash string `json:"tx_hash"`
	Error  string `json:"error,omitempty"`
}

type relayerReadResponse struct {
	Approved bool             `json:"approved"`
	TokenIDs []entity.TokenID `json:"token_ids"`
	Error    string           `json:"error,omitempty"`
}

// NewRelayerService creates a ChainService backed by the HTTP relayer.
func NewRelayerService(baseURL string, timeout time.Duration, log logger.Logger) outbound.ChainService {
	return &relayerService{
		baseURL: baseURL,
		timeout: timeout,
		logger:  log,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

func (s *relayerService) Claim(ctx context.Context, collection, to string, quantity int) (*outbound.CommitResult, error) {
	return s.commit(ctx, relayerCommitRequest{
		Operation:  "claim",
		Collection: collection,
		To:         to,
		Quantity:   quantity,
	})
}

func (s *relayerService) BulkSend(ctx context.Context, collection, to string, tokenIDs []entity.TokenID) (*outbound.CommitResult, error) {
	return s.commit(ctx, relayerCommitRequest{
		Operation:  "bulk_send",
		Collection: collection,
		To:         to,
		TokenIDs:   tokenIDs,
	})
}

func (s *relayerService) SetApprovalForAll(ctx context.Context, collection, operator string, approved bool) (*outbound.CommitResult, error) {
	return s.commit(ctx, relayerCommitRequest{
		Operation:  "set_approval_for_all",
		Collection: collection,
		Operator:   operator,
		Approved:   &approved,
	})
}

func (s *relayerService) IsApprovedForAll(ctx context.Context, collection, owner, operator string) (bool, error) {
	var result relayerReadResponse
	path := fmt.Sprintf("/v1/collections/%s/approval?owner=%s&operator=%s", collection, owner, operator)
	if err := s.read(ctx, path, &result); err != nil {
		return false, err
	}
	return result.Approved, nil
}

func (s *relayerService) OwnedTokens(ctx context.Context, collection, owner string) ([]entity.TokenID, error) {
	var result relayerReadResponse
	path := fmt.Sprintf("/v1/collections/%s/tokens?owner=%s", collection, owner)
	if err := s.read(ctx, path, &result); err != nil {
		return nil, err
	}
	return result.TokenIDs, nil
}

// commit submits an irreversible operation. Transport failures after the
// request left this process wrap ErrCommitUnconfirmed: the relayer may have
// submitted the transaction even though no confirmation arrived.
func (s *relayerService) commit(ctx context.Context, payload relayerCommitRequest) (*outbound.CommitResult, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encode relayer request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/v1/transactions", bytes.NewReader(body))
	if err != nil {
		// The request never left; this is a definitive failure.
		return nil, fmt.Errorf("%w: create relayer request: %v", outbound.ErrCommitRejected, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		s.logger.Error(ctx, "relayer commit outcome unknown", err, map[string]interface{}{
			"operation":  payload.Operation,
			"collection": payload.Collection,
		})
		return nil, fmt.Errorf("%w: %v", outbound.ErrCommitUnconfirmed, err)
	}
	defer resp.Body.Close()

	var result relayerCommitResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		// The relayer answered but the confirmation was unreadable.
		s.logger.Error(ctx, "relayer response undecodable", err, map[string]interface{}{
			"operation": payload.Operation,
			"status":    resp.StatusCode,
		})
		return nil, fmt.Errorf("%w: decode relayer response: %v", outbound.ErrCommitUnconfirmed, err)
	}

	if resp.StatusCode != http.StatusOK {
		s.logger.Warn(ctx, "relayer rejected commit", map[string]interface{}{
			"operation": payload.Operation,
			"status":    resp.StatusCode,
			"error":     result.Error,
		})
		return nil, fmt.Errorf("%w: relayer status %d: %s", outbound.ErrCommitRejected, resp.StatusCode, result.Error)
	}

	s.logger.Info(ctx, "relayer commit confirmed", map[string]interface{}{
		"operation": payload.Operation,
		"tx_hash":   result.TxHash,
	})
	return &outbound.CommitResult{TxHash: result.TxHash}, nil
}

// read performs a retryable state query. Errors here carry no ambiguity.
func (s *relayerService) read(ctx context.Context, path string, out *relayerReadResponse) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("create relayer request: %w", err)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("relayer unavailable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("relayer status %d", resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode relayer response: %w", err)
	}
	return nil
}
