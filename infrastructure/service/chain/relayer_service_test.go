package chain

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/mintrail/mintrail/application/port/outbound"
	"github.com/mintrail/mintrail/domain/entity"
	"github.com/mintrail/mintrail/infrastructure/service/logger"
)

func testLogger() logger.Logger {
	return logger.NewStructuredLogger(logger.LoggerConfig{Level: "error", Format: "json", ServiceName: "chain-test"})
}

func TestRelayerService_Claim_Confirmed(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/transactions", r.URL.Path)
		var req relayerCommitRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "claim", req.Operation)
		assert.Equal(t, 3, req.Quantity)
		json.NewEncoder(w).Encode(relayerCommitResponse{TxHash: "0xconfirmed"})
	}))
	defer server.Close()

	service := NewRelayerService(server.URL, 5*time.Second, testLogger())
	res, err := service.Claim(context.Background(), "0xCONTRACT", "0xWALLET", 3)

	assert.NoError(t, err)
	assert.Equal(t, "0xconfirmed", res.TxHash)
}

func TestRelayerService_Commit_Rejected(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		json.NewEncoder(w).Encode(relayerCommitResponse{Error: "execution reverted"})
	}))
	defer server.Close()

	service := NewRelayerService(server.URL, 5*time.Second, testLogger())
	_, err := service.BulkSend(context.Background(), "0xCONTRACT", "0xRECIPIENT", []entity.TokenID{1, 2})

	assert.True(t, errors.Is(err, outbound.ErrCommitRejected))
	assert.False(t, errors.Is(err, outbound.ErrCommitUnconfirmed))
}

func TestRelayerService_Commit_TimeoutIsUnconfirmed(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer server.Close()

	service := NewRelayerService(server.URL, 20*time.Millisecond, testLogger())
	_, err := service.Claim(context.Background(), "0xCONTRACT", "0xWALLET", 1)

	// The request left the process; the relayer may still have applied it.
	assert.True(t, errors.Is(err, outbound.ErrCommitUnconfirmed))
}

func TestRelayerService_Commit_ConnectionDropIsUnconfirmed(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close() // nothing listening anymore

	service := NewRelayerService(url, time.Second, testLogger())
	_, err := service.SetApprovalForAll(context.Background(), "0xCONTRACT", "0xOPERATOR", true)

	assert.True(t, errors.Is(err, outbound.ErrCommitUnconfirmed))
}

func TestRelayerService_Reads(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.URL.Path == "/v1/collections/0xCONTRACT/approval":
			assert.Equal(t, "0xWALLET", r.URL.Query().Get("owner"))
			json.NewEncoder(w).Encode(relayerReadResponse{Approved: true})
		case r.URL.Path == "/v1/collections/0xCONTRACT/tokens":
			json.NewEncoder(w).Encode(relayerReadResponse{TokenIDs: []entity.TokenID{4, 9}})
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer server.Close()

	service := NewRelayerService(server.URL, 5*time.Second, testLogger())

	approved, err := service.IsApprovedForAll(context.Background(), "0xCONTRACT", "0xWALLET", "0xOPERATOR")
	assert.NoError(t, err)
	assert.True(t, approved)

	tokens, err := service.OwnedTokens(context.Background(), "0xCONTRACT", "0xWALLET")
	assert.NoError(t, err)
	assert.Equal(t, []entity.TokenID{4, 9}, tokens)
}

func TestMockChainService_ClaimThenSend(t *testing.T) {
	mock := NewMockChainService(0)
	ctx := context.Background()

	_, err := mock.Claim(ctx, "0xCONTRACT", "0xWALLET", 3)
	assert.NoError(t, err)

	held, err := mock.OwnedTokens(ctx, "0xCONTRACT", "0xWALLET")
	assert.NoError(t, err)
	assert.Len(t, held, 3)

	_, err = mock.BulkSend(ctx, "0xCONTRACT", "0xRECIPIENT", held[:2])
	assert.NoError(t, err)

	held, err = mock.OwnedTokens(ctx, "0xCONTRACT", "0xWALLET")
	assert.NoError(t, err)
	assert.Len(t, held, 1)

	received, err := mock.OwnedTokens(ctx, "0xCONTRACT", "0xRECIPIENT")
	assert.NoError(t, err)
	assert.Len(t, received, 2)
}

func TestMockChainService_UnconfirmedMode(t *testing.T) {
	mock := NewMockChainService(0)
	mock.UnconfirmedCommits = true

	_, err := mock.Claim(context.Background(), "0xCONTRACT", "0xWALLET", 1)
	assert.True(t, errors.Is(err, outbound.ErrCommitUnconfirmed))
}
