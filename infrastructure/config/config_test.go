package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseCollections(t *testing.T) {
	collections, err := parseCollections("genesis:0x1234567890abcdef1234567890abcdef12345678:3, promo:0xabcdefabcdefabcdefabcdefabcdefabcdefabcd:1")
	assert.NoError(t, err)
	assert.Len(t, collections, 2)
	assert.Equal(t, "genesis", collections[0].Label)
	assert.Equal(t, "0x1234567890abcdef1234567890abcdef12345678", collections[0].Address)
	assert.Equal(t, 3, collections[0].FixedAmount)
	assert.Equal(t, 1, collections[1].FixedAmount)
}

func TestParseCollections_Empty(t *testing.T) {
	_, err := parseCollections("")
	assert.ErrorIs(t, err, ErrMissingCollections)
}

func TestParseCollections_Malformed(t *testing.T) {
	_, err := parseCollections("genesis:0xabc")
	assert.ErrorIs(t, err, ErrInvalidCollections)

	_, err = parseCollections("genesis:0xabc:zero")
	assert.ErrorIs(t, err, ErrInvalidCollections)

	_, err = parseCollections("genesis:0xabc:0")
	assert.ErrorIs(t, err, ErrInvalidCollections)
}

func TestLoad_RequiresDatabaseURL(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	_, err := Load()
	assert.ErrorIs(t, err, ErrMissingDatabaseURL)
}

func TestLoad_MockModeSkipsRelayerURL(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/mintrail")
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("WALLET_ADDRESS", "0x1234567890abcdef1234567890abcdef12345678")
	t.Setenv("OPERATOR_ADDRESS", "0xabcdefabcdefabcdefabcdefabcdefabcdefabcd")
	t.Setenv("CHAIN_MOCK_MODE", "true")
	t.Setenv("COLLECTIONS", "genesis:0x1111111111111111111111111111111111111111:3")
	t.Setenv("RELAYER_URL", "")

	cfg, err := Load()
	assert.NoError(t, err)
	assert.True(t, cfg.ChainMockMode)
	assert.Equal(t, 90*time.Second, cfg.RelayerTimeout)
	assert.Len(t, cfg.Collections, 1)
}
