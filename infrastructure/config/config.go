package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/mintrail/mintrail/domain/entity"
)

type Config struct {
	DatabaseURL  string
	JWTSecret    string
	JWTAlgorithm string
	ServerPort   string
	ServerHost   string
	Environment  string

	RedisURL                string
	RateLimitEnabled        bool
	RateLimitCommitAttempts int
	RateLimitCommitWindow   time.Duration
	RateLimitBlockDuration  time.Duration

	LogLevel  string
	LogFormat string

	// Chain configuration
	RelayerURL      string
	RelayerTimeout  time.Duration
	ChainMockMode   bool
	WalletAddress   string
	OperatorAddress string
	ExplorerBaseURL string
	SenderName      string
	Collections     []entity.Collection

	// CORS configuration
	CORSEnabled          bool
	CORSAllowedOrigins   []string
	CORSAllowCredentials bool
}

var (
	ErrMissingDatabaseURL     = errors.New("DATABASE_URL is required")
	ErrMissingJWTSecret       = errors.New("JWT_SECRET is required")
	ErrMissingWalletAddress   = errors.New("WALLET_ADDRESS is required")
	ErrMissingOperatorAddress = errors.New("OPERATOR_ADDRESS is required")
	ErrMissingRelayerURL      = errors.New("RELAYER_URL is required when CHAIN_MOCK_MODE is false")
	ErrMissingCollections     = errors.New("COLLECTIONS is required")
	ErrInvalidCollections     = errors.New("COLLECTIONS must be a comma list of label:address:fixed_amount")
)

func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	cfg := &Config{
		DatabaseURL:  os.Getenv("DATABASE_URL"),
		JWTSecret:    os.Getenv("JWT_SECRET"),
		JWTAlgorithm: getEnvOrDefault("JWT_ALG", "HS256"),
		ServerPort:   getEnvOrDefault("SERVER_PORT", "8080"),
		ServerHost:   getEnvOrDefault("SERVER_HOST", "localhost"),
		Environment:  getEnvOrDefault("ENV", "development"),

		RedisURL:                getEnvOrDefault("REDIS_URL", "redis://localhost:6379/0"),
		RateLimitEnabled:        getEnvOrDefaultBool("RATE_LIMIT_ENABLED", true),
		RateLimitCommitAttempts: getEnvOrDefaultInt("RATE_LIMIT_COMMIT_ATTEMPTS", 10),
		RateLimitCommitWindow:   getEnvOrDefaultDuration("RATE_LIMIT_COMMIT_WINDOW", 60*time.Second),
		RateLimitBlockDuration:  getEnvOrDefaultDuration("RATE_LIMIT_BLOCK_DURATION", 1800*time.Second),

		LogLevel:  getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat: getEnvOrDefault("LOG_FORMAT", "json"),

		RelayerURL:      os.Getenv("RELAYER_URL"),
		RelayerTimeout:  getEnvOrDefaultDuration("RELAYER_TIMEOUT", 90*time.Second),
		ChainMockMode:   getEnvOrDefaultBool("CHAIN_MOCK_MODE", false),
		WalletAddress:   os.Getenv("WALLET_ADDRESS"),
		OperatorAddress: os.Getenv("OPERATOR_ADDRESS"),
		ExplorerBaseURL: getEnvOrDefault("EXPLORER_BASE_URL", "https://sepolia.etherscan.io"),
		SenderName:      getEnvOrDefault("MAIL_SENDER_NAME", "株式会社ST"),

		CORSEnabled:          getEnvOrDefaultBool("CORS_ENABLED", false),
		CORSAllowedOrigins:   parseAllowedOrigins(os.Getenv("CORS_ALLOWED_ORIGINS")),
		CORSAllowCredentials: getEnvOrDefaultBool("CORS_ALLOW_CREDENTIALS", false),
	}

	if cfg.DatabaseURL == "" {
		return nil, ErrMissingDatabaseURL
	}
	if cfg.JWTSecret == "" {
		return nil, ErrMissingJWTSecret
	}
	if cfg.WalletAddress == "" {
		return nil, ErrMissingWalletAddress
	}
	if cfg.OperatorAddress == "" {
		return nil, ErrMissingOperatorAddress
	}
	if !cfg.ChainMockMode && cfg.RelayerURL == "" {
		return nil, ErrMissingRelayerURL
	}

	collections, err := parseCollections(os.Getenv("COLLECTIONS"))
	if err != nil {
		return nil, err
	}
	cfg.Collections = collections

	return cfg, nil
}

// parseCollections reads the label:address:fixed_amount comma list, e.g.
// "genesis:0xabc...:3,promo:0xdef...:1".
func parseCollections(value string) ([]entity.Collection, error) {
	if value == "" {
		return nil, ErrMissingCollections
	}
	var collections []entity.Collection
	for _, item := range strings.Split(value, ",") {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		parts := strings.Split(item, ":")
		if len(parts) != 3 {
			return nil, fmt.Errorf("%w: %q", ErrInvalidCollections, item)
		}
		amount, err := strconv.Atoi(strings.TrimSpace(parts[2]))
		if err != nil || amount <= 0 {
			return nil, fmt.Errorf("%w: %q", ErrInvalidCollections, item)
		}
		collections = append(collections, entity.Collection{
			Label:       strings.TrimSpace(parts[0]),
			Address:     strings.TrimSpace(parts[1]),
			FixedAmount: amount,
		})
	}
	if len(collections) == 0 {
		return nil, ErrMissingCollections
	}
	return collections, nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvOrDefaultBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		parsed, err := strconv.ParseBool(value)
		if err != nil {
			return defaultValue
		}
		return parsed
	}
	return defaultValue
}

func getEnvOrDefaultInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		parsed, err := strconv.Atoi(value)
		if err != nil {
			return defaultValue
		}
		return parsed
	}
	return defaultValue
}

func getEnvOrDefaultDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		// interpret as seconds if numeric, else parse like Go duration
		if n, err := strconv.Atoi(value); err == nil {
			return time.Duration(n) * time.Second
		}
		d, err := time.ParseDuration(value)
		if err != nil {
			return defaultValue
		}
		return d
	}
	return defaultValue
}

func parseAllowedOrigins(value string) []string {
	if value == "" {
		return []string{}
	}
	parts := strings.Split(value, ",")
	res := make([]string, 0, len(parts))
	for _, p := range parts {
		trimmed := strings.TrimSpace(p)
		if trimmed != "" {
			res = append(res, trimmed)
		}
	}
	return res
}
