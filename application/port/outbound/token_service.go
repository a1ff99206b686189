package outbound

// TokenClaims represents the verified claims of an identity-provider token.
type TokenClaims struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
}

// TokenService verifies bearer tokens issued by the external identity
// provider. This service never issues tokens of its own.
type TokenService interface {
	ValidateAccessToken(token string) (*TokenClaims, error)
}
