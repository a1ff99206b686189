package jwt

import (
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"

	"github.com/mintrail/mintrail/application/port/outbound"
	apperror "github.com/mintrail/mintrail/domain/error"
)

// JWTService validates access tokens issued by the external identity
// provider. This service never issues tokens; it only verifies the HS256
// signature and extracts the principal.
type JWTService struct {
	hmacSecret []byte
}

func NewJWTService(secret string, algorithm string) (*JWTService, error) {
	if algorithm != "HS256" {
		return nil, fmt.Errorf("unsupported JWT algorithm: %s", algorithm)
	}
	if secret == "" {
		return nil, errors.New("JWT secret is required")
	}
	return &JWTService{hmacSecret: []byte(secret)}, nil
}

func (s *JWTService) ValidateAccessToken(tokenString string) (*outbound.TokenClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.hmacSecret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, apperror.ErrTokenExpired("access token expired")
		}
		return nil, apperror.ErrInvalidToken(err.Error())
	}
	if !token.Valid {
		return nil, apperror.ErrInvalidToken("token signature invalid")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, apperror.ErrInvalidToken("unreadable claims")
	}

	sub, ok := claims["sub"].(string)
	if !ok || sub == "" {
		return nil, apperror.ErrInvalidToken("missing sub claim")
	}
	email, _ := claims["email"].(string)

	return &outbound.TokenClaims{
		UserID: sub,
		Email:  email,
	}, nil
}
