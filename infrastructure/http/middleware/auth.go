package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/mintrail/mintrail/application/port/inbound"
	"github.com/mintrail/mintrail/application/port/outbound"
	"github.com/mintrail/mintrail/infrastructure/http/response"
)

type sessionKey struct{}

// AuthMiddleware verifies the bearer token and attaches the resulting
// session to the request context. Every gated endpoint goes through
// RequireAuth; there is no optional-auth path in this service.
type AuthMiddleware struct {
	tokenService outbound.TokenService
}

func NewAuthMiddleware(tokenService outbound.TokenService) *AuthMiddleware {
	return &AuthMiddleware{
		tokenService: tokenService,
	}
}

func (m *AuthMiddleware) RequireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			response.Unauthorized(w, "Authorization header required")
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			response.Unauthorized(w, "Invalid authorization header format")
			return
		}

		token := parts[1]
		if token == "" {
			response.Unauthorized(w, "Token cannot be empty")
			return
		}

		claims, err := m.tokenService.ValidateAccessToken(token)
		if err != nil {
			response.Unauthorized(w, "Invalid or expired token")
			return
		}

		session := inbound.Session{
			UserID: claims.UserID,
			Email:  claims.Email,
		}
		ctx := context.WithValue(r.Context(), sessionKey{}, session)
		next.ServeHTTP(w, r.WithContext(ctx))
	}
}

// GetSession retrieves the verified session from the request context. The
// second return is false when the request never passed RequireAuth.
func GetSession(ctx context.Context) (inbound.Session, bool) {
	session, ok := ctx.Value(sessionKey{}).(inbound.Session)
	return session, ok
}
