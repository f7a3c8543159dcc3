package middleware

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

const shopDomainKey contextKey = "shop_domain"

var (
	ErrMissingToken = errors.New("missing session token")
	ErrInvalidToken = errors.New("invalid session token")
)

// SessionClaims are the claims carried by a Shopify App Bridge session token.
// dest holds the shop origin, e.g. "https://demo.myshopify.com".
type SessionClaims struct {
	Dest string `json:"dest"`
	jwt.RegisteredClaims
}

// Shop returns the bare shop domain from the dest claim.
func (c *SessionClaims) Shop() string {
	return strings.TrimPrefix(strings.TrimPrefix(c.Dest, "https://"), "http://")
}

// VerifySessionToken validates an App Bridge session token: HS256 signature
// with the app secret, expiry, and the audience claim matching the app's API
// key.
func VerifySessionToken(apiKey, apiSecret, token string) (*SessionClaims, error) {
	claims := &SessionClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %q", t.Method.Alg())
		}
		return []byte(apiSecret), nil
	}, jwt.WithAudience(apiKey), jwt.WithExpirationRequired())
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !parsed.Valid {
		return nil, ErrInvalidToken
	}
	if claims.Dest == "" {
		return nil, fmt.Errorf("%w: missing dest claim", ErrInvalidToken)
	}
	return claims, nil
}

// SessionToken authenticates requests from the embedded admin frontend via
// the Authorization bearer token that App Bridge attaches to every fetch.
func SessionToken(apiKey, apiSecret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				http.Error(w, "missing authorization", http.StatusUnauthorized)
				return
			}
			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
				http.Error(w, "invalid authorization", http.StatusUnauthorized)
				return
			}
			claims, err := VerifySessionToken(apiKey, apiSecret, parts[1])
			if err != nil {
				http.Error(w, "invalid session token", http.StatusUnauthorized)
				return
			}
			ctx := context.WithValue(r.Context(), shopDomainKey, claims.Shop())
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// ShopFromContext returns the authenticated shop domain, or "" when the
// session-token middleware is not installed (development mode).
func ShopFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(shopDomainKey).(string); ok {
		return v
	}
	return ""
}
