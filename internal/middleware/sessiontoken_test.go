package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	testAPIKey    = "test-api-key"
	testAPISecret = "test-api-secret"
)

func signSessionToken(t *testing.T, secret string, claims SessionClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return signed
}

func validClaims() SessionClaims {
	return SessionClaims{
		Dest: "https://demo.myshopify.com",
		RegisteredClaims: jwt.RegisteredClaims{
			Audience:  jwt.ClaimStrings{testAPIKey},
			Issuer:    "https://demo.myshopify.com/admin",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Minute)),
			NotBefore: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
		},
	}
}

func TestVerifySessionToken(t *testing.T) {
	t.Parallel()
	token := signSessionToken(t, testAPISecret, validClaims())
	claims, err := VerifySessionToken(testAPIKey, testAPISecret, token)
	if err != nil {
		t.Fatalf("VerifySessionToken returned error: %v", err)
	}
	if claims.Shop() != "demo.myshopify.com" {
		t.Fatalf("Shop() = %q, want demo.myshopify.com", claims.Shop())
	}
}

func TestVerifySessionTokenRejectsBadSignature(t *testing.T) {
	t.Parallel()
	token := signSessionToken(t, "wrong-secret", validClaims())
	if _, err := VerifySessionToken(testAPIKey, testAPISecret, token); err == nil {
		t.Fatal("expected error for bad signature")
	}
}

func TestVerifySessionTokenRejectsExpired(t *testing.T) {
	t.Parallel()
	claims := validClaims()
	claims.ExpiresAt = jwt.NewNumericDate(time.Now().Add(-time.Minute))
	token := signSessionToken(t, testAPISecret, claims)
	if _, err := VerifySessionToken(testAPIKey, testAPISecret, token); err == nil {
		t.Fatal("expected error for expired token")
	}
}

func TestVerifySessionTokenRejectsWrongAudience(t *testing.T) {
	t.Parallel()
	claims := validClaims()
	claims.Audience = jwt.ClaimStrings{"someone-else"}
	token := signSessionToken(t, testAPISecret, claims)
	if _, err := VerifySessionToken(testAPIKey, testAPISecret, token); err == nil {
		t.Fatal("expected error for wrong audience")
	}
}

func TestSessionTokenMiddleware(t *testing.T) {
	t.Parallel()
	var gotShop string
	handler := SessionToken(testAPIKey, testAPISecret)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotShop = ShopFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+signSessionToken(t, testAPISecret, validClaims()))
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if gotShop != "demo.myshopify.com" {
		t.Fatalf("shop = %q, want demo.myshopify.com", gotShop)
	}

	rec = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/", nil)
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("missing token status = %d, want 401", rec.Code)
	}
}
