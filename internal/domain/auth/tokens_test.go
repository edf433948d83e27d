package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

func TestTokenRoundTrip(t *testing.T) {
	manager := NewJWTTokenManager([]byte("test-secret"), time.Hour)
	userID := uuid.NewString()

	token, expiresAt, err := manager.Generate(userID, "jane@example.com", "jane")
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if time.Until(expiresAt) > time.Hour || time.Until(expiresAt) < 59*time.Minute {
		t.Fatalf("unexpected expiry %v", expiresAt)
	}

	claims, err := manager.Validate(token)
	if err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	if claims.UserID != userID {
		t.Fatalf("expected user id %s, got %s", userID, claims.UserID)
	}
	if claims.Username != "jane" || claims.Email != "jane@example.com" {
		t.Fatalf("unexpected claims %+v", claims)
	}
}

func TestValidateRejectsWrongSecret(t *testing.T) {
	manager := NewJWTTokenManager([]byte("test-secret"), time.Hour)
	other := NewJWTTokenManager([]byte("other-secret"), time.Hour)

	token, _, err := manager.Generate(uuid.NewString(), "jane@example.com", "jane")
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	if _, err := other.Validate(token); err == nil {
		t.Fatalf("expected validation to fail with wrong secret")
	}
}

func TestValidateRejectsExpiredToken(t *testing.T) {
	manager := NewJWTTokenManager([]byte("test-secret"), -time.Minute)

	token, _, err := manager.Generate(uuid.NewString(), "jane@example.com", "jane")
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	if _, err := manager.Validate(token); err == nil {
		t.Fatalf("expected expired token to be rejected")
	}
}

func TestValidateRejectsUnsignedToken(t *testing.T) {
	manager := NewJWTTokenManager([]byte("test-secret"), time.Hour)

	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{UserID: uuid.NewString()}).
		SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("signing none token: %v", err)
	}

	if _, err := manager.Validate(unsigned); err == nil {
		t.Fatalf("expected alg=none token to be rejected")
	}
}
