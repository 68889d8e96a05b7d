package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
)

func newTestService() *JWTService {
	return NewJWTService(JWTConfig{SecretKey: "test-secret", TokenIssuer: "campushub-test"})
}

func TestIssueAndValidateToken(t *testing.T) {
	svc := newTestService()
	userID := uuid.New().String()

	token, err := svc.IssueToken(userID, "firebase-123", "jane@college.edu", time.Hour)
	if err != nil {
		t.Fatalf("IssueToken: %v", err)
	}

	claims, err := svc.ValidateToken(token)
	if err != nil {
		t.Fatalf("ValidateToken: %v", err)
	}
	if claims.UserID != userID || claims.Subject != "firebase-123" || claims.Email != "jane@college.edu" {
		t.Errorf("unexpected claims: %+v", claims)
	}
}

func TestValidateToken_Expired(t *testing.T) {
	svc := newTestService()
	token, err := svc.IssueToken(uuid.New().String(), "sub", "a@b.c", -time.Minute)
	if err != nil {
		t.Fatalf("IssueToken: %v", err)
	}
	if _, err := svc.ValidateToken(token); !errors.Is(err, ErrExpiredToken) {
		t.Fatalf("err = %v, want ErrExpiredToken", err)
	}
}

func TestValidateToken_WrongSecret(t *testing.T) {
	token, _ := newTestService().IssueToken(uuid.New().String(), "sub", "a@b.c", time.Hour)
	other := NewJWTService(JWTConfig{SecretKey: "other", TokenIssuer: "campushub-test"})
	if _, err := other.ValidateToken(token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("err = %v, want ErrInvalidToken", err)
	}
}

func TestValidateToken_WrongIssuer(t *testing.T) {
	token, _ := NewJWTService(JWTConfig{SecretKey: "test-secret", TokenIssuer: "elsewhere"}).
		IssueToken(uuid.New().String(), "sub", "a@b.c", time.Hour)
	if _, err := newTestService().ValidateToken(token); err == nil {
		t.Fatal("expected issuer mismatch to fail")
	}
}

func TestValidateToken_NonUUIDUser(t *testing.T) {
	svc := newTestService()
	token, _ := svc.IssueToken("not-a-uuid", "sub", "a@b.c", time.Hour)
	if _, err := svc.ValidateToken(token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("err = %v, want ErrInvalidToken", err)
	}
}

func TestExtractBearerToken(t *testing.T) {
	cases := map[string]bool{
		"Bearer a.b.c": true,
		"a.b.c":        true,
		"Bearer abc":   false,
		"":             false,
	}
	for header, ok := range cases {
		_, err := ExtractBearerToken(header)
		if (err == nil) != ok {
			t.Errorf("ExtractBearerToken(%q) err = %v, want ok=%v", header, err, ok)
		}
	}
}
