package auth

import (
	"testing"
	"time"
)

func TestGenerateAndParseToken(t *testing.T) {
	secret := "test-secret"

	token, err := GenerateToken(secret, "alice", time.Hour)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if token == "" {
		t.Error("Expected token to be generated")
	}

	claims, err := ParseToken(secret, token)
	if err != nil {
		t.Fatalf("Expected no error parsing token, got %v", err)
	}
	if claims.Sub != "alice" {
		t.Errorf("Expected subject alice, got %s", claims.Sub)
	}
}

func TestParseToken_WrongSecret(t *testing.T) {
	token, err := GenerateToken("secret-a", "alice", time.Hour)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if _, err := ParseToken("secret-b", token); err == nil {
		t.Error("Expected error for wrong secret")
	}
}

func TestParseToken_Expired(t *testing.T) {
	token, err := GenerateToken("secret", "alice", -time.Minute)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if _, err := ParseToken("secret", token); err == nil {
		t.Error("Expected error for expired token")
	}
}

func TestParseToken_Garbage(t *testing.T) {
	if _, err := ParseToken("secret", "not.a.token"); err == nil {
		t.Error("Expected error for malformed token")
	}
}
