package auth

import (
	"testing"
	"time"
)

const testSecret = "test-secret"

func TestIssueAndVerifyAccessToken(t *testing.T) {
	token, err := IssueAccessToken(42, "sokha", RoleWaiter, testSecret, time.Hour)
	if err != nil {
		t.Fatalf("issue failed: %v", err)
	}

	claims, err := VerifyAccessToken(token, testSecret)
	if err != nil {
		t.Fatalf("verify failed: %v", err)
	}
	if claims.UserID != 42 {
		t.Fatalf("expected userId 42, got %d", claims.UserID)
	}
	if claims.Username != "sokha" {
		t.Fatalf("expected username sokha, got %s", claims.Username)
	}
	if claims.Role != RoleWaiter {
		t.Fatalf("expected role waiter, got %s", claims.Role)
	}
}

func TestVerifyAccessTokenRejectsExpired(t *testing.T) {
	token, err := IssueAccessToken(1, "admin", RoleAdmin, testSecret, -time.Minute)
	if err != nil {
		t.Fatalf("issue failed: %v", err)
	}
	if _, err := VerifyAccessToken(token, testSecret); err == nil {
		t.Fatalf("expected expired token to be rejected")
	}
}

func TestVerifyAccessTokenRejectsWrongSecret(t *testing.T) {
	token, err := IssueAccessToken(1, "admin", RoleAdmin, testSecret, time.Hour)
	if err != nil {
		t.Fatalf("issue failed: %v", err)
	}
	if _, err := VerifyAccessToken(token, "other-secret"); err == nil {
		t.Fatalf("expected token signed with another secret to be rejected")
	}
}

func TestParseBearerToken(t *testing.T) {
	cases := []struct {
		name     string
		header   string
		expected string
	}{
		{name: "standard", header: "Bearer abc.def.ghi", expected: "abc.def.ghi"},
		{name: "lowercase scheme", header: "bearer abc", expected: "abc"},
		{name: "missing scheme", header: "abc", expected: ""},
		{name: "empty", header: "", expected: ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := ParseBearerToken(tc.header); got != tc.expected {
				t.Fatalf("expected %q, got %q", tc.expected, got)
			}
		})
	}
}

func TestPasswordHashRoundTrip(t *testing.T) {
	hashed, err := HashPassword("secret123")
	if err != nil {
		t.Fatalf("hash failed: %v", err)
	}
	if !CheckPassword(hashed, "secret123") {
		t.Fatalf("expected password to match its hash")
	}
	if CheckPassword(hashed, "wrong") {
		t.Fatalf("expected wrong password to be rejected")
	}
}
