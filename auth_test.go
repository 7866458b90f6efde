package main

import (
	"strings"
	"testing"
)

func TestRegisterLoginValidate(t *testing.T) {
	db := openTestDB(t)
	auth := NewAuth(db)

	token, err := auth.Register("alice", "secret")
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	username, err := auth.ValidateToken(token)
	if err != nil || username != "alice" {
		t.Errorf("expected token for alice, got %q, %v", username, err)
	}

	// Login with the right password issues a fresh valid token
	token2, err := auth.Login("alice", "secret", "1.2.3.4")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if username, err := auth.ValidateToken(token2); err != nil || username != "alice" {
		t.Errorf("login token invalid: %q, %v", username, err)
	}

	// Wrong password is rejected without leaking which field was wrong
	if _, err := auth.Login("alice", "wrong", "1.2.3.4"); err == nil {
		t.Error("wrong password must be rejected")
	}
}

func TestRegisterValidation(t *testing.T) {
	db := openTestDB(t)
	auth := NewAuth(db)

	if _, err := auth.Register("a", "secret"); err == nil {
		t.Error("too-short username must be rejected")
	}
	if _, err := auth.Register("alice", "pw"); err == nil {
		t.Error("too-short password must be rejected")
	}
	if _, err := auth.Register("alice", "secret"); err != nil {
		t.Fatalf("register: %v", err)
	}
	if _, err := auth.Register("alice", "secret"); err == nil {
		t.Error("duplicate username must be rejected")
	}
}

func TestValidateTokenRejectsGarbage(t *testing.T) {
	db := openTestDB(t)
	auth := NewAuth(db)
	if _, err := auth.ValidateToken("not-a-token"); err == nil {
		t.Error("garbage token must be rejected")
	}
}

func TestJWTSecretPersists(t *testing.T) {
	db := openTestDB(t)
	a1 := NewAuth(db)
	token, err := a1.Register("alice", "secret")
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	// A second Auth over the same database loads the same secret, so
	// tokens survive a restart
	a2 := NewAuth(db)
	if username, err := a2.ValidateToken(token); err != nil || username != "alice" {
		t.Errorf("token should survive restart: %q, %v", username, err)
	}
}

func TestGenerateGuestName(t *testing.T) {
	n := GenerateGuestName()
	if !strings.HasPrefix(n, "Guest_") {
		t.Errorf("unexpected guest name %q", n)
	}
	if n == GenerateGuestName() && n == GenerateGuestName() {
		t.Error("guest names should vary")
	}
}
