package auth_test

import (
	"testing"
	"time"

	"MiniAdmin/internal/auth"
)

func TestCredentials_Verify(t *testing.T) {
	creds, err := auth.NewCredentials("admin", "admin123")
	if err != nil {
		t.Fatalf("new credentials: %v", err)
	}

	if err := creds.Verify("admin", "admin123"); err != nil {
		t.Errorf("valid login rejected: %v", err)
	}
	if err := creds.Verify("admin", "wrong"); err == nil {
		t.Error("wrong password accepted")
	}
	if err := creds.Verify("root", "admin123"); err == nil {
		t.Error("wrong username accepted")
	}
}

func TestCredentials_RequireBothFields(t *testing.T) {
	if _, err := auth.NewCredentials("", "pw"); err == nil {
		t.Error("empty username accepted")
	}
	if _, err := auth.NewCredentials("admin", "  "); err == nil {
		t.Error("blank password accepted")
	}
}

func TestTokenMaker_RoundTrip(t *testing.T) {
	tm := auth.NewTokenMaker("secret")

	tok, err := tm.New("admin", "admin", time.Minute)
	if err != nil {
		t.Fatalf("new token: %v", err)
	}

	claims, err := tm.Parse(tok)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if claims.Username != "admin" || claims.Role != "admin" {
		t.Fatalf("claims = %+v", claims)
	}
	if claims.ID == "" {
		t.Error("empty jti")
	}
}

func TestTokenMaker_RejectsForeignSecret(t *testing.T) {
	tok, err := auth.NewTokenMaker("one").New("admin", "admin", time.Minute)
	if err != nil {
		t.Fatalf("new token: %v", err)
	}

	if _, err := auth.NewTokenMaker("two").Parse(tok); err == nil {
		t.Error("token signed with another secret accepted")
	}
}

func TestTokenMaker_RejectsExpired(t *testing.T) {
	tm := auth.NewTokenMaker("secret")

	tok, err := tm.New("admin", "admin", -time.Minute)
	if err != nil {
		t.Fatalf("new token: %v", err)
	}
	if _, err := tm.Parse(tok); err == nil {
		t.Error("expired token accepted")
	}
}
