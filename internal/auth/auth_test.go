package auth

import (
	"strconv"
	"testing"
)

func TestRandomSixDigit(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		code, err := RandomSixDigit()
		if err != nil {
			t.Fatal(err)
		}
		if len(code) != 6 {
			t.Fatalf("code %q is not six digits", code)
		}
		if _, err := strconv.Atoi(code); err != nil {
			t.Fatalf("code %q is not numeric", code)
		}
		seen[code] = true
	}
	if len(seen) < 2 {
		t.Error("fifty draws produced a single code")
	}
}

func TestVerifyCode(t *testing.T) {
	hash := HashCode("123456")

	if hash == "123456" {
		t.Fatal("code must not be stored in the clear")
	}
	if !VerifyCode("123456", hash) {
		t.Error("matching code rejected")
	}
	if VerifyCode("654321", hash) {
		t.Error("wrong code accepted")
	}
	if VerifyCode("", hash) {
		t.Error("empty code accepted")
	}
}

func TestNewSessionToken(t *testing.T) {
	a, err := NewSessionToken()
	if err != nil {
		t.Fatal(err)
	}
	b, err := NewSessionToken()
	if err != nil {
		t.Fatal(err)
	}

	if len(a) != 32 {
		t.Errorf("token length = %d, want 32 hex chars", len(a))
	}
	if a == b {
		t.Error("two tokens collided")
	}
}

func TestHashUserAgent(t *testing.T) {
	ua := "Mozilla/5.0 (X11; Linux x86_64)"
	if HashUserAgent(ua) != HashUserAgent(ua) {
		t.Error("hash must be deterministic")
	}
	if HashUserAgent(ua) == ua {
		t.Error("raw user agent must not survive hashing")
	}
}
