package config

import (
	"testing"
	"time"

	"clientportal/internal/errors"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/portal_test")

	c, err := Load()
	if err != nil {
		t.Fatal(err)
	}

	if c.Server.Port != "8080" {
		t.Errorf("port = %q", c.Server.Port)
	}
	if !c.Server.SecureCookie {
		t.Error("secure cookies default on")
	}
	if c.Auth.OTPTTL != 10*time.Minute {
		t.Errorf("otp ttl = %v", c.Auth.OTPTTL)
	}
	if c.Auth.SessionTTL != 30*24*time.Hour {
		t.Errorf("session ttl = %v", c.Auth.SessionTTL)
	}
	if c.Sheets.CacheTTL != 5*time.Minute {
		t.Errorf("cache ttl = %v", c.Sheets.CacheTTL)
	}
	if c.Sheets.HTTPTimeout != 15*time.Second {
		t.Errorf("http timeout = %v", c.Sheets.HTTPTimeout)
	}
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/portal_test")
	t.Setenv("PORT", "9000")
	t.Setenv("SECURE_COOKIES", "false")
	t.Setenv("OTP_TTL_MIN", "5")
	t.Setenv("SHEET_CACHE_TTL_SEC", "60")

	c, err := Load()
	if err != nil {
		t.Fatal(err)
	}

	if c.Server.Port != "9000" {
		t.Errorf("port = %q", c.Server.Port)
	}
	if c.Server.SecureCookie {
		t.Error("secure cookies should be off")
	}
	if c.Auth.OTPTTL != 5*time.Minute {
		t.Errorf("otp ttl = %v", c.Auth.OTPTTL)
	}
	if c.Sheets.CacheTTL != time.Minute {
		t.Errorf("cache ttl = %v", c.Sheets.CacheTTL)
	}
}

func TestLoad_RequiresDatabaseURL(t *testing.T) {
	t.Setenv("DATABASE_URL", "")

	_, err := Load()
	if err == nil {
		t.Fatal("expected error without DATABASE_URL")
	}
	if !errors.HasCode(err, errors.CodeConfigInvalid) {
		t.Errorf("code = %q", errors.GetCode(err))
	}
}
