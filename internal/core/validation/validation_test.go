package validation

import (
	"strings"
	"testing"
)

func TestValidateEmail_Valid(t *testing.T) {
	for _, email := range []string{
		"user@example.com",
		"test.user@company.co.uk",
		"name123@provider.org",
		"name+tag@provider.co",
	} {
		if err := ValidateEmail(email); err != nil {
			t.Fatalf("expected %q to be valid, got %v", email, err)
		}
	}
}

func TestValidateEmail_Invalid(t *testing.T) {
	for _, email := range []string{
		"invalid",
		"@example.com",
		"user@",
		"user@com",
		"user@example.c",
		"",
	} {
		if err := ValidateEmail(email); err == nil {
			t.Fatalf("expected %q to be rejected", email)
		}
	}
}

func TestValidateEmail_TooLong(t *testing.T) {
	email := strings.Repeat("a", 250) + "@example.com"
	if err := ValidateEmail(email); err == nil {
		t.Fatalf("expected over-length email to be rejected")
	}
}

func TestValidateUsername_Valid(t *testing.T) {
	for _, username := range []string{
		"john_doe",
		"user123",
		"test-user",
		"abc",
		strings.Repeat("a", 50),
	} {
		if err := ValidateUsername(username); err != nil {
			t.Fatalf("expected %q to be valid, got %v", username, err)
		}
	}
}

func TestValidateUsername_Invalid(t *testing.T) {
	cases := map[string]string{
		"too short":           "ab",
		"too long":            strings.Repeat("a", 51),
		"leading underscore":  "_user",
		"trailing underscore": "user_",
		"leading hyphen":      "-user",
		"trailing hyphen":     "user-",
		"contains space":      "user name",
		"contains symbol":     "user!name",
	}
	for name, username := range cases {
		if err := ValidateUsername(username); err == nil {
			t.Fatalf("%s: expected %q to be rejected", name, username)
		}
	}
}

func TestValidatePassword_Valid(t *testing.T) {
	for _, password := range []string{
		"Senha123!",
		"MyP@ssw0rd",
		"Str0ng#Pass",
	} {
		if err := ValidatePassword(password); err != nil {
			t.Fatalf("expected %q to be valid, got %v", password, err)
		}
	}
}

func TestValidatePassword_Invalid(t *testing.T) {
	for _, password := range []string{
		"weak",
		"noupppercase1!",
		"NOLOWERCASE1!",
		"NoNumbers!",
		"NoSpecial123",
	} {
		if err := ValidatePassword(password); err == nil {
			t.Fatalf("expected %q to be rejected", password)
		}
	}
}

// A password violating several rules at once must report every unmet rule
// in a single message, not just the first.
func TestValidatePassword_AggregatesAllViolations(t *testing.T) {
	err := ValidatePassword("weak")
	if err == nil {
		t.Fatalf("expected error")
	}

	msg := err.Error()
	for _, want := range []string{
		"at least 8 characters",
		"at least one uppercase letter (A-Z)",
		"at least one number (0-9)",
		"at least one special character",
	} {
		if !strings.Contains(msg, want) {
			t.Fatalf("message %q missing rule %q", msg, want)
		}
	}
	if strings.Contains(msg, "lowercase") {
		t.Fatalf("message %q should not report the lowercase rule", msg)
	}
}
