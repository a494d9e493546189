package errors

import (
	"errors"
	"fmt"
	"net"
	"testing"
)

func TestReasonPrefersBackendDetail(t *testing.T) {
	err := fmt.Errorf("create ticker: %w", NewRequestError("create_ticker", 400, "Ticker AAPL already exists"))
	if got := Reason(err, "generic"); got != "Ticker AAPL already exists" {
		t.Errorf("Reason = %q, want backend detail", got)
	}
}

func TestReasonFallsBack(t *testing.T) {
	cases := []error{
		NewRequestError("remove_ticker", 500, ""),
		NewRequestError("remove_ticker", 500, "   "),
		NewUnreachableError("remove_ticker", &net.OpError{Op: "dial"}),
		fmt.Errorf("plain"),
	}
	for _, err := range cases {
		if got := Reason(err, "Failed to remove AAPL"); got != "Failed to remove AAPL" {
			t.Errorf("Reason(%v) = %q, want fallback", err, got)
		}
	}
	if got := Reason(nil, "x"); got != "" {
		t.Errorf("Reason(nil) = %q, want empty", got)
	}
}

func TestValidationErrorMatchesSentinel(t *testing.T) {
	err := Wrap(NewValidationError("symbol", "", "Please enter a ticker symbol"), "add ticker")
	if !IsValidation(err) {
		t.Fatal("expected wrapped ValidationError to match ErrInputValidation")
	}
	if IsUnauthorized(err) {
		t.Fatal("validation error must not look unauthorized")
	}
	if got := Reason(err, "fallback"); got != "Please enter a ticker symbol" {
		t.Errorf("Reason = %q", got)
	}
}

func TestUnauthorizedIsDistinct(t *testing.T) {
	err := Wrap(ErrUnauthorized, "GET /api/auth/me")
	if !IsUnauthorized(err) {
		t.Fatal("expected IsUnauthorized")
	}
	var re *RequestError
	if As(err, &re) {
		t.Fatal("unauthorized must not be a RequestError")
	}
}

func TestUnreachableUnwraps(t *testing.T) {
	inner := fmt.Errorf("connection refused")
	err := NewUnreachableError("login", inner)
	if !errors.Is(err, inner) {
		t.Fatal("expected UnreachableError to unwrap to its cause")
	}
}

func TestAuthErrorCarriesDetail(t *testing.T) {
	err := Wrap(NewAuthError("login", "Incorrect username or password"), "login")
	if !IsUnauthorized(err) {
		t.Fatal("AuthError must match ErrUnauthorized")
	}
	if got := Reason(err, "Login failed. Please check your credentials."); got != "Incorrect username or password" {
		t.Errorf("Reason = %q", got)
	}
	if got := Reason(NewAuthError("me", ""), "fallback"); got != "fallback" {
		t.Errorf("Reason = %q, want fallback", got)
	}
}
