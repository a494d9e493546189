package security

import (
	"regexp"
	"strings"
	"unicode/utf8"

	apperrors "tickerdash/internal/errors"
)

// MinPasswordLength mirrors the backend's registration schema.
const MinPasswordLength = 8

var (
	// Symbols as the backend's market data source spells them: AAPL, BRK.B, BTC-USD, ^GSPC, EURUSD=X.
	symbolPattern = regexp.MustCompile(`^[A-Z0-9.\-^=&]{1,20}$`)

	emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)
)

// ValidateSymbol normalizes and validates a ticker symbol, returning the
// normalized form.
func ValidateSymbol(symbol string) (string, error) {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))

	if symbol == "" {
		return "", apperrors.NewValidationError("symbol", symbol, "Please enter a ticker symbol")
	}
	if len(symbol) > 20 {
		return "", apperrors.NewValidationError("symbol", symbol, "Ticker symbol is too long (max 20 characters)")
	}
	if !symbolPattern.MatchString(symbol) {
		return "", apperrors.NewValidationError("symbol", symbol, "Ticker symbol contains invalid characters")
	}
	return symbol, nil
}

// ValidateEmail validates an email address shape.
func ValidateEmail(email string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return apperrors.NewValidationError("email", email, "Please enter an email address")
	}
	if !emailPattern.MatchString(email) {
		return apperrors.NewValidationError("email", email, "Please enter a valid email address")
	}
	return nil
}

// ValidateUsername validates a username.
func ValidateUsername(username string) error {
	if strings.TrimSpace(username) == "" {
		return apperrors.NewValidationError("username", username, "Please enter a username")
	}
	return nil
}

// ValidatePassword validates a registration password.
func ValidatePassword(password string) error {
	if utf8.RuneCountInString(password) < MinPasswordLength {
		return apperrors.NewValidationError("password", "***", "Password must be at least 8 characters")
	}
	return nil
}
