// Package security provides credential masking and input validation.
package security

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/rs/zerolog"
)

// secretKeys are log field names whose values are always masked whole.
var secretKeys = map[string]struct{}{
	"password":      {},
	"token":         {},
	"access_token":  {},
	"authorization": {},
	"bearer":        {},
	"secret":        {},
}

// Each pattern captures the secret as its last group.
var (
	assignedSecret = regexp.MustCompile(`(?i)\b(access[_-]?token|password)([=:\s]+["']?)([^\s"'&]+)`)
	bearerSecret   = regexp.MustCompile(`(?i)\b(bearer)(\s+)([A-Za-z0-9._~+/=-]+)`)
	bareJWT        = regexp.MustCompile(`()()\beyJ[A-Za-z0-9_-]+\.[A-Za-z0-9_-]+\.[A-Za-z0-9_-]+`)
)

// SafeLogger logs auth events with tokens and passwords masked.
type SafeLogger struct {
	logger zerolog.Logger
}

// NewSafeLogger wraps logger.
func NewSafeLogger(logger zerolog.Logger) *SafeLogger {
	return &SafeLogger{logger: logger}
}

func (sl *SafeLogger) Info() *SafeEvent  { return sl.event(zerolog.InfoLevel) }
func (sl *SafeLogger) Warn() *SafeEvent  { return sl.event(zerolog.WarnLevel) }
func (sl *SafeLogger) Error() *SafeEvent { return sl.event(zerolog.ErrorLevel) }

func (sl *SafeLogger) event(level zerolog.Level) *SafeEvent {
	return &SafeEvent{e: sl.logger.WithLevel(level)}
}

// SafeEvent is a zerolog event that only accepts masked values.
type SafeEvent struct {
	e *zerolog.Event
}

// Str adds a field. Values of secret keys are masked whole, other values
// have embedded secrets masked.
func (se *SafeEvent) Str(key, val string) *SafeEvent {
	if _, secret := secretKeys[strings.ToLower(key)]; secret {
		val = MaskCredential(val)
	} else {
		val = MaskSensitive(val)
	}
	se.e = se.e.Str(key, val)
	return se
}

// Err adds err with any embedded secrets masked.
func (se *SafeEvent) Err(err error) *SafeEvent {
	if err != nil {
		se.e = se.e.AnErr(zerolog.ErrorFieldName, errors.New(MaskSensitive(err.Error())))
	}
	return se
}

// Msg sends the event.
func (se *SafeEvent) Msg(msg string) {
	se.e.Msg(MaskSensitive(msg))
}

// Msgf sends the event with a formatted message.
func (se *SafeEvent) Msgf(format string, args ...interface{}) {
	se.Msg(fmt.Sprintf(format, args...))
}

// MaskSensitive masks bearer tokens, JWTs and password or token
// assignments embedded in free text.
func MaskSensitive(input string) string {
	for _, re := range []*regexp.Regexp{assignedSecret, bearerSecret, bareJWT} {
		input = re.ReplaceAllStringFunc(input, func(match string) string {
			groups := re.FindStringSubmatch(match)
			prefix := groups[1] + groups[2]
			return prefix + MaskCredential(match[len(prefix):])
		})
	}
	return input
}

// MaskCredential keeps at most the first and last four characters of a
// secret. Short values are starred out entirely.
func MaskCredential(value string) string {
	n := len(value)
	switch {
	case n <= 4:
		return strings.Repeat("*", n)
	case n <= 8:
		return value[:2] + strings.Repeat("*", n-2)
	}
	var b strings.Builder
	b.Grow(n)
	b.WriteString(value[:4])
	b.WriteString(strings.Repeat("*", n-8))
	b.WriteString(value[n-4:])
	return b.String()
}
