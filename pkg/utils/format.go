// Package utils provides shared utility functions.
package utils

import (
	"fmt"
	"math"
	"strings"
	"unicode/utf8"
)

// TruncateString shortens s to at most maxLen runes, ending with an ellipsis
// when anything was cut.
func TruncateString(s string, maxLen int) string {
	if maxLen <= 0 {
		return ""
	}
	if utf8.RuneCountInString(s) <= maxLen {
		return s
	}
	r := []rune(s)
	if maxLen <= 3 {
		return string(r[:maxLen])
	}
	return string(r[:maxLen-3]) + "..."
}

// PadRight pads s with spaces to length runes.
func PadRight(s string, length int) string {
	n := utf8.RuneCountInString(s)
	if n >= length {
		return s
	}
	return s + strings.Repeat(" ", length-n)
}

// FormatScore formats an optional sentiment score with an explicit sign.
func FormatScore(score *float64) string {
	if score == nil {
		return "-"
	}
	return fmt.Sprintf("%+.2f", *score)
}

// FormatConfidence formats an optional 0..1 confidence as a rounded percent.
func FormatConfidence(score *float64) string {
	if score == nil {
		return "-"
	}
	return fmt.Sprintf("%d%%", int(math.Round(*score*100)))
}

// Plural returns "1 source" or "3 sources".
func Plural(n int, word string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, word)
	}
	return fmt.Sprintf("%d %ss", n, word)
}
