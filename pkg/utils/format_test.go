package utils

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

// For any string and limit, TruncateString never exceeds the limit and
// leaves strings that already fit untouched.
func TestProperty_TruncateString(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	properties.Property("result fits and preserves short input", prop.ForAll(
		func(s string, max int) bool {
			out := TruncateString(s, max)
			if utf8.RuneCountInString(out) > max {
				t.Logf("TruncateString(%q, %d) = %q", s, max, out)
				return false
			}
			if utf8.RuneCountInString(s) <= max {
				return out == s
			}
			if max > 3 {
				return strings.HasSuffix(out, "...")
			}
			return true
		},
		gen.AnyString(),
		gen.IntRange(0, 40),
	))

	properties.TestingRun(t)
}

func TestFormatters(t *testing.T) {
	v := 0.876
	neg := -0.25
	cases := []struct{ got, want string }{
		{FormatConfidence(&v), "88%"},
		{FormatConfidence(nil), "-"},
		{FormatScore(&neg), "-0.25"},
		{FormatScore(&v), "+0.88"},
		{Plural(1, "source"), "1 source"},
		{Plural(3, "source"), "3 sources"},
		{PadRight("ab", 4), "ab  "},
		{PadRight("abcdef", 4), "abcdef"},
		{TruncateString("é", 1), "é"},
	}
	for _, c := range cases {
		if c.got != c.want {
			t.Errorf("got %q, want %q", c.got, c.want)
		}
	}
}
