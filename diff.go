package worldtest

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/goccy/go-json"
	"github.com/wI2L/jsondiff"
)

// maxDumpLen caps the rendered size of a single value in a failure message so a huge result
// set doesn't drown the interesting part.
const maxDumpLen = 300

// dump renders a value as indented JSON, truncated to maxDumpLen.
func dump(v any) string {
	if v == nil {
		return "<none>"
	}
	bz, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Sprintf("%+v", v)
	}
	s := string(bz)
	if len(s) > maxDumpLen {
		// Back up to a rune boundary so the cut never produces invalid UTF-8.
		cut := maxDumpLen
		for cut > 0 && !utf8.RuneStart(s[cut]) {
			cut--
		}
		s = s[:cut] + " ..."
	}
	return s
}

// diffDetail renders an RFC 6902 patch describing how the actual rows differ from the expected
// ones. Returns an empty string when the diff cannot be computed; the raw dumps are still
// printed by the caller.
func diffDetail(actual, expected any) string {
	actualJSON, err := json.Marshal(actual)
	if err != nil {
		return ""
	}
	expectedJSON, err := json.Marshal(expected)
	if err != nil {
		return ""
	}

	patch, err := jsondiff.CompareJSON(actualJSON, expectedJSON)
	if err != nil || len(patch) == 0 {
		return ""
	}
	return "\ndiff (actual -> expected):\n" + patch.String()
}

// mismatch fails the test with the actual and expected values of a failed check.
func (c *QueryCheck[T]) mismatch(message string, actual, expected any) {
	c.tb.Helper()

	var b strings.Builder
	b.WriteString(message)
	b.WriteString("\nactual: ")
	b.WriteString(dump(actual))
	b.WriteString("\nexpected: ")
	b.WriteString(dump(expected))
	c.tb.Fatalf("query assertion failed: %s", b.String())
}

// unexpectedMatch fails the test when an inverted check matched anyway.
func (c *QueryCheck[T]) unexpectedMatch(message string, matched any) {
	c.tb.Helper()
	c.tb.Fatalf("query assertion failed: %s\nmatched: %s", message, dump(matched))
}
