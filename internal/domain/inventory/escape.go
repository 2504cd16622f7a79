package inventory

import "strings"

// escapePrefix is the neutral character spreadsheet tools treat as
// "render the rest literally".
const escapePrefix = "'"

// formulaTriggers are the leading characters spreadsheet tools interpret as
// the start of a formula.
const formulaTriggers = "=+-@"

// EscapeCell neutralizes a cell value that would otherwise be interpreted as
// a formula by downstream spreadsheet tools.
func EscapeCell(s string) string {
	if s == "" {
		return s
	}
	if strings.ContainsRune(formulaTriggers, rune(s[0])) {
		return escapePrefix + s
	}
	return s
}

// UnescapeCell strips the neutral prefix added by EscapeCell, restoring the
// original value. Values that were never escaped pass through unchanged.
func UnescapeCell(s string) string {
	if rest, ok := strings.CutPrefix(s, escapePrefix); ok {
		if rest != "" && strings.ContainsRune(formulaTriggers, rune(rest[0])) {
			return rest
		}
	}
	return s
}
