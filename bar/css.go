package bar

import (
	"strings"
	"unicode"
)

// CleanCSSIdentifier turns s into a string usable as a CSS class or id.
//
// Spaces, underscores, slashes and brackets become dashes, "__" is kept (BEM), and any
// character outside [-_a-zA-Z0-9] and the non-ASCII letters allowed in identifiers is
// dropped. A leading digit, or dash followed by a digit or dash, gets an underscore prefix.
func CleanCSSIdentifier(s string) string {
	s = strings.ReplaceAll(s, "__", "\x00")
	s = strings.NewReplacer(" ", "-", "_", "-", "/", "-", "[", "-", "]", "").Replace(s)
	s = strings.ReplaceAll(s, "\x00", "__")

	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch {
		case r == '-' || r == '_',
			r >= '0' && r <= '9',
			r >= 'a' && r <= 'z',
			r >= 'A' && r <= 'Z',
			r >= 0xA1 && unicode.IsPrint(r):
			b.WriteRune(r)
		}
	}
	out := b.String()

	if out != "" && out[0] >= '0' && out[0] <= '9' {
		out = "_" + out
	}
	if len(out) > 1 && out[0] == '-' && (out[1] == '-' || (out[1] >= '0' && out[1] <= '9')) {
		out = "_" + out
	}
	return out
}
