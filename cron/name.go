package cron

import (
	"errors"
	"strings"
)

func normalizeName(name string) string {
	return strings.TrimSpace(name)
}

func validateName(name string) error {
	if name == "" {
		return errors.New("empty")
	}
	// Keep it stable and ops/admin-friendly.
	for i := 0; i < len(name); i++ {
		c := name[i]
		switch {
		case c >= 'a' && c <= 'z':
		case c >= 'A' && c <= 'Z':
		case c >= '0' && c <= '9':
		case c == '.' || c == '_' || c == '-':
		default:
			if strings.ContainsRune(" \t\r\n", rune(c)) {
				return errors.New("contains whitespace (not allowed)")
			}
			return errors.New("contains invalid char (allowed: [A-Za-z0-9._-])")
		}
	}
	return nil
}
