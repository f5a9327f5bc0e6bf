package bar

import (
	"os"
	"strings"
)

// DefaultGitHead is the HEAD file looked up relative to the working directory.
const DefaultGitHead = ".git/HEAD"

// GitBranch reads a git HEAD file and returns the checked-out branch.
//
// "ref: refs/heads/feature/x" yields "x" (the last path segment). A detached HEAD yields
// the short commit hash. A missing, unreadable or empty file yields "".
func GitBranch(headFile string) string {
	if headFile == "" {
		headFile = DefaultGitHead
	}
	b, err := os.ReadFile(headFile)
	if err != nil {
		return ""
	}
	s := strings.TrimSpace(string(b))
	if s == "" {
		return ""
	}
	if i := strings.LastIndexByte(s, '/'); i >= 0 {
		return strings.TrimSpace(s[i+1:])
	}
	s = strings.TrimPrefix(s, "ref: ")
	if isHex(s) && len(s) > 7 {
		return s[:7]
	}
	return s
}

func isHex(s string) bool {
	for _, c := range s {
		if !(c >= '0' && c <= '9' || c >= 'a' && c <= 'f' || c >= 'A' && c <= 'F') {
			return false
		}
	}
	return s != ""
}
