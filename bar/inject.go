package bar

var bodyClose = []byte("</body>")

// Inject inserts fragment right before the last </body> (ASCII case-insensitive).
//
// It reports false, and returns body unchanged, when there is no </body>.
func Inject(body, fragment []byte) ([]byte, bool) {
	i := lastIndexFold(body, bodyClose)
	if i < 0 {
		return body, false
	}
	out := make([]byte, 0, len(body)+len(fragment))
	out = append(out, body[:i]...)
	out = append(out, fragment...)
	out = append(out, body[i:]...)
	return out, true
}

// lastIndexFold is bytes.LastIndex with ASCII case folding. sep must be lower case.
func lastIndexFold(s, sep []byte) int {
	for i := len(s) - len(sep); i >= 0; i-- {
		if equalFoldASCII(s[i:i+len(sep)], sep) {
			return i
		}
	}
	return -1
}

func equalFoldASCII(a, lower []byte) bool {
	for i := range a {
		c := a[i]
		if 'A' <= c && c <= 'Z' {
			c += 'a' - 'A'
		}
		if c != lower[i] {
			return false
		}
	}
	return true
}
