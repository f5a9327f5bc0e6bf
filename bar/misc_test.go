package bar

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestGitBranch(t *testing.T) {
	dir := t.TempDir()
	write := func(name, content string) string {
		p := filepath.Join(dir, name)
		if err := os.WriteFile(p, []byte(content), 0o600); err != nil {
			t.Fatal(err)
		}
		return p
	}
	cases := []struct {
		name, content, want string
	}{
		{"main", "ref: refs/heads/main\n", "main"},
		{"nested", "ref: refs/heads/feature/login-form\n", "login-form"},
		{"detached", "3f786850e387550fdab836ed7e6dc881de23001b\n", "3f78685"},
		{"empty", "  \n", ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := GitBranch(write(tc.name, tc.content)); got != tc.want {
				t.Fatalf("got %q want %q", got, tc.want)
			}
		})
	}
	if got := GitBranch(filepath.Join(dir, "absent")); got != "" {
		t.Fatalf("missing file: %q", got)
	}
}

func TestFormatInterval(t *testing.T) {
	env := &Env{}
	cases := []struct {
		d    time.Duration
		want string
	}{
		{0, "0 sec"},
		{time.Second, "1 sec"},
		{59 * time.Second, "59 sec"},
		{time.Hour, "1 hour"},
		{2*time.Hour + 5*time.Minute + 9*time.Second, "2 hours 5 min"},
		{24*time.Hour + 10*time.Second, "1 day"},
		{8 * 24 * time.Hour, "1 week 1 day"},
		{-time.Minute, "0 sec"},
	}
	for _, tc := range cases {
		if got := env.FormatInterval(tc.d, 2); got != tc.want {
			t.Fatalf("%v: got %q want %q", tc.d, got, tc.want)
		}
	}
}

func TestNewPrinter(t *testing.T) {
	de := &Env{Printer: NewPrinter("de-DE,de;q=0.9,en;q=0.5")}
	if got := de.T("Home"); got != "Startseite" {
		t.Fatalf("german Home: %q", got)
	}
	if got := de.FormatInterval(2*time.Hour, 2); got != "2 Stunden" {
		t.Fatalf("german interval: %q", got)
	}

	for _, accept := range []string{"", "fr-FR", "en-US", "not a tag"} {
		en := &Env{Printer: NewPrinter(accept)}
		if got := en.T("Home"); got != "Home" {
			t.Fatalf("%q: %q", accept, got)
		}
	}
}
