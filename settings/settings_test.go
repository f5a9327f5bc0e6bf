package settings

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestSettings_Validate(t *testing.T) {
	cases := []struct {
		name    string
		s       Settings
		wantErr bool
		field   string
	}{
		{name: "default", s: Default()},
		{name: "float bottom right text", s: Settings{Float: true, Position: BottomRight, Appearance: Text}},
		{name: "bad position", s: Settings{Position: "middle", Appearance: Both}, wantErr: true, field: "position"},
		{name: "bad appearance", s: Settings{Position: TopLeft, Appearance: "huge"}, wantErr: true, field: "appearance"},
		{name: "zero value", s: Settings{}, wantErr: true, field: "position"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.s.Validate()
			if !tc.wantErr {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, ErrInvalid) {
				t.Fatalf("expected ErrInvalid, got %v", err)
			}
			var fe *FieldErrors
			if !errors.As(err, &fe) || !fe.Has(tc.field) {
				t.Fatalf("expected field %q to be rejected, got %v", tc.field, err)
			}
		})
	}
}

func TestPosition_IsLeft(t *testing.T) {
	for p, want := range map[Position]bool{TopLeft: true, BottomLeft: true, TopRight: false, BottomRight: false} {
		if p.IsLeft() != want {
			t.Fatalf("%s: IsLeft=%v", p, !want)
		}
	}
}

func TestMemoryStore(t *testing.T) {
	var m MemoryStore
	if _, ok, _ := m.Load(); ok {
		t.Fatalf("zero MemoryStore must be empty")
	}
	want := Settings{Float: true, Position: TopLeft, Appearance: Icons}
	if err := m.Save(want); err != nil {
		t.Fatal(err)
	}
	got, ok, err := m.Load()
	if err != nil || !ok || got != want {
		t.Fatalf("got %+v ok=%v err=%v", got, ok, err)
	}
	if err := m.Save(Settings{Position: "nowhere"}); !errors.Is(err, ErrInvalid) {
		t.Fatalf("expected ErrInvalid, got %v", err)
	}
	m.Clear()
	if _, ok, _ := m.Load(); ok {
		t.Fatalf("expected empty store after Clear")
	}
}

func TestFileStore_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "debug_bar.toml")
	fs := NewFileStore(path)

	if _, ok, err := fs.Load(); ok || err != nil {
		t.Fatalf("missing file: ok=%v err=%v", ok, err)
	}

	want := Settings{Float: true, Position: TopLeft, Appearance: Icons}
	if err := fs.Save(want); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, ok, err := NewFileStore(path).Load()
	if err != nil || !ok {
		t.Fatalf("Load: ok=%v err=%v", ok, err)
	}
	if got != want {
		t.Fatalf("got %+v want %+v", got, want)
	}

	entries, err := os.ReadDir(filepath.Dir(path))
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected only the settings file, found %d entries", len(entries))
	}

	if err := fs.Clear(); err != nil {
		t.Fatal(err)
	}
	if _, ok, _ := fs.Load(); ok {
		t.Fatalf("expected empty store after Clear")
	}
}

func TestFileStore_PartialFileUsesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "s.toml")
	if err := os.WriteFile(path, []byte("float = true\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	got, ok, err := NewFileStore(path).Load()
	if err != nil || !ok {
		t.Fatalf("ok=%v err=%v", ok, err)
	}
	want := Settings{Float: true, Position: TopLeft, Appearance: Both}
	if got != want {
		t.Fatalf("got %+v want %+v", got, want)
	}
}

func TestFileStore_RejectsInvalidFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "s.toml")
	if err := os.WriteFile(path, []byte("position = \"center\"\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, _, err := NewFileStore(path).Load(); !errors.Is(err, ErrInvalid) {
		t.Fatalf("expected ErrInvalid, got %v", err)
	}
}
