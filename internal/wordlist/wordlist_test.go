package wordlist

import (
	"errors"
	"io/fs"
	"strings"
	"testing"

	"github.com/zarlcorp/core/pkg/zfilesystem"
)

func TestParse(t *testing.T) {
	input := "11111\ta\n22222 b\n\n  33333   c  \r\n"

	wl, err := Parse(strings.NewReader(input))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	if wl.Len() != 3 {
		t.Fatalf("len: got %d, want 3", wl.Len())
	}

	tests := []struct {
		key  string
		want string
	}{
		{"11111", "a"},
		{"22222", "b"},
		{"33333", "c"},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			got, err := wl.Lookup(tt.key)
			if err != nil {
				t.Fatalf("lookup: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestParseMalformed(t *testing.T) {
	tests := []struct {
		name  string
		input string
		line  string
	}{
		{"one field", "11111 a\n22222\n", "line 2"},
		{"three fields", "11111 a b\n", "line 1"},
		{"short key", "1111 a\n", "line 1"},
		{"long key", "111111 a\n", "line 1"},
		{"zero digit", "11110 a\n", "line 1"},
		{"seven digit", "11117 a\n", "line 1"},
		{"letter key", "1111a a\n", "line 1"},
		{"duplicate key", "11111 a\n\n11111 b\n", "line 3"},
		{"empty", "\n\n", "no entries"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(strings.NewReader(tt.input))
			if !errors.Is(err, ErrMalformed) {
				t.Fatalf("expected ErrMalformed, got %v", err)
			}
			if !strings.Contains(err.Error(), tt.line) {
				t.Errorf("error %q should mention %q", err, tt.line)
			}
		})
	}
}

func TestLookupMissingKey(t *testing.T) {
	wl, err := New(map[string]string{"11111": "a"})
	if err != nil {
		t.Fatalf("new: %v", err)
	}

	_, err = wl.Lookup("66666")
	if !errors.Is(err, ErrKeyNotFound) {
		t.Fatalf("expected ErrKeyNotFound, got %v", err)
	}
	if !strings.Contains(err.Error(), "66666") {
		t.Errorf("error should carry the key: %v", err)
	}
}

func TestNewRejectsInvalidKeys(t *testing.T) {
	tests := []struct {
		name string
		m    map[string]string
	}{
		{"bad key", map[string]string{"1234": "a"}},
		{"empty word", map[string]string{"12345": ""}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := New(tt.m); !errors.Is(err, ErrMalformed) {
				t.Errorf("expected ErrMalformed, got %v", err)
			}
		})
	}
}

func TestLoad(t *testing.T) {
	fsys := zfilesystem.NewMemFS()
	if err := fsys.WriteFile("diceware.txt", []byte("11111 a\n22222 b\n"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}

	wl, err := Load(fsys, "diceware.txt")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if wl.Len() != 2 {
		t.Errorf("len: got %d, want 2", wl.Len())
	}
	if w, err := wl.Lookup("22222"); err != nil || w != "b" {
		t.Errorf("lookup 22222: got %q, %v", w, err)
	}
	if wl.Complete() {
		t.Error("two entries should not be complete")
	}
}

func TestLoadMissingFile(t *testing.T) {
	fsys := zfilesystem.NewMemFS()

	_, err := Load(fsys, "nope.txt")
	if err == nil {
		t.Fatal("expected error for missing file")
	}
	if !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("expected not-exist error, got %v", err)
	}
}

func TestValidKey(t *testing.T) {
	tests := []struct {
		key  string
		want bool
	}{
		{"11111", true},
		{"66666", true},
		{"16243", true},
		{"", false},
		{"1111", false},
		{"01234", false},
		{"12347", false},
		{"١١١١١", false},
	}

	for _, tt := range tests {
		if got := ValidKey(tt.key); got != tt.want {
			t.Errorf("ValidKey(%q) = %v, want %v", tt.key, got, tt.want)
		}
	}
}
