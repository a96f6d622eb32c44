package pwned

import (
	"context"
	"errors"
	"testing"
)

// "password" hashes to 5BAA61E4C9B93F3F0682250B6CF8331B7EE68FD8.
const (
	passwordPrefix = "5BAA6"
	passwordSuffix = "1E4C9B93F3F0682250B6CF8331B7EE68FD8"
)

// stubLookup returns a canned body and records the prefixes it was asked for.
type stubLookup struct {
	body     string
	err      error
	prefixes []string
}

func (s *stubLookup) Range(_ context.Context, prefix string) (string, error) {
	s.prefixes = append(s.prefixes, prefix)
	return s.body, s.err
}

func TestHash(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"password", passwordPrefix + passwordSuffix},
		{"abc", "A9993E364706816ABA3E25717850C26C9CD0D89D"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := Hash(tt.in); got != tt.want {
				t.Errorf("Hash(%q) = %s, want %s", tt.in, got, tt.want)
			}
		})
	}
}

func TestHashUTF8(t *testing.T) {
	got := Hash("pässwörd")
	if len(got) != 40 {
		t.Fatalf("len: got %d, want 40", len(got))
	}
	for _, c := range got {
		if (c < '0' || c > '9') && (c < 'A' || c > 'F') {
			t.Fatalf("non upper hex char %q in %s", c, got)
		}
	}
	if got == Hash("passwort") {
		t.Error("distinct inputs should hash differently")
	}
}

func TestSplit(t *testing.T) {
	prefix, suffix := Split(Hash("password"))
	if prefix != passwordPrefix {
		t.Errorf("prefix: got %s, want %s", prefix, passwordPrefix)
	}
	if suffix != passwordSuffix {
		t.Errorf("suffix: got %s, want %s", suffix, passwordSuffix)
	}
	if len(prefix) != PrefixLen || len(suffix) != SuffixLen {
		t.Errorf("lengths: got %d/%d", len(prefix), len(suffix))
	}
}

func TestOccurrences(t *testing.T) {
	tests := []struct {
		name string
		body string
		want int
	}{
		{"single match", passwordSuffix + ":22\n", 22},
		{"match among others", "0018A45C4D1DEF81644B54AB7F969B88D65:1\r\n" + passwordSuffix + ":3861493\r\n00D4F6E8FA6EECAD2A3AA415EEC418D38EC:2", 3861493},
		{"no match", "0018A45C4D1DEF81644B54AB7F969B88D65:1\n", 0},
		{"empty body", "", 0},
		{"lowercase suffix does not match", "1e4c9b93f3f0682250b6cf8331b7ee68fd8:5\n", 0},
		{"malformed lines skipped", "garbage\n:::\n" + passwordSuffix + ":7\n", 7},
		{"padding entry", passwordSuffix + ":0\n", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stub := &stubLookup{body: tt.body}
			c := NewChecker(stub)

			got, err := c.Occurrences(context.Background(), "password")
			if err != nil {
				t.Fatalf("occurrences: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %d, want %d", got, tt.want)
			}
			if len(stub.prefixes) != 1 || stub.prefixes[0] != passwordPrefix {
				t.Errorf("prefixes: got %v, want [%s]", stub.prefixes, passwordPrefix)
			}
		})
	}
}

func TestOccurrencesEmptyCandidate(t *testing.T) {
	stub := &stubLookup{body: passwordSuffix + ":22\n"}
	c := NewChecker(stub)

	_, err := c.Occurrences(context.Background(), "")
	if !errors.Is(err, ErrEmptyCandidate) {
		t.Fatalf("expected ErrEmptyCandidate, got %v", err)
	}
	if len(stub.prefixes) != 0 {
		t.Errorf("lookup should not be called, got %v", stub.prefixes)
	}
}

func TestOccurrencesLookupError(t *testing.T) {
	want := &StatusError{URL: "https://example.test/range/5BAA6", StatusCode: 503, Body: "busy"}
	c := NewChecker(&stubLookup{err: want})

	_, err := c.Occurrences(context.Background(), "password")

	var se *StatusError
	if !errors.As(err, &se) {
		t.Fatalf("expected *StatusError, got %v", err)
	}
	if se.StatusCode != 503 {
		t.Errorf("status: got %d", se.StatusCode)
	}
}

func TestOccurrencesBadCount(t *testing.T) {
	c := NewChecker(&stubLookup{body: passwordSuffix + ":lots\n"})

	_, err := c.Occurrences(context.Background(), "password")
	if !errors.Is(err, ErrMalformedResponse) {
		t.Fatalf("expected ErrMalformedResponse, got %v", err)
	}
}

func TestParseRange(t *testing.T) {
	body := "AAA:1\nBBB:2\r\nno-colon\nCCC:3:4\n\nDDD: 5 \n"

	records, err := ParseRange(body)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	want := []Record{
		{Suffix: "AAA", Count: 1},
		{Suffix: "BBB", Count: 2},
		{Suffix: "DDD", Count: 5},
	}
	if len(records) != len(want) {
		t.Fatalf("count: got %d, want %d (%v)", len(records), len(want), records)
	}
	for i := range want {
		if records[i] != want[i] {
			t.Errorf("records[%d]: got %+v, want %+v", i, records[i], want[i])
		}
	}
}
