// Package wordlist parses Diceware wordlists keyed by five dice rolls.
package wordlist

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
)

// KeyLen is the number of dice rolled per word.
const KeyLen = 5

// faces are the valid characters of a dice key.
const faces = "123456"

var (
	// ErrMalformed is returned when a wordlist line cannot be parsed.
	ErrMalformed = errors.New("malformed wordlist")

	// ErrKeyNotFound is returned when a dice key has no word.
	ErrKeyNotFound = errors.New("dice key not in wordlist")
)

// FileReader is the read side of a zfilesystem filesystem.
type FileReader interface {
	ReadFile(name string) ([]byte, error)
}

// Wordlist maps dice keys to words. It is immutable after parsing.
type Wordlist struct {
	words map[string]string
}

// New builds a wordlist from an existing mapping. Every key is validated.
func New(m map[string]string) (*Wordlist, error) {
	words := make(map[string]string, len(m))
	for k, w := range m {
		if !ValidKey(k) {
			return nil, fmt.Errorf("%w: invalid key %q", ErrMalformed, k)
		}
		if w == "" {
			return nil, fmt.Errorf("%w: empty word for key %s", ErrMalformed, k)
		}
		words[k] = w
	}
	return &Wordlist{words: words}, nil
}

// Parse reads KEY<whitespace>WORD lines. Blank lines are skipped.
func Parse(r io.Reader) (*Wordlist, error) {
	words := make(map[string]string)

	sc := bufio.NewScanner(r)
	line := 0
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if text == "" {
			continue
		}

		fields := strings.Fields(text)
		if len(fields) != 2 {
			return nil, fmt.Errorf("%w: line %d: want 2 fields, got %d", ErrMalformed, line, len(fields))
		}

		key, word := fields[0], fields[1]
		if !ValidKey(key) {
			return nil, fmt.Errorf("%w: line %d: invalid key %q", ErrMalformed, line, key)
		}
		if _, dup := words[key]; dup {
			return nil, fmt.Errorf("%w: line %d: duplicate key %s", ErrMalformed, line, key)
		}
		words[key] = word
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read wordlist: %w", err)
	}

	if len(words) == 0 {
		return nil, fmt.Errorf("%w: no entries", ErrMalformed)
	}

	return &Wordlist{words: words}, nil
}

// Load reads and parses the named wordlist file from fsys.
func Load(fsys FileReader, name string) (*Wordlist, error) {
	data, err := fsys.ReadFile(name)
	if err != nil {
		return nil, fmt.Errorf("load wordlist %s: %w", name, err)
	}

	wl, err := Parse(strings.NewReader(string(data)))
	if err != nil {
		return nil, fmt.Errorf("load wordlist %s: %w", name, err)
	}

	return wl, nil
}

// Lookup returns the word for a dice key.
func (w *Wordlist) Lookup(key string) (string, error) {
	word, ok := w.words[key]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrKeyNotFound, key)
	}
	return word, nil
}

// Len returns the number of entries.
func (w *Wordlist) Len() int {
	return len(w.words)
}

// Complete reports whether every one of the 6^5 dice keys has a word.
func (w *Wordlist) Complete() bool {
	return len(w.words) == 7776
}

// ValidKey reports whether key is five characters over 1-6.
func ValidKey(key string) bool {
	if len(key) != KeyLen {
		return false
	}
	for i := 0; i < len(key); i++ {
		if strings.IndexByte(faces, key[i]) < 0 {
			return false
		}
	}
	return true
}
