// Package diceware builds passphrases by rolling dice against a wordlist.
// All randomness comes from a cryptographically secure source.
package diceware

import (
	"errors"
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/zarlcorp/core/pkg/zcrypto"
	"github.com/zarlcorp/zphrase/internal/wordlist"
)

// DefaultWords is the word count used when none is configured.
const DefaultWords = 5

// sides of a die.
const sides = 6

// rejectAt is the largest multiple of six that fits in a byte. Bytes at or
// above it are redrawn so every face is equally likely.
const rejectAt = 256 - 256%sides

// ErrInvalidCount is returned for a negative word count.
var ErrInvalidCount = errors.New("word count must not be negative")

// Generator rolls dice keys and maps them to words.
type Generator struct {
	words *wordlist.Wordlist
	rand  io.Reader
}

// Option configures a Generator.
type Option func(*Generator)

// WithRand replaces the random source. Tests use it to fix the rolls.
func WithRand(r io.Reader) Option {
	return func(g *Generator) {
		g.rand = r
	}
}

// New creates a generator over the given wordlist.
func New(words *wordlist.Wordlist, opts ...Option) *Generator {
	g := &Generator{
		words: words,
		rand:  secureReader{},
	}
	for _, o := range opts {
		o(g)
	}
	return g
}

// Generate returns count words joined by delim. A zero count yields "".
func (g *Generator) Generate(count int, delim string) (string, error) {
	words, err := g.Words(count)
	if err != nil {
		return "", err
	}
	return strings.Join(words, delim), nil
}

// Words returns count words, one per dice key.
func (g *Generator) Words(count int) ([]string, error) {
	if count < 0 {
		return nil, fmt.Errorf("generate: %w: %d", ErrInvalidCount, count)
	}

	words := make([]string, 0, count)
	for range count {
		key, err := g.Roll()
		if err != nil {
			return nil, fmt.Errorf("generate: %w", err)
		}

		word, err := g.words.Lookup(key)
		if err != nil {
			return nil, fmt.Errorf("generate: %w", err)
		}
		words = append(words, word)
	}

	return words, nil
}

// Roll returns one dice key: five rolls in 1-6 as decimal digits.
func (g *Generator) Roll() (string, error) {
	var b strings.Builder
	b.Grow(wordlist.KeyLen)
	for range wordlist.KeyLen {
		n, err := g.die()
		if err != nil {
			return "", err
		}
		b.WriteByte(byte('0' + n))
	}
	return b.String(), nil
}

// Entropy returns the bits of entropy for count words drawn uniformly from
// a list of listSize entries.
func Entropy(count, listSize int) float64 {
	if count <= 0 || listSize <= 1 {
		return 0
	}
	return float64(count) * math.Log2(float64(listSize))
}

// Entropy returns the bits of entropy of a count-word passphrase from this
// generator's wordlist.
func (g *Generator) Entropy(count int) float64 {
	return Entropy(count, g.words.Len())
}

// die returns a uniform roll in [1, 6].
func (g *Generator) die() (int, error) {
	var buf [1]byte
	for {
		if _, err := io.ReadFull(g.rand, buf[:]); err != nil {
			return 0, fmt.Errorf("roll die: %w", err)
		}
		if int(buf[0]) < rejectAt {
			return int(buf[0])%sides + 1, nil
		}
	}
}

// secureReader reads from zcrypto's secure random source.
type secureReader struct{}

func (secureReader) Read(p []byte) (int, error) {
	b, err := zcrypto.RandBytes(len(p))
	if err != nil {
		return 0, err
	}
	n := copy(p, b)
	zcrypto.Erase(b)
	return n, nil
}
