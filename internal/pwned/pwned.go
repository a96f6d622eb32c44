// Package pwned checks candidate passwords against the Pwned Passwords
// corpus using the k-anonymity range protocol: only the first five hex
// characters of the SHA-1 hash ever leave the process.
package pwned

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/zarlcorp/core/pkg/zcrypto"
)

const (
	// PrefixLen is the number of hash characters sent to the range API.
	PrefixLen = 5

	// SuffixLen is the number of hash characters matched locally.
	SuffixLen = 35
)

var (
	// ErrEmptyCandidate is returned before any lookup when the candidate is empty.
	ErrEmptyCandidate = errors.New("candidate must not be empty")

	// ErrMalformedResponse is returned when a range line carries a bad count.
	ErrMalformedResponse = errors.New("malformed range response")
)

// Record is one hash suffix and the number of times it appears in breaches.
type Record struct {
	Suffix string
	Count  int
}

// RangeLookup returns the raw range body for a five character hash prefix.
type RangeLookup interface {
	Range(ctx context.Context, prefix string) (string, error)
}

// Checker counts breach occurrences of candidates.
type Checker struct {
	lookup RangeLookup
}

// NewChecker creates a checker backed by the given range lookup.
func NewChecker(lookup RangeLookup) *Checker {
	return &Checker{lookup: lookup}
}

// Occurrences returns how many times candidate appears in the breach corpus,
// or 0 if it does not appear.
func (c *Checker) Occurrences(ctx context.Context, candidate string) (int, error) {
	if candidate == "" {
		return 0, fmt.Errorf("occurrences: %w", ErrEmptyCandidate)
	}

	prefix, suffix := Split(Hash(candidate))

	body, err := c.lookup.Range(ctx, prefix)
	if err != nil {
		return 0, fmt.Errorf("occurrences: %w", err)
	}

	records, err := ParseRange(body)
	if err != nil {
		return 0, fmt.Errorf("occurrences: %w", err)
	}

	for _, r := range records {
		if r.Suffix == suffix {
			return r.Count, nil
		}
	}

	return 0, nil
}

// Hash returns the SHA-1 of candidate as 40 uppercase hex characters.
func Hash(candidate string) string {
	b := []byte(candidate)
	sum := sha1.Sum(b)
	zcrypto.Erase(b)
	return strings.ToUpper(hex.EncodeToString(sum[:]))
}

// Split divides a full hash into the range prefix and the local suffix.
func Split(hash string) (prefix, suffix string) {
	return hash[:PrefixLen], hash[PrefixLen:]
}

// ParseRange parses SUFFIX:COUNT lines. Lines without exactly two fields
// are skipped.
func ParseRange(body string) ([]Record, error) {
	var records []Record

	for i, line := range strings.Split(body, "\n") {
		parts := strings.Split(strings.TrimRight(line, " \t\r"), ":")
		if len(parts) != 2 {
			continue
		}

		count, err := strconv.Atoi(strings.TrimSpace(parts[1]))
		if err != nil || count < 0 {
			return nil, fmt.Errorf("%w: line %d: count %q", ErrMalformedResponse, i+1, parts[1])
		}

		records = append(records, Record{Suffix: parts[0], Count: count})
	}

	return records, nil
}
