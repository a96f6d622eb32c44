// Package report renders the outcome of a generate or check run.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/nbutton23/zxcvbn-go"
	"github.com/zarlcorp/core/pkg/zfilesystem"
)

// DefaultName is the report file written when none is configured.
const DefaultName = "report.txt"

// Strength is a zxcvbn estimate of how hard a passphrase is to guess.
type Strength struct {
	Score     int     `json:"score"`
	Entropy   float64 `json:"entropy_bits"`
	CrackTime string  `json:"crack_time"`
}

// Report summarizes a generated passphrase and its breach check.
type Report struct {
	Passphrase  string    `json:"passphrase,omitempty"`
	Words       int       `json:"words,omitempty"`
	Entropy     float64   `json:"entropy_bits,omitempty"`
	Strength    *Strength `json:"strength,omitempty"`
	Candidate   string    `json:"candidate,omitempty"`
	Checked     bool      `json:"checked"`
	Occurrences int       `json:"occurrences"`
	CreatedAt   time.Time `json:"created_at"`
}

// Estimate runs zxcvbn over a passphrase.
func Estimate(passphrase string) Strength {
	m := zxcvbn.PasswordStrength(passphrase, nil)
	return Strength{
		Score:     m.Score,
		Entropy:   m.Entropy,
		CrackTime: m.CrackTimeDisplay,
	}
}

// Generated builds a report for a freshly generated passphrase.
func Generated(passphrase string, words int, entropy float64) Report {
	s := Estimate(passphrase)
	return Report{
		Passphrase: passphrase,
		Words:      words,
		Entropy:    entropy,
		Strength:   &s,
		Candidate:  passphrase,
		CreatedAt:  time.Now(),
	}
}

// Checked builds a report for a candidate looked up on its own. label is
// what gets printed in place of the candidate.
func Checked(label string, occurrences int) Report {
	return Report{
		Candidate:   label,
		Checked:     true,
		Occurrences: occurrences,
		CreatedAt:   time.Now(),
	}
}

// WithOccurrences records a breach check result.
func (r Report) WithOccurrences(n int) Report {
	r.Checked = true
	r.Occurrences = n
	return r
}

// FoundLine is the breach summary sentence.
func (r Report) FoundLine() string {
	return fmt.Sprintf("'%s' was found %d times elsewhere", r.Candidate, r.Occurrences)
}

// Text renders the report as plain text.
func (r Report) Text() string {
	var b strings.Builder

	if r.Passphrase != "" {
		fmt.Fprintf(&b, "Your new passphrase: %s\n", r.Passphrase)
		if r.Entropy > 0 {
			fmt.Fprintf(&b, "Entropy: %.1f bits (%d words)\n", r.Entropy, r.Words)
		}
		if r.Strength != nil {
			fmt.Fprintf(&b, "Strength: %d/4, crack time %s\n", r.Strength.Score, r.Strength.CrackTime)
		}
	}

	if r.Checked {
		b.WriteString(r.FoundLine())
		b.WriteString("\n")
	}

	return b.String()
}

// WriteJSON encodes the report as indented JSON.
func (r Report) WriteJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(r); err != nil {
		return fmt.Errorf("encode report: %w", err)
	}
	return nil
}

// Save writes the text report to name on fsys.
func Save(fsys zfilesystem.ReadWriteFileFS, name string, r Report) error {
	if err := fsys.WriteFile(name, []byte(r.Text()), 0o600); err != nil {
		return fmt.Errorf("save report %s: %w", name, err)
	}
	return nil
}
