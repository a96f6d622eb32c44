// Package cli implements zphrase's command-line subcommands.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"syscall"

	"github.com/zarlcorp/core/pkg/zcrypto"
	"github.com/zarlcorp/core/pkg/zfilesystem"
	"github.com/zarlcorp/zphrase/internal/config"
	"github.com/zarlcorp/zphrase/internal/diceware"
	"github.com/zarlcorp/zphrase/internal/pwned"
	"github.com/zarlcorp/zphrase/internal/report"
	"github.com/zarlcorp/zphrase/internal/wordlist"
	"golang.org/x/term"
)

// hiddenLabel replaces a candidate typed at the prompt in printed output.
const hiddenLabel = "(hidden)"

var (
	// ErrWordCount is returned when a generate run asks for fewer than one word.
	ErrWordCount = errors.New("word count must be at least 1")

	// ErrUnknownFlag is returned for a dash argument a subcommand does not take.
	ErrUnknownFlag = errors.New("unknown flag")
)

var (
	generateFlags = []string{"-n", "-d", "--check", "--json", "--save"}
	checkFlags    = []string{"--json", "--save"}
)

// App runs subcommands against a loaded configuration.
type App struct {
	cfg     *config.Config
	out     io.Writer
	errOut  io.Writer
	log     *slog.Logger
	fsys    zfilesystem.ReadWriteFileFS
	lookup  pwned.RangeLookup
	prompt  func(prompt string) (string, error)
	genOpts []diceware.Option
}

// Option configures an App.
type Option func(*App)

// WithOutput redirects stdout and stderr.
func WithOutput(out, errOut io.Writer) Option {
	return func(a *App) {
		a.out = out
		a.errOut = errOut
	}
}

// WithLogger sets the logger handed to the range client.
func WithLogger(l *slog.Logger) Option {
	return func(a *App) {
		a.log = l
	}
}

// WithFS resolves the wordlist and report paths against fsys instead of the
// OS filesystem.
func WithFS(fsys zfilesystem.ReadWriteFileFS) Option {
	return func(a *App) {
		a.fsys = fsys
	}
}

// WithLookup replaces the HTTP range client.
func WithLookup(l pwned.RangeLookup) Option {
	return func(a *App) {
		a.lookup = l
	}
}

// WithPrompt replaces the no-echo terminal prompt used by check.
func WithPrompt(fn func(prompt string) (string, error)) Option {
	return func(a *App) {
		a.prompt = fn
	}
}

// WithGeneratorOptions passes options through to the diceware generator.
func WithGeneratorOptions(opts ...diceware.Option) Option {
	return func(a *App) {
		a.genOpts = append(a.genOpts, opts...)
	}
}

// New creates an App.
func New(cfg *config.Config, opts ...Option) *App {
	a := &App{
		cfg:    cfg,
		out:    os.Stdout,
		errOut: os.Stderr,
		log:    slog.Default(),
	}
	for _, o := range opts {
		o(a)
	}
	if a.prompt == nil {
		a.prompt = func(p string) (string, error) { return ReadPassword(p, a.errOut) }
	}
	return a
}

// Generator loads the configured wordlist and returns a generator over it.
func (a *App) Generator() (*diceware.Generator, error) {
	fsys, name, err := a.resolve(a.cfg.Wordlist)
	if err != nil {
		return nil, err
	}

	wl, err := wordlist.Load(fsys, name)
	if err != nil {
		return nil, err
	}
	if !wl.Complete() {
		a.log.Warn("wordlist does not cover every dice key", "path", a.cfg.Wordlist, "entries", wl.Len())
	}

	return diceware.New(wl, a.genOpts...), nil
}

// Checker returns a breach checker over the configured range lookup.
func (a *App) Checker() *pwned.Checker {
	lookup := a.lookup
	if lookup == nil {
		lookup = pwned.NewClient(pwned.Config{
			BaseURL:   a.cfg.Pwned.BaseURL,
			UserAgent: a.cfg.Pwned.UserAgent,
			Timeout:   a.cfg.Pwned.Timeout,
		}, a.log)
	}
	return pwned.NewChecker(lookup)
}

// CmdGenerate generates a passphrase.
//
//	zphrase generate [-n N] [-d DELIM] [--check] [--json] [--save]
func (a *App) CmdGenerate(ctx context.Context, args []string) error {
	if err := checkArgs(args, generateFlags); err != nil {
		return fmt.Errorf("generate: %w", err)
	}
	if pos := positional(args); len(pos) > 0 {
		return fmt.Errorf("generate: unexpected argument %q", pos[0])
	}

	count := a.cfg.Words
	if v, ok := flagValue(args, "-n"); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("-n: %w", err)
		}
		count = n
	}
	if count < 1 {
		return fmt.Errorf("generate: %w, got %d", ErrWordCount, count)
	}

	delim := a.cfg.Delimiter
	if v, ok := flagValue(args, "-d"); ok {
		delim = v
	}

	gen, err := a.Generator()
	if err != nil {
		return err
	}

	pass, err := gen.Generate(count, delim)
	if err != nil {
		return err
	}

	rep := report.Generated(pass, count, gen.Entropy(count))

	if hasFlag(args, "--check") {
		n, err := a.Checker().Occurrences(ctx, pass)
		if err != nil {
			return err
		}
		rep = rep.WithOccurrences(n)
	}

	return a.emit(args, rep)
}

// CmdCheck looks a candidate up in the breach corpus. With no candidate
// argument it is read from the terminal without echo. A candidate starting
// with '-' goes after "--".
//
//	zphrase check [--json] [--save] [--] [CANDIDATE]
func (a *App) CmdCheck(ctx context.Context, args []string) error {
	if err := checkArgs(args, checkFlags); err != nil {
		return fmt.Errorf("check: %w", err)
	}

	candidate, label := "", ""
	if pos := positional(args); len(pos) > 0 {
		candidate = strings.Join(pos, " ")
		label = candidate
	} else {
		s, err := a.prompt("candidate: ")
		if err != nil {
			return err
		}
		candidate, label = s, hiddenLabel
	}

	n, err := a.Checker().Occurrences(ctx, candidate)
	if err != nil {
		return err
	}

	return a.emit(args, report.Checked(label, n))
}

func (a *App) emit(args []string, rep report.Report) error {
	if hasFlag(args, "--json") {
		if err := rep.WriteJSON(a.out); err != nil {
			return err
		}
	} else {
		fmt.Fprint(a.out, rep.Text())
	}

	if hasFlag(args, "--save") {
		fsys, name, err := a.resolve(a.cfg.Report)
		if err != nil {
			return err
		}
		if err := report.Save(fsys, name, rep); err != nil {
			return err
		}
		fmt.Fprintf(a.errOut, "saved %s\n", a.cfg.Report)
	}

	return nil
}

// resolve maps a configured path onto a filesystem and a name within it.
func (a *App) resolve(path string) (zfilesystem.ReadWriteFileFS, string, error) {
	if a.fsys != nil {
		return a.fsys, path, nil
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, "", fmt.Errorf("resolve %s: %w", path, err)
	}
	return zfilesystem.NewOSFileSystem(filepath.Dir(abs)), filepath.Base(abs), nil
}

// ReadPassword prompts on w and reads a line from the terminal without echo.
func ReadPassword(prompt string, w io.Writer) (string, error) {
	fmt.Fprint(w, prompt)
	b, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Fprintln(w)
	if err != nil {
		return "", fmt.Errorf("read password: %w", err)
	}
	s := string(b)
	zcrypto.Erase(b)
	return s, nil
}

// endOfFlags ends flag parsing; everything after it is positional.
const endOfFlags = "--"

// valueFlags take the following argument as their value.
var valueFlags = []string{"-n", "-d"}

// flagArgs returns the arguments before "--".
func flagArgs(args []string) []string {
	if i := slices.Index(args, endOfFlags); i >= 0 {
		return args[:i]
	}
	return args
}

func hasFlag(args []string, flag string) bool {
	for _, a := range flagArgs(args) {
		if strings.EqualFold(a, flag) {
			return true
		}
	}
	return false
}

// flagValue returns the value of a flag given as "-n 6" or "-n=6".
func flagValue(args []string, flag string) (string, bool) {
	args = flagArgs(args)
	for i, a := range args {
		if a == flag && i+1 < len(args) {
			return args[i+1], true
		}
		if v, ok := strings.CutPrefix(a, flag+"="); ok {
			return v, true
		}
	}
	return "", false
}

// checkArgs rejects dash arguments before "--" that are not in known.
func checkArgs(args, known []string) error {
	args = flagArgs(args)
	for i := 0; i < len(args); i++ {
		a := args[i]
		if !isFlag(a) {
			continue
		}
		name, _, _ := strings.Cut(a, "=")
		if !slices.ContainsFunc(known, func(k string) bool { return strings.EqualFold(k, name) }) {
			return fmt.Errorf("%w %s (put a candidate starting with '-' after --)", ErrUnknownFlag, a)
		}
		if a == name && slices.Contains(valueFlags, a) {
			i++
		}
	}
	return nil
}

// positional returns the arguments that are neither flags nor flag values.
// Everything after "--" is positional.
func positional(args []string) []string {
	var out []string
	for i := 0; i < len(args); i++ {
		a := args[i]
		if a == endOfFlags {
			return append(out, args[i+1:]...)
		}
		if slices.Contains(valueFlags, a) {
			i++
			continue
		}
		if isFlag(a) {
			continue
		}
		out = append(out, a)
	}
	return out
}

func isFlag(a string) bool {
	return strings.HasPrefix(a, "-") && a != "-"
}
