package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/zarlcorp/core/pkg/zapp"
	"github.com/zarlcorp/zphrase/internal/cli"
	"github.com/zarlcorp/zphrase/internal/config"
	"github.com/zarlcorp/zphrase/internal/tui"
)

// version is set at build time via ldflags.
var version = "dev"

const usage = `usage: zphrase [command]

commands:
  generate [-n N] [-d DELIM] [--check] [--json] [--save]
  check [--json] [--save] [--] [CANDIDATE]
  version

with no command zphrase starts the interactive interface.
`

func main() {
	app := zapp.New(zapp.WithName("zphrase"))

	ctx, cancel := zapp.SignalContext(context.Background())
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "zphrase: %v\n", err)
		_ = app.Close()
		os.Exit(1)
	}

	lvl, _ := cfg.SlogLevel()
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))
	slog.SetDefault(logger)

	a := cli.New(cfg, cli.WithLogger(logger))

	if len(os.Args) > 1 {
		code := runCLI(ctx, a, os.Args[1])
		_ = app.Close()
		os.Exit(code)
	}

	if err := runTUI(ctx, a, cfg); err != nil {
		slog.Error("tui", "err", err)
		_ = app.Close()
		os.Exit(1)
	}

	if err := app.Close(); err != nil {
		slog.Error("shutdown", "err", err)
		os.Exit(1)
	}
}

func runCLI(ctx context.Context, a *cli.App, cmd string) int {
	var err error

	switch cmd {
	case "version":
		fmt.Printf("zphrase %s\n", version)
	case "generate":
		err = a.CmdGenerate(ctx, os.Args[2:])
	case "check":
		err = a.CmdCheck(ctx, os.Args[2:])
	case "help", "-h", "--help":
		fmt.Print(usage)
	default:
		fmt.Fprintf(os.Stderr, "zphrase: unknown command %q\n\n%s", cmd, usage)
		return 1
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "zphrase: %v\n", err)
		return 1
	}
	return 0
}

func runTUI(ctx context.Context, a *cli.App, cfg *config.Config) error {
	gen, err := a.Generator()
	if err != nil {
		return err
	}

	m := tui.New(ctx, version, gen, a.Checker(), tui.Settings{
		Words:     cfg.Words,
		Delimiter: cfg.Delimiter,
	})

	_, err = tea.NewProgram(m, tea.WithContext(ctx)).Run()
	return err
}
