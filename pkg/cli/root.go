package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sort"

	"github.com/urfave/cli/v3"

	"github.com/kernel-tuning/tunedb/pkg/logging"
)

const name = "tunedb"

var (
	// overridden during build with ldflags to reflect actual version info
	// e.g., -X "github.com/kernel-tuning/tunedb/pkg/cli.version=1.0.0"
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

// Execute runs the CLI and exits non-zero on failure.
func Execute() {
	if err := newRootCmd().Run(context.Background(), os.Args); err != nil {
		slog.Error("command failed", "error", err)
		os.Exit(1)
	}
}

func newRootCmd() *cli.Command {
	return &cli.Command{
		Name:                  name,
		Usage:                 "Resolve compute kernel tuning parameters for a device",
		Version:               fmt.Sprintf("%s (commit: %s, date: %s)", version, commit, date),
		EnableShellCompletion: true,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "debug",
				Usage: "enable debug logging",
			},
			&cli.BoolFlag{
				Name:  "log-json",
				Usage: "output logs in JSON format",
			},
		},
		Before: func(ctx context.Context, cmd *cli.Command) (context.Context, error) {
			level := logging.ParseLevel(os.Getenv(logging.EnvLogLevel))
			if cmd.Bool("debug") {
				level = slog.LevelDebug
			}
			if cmd.Bool("log-json") {
				logging.SetDefaultStructuredLoggerWithLevel(name, version, level)
			} else {
				logging.SetDefaultCLILogger(level)
			}
			return ctx, nil
		},
		Commands: []*cli.Command{
			resolveCmd(),
			routineCmd(),
			kernelsCmd(),
			validateCmd(),
		},
		Action: commandLister,
	}
}

// commandLister prints the visible subcommands when none is given.
func commandLister(_ context.Context, cmd *cli.Command) error {
	if cmd == nil || len(cmd.Commands) == 0 {
		return nil
	}
	names := make([]string, 0, len(cmd.Commands))
	for _, c := range cmd.Commands {
		if c.Hidden {
			continue
		}
		names = append(names, c.Name)
	}
	sort.Strings(names)

	w := cmd.Root().Writer
	if w == nil {
		w = os.Stdout
	}
	fmt.Fprintf(w, "Available commands for %s:\n", cmd.Name)
	for _, n := range names {
		fmt.Fprintf(w, "  %s\n", n)
	}
	return nil
}
