package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/kernel-tuning/tunedb/pkg/database"
)

func resolveCmd() *cli.Command {
	return &cli.Command{
		Name:                  "resolve",
		Aliases:               []string{"res"},
		EnableShellCompletion: true,
		Usage:                 "Resolve the tuning parameters of one kernel for a device",
		Description: `Searches, in priority order, the device-specific fallback tables, the
overlay knowledge base (--overlay) and the built-in database, and prints the
first matching parameter set.

Vendor strings are normalized first, so the raw platform vendor such as
"NVIDIA Corporation" or "Intel(R) Corporation" can be passed unchanged.

The result can be output in JSON, YAML, table or defines format.`,
		Flags: append([]cli.Flag{
			&cli.StringFlag{
				Name:     "kernel",
				Aliases:  []string{"k"},
				Required: true,
				Usage:    "kernel name (e.g., Xgemm, Xaxpy, Copy)",
			},
			outputFlag(),
			formatFlag(true),
		}, deviceFlags()...),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			outFormat, err := parseOutputFormat(cmd, true)
			if err != nil {
				return err
			}

			dev, p, err := parseDevice(cmd)
			if err != nil {
				return err
			}

			overlay, err := loadOverlay(cmd)
			if err != nil {
				return err
			}

			kernel := strings.TrimSpace(cmd.String("kernel"))
			db, err := database.New(ctx, dev, kernel, p, overlay)
			if err != nil {
				return fmt.Errorf("failed to resolve %s: %w", kernel, err)
			}

			return writeOutput(ctx, cmd, outFormat, db.Result(version), db.Defines())
		},
	}
}
