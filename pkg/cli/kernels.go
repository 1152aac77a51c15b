package cli

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/kernel-tuning/tunedb/pkg/database"
)

func kernelsCmd() *cli.Command {
	return &cli.Command{
		Name:  "kernels",
		Usage: "List the kernel and precision pairs of the built-in database",
		Flags: []cli.Flag{
			outputFlag(),
			formatFlag(false),
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			outFormat, err := parseOutputFormat(cmd, false)
			if err != nil {
				return err
			}

			store, err := database.LoadStore(ctx)
			if err != nil {
				return fmt.Errorf("failed to load built-in database: %w", err)
			}

			return writeOutput(ctx, cmd, outFormat, store.Kernels(), "")
		},
	}
}
