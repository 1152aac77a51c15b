package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/kernel-tuning/tunedb/pkg/database"
)

func routineCmd() *cli.Command {
	return &cli.Command{
		Name:                  "routine",
		EnableShellCompletion: true,
		Usage:                 "Resolve the tuning parameters of every kernel a routine compiles",
		Description: fmt.Sprintf(`Resolves a set of kernels for one device concurrently. The set is either a
named routine (%s) or an explicit --kernels list. The command fails if any
kernel cannot be resolved.`, strings.Join(database.RoutineNames(), ", ")),
		Flags: append([]cli.Flag{
			&cli.StringFlag{
				Name:    "routine",
				Aliases: []string{"r"},
				Usage:   fmt.Sprintf("named routine (%s)", strings.Join(database.RoutineNames(), ", ")),
			},
			&cli.StringSliceFlag{
				Name:  "kernels",
				Usage: "explicit kernel list (comma-separated or repeated)",
			},
			outputFlag(),
			formatFlag(true),
		}, deviceFlags()...),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			outFormat, err := parseOutputFormat(cmd, true)
			if err != nil {
				return err
			}

			kernels, err := routineKernels(cmd.String("routine"), cmd.StringSlice("kernels"))
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

			r, err := database.NewBuilder().BuildRoutine(ctx, dev, kernels, p, overlay)
			if err != nil {
				return fmt.Errorf("failed to resolve routine: %w", err)
			}

			return writeOutput(ctx, cmd, outFormat, r.Result(version), r.Defines())
		},
	}
}

// routineKernels picks the kernel list from --routine or --kernels.
func routineKernels(routine string, list []string) ([]string, error) {
	if routine != "" && len(list) > 0 {
		return nil, fmt.Errorf("--routine and --kernels are mutually exclusive")
	}
	if routine != "" {
		kernels, ok := database.RoutineKernels(routine)
		if !ok {
			return nil, fmt.Errorf("routine: %q, supported values: %v", routine, database.RoutineNames())
		}
		return kernels, nil
	}

	var kernels []string
	for _, item := range list {
		for _, k := range strings.Split(item, ",") {
			if k = strings.TrimSpace(k); k != "" {
				kernels = append(kernels, k)
			}
		}
	}
	if len(kernels) == 0 {
		return nil, fmt.Errorf("either --routine or --kernels is required")
	}
	return kernels, nil
}
