package cli

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/urfave/cli/v3"

	"github.com/kernel-tuning/tunedb/pkg/database"
	"github.com/kernel-tuning/tunedb/pkg/header"
)

// LintReport is the serializable result of the validate command.
type LintReport struct {
	header.Header `json:",inline" yaml:",inline"`

	Source   string             `json:"source" yaml:"source"`
	Entries  int                `json:"entries" yaml:"entries"`
	Findings []database.Finding `json:"findings" yaml:"findings"`
}

func validateCmd() *cli.Command {
	return &cli.Command{
		Name:      "validate",
		Usage:     "Check a knowledge base for records the search can never reach",
		ArgsUsage: "[FILE]",
		Description: `Parses a YAML or JSON knowledge base and reports records that are shadowed by
an earlier, more general record, and vendor records without devices. The
search always uses the authored order; findings only point at records that
will never be selected.

Without FILE the built-in database is checked.`,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "fail-on-findings",
				Usage: "exit with an error when any finding is reported",
			},
			outputFlag(),
			formatFlag(false),
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			outFormat, err := parseOutputFormat(cmd, false)
			if err != nil {
				return err
			}

			source := "builtin"
			var kb database.KnowledgeBase
			if path := cmd.Args().First(); path != "" {
				source = path
				if kb, err = database.LoadKnowledgeBaseFile(path); err != nil {
					return err
				}
			} else {
				store, err := database.LoadStore(ctx)
				if err != nil {
					return fmt.Errorf("failed to load built-in database: %w", err)
				}
				kb = store.Builtin
			}

			report := &LintReport{
				Source:   source,
				Entries:  len(kb),
				Findings: database.Lint(kb),
			}
			if report.Findings == nil {
				report.Findings = []database.Finding{}
			}
			report.Init(header.KindLintReport, version)

			slog.Debug("validated knowledge base", "source", source, "entries", report.Entries, "findings", len(report.Findings))

			if err := writeOutput(ctx, cmd, outFormat, report, ""); err != nil {
				return err
			}
			if cmd.Bool("fail-on-findings") && len(report.Findings) > 0 {
				return fmt.Errorf("%s: %d finding(s)", source, len(report.Findings))
			}
			return nil
		},
	}
}
