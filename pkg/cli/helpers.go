package cli

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/kernel-tuning/tunedb/pkg/database"
	"github.com/kernel-tuning/tunedb/pkg/serializer"
)

// formatDefines selects the plain "#define" text output.
const formatDefines = database.FormatDefines

func outputFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "output",
		Aliases: []string{"o"},
		Usage:   "output file path (default: stdout)",
	}
}

// formatFlag is the --format flag; withDefines adds the "defines" text format.
func formatFlag(withDefines bool) cli.Flag {
	formats := serializer.SupportedFormats()
	if withDefines {
		formats = append(formats, formatDefines)
	}
	return &cli.StringFlag{
		Name:    "format",
		Aliases: []string{"f"},
		Value:   string(serializer.FormatYAML),
		Usage:   fmt.Sprintf("output format (%s)", strings.Join(formats, ", ")),
	}
}

// deviceFlags describe the device a kernel will run on.
func deviceFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:     "precision",
			Aliases:  []string{"p"},
			Required: true,
			Usage:    fmt.Sprintf("numeric precision (%v, or h/s/d/c/z, or 16/32/64/3232/6464)", database.ConcretePrecisions()),
		},
		&cli.StringFlag{
			Name:     "type",
			Aliases:  []string{"t"},
			Required: true,
			Usage:    "device type as reported by the platform (e.g., GPU, CPU)",
		},
		&cli.StringFlag{
			Name:     "vendor",
			Required: true,
			Usage:    `device vendor as reported by the platform (e.g., "NVIDIA Corporation")`,
		},
		&cli.StringFlag{
			Name:    "device",
			Aliases: []string{"d"},
			Usage:   `device name as reported by the platform (e.g., "Tesla V100")`,
		},
		&cli.StringFlag{
			Name:  "capabilities",
			Usage: "device extension string as reported by the platform",
		},
		&cli.StringFlag{
			Name:    "overlay",
			Sources: cli.EnvVars("TUNEDB_OVERLAY"),
			Usage:   "YAML or JSON knowledge base searched before the built-in database",
		},
	}
}

// parseOutputFormat extracts and validates the output format from CLI flags.
// allowDefines permits the "defines" text format.
func parseOutputFormat(cmd *cli.Command, allowDefines bool) (serializer.Format, error) {
	f := cmd.String("format")
	if allowDefines && f == formatDefines {
		return serializer.Format(f), nil
	}
	outFormat := serializer.Format(f)
	if outFormat.IsUnknown() {
		valid := serializer.SupportedFormats()
		if allowDefines {
			valid = append(valid, formatDefines)
		}
		return "", fmt.Errorf("unknown output format: %q, valid formats are: %s", f, strings.Join(valid, ", "))
	}
	return outFormat, nil
}

// parseDevice builds the device identity and precision from CLI flags.
func parseDevice(cmd *cli.Command) (database.Identity, database.Precision, error) {
	p, err := database.ParsePrecision(cmd.String("precision"))
	if err != nil {
		return database.Identity{}, "", fmt.Errorf("precision: %w", err)
	}
	if !p.IsConcrete() {
		return database.Identity{}, "", fmt.Errorf("precision: %q matches every precision, supported values: %v",
			cmd.String("precision"), database.ConcretePrecisions())
	}
	dev := database.NewIdentity(
		cmd.String("type"),
		cmd.String("vendor"),
		cmd.String("device"),
		cmd.String("capabilities"),
	)
	return dev, p, nil
}

// loadOverlay reads the --overlay knowledge base, if one was given.
func loadOverlay(cmd *cli.Command) (database.KnowledgeBase, error) {
	path := cmd.String("overlay")
	if path == "" {
		return nil, nil
	}
	return database.LoadKnowledgeBaseFile(path)
}

// writeOutput serializes data, or writes defines as text, to --output.
// Standard output goes through the root command's writer.
func writeOutput(ctx context.Context, cmd *cli.Command, format serializer.Format, data any, defines string) (err error) {
	path := strings.TrimSpace(cmd.String("output"))

	w := serializer.NewWriter(format, cmd.Root().Writer)
	if path != "" && path != serializer.StdoutURI {
		s, ferr := serializer.NewFileWriterOrStdout(format, path)
		if ferr != nil {
			return ferr
		}
		fw, ok := s.(*serializer.Writer)
		if !ok {
			return fmt.Errorf("unsupported output %q", path)
		}
		defer func() {
			if cerr := fw.Close(); cerr != nil && err == nil {
				err = cerr
			}
		}()
		w = fw
	}

	if format == formatDefines {
		_, err = io.WriteString(w, defines)
		return err
	}
	return w.Serialize(ctx, data)
}
