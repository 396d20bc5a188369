/*
Copyright © 2025 Preflight Authors
SPDX-License-Identifier: Apache-2.0
*/

package cli

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/urfave/cli/v3"

	"github.com/erptools/preflight/pkg/config"
	"github.com/erptools/preflight/pkg/dataset"
	"github.com/erptools/preflight/pkg/pipeline"
	"github.com/erptools/preflight/pkg/serializer"
	"github.com/erptools/preflight/pkg/validate"
)

func validateCmd() *cli.Command {
	return &cli.Command{
		Name:  "validate",
		Usage: "Validate an import dataset bundle and report its readiness",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "datasets",
				Aliases:  []string{"d"},
				Usage:    "Path to the dataset bundle (JSON or YAML)",
				Required: true,
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Write the summary to this file instead of stdout",
			},
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"t"},
				Value:   string(serializer.FormatJSON),
				Usage:   "Output format: json, yaml or table",
			},
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to a thresholds overrides file (YAML)",
			},
			&cli.IntFlag{
				Name:  "workers",
				Usage: "Record-validation workers per entity (0 = auto)",
			},
			&cli.BoolFlag{
				Name:  "fail-on-error",
				Usage: "Exit non-zero when the dataset is not import ready",
			},
		},
		Action: runValidate,
	}
}

func runValidate(ctx context.Context, cmd *cli.Command) error {
	outFormat, err := parseOutputFormat(cmd)
	if err != nil {
		return err
	}

	thresholds := config.Default()
	if path := cmd.String("config"); path != "" {
		thresholds, err = config.Load(path)
		if err != nil {
			return fmt.Errorf("failed to load thresholds: %w", err)
		}
	}

	bundle, err := dataset.Load(cmd.String("datasets"))
	if err != nil {
		return fmt.Errorf("failed to load datasets: %w", err)
	}

	slog.Debug("loaded dataset bundle",
		"path", cmd.String("datasets"),
		"records", bundle.Size(),
	)

	opts := []validate.Option{validate.WithThresholds(thresholds)}
	if workers := int(cmd.Int("workers")); workers > 0 {
		opts = append(opts, validate.WithWorkers(workers))
	}

	summary, err := pipeline.NewRunner(opts...).Run(ctx, bundle)
	if err != nil {
		return err
	}

	w, err := serializer.NewFileWriterOrStdout(outFormat, cmd.String("output"))
	if err != nil {
		return err
	}
	if closer, ok := w.(serializer.Closer); ok {
		defer closer.Close()
	}
	if err := w.Serialize(ctx, summary); err != nil {
		return fmt.Errorf("failed to write summary: %w", err)
	}

	if cmd.Bool("fail-on-error") && !summary.Overall.ImportReady {
		return fmt.Errorf("dataset is not import ready: %d errors across %d records",
			summary.Overall.ErrorCount, summary.Overall.TotalRecords)
	}
	return nil
}
