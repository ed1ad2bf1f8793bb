/*
Copyright © 2025 NVIDIA Corporation
SPDX-License-Identifier: Apache-2.0
*/
package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/urfave/cli/v3"
	"golang.org/x/sync/errgroup"

	"github.com/NVIDIA/opmeter/pkg/config"
	"github.com/NVIDIA/opmeter/pkg/defaults"
	"github.com/NVIDIA/opmeter/pkg/formatter"
	"github.com/NVIDIA/opmeter/pkg/header"
	"github.com/NVIDIA/opmeter/pkg/measurement"
	"github.com/NVIDIA/opmeter/pkg/meter"
	"github.com/NVIDIA/opmeter/pkg/serializer"
)

const (
	stdinSource   = "-"
	decodeMetered = "opmeter.cli"
)

// filter selects decoded measurements.
type filter struct {
	categoryPrefix string
	outcomes       map[measurement.Outcome]bool
	includePending bool
}

func (f filter) match(m *measurement.Measurement) bool {
	if f.categoryPrefix != "" && !strings.HasPrefix(m.Category, f.categoryPrefix) {
		return false
	}
	if len(f.outcomes) == 0 {
		return true
	}
	if !m.IsTerminal() {
		return f.includePending
	}
	return f.outcomes[m.Outcome]
}

func parseOutcomes(values []string) (map[measurement.Outcome]bool, bool, error) {
	if len(values) == 0 {
		return nil, false, nil
	}
	out := make(map[measurement.Outcome]bool, len(values))
	pending := false
	for _, v := range values {
		v = strings.ToUpper(strings.TrimSpace(v))
		if v == "PENDING" {
			pending = true
			continue
		}
		o, ok := measurement.ParseOutcome(v)
		if !ok {
			return nil, false, fmt.Errorf("invalid outcome: %q", v)
		}
		out[o] = true
	}
	return out, pending, nil
}

// decoded is the result of reading one source.
type decoded struct {
	measurements []*measurement.Measurement
	stats        serializer.Stats
}

func decodeCmd() *cli.Command {
	return &cli.Command{
		Name:                  "decode",
		EnableShellCompletion: true,
		Usage:                 "Render encoded meter records found in log files",
		ArgsUsage:             "[FILE...]",
		Description: `Scan log files for encoded meter records and render them.

Each argument is a log file, a JSON or YAML document previously exported by
this command, or "-" for standard input. With no arguments standard input is
read. Records are accepted as bare lines, as the message of JSON or logfmt log
records, or embedded in colored text log lines.

Files are decoded in parallel; output keeps the argument order.

# Examples

Render the records of an application log:
  opmeter decode app.log

Only failed and rejected billing operations, as a table:
  opmeter decode --category billing. --outcome fail --outcome reject -t table app.log

Export to YAML without the customer key:
  opmeter decode --redact 'customer*' -t yaml -o export.yaml app.log`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "category",
				Usage: "Only keep measurements whose category starts with this prefix",
			},
			&cli.StringSliceFlag{
				Name:  "outcome",
				Usage: "Only keep measurements with this outcome (ok, reject, fail, pending; can be repeated)",
			},
			&cli.StringSliceFlag{
				Name:  "redact",
				Usage: "Context key pattern to remove before rendering (supports * wildcards, can be repeated)",
			},
			&cli.BoolFlag{
				Name:  "color",
				Usage: "Color readable lines by outcome (default: when stdout is a terminal)",
				Value: isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd()),
			},
			&cli.BoolFlag{
				Name:  "summary",
				Usage: "Log line and record counts when done",
			},
			configFlag(),
			outputFlag(),
			formatFlag(serializer.FormatReadable),
		},
		Action: runDecode,
	}
}

func runDecode(ctx context.Context, cmd *cli.Command) error {
	outFormat, err := parseOutputFormat(cmd)
	if err != nil {
		return err
	}

	settings, err := loadSettings(cmd.String("config"))
	if err != nil {
		return err
	}

	outcomes, pending, err := parseOutcomes(cmd.StringSlice("outcome"))
	if err != nil {
		return err
	}
	f := filter{
		categoryPrefix: cmd.String("category"),
		outcomes:       outcomes,
		includePending: pending,
	}

	sources := cmd.Args().Slice()
	if len(sources) == 0 {
		sources = []string{stdinSource}
	}
	if countStdin(sources) > 1 {
		return fmt.Errorf("standard input can only be read once")
	}

	redact := append(append([]string(nil), settings.RedactKeys...), cmd.StringSlice("redact")...)
	opts := formatter.OptionsFrom(settings)
	opts.RedactKeys = redact

	store := config.NewStore(settings)
	results, err := decodeSources(ctx, sources, stdin(cmd), store)
	if err != nil {
		return err
	}

	var (
		all   []*measurement.Measurement
		total serializer.Stats
	)
	for _, r := range results {
		total.Add(r.stats)
		for _, m := range r.measurements {
			if f.match(m) {
				all = append(all, measurement.Redact(m, redact))
			}
		}
	}

	if cmd.Bool("summary") {
		slog.Info("decode summary",
			"sources", len(sources),
			"lines", total.Lines,
			"records", total.Records,
			"malformed", total.Malformed,
			"selected", len(all))
	}

	w := serializer.NewFileWriterOrStdout(outFormat, cmd.String("output"),
		serializer.WithReadableOptions(opts),
		serializer.WithColor(cmd.Bool("color") && outFormat == serializer.FormatReadable && isStdout(cmd.String("output"))),
	)
	defer func() {
		if closeErr := w.Close(); closeErr != nil {
			slog.Warn("failed to close output", "error", closeErr)
		}
	}()

	return w.Serialize(ctx, measurement.NewList(all,
		header.WithMetadata("generator", name),
		header.WithMetadata("version", version)))
}

// decodeSources reads every source with bounded parallelism. Results are
// indexed like sources. Workers own their per-source meters; the run meter
// is advanced only by the calling goroutine.
func decodeSources(ctx context.Context, sources []string, in io.Reader, settings config.Source) ([]decoded, error) {
	results := make([]decoded, len(sources))

	err := meter.Run(ctx, decodeMetered, "decode", func(ctx context.Context, run *meter.Meter) error {
		run.Iterations(int64(len(sources)))

		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(defaults.DecodeConcurrency)
		completed := make(chan struct{}, len(sources))

		for i, src := range sources {
			g.Go(func() error {
				fileCtx := meter.WithTracker(gctx)
				fm := meter.New(fileCtx, decodeMetered, "decode/source",
					meter.WithParent(run.FullID()),
					meter.WithSettings(settings)).
					Put("source", src).
					Start()

				res, err := decodeSource(fileCtx, src, in, fm)
				fm.Put("records", fmt.Sprint(res.stats.Records))
				fm.Finish(err)
				if err != nil {
					return fmt.Errorf("failed to decode %q: %w", src, err)
				}
				results[i] = res
				completed <- struct{}{}
				return nil
			})
		}

		waitErr := make(chan error, 1)
		go func() {
			waitErr <- g.Wait()
			close(completed)
		}()
		for range completed {
			run.Inc()
		}
		return <-waitErr
	}, meter.WithSettings(settings))

	return results, err
}

func decodeSource(ctx context.Context, src string, in io.Reader, m *meter.Meter) (decoded, error) {
	if src != stdinSource && serializer.IsDocumentPath(src) {
		doc, err := serializer.FromFile[measurement.List](src)
		if err != nil {
			return decoded{}, err
		}
		if err := doc.Validate(); err != nil {
			return decoded{}, fmt.Errorf("invalid document: %w", err)
		}
		n := int64(len(doc.Items))
		m.Iterations(n)
		m.IncTo(n)
		return decoded{
			measurements: doc.Items,
			stats:        serializer.Stats{Records: len(doc.Items)},
		}, nil
	}

	r := in
	if src != stdinSource {
		file, err := os.Open(src)
		if err != nil {
			return decoded{}, fmt.Errorf("failed to open file: %w", err)
		}
		defer file.Close()
		r = file
	}

	var res decoded
	stats, err := serializer.ReadRecords(ctx, r, func(rec *measurement.Measurement) error {
		res.measurements = append(res.measurements, rec)
		m.Inc()
		return nil
	})
	res.stats = stats
	if stats.Malformed > 0 {
		m.Put("malformed", fmt.Sprint(stats.Malformed))
	}
	return res, err
}

// loadSettings reads settings from path when given and applies environment
// overrides on top.
func loadSettings(path string) (config.Settings, error) {
	base := config.Current()
	if path != "" {
		loaded, err := config.Load(path)
		if err != nil {
			return base, err
		}
		base = loaded
	}
	return config.FromEnv(base)
}

func countStdin(sources []string) int {
	n := 0
	for _, s := range sources {
		if s == stdinSource {
			n++
		}
	}
	return n
}

func stdin(cmd *cli.Command) io.Reader {
	if root := cmd.Root(); root != nil && root.Reader != nil {
		return root.Reader
	}
	return os.Stdin
}

func isStdout(output string) bool {
	output = strings.TrimSpace(output)
	return output == "" || output == stdinSource
}
