/*
Copyright © 2025 NVIDIA Corporation
SPDX-License-Identifier: Apache-2.0
*/
package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/urfave/cli/v3"

	"github.com/NVIDIA/opmeter/pkg/logging"
)

const (
	name           = "opmeter"
	versionDefault = "dev"
)

var (
	// overridden during build with ldflags
	version = versionDefault
	commit  = "unknown"
	date    = "unknown"
)

var logFormats = []string{"json", "text"}

func newRootCmd() *cli.Command {
	return &cli.Command{
		Name:                  name,
		Usage:                 "opmeter - operation meter log tooling",
		Version:               version,
		EnableShellCompletion: true,
		Description: fmt.Sprintf(`opmeter - operation meter log tooling

Version: %s
Commit:  %s
Built:   %s

decode - extracts encoded meter records from application logs and renders
         them as readable lines, JSON, YAML or a table.`, version, commit, date),
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Usage:   "log level (debug, info, warn, error)",
				Value:   "info",
				Sources: cli.EnvVars("LOG_LEVEL"),
			},
			&cli.StringFlag{
				Name:    "log-format",
				Usage:   fmt.Sprintf("log format (supported values: %s)", strings.Join(logFormats, ", ")),
				Value:   "text",
				Sources: cli.EnvVars("OPMETER_LOG_FORMAT"),
			},
		},
		Before:   initLogger,
		Commands: []*cli.Command{decodeCmd(), versionCmd()},
	}
}

// initLogger configures slog after flags are parsed so overrides like
// --log-level take effect before any command executes.
func initLogger(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	level := cmd.String("log-level")
	var logger *slog.Logger
	switch f := cmd.String("log-format"); f {
	case "json":
		logger = logging.NewStructuredLogger(name, version, level)
	case "text":
		logger = logging.NewTextLogger(name, version, level, os.Stderr)
	default:
		return ctx, fmt.Errorf("unknown log format: %q", f)
	}
	slog.SetDefault(logger)
	slog.Debug("starting",
		"name", name,
		"version", version,
		"commit", commit,
		"date", date,
		"logLevel", level)
	return ctx, nil
}

// Execute runs the root command with the process arguments.
// This is called by main.main().
func Execute() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle SIGINT/SIGTERM for graceful shutdown
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigCh
		fmt.Fprintln(os.Stderr, "\nReceived interrupt signal, shutting down gracefully...")
		cancel()
	}()

	if err := newRootCmd().Run(ctx, os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
