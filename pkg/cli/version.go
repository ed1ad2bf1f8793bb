/*
Copyright © 2025 NVIDIA Corporation
SPDX-License-Identifier: Apache-2.0
*/
package cli

import (
	"context"
	"runtime"

	"github.com/urfave/cli/v3"

	"github.com/NVIDIA/opmeter/pkg/header"
	"github.com/NVIDIA/opmeter/pkg/serializer"
	"github.com/NVIDIA/opmeter/pkg/session"
)

// BuildInfo describes the running binary.
type BuildInfo struct {
	header.Header `json:",inline" yaml:",inline"`

	Name      string `json:"name" yaml:"name"`
	Version   string `json:"version" yaml:"version"`
	Commit    string `json:"commit" yaml:"commit"`
	Date      string `json:"date" yaml:"date"`
	GoVersion string `json:"goVersion" yaml:"goVersion"`
	Platform  string `json:"platform" yaml:"platform"`
	Session   string `json:"session" yaml:"session"`
}

func buildInfo() BuildInfo {
	return BuildInfo{
		Header:    header.New(header.KindBuildInfo),
		Name:      name,
		Version:   version,
		Commit:    commit,
		Date:      date,
		GoVersion: runtime.Version(),
		Platform:  runtime.GOOS + "/" + runtime.GOARCH,
		Session:   session.ID(),
	}
}

func versionCmd() *cli.Command {
	return &cli.Command{
		Name:  "version",
		Usage: "Print build information",
		Flags: []cli.Flag{
			formatFlag(serializer.FormatTable, "json", "yaml", "table"),
			outputFlag(),
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			outFormat, err := parseOutputFormat(cmd)
			if err != nil {
				return err
			}
			if outFormat == serializer.FormatReadable {
				outFormat = serializer.FormatTable
			}
			w := serializer.NewFileWriterOrStdout(outFormat, cmd.String("output"))
			defer w.Close()
			return w.Serialize(ctx, buildInfo())
		},
	}
}
