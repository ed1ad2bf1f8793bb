package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NVIDIA/opmeter/pkg/config"
	"github.com/NVIDIA/opmeter/pkg/formatter"
	"github.com/NVIDIA/opmeter/pkg/header"
	"github.com/NVIDIA/opmeter/pkg/measurement"
	"github.com/NVIDIA/opmeter/pkg/serializer"
)

const sec = int64(time.Second)

func fixtureMeasurements() []*measurement.Measurement {
	return []*measurement.Measurement{
		measurement.NewBuilder("billing.invoice", "render").
			Session("sid").Position(1).
			Times(sec, 2*sec, 3*sec, 0).
			Put("customer", "42").
			OK("").Build(),
		measurement.NewBuilder("billing.invoice", "render").
			Session("sid").Position(2).
			Times(sec, 2*sec, 4*sec, 0).
			Fail("timeout", "deadline exceeded").Build(),
		measurement.NewBuilder("auth.login", "").
			Session("sid").Position(1).
			Times(sec, 0, 0, 2*sec).Build(),
	}
}

// writeLog writes the fixture as a JSON application log mixed with noise.
func writeLog(t *testing.T, dir string) string {
	t.Helper()
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))
	logger.Info("service starting")
	for _, m := range fixtureMeasurements() {
		logger.Info(formatter.Readable(m, formatter.DefaultOptions()))
		logger.Debug("ignored")
		logger.Info(formatter.Encode(m), "stream", "data")
	}
	buf.WriteString("{pos=broken}\n")
	path := filepath.Join(dir, "app.log")
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o600))
	return path
}

func runCLI(t *testing.T, stdin string, args ...string) error {
	t.Helper()
	root := newRootCmd()
	root.Reader = strings.NewReader(stdin)
	root.Writer = &bytes.Buffer{}
	root.ErrWriter = &bytes.Buffer{}
	t.Cleanup(func() { slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, nil))) })
	return root.Run(context.Background(), append([]string{name, "--log-level", "error"}, args...))
}

func readJSON(t *testing.T, path string) []*measurement.Measurement {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var doc measurement.List
	require.NoError(t, json.Unmarshal(data, &doc))
	require.NoError(t, doc.Validate())
	assert.Equal(t, version, doc.Metadata["version"])
	return doc.Items
}

func TestDecode_LogFileToJSON(t *testing.T) {
	dir := t.TempDir()
	logPath := writeLog(t, dir)
	out := filepath.Join(dir, "out.json")

	require.NoError(t, runCLI(t, "", "decode", "-t", "json", "-o", out, logPath))

	got := readJSON(t, out)
	want := fixtureMeasurements()
	require.Len(t, got, len(want))
	for i := range want {
		assert.True(t, want[i].Equal(got[i]), measurement.Diff(want[i], got[i]))
	}
}

func TestDecode_ReadableFromStdin(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "out.log")

	var in strings.Builder
	for _, m := range fixtureMeasurements() {
		in.WriteString(formatter.Encode(m) + "\n")
	}

	require.NoError(t, runCLI(t, in.String(), "decode", "--color=false", "-o", out))

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "OK: invoice/render#1 1000.0ms; customer=42; sid", lines[0])
	assert.Equal(t, "FAIL: invoice/render#2[timeout; deadline exceeded] 2.0s; sid", lines[1])
	assert.Equal(t, "SCHEDULED: login#1 1000.0ms; sid", lines[2])
}

func TestDecode_FiltersAndRedaction(t *testing.T) {
	dir := t.TempDir()
	logPath := writeLog(t, dir)
	out := filepath.Join(dir, "out.json")

	require.NoError(t, runCLI(t, "", "decode", "-t", "json", "-o", out,
		"--category", "billing.", "--outcome", "ok", "--redact", "cust*", logPath))

	got := readJSON(t, out)
	require.Len(t, got, 1)
	assert.Equal(t, measurement.OutcomeOK, got[0].Outcome)
	assert.False(t, got[0].Context.Has("customer"))

	require.NoError(t, runCLI(t, "", "decode", "-t", "json", "-o", out, "--outcome", "pending", logPath))
	got = readJSON(t, out)
	require.Len(t, got, 1)
	assert.Equal(t, "auth.login", got[0].Category)
}

func TestDecode_DocumentsKeepArgumentOrder(t *testing.T) {
	dir := t.TempDir()
	logPath := writeLog(t, dir)
	exported := filepath.Join(dir, "export.yaml")
	require.NoError(t, runCLI(t, "", "decode", "-t", "yaml", "-o", exported, "--category", "auth", logPath))

	out := filepath.Join(dir, "out.json")
	require.NoError(t, runCLI(t, "", "decode", "-t", "json", "-o", out, exported, logPath, exported))

	got := readJSON(t, out)
	require.Len(t, got, 5)
	assert.Equal(t, "auth.login", got[0].Category)
	assert.Equal(t, "billing.invoice", got[1].Category)
	assert.Equal(t, "auth.login", got[3].Category)
	assert.Equal(t, "auth.login", got[4].Category)
}

func TestDecode_Errors(t *testing.T) {
	dir := t.TempDir()
	foreign := filepath.Join(dir, "foreign.json")
	require.NoError(t, os.WriteFile(foreign, []byte(`{"kind":"BuildInfo","apiVersion":"`+header.APIVersion+`"}`), 0o600))
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"unknown format", []string{"decode", "-t", "xml"}, "unknown output format"},
		{"bad outcome", []string{"decode", "--outcome", "maybe"}, "invalid outcome"},
		{"missing file", []string{"decode", filepath.Join(dir, "missing.log")}, "failed to decode"},
		{"foreign document", []string{"decode", foreign}, "expected MeasurementList"},
		{"stdin twice", []string{"decode", "-", "-"}, "standard input"},
		{"missing config", []string{"decode", "--config", filepath.Join(dir, "none.yaml")}, "failed to read config"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := runCLI(t, "", tt.args...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestDecode_ConfigControlsRendering(t *testing.T) {
	dir := t.TempDir()
	cfg := filepath.Join(dir, "opmeter.yaml")
	require.NoError(t, os.WriteFile(cfg, []byte("printSession: false\nprintPosition: false\nredactKeys: [customer]\n"), 0o600))
	out := filepath.Join(dir, "out.log")

	in := formatter.Encode(fixtureMeasurements()[0]) + "\n"
	require.NoError(t, runCLI(t, in, "decode", "--color=false", "--config", cfg, "-o", out))

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, "OK: invoice/render 1000.0ms\n", string(data))
}

func TestFilter_Match(t *testing.T) {
	ms := fixtureMeasurements()

	all := filter{}
	for _, m := range ms {
		assert.True(t, all.match(m))
	}

	outcomes, pending, err := parseOutcomes([]string{"fail", " Reject "})
	require.NoError(t, err)
	assert.False(t, pending)
	f := filter{outcomes: outcomes}
	assert.False(t, f.match(ms[0]))
	assert.True(t, f.match(ms[1]))
	assert.False(t, f.match(ms[2]))

	f = filter{categoryPrefix: "auth"}
	assert.False(t, f.match(ms[0]))
	assert.True(t, f.match(ms[2]))
}

func TestVersionCmd(t *testing.T) {
	out := filepath.Join(t.TempDir(), "version.json")
	require.NoError(t, runCLI(t, "", "version", "-t", "json", "-o", out))

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	var info BuildInfo
	require.NoError(t, json.Unmarshal(data, &info))
	assert.Equal(t, header.KindBuildInfo, info.Kind)
	assert.Equal(t, name, info.Name)
	assert.Equal(t, version, info.Version)
	assert.NotEmpty(t, info.GoVersion)
	assert.NotEmpty(t, info.Session)
}

func TestInitLogger_UnknownFormat(t *testing.T) {
	err := runCLI(t, "", "--log-format", "xml", "version")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown log format")
}

func TestDecodeSources_CountsEverySource(t *testing.T) {
	dir := t.TempDir()
	src := writeLog(t, dir)
	sources := []string{src, src, src}

	var logs bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewJSONHandler(&logs, &slog.HandlerOptions{Level: slog.LevelDebug})))
	t.Cleanup(func() { slog.SetDefault(prev) })

	results, err := decodeSources(context.Background(), sources, nil, config.NewStore(config.Default()))
	require.NoError(t, err)
	require.Len(t, results, len(sources))
	for _, res := range results {
		assert.Len(t, res.measurements, len(fixtureMeasurements()))
	}

	var run *measurement.Measurement
	_, err = serializer.ReadRecords(context.Background(), strings.NewReader(logs.String()), func(m *measurement.Measurement) error {
		if m.Category == decodeMetered && m.Operation == "decode" && m.Outcome == measurement.OutcomeOK {
			run = m
		}
		return nil
	})
	require.NoError(t, err)
	require.NotNil(t, run, "run meter did not report success")
	assert.Equal(t, int64(len(sources)), run.CurrentIteration)
	assert.Equal(t, int64(len(sources)), run.ExpectedIterations)
}
