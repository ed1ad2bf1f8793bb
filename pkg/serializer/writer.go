// Copyright (c) 2025, NVIDIA CORPORATION.  All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package serializer

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"reflect"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/fatih/color"
	"gopkg.in/yaml.v3"

	"github.com/NVIDIA/opmeter/pkg/formatter"
	"github.com/NVIDIA/opmeter/pkg/measurement"
)

// Format represents the output format type
type Format string

const (
	// FormatJSON outputs data in JSON format
	FormatJSON Format = "json"
	// FormatYAML outputs data in YAML format
	FormatYAML Format = "yaml"
	// FormatTable outputs data in table format
	FormatTable Format = "table"
	// FormatReadable outputs one readable meter line per measurement
	FormatReadable Format = "readable"
)

const defaultValueKey = "value"

func (f Format) IsUnknown() bool {
	switch f {
	case FormatJSON, FormatYAML, FormatTable, FormatReadable:
		return false
	default:
		return true
	}
}

// SupportedFormats returns a list of all supported output formats
// for serialization.
func SupportedFormats() []string {
	return []string{
		string(FormatReadable),
		string(FormatJSON),
		string(FormatYAML),
		string(FormatTable),
	}
}

var (
	_ Serializer = (*Writer)(nil)
	_ Closer     = (*Writer)(nil)
)

// WriterOption configures a Writer.
type WriterOption func(*Writer)

// WithReadableOptions sets what readable lines show.
func WithReadableOptions(opts formatter.Options) WriterOption {
	return func(w *Writer) {
		w.readable = opts
	}
}

// WithColor colors readable verbs by outcome.
func WithColor(enabled bool) WriterOption {
	return func(w *Writer) {
		w.color = enabled
	}
}

// Writer handles serialization of measurements to various formats.
// Close must be called to release file handles when using NewFileWriterOrStdout.
type Writer struct {
	format   Format
	output   io.Writer
	closer   io.Closer
	readable formatter.Options
	color    bool
}

func newWriter(format Format, output io.Writer, opts []WriterOption) *Writer {
	if format.IsUnknown() {
		slog.Warn("unknown format, defaulting to JSON", "format", format)
		format = FormatJSON
	}
	w := &Writer{
		format:   format,
		output:   output,
		readable: formatter.DefaultOptions(),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// NewWriter creates a new Writer with the specified format and output destination.
// If output is nil, os.Stdout will be used.
// If format is unknown, defaults to JSON format.
func NewWriter(format Format, output io.Writer, opts ...WriterOption) *Writer {
	if output == nil {
		output = os.Stdout
	}
	return newWriter(format, output, opts)
}

// NewFileWriterOrStdout creates a new Writer that outputs to the specified file path in the given format.
// If the file cannot be created or path is empty, it falls back to stdout.
// Remember to call Close() on the returned Writer to ensure the file is properly closed.
func NewFileWriterOrStdout(format Format, path string, opts ...WriterOption) *Writer {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" || trimmed == "-" {
		return newWriter(format, os.Stdout, opts)
	}

	file, err := os.Create(trimmed)
	if err != nil {
		slog.Error("failed to create output file", "error", err, "path", trimmed)
		return newWriter(format, os.Stdout, opts)
	}

	w := newWriter(format, file, opts)
	w.closer = file
	return w
}

// Close releases any resources associated with the Writer.
// It's safe to call Close multiple times or on stdout-based writers.
func (w *Writer) Close() error {
	if w.closer != nil {
		err := w.closer.Close()
		w.closer = nil
		return err
	}
	return nil
}

// Serialize writes v in the configured format. Readable format and the
// measurement table accept a *measurement.Measurement, a slice of them or a
// *measurement.List; other values are written as a flattened field table.
func (w *Writer) Serialize(ctx context.Context, v any) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	switch w.format {
	case FormatJSON:
		return w.serializeJSON(v)
	case FormatYAML:
		return w.serializeYAML(v)
	case FormatTable:
		if ms, ok := asMeasurements(v); ok {
			return w.serializeMeasurementTable(ms)
		}
		return w.serializeTable(v)
	case FormatReadable:
		ms, ok := asMeasurements(v)
		if !ok {
			return fmt.Errorf("readable format requires measurements, got %T", v)
		}
		return w.serializeReadable(ms)
	default:
		return fmt.Errorf("unsupported format: %s", w.format)
	}
}

func asMeasurements(v any) ([]*measurement.Measurement, bool) {
	switch t := v.(type) {
	case *measurement.Measurement:
		return []*measurement.Measurement{t}, true
	case []*measurement.Measurement:
		return t, true
	case measurement.Measurement:
		return []*measurement.Measurement{&t}, true
	case *measurement.List:
		return t.Items, true
	}
	return nil, false
}

func (w *Writer) serializeJSON(v any) error {
	encoder := json.NewEncoder(w.output)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(v); err != nil {
		return fmt.Errorf("failed to serialize to JSON: %w", err)
	}
	return nil
}

func (w *Writer) serializeYAML(v any) error {
	encoder := yaml.NewEncoder(w.output)
	encoder.SetIndent(2)
	if err := encoder.Encode(v); err != nil {
		return fmt.Errorf("failed to serialize to YAML: %w", err)
	}
	return encoder.Close()
}

var verbColors = map[measurement.Verb][]color.Attribute{
	measurement.VerbScheduled: {color.Faint},
	measurement.VerbStarted:   {color.FgCyan},
	measurement.VerbProgress:  {color.FgBlue},
	measurement.VerbOK:        {color.FgGreen},
	measurement.VerbReject:    {color.FgYellow},
	measurement.VerbFail:      {color.FgRed, color.Bold},
}

func (w *Writer) serializeReadable(ms []*measurement.Measurement) error {
	for _, m := range ms {
		line := formatter.Readable(m, w.readable)
		if w.color {
			line = colorize(line, m.Verb())
		}
		if _, err := fmt.Fprintln(w.output, line); err != nil {
			return fmt.Errorf("failed to write readable line: %w", err)
		}
	}
	return nil
}

// colorize colors the verb prefix of a readable line.
func colorize(line string, verb measurement.Verb) string {
	attrs, ok := verbColors[verb]
	if !ok {
		return line
	}
	end := strings.IndexByte(line, ':')
	if end < 0 {
		return line
	}
	c := color.New(attrs...)
	c.EnableColor()
	return c.Sprint(line[:end]) + line[end:]
}

func (w *Writer) serializeMeasurementTable(ms []*measurement.Measurement) error {
	tw := tabwriter.NewWriter(w.output, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "POSITION\tCATEGORY\tOPERATION\tVERB\tPATH\tITERATIONS\tELAPSED\tSESSION")
	for _, m := range ms {
		elapsed := m.ExecutionTime()
		if !m.IsStarted() {
			elapsed = m.WaitingTime()
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			m.Position, m.Category, dash(m.Operation), m.Verb(), dash(m.Path),
			formatter.Iterations(m.CurrentIteration, m.ExpectedIterations),
			formatter.Nanoseconds(elapsed), dash(m.SessionID))
	}
	return tw.Flush()
}

func dash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func (w *Writer) serializeTable(v any) error {
	flat := make(map[string]any)
	flattenValue(flat, reflect.ValueOf(v), "")
	if len(flat) == 0 {
		fmt.Fprintln(w.output, "<empty>")
		return nil
	}

	keys := make([]string, 0, len(flat))
	for k := range flat {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	tw := tabwriter.NewWriter(w.output, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "FIELD\tVALUE")
	fmt.Fprintln(tw, "-----\t-----")
	for _, key := range keys {
		fmt.Fprintf(tw, "%s\t%v\n", key, flat[key])
	}
	return tw.Flush()
}

func flattenValue(out map[string]any, val reflect.Value, prefix string) {
	if !val.IsValid() {
		return
	}

	for val.Kind() == reflect.Pointer || val.Kind() == reflect.Interface {
		if val.IsNil() {
			if prefix != "" {
				out[prefix] = nil
			}
			return
		}
		val = val.Elem()
	}

	//nolint:exhaustive // common kinds handled explicitly, the rest are leaves
	switch val.Kind() {
	case reflect.Struct:
		typ := val.Type()
		for i := 0; i < val.NumField(); i++ {
			field := typ.Field(i)
			if !field.IsExported() {
				continue
			}
			flattenValue(out, val.Field(i), joinKey(prefix, field.Name))
		}
	case reflect.Map:
		for _, mapKey := range val.MapKeys() {
			key := joinKey(prefix, fmt.Sprintf("%v", mapKey.Interface()))
			flattenValue(out, val.MapIndex(mapKey), key)
		}
	case reflect.Slice, reflect.Array:
		for i := 0; i < val.Len(); i++ {
			flattenValue(out, val.Index(i), joinKey(prefix, fmt.Sprintf("[%d]", i)))
		}
	default:
		if prefix == "" {
			prefix = defaultValueKey
		}
		out[prefix] = val.Interface()
	}
}

func joinKey(prefix, suffix string) string {
	if prefix == "" {
		return suffix
	}
	if suffix == "" {
		return prefix
	}
	return prefix + "." + suffix
}
