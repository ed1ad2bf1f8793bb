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
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/NVIDIA/opmeter/pkg/defaults"
	"github.com/NVIDIA/opmeter/pkg/errors"
	"github.com/NVIDIA/opmeter/pkg/formatter"
	"github.com/NVIDIA/opmeter/pkg/measurement"
)

// Stats summarizes a record scan.
type Stats struct {
	Lines     int `json:"lines" yaml:"lines"`
	Records   int `json:"records" yaml:"records"`
	Malformed int `json:"malformed" yaml:"malformed"`
}

// Add accumulates other into s.
func (s *Stats) Add(other Stats) {
	s.Lines += other.Lines
	s.Records += other.Records
	s.Malformed += other.Malformed
}

// ExtractRecord returns the encoded record carried by a log line. It accepts
// bare records, JSON log records whose msg is a record, logfmt lines with a
// quoted msg, and text log lines with the record embedded after a prefix.
func ExtractRecord(line string) (string, bool) {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" {
		return "", false
	}
	if formatter.IsEncoded(trimmed) {
		return trimmed, true
	}

	if strings.HasPrefix(trimmed, "{\"") {
		var rec struct {
			Msg string `json:"msg"`
		}
		if err := json.Unmarshal([]byte(trimmed), &rec); err == nil {
			if formatter.IsEncoded(rec.Msg) {
				return strings.TrimSpace(rec.Msg), true
			}
			return "", false
		}
	}

	if i := strings.Index(trimmed, "msg=\""); i >= 0 {
		if quoted, err := strconv.QuotedPrefix(trimmed[i+len("msg="):]); err == nil {
			if msg, err := strconv.Unquote(quoted); err == nil && formatter.IsEncoded(msg) {
				return strings.TrimSpace(msg), true
			}
		}
	}

	end := strings.LastIndexByte(trimmed, '}')
	for start := strings.IndexByte(trimmed, '{'); start >= 0 && start < end; {
		if candidate := trimmed[start : end+1]; formatter.IsEncoded(candidate) {
			return candidate, true
		}
		next := strings.IndexByte(trimmed[start+1:], '{')
		if next < 0 {
			break
		}
		start += next + 1
	}
	return "", false
}

// ReadRecords scans r line by line, decodes every encoded record it finds and
// passes it to fn. Lines without a record are skipped; records that fail to
// parse are counted as malformed and logged at debug level. Scanning stops at
// the first error returned by fn or when ctx is done.
func ReadRecords(ctx context.Context, r io.Reader, fn func(*measurement.Measurement) error) (Stats, error) {
	var stats Stats
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), defaults.MaxLineSize)

	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return stats, err
		}
		stats.Lines++

		rec, ok := ExtractRecord(scanner.Text())
		if !ok {
			continue
		}
		m, err := formatter.Parse(rec)
		if err != nil {
			stats.Malformed++
			slog.Debug("skipping malformed record", "line", stats.Lines, "error", err)
			continue
		}
		stats.Records++
		if err := fn(m); err != nil {
			return stats, err
		}
	}
	if err := scanner.Err(); err != nil {
		return stats, errors.Wrap(errors.ErrCodeInvalidRequest, fmt.Sprintf("failed to read line %d", stats.Lines+1), err)
	}
	return stats, nil
}
