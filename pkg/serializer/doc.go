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

// Package serializer writes measurements in several output formats and reads
// them back from log files and exported documents.
//
// Output formats:
//   - Readable: one meter line per measurement, optionally colored by outcome
//   - JSON: machine-readable structured data with proper indentation
//   - YAML: human-readable document format
//   - Table: one row per measurement, or flattened fields for other values
//
// Usage:
//
//	writer := serializer.NewFileWriterOrStdout(serializer.FormatTable, path)
//	defer writer.Close()
//	if err := writer.Serialize(ctx, measurements); err != nil {
//		return err
//	}
//
// Reading encoded records out of application logs:
//
//	stats, err := serializer.ReadRecords(ctx, file, func(m *measurement.Measurement) error {
//		ms = append(ms, m)
//		return nil
//	})
//
// ReadRecords understands bare encoded lines, JSON log records whose msg is
// an encoded record, and text log lines that embed one.
package serializer
