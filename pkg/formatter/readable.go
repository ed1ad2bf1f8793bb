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

package formatter

import (
	"strings"

	"github.com/NVIDIA/opmeter/pkg/config"
	"github.com/NVIDIA/opmeter/pkg/measurement"
)

// Options controls which identity parts a readable line shows.
type Options struct {
	PrintCategory  bool
	PrintOperation bool
	PrintPosition  bool
	PrintSession   bool
	// RedactKeys are wildcard patterns of context keys left out of the line.
	RedactKeys []string
}

// DefaultOptions prints every identity part.
func DefaultOptions() Options {
	return OptionsFrom(config.Default())
}

// OptionsFrom derives formatting options from settings.
func OptionsFrom(s config.Settings) Options {
	return Options{
		PrintCategory:  s.PrintCategory,
		PrintOperation: s.PrintOperation,
		PrintPosition:  s.PrintPosition,
		PrintSession:   s.PrintSession,
		RedactKeys:     s.RedactKeys,
	}
}

// ShortCategory returns the last dot separated segment of a category.
func ShortCategory(category string) string {
	if i := strings.LastIndexByte(category, '.'); i >= 0 {
		return category[i+1:]
	}
	return category
}

// Readable renders m as a single human readable line:
//
//	VERB[ (Slow)]: category[/operation]#position[[path[; message]]] details
//
// where details are "; " separated iterations, elapsed time, rate,
// description, context entries and session id, each present only when set.
func Readable(m *measurement.Measurement, opts Options) string {
	var b strings.Builder

	b.WriteString(string(m.Verb()))
	if m.IsSlow() {
		b.WriteString(" (Slow)")
	}
	b.WriteString(": ")
	writeName(&b, m, opts)

	if m.IsTerminal() && (m.Path != "" || m.Message != "") {
		b.WriteByte('[')
		b.WriteString(m.Path)
		if m.Message != "" {
			b.WriteString("; ")
			b.WriteString(m.Message)
		}
		b.WriteByte(']')
	}

	b.WriteByte(' ')
	for i, s := range details(m, opts) {
		if i > 0 {
			b.WriteString("; ")
		}
		b.WriteString(s)
	}
	return b.String()
}

func writeName(b *strings.Builder, m *measurement.Measurement, opts Options) {
	if opts.PrintCategory {
		b.WriteString(ShortCategory(m.Category))
	}
	if opts.PrintOperation && m.Operation != "" {
		if opts.PrintCategory {
			b.WriteByte('/')
		}
		b.WriteString(m.Operation)
	}
	if opts.PrintPosition {
		b.WriteByte('#')
		b.WriteString(Iterations(m.Position, 0))
	}
}

func details(m *measurement.Measurement, opts Options) []string {
	parts := make([]string, 0, 8)

	if m.CurrentIteration > 0 || m.ExpectedIterations > 0 {
		parts = append(parts, Iterations(m.CurrentIteration, m.ExpectedIterations))
	}

	if m.IsStarted() {
		parts = append(parts, Nanoseconds(m.ExecutionTime()))
	} else {
		parts = append(parts, Nanoseconds(m.WaitingTime()))
	}

	if m.IsStarted() && m.CurrentIteration > 0 {
		perIteration := m.ExecutionTime() / m.CurrentIteration
		parts = append(parts, Rate(m.IterationsPerSecond())+" "+Nanoseconds(perIteration))
	}

	if m.Description != "" {
		parts = append(parts, "'"+m.Description+"'")
	}

	for _, e := range m.Context.Entries() {
		if len(opts.RedactKeys) > 0 && measurement.MatchesAny(e.Key, opts.RedactKeys) {
			continue
		}
		parts = append(parts, e.Key+"="+e.Value)
	}

	if opts.PrintSession && m.SessionID != "" {
		parts = append(parts, m.SessionID)
	}
	return parts
}
