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

package meter

import (
	"log/slog"

	"github.com/NVIDIA/opmeter/pkg/collector"
	"github.com/NVIDIA/opmeter/pkg/config"
	"github.com/NVIDIA/opmeter/pkg/sequence"
)

// Option configures a Meter at construction.
type Option func(*options)

type options struct {
	logger      *slog.Logger
	dataLogger  *slog.Logger
	registry    *sequence.Registry
	collector   collector.Collector
	settings    config.Source
	clock       Clock
	sessionID   string
	description string
	parent      string
	parentSet   bool
}

// WithLogger sets the sink for readable lines and usage warnings.
// Default is slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}

// WithDataLogger sets the sink for encoded lines.
// Default is the readable logger with a stream=data attribute.
func WithDataLogger(l *slog.Logger) Option {
	return func(o *options) {
		o.dataLogger = l
	}
}

// WithRegistry sets the registry positions are drawn from.
// Default is sequence.Default.
func WithRegistry(r *sequence.Registry) Option {
	return func(o *options) {
		o.registry = r
	}
}

// WithCollector sets the telemetry source used when Settings.Telemetry is on.
// Default is the shared runtime collector.
func WithCollector(c collector.Collector) Option {
	return func(o *options) {
		o.collector = c
	}
}

// WithSettings sets the settings source read at every transition.
// Default is config.Global().
func WithSettings(s config.Source) Option {
	return func(o *options) {
		o.settings = s
	}
}

// WithClock replaces the monotonic clock.
func WithClock(c Clock) Option {
	return func(o *options) {
		o.clock = c
	}
}

// WithSessionID overrides the process session id.
func WithSessionID(id string) Option {
	return func(o *options) {
		o.sessionID = id
	}
}

// WithDescription sets the human description.
func WithDescription(d string) Option {
	return func(o *options) {
		o.description = d
	}
}

// WithParent sets the full id of the enclosing operation. When not given the
// operation current in the creating context is used.
func WithParent(id string) Option {
	return func(o *options) {
		o.parent = id
		o.parentSet = true
	}
}

// inherit copies the sinks and sources of m so sub meters report the same way.
func inherit(m *Meter) []Option {
	return []Option{
		WithLogger(m.logger),
		WithDataLogger(m.dataLogger),
		WithRegistry(m.registry),
		WithCollector(m.collector),
		WithSettings(m.settings),
		WithClock(m.clock),
		WithSessionID(m.data.SessionID),
	}
}
