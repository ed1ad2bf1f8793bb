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

// Package collector defines how meters read runtime telemetry when an
// operation stops.
//
// # Core Interface
//
//	type Collector interface {
//	    Collect(ctx context.Context) (*measurement.SystemStatus, error)
//	}
//
// Collectors are best effort. A collector that can read only some sources
// returns the partial status together with an error; meters keep the partial
// status, log the error at debug level and never fail the measured operation.
// A collector still running when CollectWithTimeout gives up contributes
// nothing: the meter records a zero status.
//
// # Implementations
//
//   - Noop: returns an empty status
//   - Func: adapts a plain function, handy in tests
//   - runtime.Collector: Go runtime, process and system load telemetry
//
// # Usage
//
//	c := runtime.New()
//	status, err := collector.CollectWithTimeout(ctx, c, defaults.CollectorTimeout)
//	if err != nil {
//	    slog.Debug("telemetry incomplete", "error", err)
//	}
package collector
