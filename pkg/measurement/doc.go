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

// Package measurement defines the immutable snapshot of one operation
// occurrence and the helpers that inspect, compare and filter it.
//
// # Core Types
//
//   - Measurement: identity, timestamps, iterations, outcome and context
//   - Outcome: OK, REJECT or FAIL; at most one per measurement
//   - Context: insertion-ordered string map of caller diagnostics
//   - SystemStatus: runtime telemetry captured at stop
//
// Meters produce Measurements through Snapshot; formatters render and parse
// them. A Measurement returned to callers is a deep copy and is never changed
// by the meter afterwards.
//
// # Derived Values
//
//	m.ExecutionTime()       // stop (or current) minus start
//	m.WaitingTime()         // start (or current) minus create
//	m.IterationsPerSecond() // iterations over execution seconds
//	m.IsSlow()              // execution time above TimeLimit
//	m.Verb()                // SCHEDULED, STARTED, PROGRESS, OK, REJECT, FAIL
//
// # Building
//
//	m := measurement.NewBuilder("billing.invoice", "render").
//	    Position(3).
//	    Times(100, 200, 1200, 1200).
//	    Put("customer", "42").
//	    OK("cached").
//	    Build()
//
// # Filtering
//
// FilterOut and FilterIn select context keys with wildcard patterns; Redact
// applies FilterOut to a copy of a measurement:
//
//	safe := measurement.Redact(m, []string{"*token*", "password"})
package measurement
