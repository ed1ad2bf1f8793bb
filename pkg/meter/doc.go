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

// Package meter measures the lifecycle of application operations and reports
// it as log lines.
//
// # Overview
//
// A Meter follows one occurrence of an operation:
//
//	CREATED -> STARTED -> OK | REJECTED | FAILED
//
// Each occurrence gets a position from a per-operation sequence, timestamps
// for creation, start and stop, optional iteration progress and free-form
// context entries. Every transition writes a readable line (through the
// logger) and an encoded line (through the data logger) that offline tools
// parse back with formatter.Parse.
//
// # Usage
//
//	ctx = meter.WithTracker(ctx)
//
//	m := meter.New(ctx, "billing.invoice", "render").
//	    Put("customer", id).
//	    Iterations(int64(len(pages))).
//	    Start()
//	for _, p := range pages {
//	    if err := render(p); err != nil {
//	        m.Fail(err)
//	        return err
//	    }
//	    m.Inc()
//	}
//	m.Ok()
//
// Finish is convenient with defer; it does nothing when an outcome was
// already recorded:
//
//	defer func() { m.Finish(err) }()
//
// # Current Operation
//
// A Tracker attached to a context remembers the running meter. Start makes a
// meter current and its terminal transition restores the previous one, so
// nested operations stack. Current returns the Unknown meter when nothing
// runs, and Sub derives a sub operation from whatever is current:
//
//	child := meter.Sub(ctx, "pdf").Start() // operation "render/pdf"
//
// Goroutines that run their own operations attach their own tracker.
//
// # Misuse
//
// Out of order calls (Inc before Start, a second outcome, moving iterations
// backwards) never panic. They log a throttled "illegal meter call" warning
// carrying an ILLEGAL_STATE error and leave the meter unchanged.
//
// # Settings
//
// Meters read config.Source at creation and at every transition, so changes
// apply to the next line logged. ProgressPeriod enables PROGRESS lines,
// TimeLimit marks slow operations, Telemetry captures runtime telemetry when
// the operation stops.
package meter
