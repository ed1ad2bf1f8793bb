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

package measurement

// Builder provides a fluent API for building Measurement instances, mostly
// for tests and for tools that synthesize records.
type Builder struct {
	m Measurement
}

// NewBuilder creates a Builder for the given category and operation.
func NewBuilder(category, operation string) *Builder {
	return &Builder{m: Measurement{Category: category, Operation: operation}}
}

// Session sets the session identifier.
func (b *Builder) Session(id string) *Builder {
	b.m.SessionID = id
	return b
}

// Position sets the sequence position.
func (b *Builder) Position(pos int64) *Builder {
	b.m.Position = pos
	return b
}

// Parent sets the full id of the enclosing operation.
func (b *Builder) Parent(id string) *Builder {
	b.m.Parent = id
	return b
}

// Description sets the human description.
func (b *Builder) Description(d string) *Builder {
	b.m.Description = d
	return b
}

// Times sets create, start, stop and current times in nanoseconds.
func (b *Builder) Times(create, start, stop, current int64) *Builder {
	b.m.CreateTime = create
	b.m.StartTime = start
	b.m.StopTime = stop
	b.m.CurrentTime = current
	return b
}

// Limit sets the slow-operation threshold in nanoseconds.
func (b *Builder) Limit(ns int64) *Builder {
	b.m.TimeLimit = ns
	return b
}

// Iterations sets the current and expected iteration counts.
func (b *Builder) Iterations(current, expected int64) *Builder {
	b.m.CurrentIteration = current
	b.m.ExpectedIterations = expected
	return b
}

// Put adds a context entry.
func (b *Builder) Put(key, value string) *Builder {
	b.m.Context.Put(key, value)
	return b
}

// OK records a successful outcome.
func (b *Builder) OK(path string) *Builder {
	return b.outcome(OutcomeOK, path, "")
}

// Reject records a rejected outcome with an optional reason.
func (b *Builder) Reject(path, reason string) *Builder {
	return b.outcome(OutcomeReject, path, reason)
}

// Fail records a failed outcome with an optional message.
func (b *Builder) Fail(path, message string) *Builder {
	return b.outcome(OutcomeFail, path, message)
}

func (b *Builder) outcome(o Outcome, path, msg string) *Builder {
	b.m.Outcome = o
	b.m.Path = path
	b.m.Message = msg
	return b
}

// System sets the telemetry block.
func (b *Builder) System(s SystemStatus) *Builder {
	b.m.System = s
	return b
}

// Build returns a copy of the measurement built so far.
func (b *Builder) Build() *Measurement {
	return b.m.Clone()
}
