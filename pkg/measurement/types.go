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

import (
	"fmt"
	"strings"
	"time"

	"github.com/NVIDIA/opmeter/pkg/errors"
)

// Outcome is the terminal classification of an operation.
type Outcome string

// String returns the string representation of the Outcome.
func (o Outcome) String() string {
	return string(o)
}

const (
	OutcomeNone   Outcome = ""
	OutcomeOK     Outcome = "OK"
	OutcomeReject Outcome = "REJECT"
	OutcomeFail   Outcome = "FAIL"
)

// Outcomes is the list of all terminal outcomes.
var Outcomes = []Outcome{
	OutcomeOK,
	OutcomeReject,
	OutcomeFail,
}

// ParseOutcome parses a string into an Outcome.
// Returns the Outcome and true if parsing succeeds, or empty Outcome and false if the string is invalid.
func ParseOutcome(s string) (Outcome, bool) {
	for _, o := range Outcomes {
		if string(o) == s {
			return o, true
		}
	}
	return "", false
}

// Verb names the lifecycle stage a snapshot describes.
type Verb string

const (
	VerbScheduled Verb = "SCHEDULED"
	VerbStarted   Verb = "STARTED"
	VerbProgress  Verb = "PROGRESS"
	VerbOK        Verb = "OK"
	VerbReject    Verb = "REJECT"
	VerbFail      Verb = "FAIL"
)

// Measurement is the snapshot of one operation occurrence.
//
// Times are monotonic clock readings in nanoseconds; zero means the point was
// not reached yet. The outcome is the pair (Outcome, Path): a measurement
// carries at most one of the OK, reject and fail paths by construction.
type Measurement struct {
	SessionID   string `json:"sessionId,omitempty" yaml:"sessionId,omitempty"`
	Position    int64  `json:"position" yaml:"position"`
	Category    string `json:"category" yaml:"category"`
	Operation   string `json:"operation,omitempty" yaml:"operation,omitempty"`
	Parent      string `json:"parent,omitempty" yaml:"parent,omitempty"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`

	CreateTime  int64 `json:"createTime" yaml:"createTime"`
	StartTime   int64 `json:"startTime,omitempty" yaml:"startTime,omitempty"`
	StopTime    int64 `json:"stopTime,omitempty" yaml:"stopTime,omitempty"`
	CurrentTime int64 `json:"currentTime" yaml:"currentTime"`
	TimeLimit   int64 `json:"timeLimit,omitempty" yaml:"timeLimit,omitempty"`

	CurrentIteration   int64 `json:"currentIteration,omitempty" yaml:"currentIteration,omitempty"`
	ExpectedIterations int64 `json:"expectedIterations,omitempty" yaml:"expectedIterations,omitempty"`

	Outcome Outcome `json:"outcome,omitempty" yaml:"outcome,omitempty"`
	Path    string  `json:"path,omitempty" yaml:"path,omitempty"`
	Message string  `json:"message,omitempty" yaml:"message,omitempty"`

	Context Context      `json:"context,omitzero" yaml:"context,omitempty"`
	System  SystemStatus `json:"system,omitzero" yaml:"system,omitempty"`
}

// FullID returns "category" or "category/operation".
func (m *Measurement) FullID() string {
	if m.Operation == "" {
		return m.Category
	}
	return m.Category + "/" + m.Operation
}

// IsStarted reports whether the operation was started.
func (m *Measurement) IsStarted() bool { return m.StartTime != 0 }

// IsTerminal reports whether an outcome was recorded.
func (m *Measurement) IsTerminal() bool { return m.Outcome != OutcomeNone }

// OKPath returns the path of a successful outcome.
func (m *Measurement) OKPath() (string, bool) { return m.pathFor(OutcomeOK) }

// RejectPath returns the path of a rejected outcome.
func (m *Measurement) RejectPath() (string, bool) { return m.pathFor(OutcomeReject) }

// FailPath returns the path of a failed outcome.
func (m *Measurement) FailPath() (string, bool) { return m.pathFor(OutcomeFail) }

func (m *Measurement) pathFor(o Outcome) (string, bool) {
	if m.Outcome != o {
		return "", false
	}
	return m.Path, true
}

// ExecutionTime returns the time spent since start: up to stop when stopped,
// up to CurrentTime otherwise. Zero when never started.
func (m *Measurement) ExecutionTime() int64 {
	switch {
	case m.StartTime == 0:
		return 0
	case m.StopTime != 0:
		return m.StopTime - m.StartTime
	default:
		return m.CurrentTime - m.StartTime
	}
}

// WaitingTime returns the time between creation and start, or between creation
// and CurrentTime when never started.
func (m *Measurement) WaitingTime() int64 {
	if m.StartTime != 0 {
		return m.StartTime - m.CreateTime
	}
	if m.StopTime != 0 {
		return m.StopTime - m.CreateTime
	}
	return m.CurrentTime - m.CreateTime
}

// IterationsPerSecond returns CurrentIteration divided by the execution time
// in seconds, or 0 when no time elapsed.
func (m *Measurement) IterationsPerSecond() float64 {
	exec := m.ExecutionTime()
	if exec <= 0 {
		return 0
	}
	return float64(m.CurrentIteration) / (float64(exec) / float64(time.Second))
}

// IsSlow reports whether the execution time exceeded a configured limit.
func (m *Measurement) IsSlow() bool {
	return m.TimeLimit > 0 && m.StartTime != 0 && m.ExecutionTime() > m.TimeLimit
}

// Verb returns the lifecycle stage derived from timestamps and outcome.
func (m *Measurement) Verb() Verb {
	switch m.Outcome {
	case OutcomeOK:
		return VerbOK
	case OutcomeReject:
		return VerbReject
	case OutcomeFail:
		return VerbFail
	}
	if m.StartTime == 0 {
		return VerbScheduled
	}
	if m.CurrentIteration == 0 {
		return VerbStarted
	}
	return VerbProgress
}

// Clone returns a deep copy.
func (m *Measurement) Clone() *Measurement {
	c := *m
	c.Context = m.Context.Clone()
	return &c
}

// Equal compares every field, including context order.
func (m *Measurement) Equal(other *Measurement) bool {
	return len(Diff(m, other)) == 0
}

// Validate checks the timing and outcome invariants.
func (m *Measurement) Validate() error {
	var problems []string
	if m.StartTime != 0 && m.StartTime < m.CreateTime {
		problems = append(problems, "start before create")
	}
	if m.StopTime != 0 && m.StartTime != 0 && m.StopTime < m.StartTime {
		problems = append(problems, "stop before start")
	}
	if m.StopTime != 0 && m.StopTime < m.CreateTime {
		problems = append(problems, "stop before create")
	}
	if m.Outcome != OutcomeNone {
		if _, ok := ParseOutcome(string(m.Outcome)); !ok {
			problems = append(problems, fmt.Sprintf("unknown outcome %q", m.Outcome))
		}
		if m.StopTime == 0 {
			problems = append(problems, "outcome without stop time")
		}
	} else {
		if m.StopTime != 0 {
			problems = append(problems, "stop time without outcome")
		}
		if m.Path != "" || m.Message != "" {
			problems = append(problems, "path or message without outcome")
		}
	}
	if m.Message != "" && m.Outcome == OutcomeOK {
		problems = append(problems, "message on successful outcome")
	}
	if m.CurrentIteration < 0 || m.ExpectedIterations < 0 {
		problems = append(problems, "negative iteration count")
	}
	if len(problems) == 0 {
		return nil
	}
	return errors.NewWithContext(errors.ErrCodeInternal, "inconsistent measurement: "+strings.Join(problems, ", "),
		map[string]any{"id": m.FullID(), "position": m.Position})
}
