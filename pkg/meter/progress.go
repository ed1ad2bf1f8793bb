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
	"time"

	"github.com/NVIDIA/opmeter/pkg/measurement"
)

// Inc advances the current iteration by one.
func (m *Meter) Inc() *Meter {
	return m.IncBy(1)
}

// IncBy advances the current iteration by n and logs a PROGRESS line when
// more than Settings.ProgressPeriod passed since the last one.
func (m *Meter) IncBy(n int64) *Meter {
	if n < 0 {
		m.mu.Lock()
		m.illegal("IncBy", "negative increment")
		m.mu.Unlock()
		return m
	}
	return m.advance("IncBy", func(cur int64) int64 { return cur + n })
}

// IncTo sets the current iteration to n, which must not be lower than the
// current one.
func (m *Meter) IncTo(n int64) *Meter {
	return m.advance("IncTo", func(int64) int64 { return n })
}

// Progress logs a PROGRESS line when more than Settings.ProgressPeriod passed
// since the last one, without changing the iteration.
func (m *Meter) Progress() *Meter {
	return m.advance("Progress", func(cur int64) int64 { return cur })
}

func (m *Meter) advance(call string, next func(cur int64) int64) *Meter {
	m.mu.Lock()
	if !m.requireStarted(call) {
		m.mu.Unlock()
		return m
	}
	n := next(m.data.CurrentIteration)
	if n < m.data.CurrentIteration {
		m.illegal(call, "iteration cannot move backwards")
		m.mu.Unlock()
		return m
	}
	m.data.CurrentIteration = n
	s := m.settings.Current()
	snap, due := m.progressDue(s.ProgressPeriod)
	m.mu.Unlock()

	if due {
		m.emit(slog.LevelInfo, snap, s)
	}
	return m
}

// requireStarted warns and reports false unless the meter is running.
// Callers hold m.mu.
func (m *Meter) requireStarted(call string) bool {
	switch {
	case m.sentinel:
		m.illegal(call, "no operation is running")
	case m.state == StateCreated:
		m.illegal(call, "meter not started")
	case m.state.IsTerminal():
		m.illegal(call, "meter already stopped")
	default:
		return true
	}
	return false
}

// progressDue applies the progress policy: when more than period elapsed since
// the marker, the marker moves to now and a snapshot to log is returned.
// Callers hold m.mu.
func (m *Meter) progressDue(period time.Duration) (*measurement.Measurement, bool) {
	if period <= 0 {
		return nil, false
	}
	now := m.clock()
	m.data.CurrentTime = now
	if now-m.marker <= int64(period) {
		return nil, false
	}
	m.marker = now
	return m.data.Clone(), true
}

// armTimer schedules the background progress check. Callers hold m.mu.
func (m *Meter) armTimer(period time.Duration) {
	if period <= 0 {
		return
	}
	if m.timer == nil {
		m.timer = time.AfterFunc(period, m.onTimer)
		return
	}
	m.timer.Reset(period)
}

// stopTimer cancels the background progress check. Callers hold m.mu.
func (m *Meter) stopTimer() {
	if m.timer != nil {
		m.timer.Stop()
	}
}

// onTimer performs the progress check when no increment arrived during a
// period and re-arms itself while the meter runs.
func (m *Meter) onTimer() {
	m.mu.Lock()
	if m.state != StateStarted {
		m.mu.Unlock()
		return
	}
	s := m.settings.Current()
	period := s.ProgressPeriod
	snap, due := m.progressDue(period)
	m.armTimer(period)
	m.mu.Unlock()

	if due {
		m.emit(slog.LevelInfo, snap, s)
	}
}
