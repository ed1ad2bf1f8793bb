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
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/NVIDIA/opmeter/pkg/collector"
	rtcollector "github.com/NVIDIA/opmeter/pkg/collector/runtime"
	"github.com/NVIDIA/opmeter/pkg/config"
	"github.com/NVIDIA/opmeter/pkg/defaults"
	"github.com/NVIDIA/opmeter/pkg/errors"
	"github.com/NVIDIA/opmeter/pkg/measurement"
	"github.com/NVIDIA/opmeter/pkg/sequence"
	"github.com/NVIDIA/opmeter/pkg/session"
)

// UnknownCategory is the category of the Unknown meter.
const UnknownCategory = "???"

// Unknown is returned by Current when no meter is running. It refuses every
// transition with a usage warning; Sub on it creates a regular meter in the
// UnknownCategory category.
var Unknown = &Meter{
	ctx:      context.Background(),
	data:     measurement.Measurement{Category: UnknownCategory},
	sentinel: true,
	warn:     rate.Sometimes{First: defaults.UsageWarningBurst, Interval: defaults.UsageWarningInterval},
}

var defaultCollector = sync.OnceValue(func() collector.Collector {
	return rtcollector.New()
})

// Meter measures one occurrence of an operation through its lifecycle:
// CREATED, STARTED, then exactly one of OK, REJECTED or FAILED.
//
// Transitions are meant for the goroutine that owns the operation. Snapshot
// and the progress timer may read concurrently. Calls made in the wrong state
// never panic and never return errors: they log an "illegal meter call"
// warning and leave the meter unchanged.
//
// Runtime telemetry is captured at stop only when Settings.Telemetry is on.
// It is off by default (defaults.Telemetry); with it off every SystemStatus
// field stays zero.
type Meter struct {
	ctx        context.Context
	logger     *slog.Logger
	dataLogger *slog.Logger
	registry   *sequence.Registry
	collector  collector.Collector
	settings   config.Source
	clock      Clock
	tracker    *Tracker
	sentinel   bool

	warn rate.Sometimes

	mu            sync.Mutex
	data          measurement.Measurement
	state         State
	previous      *Meter
	pendingPath   string
	iterationsSet bool
	marker        int64
	timer         *time.Timer
}

// New creates a meter for operation of category. The operation may be empty.
// The meter draws its position from the registry under its full id, records
// its creation time and logs a SCHEDULED line at debug level when
// Settings.LogCreate is on. It does not become current until Start.
func New(ctx context.Context, category, operation string, opts ...Option) *Meter {
	if ctx == nil {
		ctx = context.Background()
	}
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}

	m := &Meter{
		ctx:        ctx,
		logger:     o.logger,
		dataLogger: o.dataLogger,
		registry:   o.registry,
		collector:  o.collector,
		settings:   o.settings,
		clock:      o.clock,
		tracker:    TrackerFrom(ctx),
		warn:       rate.Sometimes{First: defaults.UsageWarningBurst, Interval: defaults.UsageWarningInterval},
	}
	if m.logger == nil {
		m.logger = slog.Default()
	}
	if m.dataLogger == nil {
		m.dataLogger = m.logger.With(slog.String("stream", "data"))
	}
	if m.registry == nil {
		m.registry = sequence.Default
	}
	if m.settings == nil {
		m.settings = config.Global()
	}
	if m.clock == nil {
		m.clock = Monotonic
	}

	sid := o.sessionID
	if sid == "" {
		sid = session.ID()
	}
	parent := o.parent
	if !o.parentSet {
		if cur := m.tracker.Current(); !cur.sentinel {
			parent = cur.FullID()
		}
	}

	s := m.settings.Current()
	m.data = measurement.Measurement{
		SessionID:   sid,
		Category:    category,
		Operation:   operation,
		Parent:      parent,
		Description: o.description,
		TimeLimit:   int64(s.TimeLimit),
	}
	m.data.Position = m.registry.Next(m.data.FullID())
	m.data.CreateTime = m.clock()
	m.data.CurrentTime = m.data.CreateTime

	if s.LogCreate {
		m.emit(slog.LevelDebug, m.data.Clone(), s)
	}
	return m
}

// Run creates and starts a meter, calls fn with a context in which the meter
// is current, and finishes the meter with the error fn returns.
func Run(ctx context.Context, category, operation string, fn func(ctx context.Context, m *Meter) error, opts ...Option) error {
	if TrackerFrom(ctx) == nil {
		ctx = WithTracker(ctx)
	}
	m := New(ctx, category, operation, opts...).Start()
	err := fn(ctx, m)
	m.Finish(err)
	return err
}

// Sub creates a meter for a sub operation rooted at m: same category, operation
// "<m's operation>/<name>" or name when m has none, and m as parent. The sub
// meter reports to the same sinks as m.
func (m *Meter) Sub(name string, opts ...Option) *Meter {
	return m.sub(m.ctx, name, opts)
}

func (m *Meter) sub(ctx context.Context, name string, opts []Option) *Meter {
	op := name
	if m.data.Operation != "" {
		op = m.data.Operation + "/" + name
	}
	all := inherit(m)
	if !m.sentinel {
		all = append(all, WithParent(m.FullID()))
	}
	all = append(all, opts...)
	return New(ctx, m.data.Category, op, all...)
}

// Describe sets a human readable description.
func (m *Meter) Describe(description string) *Meter {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.refuseSetup("Describe") {
		return m
	}
	m.data.Description = description
	return m
}

// Describef sets a formatted description.
func (m *Meter) Describef(format string, args ...any) *Meter {
	return m.Describe(fmt.Sprintf(format, args...))
}

// Put adds a context entry rendered with every line of this meter.
func (m *Meter) Put(key, value string) *Meter {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.refuseSetup("Put") {
		return m
	}
	m.data.Context.Put(key, value)
	return m
}

// Putf adds a context entry with a formatted value.
func (m *Meter) Putf(key, format string, args ...any) *Meter {
	return m.Put(key, fmt.Sprintf(format, args...))
}

// Iterations sets the expected number of iterations. It may be set once.
func (m *Meter) Iterations(n int64) *Meter {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.refuseSetup("Iterations") {
		return m
	}
	switch {
	case m.iterationsSet:
		m.illegal("Iterations", "expected iterations already set")
	case n < 0:
		m.illegal("Iterations", "negative expected iterations")
	default:
		m.data.ExpectedIterations = n
		m.iterationsSet = true
	}
	return m
}

// Limit sets the execution time above which lines are marked "(Slow)".
// Zero removes the limit.
func (m *Meter) Limit(d time.Duration) *Meter {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.refuseSetup("Limit") {
		return m
	}
	if d < 0 {
		m.illegal("Limit", "negative time limit")
		return m
	}
	m.data.TimeLimit = int64(d)
	return m
}

// Path sets the path Ok reports.
func (m *Meter) Path(path string) *Meter {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.refuseSetup("Path") {
		return m
	}
	m.pendingPath = path
	return m
}

// refuseSetup warns and reports true when setup is no longer allowed.
// Callers hold m.mu.
func (m *Meter) refuseSetup(call string) bool {
	switch {
	case m.sentinel:
		m.illegal(call, "no operation is running")
		return true
	case m.state.IsTerminal():
		m.illegal(call, "meter already stopped")
		return true
	}
	return false
}

// Start begins the operation: records the start time, makes the meter current
// in its context and logs a STARTED line.
func (m *Meter) Start() *Meter {
	m.mu.Lock()
	switch {
	case m.sentinel:
		m.illegal("Start", "no operation is running")
		m.mu.Unlock()
		return m
	case m.state == StateStarted:
		m.illegal("Start", "meter already started")
		m.mu.Unlock()
		return m
	case m.state.IsTerminal():
		m.illegal("Start", "meter already stopped")
		m.mu.Unlock()
		return m
	}

	s := m.settings.Current()
	now := m.clock()
	m.data.StartTime = now
	m.data.CurrentTime = now
	m.marker = now
	m.state = StateStarted
	if m.tracker != nil {
		m.previous = m.tracker.push(m)
	}
	m.armTimer(s.ProgressPeriod)
	snap := m.data.Clone()
	m.mu.Unlock()

	m.emit(slog.LevelInfo, snap, s)
	return m
}

// Ok stops the operation successfully with the path set by Path, if any.
func (m *Meter) Ok() {
	m.mu.Lock()
	path := m.pendingPath
	m.mu.Unlock()
	m.stop("Ok", measurement.OutcomeOK, path, "")
}

// OkPath stops the operation successfully through path.
func (m *Meter) OkPath(path string) {
	m.stop("OkPath", measurement.OutcomeOK, path, "")
}

// Reject stops the operation as rejected for path: the operation was not
// performed because a precondition did not hold.
func (m *Meter) Reject(path string) {
	m.stop("Reject", measurement.OutcomeReject, path, "")
}

// RejectReason stops the operation as rejected with a reason.
func (m *Meter) RejectReason(path, reason string) {
	m.stop("RejectReason", measurement.OutcomeReject, path, reason)
}

// Fail stops the operation as failed. The path is the StructuredError code of
// err, or its Go type; the message is err.Error().
func (m *Meter) Fail(err error) {
	m.stop("Fail", measurement.OutcomeFail, failPath(err), errorMessage(err))
}

// FailPath stops the operation as failed through path.
func (m *Meter) FailPath(path string, err error) {
	m.stop("FailPath", measurement.OutcomeFail, path, errorMessage(err))
}

// Finish stops the operation with Ok when err is nil and Fail otherwise. It
// does nothing when the meter already stopped, so it is safe to defer after
// explicit outcomes.
func (m *Meter) Finish(err error) {
	m.mu.Lock()
	done := m.state.IsTerminal() && !m.sentinel
	m.mu.Unlock()
	if done {
		return
	}
	if err != nil {
		m.Fail(err)
		return
	}
	m.Ok()
}

func failPath(err error) string {
	if err == nil {
		return "nil"
	}
	if code, ok := errors.CodeOf(err); ok {
		return string(code)
	}
	return fmt.Sprintf("%T", err)
}

func errorMessage(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}

var outcomeStates = map[measurement.Outcome]State{
	measurement.OutcomeOK:     StateOK,
	measurement.OutcomeReject: StateRejected,
	measurement.OutcomeFail:   StateFailed,
}

var outcomeLevels = map[measurement.Outcome]slog.Level{
	measurement.OutcomeOK:     slog.LevelInfo,
	measurement.OutcomeReject: slog.LevelWarn,
	measurement.OutcomeFail:   slog.LevelError,
}

func (m *Meter) stop(call string, outcome measurement.Outcome, path, message string) {
	m.mu.Lock()
	if !m.stoppable(call) {
		m.mu.Unlock()
		return
	}
	s := m.settings.Current()
	now := m.clock()
	m.stopTimer()
	m.mu.Unlock()

	var system measurement.SystemStatus
	if s.Telemetry {
		system = m.collectTelemetry()
	}

	// Outcome, stop time and telemetry become visible together.
	m.mu.Lock()
	if !m.stoppable(call) {
		m.mu.Unlock()
		return
	}
	if m.state == StateCreated {
		m.illegal(call, "meter stopped without start")
	}
	wasStarted := m.state == StateStarted
	m.data.StopTime = now
	m.data.CurrentTime = now
	m.data.System = system
	m.data.Outcome = outcome
	m.data.Path = path
	m.data.Message = message
	m.state = outcomeStates[outcome]
	if wasStarted && m.tracker != nil {
		m.tracker.restore(m.previous)
		m.previous = nil
	}
	snap := m.data.Clone()
	m.mu.Unlock()

	if err := snap.Validate(); err != nil {
		m.logger.Log(m.ctx, slog.LevelError, "meter invariant violated",
			slog.String("category", snap.Category), slog.Any("error", err))
	}
	m.emit(outcomeLevels[outcome], snap, s)
}

// stoppable warns and reports false when no terminal transition is allowed.
// Callers hold m.mu.
func (m *Meter) stoppable(call string) bool {
	switch {
	case m.sentinel:
		m.illegal(call, "no operation is running")
		return false
	case m.state.IsTerminal():
		m.illegal(call, "meter already stopped")
		return false
	}
	return true
}

func (m *Meter) collectTelemetry() measurement.SystemStatus {
	c := m.collector
	if c == nil {
		c = defaultCollector()
	}
	status, err := collector.CollectWithTimeout(m.ctx, c, defaults.CollectorTimeout)
	if err != nil {
		m.logger.Log(m.ctx, slog.LevelDebug, "telemetry incomplete",
			slog.String("category", m.data.Category), slog.Any("error", err))
	}
	return status
}

// Snapshot returns a deep copy of the measurement. CurrentTime is refreshed
// while the meter has not stopped; a stopped meter always returns the same
// snapshot, with CurrentTime equal to StopTime.
func (m *Meter) Snapshot() *measurement.Measurement {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.sentinel && !m.state.IsTerminal() {
		m.data.CurrentTime = m.clock()
	}
	return m.data.Clone()
}

// State returns the lifecycle state.
func (m *Meter) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Position returns the sequence position of this occurrence.
func (m *Meter) Position() int64 { return m.data.Position }

// Category returns the category.
func (m *Meter) Category() string { return m.data.Category }

// Operation returns the operation name, possibly empty.
func (m *Meter) Operation() string { return m.data.Operation }

// FullID returns "category" or "category/operation".
func (m *Meter) FullID() string { return m.data.FullID() }

// Context returns a copy of the context entries.
func (m *Meter) Context() measurement.Context {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.data.Context.Clone()
}

// IsUnknown reports whether m is the Unknown meter.
func (m *Meter) IsUnknown() bool { return m.sentinel }

// illegal logs a throttled usage warning. Callers hold m.mu.
func (m *Meter) illegal(call, reason string) {
	m.warn.Do(func() {
		err := errors.NewWithContext(errors.ErrCodeIllegalState, reason, map[string]any{
			"call":     call,
			"id":       m.data.FullID(),
			"position": m.data.Position,
			"state":    m.state.String(),
		})
		m.log().Log(m.ctx, slog.LevelWarn, "illegal meter call",
			slog.String("category", m.data.Category),
			slog.String("call", call),
			slog.Any("error", err))
	})
}

func (m *Meter) log() *slog.Logger {
	if m.logger == nil {
		return slog.Default()
	}
	return m.logger
}
