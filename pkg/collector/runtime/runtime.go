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

package runtime

import (
	"context"
	stderrors "errors"
	"fmt"
	"math"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	dto "github.com/prometheus/client_model/go"
	"github.com/prometheus/procfs"

	"github.com/NVIDIA/opmeter/pkg/errors"
	"github.com/NVIDIA/opmeter/pkg/measurement"
)

// Metric family names read from the Go and process collectors.
const (
	metricHeapAlloc     = "go_memstats_heap_alloc_bytes"
	metricHeapSys       = "go_memstats_heap_sys_bytes"
	metricStackInuse    = "go_memstats_stack_inuse_bytes"
	metricSys           = "go_memstats_sys_bytes"
	metricMemoryLimit   = "go_gc_gomemlimit_bytes"
	metricGoroutines    = "go_goroutines"
	metricThreads       = "go_threads"
	metricGCDuration    = "go_gc_duration_seconds"
	metricResidentBytes = "process_resident_memory_bytes"
)

// Option configures a Collector.
type Option func(*Collector)

// WithProcRoot reads system load from a procfs mounted at root instead of
// /proc.
func WithProcRoot(root string) Option {
	return func(c *Collector) {
		c.procRoot = root
	}
}

// WithGatherer replaces the private prometheus registry.
func WithGatherer(g prometheus.Gatherer) Option {
	return func(c *Collector) {
		c.gatherer = g
	}
}

// Collector reads Go runtime and process telemetry from a private prometheus
// registry, and the one minute load average from procfs.
type Collector struct {
	gatherer prometheus.Gatherer
	procRoot string

	fsOnce sync.Once
	fs     procfs.FS
	fsErr  error
}

// New returns a collector backed by a private registry holding the Go and
// process collectors.
func New(opts ...Option) *Collector {
	c := &Collector{procRoot: procfs.DefaultMountPoint}
	for _, opt := range opts {
		opt(c)
	}
	if c.gatherer == nil {
		reg := prometheus.NewRegistry()
		reg.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
		c.gatherer = reg
	}
	return c
}

// Collect gathers a SystemStatus. Sources that fail are reported together in
// an ErrCodeUnavailable error while the fields read successfully are kept.
func (c *Collector) Collect(ctx context.Context) (*measurement.SystemStatus, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s := &measurement.SystemStatus{}
	var errs []error

	families, err := c.gatherer.Gather()
	if err != nil {
		errs = append(errs, fmt.Errorf("gather runtime metrics: %w", err))
	}
	applyFamilies(s, families)

	if err := ctx.Err(); err != nil {
		return s, err
	}

	load, err := c.loadAverage()
	if err != nil {
		errs = append(errs, fmt.Errorf("read load average: %w", err))
	} else {
		s.SystemLoad = load
	}

	if len(errs) > 0 {
		return s, errors.Wrap(errors.ErrCodeUnavailable, "telemetry partially unavailable", stderrors.Join(errs...))
	}
	return s, nil
}

func (c *Collector) loadAverage() (float64, error) {
	c.fsOnce.Do(func() {
		c.fs, c.fsErr = procfs.NewFS(c.procRoot)
	})
	if c.fsErr != nil {
		return 0, c.fsErr
	}
	la, err := c.fs.LoadAvg()
	if err != nil {
		return 0, err
	}
	return la.Load1, nil
}

func applyFamilies(s *measurement.SystemStatus, families []*dto.MetricFamily) {
	values := make(map[string]*dto.Metric, len(families))
	for _, mf := range families {
		if len(mf.GetMetric()) > 0 {
			values[mf.GetName()] = mf.GetMetric()[0]
		}
	}

	s.HeapUsed = gauge(values[metricHeapAlloc])
	s.HeapCommitted = gauge(values[metricHeapSys])
	s.NonHeapUsed = gauge(values[metricStackInuse])
	s.RuntimeMemory = gauge(values[metricSys])
	if s.RuntimeMemory > s.HeapCommitted {
		s.NonHeapCommitted = s.RuntimeMemory - s.HeapCommitted
	}
	// math.MaxInt64 means no soft limit.
	if limit := gauge(values[metricMemoryLimit]); limit < math.MaxInt64 {
		s.HeapMax = limit
	}
	s.Goroutines = gauge(values[metricGoroutines])
	s.Threads = gauge(values[metricThreads])
	s.ResidentMemory = gauge(values[metricResidentBytes])

	if m := values[metricGCDuration]; m != nil && m.GetSummary() != nil {
		s.GCCount = int64(m.GetSummary().GetSampleCount())
		s.GCTime = int64(m.GetSummary().GetSampleSum() * 1e9)
	}
}

// gauge returns the integer value of a gauge or counter sample, zero when absent.
func gauge(m *dto.Metric) int64 {
	switch {
	case m == nil:
		return 0
	case m.GetGauge() != nil:
		return clamp(m.GetGauge().GetValue())
	case m.GetCounter() != nil:
		return clamp(m.GetCounter().GetValue())
	case m.GetUntyped() != nil:
		return clamp(m.GetUntyped().GetValue())
	}
	return 0
}

func clamp(v float64) int64 {
	switch {
	case math.IsNaN(v) || v <= 0:
		return 0
	case v >= math.MaxInt64:
		return math.MaxInt64
	}
	return int64(v)
}
