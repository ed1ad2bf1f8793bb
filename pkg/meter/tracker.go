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
	"sync/atomic"
)

type trackerKey struct{}

// Tracker holds the most recently started, not yet stopped meter of one
// logical flow of control. Start installs a meter and every terminal
// transition restores the meter that was current before it, so nested
// meters behave as a stack.
//
// A Tracker belongs to a context; goroutines that run operations of their own
// attach their own tracker with WithTracker.
type Tracker struct {
	current atomic.Pointer[Meter]
}

// WithTracker returns a copy of ctx carrying a fresh, empty Tracker.
func WithTracker(ctx context.Context) context.Context {
	return context.WithValue(ctx, trackerKey{}, &Tracker{})
}

// TrackerFrom returns the tracker carried by ctx, or nil.
func TrackerFrom(ctx context.Context) *Tracker {
	if ctx == nil {
		return nil
	}
	t, _ := ctx.Value(trackerKey{}).(*Tracker)
	return t
}

// Current returns the current meter, or Unknown when none is running.
func (t *Tracker) Current() *Meter {
	if t == nil {
		return Unknown
	}
	if m := t.current.Load(); m != nil {
		return m
	}
	return Unknown
}

func (t *Tracker) push(m *Meter) *Meter {
	return t.current.Swap(m)
}

func (t *Tracker) restore(previous *Meter) {
	t.current.Store(previous)
}

// Current returns the meter current in ctx, or Unknown.
func Current(ctx context.Context) *Meter {
	return TrackerFrom(ctx).Current()
}

// Sub creates a meter for a sub operation of the meter current in ctx. The
// new meter has the current meter's category and the operation
// "<current operation>/<name>", or just name when the current meter has no
// operation or none is running.
func Sub(ctx context.Context, name string, opts ...Option) *Meter {
	return Current(ctx).sub(ctx, name, opts)
}
