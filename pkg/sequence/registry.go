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

package sequence

import (
	"math"
	"sync"
	"sync/atomic"
)

// Registry hands out per-key position numbers.
// It is concurrency-safe; counters are created on first use and never locked
// across keys.
type Registry struct {
	counters sync.Map // map[string]*atomic.Int64
}

// NewRegistry constructs an empty Registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// Default is the process-wide registry used by meters unless overridden.
var Default = NewRegistry()

// Next returns the next position for key from the Default registry.
func Next(key string) int64 {
	return Default.Next(key)
}

func (r *Registry) counter(key string) *atomic.Int64 {
	// fast path avoids allocating a counter for known keys
	if v, ok := r.counters.Load(key); ok {
		return v.(*atomic.Int64)
	}
	v, _ := r.counters.LoadOrStore(key, new(atomic.Int64))
	return v.(*atomic.Int64)
}

// Next increments the counter for key and returns the new value.
// The first value is 1. After math.MaxInt64 the counter wraps to 1; zero is
// never returned because it means "unset". Wraparound is best-effort: a key
// that exhausts the int64 range can reuse positions of operations still in flight.
func (r *Registry) Next(key string) int64 {
	c := r.counter(key)
	for {
		cur := c.Load()
		next := cur + 1
		if cur == math.MaxInt64 {
			next = 1
		}
		if c.CompareAndSwap(cur, next) {
			return next
		}
	}
}

// Peek returns the last value handed out for key, or 0 if none.
func (r *Registry) Peek(key string) int64 {
	if v, ok := r.counters.Load(key); ok {
		return v.(*atomic.Int64).Load()
	}
	return 0
}

// Seed sets the last value handed out for key, so the next call returns v+1
// (or 1 when v is math.MaxInt64).
func (r *Registry) Seed(key string, v int64) {
	r.counter(key).Store(v)
}

// Reset drops every counter.
func (r *Registry) Reset() {
	r.counters.Range(func(k, _ any) bool {
		r.counters.Delete(k)
		return true
	})
}

// Keys returns the keys with a counter, in no particular order.
func (r *Registry) Keys() []string {
	out := make([]string, 0)
	r.counters.Range(func(k, _ any) bool {
		if s, ok := k.(string); ok {
			out = append(out, s)
		}
		return true
	})
	return out
}
